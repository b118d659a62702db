// File: nodes.go
// Title: Script AST Node Definitions
// Description: Node variants of the abstract syntax tree. Every node reports
//              its type tag; statements and expressions carry marker methods
//              so the compiler rejects an expression where a statement is
//              required. Trees are built once by the parser and are not
//              mutated afterwards. Each child has exactly one parent.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-18
// Modified: 2026-10-18
//
// Change History:
// - 2026-10-18 v0.1.0: Initial implementation

package ast

// Node represents the base interface for all AST nodes
type Node interface {
	// Type returns the discriminant, e.g. "BinaryExpression"
	Type() string
}

// Statement is a node that may appear in a statement list
type Statement interface {
	Node
	stmtNode()
}

// Expression is a node that produces a value
type Expression interface {
	Node
	exprNode()
}

// Program is the root of every tree
type Program struct {
	Body []Statement `json:"body"`
}

// ----------------------------------------------------------------------------
// Statements

type ExpressionStatement struct {
	Expression Expression `json:"expression"`
}

type BlockStatement struct {
	Body []Statement `json:"body"`
}

type EmptyStatement struct{}

// VariableStatement is a `let` statement. It also serves as the init clause
// of a for statement, where no trailing semicolon belongs to it.
type VariableStatement struct {
	Declarations []*VariableDeclaration `json:"declarations"`
}

// VariableDeclaration binds one name; Init is nil without an initializer
type VariableDeclaration struct {
	ID   *Identifier `json:"id"`
	Init Expression  `json:"init"`
}

type IfStatement struct {
	Test       Expression `json:"test"`
	Consequent Statement  `json:"consequent"`
	Alternate  Statement  `json:"alternate"`
}

type WhileStatement struct {
	Test Expression `json:"test"`
	Body Statement  `json:"body"`
}

type DoWhileStatement struct {
	Body *BlockStatement `json:"body"`
	Test Expression      `json:"test"`
}

// ForStatement holds optional clauses. Init is either a *VariableStatement
// or an Expression.
type ForStatement struct {
	Init   Node       `json:"init"`
	Test   Expression `json:"test"`
	Update Expression `json:"update"`
	Body   Statement  `json:"body"`
}

type FunctionDeclaration struct {
	Name   *Identifier     `json:"name"`
	Params []*Identifier   `json:"params"`
	Body   *BlockStatement `json:"body"`
}

// ClassDeclaration holds methods as FunctionDeclarations inside Body
type ClassDeclaration struct {
	ID         *Identifier     `json:"id"`
	SuperClass *Identifier     `json:"superClass"`
	Body       *BlockStatement `json:"body"`
}

type ReturnStatement struct {
	Argument Expression `json:"argument"`
}

// ----------------------------------------------------------------------------
// Expressions

// AssignmentExpression has an Identifier or MemberExpression as Left
type AssignmentExpression struct {
	Operator string     `json:"operator"`
	Left     Expression `json:"left"`
	Right    Expression `json:"right"`
}

// LogicalExpression covers && and ||
type LogicalExpression struct {
	Operator string     `json:"operator"`
	Left     Expression `json:"left"`
	Right    Expression `json:"right"`
}

type BinaryExpression struct {
	Operator string     `json:"operator"`
	Left     Expression `json:"left"`
	Right    Expression `json:"right"`
}

// UnaryExpression is a prefix +, - or !
type UnaryExpression struct {
	Operator string     `json:"operator"`
	Argument Expression `json:"argument"`
}

type CallExpression struct {
	Callee    Expression   `json:"callee"`
	Arguments []Expression `json:"arguments"`
}

// MemberExpression is obj.prop (Computed false) or obj[expr] (Computed true)
type MemberExpression struct {
	Computed bool       `json:"computed"`
	Object   Expression `json:"object"`
	Property Expression `json:"property"`
}

type NewExpression struct {
	Callee    Expression   `json:"callee"`
	Arguments []Expression `json:"arguments"`
}

type Identifier struct {
	Name string `json:"name"`
}

type ThisExpression struct{}

type Super struct{}

// NumericLiteral keeps the digits as written in the source
type NumericLiteral struct {
	Value string `json:"value"`
}

// StringLiteral holds the text between the quotes
type StringLiteral struct {
	Value string `json:"value"`
}

type BooleanLiteral struct {
	Value bool `json:"value"`
}

type NullLiteral struct{}

// ----------------------------------------------------------------------------
// Type tags

func (*Program) Type() string              { return "Program" }
func (*ExpressionStatement) Type() string  { return "ExpressionStatement" }
func (*BlockStatement) Type() string       { return "BlockStatement" }
func (*EmptyStatement) Type() string       { return "EmptyStatement" }
func (*VariableStatement) Type() string    { return "VariableStatement" }
func (*VariableDeclaration) Type() string  { return "VariableDeclaration" }
func (*IfStatement) Type() string          { return "IfStatement" }
func (*WhileStatement) Type() string       { return "WhileStatement" }
func (*DoWhileStatement) Type() string     { return "DoWhileStatement" }
func (*ForStatement) Type() string         { return "ForStatement" }
func (*FunctionDeclaration) Type() string  { return "FunctionDeclaration" }
func (*ClassDeclaration) Type() string     { return "ClassDeclaration" }
func (*ReturnStatement) Type() string      { return "ReturnStatement" }
func (*AssignmentExpression) Type() string { return "AssignmentExpression" }
func (*LogicalExpression) Type() string    { return "LogicalExpression" }
func (*BinaryExpression) Type() string     { return "BinaryExpression" }
func (*UnaryExpression) Type() string      { return "UnaryExpression" }
func (*CallExpression) Type() string       { return "CallExpression" }
func (*MemberExpression) Type() string     { return "MemberExpression" }
func (*NewExpression) Type() string        { return "NewExpression" }
func (*Identifier) Type() string           { return "Identifier" }
func (*ThisExpression) Type() string       { return "ThisExpression" }
func (*Super) Type() string                { return "Super" }
func (*NumericLiteral) Type() string       { return "NumericLiteral" }
func (*StringLiteral) Type() string        { return "StringLiteral" }
func (*BooleanLiteral) Type() string       { return "BooleanLiteral" }
func (*NullLiteral) Type() string          { return "NullLiteral" }

func (*ExpressionStatement) stmtNode() {}
func (*BlockStatement) stmtNode()      {}
func (*EmptyStatement) stmtNode()      {}
func (*VariableStatement) stmtNode()   {}
func (*IfStatement) stmtNode()         {}
func (*WhileStatement) stmtNode()      {}
func (*DoWhileStatement) stmtNode()    {}
func (*ForStatement) stmtNode()        {}
func (*FunctionDeclaration) stmtNode() {}
func (*ClassDeclaration) stmtNode()    {}
func (*ReturnStatement) stmtNode()     {}

func (*AssignmentExpression) exprNode() {}
func (*LogicalExpression) exprNode()    {}
func (*BinaryExpression) exprNode()     {}
func (*UnaryExpression) exprNode()      {}
func (*CallExpression) exprNode()       {}
func (*MemberExpression) exprNode()     {}
func (*NewExpression) exprNode()        {}
func (*Identifier) exprNode()           {}
func (*ThisExpression) exprNode()       {}
func (*Super) exprNode()                {}
func (*NumericLiteral) exprNode()       {}
func (*StringLiteral) exprNode()        {}
func (*BooleanLiteral) exprNode()       {}
func (*NullLiteral) exprNode()          {}

// IsAssignmentTarget reports whether e may appear left of = or a compound
// assignment operator
func IsAssignmentTarget(e Expression) bool {
	switch e.(type) {
	case *Identifier, *MemberExpression:
		return true
	default:
		return false
	}
}
