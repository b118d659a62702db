// File: walk.go
// Title: AST Traversal
// Description: Depth-first traversal in source order. Walk follows the
//              go/ast convention: the visitor returned for a node is used
//              for its children and Visit(nil) closes the node.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-18
// Modified: 2026-10-18
//
// Change History:
// - 2026-10-18 v0.1.0: Initial implementation

package ast

import "fmt"

// Visitor is called for every node reached by Walk
type Visitor interface {
	Visit(node Node) (w Visitor)
}

// field is a labelled child slot of a node. Single-child slots hold one
// element; list slots set list even when empty.
type field struct {
	name  string
	nodes []Node
	list  bool
}

func one(name string, n Node) field {
	if isNil(n) {
		return field{name: name}
	}
	return field{name: name, nodes: []Node{n}}
}

func many[T Node](name string, items []T) field {
	nodes := make([]Node, len(items))
	for i, it := range items {
		nodes[i] = it
	}
	return field{name: name, nodes: nodes, list: true}
}

// isNil catches both untyped nil and typed nil pointers stored in an
// interface slot
func isNil(n Node) bool {
	if n == nil {
		return true
	}
	switch v := n.(type) {
	case *Identifier:
		return v == nil
	case *BlockStatement:
		return v == nil
	case *VariableStatement:
		return v == nil
	}
	return false
}

// fields returns the labelled children of n in source order
func fields(n Node) []field {
	switch n := n.(type) {
	case *Program:
		return []field{many("body", n.Body)}
	case *ExpressionStatement:
		return []field{one("expression", n.Expression)}
	case *BlockStatement:
		return []field{many("body", n.Body)}
	case *VariableStatement:
		return []field{many("declarations", n.Declarations)}
	case *VariableDeclaration:
		return []field{one("id", n.ID), one("init", n.Init)}
	case *IfStatement:
		return []field{one("test", n.Test), one("consequent", n.Consequent), one("alternate", n.Alternate)}
	case *WhileStatement:
		return []field{one("test", n.Test), one("body", n.Body)}
	case *DoWhileStatement:
		return []field{one("body", n.Body), one("test", n.Test)}
	case *ForStatement:
		return []field{one("init", n.Init), one("test", n.Test), one("update", n.Update), one("body", n.Body)}
	case *FunctionDeclaration:
		return []field{one("name", n.Name), many("params", n.Params), one("body", n.Body)}
	case *ClassDeclaration:
		return []field{one("id", n.ID), one("superClass", n.SuperClass), one("body", n.Body)}
	case *ReturnStatement:
		return []field{one("argument", n.Argument)}
	case *AssignmentExpression:
		return []field{one("left", n.Left), one("right", n.Right)}
	case *LogicalExpression:
		return []field{one("left", n.Left), one("right", n.Right)}
	case *BinaryExpression:
		return []field{one("left", n.Left), one("right", n.Right)}
	case *UnaryExpression:
		return []field{one("argument", n.Argument)}
	case *CallExpression:
		return []field{one("callee", n.Callee), many("arguments", n.Arguments)}
	case *MemberExpression:
		return []field{one("object", n.Object), one("property", n.Property)}
	case *NewExpression:
		return []field{one("callee", n.Callee), many("arguments", n.Arguments)}
	case *EmptyStatement, *Identifier, *ThisExpression, *Super,
		*NumericLiteral, *StringLiteral, *BooleanLiteral, *NullLiteral:
		return nil
	default:
		panic(fmt.Sprintf("ast: unexpected node type %T", n))
	}
}

// Children returns the direct children of n in source order, skipping
// absent optional children
func Children(n Node) []Node {
	var out []Node
	for _, f := range fields(n) {
		out = append(out, f.nodes...)
	}
	return out
}

// Walk traverses the tree rooted at node depth-first. It calls
// v.Visit(node); if the returned visitor w is not nil, Walk visits each
// child with w, followed by a call of w.Visit(nil).
func Walk(v Visitor, node Node) {
	if v = v.Visit(node); v == nil {
		return
	}
	for _, child := range Children(node) {
		Walk(v, child)
	}
	v.Visit(nil)
}

type inspector func(Node) bool

func (f inspector) Visit(node Node) Visitor {
	if f(node) {
		return f
	}
	return nil
}

// Inspect calls f for every node in depth-first order. If f returns false
// the children of that node are skipped. After the children, f(nil) is
// called.
func Inspect(node Node, f func(Node) bool) {
	Walk(inspector(f), node)
}

// Count returns how many nodes of each type the tree contains
func Count(node Node) map[string]int {
	counts := make(map[string]int)
	Inspect(node, func(n Node) bool {
		if n != nil {
			counts[n.Type()]++
		}
		return true
	})
	return counts
}

// Size returns the total number of nodes in the tree
func Size(node Node) int {
	total := 0
	for _, c := range Count(node) {
		total += c
	}
	return total
}
