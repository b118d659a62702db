// File: json.go
// Title: AST JSON Encoding
// Description: Encodes nodes as JSON objects whose first member is the
//              "type" discriminant followed by the node's fields. Absent
//              optional children encode as null and lists are never null.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-18
// Modified: 2026-10-18
//
// Change History:
// - 2026-10-18 v0.1.0: Initial implementation

package ast

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// tagged marshals fields, a method-free copy of n, and prepends the type
func tagged(n Node, fields interface{}) ([]byte, error) {
	body, err := marshal(fields)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.WriteString(`{"type":`)
	buf.WriteString(strconv.Quote(n.Type()))
	if len(body) > 2 {
		buf.WriteByte(',')
		buf.Write(body[1:])
	} else {
		buf.WriteByte('}')
	}
	return buf.Bytes(), nil
}

// marshal is json.Marshal without HTML escaping, so operators such as "<"
// and "&&" stay readable
func marshal(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

func (n *Program) MarshalJSON() ([]byte, error) {
	type plain Program
	p := plain(*n)
	p.Body = nonNil(p.Body)
	return tagged(n, p)
}

func (n *ExpressionStatement) MarshalJSON() ([]byte, error) {
	type plain ExpressionStatement
	return tagged(n, plain(*n))
}

func (n *BlockStatement) MarshalJSON() ([]byte, error) {
	type plain BlockStatement
	p := plain(*n)
	p.Body = nonNil(p.Body)
	return tagged(n, p)
}

func (n *EmptyStatement) MarshalJSON() ([]byte, error) {
	return tagged(n, struct{}{})
}

func (n *VariableStatement) MarshalJSON() ([]byte, error) {
	type plain VariableStatement
	p := plain(*n)
	p.Declarations = nonNil(p.Declarations)
	return tagged(n, p)
}

func (n *VariableDeclaration) MarshalJSON() ([]byte, error) {
	type plain VariableDeclaration
	return tagged(n, plain(*n))
}

func (n *IfStatement) MarshalJSON() ([]byte, error) {
	type plain IfStatement
	return tagged(n, plain(*n))
}

func (n *WhileStatement) MarshalJSON() ([]byte, error) {
	type plain WhileStatement
	return tagged(n, plain(*n))
}

func (n *DoWhileStatement) MarshalJSON() ([]byte, error) {
	type plain DoWhileStatement
	return tagged(n, plain(*n))
}

func (n *ForStatement) MarshalJSON() ([]byte, error) {
	type plain ForStatement
	return tagged(n, plain(*n))
}

func (n *FunctionDeclaration) MarshalJSON() ([]byte, error) {
	type plain FunctionDeclaration
	p := plain(*n)
	p.Params = nonNil(p.Params)
	return tagged(n, p)
}

func (n *ClassDeclaration) MarshalJSON() ([]byte, error) {
	type plain ClassDeclaration
	return tagged(n, plain(*n))
}

func (n *ReturnStatement) MarshalJSON() ([]byte, error) {
	type plain ReturnStatement
	return tagged(n, plain(*n))
}

func (n *AssignmentExpression) MarshalJSON() ([]byte, error) {
	type plain AssignmentExpression
	return tagged(n, plain(*n))
}

func (n *LogicalExpression) MarshalJSON() ([]byte, error) {
	type plain LogicalExpression
	return tagged(n, plain(*n))
}

func (n *BinaryExpression) MarshalJSON() ([]byte, error) {
	type plain BinaryExpression
	return tagged(n, plain(*n))
}

func (n *UnaryExpression) MarshalJSON() ([]byte, error) {
	type plain UnaryExpression
	return tagged(n, plain(*n))
}

func (n *CallExpression) MarshalJSON() ([]byte, error) {
	type plain CallExpression
	p := plain(*n)
	p.Arguments = nonNil(p.Arguments)
	return tagged(n, p)
}

func (n *MemberExpression) MarshalJSON() ([]byte, error) {
	type plain MemberExpression
	return tagged(n, plain(*n))
}

func (n *NewExpression) MarshalJSON() ([]byte, error) {
	type plain NewExpression
	p := plain(*n)
	p.Arguments = nonNil(p.Arguments)
	return tagged(n, p)
}

func (n *Identifier) MarshalJSON() ([]byte, error) {
	type plain Identifier
	return tagged(n, plain(*n))
}

func (n *ThisExpression) MarshalJSON() ([]byte, error) {
	return tagged(n, struct{}{})
}

func (n *Super) MarshalJSON() ([]byte, error) {
	return tagged(n, struct{}{})
}

func (n *NumericLiteral) MarshalJSON() ([]byte, error) {
	type plain NumericLiteral
	return tagged(n, plain(*n))
}

func (n *StringLiteral) MarshalJSON() ([]byte, error) {
	type plain StringLiteral
	return tagged(n, plain(*n))
}

func (n *BooleanLiteral) MarshalJSON() ([]byte, error) {
	type plain BooleanLiteral
	return tagged(n, plain(*n))
}

func (n *NullLiteral) MarshalJSON() ([]byte, error) {
	return tagged(n, struct {
		Value interface{} `json:"value"`
	}{nil})
}

// ToJSON encodes a tree, indented when indent is non-empty
func ToJSON(n Node, indent string) ([]byte, error) {
	if indent == "" {
		return marshal(n)
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", indent)
	if err := enc.Encode(n); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
