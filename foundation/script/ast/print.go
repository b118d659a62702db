// File: print.go
// Title: AST Tree Printer
// Description: Renders a tree as indented text with one node per line and
//              the field name leading each child, for the CLI, the REPL and
//              the explorer.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-18
// Modified: 2026-10-18
//
// Change History:
// - 2026-10-18 v0.1.0: Initial implementation

package ast

import (
	"fmt"
	"io"
	"strings"
)

// Describe returns a one-line label for n: its type plus the scalar that
// identifies it, e.g. `Identifier x` or `BinaryExpression "+"`
func Describe(n Node) string {
	switch n := n.(type) {
	case *Identifier:
		return "Identifier " + n.Name
	case *NumericLiteral:
		return "NumericLiteral " + n.Value
	case *StringLiteral:
		return fmt.Sprintf("StringLiteral %q", n.Value)
	case *BooleanLiteral:
		return fmt.Sprintf("BooleanLiteral %t", n.Value)
	case *NullLiteral:
		return "NullLiteral null"
	case *AssignmentExpression:
		return fmt.Sprintf("AssignmentExpression %q", n.Operator)
	case *LogicalExpression:
		return fmt.Sprintf("LogicalExpression %q", n.Operator)
	case *BinaryExpression:
		return fmt.Sprintf("BinaryExpression %q", n.Operator)
	case *UnaryExpression:
		return fmt.Sprintf("UnaryExpression %q", n.Operator)
	case *MemberExpression:
		if n.Computed {
			return "MemberExpression [computed]"
		}
		return "MemberExpression"
	default:
		return n.Type()
	}
}

type printer struct {
	w      io.Writer
	indent string
	err    error
}

func (p *printer) line(depth int, format string, args ...interface{}) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, strings.Repeat(p.indent, depth)+format+"\n", args...)
}

func (p *printer) node(depth int, prefix string, n Node) {
	p.line(depth, "%s%s", prefix, Describe(n))

	for _, f := range fields(n) {
		switch {
		case f.list && len(f.nodes) == 0:
			p.line(depth+1, "%s: []", f.name)
		case f.list:
			p.line(depth+1, "%s:", f.name)
			for _, child := range f.nodes {
				p.node(depth+2, "- ", child)
			}
		case len(f.nodes) == 0:
			p.line(depth+1, "%s: null", f.name)
		default:
			p.node(depth+1, f.name+": ", f.nodes[0])
		}
	}
}

// Fprint writes the tree rooted at n to w
func Fprint(w io.Writer, n Node) error {
	p := &printer{w: w, indent: "  "}
	p.node(0, "", n)
	return p.err
}

// Sprint returns the tree rooted at n as a string
func Sprint(n Node) string {
	var sb strings.Builder
	_ = Fprint(&sb, n)
	return sb.String()
}
