// File: rules.go
// Title: Lexical Rule Table
// Description: Ordered table of (pattern, kind) rules. The first rule that
//              matches at the cursor wins; there is no longest-match search.
//              The order resolves ambiguities such as "+=" versus "+" "="
//              and keywords versus identifiers, so it must not be changed.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-18
// Modified: 2026-10-18
//
// Change History:
// - 2026-10-18 v0.1.0: Initial implementation

package lexer

import (
	"github.com/dlclark/regexp2"
)

type rule struct {
	pattern *regexp2.Regexp
	kind    Kind
	skip    bool
}

func token(pattern string, kind Kind) rule {
	return rule{pattern: regexp2.MustCompile(`^`+pattern, regexp2.ECMAScript), kind: kind}
}

func skip(pattern string) rule {
	return rule{pattern: regexp2.MustCompile(`^`+pattern, regexp2.ECMAScript), skip: true}
}

func keyword(word string, kind Kind) rule {
	return token(`\b`+word+`\b`, kind)
}

// rules is compiled once and shared read-only by every Lexer
var rules = []rule{
	// Whitespace and comments
	skip(`\s+`),
	skip(`\/\/.*`),
	skip(`\/\*[\s\S]*?\*\/`),

	// Punctuation
	token(`;`, Semicolon),
	token(`\{`, LeftBrace),
	token(`\}`, RightBrace),
	token(`\(`, LeftParen),
	token(`\)`, RightParen),
	token(`,`, Comma),
	token(`\.`, Dot),
	token(`\[`, LeftBracket),
	token(`\]`, RightBracket),

	// Keywords
	keyword("let", Let),
	keyword("if", If),
	keyword("else", Else),
	keyword("true", True),
	keyword("false", False),
	keyword("null", Null),
	keyword("while", While),
	keyword("do", Do),
	keyword("for", For),
	keyword("def", Def),
	keyword("return", Return),
	keyword("class", Class),
	keyword("extends", Extends),
	keyword("super", Super),
	keyword("this", This),
	keyword("new", NewKeyword),

	token(`\d+`, Number),
	token(`\w+`, Identifier),

	token(`[=!]=`, EqualityOperator),
	token(`&&`, LogicalAnd),
	token(`\|\|`, LogicalOr),
	token(`!`, LogicalNot),

	token(`=`, SimpleAssign),
	token(`[*\/+\-]=`, ComplexAssign),

	token(`[><]=?`, RelationalOperator),
	token(`[+\-]`, AdditiveOperator),
	token(`[*\/]`, MultiplicativeOperator),

	token(`"[^"]*"`, StringLit),
	token(`'[^']*'`, StringLit),
}

// Keywords returns the reserved words in rule order
func Keywords() []string {
	var words []string
	for _, r := range rules {
		if r.kind.IsKeyword() {
			words = append(words, r.kind.String())
		}
	}
	return words
}
