// File: token.go
// Title: Script Tokens
// Description: Token kinds of the scripting language and the Token value
//              produced by the lexer. Kind names are the tags consumers see
//              in token dumps and parse errors.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-18
// Modified: 2026-10-18
//
// Change History:
// - 2026-10-18 v0.1.0: Initial implementation

package lexer

import (
	"encoding/json"
	"fmt"
)

// Kind identifies the lexical class of a token
type Kind int

const (
	// EOF marks the end of input; it never carries a lexeme
	EOF Kind = iota

	// Punctuation
	Semicolon    // ;
	LeftBrace    // {
	RightBrace   // }
	LeftParen    // (
	RightParen   // )
	Comma        // ,
	Dot          // .
	LeftBracket  // [
	RightBracket // ]

	// Keywords
	Let
	If
	Else
	True
	False
	Null
	While
	Do
	For
	Def
	Return
	Class
	Extends
	Super
	This
	NewKeyword

	// Literals and names
	Number
	Identifier
	StringLit

	// Operators
	EqualityOperator       // == !=
	LogicalAnd             // &&
	LogicalOr              // ||
	LogicalNot             // !
	SimpleAssign           // =
	ComplexAssign          // += -= *= /=
	RelationalOperator     // > >= < <=
	AdditiveOperator       // + -
	MultiplicativeOperator // * /
)

var kindNames = [...]string{
	EOF:                    "EOF",
	Semicolon:              ";",
	LeftBrace:              "{",
	RightBrace:             "}",
	LeftParen:              "(",
	RightParen:             ")",
	Comma:                  ",",
	Dot:                    ".",
	LeftBracket:            "[",
	RightBracket:           "]",
	Let:                    "let",
	If:                     "if",
	Else:                   "else",
	True:                   "true",
	False:                  "false",
	Null:                   "null",
	While:                  "while",
	Do:                     "do",
	For:                    "for",
	Def:                    "def",
	Return:                 "return",
	Class:                  "class",
	Extends:                "extends",
	Super:                  "super",
	This:                   "this",
	NewKeyword:             "new",
	Number:                 "NUMBER",
	Identifier:             "IDENTIFIER",
	StringLit:              "STRING",
	EqualityOperator:       "EQUALITY_OPERATOR",
	LogicalAnd:             "LOGICAL_AND",
	LogicalOr:              "LOGICAL_OR",
	LogicalNot:             "LOGICAL_NOT",
	SimpleAssign:           "SIMPLE_ASSIGN",
	ComplexAssign:          "COMPLEX_ASSIGN",
	RelationalOperator:     "RELATIONAL_OPERATOR",
	AdditiveOperator:       "ADDITIVE_OPERATOR",
	MultiplicativeOperator: "MULTIPLICATIVE_OPERATOR",
}

// String returns the tag of the kind, e.g. ";", "let" or "NUMBER"
func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// IsKeyword reports whether k is a reserved word
func (k Kind) IsKeyword() bool {
	return k >= Let && k <= NewKeyword
}

// IsPunctuation reports whether k is a single-character delimiter
func (k Kind) IsPunctuation() bool {
	return k >= Semicolon && k <= RightBracket
}

// IsOperator reports whether k is an operator class
func (k Kind) IsOperator() bool {
	return k >= EqualityOperator && k <= MultiplicativeOperator
}

// Token represents a lexical token with position information
type Token struct {
	Kind   Kind
	Lexeme string // exact source text, quotes included for strings
	Offset int    // rune offset in the source
	Line   int    // 1-based
	Column int    // 1-based, in runes
}

// String returns a compact representation such as IDENTIFIER(x)
func (t Token) String() string {
	if t.Kind == EOF {
		return "EOF"
	}
	return fmt.Sprintf("%s(%s)", t.Kind, t.Lexeme)
}

// MarshalJSON encodes the token as {"type", "value", "line", "column"}
func (t Token) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type   string `json:"type"`
		Value  string `json:"value"`
		Line   int    `json:"line"`
		Column int    `json:"column"`
	}{t.Kind.String(), t.Lexeme, t.Line, t.Column})
}
