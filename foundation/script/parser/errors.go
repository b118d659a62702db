// File: errors.go
// Title: Parse Errors
// Description: Error type raised by the parser. It names what the grammar
//              expected and what was found instead (a lexeme or the end of
//              input), with the position of the offending token.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-18
// Modified: 2026-10-18
//
// Change History:
// - 2026-10-18 v0.1.0: Initial implementation

package parser

import (
	"errors"
	"fmt"

	"github.com/msto63/scriptfront/foundation/script/lexer"
)

// ErrInputTooLong is returned when the source exceeds Options.MaxInputLength
var ErrInputTooLong = errors.New("input exceeds maximum length")

// ParseError represents a grammar violation at a specific token
type ParseError struct {
	Msg        string // message without position
	Expected   string // expected token kind or production, may be empty
	Found      string // lexeme of the offending token, empty at end of input
	EndOfInput bool
	Offset     int
	Line       int
	Column     int
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s at line %d, column %d", e.Msg, e.Line, e.Column)
}

// IsIncomplete reports whether err was caused by input that ended too
// early: a premature end of input or an unterminated string literal.
// Appending more text may turn such input into a valid program.
func IsIncomplete(err error) bool {
	var pe *ParseError
	if errors.As(err, &pe) {
		return pe.EndOfInput
	}

	var le *lexer.LexError
	if errors.As(err, &le) {
		return le.Char == `"` || le.Char == `'`
	}
	return false
}

func (p *Parser) errorAt(tok lexer.Token, msg string) *ParseError {
	return &ParseError{
		Msg:        msg,
		Found:      tok.Lexeme,
		EndOfInput: tok.Kind == lexer.EOF,
		Offset:     tok.Offset,
		Line:       tok.Line,
		Column:     tok.Column,
	}
}

// unexpected reports the current lookahead where expected was required
func (p *Parser) unexpected(expected string) *ParseError {
	tok := p.lookahead

	var msg string
	if tok.Kind == lexer.EOF {
		msg = fmt.Sprintf("Unexpected end of input, expected: %q", expected)
	} else {
		msg = fmt.Sprintf("Unexpected token: %q, expected: %q", tok.Lexeme, expected)
	}

	err := p.errorAt(tok, msg)
	err.Expected = expected
	return err
}
