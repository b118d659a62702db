// File: lexer.go
// Title: Script Lexical Analyzer
// Description: Pull-based tokenizer. The parser asks for one token at a time
//              with Next; whitespace and comments are consumed silently.
//              Positions are tracked in runes so columns match what an
//              editor shows for non-ASCII source.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-18
// Modified: 2026-10-18
//
// Change History:
// - 2026-10-18 v0.1.0: Initial implementation

package lexer

import (
	"fmt"
)

// LexError reports source text that matches no lexical rule
type LexError struct {
	Char   string // the first character of the unmatched remainder
	Offset int
	Line   int
	Column int
}

// Message returns the error text without position information
func (e *LexError) Message() string {
	return fmt.Sprintf("Unexpected token: %q", e.Char)
}

func (e *LexError) Error() string {
	return fmt.Sprintf("%s at line %d, column %d", e.Message(), e.Line, e.Column)
}

// Lexer converts source text into tokens on demand. A Lexer is not safe
// for concurrent use; Load resets it for a new input.
type Lexer struct {
	source []rune
	cursor int
	line   int
	column int
}

// New creates a lexer with an empty source
func New() *Lexer {
	l := &Lexer{}
	l.Load("")
	return l
}

// Load resets the lexer to the start of source
func (l *Lexer) Load(source string) {
	l.source = []rune(source)
	l.cursor = 0
	l.line = 1
	l.column = 1
}

// HasMore reports whether unconsumed source remains. Skippable text counts:
// HasMore may be true while the next call to Next returns EOF.
func (l *Lexer) HasMore() bool {
	return l.cursor < len(l.source)
}

// Next returns the next token. At end of input it returns a token of kind
// EOF. A remainder that matches no rule yields a *LexError and leaves the
// cursor in place.
func (l *Lexer) Next() (Token, error) {
	for l.HasMore() {
		matched := false
		rest := l.source[l.cursor:]

		for _, r := range rules {
			m, err := r.pattern.FindRunesMatch(rest)
			if err != nil {
				return Token{}, err
			}
			if m == nil || m.Length == 0 {
				continue
			}

			tok := Token{
				Kind:   r.kind,
				Lexeme: string(rest[:m.Length]),
				Offset: l.cursor,
				Line:   l.line,
				Column: l.column,
			}
			l.advance(m.Length)

			if r.skip {
				matched = true
				break
			}
			return tok, nil
		}

		if !matched {
			return Token{}, &LexError{
				Char:   string(rest[0]),
				Offset: l.cursor,
				Line:   l.line,
				Column: l.column,
			}
		}
	}

	return Token{Kind: EOF, Offset: l.cursor, Line: l.line, Column: l.column}, nil
}

// Position returns the current cursor as rune offset, line and column
func (l *Lexer) Position() (offset, line, column int) {
	return l.cursor, l.line, l.column
}

func (l *Lexer) advance(n int) {
	for _, r := range l.source[l.cursor : l.cursor+n] {
		if r == '\n' {
			l.line++
			l.column = 1
		} else {
			l.column++
		}
	}
	l.cursor += n
}

// Tokenize returns every token of source, excluding the EOF marker
func Tokenize(source string) ([]Token, error) {
	l := New()
	l.Load(source)

	tokens := make([]Token, 0, len(source)/2)
	for {
		tok, err := l.Next()
		if err != nil {
			return nil, err
		}
		if tok.Kind == EOF {
			return tokens, nil
		}
		tokens = append(tokens, tok)
	}
}
