// File: parser.go
// Title: Script Recursive Descent Parser
// Description: Turns script source into an AST using recursive descent with
//              one token of lookahead and no backtracking. eat is the only
//              place the lookahead advances. The first error aborts the
//              parse; no partial tree is returned.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-18
// Modified: 2026-10-18
//
// Change History:
// - 2026-10-18 v0.1.0: Initial implementation

package parser

import (
	"fmt"
	"unicode/utf8"

	sflog "github.com/msto63/scriptfront/foundation/core/log"
	"github.com/msto63/scriptfront/foundation/script/ast"
	"github.com/msto63/scriptfront/foundation/script/lexer"
)

const (
	// DefaultMaxInputLength is the input limit in runes when none is set
	DefaultMaxInputLength = 1 << 20

	// DefaultMaxDepth bounds statement and expression nesting
	DefaultMaxDepth = 500
)

// Parser implements recursive descent parsing for scripts. A Parser owns
// its Lexer and is not safe for concurrent use; each Parse call starts
// from a clean state.
type Parser struct {
	lexer     *lexer.Lexer
	lookahead lexer.Token
	depth     int
	logger    *sflog.Logger
	options   Options
}

// Options configures parser behavior
type Options struct {
	Logger *sflog.Logger

	// MaxInputLength limits the source length in runes. Zero selects
	// DefaultMaxInputLength, a negative value disables the check.
	MaxInputLength int

	// MaxDepth limits nesting of statements and expressions. Zero selects
	// DefaultMaxDepth, a negative value disables the check.
	MaxDepth int
}

// New creates a new parser with the given options
func New(opts Options) (*Parser, error) {
	if opts.Logger == nil {
		opts.Logger = sflog.GetDefault()
	}
	if opts.MaxInputLength == 0 {
		opts.MaxInputLength = DefaultMaxInputLength
	}
	if opts.MaxDepth == 0 {
		opts.MaxDepth = DefaultMaxDepth
	}

	return &Parser{
		lexer:   lexer.New(),
		logger:  opts.Logger.WithField("component", "script-parser"),
		options: opts,
	}, nil
}

// Parse parses source and returns its Program. Errors are *ParseError,
// *lexer.LexError or wrap ErrInputTooLong.
func (p *Parser) Parse(source string) (*ast.Program, error) {
	if limit := p.options.MaxInputLength; limit > 0 {
		if n := utf8.RuneCountInString(source); n > limit {
			return nil, fmt.Errorf("%w: %d > %d", ErrInputTooLong, n, limit)
		}
	}

	p.lexer.Load(source)
	p.depth = 0

	p.logger.Debug("Starting script parsing", sflog.Fields{
		"length": len(source),
	})

	first, err := p.lexer.Next()
	if err != nil {
		p.logger.Debug("Script parsing failed", sflog.Fields{"error": err.Error()})
		return nil, err
	}
	p.lookahead = first

	program, err := p.program()
	if err != nil {
		p.logger.Debug("Script parsing failed", sflog.Fields{"error": err.Error()})
		return nil, err
	}

	p.logger.Debug("Script parsing completed", sflog.Fields{
		"statements": len(program.Body),
	})

	return program, nil
}

// Program
//
//	: StatementList
//	;
func (p *Parser) program() (*ast.Program, error) {
	body, err := p.statementList(lexer.EOF)
	if err != nil {
		return nil, err
	}
	return &ast.Program{Body: body}, nil
}

// eat consumes the lookahead if it has the expected kind and pulls the
// next token from the lexer
func (p *Parser) eat(kind lexer.Kind) (lexer.Token, error) {
	tok := p.lookahead
	if tok.Kind != kind || tok.Kind == lexer.EOF {
		return tok, p.unexpected(kind.String())
	}

	next, err := p.lexer.Next()
	if err != nil {
		return tok, err
	}
	p.lookahead = next
	return tok, nil
}

// at reports whether the lookahead has the given kind
func (p *Parser) at(kind lexer.Kind) bool {
	return p.lookahead.Kind == kind
}

func (p *Parser) enter() error {
	p.depth++
	if limit := p.options.MaxDepth; limit > 0 && p.depth > limit {
		return p.errorAt(p.lookahead, fmt.Sprintf("Maximum nesting depth of %d exceeded", limit))
	}
	return nil
}

func (p *Parser) leave() {
	p.depth--
}

// Parse is a convenience wrapper parsing source with default options
func Parse(source string) (*ast.Program, error) {
	p, err := New(Options{Logger: sflog.Discard()})
	if err != nil {
		return nil, err
	}
	return p.Parse(source)
}
