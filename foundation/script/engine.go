// File: engine.go
// Title: Script Engine
// Description: Configured front end wrapping lexer and parser. Applies the
//              input limit and NFC normalization, times each request and
//              converts lexer and parser failures into structured errors.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-18
// Modified: 2026-10-18
//
// Change History:
// - 2026-10-18 v0.1.0: Initial implementation

package script

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	sferror "github.com/msto63/scriptfront/foundation/core/error"
	sflog "github.com/msto63/scriptfront/foundation/core/log"
	"github.com/msto63/scriptfront/foundation/script/ast"
	"github.com/msto63/scriptfront/foundation/script/lexer"
	"github.com/msto63/scriptfront/foundation/script/parser"
)

// tokenizeCheckInterval is how many tokens are produced between
// context checks
const tokenizeCheckInterval = 256

// Config configures an Engine
type Config struct {
	Logger *sflog.Logger

	// MaxInputLength limits the source length in runes. Zero selects
	// parser.DefaultMaxInputLength, a negative value disables the check.
	MaxInputLength int

	// MaxDepth limits statement and expression nesting. Zero selects
	// parser.DefaultMaxDepth, a negative value disables the check.
	MaxDepth int

	// NormalizeNFC converts the source to Unicode normalization form C
	// before lexing. Positions then refer to the normalized text.
	NormalizeNFC bool
}

// Result is the outcome of a successful parse
type Result struct {
	Program    *ast.Program
	Statements int
	Nodes      int
	Length     int // source length in runes after normalization
	Duration   time.Duration
}

// Engine is a concurrency-safe front end
type Engine struct {
	config Config
	logger *sflog.Logger
	pool   sync.Pool
}

// NewEngine creates an engine with the given configuration
func NewEngine(config Config) (*Engine, error) {
	if config.Logger == nil {
		config.Logger = sflog.GetDefault()
	}
	if config.MaxInputLength == 0 {
		config.MaxInputLength = parser.DefaultMaxInputLength
	}
	if config.MaxDepth == 0 {
		config.MaxDepth = parser.DefaultMaxDepth
	}

	e := &Engine{
		config: config,
		logger: config.Logger.WithField("component", "script-engine"),
	}

	opts := parser.Options{
		Logger:         config.Logger,
		MaxInputLength: config.MaxInputLength,
		MaxDepth:       config.MaxDepth,
	}
	// Fail early on invalid options instead of inside the pool.
	if _, err := parser.New(opts); err != nil {
		return nil, sferror.Wrap(err, "invalid parser options").
			WithCode(sferror.CodeInvalidConfig).
			WithOperation("script.NewEngine")
	}
	e.pool.New = func() interface{} {
		p, _ := parser.New(opts)
		return p
	}

	return e, nil
}

// Config returns the effective configuration
func (e *Engine) Config() Config {
	return e.config
}

// Parse turns source into an AST. Failures are *sferror.Error values
// carrying one of the source codes and the position details.
func (e *Engine) Parse(ctx context.Context, source string) (*Result, error) {
	const op = "script.Parse"

	source, length, err := e.prepare(ctx, source, op)
	if err != nil {
		return nil, err
	}

	timer := e.logger.StartTimer("parse").WithField("length", length)

	p := e.pool.Get().(*parser.Parser)
	program, err := p.Parse(source)
	e.pool.Put(p)

	if err != nil {
		wrapped := WrapError(err, op)
		timer.WithField("error_code", wrapped.Code().String()).Stop()
		return nil, wrapped
	}

	result := &Result{
		Program:    program,
		Statements: len(program.Body),
		Nodes:      ast.Size(program),
		Length:     length,
	}
	result.Duration = timer.
		WithField("statements", result.Statements).
		WithField("nodes", result.Nodes).
		Stop()

	return result, nil
}

// Tokenize returns every token of source, excluding the end marker
func (e *Engine) Tokenize(ctx context.Context, source string) ([]lexer.Token, error) {
	const op = "script.Tokenize"

	source, length, err := e.prepare(ctx, source, op)
	if err != nil {
		return nil, err
	}

	timer := e.logger.StartTimer("tokenize").WithField("length", length)

	l := lexer.New()
	l.Load(source)

	tokens := make([]lexer.Token, 0, length/2)
	for {
		if len(tokens)%tokenizeCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				wrapped := WrapError(err, op)
				timer.StopWithError(wrapped)
				return nil, wrapped
			}
		}

		tok, err := l.Next()
		if err != nil {
			wrapped := WrapError(err, op)
			timer.WithField("error_code", wrapped.Code().String()).Stop()
			return nil, wrapped
		}
		if tok.Kind == lexer.EOF {
			break
		}
		tokens = append(tokens, tok)
	}

	timer.WithField("tokens", len(tokens)).Stop()
	return tokens, nil
}

// prepare normalizes source and enforces the input limit
func (e *Engine) prepare(ctx context.Context, source, op string) (string, int, error) {
	if err := ctx.Err(); err != nil {
		return "", 0, WrapError(err, op)
	}
	if !utf8.ValidString(source) {
		return "", 0, sferror.New("source is not valid UTF-8").
			WithCode(sferror.CodeInvalidInput).
			WithOperation(op)
	}

	if e.config.NormalizeNFC {
		source = norm.NFC.String(source)
	}

	length := utf8.RuneCountInString(source)
	if limit := e.config.MaxInputLength; limit > 0 && length > limit {
		return "", 0, sferror.Wrap(fmt.Errorf("%w: %d > %d", parser.ErrInputTooLong, length, limit), "input rejected").
			WithCode(sferror.CodeInputTooLong).
			WithOperation(op).
			WithDetail("length", length).
			WithDetail("limit", limit)
	}

	return source, length, nil
}

// WrapError converts a lexer, parser or context error into a structured
// error. Position information ends up in the details: line, column and
// offset always, plus expected and found for parse errors and char for
// lexical errors. The detail incomplete marks input that ended too early.
func WrapError(err error, operation string) *sferror.Error {
	if err == nil {
		return nil
	}
	if se, ok := sferror.As(err); ok && se.Code() != sferror.CodeUnknown {
		return se
	}

	var (
		lexErr   *lexer.LexError
		parseErr *parser.ParseError
		wrapped  *sferror.Error
	)

	switch {
	case errors.As(err, &lexErr):
		wrapped = sferror.Wrap(err, "lexical error").
			WithCode(sferror.CodeLexical).
			WithDetails(map[string]interface{}{
				"char":   lexErr.Char,
				"line":   lexErr.Line,
				"column": lexErr.Column,
				"offset": lexErr.Offset,
			})

	case errors.As(err, &parseErr):
		code, message := sferror.CodeSyntax, "syntax error"
		if parseErr.EndOfInput {
			code, message = sferror.CodeUnexpectedEOF, "unexpected end of input"
		}
		wrapped = sferror.Wrap(err, message).
			WithCode(code).
			WithDetails(map[string]interface{}{
				"line":   parseErr.Line,
				"column": parseErr.Column,
				"offset": parseErr.Offset,
			})
		if parseErr.Expected != "" {
			wrapped.WithDetail("expected", parseErr.Expected)
		}
		if parseErr.Found != "" {
			wrapped.WithDetail("found", parseErr.Found)
		}

	case errors.Is(err, parser.ErrInputTooLong):
		wrapped = sferror.Wrap(err, "input rejected").WithCode(sferror.CodeInputTooLong)

	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		wrapped = sferror.Wrap(err, "request aborted").WithCode(sferror.CodeTimeout)

	default:
		wrapped = sferror.Wrap(err, "front end failure").WithCode(sferror.CodeInternal)
	}

	if parser.IsIncomplete(err) {
		wrapped.WithDetail("incomplete", true)
	}
	return wrapped.WithOperation(operation)
}

// Incomplete reports whether err, raw or wrapped by WrapError, was caused
// by input that ended too early
func Incomplete(err error) bool {
	if parser.IsIncomplete(err) {
		return true
	}
	if se, ok := sferror.As(err); ok {
		v, _ := se.Detail("incomplete")
		b, _ := v.(bool)
		return b
	}
	return false
}
