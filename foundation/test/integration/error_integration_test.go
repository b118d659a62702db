// File: error_integration_test.go
// Title: Error Integration Tests
// Description: Verifies that every failure class leaving the engine is a
//              structured error with a stable code, HTTP status, position
//              details and an inspectable cause chain.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-18
// Modified: 2026-10-18
//
// Change History:
// - 2026-10-18 v0.1.0: Initial implementation

package integration

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	sferror "github.com/msto63/scriptfront/foundation/core/error"
	"github.com/msto63/scriptfront/foundation/script"
	"github.com/msto63/scriptfront/foundation/script/lexer"
	"github.com/msto63/scriptfront/foundation/script/parser"
)

func TestFailureClasses(t *testing.T) {
	canceled, cancel := context.WithCancel(context.Background())
	cancel()

	tests := []struct {
		name       string
		config     script.Config
		ctx        context.Context
		source     string
		code       sferror.Code
		status     int
		sourceErr  bool
		incomplete bool
	}{
		{"syntax", script.Config{}, context.Background(), "let x = ;", sferror.CodeSyntax, http.StatusBadRequest, true, false},
		{"lexical", script.Config{}, context.Background(), "x = @;", sferror.CodeLexical, http.StatusBadRequest, true, false},
		{"end of input", script.Config{}, context.Background(), "def f(a) {", sferror.CodeUnexpectedEOF, http.StatusBadRequest, true, true},
		{"too long", script.Config{MaxInputLength: 5}, context.Background(), "let x = 1;", sferror.CodeInputTooLong, http.StatusRequestEntityTooLarge, true, false},
		{"invalid utf8", script.Config{}, context.Background(), "x = \"\xff\";", sferror.CodeInvalidInput, http.StatusBadRequest, true, false},
		{"canceled", script.Config{}, canceled, "x;", sferror.CodeTimeout, http.StatusRequestTimeout, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := newEngine(t, tt.config)
			_, err := engine.Parse(tt.ctx, tt.source)

			se, ok := sferror.As(err)
			if !ok {
				t.Fatalf("error %T is not structured: %v", err, err)
			}
			if se.Code() != tt.code {
				t.Errorf("code = %s, want %s", se.Code(), tt.code)
			}
			if got := se.Code().HTTPStatus(); got != tt.status {
				t.Errorf("HTTP status = %d, want %d", got, tt.status)
			}
			if got := se.Code().IsSourceError(); got != tt.sourceErr {
				t.Errorf("IsSourceError() = %v", got)
			}
			if got := script.Incomplete(err); got != tt.incomplete {
				t.Errorf("Incomplete() = %v", got)
			}
			if se.Operation() != "script.Parse" {
				t.Errorf("operation = %q", se.Operation())
			}
		})
	}
}

func TestErrorJSONCarriesPosition(t *testing.T) {
	engine := newEngine(t, script.Config{})
	_, err := engine.Parse(context.Background(), "let a = 1;\nif (a) b = ;")

	se, _ := sferror.As(err)
	encoded, marshalErr := json.Marshal(se)
	if marshalErr != nil {
		t.Fatalf("Marshal() error = %v", marshalErr)
	}

	var body struct {
		Code      string                 `json:"code"`
		Operation string                 `json:"operation"`
		Cause     string                 `json:"cause"`
		Details   map[string]interface{} `json:"details"`
	}
	if err := json.Unmarshal(encoded, &body); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	if body.Code != "SYNTAX_ERROR" || body.Operation != "script.Parse" {
		t.Errorf("code = %q, operation = %q", body.Code, body.Operation)
	}
	if body.Details["line"] != float64(2) || body.Details["column"] != float64(12) {
		t.Errorf("position = %v:%v", body.Details["line"], body.Details["column"])
	}
	if body.Details["found"] != ";" {
		t.Errorf("found = %v", body.Details["found"])
	}
	if body.Cause == "" {
		t.Error("cause missing")
	}
}

func TestCauseChainReachesComponentErrors(t *testing.T) {
	engine := newEngine(t, script.Config{})

	_, err := engine.Parse(context.Background(), "let x = 1 +;")
	var parseErr *parser.ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("parse failure does not unwrap to *parser.ParseError: %v", err)
	}
	if parseErr.Line != 1 || parseErr.Column != 12 {
		t.Errorf("ParseError position = %d:%d", parseErr.Line, parseErr.Column)
	}

	_, err = engine.Tokenize(context.Background(), "a\n  #")
	var lexErr *lexer.LexError
	if !errors.As(err, &lexErr) {
		t.Fatalf("lexer failure does not unwrap to *lexer.LexError: %v", err)
	}
	if lexErr.Line != 2 || lexErr.Column != 3 {
		t.Errorf("LexError position = %d:%d", lexErr.Line, lexErr.Column)
	}

	_, err = newEngine(t, script.Config{MaxInputLength: 1}).Parse(context.Background(), "ab")
	if !errors.Is(err, parser.ErrInputTooLong) {
		t.Errorf("limit failure does not unwrap to ErrInputTooLong: %v", err)
	}
}

// Member access is only valid on member chains, never on call results
// or on super.
func TestMemberAccessOutsideGrammar(t *testing.T) {
	engine := newEngine(t, script.Config{})

	tests := []struct {
		source string
		found  string
	}{
		{"f().x;", "."},
		{"p.move(3).draw();", "."},
		{"super.x;", "."},
	}

	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			_, err := engine.Parse(context.Background(), tt.source)
			if !sferror.HasCode(err, sferror.CodeSyntax) {
				t.Fatalf("error = %v, want SYNTAX_ERROR", err)
			}
			se, _ := sferror.As(err)
			if found, _ := se.Detail("found"); found != tt.found {
				t.Errorf("found = %v, want %q", found, tt.found)
			}
		})
	}
}

func TestWrapErrorIsIdempotent(t *testing.T) {
	engine := newEngine(t, script.Config{})
	_, err := engine.Parse(context.Background(), "x = ;")

	first, _ := sferror.As(err)
	again := script.WrapError(err, "other.Operation")
	if again != first {
		t.Error("wrapping a classified error must return it unchanged")
	}
	if again.Operation() != "script.Parse" {
		t.Errorf("operation = %q", again.Operation())
	}
}
