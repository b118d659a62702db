// File: lexer_test.go
// Title: Script Lexer Tests
// Description: Rule ordering, skipping, positions, errors and reuse.
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
	"errors"
	"reflect"
	"testing"
)

type kl struct {
	kind   Kind
	lexeme string
}

func collect(t *testing.T, source string) []kl {
	t.Helper()
	tokens, err := Tokenize(source)
	if err != nil {
		t.Fatalf("Tokenize(%q) error = %v", source, err)
	}
	out := make([]kl, len(tokens))
	for i, tok := range tokens {
		out[i] = kl{tok.Kind, tok.Lexeme}
	}
	return out
}

func TestTokenizeRuleOrder(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []kl
	}{
		{
			name:  "compound assignment wins over additive",
			input: "x += 1;",
			want:  []kl{{Identifier, "x"}, {ComplexAssign, "+="}, {Number, "1"}, {Semicolon, ";"}},
		},
		{
			name:  "all compound assignments",
			input: "a -= b *= c /= d",
			want: []kl{{Identifier, "a"}, {ComplexAssign, "-="}, {Identifier, "b"},
				{ComplexAssign, "*="}, {Identifier, "c"}, {ComplexAssign, "/="}, {Identifier, "d"}},
		},
		{
			name:  "equality before assignment and not",
			input: "a == b != c = !d",
			want: []kl{{Identifier, "a"}, {EqualityOperator, "=="}, {Identifier, "b"},
				{EqualityOperator, "!="}, {Identifier, "c"}, {SimpleAssign, "="},
				{LogicalNot, "!"}, {Identifier, "d"}},
		},
		{
			name:  "keywords are whole words",
			input: "while whilex letter let",
			want:  []kl{{While, "while"}, {Identifier, "whilex"}, {Identifier, "letter"}, {Let, "let"}},
		},
		{
			name:  "every keyword",
			input: "let if else true false null while do for def return class extends super this new",
			want: []kl{{Let, "let"}, {If, "if"}, {Else, "else"}, {True, "true"}, {False, "false"},
				{Null, "null"}, {While, "while"}, {Do, "do"}, {For, "for"}, {Def, "def"},
				{Return, "return"}, {Class, "class"}, {Extends, "extends"}, {Super, "super"},
				{This, "this"}, {NewKeyword, "new"}},
		},
		{
			name:  "fun is an identifier",
			input: "fun",
			want:  []kl{{Identifier, "fun"}},
		},
		{
			name:  "number before identifier",
			input: "42 x_1 _y 7up",
			want:  []kl{{Number, "42"}, {Identifier, "x_1"}, {Identifier, "_y"}, {Number, "7"}, {Identifier, "up"}},
		},
		{
			name:  "relational",
			input: "a < b <= c > d >= e",
			want: []kl{{Identifier, "a"}, {RelationalOperator, "<"}, {Identifier, "b"},
				{RelationalOperator, "<="}, {Identifier, "c"}, {RelationalOperator, ">"},
				{Identifier, "d"}, {RelationalOperator, ">="}, {Identifier, "e"}},
		},
		{
			name:  "logical",
			input: "a && b || c",
			want:  []kl{{Identifier, "a"}, {LogicalAnd, "&&"}, {Identifier, "b"}, {LogicalOr, "||"}, {Identifier, "c"}},
		},
		{
			name:  "arithmetic",
			input: "1+2-3*4/5",
			want: []kl{{Number, "1"}, {AdditiveOperator, "+"}, {Number, "2"}, {AdditiveOperator, "-"},
				{Number, "3"}, {MultiplicativeOperator, "*"}, {Number, "4"},
				{MultiplicativeOperator, "/"}, {Number, "5"}},
		},
		{
			name:  "punctuation",
			input: "; { } ( ) , . [ ]",
			want: []kl{{Semicolon, ";"}, {LeftBrace, "{"}, {RightBrace, "}"}, {LeftParen, "("},
				{RightParen, ")"}, {Comma, ","}, {Dot, "."}, {LeftBracket, "["}, {RightBracket, "]"}},
		},
		{
			name:  "strings keep quotes",
			input: `"hello world" 'it''s'`,
			want:  []kl{{StringLit, `"hello world"`}, {StringLit, `'it'`}, {StringLit, `'s'`}},
		},
		{
			name:  "string with other quote inside",
			input: `"it's" '"q"'`,
			want:  []kl{{StringLit, `"it's"`}, {StringLit, `'"q"'`}},
		},
		{
			name:  "comments are skipped",
			input: "a // line\n/* block\n spanning */ b /**/ c",
			want:  []kl{{Identifier, "a"}, {Identifier, "b"}, {Identifier, "c"}},
		},
		{
			name:  "block comment is not greedy",
			input: "/* one */ x /* two */",
			want:  []kl{{Identifier, "x"}},
		},
		{
			name:  "unterminated block comment lexes as operators",
			input: "/* x",
			want:  []kl{{MultiplicativeOperator, "/"}, {MultiplicativeOperator, "*"}, {Identifier, "x"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := collect(t, tt.input)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Tokenize(%q)\n got  %v\n want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestOnlySkippableInput(t *testing.T) {
	inputs := []string{
		"",
		"   \t\n  ",
		"// just a comment",
		"/* block */",
		"  // a\n  /* b\n c */  \n",
	}

	for _, input := range inputs {
		l := New()
		l.Load(input)

		tok, err := l.Next()
		if err != nil {
			t.Errorf("Next(%q) error = %v", input, err)
			continue
		}
		if tok.Kind != EOF {
			t.Errorf("Next(%q) = %v, want EOF", input, tok)
		}
		if l.HasMore() {
			t.Errorf("HasMore() after draining %q = true", input)
		}
	}
}

func TestHasMore(t *testing.T) {
	l := New()
	if l.HasMore() {
		t.Error("fresh lexer should have no input")
	}

	l.Load("x ")
	if !l.HasMore() {
		t.Fatal("HasMore() = false before reading")
	}
	if tok, _ := l.Next(); tok.Kind != Identifier {
		t.Fatalf("Next() = %v", tok)
	}
	if !l.HasMore() {
		t.Error("trailing whitespace still counts as unconsumed input")
	}
	if tok, _ := l.Next(); tok.Kind != EOF {
		t.Errorf("Next() = %v, want EOF", tok)
	}
	if tok, _ := l.Next(); tok.Kind != EOF {
		t.Errorf("Next() after EOF = %v, want EOF", tok)
	}
}

func TestPositions(t *testing.T) {
	tokens, err := Tokenize("let a = 1;\n  // c\n  b = \"ü\" + a;")
	if err != nil {
		t.Fatalf("Tokenize() error = %v", err)
	}

	type pos struct {
		lexeme       string
		line, column int
	}
	want := []pos{
		{"let", 1, 1}, {"a", 1, 5}, {"=", 1, 7}, {"1", 1, 9}, {";", 1, 10},
		{"b", 3, 3}, {"=", 3, 5}, {`"ü"`, 3, 7}, {"+", 3, 11}, {"a", 3, 13}, {";", 3, 14},
	}
	if len(tokens) != len(want) {
		t.Fatalf("got %d tokens, want %d", len(tokens), len(want))
	}
	for i, w := range want {
		got := pos{tokens[i].Lexeme, tokens[i].Line, tokens[i].Column}
		if got != w {
			t.Errorf("token %d = %+v, want %+v", i, got, w)
		}
	}
	if tokens[5].Offset != 20 {
		t.Errorf("offset of b = %d, want 20", tokens[5].Offset)
	}
}

func TestLexError(t *testing.T) {
	tests := []struct {
		input      string
		char       string
		line, col  int
		tokensSeen int
	}{
		{"@", "@", 1, 1, 0},
		{"a # b", "#", 1, 3, 1},
		{"x;\n  \"open", `"`, 2, 3, 2},
		{"a & b", "&", 1, 3, 1},
		{"a | b", "|", 1, 3, 1},
	}

	for _, tt := range tests {
		l := New()
		l.Load(tt.input)

		seen := 0
		var err error
		for {
			var tok Token
			tok, err = l.Next()
			if err != nil || tok.Kind == EOF {
				break
			}
			seen++
		}

		var lexErr *LexError
		if !errors.As(err, &lexErr) {
			t.Errorf("%q: error = %v, want *LexError", tt.input, err)
			continue
		}
		if lexErr.Char != tt.char || lexErr.Line != tt.line || lexErr.Column != tt.col {
			t.Errorf("%q: got %+v, want char %q at %d:%d", tt.input, lexErr, tt.char, tt.line, tt.col)
		}
		if seen != tt.tokensSeen {
			t.Errorf("%q: %d tokens before error, want %d", tt.input, seen, tt.tokensSeen)
		}
		if lexErr.Message() != "Unexpected token: "+`"`+escape(tt.char)+`"` {
			t.Errorf("%q: Message() = %q", tt.input, lexErr.Message())
		}
	}
}

func escape(s string) string {
	if s == `"` {
		return `\"`
	}
	return s
}

func TestLoadResetsState(t *testing.T) {
	l := New()
	l.Load("first + second;\nthird")
	for i := 0; i < 3; i++ {
		if _, err := l.Next(); err != nil {
			t.Fatalf("Next() error = %v", err)
		}
	}

	l.Load("y += 2;")
	var reused []Token
	for {
		tok, err := l.Next()
		if err != nil {
			t.Fatalf("Next() error = %v", err)
		}
		if tok.Kind == EOF {
			break
		}
		reused = append(reused, tok)
	}

	fresh, err := Tokenize("y += 2;")
	if err != nil {
		t.Fatalf("Tokenize() error = %v", err)
	}
	if !reflect.DeepEqual(reused, fresh) {
		t.Errorf("reloaded lexer = %v, fresh = %v", reused, fresh)
	}
}

func TestKindString(t *testing.T) {
	tests := map[Kind]string{
		EOF:                    "EOF",
		Semicolon:              ";",
		Def:                    "def",
		Number:                 "NUMBER",
		StringLit:              "STRING",
		ComplexAssign:          "COMPLEX_ASSIGN",
		MultiplicativeOperator: "MULTIPLICATIVE_OPERATOR",
		Kind(999):              "Kind(999)",
	}
	for k, want := range tests {
		if got := k.String(); got != want {
			t.Errorf("Kind(%d).String() = %q, want %q", int(k), got, want)
		}
	}

	if !Def.IsKeyword() || !NewKeyword.IsKeyword() || Identifier.IsKeyword() {
		t.Error("IsKeyword misclassifies")
	}
	if !Comma.IsPunctuation() || !LogicalNot.IsOperator() || StringLit.IsOperator() {
		t.Error("class predicates misclassify")
	}
	if got := len(Keywords()); got != 16 {
		t.Errorf("Keywords() has %d entries, want 16", got)
	}
}

func TestTokenJSON(t *testing.T) {
	data, err := json.Marshal(Token{Kind: ComplexAssign, Lexeme: "+=", Line: 1, Column: 3})
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	want := `{"type":"COMPLEX_ASSIGN","value":"+=","line":1,"column":3}`
	if string(data) != want {
		t.Errorf("json = %s, want %s", data, want)
	}
}
