// File: performance_test.go
// Title: Front End Benchmarks
// Description: Benchmarks for parsing, tokenizing and encoding programs of
//              different sizes through the engine.
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
	"strings"
	"testing"

	"github.com/msto63/scriptfront/foundation/script"
	"github.com/msto63/scriptfront/foundation/script/ast"
)

func BenchmarkParseSmall(b *testing.B) {
	engine := newEngine(b, script.Config{})
	ctx := context.Background()
	source := sampleSources[len(sampleSources)-2]

	b.ReportAllocs()
	b.SetBytes(int64(len(source)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := engine.Parse(ctx, source); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkParseLarge(b *testing.B) {
	engine := newEngine(b, script.Config{})
	ctx := context.Background()
	source := generateProgram(200)

	b.ReportAllocs()
	b.SetBytes(int64(len(source)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := engine.Parse(ctx, source); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkTokenize(b *testing.B) {
	engine := newEngine(b, script.Config{})
	ctx := context.Background()
	source := generateProgram(50)

	b.ReportAllocs()
	b.SetBytes(int64(len(source)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := engine.Tokenize(ctx, source); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkParseParallel(b *testing.B) {
	engine := newEngine(b, script.Config{})
	source := generateProgram(10)

	b.ReportAllocs()
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		ctx := context.Background()
		for pb.Next() {
			if _, err := engine.Parse(ctx, source); err != nil {
				b.Error(err)
				return
			}
		}
	})
}

func BenchmarkToJSON(b *testing.B) {
	engine := newEngine(b, script.Config{})
	result, err := engine.Parse(context.Background(), generateProgram(50))
	if err != nil {
		b.Fatal(err)
	}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := ast.ToJSON(result.Program, ""); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkParseNFC(b *testing.B) {
	engine := newEngine(b, script.Config{NormalizeNFC: true})
	ctx := context.Background()
	source := strings.Repeat("let name = \"cafe\u0301 re\u0301sume\u0301\";\n", 200)

	b.ReportAllocs()
	b.SetBytes(int64(len(source)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := engine.Parse(ctx, source); err != nil {
			b.Fatal(err)
		}
	}
}
