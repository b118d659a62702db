// File: helpers_test.go
// Title: Integration Test Helpers
// Description: Shared engine construction and program generators.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-18
// Modified: 2026-10-18
//
// Change History:
// - 2026-10-18 v0.1.0: Initial implementation

package integration

import (
	"fmt"
	"strings"
	"testing"

	sflog "github.com/msto63/scriptfront/foundation/core/log"
	"github.com/msto63/scriptfront/foundation/script"
)

// sampleSources parse without errors
var sampleSources = []string{
	`let x = 1 + 2 * 3;`,
	`let greeting = "hello", count = 0;`,
	`if (a && !b || c == null) { x = true; } else { x = false; }`,
	`while (n > 0) { n -= 1; }`,
	`do { total += values[i]; i += 1; } while (i < 10);`,
	`for (let i = 0; i < 3; i += 1) { print(i, "x"); }`,
	`def add(a, b) { return a + b; }`,
	`class Point extends Base { def constructor(x) { super(x); this.x = x; } }`,
	`let p = new Point(1, 2); p.move(3); p.shapes[0].draw();`,
}

func newEngine(tb testing.TB, config script.Config) *script.Engine {
	tb.Helper()
	if config.Logger == nil {
		config.Logger = sflog.Discard()
	}
	engine, err := script.NewEngine(config)
	if err != nil {
		tb.Fatalf("NewEngine() error = %v", err)
	}
	return engine
}

// generateProgram returns n class declarations, each followed by an
// instantiation and a method call
func generateProgram(n int) string {
	var b strings.Builder
	b.WriteString("class Base {\n  def constructor(w, h) {\n    this.w = w;\n    this.h = h;\n  }\n}\n\n")

	for i := 0; i < n; i++ {
		fmt.Fprintf(&b, `class Shape%[1]d extends Base {
  def constructor(w, h) {
    super(w, h);
    this.area = w * h;
    this.locked = false;
  }

  def scale(factor) {
    let total = 0;
    for (let i = 0; i < factor; i += 1) {
      total += this.area;
    }
    if (total > 100 && !this.locked) {
      return "large";
    } else {
      return null;
    }
  }
}

let s%[1]d = new Shape%[1]d(%[1]d, 3);
s%[1]d.scale(4);

`, i)
	}
	return b.String()
}
