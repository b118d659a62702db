// Package integration holds cross-package tests of the scriptfront
// foundation: lexer, parser, AST encoding, engine and structured errors
// exercised together.
//
// Package: integration
// Title: scriptfront Foundation Integration Tests
// Description: Integration tests and benchmarks spanning the script
//              packages and the error and log frameworks.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-18
// Modified: 2026-10-18
//
// Change History:
// - 2026-10-18 v0.1.0: Initial implementation
//
// Test Categories:
//
// Module Integration Tests (module_integration_test.go):
// - Token stream and AST agreement
// - JSON encoding checked with encoding/json
// - Concurrent mixed use of one engine
//
// Error Integration Tests (error_integration_test.go):
// - Error codes, severities and HTTP statuses per failure class
// - Position details and cause chains through the engine
// - Incomplete input detection on raw and wrapped errors
//
// Performance Integration Tests (performance_test.go):
// - Parse and tokenize throughput for small and large programs
// - Parallel parsing with pooled parsers
// - JSON encoding of large trees
//
// Running:
//
//	go test -v ./foundation/test/integration/
//	go test -bench=. ./foundation/test/integration/
package integration
