// Package error provides structured errors for the scriptfront tool chain.
//
// Package: error
// Title: scriptfront Error Handling
// Description: Structured error type carrying a code, a severity, the failing
//              operation and free-form details. The lexer and parser return
//              their own positional error types; the engine and the outer
//              surfaces (CLI, gRPC, HTTP) convert those into this type so that
//              every transport can map a failure to its status model.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-18
// Modified: 2026-10-18
//
// Change History:
// - 2026-10-18 v0.1.0: Initial implementation
//
// Usage:
//
//	import sferror "github.com/msto63/scriptfront/foundation/core/error"
//
//	err := sferror.New("unexpected end of input").
//		WithCode(sferror.CodeUnexpectedEOF).
//		WithOperation("script.Parse").
//		WithDetail("line", 3)
//
//	if sferror.HasCode(err, sferror.CodeUnexpectedEOF) {
//		// ask the user for more input
//	}
package error
