// File: doc.go
// Title: Script Front End Package Documentation
// Description: Package script bundles the lexer and parser behind a
//              configured Engine used by the CLI and the network services.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-18
// Modified: 2026-10-18
//
// Change History:
// - 2026-10-18 v0.1.0: Initial implementation

// Package script is the entry point to the scriptfront language front end.
//
// The subpackages do the actual work:
//
//	lexer   ordered rule table and on-demand tokenizer
//	ast     node types, JSON encoding, traversal and printing
//	parser  recursive descent parser producing an ast.Program
//
// Engine adds what callers outside the core need: input limits, optional
// Unicode NFC normalization, timing logs and conversion of lexer and
// parser errors into structured errors with codes and position details.
//
// Basic usage:
//
//	engine, err := script.NewEngine(script.Config{})
//	if err != nil {
//	    return err
//	}
//	result, err := engine.Parse(ctx, "let x = 1 + 2;")
//	if err != nil {
//	    // err is a *sferror.Error with code SYNTAX_ERROR, LEXICAL_ERROR ...
//	    return err
//	}
//	data, _ := ast.ToJSON(result.Program, "  ")
//
// An Engine is safe for concurrent use. Each call borrows a Parser from an
// internal pool, since a single Parser is not.
package script
