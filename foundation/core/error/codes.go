// File: codes.go
// Title: Error Code Definitions
// Description: Error codes used across scriptfront. Codes classify failures
//              for API responses, audit records and log fields.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-18
// Modified: 2026-10-18
//
// Change History:
// - 2026-10-18 v0.1.0: Initial implementation

package error

import "net/http"

// Code represents a structured error code for categorizing errors
type Code string

const (
	// Generic codes
	CodeUnknown      Code = "UNKNOWN"
	CodeInternal     Code = "INTERNAL"
	CodeInvalidInput Code = "INVALID_INPUT"
	CodeNotFound     Code = "NOT_FOUND"
	CodeTimeout      Code = "TIMEOUT"

	// Front end
	CodeLexical       Code = "LEXICAL_ERROR"
	CodeSyntax        Code = "SYNTAX_ERROR"
	CodeUnexpectedEOF Code = "UNEXPECTED_EOF"
	CodeInputTooLong  Code = "INPUT_TOO_LONG"

	// Configuration
	CodeInvalidConfig Code = "CONFIG_INVALID"
	CodeMissingConfig Code = "CONFIG_MISSING"

	// Storage and services
	CodeStorage            Code = "STORAGE_FAILED"
	CodeServiceUnavailable Code = "SERVICE_UNAVAILABLE"
)

// String returns the string representation of the error code
func (c Code) String() string {
	return string(c)
}

// IsValid checks if the error code is a known code
func (c Code) IsValid() bool {
	switch c {
	case CodeUnknown, CodeInternal, CodeInvalidInput, CodeNotFound, CodeTimeout,
		CodeLexical, CodeSyntax, CodeUnexpectedEOF, CodeInputTooLong,
		CodeInvalidConfig, CodeMissingConfig,
		CodeStorage, CodeServiceUnavailable:
		return true
	default:
		return false
	}
}

// Category returns the high-level category of the error code
func (c Code) Category() string {
	switch c {
	case CodeLexical, CodeSyntax, CodeUnexpectedEOF, CodeInputTooLong:
		return "source"
	case CodeInvalidConfig, CodeMissingConfig:
		return "configuration"
	case CodeStorage, CodeServiceUnavailable:
		return "service"
	default:
		return "generic"
	}
}

// IsSourceError reports whether the code describes a problem with the
// submitted source text rather than with the system.
func (c Code) IsSourceError() bool {
	return c.Category() == "source" || c == CodeInvalidInput
}

// HTTPStatus returns the HTTP status code for this error code
func (c Code) HTTPStatus() int {
	switch c {
	case CodeInvalidInput, CodeLexical, CodeSyntax, CodeUnexpectedEOF:
		return http.StatusBadRequest
	case CodeInputTooLong:
		return http.StatusRequestEntityTooLarge
	case CodeNotFound:
		return http.StatusNotFound
	case CodeTimeout:
		return http.StatusRequestTimeout
	case CodeServiceUnavailable, CodeStorage:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
