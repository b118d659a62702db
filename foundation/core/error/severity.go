// File: severity.go
// Title: Error Severity Levels
// Description: Severity classification for structured errors.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-18
// Modified: 2026-10-18
//
// Change History:
// - 2026-10-18 v0.1.0: Initial implementation

package error

// Severity represents the severity level of an error
type Severity int

const (
	// SeverityLow marks problems caused by the caller's input
	SeverityLow Severity = iota
	SeverityMedium
	SeverityHigh
	// SeverityCritical marks failures that leave a component unusable
	SeverityCritical
)

// String returns the string representation of the severity level
func (s Severity) String() string {
	switch s {
	case SeverityLow:
		return "low"
	case SeverityMedium:
		return "medium"
	case SeverityHigh:
		return "high"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// ShouldAlert returns true if this severity level should trigger alerts
func (s Severity) ShouldAlert() bool {
	return s >= SeverityHigh
}

// GetSeverityFromCode determines the default severity for an error code
func GetSeverityFromCode(code Code) Severity {
	switch code {
	case CodeLexical, CodeSyntax, CodeUnexpectedEOF, CodeInputTooLong,
		CodeInvalidInput, CodeNotFound:
		return SeverityLow
	case CodeStorage, CodeInvalidConfig, CodeMissingConfig:
		return SeverityHigh
	case CodeServiceUnavailable:
		return SeverityCritical
	default:
		return SeverityMedium
	}
}
