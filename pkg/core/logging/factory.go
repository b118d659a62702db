// ============================================================================
// scriptfront - Script Language Front End
// ============================================================================
//
// Package:     logging
// Description: Factory functions for creating configured loggers
// Author:      Mike Stoffels
// Created:     2026-10-18
// License:     MIT
// ============================================================================

package logging

import (
	"io"
	"os"

	sflog "github.com/msto63/scriptfront/foundation/core/log"
	"github.com/msto63/scriptfront/pkg/core/config"
)

// LoggerConfig holds configuration for creating loggers
type LoggerConfig struct {
	// Service or component name
	ServiceName string

	// Log level (trace, debug, info, warn, error)
	Level string

	// Output format: json, text, console or logfmt (default: json)
	Format string

	// Output defaults to stderr so stdout stays free for command results
	Output io.Writer

	// Additional outputs besides Output
	AdditionalOutputs []io.Writer
}

// DefaultLoggerConfig returns a default configuration
func DefaultLoggerConfig(serviceName string) LoggerConfig {
	return LoggerConfig{
		ServiceName: serviceName,
		Level:       "info",
		Format:      "json",
	}
}

// NewLogger creates a new Foundation logger. Unknown levels fall back to
// info and unknown formats to json.
func NewLogger(cfg LoggerConfig) *sflog.Logger {
	level, _ := sflog.ParseLevel(cfg.Level)
	format, _ := sflog.ParseFormat(cfg.Format)

	var output io.Writer = os.Stderr
	if cfg.Output != nil {
		output = cfg.Output
	}
	if len(cfg.AdditionalOutputs) > 0 {
		writers := append([]io.Writer{output}, cfg.AdditionalOutputs...)
		output = io.MultiWriter(writers...)
	}

	return sflog.NewWithConfig(sflog.Config{
		Level:  level,
		Format: format,
		Output: output,
		Name:   cfg.ServiceName,
	})
}

// NewSimpleLogger creates a logger with the default configuration
func NewSimpleLogger(serviceName string) *sflog.Logger {
	return NewLogger(DefaultLoggerConfig(serviceName))
}

// FromConfig creates the application logger from the general section of
// the configuration and installs it as the foundation default
func FromConfig(cfg *config.Config, serviceName string) *sflog.Logger {
	logger := NewLogger(LoggerConfig{
		ServiceName: serviceName,
		Level:       cfg.General.LogLevel,
		Format:      cfg.General.LogFormat,
	})
	sflog.SetDefault(logger)
	return logger
}
