// ============================================================================
// scriptfront - Script Language Front End
// ============================================================================
//
// Package:     logging
// Description: Key-value logging facade over the Foundation logger
// Author:      Mike Stoffels
// Created:     2026-10-18
// License:     MIT
// ============================================================================

package logging

import (
	sflog "github.com/msto63/scriptfront/foundation/core/log"
)

// Logger wraps the Foundation logger with key-value style methods
type Logger struct {
	*sflog.Logger
	name string
}

// New creates a named logger with the default configuration
func New(name string) *Logger {
	return &Logger{
		Logger: NewSimpleLogger(name),
		name:   name,
	}
}

// Wrap adapts an existing Foundation logger
func Wrap(logger *sflog.Logger) *Logger {
	if logger == nil {
		logger = sflog.GetDefault()
	}
	return &Logger{Logger: logger, name: logger.Name()}
}

// With returns a logger carrying the given key-value pairs on every entry
func (l *Logger) With(keysAndValues ...interface{}) *Logger {
	return &Logger{
		Logger: l.Logger.WithFields(toFields(keysAndValues...)),
		name:   l.name,
	}
}

// Debug logs a debug message with key-value pairs
func (l *Logger) Debug(msg string, keysAndValues ...interface{}) {
	l.Logger.Debug(msg, toFields(keysAndValues...))
}

// Info logs an info message with key-value pairs
func (l *Logger) Info(msg string, keysAndValues ...interface{}) {
	l.Logger.Info(msg, toFields(keysAndValues...))
}

// Warn logs a warning message with key-value pairs
func (l *Logger) Warn(msg string, keysAndValues ...interface{}) {
	l.Logger.Warn(msg, toFields(keysAndValues...))
}

// Error logs an error message with key-value pairs
func (l *Logger) Error(msg string, keysAndValues ...interface{}) {
	l.Logger.Error(msg, toFields(keysAndValues...))
}

// toFields converts key-value pairs to sflog.Fields. Pairs with a
// non-string key and a trailing orphan key are dropped.
func toFields(keysAndValues ...interface{}) sflog.Fields {
	if len(keysAndValues) == 0 {
		return nil
	}

	fields := make(sflog.Fields)
	for i := 0; i < len(keysAndValues)-1; i += 2 {
		key, ok := keysAndValues[i].(string)
		if !ok {
			continue
		}
		fields[key] = keysAndValues[i+1]
	}
	return fields
}
