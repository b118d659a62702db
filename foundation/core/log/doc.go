// Package log provides structured, leveled logging for scriptfront.
//
// Package: log
// Title: scriptfront Structured Logging
// Description: Leveled logger with context fields, request ids and pluggable
//              output formats (JSON, text, colored console, logfmt). A Timer
//              measures operations such as a single parse and logs the
//              elapsed time on completion.
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
//	import sflog "github.com/msto63/scriptfront/foundation/core/log"
//
//	logger := sflog.NewWithConfig(sflog.Config{
//		Level:  sflog.LevelDebug,
//		Format: sflog.FormatConsole,
//		Name:   "parser",
//	})
//	logger.Info("parse completed", sflog.Fields{"statements": 4})
//
//	timer := logger.StartTimer("parse")
//	defer timer.Stop()
package log
