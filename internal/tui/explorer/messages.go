// ============================================================================
// scriptfront - Script Language Front End
// ============================================================================
//
// Package:     explorer
// Description: Message types for async operations in the explorer
// Author:      Mike Stoffels
// Created:     2026-10-18
// License:     MIT
// ============================================================================

package explorer

import (
	"github.com/msto63/scriptfront/foundation/script"
	"github.com/msto63/scriptfront/foundation/script/lexer"
)

// debounceMsg fires after typing pauses; stale sequence numbers are ignored
type debounceMsg struct {
	seq int
}

// parsedMsg carries the outcome of a background parse
type parsedMsg struct {
	seq    int
	result *script.Result
	tokens []lexer.Token
	err    error
}
