// ============================================================================
// scriptfront - Script Language Front End
// ============================================================================
//
// Package:     auditview
// Description: Message types for the audit log viewer
// Author:      Mike Stoffels
// Created:     2026-10-18
// License:     MIT
// ============================================================================

package auditview

import (
	"time"

	"github.com/msto63/scriptfront/internal/audit"
)

// recordsLoadedMsg is sent when records are loaded from the store
type recordsLoadedMsg struct {
	records []*audit.Record
	err     error
}

// statsLoadedMsg is sent when the store statistics are loaded
type statsLoadedMsg struct {
	stats *audit.Stats
	err   error
}

// storeStatusMsg reports whether the store answers a ping
type storeStatusMsg struct {
	online bool
	err    error
}

// tickMsg drives the periodic refresh
type tickMsg time.Time
