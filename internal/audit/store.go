// ============================================================================
// scriptfront - Script Language Front End
// ============================================================================
//
// Package:     audit
// Description: Parse audit log. Records request metadata for every parse or
//              tokenize request served; the source text and the AST are
//              never stored, only a SHA-256 fingerprint and counts.
// Author:      Mike Stoffels
// Created:     2026-10-18
// License:     MIT
// ============================================================================

package audit

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Status is the outcome of an audited request
type Status string

const (
	StatusOK       Status = "ok"       // parsed or tokenized
	StatusRejected Status = "rejected" // source error: lexical, syntax, too long
	StatusFailed   Status = "failed"   // internal failure or timeout
)

// Transport names the surface a request arrived on
const (
	TransportGRPC      = "grpc"
	TransportHTTP      = "http"
	TransportWebSocket = "websocket"
	TransportCLI       = "cli"
)

// Record is a single audit entry
type Record struct {
	ID             string        `json:"id"`
	CreatedAt      time.Time     `json:"created_at"`
	Transport      string        `json:"transport"`
	Operation      string        `json:"operation"`
	RequestID      string        `json:"request_id,omitempty"`
	SourceSHA256   string        `json:"source_sha256"`
	SourceLength   int           `json:"source_length"`
	Status         Status        `json:"status"`
	ErrorCode      string        `json:"error_code,omitempty"`
	ErrorMessage   string        `json:"error_message,omitempty"`
	StatementCount int           `json:"statement_count"`
	NodeCount      int           `json:"node_count"` // token count for tokenize requests
	Duration       time.Duration `json:"duration_ns"`
}

// Filter narrows Query results. Zero fields match everything.
type Filter struct {
	Transport string
	Status    Status
	ErrorCode string
	RequestID string
	Since     time.Time
	Limit     int
	Offset    int
}

// Stats summarizes the audit log
type Stats struct {
	Total         int64            `json:"total"`
	ByStatus      map[Status]int64 `json:"by_status"`
	ByErrorCode   map[string]int64 `json:"by_error_code"`
	ByTransport   map[string]int64 `json:"by_transport"`
	AvgDurationUS float64          `json:"avg_duration_us"`
	LastRecord    time.Time        `json:"last_record,omitempty"`
}

// Store persists audit records
type Store interface {
	Record(ctx context.Context, record *Record) error
	Recent(ctx context.Context, limit int) ([]*Record, error)
	Query(ctx context.Context, filter Filter) ([]*Record, error)
	Stats(ctx context.Context) (*Stats, error)
	Prune(ctx context.Context, olderThan time.Duration) (int64, error)
	Ping(ctx context.Context) error
	Close() error
}

// Fingerprint returns the hex SHA-256 of source
func Fingerprint(source string) string {
	sum := sha256.Sum256([]byte(source))
	return hex.EncodeToString(sum[:])
}

func newStats() *Stats {
	return &Stats{
		ByStatus:    make(map[Status]int64),
		ByErrorCode: make(map[string]int64),
		ByTransport: make(map[string]int64),
	}
}
