// ============================================================================
// scriptfront - Script Language Front End
// ============================================================================
//
// Package:     audit
// Description: SQLite implementation of the audit store
// Author:      Mike Stoffels
// Created:     2026-10-18
// License:     MIT
// ============================================================================

package audit

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	sferror "github.com/msto63/scriptfront/foundation/core/error"
)

// SQLiteStore implements Store using SQLite in WAL mode
type SQLiteStore struct {
	db *sql.DB
	mu sync.RWMutex
}

// SQLiteConfig holds configuration for the SQLite store
type SQLiteConfig struct {
	Path string
}

// DefaultSQLiteConfig returns default configuration
func DefaultSQLiteConfig() SQLiteConfig {
	return SQLiteConfig{
		Path: "./data/audit.db",
	}
}

// NewSQLiteStore opens or creates the audit database
func NewSQLiteStore(cfg SQLiteConfig) (*SQLiteStore, error) {
	dir := filepath.Dir(cfg.Path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, storageError(err, "failed to create directory", "audit.NewSQLiteStore")
	}

	db, err := sql.Open("sqlite3", cfg.Path+"?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000")
	if err != nil {
		return nil, storageError(err, "failed to open database", "audit.NewSQLiteStore")
	}

	store := &SQLiteStore{db: db}

	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, storageError(err, "failed to initialize schema", "audit.NewSQLiteStore")
	}

	return store, nil
}

func (s *SQLiteStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS parse_audit (
		id TEXT PRIMARY KEY,
		created_at DATETIME NOT NULL,
		transport TEXT NOT NULL,
		operation TEXT NOT NULL,
		request_id TEXT,
		source_sha256 TEXT NOT NULL,
		source_length INTEGER NOT NULL,
		status TEXT NOT NULL,
		error_code TEXT,
		error_message TEXT,
		statement_count INTEGER NOT NULL DEFAULT 0,
		node_count INTEGER NOT NULL DEFAULT 0,
		duration_us INTEGER NOT NULL DEFAULT 0
	);

	CREATE INDEX IF NOT EXISTS idx_parse_audit_created_at ON parse_audit(created_at DESC);
	CREATE INDEX IF NOT EXISTS idx_parse_audit_status ON parse_audit(status);
	CREATE INDEX IF NOT EXISTS idx_parse_audit_request_id ON parse_audit(request_id);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Record stores a new audit entry, filling in ID and CreatedAt when empty
func (s *SQLiteStore) Record(ctx context.Context, record *Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if record.ID == "" {
		record.ID = uuid.New().String()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now()
	}
	record.CreatedAt = record.CreatedAt.UTC()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO parse_audit (
			id, created_at, transport, operation, request_id, source_sha256, source_length,
			status, error_code, error_message, statement_count, node_count, duration_us
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		record.ID, record.CreatedAt, record.Transport, record.Operation,
		nullString(record.RequestID), record.SourceSHA256, record.SourceLength,
		string(record.Status), nullString(record.ErrorCode), nullString(record.ErrorMessage),
		record.StatementCount, record.NodeCount, record.Duration.Microseconds(),
	)
	if err != nil {
		return storageError(err, "failed to record audit entry", "audit.Record")
	}
	return nil
}

// Recent returns the newest records first
func (s *SQLiteStore) Recent(ctx context.Context, limit int) ([]*Record, error) {
	return s.Query(ctx, Filter{Limit: limit})
}

// Query returns records matching filter, newest first
func (s *SQLiteStore) Query(ctx context.Context, filter Filter) ([]*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `SELECT id, created_at, transport, operation, request_id, source_sha256, source_length,
		status, error_code, error_message, statement_count, node_count, duration_us
		FROM parse_audit WHERE 1=1`
	var args []interface{}

	if filter.Transport != "" {
		query += " AND transport = ?"
		args = append(args, filter.Transport)
	}
	if filter.Status != "" {
		query += " AND status = ?"
		args = append(args, string(filter.Status))
	}
	if filter.ErrorCode != "" {
		query += " AND error_code = ?"
		args = append(args, filter.ErrorCode)
	}
	if filter.RequestID != "" {
		query += " AND request_id = ?"
		args = append(args, filter.RequestID)
	}
	if !filter.Since.IsZero() {
		query += " AND created_at >= ?"
		args = append(args, filter.Since.UTC())
	}

	query += " ORDER BY created_at DESC, rowid DESC"

	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
		if filter.Offset > 0 {
			query += " OFFSET ?"
			args = append(args, filter.Offset)
		}
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storageError(err, "failed to query audit log", "audit.Query")
	}
	defer rows.Close()

	records := make([]*Record, 0)
	for rows.Next() {
		var (
			record                            Record
			status                            string
			requestID, errorCode, errorMessage sql.NullString
			durationUS                        int64
		)
		if err := rows.Scan(
			&record.ID, &record.CreatedAt, &record.Transport, &record.Operation, &requestID,
			&record.SourceSHA256, &record.SourceLength, &status, &errorCode, &errorMessage,
			&record.StatementCount, &record.NodeCount, &durationUS,
		); err != nil {
			return nil, storageError(err, "failed to scan audit entry", "audit.Query")
		}
		record.Status = Status(status)
		record.RequestID = requestID.String
		record.ErrorCode = errorCode.String
		record.ErrorMessage = errorMessage.String
		record.Duration = time.Duration(durationUS) * time.Microsecond
		records = append(records, &record)
	}
	if err := rows.Err(); err != nil {
		return nil, storageError(err, "failed to read audit log", "audit.Query")
	}

	return records, nil
}

// Stats returns counts per status, error code and transport
func (s *SQLiteStore) Stats(ctx context.Context) (*Stats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := newStats()

	var avg sql.NullFloat64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*), AVG(duration_us) FROM parse_audit`).Scan(&stats.Total, &avg)
	if err != nil {
		return nil, storageError(err, "failed to count audit entries", "audit.Stats")
	}
	stats.AvgDurationUS = avg.Float64

	groups := []struct {
		column string
		add    func(key string, count int64)
	}{
		{"status", func(key string, count int64) { stats.ByStatus[Status(key)] = count }},
		{"error_code", func(key string, count int64) { stats.ByErrorCode[key] = count }},
		{"transport", func(key string, count int64) { stats.ByTransport[key] = count }},
	}
	for _, group := range groups {
		if err := s.countBy(ctx, group.column, group.add); err != nil {
			return nil, err
		}
	}

	if stats.Total > 0 {
		var last time.Time
		err := s.db.QueryRowContext(ctx, `SELECT created_at FROM parse_audit ORDER BY created_at DESC LIMIT 1`).Scan(&last)
		if err != nil {
			return nil, storageError(err, "failed to read last audit entry", "audit.Stats")
		}
		stats.LastRecord = last
	}

	return stats, nil
}

// countBy groups non-empty values of column; column is never user input
func (s *SQLiteStore) countBy(ctx context.Context, column string, add func(string, int64)) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+column+`, COUNT(*) FROM parse_audit WHERE `+column+` IS NOT NULL AND `+column+` != '' GROUP BY `+column)
	if err != nil {
		return storageError(err, "failed to group audit entries", "audit.Stats")
	}
	defer rows.Close()

	for rows.Next() {
		var key string
		var count int64
		if err := rows.Scan(&key, &count); err != nil {
			return storageError(err, "failed to scan audit group", "audit.Stats")
		}
		add(key, count)
	}
	return rows.Err()
}

// Prune removes entries older than the specified duration
func (s *SQLiteStore) Prune(ctx context.Context, olderThan time.Duration) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := time.Now().Add(-olderThan).UTC()

	result, err := s.db.ExecContext(ctx, `DELETE FROM parse_audit WHERE created_at < ?`, cutoff)
	if err != nil {
		return 0, storageError(err, "failed to prune audit log", "audit.Prune")
	}
	deleted, _ := result.RowsAffected()
	return deleted, nil
}

// Vacuum reclaims space after large prunes
func (s *SQLiteStore) Vacuum(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.ExecContext(ctx, `VACUUM`); err != nil {
		return storageError(err, "failed to vacuum audit log", "audit.Vacuum")
	}
	return nil
}

// Ping verifies the database is reachable
func (s *SQLiteStore) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return storageError(err, "audit database unreachable", "audit.Ping")
	}
	return nil
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func storageError(err error, message, operation string) *sferror.Error {
	return sferror.Wrap(err, message).
		WithCode(sferror.CodeStorage).
		WithOperation(operation)
}
