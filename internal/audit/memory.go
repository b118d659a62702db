// ============================================================================
// scriptfront - Script Language Front End
// ============================================================================
//
// Package:     audit
// Description: In-memory audit store, used when auditing is disabled on disk
// Author:      Mike Stoffels
// Created:     2026-10-18
// License:     MIT
// ============================================================================

package audit

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore keeps records in memory, bounded by capacity
type MemoryStore struct {
	mu       sync.RWMutex
	records  []*Record
	capacity int
}

// NewMemoryStore creates a store holding at most capacity records (0 = unbounded)
func NewMemoryStore(capacity int) *MemoryStore {
	return &MemoryStore{capacity: capacity}
}

// Record appends a copy of record
func (m *MemoryStore) Record(ctx context.Context, record *Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if record.ID == "" {
		record.ID = uuid.New().String()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now()
	}
	record.CreatedAt = record.CreatedAt.UTC()

	stored := *record
	m.records = append(m.records, &stored)
	if m.capacity > 0 && len(m.records) > m.capacity {
		m.records = m.records[len(m.records)-m.capacity:]
	}
	return nil
}

// Recent returns the newest records first
func (m *MemoryStore) Recent(ctx context.Context, limit int) ([]*Record, error) {
	return m.Query(ctx, Filter{Limit: limit})
}

// Query returns records matching filter, newest first
func (m *MemoryStore) Query(ctx context.Context, filter Filter) ([]*Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	matched := make([]*Record, 0)
	for i := len(m.records) - 1; i >= 0; i-- {
		r := m.records[i]
		if filter.Transport != "" && r.Transport != filter.Transport {
			continue
		}
		if filter.Status != "" && r.Status != filter.Status {
			continue
		}
		if filter.ErrorCode != "" && r.ErrorCode != filter.ErrorCode {
			continue
		}
		if filter.RequestID != "" && r.RequestID != filter.RequestID {
			continue
		}
		if !filter.Since.IsZero() && r.CreatedAt.Before(filter.Since) {
			continue
		}
		copied := *r
		matched = append(matched, &copied)
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	if filter.Offset > 0 {
		if filter.Offset >= len(matched) {
			return []*Record{}, nil
		}
		matched = matched[filter.Offset:]
	}
	if filter.Limit > 0 && len(matched) > filter.Limit {
		matched = matched[:filter.Limit]
	}
	return matched, nil
}

// Stats summarizes the stored records
func (m *MemoryStore) Stats(ctx context.Context) (*Stats, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	stats := newStats()
	var totalUS int64
	for _, r := range m.records {
		stats.Total++
		stats.ByStatus[r.Status]++
		if r.ErrorCode != "" {
			stats.ByErrorCode[r.ErrorCode]++
		}
		if r.Transport != "" {
			stats.ByTransport[r.Transport]++
		}
		totalUS += r.Duration.Microseconds()
		if r.CreatedAt.After(stats.LastRecord) {
			stats.LastRecord = r.CreatedAt
		}
	}
	if stats.Total > 0 {
		stats.AvgDurationUS = float64(totalUS) / float64(stats.Total)
	}
	return stats, nil
}

// Prune removes records older than olderThan
func (m *MemoryStore) Prune(ctx context.Context, olderThan time.Duration) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := time.Now().Add(-olderThan)
	kept := m.records[:0]
	var deleted int64
	for _, r := range m.records {
		if r.CreatedAt.Before(cutoff) {
			deleted++
			continue
		}
		kept = append(kept, r)
	}
	m.records = kept
	return deleted, nil
}

// Ping always succeeds
func (m *MemoryStore) Ping(ctx context.Context) error {
	return nil
}

// Close releases nothing
func (m *MemoryStore) Close() error {
	return nil
}
