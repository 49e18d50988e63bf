// Package history keeps the run log shown on the index page: one record
// per resolved dataset, newest first.
package history

import (
	"context"
	"fmt"
	"sync"

	"autoeda/domain/core"
	"autoeda/ports"
)

// DefaultCap bounds the in-memory repository
const DefaultCap = 100

// MemoryRepository is a bounded in-memory run log. Records past capacity
// are dropped oldest first. It is the fallback when no database is
// configured.
type MemoryRepository struct {
	mu      sync.Mutex
	cap     int
	records []ports.RunRecord // newest first
}

var _ ports.HistoryRepository = (*MemoryRepository)(nil)

// NewMemoryRepository creates an empty repository; capacity <= 0 falls back
// to DefaultCap
func NewMemoryRepository(capacity int) *MemoryRepository {
	if capacity <= 0 {
		capacity = DefaultCap
	}
	return &MemoryRepository{cap: capacity}
}

// SaveRun records one run
func (r *MemoryRepository) SaveRun(ctx context.Context, record ports.RunRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append([]ports.RunRecord{record}, r.records...)
	if len(r.records) > r.cap {
		r.records = r.records[:r.cap]
	}
	return nil
}

// GetRun looks a run up by id
func (r *MemoryRepository) GetRun(ctx context.Context, id core.RunID) (*ports.RunRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.records {
		if r.records[i].ID == id {
			record := r.records[i]
			return &record, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", core.ErrRunNotFound, id)
}

// ListRuns returns the newest records, up to limit; limit <= 0 means all
func (r *MemoryRepository) ListRuns(ctx context.Context, limit int) ([]ports.RunRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := len(r.records)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]ports.RunRecord, n)
	copy(out, r.records[:n])
	return out, nil
}
