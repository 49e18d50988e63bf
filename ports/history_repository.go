package ports

import (
	"context"
	"time"

	"autoeda/domain/core"
)

// RunRecord summarizes one completed pipeline run for the history view
type RunRecord struct {
	ID          core.RunID       `json:"id"`
	Source      string           `json:"source"`    // upload, url or dataset
	Reference   string           `json:"reference"` // file name, url or owner/name
	Name        string           `json:"name"`
	Rows        int              `json:"rows"`
	Cols        int              `json:"cols"`
	Fingerprint core.Fingerprint `json:"fingerprint"`
	CreatedAt   time.Time        `json:"created_at"`
}

// HistoryRepository records pipeline runs
type HistoryRepository interface {
	SaveRun(ctx context.Context, record RunRecord) error
	GetRun(ctx context.Context, id core.RunID) (*RunRecord, error)
	// ListRuns returns the most recent runs, newest first
	ListRuns(ctx context.Context, limit int) ([]RunRecord, error)
}
