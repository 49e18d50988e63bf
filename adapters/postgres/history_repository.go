// Package postgres provides the database-backed run history. It is
// optional: without a configured database URL the app falls back to the
// in-memory log.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"autoeda/domain/core"
	"autoeda/ports"
)

// HistoryRepository implements ports.HistoryRepository for PostgreSQL
type HistoryRepository struct {
	db *sqlx.DB
}

var _ ports.HistoryRepository = (*HistoryRepository)(nil)

// NewHistoryRepository creates a repository over an open connection
func NewHistoryRepository(db *sqlx.DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

// EnsureSchema creates the run-history table when absent
func (r *HistoryRepository) EnsureSchema(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			source TEXT NOT NULL,
			reference TEXT NOT NULL,
			name TEXT NOT NULL,
			row_count INTEGER NOT NULL,
			col_count INTEGER NOT NULL,
			fingerprint TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to ensure runs table: %w", err)
	}
	return nil
}

type runRow struct {
	ID          string    `db:"id"`
	Source      string    `db:"source"`
	Reference   string    `db:"reference"`
	Name        string    `db:"name"`
	RowCount    int       `db:"row_count"`
	ColCount    int       `db:"col_count"`
	Fingerprint string    `db:"fingerprint"`
	CreatedAt   time.Time `db:"created_at"`
}

func (row runRow) toRecord() ports.RunRecord {
	return ports.RunRecord{
		ID:          core.RunID(row.ID),
		Source:      row.Source,
		Reference:   row.Reference,
		Name:        row.Name,
		Rows:        row.RowCount,
		Cols:        row.ColCount,
		Fingerprint: core.Fingerprint(row.Fingerprint),
		CreatedAt:   row.CreatedAt,
	}
}

// SaveRun records one run
func (r *HistoryRepository) SaveRun(ctx context.Context, record ports.RunRecord) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO runs (id, source, reference, name, row_count, col_count, fingerprint, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, string(record.ID), record.Source, record.Reference, record.Name,
		record.Rows, record.Cols, record.Fingerprint.String(), record.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}
	return nil
}

// GetRun looks a run up by id
func (r *HistoryRepository) GetRun(ctx context.Context, id core.RunID) (*ports.RunRecord, error) {
	var row runRow
	err := r.db.GetContext(ctx, &row, `
		SELECT id, source, reference, name, row_count, col_count, fingerprint, created_at
		FROM runs
		WHERE id = $1
	`, string(id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", core.ErrRunNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load run: %w", err)
	}
	record := row.toRecord()
	return &record, nil
}

// ListRuns returns the newest runs, up to limit; limit <= 0 means a page of
// the most recent hundred
func (r *HistoryRepository) ListRuns(ctx context.Context, limit int) ([]ports.RunRecord, error) {
	if limit <= 0 {
		limit = 100
	}
	var rows []runRow
	err := r.db.SelectContext(ctx, &rows, `
		SELECT id, source, reference, name, row_count, col_count, fingerprint, created_at
		FROM runs
		ORDER BY created_at DESC, id DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}

	records := make([]ports.RunRecord, len(rows))
	for i, row := range rows {
		records[i] = row.toRecord()
	}
	return records, nil
}
