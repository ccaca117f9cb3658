// Package postgres persists completed analyses with sqlx.
package postgres

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"insightengine/domain/core"
	"insightengine/internal/errors"
	"insightengine/ports"
)

const schema = `
CREATE TABLE IF NOT EXISTS analyses (
	id             TEXT PRIMARY KEY,
	filename       TEXT NOT NULL,
	row_count      INTEGER NOT NULL,
	column_count   INTEGER NOT NULL,
	quality_score  INTEGER NOT NULL,
	quality_rating TEXT NOT NULL,
	result         JSONB NOT NULL,
	created_at     TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_analyses_created_at ON analyses (created_at DESC);
`

// AnalysisRepository implements ports.AnalysisRepository on Postgres.
type AnalysisRepository struct {
	db *sqlx.DB
}

// NewAnalysisRepository connects to Postgres and ensures the schema exists.
func NewAnalysisRepository(databaseURL string) (*AnalysisRepository, error) {
	db, err := sqlx.Connect("postgres", databaseURL)
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to database")
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "failed to ensure analyses schema")
	}
	return &AnalysisRepository{db: db}, nil
}

// Close releases the underlying connection pool.
func (r *AnalysisRepository) Close() error {
	return r.db.Close()
}

// Create stores one completed analysis.
func (r *AnalysisRepository) Create(ctx context.Context, record *ports.AnalysisRecord) error {
	const query = `
		INSERT INTO analyses (id, filename, row_count, column_count, quality_score, quality_rating, result, created_at)
		VALUES (:id, :filename, :row_count, :column_count, :quality_score, :quality_rating, :result, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, record); err != nil {
		return errors.Wrap(err, "failed to insert analysis record")
	}
	return nil
}

// GetByID fetches one analysis by its id.
func (r *AnalysisRepository) GetByID(ctx context.Context, id core.AnalysisID) (*ports.AnalysisRecord, error) {
	const query = `
		SELECT id, filename, row_count, column_count, quality_score, quality_rating, result, created_at
		FROM analyses WHERE id = $1`
	var record ports.AnalysisRecord
	if err := r.db.GetContext(ctx, &record, query, string(id)); err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NotFound("analysis")
		}
		return nil, errors.Wrap(err, "failed to fetch analysis record")
	}
	return &record, nil
}

// List returns analyses newest-first.
func (r *AnalysisRepository) List(ctx context.Context, limit, offset int) ([]*ports.AnalysisRecord, error) {
	const query = `
		SELECT id, filename, row_count, column_count, quality_score, quality_rating, result, created_at
		FROM analyses ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	records := make([]*ports.AnalysisRecord, 0)
	if err := r.db.SelectContext(ctx, &records, query, limit, offset); err != nil {
		return nil, errors.Wrap(err, "failed to list analysis records")
	}
	return records, nil
}
