package ports

import (
	"context"
	"encoding/json"
	"time"

	"insightengine/domain/core"
)

// AnalysisRecord is the persisted form of one completed analysis: identity,
// upload metadata, headline quality numbers, and the full result payload as
// JSON for replay.
type AnalysisRecord struct {
	ID            core.AnalysisID `db:"id"`
	Filename      string          `db:"filename"`
	RowCount      int             `db:"row_count"`
	ColumnCount   int             `db:"column_count"`
	QualityScore  int             `db:"quality_score"`
	QualityRating string          `db:"quality_rating"`
	Result        json.RawMessage `db:"result"`
	CreatedAt     time.Time       `db:"created_at"`
}

// AnalysisRepository stores and retrieves completed analyses.
type AnalysisRepository interface {
	Create(ctx context.Context, record *AnalysisRecord) error
	GetByID(ctx context.Context, id core.AnalysisID) (*AnalysisRecord, error)
	List(ctx context.Context, limit, offset int) ([]*AnalysisRecord, error)
}
