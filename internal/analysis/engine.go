// Package analysis implements the CSV analysis engine: column
// classification, summary statistics, Pearson correlations, time-pattern
// extraction, product association mining, anomaly detection, and data
// quality assessment.
//
// The engine is a pure single-pass pipeline over an immutable in-memory
// table. Every stage is a stateless function; results are assembled once
// and never mutated. The only caller-visible failure is an empty dataset.
package analysis

import (
	"insightengine/domain/analysis"
	"insightengine/domain/dataset"
	"insightengine/internal"
	"insightengine/internal/errors"
)

// Engine orchestrates the analysis pipeline.
type Engine struct {
	logger *internal.Logger
}

// NewEngine creates an analysis engine.
func NewEngine() *Engine {
	return &Engine{logger: internal.DefaultLogger}
}

// Analyze runs the full pipeline over a table. Stages run strictly
// top-to-bottom; each consumes the raw table (plus the classifier's output
// where needed) and produces one independent slice of the result.
func (e *Engine) Analyze(table *dataset.Table) (*analysis.Result, error) {
	if table == nil || table.RowCount() == 0 {
		return nil, errors.EmptyDataset()
	}

	classification := ClassifyColumns(table)
	numericCols := NumericColumns(table, classification)
	categoricalCols := CategoricalColumns(table, classification)
	e.logger.Debug("[engine] classified %d numeric, %d categorical columns",
		len(numericCols), len(categoricalCols))

	numericStats := make(map[string]analysis.NumericStats, len(numericCols))
	for _, col := range numericCols {
		numericStats[col] = SummarizeNumeric(table, col)
	}

	categoricalStats := make(map[string]analysis.CategoricalStats, len(categoricalCols))
	for _, col := range categoricalCols {
		categoricalStats[col] = SummarizeCategorical(table, col)
	}

	result := &analysis.Result{
		NumericColumns:      numericStats,
		CategoricalColumns:  categoricalStats,
		Correlations:        Correlations(table, numericCols),
		TimePatterns:        ExtractTimePatterns(table),
		ProductAssociations: MineAssociations(table, classification),
		Anomalies:           DetectAnomalies(table, classification, numericStats),
		DataQuality:         AssessQuality(table),
		SalesForecast:       ForecastSales(table, classification),
		CustomerSegments:    SegmentCustomers(table, classification),
		TotalRows:           table.RowCount(),
	}

	e.logger.Info("[engine] analyzed %d rows x %d columns (quality %d/%s)",
		table.RowCount(), table.ColumnCount(),
		result.DataQuality.OverallScore, result.DataQuality.Rating)
	return result, nil
}
