package analysis

import (
	"strings"

	"insightengine/domain/analysis"
	"insightengine/domain/dataset"
)

const (
	// classifierSampleRows bounds how many leading rows the classifier reads.
	classifierSampleRows = 10
	// numericThreshold is the fraction of sampled rows that must parse as
	// numbers for a column to classify numeric.
	numericThreshold = 0.7
)

// ClassifyColumns decides numeric vs categorical for every column from a
// sample of the first rows. Each column is classified exactly once; the
// result never changes mid-analysis.
func ClassifyColumns(table *dataset.Table) analysis.Classification {
	sample := table.RowCount()
	if sample > classifierSampleRows {
		sample = classifierSampleRows
	}

	classification := make(analysis.Classification, table.ColumnCount())
	for i, col := range table.Columns {
		numericCount := 0
		for r := 0; r < sample; r++ {
			cell := table.Rows[r][i]
			if cell.IsMissing() {
				continue
			}
			if cell.Kind == dataset.CellString && strings.TrimSpace(cell.Text) == "" {
				continue
			}
			if _, ok := cell.AsNumber(); ok {
				numericCount++
			}
		}
		// The denominator is the sampled row count, so blanks count against
		// the numeric ratio (8 numeric + 2 blank of 10 still passes).
		if float64(numericCount) > numericThreshold*float64(sample) {
			classification[string(col)] = analysis.TypeNumeric
		} else {
			classification[string(col)] = analysis.TypeCategorical
		}
	}
	return classification
}

// NumericColumns returns the numeric column names in schema order.
func NumericColumns(table *dataset.Table, classification analysis.Classification) []string {
	cols := make([]string, 0, table.ColumnCount())
	for _, col := range table.Columns {
		if classification[string(col)] == analysis.TypeNumeric {
			cols = append(cols, string(col))
		}
	}
	return cols
}

// CategoricalColumns returns the categorical column names in schema order.
func CategoricalColumns(table *dataset.Table, classification analysis.Classification) []string {
	cols := make([]string, 0, table.ColumnCount())
	for _, col := range table.Columns {
		if classification[string(col)] == analysis.TypeCategorical {
			cols = append(cols, string(col))
		}
	}
	return cols
}
