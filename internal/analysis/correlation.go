package analysis

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"insightengine/domain/analysis"
	"insightengine/domain/core"
	"insightengine/domain/dataset"
)

// Correlations computes the pairwise Pearson correlation matrix across the
// given numeric columns. Each unordered pair is computed once and mirrored;
// the diagonal is forced to 1.0.
//
// Rows are filtered jointly: a row contributes to a pair only when both
// cells parse as numbers. Filtering each column independently and zipping by
// index would silently misalign rows whenever the columns have different
// numbers of missing values.
func Correlations(table *dataset.Table, numericCols []string) analysis.CorrelationMatrix {
	matrix := make(analysis.CorrelationMatrix, len(numericCols))
	for _, col := range numericCols {
		matrix[col] = make(map[string]float64, len(numericCols))
		matrix[col][col] = 1.0
	}

	for i := 0; i < len(numericCols); i++ {
		for j := i + 1; j < len(numericCols); j++ {
			xs, ys := pairedValues(table, numericCols[i], numericCols[j])
			r := pearson(xs, ys)
			matrix[numericCols[i]][numericCols[j]] = r
			matrix[numericCols[j]][numericCols[i]] = r
		}
	}
	return matrix
}

// pairedValues extracts jointly-parseable value pairs for two columns.
func pairedValues(table *dataset.Table, colX, colY string) ([]float64, []float64) {
	idxX := table.ColumnIndex(core.ColumnKey(colX))
	idxY := table.ColumnIndex(core.ColumnKey(colY))
	if idxX < 0 || idxY < 0 {
		return nil, nil
	}

	xs := make([]float64, 0, table.RowCount())
	ys := make([]float64, 0, table.RowCount())
	for _, row := range table.Rows {
		x, okX := row[idxX].AsNumber()
		y, okY := row[idxY].AsNumber()
		if okX && okY {
			xs = append(xs, x)
			ys = append(ys, y)
		}
	}
	return xs, ys
}

// pearson returns the Pearson coefficient, or 0 when either side has zero
// variance or fewer than two pairs survive filtering. The zero is a guard
// against divide-by-zero, not a statistical statement.
func pearson(xs, ys []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	r := stat.Correlation(xs, ys, nil)
	if math.IsNaN(r) {
		return 0
	}
	// Clamp float noise so callers can rely on [-1, 1].
	if r > 1 {
		r = 1
	}
	if r < -1 {
		r = -1
	}
	return r
}
