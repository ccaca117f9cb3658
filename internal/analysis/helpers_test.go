package analysis

import (
	"insightengine/domain/analysis"
	"insightengine/domain/core"
	"insightengine/domain/dataset"
)

// tableFromStrings builds a test table from raw string fields, mapping empty
// strings to missing cells the same way the CSV reader does.
func tableFromStrings(columns []string, rows [][]string) *dataset.Table {
	keys := make([]core.ColumnKey, len(columns))
	for i, c := range columns {
		keys[i] = core.ColumnKey(c)
	}
	table := dataset.NewTable(keys)
	for _, raw := range rows {
		row := make(dataset.Row, len(raw))
		for i, field := range raw {
			if field == "" {
				row[i] = dataset.MissingCell()
			} else {
				row[i] = dataset.NewStringCell(field)
			}
		}
		table.AppendRow(row)
	}
	return table
}

// numericStatsFor summarizes every numeric column, mirroring what the engine
// feeds into anomaly detection.
func numericStatsFor(table *dataset.Table, classification analysis.Classification) map[string]analysis.NumericStats {
	stats := make(map[string]analysis.NumericStats)
	for _, col := range NumericColumns(table, classification) {
		stats[col] = SummarizeNumeric(table, col)
	}
	return stats
}

func almostEqual(a, b, tolerance float64) bool {
	diff := a - b
	if diff < 0 {
		diff = -diff
	}
	return diff <= tolerance
}
