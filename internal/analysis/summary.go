package analysis

import (
	"math"

	"github.com/montanaflynn/stats"

	"insightengine/domain/analysis"
	"insightengine/domain/core"
	"insightengine/domain/dataset"
)

// numericValues extracts every parseable numeric value of a column in row
// order. Unparseable and missing cells are dropped, never errored.
func numericValues(table *dataset.Table, col string) []float64 {
	cells := table.Column(core.ColumnKey(col))
	values := make([]float64, 0, len(cells))
	for _, cell := range cells {
		if v, ok := cell.AsNumber(); ok {
			values = append(values, v)
		}
	}
	return values
}

// SummarizeNumeric computes mean/min/max and population standard deviation
// for one numeric column. A column with zero parseable values yields NaN
// stats; the engine does not synthesize a placeholder.
func SummarizeNumeric(table *dataset.Table, col string) analysis.NumericStats {
	values := numericValues(table, col)
	if len(values) == 0 {
		nan := math.NaN()
		return analysis.NumericStats{Mean: nan, Min: nan, Max: nan, Std: nan}
	}

	mean, _ := stats.Mean(values)
	min, _ := stats.Min(values)
	max, _ := stats.Max(values)
	std, _ := stats.StandardDeviationPopulation(values)

	return analysis.NumericStats{Mean: mean, Min: min, Max: max, Std: std}
}

// SummarizeCategorical counts distinct values and finds the mode of one
// categorical column. Ties break to the first value seen in row order;
// missing cells are excluded from the frequency map entirely.
func SummarizeCategorical(table *dataset.Table, col string) analysis.CategoricalStats {
	cells := table.Column(core.ColumnKey(col))

	counts := make(map[string]int, len(cells))
	order := make([]string, 0, len(cells))
	for _, cell := range cells {
		value, ok := cell.AsString()
		if !ok {
			continue
		}
		if _, seen := counts[value]; !seen {
			order = append(order, value)
		}
		counts[value]++
	}

	mostCommon := ""
	frequency := 0
	for _, value := range order {
		if counts[value] > frequency {
			mostCommon = value
			frequency = counts[value]
		}
	}

	return analysis.CategoricalStats{
		UniqueValues: len(counts),
		MostCommon:   mostCommon,
		Frequency:    frequency,
	}
}
