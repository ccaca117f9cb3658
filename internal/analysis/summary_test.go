package analysis

import (
	"math"
	"testing"
)

func TestSummarizeNumeric(t *testing.T) {
	table := tableFromStrings(
		[]string{"sales"},
		[][]string{{"120"}, {"150"}, {"130"}, {"150"}},
	)

	stats := SummarizeNumeric(table, "sales")
	if !almostEqual(stats.Mean, 137.5, 1e-9) {
		t.Errorf("mean = %v, want 137.5", stats.Mean)
	}
	if stats.Min != 120 || stats.Max != 150 {
		t.Errorf("min/max = %v/%v, want 120/150", stats.Min, stats.Max)
	}
	// Population std: sqrt(mean of squared deviations), divisor N.
	want := math.Sqrt((17.5*17.5 + 12.5*12.5 + 7.5*7.5 + 12.5*12.5) / 4)
	if !almostEqual(stats.Std, want, 1e-9) {
		t.Errorf("std = %v, want %v (population)", stats.Std, want)
	}
}

func TestSummarizeNumericSkipsUnparseable(t *testing.T) {
	table := tableFromStrings(
		[]string{"amount"},
		[][]string{{"10"}, {"n/a"}, {"20"}, {""}},
	)

	stats := SummarizeNumeric(table, "amount")
	if !almostEqual(stats.Mean, 15, 1e-9) {
		t.Errorf("mean = %v, want 15 over parseable values only", stats.Mean)
	}
}

func TestSummarizeNumericEmptyColumn(t *testing.T) {
	table := tableFromStrings(
		[]string{"amount"},
		[][]string{{"n/a"}, {""}},
	)

	stats := SummarizeNumeric(table, "amount")
	if !math.IsNaN(stats.Mean) || !math.IsNaN(stats.Std) {
		t.Errorf("stats = %+v, want NaN for a column with no parseable values", stats)
	}
}

func TestSummarizeCategorical(t *testing.T) {
	table := tableFromStrings(
		[]string{"product"},
		[][]string{{"Coffee"}, {"Pastry"}, {"Coffee"}, {"Juice"}},
	)

	stats := SummarizeCategorical(table, "product")
	if stats.UniqueValues != 3 {
		t.Errorf("unique = %d, want 3", stats.UniqueValues)
	}
	if stats.MostCommon != "Coffee" || stats.Frequency != 2 {
		t.Errorf("mode = %s (%d), want Coffee (2)", stats.MostCommon, stats.Frequency)
	}
}

func TestSummarizeCategoricalTieBreaksToFirstSeen(t *testing.T) {
	table := tableFromStrings(
		[]string{"product"},
		[][]string{{"Pastry"}, {"Coffee"}, {"Coffee"}, {"Pastry"}},
	)

	stats := SummarizeCategorical(table, "product")
	if stats.MostCommon != "Pastry" {
		t.Errorf("mode = %s, want first-seen Pastry on a tie", stats.MostCommon)
	}
	if stats.Frequency != 2 {
		t.Errorf("frequency = %d, want 2", stats.Frequency)
	}
}

func TestSummarizeCategoricalExcludesMissing(t *testing.T) {
	table := tableFromStrings(
		[]string{"product"},
		[][]string{{"Coffee"}, {""}, {""}, {""}},
	)

	stats := SummarizeCategorical(table, "product")
	if stats.UniqueValues != 1 {
		t.Errorf("unique = %d, want 1 with missing cells excluded", stats.UniqueValues)
	}
	if stats.MostCommon != "Coffee" || stats.Frequency != 1 {
		t.Errorf("mode = %s (%d), want Coffee (1)", stats.MostCommon, stats.Frequency)
	}
}
