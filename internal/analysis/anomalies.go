package analysis

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"insightengine/domain/analysis"
	"insightengine/domain/core"
	"insightengine/domain/dataset"
)

const (
	maxLargeTransactions = 3
	maxRareItems         = 5
	rareItemMaxCount     = 2
	// syntheticIDBase seeds the T1000, T1001, ... transaction ids.
	syntheticIDBase = 1000
)

// DetectAnomalies flags rows exceeding mean+2σ on the first numeric column
// and rare values on the first categorical column. Either sub-report is
// omitted when no qualifying rows exist.
func DetectAnomalies(table *dataset.Table, classification analysis.Classification, numericStats map[string]analysis.NumericStats) analysis.AnomalyReport {
	report := analysis.AnomalyReport{}

	if col, stats, ok := firstNumericWithStats(table, classification, numericStats); ok {
		report.LargeTransactions = detectLargeValues(table, col, stats)
	}
	if cols := CategoricalColumns(table, classification); len(cols) > 0 {
		report.RareItems = detectRareItems(table, cols[0])
	}
	report.UnusualHours = detectUnusualHours(table)
	return report
}

func firstNumericWithStats(table *dataset.Table, classification analysis.Classification, numericStats map[string]analysis.NumericStats) (string, analysis.NumericStats, bool) {
	for _, col := range NumericColumns(table, classification) {
		stats, ok := numericStats[col]
		if !ok || math.IsNaN(stats.Mean) || math.IsNaN(stats.Std) {
			continue
		}
		return col, stats, true
	}
	return "", analysis.NumericStats{}, false
}

func detectLargeValues(table *dataset.Table, col string, stats analysis.NumericStats) *analysis.LargeValueReport {
	threshold := stats.Mean + 2*stats.Std

	transactions := make(map[string]int, maxLargeTransactions)
	flagged := 0
	for _, cell := range table.Column(core.ColumnKey(col)) {
		if flagged >= maxLargeTransactions {
			break
		}
		v, ok := cell.AsNumber()
		if !ok || v <= threshold {
			continue
		}
		id := fmt.Sprintf("T%d", syntheticIDBase+flagged)
		transactions[id] = int(math.Round(v))
		flagged++
	}
	if flagged == 0 {
		return nil
	}

	return &analysis.LargeValueReport{
		Description:  fmt.Sprintf("Rows with unusually high %s (above %.1f, mean + 2 std dev)", col, threshold),
		Transactions: transactions,
	}
}

// detectUnusualHours counts rows timestamped outside business hours
// (10PM-6AM) on the detected date column. No date column, no report.
func detectUnusualHours(table *dataset.Table) *analysis.UnusualHoursReport {
	col, ok := detectDateColumn(table)
	if !ok {
		return nil
	}

	counts := make(map[string]int)
	for _, cell := range table.Column(core.ColumnKey(col)) {
		raw, ok := cell.AsString()
		if !ok {
			continue
		}
		t, ok := parseClockTime(strings.TrimSpace(raw))
		if !ok {
			continue
		}
		if hour := t.Hour(); hour >= 22 || hour < 6 {
			counts[strconv.Itoa(hour)]++
		}
	}
	if len(counts) == 0 {
		return nil
	}

	return &analysis.UnusualHoursReport{
		Description: "Rows timestamped during unusual hours (10PM-6AM)",
		Counts:      counts,
	}
}

func detectRareItems(table *dataset.Table, col string) *analysis.RareItemReport {
	counts := make(map[string]int)
	order := make([]string, 0)
	for _, cell := range table.Column(core.ColumnKey(col)) {
		value, ok := cell.AsString()
		if !ok {
			continue
		}
		if _, seen := counts[value]; !seen {
			order = append(order, value)
		}
		counts[value]++
	}

	rare := make([]string, 0, maxRareItems)
	for _, value := range order {
		if counts[value] <= rareItemMaxCount {
			rare = append(rare, value)
			if len(rare) >= maxRareItems {
				break
			}
		}
	}
	if len(rare) == 0 {
		return nil
	}

	return &analysis.RareItemReport{
		Description: fmt.Sprintf("Values appearing at most %d times in %s", rareItemMaxCount, col),
		Items:       rare,
	}
}
