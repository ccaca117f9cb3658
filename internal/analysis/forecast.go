package analysis

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/montanaflynn/stats"

	"insightengine/domain/analysis"
	"insightengine/domain/core"
	"insightengine/domain/dataset"
)

const (
	forecastDays = 30
	// forecastWindow is the trailing moving-average window over daily
	// transaction counts.
	forecastWindow = 7
)

// ForecastSales projects daily transaction volume 30 days forward using a
// trailing moving average over the observed daily series. Requires a
// detected date column; without one, or when nothing parses, there is no
// forecast.
func ForecastSales(table *dataset.Table, classification analysis.Classification) *analysis.SalesForecast {
	dateCol, ok := detectDateColumn(table)
	if !ok {
		return nil
	}

	daily := dailyTransactionCounts(table, classification, dateCol)
	if len(daily) == 0 {
		return nil
	}

	days := make([]time.Time, 0, len(daily))
	for day := range daily {
		days = append(days, day)
	}
	sort.Slice(days, func(a, b int) bool { return days[a].Before(days[b]) })

	window := forecastWindow
	if window > len(days) {
		window = len(days)
	}
	tail := make([]float64, 0, window)
	for _, day := range days[len(days)-window:] {
		tail = append(tail, float64(daily[day]))
	}
	ma, _ := stats.Mean(tail)
	predicted := int(math.Round(ma))

	forecast := &analysis.SalesForecast{
		Dates:           make([]string, 0, forecastDays),
		Predicted:       make([]int, 0, forecastDays),
		LowerBound:      make([]int, 0, forecastDays),
		UpperBound:      make([]int, 0, forecastDays),
		SeasonalPeriods: "not detected",
	}
	last := days[len(days)-1]
	for i := 1; i <= forecastDays; i++ {
		forecast.Dates = append(forecast.Dates, last.AddDate(0, 0, i).Format("2006-01-02"))
		forecast.Predicted = append(forecast.Predicted, predicted)
		forecast.LowerBound = append(forecast.LowerBound, int(ma*0.8))
		forecast.UpperBound = append(forecast.UpperBound, int(ma*1.2))
	}
	forecast.PeakForecastDay = forecast.Dates[0]
	return forecast
}

// dailyTransactionCounts buckets rows by calendar date. When a transaction
// key column exists, distinct keys are counted per day instead of raw rows.
func dailyTransactionCounts(table *dataset.Table, classification analysis.Classification, dateCol string) map[time.Time]int {
	productCol, _ := detectProductColumn(table, classification)
	txnCol, hasTxn := detectTransactionColumn(table, productCol)

	dateIdx := table.ColumnIndex(core.ColumnKey(dateCol))
	txnIdx := -1
	if hasTxn {
		txnIdx = table.ColumnIndex(core.ColumnKey(txnCol))
	}

	counts := make(map[time.Time]int)
	seen := make(map[time.Time]map[string]bool)
	for _, row := range table.Rows {
		raw, ok := row[dateIdx].AsString()
		if !ok {
			continue
		}
		at, ok := parseDate(strings.TrimSpace(raw))
		if !ok {
			continue
		}
		day := time.Date(at.Year(), at.Month(), at.Day(), 0, 0, 0, 0, time.UTC)

		if txnIdx < 0 {
			counts[day]++
			continue
		}
		key, ok := row[txnIdx].AsString()
		if !ok {
			continue
		}
		if seen[day] == nil {
			seen[day] = make(map[string]bool)
		}
		if !seen[day][key] {
			seen[day][key] = true
			counts[day]++
		}
	}
	return counts
}
