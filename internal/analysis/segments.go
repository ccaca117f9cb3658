package analysis

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/montanaflynn/stats"

	"insightengine/domain/analysis"
	"insightengine/domain/core"
	"insightengine/domain/dataset"
)

const maxTopCustomers = 10

// rfmSegmentNames maps two-digit recency+frequency quintile codes onto named
// behavioral segments. Codes not listed fall through to "Others".
var rfmSegmentNames = []struct {
	name  string
	codes []string
}{
	{"Champions", []string{"55", "54", "45"}},
	{"Loyal", []string{"53", "52", "51", "44", "43", "42", "35", "34", "33"}},
	{"Potential", []string{"41", "32", "31", "25", "24", "23"}},
	{"New", []string{"15", "14", "13", "12", "11"}},
}

// SegmentCustomers runs an RFM-style analysis over transaction groups:
// recency in days against the newest timestamp, frequency as rows per group,
// both scored into quintiles and mapped onto named segments. Requires a
// transaction key column; recency degrades to a constant without a date
// column.
func SegmentCustomers(table *dataset.Table, classification analysis.Classification) *analysis.CustomerSegments {
	productCol, _ := detectProductColumn(table, classification)
	txnCol, ok := detectTransactionColumn(table, productCol)
	if !ok {
		return nil
	}

	keys, frequency, recency := rfmInputs(table, txnCol)
	if len(keys) == 0 {
		return nil
	}

	rBounds := quintileBounds(recency, keys)
	fBounds := quintileBounds(frequency, keys)

	segments := make(map[string]int)
	sums := make(map[string]*analysis.SegmentStats)
	for _, key := range keys {
		// Fresh groups score high on recency, so the recency quintile is
		// inverted.
		rScore := 6 - quintileScore(float64(recency[key]), rBounds)
		fScore := quintileScore(float64(frequency[key]), fBounds)
		segment := segmentForCode(fmt.Sprintf("%d%d", rScore, fScore))

		segments[segment]++
		if sums[segment] == nil {
			sums[segment] = &analysis.SegmentStats{}
		}
		sums[segment].AvgRecencyDays += float64(recency[key])
		sums[segment].AvgFrequency += float64(frequency[key])
	}

	segmentStats := make(map[string]analysis.SegmentStats, len(sums))
	for segment, sum := range sums {
		segmentStats[segment] = analysis.SegmentStats{
			AvgRecencyDays: sum.AvgRecencyDays / float64(segments[segment]),
			AvgFrequency:   sum.AvgFrequency / float64(segments[segment]),
		}
	}

	return &analysis.CustomerSegments{
		Segments:     segments,
		SegmentStats: segmentStats,
		TopCustomers: topCustomers(keys, frequency, recency),
	}
}

// rfmInputs collects per-group frequency and recency. Recency is days
// between the group's newest timestamp and the dataset's newest; without a
// usable date column every group gets recency 1.
func rfmInputs(table *dataset.Table, txnCol string) ([]string, map[string]int, map[string]int) {
	txnIdx := table.ColumnIndex(core.ColumnKey(txnCol))

	dateIdx := -1
	if dateCol, ok := detectDateColumn(table); ok {
		dateIdx = table.ColumnIndex(core.ColumnKey(dateCol))
	}

	keys := make([]string, 0)
	frequency := make(map[string]int)
	latest := make(map[string]time.Time)
	var newest time.Time

	for _, row := range table.Rows {
		key, ok := row[txnIdx].AsString()
		if !ok {
			continue
		}
		if _, seen := frequency[key]; !seen {
			keys = append(keys, key)
		}
		frequency[key]++

		if dateIdx < 0 {
			continue
		}
		raw, ok := row[dateIdx].AsString()
		if !ok {
			continue
		}
		if at, ok := parseDate(strings.TrimSpace(raw)); ok {
			if at.After(latest[key]) {
				latest[key] = at
			}
			if at.After(newest) {
				newest = at
			}
		}
	}

	recency := make(map[string]int, len(keys))
	for _, key := range keys {
		if newest.IsZero() || latest[key].IsZero() {
			recency[key] = 1
			continue
		}
		recency[key] = int(newest.Sub(latest[key]).Hours() / 24)
	}
	return keys, frequency, recency
}

// quintileBounds computes the 20/40/60/80 percentile cut points of one RFM
// input across all groups.
func quintileBounds(values map[string]int, keys []string) [4]float64 {
	data := make([]float64, 0, len(keys))
	for _, key := range keys {
		data = append(data, float64(values[key]))
	}

	var bounds [4]float64
	for i, p := range []float64{20, 40, 60, 80} {
		v, err := stats.Percentile(data, p)
		if err != nil {
			v = data[0]
		}
		bounds[i] = v
	}
	return bounds
}

// quintileScore maps a value onto 1..5 by counting exceeded cut points.
func quintileScore(value float64, bounds [4]float64) int {
	score := 1
	for _, bound := range bounds {
		if value > bound {
			score++
		}
	}
	return score
}

func segmentForCode(code string) string {
	for _, s := range rfmSegmentNames {
		for _, c := range s.codes {
			if c == code {
				return s.name
			}
		}
	}
	return "Others"
}

func topCustomers(keys []string, frequency, recency map[string]int) []analysis.TopCustomer {
	ranked := append([]string(nil), keys...)
	sort.SliceStable(ranked, func(a, b int) bool {
		return frequency[ranked[a]] > frequency[ranked[b]]
	})
	if len(ranked) > maxTopCustomers {
		ranked = ranked[:maxTopCustomers]
	}

	top := make([]analysis.TopCustomer, 0, len(ranked))
	for _, key := range ranked {
		top = append(top, analysis.TopCustomer{
			Key:         key,
			Frequency:   frequency[key],
			RecencyDays: recency[key],
		})
	}
	return top
}
