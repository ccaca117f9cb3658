// Package insights renders an analysis result into readable markdown text.
package insights

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"insightengine/domain/analysis"
)

// strongCorrelation is the absolute Pearson threshold worth calling out.
const strongCorrelation = 0.7

// Generate builds deterministic markdown insight text from an analysis
// result. It is the fallback narrative when no LLM is configured, and the
// grounding text when one is.
func Generate(result *analysis.Result) string {
	var b strings.Builder

	b.WriteString("## Key Insights\n\n")
	fmt.Fprintf(&b, "Analyzed **%d rows** across **%d columns** (%d numeric, %d categorical).\n\n",
		result.TotalRows,
		len(result.NumericColumns)+len(result.CategoricalColumns),
		len(result.NumericColumns), len(result.CategoricalColumns))

	writeNumericSection(&b, result.NumericColumns)
	writeCategoricalSection(&b, result.CategoricalColumns)
	writeCorrelationSection(&b, result.Correlations)
	writeTimeSection(&b, result.TimePatterns)
	writeAssociationSection(&b, result.ProductAssociations)
	writeForecastSection(&b, result.SalesForecast)
	writeSegmentSection(&b, result.CustomerSegments)
	writeQualitySection(&b, result.DataQuality)

	return strings.TrimRight(b.String(), "\n") + "\n"
}

func writeNumericSection(b *strings.Builder, cols map[string]analysis.NumericStats) {
	if len(cols) == 0 {
		return
	}
	b.WriteString("### Numeric Columns\n\n")
	for _, name := range sortedKeys(cols) {
		s := cols[name]
		if math.IsNaN(s.Mean) {
			fmt.Fprintf(b, "- **%s**: no numeric values\n", name)
			continue
		}
		fmt.Fprintf(b, "- **%s**: mean %s, range %s to %s\n",
			name, formatNumber(s.Mean), formatNumber(s.Min), formatNumber(s.Max))
	}
	b.WriteString("\n")
}

func writeCategoricalSection(b *strings.Builder, cols map[string]analysis.CategoricalStats) {
	if len(cols) == 0 {
		return
	}
	b.WriteString("### Categorical Columns\n\n")
	for _, name := range sortedKeys(cols) {
		s := cols[name]
		if s.MostCommon == "" {
			fmt.Fprintf(b, "- **%s**: %d unique values\n", name, s.UniqueValues)
			continue
		}
		fmt.Fprintf(b, "- **%s**: %d unique values, most common is %q (%d times)\n",
			name, s.UniqueValues, s.MostCommon, s.Frequency)
	}
	b.WriteString("\n")
}

func writeCorrelationSection(b *strings.Builder, matrix analysis.CorrelationMatrix) {
	type pair struct {
		a, b string
		r    float64
	}
	pairs := make([]pair, 0)
	for _, a := range sortedKeys(matrix) {
		for _, c := range sortedKeys(matrix[a]) {
			if a >= c {
				continue
			}
			r := matrix[a][c]
			if math.Abs(r) >= strongCorrelation && math.Abs(r) < 1 {
				pairs = append(pairs, pair{a: a, b: c, r: r})
			}
		}
	}
	if len(pairs) == 0 {
		return
	}
	sort.SliceStable(pairs, func(i, j int) bool {
		return math.Abs(pairs[i].r) > math.Abs(pairs[j].r)
	})

	b.WriteString("### Notable Correlations\n\n")
	for _, p := range pairs {
		direction := "positively"
		if p.r < 0 {
			direction = "negatively"
		}
		fmt.Fprintf(b, "- **%s** and **%s** are strongly %s correlated (r = %.2f)\n",
			p.a, p.b, direction, p.r)
	}
	b.WriteString("\n")
}

func writeTimeSection(b *strings.Builder, patterns analysis.TimePatterns) {
	if len(patterns.Daily) == 0 && len(patterns.Hourly) == 0 {
		return
	}
	b.WriteString("### Time Patterns\n\n")
	if day, count, ok := peakBucket(patterns.Daily); ok {
		fmt.Fprintf(b, "- Busiest day: **%s** (%d records)\n", day, count)
	}
	if hour, count, ok := peakBucket(patterns.Hourly); ok {
		fmt.Fprintf(b, "- Busiest hour: **%s:00** (%d records)\n", hour, count)
	}
	if patterns.Source == analysis.SourceFallback {
		b.WriteString("- No date column was detected; daily figures are estimated from typical weekly activity\n")
	}
	b.WriteString("\n")
}

func writeAssociationSection(b *strings.Builder, associations analysis.AssociationMap) {
	if len(associations) == 0 {
		return
	}
	b.WriteString("### Product Associations\n\n")
	for _, key := range sortedKeys(associations) {
		partners := associations[key]
		if len(partners) == 0 {
			continue
		}
		top := partners[0]
		fmt.Fprintf(b, "- Buyers of **%s** also take **%s** %.0f%% of the time\n",
			key, top.Item, top.Confidence*100)
	}
	b.WriteString("\n")
}

func writeForecastSection(b *strings.Builder, forecast *analysis.SalesForecast) {
	if forecast == nil || len(forecast.Predicted) == 0 {
		return
	}
	b.WriteString("### Sales Forecast\n\n")
	fmt.Fprintf(b, "- Projected **%d transactions/day** over the next %d days (range %d to %d)\n",
		forecast.Predicted[0], len(forecast.Predicted), forecast.LowerBound[0], forecast.UpperBound[0])
	fmt.Fprintf(b, "- Peak forecast day: **%s**\n", forecast.PeakForecastDay)
	b.WriteString("\n")
}

func writeSegmentSection(b *strings.Builder, segments *analysis.CustomerSegments) {
	if segments == nil || len(segments.Segments) == 0 {
		return
	}
	b.WriteString("### Customer Segments\n\n")
	for _, name := range sortedKeys(segments.Segments) {
		stats := segments.SegmentStats[name]
		fmt.Fprintf(b, "- **%s**: %d customers, averaging %.1f purchases\n",
			name, segments.Segments[name], stats.AvgFrequency)
	}
	b.WriteString("\n")
}

func writeQualitySection(b *strings.Builder, quality analysis.DataQualityReport) {
	b.WriteString("### Data Quality\n\n")
	fmt.Fprintf(b, "- Overall score: **%d/100** (%s)\n", quality.OverallScore, quality.Rating)
	for _, rec := range quality.Recommendations {
		fmt.Fprintf(b, "- %s\n", rec)
	}
	b.WriteString("\n")
}

// peakBucket returns the key with the highest count, breaking ties by
// lexical key order for determinism.
func peakBucket(buckets map[string]int) (string, int, bool) {
	if len(buckets) == 0 {
		return "", 0, false
	}
	best := ""
	bestCount := -1
	for _, key := range sortedKeys(buckets) {
		if buckets[key] > bestCount {
			best = key
			bestCount = buckets[key]
		}
	}
	return best, bestCount, true
}

func formatNumber(v float64) string {
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return strconv.FormatFloat(v, 'f', 0, 64)
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func sortedKeys[M ~map[string]V, V any](m M) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
