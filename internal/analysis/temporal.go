package analysis

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"insightengine/domain/analysis"
	"insightengine/domain/core"
	"insightengine/domain/dataset"
)

// dateNameHints mark a column as date-like by name alone.
var dateNameHints = []string{"date", "time", "day", "week", "month"}

// Date-like value shapes: ISO-ish numeric dates, month-name dates, and
// weekday abbreviations.
var (
	isoDatePattern     = regexp.MustCompile(`^\d{4}[-/]\d{1,2}[-/]\d{1,2}`)
	numericDatePattern = regexp.MustCompile(`^\d{1,2}[-/]\d{1,2}[-/]\d{4}`)
	monthNamePattern   = regexp.MustCompile(`(?i)^(jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\.?\s+\d{1,2}`)
	weekdayPattern     = regexp.MustCompile(`(?i)^(mon|tue|wed|thu|fri|sat|sun)[a-z]*$`)
)

// dateLayouts are tried in order when parsing a cell as a calendar date.
// The dd-mm-yyyy forms mirror the retail exports this service commonly sees.
var dateLayouts = []string{
	"02-01-2006 15:04",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02 15:04",
	"2006-01-02",
	"2006/01/02",
	"02-01-2006",
	"02/01/2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"Jan 2 2006",
}

// fallbackDailyShares drive the synthetic histogram when no real pattern is
// detected: deterministic percentages of the total row count, weekend-heavy
// the way retail traffic usually skews. They sum to 1.0.
var fallbackDailyShares = []struct {
	day   string
	share float64
}{
	{"Monday", 0.11},
	{"Tuesday", 0.11},
	{"Wednesday", 0.13},
	{"Thursday", 0.14},
	{"Friday", 0.18},
	{"Saturday", 0.20},
	{"Sunday", 0.13},
}

// ExtractTimePatterns buckets rows by weekday and hour using a detected
// date-like column. Malformed date strings are skipped per-row. When no
// column is detected, or nothing parses, a deterministic proportional
// fallback histogram is returned and marked as such.
func ExtractTimePatterns(table *dataset.Table) analysis.TimePatterns {
	col, ok := detectDateColumn(table)
	if !ok {
		return fallbackPatterns(table.RowCount())
	}

	daily := make(map[string]int)
	hourly := make(map[string]int)
	monthly := make(map[string]int)
	for _, cell := range table.Column(core.ColumnKey(col)) {
		raw, ok := cell.AsString()
		if !ok {
			continue
		}
		raw = strings.TrimSpace(raw)
		if t, ok := parseDate(raw); ok {
			daily[t.Weekday().String()]++
			hourly[strconv.Itoa(t.Hour())]++
			monthly[t.Month().String()]++
			continue
		}
		// Bucket-only fallback path for bare weekday abbreviations.
		if day, ok := weekdayFromAbbrev(raw); ok {
			daily[day]++
		}
	}

	if len(daily) == 0 && len(hourly) == 0 {
		return fallbackPatterns(table.RowCount())
	}
	return analysis.TimePatterns{
		Source:  analysis.SourceDetected,
		Column:  col,
		Daily:   daily,
		Hourly:  hourly,
		Monthly: monthly,
	}
}

// detectDateColumn returns the first column that is date-like by name or
// whose first values look like dates.
func detectDateColumn(table *dataset.Table) (string, bool) {
	for _, col := range table.Columns {
		name := strings.ToLower(string(col))
		for _, hint := range dateNameHints {
			if strings.Contains(name, hint) {
				return string(col), true
			}
		}
	}
	for i, col := range table.Columns {
		if columnValuesLookDated(table, i) {
			return string(col), true
		}
	}
	return "", false
}

// columnValuesLookDated samples the first values of a column and requires
// every sampled value to match a date-like shape.
func columnValuesLookDated(table *dataset.Table, colIdx int) bool {
	const sampleValues = 5
	matched := 0
	seen := 0
	for _, row := range table.Rows {
		if seen >= sampleValues {
			break
		}
		cell := row[colIdx]
		if cell.Kind != dataset.CellString {
			if cell.IsMissing() {
				continue
			}
			return false
		}
		value := strings.TrimSpace(cell.Text)
		if value == "" {
			continue
		}
		seen++
		if isoDatePattern.MatchString(value) || numericDatePattern.MatchString(value) ||
			monthNamePattern.MatchString(value) || weekdayPattern.MatchString(value) {
			matched++
		}
	}
	return seen > 0 && matched == seen
}

// parseDate attempts the known layouts in order.
func parseDate(value string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// parseClockTime parses only hour-bearing layouts. Date-only values report
// false rather than defaulting to midnight.
func parseClockTime(value string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if !strings.Contains(layout, "15") {
			continue
		}
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

var weekdayNames = map[string]string{
	"mon": "Monday",
	"tue": "Tuesday",
	"wed": "Wednesday",
	"thu": "Thursday",
	"fri": "Friday",
	"sat": "Saturday",
	"sun": "Sunday",
}

func weekdayFromAbbrev(value string) (string, bool) {
	if !weekdayPattern.MatchString(value) {
		return "", false
	}
	prefix := strings.ToLower(value)
	if len(prefix) > 3 {
		prefix = prefix[:3]
	}
	day, ok := weekdayNames[prefix]
	return day, ok
}

// fallbackPatterns synthesizes a daily histogram as fixed percentages of the
// row count. Deterministic, never random; zero buckets are pruned.
func fallbackPatterns(totalRows int) analysis.TimePatterns {
	daily := make(map[string]int, len(fallbackDailyShares))
	for _, s := range fallbackDailyShares {
		count := int(math.Round(s.share * float64(totalRows)))
		if count > 0 {
			daily[s.day] = count
		}
	}
	return analysis.TimePatterns{
		Source: analysis.SourceFallback,
		Daily:  daily,
	}
}
