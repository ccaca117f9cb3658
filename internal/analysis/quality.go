package analysis

import (
	"fmt"
	"math"
	"strings"

	"github.com/montanaflynn/stats"

	"insightengine/domain/analysis"
	"insightengine/domain/dataset"
)

const (
	qualitySampleRows = 100

	missingIssuePct = 5.0  // per-column missing share that raises an issue
	driftIssuePct   = 10.0 // sampled type-drift share that raises an issue
	outlierIssuePct = 1.0  // 3σ outlier share that raises an issue

	maxRecommendations = 5
)

// AssessQuality rolls missing-value and per-column issue density into a
// 0-100 score with a letter-style rating and capped recommendations.
func AssessQuality(table *dataset.Table) analysis.DataQualityReport {
	totalRows := table.RowCount()
	totalCols := table.ColumnCount()
	if totalRows == 0 || totalCols == 0 {
		return analysis.DataQualityReport{
			Rating:        analysis.RatingVeryPoor,
			ColumnIssues:  map[string][]string{},
			MissingValues: map[string]analysis.MissingValueStat{},
		}
	}

	columnIssues := make(map[string][]string)
	missingValues := make(map[string]analysis.MissingValueStat, totalCols)
	totalMissing := 0
	columnsWithIssues := 0
	hasDrift := false
	hasOutliers := false

	for idx, col := range table.Columns {
		name := string(col)
		issues := []string{}

		missing := countMissing(table, idx)
		missingPct := 100 * float64(missing) / float64(totalRows)
		missingValues[name] = analysis.MissingValueStat{Count: missing, Percentage: missingPct}
		totalMissing += missing
		if missingPct > missingIssuePct {
			issues = append(issues, fmt.Sprintf("missing values (%.1f%%)", missingPct))
		}

		if driftPct, drifted := detectTypeDrift(table, idx); drifted {
			hasDrift = true
			issues = append(issues, fmt.Sprintf("inconsistent types (%.1f%% of sample)", driftPct))
		}

		if outlierPct, found := detectOutlierShare(table, idx); found {
			hasOutliers = true
			issues = append(issues, fmt.Sprintf("outliers (%.1f%% beyond 3 std dev)", outlierPct))
		}

		if len(issues) > 0 {
			columnIssues[name] = issues
			columnsWithIssues++
		}
	}

	overallMissingPct := 0.0
	if totalRows > 0 && totalCols > 0 {
		overallMissingPct = 100 * float64(totalMissing) / float64(totalRows*totalCols)
	}
	issueColumnPct := 0.0
	if totalCols > 0 {
		issueColumnPct = 100 * float64(columnsWithIssues) / float64(totalCols)
	}

	score := 100.0
	score -= math.Min(30, overallMissingPct*2)
	score -= math.Min(30, issueColumnPct*1.5)
	score = math.Max(0, math.Min(100, score))
	overallScore := int(math.Round(score))

	return analysis.DataQualityReport{
		OverallScore:    overallScore,
		Rating:          ratingForScore(overallScore),
		ColumnIssues:    columnIssues,
		MissingValues:   missingValues,
		Recommendations: buildRecommendations(overallMissingPct, hasDrift, hasOutliers, overallScore, totalRows),
	}
}

// countMissing counts null-ish cells across ALL rows of one column. An
// empty or whitespace-only string counts as missing.
func countMissing(table *dataset.Table, colIdx int) int {
	missing := 0
	for _, row := range table.Rows {
		cell := row[colIdx]
		if cell.IsMissing() {
			missing++
			continue
		}
		if cell.Kind == dataset.CellString && strings.TrimSpace(cell.Text) == "" {
			missing++
		}
	}
	return missing
}

// detectTypeDrift samples up to 100 rows and compares each cell's coarse
// type (numeric-parseable vs text) against the first row's type for the
// column. Reports true when more than 10% of the sample disagrees.
func detectTypeDrift(table *dataset.Table, colIdx int) (float64, bool) {
	sample := table.RowCount()
	if sample > qualitySampleRows {
		sample = qualitySampleRows
	}

	baseline, ok := coarseType(table.Rows[0][colIdx])
	if !ok {
		return 0, false
	}

	sampled := 0
	disagree := 0
	for r := 0; r < sample; r++ {
		t, ok := coarseType(table.Rows[r][colIdx])
		if !ok {
			continue
		}
		sampled++
		if t != baseline {
			disagree++
		}
	}
	if sampled == 0 {
		return 0, false
	}

	driftPct := 100 * float64(disagree) / float64(sampled)
	return driftPct, driftPct > driftIssuePct
}

func coarseType(cell dataset.Cell) (string, bool) {
	if cell.IsMissing() {
		return "", false
	}
	if cell.Kind == dataset.CellString && strings.TrimSpace(cell.Text) == "" {
		return "", false
	}
	if _, ok := cell.AsNumber(); ok {
		return "number", true
	}
	return "text", true
}

// detectOutlierShare computes the share of parseable values beyond 3σ for a
// numeric-coercible column. Reports true when the share exceeds 1%.
func detectOutlierShare(table *dataset.Table, colIdx int) (float64, bool) {
	values := make([]float64, 0, table.RowCount())
	for _, row := range table.Rows {
		if v, ok := row[colIdx].AsNumber(); ok {
			values = append(values, v)
		}
	}
	if len(values) < 2 {
		return 0, false
	}

	mean, _ := stats.Mean(values)
	std, _ := stats.StandardDeviationPopulation(values)
	if std == 0 {
		return 0, false
	}

	beyond := 0
	for _, v := range values {
		if math.Abs(v-mean) > 3*std {
			beyond++
		}
	}
	outlierPct := 100 * float64(beyond) / float64(len(values))
	return outlierPct, outlierPct > outlierIssuePct
}

func ratingForScore(score int) analysis.QualityRating {
	switch {
	case score >= 90:
		return analysis.RatingExcellent
	case score >= 75:
		return analysis.RatingGood
	case score >= 60:
		return analysis.RatingFair
	case score >= 40:
		return analysis.RatingPoor
	default:
		return analysis.RatingVeryPoor
	}
}

func buildRecommendations(missingPct float64, hasDrift, hasOutliers bool, score, totalRows int) []string {
	recs := make([]string, 0, maxRecommendations)
	if missingPct > missingIssuePct {
		recs = append(recs, "Fill or drop rows with missing values before relying on column statistics")
	}
	if hasDrift {
		recs = append(recs, "Normalize mixed-type columns so every value shares one representation")
	}
	if hasOutliers {
		recs = append(recs, "Review flagged outliers; they can distort means and correlations")
	}
	if totalRows < 30 {
		recs = append(recs, "Collect more records; small samples make the statistics unstable")
	}
	if score < 60 {
		recs = append(recs, "Re-export the source data; overall quality is too low for confident insights")
	}
	if len(recs) > maxRecommendations {
		recs = recs[:maxRecommendations]
	}
	return recs
}
