package insights

import (
	"strings"
	"testing"

	"insightengine/domain/analysis"
)

func sampleResult() *analysis.Result {
	return &analysis.Result{
		NumericColumns: map[string]analysis.NumericStats{
			"sales": {Mean: 137.5, Min: 120, Max: 150, Std: 12.99},
		},
		CategoricalColumns: map[string]analysis.CategoricalStats{
			"product": {UniqueValues: 2, MostCommon: "Coffee", Frequency: 2},
		},
		Correlations: analysis.CorrelationMatrix{
			"sales": {"sales": 1, "units": 0.92},
			"units": {"units": 1, "sales": 0.92},
		},
		TimePatterns: analysis.TimePatterns{
			Source: analysis.SourceDetected,
			Column: "date",
			Daily:  map[string]int{"Monday": 3, "Friday": 7},
			Hourly: map[string]int{"9": 4, "14": 6},
		},
		ProductAssociations: analysis.AssociationMap{
			"Coffee": {{Item: "Pastry", Confidence: 0.66}},
		},
		SalesForecast: &analysis.SalesForecast{
			Dates:           []string{"2024-03-05"},
			Predicted:       []int{12},
			LowerBound:      []int{9},
			UpperBound:      []int{14},
			SeasonalPeriods: "not detected",
			PeakForecastDay: "2024-03-05",
		},
		CustomerSegments: &analysis.CustomerSegments{
			Segments: map[string]int{"Champions": 1},
			SegmentStats: map[string]analysis.SegmentStats{
				"Champions": {AvgRecencyDays: 0, AvgFrequency: 5},
			},
			TopCustomers: []analysis.TopCustomer{{Key: "C5", Frequency: 5}},
		},
		DataQuality: analysis.DataQualityReport{
			OverallScore:    95,
			Rating:          analysis.RatingExcellent,
			Recommendations: []string{"Collect more records; small samples make the statistics unstable"},
		},
		TotalRows: 4,
	}
}

func TestGenerateCoversAllSections(t *testing.T) {
	text := Generate(sampleResult())

	for _, want := range []string{
		"4 rows",
		"**sales**: mean 137.5",
		"**product**: 2 unique values",
		"strongly positively correlated (r = 0.92)",
		"Busiest day: **Friday** (7 records)",
		"Busiest hour: **14:00** (6 records)",
		"Buyers of **Coffee** also take **Pastry** 66% of the time",
		"Projected **12 transactions/day** over the next 1 days (range 9 to 14)",
		"Peak forecast day: **2024-03-05**",
		"**Champions**: 1 customers, averaging 5.0 purchases",
		"Overall score: **95/100** (Excellent)",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("insights missing %q:\n%s", want, text)
		}
	}
}

func TestGenerateDeterministic(t *testing.T) {
	result := sampleResult()
	if Generate(result) != Generate(result) {
		t.Error("same result produced different insight text")
	}
}

func TestGenerateFallbackTimeNote(t *testing.T) {
	result := sampleResult()
	result.TimePatterns = analysis.TimePatterns{
		Source: analysis.SourceFallback,
		Daily:  map[string]int{"Saturday": 2},
	}

	text := Generate(result)
	if !strings.Contains(text, "estimated from typical weekly activity") {
		t.Errorf("no fallback disclaimer in:\n%s", text)
	}
}

func TestGenerateSkipsEmptySections(t *testing.T) {
	result := &analysis.Result{
		NumericColumns: map[string]analysis.NumericStats{
			"amount": {Mean: 10, Min: 5, Max: 15, Std: 2},
		},
		DataQuality: analysis.DataQualityReport{OverallScore: 80, Rating: analysis.RatingGood},
		TotalRows:   3,
	}

	text := Generate(result)
	for _, absent := range []string{"Categorical Columns", "Notable Correlations", "Product Associations", "Time Patterns", "Sales Forecast", "Customer Segments"} {
		if strings.Contains(text, absent) {
			t.Errorf("empty section %q rendered:\n%s", absent, text)
		}
	}
	if !strings.Contains(text, "Data Quality") {
		t.Error("quality section always renders")
	}
}
