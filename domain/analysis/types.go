package analysis

import (
	"encoding/json"
	"math"
)

// ColumnType classifies a dataset column
type ColumnType string

const (
	TypeNumeric     ColumnType = "numeric"
	TypeCategorical ColumnType = "categorical"
)

// Classification maps column name to its inferred type. Decided once per
// analysis; never changes mid-run.
type Classification map[string]ColumnType

// NumericStats summarizes a numeric column. Std is the population standard
// deviation (divisor N). A column with zero parseable values carries NaN
// stats; MarshalJSON renders those as null rather than erroring.
type NumericStats struct {
	Mean float64 `json:"mean"`
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
	Std  float64 `json:"std"`
}

func (s NumericStats) MarshalJSON() ([]byte, error) {
	nullable := func(v float64) *float64 {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil
		}
		return &v
	}
	return json.Marshal(struct {
		Mean *float64 `json:"mean"`
		Min  *float64 `json:"min"`
		Max  *float64 `json:"max"`
		Std  *float64 `json:"std"`
	}{nullable(s.Mean), nullable(s.Min), nullable(s.Max), nullable(s.Std)})
}

// CategoricalStats summarizes a categorical column. Mode ties resolve to the
// first value encountered in row order.
type CategoricalStats struct {
	UniqueValues int    `json:"unique_values"`
	MostCommon   string `json:"most_common"`
	Frequency    int    `json:"frequency"`
}

// CorrelationMatrix holds pairwise Pearson coefficients between numeric
// columns. Symmetric by construction with 1.0 on the diagonal.
type CorrelationMatrix map[string]map[string]float64

// PatternSource distinguishes real detected time patterns from the
// deterministic synthetic fallback.
type PatternSource string

const (
	SourceDetected PatternSource = "detected"
	SourceFallback PatternSource = "fallback"
)

// TimePatterns holds transaction-count histograms keyed by weekday name,
// hour of day, and month name. Zero-count buckets are pruned; the monthly
// histogram only exists on the detected path.
type TimePatterns struct {
	Source  PatternSource  `json:"source"`
	Column  string         `json:"column,omitempty"`
	Daily   map[string]int `json:"daily,omitempty"`
	Hourly  map[string]int `json:"hourly,omitempty"`
	Monthly map[string]int `json:"monthly,omitempty"`
}

// AssociatedItem is one co-occurrence partner with its confidence
// (co-occurrence count / occurrence count of the key product).
type AssociatedItem struct {
	Item       string  `json:"item"`
	Confidence float64 `json:"confidence"`
}

// AssociationMap maps a product to its top co-occurrence partners, ranked by
// confidence descending. Empty when no product signal exists.
type AssociationMap map[string][]AssociatedItem

// LargeValueReport flags rows whose value exceeds mean+2σ on the leading
// numeric column, keyed by synthetic transaction ids (T1000, T1001, …).
type LargeValueReport struct {
	Description  string         `json:"description"`
	Transactions map[string]int `json:"transactions"`
}

// RareItemReport lists categorical values occurring at most twice.
type RareItemReport struct {
	Description string   `json:"description"`
	Items       []string `json:"items"`
}

// UnusualHoursReport counts rows timestamped outside business hours
// (10PM-6AM), keyed by hour of day.
type UnusualHoursReport struct {
	Description string         `json:"description"`
	Counts      map[string]int `json:"counts"`
}

// AnomalyReport carries optional, independently-omitted sub-reports.
type AnomalyReport struct {
	LargeTransactions *LargeValueReport   `json:"large_transactions,omitempty"`
	RareItems         *RareItemReport     `json:"rare_items,omitempty"`
	UnusualHours      *UnusualHoursReport `json:"unusual_hours,omitempty"`
}

// SalesForecast projects daily transaction volume forward from the observed
// series with a trailing moving average. Bounds are fixed ±20% bands around
// the projection.
type SalesForecast struct {
	Dates           []string `json:"dates"`
	Predicted       []int    `json:"predicted"`
	LowerBound      []int    `json:"lower_bound"`
	UpperBound      []int    `json:"upper_bound"`
	TrendPct        float64  `json:"trend"`
	SeasonalPeriods string   `json:"seasonal_periods"`
	PeakForecastDay string   `json:"peak_forecast_day"`
}

// SegmentStats averages the RFM inputs within one segment.
type SegmentStats struct {
	AvgRecencyDays float64 `json:"avg_recency_days"`
	AvgFrequency   float64 `json:"avg_frequency"`
}

// TopCustomer is one high-frequency transaction group.
type TopCustomer struct {
	Key         string `json:"key"`
	Frequency   int    `json:"frequency"`
	RecencyDays int    `json:"recency_days"`
}

// CustomerSegments is the RFM-style grouping of transaction keys: quintile
// recency and frequency scores mapped onto named behavioral segments.
type CustomerSegments struct {
	Segments     map[string]int          `json:"segments"`
	SegmentStats map[string]SegmentStats `json:"segment_stats"`
	TopCustomers []TopCustomer           `json:"top_customers"`
}

// QualityRating is the letter-style grade derived from the overall score.
type QualityRating string

const (
	RatingExcellent QualityRating = "Excellent"
	RatingGood      QualityRating = "Good"
	RatingFair      QualityRating = "Fair"
	RatingPoor      QualityRating = "Poor"
	RatingVeryPoor  QualityRating = "Very Poor"
)

// MissingValueStat counts missing cells for one column.
type MissingValueStat struct {
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// DataQualityReport rolls missing-value and per-column issue density into a
// 0-100 score with a rating and capped recommendations.
type DataQualityReport struct {
	OverallScore    int                         `json:"overall_score"`
	Rating          QualityRating               `json:"rating"`
	ColumnIssues    map[string][]string         `json:"column_issues"`
	MissingValues   map[string]MissingValueStat `json:"missing_values"`
	Recommendations []string                    `json:"recommendations"`
}

// Result is the complete output of one analysis pass. Every field is derived
// fresh per invocation and never mutated after construction.
type Result struct {
	NumericColumns      map[string]NumericStats     `json:"numeric_columns"`
	CategoricalColumns  map[string]CategoricalStats `json:"categorical_columns"`
	Correlations        CorrelationMatrix           `json:"correlations"`
	TimePatterns        TimePatterns                `json:"time_patterns"`
	ProductAssociations AssociationMap              `json:"product_associations"`
	Anomalies           AnomalyReport               `json:"anomalies"`
	DataQuality         DataQualityReport           `json:"data_quality"`
	SalesForecast       *SalesForecast              `json:"sales_forecast,omitempty"`
	CustomerSegments    *CustomerSegments           `json:"customer_segments,omitempty"`
	TotalRows           int                         `json:"total_rows"`
}
