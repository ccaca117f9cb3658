package analysis

import (
	"fmt"
	"testing"
)

// rfmTable builds five customers with frequencies 1..5 and latest purchases
// spread over five consecutive days, so quintile scores land exactly on 1..5.
func rfmTable() [][]string {
	rows := make([][]string, 0, 15)
	for c := 1; c <= 5; c++ {
		key := fmt.Sprintf("C%d", c)
		latest := fmt.Sprintf("0%d-03-2024 10:00", c)
		rows = append(rows, []string{key, "Coffee", latest})
		for i := 1; i < c; i++ {
			rows = append(rows, []string{key, "Pastry", "01-02-2024 10:00"})
		}
	}
	return rows
}

func TestSegmentCustomersQuintileScoring(t *testing.T) {
	table := tableFromStrings([]string{"customer_id", "product", "purchase_time"}, rfmTable())
	classification := ClassifyColumns(table)

	segments := SegmentCustomers(table, classification)
	if segments == nil {
		t.Fatal("no segmentation for a keyed table")
	}

	total := 0
	for _, count := range segments.Segments {
		total += count
	}
	if total != 5 {
		t.Errorf("segment counts sum to %d, want 5 customers", total)
	}

	// C5: most recent and most frequent, code 55.
	if segments.Segments["Champions"] < 1 {
		t.Errorf("segments = %v, want C5 in Champions", segments.Segments)
	}
	// C1: least recent and least frequent, code 11.
	if segments.Segments["New"] < 1 {
		t.Errorf("segments = %v, want C1 in New", segments.Segments)
	}
	if stats, ok := segments.SegmentStats["Champions"]; !ok || stats.AvgFrequency != 5 {
		t.Errorf("Champions stats = %+v, want average frequency 5", stats)
	}
}

func TestSegmentCustomersTopCustomersRankedByFrequency(t *testing.T) {
	table := tableFromStrings([]string{"customer_id", "product", "purchase_time"}, rfmTable())
	classification := ClassifyColumns(table)

	segments := SegmentCustomers(table, classification)
	if segments == nil {
		t.Fatal("no segmentation for a keyed table")
	}
	if len(segments.TopCustomers) != 5 {
		t.Fatalf("%d top customers, want 5", len(segments.TopCustomers))
	}
	top := segments.TopCustomers[0]
	if top.Key != "C5" || top.Frequency != 5 {
		t.Errorf("top customer = %+v, want C5 with frequency 5", top)
	}
	if top.RecencyDays != 0 {
		t.Errorf("top customer recency = %d days, want 0 for the newest purchase", top.RecencyDays)
	}
	for i := 1; i < len(segments.TopCustomers); i++ {
		if segments.TopCustomers[i].Frequency > segments.TopCustomers[i-1].Frequency {
			t.Errorf("top customers out of order at %d: %+v", i, segments.TopCustomers)
		}
	}
}

func TestSegmentCustomersCapsTopCustomers(t *testing.T) {
	rows := make([][]string, 0, 12)
	for c := 0; c < 12; c++ {
		rows = append(rows, []string{fmt.Sprintf("C%02d", c), "Coffee"})
	}
	table := tableFromStrings([]string{"customer_id", "product"}, rows)
	classification := ClassifyColumns(table)

	segments := SegmentCustomers(table, classification)
	if segments == nil {
		t.Fatal("no segmentation for a keyed table")
	}
	if len(segments.TopCustomers) != 10 {
		t.Errorf("%d top customers, want cap of 10", len(segments.TopCustomers))
	}
}

func TestSegmentCustomersConstantRecencyWithoutDates(t *testing.T) {
	table := tableFromStrings(
		[]string{"customer_id", "product"},
		[][]string{
			{"C1", "Coffee"},
			{"C1", "Pastry"},
			{"C2", "Juice"},
		},
	)
	classification := ClassifyColumns(table)

	segments := SegmentCustomers(table, classification)
	if segments == nil {
		t.Fatal("no segmentation for a keyed table")
	}
	for _, customer := range segments.TopCustomers {
		if customer.RecencyDays != 1 {
			t.Errorf("%s recency = %d, want constant 1 without a date column", customer.Key, customer.RecencyDays)
		}
	}
}

func TestSegmentCustomersNoTransactionColumn(t *testing.T) {
	table := tableFromStrings(
		[]string{"product", "amount"},
		[][]string{{"Coffee", "5"}, {"Pastry", "3"}},
	)
	classification := ClassifyColumns(table)

	if segments := SegmentCustomers(table, classification); segments != nil {
		t.Errorf("segments = %v, want nil without a transaction key column", segments)
	}
}
