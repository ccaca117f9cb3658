package testkit

import (
	"testing"
	"time"
)

func TestGenerateTableDeterministic(t *testing.T) {
	config := DefaultRetailConfig()
	first := NewRetailDataGenerator(config).GenerateTable()
	second := NewRetailDataGenerator(config).GenerateTable()

	if first.RowCount() != second.RowCount() {
		t.Fatalf("row counts differ: %d vs %d", first.RowCount(), second.RowCount())
	}
	for r, row := range first.Rows {
		for c, cell := range row {
			if cell != second.Rows[r][c] {
				t.Fatalf("cell (%d,%d) differs between identically-seeded runs", r, c)
			}
		}
	}
}

func TestGenerateTableShape(t *testing.T) {
	config := DefaultRetailConfig()
	config.TransactionCount = 50
	table := NewRetailDataGenerator(config).GenerateTable()

	if table.ColumnCount() != 4 {
		t.Fatalf("columns = %d, want 4", table.ColumnCount())
	}
	// At least one row per transaction.
	if table.RowCount() < 50 {
		t.Errorf("rows = %d, want >= 50", table.RowCount())
	}
}

func TestGenerateTableTimestampsParse(t *testing.T) {
	table := NewRetailDataGenerator(DefaultRetailConfig()).GenerateTable()

	for i, cell := range table.Column("purchase_time") {
		raw, ok := cell.AsString()
		if !ok {
			t.Fatalf("row %d purchase_time not a string", i)
		}
		if _, err := time.Parse("02-01-2006 15:04", raw); err != nil {
			t.Fatalf("row %d timestamp %q does not parse: %v", i, raw, err)
		}
	}
}

func TestGenerateTableSeedsDiffer(t *testing.T) {
	a := DefaultRetailConfig()
	b := DefaultRetailConfig()
	b.Seed = 7

	first := NewRetailDataGenerator(a).GenerateTable()
	second := NewRetailDataGenerator(b).GenerateTable()

	if first.RowCount() == second.RowCount() {
		same := true
		for r, row := range first.Rows {
			for c, cell := range row {
				if cell != second.Rows[r][c] {
					same = false
				}
			}
		}
		if same {
			t.Error("different seeds produced identical tables")
		}
	}
}
