package dataset

import (
	"strconv"
	"strings"

	"insightengine/domain/core"
)

// CellKind discriminates the cell sum type.
type CellKind int

const (
	CellMissing CellKind = iota
	CellNumber
	CellString
)

// Cell is a single tabular value: a number, a string, or explicitly missing.
// Source rows are untyped key-value bags; forcing every value through this
// sum type removes runtime-coercion ambiguity downstream.
type Cell struct {
	Kind   CellKind
	Number float64
	Text   string
}

// NewNumberCell creates a numeric cell
func NewNumberCell(v float64) Cell {
	return Cell{Kind: CellNumber, Number: v}
}

// NewStringCell creates a string cell
func NewStringCell(s string) Cell {
	return Cell{Kind: CellString, Text: s}
}

// MissingCell creates an explicitly-missing cell
func MissingCell() Cell {
	return Cell{Kind: CellMissing}
}

// IsMissing reports whether the cell carries no value
func (c Cell) IsMissing() bool {
	return c.Kind == CellMissing
}

// AsNumber coerces the cell to a float64. String cells are parsed; missing
// and unparseable cells report false.
func (c Cell) AsNumber() (float64, bool) {
	switch c.Kind {
	case CellNumber:
		return c.Number, true
	case CellString:
		v, err := strconv.ParseFloat(strings.TrimSpace(c.Text), 64)
		if err != nil {
			return 0, false
		}
		return v, true
	default:
		return 0, false
	}
}

// AsString returns the display form of the cell. Missing cells report false
// rather than stringifying into a sentinel value.
func (c Cell) AsString() (string, bool) {
	switch c.Kind {
	case CellNumber:
		return strconv.FormatFloat(c.Number, 'f', -1, 64), true
	case CellString:
		return c.Text, true
	default:
		return "", false
	}
}

// Row is one record, positionally aligned with the table's column schema.
type Row []Cell

// Table is an ordered, homogeneous-schema dataset. The first record's keys
// define the schema; the table is immutable for the duration of an analysis.
type Table struct {
	Columns []core.ColumnKey
	Rows    []Row
}

// NewTable creates an empty table with the given column schema
func NewTable(columns []core.ColumnKey) *Table {
	return &Table{Columns: columns}
}

// AppendRow adds a record. Short rows are padded with missing cells and long
// rows truncated so every stored row matches the schema width.
func (t *Table) AppendRow(row Row) {
	if len(row) > len(t.Columns) {
		row = row[:len(t.Columns)]
	}
	for len(row) < len(t.Columns) {
		row = append(row, MissingCell())
	}
	t.Rows = append(t.Rows, row)
}

// RowCount returns the number of records
func (t *Table) RowCount() int {
	return len(t.Rows)
}

// ColumnCount returns the schema width
func (t *Table) ColumnCount() int {
	return len(t.Columns)
}

// ColumnIndex returns the positional index of a column, or -1
func (t *Table) ColumnIndex(key core.ColumnKey) int {
	for i, c := range t.Columns {
		if c == key {
			return i
		}
	}
	return -1
}

// Cell returns the cell at (row, column key). Unknown columns are missing.
func (t *Table) Cell(row int, key core.ColumnKey) Cell {
	idx := t.ColumnIndex(key)
	if idx < 0 || row < 0 || row >= len(t.Rows) {
		return MissingCell()
	}
	return t.Rows[row][idx]
}

// Column returns all cells of one column in row order
func (t *Table) Column(key core.ColumnKey) []Cell {
	idx := t.ColumnIndex(key)
	if idx < 0 {
		return nil
	}
	cells := make([]Cell, len(t.Rows))
	for i, row := range t.Rows {
		cells[i] = row[idx]
	}
	return cells
}
