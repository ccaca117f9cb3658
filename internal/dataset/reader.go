package dataset

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"insightengine/domain/core"
	domainDataset "insightengine/domain/dataset"
	"insightengine/internal/errors"
)

// ReadCSV parses CSV content into a domain table. The first record defines
// the column schema; fully empty lines are skipped; ragged records are
// padded or truncated to the schema width by the table itself.
func ReadCSV(r io.Reader) (*domainDataset.Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, errors.InvalidInput("CSV file has no header row")
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to read CSV header")
	}

	columns := make([]core.ColumnKey, len(header))
	for i, name := range header {
		columns[i] = core.ColumnKey(strings.TrimSpace(name))
	}
	table := domainDataset.NewTable(columns)

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "failed to read CSV record")
		}
		if isEmptyRecord(record) {
			continue
		}
		row := make(domainDataset.Row, len(record))
		for i, field := range record {
			row[i] = coerceCell(field)
		}
		table.AppendRow(row)
	}
	return table, nil
}

// coerceCell maps a raw CSV field onto the cell sum type: blank fields are
// missing, numeric-parseable fields are numbers, everything else is text.
func coerceCell(field string) domainDataset.Cell {
	trimmed := strings.TrimSpace(field)
	if trimmed == "" {
		return domainDataset.MissingCell()
	}
	if v, err := strconv.ParseFloat(trimmed, 64); err == nil {
		return domainDataset.NewNumberCell(v)
	}
	return domainDataset.NewStringCell(trimmed)
}

func isEmptyRecord(record []string) bool {
	for _, field := range record {
		if strings.TrimSpace(field) != "" {
			return false
		}
	}
	return true
}

// SampleRows converts the first limit rows into generic records for the
// response payload, keyed by column name in schema order.
func SampleRows(table *domainDataset.Table, limit int) []map[string]interface{} {
	if limit > table.RowCount() {
		limit = table.RowCount()
	}
	sample := make([]map[string]interface{}, 0, limit)
	for r := 0; r < limit; r++ {
		record := make(map[string]interface{}, table.ColumnCount())
		for c, col := range table.Columns {
			cell := table.Rows[r][c]
			switch cell.Kind {
			case domainDataset.CellNumber:
				record[string(col)] = cell.Number
			case domainDataset.CellString:
				record[string(col)] = cell.Text
			default:
				record[string(col)] = nil
			}
		}
		sample = append(sample, record)
	}
	return sample
}

// ColumnNames returns the schema as plain strings.
func ColumnNames(table *domainDataset.Table) []string {
	names := make([]string, len(table.Columns))
	for i, col := range table.Columns {
		names[i] = string(col)
	}
	return names
}
