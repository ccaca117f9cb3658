package dataset

import (
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"insightengine/domain/core"
	domainDataset "insightengine/domain/dataset"
	"insightengine/internal/errors"
)

// ReadXLSX parses the first sheet of a workbook into a domain table, using
// the same header and cell-coercion rules as the CSV path.
func ReadXLSX(r io.Reader) (*domainDataset.Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open Excel workbook")
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.InvalidInput("Excel workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read sheet %s", sheets[0])
	}
	if len(rows) == 0 {
		return nil, errors.InvalidInput("Excel sheet has no header row")
	}

	columns := make([]core.ColumnKey, len(rows[0]))
	for i, name := range rows[0] {
		columns[i] = core.ColumnKey(strings.TrimSpace(name))
	}
	table := domainDataset.NewTable(columns)

	for _, record := range rows[1:] {
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
