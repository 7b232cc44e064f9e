package source

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/benjaminschreck/go-docxmerge/pkg/docxmerge/dataset"
)

// XLSX loads every sheet of a workbook as a dataset.Table keyed by sheet
// name. The first row of a sheet holds the column names.
type XLSX struct {
	Path string
	// Sheets restricts loading to the named sheets when not empty.
	Sheets []string
}

func (x XLSX) Load(ctx context.Context) (map[string]any, error) {
	f, err := excelize.OpenFile(x.Path)
	if err != nil {
		return nil, fmt.Errorf("open workbook %s: %w", x.Path, err)
	}
	defer f.Close()

	sheets := x.Sheets
	if len(sheets) == 0 {
		sheets = f.GetSheetList()
	}

	data := make(map[string]any, len(sheets))
	for _, sheet := range sheets {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rows, err := f.GetRows(sheet)
		if err != nil {
			return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
		}
		data[sheet] = sheetTable(rows)
	}
	return data, nil
}

func sheetTable(rows [][]string) dataset.Table {
	if len(rows) == 0 {
		return dataset.Table{}
	}
	names := rows[0]
	records := make([][]any, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if blankRow(row) {
			continue
		}
		record := make([]any, len(row))
		for i, cell := range row {
			record[i] = cellValue(cell)
		}
		records = append(records, record)
	}
	return dataset.Infer(names, records)
}

func blankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// cellValue turns the formatted text of a cell back into a typed value so
// column kinds can be inferred.
func cellValue(s string) any {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && strings.ContainsAny(s, "0123456789") {
		return f
	}
	switch s {
	case "TRUE":
		return true
	case "FALSE":
		return false
	}
	return s
}
