// Package excel reads tactic exports from XLSX workbooks.
package excel

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"auditor/internal/source"
)

type Source struct {
	path      string
	sheetName string
}

// New reads from the named sheet, or the workbook's first sheet when
// sheetName is empty.
func New(path, sheetName string) *Source {
	return &Source{path: path, sheetName: sheetName}
}

var _ source.RowSource = (*Source)(nil)

func (s *Source) Read(ctx context.Context) (source.Table, error) {
	if err := ctx.Err(); err != nil {
		return source.Table{}, err
	}

	f, err := excelize.OpenFile(s.path)
	if err != nil {
		return source.Table{}, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheet := s.sheetName
	if sheet == "" {
		sheet = f.GetSheetName(0)
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return source.Table{}, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return source.Table{}, fmt.Errorf("sheet %q: no rows", sheet)
	}

	return source.Table{Header: rows[0], Rows: rows[1:]}, nil
}
