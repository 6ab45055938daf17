// Package csvfile reads tactic exports from CSV files on disk.
package csvfile

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"

	"auditor/internal/source"
)

type Source struct {
	path string
}

func New(path string) *Source {
	return &Source{path: path}
}

var _ source.RowSource = (*Source)(nil)

// Read loads the whole export into memory. Exports are small recurring
// files, not streams.
func (s *Source) Read(ctx context.Context) (source.Table, error) {
	if err := ctx.Err(); err != nil {
		return source.Table{}, err
	}

	f, err := os.Open(s.path)
	if err != nil {
		return source.Table{}, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	// Source exports have been seen with ragged trailing total rows.
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return source.Table{}, fmt.Errorf("read csv: %w", err)
	}
	if len(records) == 0 {
		return source.Table{}, fmt.Errorf("csv %s: empty file", s.path)
	}

	return source.Table{Header: records[0], Rows: records[1:]}, nil
}
