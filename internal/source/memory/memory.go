// Package memory is an in-memory row source for tests and seeding.
package memory

import (
	"context"
	"sync"

	"auditor/internal/source"
)

type Source struct {
	mu    sync.Mutex
	table source.Table
}

func New(header []string, rows [][]string) *Source {
	return &Source{table: source.Table{Header: header, Rows: rows}}
}

var _ source.RowSource = (*Source)(nil)

func (s *Source) Read(_ context.Context) (source.Table, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	header := append([]string(nil), s.table.Header...)
	rows := make([][]string, len(s.table.Rows))
	for i, row := range s.table.Rows {
		rows[i] = append([]string(nil), row...)
	}
	return source.Table{Header: header, Rows: rows}, nil
}

// Replace swaps the rows, simulating a fresh export between runs.
func (s *Source) Replace(rows [][]string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.table.Rows = rows
}
