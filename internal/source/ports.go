// Package source defines the inbound port for raw tactic exports.
// Adapters live in subpackages: csvfile, excel, sheets, memory.
package source

import "context"

type (
	// Table is one raw tabular export: the header row plus every data
	// row, all values as strings exactly as they appeared.
	Table struct {
		Header []string
		Rows   [][]string
	}

	// RowSource reads a tactic export from wherever it lives.
	RowSource interface {
		Read(ctx context.Context) (Table, error)
	}
)
