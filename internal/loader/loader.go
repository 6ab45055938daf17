// Package loader turns raw tactic exports into validated campaign
// records, accumulating per-row errors instead of failing the batch.
package loader

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"auditor/internal/core"
	"auditor/internal/source"
)

// Required columns, exact names as they appear in the export header.
const (
	ColStartDate = "Tactic Start Date"
	ColEndDate   = "Tactic End Date"
	ColVendor    = "Tactic Vendor"
	ColRetailer  = "Retailer"
	ColBrand     = "Tactic Brand"
	ColEventName = "Event Name"
	ColTactic    = "Tactic Name"
	ColProduct   = "Tactic Product"
	ColOrderID   = "Tactic Order ID"
	ColBudget    = "Tactic Allocated Budget"
)

var RequiredColumns = []string{
	ColStartDate,
	ColEndDate,
	ColVendor,
	ColRetailer,
	ColBrand,
	ColEventName,
	ColTactic,
	ColProduct,
	ColOrderID,
	ColBudget,
}

// Markers of trailing roll-up rows that some exports append. Matched
// case-insensitively against the start date cell.
var summaryMarkers = []string{"grand total", "total", "summary"}

type (
	// SchemaError reports every required column missing from the
	// export header. It fails the whole batch.
	SchemaError struct {
		Missing []string
	}

	// RowError reports one rejected row with its 1-based data row
	// number (the header row is not counted).
	RowError struct {
		Row    int
		Reason string
	}

	// Result is the loader output: the campaigns that parsed plus the
	// rows that did not. The caller decides whether the row errors are
	// fatal for the run.
	Result struct {
		Campaigns []core.Campaign
		RowErrors []RowError
	}
)

func (e *SchemaError) Error() string {
	return "missing required columns: " + strings.Join(e.Missing, ", ")
}

func (e RowError) Error() string {
	return fmt.Sprintf("row %d: %s", e.Row, e.Reason)
}

// Load reads the export and parses it into campaign records. The
// header is checked once; a missing column fails the batch with every
// missing name enumerated. Malformed rows are rejected individually.
func Load(ctx context.Context, src source.RowSource) (Result, error) {
	table, err := src.Read(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("read export: %w", err)
	}

	index, schemaErr := indexHeader(table.Header)
	if schemaErr != nil {
		return Result{}, schemaErr
	}

	var result Result
	seen := make(map[string]int) // identity key -> first data row
	for i, row := range table.Rows {
		rowNum := i + 1

		cell := func(col string) string {
			pos := index[col]
			if pos >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[pos])
		}

		startRaw := cell(ColStartDate)
		endRaw := cell(ColEndDate)
		orderID := cell(ColOrderID)

		if isSummaryRow(startRaw) {
			continue
		}

		start, startErr := core.ParseDate(startRaw)
		end, endErr := core.ParseDate(endRaw)

		// Trailing total rows carry neither dates nor an order id;
		// they are documented noise, not data errors.
		if startErr != nil && endErr != nil && orderID == "" {
			continue
		}
		if startErr != nil {
			result.RowErrors = append(result.RowErrors, RowError{Row: rowNum, Reason: fmt.Sprintf("bad start date %q", startRaw)})
			continue
		}
		if endErr != nil {
			result.RowErrors = append(result.RowErrors, RowError{Row: rowNum, Reason: fmt.Sprintf("bad end date %q", endRaw)})
			continue
		}
		if end.Before(start.Time) {
			result.RowErrors = append(result.RowErrors, RowError{Row: rowNum, Reason: fmt.Sprintf("end date %s before start date %s", end, start)})
			continue
		}

		budget, rowErr := parseBudgetCell(cell(ColBudget))
		if rowErr != "" {
			result.RowErrors = append(result.RowErrors, RowError{Row: rowNum, Reason: rowErr})
			continue
		}

		campaign := core.Campaign{
			Vendor:     cell(ColVendor),
			Retailer:   cell(ColRetailer),
			Brand:      cell(ColBrand),
			EventName:  cell(ColEventName),
			TacticName: cell(ColTactic),
			Product:    cell(ColProduct),
			OrderID:    orderID,
			StartDate:  start,
			EndDate:    end,
			Budget:     budget,
			Checklist:  core.DefaultChecklist(),
		}

		if err := campaign.Validate(); err != nil {
			result.RowErrors = append(result.RowErrors, RowError{Row: rowNum, Reason: err.Error()})
			continue
		}

		// Colliding identities are a hard error, never a silent merge.
		key := campaign.Identity().Key()
		if firstRow, dup := seen[key]; dup {
			result.RowErrors = append(result.RowErrors, RowError{
				Row:    rowNum,
				Reason: fmt.Sprintf("%s: collides with row %d", core.ErrDuplicateTactic, firstRow),
			})
			continue
		}
		seen[key] = rowNum

		result.Campaigns = append(result.Campaigns, campaign)
	}

	slog.InfoContext(ctx, "Parsed tactic export",
		"campaigns", len(result.Campaigns),
		"row_errors", len(result.RowErrors))

	return result, nil
}

// indexHeader maps required column names to their positions, failing
// with every missing name at once.
func indexHeader(header []string) (map[string]int, *SchemaError) {
	positions := make(map[string]int, len(header))
	for i, name := range header {
		positions[strings.TrimSpace(name)] = i
	}

	index := make(map[string]int, len(RequiredColumns))
	var missing []string
	for _, col := range RequiredColumns {
		pos, ok := positions[col]
		if !ok {
			missing = append(missing, col)
			continue
		}
		index[col] = pos
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, &SchemaError{Missing: missing}
	}
	return index, nil
}

func isSummaryRow(startRaw string) bool {
	lowered := strings.ToLower(startRaw)
	for _, marker := range summaryMarkers {
		if strings.Contains(lowered, marker) {
			return true
		}
	}
	return false
}

// parseBudgetCell treats a missing budget as zero allocation; a
// present but unparseable value is a row error.
func parseBudgetCell(raw string) (core.Money, string) {
	if raw == "" {
		return core.Money{}, ""
	}
	cents, err := core.ParseBudgetCents(raw)
	if err != nil {
		return core.Money{}, fmt.Sprintf("bad budget %q", raw)
	}
	return core.Money{Cents: cents}, ""
}
