package core

import (
	"sort"
	"strings"
)

const (
	ChangeNew       ChangeKind = "new"
	ChangeRemoved   ChangeKind = "removed"
	ChangeChanged   ChangeKind = "changed"
	ChangeUnchanged ChangeKind = "unchanged"
)

// Field names used in change records and rendered reports.
const (
	FieldStartDate = "Start Date"
	FieldEndDate   = "End Date"
	FieldRetailer  = "Retailer"
	FieldBrand     = "Brand"
	FieldProduct   = "Product"
	FieldBudget    = "Budget"
)

type (
	ChangeKind string

	// FieldChange records one attribute difference between the prior
	// and current snapshot of a campaign. Old and New are display
	// values; for budget changes the exact cents are carried as well
	// so renderers can show the delta.
	FieldChange struct {
		Field    string
		Old      string
		New      string
		OldCents int64
		NewCents int64
	}

	// ChangeRecord classifies one campaign identity between two
	// snapshots. Campaign holds the current record, or the prior one
	// when the kind is ChangeRemoved.
	ChangeRecord struct {
		Identity Identity
		Kind     ChangeKind
		Fields   []FieldChange
		Campaign Campaign
	}

	// DiffResult indexes change records by identity key and keeps the
	// removed identities separately, since those no longer exist in
	// the current run.
	DiffResult struct {
		Records map[string]ChangeRecord
		Removed []ChangeRecord
	}
)

// HasChanges reports whether the record carries field-level differences.
func (r ChangeRecord) HasChanges() bool {
	return r.Kind == ChangeChanged
}

// Lookup returns the change record for a campaign. A missing entry is
// reported as unchanged, which only happens for malformed callers.
func (d DiffResult) Lookup(c Campaign) ChangeRecord {
	if r, ok := d.Records[c.Identity().Key()]; ok {
		return r
	}
	return ChangeRecord{Identity: c.Identity(), Kind: ChangeUnchanged, Campaign: c}
}

// Counts returns the number of new, changed and removed identities.
func (d DiffResult) Counts() (newCount, changedCount, removedCount int) {
	for _, r := range d.Records {
		switch r.Kind {
		case ChangeNew:
			newCount++
		case ChangeChanged:
			changedCount++
		}
	}
	return newCount, changedCount, len(d.Removed)
}

// Diff compares the current campaign set against the most recent prior
// snapshot. A nil previous snapshot is the first-run baseline: every
// current identity is classified new.
func Diff(current []Campaign, previous *Snapshot) DiffResult {
	result := DiffResult{Records: make(map[string]ChangeRecord, len(current))}

	prior := make(map[string]Campaign)
	if previous != nil {
		for _, c := range previous.Campaigns {
			prior[c.Identity().Key()] = c
		}
	}

	seen := make(map[string]bool, len(current))
	for _, c := range current {
		key := c.Identity().Key()
		seen[key] = true

		old, existed := prior[key]
		if !existed {
			result.Records[key] = ChangeRecord{Identity: c.Identity(), Kind: ChangeNew, Campaign: c}
			continue
		}

		fields := compareFields(old, c)
		kind := ChangeUnchanged
		if len(fields) > 0 {
			kind = ChangeChanged
		}
		result.Records[key] = ChangeRecord{Identity: c.Identity(), Kind: kind, Fields: fields, Campaign: c}
	}

	for key, old := range prior {
		if !seen[key] {
			result.Removed = append(result.Removed, ChangeRecord{
				Identity: old.Identity(),
				Kind:     ChangeRemoved,
				Campaign: old,
			})
		}
	}
	sort.Slice(result.Removed, func(i, j int) bool {
		return result.Removed[i].Identity.Key() < result.Removed[j].Identity.Key()
	})

	return result
}

// compareFields walks every tracked attribute and collects the ones
// whose values differ. Field order is fixed for reproducible reports.
func compareFields(old, cur Campaign) []FieldChange {
	var fields []FieldChange

	if !old.StartDate.SameDay(cur.StartDate) {
		fields = append(fields, FieldChange{Field: FieldStartDate, Old: old.StartDate.String(), New: cur.StartDate.String()})
	}
	if !old.EndDate.SameDay(cur.EndDate) {
		fields = append(fields, FieldChange{Field: FieldEndDate, Old: old.EndDate.String(), New: cur.EndDate.String()})
	}
	if tc := textChange(FieldRetailer, old.Retailer, cur.Retailer); tc != nil {
		fields = append(fields, *tc)
	}
	if tc := textChange(FieldBrand, old.Brand, cur.Brand); tc != nil {
		fields = append(fields, *tc)
	}
	if tc := textChange(FieldProduct, old.Product, cur.Product); tc != nil {
		fields = append(fields, *tc)
	}
	if old.Budget.Cents != cur.Budget.Cents {
		fields = append(fields, FieldChange{
			Field:    FieldBudget,
			Old:      old.Budget.Display(),
			New:      cur.Budget.Display(),
			OldCents: old.Budget.Cents,
			NewCents: cur.Budget.Cents,
		})
	}

	for _, name := range checklistKeys(old.Checklist, cur.Checklist) {
		was := old.Checklist[name]
		now := cur.Checklist[name]
		if was != now {
			fields = append(fields, FieldChange{
				Field: "Checklist " + name,
				Old:   checkboxWord(was),
				New:   checkboxWord(now),
			})
		}
	}

	return fields
}

func textChange(field, old, cur string) *FieldChange {
	old = strings.TrimSpace(old)
	cur = strings.TrimSpace(cur)
	if old == cur {
		return nil
	}
	return &FieldChange{Field: field, Old: old, New: cur}
}

// checklistKeys returns the sorted union of flag names on both sides.
// A flag absent from one side compares as unconfirmed.
func checklistKeys(a, b map[string]bool) []string {
	set := make(map[string]struct{}, len(a)+len(b))
	for k := range a {
		set[k] = struct{}{}
	}
	for k := range b {
		set[k] = struct{}{}
	}
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func checkboxWord(confirmed bool) string {
	if confirmed {
		return "confirmed"
	}
	return "unconfirmed"
}
