// Package report renders the categorized, diffed, aggregated campaign
// data into the two output artifacts: a Markdown status document and a
// plaintext body suitable for an email.
//
// Rendering is a pure function of its inputs; identical data must
// produce byte-identical output.
package report

import (
	"errors"
	"fmt"
	"sort"

	"auditor/internal/core"
)

// Indicator glyphs consumed by downstream readers of the document
// form. Part of the output contract, not cosmetic.
const (
	GlyphChanged        = "⚠️"
	GlyphNew            = "🆕"
	GlyphSectionChanges = "🔄"
)

// ErrRenderInvariant marks an internal inconsistency between the
// bucketed campaigns and the change records. It indicates a
// categorizer bug and is never recovered silently.
var ErrRenderInvariant = errors.New("render invariant violation")

// Data is everything a render needs. GeneratedAt is the only timestamp
// that appears in the output.
type Data struct {
	GeneratedAt core.Date
	Buckets     core.Buckets
	Totals      core.BudgetTotals
	Diff        core.DiffResult
}

// Render produces the document and plaintext artifacts.
func Render(d Data) (document, plaintext string, err error) {
	if err := checkInvariants(d); err != nil {
		return "", "", err
	}
	return renderDocument(d), renderPlaintext(d), nil
}

// checkInvariants verifies that every bucketed campaign has a change
// record and every non-removed record a bucket slot.
func checkInvariants(d Data) error {
	bucketed := d.Buckets.All()
	if len(bucketed) != len(d.Diff.Records) {
		return fmt.Errorf("%w: %d bucketed campaigns vs %d change records",
			ErrRenderInvariant, len(bucketed), len(d.Diff.Records))
	}
	for _, c := range bucketed {
		if _, ok := d.Diff.Records[c.Identity().Key()]; !ok {
			return fmt.Errorf("%w: campaign %q has no change record",
				ErrRenderInvariant, c.TacticName)
		}
	}
	return nil
}

// changeLine renders one field difference the way operations reads it.
func changeLine(fc core.FieldChange) string {
	switch fc.Field {
	case core.FieldBudget:
		delta := core.Money{Cents: fc.NewCents - fc.OldCents}
		return fmt.Sprintf("Budget changed from %s to %s (%s)", fc.Old, fc.New, delta.Display())
	case core.FieldStartDate, core.FieldEndDate:
		return fmt.Sprintf("%s changed from %s to %s", fc.Field, fc.Old, fc.New)
	default:
		return fmt.Sprintf("%s changed from '%s' to '%s'", fc.Field, fc.Old, fc.New)
	}
}

// checklistEntries returns flag names in render order: the default
// flags first, then any extras alphabetically.
func checklistEntries(flags map[string]bool) []string {
	var names []string
	seen := make(map[string]bool, len(flags))
	for _, name := range core.DefaultChecklistFlags {
		if _, ok := flags[name]; ok {
			names = append(names, name)
			seen[name] = true
		}
	}
	var extras []string
	for name := range flags {
		if !seen[name] {
			extras = append(extras, name)
		}
	}
	sort.Strings(extras)
	return append(names, extras...)
}

func checkbox(confirmed bool) string {
	if confirmed {
		return "[x]"
	}
	return "[ ]"
}

// sectionChangeCount counts entries carrying a change or new marker.
func sectionChangeCount(campaigns []core.Campaign, diff core.DiffResult) int {
	n := 0
	for _, c := range campaigns {
		switch diff.Lookup(c).Kind {
		case core.ChangeNew, core.ChangeChanged:
			n++
		}
	}
	return n
}
