package report

import (
	"errors"
	"strings"
	"testing"

	"auditor/internal/core"
)

func testCampaign(tactic, retailer string, start, end core.Date, budgetCents int64) core.Campaign {
	return core.Campaign{
		Vendor:     "Acme Media",
		Retailer:   retailer,
		Brand:      "Sparkle",
		EventName:  "Summer Push",
		TacticName: tactic,
		Product:    "Sparkle Clean 2L",
		OrderID:    "ORD-" + tactic,
		StartDate:  start,
		EndDate:    end,
		Budget:     core.Money{Cents: budgetCents},
		Checklist:  core.DefaultChecklist(),
	}
}

// testData categorizes and diffs a campaign set the way the pipeline
// does before rendering.
func testData(ref core.Date, campaigns []core.Campaign, previous *core.Snapshot) Data {
	buckets := core.Categorize(campaigns, ref)
	return Data{
		GeneratedAt: ref,
		Buckets:     buckets,
		Totals:      core.Totals(buckets),
		Diff:        core.Diff(campaigns, previous),
	}
}

func TestRenderIsDeterministic(t *testing.T) {
	ref := core.NewDate(2026, 6, 15)
	campaigns := []core.Campaign{
		testCampaign("Banner", "MegaMart", core.NewDate(2026, 6, 1), core.NewDate(2026, 6, 30), 5000000),
		testCampaign("Endcap", "SuperShop", core.NewDate(2026, 7, 1), core.NewDate(2026, 7, 31), 2500000),
		testCampaign("Sampler", "MegaMart", core.NewDate(2026, 5, 1), core.NewDate(2026, 5, 31), 100000),
	}
	d := testData(ref, campaigns, nil)

	doc1, txt1, err := Render(d)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	doc2, txt2, err := Render(d)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if doc1 != doc2 || txt1 != txt2 {
		t.Error("identical data produced different output")
	}
}

func TestRenderDocumentStructure(t *testing.T) {
	ref := core.NewDate(2026, 6, 15)
	campaigns := []core.Campaign{
		testCampaign("Banner", "MegaMart", core.NewDate(2026, 6, 1), core.NewDate(2026, 6, 30), 5000000),
		testCampaign("Endcap", "SuperShop", core.NewDate(2026, 7, 1), core.NewDate(2026, 7, 31), 2500000),
	}
	doc, txt, err := Render(testData(ref, campaigns, nil))
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	for _, want := range []string{
		"# Campaign Status Report - Generated on 2026-06-15",
		"## Summary",
		"**🆕 New Campaigns: 2**",
		"- Currently Active Campaigns: 1",
		"- Upcoming Campaigns: 1",
		"- Completed Campaigns: 0",
		"- Total Budget Across All Campaigns: $75,000.00",
		"### Change Indicators:",
		"# Currently Active Campaigns (1 Campaigns (🔄 1 with changes))",
		"## MegaMart ($50,000.00)",
		"🆕 **New Campaign**",
		"# Upcoming Campaigns (1 Campaigns (🔄 1 with changes))",
		"## 2026-07 ($25,000.00)",
		"### SuperShop ($25,000.00)",
		"# Completed Campaigns (0 Campaigns)",
		"*No campaigns in this category.*",
		"- [ ] Campaign Setup Complete",
	} {
		if !strings.Contains(doc, want) {
			t.Errorf("document missing %q", want)
		}
	}

	for _, want := range []string{
		"Campaign Status Report - 2026-06-15",
		"SUMMARY",
		"New Campaigns: 2",
		"CURRENTLY ACTIVE CAMPAIGNS (1 Campaigns)",
		"UPCOMING CAMPAIGNS (1 Campaigns)",
		"2026-07 ($25,000.00)",
		"[NEW] MegaMart - Sparkle",
		"[ ] Campaign Setup Complete",
		strings.Repeat("=", 80),
		strings.Repeat("-", 80),
	} {
		if !strings.Contains(txt, want) {
			t.Errorf("plaintext missing %q", want)
		}
	}
}

func TestRenderUnchangedRunCarriesNoIndicators(t *testing.T) {
	ref := core.NewDate(2026, 6, 15)
	campaigns := []core.Campaign{
		testCampaign("Banner", "MegaMart", core.NewDate(2026, 6, 1), core.NewDate(2026, 6, 30), 5000000),
	}
	previous := &core.Snapshot{Campaigns: campaigns}

	doc, txt, err := Render(testData(ref, campaigns, previous))
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	for _, glyph := range []string{GlyphChanged, GlyphNew, GlyphSectionChanges} {
		if strings.Contains(doc, glyph) {
			t.Errorf("unchanged run contains glyph %q", glyph)
		}
	}
	if strings.Contains(doc, "### Change Indicators:") {
		t.Error("unchanged run contains the indicator legend")
	}
	for _, marker := range []string{"[UPDATED]", "[NEW]", "[REMOVED]"} {
		if strings.Contains(txt, marker) {
			t.Errorf("unchanged run contains marker %q", marker)
		}
	}
}

func TestRenderBudgetChangeLine(t *testing.T) {
	ref := core.NewDate(2026, 6, 15)
	old := testCampaign("Banner", "MegaMart", core.NewDate(2026, 6, 1), core.NewDate(2026, 6, 30), 5000000)
	cur := old
	cur.Budget = core.Money{Cents: 6000000}

	doc, txt, err := Render(testData(ref, []core.Campaign{cur}, &core.Snapshot{Campaigns: []core.Campaign{old}}))
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	wantLine := "Budget changed from $50,000.00 to $60,000.00 ($10,000.00)"
	if !strings.Contains(doc, wantLine) {
		t.Errorf("document missing change line %q", wantLine)
	}
	if !strings.Contains(doc, "**🔄 Changes Detected: 1 campaigns updated**") {
		t.Error("document missing summary change line")
	}
	if !strings.Contains(doc, GlyphChanged) {
		t.Error("document missing changed glyph")
	}
	if !strings.Contains(txt, "[UPDATED] MegaMart - Sparkle") {
		t.Error("plaintext missing [UPDATED] marker")
	}
	if !strings.Contains(txt, "  * "+wantLine) {
		t.Error("plaintext missing change bullet")
	}
}

func TestRenderTextualChangeLinesAreQuoted(t *testing.T) {
	fc := core.FieldChange{Field: core.FieldRetailer, Old: "MegaMart", New: "SuperShop"}
	if got := changeLine(fc); got != "Retailer changed from 'MegaMart' to 'SuperShop'" {
		t.Errorf("changeLine = %q", got)
	}
	fc = core.FieldChange{Field: core.FieldStartDate, Old: "2026-06-01", New: "2026-06-02"}
	if got := changeLine(fc); got != "Start Date changed from 2026-06-01 to 2026-06-02" {
		t.Errorf("date changeLine = %q, dates must not be quoted", got)
	}
}

func TestRenderRemovedSection(t *testing.T) {
	ref := core.NewDate(2026, 6, 15)
	kept := testCampaign("Banner", "MegaMart", core.NewDate(2026, 6, 1), core.NewDate(2026, 6, 30), 5000000)
	gone := testCampaign("Endcap", "SuperShop", core.NewDate(2026, 6, 1), core.NewDate(2026, 6, 30), 2500000)
	previous := &core.Snapshot{Campaigns: []core.Campaign{kept, gone}}

	doc, txt, err := Render(testData(ref, []core.Campaign{kept}, previous))
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	if !strings.Contains(doc, "# Removed Since Last Run (1 Campaigns)") {
		t.Error("document missing removed section")
	}
	if !strings.Contains(doc, "**Removed Since Last Run: 1**") {
		t.Error("document summary missing removed count")
	}
	if !strings.Contains(txt, "[REMOVED] SuperShop - Sparkle") {
		t.Error("plaintext missing [REMOVED] entry")
	}

	// Removed campaigns are a notice, never part of the totals.
	if !strings.Contains(doc, "- Total Budget Across All Campaigns: $50,000.00") {
		t.Error("removed campaign leaked into the grand total")
	}
}

func TestRenderChecklistCheckbox(t *testing.T) {
	ref := core.NewDate(2026, 6, 15)
	c := testCampaign("Banner", "MegaMart", core.NewDate(2026, 6, 1), core.NewDate(2026, 6, 30), 5000000)
	c.Checklist["Campaign Launch Verified"] = true

	doc, _, err := Render(testData(ref, []core.Campaign{c}, &core.Snapshot{Campaigns: []core.Campaign{c}}))
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	if !strings.Contains(doc, "- [x] Campaign Launch Verified") {
		t.Error("confirmed flag not rendered as [x]")
	}
	if !strings.Contains(doc, "- [ ] Campaign Setup Complete") {
		t.Error("unconfirmed flag not rendered as [ ]")
	}
}

func TestRenderInvariantViolation(t *testing.T) {
	ref := core.NewDate(2026, 6, 15)
	c := testCampaign("Banner", "MegaMart", core.NewDate(2026, 6, 1), core.NewDate(2026, 6, 30), 5000000)

	d := testData(ref, []core.Campaign{c}, nil)
	d.Diff = core.DiffResult{Records: map[string]core.ChangeRecord{}} // records dropped

	_, _, err := Render(d)
	if !errors.Is(err, ErrRenderInvariant) {
		t.Errorf("Render error = %v, want ErrRenderInvariant", err)
	}
}
