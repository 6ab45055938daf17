package report

import (
	"fmt"
	"strings"

	"auditor/internal/core"
)

// renderDocument builds the Markdown status report.
func renderDocument(d Data) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Campaign Status Report - Generated on %s\n\n", d.GeneratedAt)

	newCount, changedCount, removedCount := d.Diff.Counts()

	b.WriteString("## Summary\n")
	if changedCount > 0 {
		fmt.Fprintf(&b, "**%s Changes Detected: %d campaigns updated**\n", GlyphSectionChanges, changedCount)
	}
	if newCount > 0 {
		fmt.Fprintf(&b, "**%s New Campaigns: %d**\n", GlyphNew, newCount)
	}
	if removedCount > 0 {
		fmt.Fprintf(&b, "**Removed Since Last Run: %d**\n", removedCount)
	}
	fmt.Fprintf(&b, "- Currently Active Campaigns: %d\n", len(d.Buckets.Active))
	fmt.Fprintf(&b, "- Upcoming Campaigns: %d\n", len(d.Buckets.Upcoming))
	fmt.Fprintf(&b, "- Completed Campaigns: %d\n", len(d.Buckets.Completed))
	fmt.Fprintf(&b, "- Total Budget Across All Campaigns: %s\n\n", d.Totals.Grand.Display())

	if changedCount > 0 || newCount > 0 {
		b.WriteString("### Change Indicators:\n")
		fmt.Fprintf(&b, "- %s Campaign has changes\n", GlyphChanged)
		fmt.Fprintf(&b, "- %s New campaign\n", GlyphNew)
		fmt.Fprintf(&b, "- %s Number of changes in section\n\n", GlyphSectionChanges)
	}

	b.WriteString("---\n\n")

	writeDocumentSection(&b, "Currently Active Campaigns", d.Buckets.Active, d.Totals.Active, d.Diff, false)
	writeDocumentSection(&b, "Upcoming Campaigns", d.Buckets.Upcoming, d.Totals.Upcoming, d.Diff, true)
	writeDocumentSection(&b, "Completed Campaigns", d.Buckets.Completed, d.Totals.Completed, d.Diff, false)
	writeDocumentRemoved(&b, d.Diff.Removed)

	return b.String()
}

func writeDocumentSection(b *strings.Builder, title string, campaigns []core.Campaign, total core.Money, diff core.DiffResult, byMonth bool) {
	if len(campaigns) == 0 {
		fmt.Fprintf(b, "# %s (0 Campaigns)\n", title)
		b.WriteString("*No campaigns in this category.*\n\n---\n\n")
		return
	}

	indicator := ""
	if n := sectionChangeCount(campaigns, diff); n > 0 {
		indicator = fmt.Sprintf(" (%s %d with changes)", GlyphSectionChanges, n)
	}
	fmt.Fprintf(b, "# %s (%d Campaigns%s)\n", title, len(campaigns), indicator)
	fmt.Fprintf(b, "**Total Budget: %s**\n\n", total.Display())

	if byMonth {
		for _, month := range core.GroupByMonth(campaigns) {
			monthTotal := monthBudget(month)
			fmt.Fprintf(b, "## %s (%s)\n\n", month.Month, monthTotal.Display())
			for _, group := range month.Retailers {
				fmt.Fprintf(b, "### %s (%s)\n\n", group.Retailer, core.SumBudgets(group.Campaigns).Display())
				for _, c := range group.Campaigns {
					writeDocumentEntry(b, c, diff.Lookup(c))
				}
			}
		}
	} else {
		for _, group := range core.GroupByRetailer(campaigns) {
			fmt.Fprintf(b, "## %s (%s)\n\n", group.Retailer, core.SumBudgets(group.Campaigns).Display())
			for _, c := range group.Campaigns {
				writeDocumentEntry(b, c, diff.Lookup(c))
			}
		}
	}

	b.WriteString("---\n\n")
}

func writeDocumentEntry(b *strings.Builder, c core.Campaign, record core.ChangeRecord) {
	marker := ""
	if record.HasChanges() {
		marker = GlyphChanged + " "
	}
	fmt.Fprintf(b, "- **%s%s** - %s\n", marker, c.Retailer, c.Brand)

	if record.Kind == core.ChangeNew {
		fmt.Fprintf(b, "  - %s **New Campaign**\n", GlyphNew)
	}

	fmt.Fprintf(b, "  - Event: %s\n", c.EventName)
	fmt.Fprintf(b, "  - Product: %s\n", c.Product)
	fmt.Fprintf(b, "  - Campaign: %s\n", c.TacticName)
	if c.Vendor != "" {
		fmt.Fprintf(b, "  - Vendor: %s\n", c.Vendor)
	}
	fmt.Fprintf(b, "  - Dates: %s to %s\n", c.StartDate, c.EndDate)
	fmt.Fprintf(b, "  - Budget: %s\n", c.Budget.Display())
	fmt.Fprintf(b, "  - Order ID: %s\n", c.OrderID)

	if record.HasChanges() {
		b.WriteString("  - **Changes Detected:**\n")
		for _, fc := range record.Fields {
			fmt.Fprintf(b, "    - %s\n", changeLine(fc))
		}
	}

	for _, name := range checklistEntries(c.Checklist) {
		fmt.Fprintf(b, "  - %s %s\n", checkbox(c.Checklist[name]), name)
	}
	b.WriteString("\n")
}

func writeDocumentRemoved(b *strings.Builder, removed []core.ChangeRecord) {
	if len(removed) == 0 {
		return
	}
	fmt.Fprintf(b, "# Removed Since Last Run (%d Campaigns)\n", len(removed))
	b.WriteString("*These campaigns were present in the previous run but are gone from the current export.*\n\n")
	for _, r := range removed {
		c := r.Campaign
		fmt.Fprintf(b, "- **%s** - %s\n", c.Retailer, c.Brand)
		fmt.Fprintf(b, "  - Event: %s\n", c.EventName)
		fmt.Fprintf(b, "  - Campaign: %s\n", c.TacticName)
		fmt.Fprintf(b, "  - Dates: %s to %s\n", c.StartDate, c.EndDate)
		fmt.Fprintf(b, "  - Budget: %s\n", c.Budget.Display())
		fmt.Fprintf(b, "  - Order ID: %s\n\n", c.OrderID)
	}
	b.WriteString("---\n\n")
}

func monthBudget(month core.MonthGroup) core.Money {
	var total core.Money
	for _, group := range month.Retailers {
		total = total.Add(core.SumBudgets(group.Campaigns))
	}
	return total
}
