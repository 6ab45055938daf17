package report

import (
	"fmt"
	"strings"

	"auditor/internal/core"
)

var (
	heavyRule = strings.Repeat("=", 80)
	lightRule = strings.Repeat("-", 80)
)

// renderPlaintext builds the line-oriented email body. Same
// information and ordering as the document form, no structural markup.
func renderPlaintext(d Data) string {
	var lines []string

	newCount, changedCount, removedCount := d.Diff.Counts()

	lines = append(lines,
		fmt.Sprintf("Campaign Status Report - %s", d.GeneratedAt),
		heavyRule,
		"",
		"SUMMARY",
		"-------",
	)
	if changedCount > 0 {
		lines = append(lines, fmt.Sprintf("Changes Detected: %d campaigns updated", changedCount))
	}
	if newCount > 0 {
		lines = append(lines, fmt.Sprintf("New Campaigns: %d", newCount))
	}
	if removedCount > 0 {
		lines = append(lines, fmt.Sprintf("Removed Since Last Run: %d", removedCount))
	}
	lines = append(lines,
		fmt.Sprintf("Currently Active Campaigns: %d", len(d.Buckets.Active)),
		fmt.Sprintf("Upcoming Campaigns: %d", len(d.Buckets.Upcoming)),
		fmt.Sprintf("Completed Campaigns: %d", len(d.Buckets.Completed)),
		fmt.Sprintf("Total Budget Across All Campaigns: %s", d.Totals.Grand.Display()),
		"",
		heavyRule,
		"",
	)

	lines = append(lines, plainSection("CURRENTLY ACTIVE CAMPAIGNS", d.Buckets.Active, d.Totals.Active, d.Diff, false)...)
	lines = append(lines, plainSection("UPCOMING CAMPAIGNS", d.Buckets.Upcoming, d.Totals.Upcoming, d.Diff, true)...)
	lines = append(lines, plainSection("COMPLETED CAMPAIGNS", d.Buckets.Completed, d.Totals.Completed, d.Diff, false)...)
	lines = append(lines, plainRemoved(d.Diff.Removed)...)

	return strings.Join(lines, "\n")
}

func plainSection(title string, campaigns []core.Campaign, total core.Money, diff core.DiffResult, byMonth bool) []string {
	if len(campaigns) == 0 {
		return []string{
			fmt.Sprintf("%s (0 Campaigns)", title),
			"No campaigns in this category.",
			"",
			lightRule,
			"",
		}
	}

	lines := []string{fmt.Sprintf("%s (%d Campaigns)", title, len(campaigns))}
	if n := sectionChangeCount(campaigns, diff); n > 0 {
		lines = append(lines, fmt.Sprintf("%d campaigns have changes", n))
	}
	lines = append(lines, fmt.Sprintf("Total Budget: %s", total.Display()), "")

	if byMonth {
		for _, month := range core.GroupByMonth(campaigns) {
			lines = append(lines, fmt.Sprintf("%s (%s)", month.Month, monthBudget(month).Display()), "")
			for _, group := range month.Retailers {
				lines = append(lines, plainRetailerGroup(group, diff, "  ")...)
			}
		}
	} else {
		for _, group := range core.GroupByRetailer(campaigns) {
			lines = append(lines, plainRetailerGroup(group, diff, "")...)
		}
	}

	lines = append(lines, lightRule, "")
	return lines
}

func plainRetailerGroup(group core.RetailerGroup, diff core.DiffResult, indent string) []string {
	lines := []string{
		fmt.Sprintf("%s%s (%s)", indent, group.Retailer, core.SumBudgets(group.Campaigns).Display()),
		"",
	}
	for _, c := range group.Campaigns {
		lines = append(lines, plainEntry(c, diff.Lookup(c), indent+"  ")...)
	}
	return lines
}

func plainEntry(c core.Campaign, record core.ChangeRecord, indent string) []string {
	marker := ""
	switch record.Kind {
	case core.ChangeChanged:
		marker = "[UPDATED] "
	case core.ChangeNew:
		marker = "[NEW] "
	}

	lines := []string{
		fmt.Sprintf("%s%s%s - %s", indent, marker, c.Retailer, c.Brand),
		fmt.Sprintf("%sEvent: %s", indent, c.EventName),
		fmt.Sprintf("%sProduct: %s", indent, c.Product),
		fmt.Sprintf("%sCampaign: %s", indent, c.TacticName),
	}
	if c.Vendor != "" {
		lines = append(lines, fmt.Sprintf("%sVendor: %s", indent, c.Vendor))
	}
	lines = append(lines,
		fmt.Sprintf("%sDates: %s to %s", indent, c.StartDate, c.EndDate),
		fmt.Sprintf("%sBudget: %s", indent, c.Budget.Display()),
		fmt.Sprintf("%sOrder ID: %s", indent, c.OrderID),
	)

	if record.HasChanges() {
		lines = append(lines, fmt.Sprintf("%sChanges:", indent))
		for _, fc := range record.Fields {
			lines = append(lines, fmt.Sprintf("%s  * %s", indent, changeLine(fc)))
		}
	}

	for _, name := range checklistEntries(c.Checklist) {
		lines = append(lines, fmt.Sprintf("%s%s %s", indent, checkbox(c.Checklist[name]), name))
	}

	lines = append(lines, "")
	return lines
}

func plainRemoved(removed []core.ChangeRecord) []string {
	if len(removed) == 0 {
		return nil
	}
	lines := []string{
		fmt.Sprintf("REMOVED SINCE LAST RUN (%d Campaigns)", len(removed)),
		"",
	}
	for _, r := range removed {
		c := r.Campaign
		lines = append(lines,
			fmt.Sprintf("  [REMOVED] %s - %s", c.Retailer, c.Brand),
			fmt.Sprintf("  Event: %s", c.EventName),
			fmt.Sprintf("  Campaign: %s", c.TacticName),
			fmt.Sprintf("  Dates: %s to %s", c.StartDate, c.EndDate),
			fmt.Sprintf("  Budget: %s", c.Budget.Display()),
			fmt.Sprintf("  Order ID: %s", c.OrderID),
			"",
		)
	}
	lines = append(lines, lightRule, "")
	return lines
}
