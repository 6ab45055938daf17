package core

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func campaignOn(tactic, retailer string, start, end Date) Campaign {
	c := validCampaign()
	c.TacticName = tactic
	c.Retailer = retailer
	c.StartDate = start
	c.EndDate = end
	return c
}

func TestCategorizePartitionIsExhaustiveAndExclusive(t *testing.T) {
	ref := NewDate(2026, 6, 15)
	campaigns := []Campaign{
		campaignOn("Running", "MegaMart", NewDate(2026, 6, 1), NewDate(2026, 6, 30)),
		campaignOn("Future", "MegaMart", NewDate(2026, 7, 1), NewDate(2026, 7, 31)),
		campaignOn("Done", "MegaMart", NewDate(2026, 5, 1), NewDate(2026, 5, 31)),
		campaignOn("EndsToday", "MegaMart", NewDate(2026, 6, 10), ref),
		campaignOn("StartsToday", "MegaMart", ref, NewDate(2026, 6, 30)),
	}

	b := Categorize(campaigns, ref)

	if total := len(b.Active) + len(b.Upcoming) + len(b.Completed); total != len(campaigns) {
		t.Fatalf("buckets hold %d campaigns, want %d", total, len(campaigns))
	}

	names := func(cs []Campaign) []string {
		out := make([]string, len(cs))
		for i, c := range cs {
			out[i] = c.TacticName
		}
		return out
	}
	if d := cmp.Diff([]string{"Running", "EndsToday", "StartsToday"}, names(b.Active)); d != "" {
		t.Errorf("active mismatch (-want +got):\n%s", d)
	}
	if d := cmp.Diff([]string{"Future"}, names(b.Upcoming)); d != "" {
		t.Errorf("upcoming mismatch (-want +got):\n%s", d)
	}
	if d := cmp.Diff([]string{"Done"}, names(b.Completed)); d != "" {
		t.Errorf("completed mismatch (-want +got):\n%s", d)
	}
}

func TestCategorizeSortsByStartDateThenTactic(t *testing.T) {
	ref := NewDate(2026, 6, 15)
	campaigns := []Campaign{
		campaignOn("Zebra", "MegaMart", NewDate(2026, 6, 5), NewDate(2026, 6, 30)),
		campaignOn("Alpha", "MegaMart", NewDate(2026, 6, 5), NewDate(2026, 6, 30)),
		campaignOn("First", "MegaMart", NewDate(2026, 6, 1), NewDate(2026, 6, 30)),
	}

	b := Categorize(campaigns, ref)

	got := make([]string, len(b.Active))
	for i, c := range b.Active {
		got[i] = c.TacticName
	}
	if d := cmp.Diff([]string{"First", "Alpha", "Zebra"}, got); d != "" {
		t.Errorf("order mismatch (-want +got):\n%s", d)
	}
}

func TestGroupByRetailerAlphabetical(t *testing.T) {
	campaigns := []Campaign{
		campaignOn("A", "SuperShop", NewDate(2026, 6, 1), NewDate(2026, 6, 30)),
		campaignOn("B", "MegaMart", NewDate(2026, 6, 1), NewDate(2026, 6, 30)),
		campaignOn("C", "MegaMart", NewDate(2026, 6, 2), NewDate(2026, 6, 30)),
	}

	groups := GroupByRetailer(campaigns)

	if len(groups) != 2 {
		t.Fatalf("groups = %d, want 2", len(groups))
	}
	if groups[0].Retailer != "MegaMart" || groups[1].Retailer != "SuperShop" {
		t.Errorf("retailer order = [%s, %s], want alphabetical", groups[0].Retailer, groups[1].Retailer)
	}
	if len(groups[0].Campaigns) != 2 {
		t.Errorf("MegaMart campaigns = %d, want 2", len(groups[0].Campaigns))
	}
}

func TestGroupByMonthChronological(t *testing.T) {
	campaigns := []Campaign{
		campaignOn("Late", "MegaMart", NewDate(2026, 9, 1), NewDate(2026, 9, 30)),
		campaignOn("Early", "SuperShop", NewDate(2026, 7, 15), NewDate(2026, 7, 31)),
		campaignOn("AlsoEarly", "MegaMart", NewDate(2026, 7, 1), NewDate(2026, 7, 31)),
	}

	groups := GroupByMonth(campaigns)

	if len(groups) != 2 {
		t.Fatalf("months = %d, want 2", len(groups))
	}
	if groups[0].Month != "2026-07" || groups[1].Month != "2026-09" {
		t.Errorf("month order = [%s, %s], want chronological", groups[0].Month, groups[1].Month)
	}
	// Retailers inside a month stay alphabetical.
	july := groups[0]
	if len(july.Retailers) != 2 || july.Retailers[0].Retailer != "MegaMart" {
		t.Errorf("july retailers = %+v, want MegaMart first", july.Retailers)
	}
}

func TestBucketsAll(t *testing.T) {
	ref := NewDate(2026, 6, 15)
	campaigns := []Campaign{
		campaignOn("Running", "MegaMart", NewDate(2026, 6, 1), NewDate(2026, 6, 30)),
		campaignOn("Future", "MegaMart", NewDate(2026, 7, 1), NewDate(2026, 7, 31)),
	}
	b := Categorize(campaigns, ref)
	if got := len(b.All()); got != 2 {
		t.Errorf("All() = %d campaigns, want 2", got)
	}
}
