package core

import "sort"

type (
	// Buckets is the mutually exclusive status partition of the
	// current campaign set for one reference date.
	Buckets struct {
		Active    []Campaign
		Upcoming  []Campaign
		Completed []Campaign
	}

	// RetailerGroup is one retailer's campaigns inside a bucket.
	RetailerGroup struct {
		Retailer  string
		Campaigns []Campaign
	}

	// MonthGroup is one calendar month of upcoming campaigns, grouped
	// by retailer inside the month.
	MonthGroup struct {
		Month     string // YYYY-MM
		Retailers []RetailerGroup
	}
)

// Categorize buckets every campaign by status relative to the
// reference date. Each campaign lands in exactly one bucket; bucket
// order is start date then tactic name for stable output.
func Categorize(campaigns []Campaign, ref Date) Buckets {
	var b Buckets
	for _, c := range campaigns {
		switch c.StatusAt(ref) {
		case StatusActive:
			b.Active = append(b.Active, c)
		case StatusUpcoming:
			b.Upcoming = append(b.Upcoming, c)
		case StatusCompleted:
			b.Completed = append(b.Completed, c)
		}
	}
	sortCampaigns(b.Active)
	sortCampaigns(b.Upcoming)
	sortCampaigns(b.Completed)
	return b
}

// All returns every bucketed campaign in bucket order.
func (b Buckets) All() []Campaign {
	out := make([]Campaign, 0, len(b.Active)+len(b.Upcoming)+len(b.Completed))
	out = append(out, b.Active...)
	out = append(out, b.Upcoming...)
	out = append(out, b.Completed...)
	return out
}

// GroupByRetailer groups campaigns by retailer, retailers in
// alphabetical order, campaigns within a retailer by start date then
// tactic name.
func GroupByRetailer(campaigns []Campaign) []RetailerGroup {
	byRetailer := make(map[string][]Campaign)
	for _, c := range campaigns {
		byRetailer[c.Retailer] = append(byRetailer[c.Retailer], c)
	}

	names := make([]string, 0, len(byRetailer))
	for name := range byRetailer {
		names = append(names, name)
	}
	sort.Strings(names)

	groups := make([]RetailerGroup, 0, len(names))
	for _, name := range names {
		members := byRetailer[name]
		sortCampaigns(members)
		groups = append(groups, RetailerGroup{Retailer: name, Campaigns: members})
	}
	return groups
}

// GroupByMonth groups upcoming campaigns by the calendar month of
// their start date, months in chronological order, retailers grouped
// inside each month.
func GroupByMonth(campaigns []Campaign) []MonthGroup {
	byMonth := make(map[string][]Campaign)
	for _, c := range campaigns {
		key := c.StartDate.MonthKey()
		byMonth[key] = append(byMonth[key], c)
	}

	keys := make([]string, 0, len(byMonth))
	for key := range byMonth {
		keys = append(keys, key)
	}
	sort.Strings(keys) // YYYY-MM sorts chronologically

	groups := make([]MonthGroup, 0, len(keys))
	for _, key := range keys {
		groups = append(groups, MonthGroup{
			Month:     key,
			Retailers: GroupByRetailer(byMonth[key]),
		})
	}
	return groups
}

func sortCampaigns(campaigns []Campaign) {
	sort.SliceStable(campaigns, func(i, j int) bool {
		if !campaigns[i].StartDate.SameDay(campaigns[j].StartDate) {
			return campaigns[i].StartDate.Before(campaigns[j].StartDate.Time)
		}
		return campaigns[i].TacticName < campaigns[j].TacticName
	})
}
