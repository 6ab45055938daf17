package core

// BudgetTotals carries the bucket-level and grand budget sums for one
// run. Removed campaigns are never part of any total.
type BudgetTotals struct {
	Grand     Money
	Active    Money
	Upcoming  Money
	Completed Money
}

// SumBudgets returns the exact sum of the campaigns' budgets in cents.
func SumBudgets(campaigns []Campaign) Money {
	var total Money
	for _, c := range campaigns {
		total = total.Add(c.Budget)
	}
	return total
}

// Totals aggregates bucket budgets; the grand total is the sum over
// every bucketed campaign.
func Totals(b Buckets) BudgetTotals {
	t := BudgetTotals{
		Active:    SumBudgets(b.Active),
		Upcoming:  SumBudgets(b.Upcoming),
		Completed: SumBudgets(b.Completed),
	}
	t.Grand = t.Active.Add(t.Upcoming).Add(t.Completed)
	return t
}
