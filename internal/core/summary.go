package core

import "sort"

type (
	// MonthProjection maps date keys (YYYY-MM-DD) to the occurrences landing
	// on that day, in template order.
	MonthProjection struct {
		Month Month
		Days  map[string][]Occurrence
		// Skipped holds the IDs of templates that could not be expanded.
		Skipped []string
	}

	// MonthTotals are the aggregates of one projected month.
	MonthTotals struct {
		RealizedBalance  Money
		ProjectedBalance Money
		TotalIncome      Money
		TotalExpense     Money
		CategoryTotals   map[string]Money
	}

	// CategoryImpact is the share of income spent on one expense category.
	CategoryImpact struct {
		Category string
		Label    string
		Color    string
		Icon     string
		Amount   Money
		Impact   float64
	}

	// MonthView is everything a calendar screen needs for one month.
	MonthView struct {
		Month        Month
		Today        Date
		DaysInMonth  int
		FirstWeekday int // 0 = Sunday
		Days         map[string][]Occurrence
		Totals       MonthTotals
		Breakdown    []CategoryImpact
		Skipped      []string
	}
)

// NewMonthProjection returns an empty projection for m.
func NewMonthProjection(m Month) MonthProjection {
	return MonthProjection{Month: m, Days: make(map[string][]Occurrence)}
}

// On returns the occurrences on d.
func (p MonthProjection) On(d Date) []Occurrence {
	return p.Days[d.Key()]
}

// Dates returns the days holding at least one occurrence, ascending.
func (p MonthProjection) Dates() []Date {
	dates := make([]Date, 0, len(p.Days))
	for k := range p.Days {
		d, err := ParseDate(k)
		if err != nil {
			continue
		}
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j].Time) })
	return dates
}

// Count is the total number of occurrences in the month.
func (p MonthProjection) Count() int {
	n := 0
	for _, occ := range p.Days {
		n += len(occ)
	}
	return n
}

// CategoryTotal returns the expense total for a category, zero when absent.
func (t MonthTotals) CategoryTotal(category string) Money {
	return t.CategoryTotals[category]
}

// HasIncome is false for the "no income" state where impacts are undefined.
func (t MonthTotals) HasIncome() bool {
	return t.TotalIncome.Cents > 0
}

// Impact is the category total divided by total income, or 0 without income.
func (t MonthTotals) Impact(category string) float64 {
	if !t.HasIncome() {
		return 0
	}
	return float64(t.CategoryTotals[category].Cents) / float64(t.TotalIncome.Cents)
}
