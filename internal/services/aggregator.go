package services

import (
	"saldo/internal/catalog"
	"saldo/internal/core"
)

// Aggregate derives the month totals from a projection. Occurrences dated on
// or before today count toward the realized balance.
func Aggregate(proj core.MonthProjection, today core.Date) core.MonthTotals {
	totals := core.MonthTotals{CategoryTotals: make(map[string]core.Money)}

	var realizedIn, realizedOut core.Money
	for _, occurrences := range proj.Days {
		for _, occ := range occurrences {
			realized := !occ.Date.After(today.Time)
			switch occ.Kind {
			case core.Income:
				totals.TotalIncome = totals.TotalIncome.Add(occ.Amount)
				if realized {
					realizedIn = realizedIn.Add(occ.Amount)
				}
			case core.Expense:
				totals.TotalExpense = totals.TotalExpense.Add(occ.Amount)
				totals.CategoryTotals[occ.Category] = totals.CategoryTotals[occ.Category].Add(occ.Amount)
				if realized {
					realizedOut = realizedOut.Add(occ.Amount)
				}
			}
		}
	}

	totals.RealizedBalance = realizedIn.Sub(realizedOut)
	totals.ProjectedBalance = totals.TotalIncome.Sub(totals.TotalExpense)
	return totals
}

// Breakdown lists every expense category in catalog order with its total and
// its share of income. Categories without spending are included with zero.
func Breakdown(totals core.MonthTotals) []core.CategoryImpact {
	cats := catalog.ForKind(core.Expense)
	out := make([]core.CategoryImpact, 0, len(cats))
	for _, c := range cats {
		out = append(out, core.CategoryImpact{
			Category: c.ID,
			Label:    c.Label,
			Color:    c.Color,
			Icon:     c.Icon,
			Amount:   totals.CategoryTotal(c.ID),
			Impact:   totals.Impact(c.ID),
		})
	}
	return out
}

// BuildMonthView runs projection and aggregation for one month.
func BuildMonthView(l *core.Ledger, month core.Month, today core.Date) core.MonthView {
	proj := Project(l.Templates, l.Exceptions, month)
	totals := Aggregate(proj, today)
	return core.MonthView{
		Month:        month,
		Today:        today,
		DaysInMonth:  month.Days(),
		FirstWeekday: int(month.First().Weekday()),
		Days:         proj.Days,
		Totals:       totals,
		Breakdown:    Breakdown(totals),
		Skipped:      proj.Skipped,
	}
}
