// Package sheets defines the spreadsheet export port. Adapters live in the
// google and memory subpackages.
package sheets

import (
	"context"

	"saldo/internal/core"
)

// MonthWriter replaces the exported copy of one month with view.
type MonthWriter interface {
	WriteMonthView(ctx context.Context, view core.MonthView) error
}

// Header is the first row of every exported month.
var Header = []any{"Date", "Name", "Kind", "Category", "Periodicity", "Amount"}

// MonthRows lays a month view out as spreadsheet rows: one row per
// occurrence by date, then the totals, then the category breakdown.
func MonthRows(view core.MonthView) [][]any {
	rows := [][]any{Header}

	for day := 1; day <= view.DaysInMonth; day++ {
		d, ok := view.Month.Day(day)
		if !ok {
			break
		}
		for _, occ := range view.Days[d.Key()] {
			amount := occ.Amount.Units()
			if occ.Kind == core.Expense {
				amount = -amount
			}
			rows = append(rows, []any{d.Key(), occ.Name, string(occ.Kind), occ.Category, string(occ.Periodicity), amount})
		}
	}

	t := view.Totals
	rows = append(rows,
		[]any{},
		[]any{"Total income", t.TotalIncome.Units()},
		[]any{"Total expense", t.TotalExpense.Units()},
		[]any{"Projected balance", t.ProjectedBalance.Units()},
		[]any{"Realized balance", t.RealizedBalance.Units()},
		[]any{},
		[]any{"Category", "Amount", "Impact"},
	)
	for _, c := range view.Breakdown {
		rows = append(rows, []any{c.Label, c.Amount.Units(), c.Impact})
	}
	return rows
}

// SheetTitle is the tab name a month is exported to.
func SheetTitle(m core.Month) string {
	return m.Key()
}
