package sheets

import (
	"testing"
	"time"

	"saldo/internal/core"
)

func TestMonthRows(t *testing.T) {
	oct := core.Month{Year: 2025, Month: time.October}
	view := core.MonthView{
		Month:       oct,
		DaysInMonth: 31,
		Days: map[string][]core.Occurrence{
			"2025-10-27": {
				{Name: "Salary", Kind: core.Income, Category: "salary", Periodicity: core.Monthly, Amount: core.Money{Cents: 250000}},
			},
			"2025-10-05": {
				{Name: "Rent", Kind: core.Expense, Category: "home", Periodicity: core.Monthly, Amount: core.Money{Cents: 100000}},
			},
		},
		Totals: core.MonthTotals{
			TotalIncome:      core.Money{Cents: 250000},
			TotalExpense:     core.Money{Cents: 100000},
			ProjectedBalance: core.Money{Cents: 150000},
			RealizedBalance:  core.Money{Cents: -100000},
		},
		Breakdown: []core.CategoryImpact{{Category: "home", Label: "Home", Amount: core.Money{Cents: 100000}, Impact: 0.4}},
	}

	rows := MonthRows(view)
	if len(rows) != 1+2+1+4+1+1+1 {
		t.Fatalf("got %d rows", len(rows))
	}
	if rows[1][0] != "2025-10-05" || rows[1][5] != -1000.0 {
		t.Fatalf("first occurrence row = %v", rows[1])
	}
	if rows[2][0] != "2025-10-27" || rows[2][5] != 2500.0 {
		t.Fatalf("second occurrence row = %v", rows[2])
	}
	if rows[7][0] != "Realized balance" || rows[7][1] != -1000.0 {
		t.Fatalf("realized row = %v", rows[7])
	}
	if last := rows[len(rows)-1]; last[0] != "Home" || last[2] != 0.4 {
		t.Fatalf("breakdown row = %v", last)
	}
	if SheetTitle(oct) != "2025-10" {
		t.Fatalf("SheetTitle = %q", SheetTitle(oct))
	}
}
