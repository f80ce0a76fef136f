package services

import (
	"time"

	"saldo/internal/core"
)

func tmpl(id string, kind core.Kind, p core.Periodicity, cents int64, category string, origin core.Date) core.Template {
	return core.Template{
		ID:          id,
		Name:        id,
		Amount:      core.Money{Cents: cents},
		Kind:        kind,
		Periodicity: p,
		Category:    category,
		OriginDate:  origin,
	}
}

func month(y int, m int) core.Month {
	return core.NewMonth(y, time.Month(m))
}

func days(dates []core.Date) []int {
	out := make([]int, len(dates))
	for i, d := range dates {
		out[i] = d.Day()
	}
	return out
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
