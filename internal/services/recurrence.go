// Package services provides the projection engine and the ledger service.
//
// This file implements the Strategy Pattern for recurrence expansion.
// Each periodicity (once, weekly, monthly) has its own expander that
// encapsulates the rule for the days a template lands on.

package services

import (
	"fmt"

	"saldo/internal/core"
)

// Expander is the strategy interface for turning a template into candidate
// days within one month.
type Expander interface {
	// Candidates returns the days of month matching the template rule,
	// ascending. Stop dates are applied by Expand, not by the strategy.
	Candidates(t core.Template, month core.Month) []core.Date
}

// OnceExpander yields the origin date when it falls in the month.
type OnceExpander struct{}

func (OnceExpander) Candidates(t core.Template, month core.Month) []core.Date {
	if !month.Contains(t.OriginDate) {
		return nil
	}
	return []core.Date{t.OriginDate}
}

// WeeklyExpander yields every day of the month sharing the origin weekday,
// from the origin date on.
type WeeklyExpander struct{}

func (WeeklyExpander) Candidates(t core.Template, month core.Month) []core.Date {
	first := month.First()
	offset := (int(t.OriginWeekday()) - int(first.Weekday()) + 7) % 7

	var out []core.Date
	for day := 1 + offset; day <= month.Days(); day += 7 {
		d, _ := month.Day(day)
		if d.Before(t.OriginDate.Time) {
			continue
		}
		out = append(out, d)
	}
	return out
}

// MonthlyExpander yields the origin day of the month. Months shorter than
// that day produce nothing.
type MonthlyExpander struct{}

func (MonthlyExpander) Candidates(t core.Template, month core.Month) []core.Date {
	d, ok := month.Day(t.OriginDayOfMonth())
	if !ok || d.Before(t.OriginDate.Time) {
		return nil
	}
	return []core.Date{d}
}

// expanders maps periodicities to their strategies.
var expanders = map[core.Periodicity]Expander{
	core.Once:    OnceExpander{},
	core.Weekly:  WeeklyExpander{},
	core.Monthly: MonthlyExpander{},
}

// GetExpander returns the expander for a periodicity.
func GetExpander(p core.Periodicity) (Expander, error) {
	e, ok := expanders[p]
	if !ok {
		return nil, fmt.Errorf("unknown periodicity: %s", p)
	}
	return e, nil
}

// Expand returns the days of month on which t produces an occurrence,
// ascending, with days after the stop date removed. Occurrences on the stop
// date itself are kept.
func Expand(t core.Template, month core.Month) ([]core.Date, error) {
	e, err := GetExpander(t.Periodicity)
	if err != nil {
		return nil, err
	}
	dates := e.Candidates(t, month)
	if !t.HasStop() {
		return dates, nil
	}
	kept := dates[:0:0]
	for _, d := range dates {
		if d.After(t.StopDate.Time) {
			break
		}
		kept = append(kept, d)
	}
	return kept, nil
}
