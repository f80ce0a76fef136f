package services

import "saldo/internal/core"

// Project computes every occurrence of templates in month, skipping the ones
// suppressed by exceptions. Within a day, occurrences follow template order.
// Templates with an unknown periodicity produce nothing and are listed in
// Skipped.
func Project(templates []core.Template, exceptions core.ExceptionSet, month core.Month) core.MonthProjection {
	proj := core.NewMonthProjection(month)
	for _, t := range templates {
		dates, err := Expand(t, month)
		if err != nil {
			proj.Skipped = append(proj.Skipped, t.ID)
			continue
		}
		for _, d := range dates {
			if exceptions.Suppresses(t.ID, d) {
				continue
			}
			key := d.Key()
			proj.Days[key] = append(proj.Days[key], t.OccurrenceOn(d))
		}
	}
	return proj
}

// OccursOn reports whether t produces a visible occurrence on d.
func OccursOn(t core.Template, exceptions core.ExceptionSet, d core.Date) bool {
	if exceptions.Suppresses(t.ID, d) {
		return false
	}
	dates, err := Expand(t, core.MonthOf(d))
	if err != nil {
		return false
	}
	for _, c := range dates {
		if c.Equal(d.Time) {
			return true
		}
	}
	return false
}
