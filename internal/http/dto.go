package http

import (
	"saldo/internal/catalog"
	"saldo/internal/core"
)

type (
	occurrenceDTO struct {
		TemplateID  string `json:"template_id"`
		Name        string `json:"name"`
		AmountCents int64  `json:"amount_cents"`
		Amount      string `json:"amount"`
		Kind        string `json:"kind"`
		Periodicity string `json:"periodicity"`
		Category    string `json:"category"`
		Date        string `json:"date"`
	}

	totalsDTO struct {
		RealizedBalanceCents  int64            `json:"realized_balance_cents"`
		ProjectedBalanceCents int64            `json:"projected_balance_cents"`
		TotalIncomeCents      int64            `json:"total_income_cents"`
		TotalExpenseCents     int64            `json:"total_expense_cents"`
		CategoryTotalsCents   map[string]int64 `json:"category_totals_cents"`
	}

	impactDTO struct {
		Category    string  `json:"category"`
		Label       string  `json:"label"`
		Color       string  `json:"color"`
		Icon        string  `json:"icon"`
		AmountCents int64   `json:"amount_cents"`
		Impact      float64 `json:"impact"`
	}

	monthViewDTO struct {
		Month        string                     `json:"month"`
		Today        string                     `json:"today"`
		DaysInMonth  int                        `json:"days_in_month"`
		FirstWeekday int                        `json:"first_weekday"`
		Days         map[string][]occurrenceDTO `json:"days"`
		Totals       totalsDTO                  `json:"totals"`
		Breakdown    []impactDTO                `json:"breakdown"`
	}

	dayViewDTO struct {
		Date        string          `json:"date"`
		Occurrences []occurrenceDTO `json:"occurrences"`
	}

	templateDTO struct {
		ID          string  `json:"id"`
		Name        string  `json:"name"`
		AmountCents int64   `json:"amount_cents"`
		Kind        string  `json:"kind"`
		Periodicity string  `json:"periodicity"`
		Category    string  `json:"category"`
		OriginDate  string  `json:"origin_date"`
		StopDate    *string `json:"stop_date"`
	}

	selectedMonthDTO struct {
		Month string `json:"month"`
	}

	categoriesDTO struct {
		Expense []catalog.Category `json:"expense"`
		Income  []catalog.Category `json:"income"`
	}
)

func toOccurrenceDTOs(occ []core.Occurrence) []occurrenceDTO {
	out := make([]occurrenceDTO, 0, len(occ))
	for _, o := range occ {
		out = append(out, occurrenceDTO{
			TemplateID:  o.TemplateID,
			Name:        o.Name,
			AmountCents: o.Amount.Cents,
			Amount:      o.Amount.String(),
			Kind:        string(o.Kind),
			Periodicity: string(o.Periodicity),
			Category:    o.Category,
			Date:        o.Date.Key(),
		})
	}
	return out
}

func toMonthViewDTO(v core.MonthView) monthViewDTO {
	days := make(map[string][]occurrenceDTO, len(v.Days))
	for k, occ := range v.Days {
		days[k] = toOccurrenceDTOs(occ)
	}

	cats := make(map[string]int64, len(v.Totals.CategoryTotals))
	for k, m := range v.Totals.CategoryTotals {
		cats[k] = m.Cents
	}

	breakdown := make([]impactDTO, 0, len(v.Breakdown))
	for _, b := range v.Breakdown {
		breakdown = append(breakdown, impactDTO{
			Category:    b.Category,
			Label:       b.Label,
			Color:       b.Color,
			Icon:        b.Icon,
			AmountCents: b.Amount.Cents,
			Impact:      b.Impact,
		})
	}

	return monthViewDTO{
		Month:        v.Month.Key(),
		Today:        v.Today.Key(),
		DaysInMonth:  v.DaysInMonth,
		FirstWeekday: v.FirstWeekday,
		Days:         days,
		Totals: totalsDTO{
			RealizedBalanceCents:  v.Totals.RealizedBalance.Cents,
			ProjectedBalanceCents: v.Totals.ProjectedBalance.Cents,
			TotalIncomeCents:      v.Totals.TotalIncome.Cents,
			TotalExpenseCents:     v.Totals.TotalExpense.Cents,
			CategoryTotalsCents:   cats,
		},
		Breakdown: breakdown,
	}
}

func toTemplateDTO(t core.Template) templateDTO {
	dto := templateDTO{
		ID:          t.ID,
		Name:        t.Name,
		AmountCents: t.Amount.Cents,
		Kind:        string(t.Kind),
		Periodicity: string(t.Periodicity),
		Category:    t.Category,
		OriginDate:  t.OriginDate.Key(),
	}
	if t.HasStop() {
		stop := t.StopDate.Key()
		dto.StopDate = &stop
	}
	return dto
}
