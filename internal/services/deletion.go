package services

import (
	"saldo/internal/core"
)

// PlanDeletion turns a deletion intent on the occurrence of t at date into a
// ledger mutation. One-off templates are always removed whole, and stopping a
// template before its first occurrence removes it as well.
func PlanDeletion(t core.Template, date core.Date, mode core.DeleteMode) (core.Mutation, error) {
	if _, err := core.ParseDeleteMode(string(mode)); err != nil {
		return core.Mutation{}, err
	}
	if !t.Periodicity.Recurring() {
		mode = core.DeleteAll
	}

	switch mode {
	case core.SkipOccurrence:
		return core.Mutation{Kind: core.AddException, TemplateID: t.ID, Date: date}, nil
	case core.StopFuture:
		if date.Before(t.OriginDate.Time) {
			return core.Mutation{Kind: core.RemoveTemplate, TemplateID: t.ID}, nil
		}
		return core.Mutation{Kind: core.SetStopDate, TemplateID: t.ID, Date: date}, nil
	default:
		return core.Mutation{Kind: core.RemoveTemplate, TemplateID: t.ID}, nil
	}
}
