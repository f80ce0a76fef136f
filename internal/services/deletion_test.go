package services

import (
	"errors"
	"testing"

	"saldo/internal/core"
)

func TestPlanDeletion(t *testing.T) {
	weekly := tmpl("w", core.Expense, core.Weekly, 100, "food", core.NewDate(2025, 9, 1))
	once := tmpl("o", core.Expense, core.Once, 100, "food", core.NewDate(2025, 3, 10))
	date := core.NewDate(2025, 10, 13)

	tests := []struct {
		name     string
		template core.Template
		date     core.Date
		mode     core.DeleteMode
		want     core.Mutation
	}{
		{"skip recurring", weekly, date, core.SkipOccurrence, core.Mutation{Kind: core.AddException, TemplateID: "w", Date: date}},
		{"stop recurring", weekly, date, core.StopFuture, core.Mutation{Kind: core.SetStopDate, TemplateID: "w", Date: date}},
		{"delete recurring", weekly, date, core.DeleteAll, core.Mutation{Kind: core.RemoveTemplate, TemplateID: "w"}},
		{"stop before origin removes", weekly, core.NewDate(2025, 8, 1), core.StopFuture, core.Mutation{Kind: core.RemoveTemplate, TemplateID: "w"}},
		{"skip once removes", once, once.OriginDate, core.SkipOccurrence, core.Mutation{Kind: core.RemoveTemplate, TemplateID: "o"}},
		{"stop once removes", once, once.OriginDate, core.StopFuture, core.Mutation{Kind: core.RemoveTemplate, TemplateID: "o"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := PlanDeletion(tt.template, tt.date, tt.mode)
			if err != nil {
				t.Fatalf("PlanDeletion: %v", err)
			}
			if got.Kind != tt.want.Kind || got.TemplateID != tt.want.TemplateID || !got.Date.Equal(tt.want.Date.Time) {
				t.Fatalf("PlanDeletion() = %+v, want %+v", got, tt.want)
			}
		})
	}

	if _, err := PlanDeletion(once, once.OriginDate, "everything"); !errors.Is(err, core.ErrInvalidDeleteMode) {
		t.Fatalf("expected ErrInvalidDeleteMode, got %v", err)
	}
}
