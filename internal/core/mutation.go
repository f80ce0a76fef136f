package core

import "fmt"

const (
	SkipOccurrence DeleteMode = "skip_occurrence"
	StopFuture     DeleteMode = "stop_future"
	DeleteAll      DeleteMode = "delete_all"
)

const (
	AddException   MutationKind = "add_exception"
	SetStopDate    MutationKind = "set_stop_date"
	RemoveTemplate MutationKind = "remove_template"
)

type (
	// DeleteMode is the user's deletion intent for one occurrence.
	DeleteMode string

	MutationKind string

	// Mutation is a planned change to the ledger collections.
	Mutation struct {
		Kind       MutationKind
		TemplateID string
		Date       Date
	}
)

func ParseDeleteMode(s string) (DeleteMode, error) {
	switch m := DeleteMode(s); m {
	case SkipOccurrence, StopFuture, DeleteAll:
		return m, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidDeleteMode, s)
}

// Apply performs the mutation and reports whether the ledger changed.
// Mutations on templates that are already gone are no-ops.
func (l *Ledger) Apply(m Mutation) bool {
	switch m.Kind {
	case AddException:
		if _, ok := l.Find(m.TemplateID); !ok {
			return false
		}
		return l.Exceptions.Add(Exception{TemplateID: m.TemplateID, Date: m.Date})
	case SetStopDate:
		t, ok := l.Find(m.TemplateID)
		// A stop only ever moves earlier.
		if !ok || (t.HasStop() && !m.Date.Before(t.StopDate.Time)) {
			return false
		}
		return l.SetStop(m.TemplateID, m.Date)
	case RemoveTemplate:
		return l.Remove(m.TemplateID)
	}
	return false
}
