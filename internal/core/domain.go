package core

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	Expense Kind = "expense"
	Income  Kind = "income"
)

const (
	Once    Periodicity = "once"
	Weekly  Periodicity = "weekly"
	Monthly Periodicity = "monthly"
)

type (
	// Kind tells whether a template moves money out of or into the balance.
	Kind string

	Periodicity string

	Money struct {
		Cents int64
	}

	// Template is a persisted cash movement. Recurring templates produce one
	// occurrence per matching day starting at OriginDate.
	Template struct {
		ID          string
		Name        string
		Amount      Money
		Kind        Kind
		Periodicity Periodicity
		Category    string
		OriginDate  Date
		StopDate    Date // zero when the template never stops
	}

	// Occurrence is a template landing on one concrete day. Never persisted.
	Occurrence struct {
		TemplateID  string
		Name        string
		Amount      Money
		Kind        Kind
		Periodicity Periodicity
		Category    string
		Date        Date
	}
)

var (
	ErrInvalidTemplate   = errors.New("invalid template")
	ErrInvalidCategory   = errors.New("invalid category")
	ErrInvalidAmount     = errors.New("invalid amount")
	ErrEmptyName         = errors.New("empty name")
	ErrInvalidDeleteMode = errors.New("invalid delete mode")
)

const maxNameLength = 200

func (k Kind) Valid() bool {
	return k == Expense || k == Income
}

func (p Periodicity) Valid() bool {
	switch p {
	case Once, Weekly, Monthly:
		return true
	}
	return false
}

// Recurring reports whether the periodicity can produce more than one occurrence.
func (p Periodicity) Recurring() bool {
	return p == Weekly || p == Monthly
}

func (m Money) Validate() error {
	if m.Cents < 0 {
		return ErrInvalidAmount
	}
	return nil
}

// OriginWeekday is the day of the week weekly templates repeat on.
func (t Template) OriginWeekday() time.Weekday {
	return t.OriginDate.Weekday()
}

// OriginDayOfMonth is the day of the month monthly templates repeat on.
func (t Template) OriginDayOfMonth() int {
	return t.OriginDate.Day()
}

// HasStop reports whether a stop date was set on the template.
func (t Template) HasStop() bool {
	return !t.StopDate.IsEmpty()
}

// Validate checks the structural fields of a template. Category membership is
// checked against the catalog by the caller.
func (t Template) Validate() error {
	if len(strings.TrimSpace(t.Name)) == 0 {
		return fmt.Errorf("%w: %w", ErrInvalidTemplate, ErrEmptyName)
	}
	if len(t.Name) > maxNameLength {
		return fmt.Errorf("%w: name too long (max %d characters)", ErrInvalidTemplate, maxNameLength)
	}
	if err := t.Amount.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidTemplate, err)
	}
	if !t.Kind.Valid() {
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidTemplate, t.Kind)
	}
	if !t.Periodicity.Valid() {
		return fmt.Errorf("%w: unknown periodicity %q", ErrInvalidTemplate, t.Periodicity)
	}
	if err := t.OriginDate.Validate(); err != nil {
		return fmt.Errorf("%w: origin date: %w", ErrInvalidTemplate, err)
	}
	if t.HasStop() && t.StopDate.Before(t.OriginDate.Time) {
		return fmt.Errorf("%w: stop date %s before origin date %s", ErrInvalidTemplate, t.StopDate.Key(), t.OriginDate.Key())
	}
	if strings.TrimSpace(t.Category) == "" {
		return fmt.Errorf("%w: empty category", ErrInvalidCategory)
	}
	return nil
}

// OccurrenceOn pairs the template with a concrete day.
func (t Template) OccurrenceOn(d Date) Occurrence {
	return Occurrence{
		TemplateID:  t.ID,
		Name:        t.Name,
		Amount:      t.Amount,
		Kind:        t.Kind,
		Periodicity: t.Periodicity,
		Category:    t.Category,
		Date:        d,
	}
}
