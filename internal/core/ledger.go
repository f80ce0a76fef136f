package core

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

const exceptionSeparator = "@"

var ErrInvalidException = errors.New("invalid exception key")

type (
	// Exception suppresses the occurrence of one template on one day.
	Exception struct {
		TemplateID string
		Date       Date
	}

	// ExceptionSet is keyed by Exception.Key.
	ExceptionSet map[string]struct{}

	// Ledger holds the loaded templates and exceptions. Template order is
	// creation order and drives the order of occurrences within a day.
	Ledger struct {
		Templates  []Template
		Exceptions ExceptionSet
	}
)

// Key encodes the exception as "<templateID>@<YYYY-MM-DD>".
func (e Exception) Key() string {
	return e.TemplateID + exceptionSeparator + e.Date.Key()
}

// ParseExceptionKey reverses Exception.Key. The date part never contains the
// separator so splitting at the last one is unambiguous.
func ParseExceptionKey(s string) (Exception, error) {
	i := strings.LastIndex(s, exceptionSeparator)
	if i <= 0 || i == len(s)-1 {
		return Exception{}, fmt.Errorf("%w: %q", ErrInvalidException, s)
	}
	d, err := ParseDate(s[i+1:])
	if err != nil {
		return Exception{}, fmt.Errorf("%w: %q: %w", ErrInvalidException, s, err)
	}
	return Exception{TemplateID: s[:i], Date: d}, nil
}

func NewExceptionSet(exceptions ...Exception) ExceptionSet {
	s := make(ExceptionSet, len(exceptions))
	for _, e := range exceptions {
		s.Add(e)
	}
	return s
}

// Add inserts the exception and reports whether it was new.
func (s ExceptionSet) Add(e Exception) bool {
	k := e.Key()
	if _, ok := s[k]; ok {
		return false
	}
	s[k] = struct{}{}
	return true
}

// Suppresses reports whether the template's occurrence on d is skipped.
func (s ExceptionSet) Suppresses(templateID string, d Date) bool {
	_, ok := s[Exception{TemplateID: templateID, Date: d}.Key()]
	return ok
}

// Keys returns the exception keys sorted for stable serialization.
func (s ExceptionSet) Keys() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (s ExceptionSet) Clone() ExceptionSet {
	out := make(ExceptionSet, len(s))
	for k := range s {
		out[k] = struct{}{}
	}
	return out
}

// NewLedger returns the empty initial state.
func NewLedger() *Ledger {
	return &Ledger{Exceptions: NewExceptionSet()}
}

// Find returns the template with the given id.
func (l *Ledger) Find(id string) (Template, bool) {
	for _, t := range l.Templates {
		if t.ID == id {
			return t, true
		}
	}
	return Template{}, false
}

// Add appends a template.
func (l *Ledger) Add(t Template) {
	l.Templates = append(l.Templates, t)
}

// Remove drops the template and reports whether it existed.
func (l *Ledger) Remove(id string) bool {
	for i, t := range l.Templates {
		if t.ID == id {
			l.Templates = append(l.Templates[:i:i], l.Templates[i+1:]...)
			return true
		}
	}
	return false
}

// SetStop sets the stop date of the template in place.
func (l *Ledger) SetStop(id string, d Date) bool {
	for i := range l.Templates {
		if l.Templates[i].ID == id {
			l.Templates[i].StopDate = d
			return true
		}
	}
	return false
}

// Clone returns a deep copy safe to hand to another goroutine.
func (l *Ledger) Clone() *Ledger {
	templates := make([]Template, len(l.Templates))
	copy(templates, l.Templates)
	return &Ledger{Templates: templates, Exceptions: l.Exceptions.Clone()}
}
