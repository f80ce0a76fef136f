// Package memory is an in-process MonthWriter. The worker uses it as a dry
// run target when no spreadsheet is configured, and tests use it to inspect
// exports.
package memory

import (
	"context"
	"sync"

	"saldo/internal/core"
	"saldo/internal/sheets"
)

type Store struct {
	mu     sync.Mutex
	months map[string][][]any
	writes int
}

var _ sheets.MonthWriter = (*Store)(nil)

func New() *Store {
	return &Store{months: make(map[string][][]any)}
}

// WriteMonthView keeps the rows the spreadsheet would receive.
func (s *Store) WriteMonthView(_ context.Context, view core.MonthView) error {
	rows := sheets.MonthRows(view)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.months[sheets.SheetTitle(view.Month)] = rows
	s.writes++
	return nil
}

// Rows returns the last rows exported for a month key (YYYY-MM).
func (s *Store) Rows(month string) ([][]any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rows, ok := s.months[month]
	return rows, ok
}

// Writes counts WriteMonthView calls.
func (s *Store) Writes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes
}
