// Package storage persists the single ledger record.
package storage

import (
	"context"
	"sync"

	"saldo/internal/core"
)

// DefaultLedgerKey is the key the ledger record is stored under.
const DefaultLedgerKey = "saldo_ledger"

// Store is the load/save contract of the ledger record. Load reports
// ok=false when nothing was ever saved.
type Store interface {
	Load(ctx context.Context) (rec core.Record, ok bool, err error)
	Save(ctx context.Context, rec core.Record) error
}

// MemoryStore keeps the encoded record in process memory. Used for
// DATA_BACKEND=memory and in tests.
type MemoryStore struct {
	mu    sync.Mutex
	data  []byte
	saves int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Load(_ context.Context) (core.Record, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.data) == 0 {
		return core.Record{}, false, nil
	}
	rec, err := core.UnmarshalRecord(s.data)
	if err != nil {
		return core.Record{}, false, err
	}
	return rec, true, nil
}

func (s *MemoryStore) Save(_ context.Context, rec core.Record) error {
	data, err := core.MarshalRecord(rec)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = data
	s.saves++
	return nil
}

// Saves returns how many times Save succeeded.
func (s *MemoryStore) Saves() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}
