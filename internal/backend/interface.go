// Package backend builds the ledger store selected by DATA_BACKEND.
package backend

import (
	"context"

	"saldo/internal/storage"
)

const (
	SQLiteBackend BackendType = "sqlite"
	MemoryBackend BackendType = "memory"
)

// BackendType represents the type of backend
type BackendType string

// CleanupFunc releases the resources held by a backend.
type CleanupFunc func() error

// ReadyFunc reports whether the backend can serve requests.
type ReadyFunc func(ctx context.Context) error

// BackendResult contains the store and its lifecycle hooks. Ready and
// Cleanup are never nil.
type BackendResult struct {
	Store   storage.Store
	Ready   ReadyFunc
	Cleanup CleanupFunc
}

// Factory creates backends based on configuration
type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*BackendResult, error)
}

func (bt BackendType) String() string {
	return string(bt)
}

func (bt BackendType) IsValid() bool {
	switch bt {
	case SQLiteBackend, MemoryBackend:
		return true
	default:
		return false
	}
}
