package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"saldo/internal/core"

	_ "modernc.org/sqlite"
)

// SQLiteRepository stores the ledger record as JSON in the kv table.
type SQLiteRepository struct {
	db            *sql.DB
	key           string
	schemaVersion uint
}

func NewSQLiteRepository(dbPath, key string) (*SQLiteRepository, error) {
	if key == "" {
		key = DefaultLedgerKey
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	version, err := migrateLedgerSchema(db)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db, key: key, schemaVersion: version}, nil
}

// SchemaVersion is the migration version the database was left at.
func (r *SQLiteRepository) SchemaVersion() uint {
	return r.schemaVersion
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping checks the database connection. Used by /readyz.
func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// Load reads the ledger record. A missing row or an empty value means the
// ledger was never saved.
func (r *SQLiteRepository) Load(ctx context.Context) (core.Record, bool, error) {
	var value string
	err := r.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, r.key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Record{}, false, nil
	}
	if err != nil {
		return core.Record{}, false, fmt.Errorf("load ledger record: %w", err)
	}
	if value == "" {
		return core.Record{}, false, nil
	}

	rec, err := core.UnmarshalRecord([]byte(value))
	if err != nil {
		return core.Record{}, false, err
	}
	return rec, true, nil
}

// Save replaces the ledger record.
func (r *SQLiteRepository) Save(ctx context.Context, rec core.Record) error {
	data, err := core.MarshalRecord(rec)
	if err != nil {
		return fmt.Errorf("encode ledger record: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		r.key, string(data), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("save ledger record: %w", err)
	}

	slog.DebugContext(ctx, "Ledger record saved to SQLite",
		"key", r.key,
		"templates", len(rec.Templates),
		"exceptions", len(rec.Exceptions))
	return nil
}
