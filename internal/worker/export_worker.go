// Package worker exports projected months to the spreadsheet in response to
// ledger change events.
package worker

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"saldo/internal/amqp"
	"saldo/internal/core"
	"saldo/internal/log"
	"saldo/internal/metrics"
	"saldo/internal/services"
	"saldo/internal/sheets"
	"saldo/internal/storage"
)

// Config holds the worker settings.
type Config struct {
	// RefreshInterval is how often the current month is re-exported as a
	// backstop for lost messages (default: 15m).
	RefreshInterval time.Duration

	// StartupMonths is how many months from the current one are exported
	// at startup (default: 2).
	StartupMonths int
}

func DefaultConfig() Config {
	return Config{
		RefreshInterval: 15 * time.Minute,
		StartupMonths:   2,
	}
}

// ExportWorker rebuilds month views from the shared store and writes them
// to the spreadsheet.
type ExportWorker struct {
	store   storage.Store
	sheets  sheets.MonthWriter
	metrics *metrics.Metrics
	logger  *log.Logger
	now     func() time.Time
	config  Config

	mu sync.Mutex
	// exported holds, per month key, the newest event version exported.
	exported map[string]int64
	// written holds every month that has a tab in the spreadsheet.
	written map[string]core.Month
}

func NewExportWorker(store storage.Store, writer sheets.MonthWriter, m *metrics.Metrics, logger *log.Logger, config Config) *ExportWorker {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	if config.RefreshInterval <= 0 {
		config.RefreshInterval = DefaultConfig().RefreshInterval
	}
	if config.StartupMonths <= 0 {
		config.StartupMonths = DefaultConfig().StartupMonths
	}
	return &ExportWorker{
		store:    store,
		sheets:   writer,
		metrics:  m,
		logger:   logger.WithComponent(log.ComponentWorker),
		now:      time.Now,
		config:   config,
		exported: make(map[string]int64),
		written:  make(map[string]core.Month),
	}
}

// HandleLedgerChanged exports the month named by msg. Onward events also
// refresh every later month already present in the spreadsheet. Months whose
// last export is at least as new as the event are skipped.
func (w *ExportWorker) HandleLedgerChanged(ctx context.Context, msg *amqp.LedgerChangedMessage) error {
	month, err := core.ParseMonth(msg.Month)
	if err != nil {
		w.logger.WarnContext(ctx, "Dropping change event with invalid month", "month", msg.Month, "error", err)
		return nil
	}

	months := []core.Month{month}
	if msg.Onward {
		months = append(months, w.writtenAfter(month)...)
	}

	var errs []error
	for _, m := range months {
		key := m.Key()
		w.mu.Lock()
		last := w.exported[key]
		w.mu.Unlock()
		if msg.Version > 0 && msg.Version <= last {
			w.logger.DebugContext(ctx, "Skipping stale change event", "month", key, "version", msg.Version, "exported", last)
			continue
		}

		if err := w.ExportMonth(ctx, m); err != nil {
			errs = append(errs, err)
			continue
		}

		w.mu.Lock()
		if msg.Version > w.exported[key] {
			w.exported[key] = msg.Version
		}
		w.mu.Unlock()
	}
	return errors.Join(errs...)
}

// writtenAfter returns the exported months later than m, oldest first.
func (w *ExportWorker) writtenAfter(m core.Month) []core.Month {
	w.mu.Lock()
	defer w.mu.Unlock()

	var later []core.Month
	for key, month := range w.written {
		if key > m.Key() {
			later = append(later, month)
		}
	}
	sort.Slice(later, func(i, j int) bool { return later[i].Key() < later[j].Key() })
	return later
}

// ExportMonth loads the ledger and writes the month view.
func (w *ExportWorker) ExportMonth(ctx context.Context, month core.Month) error {
	start := time.Now()
	err := w.exportMonth(ctx, month)
	w.metrics.ObserveExport(time.Since(start).Seconds(), err)
	if err != nil {
		w.logger.LogError(ctx, "Month export failed", err, log.OpExport, log.NewFields().WithMonth(month.Key()))
		return err
	}
	w.mu.Lock()
	w.written[month.Key()] = month
	w.mu.Unlock()
	w.logger.InfoContext(ctx, "Month exported", log.FieldMonth, month.Key(), log.FieldDuration, time.Since(start).Milliseconds())
	return nil
}

func (w *ExportWorker) exportMonth(ctx context.Context, month core.Month) error {
	rec, ok, err := w.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("load ledger: %w", err)
	}
	ledger := core.NewLedger()
	if ok {
		if ledger, err = rec.Ledger(); err != nil {
			return fmt.Errorf("decode ledger: %w", err)
		}
	}

	view := services.BuildMonthView(ledger, month, core.DateOf(w.now()))
	for _, id := range view.Skipped {
		w.logger.WarnContext(ctx, "Skipping template with unknown periodicity", log.FieldTemplateID, id, log.FieldMonth, month.Key())
	}
	if err := w.sheets.WriteMonthView(ctx, view); err != nil {
		return fmt.Errorf("write month %s: %w", month, err)
	}
	return nil
}

// StartupExport exports the current month and the following ones so the
// spreadsheet catches up after downtime.
func (w *ExportWorker) StartupExport(ctx context.Context) error {
	current := core.MonthOf(core.DateOf(w.now()))
	failed := 0
	for i := 0; i < w.config.StartupMonths; i++ {
		if err := w.ExportMonth(ctx, current.Add(i)); err != nil {
			failed++
		}
	}
	w.logger.InfoContext(ctx, "Startup export completed", "months", w.config.StartupMonths, "errors", failed)
	if failed == w.config.StartupMonths {
		return fmt.Errorf("startup export: all %d months failed", failed)
	}
	return nil
}

// Run re-exports the current month every RefreshInterval until ctx is done.
func (w *ExportWorker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.config.RefreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			_ = w.ExportMonth(ctx, core.MonthOf(core.DateOf(w.now())))
		}
	}
}
