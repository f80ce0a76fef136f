package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"saldo/internal/amqp"
	"saldo/internal/cache"
	"saldo/internal/catalog"
	"saldo/internal/core"
	"saldo/internal/log"
	"saldo/internal/metrics"
	"saldo/internal/storage"
)

const (
	defaultViewCacheSize = 24
	defaultViewCacheTTL  = 10 * time.Minute
	defaultSaveTimeout   = 10 * time.Second
)

// ChangePublisher announces persisted ledger changes. *amqp.Client
// satisfies it.
type ChangePublisher interface {
	PublishLedgerChanged(ctx context.Context, msg *amqp.LedgerChangedMessage) error
}

// Options configures a LedgerService. Every field is optional.
type Options struct {
	Clock         func() time.Time
	Publisher     ChangePublisher
	Metrics       *metrics.Metrics
	Logger        *log.Logger
	ViewCache     cache.Cache[core.MonthView]
	ViewCacheSize int
	SaveTimeout   time.Duration
}

// TemplateFields is the user input for a new template. Amount is a decimal
// string ("12.50" or "12,50"); an empty Date means today.
type TemplateFields struct {
	Name        string
	Amount      string
	Kind        core.Kind
	Periodicity core.Periodicity
	Category    string
	Date        string
}

// LedgerService owns the ledger for one process. Every mutation and every
// view computation runs under one mutex. Persistence happens in background
// goroutines after each mutation and never blocks the caller.
type LedgerService struct {
	mu       sync.Mutex
	ledger   *core.Ledger
	version  int64
	selected core.Month

	store       storage.Store
	publisher   ChangePublisher
	metrics     *metrics.Metrics
	logger      *log.Logger
	views       cache.Cache[core.MonthView]
	now         func() time.Time
	saveTimeout time.Duration

	saveMu       sync.Mutex
	savedVersion int64
	saves        sync.WaitGroup
}

// Open loads the ledger from store and returns a ready service. An absent
// record yields an empty ledger; a record that cannot be decoded fails.
func Open(ctx context.Context, store storage.Store, opts Options) (*LedgerService, error) {
	s := &LedgerService{
		store:       store,
		publisher:   opts.Publisher,
		metrics:     opts.Metrics,
		logger:      opts.Logger,
		views:       opts.ViewCache,
		now:         opts.Clock,
		saveTimeout: opts.SaveTimeout,
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.logger == nil {
		s.logger = log.New(log.DefaultConfig())
	}
	s.logger = s.logger.WithComponent(log.ComponentLedger)
	if s.views == nil {
		size := opts.ViewCacheSize
		if size <= 0 {
			size = defaultViewCacheSize
		}
		s.views = cache.NewLRUCache[core.MonthView](size, defaultViewCacheTTL)
	}
	if s.saveTimeout <= 0 {
		s.saveTimeout = defaultSaveTimeout
	}

	s.ledger = core.NewLedger()
	rec, ok, err := store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load ledger: %w", err)
	}
	if ok {
		l, err := rec.Ledger()
		if err != nil {
			return nil, fmt.Errorf("load ledger: %w", err)
		}
		s.ledger = l
	}

	s.selected = core.MonthOf(s.today())
	s.metrics.SetTemplates(len(s.ledger.Templates))
	s.logger.InfoContext(ctx, "Ledger loaded",
		"templates", len(s.ledger.Templates),
		"exceptions", len(s.ledger.Exceptions),
		"found", ok)
	return s, nil
}

func (s *LedgerService) today() core.Date {
	return core.DateOf(s.now())
}

// MonthView projects and aggregates month.
func (s *LedgerService) MonthView(ctx context.Context, month core.Month) (core.MonthView, error) {
	if err := ctx.Err(); err != nil {
		return core.MonthView{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.monthViewLocked(month), nil
}

func (s *LedgerService) monthViewLocked(month core.Month) core.MonthView {
	today := s.today()
	key := strconv.FormatInt(s.version, 10) + ":" + month.Key() + ":" + today.Key()
	if v, ok := s.views.Get(key); ok {
		s.metrics.ObserveCache(true)
		return v
	}
	s.metrics.ObserveCache(false)

	v := BuildMonthView(s.ledger, month, today)
	s.metrics.ObserveProjection()
	for _, id := range v.Skipped {
		s.logger.Warn("Skipping template with unknown periodicity", log.FieldTemplateID, id, log.FieldMonth, month.Key())
	}
	s.views.Set(key, v)
	return v
}

// SelectedMonthView returns the view of the currently selected month.
func (s *LedgerService) SelectedMonthView(ctx context.Context) (core.MonthView, error) {
	if err := ctx.Err(); err != nil {
		return core.MonthView{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.monthViewLocked(s.selected), nil
}

// SelectMonth moves the selected month by offset months and returns it.
func (s *LedgerService) SelectMonth(offset int) core.Month {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = s.selected.Add(offset)
	return s.selected
}

// SelectedMonth returns the month currently selected.
func (s *LedgerService) SelectedMonth() core.Month {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selected
}

// DayView returns the occurrences landing on date.
func (s *LedgerService) DayView(ctx context.Context, date core.Date) ([]core.Occurrence, error) {
	if err := date.Validate(); err != nil {
		return nil, err
	}
	v, err := s.MonthView(ctx, core.MonthOf(date))
	if err != nil {
		return nil, err
	}
	return v.Days[date.Key()], nil
}

// Templates returns a copy of the templates in creation order.
func (s *LedgerService) Templates() []core.Template {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Template(nil), s.ledger.Templates...)
}

// CreateTemplate validates the fields and appends a new template.
func (s *LedgerService) CreateTemplate(ctx context.Context, f TemplateFields) (core.Template, error) {
	t, err := s.buildTemplate(f)
	if err != nil {
		return core.Template{}, err
	}

	s.mu.Lock()
	s.ledger.Add(t)
	version, rec, n := s.commitLocked()
	s.mu.Unlock()

	s.metrics.ObserveMutation("create_template")
	s.metrics.SetTemplates(n)
	s.logger.InfoContext(ctx, "Template created", log.NewFields().
		WithTemplate(t.ID, t.Name, t.Amount.Cents, string(t.Kind), string(t.Periodicity), t.Category).
		WithVersion(version).
		ToSlice()...)

	msg := amqp.NewLedgerChangedMessage(version, core.MonthOf(t.OriginDate).Key(), t.ID, "create_template")
	if t.Periodicity.Recurring() {
		msg.AndLater()
	}
	s.persist(ctx, version, rec, msg)
	return t, nil
}

func (s *LedgerService) buildTemplate(f TemplateFields) (core.Template, error) {
	cents, err := core.ParseDecimalToCents(f.Amount)
	if err != nil {
		return core.Template{}, fmt.Errorf("%w: amount: %w", core.ErrInvalidTemplate, err)
	}

	origin := s.today()
	if strings.TrimSpace(f.Date) != "" {
		origin, err = core.ParseDate(strings.TrimSpace(f.Date))
		if err != nil {
			return core.Template{}, fmt.Errorf("%w: %w", core.ErrInvalidTemplate, err)
		}
	}

	t := core.Template{
		ID:          uuid.NewString(),
		Name:        strings.TrimSpace(f.Name),
		Amount:      core.Money{Cents: cents},
		Kind:        f.Kind,
		Periodicity: f.Periodicity,
		Category:    f.Category,
		OriginDate:  origin,
	}
	if err := t.Validate(); err != nil {
		return core.Template{}, err
	}
	if err := catalog.Validate(t.Kind, t.Category); err != nil {
		return core.Template{}, err
	}
	return t, nil
}

// DeleteTemplate applies a deletion intent to the occurrence of template id
// on date. Unknown templates, dates on which the template has no visible
// occurrence and repeated deletions succeed without change.
func (s *LedgerService) DeleteTemplate(ctx context.Context, id string, date core.Date, mode core.DeleteMode) error {
	if _, err := core.ParseDeleteMode(string(mode)); err != nil {
		return err
	}
	if err := date.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	t, ok := s.ledger.Find(id)
	if !ok {
		s.mu.Unlock()
		s.logger.DebugContext(ctx, "Delete of unknown template ignored", log.NewFields().
			WithDeletion(id, date.Key(), string(mode)).ToSlice()...)
		return nil
	}
	if !OccursOn(t, s.ledger.Exceptions, date) {
		s.mu.Unlock()
		s.logger.DebugContext(ctx, "Delete of missing occurrence ignored", log.NewFields().
			WithDeletion(id, date.Key(), string(mode)).ToSlice()...)
		return nil
	}

	m, err := PlanDeletion(t, date, mode)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	if !s.ledger.Apply(m) {
		s.mu.Unlock()
		return nil
	}
	version, rec, n := s.commitLocked()
	s.mu.Unlock()

	s.metrics.ObserveMutation(string(m.Kind))
	s.metrics.SetTemplates(n)
	s.logger.InfoContext(ctx, "Template deletion applied", log.NewFields().
		WithDeletion(id, date.Key(), string(mode)).
		WithVersion(version).
		ToSlice()...)

	msg := amqp.NewLedgerChangedMessage(version, core.MonthOf(date).Key(), id, string(m.Kind))
	if m.Kind != core.AddException && t.Periodicity.Recurring() {
		msg.AndLater()
	}
	s.persist(ctx, version, rec, msg)
	return nil
}

// commitLocked bumps the version after a mutation and snapshots the record.
func (s *LedgerService) commitLocked() (int64, core.Record, int) {
	s.version++
	s.views.Purge()
	return s.version, s.ledger.ToRecord(), len(s.ledger.Templates)
}

// persist saves rec in the background. A snapshot older than the last one
// saved is dropped. The change is published once it is on disk, either by
// this save or by a newer one.
func (s *LedgerService) persist(ctx context.Context, version int64, rec core.Record, msg *amqp.LedgerChangedMessage) {
	ctx = context.WithoutCancel(ctx)

	s.saves.Add(1)
	go func() {
		defer s.saves.Done()

		if !s.save(ctx, version, rec) {
			return
		}
		if s.publisher == nil {
			return
		}
		if err := s.publisher.PublishLedgerChanged(ctx, msg); err != nil {
			s.logger.LogError(ctx, "Failed to publish ledger change", err, log.OpPublish,
				log.NewFields().WithVersion(version).WithMonth(msg.Month))
		}
	}()
}

func (s *LedgerService) save(ctx context.Context, version int64, rec core.Record) bool {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	if version <= s.savedVersion {
		s.logger.Debug("Snapshot superseded by a newer save", log.FieldVersion, version, "saved_version", s.savedVersion)
		return true
	}

	ctx, cancel := context.WithTimeout(ctx, s.saveTimeout)
	defer cancel()

	err := s.store.Save(ctx, rec)
	s.metrics.ObserveSave(err)
	if err != nil {
		s.logger.LogError(ctx, "Failed to save ledger", err, log.OpSave, log.NewFields().WithVersion(version))
		return false
	}
	s.savedVersion = version
	return true
}

// Wait blocks until every in-flight save has finished.
func (s *LedgerService) Wait() {
	s.saves.Wait()
}

// Shutdown waits for pending saves or gives up when ctx is done.
func (s *LedgerService) Shutdown(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return errors.Join(errors.New("pending ledger saves not flushed"), ctx.Err())
	}
}
