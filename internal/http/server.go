// Package http is the JSON adapter over the ledger service.
package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"saldo/internal/core"
	"saldo/internal/log"
	"saldo/internal/metrics"
	"saldo/internal/services"
)

// Ledger is the service contract the handlers need. *services.LedgerService
// satisfies it.
type Ledger interface {
	MonthView(ctx context.Context, month core.Month) (core.MonthView, error)
	SelectedMonthView(ctx context.Context) (core.MonthView, error)
	SelectMonth(offset int) core.Month
	SelectedMonth() core.Month
	DayView(ctx context.Context, date core.Date) ([]core.Occurrence, error)
	Templates() []core.Template
	CreateTemplate(ctx context.Context, f services.TemplateFields) (core.Template, error)
	DeleteTemplate(ctx context.Context, id string, date core.Date, mode core.DeleteMode) error
}

var _ Ledger = (*services.LedgerService)(nil)

// Options configures a Server. Every field is optional.
type Options struct {
	Logger *log.Logger
	// Ready backs /readyz; nil means always ready.
	Ready    func(ctx context.Context) error
	Metrics  *metrics.Metrics
	Gatherer prometheus.Gatherer
	// RateLimit is the number of mutating requests allowed per client per
	// minute.
	RateLimit int
	Clock     func() time.Time
}

type Server struct {
	http.Server
	ledger      Ledger
	ready       func(ctx context.Context) error
	rateLimiter *rateLimiter
}

func NewServer(addr string, ledger Ledger, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	logger = logger.WithComponent(log.ComponentHTTP)

	gatherer := opts.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	s := &Server{
		ledger:      ledger,
		ready:       opts.Ready,
		rateLimiter: newRateLimiter(opts.RateLimit, opts.Clock),
	}
	go s.rateLimiter.startCleanup(5 * time.Minute)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(log.Middleware(logger))
	r.Use(middleware.Recoverer)
	r.Use(securityHeaders)
	r.Use(requestFilter(opts.Metrics))

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	r.Route("/api", func(r chi.Router) {
		r.Get("/categories", s.handleCategories)
		r.Get("/months/selected", s.handleSelectedMonth)
		r.Get("/months/{month}", s.handleMonth)
		r.Get("/days/{date}", s.handleDay)
		r.Get("/templates", s.handleListTemplates)

		r.Group(func(r chi.Router) {
			r.Use(s.rateLimiter.middleware(opts.Metrics))
			r.Post("/months/selected/shift", s.handleShiftMonth)
			r.Post("/templates", s.handleCreateTemplate)
			r.Delete("/templates/{id}", s.handleDeleteTemplate)
		})
	})

	s.Server = http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 16,
	}
	return s
}

// Shutdown stops the background rate limiter cleanup and drains the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.rateLimiter.stop()
	return s.Server.Shutdown(ctx)
}
