// Package http serves the ledger's JSON API.
package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"taxiledger/internal/log"
	"taxiledger/internal/middleware/ratelimit"
	"taxiledger/internal/middleware/security"
	"taxiledger/internal/middleware/trace"
	"taxiledger/internal/services"
)

// Services are the application services the handlers call into.
type Services struct {
	Expenses  *services.ExpenseService
	Reports   *services.ReportService
	Invoices  *services.InvoiceService
	Customers *services.CustomerService
	Backup    *services.BackupService

	// Clock dates new expenses that arrive without a date. Optional.
	Clock services.Clock
}

type Config struct {
	RateLimit ratelimit.Config
	// SuggestRateLimit throttles the line-item assistant separately since
	// every call reaches a paid model.
	SuggestRateLimit ratelimit.Config
	Headers          security.HeadersConfig

	// Ready reports whether dependencies are reachable. Nil means always ready.
	Ready func(context.Context) error
}

func DefaultConfig() Config {
	return Config{
		RateLimit:        ratelimit.DefaultConfig(),
		SuggestRateLimit: ratelimit.Config{RequestsPerMinute: 10},
		Headers:          security.DefaultHeadersConfig(),
	}
}

type Server struct {
	http.Server
	svc    Services
	ready  func(context.Context) error
	logger *log.Logger

	tracer         *trace.Middleware
	writeLimiter   *ratelimit.Limiter
	suggestLimiter *ratelimit.Limiter

	shutdownOnce sync.Once
}

func NewServer(addr string, svc Services, cfg Config, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	httpLogger := logger.WithComponent(log.ComponentHTTP)

	s := &Server{
		Server: http.Server{
			Addr:              addr,
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       30 * time.Second,
			WriteTimeout:      60 * time.Second,
			IdleTimeout:       120 * time.Second,
		},
		svc:            svc,
		ready:          cfg.Ready,
		logger:         httpLogger,
		tracer:         trace.NewMiddleware(logger, extractClientIP),
		writeLimiter:   ratelimit.NewLimiter(cfg.RateLimit, logger),
		suggestLimiter: ratelimit.NewLimiter(cfg.SuggestRateLimit, logger),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)

	mux.HandleFunc("GET /api/expenses", s.handleListExpenses)
	mux.HandleFunc("POST /api/expenses", s.handleCreateExpense)
	mux.HandleFunc("GET /api/expenses/history", s.handleExpenseHistory)
	mux.HandleFunc("GET /api/expenses/{id}", s.handleGetExpense)
	mux.HandleFunc("DELETE /api/expenses/{id}", s.handleDeleteExpense)

	mux.HandleFunc("GET /api/categories", s.handleListCategories)
	mux.HandleFunc("POST /api/categories", s.handleSaveCategory)
	mux.HandleFunc("DELETE /api/categories/{id}", s.handleDeleteCategory)

	mux.HandleFunc("GET /api/customers", s.handleListCustomers)
	mux.HandleFunc("POST /api/customers", s.handleSaveCustomer)
	mux.HandleFunc("GET /api/customers/{id}", s.handleGetCustomer)
	mux.HandleFunc("DELETE /api/customers/{id}", s.handleDeleteCustomer)
	mux.HandleFunc("GET /api/company", s.handleGetCompany)
	mux.HandleFunc("PUT /api/company", s.handleSaveCompany)

	mux.HandleFunc("GET /api/reports/expenses", s.handleExpenseReport)

	mux.HandleFunc("POST /api/invoices/totals", s.handleInvoiceTotals)
	mux.HandleFunc("POST /api/invoices/draft", s.handleInvoiceDraft)
	mux.Handle("POST /api/invoices/suggest",
		s.suggestLimiter.Middleware(extractClientIP, s.rateLimited)(http.HandlerFunc(s.handleSuggestItems)))

	mux.HandleFunc("GET /api/backup", s.handleBackupExport)
	mux.HandleFunc("POST /api/backup/restore", s.handleBackupRestore)

	var h http.Handler = mux
	h = s.writeLimiter.Middleware(extractClientIP, s.rateLimited, http.MethodPost, http.MethodPut, http.MethodDelete)(h)
	h = security.NewHeadersMiddleware(cfg.Headers).Middleware(h)
	h = s.tracer.Middleware(h)
	s.Handler = h

	return s
}

func (s *Server) rateLimited(w http.ResponseWriter, r *http.Request) {
	ErrorResponse(r, http.StatusTooManyRequests, "rate limit exceeded, try again later").Write(w)
}

// Shutdown drains the HTTP server, stops the limiters and logs the final
// request counters. Safe to call more than once.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		shutdownErr = s.Server.Shutdown(ctx)
		m := s.GetMetrics()
		s.writeLimiter.Stop()
		s.suggestLimiter.Stop()
		s.logger.InfoContext(ctx, "HTTP server stopped",
			log.FieldOperation, log.OpShutdown,
			"total_requests", m.Trace.TotalRequests,
			"write_rejected", m.RateLimited.Rejected,
			"suggest_rejected", m.Suggest.Rejected)
	})
	return shutdownErr
}

// Metrics is a point-in-time view of request and throttling counters.
type Metrics struct {
	Trace       trace.Metrics
	RateLimited ratelimit.Metrics
	Suggest     ratelimit.Metrics
}

func (s *Server) GetMetrics() Metrics {
	return Metrics{
		Trace:       s.tracer.GetMetrics(),
		RateLimited: s.writeLimiter.GetMetrics(),
		Suggest:     s.suggestLimiter.GetMetrics(),
	}
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if s.ready != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.ready(ctx); err != nil {
			s.logger.WarnContext(r.Context(), "Readiness check failed", log.FieldError, err)
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("not ready"))
			return
		}
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
