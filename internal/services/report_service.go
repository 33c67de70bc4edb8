package services

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"taxiledger/internal/cache"
	"taxiledger/internal/core"
	"taxiledger/internal/ledger"
	"taxiledger/internal/log"
	"taxiledger/internal/records"
)

// Clock resolves "today" in the ledger's calendar.
type Clock interface {
	Today() core.CivilDate
}

// ReportService builds expense reports from the record store.
type ReportService struct {
	expenses   records.ExpenseStore
	categories records.CategoryStore
	clock      Clock
	cache      cache.Cache[ledger.Report]
	logger     *log.Logger

	// generation counts invalidations. A report loaded under an older
	// generation is returned but never cached.
	generation atomic.Uint64
	cacheMu    sync.Mutex
}

// NewReportService wires the service. reportCache may be nil to disable
// caching.
func NewReportService(store records.Store, clock Clock, reportCache cache.Cache[ledger.Report], logger *log.Logger) *ReportService {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &ReportService{
		expenses:   store,
		categories: store,
		clock:      clock,
		cache:      reportCache,
		logger:     logger.WithComponent(log.ComponentReport),
	}
}

// Report aggregates the expenses that fall in r as of today.
func (s *ReportService) Report(ctx context.Context, r core.DateRange) (ledger.Report, error) {
	return s.ReportAt(ctx, r, s.clock.Today())
}

// ReportAt aggregates the expenses that fall in r as of now.
func (s *ReportService) ReportAt(ctx context.Context, r core.DateRange, now core.CivilDate) (ledger.Report, error) {
	if _, err := ledger.GetRangeMatcher(r); err != nil {
		return ledger.Report{}, err
	}

	key := string(r) + "@" + now.String()
	if s.cache != nil {
		if rep, ok := s.cache.Get(key); ok {
			return rep, nil
		}
	}

	gen := s.generation.Load()
	expenses, categories, err := s.load(ctx)
	if err != nil {
		return ledger.Report{}, err
	}

	rep := ledger.BuildReport(expenses, categories, r, now)
	if s.cache != nil {
		s.cacheMu.Lock()
		if s.generation.Load() == gen {
			s.cache.Set(key, rep)
		}
		s.cacheMu.Unlock()
	}
	s.logger.DebugContext(ctx, "Report built",
		log.FieldOperation, log.OpReport,
		log.FieldRange, r,
		log.FieldDate, now.String(),
		log.FieldCount, rep.Summary.Count)
	return rep, nil
}

// Invalidate drops every cached report.
func (s *ReportService) Invalidate() {
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()
	s.generation.Add(1)
	if s.cache != nil {
		s.cache.Purge()
	}
}

func (s *ReportService) load(ctx context.Context) ([]core.Expense, []core.Category, error) {
	var (
		expenses   []core.Expense
		categories []core.Category
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if expenses, err = s.expenses.ListExpenses(gctx); err != nil {
			return fmt.Errorf("list expenses: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if categories, err = s.categories.ListCategories(gctx); err != nil {
			return fmt.Errorf("list categories: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return expenses, categories, nil
}

// HistoryFilter narrows the expense history. An empty CategoryID or "all"
// matches every category.
type HistoryFilter struct {
	Query      string
	CategoryID string
}

// History is the searchable list of past expenses.
type History struct {
	Items []core.Expense `json:"items"`
	Count int            `json:"count"`
	Total float64        `json:"total"`
}

// History returns the expenses matching f, newest first. The query matches
// case-insensitively against the description or against the amount's digits.
// Expenses whose date does not parse sort last.
func (s *ReportService) History(ctx context.Context, f HistoryFilter) (History, error) {
	list, err := s.expenses.ListExpenses(ctx)
	if err != nil {
		return History{}, fmt.Errorf("list expenses: %w", err)
	}

	query := strings.ToLower(core.NormalizeDigits(strings.TrimSpace(f.Query)))
	out := History{Items: make([]core.Expense, 0, len(list))}
	for _, e := range list {
		if f.CategoryID != "" && f.CategoryID != "all" && e.CategoryID != f.CategoryID {
			continue
		}
		if query != "" && !matchesQuery(e, query) {
			continue
		}
		out.Items = append(out.Items, e)
		out.Total += e.Amount
	}
	out.Count = len(out.Items)

	slices.SortStableFunc(out.Items, func(a, b core.Expense) int {
		da, errA := core.ParseCivilDate(a.Date)
		db, errB := core.ParseCivilDate(b.Date)
		switch {
		case errA != nil && errB != nil:
			return 0
		case errA != nil:
			return 1
		case errB != nil:
			return -1
		case da.Before(db):
			return 1
		case db.Before(da):
			return -1
		}
		return cmp.Compare(b.CreatedAt.UnixNano(), a.CreatedAt.UnixNano())
	})
	return out, nil
}

func matchesQuery(e core.Expense, query string) bool {
	if strings.Contains(strings.ToLower(core.NormalizeDigits(e.Description)), query) {
		return true
	}
	return strings.Contains(strconv.FormatFloat(e.Amount, 'f', -1, 64), query)
}
