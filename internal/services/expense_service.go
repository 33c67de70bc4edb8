package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"taxiledger/internal/core"
	"taxiledger/internal/log"
	"taxiledger/internal/records"
)

// EventPublisher announces expense changes to the mirror worker.
type EventPublisher interface {
	PublishExpenseSaved(ctx context.Context, id string) error
	PublishExpenseDeleted(ctx context.Context, id string) error
}

// Invalidator drops cached data derived from the expense set.
type Invalidator interface {
	Invalidate()
}

// ExpenseService orchestrates expense and category writes across the record
// store and the event broker.
type ExpenseService struct {
	expenses   records.ExpenseStore
	categories records.CategoryStore
	publisher  EventPublisher
	reports    Invalidator
	logger     *log.Logger
	now        func() time.Time
}

// NewExpenseService wires the service. publisher and reports may be nil.
func NewExpenseService(store records.Store, publisher EventPublisher, reports Invalidator, logger *log.Logger) *ExpenseService {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &ExpenseService{
		expenses:   store,
		categories: store,
		publisher:  publisher,
		reports:    reports,
		logger:     logger.WithComponent(log.ComponentExpense),
		now:        time.Now,
	}
}

// CreateExpense validates and saves e, then publishes an expense.saved event.
// A missing ID or CreatedAt is filled in. Publish failures are logged only;
// the expense is already stored.
func (s *ExpenseService) CreateExpense(ctx context.Context, e core.Expense) (core.Expense, error) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = s.now().UTC()
	}
	if err := e.Validate(); err != nil {
		return core.Expense{}, err
	}

	if err := s.expenses.SaveExpense(ctx, e); err != nil {
		return core.Expense{}, fmt.Errorf("save expense: %w", err)
	}
	log.NewStructuredLogger(s.logger).LogExpenseSaved(ctx, e.ID, e.CategoryID, e.Amount, e.Date)

	s.invalidate()
	if s.publisher == nil {
		s.logger.DebugContext(ctx, "Event publisher not available, skipping expense.saved", log.FieldExpenseID, e.ID)
		return e, nil
	}
	if err := s.publisher.PublishExpenseSaved(ctx, e.ID); err != nil {
		s.logger.ErrorContext(ctx, "Failed to publish expense.saved", log.FieldExpenseID, e.ID, log.FieldError, err)
	}
	return e, nil
}

func (s *ExpenseService) GetExpense(ctx context.Context, id string) (core.Expense, error) {
	return s.expenses.GetExpense(ctx, id)
}

func (s *ExpenseService) ListExpenses(ctx context.Context) ([]core.Expense, error) {
	list, err := s.expenses.ListExpenses(ctx)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	return list, nil
}

// DeleteExpense removes the expense locally and publishes expense.deleted.
func (s *ExpenseService) DeleteExpense(ctx context.Context, id string) error {
	if err := s.expenses.DeleteExpense(ctx, id); err != nil {
		return fmt.Errorf("delete expense %s: %w", id, err)
	}
	s.logger.InfoContext(ctx, "Expense deleted", log.FieldOperation, log.OpDelete, log.FieldExpenseID, id)

	s.invalidate()
	if s.publisher == nil {
		return nil
	}
	if err := s.publisher.PublishExpenseDeleted(ctx, id); err != nil {
		s.logger.ErrorContext(ctx, "Failed to publish expense.deleted", log.FieldExpenseID, id, log.FieldError, err)
	}
	return nil
}

func (s *ExpenseService) ListCategories(ctx context.Context) ([]core.Category, error) {
	list, err := s.categories.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return list, nil
}

// SaveCategory creates or updates a category. The IsDefault flag is owned
// by seeding: callers cannot set it, and an edit keeps the stored value.
func (s *ExpenseService) SaveCategory(ctx context.Context, c core.Category) (core.Category, error) {
	if err := c.Validate(); err != nil {
		return core.Category{}, err
	}
	c.IsDefault = false
	if c.ID == "" {
		c.ID = uuid.NewString()
	} else {
		existing, err := s.categories.ListCategories(ctx)
		if err != nil {
			return core.Category{}, fmt.Errorf("list categories: %w", err)
		}
		for _, e := range existing {
			if e.ID == c.ID {
				c.IsDefault = e.IsDefault
				break
			}
		}
	}
	if err := s.categories.SaveCategory(ctx, c); err != nil {
		return core.Category{}, fmt.Errorf("save category: %w", err)
	}
	s.invalidate()
	s.logger.InfoContext(ctx, "Category saved", log.FieldCategoryID, c.ID)
	return c, nil
}

func (s *ExpenseService) DeleteCategory(ctx context.Context, id string) error {
	if err := s.categories.DeleteCategory(ctx, id); err != nil {
		return fmt.Errorf("delete category %s: %w", id, err)
	}
	s.invalidate()
	s.logger.InfoContext(ctx, "Category deleted", log.FieldCategoryID, id)
	return nil
}

// SeedCategories inserts the default categories into an empty store.
func (s *ExpenseService) SeedCategories(ctx context.Context) (int, error) {
	n, err := records.SeedDefaultCategories(ctx, s.categories)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.logger.InfoContext(ctx, "Default categories seeded", log.FieldOperation, log.OpSeed, log.FieldCount, n)
	}
	return n, nil
}

func (s *ExpenseService) invalidate() {
	if s.reports != nil {
		s.reports.Invalidate()
	}
}
