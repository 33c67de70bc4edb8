// Package records defines the record store the application reads and writes
// through. The aggregation and invoice packages never see a store; callers
// load slices here and hand them over.
package records

import (
	"context"
	"time"

	"taxiledger/internal/core"
)

type (
	ExpenseStore interface {
		ListExpenses(ctx context.Context) ([]core.Expense, error)
		// GetExpense returns core.ErrNotFound for a missing ID.
		GetExpense(ctx context.Context, id string) (core.Expense, error)
		// SaveExpense inserts or replaces by ID.
		SaveExpense(ctx context.Context, e core.Expense) error
		DeleteExpense(ctx context.Context, id string) error
	}

	CategoryStore interface {
		ListCategories(ctx context.Context) ([]core.Category, error)
		SaveCategory(ctx context.Context, c core.Category) error
		// DeleteCategory refuses default categories with core.ErrDefaultCategory.
		DeleteCategory(ctx context.Context, id string) error
		CountCategories(ctx context.Context) (int, error)
	}

	CustomerStore interface {
		ListCustomers(ctx context.Context) ([]core.Customer, error)
		GetCustomer(ctx context.Context, id string) (core.Customer, error)
		SaveCustomer(ctx context.Context, c core.Customer) error
		DeleteCustomer(ctx context.Context, id string) error
	}

	CompanyStore interface {
		// GetCompany returns nil when no profile has been saved yet.
		GetCompany(ctx context.Context) (*core.CompanyInfo, error)
		SaveCompany(ctx context.Context, c core.CompanyInfo) error
	}

	Store interface {
		ExpenseStore
		CategoryStore
		CustomerStore
		CompanyStore
		Close() error
	}
)

// SnapshotVersion is written into every exported snapshot.
const SnapshotVersion = "1.0.0"

// Snapshot is the full contents of a store, as exported for backups and
// accepted as a seed file by the in-memory store.
type Snapshot struct {
	Customers  []core.Customer   `json:"customers"`
	Company    *core.CompanyInfo `json:"company"`
	Categories []core.Category   `json:"categories"`
	Expenses   []core.Expense    `json:"expenses"`
	Timestamp  time.Time         `json:"timestamp"`
	Version    string            `json:"version"`
}
