// Package sheets defines the spreadsheet mirror that the worker keeps in
// step with the expense ledger.
package sheets

import (
	"context"
	"time"

	"taxiledger/internal/core"
	"taxiledger/internal/ledger"
)

// Header is the first row of a mirrored sheet.
var Header = []string{"ID", "Date", "Category", "Description", "Amount", "Odometer", "Created"}

// Row is one mirrored expense with its category resolved to a title.
type Row struct {
	ID          string
	Date        string
	Category    string
	Description string
	Amount      float64
	Odometer    *int64
	CreatedAt   time.Time
}

// Ports for outbound adapters.
type (
	ExpenseMirror interface {
		AppendExpense(ctx context.Context, r Row) error
		// DeleteExpense removes the row for id. A missing row is not an error.
		DeleteExpense(ctx context.Context, id string) error
		// ReplaceAll rewrites the sheet with exactly rows.
		ReplaceAll(ctx context.Context, rows []Row) error
	}
)

// RowFor resolves e's category against categories. Unknown categories get
// the same fallback title the reports use.
func RowFor(e core.Expense, categories []core.Category) Row {
	title := ledger.UnknownCategory.Title
	for _, c := range categories {
		if c.ID == e.CategoryID {
			title = c.Title
			break
		}
	}
	return Row{
		ID:          e.ID,
		Date:        e.Date,
		Category:    title,
		Description: e.Description,
		Amount:      e.Amount,
		Odometer:    e.Odometer,
		CreatedAt:   e.CreatedAt,
	}
}

// RowsFor maps every expense, keeping input order.
func RowsFor(expenses []core.Expense, categories []core.Category) []Row {
	rows := make([]Row, len(expenses))
	for i, e := range expenses {
		rows[i] = RowFor(e, categories)
	}
	return rows
}
