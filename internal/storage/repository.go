// Package storage is the SQLite implementation of the record store.
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

	_ "modernc.org/sqlite"

	"taxiledger/internal/core"
	"taxiledger/internal/log"
	"taxiledger/internal/records"
)

type SQLiteRepository struct {
	db *sql.DB
}

var _ records.Store = (*SQLiteRepository)(nil)

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
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
	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping is used by the readiness probe.
func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

const expenseColumns = `id, category_id, amount, date, description, odometer, created_at`

func scanExpense(row rowScanner) (core.Expense, error) {
	var (
		e        core.Expense
		odometer sql.NullInt64
		created  string
	)
	if err := row.Scan(&e.ID, &e.CategoryID, &e.Amount, &e.Date, &e.Description, &odometer, &created); err != nil {
		return core.Expense{}, err
	}
	if odometer.Valid {
		v := odometer.Int64
		e.Odometer = &v
	}
	e.CreatedAt = parseTime(created)
	return e, nil
}

func (r *SQLiteRepository) ListExpenses(ctx context.Context) ([]core.Expense, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+expenseColumns+` FROM expenses ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()

	var out []core.Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) GetExpense(ctx context.Context, id string) (core.Expense, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+expenseColumns+` FROM expenses WHERE id = ?`, id)
	e, err := scanExpense(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Expense{}, core.ErrNotFound
	}
	if err != nil {
		return core.Expense{}, fmt.Errorf("get expense %s: %w", id, err)
	}
	return e, nil
}

func (r *SQLiteRepository) SaveExpense(ctx context.Context, e core.Expense) error {
	var odometer sql.NullInt64
	if e.Odometer != nil {
		odometer = sql.NullInt64{Int64: *e.Odometer, Valid: true}
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO expenses (`+expenseColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			category_id = excluded.category_id,
			amount      = excluded.amount,
			date        = excluded.date,
			description = excluded.description,
			odometer    = excluded.odometer,
			created_at  = excluded.created_at`,
		e.ID, e.CategoryID, e.Amount, e.Date, e.Description, odometer, formatTime(e.CreatedAt))
	if err != nil {
		return fmt.Errorf("save expense %s: %w", e.ID, err)
	}
	slog.DebugContext(ctx, "Expense saved to SQLite",
		log.FieldComponent, log.ComponentStorage,
		log.FieldExpenseID, e.ID,
		log.FieldAmount, e.Amount)
	return nil
}

func (r *SQLiteRepository) DeleteExpense(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM expenses WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete expense %s: %w", id, err)
	}
	return nil
}

func (r *SQLiteRepository) ListCategories(ctx context.Context) ([]core.Category, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, title, color, icon, is_default FROM categories ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var out []core.Category
	for rows.Next() {
		var c core.Category
		if err := rows.Scan(&c.ID, &c.Title, &c.Color, &c.Icon, &c.IsDefault); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) SaveCategory(ctx context.Context, c core.Category) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO categories (id, title, color, icon, is_default)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title      = excluded.title,
			color      = excluded.color,
			icon       = excluded.icon,
			is_default = excluded.is_default`,
		c.ID, c.Title, c.Color, c.Icon, c.IsDefault)
	if err != nil {
		return fmt.Errorf("save category %s: %w", c.ID, err)
	}
	return nil
}

func (r *SQLiteRepository) DeleteCategory(ctx context.Context, id string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete category: %w", err)
	}
	defer tx.Rollback()

	var isDefault bool
	err = tx.QueryRowContext(ctx, `SELECT is_default FROM categories WHERE id = ?`, id).Scan(&isDefault)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return nil
	case err != nil:
		return fmt.Errorf("lookup category %s: %w", id, err)
	case isDefault:
		return core.ErrDefaultCategory
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete category %s: %w", id, err)
	}
	return tx.Commit()
}

func (r *SQLiteRepository) CountCategories(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM categories`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count categories: %w", err)
	}
	return n, nil
}

const customerColumns = `id, name, email, phone, address, notes, created_at`

func scanCustomer(row rowScanner) (core.Customer, error) {
	var (
		c       core.Customer
		created string
	)
	if err := row.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.Address, &c.Notes, &created); err != nil {
		return core.Customer{}, err
	}
	c.CreatedAt = parseTime(created)
	return c, nil
}

func (r *SQLiteRepository) ListCustomers(ctx context.Context) ([]core.Customer, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+customerColumns+` FROM customers ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	defer rows.Close()

	var out []core.Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, fmt.Errorf("scan customer: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) GetCustomer(ctx context.Context, id string) (core.Customer, error) {
	c, err := scanCustomer(r.db.QueryRowContext(ctx, `SELECT `+customerColumns+` FROM customers WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return core.Customer{}, core.ErrNotFound
	}
	if err != nil {
		return core.Customer{}, fmt.Errorf("get customer %s: %w", id, err)
	}
	return c, nil
}

func (r *SQLiteRepository) SaveCustomer(ctx context.Context, c core.Customer) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO customers (`+customerColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name       = excluded.name,
			email      = excluded.email,
			phone      = excluded.phone,
			address    = excluded.address,
			notes      = excluded.notes,
			created_at = excluded.created_at`,
		c.ID, c.Name, c.Email, c.Phone, c.Address, c.Notes, formatTime(c.CreatedAt))
	if err != nil {
		return fmt.Errorf("save customer %s: %w", c.ID, err)
	}
	return nil
}

func (r *SQLiteRepository) DeleteCustomer(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM customers WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete customer %s: %w", id, err)
	}
	return nil
}

func (r *SQLiteRepository) GetCompany(ctx context.Context) (*core.CompanyInfo, error) {
	var c core.CompanyInfo
	err := r.db.QueryRowContext(ctx, `SELECT name, email, address, phone, logo FROM company WHERE id = 1`).
		Scan(&c.Name, &c.Email, &c.Address, &c.Phone, &c.Logo)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get company: %w", err)
	}
	return &c, nil
}

func (r *SQLiteRepository) SaveCompany(ctx context.Context, c core.CompanyInfo) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO company (id, name, email, address, phone, logo)
		VALUES (1, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name    = excluded.name,
			email   = excluded.email,
			address = excluded.address,
			phone   = excluded.phone,
			logo    = excluded.logo`,
		c.Name, c.Email, c.Address, c.Phone, c.Logo)
	if err != nil {
		return fmt.Errorf("save company: %w", err)
	}
	return nil
}
