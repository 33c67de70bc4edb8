// Package memory is a process-local record store. It keeps records in
// insertion order, replaces them in place on save, and can start from a
// JSON snapshot file.
package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"taxiledger/internal/core"
	"taxiledger/internal/records"
)

type Store struct {
	mu         sync.RWMutex
	expenses   []core.Expense
	categories []core.Category
	customers  []core.Customer
	company    *core.CompanyInfo
}

var _ records.Store = (*Store)(nil)

func New() *Store {
	return &Store{}
}

// NewFromSnapshot returns a store holding a copy of snap's records.
func NewFromSnapshot(snap records.Snapshot) *Store {
	s := &Store{
		expenses:   cloneExpenses(snap.Expenses),
		categories: append([]core.Category(nil), snap.Categories...),
		customers:  append([]core.Customer(nil), snap.Customers...),
	}
	if snap.Company != nil {
		c := *snap.Company
		s.company = &c
	}
	return s
}

// NewFromFile loads a snapshot written by the backup export. An empty path
// yields an empty store.
func NewFromFile(path string) (*Store, error) {
	if path == "" {
		return New(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	var snap records.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decode seed file: %w", err)
	}
	return NewFromSnapshot(snap), nil
}

func (s *Store) Close() error { return nil }

func upsert[T any](list []T, item T, id func(T) string) []T {
	for i := range list {
		if id(list[i]) == id(item) {
			list[i] = item
			return list
		}
	}
	return append(list, item)
}

func remove[T any](list []T, key string, id func(T) string) []T {
	out := list[:0]
	for _, v := range list {
		if id(v) != key {
			out = append(out, v)
		}
	}
	return out
}

// cloneExpense copies the odometer reading so callers never share it with
// the stored record.
func cloneExpense(e core.Expense) core.Expense {
	if e.Odometer != nil {
		v := *e.Odometer
		e.Odometer = &v
	}
	return e
}

func cloneExpenses(list []core.Expense) []core.Expense {
	if list == nil {
		return nil
	}
	out := make([]core.Expense, len(list))
	for i, e := range list {
		out[i] = cloneExpense(e)
	}
	return out
}

func expenseID(e core.Expense) string { return e.ID }
func categoryID(c core.Category) string { return c.ID }
func customerID(c core.Customer) string { return c.ID }

func (s *Store) ListExpenses(_ context.Context) ([]core.Expense, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneExpenses(s.expenses), nil
}

func (s *Store) GetExpense(_ context.Context, id string) (core.Expense, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, e := range s.expenses {
		if e.ID == id {
			return cloneExpense(e), nil
		}
	}
	return core.Expense{}, core.ErrNotFound
}

func (s *Store) SaveExpense(_ context.Context, e core.Expense) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expenses = upsert(s.expenses, cloneExpense(e), expenseID)
	return nil
}

func (s *Store) DeleteExpense(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expenses = remove(s.expenses, id, expenseID)
	return nil
}

func (s *Store) ListCategories(_ context.Context) ([]core.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]core.Category(nil), s.categories...), nil
}

func (s *Store) SaveCategory(_ context.Context, c core.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.categories = upsert(s.categories, c, categoryID)
	return nil
}

func (s *Store) DeleteCategory(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.categories {
		if c.ID == id && c.IsDefault {
			return core.ErrDefaultCategory
		}
	}
	s.categories = remove(s.categories, id, categoryID)
	return nil
}

func (s *Store) CountCategories(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.categories), nil
}

func (s *Store) ListCustomers(_ context.Context) ([]core.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]core.Customer(nil), s.customers...), nil
}

func (s *Store) GetCustomer(_ context.Context, id string) (core.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.customers {
		if c.ID == id {
			return c, nil
		}
	}
	return core.Customer{}, core.ErrNotFound
}

func (s *Store) SaveCustomer(_ context.Context, c core.Customer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.customers = upsert(s.customers, c, customerID)
	return nil
}

func (s *Store) DeleteCustomer(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.customers = remove(s.customers, id, customerID)
	return nil
}

func (s *Store) GetCompany(_ context.Context) (*core.CompanyInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.company == nil {
		return nil, nil
	}
	c := *s.company
	return &c, nil
}

func (s *Store) SaveCompany(_ context.Context, c core.CompanyInfo) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.company = &c
	return nil
}
