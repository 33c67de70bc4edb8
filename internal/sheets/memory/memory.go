// Package memory is an in-process expense mirror. The worker falls back to
// it when no spreadsheet is configured, and tests use it to observe writes.
package memory

import (
	"context"
	"sync"

	"taxiledger/internal/sheets"
)

type Mirror struct {
	mu   sync.Mutex
	rows []sheets.Row
}

var _ sheets.ExpenseMirror = (*Mirror)(nil)

func New() *Mirror {
	return &Mirror{}
}

func (m *Mirror) AppendExpense(_ context.Context, r sheets.Row) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows = append(m.rows, r)
	return nil
}

func (m *Mirror) DeleteExpense(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := m.rows[:0]
	for _, r := range m.rows {
		if r.ID != id {
			out = append(out, r)
		}
	}
	m.rows = out
	return nil
}

func (m *Mirror) ReplaceAll(_ context.Context, rows []sheets.Row) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows = append([]sheets.Row(nil), rows...)
	return nil
}

// Rows returns a copy of the mirrored rows in sheet order.
func (m *Mirror) Rows() []sheets.Row {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]sheets.Row(nil), m.rows...)
}
