// Package storetest holds behaviour tests shared by every records.Store
// implementation.
package storetest

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taxiledger/internal/core"
	"taxiledger/internal/records"
)

// Run exercises a store produced by newStore. Each subtest gets a fresh one.
func Run(t *testing.T, newStore func(t *testing.T) records.Store) {
	t.Helper()
	ctx := context.Background()

	t.Run("expenses upsert in place", func(t *testing.T) {
		s := newStore(t)
		odo := int64(88000)
		created := time.Date(2024, 3, 21, 9, 30, 0, 0, time.UTC)
		a := core.Expense{ID: "a", CategoryID: "1", Amount: 1_500_000, Date: "1403/01/02", Description: "بنزین", Odometer: &odo, CreatedAt: created}
		b := core.Expense{ID: "b", CategoryID: "2", Amount: 300_000, Date: "1403/01/03", CreatedAt: created}
		require.NoError(t, s.SaveExpense(ctx, a))
		require.NoError(t, s.SaveExpense(ctx, b))

		a.Amount = 1_750_000
		require.NoError(t, s.SaveExpense(ctx, a))

		list, err := s.ListExpenses(ctx)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, "a", list[0].ID)
		assert.Equal(t, 1_750_000.0, list[0].Amount)
		require.NotNil(t, list[0].Odometer)
		assert.Equal(t, int64(88000), *list[0].Odometer)
		assert.Nil(t, list[1].Odometer)
		assert.True(t, created.Equal(list[0].CreatedAt))

		got, err := s.GetExpense(ctx, "b")
		require.NoError(t, err)
		assert.Equal(t, "1403/01/03", got.Date)

		require.NoError(t, s.DeleteExpense(ctx, "a"))
		_, err = s.GetExpense(ctx, "a")
		assert.ErrorIs(t, err, core.ErrNotFound)
	})

	t.Run("default categories are protected", func(t *testing.T) {
		s := newStore(t)
		n, err := records.SeedDefaultCategories(ctx, s)
		require.NoError(t, err)
		assert.Equal(t, 7, n)

		n, err = records.SeedDefaultCategories(ctx, s)
		require.NoError(t, err)
		assert.Zero(t, n)

		require.NoError(t, s.SaveCategory(ctx, core.Category{ID: "custom", Title: "پارکینگ", Color: "#10b981"}))
		assert.ErrorIs(t, s.DeleteCategory(ctx, "1"), core.ErrDefaultCategory)
		require.NoError(t, s.DeleteCategory(ctx, "custom"))

		cats, err := s.ListCategories(ctx)
		require.NoError(t, err)
		require.Len(t, cats, 7)
		assert.Equal(t, "سوخت و انرژی", cats[0].Title)
		assert.Equal(t, "Fuel", cats[0].Icon)
		assert.True(t, cats[0].IsDefault)
	})

	t.Run("customers", func(t *testing.T) {
		s := newStore(t)
		c := core.Customer{ID: "c1", Name: "هتل آزادی", Phone: "021-000", CreatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
		require.NoError(t, s.SaveCustomer(ctx, c))
		c.Email = "desk@example.com"
		require.NoError(t, s.SaveCustomer(ctx, c))

		got, err := s.GetCustomer(ctx, "c1")
		require.NoError(t, err)
		assert.Equal(t, "desk@example.com", got.Email)

		list, err := s.ListCustomers(ctx)
		require.NoError(t, err)
		assert.Len(t, list, 1)

		require.NoError(t, s.DeleteCustomer(ctx, "c1"))
		_, err = s.GetCustomer(ctx, "c1")
		assert.ErrorIs(t, err, core.ErrNotFound)
	})

	t.Run("company", func(t *testing.T) {
		s := newStore(t)
		got, err := s.GetCompany(ctx)
		require.NoError(t, err)
		assert.Nil(t, got)

		require.NoError(t, s.SaveCompany(ctx, core.CompanyInfo{Name: "تاکسی فرودگاه", Phone: "0912"}))
		require.NoError(t, s.SaveCompany(ctx, core.CompanyInfo{Name: "تاکسی فرودگاه امام", Phone: "0912"}))
		got, err = s.GetCompany(ctx)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "تاکسی فرودگاه امام", got.Name)
	})
}
