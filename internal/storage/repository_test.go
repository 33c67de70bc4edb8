package storage

import (
	"context"
	"path/filepath"
	"testing"

	"taxiledger/internal/core"
	"taxiledger/internal/records"
	"taxiledger/internal/records/storetest"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "ledger.db"))
	if err != nil {
		t.Fatalf("open repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestSQLiteRepositoryBehaviour(t *testing.T) {
	storetest.Run(t, func(t *testing.T) records.Store { return newTestRepo(t) })
}

func TestMigrationsAreIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.db")
	repo, err := NewSQLiteRepository(path)
	if err != nil {
		t.Fatalf("first open: %v", err)
	}
	if err := repo.SaveExpense(context.Background(), core.Expense{ID: "keep", CategoryID: "1", Amount: 10, Date: "1403/01/01"}); err != nil {
		t.Fatalf("save: %v", err)
	}
	repo.Close()

	repo, err = NewSQLiteRepository(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer repo.Close()
	if _, err := repo.GetExpense(context.Background(), "keep"); err != nil {
		t.Fatalf("expected data to survive reopen: %v", err)
	}

	version, dirty, err := SchemaVersion(path)
	if err != nil {
		t.Fatalf("schema version: %v", err)
	}
	if version != 1 || dirty {
		t.Errorf("schema version = %d (dirty %t), want 1 clean", version, dirty)
	}
}

func TestSchemaVersionOfFreshDatabase(t *testing.T) {
	version, dirty, err := SchemaVersion(filepath.Join(t.TempDir(), "empty.db"))
	if err != nil {
		t.Fatalf("schema version: %v", err)
	}
	if version != 0 || dirty {
		t.Errorf("fresh database version = %d (dirty %t), want 0", version, dirty)
	}
}

func TestPersianDateRoundTrips(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	in := core.Expense{ID: "fa", CategoryID: "5", Amount: 250_000, Date: "۱۴۰۳/۰۲/۰۹", Description: "کارواش"}
	if err := repo.SaveExpense(ctx, in); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := repo.GetExpense(ctx, "fa")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Date != in.Date || got.Description != in.Description {
		t.Fatalf("expected %+v, got %+v", in, got)
	}
}

func TestPing(t *testing.T) {
	if err := newTestRepo(t).Ping(context.Background()); err != nil {
		t.Fatalf("ping: %v", err)
	}
}
