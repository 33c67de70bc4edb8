package memory

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"taxiledger/internal/core"
	"taxiledger/internal/records"
	"taxiledger/internal/records/storetest"
)

func TestStoreBehaviour(t *testing.T) {
	storetest.Run(t, func(*testing.T) records.Store { return New() })
}

func TestNewFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "seed.json")
	snap := records.Snapshot{
		Categories: []core.Category{{ID: "1", Title: "سوخت", Color: "#ef4444", IsDefault: true}},
		Expenses:   []core.Expense{{ID: "e1", CategoryID: "1", Amount: 42, Date: "1403/02/02"}},
		Company:    &core.CompanyInfo{Name: "ACME Cabs"},
		Version:    records.SnapshotVersion,
	}
	data, err := json.Marshal(snap)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	s, err := NewFromFile(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	exps, _ := s.ListExpenses(context.Background())
	if len(exps) != 1 || exps[0].Amount != 42 {
		t.Fatalf("unexpected expenses %+v", exps)
	}
	company, _ := s.GetCompany(context.Background())
	if company == nil || company.Name != "ACME Cabs" {
		t.Fatalf("unexpected company %+v", company)
	}
}

func TestNewFromFileErrors(t *testing.T) {
	if _, err := NewFromFile(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatal("expected error for missing file")
	}
	bad := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(bad, []byte("{"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := NewFromFile(bad); err == nil {
		t.Fatal("expected decode error")
	}
	s, err := NewFromFile("")
	if err != nil || s == nil {
		t.Fatalf("expected empty store, got %v", err)
	}
}

func TestListReturnsCopies(t *testing.T) {
	s := New()
	ctx := context.Background()
	_ = s.SaveExpense(ctx, core.Expense{ID: "x", Amount: 1})
	list, _ := s.ListExpenses(ctx)
	list[0].Amount = 99
	got, _ := s.GetExpense(ctx, "x")
	if got.Amount != 1 {
		t.Fatalf("store mutated through returned slice")
	}
}

func TestOdometerIsNotShared(t *testing.T) {
	ctx := context.Background()
	s := New()
	reading := int64(120_500)
	in := core.Expense{ID: "e1", CategoryID: "1", Amount: 10, Date: "1403/01/01", Odometer: &reading}
	if err := s.SaveExpense(ctx, in); err != nil {
		t.Fatalf("save: %v", err)
	}
	reading = 1

	got, err := s.GetExpense(ctx, "e1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Odometer == nil || *got.Odometer != 120_500 {
		t.Fatalf("stored odometer changed through the caller's pointer: %v", got.Odometer)
	}
	*got.Odometer = 2

	list, _ := s.ListExpenses(ctx)
	if *list[0].Odometer != 120_500 {
		t.Fatalf("stored odometer changed through GetExpense result: %d", *list[0].Odometer)
	}
	*list[0].Odometer = 3

	again, _ := s.GetExpense(ctx, "e1")
	if *again.Odometer != 120_500 {
		t.Errorf("stored odometer changed through ListExpenses result: %d", *again.Odometer)
	}
}
