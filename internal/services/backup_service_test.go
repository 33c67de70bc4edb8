package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"taxiledger/internal/core"
	"taxiledger/internal/records"
	"taxiledger/internal/records/memory"
)

func TestFileName(t *testing.T) {
	got := FileName(time.Date(2024, 3, 20, 23, 0, 0, 0, time.UTC))
	if got != "taxi_invoice_backup_2024-03-20.json" {
		t.Errorf("FileName = %q", got)
	}
}

func TestBackupService_ExportRestore(t *testing.T) {
	ctx := context.Background()
	src := seededStore(t)
	if err := src.SaveCompany(ctx, core.CompanyInfo{Name: "تاکسی رویال"}); err != nil {
		t.Fatal(err)
	}
	if err := src.SaveCustomer(ctx, core.Customer{ID: "c1", Name: "شرکت افق"}); err != nil {
		t.Fatal(err)
	}

	exporter := NewBackupService(src, nil, quietLogger())
	exporter.now = func() time.Time { return time.Date(2024, 4, 1, 12, 0, 0, 0, time.UTC) }

	var buf bytes.Buffer
	if err := exporter.ExportJSON(ctx, &buf); err != nil {
		t.Fatalf("ExportJSON: %v", err)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(buf.Bytes(), &raw); err != nil {
		t.Fatalf("export is not JSON: %v", err)
	}
	for _, key := range []string{"customers", "company", "categories", "expenses", "timestamp", "version"} {
		if _, ok := raw[key]; !ok {
			t.Errorf("export is missing %q", key)
		}
	}
	if string(raw["version"]) != `"1.0.0"` {
		t.Errorf("version = %s", raw["version"])
	}

	dst := memory.New()
	inv := &countingInvalidator{}
	restorer := NewBackupService(dst, inv, quietLogger())
	stats, err := restorer.RestoreJSON(ctx, &buf)
	if err != nil {
		t.Fatalf("RestoreJSON: %v", err)
	}
	if stats.Expenses != 5 || stats.Categories != 7 || stats.Customers != 1 || !stats.Company {
		t.Errorf("stats = %+v", stats)
	}
	if inv.n != 1 {
		t.Errorf("restore should invalidate reports once, got %d", inv.n)
	}

	expenses, _ := dst.ListExpenses(ctx)
	if len(expenses) != 5 || expenses[0].ID != "e1" {
		t.Errorf("restored expenses = %+v", expenses)
	}
	company, _ := dst.GetCompany(ctx)
	if company == nil || company.Name != "تاکسی رویال" {
		t.Errorf("restored company = %+v", company)
	}
}

func TestBackupService_ExportEmptyStore(t *testing.T) {
	snap, err := NewBackupService(memory.New(), nil, quietLogger()).Export(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if snap.Expenses == nil || snap.Customers == nil || snap.Categories == nil {
		t.Error("empty collections should export as empty lists")
	}
	if snap.Company != nil {
		t.Error("company should be null when unset")
	}
}

func TestBackupService_RestoreRejects(t *testing.T) {
	service := NewBackupService(memory.New(), nil, quietLogger())

	_, err := service.Restore(context.Background(), records.Snapshot{Version: "2.0.0"})
	if !errors.Is(err, ErrUnsupportedSnapshot) {
		t.Errorf("Restore(2.0.0) = %v", err)
	}
	if _, err := service.RestoreJSON(context.Background(), strings.NewReader("{")); err == nil {
		t.Error("RestoreJSON should reject malformed JSON")
	}
}

type failingExpenseStore struct {
	*memory.Store
}

func (failingExpenseStore) SaveExpense(context.Context, core.Expense) error {
	return errors.New("disk full")
}

func TestBackupService_PartialRestoreInvalidatesReports(t *testing.T) {
	ctx := context.Background()
	store := failingExpenseStore{Store: memory.New()}
	inv := &countingInvalidator{}
	service := NewBackupService(store, inv, quietLogger())

	stats, err := service.Restore(ctx, records.Snapshot{
		Version:    records.SnapshotVersion,
		Categories: records.DefaultCategories(),
		Expenses:   []core.Expense{{ID: "e1", CategoryID: "1", Amount: 1000, Date: "1403/01/01"}},
	})
	if err == nil {
		t.Fatal("Restore should report the failed expense")
	}
	if stats.Categories != len(records.DefaultCategories()) {
		t.Errorf("categories restored = %d", stats.Categories)
	}
	if inv.n != 1 {
		t.Errorf("invalidations = %d, want 1 after a partial restore", inv.n)
	}

	if _, err := service.Restore(ctx, records.Snapshot{Version: "2.0.0"}); err == nil {
		t.Fatal("unsupported version should fail")
	}
	if inv.n != 1 {
		t.Errorf("a rejected snapshot wrote nothing and should not invalidate, got %d", inv.n)
	}
}
