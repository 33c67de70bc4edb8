package backend

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"taxiledger/internal/config"
	"taxiledger/internal/core"
	"taxiledger/internal/log"
	"taxiledger/internal/records"
	sheetmemory "taxiledger/internal/sheets/memory"
)

func quietFactory() Factory {
	cfg := log.DefaultConfig()
	cfg.Output = io.Discard
	return NewFactory(log.New(cfg))
}

func TestFromAppConfig(t *testing.T) {
	if _, err := FromAppConfig(nil); err == nil {
		t.Error("nil config should fail")
	}
	if _, err := FromAppConfig(&config.Config{DataBackend: "sheets"}); err == nil {
		t.Error("sheets is no longer a record backend")
	}

	cfg, err := FromAppConfig(&config.Config{DataBackend: "sqlite", SQLiteDBPath: "/tmp/x.db"})
	if err != nil {
		t.Fatalf("FromAppConfig: %v", err)
	}
	if cfg.Type != SQLiteBackend || cfg.SQLiteDBPath != "/tmp/x.db" || !cfg.SeedDefaults {
		t.Errorf("config = %+v", cfg)
	}

	m := MirrorFromAppConfig(&config.Config{GoogleSpreadsheetID: "sheet-1", GoogleSheetName: "Expenses", SyncBatchSize: 50})
	if m.SpreadsheetID != "sheet-1" || m.BatchSize != 50 {
		t.Errorf("mirror config = %+v", m)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr string
	}{
		{name: "memory", config: Config{Type: MemoryBackend}},
		{name: "sqlite", config: Config{Type: SQLiteBackend, SQLiteDBPath: "ledger.db"}},
		{name: "sqlite without path", config: Config{Type: SQLiteBackend}, wantErr: "database path"},
		{name: "unknown type", config: Config{Type: "redis"}, wantErr: "invalid backend type"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("err = %v, want containing %q", err, tt.wantErr)
			}
		})
	}

	if err := (MirrorConfig{SpreadsheetID: "x", SheetName: "Expenses"}).Validate(); err == nil {
		t.Error("a spreadsheet without credentials should fail validation")
	}
}

func TestCreateMemoryStoreFromSeed(t *testing.T) {
	ctx := context.Background()
	seed := records.Snapshot{
		Version:  records.SnapshotVersion,
		Expenses: []core.Expense{{ID: "e1", CategoryID: "1", Amount: 1000, Date: "1403/01/01"}},
	}
	data, err := json.Marshal(seed)
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "seed.json")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatal(err)
	}

	res, err := quietFactory().CreateStore(ctx, Config{Type: MemoryBackend, SeedFile: path, SeedDefaults: true})
	if err != nil {
		t.Fatalf("CreateStore: %v", err)
	}
	defer res.Cleanup()

	expenses, _ := res.Store.ListExpenses(ctx)
	if len(expenses) != 1 {
		t.Errorf("expenses = %+v", expenses)
	}
	cats, _ := res.Store.ListCategories(ctx)
	if len(cats) != len(records.DefaultCategories()) {
		t.Errorf("categories = %d, want defaults seeded", len(cats))
	}
	if res.Ready != nil {
		t.Error("memory store needs no readiness check")
	}
}

func TestCreateSQLiteStore(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "ledger.db")

	res, err := quietFactory().CreateStore(ctx, Config{Type: SQLiteBackend, SQLiteDBPath: path, SeedDefaults: true})
	if err != nil {
		t.Fatalf("CreateStore: %v", err)
	}
	defer res.Cleanup()

	if res.Ready == nil {
		t.Fatal("sqlite store should expose a readiness check")
	}
	if err := res.Ready(ctx); err != nil {
		t.Errorf("Ready: %v", err)
	}
	n, err := res.Store.CountCategories(ctx)
	if err != nil || n != len(records.DefaultCategories()) {
		t.Errorf("CountCategories = %d, %v", n, err)
	}
}

func TestCreateMirrorFallsBackToMemory(t *testing.T) {
	mirror, err := quietFactory().CreateMirror(context.Background(), MirrorConfig{})
	if err != nil {
		t.Fatalf("CreateMirror: %v", err)
	}
	if _, ok := mirror.(*sheetmemory.Mirror); !ok {
		t.Errorf("mirror = %T, want in-memory mirror", mirror)
	}
}
