package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"taxiledger/internal/log"
)

func useSQLite(t *testing.T, path string) {
	t.Helper()
	t.Setenv("DATA_BACKEND", "sqlite")
	t.Setenv("SQLITE_DB_PATH", path)
	t.Setenv("SEED_FILE", "")
	t.Setenv("GOOGLE_SPREADSHEET_ID", "")
	t.Setenv("AMQP_URL", "")
	t.Setenv("ASSISTANT_PROVIDER", "none")
	t.Setenv("LEDGER_CALENDAR", "jalali")
	t.Setenv("LOG_LEVEL", "error")
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cfg := log.DefaultConfig()
	cfg.Output = io.Discard
	a := &app{logger: log.New(cfg)}
	defer a.close()

	var out bytes.Buffer
	cmd := newRootCmd(a)
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--log-level", "error"}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestSeedIsIdempotent(t *testing.T) {
	useSQLite(t, filepath.Join(t.TempDir(), "ledger.db"))

	out, err := execute(t, "seed")
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	if !strings.Contains(out, "Seeded") {
		t.Errorf("first seed output = %q", out)
	}

	out, err = execute(t, "seed")
	if err != nil {
		t.Fatalf("second seed: %v", err)
	}
	if !strings.Contains(out, "nothing to seed") {
		t.Errorf("second seed output = %q", out)
	}
}

func TestReportCommand(t *testing.T) {
	useSQLite(t, filepath.Join(t.TempDir(), "ledger.db"))
	if _, err := execute(t, "seed"); err != nil {
		t.Fatalf("seed: %v", err)
	}

	out, err := execute(t, "report", "--range", "all", "--now", "1403/01/15")
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	for _, want := range []string{"Range:", "all", "1403/01/15", "Expenses:", "Total:"} {
		if !strings.Contains(out, want) {
			t.Errorf("report output missing %q:\n%s", want, out)
		}
	}

	if _, err := execute(t, "report", "--range", "week"); err == nil {
		t.Error("unknown range should fail")
	}
	if _, err := execute(t, "report", "--now", "yesterday"); err == nil {
		t.Error("malformed --now should fail")
	}
}

func TestInvoiceTotalsCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "invoice.json")
	body := `{"items":[{"quantity":2,"rate":1000000}],"taxRate":9,"discountRate":10}`
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}

	out, err := execute(t, "invoice", "totals", "--file", path)
	if err != nil {
		t.Fatalf("invoice totals: %v", err)
	}
	for _, want := range []string{"2,000,000", "200,000", "162,000", "1,962,000"} {
		if !strings.Contains(out, want) {
			t.Errorf("totals output missing %q:\n%s", want, out)
		}
	}

	if _, err := execute(t, "invoice", "totals", "--file", filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("missing file should fail")
	}
}

func TestBackupExportImport(t *testing.T) {
	dir := t.TempDir()
	useSQLite(t, filepath.Join(dir, "source.db"))
	if _, err := execute(t, "seed"); err != nil {
		t.Fatalf("seed: %v", err)
	}

	file := filepath.Join(dir, "backup.json")
	out, err := execute(t, "backup", "export", "--out", file)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if !strings.Contains(out, file) {
		t.Errorf("export output = %q", out)
	}
	data, err := os.ReadFile(file)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"categories"`) {
		t.Errorf("backup file has no categories: %s", data)
	}

	useSQLite(t, filepath.Join(dir, "target.db"))
	out, err = execute(t, "backup", "import", "--in", file)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if !strings.Contains(out, "Restored 0 expenses") {
		t.Errorf("import output = %q", out)
	}

	out, err = execute(t, "seed")
	if err != nil {
		t.Fatalf("seed after import: %v", err)
	}
	if !strings.Contains(out, "nothing to seed") {
		t.Errorf("restored categories were not found: %q", out)
	}

	if _, err := execute(t, "backup", "import"); err == nil {
		t.Error("import without --in should fail")
	}
}
