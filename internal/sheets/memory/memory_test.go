package memory

import (
	"context"
	"testing"

	"taxiledger/internal/sheets"
)

func TestMirrorAppendDeleteReplace(t *testing.T) {
	ctx := context.Background()
	m := New()

	for _, id := range []string{"a", "b", "c"} {
		if err := m.AppendExpense(ctx, sheets.Row{ID: id, Amount: 100}); err != nil {
			t.Fatalf("append %s: %v", id, err)
		}
	}
	if err := m.DeleteExpense(ctx, "b"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := m.DeleteExpense(ctx, "missing"); err != nil {
		t.Fatalf("deleting a missing row should succeed: %v", err)
	}

	rows := m.Rows()
	if len(rows) != 2 || rows[0].ID != "a" || rows[1].ID != "c" {
		t.Fatalf("unexpected rows: %+v", rows)
	}

	if err := m.ReplaceAll(ctx, []sheets.Row{{ID: "z"}}); err != nil {
		t.Fatalf("replace: %v", err)
	}
	rows = m.Rows()
	if len(rows) != 1 || rows[0].ID != "z" {
		t.Fatalf("unexpected rows after replace: %+v", rows)
	}

	rows[0].ID = "mutated"
	if m.Rows()[0].ID != "z" {
		t.Fatal("Rows should return a copy")
	}
}
