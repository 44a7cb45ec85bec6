package memory

import (
	"context"
	"testing"
)

func TestReplaceRows(t *testing.T) {
	m := New()
	ctx := context.Background()

	err := m.ReplaceRows(ctx, "Expenses", []string{"ID", "Amount"}, [][]any{
		{"e1", "120"},
		{"e2", "45"},
	})
	if err != nil {
		t.Fatalf("ReplaceRows: %v", err)
	}

	rows := m.Rows("Expenses")
	if len(rows) != 3 {
		t.Fatalf("rows = %v", rows)
	}
	if rows[0][0] != "ID" || rows[1][0] != "e1" || rows[2][0] != "e2" {
		t.Errorf("rows = %v", rows)
	}

	// A second replace drops rows that are gone from the snapshot.
	err = m.ReplaceRows(ctx, "Expenses", []string{"ID", "Amount"}, [][]any{{"e2", "45"}})
	if err != nil {
		t.Fatalf("ReplaceRows: %v", err)
	}
	rows = m.Rows("Expenses")
	if len(rows) != 2 || rows[1][0] != "e2" {
		t.Errorf("rows after replace = %v", rows)
	}
}

func TestRowsUnknownTab(t *testing.T) {
	m := New()
	if rows := m.Rows("Nope"); rows != nil {
		t.Errorf("rows = %v, want nil", rows)
	}
}
