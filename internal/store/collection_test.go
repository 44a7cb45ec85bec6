package store

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"rentbook/internal/core"
	"rentbook/internal/notify"
)

type recordedNote struct {
	message  string
	severity notify.Severity
}

type captureNotifier struct {
	notes []recordedNote
}

func (c *captureNotifier) Notify(message string, severity notify.Severity) {
	c.notes = append(c.notes, recordedNote{message, severity})
}

// captureSink records every snapshot handed to the persistence sink.
type captureSink[T any] struct {
	snapshots [][]T
}

func (c *captureSink[T]) save(_ context.Context, items []T) {
	c.snapshots = append(c.snapshots, items)
}

func validExpense(id string) core.ExpenseRecord {
	return core.ExpenseRecord{
		ID:       id,
		Category: "repairs",
		Amount:   decimal.NewFromInt(100),
		Date:     "2026-01-05",
	}
}

func TestCreateThenImmediateUpdate(t *testing.T) {
	sink := &captureSink[core.ExpenseRecord]{}
	s := NewExpenseStore(sink.save, nil)
	ctx := context.Background()

	created, err := s.Add(ctx, validExpense(""))
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if created.ID == "" || created.CreatedAt.IsZero() {
		t.Fatalf("record not stamped: %+v", created)
	}

	// The update must see the record the create just appended, not a
	// collection captured before the create.
	updated, err := s.Modify(ctx, created.ID, func(e core.ExpenseRecord) core.ExpenseRecord {
		e.Amount = decimal.NewFromInt(250)
		return e
	})
	if err != nil {
		t.Fatalf("Modify: %v", err)
	}
	if !updated.Amount.Equal(decimal.NewFromInt(250)) {
		t.Errorf("amount = %s, want 250", updated.Amount)
	}
	if updated.ID != created.ID {
		t.Errorf("update changed id: %s -> %s", created.ID, updated.ID)
	}

	if len(sink.snapshots) != 2 {
		t.Fatalf("sink called %d times, want 2", len(sink.snapshots))
	}
	if n := len(sink.snapshots[1]); n != 1 {
		t.Fatalf("second snapshot has %d records, want 1", n)
	}
	if got := sink.snapshots[1][0].Amount; !got.Equal(decimal.NewFromInt(250)) {
		t.Errorf("persisted amount = %s, want 250", got)
	}
}

func TestSnapshotIsFullCollection(t *testing.T) {
	sink := &captureSink[core.ExpenseRecord]{}
	s := NewExpenseStore(sink.save, nil)
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c"} {
		if _, err := s.Add(ctx, validExpense(id)); err != nil {
			t.Fatalf("Add %s: %v", id, err)
		}
	}
	s.Delete(ctx, "b")

	if len(sink.snapshots) != 4 {
		t.Fatalf("sink called %d times, want 4 (one per mutation)", len(sink.snapshots))
	}
	last := sink.snapshots[3]
	if len(last) != 2 || last[0].ID != "a" || last[1].ID != "c" {
		t.Errorf("final snapshot = %v", last)
	}
}

func TestUpdateMissingRecord(t *testing.T) {
	sink := &captureSink[core.ExpenseRecord]{}
	notes := &captureNotifier{}
	s := NewExpenseStore(sink.save, notes)
	ctx := context.Background()

	if _, err := s.Add(ctx, validExpense("a")); err != nil {
		t.Fatalf("Add: %v", err)
	}
	sinkCalls := len(sink.snapshots)

	_, err := s.Modify(ctx, "missing", func(e core.ExpenseRecord) core.ExpenseRecord { return e })
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	if len(sink.snapshots) != sinkCalls {
		t.Error("failed update reached the sink")
	}
	if s.Len() != 1 {
		t.Errorf("collection size changed to %d", s.Len())
	}
}

func TestDeleteMissingRecordIsNoOp(t *testing.T) {
	sink := &captureSink[core.ExpenseRecord]{}
	s := NewExpenseStore(sink.save, nil)
	ctx := context.Background()

	if _, err := s.Add(ctx, validExpense("a")); err != nil {
		t.Fatalf("Add: %v", err)
	}
	s.Delete(ctx, "missing")

	if s.Len() != 1 {
		t.Errorf("collection size = %d, want 1", s.Len())
	}
	// The delete still persists the (unchanged) collection.
	if len(sink.snapshots) != 2 {
		t.Errorf("sink called %d times, want 2", len(sink.snapshots))
	}
}

func TestCreateRejectsInvalidRecord(t *testing.T) {
	sink := &captureSink[core.ExpenseRecord]{}
	s := NewExpenseStore(sink.save, nil)

	bad := core.ExpenseRecord{Category: "", Amount: decimal.NewFromInt(10), Date: "2026-01-05"}
	if _, err := s.Add(context.Background(), bad); !errors.Is(err, core.ErrEmptyCategory) {
		t.Fatalf("err = %v, want ErrEmptyCategory", err)
	}
	if s.Len() != 0 {
		t.Error("invalid record was appended")
	}
	if len(sink.snapshots) != 0 {
		t.Error("invalid record reached the sink")
	}
}

func TestReplaceDoesNotPersistOrNotify(t *testing.T) {
	sink := &captureSink[core.ExpenseRecord]{}
	notes := &captureNotifier{}
	s := NewExpenseStore(sink.save, notes)

	s.Replace([]core.ExpenseRecord{validExpense("a"), validExpense("b")})
	if s.Len() != 2 {
		t.Fatalf("len = %d, want 2", s.Len())
	}
	if len(sink.snapshots) != 0 || len(notes.notes) != 0 {
		t.Error("hydration triggered sink or notifications")
	}
}

func TestNotificationsPerMutation(t *testing.T) {
	notes := &captureNotifier{}
	s := NewExpenseStore(nil, notes)
	ctx := context.Background()

	created, _ := s.Add(ctx, validExpense(""))
	s.Modify(ctx, created.ID, func(e core.ExpenseRecord) core.ExpenseRecord { return e })
	s.Delete(ctx, created.ID)

	want := []recordedNote{
		{"Expense recorded", notify.Success},
		{"Expense updated", notify.Success},
		{"Expense deleted", notify.Info},
	}
	if len(notes.notes) != len(want) {
		t.Fatalf("got %d notifications, want %d: %v", len(notes.notes), len(want), notes.notes)
	}
	for i, w := range want {
		if notes.notes[i] != w {
			t.Errorf("note[%d] = %v, want %v", i, notes.notes[i], w)
		}
	}
}

func TestTransactionNotificationByType(t *testing.T) {
	notes := &captureNotifier{}
	s := NewTransactionStore(nil, notes)
	ctx := context.Background()

	s.Add(ctx, core.Transaction{Type: core.Income, Amount: decimal.NewFromInt(100), Date: "2026-01-01"})
	s.Add(ctx, core.Transaction{Type: core.Expense, Amount: decimal.NewFromInt(50), Date: "2026-01-02"})

	if len(notes.notes) != 2 {
		t.Fatalf("got %d notifications, want 2", len(notes.notes))
	}
	if notes.notes[0].message != "Income added" || notes.notes[1].message != "Expense added" {
		t.Errorf("messages = %v", notes.notes)
	}
}
