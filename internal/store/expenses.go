package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"rentbook/internal/core"
	"rentbook/internal/notify"
)

// ExpenseStore holds expense records and recurring templates together;
// templates are distinguished by the IsTemplate flag.
type ExpenseStore struct {
	*Collection[core.ExpenseRecord]
}

func NewExpenseStore(save SaveFunc[core.ExpenseRecord], notifier notify.Notifier) *ExpenseStore {
	return &ExpenseStore{
		Collection: NewCollection(
			func(e core.ExpenseRecord) string { return e.ID },
			stampExpense,
			core.ExpenseRecord.Validate,
			save,
			notifier,
		),
	}
}

func stampExpense(e core.ExpenseRecord) core.ExpenseRecord {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	return e
}

func (s *ExpenseStore) Add(ctx context.Context, e core.ExpenseRecord) (core.ExpenseRecord, error) {
	return s.Create(ctx, e, "Expense recorded")
}

func (s *ExpenseStore) Modify(ctx context.Context, id string, mutate func(core.ExpenseRecord) core.ExpenseRecord) (core.ExpenseRecord, error) {
	return s.Update(ctx, id, mutate, "Expense updated")
}

func (s *ExpenseStore) Delete(ctx context.Context, id string) {
	s.Remove(ctx, id, "Expense deleted")
}
