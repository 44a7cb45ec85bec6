package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"rentbook/internal/core"
	"rentbook/internal/notify"
)

// TransactionStore holds the income/expense ledger.
type TransactionStore struct {
	*Collection[core.Transaction]
}

func NewTransactionStore(save SaveFunc[core.Transaction], notifier notify.Notifier) *TransactionStore {
	return &TransactionStore{
		Collection: NewCollection(
			func(t core.Transaction) string { return t.ID },
			stampTransaction,
			core.Transaction.Validate,
			save,
			notifier,
		),
	}
}

func stampTransaction(t core.Transaction) core.Transaction {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now().UTC()
	}
	return t
}

func (s *TransactionStore) Add(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	msg := "Expense added"
	if t.Type == core.Income {
		msg = "Income added"
	}
	return s.Create(ctx, t, msg)
}

func (s *TransactionStore) Modify(ctx context.Context, id string, mutate func(core.Transaction) core.Transaction) (core.Transaction, error) {
	return s.Update(ctx, id, mutate, "Transaction updated")
}

func (s *TransactionStore) Delete(ctx context.Context, id string) {
	s.Remove(ctx, id, "Transaction deleted")
}
