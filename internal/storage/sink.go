package storage

import (
	"context"
	"encoding/json"

	"rentbook/internal/log"
	"rentbook/internal/store"
)

// Snapshot domains. One row per domain in the snapshots table, one tab
// per domain in the remote mirror.
const (
	DomainExpenses     = "expenses"
	DomainTransactions = "transactions"
	DomainRentPayments = "rent_payments"
	DomainProperties   = "properties"
	DomainSharedTasks  = "shared_tasks"
	DomainSharedLists  = "shared_lists"
	DomainSharedIdeas  = "shared_ideas"
)

// ChangePublisher announces that a domain's snapshot changed. The
// mirror worker consumes these announcements.
type ChangePublisher interface {
	PublishSnapshotChanged(ctx context.Context, domain string) error
}

// NewSnapshotSink builds a persistence sink for one domain. The store
// layer calls it with the full collection after every mutation; the
// sink marshals, writes the snapshot row and announces the change.
// Failures are logged and swallowed: persistence problems never roll
// back the in-memory state.
func NewSnapshotSink[T any](repo *SQLiteRepository, publisher ChangePublisher, domain string, logger *log.Logger) store.SaveFunc[T] {
	logger = logger.WithComponent(log.ComponentStorage)
	return func(ctx context.Context, items []T) {
		payload, err := json.Marshal(items)
		if err != nil {
			logger.ErrorContext(ctx, "marshal snapshot failed",
				log.FieldDomain, domain, log.FieldError, err)
			return
		}
		if err := repo.SaveSnapshot(ctx, domain, payload); err != nil {
			logger.ErrorContext(ctx, "persist snapshot failed",
				log.FieldDomain, domain, log.FieldError, err)
			return
		}
		logger.Debug("snapshot persisted",
			log.FieldDomain, domain, log.FieldCount, len(items))

		if publisher == nil {
			return
		}
		if err := publisher.PublishSnapshotChanged(ctx, domain); err != nil {
			logger.WarnContext(ctx, "publish snapshot change failed",
				log.FieldDomain, domain, log.FieldError, err)
		}
	}
}

// Hydrate loads and unmarshals a domain's stored snapshot. A missing
// snapshot yields an empty collection.
func Hydrate[T any](ctx context.Context, repo *SQLiteRepository, domain string) ([]T, error) {
	payload, err := repo.LoadSnapshot(ctx, domain)
	if err != nil {
		return nil, err
	}
	if payload == nil {
		return nil, nil
	}
	var items []T
	if err := json.Unmarshal(payload, &items); err != nil {
		return nil, err
	}
	return items, nil
}
