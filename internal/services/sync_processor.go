package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"rentbook/internal/core"
	"rentbook/internal/log"
	"rentbook/internal/sheets"
	"rentbook/internal/storage"
)

// SnapshotSyncProcessor ships snapshot rows from SQLite to the remote
// mirror, one tab per domain.
type SnapshotSyncProcessor struct {
	repo   *storage.SQLiteRepository
	mirror sheets.SnapshotMirror
	logger *log.Logger
}

func NewSnapshotSyncProcessor(repo *storage.SQLiteRepository, mirror sheets.SnapshotMirror, logger *log.Logger) *SnapshotSyncProcessor {
	return &SnapshotSyncProcessor{
		repo:   repo,
		mirror: mirror,
		logger: logger.WithComponent(log.ComponentWorker),
	}
}

// HandleSnapshotChanged mirrors the named domain's latest payload. The
// snapshot's mirror state tracks the outcome so the backfill pass can
// retry failures.
func (p *SnapshotSyncProcessor) HandleSnapshotChanged(ctx context.Context, domain string) error {
	payload, err := p.repo.LoadSnapshot(ctx, domain)
	if err != nil {
		return fmt.Errorf("load snapshot %s: %w", domain, err)
	}
	if payload == nil {
		p.logger.WarnContext(ctx, "snapshot change for unknown domain",
			log.FieldDomain, domain)
		return nil
	}

	tab, header, rows, err := rowsFor(domain, payload)
	if err != nil {
		// A payload the converter cannot read will not improve on retry.
		p.logger.ErrorContext(ctx, "convert snapshot failed",
			log.FieldDomain, domain, log.FieldError, err)
		if markErr := p.repo.MarkMirrorError(ctx, domain); markErr != nil {
			return markErr
		}
		return nil
	}

	if err := p.mirror.ReplaceRows(ctx, tab, header, rows); err != nil {
		if markErr := p.repo.MarkMirrorError(ctx, domain); markErr != nil {
			p.logger.ErrorContext(ctx, "mark mirror error failed",
				log.FieldDomain, domain, log.FieldError, markErr)
		}
		return fmt.Errorf("mirror %s: %w", domain, err)
	}

	if err := p.repo.MarkMirrored(ctx, domain); err != nil {
		return fmt.Errorf("mark mirrored %s: %w", domain, err)
	}

	p.logger.InfoContext(ctx, "mirrored snapshot",
		log.FieldDomain, domain,
		log.FieldSheetTab, tab,
		log.FieldCount, len(rows))

	return nil
}

// ProcessDirtySnapshots retries every domain whose latest snapshot has
// not been mirrored. Used as a periodic backfill alongside the message
// consumer, and as the only path when no broker is configured.
func (p *SnapshotSyncProcessor) ProcessDirtySnapshots(ctx context.Context, limit int) (int, error) {
	dirty, err := p.repo.DirtySnapshots(ctx, limit)
	if err != nil {
		return 0, fmt.Errorf("list dirty snapshots: %w", err)
	}

	mirrored := 0
	for _, d := range dirty {
		if err := p.HandleSnapshotChanged(ctx, d.Domain); err != nil {
			p.logger.ErrorContext(ctx, "backfill mirror failed",
				log.FieldDomain, d.Domain, log.FieldError, err)
			continue
		}
		mirrored++
	}
	return mirrored, nil
}

// Mirror tab names, one per snapshot domain.
const (
	TabExpenses     = "Expenses"
	TabTransactions = "Transactions"
	TabRentPayments = "Rent"
	TabProperties   = "Properties"
	TabSharedTasks  = "Tasks"
	TabSharedLists  = "Lists"
	TabSharedIdeas  = "Ideas"
)

func rowsFor(domain string, payload []byte) (tab string, header []string, rows [][]any, err error) {
	switch domain {
	case storage.DomainExpenses:
		var items []core.ExpenseRecord
		if err = json.Unmarshal(payload, &items); err != nil {
			return "", nil, nil, err
		}
		header = []string{"ID", "Property", "Category", "Description", "Amount", "Date", "Vendor", "Template", "Generated For"}
		for _, e := range items {
			rows = append(rows, []any{
				e.ID, e.PropertyName, e.Category, e.Description,
				e.Amount.String(), e.Date, e.Vendor,
				strconv.FormatBool(e.IsTemplate), e.GeneratedForMonth,
			})
		}
		return TabExpenses, header, rows, nil

	case storage.DomainTransactions:
		var items []core.Transaction
		if err = json.Unmarshal(payload, &items); err != nil {
			return "", nil, nil, err
		}
		header = []string{"ID", "Type", "Amount", "Category", "Property", "Date", "Description"}
		for _, t := range items {
			rows = append(rows, []any{
				t.ID, string(t.Type), t.Amount.String(), t.Category,
				t.PropertyID, t.Date, t.Description,
			})
		}
		return TabTransactions, header, rows, nil

	case storage.DomainRentPayments:
		var items []core.RentPayment
		if err = json.Unmarshal(payload, &items); err != nil {
			return "", nil, nil, err
		}
		header = []string{"ID", "Property", "Tenant", "Month", "Amount", "Date Paid", "Status"}
		for _, r := range items {
			rows = append(rows, []any{
				r.ID, r.PropertyID, r.TenantName, r.Month,
				r.Amount.String(), r.DatePaid, string(r.Status),
			})
		}
		return TabRentPayments, header, rows, nil

	case storage.DomainProperties:
		var items []core.Property
		if err = json.Unmarshal(payload, &items); err != nil {
			return "", nil, nil, err
		}
		now := time.Now()
		header = []string{"ID", "Name", "City", "Monthly Rent", "Tenants", "Lease End", "Lease Status"}
		for _, p := range items {
			leaseEnd, leaseStatus := "", ""
			if tenants := p.TenantList(); len(tenants) > 0 {
				leaseEnd = tenants[0].LeaseEnd
				leaseStatus = core.LeaseStatus(leaseEnd, now)
			}
			rows = append(rows, []any{
				p.ID, p.Name, p.City, p.MonthlyRent.String(),
				strconv.Itoa(len(p.TenantList())),
				leaseEnd, leaseStatus,
			})
		}
		return TabProperties, header, rows, nil

	case storage.DomainSharedTasks:
		var items []core.SharedTask
		if err = json.Unmarshal(payload, &items); err != nil {
			return "", nil, nil, err
		}
		header = []string{"ID", "Title", "Status", "Due", "Assigned To", "Completed By"}
		for _, t := range items {
			rows = append(rows, []any{t.ID, t.Title, t.Status, t.DueDate, t.AssignedTo, t.CompletedBy})
		}
		return TabSharedTasks, header, rows, nil

	case storage.DomainSharedLists:
		var items []core.SharedList
		if err = json.Unmarshal(payload, &items); err != nil {
			return "", nil, nil, err
		}
		header = []string{"ID", "Name", "Items", "Checked"}
		for _, l := range items {
			checked := 0
			for _, item := range l.Items {
				if item.Checked {
					checked++
				}
			}
			rows = append(rows, []any{l.ID, l.Name, strconv.Itoa(len(l.Items)), strconv.Itoa(checked)})
		}
		return TabSharedLists, header, rows, nil

	case storage.DomainSharedIdeas:
		var items []core.SharedIdea
		if err = json.Unmarshal(payload, &items); err != nil {
			return "", nil, nil, err
		}
		header = []string{"ID", "Title", "Category", "Status"}
		for _, i := range items {
			rows = append(rows, []any{i.ID, i.Title, i.Category, i.Status})
		}
		return TabSharedIdeas, header, rows, nil
	}

	return "", nil, nil, fmt.Errorf("unknown snapshot domain %q", domain)
}
