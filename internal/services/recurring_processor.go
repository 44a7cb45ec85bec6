package services

import (
	"context"
	"fmt"
	"time"

	"rentbook/internal/core"
	"rentbook/internal/log"
	"rentbook/internal/recurrence"
)

// ExpenseCreator is the slice of the expense store the processor needs.
type ExpenseCreator interface {
	List() []core.ExpenseRecord
	Add(ctx context.Context, e core.ExpenseRecord) (core.ExpenseRecord, error)
}

// RecurringProcessor materializes due recurring-expense instances into
// the expense collection. Runs once at startup and then on a timer.
type RecurringProcessor struct {
	expenses ExpenseCreator
	logger   *log.Logger
}

func NewRecurringProcessor(expenses ExpenseCreator, logger *log.Logger) *RecurringProcessor {
	return &RecurringProcessor{
		expenses: expenses,
		logger:   logger.WithComponent(log.ComponentRecurring),
	}
}

// ProcessDueExpenses generates and stores every instance due as of now.
// A failing instance is skipped; the rest still go through.
func (p *RecurringProcessor) ProcessDueExpenses(ctx context.Context, now time.Time) (int, error) {
	if p.expenses == nil {
		return 0, fmt.Errorf("processor not properly initialized")
	}

	due := recurrence.GenerateDueInstances(p.expenses.List(), now, p.logger)
	if len(due) == 0 {
		p.logger.Debug("no recurring expenses due",
			log.FieldMonth, core.MonthKey(now.Year(), int(now.Month())))
		return 0, nil
	}

	created := 0
	for _, instance := range due {
		if _, err := p.expenses.Add(ctx, instance); err != nil {
			p.logger.ErrorContext(ctx, "create generated expense failed",
				log.FieldTemplateID, instance.GeneratedFromTemplate,
				log.FieldMonth, instance.GeneratedForMonth,
				log.FieldError, err)
			continue
		}
		created++
	}

	p.logger.InfoContext(ctx, "processed recurring expenses",
		log.FieldCount, created,
		"due", len(due))

	return created, nil
}
