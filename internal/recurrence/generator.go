// Package recurrence materializes concrete expense instances from recurring
// templates over a trailing three-month window.
//
// Generation is idempotent: an instance is keyed by its
// (generatedFromTemplate, generatedForMonth) pair, and a month slot that is
// already filled anywhere in the input collection is never filled again.
// Re-running the generator across sessions, timers, or concurrent callers
// cannot duplicate an expense.
package recurrence

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"rentbook/internal/core"
	"rentbook/internal/log"
)

// GeneratedBy is recorded as the author of auto-generated instances.
const GeneratedBy = "System (auto-generated)"

// windowMonths is the current month plus two months of backfill. The window
// never grows with template age: a template missed for a year only backfills
// two months.
const windowMonths = 3

// monthMatcher decides whether a target month qualifies under a frequency.
// startMonth is the 1-indexed calendar month of the template's creation,
// which anchors quarterly and annual cycles.
type monthMatcher interface {
	Matches(targetYear, targetMonth, startMonth int) bool
}

type monthlyMatcher struct{}

func (monthlyMatcher) Matches(_, _, _ int) bool { return true }

type quarterlyMatcher struct{}

// Matches uses a non-negative residue so months before the anchor within the
// same year still land on the 3-month grid.
func (quarterlyMatcher) Matches(_, targetMonth, startMonth int) bool {
	return ((targetMonth-startMonth)%3+3)%3 == 0
}

type annualMatcher struct{}

func (annualMatcher) Matches(_, targetMonth, startMonth int) bool {
	return targetMonth == startMonth
}

var matchers = map[core.RecurringFrequency]monthMatcher{
	core.Monthly:   monthlyMatcher{},
	core.Quarterly: quarterlyMatcher{},
	core.Annually:  annualMatcher{},
}

// GenerateDueInstances inspects expenses for template records and returns the
// concrete instances missing from the trailing window ending at asOf. It
// never mutates its input; the caller merges and persists the result.
//
// Malformed templates (unknown frequency, out-of-range due day) are skipped
// with a log line; one bad template never blocks the others.
//
// Output order is deterministic: templates in input order, each template's
// months oldest first.
func GenerateDueInstances(expenses []core.ExpenseRecord, asOf time.Time, logger *log.Logger) []core.ExpenseRecord {
	logger = logger.WithComponent(log.ComponentRecurring)

	var generated []core.ExpenseRecord

	asOfYear := asOf.Year()
	asOfMonth := int(asOf.Month())

	for _, tmpl := range expenses {
		if !tmpl.IsTemplate {
			continue
		}

		frequency := tmpl.RecurringFrequency
		if frequency == "" {
			frequency = core.Monthly
		}
		matcher, ok := matchers[frequency]
		if !ok {
			logger.Warn("Skipping template with unknown frequency",
				log.FieldTemplateID, tmpl.ID, "frequency", frequency)
			continue
		}

		dueDay := tmpl.DueDay
		if dueDay <= 0 {
			dueDay = 1
		}
		if dueDay > 31 {
			logger.Warn("Skipping template with out-of-range due day",
				log.FieldTemplateID, tmpl.ID, "due_day", tmpl.DueDay)
			continue
		}

		created := tmpl.CreatedAt
		if created.IsZero() {
			created = asOf
		}
		startMonth := int(created.Month())
		createdMonth := core.MonthKey(created.Year(), startMonth)

		for offset := windowMonths - 1; offset >= 0; offset-- {
			targetYear, targetMonth := core.SubtractMonths(asOfYear, asOfMonth, offset)
			monthKey := core.MonthKey(targetYear, targetMonth)

			if !matcher.Matches(targetYear, targetMonth, startMonth) {
				continue
			}
			// No retroactive generation before template inception. Both keys
			// are zero-padded, so string order is chronological order.
			if monthKey < createdMonth {
				continue
			}
			if slotFilled(expenses, tmpl.ID, monthKey) {
				continue
			}

			day := dueDay
			if last := core.DaysInMonth(targetYear, targetMonth); day > last {
				day = last
			}

			generated = append(generated, core.ExpenseRecord{
				ID:                    uuid.NewString(),
				PropertyID:            tmpl.PropertyID,
				PropertyName:          tmpl.PropertyName,
				Category:              tmpl.Category,
				Description:           tmpl.Description,
				Amount:                tmpl.Amount,
				Date:                  fmt.Sprintf("%s-%02d", monthKey, day),
				Vendor:                tmpl.Vendor,
				Notes:                 tmpl.Notes,
				Recurring:             false,
				IsTemplate:            false,
				GeneratedFromTemplate: tmpl.ID,
				GeneratedForMonth:     monthKey,
				CreatedAt:             time.Now().UTC(),
				CreatedBy:             GeneratedBy,
			})
		}
	}

	return generated
}

// slotFilled reports whether an instance for the given template and month
// already exists. This is the idempotence check.
func slotFilled(expenses []core.ExpenseRecord, templateID, monthKey string) bool {
	for _, e := range expenses {
		if e.GeneratedFromTemplate == templateID && e.GeneratedForMonth == monthKey {
			return true
		}
	}
	return false
}
