// Package finance computes income, expense and profit rollups over the
// in-memory collections. All functions are read-only and safe to call
// while mutations happen elsewhere; callers pass the snapshot they hold.
package finance

import (
	"github.com/shopspring/decimal"

	"rentbook/internal/core"
)

// Unassigned is the breakdown key for transactions without a property.
const Unassigned = "unassigned"

// MonthTotals holds the income and expense sums for one month.
type MonthTotals struct {
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
}

// PropertyTotals holds the running sums for one property. Profit is kept
// consistent after every contribution, not derived at the end.
type PropertyTotals struct {
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
	Profit  decimal.Decimal `json:"profit"`
}

// TotalByType sums the amounts of transactions matching the given type.
// With a non-empty propertyID only that property's transactions count;
// transactions without a property match only the unfiltered call.
func TotalByType(txs []core.Transaction, typ core.TransactionType, propertyID string) decimal.Decimal {
	total := decimal.Zero
	for _, t := range txs {
		if t.Type != typ {
			continue
		}
		if propertyID != "" && t.PropertyID != propertyID {
			continue
		}
		total = total.Add(t.Amount)
	}
	return total
}

// TotalIncome sums income transactions, optionally filtered by property.
func TotalIncome(txs []core.Transaction, propertyID string) decimal.Decimal {
	return TotalByType(txs, core.Income, propertyID)
}

// TotalExpenses sums expense transactions, optionally filtered by property.
func TotalExpenses(txs []core.Transaction, propertyID string) decimal.Decimal {
	return TotalByType(txs, core.Expense, propertyID)
}

// Profit is income minus expenses over the same filter.
func Profit(txs []core.Transaction, propertyID string) decimal.Decimal {
	return TotalIncome(txs, propertyID).Sub(TotalExpenses(txs, propertyID))
}

// MonthlyBreakdown groups transactions by calendar month. Transactions
// without a usable date are skipped rather than reported.
func MonthlyBreakdown(txs []core.Transaction) map[string]MonthTotals {
	breakdown := make(map[string]MonthTotals)
	for _, t := range txs {
		month, ok := core.MonthOf(t.Date)
		if !ok {
			continue
		}
		totals := breakdown[month]
		if t.Type == core.Income {
			totals.Income = totals.Income.Add(t.Amount)
		} else {
			totals.Expense = totals.Expense.Add(t.Amount)
		}
		breakdown[month] = totals
	}
	return breakdown
}

// PropertyBreakdown groups transactions by property, with transactions
// lacking a property collected under the Unassigned key.
func PropertyBreakdown(txs []core.Transaction) map[string]PropertyTotals {
	breakdown := make(map[string]PropertyTotals)
	for _, t := range txs {
		key := t.PropertyID
		if key == "" {
			key = Unassigned
		}
		totals := breakdown[key]
		if t.Type == core.Income {
			totals.Income = totals.Income.Add(t.Amount)
		} else {
			totals.Expense = totals.Expense.Add(t.Amount)
		}
		totals.Profit = totals.Income.Sub(totals.Expense)
		breakdown[key] = totals
	}
	return breakdown
}

// FilterAll matches every transaction for either filter dimension.
const FilterAll = "all"

// FilterTransactions narrows a transaction list by type and property.
// Either filter may be FilterAll (or empty) to match everything.
func FilterTransactions(txs []core.Transaction, typeFilter, propertyFilter string) []core.Transaction {
	out := make([]core.Transaction, 0, len(txs))
	for _, t := range txs {
		if typeFilter != "" && typeFilter != FilterAll && string(t.Type) != typeFilter {
			continue
		}
		if propertyFilter != "" && propertyFilter != FilterAll && t.PropertyID != propertyFilter {
			continue
		}
		out = append(out, t)
	}
	return out
}

// ExpenseTotal sums concrete expense records, optionally filtered by
// property. Recurring templates never contribute to any sum.
func ExpenseTotal(expenses []core.ExpenseRecord, propertyID string) decimal.Decimal {
	total := decimal.Zero
	for _, e := range expenses {
		if e.IsTemplate {
			continue
		}
		if propertyID != "" && e.PropertyID != propertyID {
			continue
		}
		total = total.Add(e.Amount)
	}
	return total
}

// ExpensesByCategory groups concrete expense records by category.
func ExpensesByCategory(expenses []core.ExpenseRecord) map[string]decimal.Decimal {
	byCategory := make(map[string]decimal.Decimal)
	for _, e := range expenses {
		if e.IsTemplate {
			continue
		}
		byCategory[e.Category] = byCategory[e.Category].Add(e.Amount)
	}
	return byCategory
}
