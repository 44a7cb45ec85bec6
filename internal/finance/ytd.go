package finance

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"rentbook/internal/core"
)

// PropertyFinancials is the year-to-date rollup for a single property.
type PropertyFinancials struct {
	PropertyID         string          `json:"propertyId"`
	PropertyName       string          `json:"propertyName"`
	MonthlyRent        decimal.Decimal `json:"monthlyRent"`
	YTDRent            decimal.Decimal `json:"ytdRent"`
	YTDExpenses        decimal.Decimal `json:"ytdExpenses"`
	YTDProfit          decimal.Decimal `json:"ytdProfit"`
	AvgMonthlyExpenses decimal.Decimal `json:"avgMonthlyExpenses"`
	MonthlyNet         decimal.Decimal `json:"monthlyNet"`
}

// PortfolioTotals sums the year-to-date figures across properties.
type PortfolioTotals struct {
	YTDRent     decimal.Decimal `json:"ytdRent"`
	YTDExpenses decimal.Decimal `json:"ytdExpenses"`
	YTDProfit   decimal.Decimal `json:"ytdProfit"`
}

func rentCounted(status core.RentStatus) bool {
	return status == core.RentPaid || status == core.RentPartial
}

// rentPayDate prefers the actual payment date, falling back to the
// rent month the payment belongs to.
func rentPayDate(p core.RentPayment) string {
	if p.DatePaid != "" {
		return p.DatePaid
	}
	return p.Month
}

// PropertyYearToDate computes the current-year financials for one
// property: rent collected (paid or partial payments only), concrete
// expenses, and the derived monthly averages. Months elapsed is the
// current month number, never less than one.
func PropertyYearToDate(p core.Property, rents []core.RentPayment, expenses []core.ExpenseRecord, now time.Time) PropertyFinancials {
	yearPrefix := fmt.Sprintf("%04d", now.Year())

	ytdRent := decimal.Zero
	for _, payment := range rents {
		if payment.PropertyID != p.ID || !rentCounted(payment.Status) {
			continue
		}
		if !strings.HasPrefix(rentPayDate(payment), yearPrefix) {
			continue
		}
		ytdRent = ytdRent.Add(payment.Amount)
	}

	ytdExpenses := decimal.Zero
	for _, e := range expenses {
		if e.IsTemplate || e.PropertyID != p.ID {
			continue
		}
		if !strings.HasPrefix(e.Date, yearPrefix) {
			continue
		}
		ytdExpenses = ytdExpenses.Add(e.Amount)
	}

	monthsElapsed := int(now.Month())
	if monthsElapsed < 1 {
		monthsElapsed = 1
	}
	avg := ytdExpenses.Div(decimal.NewFromInt(int64(monthsElapsed)))

	return PropertyFinancials{
		PropertyID:         p.ID,
		PropertyName:       p.Name,
		MonthlyRent:        p.MonthlyRent,
		YTDRent:            ytdRent,
		YTDExpenses:        ytdExpenses,
		YTDProfit:          ytdRent.Sub(ytdExpenses),
		AvgMonthlyExpenses: avg,
		MonthlyNet:         p.MonthlyRent.Sub(avg),
	}
}

// PortfolioYearToDate runs PropertyYearToDate over every property and
// returns the per-property rows alongside the portfolio totals.
func PortfolioYearToDate(properties []core.Property, rents []core.RentPayment, expenses []core.ExpenseRecord, now time.Time) ([]PropertyFinancials, PortfolioTotals) {
	rows := make([]PropertyFinancials, 0, len(properties))
	var totals PortfolioTotals
	for _, p := range properties {
		row := PropertyYearToDate(p, rents, expenses, now)
		rows = append(rows, row)
		totals.YTDRent = totals.YTDRent.Add(row.YTDRent)
		totals.YTDExpenses = totals.YTDExpenses.Add(row.YTDExpenses)
		totals.YTDProfit = totals.YTDProfit.Add(row.YTDProfit)
	}
	return rows, totals
}
