package finance

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"rentbook/internal/core"
)

func rent(id, propertyID, month string, amount int64, status core.RentStatus, datePaid string) core.RentPayment {
	return core.RentPayment{
		ID:         id,
		PropertyID: propertyID,
		Month:      month,
		Amount:     decimal.NewFromInt(amount),
		Status:     status,
		DatePaid:   datePaid,
	}
}

func TestPropertyYearToDate(t *testing.T) {
	now := time.Date(2026, 4, 20, 0, 0, 0, 0, time.UTC)
	prop := core.Property{ID: "prop-1", Name: "Maple House", MonthlyRent: decimal.NewFromInt(1200)}

	rents := []core.RentPayment{
		rent("r1", "prop-1", "2026-01", 1200, core.RentPaid, "2026-01-03"),
		rent("r2", "prop-1", "2026-02", 600, core.RentPartial, ""),
		rent("r3", "prop-1", "2026-03", 1200, core.RentUnpaid, ""), // not counted
		rent("r4", "prop-2", "2026-01", 950, core.RentPaid, ""),    // other property
		rent("r5", "prop-1", "2025-12", 1200, core.RentPaid, "2025-12-02"),
	}
	expenses := []core.ExpenseRecord{
		{ID: "e1", PropertyID: "prop-1", Category: "repairs", Amount: decimal.NewFromInt(300), Date: "2026-02-10"},
		{ID: "e2", PropertyID: "prop-1", Category: "insurance", Amount: decimal.NewFromInt(100), Date: "2026-03-01"},
		{ID: "e3", PropertyID: "prop-1", Category: "insurance", Amount: decimal.NewFromInt(500), IsTemplate: true},
		{ID: "e4", PropertyID: "prop-1", Category: "roof", Amount: decimal.NewFromInt(900), Date: "2025-11-20"},
	}

	got := PropertyYearToDate(prop, rents, expenses, now)

	if !got.YTDRent.Equal(decimal.NewFromInt(1800)) {
		t.Errorf("ytdRent = %s, want 1800", got.YTDRent)
	}
	if !got.YTDExpenses.Equal(decimal.NewFromInt(400)) {
		t.Errorf("ytdExpenses = %s, want 400", got.YTDExpenses)
	}
	if !got.YTDProfit.Equal(decimal.NewFromInt(1400)) {
		t.Errorf("ytdProfit = %s, want 1400", got.YTDProfit)
	}
	if !got.AvgMonthlyExpenses.Equal(decimal.NewFromInt(100)) {
		t.Errorf("avgMonthlyExpenses = %s, want 100 (400 over 4 months)", got.AvgMonthlyExpenses)
	}
	if !got.MonthlyNet.Equal(decimal.NewFromInt(1100)) {
		t.Errorf("monthlyNet = %s, want 1100", got.MonthlyNet)
	}
}

func TestPropertyYearToDate_PayDateFallsBackToMonth(t *testing.T) {
	// A payment without datePaid counts by its rent month. One recorded
	// as paid in December for the January month still counts as current
	// year income because datePaid wins when present.
	now := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	prop := core.Property{ID: "prop-1", Name: "Maple House", MonthlyRent: decimal.NewFromInt(1000)}

	rents := []core.RentPayment{
		rent("r1", "prop-1", "2026-01", 1000, core.RentPaid, ""),
		rent("r2", "prop-1", "2026-01", 500, core.RentPaid, "2025-12-28"),
	}

	got := PropertyYearToDate(prop, rents, nil, now)
	if !got.YTDRent.Equal(decimal.NewFromInt(1000)) {
		t.Errorf("ytdRent = %s, want 1000", got.YTDRent)
	}
}

func TestPropertyYearToDate_JanuaryDivisor(t *testing.T) {
	// In January the divisor is one month, never zero.
	now := time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)
	prop := core.Property{ID: "prop-1", Name: "Maple House", MonthlyRent: decimal.NewFromInt(1000)}
	expenses := []core.ExpenseRecord{
		{ID: "e1", PropertyID: "prop-1", Category: "repairs", Amount: decimal.NewFromInt(250), Date: "2026-01-01"},
	}

	got := PropertyYearToDate(prop, nil, expenses, now)
	if !got.AvgMonthlyExpenses.Equal(decimal.NewFromInt(250)) {
		t.Errorf("avgMonthlyExpenses = %s, want 250", got.AvgMonthlyExpenses)
	}
	if !got.MonthlyNet.Equal(decimal.NewFromInt(750)) {
		t.Errorf("monthlyNet = %s, want 750", got.MonthlyNet)
	}
}

func TestPortfolioYearToDate(t *testing.T) {
	now := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	props := []core.Property{
		{ID: "prop-1", Name: "Maple House", MonthlyRent: decimal.NewFromInt(1200)},
		{ID: "prop-2", Name: "Oak Duplex", MonthlyRent: decimal.NewFromInt(950)},
	}
	rents := []core.RentPayment{
		rent("r1", "prop-1", "2026-01", 1200, core.RentPaid, ""),
		rent("r2", "prop-2", "2026-01", 950, core.RentPaid, ""),
	}
	expenses := []core.ExpenseRecord{
		{ID: "e1", PropertyID: "prop-2", Category: "repairs", Amount: decimal.NewFromInt(200), Date: "2026-01-20"},
	}

	rows, totals := PortfolioYearToDate(props, rents, expenses, now)
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	if !totals.YTDRent.Equal(decimal.NewFromInt(2150)) {
		t.Errorf("totals.ytdRent = %s, want 2150", totals.YTDRent)
	}
	if !totals.YTDExpenses.Equal(decimal.NewFromInt(200)) {
		t.Errorf("totals.ytdExpenses = %s, want 200", totals.YTDExpenses)
	}
	if !totals.YTDProfit.Equal(decimal.NewFromInt(1950)) {
		t.Errorf("totals.ytdProfit = %s, want 1950", totals.YTDProfit)
	}
}
