package core

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	Monthly   RecurringFrequency = "monthly"
	Quarterly RecurringFrequency = "quarterly"
	Annually  RecurringFrequency = "annually"
)

const (
	Income  TransactionType = "income"
	Expense TransactionType = "expense"
)

const (
	RentPaid    RentStatus = "paid"
	RentPartial RentStatus = "partial"
	RentUnpaid  RentStatus = "unpaid"
	RentLate    RentStatus = "late"
)

type (
	RecurringFrequency string

	TransactionType string

	RentStatus string

	// ExpenseRecord is either a concrete expense attributed to a calendar
	// date, or a template (IsTemplate=true): a recipe the recurrence engine
	// materializes into concrete instances once per qualifying month.
	// Templates never count toward any financial total.
	ExpenseRecord struct {
		ID           string          `json:"id"`
		PropertyID   string          `json:"propertyId,omitempty"`
		PropertyName string          `json:"propertyName,omitempty"`
		Category     string          `json:"category"`
		Description  string          `json:"description,omitempty"`
		Amount       decimal.Decimal `json:"amount"`
		Date         string          `json:"date,omitempty"` // YYYY-MM-DD
		Vendor       string          `json:"vendor,omitempty"`
		Notes        string          `json:"notes,omitempty"`

		Recurring          bool               `json:"recurring,omitempty"`
		RecurringFrequency RecurringFrequency `json:"recurringFrequency,omitempty"`
		IsTemplate         bool               `json:"isTemplate,omitempty"`
		DueDay             int                `json:"dueDay,omitempty"` // 1-31, capped to month length

		GeneratedFromTemplate string `json:"generatedFromTemplate,omitempty"`
		GeneratedForMonth     string `json:"generatedForMonth,omitempty"` // YYYY-MM

		CreatedAt time.Time `json:"createdAt,omitempty"`
		CreatedBy string    `json:"createdBy,omitempty"`
	}

	// Transaction is an entry in the income/expense ledger. The recurring
	// fields are descriptive metadata only; transactions are never
	// auto-generated.
	Transaction struct {
		ID                 string             `json:"id"`
		Type               TransactionType    `json:"type"`
		Amount             decimal.Decimal    `json:"amount"`
		Category           string             `json:"category,omitempty"`
		PropertyID         string             `json:"propertyId,omitempty"`
		Date               string             `json:"date"` // YYYY-MM-DD
		Description        string             `json:"description,omitempty"`
		Recurring          bool               `json:"recurring,omitempty"`
		RecurringFrequency RecurringFrequency `json:"recurringFrequency,omitempty"`
		CreatedAt          time.Time          `json:"createdAt,omitempty"`
	}

	RentPayment struct {
		ID         string          `json:"id"`
		PropertyID string          `json:"propertyId"`
		TenantName string          `json:"tenantName,omitempty"`
		Month      string          `json:"month"` // YYYY-MM
		Amount     decimal.Decimal `json:"amount"`
		DatePaid   string          `json:"datePaid,omitempty"` // YYYY-MM-DD
		Status     RentStatus      `json:"status"`
		Notes      string          `json:"notes,omitempty"`
		CreatedAt  time.Time       `json:"createdAt,omitempty"`
	}

	Tenant struct {
		ID         string `json:"id"`
		Name       string `json:"name"`
		Email      string `json:"email,omitempty"`
		Phone      string `json:"phone,omitempty"`
		LeaseStart string `json:"leaseStart,omitempty"` // YYYY-MM-DD
		LeaseEnd   string `json:"leaseEnd,omitempty"`   // YYYY-MM-DD
		Status     string `json:"status,omitempty"`
	}

	Property struct {
		ID          string          `json:"id"`
		Name        string          `json:"name"`
		Street      string          `json:"street,omitempty"`
		City        string          `json:"city,omitempty"`
		State       string          `json:"state,omitempty"`
		Zip         string          `json:"zip,omitempty"`
		MonthlyRent decimal.Decimal `json:"monthlyRent"`
		Notes       string          `json:"notes,omitempty"`
		Tenants     []Tenant        `json:"tenants,omitempty"`
		// Tenant mirrors Tenants[0] for consumers of the old single-tenant
		// shape. Writes go through Tenants; this field is derived.
		Tenant    *Tenant   `json:"tenant,omitempty"`
		CreatedAt time.Time `json:"createdAt,omitempty"`
	}
)

// LegacyTenantID marks a tenant synthesized from the old single-tenant field.
const LegacyTenantID = "legacy"

var (
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrInvalidDate      = errors.New("invalid date")
	ErrInvalidMonth     = errors.New("invalid month")
	ErrEmptyCategory    = errors.New("empty category")
	ErrInvalidType      = errors.New("invalid transaction type")
	ErrInvalidFrequency = errors.New("invalid recurring frequency")
	ErrInvalidDueDay    = errors.New("invalid due day")
	ErrEmptyName        = errors.New("empty name")
	ErrEmptyProperty    = errors.New("empty property reference")
)

// TenantList returns the property's tenants, synthesizing a one-element list
// from the legacy single-tenant field when the list is absent.
func (p Property) TenantList() []Tenant {
	if len(p.Tenants) > 0 {
		return p.Tenants
	}
	if p.Tenant != nil && p.Tenant.Name != "" {
		legacy := *p.Tenant
		if legacy.ID == "" {
			legacy.ID = LegacyTenantID
		}
		return []Tenant{legacy}
	}
	return nil
}

func (f RecurringFrequency) Valid() bool {
	switch f {
	case Monthly, Quarterly, Annually:
		return true
	}
	return false
}

func (e ExpenseRecord) Validate() error {
	if strings.TrimSpace(e.Category) == "" {
		return ErrEmptyCategory
	}
	if e.Amount.IsNegative() {
		return ErrInvalidAmount
	}
	if e.IsTemplate {
		if e.RecurringFrequency != "" && !e.RecurringFrequency.Valid() {
			return ErrInvalidFrequency
		}
		if e.DueDay < 0 || e.DueDay > 31 {
			return ErrInvalidDueDay
		}
		return nil
	}
	if _, err := ParseLocalDate(e.Date); err != nil {
		return err
	}
	return nil
}

func (t Transaction) Validate() error {
	if t.Type != Income && t.Type != Expense {
		return ErrInvalidType
	}
	if t.Amount.IsNegative() {
		return ErrInvalidAmount
	}
	if _, err := ParseLocalDate(t.Date); err != nil {
		return err
	}
	return nil
}

func (r RentPayment) Validate() error {
	if strings.TrimSpace(r.PropertyID) == "" {
		return ErrEmptyProperty
	}
	if !ValidMonthKey(r.Month) {
		return ErrInvalidMonth
	}
	if r.Amount.IsNegative() {
		return ErrInvalidAmount
	}
	if r.DatePaid != "" {
		if _, err := ParseLocalDate(r.DatePaid); err != nil {
			return err
		}
	}
	return nil
}

func (p Property) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return ErrEmptyName
	}
	if p.MonthlyRent.IsNegative() {
		return ErrInvalidAmount
	}
	return nil
}
