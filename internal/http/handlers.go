package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"rentbook/internal/core"
	"rentbook/internal/finance"
	"rentbook/internal/store"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return false
	}
	return true
}

func methodNotAllowed(w http.ResponseWriter) {
	http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
}

// storeError maps store failures onto HTTP statuses.
func storeError(w http.ResponseWriter, err error) {
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, err)
		return
	}
	writeError(w, http.StatusBadRequest, err)
}

// pathTail returns the path segments after the given prefix.
func pathTail(path, prefix string) []string {
	tail := strings.Trim(strings.TrimPrefix(path, prefix), "/")
	if tail == "" {
		return nil
	}
	return strings.Split(tail, "/")
}

func (s *Server) handleExpenses(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, s.expenses.List())
	case http.MethodPost:
		var e core.ExpenseRecord
		if !decodeBody(w, r, &e) {
			return
		}
		created, err := s.expenses.Add(r.Context(), e)
		if err != nil {
			storeError(w, err)
			return
		}
		s.summaryCache.Purge()
		writeJSON(w, http.StatusCreated, created)
	default:
		methodNotAllowed(w)
	}
}

func (s *Server) handleExpenseByID(w http.ResponseWriter, r *http.Request) {
	parts := pathTail(r.URL.Path, "/api/expenses")
	if len(parts) != 1 {
		http.NotFound(w, r)
		return
	}
	id := parts[0]

	switch r.Method {
	case http.MethodGet:
		e, ok := s.expenses.Get(id)
		if !ok {
			writeError(w, http.StatusNotFound, store.ErrNotFound)
			return
		}
		writeJSON(w, http.StatusOK, e)
	case http.MethodPut:
		var in core.ExpenseRecord
		if !decodeBody(w, r, &in) {
			return
		}
		updated, err := s.expenses.Modify(r.Context(), id, func(cur core.ExpenseRecord) core.ExpenseRecord {
			in.ID = cur.ID
			in.CreatedAt = cur.CreatedAt
			return in
		})
		if err != nil {
			storeError(w, err)
			return
		}
		s.summaryCache.Purge()
		writeJSON(w, http.StatusOK, updated)
	case http.MethodDelete:
		s.expenses.Delete(r.Context(), id)
		s.summaryCache.Purge()
		w.WriteHeader(http.StatusNoContent)
	default:
		methodNotAllowed(w)
	}
}

func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		typeFilter := r.URL.Query().Get("type")
		propertyFilter := r.URL.Query().Get("property")
		writeJSON(w, http.StatusOK, finance.FilterTransactions(s.transactions.List(), typeFilter, propertyFilter))
	case http.MethodPost:
		var t core.Transaction
		if !decodeBody(w, r, &t) {
			return
		}
		created, err := s.transactions.Add(r.Context(), t)
		if err != nil {
			storeError(w, err)
			return
		}
		s.summaryCache.Purge()
		writeJSON(w, http.StatusCreated, created)
	default:
		methodNotAllowed(w)
	}
}

func (s *Server) handleTransactionByID(w http.ResponseWriter, r *http.Request) {
	parts := pathTail(r.URL.Path, "/api/transactions")
	if len(parts) != 1 {
		http.NotFound(w, r)
		return
	}
	id := parts[0]

	switch r.Method {
	case http.MethodPut:
		var in core.Transaction
		if !decodeBody(w, r, &in) {
			return
		}
		updated, err := s.transactions.Modify(r.Context(), id, func(cur core.Transaction) core.Transaction {
			in.ID = cur.ID
			in.CreatedAt = cur.CreatedAt
			return in
		})
		if err != nil {
			storeError(w, err)
			return
		}
		s.summaryCache.Purge()
		writeJSON(w, http.StatusOK, updated)
	case http.MethodDelete:
		s.transactions.Delete(r.Context(), id)
		s.summaryCache.Purge()
		w.WriteHeader(http.StatusNoContent)
	default:
		methodNotAllowed(w)
	}
}

func (s *Server) handleRentPayments(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		if propertyID := r.URL.Query().Get("property"); propertyID != "" {
			writeJSON(w, http.StatusOK, s.rents.ForProperty(propertyID))
			return
		}
		writeJSON(w, http.StatusOK, s.rents.List())
	case http.MethodPost:
		var p core.RentPayment
		if !decodeBody(w, r, &p) {
			return
		}
		created, err := s.rents.Add(r.Context(), p)
		if err != nil {
			storeError(w, err)
			return
		}
		s.summaryCache.Purge()
		writeJSON(w, http.StatusCreated, created)
	default:
		methodNotAllowed(w)
	}
}

func (s *Server) handleRentPaymentByID(w http.ResponseWriter, r *http.Request) {
	parts := pathTail(r.URL.Path, "/api/rent")
	if len(parts) != 1 {
		http.NotFound(w, r)
		return
	}
	id := parts[0]

	switch r.Method {
	case http.MethodPut:
		var in core.RentPayment
		if !decodeBody(w, r, &in) {
			return
		}
		updated, err := s.rents.Modify(r.Context(), id, func(cur core.RentPayment) core.RentPayment {
			in.ID = cur.ID
			in.CreatedAt = cur.CreatedAt
			return in
		})
		if err != nil {
			storeError(w, err)
			return
		}
		s.summaryCache.Purge()
		writeJSON(w, http.StatusOK, updated)
	case http.MethodDelete:
		s.rents.Delete(r.Context(), id)
		s.summaryCache.Purge()
		w.WriteHeader(http.StatusNoContent)
	default:
		methodNotAllowed(w)
	}
}

func (s *Server) handleProperties(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, s.properties.List())
	case http.MethodPost:
		var p core.Property
		if !decodeBody(w, r, &p) {
			return
		}
		created, err := s.properties.Add(r.Context(), p)
		if err != nil {
			storeError(w, err)
			return
		}
		s.summaryCache.Purge()
		writeJSON(w, http.StatusCreated, created)
	default:
		methodNotAllowed(w)
	}
}

// handlePropertySubtree routes /api/properties/financials, the
// per-property paths and the tenant sub-resources.
func (s *Server) handlePropertySubtree(w http.ResponseWriter, r *http.Request) {
	parts := pathTail(r.URL.Path, "/api/properties")
	switch {
	case len(parts) == 1 && parts[0] == "financials":
		s.handlePropertyFinancials(w, r)
	case len(parts) == 1:
		s.handlePropertyByID(w, r, parts[0])
	case len(parts) == 2 && parts[1] == "tenants":
		s.handleTenants(w, r, parts[0], "")
	case len(parts) == 3 && parts[1] == "tenants":
		s.handleTenants(w, r, parts[0], parts[2])
	default:
		http.NotFound(w, r)
	}
}

func (s *Server) handlePropertyByID(w http.ResponseWriter, r *http.Request, id string) {
	switch r.Method {
	case http.MethodGet:
		p, ok := s.properties.Get(id)
		if !ok {
			writeError(w, http.StatusNotFound, store.ErrNotFound)
			return
		}
		writeJSON(w, http.StatusOK, p)
	case http.MethodPut:
		var in core.Property
		if !decodeBody(w, r, &in) {
			return
		}
		updated, err := s.properties.Modify(r.Context(), id, func(cur core.Property) core.Property {
			in.ID = cur.ID
			in.CreatedAt = cur.CreatedAt
			return in
		})
		if err != nil {
			storeError(w, err)
			return
		}
		s.summaryCache.Purge()
		writeJSON(w, http.StatusOK, updated)
	case http.MethodDelete:
		s.properties.Delete(r.Context(), id)
		s.summaryCache.Purge()
		w.WriteHeader(http.StatusNoContent)
	default:
		methodNotAllowed(w)
	}
}

func (s *Server) handleTenants(w http.ResponseWriter, r *http.Request, propertyID, tenantID string) {
	switch r.Method {
	case http.MethodPost, http.MethodPut:
		var t core.Tenant
		if !decodeBody(w, r, &t) {
			return
		}
		if err := s.properties.AddOrUpdateTenant(r.Context(), propertyID, t); err != nil {
			storeError(w, err)
			return
		}
		p, _ := s.properties.Get(propertyID)
		writeJSON(w, http.StatusOK, p)
	case http.MethodDelete:
		if err := s.properties.RemoveTenant(r.Context(), propertyID, tenantID); err != nil {
			storeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		methodNotAllowed(w)
	}
}

type dashboardSummary struct {
	TotalIncome       decimal.Decimal                   `json:"totalIncome"`
	TotalExpenses     decimal.Decimal                   `json:"totalExpenses"`
	Profit            decimal.Decimal                   `json:"profit"`
	ExpenseTotal      decimal.Decimal                   `json:"expenseTotal"`
	MonthlyBreakdown  map[string]finance.MonthTotals    `json:"monthlyBreakdown"`
	PropertyBreakdown map[string]finance.PropertyTotals `json:"propertyBreakdown"`
	ExpenseCategories map[string]decimal.Decimal        `json:"expenseCategories"`
}

const summaryCacheKey = "dashboard"

func (s *Server) handleDashboardSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}

	if cached, ok := s.summaryCache.Get(summaryCacheKey); ok {
		writeJSON(w, http.StatusOK, cached)
		return
	}

	txs := s.transactions.List()
	expenses := s.expenses.List()
	summary := dashboardSummary{
		TotalIncome:       finance.TotalIncome(txs, ""),
		TotalExpenses:     finance.TotalExpenses(txs, ""),
		Profit:            finance.Profit(txs, ""),
		ExpenseTotal:      finance.ExpenseTotal(expenses, ""),
		MonthlyBreakdown:  finance.MonthlyBreakdown(txs),
		PropertyBreakdown: finance.PropertyBreakdown(txs),
		ExpenseCategories: finance.ExpensesByCategory(expenses),
	}
	s.summaryCache.Set(summaryCacheKey, summary)
	writeJSON(w, http.StatusOK, summary)
}

type propertyFinancialsResponse struct {
	Properties []finance.PropertyFinancials `json:"properties"`
	Totals     finance.PortfolioTotals      `json:"totals"`
}

func (s *Server) handlePropertyFinancials(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}

	rows, totals := finance.PortfolioYearToDate(
		s.properties.List(), s.rents.List(), s.expenses.List(), time.Now())
	writeJSON(w, http.StatusOK, propertyFinancialsResponse{
		Properties: rows,
		Totals:     totals,
	})
}
