package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"rentbook/internal/core"
	"rentbook/internal/log"
	"rentbook/internal/store"
)

func testServer(t *testing.T) *Server {
	t.Helper()
	logger := log.New(log.DefaultConfig())
	s := NewServer(":0", Stores{
		Expenses:     store.NewExpenseStore(nil, nil),
		Transactions: store.NewTransactionStore(nil, nil),
		Rents:        store.NewRentStore(nil, nil),
		Properties:   store.NewPropertyStore(nil, nil),
		Hub:          store.NewHub("tester", nil, nil),
	}, logger)
	t.Cleanup(s.rateLimiter.stop)
	return s
}

func doJSON(t *testing.T, s *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	s.Server.Handler.ServeHTTP(rec, req)
	return rec
}

func decodeInto(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func TestExpenseLifecycle(t *testing.T) {
	s := testServer(t)

	rec := doJSON(t, s, http.MethodPost, "/api/expenses", map[string]any{
		"category": "repairs",
		"amount":   "150",
		"date":     "2026-01-05",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body = %s", rec.Code, rec.Body)
	}
	var created core.ExpenseRecord
	decodeInto(t, rec, &created)
	if created.ID == "" {
		t.Fatal("created expense has no id")
	}

	rec = doJSON(t, s, http.MethodPut, "/api/expenses/"+created.ID, map[string]any{
		"category": "repairs",
		"amount":   "200",
		"date":     "2026-01-06",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("update status = %d, body = %s", rec.Code, rec.Body)
	}
	var updated core.ExpenseRecord
	decodeInto(t, rec, &updated)
	if updated.ID != created.ID {
		t.Errorf("update changed id: %s -> %s", created.ID, updated.ID)
	}
	if updated.Date != "2026-01-06" {
		t.Errorf("date = %q", updated.Date)
	}

	rec = doJSON(t, s, http.MethodGet, "/api/expenses", nil)
	var all []core.ExpenseRecord
	decodeInto(t, rec, &all)
	if len(all) != 1 {
		t.Fatalf("list = %v", all)
	}

	rec = doJSON(t, s, http.MethodDelete, "/api/expenses/"+created.ID, nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d", rec.Code)
	}
	rec = doJSON(t, s, http.MethodGet, "/api/expenses", nil)
	decodeInto(t, rec, &all)
	if len(all) != 0 {
		t.Errorf("list after delete = %v", all)
	}
}

func TestCreateExpenseValidation(t *testing.T) {
	s := testServer(t)

	rec := doJSON(t, s, http.MethodPost, "/api/expenses", map[string]any{
		"amount": "150",
		"date":   "2026-01-05",
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestUpdateMissingExpense(t *testing.T) {
	s := testServer(t)

	rec := doJSON(t, s, http.MethodPut, "/api/expenses/ghost", map[string]any{
		"category": "repairs",
		"amount":   "200",
		"date":     "2026-01-06",
	})
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestTransactionFilters(t *testing.T) {
	s := testServer(t)

	for _, body := range []map[string]any{
		{"type": "income", "amount": "1200", "propertyId": "prop-1", "date": "2026-01-01"},
		{"type": "expense", "amount": "300", "propertyId": "prop-1", "date": "2026-01-10"},
		{"type": "income", "amount": "950", "propertyId": "prop-2", "date": "2026-01-03"},
	} {
		if rec := doJSON(t, s, http.MethodPost, "/api/transactions", body); rec.Code != http.StatusCreated {
			t.Fatalf("create status = %d, body = %s", rec.Code, rec.Body)
		}
	}

	rec := doJSON(t, s, http.MethodGet, "/api/transactions?type=income&property=prop-1", nil)
	var got []core.Transaction
	decodeInto(t, rec, &got)
	if len(got) != 1 || got[0].PropertyID != "prop-1" || got[0].Type != core.Income {
		t.Errorf("filtered = %v", got)
	}

	rec = doJSON(t, s, http.MethodGet, "/api/transactions", nil)
	decodeInto(t, rec, &got)
	if len(got) != 3 {
		t.Errorf("unfiltered = %v", got)
	}
}

func TestDashboardSummary(t *testing.T) {
	s := testServer(t)

	doJSON(t, s, http.MethodPost, "/api/transactions", map[string]any{
		"type": "income", "amount": "1200", "propertyId": "prop-1", "date": "2026-01-01",
	})
	doJSON(t, s, http.MethodPost, "/api/transactions", map[string]any{
		"type": "expense", "amount": "300", "date": "2026-01-10",
	})

	rec := doJSON(t, s, http.MethodGet, "/api/dashboard/summary", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var summary dashboardSummary
	decodeInto(t, rec, &summary)
	if summary.Profit.String() != "900" {
		t.Errorf("profit = %s, want 900", summary.Profit)
	}
	if _, ok := summary.PropertyBreakdown["unassigned"]; !ok {
		t.Errorf("property breakdown = %v, missing unassigned", summary.PropertyBreakdown)
	}

	// A mutation invalidates the cached summary.
	doJSON(t, s, http.MethodPost, "/api/transactions", map[string]any{
		"type": "income", "amount": "100", "date": "2026-02-01",
	})
	rec = doJSON(t, s, http.MethodGet, "/api/dashboard/summary", nil)
	decodeInto(t, rec, &summary)
	if summary.Profit.String() != "1000" {
		t.Errorf("profit after mutation = %s, want 1000", summary.Profit)
	}
}

func TestTenantEndpoints(t *testing.T) {
	s := testServer(t)

	rec := doJSON(t, s, http.MethodPost, "/api/properties", map[string]any{
		"name":        "Maple House",
		"monthlyRent": "1200",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create property status = %d, body = %s", rec.Code, rec.Body)
	}
	var prop core.Property
	decodeInto(t, rec, &prop)

	rec = doJSON(t, s, http.MethodPost, "/api/properties/"+prop.ID+"/tenants", map[string]any{
		"name": "Ana",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("add tenant status = %d, body = %s", rec.Code, rec.Body)
	}
	decodeInto(t, rec, &prop)
	if len(prop.Tenants) != 1 || prop.Tenants[0].Name != "Ana" {
		t.Fatalf("tenants = %v", prop.Tenants)
	}

	rec = doJSON(t, s, http.MethodDelete, "/api/properties/"+prop.ID+"/tenants/"+prop.Tenants[0].ID, nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("remove tenant status = %d", rec.Code)
	}

	rec = doJSON(t, s, http.MethodGet, "/api/properties/"+prop.ID, nil)
	prop = core.Property{}
	decodeInto(t, rec, &prop)
	if len(prop.Tenants) != 0 {
		t.Errorf("tenants after remove = %v", prop.Tenants)
	}
}

func TestTenantMissingProperty(t *testing.T) {
	s := testServer(t)

	rec := doJSON(t, s, http.MethodPost, "/api/properties/ghost/tenants", map[string]any{"name": "Ana"})
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestPropertyFinancialsEndpoint(t *testing.T) {
	s := testServer(t)

	doJSON(t, s, http.MethodPost, "/api/properties", map[string]any{
		"name": "Maple House", "monthlyRent": "1200",
	})

	rec := doJSON(t, s, http.MethodGet, "/api/properties/financials", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp propertyFinancialsResponse
	decodeInto(t, rec, &resp)
	if len(resp.Properties) != 1 || resp.Properties[0].PropertyName != "Maple House" {
		t.Errorf("response = %+v", resp)
	}
}

func TestHubTaskEndpoints(t *testing.T) {
	s := testServer(t)

	rec := doJSON(t, s, http.MethodPost, "/api/hub/tasks", map[string]any{"title": "fix gutter"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d", rec.Code)
	}
	var task core.SharedTask
	decodeInto(t, rec, &task)
	if task.Status != core.TaskPending {
		t.Errorf("status = %q", task.Status)
	}

	rec = doJSON(t, s, http.MethodPost, "/api/hub/tasks/"+task.ID+"/complete", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("complete status = %d", rec.Code)
	}
	var tasks []core.SharedTask
	decodeInto(t, rec, &tasks)
	if len(tasks) != 1 || tasks[0].Status != core.TaskDone || tasks[0].CompletedBy != "tester" {
		t.Errorf("tasks = %+v", tasks)
	}

	rec = doJSON(t, s, http.MethodDelete, "/api/hub/tasks/"+task.ID, nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d", rec.Code)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	s := testServer(t)

	rec := doJSON(t, s, http.MethodPatch, "/api/expenses", nil)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", rec.Code)
	}
}

func TestHealthEndpoints(t *testing.T) {
	s := testServer(t)

	for _, path := range []string{"/healthz", "/readyz"} {
		rec := doJSON(t, s, http.MethodGet, path, nil)
		if rec.Code != http.StatusOK {
			t.Errorf("%s status = %d", path, rec.Code)
		}
	}
}
