package store

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"rentbook/internal/core"
	"rentbook/internal/notify"
)

func newPropertyFixture(t *testing.T) (*PropertyStore, *captureNotifier, core.Property) {
	t.Helper()
	notes := &captureNotifier{}
	s := NewPropertyStore(nil, notes)
	p, err := s.Add(context.Background(), core.Property{
		Name:        "Maple House",
		MonthlyRent: decimal.NewFromInt(1200),
	})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	notes.notes = nil
	return s, notes, p
}

func TestAddOrUpdateTenant_AppendsWithFreshID(t *testing.T) {
	s, notes, p := newPropertyFixture(t)
	ctx := context.Background()

	if err := s.AddOrUpdateTenant(ctx, p.ID, core.Tenant{Name: "Ana"}); err != nil {
		t.Fatalf("AddOrUpdateTenant: %v", err)
	}

	got, _ := s.Get(p.ID)
	if len(got.Tenants) != 1 {
		t.Fatalf("tenants = %v", got.Tenants)
	}
	if got.Tenants[0].ID == "" || got.Tenants[0].ID == core.LegacyTenantID {
		t.Errorf("tenant id %q not freshly assigned", got.Tenants[0].ID)
	}
	if got.Tenant == nil || got.Tenant.Name != "Ana" {
		t.Errorf("legacy mirror = %+v", got.Tenant)
	}
	if len(notes.notes) != 1 || notes.notes[0].message != "Tenant saved" {
		t.Errorf("notifications = %v", notes.notes)
	}
}

func TestAddOrUpdateTenant_UpdatesInPlace(t *testing.T) {
	s, _, p := newPropertyFixture(t)
	ctx := context.Background()

	s.AddOrUpdateTenant(ctx, p.ID, core.Tenant{Name: "Ana"})
	s.AddOrUpdateTenant(ctx, p.ID, core.Tenant{Name: "Ben"})

	got, _ := s.Get(p.ID)
	if len(got.Tenants) != 2 {
		t.Fatalf("tenants = %v", got.Tenants)
	}
	anaID := got.Tenants[0].ID

	if err := s.AddOrUpdateTenant(ctx, p.ID, core.Tenant{ID: anaID, Name: "Ana Maria", Email: "ana@example.com"}); err != nil {
		t.Fatalf("update: %v", err)
	}
	got, _ = s.Get(p.ID)
	if len(got.Tenants) != 2 {
		t.Fatalf("update changed tenant count: %v", got.Tenants)
	}
	if got.Tenants[0].Name != "Ana Maria" || got.Tenants[0].Email != "ana@example.com" {
		t.Errorf("tenant not updated: %+v", got.Tenants[0])
	}
	if got.Tenant.Name != "Ana Maria" {
		t.Errorf("legacy mirror stale: %+v", got.Tenant)
	}
}

func TestAddOrUpdateTenant_ReplacesLegacyTenant(t *testing.T) {
	s, _, p := newPropertyFixture(t)
	ctx := context.Background()

	// Seed old-shape data: single tenant field, no list.
	s.Modify(ctx, p.ID, func(prop core.Property) core.Property {
		prop.Tenant = &core.Tenant{Name: "Old Tenant"}
		prop.Tenants = nil
		return prop
	})

	// Editing the synthesized legacy tenant promotes it to a real one.
	if err := s.AddOrUpdateTenant(ctx, p.ID, core.Tenant{ID: core.LegacyTenantID, Name: "Old Tenant", Phone: "555-0100"}); err != nil {
		t.Fatalf("AddOrUpdateTenant: %v", err)
	}

	got, _ := s.Get(p.ID)
	if len(got.Tenants) != 1 {
		t.Fatalf("tenants = %v", got.Tenants)
	}
	if got.Tenants[0].ID == core.LegacyTenantID || got.Tenants[0].ID == "" {
		t.Errorf("legacy id survived: %q", got.Tenants[0].ID)
	}
	if got.Tenants[0].Phone != "555-0100" {
		t.Errorf("tenant = %+v", got.Tenants[0])
	}
}

func TestAddOrUpdateTenant_MissingProperty(t *testing.T) {
	s, notes, _ := newPropertyFixture(t)

	err := s.AddOrUpdateTenant(context.Background(), "missing", core.Tenant{Name: "Ana"})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	if len(notes.notes) != 1 || notes.notes[0].severity != notify.Error {
		t.Errorf("notifications = %v, want one error", notes.notes)
	}
	if notes.notes[0].message != "Error: property not found" {
		t.Errorf("message = %q", notes.notes[0].message)
	}
}

func TestRemoveTenant(t *testing.T) {
	s, _, p := newPropertyFixture(t)
	ctx := context.Background()

	s.AddOrUpdateTenant(ctx, p.ID, core.Tenant{Name: "Ana"})
	s.AddOrUpdateTenant(ctx, p.ID, core.Tenant{Name: "Ben"})
	got, _ := s.Get(p.ID)
	anaID := got.Tenants[0].ID

	if err := s.RemoveTenant(ctx, p.ID, anaID); err != nil {
		t.Fatalf("RemoveTenant: %v", err)
	}
	got, _ = s.Get(p.ID)
	if len(got.Tenants) != 1 || got.Tenants[0].Name != "Ben" {
		t.Errorf("tenants = %v", got.Tenants)
	}
	if got.Tenant == nil || got.Tenant.Name != "Ben" {
		t.Errorf("legacy mirror = %+v", got.Tenant)
	}
}

func TestRemoveTenant_EmptyIDClearsAll(t *testing.T) {
	s, _, p := newPropertyFixture(t)
	ctx := context.Background()

	s.AddOrUpdateTenant(ctx, p.ID, core.Tenant{Name: "Ana"})
	s.AddOrUpdateTenant(ctx, p.ID, core.Tenant{Name: "Ben"})

	if err := s.RemoveTenant(ctx, p.ID, ""); err != nil {
		t.Fatalf("RemoveTenant: %v", err)
	}
	got, _ := s.Get(p.ID)
	if len(got.Tenants) != 0 {
		t.Errorf("tenants = %v, want none", got.Tenants)
	}
	if got.Tenant != nil {
		t.Errorf("legacy mirror = %+v, want nil", got.Tenant)
	}
}

func TestPropertyModifyIsSilent(t *testing.T) {
	s, notes, p := newPropertyFixture(t)

	_, err := s.Modify(context.Background(), p.ID, func(prop core.Property) core.Property {
		prop.Notes = "repainted"
		return prop
	})
	if err != nil {
		t.Fatalf("Modify: %v", err)
	}
	if len(notes.notes) != 0 {
		t.Errorf("property update notified: %v", notes.notes)
	}
}
