package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"rentbook/internal/core"
	"rentbook/internal/notify"
)

// PropertyStore holds properties and their tenant sub-records.
type PropertyStore struct {
	*Collection[core.Property]
}

func NewPropertyStore(save SaveFunc[core.Property], notifier notify.Notifier) *PropertyStore {
	return &PropertyStore{
		Collection: NewCollection(
			func(p core.Property) string { return p.ID },
			stampProperty,
			core.Property.Validate,
			save,
			notifier,
		),
	}
}

func stampProperty(p core.Property) core.Property {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	return p
}

func (s *PropertyStore) Add(ctx context.Context, p core.Property) (core.Property, error) {
	return s.Create(ctx, p, "Property added")
}

// Modify updates a property silently. Field edits on a property carry
// no notification of their own.
func (s *PropertyStore) Modify(ctx context.Context, id string, mutate func(core.Property) core.Property) (core.Property, error) {
	return s.Update(ctx, id, mutate, "")
}

func (s *PropertyStore) Delete(ctx context.Context, id string) {
	s.Remove(ctx, id, "Property deleted")
}

// AddOrUpdateTenant upserts a tenant on the given property. A tenant
// with a real id is updated in place. A tenant without an id is
// appended with a fresh one. A tenant carrying the legacy id replaces
// the synthesized legacy entry and moves to the front, keeping the
// other tenants. The first tenant is mirrored into the property's
// legacy single-tenant field either way.
func (s *PropertyStore) AddOrUpdateTenant(ctx context.Context, propertyID string, tenant core.Tenant) error {
	_, err := s.Update(ctx, propertyID, func(p core.Property) core.Property {
		current := p.TenantList()

		var next []core.Tenant
		switch {
		case tenant.ID != "" && tenant.ID != core.LegacyTenantID:
			next = make([]core.Tenant, len(current))
			copy(next, current)
			for i, t := range next {
				if t.ID == tenant.ID {
					next[i] = tenant
				}
			}
		case tenant.ID == core.LegacyTenantID:
			tenant.ID = uuid.NewString()
			next = append([]core.Tenant{tenant}, withoutTenant(current, core.LegacyTenantID)...)
		default:
			tenant.ID = uuid.NewString()
			next = append(withoutTenant(current, core.LegacyTenantID), tenant)
		}

		return withTenants(p, next)
	}, "Tenant saved")

	if errors.Is(err, ErrNotFound) {
		s.Notifier().Notify("Error: property not found", notify.Error)
	}
	return err
}

// RemoveTenant removes the tenant with the given id, or every tenant
// when the id is empty. The empty-id form exists for old callers only.
func (s *PropertyStore) RemoveTenant(ctx context.Context, propertyID, tenantID string) error {
	_, err := s.Update(ctx, propertyID, func(p core.Property) core.Property {
		if tenantID == "" {
			return withTenants(p, nil)
		}
		return withTenants(p, withoutTenant(p.TenantList(), tenantID))
	}, "")
	if err != nil {
		return err
	}
	s.Notifier().Notify("Tenant removed", notify.Info)
	return nil
}

func withoutTenant(tenants []core.Tenant, id string) []core.Tenant {
	out := make([]core.Tenant, 0, len(tenants))
	for _, t := range tenants {
		if t.ID != id {
			out = append(out, t)
		}
	}
	return out
}

// withTenants sets the tenant list and refreshes the legacy mirror.
func withTenants(p core.Property, tenants []core.Tenant) core.Property {
	p.Tenants = tenants
	if len(tenants) > 0 {
		first := tenants[0]
		p.Tenant = &first
	} else {
		p.Tenant = nil
	}
	return p
}
