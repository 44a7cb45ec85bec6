package store

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"rentbook/internal/core"
	"rentbook/internal/notify"
)

// RentStore holds rent payment records.
type RentStore struct {
	*Collection[core.RentPayment]
}

func NewRentStore(save SaveFunc[core.RentPayment], notifier notify.Notifier) *RentStore {
	return &RentStore{
		Collection: NewCollection(
			func(r core.RentPayment) string { return r.ID },
			stampRentPayment,
			core.RentPayment.Validate,
			save,
			notifier,
		),
	}
}

func stampRentPayment(r core.RentPayment) core.RentPayment {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}
	return r
}

func (s *RentStore) Add(ctx context.Context, r core.RentPayment) (core.RentPayment, error) {
	return s.Create(ctx, r, "Rent payment recorded")
}

func (s *RentStore) Modify(ctx context.Context, id string, mutate func(core.RentPayment) core.RentPayment) (core.RentPayment, error) {
	return s.Update(ctx, id, mutate, "Payment updated")
}

func (s *RentStore) Delete(ctx context.Context, id string) {
	s.Remove(ctx, id, "Payment deleted")
}

// ForProperty returns this property's payments, newest month first.
func (s *RentStore) ForProperty(propertyID string) []core.RentPayment {
	all := s.List()
	out := make([]core.RentPayment, 0, len(all))
	for _, r := range all {
		if r.PropertyID == propertyID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month > out[j].Month })
	return out
}
