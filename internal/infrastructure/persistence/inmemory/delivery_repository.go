package inmemory

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/rcarvalho-pb/checkout_relay-go/internal/domain/delivery"
)

type DeliveryRepository struct {
	mu         sync.RWMutex
	deliveries []delivery.Delivery
	ids        map[string]struct{}
}

func NewDeliveryRepository() *DeliveryRepository {
	return &DeliveryRepository{
		ids: make(map[string]struct{}),
	}
}

func (r *DeliveryRepository) Save(_ context.Context, d *delivery.Delivery) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.ids[d.ID]; exists {
		return fmt.Errorf("delivery %s already recorded", d.ID)
	}

	r.ids[d.ID] = struct{}{}
	r.deliveries = append(r.deliveries, *d)
	return nil
}

func (r *DeliveryRepository) FindDelivered(_ context.Context, sessionID string) (*delivery.Delivery, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, d := range r.deliveries {
		if d.SessionID == sessionID && d.Status == delivery.StatusDelivered {
			return &d, nil
		}
	}

	return nil, delivery.ErrDeliveryNotFound
}

func (r *DeliveryRepository) ListBySession(_ context.Context, sessionID string) ([]delivery.Delivery, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []delivery.Delivery
	for _, d := range r.deliveries {
		if d.SessionID == sessionID {
			out = append(out, d)
		}
	}

	return out, nil
}

// Deliveries returns a copy of every recorded delivery in insertion order.
func (r *DeliveryRepository) Deliveries() []delivery.Delivery {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return slices.Clone(r.deliveries)
}
