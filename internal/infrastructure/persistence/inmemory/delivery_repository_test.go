package inmemory_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rcarvalho-pb/checkout_relay-go/internal/domain/delivery"
	"github.com/rcarvalho-pb/checkout_relay-go/internal/infrastructure/persistence/inmemory"
)

func TestDeliveryRepository_FindDeliveredIgnoresFailures(t *testing.T) {
	repo := inmemory.NewDeliveryRepository()
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, &delivery.Delivery{ID: "d-1", SessionID: "cs_1", Status: delivery.StatusFailed}))

	_, err := repo.FindDelivered(ctx, "cs_1")
	require.ErrorIs(t, err, delivery.ErrDeliveryNotFound)

	require.NoError(t, repo.Save(ctx, &delivery.Delivery{ID: "d-2", SessionID: "cs_1", Status: delivery.StatusDelivered}))

	d, err := repo.FindDelivered(ctx, "cs_1")
	require.NoError(t, err)
	require.Equal(t, "d-2", d.ID)

	list, err := repo.ListBySession(ctx, "cs_1")
	require.NoError(t, err)
	require.Len(t, list, 2)
}

func TestDeliveryRepository_RejectsDuplicateID(t *testing.T) {
	repo := inmemory.NewDeliveryRepository()
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, &delivery.Delivery{ID: "d-1", SessionID: "cs_1"}))
	require.Error(t, repo.Save(ctx, &delivery.Delivery{ID: "d-1", SessionID: "cs_1"}))
}

func TestDeliveryRepository_ConcurrentSaves(t *testing.T) {
	repo := inmemory.NewDeliveryRepository()
	ctx := context.Background()

	var wg sync.WaitGroup
	for _, id := range []string{"a", "b", "c", "d"} {
		id := id
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = repo.Save(ctx, &delivery.Delivery{ID: id, SessionID: "cs_race"})
		}()
	}
	wg.Wait()

	require.Len(t, repo.Deliveries(), 4)
}
