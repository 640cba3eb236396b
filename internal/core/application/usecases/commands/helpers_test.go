package commands_test

import (
	"testing"

	"khabarlagbe/internal/core/domain/model/kernel"
	"khabarlagbe/internal/core/domain/model/order"

	"github.com/stretchr/testify/require"
)

func mustGeoPoint(t *testing.T, lat, lon float64) kernel.GeoPoint {
	t.Helper()
	p, err := kernel.NewGeoPoint(lat, lon)
	require.NoError(t, err)
	return p
}

// newStoredOrder creates an order as the repository would return it, with
// creation events already drained.
func newStoredOrder(t *testing.T) *order.Order {
	t.Helper()
	o, err := order.NewOrder(
		kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(),
		mustGeoPoint(t, 23.7805, 90.2792), mustGeoPoint(t, 23.8103, 90.4125),
	)
	require.NoError(t, err)
	o.PullEvents()
	return o
}

// newReadyOrder returns a stored order in ReadyForPickup with no rider.
func newReadyOrder(t *testing.T) *order.Order {
	t.Helper()
	o := newStoredOrder(t)
	require.NoError(t, o.Confirm(15))
	require.NoError(t, o.StartPreparing())
	require.NoError(t, o.MarkReady())
	o.PullEvents()
	return o
}

// newInTransitOrder returns a stored order in OnTheWay assigned to riderID.
func newInTransitOrder(t *testing.T, riderID kernel.UUID) *order.Order {
	t.Helper()
	o := newReadyOrder(t)
	require.NoError(t, o.AssignRider(riderID))
	require.NoError(t, o.Pickup(riderID))
	require.NoError(t, o.StartDelivery(riderID))
	o.PullEvents()
	return o
}
