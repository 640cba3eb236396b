package order

import (
	"time"

	"khabarlagbe/internal/core/domain/model/kernel"
)

// EventKind tags the typed event sum broadcast over the event channel.
// Each accepted order mutation produces exactly one event; the kind tells
// subscribers which optional fields are meaningful.
type EventKind string

const (
	// KindNewOrder announces a freshly placed order to the restaurant room.
	KindNewOrder EventKind = "new_order"

	// KindOrderUpdated carries every plain status transition.
	KindOrderUpdated EventKind = "order_updated"

	// KindOrderCancelled marks the terminal Cancelled transition.
	KindOrderCancelled EventKind = "order_cancelled"

	// KindRiderAssigned announces the dispatch winner; RiderID is set.
	KindRiderAssigned EventKind = "rider_assigned"

	// KindRiderArrived marks the rider reporting arrival at the restaurant.
	KindRiderArrived EventKind = "rider_arrived"

	// KindRiderLocation carries a live location sample. Location events are
	// not order mutations: they have no version and never enter the
	// timeline or the reconciliation delta.
	KindRiderLocation EventKind = "rider_location"
)

// Event is one element of the typed event sum produced by the order
// aggregate and consumed by the event channel, the notification publisher,
// and client projections.
//
// Version is the ordering and idempotence authority: subscribers discard
// any event with Version <= their local version, which makes at-least-once
// delivery safe. Timestamp is the server clock at the moment the mutation
// was accepted; client clocks never order events.
type Event struct {
	Kind      EventKind
	OrderID   kernel.UUID
	Version   int64
	Status    Status
	Timestamp time.Time
	Actor     kernel.Role
	Note      string

	// CustomerID and RestaurantID route the event to the actor rooms.
	// They are zero on KindRiderLocation events, which only reach
	// subscribers of the order room.
	CustomerID   kernel.UUID
	RestaurantID kernel.UUID

	// RiderID is set on KindRiderAssigned and KindRiderLocation events.
	RiderID *kernel.UUID

	// Location, BearingDeg, and SpeedMps are set on KindRiderLocation only.
	Location   *kernel.GeoPoint
	BearingDeg float64
	SpeedMps   float64
}

// NewRiderLocationEvent builds the unversioned live-tracking event for one
// position sample. It never appears in the timeline; subscribers overwrite
// the previous marker position and move on.
func NewRiderLocationEvent(
	orderID, riderID kernel.UUID,
	position kernel.GeoPoint,
	bearingDeg, speedMps float64,
	capturedAt time.Time,
) Event {
	id := riderID
	pos := position
	return Event{
		Kind:       KindRiderLocation,
		OrderID:    orderID,
		Timestamp:  capturedAt,
		Actor:      kernel.RoleRider,
		RiderID:    &id,
		Location:   &pos,
		BearingDeg: bearingDeg,
		SpeedMps:   speedMps,
	}
}
