package order

import (
	"errors"
	"fmt"
	"time"

	"khabarlagbe/internal/core/domain/model/kernel"
	"khabarlagbe/internal/pkg/errs"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not
	// created through NewOrder or RestoreOrder.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder or RestoreOrder")

	// ErrPrepEstimateIsRequired is returned when a restaurant confirms
	// without a positive preparation estimate.
	ErrPrepEstimateIsRequired = errors.New("estimated preparation time is required to confirm an order")

	// ErrRejectReasonTooShort is returned when a rejection reason is
	// shorter than MinRejectReasonLength.
	ErrRejectReasonTooShort = fmt.Errorf(
		"rejection reason must be at least %d characters", MinRejectReasonLength)

	// ErrRiderAlreadyAssigned is returned when dispatch tries to assign a
	// rider to an order that already has one.
	ErrRiderAlreadyAssigned = errors.New("order already has an assigned rider")

	// ErrRiderNotAssigned is returned when a rider issues a command for an
	// order they are not assigned to.
	ErrRiderNotAssigned = errors.New("rider is not assigned to this order")

	// ErrNotOrderRestaurant is returned when a restaurant command carries
	// an actor id other than the order's restaurant.
	ErrNotOrderRestaurant = errors.New("actor is not this order's restaurant")

	// ErrNotOrderCustomer is returned when a customer command carries an
	// actor id other than the customer who placed the order.
	ErrNotOrderCustomer = errors.New("actor is not this order's customer")
)

const (
	// MinRejectReasonLength is the minimum rejection reason length; the
	// customer sees this text, so one-word rejections are not accepted.
	MinRejectReasonLength = 10

	// MaxPrepEstimateMinutes bounds the restaurant's preparation estimate.
	MaxPrepEstimateMinutes = 240
)

// Order is the aggregate root for the delivery lifecycle. It owns the state
// machine, the append-only timeline, and the monotonic version used for
// optimistic concurrency and idempotent event replay.
//
// Invariants:
//   - status always equals the status of the last timeline entry
//   - every accepted mutation appends exactly one entry and bumps version by 1
//   - len(timeline) == version+1
//   - timeline timestamps are server-assigned and non-decreasing
//   - terminal statuses (Delivered, Cancelled, Rejected) accept no mutation
//
// The aggregate is pure: it performs no I/O and is safe on any goroutine as
// long as mutations for the same order id are serialized, which the
// repository's version check enforces.
type Order struct {
	id           kernel.UUID
	customerID   kernel.UUID
	restaurantID kernel.UUID

	// pickup is the restaurant location, dropoff the customer address.
	pickup  kernel.GeoPoint
	dropoff kernel.GeoPoint

	riderID             *kernel.UUID
	prepMinutes         int
	needsManualDispatch bool

	status   Status
	version  int64
	timeline []TimelineEntry

	// baseVersion is the version at load time; repositories use it as the
	// compare-and-swap expectation when persisting.
	baseVersion int64

	// pending holds events produced by mutations since load, drained by
	// the handler after a successful commit.
	pending []Event

	isConstructed bool
}

// NewOrder creates an order in Pending status with a single timeline entry
// at version 0 and a pending new_order event.
func NewOrder(id, customerID, restaurantID kernel.UUID, pickup, dropoff kernel.GeoPoint) (*Order, error) {
	if err := errors.Join(
		id.Validate(),
		customerID.Validate(),
		restaurantID.Validate(),
		pickup.Validate(),
		dropoff.Validate(),
	); err != nil {
		return nil, err
	}

	o := &Order{
		id:            id,
		customerID:    customerID,
		restaurantID:  restaurantID,
		pickup:        pickup,
		dropoff:       dropoff,
		status:        Pending,
		version:       0,
		baseVersion:   -1,
		isConstructed: true,
	}

	entry := TimelineEntry{
		Status: Pending,
		At:     time.Now().UTC(),
		Actor:  kernel.RoleCustomer,
		Note:   "order placed",
		Kind:   KindNewOrder,
	}
	o.timeline = []TimelineEntry{entry}
	o.pending = []Event{o.eventFromEntry(entry, 0, nil)}

	return o, nil
}

// RestoreOrder reconstructs an order from persistence, enforcing the
// timeline/version invariants before handing the aggregate back to the domain.
func RestoreOrder(
	id, customerID, restaurantID kernel.UUID,
	pickup, dropoff kernel.GeoPoint,
	riderID *kernel.UUID,
	prepMinutes int,
	needsManualDispatch bool,
	version int64,
	timeline []TimelineEntry,
) (*Order, error) {
	if err := errors.Join(
		id.Validate(),
		customerID.Validate(),
		restaurantID.Validate(),
		pickup.Validate(),
		dropoff.Validate(),
	); err != nil {
		return nil, err
	}
	if riderID != nil {
		if err := riderID.Validate(); err != nil {
			return nil, err
		}
	}
	if err := validateTimeline(timeline); err != nil {
		return nil, err
	}
	if int64(len(timeline)) != version+1 {
		return nil, errs.NewVersionIsInvalidErrorWithCause(
			"order version",
			fmt.Errorf("version %d does not match timeline length %d", version, len(timeline)),
		)
	}

	status := timeline[len(timeline)-1].Status
	entries := make([]TimelineEntry, len(timeline))
	copy(entries, timeline)

	return &Order{
		id:                  id,
		customerID:          customerID,
		restaurantID:        restaurantID,
		pickup:              pickup,
		dropoff:             dropoff,
		riderID:             riderID,
		prepMinutes:         prepMinutes,
		needsManualDispatch: needsManualDispatch,
		status:              status,
		version:             version,
		baseVersion:         version,
		timeline:            entries,
		isConstructed:       true,
	}, nil
}

// Validate ensures the Order was created through a constructor.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

// IsEqual compares two orders by identity.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

// ID returns the order's unique identifier.
func (o *Order) ID() kernel.UUID { return o.id }

// CustomerID returns the ordering customer's identifier.
func (o *Order) CustomerID() kernel.UUID { return o.customerID }

// RestaurantID returns the restaurant's identifier.
func (o *Order) RestaurantID() kernel.UUID { return o.restaurantID }

// PickupPoint returns the restaurant location.
func (o *Order) PickupPoint() kernel.GeoPoint { return o.pickup }

// DropoffPoint returns the customer's delivery address.
func (o *Order) DropoffPoint() kernel.GeoPoint { return o.dropoff }

// Rider returns the assigned rider's ID, or nil before assignment.
func (o *Order) Rider() *kernel.UUID { return o.riderID }

// EstimatedPrepMinutes returns the restaurant's preparation estimate,
// zero until the order is confirmed.
func (o *Order) EstimatedPrepMinutes() int { return o.prepMinutes }

// NeedsManualDispatch reports whether automatic dispatch exhausted its
// candidate pool and handed the order to a human dispatcher.
func (o *Order) NeedsManualDispatch() bool { return o.needsManualDispatch }

// Status returns the current lifecycle status.
func (o *Order) Status() Status { return o.status }

// Version returns the current monotonic version.
func (o *Order) Version() int64 { return o.version }

// BaseVersion returns the version the aggregate was loaded at; the
// persistence adapter uses it as the optimistic-concurrency expectation.
func (o *Order) BaseVersion() int64 { return o.baseVersion }

// Timeline returns a copy of the append-only history.
func (o *Order) Timeline() []TimelineEntry {
	entries := make([]TimelineEntry, len(o.timeline))
	copy(entries, o.timeline)
	return entries
}

// PullEvents drains and returns the events produced by mutations since the
// aggregate was loaded. Handlers call it after a successful commit so that
// nothing is broadcast for a transition that was rolled back.
func (o *Order) PullEvents() []Event {
	events := o.pending
	o.pending = nil
	return events
}

// Confirm accepts a pending order on behalf of the restaurant. A positive
// preparation estimate is mandatory.
func (o *Order) Confirm(prepMinutes int) error {
	if err := o.Validate(); err != nil {
		return err
	}
	if prepMinutes <= 0 {
		return ErrPrepEstimateIsRequired
	}
	if prepMinutes > MaxPrepEstimateMinutes {
		return errs.NewValueIsOutOfRangeError("estimated prep minutes", prepMinutes, 1, MaxPrepEstimateMinutes)
	}

	newStatus, err := o.status.Transition(kernel.RoleRestaurant, Confirmed)
	if err != nil {
		return err
	}

	o.prepMinutes = prepMinutes
	o.apply(KindOrderUpdated, kernel.RoleRestaurant, newStatus,
		fmt.Sprintf("confirmed, estimated preparation %d min", prepMinutes), nil)
	return nil
}

// Reject declines a pending order on behalf of the restaurant. The reason is
// mandatory and shown verbatim to the customer.
func (o *Order) Reject(reason string) error {
	if err := o.Validate(); err != nil {
		return err
	}
	if len(reason) < MinRejectReasonLength {
		return ErrRejectReasonTooShort
	}

	newStatus, err := o.status.Transition(kernel.RoleRestaurant, Rejected)
	if err != nil {
		return err
	}

	o.apply(KindOrderUpdated, kernel.RoleRestaurant, newStatus, reason, nil)
	return nil
}

// StartPreparing marks the kitchen as working on the order. This closes the
// customer's cancellation window.
func (o *Order) StartPreparing() error {
	if err := o.Validate(); err != nil {
		return err
	}

	newStatus, err := o.status.Transition(kernel.RoleRestaurant, Preparing)
	if err != nil {
		return err
	}

	o.apply(KindOrderUpdated, kernel.RoleRestaurant, newStatus, "preparation started", nil)
	return nil
}

// MarkReady marks the food as packed and waiting for a rider. Dispatch picks
// the order up from this status.
func (o *Order) MarkReady() error {
	if err := o.Validate(); err != nil {
		return err
	}

	newStatus, err := o.status.Transition(kernel.RoleRestaurant, ReadyForPickup)
	if err != nil {
		return err
	}

	o.apply(KindOrderUpdated, kernel.RoleRestaurant, newStatus, "ready for pickup", nil)
	return nil
}

// Cancel terminates the order before pickup. Customers may cancel while the
// order is Pending or Confirmed; once Preparing begins the transition table
// rejects the request with an InvalidTransitionError, never silently drops it.
func (o *Order) Cancel(actor kernel.Role, note string) error {
	if err := o.Validate(); err != nil {
		return err
	}

	newStatus, err := o.status.Transition(actor, Cancelled)
	if err != nil {
		return err
	}

	if note == "" {
		note = "order cancelled"
	}
	o.apply(KindOrderCancelled, actor, newStatus, note, nil)
	return nil
}

// ValidateDispatch reports whether the order may be offered to riders: it
// must be awaiting pickup and have no rider yet.
func (o *Order) ValidateDispatch() error {
	if o.status != ReadyForPickup {
		return &InvalidTransitionError{From: o.status, To: ReadyForPickup, Actor: kernel.RoleSystem}
	}
	if o.riderID != nil {
		return ErrRiderAlreadyAssigned
	}
	return nil
}

// ValidateReportingRider checks that riderID is the assigned rider, for
// read paths like live-location relay that act on the rider's behalf.
func (o *Order) ValidateReportingRider(riderID kernel.UUID) error {
	return o.requireAssignedRider(riderID)
}

// ValidateActingRestaurant checks that restaurantID owns this order, for
// commands issued over a channel on the restaurant's behalf.
func (o *Order) ValidateActingRestaurant(restaurantID kernel.UUID) error {
	if err := restaurantID.Validate(); err != nil {
		return err
	}
	if !o.restaurantID.IsEqual(restaurantID) {
		return ErrNotOrderRestaurant
	}
	return nil
}

// ValidateActingCustomer checks that customerID placed this order.
func (o *Order) ValidateActingCustomer(customerID kernel.UUID) error {
	if err := customerID.Validate(); err != nil {
		return err
	}
	if !o.customerID.IsEqual(customerID) {
		return ErrNotOrderCustomer
	}
	return nil
}

// AssignRider records the dispatch winner. Assignment is a versioned
// self-transition: status stays ReadyForPickup, a timeline entry is appended,
// and a rider_assigned event carries the rider id to all rooms.
func (o *Order) AssignRider(riderID kernel.UUID) error {
	if err := o.Validate(); err != nil {
		return err
	}
	if err := riderID.Validate(); err != nil {
		return err
	}
	if o.riderID != nil {
		return ErrRiderAlreadyAssigned
	}

	newStatus, err := o.status.Transition(kernel.RoleSystem, ReadyForPickup)
	if err != nil {
		return err
	}

	assigned := riderID
	o.riderID = &assigned
	o.needsManualDispatch = false
	o.apply(KindRiderAssigned, kernel.RoleSystem, newStatus, "rider assigned", &assigned)
	return nil
}

// FlagManualDispatch records candidate-pool exhaustion. The order stays in
// ReadyForPickup for a human dispatcher; it is never auto-cancelled.
func (o *Order) FlagManualDispatch() error {
	if err := o.Validate(); err != nil {
		return err
	}
	if o.riderID != nil {
		return ErrRiderAlreadyAssigned
	}
	if o.needsManualDispatch {
		return nil
	}

	newStatus, err := o.status.Transition(kernel.RoleSystem, ReadyForPickup)
	if err != nil {
		return err
	}

	o.needsManualDispatch = true
	o.apply(KindOrderUpdated, kernel.RoleSystem, newStatus, "offer pool exhausted, needs manual dispatch", nil)
	return nil
}

// RiderArrived records the assigned rider reporting arrival at the
// restaurant, as a versioned self-transition.
func (o *Order) RiderArrived(riderID kernel.UUID) error {
	if err := o.Validate(); err != nil {
		return err
	}
	if err := o.requireAssignedRider(riderID); err != nil {
		return err
	}

	newStatus, err := o.status.Transition(kernel.RoleRider, ReadyForPickup)
	if err != nil {
		return err
	}

	o.apply(KindRiderArrived, kernel.RoleRider, newStatus, "rider arrived at restaurant", nil)
	return nil
}

// Pickup moves the order to PickedUp. The caller must have verified the
// pickup OTP before invoking this; the aggregate only checks the rider
// identity and the transition table.
func (o *Order) Pickup(riderID kernel.UUID) error {
	if err := o.Validate(); err != nil {
		return err
	}
	if err := o.requireAssignedRider(riderID); err != nil {
		return err
	}

	newStatus, err := o.status.Transition(kernel.RoleRider, PickedUp)
	if err != nil {
		return err
	}

	o.apply(KindOrderUpdated, kernel.RoleRider, newStatus, "picked up from restaurant", nil)
	return nil
}

// StartDelivery moves the order to OnTheWay.
func (o *Order) StartDelivery(riderID kernel.UUID) error {
	if err := o.Validate(); err != nil {
		return err
	}
	if err := o.requireAssignedRider(riderID); err != nil {
		return err
	}

	newStatus, err := o.status.Transition(kernel.RoleRider, OnTheWay)
	if err != nil {
		return err
	}

	o.apply(KindOrderUpdated, kernel.RoleRider, newStatus, "rider on the way", nil)
	return nil
}

// CompleteDelivery moves the order to its terminal Delivered status. The
// caller must have verified the delivery OTP before invoking this.
func (o *Order) CompleteDelivery(riderID kernel.UUID) error {
	if err := o.Validate(); err != nil {
		return err
	}
	if err := o.requireAssignedRider(riderID); err != nil {
		return err
	}

	newStatus, err := o.status.Transition(kernel.RoleRider, Delivered)
	if err != nil {
		return err
	}

	o.apply(KindOrderUpdated, kernel.RoleRider, newStatus, "delivered", nil)
	return nil
}

func (o *Order) requireAssignedRider(riderID kernel.UUID) error {
	if err := riderID.Validate(); err != nil {
		return err
	}
	if o.riderID == nil || !o.riderID.IsEqual(riderID) {
		return ErrRiderNotAssigned
	}
	return nil
}

// apply appends the timeline entry for an accepted mutation, bumps the
// version by exactly one, and queues the corresponding event.
func (o *Order) apply(kind EventKind, actor kernel.Role, status Status, note string, riderID *kernel.UUID) {
	at := time.Now().UTC()
	if last := o.timeline[len(o.timeline)-1].At; at.Before(last) {
		// The server clock stepped backwards; keep the timeline ordered.
		at = last
	}

	entry := TimelineEntry{
		Status: status,
		At:     at,
		Actor:  actor,
		Note:   note,
		Kind:   kind,
	}

	o.timeline = append(o.timeline, entry)
	o.status = status
	o.version++
	o.pending = append(o.pending, o.eventFromEntry(entry, o.version, riderID))
}

func (o *Order) eventFromEntry(entry TimelineEntry, version int64, riderID *kernel.UUID) Event {
	return Event{
		Kind:         entry.Kind,
		OrderID:      o.id,
		Version:      version,
		Status:       entry.Status,
		Timestamp:    entry.At,
		Actor:        entry.Actor,
		Note:         entry.Note,
		RiderID:      riderID,
		CustomerID:   o.customerID,
		RestaurantID: o.restaurantID,
	}
}
