package order

import (
	"fmt"

	"khabarlagbe/internal/core/domain/model/kernel"
	"khabarlagbe/internal/pkg/errs"
)

// Status represents the lifecycle state of an order. It implements a state
// machine whose transitions are keyed by the actor requesting them, so the
// same target state can be legal for one app and illegal for another.
//
// Happy path:
//
//	Pending → Confirmed → Preparing → ReadyForPickup → PickedUp → OnTheWay → Delivered
//
// Cancelled and Rejected branch off before PickedUp. Delivered, Cancelled,
// and Rejected are terminal: no transition leaves them.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	Unknown Status = iota

	// Pending is the initial status: the customer has placed the order and
	// the restaurant has not yet responded.
	Pending

	// Confirmed means the restaurant accepted the order and committed to a
	// preparation estimate.
	Confirmed

	// Preparing means the kitchen has started. The customer's cancellation
	// window closes at this point.
	Preparing

	// ReadyForPickup means the food is packed and waiting for a rider.
	// Dispatch runs while an order is in this status with no assigned rider.
	ReadyForPickup

	// PickedUp means the assigned rider verified the pickup OTP and has
	// the order. Location tracking starts here.
	PickedUp

	// OnTheWay means the rider is moving toward the customer.
	OnTheWay

	// Delivered is the terminal success status, reached only through
	// delivery OTP verification.
	Delivered

	// Cancelled is the terminal status for customer (or support) cancellation.
	Cancelled

	// Rejected is the terminal status for restaurant rejection of a
	// pending order.
	Rejected
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:        "UNKNOWN",
		Pending:        "PENDING",
		Confirmed:      "CONFIRMED",
		Preparing:      "PREPARING",
		ReadyForPickup: "READY_FOR_PICKUP",
		PickedUp:       "PICKED_UP",
		OnTheWay:       "ON_THE_WAY",
		Delivered:      "DELIVERED",
		Cancelled:      "CANCELLED",
		Rejected:       "REJECTED",
	}
}

// StatusFromString parses the wire representation of a status.
func StatusFromString(s string) (Status, error) {
	for status, name := range getStatusStrings() {
		if status != Unknown && name == s {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a valid status", s))
}

// Validate checks that the Status is one of the defined lifecycle states.
// Unknown (0) and out-of-range values are invalid.
func (s Status) Validate() error {
	if s < Pending || s > Rejected {
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the wire representation ("PENDING", "CONFIRMED", ...).
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "UNKNOWN"
}

// IsTerminal reports whether no further transitions may leave this status.
func (s Status) IsTerminal() bool {
	return s == Delivered || s == Cancelled || s == Rejected
}

// transitionKey identifies one cell of the transition table.
type transitionKey struct {
	from  Status
	actor kernel.Role
}

// getTransitionTable returns the authoritative transition table: for each
// (current status, requesting actor) pair, the set of legal target statuses.
// Self-transitions for RoleSystem and RoleRider on ReadyForPickup cover the
// versioned non-status mutations (rider assignment, arrival, manual-dispatch
// flag), which append a timeline entry without changing the status.
func getTransitionTable() map[transitionKey][]Status {
	return map[transitionKey][]Status{
		// Restaurant app.
		{Pending, kernel.RoleRestaurant}:   {Confirmed, Rejected},
		{Confirmed, kernel.RoleRestaurant}: {Preparing},
		{Preparing, kernel.RoleRestaurant}: {ReadyForPickup},

		// Rider app.
		{ReadyForPickup, kernel.RoleRider}: {PickedUp, ReadyForPickup},
		{PickedUp, kernel.RoleRider}:       {OnTheWay},
		{OnTheWay, kernel.RoleRider}:       {Delivered},

		// Customer app: cancellation window closes once Preparing begins.
		{Pending, kernel.RoleCustomer}:   {Cancelled},
		{Confirmed, kernel.RoleCustomer}: {Cancelled},

		// Backend: rider assignment and manual-dispatch flagging are
		// self-transitions; support cancellation works pre-pickup.
		{ReadyForPickup, kernel.RoleSystem}: {ReadyForPickup, Cancelled},
		{Pending, kernel.RoleSystem}:        {Cancelled},
		{Confirmed, kernel.RoleSystem}:      {Cancelled},
		{Preparing, kernel.RoleSystem}:      {Cancelled},
	}
}

// Transition validates and performs a state transition requested by actor.
// Any (status, actor, target) combination outside the transition table is
// rejected with an InvalidTransitionError carrying all three values; an
// illegal request is never silently ignored.
func (s Status) Transition(actor kernel.Role, target Status) (Status, error) {
	if err := actor.Validate(); err != nil {
		return Unknown, err
	}
	if err := target.Validate(); err != nil {
		return Unknown, err
	}

	for _, allowed := range getTransitionTable()[transitionKey{from: s, actor: actor}] {
		if allowed == target {
			return target, nil
		}
	}

	return Unknown, NewInvalidTransitionError(s, target, actor)
}
