package offer

import (
	"errors"
	"fmt"
	"time"

	"khabarlagbe/internal/core/domain/model/kernel"
	"khabarlagbe/internal/pkg/errs"
)

// Outcome is the resolution state of a delivery offer.
type Outcome int

const (
	// OutcomePending means the rider has not responded yet.
	OutcomePending Outcome = iota
	// OutcomeAccepted means the rider claimed the order.
	OutcomeAccepted
	// OutcomeDeclined means the rider turned the offer down.
	OutcomeDeclined
	// OutcomeExpired means the response window elapsed without an answer.
	OutcomeExpired
)

// String returns the outcome's wire name.
func (o Outcome) String() string {
	switch o {
	case OutcomePending:
		return "pending"
	case OutcomeAccepted:
		return "accepted"
	case OutcomeDeclined:
		return "declined"
	case OutcomeExpired:
		return "expired"
	}
	return "unknown"
}

// ErrOfferAlreadyResolved is the sentinel for a second resolution attempt.
var ErrOfferAlreadyResolved = errors.New("offer already resolved")

// ErrOfferIsNotConstructed is returned when an Offer was not created via
// NewOffer or RestoreOffer.
var ErrOfferIsNotConstructed = errors.New("Offer must be created via NewOffer or RestoreOffer")

// OfferAlreadyResolvedError reports an attempt to resolve an offer that
// already reached a terminal outcome. It carries the outcome that won so the
// caller can tell a lost race from a duplicate tap.
type OfferAlreadyResolvedError struct {
	OfferID  kernel.UUID
	Resolved Outcome
}

func (e *OfferAlreadyResolvedError) Error() string {
	return fmt.Sprintf("%s: offer %s is %s", ErrOfferAlreadyResolved, e.OfferID, e.Resolved)
}

func (e *OfferAlreadyResolvedError) Unwrap() error {
	return ErrOfferAlreadyResolved
}

// Offer is one dispatch proposal: a specific order held out to a specific
// rider for a bounded response window. An offer resolves exactly once; the
// first of accept, decline or expiry wins and every later attempt fails with
// OfferAlreadyResolvedError.
type Offer struct {
	id        kernel.UUID
	orderID   kernel.UUID
	riderID   kernel.UUID
	outcome   Outcome
	offeredAt time.Time
	expiresAt time.Time

	isConstructed bool
}

// NewOffer creates a pending offer with the given response window.
func NewOffer(orderID, riderID kernel.UUID, offeredAt time.Time, window time.Duration) (*Offer, error) {
	if err := orderID.Validate(); err != nil {
		return nil, errs.NewValueIsInvalidErrorWithCause("orderID", err)
	}
	if err := riderID.Validate(); err != nil {
		return nil, errs.NewValueIsInvalidErrorWithCause("riderID", err)
	}
	if offeredAt.IsZero() {
		return nil, errs.NewValueIsRequiredError("offeredAt")
	}
	if window <= 0 {
		return nil, errs.NewValueIsInvalidError("offer window must be positive")
	}

	return &Offer{
		id:            kernel.NewUUID(),
		orderID:       orderID,
		riderID:       riderID,
		outcome:       OutcomePending,
		offeredAt:     offeredAt,
		expiresAt:     offeredAt.Add(window),
		isConstructed: true,
	}, nil
}

// RestoreOffer reconstructs an offer from persistence.
func RestoreOffer(
	id, orderID, riderID kernel.UUID,
	outcome Outcome,
	offeredAt, expiresAt time.Time,
) (*Offer, error) {
	if err := id.Validate(); err != nil {
		return nil, errs.NewValueIsInvalidErrorWithCause("id", err)
	}
	o, err := NewOffer(orderID, riderID, offeredAt, expiresAt.Sub(offeredAt))
	if err != nil {
		return nil, err
	}
	o.id = id
	o.outcome = outcome
	return o, nil
}

// Validate ensures the Offer was created through a constructor.
func (o *Offer) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOfferIsNotConstructed
	}
	return nil
}

// ID returns the offer's unique identifier.
func (o *Offer) ID() kernel.UUID { return o.id }

// OrderID returns the order this offer proposes.
func (o *Offer) OrderID() kernel.UUID { return o.orderID }

// RiderID returns the rider the offer was made to.
func (o *Offer) RiderID() kernel.UUID { return o.riderID }

// Outcome returns the offer's current resolution state.
func (o *Offer) Outcome() Outcome { return o.outcome }

// OfferedAt returns when the offer was issued.
func (o *Offer) OfferedAt() time.Time { return o.offeredAt }

// ExpiresAt returns the end of the response window.
func (o *Offer) ExpiresAt() time.Time { return o.expiresAt }

// IsPending reports whether the offer can still be resolved.
func (o *Offer) IsPending() bool { return o.outcome == OutcomePending }

// Accept resolves the offer in the rider's favor. An acceptance that arrives
// after the window closed loses to expiry.
func (o *Offer) Accept(at time.Time) error {
	if !at.Before(o.expiresAt) {
		if err := o.resolve(OutcomeExpired); err != nil {
			return err
		}
		return &OfferAlreadyResolvedError{OfferID: o.id, Resolved: o.outcome}
	}
	return o.resolve(OutcomeAccepted)
}

// Decline resolves the offer against the rider.
func (o *Offer) Decline() error {
	return o.resolve(OutcomeDeclined)
}

// Expire resolves the offer as timed out. Expiry before the window closes is
// rejected so a fast sweep cannot steal a rider's remaining response time.
func (o *Offer) Expire(at time.Time) error {
	if at.Before(o.expiresAt) {
		return errs.NewValueIsInvalidError("offer window has not elapsed")
	}
	return o.resolve(OutcomeExpired)
}

func (o *Offer) resolve(outcome Outcome) error {
	if o.outcome != OutcomePending {
		return &OfferAlreadyResolvedError{OfferID: o.id, Resolved: o.outcome}
	}
	o.outcome = outcome
	return nil
}
