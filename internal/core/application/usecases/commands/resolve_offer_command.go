package commands

import (
	"errors"

	"khabarlagbe/internal/core/domain/model/kernel"
	"khabarlagbe/internal/pkg/guard"
)

var ErrResolveOfferCommandIsNotConstructed = errors.New(
	"ResolveOfferCommand must be created via NewResolveOfferCommand constructor",
)

// ResolveOfferCommand represents a rider answering a dispatch offer. Exactly
// one resolution wins per offer; a tap that loses the race surfaces
// offer.OfferAlreadyResolvedError to the caller.
type ResolveOfferCommand struct { //nolint:recvcheck //using for validation
	offerID kernel.UUID
	riderID kernel.UUID
	accept  bool

	guard guard.ConstructorGuard
}

// NewResolveOfferCommand creates a command to accept or decline an offer.
func NewResolveOfferCommand(offerID, riderID kernel.UUID, accept bool) (ResolveOfferCommand, error) {
	cmd := ResolveOfferCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOfferID(offerID),
		cmd.setRiderID(riderID),
	); err != nil {
		return ResolveOfferCommand{}, err
	}
	cmd.accept = accept

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c ResolveOfferCommand) Validate() error {
	return c.guard.Validate(ErrResolveOfferCommandIsNotConstructed)
}

// OfferID returns the offer being answered.
func (c ResolveOfferCommand) OfferID() kernel.UUID { return c.offerID }

// RiderID returns the rider answering.
func (c ResolveOfferCommand) RiderID() kernel.UUID { return c.riderID }

// Accept reports whether the rider accepted the offer.
func (c ResolveOfferCommand) Accept() bool { return c.accept }

func (c *ResolveOfferCommand) setOfferID(offerID kernel.UUID) error {
	if err := offerID.Validate(); err != nil {
		return err
	}
	c.offerID = offerID
	return nil
}

func (c *ResolveOfferCommand) setRiderID(riderID kernel.UUID) error {
	if err := riderID.Validate(); err != nil {
		return err
	}
	c.riderID = riderID
	return nil
}
