package commands

import (
	"context"
	"time"

	"khabarlagbe/internal/core/domain/model/offer"
	"khabarlagbe/internal/core/ports"
	"khabarlagbe/internal/pkg/errs"
)

// ResolveOfferCommandHandler handles rider answers to dispatch offers. The
// offer store serializes resolution, so concurrent answers to the same offer
// produce exactly one winner; the order assignment then runs under the
// database transaction with optimistic concurrency as a second fence.
type ResolveOfferCommandHandler struct {
	uowFactory UoWFactory
	offers     ports.OfferStore
	fanOut     eventFanOut
}

// NewResolveOfferCommandHandler creates a handler for offer resolution.
func NewResolveOfferCommandHandler(
	uowFactory UoWFactory,
	offers ports.OfferStore,
	events ports.EventPublisher,
	notifications ports.NotificationPublisher,
) ResolveOfferCommandHandler {
	return ResolveOfferCommandHandler{
		uowFactory: uowFactory,
		offers:     offers,
		fanOut:     newEventFanOut(events, notifications),
	}
}

// Handle resolves the offer and, on acceptance, assigns the rider to the
// order and marks the rider busy.
func (h *ResolveOfferCommandHandler) Handle(ctx context.Context, cmd ResolveOfferCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	stored, err := h.offers.Get(ctx, cmd.OfferID())
	if err != nil {
		return err
	}
	if !stored.RiderID().IsEqual(cmd.RiderID()) {
		return errs.NewValueIsInvalidError("riderID")
	}

	now := time.Now()
	resolved, err := h.offers.Resolve(ctx, cmd.OfferID(), func(o *offer.Offer) error {
		if cmd.Accept() {
			return o.Accept(now)
		}
		return o.Decline()
	})
	if err != nil {
		return err
	}

	if !cmd.Accept() || resolved.Outcome() != offer.OutcomeAccepted {
		return nil
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	aggregate, err := orderRepo.Get(ctx, resolved.OrderID())
	if err != nil {
		return err
	}

	if err = aggregate.AssignRider(cmd.RiderID()); err != nil {
		return err
	}

	riderRepo := uow.RiderRepository()
	winner, err := riderRepo.Get(ctx, cmd.RiderID())
	if err != nil {
		return err
	}
	if err = winner.SetAvailable(false); err != nil {
		return err
	}
	if err = riderRepo.Update(ctx, winner); err != nil {
		return err
	}

	if err = orderRepo.Update(ctx, aggregate); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.fanOut.fanOut(ctx, aggregate)
	return nil
}
