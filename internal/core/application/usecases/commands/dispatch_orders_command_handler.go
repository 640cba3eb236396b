package commands

import (
	"context"
	"errors"
	"time"

	"khabarlagbe/internal/core/domain/model/kernel"
	"khabarlagbe/internal/core/domain/model/offer"
	"khabarlagbe/internal/core/domain/model/order"
	"khabarlagbe/internal/core/domain/model/rider"
	"khabarlagbe/internal/core/domain/services"
	"khabarlagbe/internal/core/ports"
)

// DispatchOrdersCommandHandler orchestrates one dispatch pass over every
// ready order without a rider.
//
// Each pass:
//   - expires pending offers whose response window closed
//   - skips orders that already have an offer in flight
//   - offers each remaining order to its nearest dispatchable rider,
//     excluding riders who already turned the order down
//   - flags an order for manual dispatch once its candidate pool is
//     exhausted; flagged orders are never auto-cancelled
type DispatchOrdersCommandHandler struct {
	uowFactory  UoWFactory
	offers      ports.OfferStore
	samples     ports.SampleStore
	offerWindow time.Duration
	dispatcher  services.RiderDispatcher
	offerOut    ports.OfferPublisher
	fanOut      eventFanOut
}

// NewDispatchOrdersCommandHandler creates a handler for dispatch passes.
func NewDispatchOrdersCommandHandler(
	uowFactory UoWFactory,
	offers ports.OfferStore,
	samples ports.SampleStore,
	offerWindow time.Duration,
	offerOut ports.OfferPublisher,
	events ports.EventPublisher,
	notifications ports.NotificationPublisher,
) DispatchOrdersCommandHandler {
	return DispatchOrdersCommandHandler{
		uowFactory:  uowFactory,
		offers:      offers,
		samples:     samples,
		offerWindow: offerWindow,
		dispatcher:  services.NewRiderDispatcher(),
		offerOut:    offerOut,
		fanOut:      newEventFanOut(events, notifications),
	}
}

// Handle processes one dispatch pass. Orders that cannot be offered right
// now are left for the next pass rather than failing the whole run.
func (h *DispatchOrdersCommandHandler) Handle(ctx context.Context, cmd DispatchOrdersCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	now := time.Now()
	if err := h.expireOverdueOffers(ctx, now); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	awaiting, err := orderRepo.GetAllAwaitingDispatch(ctx)
	if err != nil {
		return err
	}
	if len(awaiting) == 0 {
		return uow.Commit(ctx)
	}

	dispatchable, err := uow.RiderRepository().GetAllDispatchable(ctx)
	if err != nil {
		return err
	}

	var flagged []*order.Order
	var opened []*offer.Offer
	for _, aggregate := range awaiting {
		before := aggregate.Version()
		newOffer, err := h.dispatchOne(ctx, orderRepo, aggregate, dispatchable, now)
		if err != nil {
			return err
		}
		if newOffer != nil {
			opened = append(opened, newOffer)
		}
		if aggregate.Version() != before {
			flagged = append(flagged, aggregate)
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	for _, o := range opened {
		_ = h.offerOut.PublishOffer(ctx, o)
	}
	for _, aggregate := range flagged {
		h.fanOut.fanOut(ctx, aggregate)
	}
	return nil
}

// dispatchOne offers one order to the nearest rider that has not declined it
// yet, or flags it for manual dispatch when nobody is left to ask.
func (h *DispatchOrdersCommandHandler) dispatchOne(
	ctx context.Context,
	orderRepo ports.OrderRepository,
	aggregate *order.Order,
	dispatchable []*rider.Rider,
	now time.Time,
) (*offer.Offer, error) {
	pending, err := h.offers.GetPendingForOrder(ctx, aggregate.ID())
	if err != nil {
		return nil, err
	}
	if pending != nil {
		return nil, nil
	}

	declined, err := h.offers.DeclinedRiders(ctx, aggregate.ID())
	if err != nil {
		return nil, err
	}

	candidates, err := h.collectCandidates(ctx, dispatchable, declined)
	if err != nil {
		return nil, err
	}

	selected, err := h.dispatcher.SelectRider(aggregate, candidates)
	if errors.Is(err, services.ErrRiderNotFound) {
		// Exhausted means every remaining rider already said no. An empty
		// pool with no answers yet just waits for riders to come online.
		if len(declined) == 0 {
			return nil, nil
		}
		if err = aggregate.FlagManualDispatch(); err != nil {
			return nil, err
		}
		return nil, orderRepo.Update(ctx, aggregate)
	}
	if err != nil {
		return nil, err
	}

	newOffer, err := offer.NewOffer(aggregate.ID(), selected.ID(), now, h.offerWindow)
	if err != nil {
		return nil, err
	}
	if err = h.offers.Put(ctx, newOffer); err != nil {
		return nil, err
	}
	return newOffer, nil
}

func (h *DispatchOrdersCommandHandler) collectCandidates(
	ctx context.Context,
	dispatchable []*rider.Rider,
	declined []kernel.UUID,
) ([]services.Candidate, error) {
	declinedSet := make(map[kernel.UUID]struct{}, len(declined))
	for _, id := range declined {
		declinedSet[id] = struct{}{}
	}

	candidates := make([]services.Candidate, 0, len(dispatchable))
	for _, r := range dispatchable {
		if _, ok := declinedSet[r.ID()]; ok {
			continue
		}
		sample, found, err := h.samples.Latest(ctx, r.ID())
		if err != nil {
			return nil, err
		}
		if !found {
			continue
		}
		candidates = append(candidates, services.Candidate{Rider: r, LastSeen: sample})
	}
	return candidates, nil
}

func (h *DispatchOrdersCommandHandler) expireOverdueOffers(ctx context.Context, now time.Time) error {
	overdue, err := h.offers.GetAllExpired(ctx)
	if err != nil {
		return err
	}
	for _, o := range overdue {
		_, err = h.offers.Resolve(ctx, o.ID(), func(pending *offer.Offer) error {
			return pending.Expire(now)
		})
		if err != nil && !errors.Is(err, offer.ErrOfferAlreadyResolved) {
			return err
		}
	}
	return nil
}
