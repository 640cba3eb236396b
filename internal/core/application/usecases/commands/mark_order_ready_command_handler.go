package commands

import (
	"context"

	"khabarlagbe/internal/core/ports"
)

// MarkOrderReadyCommandHandler handles the transition into ReadyForPickup.
// The dispatch job picks the order up on its next pass.
type MarkOrderReadyCommandHandler struct {
	uowFactory OrderUoWFactory
	fanOut     eventFanOut
}

// NewMarkOrderReadyCommandHandler creates a handler for marking orders ready.
func NewMarkOrderReadyCommandHandler(
	uowFactory OrderUoWFactory,
	events ports.EventPublisher,
	notifications ports.NotificationPublisher,
) MarkOrderReadyCommandHandler {
	return MarkOrderReadyCommandHandler{
		uowFactory: uowFactory,
		fanOut:     newEventFanOut(events, notifications),
	}
}

// Handle loads the order, applies the ready transition, and persists it.
func (h *MarkOrderReadyCommandHandler) Handle(ctx context.Context, cmd MarkOrderReadyCommand) error {
	if err := cmd.Validate(); err != nil {
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
	aggregate, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return err
	}

	if err = aggregate.ValidateActingRestaurant(cmd.RestaurantID()); err != nil {
		return err
	}

	if err = aggregate.MarkReady(); err != nil {
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
