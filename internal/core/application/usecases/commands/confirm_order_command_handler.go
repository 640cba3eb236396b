package commands

import (
	"context"

	"khabarlagbe/internal/core/ports"
)

// ConfirmOrderCommandHandler handles restaurant confirmation of a pending order.
type ConfirmOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	fanOut     eventFanOut
}

// NewConfirmOrderCommandHandler creates a handler for order confirmation.
func NewConfirmOrderCommandHandler(
	uowFactory OrderUoWFactory,
	events ports.EventPublisher,
	notifications ports.NotificationPublisher,
) ConfirmOrderCommandHandler {
	return ConfirmOrderCommandHandler{
		uowFactory: uowFactory,
		fanOut:     newEventFanOut(events, notifications),
	}
}

// Handle loads the order, applies the confirmation transition, and persists
// it under optimistic concurrency. The order_updated event is broadcast only
// after a successful commit.
func (h *ConfirmOrderCommandHandler) Handle(ctx context.Context, cmd ConfirmOrderCommand) error {
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

	if err = aggregate.Confirm(cmd.PrepMinutes()); err != nil {
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
