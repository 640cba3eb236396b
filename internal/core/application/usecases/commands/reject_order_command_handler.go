package commands

import (
	"context"

	"khabarlagbe/internal/core/ports"
)

// RejectOrderCommandHandler handles restaurant rejection of a pending order.
type RejectOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	fanOut     eventFanOut
}

// NewRejectOrderCommandHandler creates a handler for order rejection.
func NewRejectOrderCommandHandler(
	uowFactory OrderUoWFactory,
	events ports.EventPublisher,
	notifications ports.NotificationPublisher,
) RejectOrderCommandHandler {
	return RejectOrderCommandHandler{
		uowFactory: uowFactory,
		fanOut:     newEventFanOut(events, notifications),
	}
}

// Handle loads the order, applies the rejection transition, and persists it.
func (h *RejectOrderCommandHandler) Handle(ctx context.Context, cmd RejectOrderCommand) error {
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

	if err = aggregate.Reject(cmd.Reason()); err != nil {
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
