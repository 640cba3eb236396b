package commands

import (
	"context"

	"khabarlagbe/internal/core/ports"
)

// StartDeliveryCommandHandler handles the transition onto the road.
type StartDeliveryCommandHandler struct {
	uowFactory OrderUoWFactory
	fanOut     eventFanOut
}

// NewStartDeliveryCommandHandler creates a handler for starting delivery.
func NewStartDeliveryCommandHandler(
	uowFactory OrderUoWFactory,
	events ports.EventPublisher,
	notifications ports.NotificationPublisher,
) StartDeliveryCommandHandler {
	return StartDeliveryCommandHandler{
		uowFactory: uowFactory,
		fanOut:     newEventFanOut(events, notifications),
	}
}

// Handle loads the order, applies the on-the-way transition, and persists it.
func (h *StartDeliveryCommandHandler) Handle(ctx context.Context, cmd StartDeliveryCommand) error {
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

	if err = aggregate.StartDelivery(cmd.RiderID()); err != nil {
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
