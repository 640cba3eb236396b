package commands

import (
	"context"

	"khabarlagbe/internal/core/ports"
)

// StartPreparingCommandHandler handles the transition into preparation.
type StartPreparingCommandHandler struct {
	uowFactory OrderUoWFactory
	fanOut     eventFanOut
}

// NewStartPreparingCommandHandler creates a handler for starting preparation.
func NewStartPreparingCommandHandler(
	uowFactory OrderUoWFactory,
	events ports.EventPublisher,
	notifications ports.NotificationPublisher,
) StartPreparingCommandHandler {
	return StartPreparingCommandHandler{
		uowFactory: uowFactory,
		fanOut:     newEventFanOut(events, notifications),
	}
}

// Handle loads the order, applies the preparation transition, and persists it.
func (h *StartPreparingCommandHandler) Handle(ctx context.Context, cmd StartPreparingCommand) error {
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

	if err = aggregate.StartPreparing(); err != nil {
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
