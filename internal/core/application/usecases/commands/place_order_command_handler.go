package commands

import (
	"context"

	"khabarlagbe/internal/core/domain/model/order"
	"khabarlagbe/internal/core/ports"
)

// PlaceOrderCommandHandler handles the business logic for placing orders.
// Creates the order in Pending status and announces it to the restaurant's
// room and the notification pipeline.
type PlaceOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	fanOut     eventFanOut
}

// NewPlaceOrderCommandHandler creates a handler for order placement.
func NewPlaceOrderCommandHandler(
	uowFactory OrderUoWFactory,
	events ports.EventPublisher,
	notifications ports.NotificationPublisher,
) PlaceOrderCommandHandler {
	return PlaceOrderCommandHandler{
		uowFactory: uowFactory,
		fanOut:     newEventFanOut(events, notifications),
	}
}

// Handle processes the order placement command.
// Uses a transaction to ensure the order is persisted or rolled back on error;
// the new_order event is broadcast only after a successful commit.
func (h *PlaceOrderCommandHandler) Handle(ctx context.Context, cmd PlaceOrderCommand) error {
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

	aggregate, err := order.NewOrder(
		cmd.OrderID(), cmd.CustomerID(), cmd.RestaurantID(),
		cmd.Pickup(), cmd.Dropoff(),
	)
	if err != nil {
		return err
	}

	if err = uow.OrderRepository().Add(ctx, aggregate); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.fanOut.fanOut(ctx, aggregate)
	return nil
}
