package commands

import (
	"context"

	"khabarlagbe/internal/core/domain/model/kernel"
	"khabarlagbe/internal/core/ports"
)

// CancelOrderCommandHandler handles order cancellation. A cancellation that
// races a restaurant transition loses the optimistic-concurrency check and
// surfaces errs.ErrVersionConflict instead of silently overwriting.
type CancelOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	fanOut     eventFanOut
}

// NewCancelOrderCommandHandler creates a handler for order cancellation.
func NewCancelOrderCommandHandler(
	uowFactory OrderUoWFactory,
	events ports.EventPublisher,
	notifications ports.NotificationPublisher,
) CancelOrderCommandHandler {
	return CancelOrderCommandHandler{
		uowFactory: uowFactory,
		fanOut:     newEventFanOut(events, notifications),
	}
}

// Handle loads the order, applies the cancellation transition, and persists it.
func (h *CancelOrderCommandHandler) Handle(ctx context.Context, cmd CancelOrderCommand) error {
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

	if cmd.Actor() == kernel.RoleCustomer {
		if err = aggregate.ValidateActingCustomer(cmd.ActorID()); err != nil {
			return err
		}
	}

	if err = aggregate.Cancel(cmd.Actor(), cmd.Note()); err != nil {
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
