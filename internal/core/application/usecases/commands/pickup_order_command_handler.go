package commands

import (
	"context"

	"khabarlagbe/internal/core/ports"
)

// PickupOrderCommandHandler handles the restaurant hand-off. The pickup code
// is verified before the transition so a wrong code never touches the order.
type PickupOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	otp        ports.OtpVerifier
	fanOut     eventFanOut
}

// NewPickupOrderCommandHandler creates a handler for order pickup.
func NewPickupOrderCommandHandler(
	uowFactory OrderUoWFactory,
	otp ports.OtpVerifier,
	events ports.EventPublisher,
	notifications ports.NotificationPublisher,
) PickupOrderCommandHandler {
	return PickupOrderCommandHandler{
		uowFactory: uowFactory,
		otp:        otp,
		fanOut:     newEventFanOut(events, notifications),
	}
}

// Handle verifies the pickup code, applies the pickup transition, and
// persists the order.
func (h *PickupOrderCommandHandler) Handle(ctx context.Context, cmd PickupOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	if err := h.otp.Verify(ctx, cmd.OrderID(), ports.OtpStagePickup, cmd.OtpCode()); err != nil {
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

	if err = aggregate.Pickup(cmd.RiderID()); err != nil {
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
