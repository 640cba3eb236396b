package commands

import (
	"context"

	"khabarlagbe/internal/core/ports"
)

// CompleteDeliveryCommandHandler handles the customer hand-off. On success
// the rider becomes available for new offers again.
type CompleteDeliveryCommandHandler struct {
	uowFactory UoWFactory
	otp        ports.OtpVerifier
	fanOut     eventFanOut
}

// NewCompleteDeliveryCommandHandler creates a handler for delivery completion.
func NewCompleteDeliveryCommandHandler(
	uowFactory UoWFactory,
	otp ports.OtpVerifier,
	events ports.EventPublisher,
	notifications ports.NotificationPublisher,
) CompleteDeliveryCommandHandler {
	return CompleteDeliveryCommandHandler{
		uowFactory: uowFactory,
		otp:        otp,
		fanOut:     newEventFanOut(events, notifications),
	}
}

// Handle verifies the delivery code, applies the delivered transition, frees
// the rider, and persists both aggregates in one transaction.
func (h *CompleteDeliveryCommandHandler) Handle(ctx context.Context, cmd CompleteDeliveryCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	if err := h.otp.Verify(ctx, cmd.OrderID(), ports.OtpStageDelivery, cmd.OtpCode()); err != nil {
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

	if err = aggregate.CompleteDelivery(cmd.RiderID()); err != nil {
		return err
	}

	riderRepo := uow.RiderRepository()
	assignedRider, err := riderRepo.Get(ctx, cmd.RiderID())
	if err != nil {
		return err
	}
	// A rider whose connection dropped mid-delivery stays unavailable until
	// the app reports online again.
	if err = assignedRider.SetAvailable(true); err == nil {
		if err = riderRepo.Update(ctx, assignedRider); err != nil {
			return err
		}
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
