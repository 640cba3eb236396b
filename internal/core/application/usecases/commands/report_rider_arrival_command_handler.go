package commands

import (
	"context"

	"khabarlagbe/internal/core/ports"
)

// ReportRiderArrivalCommandHandler records the rider reaching the restaurant.
type ReportRiderArrivalCommandHandler struct {
	uowFactory OrderUoWFactory
	fanOut     eventFanOut
}

// NewReportRiderArrivalCommandHandler creates a handler for arrival reports.
func NewReportRiderArrivalCommandHandler(
	uowFactory OrderUoWFactory,
	events ports.EventPublisher,
	notifications ports.NotificationPublisher,
) ReportRiderArrivalCommandHandler {
	return ReportRiderArrivalCommandHandler{
		uowFactory: uowFactory,
		fanOut:     newEventFanOut(events, notifications),
	}
}

// Handle loads the order, records the arrival entry, and persists it.
func (h *ReportRiderArrivalCommandHandler) Handle(ctx context.Context, cmd ReportRiderArrivalCommand) error {
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

	if err = aggregate.RiderArrived(cmd.RiderID()); err != nil {
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
