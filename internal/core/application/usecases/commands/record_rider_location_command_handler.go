package commands

import (
	"context"

	"khabarlagbe/internal/core/domain/model/order"
	"khabarlagbe/internal/core/ports"
)

// RecordRiderLocationCommandHandler handles live position reports. Samples
// are last-write-wins by capture time and never touch the order aggregate.
// A report is vetted against the order before anything is stored, so the
// sample store only ever ranks riders whose reports were accepted.
type RecordRiderLocationCommandHandler struct {
	uowFactory OrderUoWFactory
	samples    ports.SampleStore
	events     ports.EventPublisher
}

// NewRecordRiderLocationCommandHandler creates a handler for location reports.
func NewRecordRiderLocationCommandHandler(
	uowFactory OrderUoWFactory,
	samples ports.SampleStore,
	events ports.EventPublisher,
) RecordRiderLocationCommandHandler {
	return RecordRiderLocationCommandHandler{
		uowFactory: uowFactory,
		samples:    samples,
		events:     events,
	}
}

// Handle vets the report against the order, then stores the sample and
// relays it to the order's rooms. A report for a terminal order or from a
// rider who is not assigned never reaches the store. Stale samples are
// dropped without error; losing one report is fine because the next one
// supersedes it anyway.
func (h *RecordRiderLocationCommandHandler) Handle(ctx context.Context, cmd RecordRiderLocationCommand) error {
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

	aggregate, err := uow.OrderRepository().Get(ctx, cmd.OrderID())
	if err != nil {
		return err
	}

	sample := cmd.Sample()
	if aggregate.Status().IsTerminal() {
		return nil
	}
	if err = aggregate.ValidateReportingRider(sample.RiderID()); err != nil {
		return err
	}

	kept, err := h.samples.Record(ctx, sample)
	if err != nil {
		return err
	}
	if !kept {
		return nil
	}

	event := order.NewRiderLocationEvent(
		cmd.OrderID(), sample.RiderID(),
		sample.Position(), sample.BearingDeg(), sample.SpeedMps(),
		sample.CapturedAt(),
	)
	_ = h.events.Publish(ctx, event)
	return nil
}
