package commands

import (
	"context"
)

// SetRiderAvailabilityCommandHandler handles shift start and end.
type SetRiderAvailabilityCommandHandler struct {
	uowFactory UoWFactory
}

// NewSetRiderAvailabilityCommandHandler creates a handler for shift changes.
func NewSetRiderAvailabilityCommandHandler(uowFactory UoWFactory) SetRiderAvailabilityCommandHandler {
	return SetRiderAvailabilityCommandHandler{uowFactory: uowFactory}
}

// Handle loads the rider and flips the online flag.
func (h *SetRiderAvailabilityCommandHandler) Handle(ctx context.Context, cmd SetRiderAvailabilityCommand) error {
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

	riderRepo := uow.RiderRepository()
	aggregate, err := riderRepo.Get(ctx, cmd.RiderID())
	if err != nil {
		return err
	}

	aggregate.SetOnline(cmd.Online())

	if err = riderRepo.Update(ctx, aggregate); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
