package commands

import (
	"context"

	"khabarlagbe/internal/core/domain/model/rider"
)

// RegisterRiderCommandHandler handles rider enrollment.
type RegisterRiderCommandHandler struct {
	uowFactory UoWFactory
}

// NewRegisterRiderCommandHandler creates a handler for rider registration.
func NewRegisterRiderCommandHandler(uowFactory UoWFactory) RegisterRiderCommandHandler {
	return RegisterRiderCommandHandler{uowFactory: uowFactory}
}

// Handle creates the rider aggregate and persists it.
func (h *RegisterRiderCommandHandler) Handle(ctx context.Context, cmd RegisterRiderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	aggregate, err := rider.NewRider(cmd.RiderID(), cmd.Name())
	if err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.RiderRepository().Add(ctx, aggregate); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
