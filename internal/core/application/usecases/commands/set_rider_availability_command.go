package commands

import (
	"errors"

	"khabarlagbe/internal/core/domain/model/kernel"
	"khabarlagbe/internal/pkg/guard"
)

var ErrSetRiderAvailabilityCommandIsNotConstructed = errors.New(
	"SetRiderAvailabilityCommand must be created via NewSetRiderAvailabilityCommand constructor",
)

// SetRiderAvailabilityCommand toggles a rider's shift state. Online controls
// whether the rider participates in dispatch at all; a rider who goes offline
// mid-delivery keeps the active order.
type SetRiderAvailabilityCommand struct { //nolint:recvcheck //using for validation
	riderID kernel.UUID
	online  bool

	guard guard.ConstructorGuard
}

// NewSetRiderAvailabilityCommand creates a command to set a rider's shift state.
func NewSetRiderAvailabilityCommand(riderID kernel.UUID, online bool) (SetRiderAvailabilityCommand, error) {
	cmd := SetRiderAvailabilityCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := riderID.Validate(); err != nil {
		return SetRiderAvailabilityCommand{}, err
	}

	cmd.riderID = riderID
	cmd.online = online
	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c SetRiderAvailabilityCommand) Validate() error {
	return c.guard.Validate(ErrSetRiderAvailabilityCommandIsNotConstructed)
}

// RiderID returns the rider whose shift state changes.
func (c SetRiderAvailabilityCommand) RiderID() kernel.UUID { return c.riderID }

// Online reports whether the rider is starting or ending a shift.
func (c SetRiderAvailabilityCommand) Online() bool { return c.online }
