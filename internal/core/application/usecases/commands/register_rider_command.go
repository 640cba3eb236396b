package commands

import (
	"errors"

	"khabarlagbe/internal/core/domain/model/kernel"
	"khabarlagbe/internal/pkg/errs"
	"khabarlagbe/internal/pkg/guard"
)

var ErrRegisterRiderCommandIsNotConstructed = errors.New(
	"RegisterRiderCommand must be created via NewRegisterRiderCommand constructor",
)

// RegisterRiderCommand enrolls a rider into the dispatch pool. A freshly
// registered rider starts offline and available.
type RegisterRiderCommand struct { //nolint:recvcheck //using for validation
	riderID kernel.UUID
	name    string

	guard guard.ConstructorGuard
}

// NewRegisterRiderCommand creates a command to register a rider.
func NewRegisterRiderCommand(riderID kernel.UUID, name string) (RegisterRiderCommand, error) {
	cmd := RegisterRiderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := riderID.Validate(); err != nil {
		return RegisterRiderCommand{}, err
	}
	if name == "" {
		return RegisterRiderCommand{}, errs.NewValueIsRequiredError("name")
	}

	cmd.riderID = riderID
	cmd.name = name
	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c RegisterRiderCommand) Validate() error {
	return c.guard.Validate(ErrRegisterRiderCommandIsNotConstructed)
}

// RiderID returns the identifier for the new rider.
func (c RegisterRiderCommand) RiderID() kernel.UUID { return c.riderID }

// Name returns the rider's display name.
func (c RegisterRiderCommand) Name() string { return c.name }
