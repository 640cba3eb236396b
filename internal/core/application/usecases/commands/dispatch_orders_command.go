package commands

import (
	"errors"

	"khabarlagbe/internal/pkg/guard"
)

var ErrDispatchOrdersCommandIsNotConstructed = errors.New(
	"DispatchOrdersCommand must be created via NewDispatchOrdersCommand constructor",
)

// DispatchOrdersCommand triggers one dispatch pass: expire overdue offers,
// open new offers for ready orders without one, and flag orders whose
// candidate pool is exhausted for manual dispatch.
//
// The command is parameterless; the cron scheduler fires it every second.
type DispatchOrdersCommand struct {
	guard guard.ConstructorGuard
}

// NewDispatchOrdersCommand creates a new command to trigger a dispatch pass.
func NewDispatchOrdersCommand() DispatchOrdersCommand {
	return DispatchOrdersCommand{
		guard: guard.NewConstructorGuard(),
	}
}

// Validate ensures the command was created through the constructor.
func (c *DispatchOrdersCommand) Validate() error {
	return c.guard.Validate(
		ErrDispatchOrdersCommandIsNotConstructed,
	)
}
