package commands

import (
	"errors"

	"khabarlagbe/internal/core/domain/model/kernel"
	"khabarlagbe/internal/pkg/guard"
)

var ErrReportRiderArrivalCommandIsNotConstructed = errors.New(
	"ReportRiderArrivalCommand must be created via NewReportRiderArrivalCommand constructor",
)

// ReportRiderArrivalCommand represents the assigned rider reporting arrival
// at the restaurant. The status does not change; the arrival is a versioned
// timeline entry so every party sees it.
type ReportRiderArrivalCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	riderID kernel.UUID

	guard guard.ConstructorGuard
}

// NewReportRiderArrivalCommand creates a command to record rider arrival.
func NewReportRiderArrivalCommand(orderID, riderID kernel.UUID) (ReportRiderArrivalCommand, error) {
	cmd := ReportRiderArrivalCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setRiderID(riderID),
	); err != nil {
		return ReportRiderArrivalCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c ReportRiderArrivalCommand) Validate() error {
	return c.guard.Validate(ErrReportRiderArrivalCommandIsNotConstructed)
}

// OrderID returns the order the rider arrived for.
func (c ReportRiderArrivalCommand) OrderID() kernel.UUID { return c.orderID }

// RiderID returns the arriving rider.
func (c ReportRiderArrivalCommand) RiderID() kernel.UUID { return c.riderID }

func (c *ReportRiderArrivalCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	c.orderID = orderID
	return nil
}

func (c *ReportRiderArrivalCommand) setRiderID(riderID kernel.UUID) error {
	if err := riderID.Validate(); err != nil {
		return err
	}
	c.riderID = riderID
	return nil
}
