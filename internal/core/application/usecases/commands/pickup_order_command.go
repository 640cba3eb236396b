package commands

import (
	"errors"

	"khabarlagbe/internal/core/domain/model/kernel"
	"khabarlagbe/internal/pkg/errs"
	"khabarlagbe/internal/pkg/guard"
)

var ErrPickupOrderCommandIsNotConstructed = errors.New(
	"PickupOrderCommand must be created via NewPickupOrderCommand constructor",
)

// PickupOrderCommand represents the assigned rider collecting the order at
// the restaurant. The hand-off is guarded by a pickup code the restaurant
// reads to the rider.
type PickupOrderCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	riderID kernel.UUID
	otpCode string

	guard guard.ConstructorGuard
}

// NewPickupOrderCommand creates a command to record the restaurant hand-off.
func NewPickupOrderCommand(orderID, riderID kernel.UUID, otpCode string) (PickupOrderCommand, error) {
	cmd := PickupOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setRiderID(riderID),
		cmd.setOtpCode(otpCode),
	); err != nil {
		return PickupOrderCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c PickupOrderCommand) Validate() error {
	return c.guard.Validate(ErrPickupOrderCommandIsNotConstructed)
}

// OrderID returns the order being collected.
func (c PickupOrderCommand) OrderID() kernel.UUID { return c.orderID }

// RiderID returns the rider collecting the order.
func (c PickupOrderCommand) RiderID() kernel.UUID { return c.riderID }

// OtpCode returns the pickup code the rider presented.
func (c PickupOrderCommand) OtpCode() string { return c.otpCode }

func (c *PickupOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	c.orderID = orderID
	return nil
}

func (c *PickupOrderCommand) setRiderID(riderID kernel.UUID) error {
	if err := riderID.Validate(); err != nil {
		return err
	}
	c.riderID = riderID
	return nil
}

func (c *PickupOrderCommand) setOtpCode(otpCode string) error {
	if otpCode == "" {
		return errs.NewValueIsRequiredError("otpCode")
	}
	c.otpCode = otpCode
	return nil
}
