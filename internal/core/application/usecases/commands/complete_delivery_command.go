package commands

import (
	"errors"

	"khabarlagbe/internal/core/domain/model/kernel"
	"khabarlagbe/internal/pkg/errs"
	"khabarlagbe/internal/pkg/guard"
)

var ErrCompleteDeliveryCommandIsNotConstructed = errors.New(
	"CompleteDeliveryCommand must be created via NewCompleteDeliveryCommand constructor",
)

// CompleteDeliveryCommand represents the customer hand-off. The delivery is
// guarded by a code the customer reads to the rider at the door.
type CompleteDeliveryCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	riderID kernel.UUID
	otpCode string

	guard guard.ConstructorGuard
}

// NewCompleteDeliveryCommand creates a command to record the customer hand-off.
func NewCompleteDeliveryCommand(orderID, riderID kernel.UUID, otpCode string) (CompleteDeliveryCommand, error) {
	cmd := CompleteDeliveryCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setRiderID(riderID),
		cmd.setOtpCode(otpCode),
	); err != nil {
		return CompleteDeliveryCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c CompleteDeliveryCommand) Validate() error {
	return c.guard.Validate(ErrCompleteDeliveryCommandIsNotConstructed)
}

// OrderID returns the order being delivered.
func (c CompleteDeliveryCommand) OrderID() kernel.UUID { return c.orderID }

// RiderID returns the rider completing the delivery.
func (c CompleteDeliveryCommand) RiderID() kernel.UUID { return c.riderID }

// OtpCode returns the delivery code the rider presented.
func (c CompleteDeliveryCommand) OtpCode() string { return c.otpCode }

func (c *CompleteDeliveryCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	c.orderID = orderID
	return nil
}

func (c *CompleteDeliveryCommand) setRiderID(riderID kernel.UUID) error {
	if err := riderID.Validate(); err != nil {
		return err
	}
	c.riderID = riderID
	return nil
}

func (c *CompleteDeliveryCommand) setOtpCode(otpCode string) error {
	if otpCode == "" {
		return errs.NewValueIsRequiredError("otpCode")
	}
	c.otpCode = otpCode
	return nil
}
