package commands

import (
	"errors"
	"time"

	"khabarlagbe/internal/core/domain/model/kernel"
	"khabarlagbe/internal/core/domain/model/rider"
	"khabarlagbe/internal/pkg/guard"
)

var ErrRecordRiderLocationCommandIsNotConstructed = errors.New(
	"RecordRiderLocationCommand must be created via NewRecordRiderLocationCommand constructor",
)

// RecordRiderLocationCommand represents one fire-and-forget position report
// from a rider device during an active delivery.
type RecordRiderLocationCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	sample  rider.LocationSample

	guard guard.ConstructorGuard
}

// NewRecordRiderLocationCommand creates a command carrying one location
// sample. Sample validation happens in the value object constructor.
func NewRecordRiderLocationCommand(
	orderID, riderID kernel.UUID,
	position kernel.GeoPoint,
	accuracyM, bearingDeg, speedMps float64,
	capturedAt time.Time,
) (RecordRiderLocationCommand, error) {
	cmd := RecordRiderLocationCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := orderID.Validate(); err != nil {
		return RecordRiderLocationCommand{}, err
	}
	sample, err := rider.NewLocationSample(riderID, position, accuracyM, bearingDeg, speedMps, capturedAt)
	if err != nil {
		return RecordRiderLocationCommand{}, err
	}

	cmd.orderID = orderID
	cmd.sample = sample
	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c RecordRiderLocationCommand) Validate() error {
	return c.guard.Validate(ErrRecordRiderLocationCommandIsNotConstructed)
}

// OrderID returns the order the rider is delivering.
func (c RecordRiderLocationCommand) OrderID() kernel.UUID { return c.orderID }

// Sample returns the reported location sample.
func (c RecordRiderLocationCommand) Sample() rider.LocationSample { return c.sample }
