package rider

import (
	"time"

	"khabarlagbe/internal/core/domain/model/kernel"
	"khabarlagbe/internal/pkg/errs"
)

// LocationSample is one fire-and-forget position report from a rider device
// during an active delivery. Samples are ephemeral: only the most recent one
// per rider is retained, and a dropped sample is acceptable because the next
// one supersedes it anyway.
//
// CapturedAt is the device clock and is used only to order samples from the
// same rider relative to each other, never to order anything across riders
// or against the server timeline.
type LocationSample struct {
	riderID    kernel.UUID
	position   kernel.GeoPoint
	accuracyM  float64
	bearingDeg float64
	speedMps   float64
	capturedAt time.Time

	isConstructed bool
}

// NewLocationSample creates a validated location sample.
func NewLocationSample(
	riderID kernel.UUID,
	position kernel.GeoPoint,
	accuracyM, bearingDeg, speedMps float64,
	capturedAt time.Time,
) (LocationSample, error) {
	if err := riderID.Validate(); err != nil {
		return LocationSample{}, err
	}
	if err := position.Validate(); err != nil {
		return LocationSample{}, err
	}
	if accuracyM < 0 {
		return LocationSample{}, errs.NewValueIsInvalidError("accuracy must not be negative")
	}
	if bearingDeg < 0 || bearingDeg >= 360 {
		return LocationSample{}, errs.NewValueIsOutOfRangeError("bearing", bearingDeg, 0, 360)
	}
	if speedMps < 0 {
		return LocationSample{}, errs.NewValueIsInvalidError("speed must not be negative")
	}
	if capturedAt.IsZero() {
		return LocationSample{}, errs.NewValueIsRequiredError("capturedAt")
	}

	return LocationSample{
		riderID:       riderID,
		position:      position,
		accuracyM:     accuracyM,
		bearingDeg:    bearingDeg,
		speedMps:      speedMps,
		capturedAt:    capturedAt,
		isConstructed: true,
	}, nil
}

// RiderID returns the reporting rider's identifier.
func (s LocationSample) RiderID() kernel.UUID { return s.riderID }

// Position returns the sampled coordinate.
func (s LocationSample) Position() kernel.GeoPoint { return s.position }

// AccuracyM returns the GPS accuracy radius in meters.
func (s LocationSample) AccuracyM() float64 { return s.accuracyM }

// BearingDeg returns the direction of travel in degrees, [0, 360).
func (s LocationSample) BearingDeg() float64 { return s.bearingDeg }

// SpeedMps returns the ground speed in meters per second.
func (s LocationSample) SpeedMps() float64 { return s.speedMps }

// CapturedAt returns the device capture time.
func (s LocationSample) CapturedAt() time.Time { return s.capturedAt }

// Validate returns an error for zero-value samples.
func (s LocationSample) Validate() error {
	if !s.isConstructed {
		return errs.NewValueIsRequiredError("LocationSample must be created via NewLocationSample")
	}
	return nil
}

// Supersedes reports whether this sample is newer than other. Samples that
// would move a rider backwards in time are discarded by the store.
func (s LocationSample) Supersedes(other LocationSample) bool {
	return s.capturedAt.After(other.capturedAt)
}
