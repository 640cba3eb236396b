package services

import (
	"errors"

	"khabarlagbe/internal/core/domain/model/order"
	"khabarlagbe/internal/core/domain/model/rider"
)

// ErrRiderNotFound is returned when no suitable rider is available for order
// dispatch. This occurs when no candidates are provided, none of them are
// dispatchable, or none has a known position to rank by.
var ErrRiderNotFound = errors.New("rider not found")

// Candidate pairs a rider with their most recent position report. Riders
// whose position is unknown cannot be ranked and are skipped.
type Candidate struct {
	Rider    *rider.Rider
	LastSeen rider.LocationSample
}

// RiderDispatcher is a domain service responsible for selecting the rider a
// ready order should be offered to.
//
// Business rules:
//   - Only orders awaiting pickup that have no rider yet are dispatchable
//   - Only riders that are online and available are considered
//   - Selection prioritizes minimum straight-line distance to the pickup point
//   - Ties go to the first candidate in the provided order
type RiderDispatcher struct{}

// NewRiderDispatcher creates a new RiderDispatcher instance.
func NewRiderDispatcher() RiderDispatcher {
	return RiderDispatcher{}
}

// SelectRider picks the nearest dispatchable rider for the given order.
//
// Returns ErrRiderNotFound when no candidate qualifies, or a validation error
// when the order or a candidate is malformed.
func (d RiderDispatcher) SelectRider(ord *order.Order, candidates []Candidate) (*rider.Rider, error) {
	if err := ord.Validate(); err != nil {
		return nil, err
	}

	if err := ord.ValidateDispatch(); err != nil {
		return nil, err
	}

	var (
		best     *rider.Rider
		bestDist float64
	)

	for _, c := range candidates {
		if err := c.Rider.Validate(); err != nil {
			return nil, err
		}

		if !c.Rider.IsDispatchable() {
			continue
		}

		if err := c.LastSeen.Validate(); err != nil {
			// No position report yet; cannot rank this rider.
			continue
		}

		dist, err := c.LastSeen.Position().DistanceTo(ord.PickupPoint())
		if err != nil {
			return nil, err
		}
		if best == nil || dist < bestDist {
			best = c.Rider
			bestDist = dist
		}
	}

	if best == nil {
		return nil, ErrRiderNotFound
	}

	return best, nil
}
