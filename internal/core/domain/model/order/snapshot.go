package order

import (
	"khabarlagbe/internal/core/domain/model/kernel"
	"khabarlagbe/internal/pkg/errs"
)

// Snapshot is the read-mostly view of an order that leaves the backend:
// query responses, reconciliation payloads, and the state a client projection
// is built from. Unlike the aggregate it is plain data with exported fields.
type Snapshot struct {
	ID                  kernel.UUID
	CustomerID          kernel.UUID
	RestaurantID        kernel.UUID
	RiderID             *kernel.UUID
	Status              Status
	Version             int64
	EstimatedPrepMin    int
	NeedsManualDispatch bool
	Timeline            []TimelineEntry
}

// Snapshot produces the external view of the aggregate's current state.
func (o *Order) Snapshot() Snapshot {
	return Snapshot{
		ID:                  o.id,
		CustomerID:          o.customerID,
		RestaurantID:        o.restaurantID,
		RiderID:             o.riderID,
		Status:              o.status,
		Version:             o.version,
		EstimatedPrepMin:    o.prepMinutes,
		NeedsManualDispatch: o.needsManualDispatch,
		Timeline:            o.Timeline(),
	}
}

// EventsSince resynthesizes the live events for every timeline entry after
// sinceVersion, in version order. A client that applies them is
// indistinguishable from one that received the same events live: entry i
// carries version i, and entry kinds were recorded at mutation time.
//
// Returns ErrVersionGap via the empty slice contract: a sinceVersion at or
// beyond the snapshot version yields no events, which callers treat as
// "already up to date".
func (s Snapshot) EventsSince(sinceVersion int64) ([]Event, error) {
	if sinceVersion >= s.Version {
		return nil, nil
	}
	if sinceVersion < -1 {
		sinceVersion = -1
	}
	if int64(len(s.Timeline)) != s.Version+1 {
		return nil, errs.NewVersionIsInvalidErrorWithCause(
			"snapshot version",
			errs.NewValueIsInvalidError("timeline length does not match version"),
		)
	}

	events := make([]Event, 0, s.Version-sinceVersion)
	for v := sinceVersion + 1; v <= s.Version; v++ {
		entry := s.Timeline[v]
		var riderID *kernel.UUID
		if entry.Kind == KindRiderAssigned {
			riderID = s.RiderID
		}
		events = append(events, Event{
			Kind:         entry.Kind,
			OrderID:      s.ID,
			Version:      v,
			Status:       entry.Status,
			Timestamp:    entry.At,
			Actor:        entry.Actor,
			Note:         entry.Note,
			RiderID:      riderID,
			CustomerID:   s.CustomerID,
			RestaurantID: s.RestaurantID,
		})
	}

	return events, nil
}
