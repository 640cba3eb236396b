package order

import (
	"khabarlagbe/internal/core/domain/model/kernel"
)

// Projection is the client-side view of one order: a local, read-mostly copy
// kept current by applying events. The server-assigned version is the only
// merge authority, which makes Apply idempotent under at-least-once delivery
// and commutative with reconciliation: applying the same sequence of events
// through any mix of live delivery and snapshot replay converges to an
// identical projection.
type Projection struct {
	OrderID  kernel.UUID
	Status   Status
	Version  int64
	RiderID  *kernel.UUID
	Timeline []TimelineEntry
}

// NewProjection builds a projection from an authoritative snapshot.
func NewProjection(s Snapshot) *Projection {
	timeline := make([]TimelineEntry, len(s.Timeline))
	copy(timeline, s.Timeline)

	return &Projection{
		OrderID:  s.ID,
		Status:   s.Status,
		Version:  s.Version,
		RiderID:  s.RiderID,
		Timeline: timeline,
	}
}

// Apply merges one event into the projection.
//
// Version semantics:
//   - e.Version <= local version: stale or duplicate delivery, no-op
//   - e.Version == local version+1: applied, timeline appended
//   - e.Version  > local version+1: ErrVersionGap, caller must reconcile
//
// Location events carry no version and are never applied to a projection.
// The returned bool reports whether the event changed the projection.
func (p *Projection) Apply(e Event) (bool, error) {
	if e.Kind == KindRiderLocation {
		return false, nil
	}
	if !e.OrderID.IsEqual(p.OrderID) {
		return false, nil
	}
	if e.Version <= p.Version {
		return false, nil
	}
	if e.Version > p.Version+1 {
		return false, ErrVersionGap
	}

	p.Timeline = append(p.Timeline, TimelineEntry{
		Status: e.Status,
		At:     e.Timestamp,
		Actor:  e.Actor,
		Note:   e.Note,
		Kind:   e.Kind,
	})
	p.Status = e.Status
	p.Version = e.Version
	if e.Kind == KindRiderAssigned && e.RiderID != nil {
		rider := *e.RiderID
		p.RiderID = &rider
	}

	return true, nil
}

// IsEqual reports deep equality of two projections. Used by convergence
// checks: a projection fed live events and one rebuilt via reconciliation
// must compare equal.
func (p *Projection) IsEqual(other *Projection) bool {
	if other == nil {
		return false
	}
	if !p.OrderID.IsEqual(other.OrderID) || p.Status != other.Status || p.Version != other.Version {
		return false
	}
	if (p.RiderID == nil) != (other.RiderID == nil) {
		return false
	}
	if p.RiderID != nil && !p.RiderID.IsEqual(*other.RiderID) {
		return false
	}
	if len(p.Timeline) != len(other.Timeline) {
		return false
	}
	for i := range p.Timeline {
		if p.Timeline[i] != other.Timeline[i] {
			return false
		}
	}
	return true
}
