package services

import (
	"khabarlagbe/internal/core/domain/model/order"
)

// MergeOutcome classifies what a reconciliation pass did with a projection.
type MergeOutcome int

const (
	// MergeUpToDate means the remote snapshot carried nothing newer.
	MergeUpToDate MergeOutcome = iota
	// MergeFastForwarded means missed events were replayed into the projection.
	MergeFastForwarded
	// MergeRemoteStale means the remote snapshot was older than the local
	// projection. The local state is authoritative for ordering, so it is
	// kept untouched; the caller should log the anomaly.
	MergeRemoteStale
)

// MergeResult describes one reconciliation pass over a single order.
type MergeResult struct {
	Outcome MergeOutcome
	// Replayed holds the events synthesized from the snapshot's timeline, in
	// version order. They are indistinguishable from the live events the
	// client would have received had it stayed connected, so the caller can
	// feed them through the same rendering path.
	Replayed []order.Event
}

// Reconciler is a domain service that merges an authoritative order snapshot
// into a possibly stale projection after a connection gap. The same merge
// runs on both sides of the channel: the server uses it to answer sync
// requests and the client uses it to catch its local state up.
type Reconciler struct{}

// NewReconciler creates a new Reconciler instance.
func NewReconciler() Reconciler {
	return Reconciler{}
}

// Merge replays the snapshot's events newer than the projection's version
// into the projection. Snapshots older than the projection never roll local
// state back.
func (r Reconciler) Merge(local *order.Projection, remote order.Snapshot) (MergeResult, error) {
	if remote.Version < local.Version {
		return MergeResult{Outcome: MergeRemoteStale}, nil
	}
	if remote.Version == local.Version {
		return MergeResult{Outcome: MergeUpToDate}, nil
	}

	events, err := remote.EventsSince(local.Version)
	if err != nil {
		return MergeResult{}, err
	}

	replayed := make([]order.Event, 0, len(events))
	for _, event := range events {
		applied, err := local.Apply(event)
		if err != nil {
			return MergeResult{}, err
		}
		if applied {
			replayed = append(replayed, event)
		}
	}

	return MergeResult{Outcome: MergeFastForwarded, Replayed: replayed}, nil
}
