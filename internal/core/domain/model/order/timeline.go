package order

import (
	"fmt"
	"time"

	"khabarlagbe/internal/core/domain/model/kernel"
	"khabarlagbe/internal/pkg/errs"
)

// TimelineEntry is one element of an order's append-only history. The entry
// at index i was appended by the mutation that produced version i, so the
// timeline and the version counter are two views of the same sequence:
// len(timeline) == version+1 always holds.
//
// Timestamps are assigned by the server when the mutation is accepted;
// client-supplied times are advisory display data and never stored here.
// Kind is retained so the exact live event can be resynthesized for clients
// reconciling after a gap.
type TimelineEntry struct {
	Status Status      `json:"status"`
	At     time.Time   `json:"at"`
	Actor  kernel.Role `json:"actor"`
	Note   string      `json:"note,omitempty"`
	Kind   EventKind   `json:"kind"`
}

// Validate checks the entry's status, actor, and timestamp.
func (e TimelineEntry) Validate() error {
	if err := e.Status.Validate(); err != nil {
		return err
	}
	if err := e.Actor.Validate(); err != nil {
		return err
	}
	if e.At.IsZero() {
		return errs.NewValueIsRequiredError("timeline entry timestamp")
	}
	if e.Kind == "" {
		return errs.NewValueIsRequiredError("timeline entry kind")
	}
	return nil
}

// validateTimeline enforces the timeline invariants on a restored history:
// non-empty, strictly time-ordered (non-decreasing server clock), and every
// entry individually valid.
func validateTimeline(entries []TimelineEntry) error {
	if len(entries) == 0 {
		return errs.NewValueIsRequiredError("timeline")
	}

	for i, entry := range entries {
		if err := entry.Validate(); err != nil {
			return errs.NewValueIsInvalidErrorWithCause(
				fmt.Sprintf("timeline entry %d", i), err,
			)
		}
		if i > 0 && entry.At.Before(entries[i-1].At) {
			return errs.NewValueIsInvalidErrorWithCause(
				"timeline",
				fmt.Errorf("entry %d is earlier than entry %d", i, i-1),
			)
		}
	}

	return nil
}
