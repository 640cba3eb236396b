// Package order contains the order aggregate and its state machine: the
// authoritative rules for which lifecycle transitions are legal, who may
// request them, and how accepted transitions become versioned events.
//
// The package is pure domain logic with no I/O. Concurrency control is
// delegated to the version counter: repositories persist with a
// compare-and-swap on BaseVersion, so no two mutations of the same order can
// both commit, and clients deduplicate replayed events by version.
//
// Three representations of an order live here:
//   - Order: the write-side aggregate, mutated through transition methods
//   - Snapshot: the read-side view sent to clients and queries
//   - Projection: the client-side copy, kept current by Apply(Event)
package order
