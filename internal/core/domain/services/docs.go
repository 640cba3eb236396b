// Package services provides domain services that orchestrate business
// operations across multiple aggregates.
//
// The package includes:
//   - RiderDispatcher: selects the rider a ready order should be offered to
//   - Reconciler: merges authoritative snapshots into stale projections
//     after a connection gap
package services
