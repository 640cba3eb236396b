package ports

import (
	"context"

	"khabarlagbe/internal/core/domain/model/kernel"
	"khabarlagbe/internal/core/domain/model/rider"
)

// SampleStore retains the latest location sample per rider. Last write wins
// by capture time; samples that would move a rider backwards in time are
// dropped. The store is ephemeral and holds no history.
type SampleStore interface {
	// Record stores the sample if it supersedes the rider's current one.
	// It reports whether the sample was kept.
	Record(ctx context.Context, sample rider.LocationSample) (bool, error)

	// Latest retrieves a rider's most recent sample. The second return is
	// false when the rider has not reported yet.
	Latest(ctx context.Context, riderID kernel.UUID) (rider.LocationSample, bool, error)
}
