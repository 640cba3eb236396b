// Package samplestore keeps the latest location sample per rider in process
// memory. Only the newest sample matters for dispatch distance checks and
// live tracking, so the store holds exactly one sample per rider and no
// history.
package samplestore

import (
	"context"
	"sync"
	"time"

	"khabarlagbe/internal/core/domain/model/kernel"
	"khabarlagbe/internal/core/domain/model/rider"
)

// Store is an in-memory ports.SampleStore with last-write-wins semantics
// keyed on capture time.
type Store struct {
	mu      sync.RWMutex
	samples map[kernel.UUID]rider.LocationSample
}

// NewStore creates an empty sample store.
func NewStore() *Store {
	return &Store{
		samples: make(map[kernel.UUID]rider.LocationSample),
	}
}

// Record stores the sample if it supersedes the rider's current one and
// reports whether it was kept. Out-of-order samples from a flaky uplink are
// dropped without error.
func (s *Store) Record(_ context.Context, sample rider.LocationSample) (bool, error) {
	if err := sample.Validate(); err != nil {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.samples[sample.RiderID()]
	if ok && !sample.Supersedes(current) {
		return false, nil
	}

	s.samples[sample.RiderID()] = sample
	return true, nil
}

// DropStale removes samples captured before the cutoff and returns how many
// were dropped. Riders who stopped reporting fall out of dispatch distance
// ranking instead of being matched against a position hours old.
func (s *Store) DropStale(_ context.Context, cutoff time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	dropped := 0
	for riderID, sample := range s.samples {
		if sample.CapturedAt().Before(cutoff) {
			delete(s.samples, riderID)
			dropped++
		}
	}
	return dropped, nil
}

// Latest retrieves a rider's most recent sample. The second return is false
// when the rider has not reported yet.
func (s *Store) Latest(_ context.Context, riderID kernel.UUID) (rider.LocationSample, bool, error) {
	if err := riderID.Validate(); err != nil {
		return rider.LocationSample{}, false, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	sample, ok := s.samples[riderID]
	return sample, ok, nil
}
