// Package offerstore holds in-flight dispatch offers in process memory.
// Offers are deliberately not persisted: they live for one response window,
// and after a restart the dispatch sweep simply re-offers any order still
// waiting for a rider.
package offerstore

import (
	"context"
	"sync"
	"time"

	"khabarlagbe/internal/core/domain/model/kernel"
	"khabarlagbe/internal/core/domain/model/offer"
	"khabarlagbe/internal/pkg/errs"
)

// Store is an in-memory ports.OfferStore. One mutex serializes all offer
// resolution, which is what makes the single-winner guarantee hold: two
// goroutines racing to resolve the same offer take the lock in turn, and
// the loser sees an already-resolved aggregate.
type Store struct {
	mu     sync.Mutex
	offers map[kernel.UUID]*offer.Offer
}

// NewStore creates an empty offer store.
func NewStore() *Store {
	return &Store{
		offers: make(map[kernel.UUID]*offer.Offer),
	}
}

// Put stores a pending offer.
func (s *Store) Put(_ context.Context, o *offer.Offer) error {
	if err := o.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.offers[o.ID()] = o
	return nil
}

// Get retrieves an offer by its identifier.
func (s *Store) Get(_ context.Context, id kernel.UUID) (*offer.Offer, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.offers[id]
	if !ok {
		return nil, errs.NewObjectNotFoundError("offer", id.String())
	}
	return o, nil
}

// GetPendingForOrder retrieves the pending offer for an order, or nil when
// the order has none in flight.
func (s *Store) GetPendingForOrder(_ context.Context, orderID kernel.UUID) (*offer.Offer, error) {
	if err := orderID.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, o := range s.offers {
		if o.OrderID() == orderID && o.IsPending() {
			return o, nil
		}
	}
	return nil, nil
}

// Resolve applies fn to the offer under the store's lock. fn is the
// aggregate's Accept, Decline, or Expire call; its error passes through
// unchanged so callers can distinguish a lost race from a missing offer.
func (s *Store) Resolve(_ context.Context, id kernel.UUID, fn func(*offer.Offer) error) (*offer.Offer, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.offers[id]
	if !ok {
		return nil, errs.NewObjectNotFoundError("offer", id.String())
	}

	if err := fn(o); err != nil {
		return o, err
	}
	return o, nil
}

// DeclinedRiders returns the riders whose offers for the order resolved
// against them, declines and expiries both.
func (s *Store) DeclinedRiders(_ context.Context, orderID kernel.UUID) ([]kernel.UUID, error) {
	if err := orderID.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	riders := make([]kernel.UUID, 0)
	for _, o := range s.offers {
		if o.OrderID() != orderID {
			continue
		}
		if o.Outcome() == offer.OutcomeDeclined || o.Outcome() == offer.OutcomeExpired {
			riders = append(riders, o.RiderID())
		}
	}
	return riders, nil
}

// GetAllExpired returns pending offers whose response window has closed.
// The offers are still pending; the caller expires them through Resolve.
func (s *Store) GetAllExpired(_ context.Context) ([]*offer.Offer, error) {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	expired := make([]*offer.Offer, 0)
	for _, o := range s.offers {
		if o.IsPending() && !now.Before(o.ExpiresAt()) {
			expired = append(expired, o)
		}
	}
	return expired, nil
}
