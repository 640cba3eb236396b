package ports

import (
	"context"

	"khabarlagbe/internal/core/domain/model/kernel"
	"khabarlagbe/internal/core/domain/model/offer"
)

// OfferStore holds in-flight dispatch offers. Offers are short-lived and
// never outlive the process; dispatch simply re-offers after a restart.
//
// Resolution must be atomic per offer: when several goroutines race to
// resolve the same offer, exactly one wins and the rest receive
// offer.OfferAlreadyResolvedError.
type OfferStore interface {
	// Put stores a pending offer.
	Put(ctx context.Context, o *offer.Offer) error

	// Get retrieves an offer by its identifier.
	Get(ctx context.Context, id kernel.UUID) (*offer.Offer, error)

	// GetPendingForOrder retrieves the pending offer for an order, or nil
	// when the order has none in flight.
	GetPendingForOrder(ctx context.Context, orderID kernel.UUID) (*offer.Offer, error)

	// Resolve applies fn to the offer under the store's lock and persists
	// the result. fn is the aggregate's Accept, Decline, or Expire call.
	Resolve(ctx context.Context, id kernel.UUID, fn func(*offer.Offer) error) (*offer.Offer, error)

	// DeclinedRiders returns the riders whose offers for the order already
	// resolved against them, so dispatch can skip them on the next pass.
	DeclinedRiders(ctx context.Context, orderID kernel.UUID) ([]kernel.UUID, error)

	// GetAllExpired returns pending offers whose response window has closed.
	GetAllExpired(ctx context.Context) ([]*offer.Offer, error)
}
