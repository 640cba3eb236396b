// Package ports defines the contracts between the application core and
// infrastructure adapters: persistence, event fan-out, notifications, and
// the ephemeral stores for offers and rider positions.
package ports

import (
	"context"

	"khabarlagbe/internal/core/domain/model/kernel"
	"khabarlagbe/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
type OrderRepository interface {
	// Add persists a new order aggregate to storage.
	// The order must be valid and not already exist in the repository.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists changes to an existing order aggregate. The write is
	// conditional on the aggregate's BaseVersion still being the stored
	// version; a concurrent writer causes errs.ErrVersionConflict.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order aggregate by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetAllAwaitingDispatch retrieves orders in ReadyForPickup status that
	// have no rider assigned and are not flagged for manual dispatch.
	GetAllAwaitingDispatch(ctx context.Context) ([]*order.Order, error)

	// GetAllActiveForCustomer retrieves a customer's non-terminal orders.
	GetAllActiveForCustomer(ctx context.Context, customerID kernel.UUID) ([]*order.Order, error)

	// GetAllActiveForRestaurant retrieves a restaurant's non-terminal orders.
	GetAllActiveForRestaurant(ctx context.Context, restaurantID kernel.UUID) ([]*order.Order, error)

	// GetAllActiveForRider retrieves a rider's non-terminal assigned orders.
	GetAllActiveForRider(ctx context.Context, riderID kernel.UUID) ([]*order.Order, error)
}
