package orderrepo

import (
	"context"
	"errors"

	"khabarlagbe/internal/core/domain/model/kernel"
	"khabarlagbe/internal/core/domain/model/order"
	"khabarlagbe/internal/pkg/errs"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// uniqueViolation is the PostgreSQL error code for duplicate key values.
const uniqueViolation = "23505"

// GormOrderRepository implements OrderRepository using GORM.
type GormOrderRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormOrderRepository creates a new GORM order repository.
func NewGormOrderRepository(db *gorm.DB, tracker aggregateTracker) *GormOrderRepository {
	return &GormOrderRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new order to the database. A duplicate identifier is reported
// as a version conflict so retried placements fail loudly instead of
// overwriting an existing row.
func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto, err := fromDomain(aggregate)
	if err != nil {
		return err
	}

	if err = r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation {
			return errs.NewVersionConflictErrorWithCause(
				"order", aggregate.ID().String(), aggregate.BaseVersion(), err)
		}
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update saves an existing order to the database. The write is conditional
// on the stored version still matching the aggregate's base version; when a
// concurrent writer won the race zero rows match and the caller gets
// errs.ErrVersionConflict.
func (r *GormOrderRepository) Update(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto, err := fromDomain(aggregate)
	if err != nil {
		return err
	}

	result := r.db.WithContext(ctx).
		Model(&OrderDTO{}).
		Where("id = ? AND version = ?", dto.ID, aggregate.BaseVersion()).
		Select("*").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		var count int64
		if err = r.db.WithContext(ctx).
			Model(&OrderDTO{}).
			Where("id = ?", dto.ID).
			Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return errs.NewObjectNotFoundError("order", aggregate.ID().String())
		}
		return errs.NewVersionConflictError(
			"order", aggregate.ID().String(), aggregate.BaseVersion())
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Get retrieves an order by ID.
func (r *GormOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto OrderDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetAllAwaitingDispatch retrieves orders that the dispatch pass should
// consider: ready for pickup, no rider yet, not flagged for manual handling.
func (r *GormOrderRepository) GetAllAwaitingDispatch(ctx context.Context) ([]*order.Order, error) {
	var dtos []OrderDTO
	err := r.db.WithContext(ctx).
		Order("version, id").
		Find(&dtos, "status = ? AND rider_id IS NULL AND needs_manual_dispatch = false",
			order.ReadyForPickup).Error
	if err != nil {
		return nil, err
	}

	return toDomainAll(dtos)
}

// GetAllActiveForCustomer retrieves a customer's non-terminal orders.
func (r *GormOrderRepository) GetAllActiveForCustomer(ctx context.Context, customerID kernel.UUID) ([]*order.Order, error) {
	return r.getAllActive(ctx, "customer_id = ?", customerID)
}

// GetAllActiveForRestaurant retrieves a restaurant's non-terminal orders.
func (r *GormOrderRepository) GetAllActiveForRestaurant(ctx context.Context, restaurantID kernel.UUID) ([]*order.Order, error) {
	return r.getAllActive(ctx, "restaurant_id = ?", restaurantID)
}

// GetAllActiveForRider retrieves a rider's non-terminal assigned orders.
func (r *GormOrderRepository) GetAllActiveForRider(ctx context.Context, riderID kernel.UUID) ([]*order.Order, error) {
	return r.getAllActive(ctx, "rider_id = ?", riderID)
}

func (r *GormOrderRepository) getAllActive(ctx context.Context, actorClause string, actorID kernel.UUID) ([]*order.Order, error) {
	if err := actorID.Validate(); err != nil {
		return nil, err
	}

	var dtos []OrderDTO
	err := r.db.WithContext(ctx).
		Where(actorClause, actorID.Bytes()).
		Where("status NOT IN ?", []int{
			int(order.Delivered), int(order.Cancelled), int(order.Rejected),
		}).
		Order("version, id").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	return toDomainAll(dtos)
}

func toDomainAll(dtos []OrderDTO) ([]*order.Order, error) {
	orders := make([]*order.Order, 0, len(dtos))
	for _, dto := range dtos {
		o, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}

	return orders, nil
}
