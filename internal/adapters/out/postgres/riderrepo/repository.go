package riderrepo

import (
	"context"
	"errors"

	"khabarlagbe/internal/core/domain/model/kernel"
	"khabarlagbe/internal/core/domain/model/rider"
	"khabarlagbe/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormRiderRepository implements RiderRepository using GORM.
type GormRiderRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormRiderRepository creates a new GORM rider repository.
func NewGormRiderRepository(db *gorm.DB, tracker aggregateTracker) *GormRiderRepository {
	return &GormRiderRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new rider to the database.
func (r *GormRiderRepository) Add(ctx context.Context, aggregate *rider.Rider) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update saves an existing rider to the database. Boolean flags are written
// unconditionally so clearing availability persists.
func (r *GormRiderRepository) Update(ctx context.Context, aggregate *rider.Rider) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).
		Model(&RiderDTO{}).
		Where("id = ?", dto.ID).
		Select("*").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("rider", aggregate.ID().String())
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Get retrieves a rider by ID.
func (r *GormRiderRepository) Get(ctx context.Context, id kernel.UUID) (*rider.Rider, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto RiderDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("rider", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetAllDispatchable retrieves riders that are online and available.
func (r *GormRiderRepository) GetAllDispatchable(ctx context.Context) ([]*rider.Rider, error) {
	var dtos []RiderDTO
	err := r.db.WithContext(ctx).
		Find(&dtos, "online = true AND available = true").Error
	if err != nil {
		return nil, err
	}

	riders := make([]*rider.Rider, 0, len(dtos))
	for _, dto := range dtos {
		aggregate, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		riders = append(riders, aggregate)
	}

	return riders, nil
}
