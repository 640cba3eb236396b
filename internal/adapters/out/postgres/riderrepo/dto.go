// Package riderrepo provides data transfer objects and mapping functions for
// rider persistence.
package riderrepo

import (
	"khabarlagbe/internal/core/domain/model/kernel"
	"khabarlagbe/internal/core/domain/model/rider"

	"github.com/google/uuid"
)

// RiderDTO represents the database structure for persisting rider aggregates.
// Online and available are indexed together because the dispatch pass filters
// on both.
type RiderDTO struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name      string
	Online    bool `gorm:"index:idx_riders_dispatchable"`
	Available bool `gorm:"index:idx_riders_dispatchable"`
}

// TableName specifies the database table name for rider entities.
func (RiderDTO) TableName() string {
	return "riders"
}

// fromDomain converts a rider domain aggregate to its database representation.
func fromDomain(aggregate *rider.Rider) RiderDTO {
	return RiderDTO{
		ID:        aggregate.ID().Bytes(),
		Name:      aggregate.Name(),
		Online:    aggregate.IsOnline(),
		Available: aggregate.IsAvailable(),
	}
}

// toDomain converts a database DTO to a rider domain aggregate.
func toDomain(dto RiderDTO) (*rider.Rider, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	return rider.RestoreRider(id, dto.Name, dto.Online, dto.Available)
}
