// Package orderrepo provides data transfer objects and mapping functions for
// order persistence. It implements the repository pattern for the order
// aggregate, handling conversion between domain entities and database rows.
// The full timeline is stored as a jsonb column so the aggregate can be
// reconstructed with its version invariant intact.
package orderrepo

import (
	"encoding/json"

	"khabarlagbe/internal/core/domain/model/kernel"
	"khabarlagbe/internal/core/domain/model/order"

	"github.com/google/uuid"
)

// OrderDTO represents the database structure for persisting order aggregates.
// Indexed by status and rider assignment so the dispatch sweep and the
// per-actor active-order queries stay cheap.
type OrderDTO struct {
	ID                  uuid.UUID  `gorm:"type:uuid;primaryKey"`
	CustomerID          uuid.UUID  `gorm:"type:uuid;index"`
	RestaurantID        uuid.UUID  `gorm:"type:uuid;index"`
	RiderID             *uuid.UUID `gorm:"type:uuid;index"`
	Pickup              GeoDTO     `gorm:"embedded;embeddedPrefix:pickup_"`
	Dropoff             GeoDTO     `gorm:"embedded;embeddedPrefix:dropoff_"`
	PrepMinutes         int
	NeedsManualDispatch bool
	Status              int `gorm:"index"`
	Version             int64
	Timeline            []byte `gorm:"type:jsonb"`
}

// TableName specifies the database table name for order entities.
// Overrides GORM's default naming convention to use "orders".
func (OrderDTO) TableName() string {
	return "orders"
}

// GeoDTO represents an embedded coordinate pair within the order table.
type GeoDTO struct {
	Lat float64 `gorm:"type:double precision"`
	Lon float64 `gorm:"type:double precision"`
}

// fromDomain converts an order domain aggregate to its database
// representation, serializing the timeline to JSON.
func fromDomain(aggregate *order.Order) (OrderDTO, error) {
	timeline, err := json.Marshal(aggregate.Timeline())
	if err != nil {
		return OrderDTO{}, err
	}

	var riderID *uuid.UUID
	if id := aggregate.Rider(); id != nil {
		raw := id.Bytes()
		riderID = &raw
	}

	return OrderDTO{
		ID:           aggregate.ID().Bytes(),
		CustomerID:   aggregate.CustomerID().Bytes(),
		RestaurantID: aggregate.RestaurantID().Bytes(),
		RiderID:      riderID,
		Pickup: GeoDTO{
			Lat: aggregate.PickupPoint().Lat(),
			Lon: aggregate.PickupPoint().Lon(),
		},
		Dropoff: GeoDTO{
			Lat: aggregate.DropoffPoint().Lat(),
			Lon: aggregate.DropoffPoint().Lon(),
		},
		PrepMinutes:         aggregate.EstimatedPrepMinutes(),
		NeedsManualDispatch: aggregate.NeedsManualDispatch(),
		Status:              int(aggregate.Status()),
		Version:             aggregate.Version(),
		Timeline:            timeline,
	}, nil
}

// toDomain converts a database DTO back to an order domain aggregate.
// RestoreOrder re-checks the timeline/version invariant, so a corrupted row
// surfaces as an error instead of a broken aggregate.
func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	customerID, err := kernel.UUIDFromBytes(dto.CustomerID[:])
	if err != nil {
		return nil, err
	}

	restaurantID, err := kernel.UUIDFromBytes(dto.RestaurantID[:])
	if err != nil {
		return nil, err
	}

	var riderID *kernel.UUID
	if dto.RiderID != nil {
		rID, riderErr := kernel.UUIDFromBytes((*dto.RiderID)[:])
		if riderErr != nil {
			return nil, riderErr
		}

		riderID = &rID
	}

	pickup, err := kernel.NewGeoPoint(dto.Pickup.Lat, dto.Pickup.Lon)
	if err != nil {
		return nil, err
	}

	dropoff, err := kernel.NewGeoPoint(dto.Dropoff.Lat, dto.Dropoff.Lon)
	if err != nil {
		return nil, err
	}

	var timeline []order.TimelineEntry
	if err = json.Unmarshal(dto.Timeline, &timeline); err != nil {
		return nil, err
	}

	return order.RestoreOrder(
		id, customerID, restaurantID,
		pickup, dropoff,
		riderID,
		dto.PrepMinutes,
		dto.NeedsManualDispatch,
		dto.Version,
		timeline,
	)
}
