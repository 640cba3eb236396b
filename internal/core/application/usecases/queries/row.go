// Package queries contains read-only operations in the CQRS architecture.
// Query handlers bypass the aggregate and repositories, reading order rows
// straight from the database into snapshot views.
package queries

import (
	"database/sql"
	"encoding/json"

	"khabarlagbe/internal/core/domain/model/kernel"
	"khabarlagbe/internal/core/domain/model/order"

	"github.com/google/uuid"
)

// snapshotColumns is the select list every order query shares. The column
// order must match scanSnapshot.
const snapshotColumns = `
	id,
	customer_id,
	restaurant_id,
	rider_id,
	prep_minutes,
	needs_manual_dispatch,
	status,
	version,
	timeline
`

// scanSnapshot reads one order row into a snapshot view.
func scanSnapshot(rows *sql.Rows) (order.Snapshot, error) {
	var (
		id           uuid.UUID
		customerID   uuid.UUID
		restaurantID uuid.UUID
		riderID      *uuid.UUID
		prepMinutes  int
		needsManual  bool
		status       int
		version      int64
		timelineRaw  []byte
	)

	err := rows.Scan(
		&id, &customerID, &restaurantID, &riderID,
		&prepMinutes, &needsManual, &status, &version, &timelineRaw,
	)
	if err != nil {
		return order.Snapshot{}, err
	}

	snap := order.Snapshot{
		Status:              order.Status(status),
		Version:             version,
		EstimatedPrepMin:    prepMinutes,
		NeedsManualDispatch: needsManual,
	}

	if snap.ID, err = kernel.UUIDFromBytes(id[:]); err != nil {
		return order.Snapshot{}, err
	}
	if snap.CustomerID, err = kernel.UUIDFromBytes(customerID[:]); err != nil {
		return order.Snapshot{}, err
	}
	if snap.RestaurantID, err = kernel.UUIDFromBytes(restaurantID[:]); err != nil {
		return order.Snapshot{}, err
	}
	if riderID != nil {
		rID, riderErr := kernel.UUIDFromBytes((*riderID)[:])
		if riderErr != nil {
			return order.Snapshot{}, riderErr
		}
		snap.RiderID = &rID
	}

	if err = json.Unmarshal(timelineRaw, &snap.Timeline); err != nil {
		return order.Snapshot{}, err
	}

	return snap, nil
}
