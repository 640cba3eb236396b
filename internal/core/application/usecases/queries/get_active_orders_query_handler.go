package queries

import (
	"context"

	"khabarlagbe/internal/core/domain/model/kernel"
	"khabarlagbe/internal/core/domain/model/order"
	"khabarlagbe/internal/pkg/errs"

	"gorm.io/gorm"
)

// GetActiveOrdersQueryHandler reads an actor's non-terminal orders from the
// database, oldest first.
type GetActiveOrdersQueryHandler struct {
	db *gorm.DB
}

// NewGetActiveOrdersQueryHandler creates a handler for active order queries.
func NewGetActiveOrdersQueryHandler(db *gorm.DB) GetActiveOrdersQueryHandler {
	return GetActiveOrdersQueryHandler{db: db}
}

// Handle executes the query for the actor's role.
func (h GetActiveOrdersQueryHandler) Handle(
	ctx context.Context,
	query GetActiveOrdersQuery,
) ([]order.Snapshot, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	var actorColumn string
	switch query.Actor() {
	case kernel.RoleCustomer:
		actorColumn = "customer_id"
	case kernel.RoleRestaurant:
		actorColumn = "restaurant_id"
	case kernel.RoleRider:
		actorColumn = "rider_id"
	default:
		return nil, errs.NewValueIsInvalidError("actor")
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT `+snapshotColumns+`
		FROM orders
		WHERE `+actorColumn+` = ? AND status NOT IN (?, ?, ?)
		ORDER BY version, id
	`, query.ActorID().Bytes(), order.Delivered, order.Cancelled, order.Rejected).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	snapshots := make([]order.Snapshot, 0)
	for rows.Next() {
		snap, scanErr := scanSnapshot(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		snapshots = append(snapshots, snap)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}
	return snapshots, nil
}
