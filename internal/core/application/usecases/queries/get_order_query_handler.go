package queries

import (
	"context"

	"khabarlagbe/internal/core/domain/model/order"
	"khabarlagbe/internal/pkg/errs"

	"gorm.io/gorm"
)

// GetOrderQueryHandler reads one order snapshot from the database.
type GetOrderQueryHandler struct {
	db *gorm.DB
}

// NewGetOrderQueryHandler creates a handler for order snapshot queries.
func NewGetOrderQueryHandler(db *gorm.DB) GetOrderQueryHandler {
	return GetOrderQueryHandler{db: db}
}

// Handle executes the query. Returns errs.ErrObjectNotFound when no order
// with the given identifier exists.
func (h GetOrderQueryHandler) Handle(ctx context.Context, query GetOrderQuery) (order.Snapshot, error) {
	if err := query.Validate(); err != nil {
		return order.Snapshot{}, err
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT `+snapshotColumns+`
		FROM orders
		WHERE id = ?
	`, query.OrderID().Bytes()).Rows()
	if err != nil {
		return order.Snapshot{}, err
	}
	defer rows.Close()

	if !rows.Next() {
		if err = rows.Err(); err != nil {
			return order.Snapshot{}, err
		}
		return order.Snapshot{}, errs.NewObjectNotFoundError("order", query.OrderID().String())
	}

	snap, err := scanSnapshot(rows)
	if err != nil {
		return order.Snapshot{}, err
	}
	return snap, rows.Err()
}
