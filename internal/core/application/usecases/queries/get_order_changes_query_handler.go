package queries

import (
	"context"

	"gorm.io/gorm"
)

// GetOrderChangesQueryHandler answers reconnection sync requests with the
// event delta between the client's version and the authoritative state.
type GetOrderChangesQueryHandler struct {
	snapshots GetOrderQueryHandler
}

// NewGetOrderChangesQueryHandler creates a handler for delta queries.
func NewGetOrderChangesQueryHandler(db *gorm.DB) GetOrderChangesQueryHandler {
	return GetOrderChangesQueryHandler{snapshots: NewGetOrderQueryHandler(db)}
}

// Handle loads the authoritative snapshot and resynthesizes the events the
// client missed. A client at or beyond the current version gets an empty
// delta plus the snapshot to compare against.
func (h GetOrderChangesQueryHandler) Handle(
	ctx context.Context,
	query GetOrderChangesQuery,
) (GetOrderChangesQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetOrderChangesQueryResponse{}, err
	}

	snapshotQuery, err := NewGetOrderQuery(query.OrderID())
	if err != nil {
		return GetOrderChangesQueryResponse{}, err
	}
	snap, err := h.snapshots.Handle(ctx, snapshotQuery)
	if err != nil {
		return GetOrderChangesQueryResponse{}, err
	}

	events, err := snap.EventsSince(query.SinceVersion())
	if err != nil {
		return GetOrderChangesQueryResponse{}, err
	}

	return GetOrderChangesQueryResponse{Snapshot: snap, Events: events}, nil
}
