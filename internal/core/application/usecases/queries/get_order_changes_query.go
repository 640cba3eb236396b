package queries

import (
	"errors"

	"khabarlagbe/internal/core/domain/model/kernel"
	"khabarlagbe/internal/core/domain/model/order"
	"khabarlagbe/internal/pkg/errs"
	"khabarlagbe/internal/pkg/guard"
)

var ErrGetOrderChangesQueryIsNotConstructed = errors.New(
	"GetOrderChangesQuery must be created via NewGetOrderChangesQuery constructor",
)

// GetOrderChangesQuery retrieves everything a client missed for one order
// since the version it last saw. This is the server half of reconnection
// sync: the client reports its last-known version and receives exactly the
// events it would have gotten live.
type GetOrderChangesQuery struct {
	orderID      kernel.UUID
	sinceVersion int64

	guard guard.ConstructorGuard
}

// NewGetOrderChangesQuery creates a delta query. sinceVersion is the
// client's last-applied version; -1 means "I have nothing, send it all".
func NewGetOrderChangesQuery(orderID kernel.UUID, sinceVersion int64) (GetOrderChangesQuery, error) {
	if err := orderID.Validate(); err != nil {
		return GetOrderChangesQuery{}, err
	}
	if sinceVersion < -1 {
		return GetOrderChangesQuery{}, errs.NewVersionIsInvalidError("sinceVersion")
	}
	return GetOrderChangesQuery{
		orderID:      orderID,
		sinceVersion: sinceVersion,
		guard:        guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetOrderChangesQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderChangesQueryIsNotConstructed)
}

// OrderID returns the queried order's identifier.
func (q GetOrderChangesQuery) OrderID() kernel.UUID { return q.orderID }

// SinceVersion returns the client's last-applied version.
func (q GetOrderChangesQuery) SinceVersion() int64 { return q.sinceVersion }

// GetOrderChangesQueryResponse carries the reconciliation delta. Events
// hold the replayable gap in version order; it is empty when the client is
// already up to date. Snapshot always carries the authoritative current
// state so a client that reported a version ahead of the server (for
// example after a server restore) can rebuild instead of waiting forever.
type GetOrderChangesQueryResponse struct {
	Snapshot order.Snapshot
	Events   []order.Event
}
