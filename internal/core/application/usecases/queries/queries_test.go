package queries_test

import (
	"testing"

	"khabarlagbe/internal/core/application/usecases/queries"
	"khabarlagbe/internal/core/domain/model/kernel"
	"khabarlagbe/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGetOrderQuery(t *testing.T) {
	t.Run("valid order id", func(t *testing.T) {
		orderID := kernel.NewUUID()

		query, err := queries.NewGetOrderQuery(orderID)

		require.NoError(t, err)
		assert.Equal(t, orderID, query.OrderID())
	})

	t.Run("zero order id", func(t *testing.T) {
		_, err := queries.NewGetOrderQuery(kernel.UUID{})

		require.Error(t, err)
	})
}

func TestNewGetOrderChangesQuery(t *testing.T) {
	t.Run("full history request", func(t *testing.T) {
		query, err := queries.NewGetOrderChangesQuery(kernel.NewUUID(), -1)

		require.NoError(t, err)
		assert.Equal(t, int64(-1), query.SinceVersion())
	})

	t.Run("delta request", func(t *testing.T) {
		query, err := queries.NewGetOrderChangesQuery(kernel.NewUUID(), 4)

		require.NoError(t, err)
		assert.Equal(t, int64(4), query.SinceVersion())
	})

	t.Run("since version below minus one", func(t *testing.T) {
		_, err := queries.NewGetOrderChangesQuery(kernel.NewUUID(), -2)

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrVersionIsInvalid)
	})

	t.Run("zero order id", func(t *testing.T) {
		_, err := queries.NewGetOrderChangesQuery(kernel.UUID{}, 0)

		require.Error(t, err)
	})
}

func TestNewGetActiveOrdersQuery(t *testing.T) {
	t.Run("customer actor", func(t *testing.T) {
		actorID := kernel.NewUUID()

		query, err := queries.NewGetActiveOrdersQuery(kernel.RoleCustomer, actorID)

		require.NoError(t, err)
		assert.Equal(t, kernel.RoleCustomer, query.Actor())
		assert.Equal(t, actorID, query.ActorID())
	})

	t.Run("system actor is rejected", func(t *testing.T) {
		_, err := queries.NewGetActiveOrdersQuery(kernel.RoleSystem, kernel.NewUUID())

		require.Error(t, err)
	})

	t.Run("zero actor id", func(t *testing.T) {
		_, err := queries.NewGetActiveOrdersQuery(kernel.RoleRider, kernel.UUID{})

		require.Error(t, err)
	})
}
