package commands_test

import (
	"testing"

	"khabarlagbe/internal/core/application/usecases/commands"
	"khabarlagbe/internal/core/domain/model/kernel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPlaceOrderCommand(t *testing.T) {
	pickup := kernel.GeoPoint{}
	validPickup := func(t *testing.T) kernel.GeoPoint { return mustGeoPoint(t, 23.7805, 90.2792) }
	validDropoff := func(t *testing.T) kernel.GeoPoint { return mustGeoPoint(t, 23.8103, 90.4125) }

	t.Run("valid", func(t *testing.T) {
		orderID := kernel.NewUUID()

		cmd, err := commands.NewPlaceOrderCommand(
			orderID, kernel.NewUUID(), kernel.NewUUID(),
			validPickup(t), validDropoff(t),
		)

		require.NoError(t, err)
		require.NoError(t, cmd.Validate())
		assert.True(t, cmd.OrderID().IsEqual(orderID))
	})

	t.Run("invalid_identity", func(t *testing.T) {
		_, err := commands.NewPlaceOrderCommand(
			kernel.UUID{}, kernel.NewUUID(), kernel.NewUUID(),
			validPickup(t), validDropoff(t),
		)
		require.Error(t, err)
	})

	t.Run("invalid_location", func(t *testing.T) {
		_, err := commands.NewPlaceOrderCommand(
			kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(),
			pickup, validDropoff(t),
		)
		require.Error(t, err)
	})

	t.Run("zero_value_fails_validation", func(t *testing.T) {
		var cmd commands.PlaceOrderCommand
		require.ErrorIs(t, cmd.Validate(), commands.ErrPlaceOrderCommandIsNotConstructed)
	})
}
