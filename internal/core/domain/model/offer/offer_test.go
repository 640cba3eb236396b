package offer_test

import (
	"testing"
	"time"

	"khabarlagbe/internal/core/domain/model/kernel"
	"khabarlagbe/internal/core/domain/model/offer"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const window = 30 * time.Second

func newTestOffer(t *testing.T, offeredAt time.Time) *offer.Offer {
	t.Helper()
	o, err := offer.NewOffer(kernel.NewUUID(), kernel.NewUUID(), offeredAt, window)
	require.NoError(t, err)
	return o
}

func TestNewOffer(t *testing.T) {
	t.Run("starts_pending", func(t *testing.T) {
		now := time.Now()

		o := newTestOffer(t, now)

		require.NoError(t, o.Validate())
		assert.True(t, o.IsPending())
		assert.Equal(t, offer.OutcomePending, o.Outcome())
		assert.Equal(t, now.Add(window), o.ExpiresAt())
	})

	t.Run("rejects_invalid_arguments", func(t *testing.T) {
		now := time.Now()

		_, err := offer.NewOffer(kernel.UUID{}, kernel.NewUUID(), now, window)
		require.Error(t, err)

		_, err = offer.NewOffer(kernel.NewUUID(), kernel.UUID{}, now, window)
		require.Error(t, err)

		_, err = offer.NewOffer(kernel.NewUUID(), kernel.NewUUID(), time.Time{}, window)
		require.Error(t, err)

		_, err = offer.NewOffer(kernel.NewUUID(), kernel.NewUUID(), now, 0)
		require.Error(t, err)
	})
}

func TestOffer_Accept(t *testing.T) {
	t.Run("within_window", func(t *testing.T) {
		now := time.Now()
		o := newTestOffer(t, now)

		require.NoError(t, o.Accept(now.Add(5*time.Second)))

		assert.Equal(t, offer.OutcomeAccepted, o.Outcome())
		assert.False(t, o.IsPending())
	})

	t.Run("after_window_loses_to_expiry", func(t *testing.T) {
		now := time.Now()
		o := newTestOffer(t, now)

		err := o.Accept(now.Add(window))

		require.ErrorIs(t, err, offer.ErrOfferAlreadyResolved)
		assert.Equal(t, offer.OutcomeExpired, o.Outcome())
	})
}

func TestOffer_Decline(t *testing.T) {
	now := time.Now()
	o := newTestOffer(t, now)

	require.NoError(t, o.Decline())

	assert.Equal(t, offer.OutcomeDeclined, o.Outcome())
}

func TestOffer_Expire(t *testing.T) {
	t.Run("after_window", func(t *testing.T) {
		now := time.Now()
		o := newTestOffer(t, now)

		require.NoError(t, o.Expire(now.Add(window)))

		assert.Equal(t, offer.OutcomeExpired, o.Outcome())
	})

	t.Run("before_window_is_rejected", func(t *testing.T) {
		now := time.Now()
		o := newTestOffer(t, now)

		require.Error(t, o.Expire(now.Add(window-time.Second)))
		assert.True(t, o.IsPending())
	})
}

func TestOffer_ResolvesExactlyOnce(t *testing.T) {
	now := time.Now()
	o := newTestOffer(t, now)
	require.NoError(t, o.Accept(now.Add(time.Second)))

	var resolvedErr *offer.OfferAlreadyResolvedError

	err := o.Decline()
	require.ErrorIs(t, err, offer.ErrOfferAlreadyResolved)
	require.ErrorAs(t, err, &resolvedErr)
	assert.Equal(t, offer.OutcomeAccepted, resolvedErr.Resolved)

	err = o.Expire(now.Add(window))
	require.ErrorIs(t, err, offer.ErrOfferAlreadyResolved)

	err = o.Accept(now.Add(2 * time.Second))
	require.ErrorIs(t, err, offer.ErrOfferAlreadyResolved)
	assert.Equal(t, offer.OutcomeAccepted, o.Outcome())
}

func TestRestoreOffer(t *testing.T) {
	now := time.Now()
	id := kernel.NewUUID()
	orderID := kernel.NewUUID()
	riderID := kernel.NewUUID()

	o, err := offer.RestoreOffer(id, orderID, riderID, offer.OutcomeDeclined, now, now.Add(window))

	require.NoError(t, err)
	assert.True(t, o.ID().IsEqual(id))
	assert.True(t, o.OrderID().IsEqual(orderID))
	assert.True(t, o.RiderID().IsEqual(riderID))
	assert.Equal(t, offer.OutcomeDeclined, o.Outcome())
}
