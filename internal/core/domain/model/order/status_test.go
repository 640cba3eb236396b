package order_test

import (
	"fmt"
	"testing"

	"khabarlagbe/internal/core/domain/model/kernel"
	"khabarlagbe/internal/core/domain/model/order"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatus_Strings(t *testing.T) {
	t.Run("wire_names_round_trip", func(t *testing.T) {
		statuses := []order.Status{
			order.Pending, order.Confirmed, order.Preparing, order.ReadyForPickup,
			order.PickedUp, order.OnTheWay, order.Delivered, order.Cancelled, order.Rejected,
		}

		for _, s := range statuses {
			parsed, err := order.StatusFromString(s.String())
			require.NoError(t, err)
			assert.Equal(t, s, parsed)
		}
	})

	t.Run("rejects_unknown_names", func(t *testing.T) {
		_, err := order.StatusFromString("SHIPPED")
		require.Error(t, err)
	})
}

func TestStatus_Validate(t *testing.T) {
	t.Run("rejects_unknown_and_out_of_range", func(t *testing.T) {
		for _, s := range []order.Status{order.Unknown, order.Status(-1), order.Status(100)} {
			t.Run(fmt.Sprintf("value_%d", int(s)), func(t *testing.T) {
				require.Error(t, s.Validate())
			})
		}
	})
}

func TestStatus_IsTerminal(t *testing.T) {
	terminal := map[order.Status]bool{
		order.Delivered: true,
		order.Cancelled: true,
		order.Rejected:  true,
	}

	for _, s := range []order.Status{
		order.Pending, order.Confirmed, order.Preparing, order.ReadyForPickup,
		order.PickedUp, order.OnTheWay, order.Delivered, order.Cancelled, order.Rejected,
	} {
		assert.Equal(t, terminal[s], s.IsTerminal(), "status %s", s)
	}
}

func TestStatus_Transition(t *testing.T) {
	t.Run("allows_table_transitions", func(t *testing.T) {
		cases := []struct {
			name   string
			from   order.Status
			actor  kernel.Role
			target order.Status
		}{
			{"restaurant_confirms", order.Pending, kernel.RoleRestaurant, order.Confirmed},
			{"restaurant_rejects", order.Pending, kernel.RoleRestaurant, order.Rejected},
			{"restaurant_starts_preparing", order.Confirmed, kernel.RoleRestaurant, order.Preparing},
			{"restaurant_marks_ready", order.Preparing, kernel.RoleRestaurant, order.ReadyForPickup},
			{"rider_picks_up", order.ReadyForPickup, kernel.RoleRider, order.PickedUp},
			{"rider_starts_delivery", order.PickedUp, kernel.RoleRider, order.OnTheWay},
			{"rider_delivers", order.OnTheWay, kernel.RoleRider, order.Delivered},
			{"customer_cancels_pending", order.Pending, kernel.RoleCustomer, order.Cancelled},
			{"customer_cancels_confirmed", order.Confirmed, kernel.RoleCustomer, order.Cancelled},
			{"system_self_transition_on_ready", order.ReadyForPickup, kernel.RoleSystem, order.ReadyForPickup},
			{"support_cancels_preparing", order.Preparing, kernel.RoleSystem, order.Cancelled},
		}

		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				got, err := tc.from.Transition(tc.actor, tc.target)
				require.NoError(t, err)
				assert.Equal(t, tc.target, got)
			})
		}
	})

	t.Run("rejects_everything_outside_the_table", func(t *testing.T) {
		cases := []struct {
			name   string
			from   order.Status
			actor  kernel.Role
			target order.Status
		}{
			{"no_state_skipping", order.Pending, kernel.RoleRider, order.PickedUp},
			{"customer_cannot_confirm", order.Pending, kernel.RoleCustomer, order.Confirmed},
			{"rider_cannot_confirm", order.Pending, kernel.RoleRider, order.Confirmed},
			{"customer_cancel_after_preparing", order.Preparing, kernel.RoleCustomer, order.Cancelled},
			{"customer_cancel_after_pickup", order.PickedUp, kernel.RoleCustomer, order.Cancelled},
			{"restaurant_cannot_reject_confirmed", order.Confirmed, kernel.RoleRestaurant, order.Rejected},
			{"rider_cannot_skip_on_the_way", order.PickedUp, kernel.RoleRider, order.Delivered},
			{"no_leaving_delivered", order.Delivered, kernel.RoleSystem, order.Cancelled},
			{"no_leaving_cancelled", order.Cancelled, kernel.RoleRestaurant, order.Confirmed},
			{"no_leaving_rejected", order.Rejected, kernel.RoleRestaurant, order.Confirmed},
			{"system_cannot_cancel_after_pickup", order.PickedUp, kernel.RoleSystem, order.Cancelled},
		}

		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				_, err := tc.from.Transition(tc.actor, tc.target)

				require.Error(t, err)
				require.ErrorIs(t, err, order.ErrInvalidTransition)

				var invalid *order.InvalidTransitionError
				require.ErrorAs(t, err, &invalid)
				assert.Equal(t, tc.from, invalid.From)
				assert.Equal(t, tc.target, invalid.To)
				assert.Equal(t, tc.actor, invalid.Actor)
			})
		}
	})

	t.Run("rejects_invalid_actor_and_target", func(t *testing.T) {
		_, err := order.Pending.Transition(kernel.RoleUnknown, order.Confirmed)
		require.Error(t, err)

		_, err = order.Pending.Transition(kernel.RoleRestaurant, order.Unknown)
		require.Error(t, err)
	})

	t.Run("terminal_states_accept_no_transition_from_any_actor", func(t *testing.T) {
		actors := []kernel.Role{kernel.RoleCustomer, kernel.RoleRestaurant, kernel.RoleRider, kernel.RoleSystem}
		targets := []order.Status{
			order.Pending, order.Confirmed, order.Preparing, order.ReadyForPickup,
			order.PickedUp, order.OnTheWay, order.Delivered, order.Cancelled, order.Rejected,
		}

		for _, from := range []order.Status{order.Delivered, order.Cancelled, order.Rejected} {
			for _, actor := range actors {
				for _, target := range targets {
					_, err := from.Transition(actor, target)
					require.Error(t, err, "from=%s actor=%s target=%s", from, actor, target)
				}
			}
		}
	})
}
