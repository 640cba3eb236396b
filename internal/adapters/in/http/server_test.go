package http

import (
	"testing"

	"khabarlagbe/internal/core/domain/model/kernel"
	"khabarlagbe/internal/core/domain/model/order"
	"khabarlagbe/internal/core/ports"

	"github.com/stretchr/testify/assert"
)

func TestOtpStageAllowed(t *testing.T) {
	customerID := kernel.NewUUID()
	restaurantID := kernel.NewUUID()
	riderID := kernel.NewUUID()
	snapshot := order.Snapshot{CustomerID: customerID, RestaurantID: restaurantID}

	cases := []struct {
		name    string
		stage   ports.OtpStage
		role    kernel.Role
		actorID kernel.UUID
		allowed bool
	}{
		{"pickup_to_restaurant", ports.OtpStagePickup, kernel.RoleRestaurant, restaurantID, true},
		{"pickup_to_customer", ports.OtpStagePickup, kernel.RoleCustomer, customerID, true},
		{"pickup_to_rider", ports.OtpStagePickup, kernel.RoleRider, riderID, false},
		{"pickup_to_foreign_restaurant", ports.OtpStagePickup, kernel.RoleRestaurant, kernel.NewUUID(), false},
		{"delivery_to_customer", ports.OtpStageDelivery, kernel.RoleCustomer, customerID, true},
		{"delivery_to_restaurant", ports.OtpStageDelivery, kernel.RoleRestaurant, restaurantID, false},
		{"delivery_to_rider", ports.OtpStageDelivery, kernel.RoleRider, riderID, false},
		{"delivery_to_foreign_customer", ports.OtpStageDelivery, kernel.RoleCustomer, kernel.NewUUID(), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.allowed, otpStageAllowed(tc.stage, tc.role, tc.actorID, snapshot))
		})
	}
}
