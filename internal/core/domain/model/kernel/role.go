package kernel

import (
	"fmt"

	"khabarlagbe/internal/pkg/errs"
)

// Role identifies which class of actor issued a command or appears on a
// timeline entry. The three application roles map to the three client apps;
// RoleSystem marks entries produced by the backend itself (dispatch flags,
// automatic assignment).
type Role int

const (
	// RoleUnknown is the invalid zero value.
	RoleUnknown Role = iota

	// RoleCustomer is the ordering customer's app.
	RoleCustomer

	// RoleRestaurant is the restaurant's order-management app.
	RoleRestaurant

	// RoleRider is the delivery rider's app.
	RoleRider

	// RoleSystem marks transitions originated by the backend.
	RoleSystem
)

func getRoleStrings() map[Role]string {
	return map[Role]string{
		RoleUnknown:    "unknown",
		RoleCustomer:   "customer",
		RoleRestaurant: "restaurant",
		RoleRider:      "rider",
		RoleSystem:     "system",
	}
}

// RoleFromString parses a wire-format role name. Used when authenticating
// channel connections and binding commands to their origin.
func RoleFromString(s string) (Role, error) {
	for role, name := range getRoleStrings() {
		if role != RoleUnknown && name == s {
			return role, nil
		}
	}
	return RoleUnknown, errs.NewValueIsInvalidErrorWithCause("role", fmt.Errorf("%q is not a valid role", s))
}

// Validate rejects RoleUnknown and out-of-range values.
func (r Role) Validate() error {
	if r != RoleCustomer && r != RoleRestaurant && r != RoleRider && r != RoleSystem {
		return errs.NewValueIsInvalidErrorWithCause("role", fmt.Errorf("%d is not a valid role", r))
	}
	return nil
}

// String returns the wire-format role name.
func (r Role) String() string {
	if s, ok := getRoleStrings()[r]; ok {
		return s
	}
	return "unknown"
}
