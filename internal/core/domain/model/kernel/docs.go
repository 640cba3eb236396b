// Package kernel contains the shared kernel of the domain model: value
// objects that multiple aggregates depend on and that carry no business
// process of their own.
//
// The package provides:
//   - UUID: validated identity wrapper around github.com/google/uuid
//   - GeoPoint: WGS84 coordinate pair with haversine distance
//   - Role: the actor classification (customer, restaurant, rider, system)
//
// All types here are immutable value objects constructed through factory
// functions; zero values fail Validate.
package kernel
