package commands

import (
	"errors"

	"khabarlagbe/internal/core/domain/model/kernel"
	"khabarlagbe/internal/pkg/guard"
)

var ErrPlaceOrderCommandIsNotConstructed = errors.New(
	"PlaceOrderCommand must be created via NewPlaceOrderCommand constructor",
)

// PlaceOrderCommand represents a customer's request to place a new order
// with a restaurant. Encapsulates the parties and both hand-off locations.
//
// Example:
//
//	cmd, err := NewPlaceOrderCommand(kernel.NewUUID(), customerID, restaurantID, pickup, dropoff)
//	if err != nil {
//	    return fmt.Errorf("invalid order data: %w", err)
//	}
//
//	handler := NewPlaceOrderCommandHandler(uowFactory, fanOut)
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    return fmt.Errorf("failed to place order: %w", err)
//	}
type PlaceOrderCommand struct { //nolint:recvcheck //using for validation
	orderID      kernel.UUID
	customerID   kernel.UUID
	restaurantID kernel.UUID
	pickup       kernel.GeoPoint
	dropoff      kernel.GeoPoint

	guard guard.ConstructorGuard
}

// NewPlaceOrderCommand creates a command to place a new order.
// Validates identities and both locations; returns an error if any fails.
func NewPlaceOrderCommand(
	orderID, customerID, restaurantID kernel.UUID,
	pickup, dropoff kernel.GeoPoint,
) (PlaceOrderCommand, error) {
	cmd := PlaceOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setCustomerID(customerID),
		cmd.setRestaurantID(restaurantID),
		cmd.setPickup(pickup),
		cmd.setDropoff(dropoff),
	); err != nil {
		return PlaceOrderCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c PlaceOrderCommand) Validate() error {
	return c.guard.Validate(ErrPlaceOrderCommandIsNotConstructed)
}

// OrderID returns the unique identifier for the new order.
func (c PlaceOrderCommand) OrderID() kernel.UUID { return c.orderID }

// CustomerID returns the ordering customer's identifier.
func (c PlaceOrderCommand) CustomerID() kernel.UUID { return c.customerID }

// RestaurantID returns the restaurant's identifier.
func (c PlaceOrderCommand) RestaurantID() kernel.UUID { return c.restaurantID }

// Pickup returns the restaurant location.
func (c PlaceOrderCommand) Pickup() kernel.GeoPoint { return c.pickup }

// Dropoff returns the customer's delivery address.
func (c PlaceOrderCommand) Dropoff() kernel.GeoPoint { return c.dropoff }

func (c *PlaceOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	c.orderID = orderID
	return nil
}

func (c *PlaceOrderCommand) setCustomerID(customerID kernel.UUID) error {
	if err := customerID.Validate(); err != nil {
		return err
	}
	c.customerID = customerID
	return nil
}

func (c *PlaceOrderCommand) setRestaurantID(restaurantID kernel.UUID) error {
	if err := restaurantID.Validate(); err != nil {
		return err
	}
	c.restaurantID = restaurantID
	return nil
}

func (c *PlaceOrderCommand) setPickup(pickup kernel.GeoPoint) error {
	if err := pickup.Validate(); err != nil {
		return err
	}
	c.pickup = pickup
	return nil
}

func (c *PlaceOrderCommand) setDropoff(dropoff kernel.GeoPoint) error {
	if err := dropoff.Validate(); err != nil {
		return err
	}
	c.dropoff = dropoff
	return nil
}
