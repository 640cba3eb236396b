// Package guard implements the constructor-guard pattern used by commands,
// queries, and value objects to detect zero-value instances that bypassed
// their designated constructor.
package guard

import "errors"

// ErrDefaultConstructorGuard is returned by Validate when the caller passes
// a nil validation error for an unconstructed object.
var ErrDefaultConstructorGuard = errors.New("object must be created via its constructor")

// ConstructorGuard distinguishes objects built through their constructor from
// zero values. Embed it as a private field and set it with NewConstructorGuard
// inside the constructor; Validate then fails for any zero-value instance.
//
// Example:
//
//	type ConfirmOrderCommand struct {
//	    orderID kernel.UUID
//	    guard   guard.ConstructorGuard
//	}
//
//	func (c ConfirmOrderCommand) Validate() error {
//	    return c.guard.Validate(ErrConfirmOrderCommandIsNotConstructed)
//	}
type ConstructorGuard struct {
	isConstructed bool
}

// NewConstructorGuard creates a guard marking the enclosing object as
// properly constructed.
func NewConstructorGuard() ConstructorGuard {
	return ConstructorGuard{isConstructed: true}
}

// Validate returns nil for constructed objects, validationError for zero
// values, and ErrDefaultConstructorGuard when validationError is nil.
func (g ConstructorGuard) Validate(validationError error) error {
	if validationError == nil {
		validationError = ErrDefaultConstructorGuard
	}
	if !g.isConstructed {
		return validationError
	}
	return nil
}
