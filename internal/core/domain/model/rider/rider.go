package rider

import (
	"errors"

	"khabarlagbe/internal/core/domain/model/kernel"
	"khabarlagbe/internal/pkg/errs"
)

// ErrRiderIsNotConstructed is returned when a Rider instance was not created
// through NewRider or RestoreRider.
var ErrRiderIsNotConstructed = errors.New("Rider must be created via NewRider or RestoreRider")

// Rider is the aggregate for a delivery rider's dispatchability: identity,
// whether the app currently holds a live channel connection (online), and
// whether the rider has toggled themselves available for offers.
//
// A rider's live position is not part of this aggregate; the latest
// LocationSample is ephemeral state owned by the sample store.
type Rider struct {
	id        kernel.UUID
	name      string
	online    bool
	available bool

	isConstructed bool
}

// NewRider creates a rider who starts offline and unavailable; both flags
// flip through explicit state reports from the rider app.
func NewRider(id kernel.UUID, name string) (*Rider, error) {
	r := &Rider{isConstructed: true}

	if err := errors.Join(
		r.setID(id),
		r.setName(name),
	); err != nil {
		return nil, err
	}

	return r, nil
}

// RestoreRider reconstructs a rider from persistence.
func RestoreRider(id kernel.UUID, name string, online, available bool) (*Rider, error) {
	r, err := NewRider(id, name)
	if err != nil {
		return nil, err
	}
	r.online = online
	r.available = available
	return r, nil
}

// Validate ensures the Rider was created through a constructor.
func (r *Rider) Validate() error {
	if r == nil || !r.isConstructed {
		return ErrRiderIsNotConstructed
	}
	return nil
}

// ID returns the rider's unique identifier.
func (r *Rider) ID() kernel.UUID { return r.id }

// Name returns the rider's display name.
func (r *Rider) Name() string { return r.name }

// IsOnline reports whether the rider app holds a live channel connection.
func (r *Rider) IsOnline() bool { return r.online }

// IsAvailable reports whether the rider accepts delivery offers.
func (r *Rider) IsAvailable() bool { return r.available }

// IsDispatchable reports whether dispatch may offer orders to this rider.
func (r *Rider) IsDispatchable() bool { return r.online && r.available }

// SetOnline records channel connection state. Going offline also makes the
// rider unavailable: a disconnected app cannot see an offer, so keeping the
// availability flag would only burn offer timeouts.
func (r *Rider) SetOnline(online bool) {
	r.online = online
	if !online {
		r.available = false
	}
}

// SetAvailable records the rider's availability toggle. An offline rider
// cannot become available.
func (r *Rider) SetAvailable(available bool) error {
	if available && !r.online {
		return errs.NewValueIsInvalidError("an offline rider cannot become available")
	}
	r.available = available
	return nil
}

func (r *Rider) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	r.id = id
	return nil
}

func (r *Rider) setName(name string) error {
	if name == "" {
		return errs.NewValueIsRequiredError("rider name")
	}
	r.name = name
	return nil
}
