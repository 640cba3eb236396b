package ports

import (
	"context"

	"khabarlagbe/internal/core/domain/model/offer"
	"khabarlagbe/internal/core/domain/model/order"
)

// EventPublisher fans order events out to the rooms of connected channel
// sessions. Delivery is best effort per session; the version gate and the
// sync path cover any session that misses an event.
type EventPublisher interface {
	// Publish broadcasts one event to every room it belongs to.
	Publish(ctx context.Context, event order.Event) error
}

// OfferPublisher pushes a dispatch offer to the target rider's channel
// session so the app can show the accept/decline prompt.
type OfferPublisher interface {
	// PublishOffer delivers one pending offer to its rider.
	PublishOffer(ctx context.Context, o *offer.Offer) error
}

// NotificationPublisher hands order events to the out-of-band notification
// pipeline (push, SMS). Failures must not affect the order transition that
// produced the event.
type NotificationPublisher interface {
	// Notify enqueues one event for notification delivery.
	Notify(ctx context.Context, event order.Event) error
}
