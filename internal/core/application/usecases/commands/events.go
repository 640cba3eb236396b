package commands

import (
	"context"

	"khabarlagbe/internal/core/domain/model/order"
	"khabarlagbe/internal/core/ports"
)

// eventFanOut pushes an aggregate's committed events to the live channel and
// the notification pipeline. Fan-out runs only after a successful commit, so
// a rolled-back transition is never broadcast. Delivery failures are dropped:
// disconnected sessions catch up through sync, and notifications must never
// fail an order transition.
type eventFanOut struct {
	events        ports.EventPublisher
	notifications ports.NotificationPublisher
}

func newEventFanOut(events ports.EventPublisher, notifications ports.NotificationPublisher) eventFanOut {
	return eventFanOut{events: events, notifications: notifications}
}

func (f eventFanOut) fanOut(ctx context.Context, aggregate *order.Order) {
	for _, event := range aggregate.PullEvents() {
		if f.events != nil {
			_ = f.events.Publish(ctx, event)
		}
		if f.notifications != nil {
			_ = f.notifications.Notify(ctx, event)
		}
	}
}
