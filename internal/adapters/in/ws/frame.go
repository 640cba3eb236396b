package ws

import (
	"encoding/json"
	"time"

	"khabarlagbe/internal/core/domain/model/offer"
	"khabarlagbe/internal/core/domain/model/order"
)

// EventFrame is the server to client wire shape for order events. Every
// frame carries the event name, order id, version, status, and server
// timestamp; the remaining fields appear only on the kinds that need them.
type EventFrame struct {
	Event      string    `json:"event"`
	OrderID    string    `json:"orderId"`
	Version    int64     `json:"version"`
	Status     string    `json:"status"`
	Timestamp  time.Time `json:"timestamp"`
	Actor      string    `json:"actor"`
	Note       string    `json:"note,omitempty"`
	RiderID    string    `json:"riderId,omitempty"`
	Location   *GeoFrame `json:"location,omitempty"`
	BearingDeg float64   `json:"bearingDeg,omitempty"`
	SpeedMps   float64   `json:"speedMps,omitempty"`
}

// GeoFrame is a coordinate pair on the wire.
type GeoFrame struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

func newEventFrame(event order.Event) EventFrame {
	frame := EventFrame{
		Event:      string(event.Kind),
		OrderID:    event.OrderID.String(),
		Version:    event.Version,
		Status:     event.Status.String(),
		Timestamp:  event.Timestamp,
		Actor:      event.Actor.String(),
		Note:       event.Note,
		BearingDeg: event.BearingDeg,
		SpeedMps:   event.SpeedMps,
	}
	if event.RiderID != nil {
		frame.RiderID = event.RiderID.String()
	}
	if event.Location != nil {
		frame.Location = &GeoFrame{Lat: event.Location.Lat(), Lon: event.Location.Lon()}
	}
	return frame
}

// OfferFrame pushes a pending dispatch offer to its candidate rider.
type OfferFrame struct {
	Event     string    `json:"event"`
	OfferID   string    `json:"offerId"`
	OrderID   string    `json:"orderId"`
	RiderID   string    `json:"riderId"`
	OfferedAt time.Time `json:"offeredAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

func newOfferFrame(o *offer.Offer) OfferFrame {
	return OfferFrame{
		Event:     "delivery_offer",
		OfferID:   o.ID().String(),
		OrderID:   o.OrderID().String(),
		RiderID:   o.RiderID().String(),
		OfferedAt: o.OfferedAt(),
		ExpiresAt: o.ExpiresAt(),
	}
}

// SnapshotFrame answers a sync command with the authoritative order state.
// The event delta follows as ordinary event frames.
type SnapshotFrame struct {
	Event               string               `json:"event"`
	OrderID             string               `json:"orderId"`
	Version             int64                `json:"version"`
	Status              string               `json:"status"`
	RiderID             string               `json:"riderId,omitempty"`
	EstimatedPrepMin    int                  `json:"estimatedPrepMinutes"`
	NeedsManualDispatch bool                 `json:"needsManualDispatch"`
	Timeline            []TimelineEntryFrame `json:"timeline"`
}

// TimelineEntryFrame is one timeline entry on the wire. Kind is carried so
// a client can rebuild a projection that matches one fed live events.
type TimelineEntryFrame struct {
	Status string    `json:"status"`
	At     time.Time `json:"at"`
	Actor  string    `json:"actor"`
	Note   string    `json:"note,omitempty"`
	Kind   string    `json:"kind"`
}

func newSnapshotFrame(snap order.Snapshot) SnapshotFrame {
	frame := SnapshotFrame{
		Event:               "order_snapshot",
		OrderID:             snap.ID.String(),
		Version:             snap.Version,
		Status:              snap.Status.String(),
		EstimatedPrepMin:    snap.EstimatedPrepMin,
		NeedsManualDispatch: snap.NeedsManualDispatch,
		Timeline:            make([]TimelineEntryFrame, 0, len(snap.Timeline)),
	}
	if snap.RiderID != nil {
		frame.RiderID = snap.RiderID.String()
	}
	for _, entry := range snap.Timeline {
		frame.Timeline = append(frame.Timeline, TimelineEntryFrame{
			Status: entry.Status.String(),
			At:     entry.At,
			Actor:  entry.Actor.String(),
			Note:   entry.Note,
			Kind:   string(entry.Kind),
		})
	}
	return frame
}

// ErrorFrame surfaces a rejected command to the actor that issued it.
// Commands are otherwise fire-and-forget: success comes back as the
// broadcast event, never as an acknowledgment.
type ErrorFrame struct {
	Event   string `json:"event"`
	Command string `json:"command"`
	OrderID string `json:"orderId,omitempty"`
	Message string `json:"message"`
}

// CommandFrame is the client to server wire shape.
type CommandFrame struct {
	Command string          `json:"command"`
	OrderID string          `json:"orderId"`
	ActorID string          `json:"actorId"`
	Payload json.RawMessage `json:"payload"`
}

// Per-command payloads.

type confirmPayload struct {
	PrepMinutes int `json:"prepMinutes"`
}

type rejectPayload struct {
	Reason string `json:"reason"`
}

type cancelPayload struct {
	Note string `json:"note"`
}

type otpPayload struct {
	Otp string `json:"otp"`
}

type offerPayload struct {
	OfferID string `json:"offerId"`
}

type syncPayload struct {
	SinceVersion int64 `json:"sinceVersion"`
}

type locationPayload struct {
	Lat        float64   `json:"lat"`
	Lon        float64   `json:"lon"`
	AccuracyM  float64   `json:"accuracy"`
	BearingDeg float64   `json:"bearing"`
	SpeedMps   float64   `json:"speed"`
	CapturedAt time.Time `json:"capturedAt"`
}
