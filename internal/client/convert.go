package client

import (
	"time"

	"khabarlagbe/internal/adapters/in/ws"
	"khabarlagbe/internal/core/domain/model/kernel"
	"khabarlagbe/internal/core/domain/model/order"
	"khabarlagbe/internal/pkg/errs"

	"github.com/google/uuid"
)

// Wire frames travel as strings; the projection machinery wants domain
// types. These conversions are the inverse of the server's frame builders.

func eventFromFrame(frame ws.EventFrame) (order.Event, error) {
	orderID, err := idFromString(frame.OrderID)
	if err != nil {
		return order.Event{}, err
	}
	status, err := order.StatusFromString(frame.Status)
	if err != nil {
		return order.Event{}, err
	}
	actor, err := kernel.RoleFromString(frame.Actor)
	if err != nil {
		return order.Event{}, err
	}

	event := order.Event{
		Kind:       order.EventKind(frame.Event),
		OrderID:    orderID,
		Version:    frame.Version,
		Status:     status,
		Timestamp:  frame.Timestamp,
		Actor:      actor,
		Note:       frame.Note,
		BearingDeg: frame.BearingDeg,
		SpeedMps:   frame.SpeedMps,
	}

	if frame.RiderID != "" {
		riderID, err := idFromString(frame.RiderID)
		if err != nil {
			return order.Event{}, err
		}
		event.RiderID = &riderID
	}
	if frame.Location != nil {
		position, err := kernel.NewGeoPoint(frame.Location.Lat, frame.Location.Lon)
		if err != nil {
			return order.Event{}, err
		}
		event.Location = &position
	}
	return event, nil
}

func snapshotFromFrame(frame ws.SnapshotFrame) (order.Snapshot, error) {
	orderID, err := idFromString(frame.OrderID)
	if err != nil {
		return order.Snapshot{}, err
	}
	status, err := order.StatusFromString(frame.Status)
	if err != nil {
		return order.Snapshot{}, err
	}

	snap := order.Snapshot{
		ID:                  orderID,
		Status:              status,
		Version:             frame.Version,
		EstimatedPrepMin:    frame.EstimatedPrepMin,
		NeedsManualDispatch: frame.NeedsManualDispatch,
		Timeline:            make([]order.TimelineEntry, 0, len(frame.Timeline)),
	}
	if frame.RiderID != "" {
		riderID, err := idFromString(frame.RiderID)
		if err != nil {
			return order.Snapshot{}, err
		}
		snap.RiderID = &riderID
	}

	for _, entry := range frame.Timeline {
		converted, err := timelineEntryFromWire(entry.Status, entry.Actor, entry.Note, entry.Kind, entry.At)
		if err != nil {
			return order.Snapshot{}, err
		}
		snap.Timeline = append(snap.Timeline, converted)
	}
	return snap, nil
}

func timelineEntryFromWire(status, actor, note, kind string, at time.Time) (order.TimelineEntry, error) {
	parsedStatus, err := order.StatusFromString(status)
	if err != nil {
		return order.TimelineEntry{}, err
	}
	parsedActor, err := kernel.RoleFromString(actor)
	if err != nil {
		return order.TimelineEntry{}, err
	}
	return order.TimelineEntry{
		Status: parsedStatus,
		At:     at,
		Actor:  parsedActor,
		Note:   note,
		Kind:   order.EventKind(kind),
	}, nil
}

func idFromString(raw string) (kernel.UUID, error) {
	parsed, err := uuid.Parse(raw)
	if err != nil {
		return kernel.UUID{}, errs.NewValueIsInvalidErrorWithCause("id", err)
	}
	return kernel.UUIDFromBytes(parsed[:])
}
