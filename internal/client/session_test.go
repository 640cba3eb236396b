package client

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"khabarlagbe/internal/adapters/in/ws"
	"khabarlagbe/internal/core/domain/model/kernel"
	"khabarlagbe/internal/core/domain/model/order"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSession(t *testing.T) *Session {
	t.Helper()
	return NewSession(Config{
		URL:     "ws://localhost/ws",
		Role:    kernel.RoleCustomer,
		ActorID: kernel.NewUUID(),
	}, nil, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func marshalFrame(t *testing.T, frame any) []byte {
	t.Helper()
	payload, err := json.Marshal(frame)
	require.NoError(t, err)
	return payload
}

func snapshotFrame(orderID kernel.UUID, version int64) ws.SnapshotFrame {
	placedAt := time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC)
	frame := ws.SnapshotFrame{
		Event:            "order_snapshot",
		OrderID:          orderID.String(),
		Version:          version,
		Status:           order.Pending.String(),
		EstimatedPrepMin: 0,
		Timeline: []ws.TimelineEntryFrame{{
			Status: order.Pending.String(),
			At:     placedAt,
			Actor:  kernel.RoleCustomer.String(),
			Kind:   string(order.KindNewOrder),
		}},
	}
	if version >= 1 {
		frame.Status = order.Confirmed.String()
		frame.Timeline = append(frame.Timeline, ws.TimelineEntryFrame{
			Status: order.Confirmed.String(),
			At:     placedAt.Add(time.Minute),
			Actor:  kernel.RoleRestaurant.String(),
			Kind:   string(order.KindOrderUpdated),
		})
	}
	if version >= 2 {
		frame.Status = order.Preparing.String()
		frame.Timeline = append(frame.Timeline, ws.TimelineEntryFrame{
			Status: order.Preparing.String(),
			At:     placedAt.Add(2 * time.Minute),
			Actor:  kernel.RoleRestaurant.String(),
			Kind:   string(order.KindOrderUpdated),
		})
	}
	return frame
}

func eventFrame(orderID kernel.UUID, version int64, status order.Status) ws.EventFrame {
	return ws.EventFrame{
		Event:     string(order.KindOrderUpdated),
		OrderID:   orderID.String(),
		Version:   version,
		Status:    status.String(),
		Timestamp: time.Date(2026, 2, 10, 12, 5, 0, 0, time.UTC),
		Actor:     kernel.RoleRestaurant.String(),
	}
}

func drainEvents(s *Session) []order.Event {
	events := make([]order.Event, 0)
	for {
		select {
		case event := <-s.Events():
			events = append(events, event)
		default:
			return events
		}
	}
}

func TestSession_SnapshotThenLiveEvents(t *testing.T) {
	session := testSession(t)
	orderID := kernel.NewUUID()
	session.Track(orderID)

	session.handleFrame(marshalFrame(t, snapshotFrame(orderID, 0)))
	session.handleFrame(marshalFrame(t, eventFrame(orderID, 1, order.Confirmed)))
	session.handleFrame(marshalFrame(t, eventFrame(orderID, 2, order.Preparing)))

	projection, ok := session.Projection(orderID)
	require.True(t, ok)
	assert.Equal(t, int64(2), projection.Version)
	assert.Equal(t, order.Preparing, projection.Status)
	assert.Len(t, projection.Timeline, 3)

	events := drainEvents(session)
	require.Len(t, events, 2)
	assert.Equal(t, int64(1), events[0].Version)
	assert.Equal(t, int64(2), events[1].Version)
}

func TestSession_DuplicateDeliveryIsIdempotent(t *testing.T) {
	session := testSession(t)
	orderID := kernel.NewUUID()
	session.Track(orderID)

	session.handleFrame(marshalFrame(t, snapshotFrame(orderID, 0)))
	confirmed := marshalFrame(t, eventFrame(orderID, 1, order.Confirmed))
	session.handleFrame(confirmed)
	session.handleFrame(confirmed)

	projection, ok := session.Projection(orderID)
	require.True(t, ok)
	assert.Equal(t, int64(1), projection.Version)
	assert.Len(t, drainEvents(session), 1)
}

func TestSession_EventBeforeFirstSnapshotIsDeferred(t *testing.T) {
	session := testSession(t)
	orderID := kernel.NewUUID()
	session.Track(orderID)

	// The pending sync will replay this transition; applying it now would
	// build a projection with a hole in its timeline.
	session.handleFrame(marshalFrame(t, eventFrame(orderID, 1, order.Confirmed)))

	_, ok := session.Projection(orderID)
	assert.False(t, ok)
	assert.Empty(t, drainEvents(session))
}

func TestSession_VersionGapKeepsLocalState(t *testing.T) {
	session := testSession(t)
	orderID := kernel.NewUUID()
	session.Track(orderID)

	session.handleFrame(marshalFrame(t, snapshotFrame(orderID, 0)))
	// Version 1 never arrives.
	session.handleFrame(marshalFrame(t, eventFrame(orderID, 2, order.Preparing)))

	projection, ok := session.Projection(orderID)
	require.True(t, ok)
	assert.Equal(t, int64(0), projection.Version)
	assert.Empty(t, drainEvents(session))
}

func TestSession_SnapshotMergeConvergesWithLiveDelivery(t *testing.T) {
	live := testSession(t)
	resynced := testSession(t)
	orderID := kernel.NewUUID()
	live.Track(orderID)
	resynced.Track(orderID)

	base := marshalFrame(t, snapshotFrame(orderID, 0))
	live.handleFrame(base)
	resynced.handleFrame(base)

	// One session sees the transitions live; the other misses them and
	// merges the authoritative snapshot after reconnecting.
	full := snapshotFrame(orderID, 2)
	live.handleFrame(marshalFrame(t, ws.EventFrame{
		Event:     string(order.KindOrderUpdated),
		OrderID:   orderID.String(),
		Version:   1,
		Status:    order.Confirmed.String(),
		Timestamp: full.Timeline[1].At,
		Actor:     kernel.RoleRestaurant.String(),
	}))
	live.handleFrame(marshalFrame(t, ws.EventFrame{
		Event:     string(order.KindOrderUpdated),
		OrderID:   orderID.String(),
		Version:   2,
		Status:    order.Preparing.String(),
		Timestamp: full.Timeline[2].At,
		Actor:     kernel.RoleRestaurant.String(),
	}))
	resynced.handleFrame(marshalFrame(t, full))

	liveProjection, ok := live.Projection(orderID)
	require.True(t, ok)
	resyncedProjection, ok := resynced.Projection(orderID)
	require.True(t, ok)
	assert.True(t, liveProjection.IsEqual(&resyncedProjection))

	// The replayed events come through the same channel as live ones.
	replayed := drainEvents(resynced)
	require.Len(t, replayed, 2)
	assert.Equal(t, int64(1), replayed[0].Version)
	assert.Equal(t, int64(2), replayed[1].Version)
}

func TestSession_StaleSnapshotNeverRollsBack(t *testing.T) {
	session := testSession(t)
	orderID := kernel.NewUUID()
	session.Track(orderID)

	session.handleFrame(marshalFrame(t, snapshotFrame(orderID, 2)))
	session.handleFrame(marshalFrame(t, snapshotFrame(orderID, 0)))

	projection, ok := session.Projection(orderID)
	require.True(t, ok)
	assert.Equal(t, int64(2), projection.Version)
	assert.Equal(t, order.Preparing, projection.Status)
}

func TestSession_LocationEventsBypassProjection(t *testing.T) {
	session := testSession(t)
	orderID := kernel.NewUUID()
	session.Track(orderID)
	session.handleFrame(marshalFrame(t, snapshotFrame(orderID, 0)))
	drainEvents(session)

	session.handleFrame(marshalFrame(t, ws.EventFrame{
		Event:     string(order.KindRiderLocation),
		OrderID:   orderID.String(),
		Status:    order.OnTheWay.String(),
		Timestamp: time.Now().UTC(),
		Actor:     kernel.RoleRider.String(),
		RiderID:   kernel.NewUUID().String(),
		Location:  &ws.GeoFrame{Lat: 23.78, Lon: 90.41},
	}))

	events := drainEvents(session)
	require.Len(t, events, 1)
	assert.Equal(t, order.KindRiderLocation, events[0].Kind)

	projection, ok := session.Projection(orderID)
	require.True(t, ok)
	assert.Equal(t, int64(0), projection.Version)
}

func TestSession_UntrackDropsProjection(t *testing.T) {
	session := testSession(t)
	orderID := kernel.NewUUID()
	session.Track(orderID)
	session.handleFrame(marshalFrame(t, snapshotFrame(orderID, 0)))

	session.Untrack(orderID)

	_, ok := session.Projection(orderID)
	assert.False(t, ok)
}

func TestSession_SendWhileDisconnected(t *testing.T) {
	session := testSession(t)
	err := session.Send("order_accepted", kernel.NewUUID(), map[string]int{"prepMinutes": 20})
	assert.ErrorIs(t, err, ErrNotConnected)
}

func TestSession_OfferFramesReachRiderChannel(t *testing.T) {
	session := testSession(t)

	session.handleFrame(marshalFrame(t, ws.OfferFrame{
		Event:     "delivery_offer",
		OfferID:   kernel.NewUUID().String(),
		OrderID:   kernel.NewUUID().String(),
		RiderID:   kernel.NewUUID().String(),
		OfferedAt: time.Now().UTC(),
		ExpiresAt: time.Now().UTC().Add(30 * time.Second),
	}))

	select {
	case offer := <-session.Offers():
		assert.Equal(t, "delivery_offer", offer.Event)
	default:
		t.Fatal("expected an offer on the channel")
	}
}

func TestPoller_FetchChanges(t *testing.T) {
	orderID := kernel.NewUUID()
	frame := snapshotFrame(orderID, 2)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/orders/"+orderID.String()+"/changes", r.URL.Path)
		assert.Equal(t, "0", r.URL.Query().Get("since_version"))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"order": map[string]any{
				"orderId":  frame.OrderID,
				"status":   frame.Status,
				"version":  frame.Version,
				"timeline": frame.Timeline,
			},
			"events": []any{},
		})
	}))
	defer server.Close()

	poller := NewPoller(server.URL, nil)
	snap, err := poller.FetchChanges(context.Background(), orderID, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(2), snap.Version)
	assert.Equal(t, order.Preparing, snap.Status)
	assert.Len(t, snap.Timeline, 3)
}

func TestPoller_FetchChangesNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	poller := NewPoller(server.URL, nil)
	_, err := poller.FetchChanges(context.Background(), kernel.NewUUID(), -1)
	assert.Error(t, err)
}
