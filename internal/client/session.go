// Package client implements the managed channel session used by customer,
// restaurant, and rider frontends: a websocket connection with automatic
// reconnection, resync-on-connect, and a poll fallback for long outages.
// The session maintains one projection per tracked order and guarantees the
// projection converges to the server's state regardless of how many frames
// the connection lost.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"sync"
	"time"

	"khabarlagbe/internal/adapters/in/ws"
	"khabarlagbe/internal/core/domain/model/kernel"
	"khabarlagbe/internal/core/domain/model/order"
	"khabarlagbe/internal/core/domain/services"

	"github.com/cenkalti/backoff/v4"
	"github.com/gorilla/websocket"
)

// ErrNotConnected is returned by Send while the socket is down. Commands
// are not queued: the caller retries once the session reconnects.
var ErrNotConnected = errors.New("session is not connected")

// Config carries the session's connection identity and tuning.
type Config struct {
	// URL is the channel endpoint, e.g. ws://host:8080/ws.
	URL     string
	Role    kernel.Role
	ActorID kernel.UUID

	// PollFallbackAfter is how long a disconnection lasts before the
	// session starts polling the REST delta endpoint instead of waiting
	// for the socket to come back. Zero disables the fallback.
	PollFallbackAfter time.Duration

	// PollInterval is the fallback polling cadence.
	PollInterval time.Duration
}

func (c Config) withDefaults() Config {
	if c.PollInterval <= 0 {
		c.PollInterval = 5 * time.Second
	}
	return c
}

// Session is a managed channel connection. Run drives the connect loop;
// Events and Offers deliver what the server pushes; Track registers the
// orders whose projections the session maintains.
type Session struct {
	cfg        Config
	dialer     *websocket.Dialer
	reconciler services.Reconciler
	poller     *Poller
	logger     *slog.Logger

	mu             sync.Mutex
	conn           *websocket.Conn
	projections    map[kernel.UUID]*order.Projection
	disconnectedAt time.Time

	events chan order.Event
	offers chan ws.OfferFrame
}

// NewSession creates a managed session. poller may be nil to disable the
// REST fallback.
func NewSession(cfg Config, poller *Poller, logger *slog.Logger) *Session {
	return &Session{
		cfg:            cfg.withDefaults(),
		dialer:         websocket.DefaultDialer,
		reconciler:     services.NewReconciler(),
		poller:         poller,
		logger:         logger.With("component", "client-session"),
		projections:    make(map[kernel.UUID]*order.Projection),
		disconnectedAt: time.Now(),
		events:         make(chan order.Event, 64),
		offers:         make(chan ws.OfferFrame, 8),
	}
}

// Events delivers every applied order event, live or replayed. Replayed
// events are indistinguishable from live ones, so one rendering path serves
// both.
func (s *Session) Events() <-chan order.Event { return s.events }

// Offers delivers dispatch offers pushed to a rider session.
func (s *Session) Offers() <-chan ws.OfferFrame { return s.offers }

// Track subscribes the session to an order. If connected, the room join and
// sync go out immediately; otherwise they run on the next connect.
func (s *Session) Track(orderID kernel.UUID) {
	s.mu.Lock()
	if _, ok := s.projections[orderID]; !ok {
		s.projections[orderID] = nil
	}
	conn := s.conn
	sinceVersion := s.sinceVersionLocked(orderID)
	s.mu.Unlock()

	if conn != nil {
		_ = s.sendJoin(conn, orderID)
		_ = s.sendSync(conn, orderID, sinceVersion)
	}
}

// Untrack drops an order's projection and leaves its room.
func (s *Session) Untrack(orderID kernel.UUID) {
	s.mu.Lock()
	delete(s.projections, orderID)
	conn := s.conn
	s.mu.Unlock()

	if conn != nil {
		_ = s.writeCommand(conn, "leave_order", orderID, nil)
	}
}

// Projection returns a copy of the tracked order's current projection.
func (s *Session) Projection(orderID kernel.UUID) (order.Projection, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.projections[orderID]
	if !ok || p == nil {
		return order.Projection{}, false
	}
	snapshot := *p
	snapshot.Timeline = make([]order.TimelineEntry, len(p.Timeline))
	copy(snapshot.Timeline, p.Timeline)
	return snapshot, true
}

// Send issues a fire-and-forget command on the channel. The outcome comes
// back as a broadcast event or an error frame, never a direct reply.
func (s *Session) Send(command string, orderID kernel.UUID, payload any) error {
	s.mu.Lock()
	conn := s.conn
	s.mu.Unlock()

	if conn == nil {
		return ErrNotConnected
	}
	return s.writeCommand(conn, command, orderID, payload)
}

// Run connects and keeps the session alive until the context ends. Each
// connection attempt backs off exponentially; a successful connection resets
// the backoff. When the fallback poller is configured, long outages degrade
// to REST polling instead of silence.
func (s *Session) Run(ctx context.Context) error {
	if s.poller != nil && s.cfg.PollFallbackAfter > 0 {
		go s.pollLoop(ctx)
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = time.Second
	policy.MaxInterval = 30 * time.Second
	policy.MaxElapsedTime = 0

	operation := func() error {
		if err := s.runOnce(ctx); err != nil {
			if ctx.Err() != nil {
				return backoff.Permanent(ctx.Err())
			}
			s.logger.Warn("connection lost", "error", err)
			return err
		}
		return backoff.Permanent(ctx.Err())
	}

	return backoff.Retry(operation, backoff.WithContext(policy, ctx))
}

// runOnce dials, resyncs every tracked order, and serves the connection
// until it breaks.
func (s *Session) runOnce(ctx context.Context) error {
	endpoint, err := s.endpoint()
	if err != nil {
		return backoff.Permanent(err)
	}

	conn, _, err := s.dialer.DialContext(ctx, endpoint, nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	s.mu.Lock()
	s.conn = conn
	tracked := make(map[kernel.UUID]int64, len(s.projections))
	for orderID := range s.projections {
		tracked[orderID] = s.sinceVersionLocked(orderID)
	}
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.conn = nil
		s.disconnectedAt = time.Now()
		s.mu.Unlock()
	}()

	s.logger.Info("connected", "endpoint", endpoint)

	for orderID, sinceVersion := range tracked {
		if err = s.sendJoin(conn, orderID); err != nil {
			return err
		}
		if err = s.sendSync(conn, orderID, sinceVersion); err != nil {
			return err
		}
	}

	for {
		_, payload, readErr := conn.ReadMessage()
		if readErr != nil {
			return readErr
		}
		s.handleFrame(payload)
	}
}

// handleFrame routes one inbound frame by its event discriminator.
func (s *Session) handleFrame(payload []byte) {
	var head struct {
		Event string `json:"event"`
	}
	if err := json.Unmarshal(payload, &head); err != nil {
		s.logger.Warn("malformed frame", "error", err)
		return
	}

	switch head.Event {
	case "order_snapshot":
		var frame ws.SnapshotFrame
		if err := json.Unmarshal(payload, &frame); err != nil {
			s.logger.Warn("malformed snapshot frame", "error", err)
			return
		}
		s.mergeSnapshotFrame(frame)

	case "delivery_offer":
		var frame ws.OfferFrame
		if err := json.Unmarshal(payload, &frame); err != nil {
			s.logger.Warn("malformed offer frame", "error", err)
			return
		}
		select {
		case s.offers <- frame:
		default:
		}

	case "error":
		var frame ws.ErrorFrame
		if err := json.Unmarshal(payload, &frame); err != nil {
			return
		}
		s.logger.Warn("command rejected",
			"command", frame.Command,
			"message", frame.Message)

	default:
		var frame ws.EventFrame
		if err := json.Unmarshal(payload, &frame); err != nil {
			s.logger.Warn("malformed event frame", "error", err)
			return
		}
		s.applyEventFrame(frame)
	}
}

// applyEventFrame feeds one event through the projection. A version gap
// triggers a resync for that order; the event itself is discarded because
// the sync response will replay it.
func (s *Session) applyEventFrame(frame ws.EventFrame) {
	event, err := eventFromFrame(frame)
	if err != nil {
		s.logger.Warn("unparseable event", "event", frame.Event, "error", err)
		return
	}

	if event.Kind == order.KindRiderLocation {
		s.emit(event)
		return
	}

	s.mu.Lock()
	p, tracked := s.projections[event.OrderID]
	if !tracked || p == nil {
		s.mu.Unlock()
		if tracked {
			// No snapshot yet; the pending sync will cover this event.
			return
		}
		s.emit(event)
		return
	}

	applied, applyErr := p.Apply(event)
	sinceVersion := p.Version
	conn := s.conn
	s.mu.Unlock()

	if applyErr != nil {
		s.logger.Info("version gap, resyncing",
			"order_id", event.OrderID.String(),
			"local_version", sinceVersion,
			"event_version", event.Version)
		if conn != nil {
			_ = s.sendSync(conn, event.OrderID, sinceVersion)
		}
		return
	}
	if applied {
		s.emit(event)
	}
}

// mergeSnapshotFrame reconciles an authoritative snapshot into the local
// projection and emits whatever events the merge replayed.
func (s *Session) mergeSnapshotFrame(frame ws.SnapshotFrame) {
	snap, err := snapshotFromFrame(frame)
	if err != nil {
		s.logger.Warn("unparseable snapshot", "order_id", frame.OrderID, "error", err)
		return
	}
	s.mergeSnapshot(snap)
}

func (s *Session) mergeSnapshot(snap order.Snapshot) {
	s.mu.Lock()
	p, tracked := s.projections[snap.ID]
	if !tracked {
		s.mu.Unlock()
		return
	}
	if p == nil {
		s.projections[snap.ID] = order.NewProjection(snap)
		s.mu.Unlock()
		return
	}

	result, err := s.reconciler.Merge(p, snap)
	s.mu.Unlock()

	if err != nil {
		s.logger.Warn("reconciliation failed", "order_id", snap.ID.String(), "error", err)
		return
	}
	if result.Outcome == services.MergeRemoteStale {
		s.logger.Warn("stale snapshot ignored",
			"order_id", snap.ID.String(),
			"remote_version", snap.Version)
		return
	}
	for _, event := range result.Replayed {
		s.emit(event)
	}
}

// pollLoop degrades to REST polling when the socket has been down longer
// than the fallback threshold.
func (s *Session) pollLoop(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		s.mu.Lock()
		connected := s.conn != nil
		downFor := time.Since(s.disconnectedAt)
		tracked := make(map[kernel.UUID]int64, len(s.projections))
		for orderID := range s.projections {
			tracked[orderID] = s.sinceVersionLocked(orderID)
		}
		s.mu.Unlock()

		if connected || downFor < s.cfg.PollFallbackAfter {
			continue
		}

		for orderID, sinceVersion := range tracked {
			snap, err := s.poller.FetchChanges(ctx, orderID, sinceVersion)
			if err != nil {
				s.logger.Warn("poll failed", "order_id", orderID.String(), "error", err)
				continue
			}
			s.mergeSnapshot(snap)
		}
	}
}

func (s *Session) emit(event order.Event) {
	select {
	case s.events <- event:
	default:
		s.logger.Warn("event buffer full, dropping",
			"order_id", event.OrderID.String(),
			"version", event.Version)
	}
}

// sinceVersionLocked returns the resync cursor for an order: the projection
// version, or -1 when no snapshot has arrived yet.
func (s *Session) sinceVersionLocked(orderID kernel.UUID) int64 {
	if p := s.projections[orderID]; p != nil {
		return p.Version
	}
	return -1
}

func (s *Session) sendJoin(conn *websocket.Conn, orderID kernel.UUID) error {
	return s.writeCommand(conn, "join_order", orderID, nil)
}

func (s *Session) sendSync(conn *websocket.Conn, orderID kernel.UUID, sinceVersion int64) error {
	return s.writeCommand(conn, "sync", orderID, map[string]int64{"sinceVersion": sinceVersion})
}

func (s *Session) writeCommand(conn *websocket.Conn, command string, orderID kernel.UUID, payload any) error {
	frame := ws.CommandFrame{
		Command: command,
		OrderID: orderID.String(),
		ActorID: s.cfg.ActorID.String(),
	}
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		frame.Payload = raw
	}

	data, err := json.Marshal(frame)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return conn.WriteMessage(websocket.TextMessage, data)
}

func (s *Session) endpoint() (string, error) {
	parsed, err := url.Parse(s.cfg.URL)
	if err != nil {
		return "", fmt.Errorf("invalid channel url: %w", err)
	}
	query := parsed.Query()
	query.Set("role", s.cfg.Role.String())
	query.Set("actor_id", s.cfg.ActorID.String())
	parsed.RawQuery = query.Encode()
	return parsed.String(), nil
}
