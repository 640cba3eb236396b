package ws

import (
	"encoding/json"
	"sync"
	"time"

	"khabarlagbe/internal/core/domain/model/kernel"
	"khabarlagbe/internal/core/domain/model/order"

	"github.com/gorilla/websocket"
)

const (
	// writeWait bounds a single frame write.
	writeWait = 10 * time.Second

	// pongWait is how long a connection may stay silent before the read
	// loop gives up on it.
	pongWait = 60 * time.Second

	// pingPeriod must be shorter than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// sendBufferSize is the per-session outbound queue. A session that
	// cannot drain it loses frames; the sync path recovers the gap.
	sendBufferSize = 64
)

// Session is one authenticated channel connection. Outbound frames pass a
// per-order version gate: once the session has seen version N for an order,
// frames with version <= N for that order are dropped, so a connection
// never replays an older version after a newer one.
type Session struct {
	role    kernel.Role
	actorID kernel.UUID
	conn    *websocket.Conn
	send    chan []byte

	mu       sync.Mutex
	closed   bool
	versions map[kernel.UUID]int64

	connectedAt time.Time
	closeOnce   sync.Once
}

func newSession(role kernel.Role, actorID kernel.UUID, conn *websocket.Conn) *Session {
	return &Session{
		role:        role,
		actorID:     actorID,
		conn:        conn,
		send:        make(chan []byte, sendBufferSize),
		versions:    make(map[kernel.UUID]int64),
		connectedAt: time.Now(),
	}
}

// Role returns the actor class this session authenticated as.
func (s *Session) Role() kernel.Role { return s.role }

// ActorID returns the authenticated actor identity.
func (s *Session) ActorID() kernel.UUID { return s.actorID }

// deliverEvent enqueues one event frame if it passes the version gate.
// It reports whether the frame was queued.
func (s *Session) deliverEvent(event order.Event) bool {
	if event.Version > 0 {
		s.mu.Lock()
		if event.Version <= s.versions[event.OrderID] {
			s.mu.Unlock()
			return false
		}
		s.versions[event.OrderID] = event.Version
		s.mu.Unlock()
	}

	payload, err := json.Marshal(newEventFrame(event))
	if err != nil {
		return false
	}
	return s.deliverRaw(payload)
}

// deliverRaw enqueues a marshaled frame. Delivery is best effort: a full
// queue drops the frame rather than blocking the broadcaster, and a frame
// for a session that already left drops the same way.
func (s *Session) deliverRaw(payload []byte) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	select {
	case s.send <- payload:
		return true
	default:
		return false
	}
}

// close shuts the outbound queue down exactly once. The closed flag flips
// under mu before the channel closes, so a broadcast racing the disconnect
// drops its frame instead of sending on a closed channel.
func (s *Session) close() {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		s.closed = true
		s.mu.Unlock()
		close(s.send)
	})
}

// writePump drains the outbound queue onto the connection and keeps the
// connection alive with pings. It exits when the queue closes or a write
// fails.
func (s *Session) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		s.conn.Close()
	}()

	for {
		select {
		case payload, ok := <-s.send:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				s.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := s.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
