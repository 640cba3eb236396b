// Package ws implements the event channel: a gorilla/websocket hub with one
// room per actor (`customer:{id}`, `restaurant:{id}`, `rider:{id}`) plus one
// per tracked order (`order:{id}`). Order events fan out to the rooms they
// concern; dispatch offers go straight to the candidate rider's room.
//
// Delivery is best effort per session. Every session gates frames by order
// version, and the sync command replays whatever a session missed, so a
// dropped frame costs a client one round trip, never consistency.
package ws

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"khabarlagbe/internal/core/domain/model/kernel"
	"khabarlagbe/internal/core/domain/model/offer"
	"khabarlagbe/internal/core/domain/model/order"
)

// Hub routes frames to the sessions joined to each room. It implements
// ports.EventPublisher and ports.OfferPublisher.
type Hub struct {
	mu     sync.RWMutex
	rooms  map[string]map[*Session]struct{}
	logger *slog.Logger
}

// NewHub creates an empty hub.
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		rooms:  make(map[string]map[*Session]struct{}),
		logger: logger.With("component", "ws-hub"),
	}
}

func actorRoom(role kernel.Role, actorID kernel.UUID) string {
	return role.String() + ":" + actorID.String()
}

func orderRoom(orderID kernel.UUID) string {
	return "order:" + orderID.String()
}

// register joins a session to its own actor room.
func (h *Hub) register(s *Session) {
	h.join(actorRoom(s.role, s.actorID), s)
}

// unregister removes a session from every room it joined.
func (h *Hub) unregister(s *Session) {
	h.mu.Lock()
	for name, members := range h.rooms {
		delete(members, s)
		if len(members) == 0 {
			delete(h.rooms, name)
		}
	}
	h.mu.Unlock()
	s.close()
}

// joinOrder subscribes a session to one order's room.
func (h *Hub) joinOrder(s *Session, orderID kernel.UUID) {
	h.join(orderRoom(orderID), s)
}

// leaveOrder unsubscribes a session from one order's room.
func (h *Hub) leaveOrder(s *Session, orderID kernel.UUID) {
	h.mu.Lock()
	defer h.mu.Unlock()

	name := orderRoom(orderID)
	if members, ok := h.rooms[name]; ok {
		delete(members, s)
		if len(members) == 0 {
			delete(h.rooms, name)
		}
	}
}

func (h *Hub) join(name string, s *Session) {
	h.mu.Lock()
	defer h.mu.Unlock()

	members, ok := h.rooms[name]
	if !ok {
		members = make(map[*Session]struct{})
		h.rooms[name] = members
	}
	members[s] = struct{}{}
}

// Publish broadcasts one order event to every room it belongs to. Location
// events only reach order-room subscribers; everything else also reaches the
// customer, restaurant, and (when assigned) rider rooms.
func (h *Hub) Publish(_ context.Context, event order.Event) error {
	names := []string{orderRoom(event.OrderID)}
	if event.Kind != order.KindRiderLocation {
		names = append(names,
			actorRoom(kernel.RoleCustomer, event.CustomerID),
			actorRoom(kernel.RoleRestaurant, event.RestaurantID),
		)
		if event.RiderID != nil {
			names = append(names, actorRoom(kernel.RoleRider, *event.RiderID))
		}
	}

	delivered := 0
	for _, s := range h.sessionsIn(names) {
		if s.deliverEvent(event) {
			delivered++
		}
	}

	h.logger.Debug("event broadcast",
		"kind", string(event.Kind),
		"order_id", event.OrderID.String(),
		"version", event.Version,
		"sessions", delivered)
	return nil
}

// PublishOffer delivers one pending offer to its candidate rider.
func (h *Hub) PublishOffer(_ context.Context, o *offer.Offer) error {
	payload, err := json.Marshal(newOfferFrame(o))
	if err != nil {
		return err
	}

	sessions := h.sessionsIn([]string{actorRoom(kernel.RoleRider, o.RiderID())})
	for _, s := range sessions {
		s.deliverRaw(payload)
	}

	if len(sessions) == 0 {
		// The rider is not connected; the offer expires and dispatch
		// advances to the next candidate.
		h.logger.Debug("offer target not connected",
			"offer_id", o.ID().String(),
			"rider_id", o.RiderID().String())
	}
	return nil
}

// sessionsIn collects the distinct sessions across the named rooms, so a
// session joined to both its actor room and the order room gets each frame
// once.
func (h *Hub) sessionsIn(names []string) []*Session {
	h.mu.RLock()
	defer h.mu.RUnlock()

	seen := make(map[*Session]struct{})
	sessions := make([]*Session, 0)
	for _, name := range names {
		for s := range h.rooms[name] {
			if _, ok := seen[s]; ok {
				continue
			}
			seen[s] = struct{}{}
			sessions = append(sessions, s)
		}
	}
	return sessions
}
