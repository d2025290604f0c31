package ws

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/Miooowo/KCD-Dice-Game/internal/models"
)

// Hub tracks live connections by transport ID and is the concrete
// broadcast.Broadcaster of the server. It exists apart from the Gateway so
// the services can be handed a Broadcaster before the Gateway is built.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*client
}

// NewHub creates an empty connection registry.
func NewHub() *Hub {
	return &Hub{
		clients: make(map[string]*client),
	}
}

func (h *Hub) add(c *client) {
	h.mu.Lock()
	h.clients[c.id] = c
	h.mu.Unlock()
}

// remove unregisters c and reports whether it was still the registered
// connection for its ID. A second remove for the same client is a no-op.
func (h *Hub) remove(c *client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	current, ok := h.clients[c.id]
	if !ok || current != c {
		return false
	}
	delete(h.clients, c.id)
	return true
}

func (h *Hub) get(transportID string) *client {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.clients[transportID]
}

// SendToPlayer queues an event for one connection. Events for connections
// that are no longer registered are dropped.
func (h *Hub) SendToPlayer(ctx context.Context, transportID string, event string, payload any) {
	c := h.get(transportID)
	if c == nil {
		log.Debug().
			Str("transport_id", transportID).
			Str("event", event).
			Msg("dropping event for unknown transport")
		return
	}

	c.send(outbound{Event: event, Payload: payload})
}

// SendToRoom queues an event for every connected occupant of the room,
// skipping excludeTransportID when it is non-empty.
func (h *Hub) SendToRoom(ctx context.Context, room *models.Room, event string, payload any, excludeTransportID string) {
	if room == nil {
		return
	}
	for _, p := range room.Players {
		if p == nil || !p.Connected || p.TransportID == "" {
			continue
		}
		if excludeTransportID != "" && p.TransportID == excludeTransportID {
			continue
		}
		h.SendToPlayer(ctx, p.TransportID, event, payload)
	}
}
