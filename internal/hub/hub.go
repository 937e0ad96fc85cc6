package hub

import (
	"encoding/json"
	"sync"

	"github.com/rs/zerolog"
)

// Event types published for a match.
const (
	EventPlayerJoined  = "player_joined"
	EventPlayerLeft    = "player_left"
	EventTeamsAssigned = "teams_assigned"
	EventResult        = "result_recorded"
	EventPayment       = "payment_updated"
	EventCancelled     = "match_cancelled"
)

// Event represents a real-time event to be sent to clients.
type Event struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

// Client represents a single client connection watching a match.
// It's essentially a channel that the SSE handler will listen to.
type Client chan []byte

// Publisher is the side of the hub services depend on.
type Publisher interface {
	Broadcast(matchID uint, event Event)
}

// Hub manages the clients watching each match.
type Hub struct {
	matches map[uint]map[Client]struct{}
	mu      sync.RWMutex
	log     zerolog.Logger
}

// NewHub creates a new Hub.
func NewHub(log zerolog.Logger) *Hub {
	return &Hub{
		matches: make(map[uint]map[Client]struct{}),
		log:     log,
	}
}

// Subscribe registers a new client for a match and returns it.
func (h *Hub) Subscribe(matchID uint) Client {
	client := make(Client, 16)

	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.matches[matchID]; !ok {
		h.matches[matchID] = make(map[Client]struct{})
	}
	h.matches[matchID][client] = struct{}{}
	return client
}

// Unsubscribe removes a client from a match.
func (h *Hub) Unsubscribe(matchID uint, client Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if clients, ok := h.matches[matchID]; ok {
		if _, ok := clients[client]; ok {
			delete(clients, client)
			close(client) // Signal the SSE handler to stop.
			if len(clients) == 0 {
				delete(h.matches, matchID)
			}
		}
	}
}

// Watchers returns the number of clients subscribed to a match.
func (h *Hub) Watchers(matchID uint) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.matches[matchID])
}

// Broadcast sends an event to all clients watching a match.
func (h *Hub) Broadcast(matchID uint, event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	clients, ok := h.matches[matchID]
	if !ok {
		return
	}
	messageBytes, err := json.Marshal(event)
	if err != nil {
		h.log.Error().Err(err).Str("type", event.Type).Msg("encode hub event")
		return
	}

	for client := range clients {
		// Non-blocking: a slow client must not stall the publisher.
		select {
		case client <- messageBytes:
		default:
			h.log.Warn().Uint("match_id", matchID).Msg("dropping event for slow client")
		}
	}
}

// Discard is a Publisher that drops every event.
type Discard struct{}

func (Discard) Broadcast(uint, Event) {}
