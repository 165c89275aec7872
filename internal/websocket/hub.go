package websocket

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/google/uuid"
	"github.com/yeluhq/terminal-server/internal/domain"
)

// Hub fans committed combat log entries out to websocket clients subscribed
// to an encounter. It implements service.LogFeed.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]bool
	feeds   map[string]map[*Client]bool // encounter ID -> subscribers
	stopped bool
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[*Client]bool),
		feeds:   make(map[string]map[*Client]bool),
	}
}

func (h *Hub) Register(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.stopped {
		client.Close()
		return
	}
	h.clients[client] = true
}

func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[client]; !ok {
		return
	}
	delete(h.clients, client)
	for _, subs := range h.feeds {
		delete(subs, client)
	}
	client.Close()
}

// Subscribe adds the client to an encounter's feed; a client follows one
// encounter at a time.
func (h *Hub) Subscribe(client *Client, encounterID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.stopped {
		return
	}
	for _, subs := range h.feeds {
		delete(subs, client)
	}
	if h.feeds[encounterID] == nil {
		h.feeds[encounterID] = make(map[*Client]bool)
	}
	h.feeds[encounterID][client] = true
}

type logEvent struct {
	Type    string            `json:"type"`
	Payload *domain.CombatLog `json:"payload"`
}

// BroadcastLog delivers a committed combat log entry to the encounter's
// subscribers. Slow clients are dropped rather than blocking the engine.
func (h *Hub) BroadcastLog(encounterID uuid.UUID, entry *domain.CombatLog) {
	data, err := json.Marshal(logEvent{Type: "combat_log", Payload: entry})
	if err != nil {
		log.Printf("ERROR [Hub.BroadcastLog] marshal: %v", err)
		return
	}

	h.mu.RLock()
	subs := h.feeds[encounterID.String()]
	stale := make([]*Client, 0)
	for client := range subs {
		select {
		case client.send <- data:
		default:
			stale = append(stale, client)
		}
	}
	h.mu.RUnlock()

	for _, client := range stale {
		h.Unregister(client)
	}
}

// Stop closes every client connection.
func (h *Hub) Stop() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.stopped {
		return
	}
	h.stopped = true
	for client := range h.clients {
		client.Close()
	}
	h.clients = make(map[*Client]bool)
	h.feeds = make(map[string]map[*Client]bool)
}
