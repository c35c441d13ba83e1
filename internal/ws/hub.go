package ws

import (
	"encoding/json"
	"sync"

	"cmbs_reminder/internal/domain"
	"cmbs_reminder/internal/logger"
)

// Hub fans reminder outcomes out to connected dashboard clients. A slow or
// gone client is dropped rather than blocking the cycle.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{clients: make(map[*Client]struct{})}
}

func (h *Hub) register(c *Client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
	logger.Debug("ws client connected", "clients", h.ClientCount())
}

func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()
}

func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Publish implements service.OutcomePublisher: every connected client gets
// the outcome as one JSON message.
func (h *Hub) Publish(outcome domain.ReminderOutcome) {
	msg, err := json.Marshal(outcome)
	if err != nil {
		logger.Error("marshal outcome for ws", "task_id", outcome.TaskID, "error", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		select {
		case c.send <- msg:
		default:
			// client is not draining; let its writePump exit and clean up
		}
	}
}
