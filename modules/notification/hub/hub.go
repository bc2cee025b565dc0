// Package hub routes live frames to the connections subscribed to an event.
package hub

import (
	"encoding/json"
	"sync"

	"sportmeet/core/metrics"
	"sportmeet/core/utils"

	"github.com/google/uuid"
)

const DefaultBufferSize = 32

// Client is one live connection. Frames queued for it are read from Send.
type Client struct {
	ID     string
	UserID uuid.UUID
	send   chan []byte
}

// Send is closed when the client is disconnected.
func (c *Client) Send() <-chan []byte {
	return c.send
}

// Hub owns every live connection and its subscription set. One Hub is
// created at server start and shared by reference.
type Hub struct {
	mu            sync.RWMutex
	clients       map[string]*Client
	subscriptions map[*Client]map[uuid.UUID]struct{}
	members       map[uuid.UUID]map[*Client]struct{}
	bufferSize    int
}

func NewHub(bufferSize int) *Hub {
	if bufferSize <= 0 {
		bufferSize = DefaultBufferSize
	}
	return &Hub{
		clients:       make(map[string]*Client),
		subscriptions: make(map[*Client]map[uuid.UUID]struct{}),
		members:       make(map[uuid.UUID]map[*Client]struct{}),
		bufferSize:    bufferSize,
	}
}

func (h *Hub) Connect(userID uuid.UUID) *Client {
	c := &Client{
		ID:     utils.GenerateIDOfLength(16),
		UserID: userID,
		send:   make(chan []byte, h.bufferSize),
	}

	h.mu.Lock()
	h.clients[c.ID] = c
	h.subscriptions[c] = make(map[uuid.UUID]struct{})
	h.mu.Unlock()

	metrics.LiveConnections.Inc()
	return c
}

// Subscribe replaces the client's subscription set with eventIDs and returns
// the resulting set. Duplicates collapse.
func (h *Hub) Subscribe(c *Client, eventIDs []uuid.UUID) []uuid.UUID {
	h.mu.Lock()
	defer h.mu.Unlock()

	current, ok := h.subscriptions[c]
	if !ok {
		return nil
	}
	for id := range current {
		h.leave(c, id)
	}

	next := make(map[uuid.UUID]struct{}, len(eventIDs))
	applied := make([]uuid.UUID, 0, len(eventIDs))
	for _, id := range eventIDs {
		if _, dup := next[id]; dup {
			continue
		}
		next[id] = struct{}{}
		applied = append(applied, id)

		set, ok := h.members[id]
		if !ok {
			set = make(map[*Client]struct{})
			h.members[id] = set
		}
		set[c] = struct{}{}
	}
	h.subscriptions[c] = next
	return applied
}

// Subscriptions returns a copy of the client's current set.
func (h *Hub) Subscriptions(c *Client) []uuid.UUID {
	h.mu.RLock()
	defer h.mu.RUnlock()

	out := make([]uuid.UUID, 0, len(h.subscriptions[c]))
	for id := range h.subscriptions[c] {
		out = append(out, id)
	}
	return out
}

// Publish marshals payload once and queues it for every subscriber of
// eventID. It returns the number of clients the frame was queued for.
func (h *Hub) Publish(eventID uuid.UUID, payload any) (int, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return 0, err
	}
	return h.PublishRaw(eventID, data), nil
}

// PublishRaw never blocks. A subscriber whose buffer is full is dropped.
func (h *Hub) PublishRaw(eventID uuid.UUID, data []byte) int {
	var (
		delivered int
		slow      []*Client
	)

	h.mu.RLock()
	for c := range h.members[eventID] {
		select {
		case c.send <- data:
			delivered++
		default:
			slow = append(slow, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range slow {
		metrics.NotificationsDropped.Inc()
		h.Disconnect(c)
	}
	metrics.NotificationsDelivered.Add(float64(delivered))
	return delivered
}

// SendTo queues a frame for a single client, for replies on its own
// connection. It reports false if the client is gone or its buffer is full.
func (h *Hub) SendTo(c *Client, data []byte) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if _, ok := h.clients[c.ID]; !ok {
		return false
	}
	select {
	case c.send <- data:
		return true
	default:
		return false
	}
}

// Disconnect removes the client and its subscriptions and closes its send
// channel. Calling it again is a no-op.
func (h *Hub) Disconnect(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[c.ID]; !ok {
		return
	}
	for id := range h.subscriptions[c] {
		h.leave(c, id)
	}
	delete(h.subscriptions, c)
	delete(h.clients, c.ID)
	close(c.send)
	metrics.LiveConnections.Dec()
}

// Len returns the number of connected clients.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.mu.RLock()
	clients := make([]*Client, 0, len(h.clients))
	for _, c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	for _, c := range clients {
		h.Disconnect(c)
	}
}

// leave must be called with mu held.
func (h *Hub) leave(c *Client, eventID uuid.UUID) {
	set := h.members[eventID]
	delete(set, c)
	if len(set) == 0 {
		delete(h.members, eventID)
	}
}
