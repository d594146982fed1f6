// GuestMap - Location-Pinned Guestbook on a World Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guestmap

package websocket

import (
	"context"
	"sort"
	"sync"

	"github.com/goccy/go-json"

	"github.com/tomtom215/guestmap/internal/logging"
	"github.com/tomtom215/guestmap/internal/metrics"
)

// ShutdownReason identifies why the hub is shutting down.
type ShutdownReason string

const (
	// ShutdownReasonContextCanceled indicates the parent context was canceled.
	// This is the normal graceful shutdown path (e.g., SIGTERM).
	ShutdownReasonContextCanceled ShutdownReason = "context_canceled"

	// ShutdownReasonContextDeadline indicates the context deadline was exceeded.
	ShutdownReasonContextDeadline ShutdownReason = "context_deadline"
)

// Message types for WebSocket communication
const (
	MessageTypeSnapshot = "snapshot"
	MessageTypeClosed   = "closed"
	MessageTypePing     = "ping"
	MessageTypePong     = "pong"
)

// Message represents a WebSocket message
type Message struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// envelope is a message addressed to one topic.
type envelope struct {
	topic string
	msg   Message
}

// Hub maintains the set of active clients and routes messages by topic.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan envelope
	closeTopic chan string
	Register   chan *Client
	Unregister chan *Client
	mu         sync.RWMutex

	// stopped is closed when the hub stops, releasing clients still trying
	// to unregister.
	stopped  chan struct{}
	stopOnce sync.Once
}

// NewHub creates a new Hub
func NewHub() *Hub {
	return &Hub{
		broadcast:  make(chan envelope, 256),
		closeTopic: make(chan string, 64),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
		stopped:    make(chan struct{}),
	}
}

// RunWithContext runs the hub until ctx is canceled, then closes every
// client and returns ctx.Err(). It matches suture.Service.
//
// DETERMINISM: Uses priority-based selection:
// - Priority 1: Context cancellation (shutdown)
// - Priority 2: Client lifecycle events (Register/Unregister)
// - Priority 3: Published messages and topic closes
func (h *Hub) RunWithContext(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			h.logGracefulShutdown(ctx)
			return ctx.Err()
		default:
		}

		select {
		case client := <-h.Register:
			h.register(client)
			continue
		case client := <-h.Unregister:
			h.unregister(client)
			continue
		default:
		}

		select {
		case <-ctx.Done():
			h.logGracefulShutdown(ctx)
			return ctx.Err()
		case client := <-h.Register:
			h.register(client)
		case client := <-h.Unregister:
			h.unregister(client)
		case env := <-h.broadcast:
			h.broadcastToTopic(env)
		case topic := <-h.closeTopic:
			h.closeTopicClients(topic)
		}
	}
}

func (h *Hub) register(client *Client) {
	h.mu.Lock()
	h.clients[client] = true
	total := len(h.clients)
	h.mu.Unlock()

	metrics.WSConnections.Inc()
	logging.Debug().Str("topic", client.topic).Int("total_clients", total).Msg("websocket client connected")
}

func (h *Hub) unregister(client *Client) {
	h.mu.Lock()
	_, ok := h.clients[client]
	if ok {
		delete(h.clients, client)
		close(client.send)
	}
	total := len(h.clients)
	h.mu.Unlock()

	if ok {
		metrics.WSConnections.Dec()
		logging.Debug().Str("topic", client.topic).Int("total_clients", total).Msg("websocket client disconnected")
	}
}

// logGracefulShutdown closes all clients and logs the shutdown. ctx.Err()
// is not logged as an error since cancellation is the expected path.
func (h *Hub) logGracefulShutdown(ctx context.Context) {
	clientCount := h.GetClientCount()
	h.closeAllClients()
	h.stopOnce.Do(func() { close(h.stopped) })

	logging.Info().
		Str("component", "websocket-hub").
		Str("reason", string(getShutdownReason(ctx))).
		Int("clients_closed", clientCount).
		Msg("websocket hub stopped")
}

// Done is closed once the hub has stopped.
func (h *Hub) Done() <-chan struct{} {
	return h.stopped
}

// getShutdownReason determines the shutdown reason from the context error.
func getShutdownReason(ctx context.Context) ShutdownReason {
	switch ctx.Err() {
	case context.DeadlineExceeded:
		return ShutdownReasonContextDeadline
	default:
		return ShutdownReasonContextCanceled
	}
}

// topicClients returns the clients of topic sorted by ID. The caller holds h.mu.
//
// DETERMINISM: Sorting by ID gives a consistent delivery order.
func (h *Hub) topicClients(topic string) []*Client {
	clients := make([]*Client, 0)
	for client := range h.clients {
		if topic == "" || client.topic == topic {
			clients = append(clients, client)
		}
	}
	sort.Slice(clients, func(i, j int) bool {
		return clients[i].id < clients[j].id
	})
	return clients
}

// broadcastToTopic queues a message on every client of its topic. Clients
// whose queue is full are dropped.
func (h *Hub) broadcastToTopic(env envelope) {
	h.mu.Lock()
	defer h.mu.Unlock()

	var toRemove []*Client
	for _, client := range h.topicClients(env.topic) {
		select {
		case client.send <- env.msg:
		default:
			toRemove = append(toRemove, client)
		}
	}

	for _, client := range toRemove {
		close(client.send)
		delete(h.clients, client)
		metrics.WSConnections.Dec()
		metrics.WSErrors.WithLabelValues("slow_client").Inc()
		logging.Warn().Str("topic", client.topic).Msg("websocket client too slow, disconnecting")
	}
}

// closeTopicClients sends a final "closed" message to the clients of topic
// and disconnects them.
func (h *Hub) closeTopicClients(topic string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, client := range h.topicClients(topic) {
		select {
		case client.send <- Message{Type: MessageTypeClosed}:
		default:
		}
		close(client.send)
		delete(h.clients, client)
		metrics.WSConnections.Dec()
	}
}

// closeAllClients closes every client during shutdown.
func (h *Hub) closeAllClients() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, client := range h.topicClients("") {
		close(client.send)
		delete(h.clients, client)
		metrics.WSConnections.Dec()
	}
}

// Publish queues data for the clients of topic without blocking.
func (h *Hub) Publish(topic, messageType string, data interface{}) {
	select {
	case h.broadcast <- envelope{topic: topic, msg: Message{Type: messageType, Data: data}}:
	default:
		metrics.WSErrors.WithLabelValues("publish_dropped").Inc()
		logging.Warn().Str("topic", topic).Str("message_type", messageType).Msg("broadcast channel full, dropping message")
	}
}

// CloseTopic disconnects the clients of topic without blocking.
func (h *Hub) CloseTopic(topic string) {
	select {
	case h.closeTopic <- topic:
	default:
		metrics.WSErrors.WithLabelValues("close_dropped").Inc()
		logging.Warn().Str("topic", topic).Msg("close channel full, clients will time out")
	}
}

// GetClientCount returns the number of connected clients
func (h *Hub) GetClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// TopicClientCount returns the number of clients subscribed to topic.
func (h *Hub) TopicClientCount(topic string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	n := 0
	for client := range h.clients {
		if client.topic == topic {
			n++
		}
	}
	return n
}

// MarshalMessage converts a message to JSON
func MarshalMessage(msg Message) ([]byte, error) {
	return json.Marshal(msg)
}
