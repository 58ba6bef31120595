// Package websocket pushes workflow events to connected dashboard clients.
package websocket

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"indentdesk/internal/infrastructure"
	"indentdesk/pkg/contracts/events"
)

const broadcastBuffer = 256

// Hub maintains the set of active clients and fans messages out to them
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client

	mu      sync.RWMutex
	running bool
	quit    chan struct{}
	done    chan struct{}

	version string
	logger  *slog.Logger
	metrics *infrastructure.BusinessMetrics

	totalConnections int64
	messagesSent     int64
	messagesDropped  int64
}

// NewHub creates a hub. metrics may be nil.
func NewHub(version string, metrics *infrastructure.BusinessMetrics, logger *slog.Logger) *Hub {
	if logger == nil {
		logger = infrastructure.GetLogger()
	}
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte, broadcastBuffer),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		quit:       make(chan struct{}),
		done:       make(chan struct{}),
		version:    version,
		logger:     logger.With(slog.String("component", "websocket.hub")),
		metrics:    metrics,
	}
}

// Start runs the hub loop in a goroutine. Calling it twice is a no-op.
func (h *Hub) Start() {
	h.mu.Lock()
	if h.running {
		h.mu.Unlock()
		return
	}
	h.running = true
	h.mu.Unlock()

	go h.run()
	h.logger.Info("websocket hub started")
}

func (h *Hub) run() {
	defer close(h.done)
	ctx := context.Background()

	for {
		select {
		case <-h.quit:
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.totalConnections++
			active := len(h.clients)
			h.mu.Unlock()

			h.metrics.RecordWebSocketConnection(ctx, 1)
			h.greet(client)
			client.logger.Info("websocket client connected",
				slog.String("remote_addr", client.remoteAddr),
				slog.Int("active_clients", active))

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				h.metrics.RecordWebSocketConnection(ctx, -1)
			}
			h.mu.Unlock()

		case message := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients {
				select {
				case client.send <- message:
					h.messagesSent++
				default:
					// slow consumer
					delete(h.clients, client)
					close(client.send)
					h.metrics.RecordWebSocketConnection(ctx, -1)
					client.logger.Warn("dropping slow websocket client")
				}
			}
			h.mu.Unlock()
		}
	}
}

func (h *Hub) greet(client *Client) {
	data, err := encode(string(events.MessageTypeConnect), events.ConnectMessage{
		ClientID: client.id,
		Username: client.username,
		Version:  h.version,
	})
	if err != nil {
		h.logger.Error("failed to encode connect message", slog.String("error", err.Error()))
		return
	}
	select {
	case client.send <- data:
	default:
	}
}

// Broadcast sends a typed event to every connected client. It never blocks
// the caller: when the hub is stopped or its queue is full the message is
// dropped.
func (h *Hub) Broadcast(messageType string, data interface{}) {
	payload, err := encode(messageType, data)
	if err != nil {
		h.logger.Error("failed to encode broadcast",
			slog.String("message_type", messageType),
			slog.String("error", err.Error()))
		return
	}

	h.mu.RLock()
	running := h.running
	h.mu.RUnlock()
	if !running {
		return
	}

	select {
	case h.broadcast <- payload:
	default:
		h.mu.Lock()
		h.messagesDropped++
		h.mu.Unlock()
		h.logger.Warn("websocket broadcast queue full, message dropped",
			slog.String("message_type", messageType))
	}
}

func encode(messageType string, data interface{}) ([]byte, error) {
	return json.Marshal(events.WebSocketMessage{
		BaseMessage: events.BaseMessage{
			ID:        uuid.New().String(),
			Type:      events.MessageType(messageType),
			Timestamp: time.Now().UTC(),
		},
		Data: data,
	})
}

// Running reports whether the hub loop is accepting clients
func (h *Hub) Running() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.running
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Stats reports hub counters for the health endpoint and logs
func (h *Hub) Stats() map[string]int64 {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return map[string]int64{
		"active_clients":    int64(len(h.clients)),
		"total_connections": h.totalConnections,
		"messages_sent":     h.messagesSent,
		"messages_dropped":  h.messagesDropped,
	}
}

// Stop closes every client and ends the hub loop
func (h *Hub) Stop() {
	h.mu.Lock()
	if !h.running {
		h.mu.Unlock()
		return
	}
	h.running = false
	h.mu.Unlock()

	close(h.quit)
	<-h.done

	h.mu.Lock()
	defer h.mu.Unlock()
	for client := range h.clients {
		close(client.send)
		delete(h.clients, client)
		h.metrics.RecordWebSocketConnection(context.Background(), -1)
	}
	h.logger.Info("websocket hub stopped")
}

// Register adds a client to the hub
func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.quit:
	}
}

func (h *Hub) remove(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.quit:
	}
}
