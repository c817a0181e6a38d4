package websocket

import (
	"context"
	"sync"

	"emojiart-be/internal/pkg/logger"

	"github.com/google/uuid"
)

const hubModule = "Hub"

// Hub fans frames of this instance's document out to its connected viewers.
// Frames never cross instances: each instance owns its own document.
type Hub struct {
	// Registered clients keyed by connection id.
	clients map[uuid.UUID]*Client

	register   chan *Client
	unregister chan *Client
	done       chan struct{}

	mu sync.RWMutex

	// Last frame delivered, replayed to viewers as they connect.
	latest []byte

	logger logger.ILogger
}

func NewHub(log logger.ILogger) *Hub {
	return &Hub{
		clients:    make(map[uuid.UUID]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		logger:     log,
	}
}

// Run serves registrations until ctx is done, then closes every client.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)

	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.ID] = client
			if h.latest != nil {
				client.Send <- h.latest
			}
			count := len(h.clients)
			h.mu.Unlock()
			h.logger.Info(hubModule, "Client registered", map[string]interface{}{
				"client_id": client.ID,
				"subject":   client.Subject,
				"clients":   count,
			})

		case client := <-h.unregister:
			h.mu.Lock()
			if current, ok := h.clients[client.ID]; ok && current == client {
				delete(h.clients, client.ID)
				close(client.Send)
			}
			count := len(h.clients)
			h.mu.Unlock()
			h.logger.Info(hubModule, "Client unregistered", map[string]interface{}{
				"client_id": client.ID,
				"clients":   count,
			})

		case <-ctx.Done():
			h.mu.Lock()
			for id, client := range h.clients {
				delete(h.clients, id)
				close(client.Send)
			}
			h.mu.Unlock()
			return
		}
	}
}

// Register adds a client. It reports false once the hub has stopped.
func (h *Hub) Register(c *Client) bool {
	select {
	case h.register <- c:
		return true
	case <-h.done:
		return false
	}
}

// Unregister removes a client and closes its Send channel. Unknown or already
// removed clients are ignored.
func (h *Hub) Unregister(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// ClientCount is the number of locally connected viewers.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Broadcast delivers frame to every viewer and never blocks. A client whose
// buffer is full is dropped; it gets the latest frame again when it
// reconnects.
func (h *Hub) Broadcast(frame []byte) {
	var slow []*Client

	h.mu.Lock()
	h.latest = frame
	for _, client := range h.clients {
		select {
		case client.Send <- frame:
		default:
			slow = append(slow, client)
		}
	}
	h.mu.Unlock()

	for _, client := range slow {
		h.logger.Warn(hubModule, "Client send buffer full, dropping client", map[string]interface{}{
			"client_id": client.ID,
		})
		go h.Unregister(client)
	}
}
