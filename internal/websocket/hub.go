// Package websocket fans collection change notifications out to
// connected clients. The store's same-process subscriptions feed the
// hub; every write to a watched key becomes one broadcast frame.
package websocket

import (
	"encoding/json"
	"sync"

	"github.com/studyplanner/core/internal/infrastructure/logger"
	"github.com/studyplanner/core/internal/store"
)

// ChangeEvent is the frame sent for every write to a watched collection.
type ChangeEvent struct {
	Key    string `json:"key"`
	Action string `json:"action"`
}

// Hub maintains the set of active clients and broadcasts change frames.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client

	log         *logger.Logger
	unsubscribe []func()

	mu sync.RWMutex
}

// NewHub creates a hub.
func NewHub(log *logger.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		log:        log.WithComponent("websocket"),
	}
}

// Watch subscribes the hub to writes on the given store keys.
func (h *Hub) Watch(st *store.Store, keys ...string) {
	for _, key := range keys {
		h.unsubscribe = append(h.unsubscribe, st.Subscribe(key, func(changed string) {
			frame, err := json.Marshal(ChangeEvent{Key: changed, Action: "changed"})
			if err != nil {
				return
			}
			h.Broadcast(frame)
		}))
	}
}

// Run starts the hub's event loop. Call in a goroutine.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			total := len(h.clients)
			h.mu.Unlock()
			h.log.Infow("Client connected", "total", total)

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			total := len(h.clients)
			h.mu.Unlock()
			h.log.Infow("Client disconnected", "total", total)

		case message := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					close(client.send)
					delete(h.clients, client)
				}
			}
			h.mu.Unlock()
		}
	}
}

// Close detaches the hub from the store.
func (h *Hub) Close() {
	for _, fn := range h.unsubscribe {
		fn()
	}
}

// Broadcast queues a frame for every connected client. A full queue
// drops the frame rather than blocking a store write.
func (h *Hub) Broadcast(message []byte) {
	select {
	case h.broadcast <- message:
	default:
		h.log.Warnw("Broadcast channel full, dropping frame")
	}
}

// Register adds a client to the hub.
func (h *Hub) Register(client *Client) {
	h.register <- client
}

// Unregister removes a client from the hub.
func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Client is one connected change-feed consumer.
type Client struct {
	hub  *Hub
	send chan []byte
}

// NewClient creates a client bound to the hub.
func NewClient(hub *Hub) *Client {
	return &Client{
		hub:  hub,
		send: make(chan []byte, 256),
	}
}

// Send returns the client's outbound frame channel.
func (c *Client) Send() chan []byte {
	return c.send
}
