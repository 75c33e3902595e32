package sse

import (
	"path/filepath"
	"sync"

	"github.com/kbukum/streamscribe/logger"
)

// ClientBufferSize is the number of encoded frames a client may lag behind
// before further frames are dropped.
const ClientBufferSize = 256

// Client represents a connected SSE client.
type Client struct {
	id     string
	events chan []byte
}

// NewClient creates a client with the given id. Ids are matched against
// broadcast patterns, so a common prefix ("session:") keeps them addressable.
func NewClient(id string) *Client {
	return &Client{
		id:     id,
		events: make(chan []byte, ClientBufferSize),
	}
}

// ID returns the client's unique identifier.
func (c *Client) ID() string { return c.id }

// Events returns the channel of encoded frames for this client.
func (c *Client) Events() <-chan []byte { return c.events }

// Send queues a frame without blocking. It reports false when the client
// is too slow and the frame was dropped.
func (c *Client) Send(frame []byte) bool {
	select {
	case c.events <- frame:
		return true
	default:
		return false
	}
}

func (c *Client) close() { close(c.events) }

type message struct {
	pattern string
	frame   []byte
}

// Hub manages client connections and routes events to them.
//
// All mutations go through the Run loop over unbuffered channels: once
// Register returns, every later broadcast reaches the client, and no
// earlier one does.
type Hub struct {
	clients    map[string]*Client
	register   chan *Client
	unregister chan *Client
	broadcast  chan message
	done       chan struct{}
	stopOnce   sync.Once
	mu         sync.RWMutex
	log        *logger.Logger
}

// NewHub creates a hub. Run must be started before clients register.
func NewHub(log *logger.Logger) *Hub {
	if log == nil {
		log = logger.Nop()
	}
	return &Hub{
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan message),
		done:       make(chan struct{}),
		log:        log.WithComponent("sse-hub"),
	}
}

// Run is the hub's event loop. It blocks until Stop is called.
func (h *Hub) Run() {
	for {
		select {
		case <-h.done:
			h.closeAllClients()
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.id] = client
			total := len(h.clients)
			h.mu.Unlock()
			h.log.Debug("client registered", logger.Fields("client_id", client.id, "total_clients", total))

		case client := <-h.unregister:
			h.mu.Lock()
			if current, ok := h.clients[client.id]; ok && current == client {
				delete(h.clients, client.id)
				client.close()
			}
			total := len(h.clients)
			h.mu.Unlock()
			h.log.Debug("client unregistered", logger.Fields("client_id", client.id, "total_clients", total))

		case msg := <-h.broadcast:
			h.deliver(msg)
		}
	}
}

// Stop shuts the hub down and closes every client channel. Safe to call
// more than once.
func (h *Hub) Stop() {
	h.stopOnce.Do(func() { close(h.done) })
}

func (h *Hub) closeAllClients() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, client := range h.clients {
		client.close()
		delete(h.clients, id)
	}
}

// Register adds a client. It returns false if the hub has stopped.
func (h *Hub) Register(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

// Unregister removes a client and closes its channel.
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// BroadcastToPattern sends an event to all clients whose id matches the
// glob pattern (e.g. "session:*"). Events nobody matches are dropped.
func (h *Hub) BroadcastToPattern(pattern string, event Event) {
	msg := message{pattern: pattern, frame: event.Encode()}
	select {
	case h.broadcast <- msg:
	case <-h.done:
	}
}

func (h *Hub) deliver(msg message) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	matched := 0
	for id, client := range h.clients {
		ok, err := filepath.Match(msg.pattern, id)
		if err != nil {
			h.log.Error("invalid broadcast pattern", logger.Fields("pattern", msg.pattern, logger.FieldError, err.Error()))
			return
		}
		if !ok {
			continue
		}
		matched++
		if !client.Send(msg.frame) {
			h.log.Warn("client buffer full, dropping event", logger.Fields("client_id", id))
		}
	}
	if matched == 0 {
		h.log.Debug("no clients matched pattern", logger.Fields("pattern", msg.pattern))
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

var _ Broadcaster = (*Hub)(nil)
