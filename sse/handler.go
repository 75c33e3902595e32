package sse

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/kbukum/streamscribe/logger"
)

// DefaultKeepAlive is the interval between keep-alive comments. It should
// stay below common proxy idle timeouts.
const DefaultKeepAlive = 30 * time.Second

// SessionPrefix prefixes the ids of clients created by Handler.
const SessionPrefix = "session:"

// ConnectedEvent is the payload of the initial "connected" event.
type ConnectedEvent struct {
	ClientID string `json:"client_id"`
}

// HandlerConfig configures the SSE endpoint.
type HandlerConfig struct {
	KeepAlive time.Duration
}

// Handler serves an SSE endpoint where every connection is a new session.
type Handler struct {
	hub       *Hub
	keepAlive time.Duration
	log       *logger.Logger
}

// NewHandler creates a Handler for hub.
func NewHandler(hub *Hub, cfg HandlerConfig, log *logger.Logger) *Handler {
	if cfg.KeepAlive <= 0 {
		cfg.KeepAlive = DefaultKeepAlive
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Handler{hub: hub, keepAlive: cfg.KeepAlive, log: log.WithComponent("sse")}
}

// ServeHTTP registers a "session:<uuid>" client and streams events to it
// until the request context ends or the hub stops.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.Serve(w, r, SessionPrefix+uuid.NewString())
}

// Serve streams events for a client with the given id.
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request, clientID string) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		h.log.Error("streaming not supported", logger.Fields("client_id", clientID))
		http.Error(w, "streaming not supported", http.StatusInternalServerError)
		return
	}

	// Long-lived stream; the server's WriteTimeout must not apply.
	if err := http.NewResponseController(w).SetWriteDeadline(time.Time{}); err != nil {
		h.log.Debug("could not disable write deadline", logger.Fields("client_id", clientID, logger.FieldError, err.Error()))
	}

	client := NewClient(clientID)
	if !h.hub.Register(client) {
		http.Error(w, "event stream unavailable", http.StatusServiceUnavailable)
		return
	}
	defer h.hub.Unregister(client)

	header := w.Header()
	header.Set("Content-Type", "text/event-stream")
	header.Set("Cache-Control", "no-cache")
	header.Set("Connection", "keep-alive")
	header.Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	connected, _ := json.Marshal(ConnectedEvent{ClientID: clientID})
	_, _ = w.Write(Event{Event: EventTypeConnected, Data: string(connected)}.Encode())
	flusher.Flush()

	h.log.Info("client connected", logger.Fields(logger.FieldSessionID, clientID, "remote_addr", r.RemoteAddr))

	keepAlive := time.NewTicker(h.keepAlive)
	defer keepAlive.Stop()

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			h.log.Info("client disconnected", logger.Fields(logger.FieldSessionID, clientID))
			return

		case frame, ok := <-client.Events():
			if !ok {
				h.log.Info("client disconnected", logger.Fields(logger.FieldSessionID, clientID, "reason", "hub stopped"))
				return
			}
			if _, err := w.Write(frame); err != nil {
				h.log.Info("client disconnected", logger.Fields(logger.FieldSessionID, clientID, logger.FieldError, err.Error()))
				return
			}
			flusher.Flush()

		case now := <-keepAlive.C:
			_, _ = w.Write([]byte(": keepalive " + strconv.FormatInt(now.Unix(), 10) + "\n\n"))
			flusher.Flush()
		}
	}
}
