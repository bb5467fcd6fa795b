package realtime

import (
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/mcoot/chessrelay/internal/model"
	"github.com/mcoot/chessrelay/internal/services/relay"
)

// Hub tracks open connections by id and delivers outbound events to them
type Hub struct {
	mu     sync.RWMutex
	conns  map[model.ConnID]*Connection
	logger *slog.Logger
}

// NewHub creates an empty Hub
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		conns:  make(map[model.ConnID]*Connection),
		logger: logger.With(slog.String("component", "realtime-hub")),
	}
}

var _ relay.Sender = (*Hub)(nil)

// Register adds a connection to the hub
func (h *Hub) Register(c *Connection) {
	h.mu.Lock()
	h.conns[c.ID()] = c
	count := len(h.conns)
	h.mu.Unlock()

	h.logger.Debug("connection registered",
		slog.String("conn_id", string(c.ID())),
		slog.Int("total_connections", count))
}

// Unregister removes a connection from the hub
func (h *Hub) Unregister(c *Connection) {
	h.mu.Lock()
	if h.conns[c.ID()] == c {
		delete(h.conns, c.ID())
	}
	count := len(h.conns)
	h.mu.Unlock()

	h.logger.Debug("connection unregistered",
		slog.String("conn_id", string(c.ID())),
		slog.Int("total_connections", count))
}

// Send queues event for conn without blocking. Events for closed connections
// or connections whose buffer is full are dropped.
func (h *Hub) Send(conn model.ConnID, event model.Event) {
	h.mu.RLock()
	c, ok := h.conns[conn]
	h.mu.RUnlock()
	if !ok {
		h.logger.Debug("event dropped - connection gone",
			slog.String("conn_id", string(conn)),
			slog.String("event", string(event.Type)))
		return
	}

	message, err := json.Marshal(event)
	if err != nil {
		h.logger.Error("failed to encode event",
			slog.String("event", string(event.Type)),
			slog.String("error", err.Error()))
		return
	}

	if !c.enqueue(message) {
		h.logger.Warn("event dropped - client buffer full",
			slog.String("conn_id", string(conn)),
			slog.String("event", string(event.Type)))
	}
}

// CloseAll closes every registered connection
func (h *Hub) CloseAll() {
	h.mu.RLock()
	conns := make([]*Connection, 0, len(h.conns))
	for _, c := range h.conns {
		conns = append(conns, c)
	}
	h.mu.RUnlock()

	for _, c := range conns {
		c.Close(nil)
	}
	if len(conns) > 0 {
		h.logger.Info("realtime connections closed", slog.Int("count", len(conns)))
	}
}

// ConnCount returns the number of open connections
func (h *Hub) ConnCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns)
}
