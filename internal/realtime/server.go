// Package realtime carries player connections over websockets. Each
// connection is admitted by the Gate, bound to its identity, and then feeds
// its inbound frames to the coordinator in arrival order.
package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"

	"github.com/mcoot/chessrelay/internal/api/apierr"
	"github.com/mcoot/chessrelay/internal/model"
	"github.com/mcoot/chessrelay/internal/services/relay"
)

// Coordinator is the subset of coordinator operations used by connections
type Coordinator interface {
	Authenticator
	Connect(identity model.Identity, conn model.ConnID) error
	Move(conn model.ConnID, payload string) error
	Reject(conn model.ConnID, err error)
	Disconnect(conn model.ConnID)
}

// Config holds realtime server settings
type Config struct {
	SendBuffer     int
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	PingInterval   time.Duration
	OriginPatterns []string
}

// DefaultConfig returns sensible defaults for realtime configuration
func DefaultConfig() Config {
	return Config{
		SendBuffer:   64,
		WriteTimeout: 10 * time.Second,
		PingInterval: 30 * time.Second,
	}
}

// Server upgrades admitted handshakes to websocket connections
type Server struct {
	coord  Coordinator
	hub    *Hub
	gate   *Gate
	config Config
	logger *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu     sync.Mutex
	closed bool
}

// NewServer creates a realtime Server delivering outbound events through hub
func NewServer(coord Coordinator, hub *Hub, config Config, logger *slog.Logger) *Server {
	defaults := DefaultConfig()
	if config.SendBuffer <= 0 {
		config.SendBuffer = defaults.SendBuffer
	}
	if config.WriteTimeout <= 0 {
		config.WriteTimeout = defaults.WriteTimeout
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Server{
		coord:  coord,
		hub:    hub,
		gate:   NewGate(coord, logger),
		config: config,
		logger: logger.With(slog.String("component", "realtime")),
		ctx:    ctx,
		cancel: cancel,
	}
}

// ServeHTTP admits, upgrades and then serves one connection until it closes
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	identity, err := s.gate.Admit(r)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	if !s.track() {
		apierr.WriteError(w, apierr.NewUnavailableError("Server is shutting down"))
		return
	}
	defer s.wg.Done()

	ws, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: s.config.OriginPatterns,
	})
	if err != nil {
		s.logger.Error("failed to accept websocket connection", slog.Any("error", err))
		return
	}

	conn := NewConnection(s.ctx, ws, identity, ConnectionConfig{
		SendBuffer:   s.config.SendBuffer,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		PingInterval: s.config.PingInterval,
	}, s.handleFrame, nil, s.logger)
	conn.onClose = func(id model.ConnID, _ error) {
		s.coord.Disconnect(id)
		s.hub.Unregister(conn)
	}

	s.hub.Register(conn)
	if err := s.coord.Connect(identity, conn.ID()); err != nil {
		s.logger.Warn("bind failed after upgrade",
			slog.String("identity", string(identity)),
			slog.String("error", err.Error()))
		s.hub.Unregister(conn)
		conn.cancel()
		_ = ws.Close(websocket.StatusPolicyViolation, err.Error())
		return
	}

	conn.Run()
}

// track counts a handler towards Shutdown's wait, refusing once shutdown has begun
func (s *Server) track() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	s.wg.Add(1)
	return true
}

func (s *Server) handleFrame(conn model.ConnID, frame Frame, decodeErr error) {
	if decodeErr != nil {
		s.coord.Reject(conn, fmt.Errorf("%w: %v", relay.ErrInvalidEvent, decodeErr))
		return
	}

	switch frame.Event {
	case model.EventMove:
		var payload string
		if err := json.Unmarshal(frame.Data, &payload); err != nil {
			s.coord.Reject(conn, fmt.Errorf("%w: move data must be a string", relay.ErrInvalidEvent))
			return
		}
		if err := s.coord.Move(conn, payload); err != nil && !errors.Is(err, model.ErrNotBound) {
			s.logger.Debug("move not relayed",
				slog.String("conn_id", string(conn)),
				slog.String("error", err.Error()))
		}
	default:
		s.coord.Reject(conn, fmt.Errorf("%w: unknown event %q", relay.ErrInvalidEvent, frame.Event))
	}
}

// Shutdown closes every open connection and waits for their handlers to return
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()

	s.cancel()
	s.hub.CloseAll()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
