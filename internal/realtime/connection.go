package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"

	"github.com/mcoot/chessrelay/internal/model"
)

// Frame is one inbound message as read off the wire
type Frame struct {
	Event model.EventType `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// FrameHandler is called for every inbound frame, in arrival order
type FrameHandler func(conn model.ConnID, frame Frame, decodeErr error)

// CloseHandler is called once when a connection ends
type CloseHandler func(conn model.ConnID, err error)

// ConnectionConfig holds per-connection limits
type ConnectionConfig struct {
	SendBuffer   int
	ReadTimeout  time.Duration // Zero disables the idle timeout
	WriteTimeout time.Duration
	PingInterval time.Duration // Zero disables keepalive pings
}

// Connection is a single websocket connection bound to one identity.
// Send is safe for concurrent use.
type Connection struct {
	id       model.ConnID
	identity model.Identity
	ws       *websocket.Conn
	config   ConnectionConfig
	send     chan []byte

	onFrame FrameHandler
	onClose CloseHandler

	ctx       context.Context
	cancel    context.CancelFunc
	closeOnce sync.Once
	done      chan struct{}

	logger *slog.Logger
}

// NewConnection wraps an accepted websocket with a fresh connection id
func NewConnection(
	parent context.Context,
	ws *websocket.Conn,
	identity model.Identity,
	config ConnectionConfig,
	onFrame FrameHandler,
	onClose CloseHandler,
	logger *slog.Logger,
) *Connection {
	id := model.ConnID(uuid.NewString())
	ctx, cancel := context.WithCancel(parent)
	return &Connection{
		id:       id,
		identity: identity,
		ws:       ws,
		config:   config,
		send:     make(chan []byte, config.SendBuffer),
		onFrame:  onFrame,
		onClose:  onClose,
		ctx:      ctx,
		cancel:   cancel,
		done:     make(chan struct{}),
		logger: logger.With(
			slog.String("conn_id", string(id)),
			slog.String("identity", string(identity)),
		),
	}
}

// ID returns the connection id
func (c *Connection) ID() model.ConnID {
	return c.id
}

// Identity returns the identity this connection was admitted as
func (c *Connection) Identity() model.Identity {
	return c.identity
}

// Run starts the write pump and reads until the connection ends.
// It blocks until the connection is closed.
func (c *Connection) Run() {
	go c.writePump()
	c.readPump()
	<-c.done
}

// Done returns a channel that is closed once the connection has fully ended
func (c *Connection) Done() <-chan struct{} {
	return c.done
}

func (c *Connection) readPump() {
	var readErr error
	defer func() {
		c.Close(readErr)
	}()

	for {
		ctx, cancel := c.readContext()
		typ, message, err := c.ws.Read(ctx)
		cancel()
		if err != nil {
			readErr = err
			return
		}
		if typ != websocket.MessageText {
			c.onFrame(c.id, Frame{}, errors.New("binary frames are not supported"))
			continue
		}

		var frame Frame
		decodeErr := json.Unmarshal(message, &frame)
		c.onFrame(c.id, frame, decodeErr)
	}
}

func (c *Connection) readContext() (context.Context, context.CancelFunc) {
	if c.config.ReadTimeout > 0 {
		return context.WithTimeout(c.ctx, c.config.ReadTimeout)
	}
	return context.WithCancel(c.ctx)
}

func (c *Connection) writePump() {
	var writeErr error
	defer func() {
		c.Close(writeErr)
	}()

	var ping <-chan time.Time
	if c.config.PingInterval > 0 {
		ticker := time.NewTicker(c.config.PingInterval)
		defer ticker.Stop()
		ping = ticker.C
	}

	for {
		select {
		case <-ping:
			ctx, cancel := context.WithTimeout(c.ctx, c.config.WriteTimeout)
			err := c.ws.Ping(ctx)
			cancel()
			if err != nil {
				writeErr = err
				return
			}
		case message := <-c.send:
			ctx, cancel := context.WithTimeout(c.ctx, c.config.WriteTimeout)
			err := c.ws.Write(ctx, websocket.MessageText, message)
			cancel()
			if err != nil {
				writeErr = err
				return
			}
		case <-c.ctx.Done():
			return
		}
	}
}

// enqueue queues a message without blocking, reporting whether it was accepted
func (c *Connection) enqueue(message []byte) bool {
	select {
	case <-c.ctx.Done():
		return false
	default:
	}
	select {
	case c.send <- message:
		return true
	default:
		return false
	}
}

// Close ends the connection. Only the first call has any effect.
func (c *Connection) Close(err error) {
	c.closeOnce.Do(func() {
		status := websocket.CloseStatus(err)
		c.logger.Info("realtime connection closing",
			slog.Any("reason", err),
			slog.String("status", status.String()))

		c.cancel()
		_ = c.ws.Close(websocket.StatusNormalClosure, "")
		if c.onClose != nil {
			c.onClose(c.id, err)
		}
		close(c.done)
	})
}
