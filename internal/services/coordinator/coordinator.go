// Package coordinator is the single entry point for every request and
// connection event. It owns one lock around the identity directory, session
// registry and turn relay so that cross-session operations observe a
// consistent view.
package coordinator

import (
	"context"
	"log/slog"
	"sync"

	"github.com/mcoot/chessrelay/internal/model"
	"github.com/mcoot/chessrelay/internal/services/auth"
	"github.com/mcoot/chessrelay/internal/services/directory"
	"github.com/mcoot/chessrelay/internal/services/registry"
	"github.com/mcoot/chessrelay/internal/services/relay"
)

// Status describes an identity's presence and current session
type Status struct {
	Identity model.Identity
	Live     bool
	Session  *model.Session
}

// Coordinator serialises access to the directory, registry and relay.
// Credential and storage work happens outside the lock.
type Coordinator struct {
	auth   auth.ServiceInterface
	sender relay.Sender
	logger *slog.Logger

	mu        sync.Mutex
	directory *directory.Directory
	registry  *registry.Registry
	relay     *relay.Relay
}

// New creates a Coordinator over the given directory and registry
func New(
	authService auth.ServiceInterface,
	dir *directory.Directory,
	reg *registry.Registry,
	sender relay.Sender,
	logger *slog.Logger,
) *Coordinator {
	return &Coordinator{
		auth:      authService,
		sender:    sender,
		logger:    logger.With(slog.String("component", "coordinator")),
		directory: dir,
		registry:  reg,
		relay:     relay.New(dir, reg, sender, logger),
	}
}

// Login authenticates username and issues a credential. A username whose
// identity is currently connected cannot be logged into again.
func (c *Coordinator) Login(ctx context.Context, username, password string) (*auth.Credential, error) {
	identity := model.Identity(username)
	if c.isLive(identity) {
		return nil, model.ErrUsernameTaken
	}

	cred, err := c.auth.Login(ctx, username, password)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	// A connection may have bound while the password was being checked.
	if c.directory.IsLive(identity) {
		return nil, model.ErrUsernameTaken
	}
	c.directory.Register(identity, cred.Token)

	c.logger.Info("player logged in", slog.String("identity", username))
	return cred, nil
}

// Authenticate verifies a credential and returns its identity, which must be
// known to the directory
func (c *Coordinator) Authenticate(token string) (model.Identity, error) {
	identity, err := c.auth.Verify(token)
	if err != nil {
		return "", err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.directory.Known(identity) {
		return "", model.ErrUnknownIdentity
	}
	return identity, nil
}

// CreateSession opens a new session for identity, leaving any current one
func (c *Coordinator) CreateSession(identity model.Identity) model.Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.registry.Create(identity)
}

// JoinSession seats identity in session id. If this fills the session, both
// seats are told whose turn it is.
func (c *Coordinator) JoinSession(id model.SessionID, identity model.Identity) (model.Session, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	session, filled, err := c.registry.Join(id, identity)
	if err != nil {
		return model.Session{}, err
	}
	if filled {
		c.relay.Filled(id)
	}
	return session, nil
}

// LeaveSession forfeits identity's seat, if any
func (c *Coordinator) LeaveSession(identity model.Identity) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.registry.Leave(identity)
}

// ListSessions returns all live sessions
func (c *Coordinator) ListSessions() []model.Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.registry.List()
}

// GetSession returns a session by id
func (c *Coordinator) GetSession(id model.SessionID) (model.Session, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	session, ok := c.registry.FindBySessionID(id)
	if !ok {
		return model.Session{}, model.ErrSessionNotFound
	}
	return session, nil
}

// Status reports identity's presence and current session
func (c *Coordinator) Status(identity model.Identity) Status {
	c.mu.Lock()
	defer c.mu.Unlock()

	status := Status{
		Identity: identity,
		Live:     c.directory.IsLive(identity),
	}
	if session, ok := c.registry.FindByParticipant(identity); ok {
		status.Session = &session
	}
	return status
}

// Connect binds a verified connection to identity and greets it
func (c *Coordinator) Connect(identity model.Identity, conn model.ConnID) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.directory.Bind(identity, conn); err != nil {
		return err
	}
	c.sender.Send(conn, model.ConnectedEvent(identity))

	c.logger.Info("connection bound",
		slog.String("identity", string(identity)),
		slog.String("conn_id", string(conn)),
	)
	return nil
}

// Move relays a move sent on conn
func (c *Coordinator) Move(conn model.ConnID, payload string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.relay.HandleMove(conn, payload)
}

// Reject reports a malformed inbound frame back to conn
func (c *Coordinator) Reject(conn model.ConnID, err error) {
	c.relay.Reject(conn, err)
}

// Disconnect unbinds conn and forfeits its identity's seat
func (c *Coordinator) Disconnect(conn model.ConnID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.relay.Disconnected(conn)
}

func (c *Coordinator) isLive(identity model.Identity) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.directory.IsLive(identity)
}

// ControllerInterface defines the interface for coordinator operations
type ControllerInterface interface {
	Login(ctx context.Context, username, password string) (*auth.Credential, error)
	Authenticate(token string) (model.Identity, error)
	CreateSession(identity model.Identity) model.Session
	JoinSession(id model.SessionID, identity model.Identity) (model.Session, error)
	LeaveSession(identity model.Identity)
	ListSessions() []model.Session
	GetSession(id model.SessionID) (model.Session, error)
	Status(identity model.Identity) Status
	Connect(identity model.Identity, conn model.ConnID) error
	Move(conn model.ConnID, payload string) error
	Reject(conn model.ConnID, err error)
	Disconnect(conn model.ConnID)
}

var _ ControllerInterface = (*Coordinator)(nil)
