// Package relay runs the alternating-turn state machine for live sessions and
// forwards moves between the two seats.
package relay

import (
	"errors"
	"log/slog"

	"github.com/mcoot/chessrelay/internal/model"
	"github.com/mcoot/chessrelay/internal/services/directory"
	"github.com/mcoot/chessrelay/internal/services/registry"
)

// Error codes carried in error frames
const (
	CodeNotBound          = "NOT_BOUND"
	CodeNoActiveSession   = "NO_ACTIVE_SESSION"
	CodeSessionNotRunning = "SESSION_NOT_RUNNING"
	CodeOutOfTurn         = "OUT_OF_TURN"
	CodeInvalidEvent      = "INVALID_EVENT"
	CodeInternalError     = "INTERNAL_ERROR"
)

// Sender delivers an event to a connection. Delivery is best-effort and must
// not block.
type Sender interface {
	Send(conn model.ConnID, event model.Event)
}

// Relay gates and forwards moves. It shares the caller's directory and
// registry and, like them, relies on the caller to serialise access.
type Relay struct {
	directory *directory.Directory
	registry  *registry.Registry
	sender    Sender
	logger    *slog.Logger
}

// New creates a Relay
func New(dir *directory.Directory, reg *registry.Registry, sender Sender, logger *slog.Logger) *Relay {
	return &Relay{
		directory: dir,
		registry:  reg,
		sender:    sender,
		logger:    logger.With(slog.String("component", "turn-relay")),
	}
}

// HandleMove processes a move sent on conn. A rejected move leaves the
// session unchanged and is reported back to conn.
func (r *Relay) HandleMove(conn model.ConnID, payload string) error {
	identity, err := r.directory.Resolve(conn)
	if err != nil {
		r.logger.Warn("move from unbound connection", slog.String("conn_id", string(conn)))
		return err
	}

	session, ok := r.registry.FindByParticipant(identity)
	if !ok {
		return r.reject(conn, identity, model.ErrNoActiveSession)
	}
	if !session.Running {
		return r.reject(conn, identity, model.ErrSessionNotRunning)
	}
	color, _ := session.SeatOf(identity)
	if color != session.ToMove() {
		return r.reject(conn, identity, model.ErrOutOfTurn)
	}

	if opponent := session.Opponent(identity); opponent != "" {
		r.sendTo(opponent, model.OpponentMoveEvent(payload))
	}

	session, err = r.registry.AdvanceTurn(session.ID)
	if err != nil {
		return err
	}

	r.logger.Debug("move relayed",
		slog.String("session_id", string(session.ID)),
		slog.String("identity", string(identity)),
		slog.String("state", string(session.State())),
	)
	r.broadcastState(session)
	return nil
}

// Filled announces the current turn to both seats of a session that has just become full
func (r *Relay) Filled(id model.SessionID) {
	session, ok := r.registry.FindBySessionID(id)
	if !ok || !session.IsFull() {
		return
	}
	r.broadcastState(session)
}

// Disconnected unbinds conn and forfeits its identity's seat. Unknown or
// superseded connections are ignored.
func (r *Relay) Disconnected(conn model.ConnID) {
	identity, ok := r.directory.Unbind(conn)
	if !ok {
		return
	}
	r.registry.Leave(identity)
	r.logger.Info("connection closed",
		slog.String("conn_id", string(conn)),
		slog.String("identity", string(identity)),
	)
}

// Reject reports err to conn as an error frame
func (r *Relay) Reject(conn model.ConnID, err error) {
	r.sender.Send(conn, model.ErrorEvent(Code(err), err.Error()))
}

func (r *Relay) reject(conn model.ConnID, identity model.Identity, err error) error {
	r.logger.Debug("move rejected",
		slog.String("identity", string(identity)),
		slog.String("error", err.Error()),
	)
	r.Reject(conn, err)
	return err
}

func (r *Relay) broadcastState(session model.Session) {
	event := model.GameStateEvent(session.State())
	for _, identity := range session.Participants() {
		r.sendTo(identity, event)
	}
}

// sendTo delivers to identity's live connection; offline identities miss the event
func (r *Relay) sendTo(identity model.Identity, event model.Event) {
	conn, ok := r.directory.ConnOf(identity)
	if !ok {
		return
	}
	r.sender.Send(conn, event)
}

// Code maps an error to its error frame code
func Code(err error) string {
	switch {
	case errors.Is(err, model.ErrNotBound):
		return CodeNotBound
	case errors.Is(err, model.ErrNoActiveSession):
		return CodeNoActiveSession
	case errors.Is(err, model.ErrSessionNotRunning):
		return CodeSessionNotRunning
	case errors.Is(err, model.ErrOutOfTurn):
		return CodeOutOfTurn
	case errors.Is(err, ErrInvalidEvent):
		return CodeInvalidEvent
	default:
		return CodeInternalError
	}
}

// ErrInvalidEvent reports an inbound frame that is not a recognised event
var ErrInvalidEvent = errors.New("invalid event")
