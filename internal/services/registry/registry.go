// Package registry owns the live two-seat sessions.
//
// A Registry is not safe for concurrent use on its own. Callers serialise
// access, as the coordinator does.
package registry

import (
	"log/slog"
	"sort"

	"github.com/mcoot/chessrelay/internal/dependencies/clock"
	"github.com/mcoot/chessrelay/internal/dependencies/random"
	"github.com/mcoot/chessrelay/internal/model"
)

const (
	idLength   = 10
	idAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
)

// Registry creates, joins and reaps sessions
type Registry struct {
	clock    clock.Clock
	random   random.Random
	logger   *slog.Logger
	sessions map[model.SessionID]*model.Session
}

// New creates an empty Registry
func New(clock clock.Clock, random random.Random, logger *slog.Logger) *Registry {
	return &Registry{
		clock:    clock,
		random:   random,
		logger:   logger.With(slog.String("component", "session-registry")),
		sessions: make(map[model.SessionID]*model.Session),
	}
}

// Create opens a new session seated by owner. The owner first leaves any
// session they were in.
func (r *Registry) Create(owner model.Identity) model.Session {
	r.Leave(owner)

	session := &model.Session{
		ID:        r.newID(),
		WhiteTurn: true,
		CreatedAt: r.clock.Now(),
	}
	if r.random.Bool() {
		session.White = owner
	} else {
		session.Black = owner
	}
	r.sessions[session.ID] = session

	color, _ := session.SeatOf(owner)
	r.logger.Info("session created",
		slog.String("session_id", string(session.ID)),
		slog.String("owner", string(owner)),
		slog.String("color", string(color)),
	)
	return *session
}

// Join seats identity in the session with the given id. filled reports
// whether this join took the last empty seat. The first fill also starts the
// session; a refill after a leave does not reset it.
func (r *Registry) Join(id model.SessionID, identity model.Identity) (model.Session, bool, error) {
	session, ok := r.sessions[id]
	if !ok {
		return model.Session{}, false, model.ErrSessionNotFound
	}
	if session.Contains(identity) {
		return *session, false, nil
	}
	if session.IsFull() {
		return model.Session{}, false, model.ErrSessionFull
	}

	r.Leave(identity)

	// Leave never touches a session identity is not in, so session is still live.
	if session.White == "" {
		session.White = identity
	} else {
		session.Black = identity
	}

	filled := session.IsFull()
	if filled {
		session.Running = true
	}

	r.logger.Info("session joined",
		slog.String("session_id", string(id)),
		slog.String("identity", string(identity)),
		slog.Bool("filled", filled),
	)
	return *session, filled, nil
}

// Leave vacates every seat identity holds and deletes sessions left empty.
// It returns the sessions identity was removed from, as they were after removal.
func (r *Registry) Leave(identity model.Identity) []model.Session {
	if identity == "" {
		return nil
	}
	var affected []model.Session
	for id, session := range r.sessions {
		if !session.Contains(identity) {
			continue
		}
		if session.White == identity {
			session.White = ""
		}
		if session.Black == identity {
			session.Black = ""
		}
		affected = append(affected, *session)

		if session.IsEmpty() {
			delete(r.sessions, id)
			r.logger.Info("session ended", slog.String("session_id", string(id)))
		} else {
			r.logger.Info("session left",
				slog.String("session_id", string(id)),
				slog.String("identity", string(identity)),
			)
		}
	}
	return affected
}

// FindBySessionID returns the session with the given id
func (r *Registry) FindBySessionID(id model.SessionID) (model.Session, bool) {
	session, ok := r.sessions[id]
	if !ok {
		return model.Session{}, false
	}
	return *session, true
}

// FindByParticipant returns the session identity is seated in.
// This is a linear scan over all live sessions.
func (r *Registry) FindByParticipant(identity model.Identity) (model.Session, bool) {
	if identity == "" {
		return model.Session{}, false
	}
	for _, session := range r.sessions {
		if session.Contains(identity) {
			return *session, true
		}
	}
	return model.Session{}, false
}

// List returns all live sessions, oldest first
func (r *Registry) List() []model.Session {
	out := make([]model.Session, 0, len(r.sessions))
	for _, session := range r.sessions {
		out = append(out, *session)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// AdvanceTurn hands the move to the other seat
func (r *Registry) AdvanceTurn(id model.SessionID) (model.Session, error) {
	session, ok := r.sessions[id]
	if !ok {
		return model.Session{}, model.ErrSessionNotFound
	}
	if !session.Running {
		return model.Session{}, model.ErrSessionNotRunning
	}
	session.WhiteTurn = !session.WhiteTurn
	return *session, nil
}

// Len returns the number of live sessions
func (r *Registry) Len() int {
	return len(r.sessions)
}

func (r *Registry) newID() model.SessionID {
	for {
		id := model.SessionID(r.random.String(idLength, idAlphabet))
		if _, taken := r.sessions[id]; !taken {
			return id
		}
	}
}
