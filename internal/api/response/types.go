package response

import (
	"time"

	"github.com/mcoot/chessrelay/internal/model"
	"github.com/mcoot/chessrelay/internal/services/auth"
	"github.com/mcoot/chessrelay/internal/services/coordinator"
)

// LoginResponse is the response for the login endpoint
type LoginResponse struct {
	Token     string    `json:"token"`
	Username  string    `json:"username"`
	ExpiresAt time.Time `json:"expires_at"`
}

// LoginResponseFromCredential creates a LoginResponse from an issued credential
func LoginResponseFromCredential(c *auth.Credential) LoginResponse {
	return LoginResponse{
		Token:     c.Token,
		Username:  string(c.Identity),
		ExpiresAt: c.ExpiresAt,
	}
}

// Session represents a session in API responses. Empty seats are null.
type Session struct {
	ID        string    `json:"id"`
	White     *string   `json:"white"`
	Black     *string   `json:"black"`
	Running   bool      `json:"running"`
	WhiteTurn bool      `json:"white_turn"`
	State     string    `json:"state"`
	CreatedAt time.Time `json:"created_at"`
}

// SessionFromModel converts a model.Session to a response Session
func SessionFromModel(s model.Session) Session {
	return Session{
		ID:        string(s.ID),
		White:     seat(s.White),
		Black:     seat(s.Black),
		Running:   s.Running,
		WhiteTurn: s.WhiteTurn,
		State:     string(s.State()),
		CreatedAt: s.CreatedAt,
	}
}

// SessionsFromModel converts a slice of sessions
func SessionsFromModel(sessions []model.Session) []Session {
	out := make([]Session, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, SessionFromModel(s))
	}
	return out
}

func seat(identity model.Identity) *string {
	if identity == "" {
		return nil
	}
	name := string(identity)
	return &name
}

// Me describes the caller's presence and current session
type Me struct {
	Username string   `json:"username"`
	Live     bool     `json:"live"`
	Session  *Session `json:"session"`
}

// MeFromStatus converts a coordinator status
func MeFromStatus(st coordinator.Status) Me {
	me := Me{
		Username: string(st.Identity),
		Live:     st.Live,
	}
	if st.Session != nil {
		s := SessionFromModel(*st.Session)
		me.Session = &s
	}
	return me
}

// Health is the response for the health endpoint
type Health struct {
	Status      string `json:"status"`
	Connections int    `json:"connections"`
}
