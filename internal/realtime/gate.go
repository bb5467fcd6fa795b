package realtime

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/mcoot/chessrelay/internal/model"
)

// Authenticator verifies a bearer credential and returns the known identity it names
type Authenticator interface {
	Authenticate(token string) (model.Identity, error)
}

// Gate admits connection handshakes that carry a valid credential for a known identity
type Gate struct {
	auth   Authenticator
	logger *slog.Logger
}

// NewGate creates a Gate
func NewGate(auth Authenticator, logger *slog.Logger) *Gate {
	return &Gate{
		auth:   auth,
		logger: logger.With(slog.String("component", "connection-gate")),
	}
}

// Admit checks the handshake request. Any error means the connection must be
// refused before it is upgraded.
func (g *Gate) Admit(r *http.Request) (model.Identity, error) {
	token := Token(r)
	if token == "" {
		g.logger.Warn("handshake without credential", slog.String("remote_addr", r.RemoteAddr))
		return "", model.ErrMissingCredential
	}

	identity, err := g.auth.Authenticate(token)
	if err != nil {
		g.logger.Warn("handshake rejected",
			slog.String("remote_addr", r.RemoteAddr),
			slog.String("error", err.Error()),
		)
		return "", err
	}
	return identity, nil
}

// Token extracts the bearer credential from the Authorization header, falling
// back to the token query parameter for clients that cannot set headers
func Token(r *http.Request) string {
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	return r.URL.Query().Get("token")
}
