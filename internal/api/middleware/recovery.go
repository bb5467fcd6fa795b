package middleware

import (
	"log/slog"
	"net/http"

	"github.com/mcoot/chessrelay/internal/api/apierr"
	"github.com/mcoot/chessrelay/internal/middleware"
)

// Recovery creates panic recovery middleware for the API.
// JSON routes get an INTERNAL_ERROR body; upgraded websocket routes are left alone.
func Recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return middleware.Recovery(logger.With(slog.String("component", "http")), writeInternalError)
}

func writeInternalError(w http.ResponseWriter, _ *http.Request, _ any) {
	apierr.WriteError(w, apierr.NewInternalError())
}
