package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/chessrelay/internal/api/handler"
	"github.com/mcoot/chessrelay/internal/api/middleware"
	"github.com/mcoot/chessrelay/internal/api/response"
	"github.com/mcoot/chessrelay/internal/services/coordinator"
)

// ConnCounter reports the number of open realtime connections
type ConnCounter interface {
	ConnCount() int
}

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger      *slog.Logger
	Coordinator coordinator.ControllerInterface
	Realtime    http.Handler
	Connections ConnCounter
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter().UseEncodedPath()

	// Create handlers
	authHandler := handler.NewAuthHandler(cfg.Coordinator)
	sessionHandler := handler.NewSessionHandler(cfg.Coordinator)

	// Create middleware
	authMiddleware := middleware.Auth(cfg.Coordinator)
	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)

	// Public routes
	api.HandleFunc("/login", authHandler.Login).Methods(http.MethodPost)
	api.HandleFunc("/health", healthHandler(cfg.Connections)).Methods(http.MethodGet)

	// Protected routes
	protected := api.NewRoute().Subrouter()
	protected.Use(authMiddleware)
	protected.HandleFunc("/me", sessionHandler.Me).Methods(http.MethodGet)
	protected.HandleFunc("/sessions", sessionHandler.Create).Methods(http.MethodPost)
	protected.HandleFunc("/sessions", sessionHandler.List).Methods(http.MethodGet)
	protected.HandleFunc("/sessions/leave", sessionHandler.Leave).Methods(http.MethodPost)
	protected.HandleFunc("/sessions/{id}", sessionHandler.Get).Methods(http.MethodGet)
	protected.HandleFunc("/sessions/{id}/join", sessionHandler.Join).Methods(http.MethodPost)

	// Realtime connections authenticate in the handshake themselves
	if cfg.Realtime != nil {
		r.Handle("/ws", recoveryMiddleware(loggingMiddleware(cfg.Realtime))).Methods(http.MethodGet)
	}

	return r
}

func healthHandler(conns ConnCounter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		health := response.Health{Status: "ok"}
		if conns != nil {
			health.Connections = conns.ConnCount()
		}
		response.JSON(w, http.StatusOK, health)
	}
}
