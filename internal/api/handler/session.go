package handler

import (
	"net/http"
	"net/url"

	"github.com/gorilla/mux"

	"github.com/mcoot/chessrelay/internal/api/apierr"
	"github.com/mcoot/chessrelay/internal/api/middleware"
	"github.com/mcoot/chessrelay/internal/api/response"
	"github.com/mcoot/chessrelay/internal/model"
	"github.com/mcoot/chessrelay/internal/services/coordinator"
)

// SessionController is the coordinator surface used by session endpoints
type SessionController interface {
	CreateSession(identity model.Identity) model.Session
	JoinSession(id model.SessionID, identity model.Identity) (model.Session, error)
	LeaveSession(identity model.Identity)
	ListSessions() []model.Session
	GetSession(id model.SessionID) (model.Session, error)
	Status(identity model.Identity) coordinator.Status
}

// SessionHandler handles session management endpoints
type SessionHandler struct {
	controller SessionController
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(controller SessionController) *SessionHandler {
	return &SessionHandler{
		controller: controller,
	}
}

// Create handles POST /api/v1/sessions
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity := middleware.MustGetIdentity(r.Context())

	session := h.controller.CreateSession(identity)

	response.JSON(w, http.StatusCreated, response.SessionFromModel(session))
}

// List handles GET /api/v1/sessions
func (h *SessionHandler) List(w http.ResponseWriter, r *http.Request) {
	sessions := h.controller.ListSessions()
	response.JSON(w, http.StatusOK, response.SessionsFromModel(sessions))
}

// Get handles GET /api/v1/sessions/{id}
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := sessionID(r)

	session, err := h.controller.GetSession(id)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.SessionFromModel(session))
}

// Join handles POST /api/v1/sessions/{id}/join
func (h *SessionHandler) Join(w http.ResponseWriter, r *http.Request) {
	identity := middleware.MustGetIdentity(r.Context())
	id := sessionID(r)

	session, err := h.controller.JoinSession(id, identity)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.SessionFromModel(session))
}

// Leave handles POST /api/v1/sessions/leave
func (h *SessionHandler) Leave(w http.ResponseWriter, r *http.Request) {
	identity := middleware.MustGetIdentity(r.Context())

	h.controller.LeaveSession(identity)

	response.NoContent(w)
}

// Me handles GET /api/v1/me
func (h *SessionHandler) Me(w http.ResponseWriter, r *http.Request) {
	identity := middleware.MustGetIdentity(r.Context())

	response.JSON(w, http.StatusOK, response.MeFromStatus(h.controller.Status(identity)))
}

// sessionID reads the {id} route variable, which arrives path-escaped
func sessionID(r *http.Request) model.SessionID {
	raw := mux.Vars(r)["id"]
	if id, err := url.PathUnescape(raw); err == nil {
		return model.SessionID(id)
	}
	return model.SessionID(raw)
}
