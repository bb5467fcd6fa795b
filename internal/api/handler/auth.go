package handler

import (
	"context"
	"net/http"

	"github.com/mcoot/chessrelay/internal/api/apierr"
	"github.com/mcoot/chessrelay/internal/api/request"
	"github.com/mcoot/chessrelay/internal/api/response"
	"github.com/mcoot/chessrelay/internal/services/auth"
)

// LoginController is the coordinator operation used for logging in
type LoginController interface {
	Login(ctx context.Context, username, password string) (*auth.Credential, error)
}

// AuthHandler handles login
type AuthHandler struct {
	controller LoginController
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(controller LoginController) *AuthHandler {
	return &AuthHandler{
		controller: controller,
	}
}

// Login handles POST /api/v1/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	req, err := request.DecodeLogin(r.Body)
	if err != nil {
		apierr.WriteError(w, apierr.NewInvalidRequestError(err.Error()))
		return
	}

	cred, err := h.controller.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.LoginResponseFromCredential(cred))
}
