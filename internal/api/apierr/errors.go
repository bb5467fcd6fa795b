package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mcoot/chessrelay/internal/model"
)

// APIError represents an API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Common error codes
const (
	CodeInvalidRequest       = "INVALID_REQUEST"
	CodeUnauthorized         = "UNAUTHORIZED"
	CodeAuthenticationFailed = "AUTHENTICATION_FAILED"
	CodeUnknownIdentity      = "UNKNOWN_IDENTITY"
	CodeUsernameTaken        = "USERNAME_TAKEN"
	CodeInvalidUsername      = "INVALID_USERNAME"
	CodeSessionNotFound      = "SESSION_NOT_FOUND"
	CodeSessionFull          = "SESSION_FULL"
	CodeInternalError        = "INTERNAL_ERROR"
	CodeUnavailable          = "UNAVAILABLE"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// Status returns the HTTP status an error would be written with
func Status(err error) int {
	return toHTTPError(err).status
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	switch {
	case errors.Is(err, model.ErrMissingCredential):
		return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, "Authentication required"}}
	case errors.Is(err, model.ErrAuthenticationFailed):
		return &httpError{http.StatusForbidden, APIError{CodeAuthenticationFailed, "Invalid or expired credential"}}
	case errors.Is(err, model.ErrUnknownIdentity):
		return &httpError{http.StatusForbidden, APIError{CodeUnknownIdentity, "Credential does not belong to a known player; log in again"}}
	case errors.Is(err, model.ErrUsernameTaken):
		return &httpError{http.StatusBadRequest, APIError{CodeUsernameTaken, "Username is already taken"}}
	case errors.Is(err, model.ErrInvalidUsername):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidUsername, "Username must be 1-32 letters, digits, '_' or '-'"}}
	case errors.Is(err, model.ErrSessionNotFound):
		return &httpError{http.StatusBadRequest, APIError{CodeSessionNotFound, "No session exists with that id"}}
	case errors.Is(err, model.ErrSessionFull):
		return &httpError{http.StatusConflict, APIError{CodeSessionFull, "Session already has two players"}}

	default:
		return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// NewUnavailableError creates a service unavailable error
func NewUnavailableError(message string) error {
	return &httpError{http.StatusServiceUnavailable, APIError{CodeUnavailable, message}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}
