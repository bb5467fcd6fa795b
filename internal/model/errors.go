package model

import (
	"errors"
	"fmt"
)

// Common errors used across the application
var (
	// Identity errors
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrUnknownIdentity      = errors.New("unknown identity")
	ErrNotBound             = errors.New("connection is not bound to an identity")
	ErrUsernameTaken        = errors.New("username already taken")
	ErrPlayerNotFound       = errors.New("player not found")
	ErrInvalidUsername      = errors.New("invalid username")

	// Session errors
	ErrSessionNotFound   = errors.New("session not found")
	ErrSessionFull       = errors.New("session is full")
	ErrSessionNotRunning = errors.New("session is not running")
	ErrOutOfTurn         = errors.New("not this player's turn")
	ErrNoActiveSession   = errors.New("player has no active session")
)

// ErrMissingCredential is an authentication failure where no credential was presented
var ErrMissingCredential = fmt.Errorf("%w: missing credential", ErrAuthenticationFailed)
