package model

import "time"

// SessionID is the opaque random identifier used to join a session
type SessionID string

// Color identifies one of the two seats in a session
type Color string

const (
	White Color = "white"
	Black Color = "black"
)

// Other returns the opposing seat
func (c Color) Other() Color {
	if c == White {
		return Black
	}
	return White
}

// TurnState is the externally visible state of a session's turn machine
type TurnState string

const (
	TurnStateWaiting TurnState = "WAITING"    // One seat still empty
	TurnStateWhite   TurnState = "WHITE_TURN" // White to move
	TurnStateBlack   TurnState = "BLACK_TURN" // Black to move
)

// Session is a two-seat game instance.
// An empty seat holds the zero Identity.
type Session struct {
	ID        SessionID
	White     Identity
	Black     Identity
	Running   bool // Set once when both seats fill, never cleared
	WhiteTurn bool
	CreatedAt time.Time
}

// Occupant returns the identity seated at the given color, or "" if empty
func (s *Session) Occupant(c Color) Identity {
	if c == White {
		return s.White
	}
	return s.Black
}

// SeatOf returns the color held by identity, if any
func (s *Session) SeatOf(identity Identity) (Color, bool) {
	switch {
	case identity == "":
		return "", false
	case s.White == identity:
		return White, true
	case s.Black == identity:
		return Black, true
	default:
		return "", false
	}
}

// Contains returns true if identity occupies either seat
func (s *Session) Contains(identity Identity) bool {
	_, ok := s.SeatOf(identity)
	return ok
}

// Opponent returns the identity in the other seat from identity, or "" if empty
func (s *Session) Opponent(identity Identity) Identity {
	color, ok := s.SeatOf(identity)
	if !ok {
		return ""
	}
	return s.Occupant(color.Other())
}

// IsFull returns true if both seats are occupied
func (s *Session) IsFull() bool {
	return s.White != "" && s.Black != ""
}

// IsEmpty returns true if neither seat is occupied
func (s *Session) IsEmpty() bool {
	return s.White == "" && s.Black == ""
}

// ToMove returns the color whose turn it is
func (s *Session) ToMove() Color {
	if s.WhiteTurn {
		return White
	}
	return Black
}

// State returns the current turn state
func (s *Session) State() TurnState {
	if !s.Running {
		return TurnStateWaiting
	}
	if s.WhiteTurn {
		return TurnStateWhite
	}
	return TurnStateBlack
}

// Participants returns the occupied seats' identities, White first
func (s *Session) Participants() []Identity {
	var ids []Identity
	if s.White != "" {
		ids = append(ids, s.White)
	}
	if s.Black != "" {
		ids = append(ids, s.Black)
	}
	return ids
}
