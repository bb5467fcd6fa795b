package model

import "time"

// Identity is the participant-chosen username. It is the only key used for
// player lookups; there is no separate numeric player id.
type Identity string

// ConnID identifies a single live transport connection
type ConnID string

// Player is the persisted identity record created by login
type Player struct {
	Username     Identity
	PasswordHash string // bcrypt hash
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Binding ties an identity to its current connection and credential.
// Conn is empty while the identity is known but disconnected.
type Binding struct {
	Identity   Identity
	Conn       ConnID
	Credential string
}

// IsLive returns true if the binding currently has a connection
func (b Binding) IsLive() bool {
	return b.Conn != ""
}
