package model

// EventType names a realtime frame sent over a player connection
type EventType string

const (
	// Inbound
	EventMove EventType = "move"

	// Outbound
	EventConnected    EventType = "connected"
	EventOpponentMove EventType = "opponent_move"
	EventGameState    EventType = "game_state"
	EventError        EventType = "error"
)

// Event is a single realtime frame
type Event struct {
	Type EventType `json:"event"`
	Data any       `json:"data,omitempty"`
}

// ConnectedPayload is sent once a connection has been bound to an identity
type ConnectedPayload struct {
	Username Identity `json:"username"`
}

// ErrorPayload echoes a rejected action back to its sender
type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// GameStateEvent builds the game_state frame for a turn state
func GameStateEvent(state TurnState) Event {
	return Event{Type: EventGameState, Data: state}
}

// OpponentMoveEvent builds the opponent_move frame carrying a relayed payload verbatim
func OpponentMoveEvent(payload string) Event {
	return Event{Type: EventOpponentMove, Data: payload}
}

// ErrorEvent builds the error frame echoed to the sender of a rejected action
func ErrorEvent(code, message string) Event {
	return Event{Type: EventError, Data: ErrorPayload{Code: code, Message: message}}
}

// ConnectedEvent builds the frame sent after a successful bind
func ConnectedEvent(identity Identity) Event {
	return Event{Type: EventConnected, Data: ConnectedPayload{Username: identity}}
}
