package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"time"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
	w      io.Writer
}

// NewOutput creates a new Output formatter
func NewOutput(format string, w io.Writer) *Output {
	return &Output{format: format, w: w}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		_, _ = fmt.Fprintln(o.w, string(data))
	} else {
		_, _ = fmt.Fprintln(o.w, msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case LoginResult:
		o.printLoginResult(v)
	case Session:
		o.printSession(v)
	case []Session:
		o.printSessions(v)
	case Me:
		o.printMe(v)
	case HealthResult:
		o.printHealthResult(v)
	case Event:
		o.printEvent(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// LoginResult response type (matches API)
type LoginResult struct {
	Token     string    `json:"token"`
	Username  string    `json:"username"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Session response type
type Session struct {
	ID        string  `json:"id"`
	White     *string `json:"white"`
	Black     *string `json:"black"`
	Running   bool    `json:"running"`
	WhiteTurn bool    `json:"white_turn"`
	State     string  `json:"state"`
}

// Me response type
type Me struct {
	Username string   `json:"username"`
	Live     bool     `json:"live"`
	Session  *Session `json:"session"`
}

// HealthResult response type
type HealthResult struct {
	Status      string `json:"status"`
	Connections int    `json:"connections"`
}

// Event is one realtime frame
type Event struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

func seatName(s *string) string {
	if s == nil {
		return "(open)"
	}
	return *s
}

func (o *Output) printLoginResult(l LoginResult) {
	_, _ = fmt.Fprintf(o.w, "Logged in as %s\n", l.Username)
	_, _ = fmt.Fprintf(o.w, "Expires: %s\n", l.ExpiresAt.Format(time.RFC3339))
}

func (o *Output) printSession(s Session) {
	_, _ = fmt.Fprintf(o.w, "Session: %s\n", s.ID)
	_, _ = fmt.Fprintf(o.w, "White: %s\n", seatName(s.White))
	_, _ = fmt.Fprintf(o.w, "Black: %s\n", seatName(s.Black))
	_, _ = fmt.Fprintf(o.w, "State: %s\n", s.State)
}

func (o *Output) printSessions(sessions []Session) {
	if len(sessions) == 0 {
		_, _ = fmt.Fprintln(o.w, "No open sessions")
		return
	}
	for _, s := range sessions {
		_, _ = fmt.Fprintf(o.w, "%s  white=%s  black=%s  %s\n", s.ID, seatName(s.White), seatName(s.Black), s.State)
	}
}

func (o *Output) printMe(m Me) {
	status := "offline"
	if m.Live {
		status = "connected"
	}
	_, _ = fmt.Fprintf(o.w, "Player: %s (%s)\n", m.Username, status)
	if m.Session != nil {
		_, _ = fmt.Fprintf(o.w, "Session: %s (%s)\n", m.Session.ID, m.Session.State)
	} else {
		_, _ = fmt.Fprintln(o.w, "Session: none")
	}
}

func (o *Output) printHealthResult(h HealthResult) {
	_, _ = fmt.Fprintf(o.w, "Status: %s\n", h.Status)
	_, _ = fmt.Fprintf(o.w, "Connections: %d\n", h.Connections)
}

func (o *Output) printEvent(e Event) {
	switch e.Event {
	case "opponent_move":
		var move string
		_ = json.Unmarshal(e.Data, &move)
		_, _ = fmt.Fprintf(o.w, "opponent played %s\n", move)
	case "game_state":
		var state string
		_ = json.Unmarshal(e.Data, &state)
		_, _ = fmt.Fprintf(o.w, "state: %s\n", state)
	case "connected":
		var payload struct {
			Username string `json:"username"`
		}
		_ = json.Unmarshal(e.Data, &payload)
		_, _ = fmt.Fprintf(o.w, "connected as %s\n", payload.Username)
	case "error":
		var payload APIError
		_ = json.Unmarshal(e.Data, &payload)
		_, _ = fmt.Fprintf(o.w, "rejected: %s\n", payload.String())
	default:
		_, _ = fmt.Fprintf(o.w, "%s: %s\n", e.Event, string(e.Data))
	}
}
