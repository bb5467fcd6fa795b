package mocks

import (
	"sync"

	"github.com/mcoot/chessrelay/internal/model"
)

// SentEvent is one event recorded by MockSender
type SentEvent struct {
	Conn  model.ConnID
	Event model.Event
}

// MockSender records outbound events instead of delivering them
type MockSender struct {
	mu   sync.Mutex
	sent []SentEvent
}

// NewMockSender creates an empty MockSender
func NewMockSender() *MockSender {
	return &MockSender{}
}

// Send records the event
func (s *MockSender) Send(conn model.ConnID, event model.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, SentEvent{Conn: conn, Event: event})
}

// Sent returns every recorded event in order
func (s *MockSender) Sent() []SentEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]SentEvent, len(s.sent))
	copy(out, s.sent)
	return out
}

// SentTo returns the events recorded for conn in order
func (s *MockSender) SentTo(conn model.ConnID) []model.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Event
	for _, e := range s.sent {
		if e.Conn == conn {
			out = append(out, e.Event)
		}
	}
	return out
}

// Reset discards recorded events
func (s *MockSender) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = nil
}
