package mocks

import (
	"github.com/mcoot/chessrelay/internal/dependencies/random"
)

// MockRandom is a mock implementation of Random for testing
type MockRandom struct {
	// BoolResults is a queue of results to return from Bool
	BoolResults []bool
	boolIndex   int

	// StringResults is a queue of results to return from String
	StringResults []string
	stringIndex   int
}

var _ random.Random = (*MockRandom)(nil)

// NewMockRandom creates a new MockRandom
func NewMockRandom() *MockRandom {
	return &MockRandom{}
}

// Bool returns the next queued result, or true (White) if none remaining
func (r *MockRandom) Bool() bool {
	if r.boolIndex >= len(r.BoolResults) {
		return true
	}
	result := r.BoolResults[r.boolIndex]
	r.boolIndex++
	return result
}

// String returns the next queued result. When the queue is exhausted it falls
// back to a deterministic counter so callers that need unique ids still get them.
func (r *MockRandom) String(length int, alphabet string) string {
	if r.stringIndex >= len(r.StringResults) {
		r.stringIndex++
		return fallbackString(r.stringIndex, length, alphabet)
	}
	result := r.StringResults[r.stringIndex]
	r.stringIndex++
	return result
}

// QueueBool adds values to the Bool result queue
func (r *MockRandom) QueueBool(values ...bool) {
	r.BoolResults = append(r.BoolResults, values...)
}

// QueueString adds values to the String result queue
func (r *MockRandom) QueueString(values ...string) {
	r.StringResults = append(r.StringResults, values...)
}

// Reset clears all queued results
func (r *MockRandom) Reset() {
	r.BoolResults = nil
	r.boolIndex = 0
	r.StringResults = nil
	r.stringIndex = 0
}

func fallbackString(n, length int, alphabet string) string {
	if length <= 0 || len(alphabet) == 0 {
		return ""
	}
	out := make([]byte, length)
	for i := length - 1; i >= 0; i-- {
		out[i] = alphabet[n%len(alphabet)]
		n /= len(alphabet)
	}
	return string(out)
}
