package domain

import "sync"

// Turn is one prompt/response exchange kept in session memory.
type Turn struct {
	Instruction string
	Response    string
}

// Session holds the rolling transcript of an interactive run so later
// prompts can reference earlier exchanges. It keeps at most maxTurns turns,
// dropping the oldest first.
type Session struct {
	mu       sync.Mutex
	turns    []Turn
	maxTurns int
}

// DefaultSessionTurns bounds session memory; old turns beyond it are dropped.
const DefaultSessionTurns = 10

// NewSession constructs a Session. maxTurns <= 0 selects the default.
func NewSession(maxTurns int) *Session {
	if maxTurns <= 0 {
		maxTurns = DefaultSessionTurns
	}

	return &Session{maxTurns: maxTurns}
}

// Append records one exchange.
func (s *Session) Append(instruction, response string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.turns = append(s.turns, Turn{Instruction: instruction, Response: response})
	if len(s.turns) > s.maxTurns {
		s.turns = s.turns[len(s.turns)-s.maxTurns:]
	}
}

// Turns returns a copy of the recorded exchanges, oldest first.
func (s *Session) Turns() []Turn {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Turn, len(s.turns))
	copy(out, s.turns)

	return out
}

// Clear drops all recorded exchanges.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.turns = nil
}
