package engine

import (
	"sync"

	"github.com/rcliao/eliza/internal/script"
)

// Session is one conversation: a shared Engine plus the State it owns.
// Its methods are safe for concurrent use.
type Session struct {
	mu     sync.Mutex
	engine *Engine
	state  *State
}

// NewSession starts a conversation. A nil st starts from a fresh State.
func NewSession(e *Engine, st *State) *Session {
	if st == nil {
		st = NewState()
	}
	return &Session{engine: e, state: st}
}

// Respond runs one turn.
func (s *Session) Respond(utterance string) Response {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.Respond(s.state, utterance)
}

// Snapshot returns a copy of the conversation state.
func (s *Session) Snapshot() *State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Reset forgets rotation and memory.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Reset()
}

// Greeting is the script's opening line.
func (s *Session) Greeting() string { return s.engine.script.Greeting }

// Farewell is the script's closing line.
func (s *Session) Farewell() string {
	if f := s.engine.script.Farewell; f != "" {
		return f
	}
	return script.DefaultFarewell
}
