package api

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Sessions holds the tokens minted by successful gate interactions. Tokens
// are process-local and opaque; a TTL of zero means a session lasts until
// the process ends, matching the page-session behavior of the gate.
type Sessions struct {
	ttl time.Duration

	mu     sync.Mutex
	tokens map[string]time.Time // token -> minted-at
}

// NewSessions creates a session registry with the given TTL (0 = no expiry).
func NewSessions(ttl time.Duration) *Sessions {
	return &Sessions{
		ttl:    ttl,
		tokens: make(map[string]time.Time),
	}
}

// Mint issues a fresh session token.
func (s *Sessions) Mint() string {
	token := uuid.NewString()
	s.mu.Lock()
	s.tokens[token] = time.Now()
	s.mu.Unlock()
	return token
}

// Valid reports whether token is a live session.
func (s *Sessions) Valid(token string) bool {
	if token == "" {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	minted, ok := s.tokens[token]
	if !ok {
		return false
	}
	if s.ttl > 0 && time.Since(minted) > s.ttl {
		delete(s.tokens, token)
		return false
	}
	return true
}

// Revoke drops every live session. Called when the gate is reset so stale
// tokens cannot outlive the credential they were minted under.
func (s *Sessions) Revoke() {
	s.mu.Lock()
	s.tokens = make(map[string]time.Time)
	s.mu.Unlock()
}
