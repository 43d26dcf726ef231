// Package session holds login state in memory: an opaque token maps to
// the id of the user who logged in. Nothing is persisted, so a process
// restart logs everyone out.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

type entry struct {
	userID    uint
	expiresAt time.Time
}

// Store maps opaque session tokens to user ids with a fixed TTL.
type Store struct {
	mu      sync.RWMutex
	entries map[string]entry
	ttl     time.Duration
}

// NewStore creates a session store whose sessions live for ttl.
func NewStore(ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Store{
		entries: make(map[string]entry),
		ttl:     ttl,
	}
}

// Create establishes a fresh session for userID and returns its token.
func (s *Store) Create(userID uint) string {
	token := uuid.NewString()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[token] = entry{
		userID:    userID,
		expiresAt: time.Now().Add(s.ttl),
	}
	return token
}

// Resolve returns the user id behind token. Expired or unknown tokens
// miss; an expired entry is removed on the way out.
func (s *Store) Resolve(token string) (uint, bool) {
	if token == "" {
		return 0, false
	}

	s.mu.RLock()
	ent, ok := s.entries[token]
	s.mu.RUnlock()
	if !ok {
		return 0, false
	}

	if time.Now().After(ent.expiresAt) {
		s.Destroy(token)
		return 0, false
	}
	return ent.userID, true
}

// Destroy removes token's session. Unknown tokens are a no-op.
func (s *Store) Destroy(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, token)
}

// Cleanup removes all expired sessions.
func (s *Store) Cleanup() {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()
	for token, ent := range s.entries {
		if now.After(ent.expiresAt) {
			delete(s.entries, token)
		}
	}
}

// CleanupLoop sweeps expired sessions every interval. Run it in its own
// goroutine for the lifetime of the process.
func (s *Store) CleanupLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for range ticker.C {
		s.Cleanup()
	}
}

// Len reports the number of live entries, expired ones included until
// the next sweep.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
