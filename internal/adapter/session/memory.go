// Package session provides the two SessionStore implementations: an
// in-process map for single-node deployments and tests, and a Redis-backed
// store for anything that has to survive a restart.
package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"sync"

	"todolists/internal/core/port"
)

const tokenBytes = 32

func newToken() (string, error) {
	buf := make([]byte, tokenBytes)

	if _, err := rand.Read(buf); err != nil {
		return "", err
	}

	return hex.EncodeToString(buf), nil
}

// MemoryStore keeps token -> user id in process memory. State lives for the
// process lifetime and is cleared only by explicit deletion or teardown.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]int64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]int64)}
}

func (s *MemoryStore) Create(ctx context.Context, userID int64) (string, error) {
	token, err := newToken()

	if err != nil {
		return "", err
	}

	s.mu.Lock()
	s.sessions[token] = userID
	s.mu.Unlock()

	return token, nil
}

func (s *MemoryStore) Lookup(ctx context.Context, token string) (int64, bool, error) {
	s.mu.RLock()
	userID, ok := s.sessions[token]
	s.mu.RUnlock()

	return userID, ok, nil
}

func (s *MemoryStore) Delete(ctx context.Context, token string) error {
	s.mu.Lock()
	delete(s.sessions, token)
	s.mu.Unlock()

	return nil
}

// Len reports the number of live sessions, for metrics.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.sessions)
}

var _ port.SessionStore = (*MemoryStore)(nil)
