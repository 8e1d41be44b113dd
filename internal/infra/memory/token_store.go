package memory

import (
	"context"
	"sync"
	"time"
)

// TokenStore is an in-memory refresh-token allowlist with expiry.
type TokenStore struct {
	mu     sync.Mutex
	tokens map[string]time.Time // userID + token -> expiry
	clock  func() time.Time
}

func NewTokenStore() *TokenStore {
	return &TokenStore{
		tokens: make(map[string]time.Time),
		clock:  time.Now,
	}
}

func (s *TokenStore) SaveRefreshToken(_ context.Context, userID, token string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[userID+"\x00"+token] = s.clock().Add(ttl)
	return nil
}

func (s *TokenStore) HasRefreshToken(_ context.Context, userID, token string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := userID + "\x00" + token
	expiry, ok := s.tokens[key]
	if !ok {
		return false, nil
	}
	if s.clock().After(expiry) {
		delete(s.tokens, key)
		return false, nil
	}
	return true, nil
}

func (s *TokenStore) DeleteRefreshToken(_ context.Context, userID, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, userID+"\x00"+token)
	return nil
}
