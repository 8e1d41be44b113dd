package redis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// TokenStore keeps the refresh-token allowlist in Redis. Tokens are stored
// hashed so a leaked dump does not yield usable credentials; expiry rides
// on the key TTL.
type TokenStore struct {
	client *redis.Client
}

func NewTokenStore(client *redis.Client) *TokenStore {
	return &TokenStore{client: client}
}

func (s *TokenStore) SaveRefreshToken(ctx context.Context, userID, token string, ttl time.Duration) error {
	return s.client.Set(ctx, s.key(userID, token), "1", ttl).Err()
}

func (s *TokenStore) HasRefreshToken(ctx context.Context, userID, token string) (bool, error) {
	err := s.client.Get(ctx, s.key(userID, token)).Err()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (s *TokenStore) DeleteRefreshToken(ctx context.Context, userID, token string) error {
	return s.client.Del(ctx, s.key(userID, token)).Err()
}

func (s *TokenStore) key(userID, token string) string {
	sum := sha256.Sum256([]byte(token))
	return "auth:refresh:" + userID + ":" + hex.EncodeToString(sum[:])
}
