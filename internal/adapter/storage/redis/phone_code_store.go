package redis

import (
	"context"
	"crypto/subtle"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// PhoneCodeStore implements ports.PhoneCodeStore using Redis keys with TTL.
// A code is single-use: a successful match deletes the key.
type PhoneCodeStore struct {
	client *goredis.Client
	prefix string
}

// NewPhoneCodeStore creates a new Redis-backed phone code store.
func NewPhoneCodeStore(client *goredis.Client) *PhoneCodeStore {
	return &PhoneCodeStore{
		client: client,
		prefix: "phonecode:",
	}
}

// Set stores the code for a user, replacing any outstanding one.
func (s *PhoneCodeStore) Set(ctx context.Context, userID string, code string, ttl time.Duration) error {
	if err := s.client.Set(ctx, s.prefix+userID, code, ttl).Err(); err != nil {
		return fmt.Errorf("redis phone code set: %w", err)
	}
	return nil
}

// Consume checks the stored code and deletes it on match. Returns false for
// a missing, expired, or mismatched code; a mismatch leaves the code in
// place so a typo does not force re-sending.
func (s *PhoneCodeStore) Consume(ctx context.Context, userID string, code string) (bool, error) {
	key := s.prefix + userID
	stored, err := s.client.Get(ctx, key).Result()
	if err != nil {
		if err == goredis.Nil {
			return false, nil
		}
		return false, fmt.Errorf("redis phone code get: %w", err)
	}
	if subtle.ConstantTimeCompare([]byte(stored), []byte(code)) != 1 {
		return false, nil
	}
	if err := s.client.Del(ctx, key).Err(); err != nil {
		return false, fmt.Errorf("redis phone code del: %w", err)
	}
	return true, nil
}
