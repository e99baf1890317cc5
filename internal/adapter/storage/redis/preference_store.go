package redis

import (
	"context"
	"fmt"

	goredis "github.com/redis/go-redis/v9"
)

// PreferenceStore implements ports.PreferenceStore. Preferences are small
// key-value pairs kept out of the primary database.
type PreferenceStore struct {
	client *goredis.Client
	prefix string
}

// NewPreferenceStore creates a new Redis-backed preference store.
func NewPreferenceStore(client *goredis.Client) *PreferenceStore {
	return &PreferenceStore{
		client: client,
		prefix: "pref:",
	}
}

// SetLanguage stores the user's UI language.
func (s *PreferenceStore) SetLanguage(ctx context.Context, userID string, language string) error {
	if err := s.client.Set(ctx, s.prefix+userID+":lang", language, 0).Err(); err != nil {
		return fmt.Errorf("redis preference set: %w", err)
	}
	return nil
}

// GetLanguage returns the user's UI language, or "" when unset.
func (s *PreferenceStore) GetLanguage(ctx context.Context, userID string) (string, error) {
	val, err := s.client.Get(ctx, s.prefix+userID+":lang").Result()
	if err != nil {
		if err == goredis.Nil {
			return "", nil
		}
		return "", fmt.Errorf("redis preference get: %w", err)
	}
	return val, nil
}
