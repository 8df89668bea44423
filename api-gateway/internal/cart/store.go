package cart

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultTTL is how long an untouched cart survives. Every save restarts it.
const DefaultTTL = 30 * 24 * time.Hour

type Store interface {
	Load(ctx context.Context, sessionID string) ([]byte, error)
	Save(ctx context.Context, sessionID string, data []byte) error
	Delete(ctx context.Context, sessionID string) error
}

type RedisStore struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{Client: client, TTL: DefaultTTL}
}

func Key(sessionID string) string {
	return "cart:" + sessionID
}

// Load returns nil data for a session with no stored cart.
func (s *RedisStore) Load(ctx context.Context, sessionID string) ([]byte, error) {
	data, err := s.Client.Get(ctx, Key(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load cart %s: %w", sessionID, err)
	}
	return data, nil
}

func (s *RedisStore) Save(ctx context.Context, sessionID string, data []byte) error {
	if err := s.Client.Set(ctx, Key(sessionID), data, s.TTL).Err(); err != nil {
		return fmt.Errorf("save cart %s: %w", sessionID, err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, sessionID string) error {
	return s.Client.Del(ctx, Key(sessionID)).Err()
}
