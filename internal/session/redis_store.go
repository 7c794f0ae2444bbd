package session

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"declutteredWeb/internal/models"
)

const sessionKeyPrefix = "session:"

// Store persists encrypted session blobs by id.
type Store interface {
	Save(ctx context.Context, id string, data string, ttl time.Duration) error
	Get(ctx context.Context, id string) (string, error)
	Delete(ctx context.Context, id string) error
}

type RedisStore struct {
	Client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{Client: client}
}

func (s *RedisStore) Save(ctx context.Context, id string, data string, ttl time.Duration) error {
	return s.Client.Set(ctx, sessionKeyPrefix+id, data, ttl).Err()
}

func (s *RedisStore) Get(ctx context.Context, id string) (string, error) {
	data, err := s.Client.Get(ctx, sessionKeyPrefix+id).Result()
	if errors.Is(err, redis.Nil) {
		return "", models.ErrNoSession
	}
	if err != nil {
		return "", err
	}
	return data, nil
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	return s.Client.Del(ctx, sessionKeyPrefix+id).Err()
}
