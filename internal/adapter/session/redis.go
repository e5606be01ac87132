package session

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"todolists/internal/core/port"
)

const keyPrefix = "session:"

// RedisStore backs the session contract with Redis. The contract stays the
// one the in-memory store has: no TTL, tokens live until deleted.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(redisURL string) (*RedisStore, error) {
	opts, err := redis.ParseURL(redisURL)

	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisStore{client: client}, nil
}

func (s *RedisStore) Create(ctx context.Context, userID int64) (string, error) {
	token, err := newToken()

	if err != nil {
		return "", err
	}

	if err := s.client.Set(ctx, keyPrefix+token, userID, 0).Err(); err != nil {
		return "", err
	}

	return token, nil
}

func (s *RedisStore) Lookup(ctx context.Context, token string) (int64, bool, error) {
	val, err := s.client.Get(ctx, keyPrefix+token).Result()

	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}

	if err != nil {
		return 0, false, err
	}

	userID, err := strconv.ParseInt(val, 10, 64)

	if err != nil {
		return 0, false, err
	}

	return userID, true, nil
}

func (s *RedisStore) Delete(ctx context.Context, token string) error {
	return s.client.Del(ctx, keyPrefix+token).Err()
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

var _ port.SessionStore = (*RedisStore)(nil)
