package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/layer-3/authtoken/core"
	"github.com/layer-3/authtoken/ports"
	"github.com/redis/go-redis/v9"
)

// RedisStore is a Redis implementation of the Store interface
type RedisStore struct {
	client *redis.Client
	prefix string
	delay  time.Duration
}

// NewRedisStore creates a new Redis store whose lookups take at least delay to complete
func NewRedisStore(client *redis.Client, delay time.Duration) ports.Store {
	return &RedisStore{
		client: client,
		prefix: "authtoken:token:",
		delay:  delay,
	}
}

// Add stores a token in Redis. Entries have no expiration.
func (s *RedisStore) Add(ctx context.Context, token core.Token) error {
	payload, err := json.Marshal(token)
	if err != nil {
		return fmt.Errorf("failed to encode token: %w", err)
	}

	if err := s.client.Set(ctx, s.prefix+token.Value, payload, 0).Err(); err != nil {
		return fmt.Errorf("failed to add token: %w: %w", core.ErrStoreOperationFailed, err)
	}

	return nil
}

// FindByValue waits for the configured delay, then reads the token from Redis
func (s *RedisStore) FindByValue(ctx context.Context, value string) (core.Token, bool, error) {
	if err := wait(ctx, s.delay); err != nil {
		return core.Token{}, false, err
	}

	payload, err := s.client.Get(ctx, s.prefix+value).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return core.Token{}, false, nil
		}
		return core.Token{}, false, fmt.Errorf("failed to find token: %w: %w", core.ErrStoreOperationFailed, err)
	}

	var token core.Token
	if err := json.Unmarshal(payload, &token); err != nil {
		return core.Token{}, false, fmt.Errorf("failed to decode token: %w", err)
	}

	return token, true, nil
}
