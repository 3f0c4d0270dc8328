package token

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"coverflow/pkg/sentinel"
)

// RedisStore shares the token cache across process instances. The entry expires
// from Redis together with the token itself so stale credentials never survive
// a restart.
type RedisStore struct {
	client redis.Cmdable
	now    func() time.Time
}

func NewRedisStore(client redis.Cmdable) *RedisStore {
	return &RedisStore{client: client, now: time.Now}
}

func redisKey(environment string) string {
	return "coverflow:insurer:token:" + environment
}

func (s *RedisStore) Get(ctx context.Context, environment string) (Token, error) {
	raw, err := s.client.Get(ctx, redisKey(environment)).Result()
	if errors.Is(err, redis.Nil) {
		return Token{}, sentinel.ErrNotFound
	}
	if err != nil {
		return Token{}, fmt.Errorf("token redis get: %w", err)
	}

	var tok Token
	if err := json.Unmarshal([]byte(raw), &tok); err != nil {
		return Token{}, fmt.Errorf("token redis decode: %w", err)
	}
	return tok, nil
}

func (s *RedisStore) Put(ctx context.Context, environment string, tok Token) error {
	raw, err := json.Marshal(tok)
	if err != nil {
		return fmt.Errorf("token redis encode: %w", err)
	}

	ttl := tok.ExpiresAt.Sub(s.now())
	if ttl <= 0 {
		// Keep expired entries out of the shared cache entirely.
		return nil
	}

	if err := s.client.Set(ctx, redisKey(environment), raw, ttl).Err(); err != nil {
		return fmt.Errorf("token redis set: %w", err)
	}
	return nil
}
