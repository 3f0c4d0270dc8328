//go:build integration

package token_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"coverflow/internal/insurer/token"
	"coverflow/pkg/sentinel"
	"coverflow/pkg/testutil/containers"
)

type RedisStoreSuite struct {
	suite.Suite
	redis *containers.RedisContainer
	store *token.RedisStore
}

func TestRedisStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisStoreSuite))
}

func (s *RedisStoreSuite) SetupSuite() {
	s.redis = containers.NewRedisContainer(s.T())
	s.store = token.NewRedisStore(s.redis.Client)
}

func (s *RedisStoreSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(context.Background()))
}

func (s *RedisStoreSuite) TestRoundTrip() {
	ctx := context.Background()

	tok := token.Token{
		AccessToken:  "access-1",
		RefreshToken: "refresh-1",
		ExpiresAt:    time.Now().Add(time.Hour).Truncate(time.Millisecond),
	}
	s.Require().NoError(s.store.Put(ctx, "test", tok))

	got, err := s.store.Get(ctx, "test")
	s.Require().NoError(err)
	s.Equal(tok.AccessToken, got.AccessToken)
	s.Equal(tok.RefreshToken, got.RefreshToken)
	s.True(tok.ExpiresAt.Equal(got.ExpiresAt))
}

func (s *RedisStoreSuite) TestMissingEntry() {
	_, err := s.store.Get(context.Background(), "absent")
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *RedisStoreSuite) TestEnvironmentsAreIsolated() {
	ctx := context.Background()

	s.Require().NoError(s.store.Put(ctx, "test", token.Token{
		AccessToken: "test-token",
		ExpiresAt:   time.Now().Add(time.Hour),
	}))

	_, err := s.store.Get(ctx, "production")
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *RedisStoreSuite) TestExpiredTokenIsNotStored() {
	ctx := context.Background()

	s.Require().NoError(s.store.Put(ctx, "test", token.Token{
		AccessToken: "dead-token",
		ExpiresAt:   time.Now().Add(-time.Minute),
	}))

	_, err := s.store.Get(ctx, "test")
	s.ErrorIs(err, sentinel.ErrNotFound)
}
