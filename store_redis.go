package authflow

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/redis/go-redis/v9"
)

var _ TokenStore = &RedisTokenStore{}

// RedisTokenStore keeps the token under a fixed key in Redis. Meant for
// shared-shell deployments where the client state has to outlive a single
// host (kiosks, server-resident shells).
type RedisTokenStore struct {
	rdb     *redis.Client
	key     string
	timeout time.Duration
	ttl     time.Duration
}

func NewRedisTokenStore(rdb *redis.Client, key string) *RedisTokenStore {
	return &RedisTokenStore{
		rdb:     rdb,
		key:     key,
		timeout: 5 * time.Second,
	}
}

// WithTimeout bounds each Redis round trip. TokenStore operations are
// synchronous so the bound keeps callers from hanging on a dead server.
func (s *RedisTokenStore) WithTimeout(d time.Duration) *RedisTokenStore {
	if d > 0 {
		s.timeout = d
	}
	return s
}

// WithTTL expires the stored token server-side after the given duration.
func (s *RedisTokenStore) WithTTL(ttl time.Duration) *RedisTokenStore {
	s.ttl = ttl
	return s
}

func (s *RedisTokenStore) Save(token string) error {
	ctx, cancel := s.opContext()
	defer cancel()

	if err := s.rdb.Set(ctx, s.key, token, s.ttl).Err(); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "could not persist token to redis")
	}
	return nil
}

func (s *RedisTokenStore) Load() (string, bool, error) {
	ctx, cancel := s.opContext()
	defer cancel()

	token, err := s.rdb.Get(ctx, s.key).Result()
	if err != nil {
		if err == redis.Nil {
			return "", false, nil
		}
		return "", false, goerrors.Wrap(err, goerrors.CategoryInternal, "could not read token from redis")
	}

	if token == "" {
		return "", false, nil
	}
	return token, true, nil
}

func (s *RedisTokenStore) Clear() error {
	ctx, cancel := s.opContext()
	defer cancel()

	if err := s.rdb.Del(ctx, s.key).Err(); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "could not clear token from redis")
	}
	return nil
}

func (s *RedisTokenStore) opContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), s.timeout)
}
