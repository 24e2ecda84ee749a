// Package redis implements the server-join broker on Redis. Pending joins
// are short-lived by nature, so each record carries a TTL and expires on its
// own instead of being swept.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/lanternmc/yggdrasil/internal/yggdrasil/domain"
	"github.com/lanternmc/yggdrasil/internal/yggdrasil/store"
)

const (
	keyPrefix = "ygg:serverjoin:"

	// DefaultTTL bounds how long a join waits for the matching hasJoined.
	// The vanilla client completes the handshake within seconds.
	DefaultTTL = 30 * time.Second
)

// ServerJoins is the Redis-backed store.ServerJoins implementation.
type ServerJoins struct {
	rdb *redis.Client
	ttl time.Duration
}

var _ store.ServerJoins = (*ServerJoins)(nil)

// New connects to Redis using a URL of the form redis://host:port/db.
func New(ctx context.Context, url string, ttl time.Duration) (*ServerJoins, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return NewWithClient(rdb, ttl), nil
}

// NewWithClient wraps an existing client. Used by tests with miniredis.
func NewWithClient(rdb *redis.Client, ttl time.Duration) *ServerJoins {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &ServerJoins{rdb: rdb, ttl: ttl}
}

func (s *ServerJoins) Put(ctx context.Context, j domain.ServerJoin) error {
	raw, err := json.Marshal(j)
	if err != nil {
		return fmt.Errorf("marshal join: %w", err)
	}
	if err := s.rdb.Set(ctx, keyPrefix+j.ServerID, raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("put join: %w", err)
	}
	return nil
}

func (s *ServerJoins) Get(ctx context.Context, serverID string) (domain.ServerJoin, error) {
	raw, err := s.rdb.Get(ctx, keyPrefix+serverID).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.ServerJoin{}, store.ErrNotFound
	}
	if err != nil {
		return domain.ServerJoin{}, fmt.Errorf("get join: %w", err)
	}
	var j domain.ServerJoin
	if err := json.Unmarshal(raw, &j); err != nil {
		return domain.ServerJoin{}, fmt.Errorf("unmarshal join: %w", err)
	}
	return j, nil
}

func (s *ServerJoins) Delete(ctx context.Context, serverID string) error {
	if err := s.rdb.Del(ctx, keyPrefix+serverID).Err(); err != nil {
		return fmt.Errorf("delete join: %w", err)
	}
	return nil
}

// PurgeCreatedBefore is a no-op: Redis expires join keys via their TTL.
func (s *ServerJoins) PurgeCreatedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	return 0, nil
}

// Close releases the underlying client connection pool.
func (s *ServerJoins) Close() error { return s.rdb.Close() }
