// Package cache stores rendered GET responses in redis. Every successful
// mutation bumps a generation counter that is part of each key, so stale
// entries stop being addressed and simply expire.
package cache

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/medspa-scheduler/internal/logging"
	"github.com/BruksfildServices01/medspa-scheduler/internal/metrics"
)

const defaultPrefix = "medspa:cache"

type Store struct {
	rdb    *redis.Client
	prefix string
	log    *zap.Logger
}

// New returns a Store over rdb. A nil client yields a disabled store whose
// reads always miss and whose writes are no-ops.
func New(rdb *redis.Client, log *zap.Logger) *Store {
	return &Store{rdb: rdb, prefix: defaultPrefix, log: logging.OrNop(log)}
}

func (s *Store) Enabled() bool {
	return s != nil && s.rdb != nil
}

func (s *Store) generationKey() string {
	return s.prefix + ":gen"
}

// Generation returns the current invalidation generation, 0 when unset or
// unreachable.
func (s *Store) Generation(ctx context.Context) int64 {
	if !s.Enabled() {
		return 0
	}
	n, err := s.rdb.Get(ctx, s.generationKey()).Int64()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.log.Warn("cache generation read failed", zap.Error(err))
		}
		return 0
	}
	return n
}

// Key builds a generation-scoped cache key from the given parts.
func (s *Store) Key(ctx context.Context, parts ...string) string {
	gen := strconv.FormatInt(s.Generation(ctx), 10)
	return s.prefix + ":" + gen + ":" + strings.Join(parts, ":")
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, bool) {
	if !s.Enabled() {
		return nil, false
	}
	b, err := s.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.log.Warn("cache read failed", zap.String("key", key), zap.Error(err))
		}
		metrics.CacheMiss()
		return nil, false
	}
	metrics.CacheHit()
	return b, true
}

func (s *Store) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	if !s.Enabled() {
		return
	}
	if err := s.rdb.Set(ctx, key, value, ttl).Err(); err != nil {
		s.log.Warn("cache write failed", zap.String("key", key), zap.Error(err))
	}
}

// Invalidate retires every cached entry by advancing the generation.
func (s *Store) Invalidate(ctx context.Context) {
	if !s.Enabled() {
		return
	}
	if err := s.rdb.Incr(ctx, s.generationKey()).Err(); err != nil {
		s.log.Warn("cache invalidation failed", zap.Error(err))
	}
}

// Ping checks the connection; a disabled store is always healthy.
func (s *Store) Ping(ctx context.Context) error {
	if !s.Enabled() {
		return nil
	}
	return s.rdb.Ping(ctx).Err()
}
