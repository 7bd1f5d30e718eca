// Package cache provides a small redis-backed read cache for catalog
// lookups on the billing hot path. When no redis address is configured the
// store degrades to a no-op and every read goes to the database.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/dinebilllabs/dinebill/internal/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const defaultTTL = 30 * time.Second

// Store wraps a redis client with JSON codec semantics.
type Store struct {
	client *redis.Client
	log    *zap.Logger
	ttl    time.Duration
}

// New returns a Store, or a disabled one when no redis address is configured.
func New(cfg config.Config, log *zap.Logger) *Store {
	if cfg.RedisAddr == "" {
		return &Store{log: log.Named("cache")}
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	return &Store{
		client: client,
		log:    log.Named("cache"),
		ttl:    defaultTTL,
	}
}

func (s *Store) Enabled() bool {
	return s != nil && s.client != nil
}

// Get unmarshals the cached value into dest. The bool reports a hit.
func (s *Store) Get(ctx context.Context, key string, dest any) bool {
	if !s.Enabled() {
		return false
	}
	raw, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.log.Debug("cache get failed", zap.String("key", key), zap.Error(err))
		}
		return false
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		s.log.Warn("cache entry corrupt, dropping", zap.String("key", key), zap.Error(err))
		s.Delete(ctx, key)
		return false
	}
	return true
}

// Set stores the value with the default TTL. Failures are logged, never surfaced:
// the cache is an optimization, not a source of truth.
func (s *Store) Set(ctx context.Context, key string, value any) {
	if !s.Enabled() {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		s.log.Warn("cache marshal failed", zap.String("key", key), zap.Error(err))
		return
	}
	if err := s.client.Set(ctx, key, raw, s.ttl).Err(); err != nil {
		s.log.Debug("cache set failed", zap.String("key", key), zap.Error(err))
	}
}

// Delete drops keys after catalog writes so stale reads cannot outlive the TTL.
func (s *Store) Delete(ctx context.Context, keys ...string) {
	if !s.Enabled() || len(keys) == 0 {
		return
	}
	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		s.log.Debug("cache delete failed", zap.Strings("keys", keys), zap.Error(err))
	}
}

// Close releases the underlying client.
func (s *Store) Close() error {
	if !s.Enabled() {
		return nil
	}
	return s.client.Close()
}
