package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Store is a read cache keyed by query shape with a bounded TTL. It is a
// staleness optimization only: misses and Redis failures fall through to the
// system of record, so every method degrades to a no-op when Redis is down.
type Store struct {
	client *redis.Client
	logger *zap.Logger
}

// NewStore wraps a Redis client. Either argument may be nil.
func NewStore(client *redis.Client, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{client: client, logger: logger}
}

// Get unmarshals the cached value for key into dest. Returns false on miss
// or any cache failure.
func (s *Store) Get(ctx context.Context, key string, dest any) bool {
	if s == nil || s.client == nil {
		return false
	}
	raw, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			s.logger.Debug("cache get failed", zap.String("key", key), zap.Error(err))
		}
		return false
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		s.logger.Warn("cache entry corrupt", zap.String("key", key), zap.Error(err))
		_ = s.client.Del(ctx, key).Err()
		return false
	}
	return true
}

// Set stores val under key for the given TTL.
func (s *Store) Set(ctx context.Context, key string, val any, ttl time.Duration) {
	if s == nil || s.client == nil || ttl <= 0 {
		return
	}
	raw, err := json.Marshal(val)
	if err != nil {
		s.logger.Warn("cache marshal failed", zap.String("key", key), zap.Error(err))
		return
	}
	if err := s.client.Set(ctx, key, raw, ttl).Err(); err != nil {
		s.logger.Debug("cache set failed", zap.String("key", key), zap.Error(err))
	}
}

// Invalidate deletes exact keys synchronously. Used after writes so the
// writer's next read reflects their own mutation immediately.
func (s *Store) Invalidate(ctx context.Context, keys ...string) {
	if s == nil || s.client == nil || len(keys) == 0 {
		return
	}
	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		s.logger.Debug("cache invalidate failed", zap.Error(err))
	}
}

// InvalidatePrefix deletes all keys under the given prefixes.
func (s *Store) InvalidatePrefix(ctx context.Context, prefixes ...string) {
	if s == nil || s.client == nil {
		return
	}
	for _, prefix := range prefixes {
		iter := s.client.Scan(ctx, 0, prefix+"*", 0).Iterator()
		var keys []string
		for iter.Next(ctx) {
			keys = append(keys, iter.Val())
		}
		if err := iter.Err(); err != nil {
			s.logger.Debug("cache scan failed", zap.String("prefix", prefix), zap.Error(err))
			continue
		}
		if len(keys) > 0 {
			if err := s.client.Del(ctx, keys...).Err(); err != nil {
				s.logger.Debug("cache invalidate failed", zap.Error(err))
			}
		}
	}
}

// TicketListKey builds the cache key for a caller's filtered ticket list.
// The filter fingerprint keeps distinct query shapes in distinct entries.
func TicketListKey(callerID int64, filterFingerprint string) string {
	h := fnv.New64a()
	_, _ = h.Write([]byte(filterFingerprint))
	return fmt.Sprintf("%s%x", TicketListPrefix(callerID), h.Sum64())
}

// TicketListPrefix covers every cached list shape for one caller.
func TicketListPrefix(callerID int64) string {
	return fmt.Sprintf("tickets:list:%d:", callerID)
}

// ThreadKey builds the cache key for one ticket's comment thread.
func ThreadKey(ticketID int64) string {
	return fmt.Sprintf("tickets:thread:%d", ticketID)
}

// StatsKey is the global dashboard aggregate entry.
const StatsKey = "stats:dashboard"
