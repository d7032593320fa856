// Package syncstate stores the last value synced to each slot in Redis so a
// sync pass can skip cells that have not changed since the previous run.
package syncstate

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mtaahfunnels/safewebedit-backend-sub001/internal/ports"
)

const keyPrefix = "slot:last_value:"

// RedisStore implements SyncStateStore on a Redis client.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore wraps an existing client. ttl <= 0 keeps values forever.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

var _ ports.SyncStateStore = (*RedisStore)(nil)

// GetLastValue returns the last synced value for a slot, with found=false
// when the slot has never been synced.
func (s *RedisStore) GetLastValue(ctx context.Context, slotID string) (string, bool, error) {
	val, err := s.client.Get(ctx, keyPrefix+slotID).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read sync state for slot %s: %w", slotID, err)
	}
	return val, true, nil
}

// SetLastValue records the value just written for a slot.
func (s *RedisStore) SetLastValue(ctx context.Context, slotID, value string) error {
	if err := s.client.Set(ctx, keyPrefix+slotID, value, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to record sync state for slot %s: %w", slotID, err)
	}
	return nil
}
