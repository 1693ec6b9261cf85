// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// DefaultRedisKey is the hash that holds the session keys.
const DefaultRedisKey = "rigrun-auth:session"

// RedisStore keeps the session keys as fields of one Redis hash. The hash is
// given the session's expiration so Redis drops it on its own as well.
type RedisStore struct {
	rdb *redis.Client
	key string
}

// NewRedisStore connects using a redis:// URL.
func NewRedisStore(url, key string) (*RedisStore, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	return NewRedisStoreWithClient(redis.NewClient(opt), key), nil
}

// NewRedisStoreWithClient wraps an existing client.
func NewRedisStoreWithClient(rdb *redis.Client, key string) *RedisStore {
	if key == "" {
		key = DefaultRedisKey
	}
	return &RedisStore{rdb: rdb, key: key}
}

// Get implements Repository.
func (r *RedisStore) Get(ctx context.Context) (*Session, error) {
	values, err := r.rdb.HGetAll(ctx, r.key).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read session: %w", err)
	}
	return Decode(values)
}

// Set implements Repository.
func (r *RedisStore) Set(ctx context.Context, s Session) error {
	fields := make(map[string]interface{}, len(Keys))
	for k, v := range s.Encode() {
		fields[k] = v
	}

	_, err := r.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, r.key)
		pipe.HSet(ctx, r.key, fields)
		pipe.ExpireAt(ctx, r.key, s.ExpirationDate)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to write session: %w", err)
	}
	return nil
}

// Clear implements Repository.
func (r *RedisStore) Clear(ctx context.Context) error {
	if err := r.rdb.Del(ctx, r.key).Err(); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

// Close implements Repository.
func (r *RedisStore) Close() error {
	return r.rdb.Close()
}
