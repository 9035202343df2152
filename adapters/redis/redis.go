// Package redis provides a Redis-backed KeyValueStore, useful when the
// dashboard state is shared across processes or kept in a kiosk setup
// with a central cache host.
package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/okabrera/medbill/core"
)

// Store namespaces every key under a prefix so several users can share
// one Redis database. Entries never expire on the Redis side; snapshot
// freshness is judged by the caller.
type Store struct {
	client *redis.Client
	prefix string
}

var _ core.KeyValueStore = (*Store)(nil)

func New(client *redis.Client, prefix string) *Store {
	if prefix == "" {
		prefix = "medbill"
	}
	return &Store{client: client, prefix: prefix}
}

func (s *Store) key(key string) string {
	return fmt.Sprintf("%s:%s", s.prefix, key)
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := s.client.Get(ctx, s.key(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, core.ErrKeyNotFound
		}
		return nil, fmt.Errorf("redis get %s: %w", key, err)
	}
	return value, nil
}

func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	if err := s.client.Set(ctx, s.key(key), value, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.key(key)).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", key, err)
	}
	return nil
}
