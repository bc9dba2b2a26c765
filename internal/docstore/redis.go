// SPDX-License-Identifier: MIT

package docstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	gilog "github.com/chrootRISCassembler/GameInfo/internal/log"
	"github.com/redis/go-redis/v9"
)

// RedisStore keeps each document under the key <prefix><location>.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore connects to Redis and verifies the connection.
func NewRedisStore(ctx context.Context, cfg RedisConfig) (*RedisStore, error) {
	if cfg.Addr == "" {
		return nil, fmt.Errorf("redis store: empty address")
	}
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}

	logger := gilog.WithComponent("docstore")
	logger.Info().
		Str("addr", cfg.Addr).
		Int("db", cfg.DB).
		Msg("connected to Redis document store")

	return &RedisStore{client: client, prefix: cfg.Prefix}, nil
}

func (s *RedisStore) key(location string) string { return s.prefix + location }

func (s *RedisStore) ReadText(ctx context.Context, location string) ([]byte, error) {
	val, err := s.client.Get(ctx, s.key(location)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, location)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", location, err)
	}
	return val, nil
}

func (s *RedisStore) WriteText(ctx context.Context, location string, data []byte) error {
	if location == "" {
		return fmt.Errorf("empty location")
	}
	if err := s.client.Set(ctx, s.key(location), data, 0).Err(); err != nil {
		return fmt.Errorf("write %s: %w", location, err)
	}
	return nil
}

func (s *RedisStore) Close() error { return s.client.Close() }
