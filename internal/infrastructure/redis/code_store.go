// Package redis keeps password reset codes in Redis with a TTL.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"ledger/internal/shared/apperr"
	"ledger/internal/shared/config"
)

const keyPrefix = "ledger:reset-code:"

type CodeStore struct {
	rdb *goredis.Client
}

// NewClient connects and pings the configured server.
func NewClient(cfg config.RedisConfig) (*goredis.Client, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        cfg.Addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return rdb, nil
}

func NewCodeStore(rdb *goredis.Client) *CodeStore {
	return &CodeStore{rdb: rdb}
}

func codeKey(phone string) string {
	return keyPrefix + phone
}

func (s *CodeStore) Save(ctx context.Context, phone, code string, ttl time.Duration) error {
	if err := s.rdb.Set(ctx, codeKey(phone), code, ttl).Err(); err != nil {
		return fmt.Errorf("redis set reset code: %w", err)
	}
	return nil
}

func (s *CodeStore) Get(ctx context.Context, phone string) (string, error) {
	code, err := s.rdb.Get(ctx, codeKey(phone)).Result()
	if errors.Is(err, goredis.Nil) {
		return "", apperr.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("redis get reset code: %w", err)
	}
	return code, nil
}

func (s *CodeStore) Delete(ctx context.Context, phone string) error {
	if err := s.rdb.Del(ctx, codeKey(phone)).Err(); err != nil {
		return fmt.Errorf("redis delete reset code: %w", err)
	}
	return nil
}
