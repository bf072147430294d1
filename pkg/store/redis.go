package store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/CTAG07/typechain/pkg/markov"
	"github.com/redis/go-redis/v9"
)

const (
	redisKeyPrefix = "typechain:chain:"
	redisNamesSet  = "typechain:chains"
)

// RedisStore keeps each chain as a JSON document under its own key, plus a
// set of all stored names.
type RedisStore struct {
	client *redis.Client
	logger *slog.Logger
}

// NewRedisStore returns a store using client. Closing the store closes client.
func NewRedisStore(client *redis.Client, logger *slog.Logger) *RedisStore {
	return &RedisStore{client: client, logger: orDiscard(logger)}
}

func (s *RedisStore) makeKey(name string) string {
	return redisKeyPrefix + name
}

// Save writes the chain document and records its name in one transaction.
func (s *RedisStore) Save(ctx context.Context, name string, c *markov.Chain) error {
	if err := checkName(name); err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := c.Export(&buf); err != nil {
		return fmt.Errorf("failed to encode chain %q: %w", name, err)
	}

	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, s.makeKey(name), buf.Bytes(), 0)
		pipe.SAdd(ctx, redisNamesSet, name)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save chain %q: %w", name, err)
	}

	s.logger.InfoContext(ctx, "Chain saved",
		slog.String("store", "redis"),
		slog.String("name", name),
		slog.Int("bytes", buf.Len()),
	)
	return nil
}

// Load reads the chain document stored under name.
func (s *RedisStore) Load(ctx context.Context, name string) (*markov.Chain, error) {
	if err := checkName(name); err != nil {
		return nil, err
	}
	data, err := s.client.Get(ctx, s.makeKey(name)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
		}
		return nil, fmt.Errorf("failed to load chain %q: %w", name, err)
	}
	c, err := markov.ImportChain(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to read chain %q: %w", name, err)
	}
	return c, nil
}

// List returns the members of the name set.
func (s *RedisStore) List(ctx context.Context) ([]string, error) {
	names, err := s.client.SMembers(ctx, redisNamesSet).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list chains: %w", err)
	}
	sort.Strings(names)
	return names, nil
}

// Delete removes the chain document and its name.
func (s *RedisStore) Delete(ctx context.Context, name string) error {
	if err := checkName(name); err != nil {
		return err
	}
	removed, err := s.client.Del(ctx, s.makeKey(name)).Result()
	if err != nil {
		return fmt.Errorf("failed to delete chain %q: %w", name, err)
	}
	if err = s.client.SRem(ctx, redisNamesSet, name).Err(); err != nil {
		return fmt.Errorf("failed to forget chain %q: %w", name, err)
	}
	if removed == 0 {
		return fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return nil
}

// Close closes the Redis client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
