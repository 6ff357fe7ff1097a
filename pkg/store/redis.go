package store

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/matzehuels/kruskalviz/pkg/cache"
	"github.com/matzehuels/kruskalviz/pkg/errors"
	"github.com/matzehuels/kruskalviz/pkg/graph"
)

// DefaultRedisPrefix namespaces graph keys.
const DefaultRedisPrefix = "kruskalviz:"

// RedisConfig configures a RedisStore.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	// Prefix is prepended to "graph:<name>". Defaults to DefaultRedisPrefix.
	Prefix string
}

// RedisStore keeps each graph as a JSON string under <prefix>graph:<name>.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore connects to Redis, retrying the initial ping with backoff.
func NewRedisStore(ctx context.Context, cfg RedisConfig) (*RedisStore, error) {
	if cfg.Addr == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "redis address is required")
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	err := cache.RetryWithBackoff(ctx, func() error {
		if err := client.Ping(ctx).Err(); err != nil {
			return cache.Retryable(fmt.Errorf("%w: %v", cache.ErrUnavailable, err))
		}
		return nil
	})
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("connect redis %s: %w", cfg.Addr, err)
	}
	return newRedisStore(client, cfg.Prefix), nil
}

func newRedisStore(client *redis.Client, prefix string) *RedisStore {
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}
	return &RedisStore{client: client, prefix: prefix}
}

func (s *RedisStore) key(name string) string {
	return s.prefix + "graph:" + name
}

func (s *RedisStore) Save(ctx context.Context, name string, g graph.Graph) (err error) {
	start := time.Now()
	defer func() { observeSave(ctx, BackendRedis, name, start, err) }()

	if err := checkGraph(name, g); err != nil {
		return err
	}
	data, err := graph.Marshal(g, graph.WriteOptions{Format: graph.FormatJSON})
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, s.key(name), data, 0).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (s *RedisStore) Load(ctx context.Context, name string) (g graph.Graph, err error) {
	start := time.Now()
	defer func() { observeLoad(ctx, BackendRedis, name, start, err) }()

	if err := errors.ValidateName(name); err != nil {
		return graph.Graph{}, err
	}
	data, err := s.client.Get(ctx, s.key(name)).Bytes()
	if stderrors.Is(err, redis.Nil) {
		return graph.Graph{}, notFound(name)
	}
	if err != nil {
		return graph.Graph{}, fmt.Errorf("redis get: %w", err)
	}
	return graph.Read(bytes.NewReader(data))
}

func (s *RedisStore) List(ctx context.Context) ([]string, error) {
	pattern := s.key("*")
	var names []string
	iter := s.client.Scan(ctx, 0, pattern, 100).Iterator()
	for iter.Next(ctx) {
		names = append(names, strings.TrimPrefix(iter.Val(), s.key("")))
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("redis scan: %w", err)
	}
	slices.Sort(names)
	return slices.Compact(names), nil
}

func (s *RedisStore) Delete(ctx context.Context, name string) error {
	if err := errors.ValidateName(name); err != nil {
		return err
	}
	n, err := s.client.Del(ctx, s.key(name)).Result()
	if err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	if n == 0 {
		return notFound(name)
	}
	return nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

var _ Store = (*RedisStore)(nil)
