package storage

import (
	"context"
	"errors"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/redis/go-redis/v9"
)

// Redis stores values as strings in a Redis compatible key-value service.
// The connection is opened on first use and kept for the life of the process.
type Redis struct {
	url    string
	prefix string

	mu     sync.Mutex
	client *redis.Client
}

// RedisOption configures Redis
type RedisOption func(*Redis)

// WithRedisKeyPrefix namespaces all keys
func WithRedisKeyPrefix(prefix string) RedisOption {
	return func(x *Redis) {
		x.prefix = prefix
	}
}

// NewRedis creates a Redis backend for a redis:// or rediss:// URL
func NewRedis(url string, opts ...RedisOption) (*Redis, error) {
	if url == "" {
		return nil, goerr.New("Redis URL is empty")
	}
	if _, err := redis.ParseURL(url); err != nil {
		return nil, goerr.Wrap(err, "invalid Redis URL")
	}

	x := &Redis{url: url}
	for _, opt := range opts {
		opt(x)
	}
	return x, nil
}

func (x *Redis) connect(ctx context.Context) (*redis.Client, error) {
	x.mu.Lock()
	defer x.mu.Unlock()

	if x.client != nil {
		return x.client, nil
	}

	opts, err := redis.ParseURL(x.url)
	if err != nil {
		return nil, goerr.Wrap(err, "invalid Redis URL")
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, goerr.Wrap(err, "failed to connect to Redis", goerr.V("addr", opts.Addr))
	}

	x.client = client
	return client, nil
}

func (x *Redis) Get(ctx context.Context, key string) ([]byte, error) {
	client, err := x.connect(ctx)
	if err != nil {
		return nil, err
	}

	data, err := client.Get(ctx, x.prefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, goerr.Wrap(err, "failed to get value from Redis", goerr.V("key", x.prefix+key))
	}
	return data, nil
}

func (x *Redis) Put(ctx context.Context, key string, value []byte) error {
	client, err := x.connect(ctx)
	if err != nil {
		return err
	}

	if err := client.Set(ctx, x.prefix+key, value, 0).Err(); err != nil {
		return goerr.Wrap(err, "failed to set value in Redis", goerr.V("key", x.prefix+key))
	}
	return nil
}

// Close closes the connection if it was opened
func (x *Redis) Close() error {
	x.mu.Lock()
	defer x.mu.Unlock()

	if x.client == nil {
		return nil
	}
	err := x.client.Close()
	x.client = nil
	return err
}
