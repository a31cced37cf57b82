package poststore

import (
	"context"
	"errors"
	"strings"

	"github.com/redis/go-redis/v9"
)

var _ StorageInterface = (*RedisStorage)(nil)

type RedisStorageOptions struct {
	Client    *redis.Client
	KeyPrefix string
}

// RedisStorage keeps each slot in a plain Redis string with no expiry.
type RedisStorage struct {
	client    *redis.Client
	keyPrefix string
}

func NewRedisStorage(opts RedisStorageOptions) (*RedisStorage, error) {
	if opts.Client == nil {
		return nil, errors.New("redis storage: Client is required")
	}

	return &RedisStorage{
		client:    opts.Client,
		keyPrefix: opts.KeyPrefix,
	}, nil
}

// NewRedisClient accepts either a redis:// (or rediss://) URL or a bare host:port.
func NewRedisClient(addr string) (*redis.Client, error) {
	if strings.Contains(addr, "://") {
		opts, err := redis.ParseURL(addr)
		if err != nil {
			return nil, err
		}
		return redis.NewClient(opts), nil
	}

	return redis.NewClient(&redis.Options{Addr: addr}), nil
}

func (s *RedisStorage) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := s.client.Get(ctx, s.keyPrefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}

	return value, true, nil
}

func (s *RedisStorage) Set(ctx context.Context, key string, value string) error {
	return s.client.Set(ctx, s.keyPrefix+key, value, 0).Err()
}
