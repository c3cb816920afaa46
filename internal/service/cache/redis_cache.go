package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisBytes is a BytesCache over an existing Redis client. It shares the
// application's connection pool instead of opening its own.
type RedisBytes struct {
	cli *redis.Client
}

func NewRedisBytes(cli *redis.Client) *RedisBytes {
	return &RedisBytes{cli: cli}
}

func (r *RedisBytes) GetBytes(key string) ([]byte, bool, error) {
	b, err := r.cli.Get(context.Background(), key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, false, nil
		}
		return nil, false, err
	}
	return b, true, nil
}

func (r *RedisBytes) SetBytes(key string, value []byte, ttl time.Duration) error {
	return r.cli.Set(context.Background(), key, value, ttl).Err()
}
