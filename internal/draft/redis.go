package draft

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisOpTimeout = 2 * time.Second

// RedisStore keeps a session's draft in one Redis hash. Every write
// refreshes the hash TTL, so the draft expires only after the session has
// been idle for the whole TTL.
type RedisStore struct {
	client  *redis.Client
	session string
	prefix  string
	ttl     time.Duration
}

func NewRedisStore(client *redis.Client, session string, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, session: session, prefix: "tasknest:draft", ttl: ttl}
}

// DialRedis connects and pings, mirroring how the cache layer validates
// its client before use.
func DialRedis(addr string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis %s: %w", addr, err)
	}
	return client, nil
}

func (r *RedisStore) hashKey() string {
	return r.prefix + ":" + r.session
}

func (r *RedisStore) Load(key string) (string, bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()
	v, err := r.client.HGet(ctx, r.hashKey(), key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

func (r *RedisStore) Save(key, value string) error {
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, r.hashKey(), key, value)
		if r.ttl > 0 {
			pipe.Expire(ctx, r.hashKey(), r.ttl)
		}
		return nil
	})
	return err
}

func (r *RedisStore) Remove(keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()
	return r.client.HDel(ctx, r.hashKey(), keys...).Err()
}
