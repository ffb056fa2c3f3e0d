package storage

import (
	"context"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

func OpenRedis(ctx context.Context, c RedisConfig) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{Addr: c.Addr, Password: c.Password, DB: c.DB})
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, errors.Wrap(err, "redis ping")
	}
	return rdb, nil
}

// RedisPresence mirrors the online flag in redis for fast lookups by other
// services. Best effort: the mongo user document stays authoritative.
//
// presence key: im:presence:<user>, value: unix ms of the online edge,
// TTL guards against a crashed gateway leaving users online forever.
type RedisPresence struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisPresence(rdb *redis.Client, ttl time.Duration) *RedisPresence {
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &RedisPresence{rdb: rdb, ttl: ttl}
}

func presenceKey(user string) string { return "im:presence:" + user }

func (p *RedisPresence) Online(ctx context.Context, user string) error {
	ts := strconv.FormatInt(time.Now().UnixMilli(), 10)
	return p.rdb.Set(ctx, presenceKey(user), ts, p.ttl).Err()
}

func (p *RedisPresence) Offline(ctx context.Context, user string) error {
	return p.rdb.Del(ctx, presenceKey(user)).Err()
}

// Lookup reports whether the mirror currently marks the user online.
func (p *RedisPresence) Lookup(ctx context.Context, user string) (bool, error) {
	_, err := p.rdb.Get(ctx, presenceKey(user)).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
