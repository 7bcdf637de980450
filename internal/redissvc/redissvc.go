// Package redissvc holds the Redis client shared by the abuse protection
// layer.
package redissvc

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

type RedisService struct {
	rdb *redis.Client
	ctx context.Context
}

func NewRedisService(rdb *redis.Client, ctx context.Context) *RedisService {
	return &RedisService{
		rdb: rdb,
		ctx: ctx,
	}
}

// Dial creates a client for addr. The connection is lazy; use Ping to check it.
func Dial(ctx context.Context, addr string) *RedisService {
	return NewRedisService(redis.NewClient(&redis.Options{
		Addr:        addr,
		DialTimeout: 3 * time.Second,
	}), ctx)
}

func (a *RedisService) Rdb() *redis.Client {
	return a.rdb
}

func (a *RedisService) Ctx() context.Context {
	return a.ctx
}

func (a *RedisService) Ping() error {
	ctx, cancel := context.WithTimeout(a.ctx, 3*time.Second)
	defer cancel()
	return a.rdb.Ping(ctx).Err()
}

func (a *RedisService) Close() error {
	return a.rdb.Close()
}
