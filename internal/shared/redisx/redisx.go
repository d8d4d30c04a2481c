package redisx

import (
	"context"
	"log"

	"github.com/redis/go-redis/v9"

	"newsfeed-service/configs"
)

func Open(cfg *configs.Config) *redis.Client {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr(),
		Password: cfg.RedisPass,
	})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		log.Printf("redis ping failed (continuing, cache degrades to misses): %v", err)
	}
	return rdb
}
