package geocode

/*
Кэш адресов в Redis. Настройки берутся из раздела geocode.cache конфига:

addr = "localhost:6379"
password = ""
db = 0
ttl_hours = 168
*/

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	log "github.com/sirupsen/logrus"
)

const keyPrefix = "geocode:"

type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCache(ctx context.Context, addr, password string, db int, ttl time.Duration) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("Redis недоступен: %w", err)
	}

	return &RedisCache{client: client, ttl: ttl}, nil
}

func (c *RedisCache) Get(ctx context.Context, key string) (string, bool) {
	address, err := c.client.Get(ctx, keyPrefix+key).Result()
	if err == redis.Nil {
		return "", false
	}
	if err != nil {
		log.WithField("err", err).Warn("Ошибка чтения кэша адресов")
		return "", false
	}
	return address, true
}

func (c *RedisCache) Set(ctx context.Context, key string, address string) {
	if err := c.client.Set(ctx, keyPrefix+key, address, c.ttl).Err(); err != nil {
		log.WithField("err", err).Warn("Ошибка записи в кэш адресов")
	}
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}
