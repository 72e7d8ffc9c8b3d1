package cache

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"question-notifier/internal/domain"
	"question-notifier/internal/infra/metrics"
)

const dayIndexTTL = 48 * time.Hour

// RedisCache реализует блокировку тика и хранение вопроса дня через Redis.
type RedisCache struct {
	client *redis.Client
	prefix string
}

var (
	_ domain.TickLock           = (*RedisCache)(nil)
	_ domain.QuestionStateStore = (*RedisCache)(nil)
)

// NewRedis создаёт кэш. Все ключи получают общий префикс.
func NewRedis(client *redis.Client, prefix string) *RedisCache {
	return &RedisCache{client: client, prefix: prefix}
}

func (c *RedisCache) key(k string) string {
	if c.prefix == "" {
		return k
	}
	return c.prefix + ":" + k
}

// TryLock ставит ключ, если он ещё не задан.
func (c *RedisCache) TryLock(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	start := time.Now()
	ok, err := c.client.SetNX(ctx, c.key(key), "1", ttl).Result()
	metrics.ObserveNetworkRequest("redis", "setnx", "tick_lock", start, err)
	return ok, err
}

// Unlock снимает блокировку.
func (c *RedisCache) Unlock(ctx context.Context, key string) error {
	start := time.Now()
	err := c.client.Del(ctx, c.key(key)).Err()
	metrics.ObserveNetworkRequest("redis", "del", "tick_lock", start, err)
	return err
}

// LoadDayIndex возвращает сохранённый индекс вопроса за день.
func (c *RedisCache) LoadDayIndex(ctx context.Context, day string) (int, bool, error) {
	start := time.Now()
	raw, err := c.client.Get(ctx, c.key("question:day:"+day)).Result()
	if errors.Is(err, redis.Nil) {
		metrics.ObserveNetworkRequest("redis", "get", "question_day", start, nil)
		return 0, false, nil
	}
	metrics.ObserveNetworkRequest("redis", "get", "question_day", start, err)
	if err != nil {
		return 0, false, err
	}
	idx, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false, err
	}
	return idx, true, nil
}

// SaveDayIndex сохраняет индекс вопроса за день.
func (c *RedisCache) SaveDayIndex(ctx context.Context, day string, index int) error {
	start := time.Now()
	err := c.client.Set(ctx, c.key("question:day:"+day), strconv.Itoa(index), dayIndexTTL).Err()
	metrics.ObserveNetworkRequest("redis", "set", "question_day", start, err)
	return err
}

// Connect создаёт клиента Redis и проверяет соединение.
func Connect(ctx context.Context, addr string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}
