package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"question-notifier/internal/domain"
)

// RedisNotificationQueue публикует события NotificationDue в Redis list.
type RedisNotificationQueue struct {
	client *redis.Client
	key    string
}

var _ domain.NotificationPublisher = (*RedisNotificationQueue)(nil)

// NewRedisNotificationQueue создаёт очередь по указанному ключу.
func NewRedisNotificationQueue(client *redis.Client, key string) *RedisNotificationQueue {
	return &RedisNotificationQueue{client: client, key: key}
}

// PublishDue кладёт событие в очередь.
func (q *RedisNotificationQueue) PublishDue(ctx context.Context, event domain.NotificationDue) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	if err := q.client.LPush(ctx, q.key, payload).Err(); err != nil {
		return fmt.Errorf("push event: %w", err)
	}
	return nil
}
