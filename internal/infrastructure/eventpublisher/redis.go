package eventpublisher

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/iho/treasury/internal/domain"
)

// RedisPublisher publishes events to a Redis Pub/Sub channel.
type RedisPublisher struct {
	client  *redis.Client
	channel string
}

// NewRedisPublisher creates a new RedisPublisher.
func NewRedisPublisher(client *redis.Client, channel string) *RedisPublisher {
	return &RedisPublisher{client: client, channel: channel}
}

// Publish sends the event envelope to the channel.
func (p *RedisPublisher) Publish(ctx context.Context, event *domain.OutboxEvent) error {
	data, err := marshalEnvelope(event)
	if err != nil {
		return err
	}

	if err := p.client.Publish(ctx, p.channel, data).Err(); err != nil {
		return fmt.Errorf("failed to publish %s to redis: %w", event.ID, err)
	}

	return nil
}
