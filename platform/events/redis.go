package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dhima/recipe-list-platform/internal/logging"
	rdb "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisPublisher broadcasts recipe events on a Redis pub/sub channel.
type RedisPublisher struct {
	client  *rdb.Client
	channel string
	logger  logging.Logger
}

// NewRedisPublisher connects lazily to addr; no traffic happens until the
// first Publish.
func NewRedisPublisher(addr, channel string, logger logging.Logger) *RedisPublisher {
	return NewRedisPublisherWithClient(rdb.NewClient(&rdb.Options{Addr: addr}), channel, logger)
}

// NewRedisPublisherWithClient uses an existing client.
func NewRedisPublisherWithClient(client *rdb.Client, channel string, logger logging.Logger) *RedisPublisher {
	if logger == nil {
		logger = logging.NewNoOpLogger()
	}
	return &RedisPublisher{
		client:  client,
		channel: channel,
		logger:  logger.With(zap.String("sink", "redis"), zap.String("channel", channel)),
	}
}

// Channel returns the pub/sub channel events are sent to.
func (p *RedisPublisher) Channel() string { return p.channel }

// Publish encodes payload as JSON and sends it to the channel. Redis has no
// message keys, so key only shows up in logs.
func (p *RedisPublisher) Publish(ctx context.Context, key string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	receivers, err := p.client.Publish(ctx, p.channel, body).Result()
	if err != nil {
		p.logger.Error("failed to publish event to redis",
			zap.String("key", key),
			zap.Error(err))
		return fmt.Errorf("redis publish: %w", err)
	}

	p.logger.Debug("event published to redis",
		zap.String("key", key),
		zap.Int64("receivers", receivers))
	return nil
}

// Close releases the client's connections.
func (p *RedisPublisher) Close() error {
	return p.client.Close()
}
