package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dhima/recipe-list-platform/internal/logging"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// Publisher writes recipe events to a Kafka topic.
type Publisher struct {
	writer *kafka.Writer
	logger logging.Logger
}

// NewPublisher builds a publisher for topic on the given brokers. Messages
// with the same key land on the same partition.
func NewPublisher(brokers []string, topic string, logger logging.Logger) *Publisher {
	if logger == nil {
		logger = logging.NewNoOpLogger()
	}
	return &Publisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireAll,
			MaxAttempts:  3,
			WriteTimeout: 10 * time.Second,
		},
		logger: logger.With(zap.String("sink", "kafka"), zap.String("topic", topic)),
	}
}

// Publish encodes payload as JSON and writes it under key.
func (p *Publisher) Publish(ctx context.Context, key string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(key),
		Value: body,
		Time:  time.Now().UTC(),
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Error("failed to write event to kafka",
			zap.String("key", key),
			zap.Error(err))
		return fmt.Errorf("write kafka message: %w", err)
	}

	p.logger.Debug("event written to kafka", zap.String("key", key), zap.Int("bytes", len(body)))
	return nil
}

// Close flushes pending writes and releases the writer.
func (p *Publisher) Close() error {
	return p.writer.Close()
}
