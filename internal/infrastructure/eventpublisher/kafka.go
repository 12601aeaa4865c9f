package eventpublisher

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"

	"github.com/iho/treasury/internal/domain"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher publishes events to a Kafka topic keyed by aggregate id,
// so events of one aggregate land on one partition in order.
type KafkaPublisher struct {
	writer messageWriter
}

// NewKafkaPublisher creates a synchronous Kafka writer for the topic.
func NewKafkaPublisher(brokers []string, topic string, logger zerolog.Logger) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireAll,
			MaxAttempts:  3,
			BatchTimeout: 10 * time.Millisecond,
			WriteTimeout: 10 * time.Second,
			Logger: kafka.LoggerFunc(func(msg string, args ...interface{}) {
				logger.Debug().Msgf(msg, args...)
			}),
			ErrorLogger: kafka.LoggerFunc(func(msg string, args ...interface{}) {
				logger.Error().Msgf(msg, args...)
			}),
		},
	}
}

// Publish writes the event envelope and waits for the brokers to ack.
func (p *KafkaPublisher) Publish(ctx context.Context, event *domain.OutboxEvent) error {
	data, err := marshalEnvelope(event)
	if err != nil {
		return err
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.AggregateID),
		Value: data,
		Time:  event.CreatedAt,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(event.EventType)},
			{Key: "event_id", Value: []byte(event.ID)},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to publish %s to kafka: %w", event.ID, err)
	}

	return nil
}

// Close flushes and closes the writer.
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
