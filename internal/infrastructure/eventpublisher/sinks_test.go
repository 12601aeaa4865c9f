package eventpublisher

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"

	"github.com/iho/treasury/internal/domain"
)

func testEvent() *domain.OutboxEvent {
	return &domain.OutboxEvent{
		ID:            "evt-7",
		AggregateID:   "batch-1",
		AggregateType: domain.AggregateTypeBatch,
		EventType:     domain.EventTypeBatchPosted,
		Payload:       map[string]any{"total": "150.00"},
		CreatedAt:     time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
	}
}

func TestRedisPublisher(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	sub := client.Subscribe(ctx, "treasury.events")
	defer sub.Close()
	if _, err := sub.Receive(ctx); err != nil {
		t.Fatalf("subscribe failed: %v", err)
	}

	if err := NewRedisPublisher(client, "treasury.events").Publish(ctx, testEvent()); err != nil {
		t.Fatalf("publish failed: %v", err)
	}

	select {
	case msg := <-sub.Channel():
		var env Envelope
		if err := json.Unmarshal([]byte(msg.Payload), &env); err != nil {
			t.Fatalf("bad envelope: %v", err)
		}
		if env.ID != "evt-7" || env.Type != domain.EventTypeBatchPosted || env.Payload["total"] != "150.00" {
			t.Fatalf("unexpected envelope: %+v", env)
		}
	case <-ctx.Done():
		t.Fatal("no message received")
	}
}

func TestRedisPublisherServerDown(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()
	mr.Close()

	if err := NewRedisPublisher(client, "treasury.events").Publish(context.Background(), testEvent()); err == nil {
		t.Fatalf("expected publish error")
	}
}

type stubWriter struct {
	msgs []kafka.Message
	err  error
}

func (w *stubWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *stubWriter) Close() error { return nil }

func TestKafkaPublisher(t *testing.T) {
	w := &stubWriter{}
	pub := &KafkaPublisher{writer: w}

	if err := pub.Publish(context.Background(), testEvent()); err != nil {
		t.Fatalf("publish failed: %v", err)
	}

	if len(w.msgs) != 1 {
		t.Fatalf("expected one message, got %d", len(w.msgs))
	}
	msg := w.msgs[0]
	if string(msg.Key) != "batch-1" {
		t.Fatalf("expected aggregate id key, got %s", msg.Key)
	}
	if len(msg.Headers) != 2 || string(msg.Headers[0].Value) != domain.EventTypeBatchPosted {
		t.Fatalf("unexpected headers: %+v", msg.Headers)
	}

	var env Envelope
	if err := json.Unmarshal(msg.Value, &env); err != nil || env.AggregateID != "batch-1" {
		t.Fatalf("unexpected value: %s (%v)", msg.Value, err)
	}
}

func TestKafkaPublisherError(t *testing.T) {
	brokerErr := errors.New("leader not available")
	pub := &KafkaPublisher{writer: &stubWriter{err: brokerErr}}

	if err := pub.Publish(context.Background(), testEvent()); !errors.Is(err, brokerErr) {
		t.Fatalf("expected broker error, got %v", err)
	}
}
