package main

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/iho/treasury/internal/adapter/http/middleware"
	"github.com/iho/treasury/internal/infrastructure/config"
	"github.com/iho/treasury/internal/infrastructure/eventpublisher"
)

// newSink builds the outbox sink named by EVENT_PUBLISHER. It returns a
// nil sink for "none"; close is always safe to call.
func newSink(cfg *config.Config, logger zerolog.Logger, client *goredis.Client) (eventpublisher.Publisher, func() error, error) {
	noop := func() error { return nil }

	switch cfg.EventPublisher {
	case config.PublisherNone:
		return nil, noop, nil
	case config.PublisherLog:
		return eventpublisher.NewLogPublisher(logger), noop, nil
	case config.PublisherRedis:
		return eventpublisher.NewRedisPublisher(client, cfg.EventRedisChannel), noop, nil
	case config.PublisherKafka:
		p := eventpublisher.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic, logger)
		return p, p.Close, nil
	default:
		return nil, noop, fmt.Errorf("unknown event publisher %q", cfg.EventPublisher)
	}
}

type expiredPurger interface {
	PurgeExpired(ctx context.Context, now time.Time) (int64, error)
}

// runIdempotencyPurger deletes expired idempotency records every interval
// until ctx is done.
func runIdempotencyPurger(ctx context.Context, p expiredPurger, interval time.Duration, logger zerolog.Logger) error {
	logger = logger.With().Str("component", "idempotency_purger").Logger()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			n, err := p.PurgeExpired(ctx, time.Now().UTC())
			if err != nil {
				logger.Error().Err(err).Msg("failed to purge idempotency records")
				continue
			}
			if n > 0 {
				logger.Info().Int64("purged", n).Msg("expired idempotency records purged")
			}
		}
	}
}

func runLimiterCleanup(ctx context.Context, rl *middleware.RateLimiter, maxIdle time.Duration) error {
	ticker := time.NewTicker(maxIdle)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			rl.CleanupLimiters(maxIdle)
		}
	}
}
