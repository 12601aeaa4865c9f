package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/iho/treasury/internal/infrastructure/metrics"
)

// ProcessingMarker is stored under a key while its first request is
// still running.
const ProcessingMarker = "processing"

// IdempotencyStore implements usecase.IdempotencyStore using Redis. It
// caches HTTP responses; the ledger's own idempotency records stay
// authoritative.
type IdempotencyStore struct {
	client  *redis.Client
	prefix  string
	metrics *metrics.Metrics
}

// NewIdempotencyStore creates a new IdempotencyStore. m may be nil.
func NewIdempotencyStore(client *redis.Client, m *metrics.Metrics) *IdempotencyStore {
	return &IdempotencyStore{
		client:  client,
		prefix:  "treasury:idempotency:",
		metrics: m,
	}
}

// CheckAndSet claims key with response, or with ProcessingMarker when
// response is nil. If the key is already held it reports true with the
// stored value.
func (s *IdempotencyStore) CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
	fullKey := s.prefix + key
	s.observe("idempotency_claim")

	value := response
	if value == nil {
		value = []byte(ProcessingMarker)
	}

	set, err := s.client.SetNX(ctx, fullKey, value, ttl).Result()
	if err != nil {
		s.observeError("idempotency_claim")
		return false, nil, err
	}
	if set {
		return false, nil, nil
	}

	existing, err := s.client.Get(ctx, fullKey).Bytes()
	if errors.Is(err, redis.Nil) {
		// Expired or released between the two calls; treat it as held so
		// the caller retries rather than running twice.
		return true, []byte(ProcessingMarker), nil
	}
	if err != nil {
		s.observeError("idempotency_claim")
		return false, nil, err
	}

	return true, existing, nil
}

// Update updates an existing idempotency key with the final response.
func (s *IdempotencyStore) Update(ctx context.Context, key string, response []byte, ttl time.Duration) error {
	s.observe("idempotency_update")

	if err := s.client.Set(ctx, s.prefix+key, response, ttl).Err(); err != nil {
		s.observeError("idempotency_update")
		return err
	}

	return nil
}

// Release drops a key whose request did not succeed so it can be retried.
func (s *IdempotencyStore) Release(ctx context.Context, key string) error {
	s.observe("idempotency_release")

	if err := s.client.Del(ctx, s.prefix+key).Err(); err != nil {
		s.observeError("idempotency_release")
		return err
	}

	return nil
}

func (s *IdempotencyStore) observe(op string) {
	if s.metrics != nil {
		s.metrics.RedisOperations.WithLabelValues(op).Inc()
	}
}

func (s *IdempotencyStore) observeError(op string) {
	if s.metrics != nil {
		s.metrics.RedisErrors.WithLabelValues(op).Inc()
	}
}
