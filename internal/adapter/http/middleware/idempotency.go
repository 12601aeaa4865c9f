package middleware

import (
	"bytes"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/treasury/internal/adapter/repository/redis"
	"github.com/iho/treasury/internal/domain"
	"github.com/iho/treasury/internal/infrastructure/metrics"
	"github.com/iho/treasury/internal/usecase"
)

const (
	// IdempotencyKeyHeader is the header name for idempotency keys.
	IdempotencyKeyHeader = "Idempotency-Key"
	// ReplayHeader marks a response served from the cache.
	ReplayHeader = "X-Idempotency-Replay"
)

// IdempotencyMiddleware caches the first successful response per path and
// key. The ledger's idempotency records stay authoritative; when the cache
// is unreachable the request goes through to them.
type IdempotencyMiddleware struct {
	store   usecase.IdempotencyStore
	ttl     time.Duration
	metrics *metrics.Metrics
}

// NewIdempotencyMiddleware creates a new IdempotencyMiddleware. m may be nil.
func NewIdempotencyMiddleware(store usecase.IdempotencyStore, ttl time.Duration, m *metrics.Metrics) *IdempotencyMiddleware {
	return &IdempotencyMiddleware{store: store, ttl: ttl, metrics: m}
}

// Wrap wraps an http.Handler with idempotency checking.
func (m *IdempotencyMiddleware) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost && r.Method != http.MethodPut {
			next.ServeHTTP(w, r)
			return
		}

		key := r.Header.Get(IdempotencyKeyHeader)
		if key == "" {
			next.ServeHTTP(w, r)
			return
		}

		ctx := r.Context()
		cacheKey := r.URL.Path + ":" + key

		exists, cached, err := m.store.CheckAndSet(ctx, cacheKey, nil, m.ttl)
		if err != nil {
			zerolog.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("idempotency cache unavailable")
			next.ServeHTTP(w, r)
			return
		}

		if exists {
			if string(cached) == redis.ProcessingMarker {
				writeError(w, http.StatusConflict, domain.ErrIdempotencyKeyInFlight)
				return
			}

			if m.metrics != nil {
				m.metrics.IdempotentReplays.WithLabelValues("http").Inc()
			}
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set(ReplayHeader, "true")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write(cached)
			return
		}

		rec := &responseRecorder{
			ResponseWriter: w,
			body:           &bytes.Buffer{},
			statusCode:     http.StatusOK,
		}
		next.ServeHTTP(rec, r)

		if rec.statusCode >= 200 && rec.statusCode < 300 {
			if err := m.store.Update(ctx, cacheKey, rec.body.Bytes(), m.ttl); err != nil {
				zerolog.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("caching idempotent response")
			}
			return
		}

		if err := m.store.Release(ctx, cacheKey); err != nil {
			zerolog.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("releasing idempotency key")
		}
	})
}

type responseRecorder struct {
	http.ResponseWriter
	statusCode int
	body       *bytes.Buffer
}

func (r *responseRecorder) Write(b []byte) (int, error) {
	r.body.Write(b)
	return r.ResponseWriter.Write(b)
}

func (r *responseRecorder) WriteHeader(statusCode int) {
	r.statusCode = statusCode
	r.ResponseWriter.WriteHeader(statusCode)
}
