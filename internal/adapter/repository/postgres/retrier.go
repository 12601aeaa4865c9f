package postgres

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"

	"github.com/iho/treasury/internal/domain"
	"github.com/iho/treasury/internal/infrastructure/metrics"
)

// PostgreSQL error codes for retryable errors.
const (
	pgErrDeadlock             = "40P01"
	pgErrSerializationFailure = "40001"
	pgErrLockNotAvailable     = "55P03"
	pgErrAdminShutdown        = "57P01"
	pgErrCannotConnectNow     = "57P03"
)

// Retrier implements usecase.Retrier with exponential backoff.
type Retrier struct {
	maxRetries      int
	initialInterval time.Duration
	maxInterval     time.Duration
	maxElapsedTime  time.Duration
	logger          zerolog.Logger
	metrics         *metrics.Metrics
}

// NewRetrier creates a new PostgreSQL retrier with default settings.
func NewRetrier(logger zerolog.Logger, m *metrics.Metrics) *Retrier {
	return &Retrier{
		maxRetries:      3,
		initialInterval: 50 * time.Millisecond,
		maxInterval:     1 * time.Second,
		maxElapsedTime:  10 * time.Second,
		logger:          logger,
		metrics:         m,
	}
}

// Retry executes an operation with exponential backoff on retryable errors.
// When retries run out the last error is wrapped in
// domain.ErrStoreUnavailable.
func (r *Retrier) Retry(ctx context.Context, operation func() error) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = r.initialInterval
	b.MaxInterval = r.maxInterval
	b.MaxElapsedTime = r.maxElapsedTime

	retryCount := 0
	exhausted := false

	err := backoff.Retry(func() error {
		err := operation()
		if err == nil {
			return nil
		}

		reason, ok := retryReason(err)
		if !ok {
			return backoff.Permanent(err)
		}

		retryCount++
		if retryCount > r.maxRetries {
			exhausted = true
			return backoff.Permanent(err)
		}

		if r.metrics != nil {
			r.metrics.StoreRetries.WithLabelValues(reason).Inc()
		}
		r.logger.Warn().
			Err(err).
			Str("reason", reason).
			Int("retry", retryCount).
			Msg("retryable database error, retrying")

		return err
	}, backoff.WithContext(b, ctx))

	if err != nil && (exhausted || isRetryable(err)) && !errors.Is(err, domain.ErrStoreUnavailable) {
		return fmt.Errorf("%w: %w", domain.ErrStoreUnavailable, err)
	}
	return err
}

// isRetryable reports whether err should trigger a retry. An error that is
// still retryable after backoff gave up on elapsed time is reported as
// unavailable.
func isRetryable(err error) bool {
	_, ok := retryReason(err)
	return ok
}

// retryReason classifies err and returns a metrics label for it.
func retryReason(err error) (string, bool) {
	switch pgErrorCode(err) {
	case pgErrDeadlock:
		return "deadlock", true
	case pgErrSerializationFailure:
		return "serialization_failure", true
	case pgErrLockNotAvailable:
		return "lock_timeout", true
	case pgErrAdminShutdown, pgErrCannotConnectNow:
		return "server_unavailable", true
	}

	if errors.Is(err, domain.ErrConcurrentModification) {
		return "concurrent_modification", true
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return "", false
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return "connection", true
	}
	if pgconn.SafeToRetry(err) {
		return "connection", true
	}

	return "", false
}
