package postgres

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"

	"github.com/iho/treasury/internal/domain"
)

func newTestRetrier() *Retrier {
	r := NewRetrier(zerolog.Nop(), nil)
	r.initialInterval = 1 * time.Millisecond
	r.maxInterval = 2 * time.Millisecond
	r.maxElapsedTime = time.Second
	return r
}

func TestRetrierRetriesOnRetryableError(t *testing.T) {
	r := newTestRetrier()
	r.maxRetries = 2

	attempts := 0
	err := r.Retry(context.Background(), func() error {
		attempts++
		if attempts < 2 {
			return &pgconn.PgError{Code: pgErrDeadlock}
		}
		return nil
	})

	if err != nil {
		t.Fatalf("expected success after retry, got %v", err)
	}
	if attempts != 2 {
		t.Fatalf("expected 2 attempts, got %d", attempts)
	}
}

func TestRetrierStopsOnPermanentError(t *testing.T) {
	r := newTestRetrier()
	attempts := 0
	permanentErr := errors.New("permanent")

	err := r.Retry(context.Background(), func() error {
		attempts++
		return permanentErr
	})

	if !errors.Is(err, permanentErr) {
		t.Fatalf("expected permanent error, got %v", err)
	}
	if errors.Is(err, domain.ErrStoreUnavailable) {
		t.Fatalf("permanent error must not be reported as store unavailable")
	}
	if attempts != 1 {
		t.Fatalf("expected 1 attempt, got %d", attempts)
	}
}

func TestRetrierNeverRetriesDomainErrors(t *testing.T) {
	r := newTestRetrier()
	attempts := 0

	err := r.Retry(context.Background(), func() error {
		attempts++
		return fmt.Errorf("%w: residual 0.01", domain.ErrUnbalancedEntry)
	})

	if !errors.Is(err, domain.ErrUnbalancedEntry) {
		t.Fatalf("expected unbalanced entry, got %v", err)
	}
	if attempts != 1 {
		t.Fatalf("expected 1 attempt, got %d", attempts)
	}
}

func TestRetrierExhaustedBecomesStoreUnavailable(t *testing.T) {
	r := newTestRetrier()
	r.maxRetries = 2
	attempts := 0

	err := r.Retry(context.Background(), func() error {
		attempts++
		return &pgconn.PgError{Code: pgErrSerializationFailure}
	})

	if !errors.Is(err, domain.ErrStoreUnavailable) {
		t.Fatalf("expected store unavailable, got %v", err)
	}
	if domain.KindOf(err) != domain.KindTransient {
		t.Fatalf("expected transient kind, got %v", domain.KindOf(err))
	}
	if attempts != 3 {
		t.Fatalf("expected 3 attempts, got %d", attempts)
	}
}

func TestRetrierRetriesConcurrentModification(t *testing.T) {
	r := newTestRetrier()
	attempts := 0

	err := r.Retry(context.Background(), func() error {
		attempts++
		if attempts == 1 {
			return domain.ErrConcurrentModification
		}
		return nil
	})

	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if attempts != 2 {
		t.Fatalf("expected 2 attempts, got %d", attempts)
	}
}

func TestRetryReason(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		reason string
		want   bool
	}{
		{"deadlock", &pgconn.PgError{Code: pgErrDeadlock}, "deadlock", true},
		{"serialization", &pgconn.PgError{Code: pgErrSerializationFailure}, "serialization_failure", true},
		{"lock timeout", &pgconn.PgError{Code: pgErrLockNotAvailable}, "lock_timeout", true},
		{"wrapped deadlock", fmt.Errorf("post: %w", &pgconn.PgError{Code: pgErrDeadlock}), "deadlock", true},
		{"concurrent modification", domain.ErrConcurrentModification, "concurrent_modification", true},
		{"unique violation", &pgconn.PgError{Code: pgErrUniqueViolation}, "", false},
		{"canceled", context.Canceled, "", false},
		{"generic", errors.New("other"), "", false},
		{"not found", domain.ErrAccountNotFound, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reason, ok := retryReason(tt.err)
			if ok != tt.want || reason != tt.reason {
				t.Errorf("retryReason(%v) = %q, %v, want %q, %v", tt.err, reason, ok, tt.reason, tt.want)
			}
			if got := isRetryable(tt.err); got != tt.want {
				t.Errorf("isRetryable(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}
