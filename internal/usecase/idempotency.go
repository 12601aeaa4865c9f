package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/iho/treasury/internal/domain"
	"github.com/iho/treasury/internal/infrastructure/metrics"
)

// idempotencyRequest describes the key a money-affecting call consumes.
type idempotencyRequest struct {
	Key        string
	Scope      domain.IdempotencyScope
	Hash       string
	ResourceID string
}

func (r *idempotencyRequest) enabled() bool {
	return r != nil && r.Key != ""
}

// IdempotencyGuard deduplicates money-affecting requests. Records are
// looked up and written inside the business transaction, so concurrent
// retries under one key observe a single winner.
type IdempotencyGuard struct {
	repo      IdempotencyRepository
	retention time.Duration
	metrics   *metrics.Metrics
}

// NewIdempotencyGuard creates a new IdempotencyGuard.
func NewIdempotencyGuard(repo IdempotencyRepository, retention time.Duration, m *metrics.Metrics) *IdempotencyGuard {
	if retention <= 0 {
		retention = DefaultIdempotencyRetention
	}
	return &IdempotencyGuard{
		repo:      repo,
		retention: retention,
		metrics:   m,
	}
}

// lookup returns the outcome already recorded for the key, or nil.
func (g *IdempotencyGuard) lookup(ctx context.Context, tx Transaction, req *idempotencyRequest) (*domain.IdempotencyRecord, error) {
	rec, err := g.repo.GetTx(ctx, tx, req.Key)
	if err != nil || rec == nil {
		return nil, err
	}
	return g.check(rec, req)
}

// resolve reads the committed outcome after losing a race on the key.
func (g *IdempotencyGuard) resolve(ctx context.Context, req *idempotencyRequest) (*domain.IdempotencyRecord, error) {
	rec, err := g.settled(ctx, req)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, fmt.Errorf("%w: key %q", domain.ErrIdempotencyKeyInFlight, req.Key)
	}
	return rec, nil
}

// settled reads the committed record for the key outside the caller's
// transaction. It returns nil when no request under the key has committed.
func (g *IdempotencyGuard) settled(ctx context.Context, req *idempotencyRequest) (*domain.IdempotencyRecord, error) {
	rec, err := g.repo.Get(ctx, req.Key)
	if err != nil || rec == nil {
		return nil, err
	}
	return g.check(rec, req)
}

func (g *IdempotencyGuard) check(rec *domain.IdempotencyRecord, req *idempotencyRequest) (*domain.IdempotencyRecord, error) {
	if !rec.Matches(req.Scope, req.Hash) {
		return nil, fmt.Errorf("%w: key %q was used for %s", domain.ErrIdempotencyKeyReused, req.Key, rec.Scope)
	}

	if g.metrics != nil {
		g.metrics.IdempotentReplays.WithLabelValues(string(req.Scope)).Inc()
	}

	return rec, nil
}

// claim records the key with the entry it will produce. It must run in the
// same transaction as the effect.
func (g *IdempotencyGuard) claim(ctx context.Context, tx Transaction, req *idempotencyRequest, journalEntryID string, now time.Time) error {
	return g.repo.Create(ctx, tx, &domain.IdempotencyRecord{
		Key:                  req.Key,
		Scope:                req.Scope,
		RequestHash:          req.Hash,
		ResultJournalEntryID: journalEntryID,
		ResourceID:           req.ResourceID,
		CreatedAt:            now,
		ExpiresAt:            now.Add(g.retention),
	})
}

// PurgeExpired deletes records whose retention ended before now.
func (g *IdempotencyGuard) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	n, err := g.repo.DeleteExpired(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("failed to purge idempotency records: %w", err)
	}
	if g.metrics != nil {
		g.metrics.IdempotencyPurged.Add(float64(n))
	}
	return n, nil
}
