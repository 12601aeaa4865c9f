package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/treasury/internal/domain"
	"github.com/iho/treasury/internal/usecase"
)

const idempotencyColumns = `key, scope, request_hash, result_journal_entry_id, resource_id, created_at, expires_at`

// IdempotencyRepository implements usecase.IdempotencyRepository.
type IdempotencyRepository struct {
	db querier
}

// NewIdempotencyRepository creates a new IdempotencyRepository.
func NewIdempotencyRepository(pool *pgxpool.Pool) *IdempotencyRepository {
	return newIdempotencyRepository(pool)
}

func newIdempotencyRepository(db querier) *IdempotencyRepository {
	return &IdempotencyRepository{db: db}
}

// Get returns the record for key, or nil when none exists.
func (r *IdempotencyRepository) Get(ctx context.Context, key string) (*domain.IdempotencyRecord, error) {
	return getIdempotencyRecord(ctx, r.db, key)
}

// GetTx is Get inside tx, so it sees rows written earlier in tx.
func (r *IdempotencyRepository) GetTx(ctx context.Context, tx usecase.Transaction, key string) (*domain.IdempotencyRecord, error) {
	return getIdempotencyRecord(ctx, pgxTx(tx), key)
}

// Create records a key. A concurrent transaction holding the same key
// blocks this insert until it ends; if it committed, Create returns
// usecase.ErrIdempotencyKeyTaken.
func (r *IdempotencyRepository) Create(ctx context.Context, tx usecase.Transaction, rec *domain.IdempotencyRecord) error {
	_, err := pgxTx(tx).Exec(ctx, `
		INSERT INTO idempotency_records (`+idempotencyColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		rec.Key,
		string(rec.Scope),
		rec.RequestHash,
		rec.ResultJournalEntryID,
		rec.ResourceID,
		timeToPgTimestamptz(rec.CreatedAt),
		timeToPgTimestamptz(rec.ExpiresAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return usecase.ErrIdempotencyKeyTaken
		}
		return fmt.Errorf("failed to insert idempotency record: %w", err)
	}

	return nil
}

// DeleteExpired removes records that expired before the given time.
func (r *IdempotencyRepository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM idempotency_records WHERE expires_at < $1`, timeToPgTimestamptz(before))
	if err != nil {
		return 0, err
	}

	return tag.RowsAffected(), nil
}

func getIdempotencyRecord(ctx context.Context, q querier, key string) (*domain.IdempotencyRecord, error) {
	var (
		rec                  domain.IdempotencyRecord
		scope                string
		createdAt, expiresAt pgtype.Timestamptz
	)

	err := q.QueryRow(ctx, `SELECT `+idempotencyColumns+` FROM idempotency_records WHERE key = $1`, key).Scan(
		&rec.Key,
		&scope,
		&rec.RequestHash,
		&rec.ResultJournalEntryID,
		&rec.ResourceID,
		&createdAt,
		&expiresAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	rec.Scope = domain.IdempotencyScope(scope)
	rec.CreatedAt = createdAt.Time.UTC()
	rec.ExpiresAt = expiresAt.Time.UTC()

	return &rec, nil
}
