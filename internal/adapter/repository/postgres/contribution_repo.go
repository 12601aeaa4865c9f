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

const batchColumns = `id, occurrence_ref, status, posted_journal_entry_id, posted_at, created_by, version, created_at, updated_at`

// ContributionRepository implements usecase.ContributionRepository.
type ContributionRepository struct {
	db querier
}

// NewContributionRepository creates a new ContributionRepository.
func NewContributionRepository(pool *pgxpool.Pool) *ContributionRepository {
	return newContributionRepository(pool)
}

func newContributionRepository(db querier) *ContributionRepository {
	return &ContributionRepository{db: db}
}

// Create inserts a batch with its entries.
func (r *ContributionRepository) Create(ctx context.Context, tx usecase.Transaction, batch *domain.ContributionBatch) error {
	q := pgxTx(tx)

	_, err := q.Exec(ctx, `
		INSERT INTO contribution_batches (`+batchColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		batch.ID,
		batch.OccurrenceRef,
		string(batch.Status),
		batch.PostedJournalEntryID,
		nullableTime(batch.PostedAt),
		batch.CreatedBy,
		batch.Version,
		timeToPgTimestamptz(batch.CreatedAt),
		timeToPgTimestamptz(batch.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to insert contribution batch: %w", err)
	}

	if len(batch.Entries) == 0 {
		return nil
	}

	const cols = 6
	args := make([]any, 0, len(batch.Entries)*cols)
	for i, e := range batch.Entries {
		args = append(args, batch.ID, i+1, decimalToNumeric(e.Amount), string(e.Method), e.Note, e.Contributor)
	}

	_, err = q.Exec(ctx, `
		INSERT INTO contribution_entries (batch_id, position, amount, method, note, contributor)
		VALUES `+valuesList(len(batch.Entries), cols), args...)
	if err != nil {
		return fmt.Errorf("failed to insert contribution entries: %w", err)
	}

	return nil
}

// GetByID retrieves a batch with its entries.
func (r *ContributionRepository) GetByID(ctx context.Context, id string) (*domain.ContributionBatch, error) {
	return r.get(ctx, r.db, `SELECT `+batchColumns+` FROM contribution_batches WHERE id = $1`, id)
}

// GetByIDForUpdate retrieves a batch and locks its row.
func (r *ContributionRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.ContributionBatch, error) {
	return r.get(ctx, pgxTx(tx), `SELECT `+batchColumns+` FROM contribution_batches WHERE id = $1 FOR UPDATE`, id)
}

func (r *ContributionRepository) get(ctx context.Context, q querier, query, id string) (*domain.ContributionBatch, error) {
	batch, err := scanBatch(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", domain.ErrBatchNotFound, id)
		}
		return nil, err
	}

	if err := loadContributionEntries(ctx, q, []*domain.ContributionBatch{batch}); err != nil {
		return nil, err
	}

	return batch, nil
}

// MarkPosted links the batch to its journal entry when the version still
// matches.
func (r *ContributionRepository) MarkPosted(ctx context.Context, tx usecase.Transaction, id, journalEntryID string, postedAt time.Time, expectedVersion int64) error {
	tag, err := pgxTx(tx).Exec(ctx, `
		UPDATE contribution_batches
		SET status = $2, posted_journal_entry_id = $3, posted_at = $4, updated_at = $4, version = version + 1
		WHERE id = $1 AND version = $5`,
		id, string(domain.BatchStatusPosted), journalEntryID, timeToPgTimestamptz(postedAt), expectedVersion,
	)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: batch %s", domain.ErrConcurrentModification, id)
	}

	return nil
}

// List returns batches newest first.
func (r *ContributionRepository) List(ctx context.Context, filter domain.BatchFilter) ([]*domain.ContributionBatch, error) {
	var where whereClause
	if filter.Status != nil {
		where.add("status = ?", string(*filter.Status))
	}
	if filter.OccurrenceRef != nil {
		where.add("occurrence_ref = ?", *filter.OccurrenceRef)
	}

	rows, err := r.db.Query(ctx, `SELECT `+batchColumns+` FROM contribution_batches`+where.String()+
		` ORDER BY created_at DESC, id`+where.page(filter.Limit, filter.Offset), where.args...)
	if err != nil {
		return nil, err
	}

	batches, err := collectBatches(rows)
	if err != nil {
		return nil, err
	}

	if err := loadContributionEntries(ctx, r.db, batches); err != nil {
		return nil, err
	}

	return batches, nil
}

func loadContributionEntries(ctx context.Context, q querier, batches []*domain.ContributionBatch) error {
	if len(batches) == 0 {
		return nil
	}

	byID := make(map[string]*domain.ContributionBatch, len(batches))
	ids := make([]string, 0, len(batches))
	for _, b := range batches {
		byID[b.ID] = b
		ids = append(ids, b.ID)
	}

	rows, err := q.Query(ctx, `
		SELECT batch_id, amount, method, note, contributor
		FROM contribution_entries
		WHERE batch_id = ANY($1)
		ORDER BY batch_id, position`, ids)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			batchID string
			entry   domain.ContributionEntry
			amount  pgtype.Numeric
			method  string
		)
		if err := rows.Scan(&batchID, &amount, &method, &entry.Note, &entry.Contributor); err != nil {
			return err
		}
		entry.Amount = numericToDecimal(amount)
		entry.Method = domain.ContributionMethod(method)

		if b, ok := byID[batchID]; ok {
			b.Entries = append(b.Entries, entry)
		}
	}

	return rows.Err()
}

func collectBatches(rows pgx.Rows) ([]*domain.ContributionBatch, error) {
	defer rows.Close()

	batches := make([]*domain.ContributionBatch, 0)
	for rows.Next() {
		b, err := scanBatch(rows)
		if err != nil {
			return nil, err
		}
		batches = append(batches, b)
	}

	return batches, rows.Err()
}

func scanBatch(row scanner) (*domain.ContributionBatch, error) {
	var (
		b                    domain.ContributionBatch
		status               string
		postedAt             pgtype.Timestamptz
		createdAt, updatedAt pgtype.Timestamptz
	)

	err := row.Scan(
		&b.ID,
		&b.OccurrenceRef,
		&status,
		&b.PostedJournalEntryID,
		&postedAt,
		&b.CreatedBy,
		&b.Version,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	b.Status = domain.BatchStatus(status)
	b.PostedAt = optionalTime(postedAt)
	b.CreatedAt = createdAt.Time.UTC()
	b.UpdatedAt = updatedAt.Time.UTC()

	return &b, nil
}
