package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/iho/treasury/internal/domain"
	"github.com/iho/treasury/internal/usecase"
)

const entryColumns = `e.id, e.sequence, e.posted_at, e.memo, e.source_type, e.source_id, e.idempotency_key, e.created_by`

const lineColumns = `entry_id, line_no, account_code, amount, memo, balance_after`

// JournalRepository implements usecase.JournalRepository. It only ever
// inserts; the schema rejects updates and deletes of entries and lines.
type JournalRepository struct {
	db querier
}

// NewJournalRepository creates a new JournalRepository.
func NewJournalRepository(pool *pgxpool.Pool) *JournalRepository {
	return newJournalRepository(pool)
}

func newJournalRepository(db querier) *JournalRepository {
	return &JournalRepository{db: db}
}

// Create inserts the entry and its lines and sets entry.Sequence.
func (r *JournalRepository) Create(ctx context.Context, tx usecase.Transaction, entry *domain.JournalEntry) error {
	q := pgxTx(tx)

	err := q.QueryRow(ctx, `
		INSERT INTO journal_entries (id, posted_at, memo, source_type, source_id, idempotency_key, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING sequence`,
		entry.ID,
		timeToPgTimestamptz(entry.PostedAt),
		entry.Memo,
		string(entry.Source.Type),
		entry.Source.ID,
		entry.IdempotencyKey,
		entry.CreatedBy,
	).Scan(&entry.Sequence)
	if err != nil {
		return fmt.Errorf("failed to insert journal entry: %w", err)
	}

	const cols = 6
	args := make([]any, 0, len(entry.Lines)*cols)
	for _, l := range entry.Lines {
		args = append(args,
			entry.ID,
			l.LineNo,
			l.AccountCode,
			decimalToNumeric(l.Amount),
			l.Memo,
			decimalToNumeric(l.BalanceAfter),
		)
	}

	_, err = q.Exec(ctx, `INSERT INTO journal_lines (`+lineColumns+`) VALUES `+valuesList(len(entry.Lines), cols), args...)
	if err != nil {
		return fmt.Errorf("failed to insert journal lines: %w", err)
	}

	return nil
}

// GetByID retrieves an entry with its lines.
func (r *JournalRepository) GetByID(ctx context.Context, id string) (*domain.JournalEntry, error) {
	entry, err := scanEntry(r.db.QueryRow(ctx, `SELECT `+entryColumns+` FROM journal_entries e WHERE e.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", domain.ErrEntryNotFound, id)
		}
		return nil, err
	}

	if err := r.loadLines(ctx, []*domain.JournalEntry{entry}); err != nil {
		return nil, err
	}

	return entry, nil
}

// List returns entries ordered by sequence.
func (r *JournalRepository) List(ctx context.Context, filter domain.EntryFilter) ([]*domain.JournalEntry, error) {
	var where whereClause
	if filter.AccountCode != nil {
		where.add("EXISTS (SELECT 1 FROM journal_lines l WHERE l.entry_id = e.id AND l.account_code = ?)", *filter.AccountCode)
	}
	if filter.SourceType != nil {
		where.add("e.source_type = ?", string(*filter.SourceType))
	}
	if filter.From != nil {
		where.add("e.posted_at >= ?", timeToPgTimestamptz(*filter.From))
	}
	if filter.To != nil {
		where.add("e.posted_at < ?", timeToPgTimestamptz(*filter.To))
	}

	query := `SELECT ` + entryColumns + ` FROM journal_entries e` + where.String() + ` ORDER BY e.sequence` + where.page(filter.Limit, filter.Offset)

	rows, err := r.db.Query(ctx, query, where.args...)
	if err != nil {
		return nil, err
	}

	entries, err := collectEntries(rows)
	if err != nil {
		return nil, err
	}

	if err := r.loadLines(ctx, entries); err != nil {
		return nil, err
	}

	return entries, nil
}

// BalanceAt sums line amounts for the account posted at or before asOf.
func (r *JournalRepository) BalanceAt(ctx context.Context, accountCode string, asOf time.Time) (decimal.Decimal, error) {
	var sum pgtype.Numeric
	err := r.db.QueryRow(ctx, `
		SELECT COALESCE(SUM(l.amount), 0)
		FROM journal_lines l
		JOIN journal_entries e ON e.id = l.entry_id
		WHERE l.account_code = $1 AND e.posted_at <= $2`,
		accountCode, timeToPgTimestamptz(asOf),
	).Scan(&sum)
	if err != nil {
		return decimal.Zero, err
	}

	return numericToDecimal(sum), nil
}

// ActivityByAccount sums line amounts per account for entries posted in
// [from, to).
func (r *JournalRepository) ActivityByAccount(ctx context.Context, from, to *time.Time) (map[string]decimal.Decimal, error) {
	var where whereClause
	if from != nil {
		where.add("e.posted_at >= ?", timeToPgTimestamptz(*from))
	}
	if to != nil {
		where.add("e.posted_at < ?", timeToPgTimestamptz(*to))
	}

	rows, err := r.db.Query(ctx, `
		SELECT l.account_code, SUM(l.amount)
		FROM journal_lines l
		JOIN journal_entries e ON e.id = l.entry_id`+where.String()+`
		GROUP BY l.account_code`, where.args...)
	if err != nil {
		return nil, err
	}

	return collectActivity(rows)
}

// ActivityByAccountTx sums all line amounts per account inside tx, for
// rebuilding balances while the accounts are locked.
func (r *JournalRepository) ActivityByAccountTx(ctx context.Context, tx usecase.Transaction) (map[string]decimal.Decimal, error) {
	rows, err := pgxTx(tx).Query(ctx, `
		SELECT account_code, SUM(amount)
		FROM journal_lines
		GROUP BY account_code`)
	if err != nil {
		return nil, err
	}

	return collectActivity(rows)
}

func (r *JournalRepository) loadLines(ctx context.Context, entries []*domain.JournalEntry) error {
	if len(entries) == 0 {
		return nil
	}

	byID := make(map[string]*domain.JournalEntry, len(entries))
	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		byID[e.ID] = e
		ids = append(ids, e.ID)
	}

	rows, err := r.db.Query(ctx, `
		SELECT `+lineColumns+`
		FROM journal_lines
		WHERE entry_id = ANY($1)
		ORDER BY entry_id, line_no`, ids)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			entryID      string
			line         domain.JournalLine
			amount       pgtype.Numeric
			balanceAfter pgtype.Numeric
		)
		if err := rows.Scan(&entryID, &line.LineNo, &line.AccountCode, &amount, &line.Memo, &balanceAfter); err != nil {
			return err
		}
		line.Amount = numericToDecimal(amount)
		line.BalanceAfter = numericToDecimal(balanceAfter)

		if e, ok := byID[entryID]; ok {
			e.Lines = append(e.Lines, line)
		}
	}

	return rows.Err()
}

func collectEntries(rows pgx.Rows) ([]*domain.JournalEntry, error) {
	defer rows.Close()

	entries := make([]*domain.JournalEntry, 0)
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}

func scanEntry(row scanner) (*domain.JournalEntry, error) {
	var (
		e          domain.JournalEntry
		postedAt   pgtype.Timestamptz
		sourceType string
	)

	err := row.Scan(
		&e.ID,
		&e.Sequence,
		&postedAt,
		&e.Memo,
		&sourceType,
		&e.Source.ID,
		&e.IdempotencyKey,
		&e.CreatedBy,
	)
	if err != nil {
		return nil, err
	}

	e.PostedAt = postedAt.Time.UTC()
	e.Source.Type = domain.SourceType(sourceType)

	return &e, nil
}

func collectActivity(rows pgx.Rows) (map[string]decimal.Decimal, error) {
	defer rows.Close()

	activity := make(map[string]decimal.Decimal)
	for rows.Next() {
		var (
			code string
			sum  pgtype.Numeric
		)
		if err := rows.Scan(&code, &sum); err != nil {
			return nil, err
		}
		activity[code] = numericToDecimal(sum)
	}

	return activity, rows.Err()
}
