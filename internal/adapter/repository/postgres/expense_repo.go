package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/treasury/internal/domain"
	"github.com/iho/treasury/internal/usecase"
)

const expenseColumns = `id, amount, account_code, description, requested_by, state,
	approved_by, approved_at, rejected_by, rejection_reason, rejected_at,
	paid_journal_entry_id, paid_at, version, created_at, updated_at`

// ExpenseRepository implements usecase.ExpenseRepository.
type ExpenseRepository struct {
	db querier
}

// NewExpenseRepository creates a new ExpenseRepository.
func NewExpenseRepository(pool *pgxpool.Pool) *ExpenseRepository {
	return newExpenseRepository(pool)
}

func newExpenseRepository(db querier) *ExpenseRepository {
	return &ExpenseRepository{db: db}
}

// Create inserts a new expense.
func (r *ExpenseRepository) Create(ctx context.Context, tx usecase.Transaction, e *domain.Expense) error {
	_, err := pgxTx(tx).Exec(ctx, `
		INSERT INTO expenses (`+expenseColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
		e.ID,
		decimalToNumeric(e.Amount),
		e.AccountCode,
		e.Description,
		e.RequestedBy,
		string(e.State),
		e.ApprovedBy,
		nullableTime(e.ApprovedAt),
		e.RejectedBy,
		e.RejectionReason,
		nullableTime(e.RejectedAt),
		e.PaidJournalEntryID,
		nullableTime(e.PaidAt),
		e.Version,
		timeToPgTimestamptz(e.CreatedAt),
		timeToPgTimestamptz(e.UpdatedAt),
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: %s", domain.ErrAccountNotFound, e.AccountCode)
		}
		return fmt.Errorf("failed to insert expense: %w", err)
	}

	return nil
}

// GetByID retrieves an expense.
func (r *ExpenseRepository) GetByID(ctx context.Context, id string) (*domain.Expense, error) {
	return scanExpenseRow(r.db.QueryRow(ctx, `SELECT `+expenseColumns+` FROM expenses WHERE id = $1`, id), id)
}

// GetByIDForUpdate retrieves an expense and locks its row.
func (r *ExpenseRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Expense, error) {
	return scanExpenseRow(pgxTx(tx).QueryRow(ctx, `SELECT `+expenseColumns+` FROM expenses WHERE id = $1 FOR UPDATE`, id), id)
}

// Update writes the workflow fields and bumps the version when it still
// equals expectedVersion.
func (r *ExpenseRepository) Update(ctx context.Context, tx usecase.Transaction, e *domain.Expense, expectedVersion int64) error {
	tag, err := pgxTx(tx).Exec(ctx, `
		UPDATE expenses
		SET state = $2,
			approved_by = $3,
			approved_at = $4,
			rejected_by = $5,
			rejection_reason = $6,
			rejected_at = $7,
			paid_journal_entry_id = $8,
			paid_at = $9,
			updated_at = $10,
			version = version + 1
		WHERE id = $1 AND version = $11`,
		e.ID,
		string(e.State),
		e.ApprovedBy,
		nullableTime(e.ApprovedAt),
		e.RejectedBy,
		e.RejectionReason,
		nullableTime(e.RejectedAt),
		e.PaidJournalEntryID,
		nullableTime(e.PaidAt),
		timeToPgTimestamptz(e.UpdatedAt),
		expectedVersion,
	)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: expense %s", domain.ErrConcurrentModification, e.ID)
	}

	return nil
}

// List returns expenses newest first.
func (r *ExpenseRepository) List(ctx context.Context, filter domain.ExpenseFilter) ([]*domain.Expense, error) {
	var where whereClause
	if filter.State != nil {
		where.add("state = ?", string(*filter.State))
	}
	if filter.RequestedBy != nil {
		where.add("requested_by = ?", *filter.RequestedBy)
	}
	if filter.AccountCode != nil {
		where.add("account_code = ?", *filter.AccountCode)
	}

	rows, err := r.db.Query(ctx, `SELECT `+expenseColumns+` FROM expenses`+where.String()+
		` ORDER BY created_at DESC, id`+where.page(filter.Limit, filter.Offset), where.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	expenses := make([]*domain.Expense, 0)
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, err
		}
		expenses = append(expenses, e)
	}

	return expenses, rows.Err()
}

// CountOpenByAccount counts claimed and approved expenses charged to the
// account.
func (r *ExpenseRepository) CountOpenByAccount(ctx context.Context, tx usecase.Transaction, accountCode string) (int, error) {
	var n int
	err := pgxTx(tx).QueryRow(ctx, `
		SELECT COUNT(*) FROM expenses
		WHERE account_code = $1 AND state IN ($2, $3)`,
		accountCode, string(domain.ExpenseStateClaimed), string(domain.ExpenseStateApproved),
	).Scan(&n)

	return n, err
}

func scanExpenseRow(row pgx.Row, id string) (*domain.Expense, error) {
	e, err := scanExpense(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", domain.ErrExpenseNotFound, id)
		}
		return nil, err
	}
	return e, nil
}

func scanExpense(row scanner) (*domain.Expense, error) {
	var (
		e                              domain.Expense
		amount                         pgtype.Numeric
		state                          string
		approvedAt, rejectedAt, paidAt pgtype.Timestamptz
		createdAt, updatedAt           pgtype.Timestamptz
	)

	err := row.Scan(
		&e.ID,
		&amount,
		&e.AccountCode,
		&e.Description,
		&e.RequestedBy,
		&state,
		&e.ApprovedBy,
		&approvedAt,
		&e.RejectedBy,
		&e.RejectionReason,
		&rejectedAt,
		&e.PaidJournalEntryID,
		&paidAt,
		&e.Version,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	e.Amount = numericToDecimal(amount)
	e.State = domain.ExpenseState(state)
	e.ApprovedAt = optionalTime(approvedAt)
	e.RejectedAt = optionalTime(rejectedAt)
	e.PaidAt = optionalTime(paidAt)
	e.CreatedAt = createdAt.Time.UTC()
	e.UpdatedAt = updatedAt.Time.UTC()

	return &e, nil
}
