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

const fiscalYearColumns = `id, name, start_date, end_date, created_at`

// BudgetRepository implements usecase.BudgetRepository.
type BudgetRepository struct {
	db querier
}

// NewBudgetRepository creates a new BudgetRepository.
func NewBudgetRepository(pool *pgxpool.Pool) *BudgetRepository {
	return newBudgetRepository(pool)
}

func newBudgetRepository(db querier) *BudgetRepository {
	return &BudgetRepository{db: db}
}

// CreateFiscalYear inserts a fiscal year.
func (r *BudgetRepository) CreateFiscalYear(ctx context.Context, tx usecase.Transaction, fy *domain.FiscalYear) error {
	_, err := pgxTx(tx).Exec(ctx, `
		INSERT INTO fiscal_years (`+fiscalYearColumns+`)
		VALUES ($1, $2, $3, $4, $5)`,
		fy.ID,
		fy.Name,
		timeToPgTimestamptz(fy.StartDate),
		timeToPgTimestamptz(fy.EndDate),
		timeToPgTimestamptz(fy.CreatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %s", domain.ErrDuplicateFiscalYear, fy.Name)
		}
		return fmt.Errorf("failed to insert fiscal year: %w", err)
	}

	return nil
}

// GetFiscalYear retrieves a fiscal year by id.
func (r *BudgetRepository) GetFiscalYear(ctx context.Context, id string) (*domain.FiscalYear, error) {
	fy, err := scanFiscalYear(r.db.QueryRow(ctx, `SELECT `+fiscalYearColumns+` FROM fiscal_years WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", domain.ErrFiscalYearNotFound, id)
		}
		return nil, err
	}

	return fy, nil
}

// ListFiscalYears returns fiscal years ordered by start date.
func (r *BudgetRepository) ListFiscalYears(ctx context.Context) ([]*domain.FiscalYear, error) {
	rows, err := r.db.Query(ctx, `SELECT `+fiscalYearColumns+` FROM fiscal_years ORDER BY start_date`)
	if err != nil {
		return nil, err
	}

	return collectFiscalYears(rows)
}

// FindOverlapping returns fiscal years sharing any instant with
// [start, end). The table is locked against concurrent inserts until tx
// ends, so two overlapping years cannot both pass the check.
func (r *BudgetRepository) FindOverlapping(ctx context.Context, tx usecase.Transaction, start, end time.Time) ([]*domain.FiscalYear, error) {
	q := pgxTx(tx)

	if _, err := q.Exec(ctx, `LOCK TABLE fiscal_years IN SHARE ROW EXCLUSIVE MODE`); err != nil {
		return nil, fmt.Errorf("failed to lock fiscal years: %w", err)
	}

	rows, err := q.Query(ctx, `
		SELECT `+fiscalYearColumns+`
		FROM fiscal_years
		WHERE start_date < $2 AND $1 < end_date
		ORDER BY start_date`,
		timeToPgTimestamptz(start), timeToPgTimestamptz(end),
	)
	if err != nil {
		return nil, err
	}

	return collectFiscalYears(rows)
}

// UpsertLine sets the budgeted amount for an account in a fiscal year.
func (r *BudgetRepository) UpsertLine(ctx context.Context, tx usecase.Transaction, line *domain.BudgetLine) error {
	_, err := pgxTx(tx).Exec(ctx, `
		INSERT INTO budget_lines (fiscal_year_id, account_code, budgeted_amount, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (fiscal_year_id, account_code)
		DO UPDATE SET budgeted_amount = EXCLUDED.budgeted_amount, updated_at = EXCLUDED.updated_at`,
		line.FiscalYearID,
		line.AccountCode,
		decimalToNumeric(line.BudgetedAmount),
		timeToPgTimestamptz(line.UpdatedAt),
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: %s", domain.ErrAccountNotFound, line.AccountCode)
		}
		return fmt.Errorf("failed to upsert budget line: %w", err)
	}

	return nil
}

// ListLines returns the budget lines of a fiscal year ordered by account
// code.
func (r *BudgetRepository) ListLines(ctx context.Context, fiscalYearID string) ([]*domain.BudgetLine, error) {
	rows, err := r.db.Query(ctx, `
		SELECT fiscal_year_id, account_code, budgeted_amount, updated_at
		FROM budget_lines
		WHERE fiscal_year_id = $1
		ORDER BY account_code`, fiscalYearID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	lines := make([]*domain.BudgetLine, 0)
	for rows.Next() {
		var (
			line      domain.BudgetLine
			amount    pgtype.Numeric
			updatedAt pgtype.Timestamptz
		)
		if err := rows.Scan(&line.FiscalYearID, &line.AccountCode, &amount, &updatedAt); err != nil {
			return nil, err
		}
		line.BudgetedAmount = numericToDecimal(amount)
		line.UpdatedAt = updatedAt.Time.UTC()
		lines = append(lines, &line)
	}

	return lines, rows.Err()
}

func collectFiscalYears(rows pgx.Rows) ([]*domain.FiscalYear, error) {
	defer rows.Close()

	years := make([]*domain.FiscalYear, 0)
	for rows.Next() {
		fy, err := scanFiscalYear(rows)
		if err != nil {
			return nil, err
		}
		years = append(years, fy)
	}

	return years, rows.Err()
}

func scanFiscalYear(row scanner) (*domain.FiscalYear, error) {
	var (
		fy                    domain.FiscalYear
		start, end, createdAt pgtype.Timestamptz
	)

	if err := row.Scan(&fy.ID, &fy.Name, &start, &end, &createdAt); err != nil {
		return nil, err
	}

	fy.StartDate = start.Time.UTC()
	fy.EndDate = end.Time.UTC()
	fy.CreatedAt = createdAt.Time.UTC()

	return &fy, nil
}
