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

const accountColumns = `id, code, name, type, parent_code, active, balance, version, created_at, updated_at`

// AccountRepository implements usecase.AccountRepository.
type AccountRepository struct {
	db querier
}

// NewAccountRepository creates a new AccountRepository.
func NewAccountRepository(pool *pgxpool.Pool) *AccountRepository {
	return newAccountRepository(pool)
}

func newAccountRepository(db querier) *AccountRepository {
	return &AccountRepository{db: db}
}

// Create creates a new account.
func (r *AccountRepository) Create(ctx context.Context, tx usecase.Transaction, account *domain.Account) error {
	_, err := pgxTx(tx).Exec(ctx, `
		INSERT INTO accounts (`+accountColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		account.ID,
		account.Code,
		account.Name,
		string(account.Type),
		account.ParentCode,
		account.Active,
		decimalToNumeric(account.Balance),
		account.Version,
		timeToPgTimestamptz(account.CreatedAt),
		timeToPgTimestamptz(account.UpdatedAt),
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: %s", domain.ErrDuplicateAccount, account.Code)
	}
	if isForeignKeyViolation(err) {
		return fmt.Errorf("%w: %s", domain.ErrParentAccountNotFound, deref(account.ParentCode))
	}

	return err
}

// GetByCode retrieves an account by code.
func (r *AccountRepository) GetByCode(ctx context.Context, code string) (*domain.Account, error) {
	row := r.db.QueryRow(ctx, `SELECT `+accountColumns+` FROM accounts WHERE code = $1`, code)
	return scanAccountRow(row, code)
}

// GetByCodeForUpdate retrieves an account by code with a FOR UPDATE lock.
func (r *AccountRepository) GetByCodeForUpdate(ctx context.Context, tx usecase.Transaction, code string) (*domain.Account, error) {
	row := pgxTx(tx).QueryRow(ctx, `SELECT `+accountColumns+` FROM accounts WHERE code = $1 FOR UPDATE`, code)
	return scanAccountRow(row, code)
}

// GetByCodesForUpdate locks the given accounts. Rows are locked in code
// order so concurrent postings over overlapping accounts cannot deadlock.
func (r *AccountRepository) GetByCodesForUpdate(ctx context.Context, tx usecase.Transaction, codes []string) ([]*domain.Account, error) {
	rows, err := pgxTx(tx).Query(ctx, `
		SELECT `+accountColumns+`
		FROM accounts
		WHERE code = ANY($1)
		ORDER BY code
		FOR UPDATE`, codes)
	if err != nil {
		return nil, err
	}

	return collectAccounts(rows)
}

// UpdateBalance sets the cached balance of an account.
func (r *AccountRepository) UpdateBalance(ctx context.Context, tx usecase.Transaction, code string, balance decimal.Decimal, updatedAt time.Time) error {
	tag, err := pgxTx(tx).Exec(ctx, `
		UPDATE accounts
		SET balance = $2, version = version + 1, updated_at = $3
		WHERE code = $1`,
		code, decimalToNumeric(balance), timeToPgTimestamptz(updatedAt),
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", domain.ErrAccountNotFound, code)
	}

	return nil
}

// SetActive activates or deactivates an account.
func (r *AccountRepository) SetActive(ctx context.Context, tx usecase.Transaction, code string, active bool, updatedAt time.Time) error {
	tag, err := pgxTx(tx).Exec(ctx, `
		UPDATE accounts
		SET active = $2, version = version + 1, updated_at = $3
		WHERE code = $1`,
		code, active, timeToPgTimestamptz(updatedAt),
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", domain.ErrAccountNotFound, code)
	}

	return nil
}

// List lists accounts ordered by code.
func (r *AccountRepository) List(ctx context.Context, filter domain.AccountFilter) ([]*domain.Account, error) {
	var where whereClause
	if filter.Type != nil {
		where.add("type = ?", string(*filter.Type))
	}
	if filter.Active != nil {
		where.add("active = ?", *filter.Active)
	}

	query := `SELECT ` + accountColumns + ` FROM accounts` + where.String() + ` ORDER BY code` + where.page(filter.Limit, filter.Offset)

	rows, err := r.db.Query(ctx, query, where.args...)
	if err != nil {
		return nil, err
	}

	return collectAccounts(rows)
}

// ListForUpdate locks and returns every account in code order.
func (r *AccountRepository) ListForUpdate(ctx context.Context, tx usecase.Transaction) ([]*domain.Account, error) {
	rows, err := pgxTx(tx).Query(ctx, `SELECT `+accountColumns+` FROM accounts ORDER BY code FOR UPDATE`)
	if err != nil {
		return nil, err
	}

	return collectAccounts(rows)
}

func collectAccounts(rows pgx.Rows) ([]*domain.Account, error) {
	defer rows.Close()

	accounts := make([]*domain.Account, 0)
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, account)
	}

	return accounts, rows.Err()
}

func scanAccountRow(row pgx.Row, code string) (*domain.Account, error) {
	account, err := scanAccount(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", domain.ErrAccountNotFound, code)
		}

		return nil, err
	}

	return account, nil
}

func scanAccount(row scanner) (*domain.Account, error) {
	var (
		a         domain.Account
		accType   string
		balance   pgtype.Numeric
		createdAt pgtype.Timestamptz
		updatedAt pgtype.Timestamptz
	)

	err := row.Scan(
		&a.ID,
		&a.Code,
		&a.Name,
		&accType,
		&a.ParentCode,
		&a.Active,
		&balance,
		&a.Version,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	a.Type = domain.AccountType(accType)
	a.Balance = numericToDecimal(balance)
	a.CreatedAt = createdAt.Time.UTC()
	a.UpdatedAt = updatedAt.Time.UTC()

	return &a, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
