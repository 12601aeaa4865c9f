package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// LedgerRepository implements usecase.LedgerRepository.
type LedgerRepository struct {
	db querier
}

// NewLedgerRepository creates a new LedgerRepository.
func NewLedgerRepository(pool *pgxpool.Pool) *LedgerRepository {
	return newLedgerRepository(pool)
}

func newLedgerRepository(db querier) *LedgerRepository {
	return &LedgerRepository{db: db}
}

// CheckConsistency returns the sum of all cached balances and the sum of
// all journal lines. Both are zero in a consistent ledger.
func (r *LedgerRepository) CheckConsistency(ctx context.Context) (totalBalance decimal.Decimal, totalAmount decimal.Decimal, err error) {
	var balances, amounts pgtype.Numeric
	err = r.db.QueryRow(ctx, `
		SELECT
			(SELECT COALESCE(SUM(balance), 0) FROM accounts),
			(SELECT COALESCE(SUM(amount), 0) FROM journal_lines)`,
	).Scan(&balances, &amounts)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}

	return numericToDecimal(balances), numericToDecimal(amounts), nil
}
