package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	// ErrInconsistentLedger is returned when journal lines or cached balances
	// do not sum to zero.
	ErrInconsistentLedger = errors.New("ledger is inconsistent: debits do not equal credits")
)

// ConsistencyReport is the outcome of a ledger-wide zero-sum check.
type ConsistencyReport struct {
	Consistent    bool
	TotalLines    decimal.Decimal
	TotalBalances decimal.Decimal
	CheckedAt     time.Time
}

// LedgerUseCase handles ledger-wide operations.
type LedgerUseCase struct {
	ledgerRepo LedgerRepository
}

// NewLedgerUseCase creates a new LedgerUseCase.
func NewLedgerUseCase(ledgerRepo LedgerRepository) *LedgerUseCase {
	return &LedgerUseCase{
		ledgerRepo: ledgerRepo,
	}
}

// CheckConsistency verifies that the ledger is balanced. The report is
// returned together with ErrInconsistentLedger when it is not.
func (uc *LedgerUseCase) CheckConsistency(ctx context.Context) (*ConsistencyReport, error) {
	totalBalance, totalAmount, err := uc.ledgerRepo.CheckConsistency(ctx)
	if err != nil {
		return nil, err
	}

	report := &ConsistencyReport{
		Consistent:    totalBalance.IsZero() && totalAmount.IsZero(),
		TotalLines:    totalAmount,
		TotalBalances: totalBalance,
		CheckedAt:     time.Now().UTC(),
	}
	if !report.Consistent {
		return report, ErrInconsistentLedger
	}

	return report, nil
}
