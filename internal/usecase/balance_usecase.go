package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/treasury/internal/domain"
	"github.com/iho/treasury/internal/infrastructure/metrics"
)

const accountPageSize = 1000

// BalanceUseCase projects account balances from the journal.
type BalanceUseCase struct {
	txManager   TransactionManager
	retrier     Retrier
	accountRepo AccountRepository
	journalRepo JournalRepository
	recorder    recorder
	metrics     *metrics.Metrics
}

// NewBalanceUseCase creates a new balance use case
func NewBalanceUseCase(
	txManager TransactionManager,
	retrier Retrier,
	accountRepo AccountRepository,
	journalRepo JournalRepository,
	outboxRepo OutboxRepository,
	auditRepo AuditRepository,
	idGen IDGenerator,
	metrics *metrics.Metrics,
) *BalanceUseCase {
	return &BalanceUseCase{
		txManager:   txManager,
		retrier:     retrier,
		accountRepo: accountRepo,
		journalRepo: journalRepo,
		recorder: recorder{
			outboxRepo: outboxRepo,
			auditRepo:  auditRepo,
			idGen:      idGen,
		},
		metrics: metrics,
	}
}

// AccountBalance is the signed balance of one account.
type AccountBalance struct {
	Account *domain.Account
	Balance decimal.Decimal
	AsOf    *time.Time
}

// GetBalance returns the cached balance, or the journal sum of lines posted
// at or before asOf when it is set.
func (uc *BalanceUseCase) GetBalance(ctx context.Context, code string, asOf *time.Time) (*AccountBalance, error) {
	account, err := uc.accountRepo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	if asOf == nil {
		return &AccountBalance{Account: account, Balance: account.Balance}, nil
	}

	balance, err := uc.journalRepo.BalanceAt(ctx, code, *asOf)
	if err != nil {
		return nil, err
	}

	return &AccountBalance{Account: account, Balance: balance, AsOf: asOf}, nil
}

// TrialBalance lists every account with its cached balance.
type TrialBalance struct {
	Accounts     []*domain.Account
	TotalDebits  decimal.Decimal
	TotalCredits decimal.Decimal
	Balanced     bool
	GeneratedAt  time.Time
}

// ListBalances builds the trial balance. Debit balances and credit
// balances must offset each other.
func (uc *BalanceUseCase) ListBalances(ctx context.Context) (*TrialBalance, error) {
	accounts, err := listAllAccounts(ctx, uc.accountRepo)
	if err != nil {
		return nil, err
	}

	tb := &TrialBalance{
		Accounts:     accounts,
		TotalDebits:  decimal.Zero,
		TotalCredits: decimal.Zero,
		GeneratedAt:  time.Now().UTC(),
	}
	for _, acc := range accounts {
		if acc.Balance.IsPositive() {
			tb.TotalDebits = tb.TotalDebits.Add(acc.Balance)
		} else {
			tb.TotalCredits = tb.TotalCredits.Add(acc.Balance.Neg())
		}
	}
	tb.Balanced = tb.TotalDebits.Equal(tb.TotalCredits)

	return tb, nil
}

// ReconciliationResult compares an account's cached balance with the sum
// of its journal lines.
type ReconciliationResult struct {
	AccountCode       string
	RecordedBalance   decimal.Decimal
	CalculatedBalance decimal.Decimal
	Difference        decimal.Decimal
	IsReconciled      bool
}

// ReconciliationReport summarises a verification or rebuild pass.
type ReconciliationReport struct {
	TotalAccounts      int
	ReconciledAccounts int
	Discrepancies      []*ReconciliationResult
	CheckedAt          time.Time
}

// VerifyBalances replays the journal and reports every account whose
// cached balance differs.
func (uc *BalanceUseCase) VerifyBalances(ctx context.Context) (*ReconciliationReport, error) {
	accounts, err := listAllAccounts(ctx, uc.accountRepo)
	if err != nil {
		return nil, err
	}

	activity, err := uc.journalRepo.ActivityByAccount(ctx, nil, nil)
	if err != nil {
		return nil, err
	}

	report := reconcile(accounts, activity)

	if uc.metrics != nil {
		uc.metrics.BalanceDrift.Set(float64(len(report.Discrepancies)))
	}

	return report, nil
}

// RebuildBalances recomputes every cached balance from the journal in one
// transaction with all accounts locked. The report lists the accounts that
// were corrected, with their balances before the rebuild.
func (uc *BalanceUseCase) RebuildBalances(ctx context.Context) (*ReconciliationReport, error) {
	var report *ReconciliationReport
	err := uc.retrier.Retry(ctx, func() error {
		r, err := uc.rebuildOnce(ctx)
		if err != nil {
			return err
		}
		report = r
		return nil
	})
	if err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.BalancesRebuilt.Inc()
		uc.metrics.BalanceDrift.Set(0)
	}

	return report, nil
}

func (uc *BalanceUseCase) rebuildOnce(ctx context.Context) (*ReconciliationReport, error) {
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	accounts, err := uc.accountRepo.ListForUpdate(txCtx, tx)
	if err != nil {
		return nil, err
	}

	activity, err := uc.journalRepo.ActivityByAccountTx(txCtx, tx)
	if err != nil {
		return nil, err
	}

	report := reconcile(accounts, activity)
	now := time.Now().UTC()

	for _, d := range report.Discrepancies {
		if err := uc.accountRepo.UpdateBalance(txCtx, tx, d.AccountCode, d.CalculatedBalance, now); err != nil {
			return nil, fmt.Errorf("failed to rebuild balance of %s: %w", d.AccountCode, err)
		}
	}

	if len(report.Discrepancies) > 0 {
		payload := map[string]any{
			"corrected_accounts": len(report.Discrepancies),
			"total_accounts":     report.TotalAccounts,
		}
		if err := uc.recorder.event(txCtx, tx, domain.AggregateTypeLedger, "balances", domain.EventTypeBalanceCacheRebuilt, payload, now); err != nil {
			return nil, err
		}
		if err := uc.recorder.audit(txCtx, tx, domain.AuditActionBalancesRebuild, domain.AggregateTypeLedger, "balances", nil, report, now); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	return report, nil
}

// listAllAccounts pages through the whole chart of accounts in code order.
func listAllAccounts(ctx context.Context, repo AccountRepository) ([]*domain.Account, error) {
	var accounts []*domain.Account
	for offset := 0; ; offset += accountPageSize {
		page, err := repo.List(ctx, domain.AccountFilter{Limit: accountPageSize, Offset: offset})
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, page...)
		if len(page) < accountPageSize {
			return accounts, nil
		}
	}
}

func reconcile(accounts []*domain.Account, activity map[string]decimal.Decimal) *ReconciliationReport {
	report := &ReconciliationReport{
		TotalAccounts: len(accounts),
		Discrepancies: make([]*ReconciliationResult, 0),
		CheckedAt:     time.Now().UTC(),
	}

	for _, acc := range accounts {
		calculated := activity[acc.Code]
		if acc.Balance.Equal(calculated) {
			report.ReconciledAccounts++
			continue
		}
		report.Discrepancies = append(report.Discrepancies, &ReconciliationResult{
			AccountCode:       acc.Code,
			RecordedBalance:   acc.Balance,
			CalculatedBalance: calculated,
			Difference:        acc.Balance.Sub(calculated),
		})
	}

	return report
}
