package handler

//go:generate mockgen -source=services.go -destination=mocks/mock_services.go -package=mocks

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/treasury/internal/domain"
	"github.com/iho/treasury/internal/usecase"
)

// AccountService defines the behavior needed by AccountHandler.
type AccountService interface {
	CreateAccount(ctx context.Context, input usecase.CreateAccountInput) (*domain.Account, error)
	GetAccount(ctx context.Context, code string) (*domain.Account, error)
	ListAccounts(ctx context.Context, filter domain.AccountFilter) ([]*domain.Account, error)
	DeactivateAccount(ctx context.Context, code string) (*domain.Account, error)
	ActivateAccount(ctx context.Context, code string) (*domain.Account, error)
}

// BalanceService defines the behavior needed by BalanceHandler and the
// balance routes of LedgerHandler.
type BalanceService interface {
	GetBalance(ctx context.Context, code string, asOf *time.Time) (*usecase.AccountBalance, error)
	ListBalances(ctx context.Context) (*usecase.TrialBalance, error)
	VerifyBalances(ctx context.Context) (*usecase.ReconciliationReport, error)
	RebuildBalances(ctx context.Context) (*usecase.ReconciliationReport, error)
}

// JournalService defines the behavior needed by JournalHandler.
type JournalService interface {
	PostEntry(ctx context.Context, in usecase.PostEntryInput) (*usecase.PostEntryResult, error)
	GetEntry(ctx context.Context, id string) (*domain.JournalEntry, error)
	ListEntries(ctx context.Context, filter domain.EntryFilter) ([]*domain.JournalEntry, error)
	ReverseEntry(ctx context.Context, entryID, memo, idempotencyKey string) (*usecase.PostEntryResult, error)
}

// ContributionService defines the behavior needed by ContributionHandler.
type ContributionService interface {
	CreateBatch(ctx context.Context, input usecase.CreateBatchInput) (*domain.ContributionBatch, error)
	GetBatch(ctx context.Context, id string) (*domain.ContributionBatch, error)
	ListBatches(ctx context.Context, filter domain.BatchFilter) ([]*domain.ContributionBatch, error)
	PostBatch(ctx context.Context, batchID, idempotencyKey string) (*usecase.PostBatchResult, error)
}

// ExpenseService defines the behavior needed by ExpenseHandler.
type ExpenseService interface {
	Claim(ctx context.Context, input usecase.ClaimInput) (*domain.Expense, error)
	Approve(ctx context.Context, expenseID, approvedBy string) (*domain.Expense, error)
	Reject(ctx context.Context, expenseID, reason string, rejectedBy *string) (*domain.Expense, error)
	Pay(ctx context.Context, expenseID, idempotencyKey string) (*usecase.PayResult, error)
	GetExpense(ctx context.Context, id string) (*domain.Expense, error)
	ListExpenses(ctx context.Context, filter domain.ExpenseFilter) ([]*domain.Expense, error)
}

// BudgetService defines the behavior needed by BudgetHandler.
type BudgetService interface {
	CreateFiscalYear(ctx context.Context, input usecase.CreateFiscalYearInput) (*domain.FiscalYear, error)
	GetFiscalYear(ctx context.Context, id string) (*domain.FiscalYear, error)
	ListFiscalYears(ctx context.Context) ([]*domain.FiscalYear, error)
	SetBudgetLine(ctx context.Context, fiscalYearID, accountCode string, amount decimal.Decimal) (*domain.BudgetLine, error)
	ListBudgetLines(ctx context.Context, fiscalYearID string) ([]*domain.BudgetLine, error)
	GetBudgetVsActual(ctx context.Context, fiscalYearID string) (*domain.BudgetReport, error)
}

// LedgerService defines the behavior needed by LedgerHandler.
type LedgerService interface {
	CheckConsistency(ctx context.Context) (*usecase.ConsistencyReport, error)
}
