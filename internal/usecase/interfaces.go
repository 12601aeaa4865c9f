package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/treasury/internal/domain"
)

// ErrIdempotencyKeyTaken is returned by IdempotencyRepository.Create when
// another transaction already recorded the key.
var ErrIdempotencyKeyTaken = errors.New("idempotency key already recorded")

// AccountRepository defines data access for the chart of accounts.
type AccountRepository interface {
	Create(ctx context.Context, tx Transaction, account *domain.Account) error
	GetByCode(ctx context.Context, code string) (*domain.Account, error)
	GetByCodeForUpdate(ctx context.Context, tx Transaction, code string) (*domain.Account, error)
	// GetByCodesForUpdate locks the accounts in ascending code order. Missing
	// codes are omitted from the result.
	GetByCodesForUpdate(ctx context.Context, tx Transaction, codes []string) ([]*domain.Account, error)
	UpdateBalance(ctx context.Context, tx Transaction, code string, balance decimal.Decimal, updatedAt time.Time) error
	SetActive(ctx context.Context, tx Transaction, code string, active bool, updatedAt time.Time) error
	List(ctx context.Context, filter domain.AccountFilter) ([]*domain.Account, error)
	ListForUpdate(ctx context.Context, tx Transaction) ([]*domain.Account, error)
}

// JournalRepository defines data access for journal entries. Entries are
// append-only: there is no update or delete.
type JournalRepository interface {
	// Create persists the entry with its lines and sets entry.Sequence.
	Create(ctx context.Context, tx Transaction, entry *domain.JournalEntry) error
	GetByID(ctx context.Context, id string) (*domain.JournalEntry, error)
	List(ctx context.Context, filter domain.EntryFilter) ([]*domain.JournalEntry, error)
	// BalanceAt sums line amounts for the account posted at or before asOf.
	BalanceAt(ctx context.Context, accountCode string, asOf time.Time) (decimal.Decimal, error)
	// ActivityByAccount sums line amounts per account for entries posted in
	// [from, to). Nil bounds are open.
	ActivityByAccount(ctx context.Context, from, to *time.Time) (map[string]decimal.Decimal, error)
	ActivityByAccountTx(ctx context.Context, tx Transaction) (map[string]decimal.Decimal, error)
}

// LedgerRepository defines data access for ledger-wide operations.
type LedgerRepository interface {
	CheckConsistency(ctx context.Context) (totalBalance, totalAmount decimal.Decimal, err error)
}

// ContributionRepository defines data access for contribution batches.
type ContributionRepository interface {
	Create(ctx context.Context, tx Transaction, batch *domain.ContributionBatch) error
	GetByID(ctx context.Context, id string) (*domain.ContributionBatch, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.ContributionBatch, error)
	// MarkPosted links the batch to its journal entry. It fails with
	// domain.ErrConcurrentModification when the version does not match.
	MarkPosted(ctx context.Context, tx Transaction, id, journalEntryID string, postedAt time.Time, expectedVersion int64) error
	List(ctx context.Context, filter domain.BatchFilter) ([]*domain.ContributionBatch, error)
}

// ExpenseRepository defines data access for expenses.
type ExpenseRepository interface {
	Create(ctx context.Context, tx Transaction, expense *domain.Expense) error
	GetByID(ctx context.Context, id string) (*domain.Expense, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.Expense, error)
	// Update writes the workflow fields. It fails with
	// domain.ErrConcurrentModification when the version does not match.
	Update(ctx context.Context, tx Transaction, expense *domain.Expense, expectedVersion int64) error
	List(ctx context.Context, filter domain.ExpenseFilter) ([]*domain.Expense, error)
	CountOpenByAccount(ctx context.Context, tx Transaction, accountCode string) (int, error)
}

// BudgetRepository defines data access for fiscal years and budget lines.
type BudgetRepository interface {
	CreateFiscalYear(ctx context.Context, tx Transaction, fy *domain.FiscalYear) error
	GetFiscalYear(ctx context.Context, id string) (*domain.FiscalYear, error)
	ListFiscalYears(ctx context.Context) ([]*domain.FiscalYear, error)
	FindOverlapping(ctx context.Context, tx Transaction, start, end time.Time) ([]*domain.FiscalYear, error)
	UpsertLine(ctx context.Context, tx Transaction, line *domain.BudgetLine) error
	ListLines(ctx context.Context, fiscalYearID string) ([]*domain.BudgetLine, error)
}

// IdempotencyRepository persists idempotency records inside business
// transactions.
type IdempotencyRepository interface {
	// Get returns the record for key, or nil when none exists.
	Get(ctx context.Context, key string) (*domain.IdempotencyRecord, error)
	GetTx(ctx context.Context, tx Transaction, key string) (*domain.IdempotencyRecord, error)
	// Create fails with ErrIdempotencyKeyTaken if the key is already recorded.
	Create(ctx context.Context, tx Transaction, record *domain.IdempotencyRecord) error
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}

// OutboxRepository defines data access for outbox events.
type OutboxRepository interface {
	Create(ctx context.Context, tx Transaction, event *domain.OutboxEvent) error
	GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error)
	MarkPublished(ctx context.Context, id string, publishedAt time.Time) error
	GetByAggregate(ctx context.Context, aggregateType, aggregateID string, limit, offset int) ([]*domain.OutboxEvent, error)
	DeletePublished(ctx context.Context, before time.Time) error
}

// AuditRepository defines data access for audit logs.
type AuditRepository interface {
	CreateTx(ctx context.Context, tx Transaction, log *domain.AuditLog) error
	List(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditLog, error)
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// Retrier re-runs an operation on transient store failures.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Cache defines caching operations.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
	// Release drops a key whose request did not succeed.
	Release(ctx context.Context, key string) error
}
