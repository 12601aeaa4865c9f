package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/treasury/internal/domain"
	"github.com/iho/treasury/internal/infrastructure/metrics"
)

// ExpenseUseCase drives expenses through claimed, approved, rejected and
// paid. Every transition locks the expense row and checks its version.
type ExpenseUseCase struct {
	txManager   TransactionManager
	retrier     Retrier
	accountRepo AccountRepository
	expenseRepo ExpenseRepository
	journal     *JournalUseCase
	idempotency *IdempotencyGuard
	defaults    PostingDefaults
	recorder    recorder
	metrics     *metrics.Metrics
}

func NewExpenseUseCase(
	txManager TransactionManager,
	retrier Retrier,
	accountRepo AccountRepository,
	expenseRepo ExpenseRepository,
	journal *JournalUseCase,
	idempotency *IdempotencyGuard,
	defaults PostingDefaults,
	outboxRepo OutboxRepository,
	auditRepo AuditRepository,
	idGen IDGenerator,
	metrics *metrics.Metrics,
) *ExpenseUseCase {
	return &ExpenseUseCase{
		txManager:   txManager,
		retrier:     retrier,
		accountRepo: accountRepo,
		expenseRepo: expenseRepo,
		journal:     journal,
		idempotency: idempotency,
		defaults:    defaults,
		recorder: recorder{
			outboxRepo: outboxRepo,
			auditRepo:  auditRepo,
			idGen:      idGen,
		},
		metrics: metrics,
	}
}

// ClaimInput represents input for claiming an expense.
type ClaimInput struct {
	Amount      decimal.Decimal
	AccountCode string
	Description string
	RequestedBy string
}

// Claim records a new expense in the claimed state. The account must be an
// active expense account.
func (uc *ExpenseUseCase) Claim(ctx context.Context, input ClaimInput) (*domain.Expense, error) {
	if err := domain.ValidateAmount(input.Amount); err != nil {
		return nil, err
	}
	input.RequestedBy = strings.TrimSpace(input.RequestedBy)
	if input.RequestedBy == "" {
		return nil, domain.ErrMissingActor
	}

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	// Locked so a concurrent deactivation either sees this claim as open or
	// is seen by it as inactive.
	account, err := uc.accountRepo.GetByCodeForUpdate(txCtx, tx, input.AccountCode)
	if errors.Is(err, domain.ErrAccountNotFound) || (err == nil && !account.Active) {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownOrInactiveAccount, input.AccountCode)
	}
	if err != nil {
		return nil, err
	}
	if account.Type != domain.AccountTypeExpense {
		return nil, fmt.Errorf("%w: %s is %s, not expense", domain.ErrAccountTypeMismatch, account.Code, account.Type)
	}

	now := time.Now().UTC()
	expense := &domain.Expense{
		ID:          uc.recorder.idGen.Generate(),
		Amount:      input.Amount,
		AccountCode: account.Code,
		Description: strings.TrimSpace(input.Description),
		RequestedBy: input.RequestedBy,
		State:       domain.ExpenseStateClaimed,
		Version:     0,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := uc.expenseRepo.Create(txCtx, tx, expense); err != nil {
		return nil, err
	}

	if err := uc.recorder.event(txCtx, tx, domain.AggregateTypeExpense, expense.ID, domain.EventTypeExpenseClaimed, expensePayload(expense), now); err != nil {
		return nil, err
	}
	if err := uc.recorder.audit(txCtx, tx, domain.AuditActionExpenseClaim, domain.AggregateTypeExpense, expense.ID, nil, expense, now); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	uc.observe(expense.State)

	return expense, nil
}

// Approve moves a claimed expense to approved. The requester can never
// approve their own claim, whatever their role.
func (uc *ExpenseUseCase) Approve(ctx context.Context, expenseID, approvedBy string) (*domain.Expense, error) {
	approvedBy = strings.TrimSpace(approvedBy)
	return uc.transition(ctx, expenseID, domain.EventTypeExpenseApproved, domain.AuditActionExpenseApprove,
		func(e *domain.Expense, now time.Time) error {
			return e.Approve(approvedBy, now)
		})
}

// Reject moves a claimed or approved expense to rejected.
func (uc *ExpenseUseCase) Reject(ctx context.Context, expenseID, reason string, rejectedBy *string) (*domain.Expense, error) {
	return uc.transition(ctx, expenseID, domain.EventTypeExpenseRejected, domain.AuditActionExpenseReject,
		func(e *domain.Expense, now time.Time) error {
			return e.Reject(reason, rejectedBy, now)
		})
}

func (uc *ExpenseUseCase) transition(
	ctx context.Context,
	expenseID, eventType string,
	action domain.AuditAction,
	apply func(*domain.Expense, time.Time) error,
) (*domain.Expense, error) {
	var result *domain.Expense
	err := uc.retrier.Retry(ctx, func() error {
		txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
		defer cancel()

		tx, err := uc.txManager.Begin(txCtx)
		if err != nil {
			return err
		}
		defer func() { _ = tx.Rollback(txCtx) }()

		expense, err := uc.expenseRepo.GetByIDForUpdate(txCtx, tx, expenseID)
		if err != nil {
			return err
		}

		before := *expense
		now := time.Now().UTC()
		if err := apply(expense, now); err != nil {
			return err
		}

		if err := uc.expenseRepo.Update(txCtx, tx, expense, before.Version); err != nil {
			return err
		}
		expense.Version++

		if err := uc.recorder.event(txCtx, tx, domain.AggregateTypeExpense, expense.ID, eventType, expensePayload(expense), now); err != nil {
			return err
		}
		if err := uc.recorder.audit(txCtx, tx, action, domain.AggregateTypeExpense, expense.ID, before, expense, now); err != nil {
			return err
		}

		if err := tx.Commit(txCtx); err != nil {
			return err
		}

		result = expense
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.observe(result.State)

	return result, nil
}

// PayResult is a paid expense with the entry that settled it.
type PayResult struct {
	Expense  *domain.Expense
	Entry    *domain.JournalEntry
	Replayed bool
}

// Pay settles an approved expense: the expense account is debited and the
// disbursing account credited in the same transaction that marks it paid.
// Retrying with the same key returns the original entry.
func (uc *ExpenseUseCase) Pay(ctx context.Context, expenseID, idempotencyKey string) (*PayResult, error) {
	if idempotencyKey == "" {
		return nil, domain.ErrIdempotencyKeyRequired
	}

	req := &idempotencyRequest{
		Key:        idempotencyKey,
		Scope:      domain.IdempotencyScopeExpensePay,
		Hash:       domain.HashRequest(expenseID),
		ResourceID: expenseID,
	}

	var result *PayResult
	err := uc.retrier.Retry(ctx, func() error {
		r, err := uc.payOnce(ctx, expenseID, req)
		if err != nil {
			return err
		}
		result = r
		return nil
	})
	if errors.Is(err, ErrIdempotencyKeyTaken) {
		rec, err := uc.idempotency.resolve(ctx, req)
		if err != nil {
			return nil, err
		}
		return uc.replay(ctx, rec)
	}
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (uc *ExpenseUseCase) payOnce(ctx context.Context, expenseID string, req *idempotencyRequest) (*PayResult, error) {
	start := time.Now()

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	expense, err := uc.expenseRepo.GetByIDForUpdate(txCtx, tx, expenseID)
	if err != nil {
		return nil, err
	}

	// The key is read after the row lock: a same-key request that held the
	// lock has committed its record by now.
	rec, err := uc.idempotency.lookup(txCtx, tx, req)
	if err != nil {
		return nil, err
	}
	if rec == nil && expense.State == domain.ExpenseStatePaid {
		if rec, err = uc.idempotency.settled(txCtx, req); err != nil {
			return nil, err
		}
	}
	if rec != nil {
		return uc.replay(txCtx, rec)
	}

	if !domain.CanTransition(expense.State, domain.ExpenseStatePaid) {
		return nil, fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, expense.State, domain.ExpenseStatePaid)
	}

	in := PostEntryInput{
		Lines:  expense.PaymentLines(uc.defaults.ExpenseDisbursingAccount),
		Memo:   fmt.Sprintf("Expense %s", expense.ID),
		Source: domain.SourceRef{Type: domain.SourceTypeExpense, ID: expense.ID},
	}
	if err := validatePostInput(in); err != nil {
		return nil, err
	}

	entry, err := uc.journal.postInTx(txCtx, tx, in, req)
	if err != nil {
		return nil, err
	}

	before := *expense
	if err := expense.MarkPaid(entry.ID, entry.PostedAt); err != nil {
		return nil, err
	}
	if err := uc.expenseRepo.Update(txCtx, tx, expense, before.Version); err != nil {
		return nil, err
	}
	expense.Version++

	if err := uc.recorder.event(txCtx, tx, domain.AggregateTypeExpense, expense.ID, domain.EventTypeExpensePaid, expensePayload(expense), entry.PostedAt); err != nil {
		return nil, err
	}
	if err := uc.recorder.audit(txCtx, tx, domain.AuditActionExpensePay, domain.AggregateTypeExpense, expense.ID, before, expense, entry.PostedAt); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	uc.journal.observePosted(entry, time.Since(start))
	uc.observe(expense.State)

	return &PayResult{Expense: expense, Entry: entry}, nil
}

func (uc *ExpenseUseCase) replay(ctx context.Context, rec *domain.IdempotencyRecord) (*PayResult, error) {
	expense, err := uc.expenseRepo.GetByID(ctx, rec.ResourceID)
	if err != nil {
		return nil, err
	}
	entry, err := uc.journal.journalRepo.GetByID(ctx, rec.ResultJournalEntryID)
	if err != nil {
		return nil, err
	}
	return &PayResult{Expense: expense, Entry: entry, Replayed: true}, nil
}

// GetExpense retrieves an expense by ID.
func (uc *ExpenseUseCase) GetExpense(ctx context.Context, id string) (*domain.Expense, error) {
	return uc.expenseRepo.GetByID(ctx, id)
}

// ListExpenses lists expenses, newest first.
func (uc *ExpenseUseCase) ListExpenses(ctx context.Context, filter domain.ExpenseFilter) ([]*domain.Expense, error) {
	filter.Limit, filter.Offset = domain.ValidatePagination(filter.Limit, filter.Offset)
	return uc.expenseRepo.List(ctx, filter)
}

func (uc *ExpenseUseCase) observe(state domain.ExpenseState) {
	if uc.metrics != nil {
		uc.metrics.ExpenseTransitions.WithLabelValues(string(state)).Inc()
	}
}

func expensePayload(e *domain.Expense) map[string]any {
	payload := map[string]any{
		"expense_id":   e.ID,
		"account_code": e.AccountCode,
		"amount":       e.Amount.StringFixed(domain.MinorUnits),
		"state":        string(e.State),
		"requested_by": e.RequestedBy,
	}
	if e.PaidJournalEntryID != nil {
		payload["journal_entry_id"] = *e.PaidJournalEntryID
	}
	return payload
}
