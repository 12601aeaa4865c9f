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

// AccountUseCase manages the chart of accounts.
type AccountUseCase struct {
	txManager   TransactionManager
	accountRepo AccountRepository
	expenseRepo ExpenseRepository
	defaults    PostingDefaults
	recorder    recorder
	metrics     *metrics.Metrics
}

// NewAccountUseCase creates a new AccountUseCase.
func NewAccountUseCase(
	txManager TransactionManager,
	accountRepo AccountRepository,
	expenseRepo ExpenseRepository,
	defaults PostingDefaults,
	outboxRepo OutboxRepository,
	auditRepo AuditRepository,
	idGen IDGenerator,
	metrics *metrics.Metrics,
) *AccountUseCase {
	return &AccountUseCase{
		txManager:   txManager,
		accountRepo: accountRepo,
		expenseRepo: expenseRepo,
		defaults:    defaults,
		recorder: recorder{
			outboxRepo: outboxRepo,
			auditRepo:  auditRepo,
			idGen:      idGen,
		},
		metrics: metrics,
	}
}

// CreateAccountInput represents input for creating an account.
type CreateAccountInput struct {
	Code       string
	Name       string
	Type       domain.AccountType
	ParentCode *string
}

// CreateAccount adds an account to the chart of accounts.
func (uc *AccountUseCase) CreateAccount(ctx context.Context, input CreateAccountInput) (*domain.Account, error) {
	input.Name = strings.TrimSpace(input.Name)
	if err := domain.ValidateAccountCode(input.Code); err != nil {
		return nil, err
	}
	if err := domain.ValidateAccountName(input.Name); err != nil {
		return nil, err
	}
	if !input.Type.IsValid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidAccountType, input.Type)
	}

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	if input.ParentCode != nil && *input.ParentCode != "" {
		parent, err := uc.accountRepo.GetByCode(txCtx, *input.ParentCode)
		if errors.Is(err, domain.ErrAccountNotFound) {
			return nil, fmt.Errorf("%w: %s", domain.ErrParentAccountNotFound, *input.ParentCode)
		}
		if err != nil {
			return nil, err
		}
		if parent.Type != input.Type {
			return nil, fmt.Errorf("%w: parent %s is %s", domain.ErrParentTypeMismatch, parent.Code, parent.Type)
		}
	} else {
		input.ParentCode = nil
	}

	now := time.Now().UTC()
	account := &domain.Account{
		ID:         uc.recorder.idGen.Generate(),
		Code:       input.Code,
		Name:       input.Name,
		Type:       input.Type,
		ParentCode: input.ParentCode,
		Active:     true,
		Balance:    decimal.Zero,
		Version:    0,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := uc.accountRepo.Create(txCtx, tx, account); err != nil {
		return nil, err
	}

	payload := map[string]any{
		"code": account.Code,
		"name": account.Name,
		"type": string(account.Type),
	}
	if err := uc.recorder.event(txCtx, tx, domain.AggregateTypeAccount, account.Code, domain.EventTypeAccountCreated, payload, now); err != nil {
		return nil, err
	}
	if err := uc.recorder.audit(txCtx, tx, domain.AuditActionAccountCreate, domain.AggregateTypeAccount, account.Code, nil, account, now); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.AccountsCreated.Inc()
	}

	return account, nil
}

// GetAccount retrieves an account by code.
func (uc *AccountUseCase) GetAccount(ctx context.Context, code string) (*domain.Account, error) {
	return uc.accountRepo.GetByCode(ctx, code)
}

// ListAccounts lists accounts ordered by code.
func (uc *AccountUseCase) ListAccounts(ctx context.Context, filter domain.AccountFilter) ([]*domain.Account, error) {
	if filter.Type != nil && !filter.Type.IsValid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidAccountType, *filter.Type)
	}
	filter.Limit, filter.Offset = domain.ValidatePagination(filter.Limit, filter.Offset)
	return uc.accountRepo.List(ctx, filter)
}

// DeactivateAccount stops new postings to an account. It is refused while a
// posting default or an open expense still depends on the account; past
// journal lines never block it.
func (uc *AccountUseCase) DeactivateAccount(ctx context.Context, code string) (*domain.Account, error) {
	return uc.setActive(ctx, code, false)
}

// ActivateAccount re-enables a deactivated account.
func (uc *AccountUseCase) ActivateAccount(ctx context.Context, code string) (*domain.Account, error) {
	return uc.setActive(ctx, code, true)
}

func (uc *AccountUseCase) setActive(ctx context.Context, code string, active bool) (*domain.Account, error) {
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	account, err := uc.accountRepo.GetByCodeForUpdate(txCtx, tx, code)
	if err != nil {
		return nil, err
	}

	if account.Active == active {
		return account, nil
	}

	if !active {
		if err := uc.checkUnused(txCtx, tx, code); err != nil {
			return nil, err
		}
	}

	before := *account
	now := time.Now().UTC()
	if err := uc.accountRepo.SetActive(txCtx, tx, code, active, now); err != nil {
		return nil, err
	}
	account.Active = active
	account.Version++
	account.UpdatedAt = now

	eventType, action, op := domain.EventTypeAccountActivated, domain.AuditActionAccountActivate, "activate"
	if !active {
		eventType, action, op = domain.EventTypeAccountDeactivated, domain.AuditActionAccountDeactivate, "deactivate"
	}

	if err := uc.recorder.event(txCtx, tx, domain.AggregateTypeAccount, code, eventType, map[string]any{"code": code}, now); err != nil {
		return nil, err
	}
	if err := uc.recorder.audit(txCtx, tx, action, domain.AggregateTypeAccount, code, before, account, now); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.AccountOperations.WithLabelValues(op).Inc()
	}

	return account, nil
}

func (uc *AccountUseCase) checkUnused(ctx context.Context, tx Transaction, code string) error {
	if uc.defaults.References(code) {
		return fmt.Errorf("%w: %s is a posting default", domain.ErrAccountInUse, code)
	}

	open, err := uc.expenseRepo.CountOpenByAccount(ctx, tx, code)
	if err != nil {
		return err
	}
	if open > 0 {
		return fmt.Errorf("%w: %d open expenses are charged to %s", domain.ErrAccountInUse, open, code)
	}

	return nil
}
