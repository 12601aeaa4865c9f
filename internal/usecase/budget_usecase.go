package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/treasury/internal/domain"
)

const (
	maxFiscalYearNameLength = 100
	fiscalYearCacheTTL      = time.Hour
)

// BudgetUseCase manages fiscal years, budget lines and the budget-vs-actual
// report.
type BudgetUseCase struct {
	txManager   TransactionManager
	accountRepo AccountRepository
	budgetRepo  BudgetRepository
	journalRepo JournalRepository
	cache       Cache
	recorder    recorder
}

func NewBudgetUseCase(
	txManager TransactionManager,
	accountRepo AccountRepository,
	budgetRepo BudgetRepository,
	journalRepo JournalRepository,
	cache Cache,
	outboxRepo OutboxRepository,
	auditRepo AuditRepository,
	idGen IDGenerator,
) *BudgetUseCase {
	return &BudgetUseCase{
		txManager:   txManager,
		accountRepo: accountRepo,
		budgetRepo:  budgetRepo,
		journalRepo: journalRepo,
		cache:       cache,
		recorder: recorder{
			outboxRepo: outboxRepo,
			auditRepo:  auditRepo,
			idGen:      idGen,
		},
	}
}

// CreateFiscalYearInput represents input for opening a fiscal year.
type CreateFiscalYearInput struct {
	Name      string
	StartDate time.Time
	EndDate   time.Time
}

// CreateFiscalYear opens a fiscal year covering [StartDate, EndDate).
func (uc *BudgetUseCase) CreateFiscalYear(ctx context.Context, input CreateFiscalYearInput) (*domain.FiscalYear, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" || len(name) > maxFiscalYearNameLength {
		return nil, domain.ErrInvalidFiscalYearName
	}
	start, end := input.StartDate.UTC(), input.EndDate.UTC()
	if !start.Before(end) {
		return nil, fmt.Errorf("%w: %s is not before %s", domain.ErrInvalidDateRange, start.Format(time.DateOnly), end.Format(time.DateOnly))
	}

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	overlapping, err := uc.budgetRepo.FindOverlapping(txCtx, tx, start, end)
	if err != nil {
		return nil, err
	}
	if len(overlapping) > 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrFiscalYearOverlap, overlapping[0].Name)
	}

	now := time.Now().UTC()
	fy := &domain.FiscalYear{
		ID:        uc.recorder.idGen.Generate(),
		Name:      name,
		StartDate: start,
		EndDate:   end,
		CreatedAt: now,
	}

	if err := uc.budgetRepo.CreateFiscalYear(txCtx, tx, fy); err != nil {
		return nil, err
	}

	payload := map[string]any{
		"fiscal_year_id": fy.ID,
		"name":           fy.Name,
		"start_date":     fy.StartDate.Format(time.DateOnly),
		"end_date":       fy.EndDate.Format(time.DateOnly),
	}
	if err := uc.recorder.event(txCtx, tx, domain.AggregateTypeFiscalYear, fy.ID, domain.EventTypeFiscalYearCreated, payload, now); err != nil {
		return nil, err
	}
	if err := uc.recorder.audit(txCtx, tx, domain.AuditActionFiscalYearCreate, domain.AggregateTypeFiscalYear, fy.ID, nil, fy, now); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	return fy, nil
}

// GetFiscalYear returns a fiscal year. Fiscal years never change once
// created, so they are served from the cache when one is configured.
func (uc *BudgetUseCase) GetFiscalYear(ctx context.Context, id string) (*domain.FiscalYear, error) {
	key := "fiscal_year:" + id

	if uc.cache != nil {
		if data, err := uc.cache.Get(ctx, key); err == nil && data != nil {
			var fy domain.FiscalYear
			if err := json.Unmarshal(data, &fy); err == nil {
				return &fy, nil
			}
		}
	}

	fy, err := uc.budgetRepo.GetFiscalYear(ctx, id)
	if err != nil {
		return nil, err
	}

	if uc.cache != nil {
		if data, err := json.Marshal(fy); err == nil {
			if err := uc.cache.Set(ctx, key, data, fiscalYearCacheTTL); err != nil {
				zerolog.Ctx(ctx).Warn().Err(err).Str("fiscal_year_id", id).Msg("failed to cache fiscal year")
			}
		}
	}

	return fy, nil
}

// ListFiscalYears lists fiscal years by start date.
func (uc *BudgetUseCase) ListFiscalYears(ctx context.Context) ([]*domain.FiscalYear, error) {
	return uc.budgetRepo.ListFiscalYears(ctx)
}

// SetBudgetLine sets the budgeted amount of an account for a fiscal year,
// replacing any previous amount.
func (uc *BudgetUseCase) SetBudgetLine(ctx context.Context, fiscalYearID, accountCode string, amount decimal.Decimal) (*domain.BudgetLine, error) {
	if err := domain.ValidateBudgetAmount(amount); err != nil {
		return nil, err
	}

	if _, err := uc.GetFiscalYear(ctx, fiscalYearID); err != nil {
		return nil, err
	}
	if _, err := uc.accountRepo.GetByCode(ctx, accountCode); err != nil {
		return nil, err
	}

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	now := time.Now().UTC()
	line := &domain.BudgetLine{
		FiscalYearID:   fiscalYearID,
		AccountCode:    accountCode,
		BudgetedAmount: amount,
		UpdatedAt:      now,
	}

	if err := uc.budgetRepo.UpsertLine(txCtx, tx, line); err != nil {
		return nil, err
	}

	payload := map[string]any{
		"fiscal_year_id":  fiscalYearID,
		"account_code":    accountCode,
		"budgeted_amount": amount.StringFixed(domain.MinorUnits),
	}
	if err := uc.recorder.event(txCtx, tx, domain.AggregateTypeFiscalYear, fiscalYearID, domain.EventTypeBudgetLineSet, payload, now); err != nil {
		return nil, err
	}
	if err := uc.recorder.audit(txCtx, tx, domain.AuditActionBudgetLineSet, domain.AggregateTypeFiscalYear, fiscalYearID, nil, line, now); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	return line, nil
}

// ListBudgetLines lists the budget lines of a fiscal year by account code.
func (uc *BudgetUseCase) ListBudgetLines(ctx context.Context, fiscalYearID string) ([]*domain.BudgetLine, error) {
	if _, err := uc.GetFiscalYear(ctx, fiscalYearID); err != nil {
		return nil, err
	}
	return uc.budgetRepo.ListLines(ctx, fiscalYearID)
}

// GetBudgetVsActual compares every budget line, and every account with
// activity in the fiscal year but no budget line, against the journal.
// Actual amounts are on each account's normal side.
func (uc *BudgetUseCase) GetBudgetVsActual(ctx context.Context, fiscalYearID string) (*domain.BudgetReport, error) {
	fy, err := uc.GetFiscalYear(ctx, fiscalYearID)
	if err != nil {
		return nil, err
	}

	lines, err := uc.budgetRepo.ListLines(ctx, fiscalYearID)
	if err != nil {
		return nil, err
	}

	activity, err := uc.journalRepo.ActivityByAccount(ctx, &fy.StartDate, &fy.EndDate)
	if err != nil {
		return nil, err
	}

	accounts, err := listAllAccounts(ctx, uc.accountRepo)
	if err != nil {
		return nil, err
	}

	return buildBudgetReport(fy, lines, activity, accounts), nil
}

func buildBudgetReport(
	fy *domain.FiscalYear,
	lines []*domain.BudgetLine,
	activity map[string]decimal.Decimal,
	accounts []*domain.Account,
) *domain.BudgetReport {
	byCode := make(map[string]*domain.Account, len(accounts))
	for _, acc := range accounts {
		byCode[acc.Code] = acc
	}

	budgeted := make(map[string]decimal.Decimal, len(lines))
	for _, l := range lines {
		budgeted[l.AccountCode] = l.BudgetedAmount
	}

	codes := make([]string, 0, len(budgeted)+len(activity))
	for code := range budgeted {
		codes = append(codes, code)
	}
	for code := range activity {
		if _, ok := budgeted[code]; !ok {
			codes = append(codes, code)
		}
	}
	slices.Sort(codes)

	report := &domain.BudgetReport{
		FiscalYear:  fy,
		Rows:        make([]domain.BudgetRow, 0, len(codes)),
		Totals:      make(map[domain.AccountType]domain.BudgetTotals),
		GeneratedAt: time.Now().UTC(),
	}

	for _, code := range codes {
		acc, ok := byCode[code]
		if !ok {
			continue
		}

		budget, hasLine := budgeted[code]
		if !hasLine {
			budget = decimal.Zero
		}
		actual := acc.Type.NormalSide(activity[code])

		row := domain.BudgetRow{
			AccountCode: code,
			AccountName: acc.Name,
			AccountType: acc.Type,
			Budgeted:    budget,
			Actual:      actual,
			Variance:    actual.Sub(budget),
			Unbudgeted:  !hasLine,
		}
		report.Rows = append(report.Rows, row)

		totals := report.Totals[acc.Type]
		totals.Budgeted = totals.Budgeted.Add(row.Budgeted)
		totals.Actual = totals.Actual.Add(row.Actual)
		totals.Variance = totals.Variance.Add(row.Variance)
		report.Totals[acc.Type] = totals
	}

	return report
}
