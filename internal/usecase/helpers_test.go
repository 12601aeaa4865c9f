package usecase_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/iho/treasury/internal/domain"
	"github.com/iho/treasury/internal/usecase"
	"github.com/iho/treasury/internal/usecase/mocks"
)

// testLedger wires every use case to one shared in-memory store.
type testLedger struct {
	txManager   *mocks.MockTransactionManager
	retrier     *mocks.MockRetrier
	accounts    *mocks.MockAccountRepository
	journal     *mocks.MockJournalRepository
	batches     *mocks.MockContributionRepository
	expenses    *mocks.MockExpenseRepository
	budgets     *mocks.MockBudgetRepository
	idempotency *mocks.MockIdempotencyRepository
	outbox      *mocks.MockOutboxRepository
	audit       *mocks.MockAuditRepository
	cache       *mocks.MockCache

	guard         *usecase.IdempotencyGuard
	journalUC     *usecase.JournalUseCase
	accountUC     *usecase.AccountUseCase
	balanceUC     *usecase.BalanceUseCase
	contributions *usecase.ContributionUseCase
	expenseUC     *usecase.ExpenseUseCase
	budgetUC      *usecase.BudgetUseCase
	ledgerUC      *usecase.LedgerUseCase
}

func newTestLedger(t *testing.T) *testLedger {
	t.Helper()

	l := &testLedger{
		txManager:   mocks.NewMockTransactionManager(),
		retrier:     mocks.NewMockRetrier(),
		accounts:    mocks.NewMockAccountRepository(),
		journal:     mocks.NewMockJournalRepository(),
		batches:     mocks.NewMockContributionRepository(),
		expenses:    mocks.NewMockExpenseRepository(),
		budgets:     mocks.NewMockBudgetRepository(),
		idempotency: mocks.NewMockIdempotencyRepository(),
		outbox:      mocks.NewMockOutboxRepository(),
		audit:       mocks.NewMockAuditRepository(),
		cache:       mocks.NewMockCache(),
	}
	idGen := mocks.NewMockIDGenerator()
	defaults := usecase.DefaultPostingDefaults()

	l.guard = usecase.NewIdempotencyGuard(l.idempotency, usecase.DefaultIdempotencyRetention, nil)
	l.journalUC = usecase.NewJournalUseCase(l.txManager, l.retrier, l.accounts, l.journal, l.guard, l.outbox, l.audit, idGen, nil)
	l.accountUC = usecase.NewAccountUseCase(l.txManager, l.accounts, l.expenses, defaults, l.outbox, l.audit, idGen, nil)
	l.balanceUC = usecase.NewBalanceUseCase(l.txManager, l.retrier, l.accounts, l.journal, l.outbox, l.audit, idGen, nil)
	l.contributions = usecase.NewContributionUseCase(l.txManager, l.retrier, l.batches, l.journalUC, l.guard, defaults, l.outbox, l.audit, idGen, nil)
	l.expenseUC = usecase.NewExpenseUseCase(l.txManager, l.retrier, l.accounts, l.expenses, l.journalUC, l.guard, defaults, l.outbox, l.audit, idGen, nil)
	l.budgetUC = usecase.NewBudgetUseCase(l.txManager, l.accounts, l.budgets, l.journal, l.cache, l.outbox, l.audit, idGen)
	l.ledgerUC = usecase.NewLedgerUseCase(mocks.NewMockLedgerRepository(l.accounts, l.journal))

	return l
}

// seedChart creates the standard chart of accounts through the registry.
func (l *testLedger) seedChart(t *testing.T) {
	t.Helper()

	chart := []usecase.CreateAccountInput{
		{Code: "1000", Name: "Cash on hand", Type: domain.AccountTypeAsset},
		{Code: "1010", Name: "Bank account", Type: domain.AccountTypeAsset},
		{Code: "2000", Name: "Payables", Type: domain.AccountTypeLiability},
		{Code: "3000", Name: "Opening balance", Type: domain.AccountTypeEquity},
		{Code: "4100", Name: "Member contributions", Type: domain.AccountTypeIncome},
		{Code: "4200", Name: "Donations", Type: domain.AccountTypeIncome},
		{Code: "5300", Name: "Supplies", Type: domain.AccountTypeExpense},
		{Code: "5400", Name: "Rent", Type: domain.AccountTypeExpense},
	}
	for _, in := range chart {
		_, err := l.accountUC.CreateAccount(context.Background(), in)
		require.NoError(t, err, "seeding %s", in.Code)
	}
}

func (l *testLedger) balance(t *testing.T, code string) decimal.Decimal {
	t.Helper()
	b, err := l.balanceUC.GetBalance(context.Background(), code, nil)
	require.NoError(t, err)
	return b.Balance
}

func (l *testLedger) requireReplayConsistent(t *testing.T) {
	t.Helper()
	report, err := l.balanceUC.VerifyBalances(context.Background())
	require.NoError(t, err)
	require.Empty(t, report.Discrepancies, "cached balances diverged from the journal")

	consistency, err := l.ledgerUC.CheckConsistency(context.Background())
	require.NoError(t, err)
	require.True(t, consistency.Consistent)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func line(code, amount string) domain.JournalLine {
	return domain.JournalLine{AccountCode: code, Amount: dec(amount)}
}

func asActor(id string, role domain.Role) context.Context {
	return domain.ContextWithActor(context.Background(), &domain.Actor{ID: id, Role: role})
}

func requireDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	require.Truef(t, dec(want).Equal(got), "want %s, got %s", want, got)
}
