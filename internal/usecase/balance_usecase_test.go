package usecase_test

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/treasury/internal/domain"
	"github.com/iho/treasury/internal/usecase"
)

func TestBalanceUseCase_GetBalance(t *testing.T) {
	l := newTestLedger(t)
	l.seedChart(t)
	ctx := context.Background()

	first, err := l.journalUC.PostEntry(ctx, usecase.PostEntryInput{
		Lines: []domain.JournalLine{line("1000", "100.00"), line("4100", "-100.00")},
	})
	require.NoError(t, err)
	_, err = l.journalUC.PostEntry(ctx, usecase.PostEntryInput{
		Lines: []domain.JournalLine{line("1000", "50.00"), line("4100", "-50.00")},
	})
	require.NoError(t, err)

	cached, err := l.balanceUC.GetBalance(ctx, "4100", nil)
	require.NoError(t, err)
	requireDecimal(t, "-150.00", cached.Balance)
	assert.Nil(t, cached.AsOf)

	yesterday := time.Now().UTC().Add(-24 * time.Hour)
	l.journal.Backdate(first.Entry.ID, yesterday.Add(-time.Hour))

	asOf, err := l.balanceUC.GetBalance(ctx, "4100", &yesterday)
	require.NoError(t, err)
	requireDecimal(t, "-100.00", asOf.Balance)
	require.NotNil(t, asOf.AsOf)

	beforeAll := yesterday.Add(-48 * time.Hour)
	empty, err := l.balanceUC.GetBalance(ctx, "4100", &beforeAll)
	require.NoError(t, err)
	requireDecimal(t, "0", empty.Balance)

	_, err = l.balanceUC.GetBalance(ctx, "4999", nil)
	require.ErrorIs(t, err, domain.ErrAccountNotFound)
}

func TestBalanceUseCase_ListBalances(t *testing.T) {
	l := newTestLedger(t)
	l.seedChart(t)
	ctx := context.Background()

	_, err := l.journalUC.PostEntry(ctx, usecase.PostEntryInput{
		Lines: []domain.JournalLine{line("1000", "300.00"), line("1010", "200.00"), line("3000", "-500.00")},
	})
	require.NoError(t, err)
	_, err = l.journalUC.PostEntry(ctx, usecase.PostEntryInput{
		Lines: []domain.JournalLine{line("5400", "120.00"), line("1010", "-120.00")},
	})
	require.NoError(t, err)

	tb, err := l.balanceUC.ListBalances(ctx)
	require.NoError(t, err)
	assert.Len(t, tb.Accounts, 8)
	requireDecimal(t, "500.00", tb.TotalDebits)
	requireDecimal(t, "500.00", tb.TotalCredits)
	assert.True(t, tb.Balanced)
}

func TestBalanceUseCase_VerifyAndRebuild(t *testing.T) {
	l := newTestLedger(t)
	l.seedChart(t)
	ctx := context.Background()

	_, err := l.journalUC.PostEntry(ctx, usecase.PostEntryInput{
		Lines: []domain.JournalLine{line("1000", "80.00"), line("4200", "-80.00")},
	})
	require.NoError(t, err)

	// Corrupt the cache behind the engine's back.
	drifted, err := l.accounts.GetByCode(ctx, "1000")
	require.NoError(t, err)
	drifted.Balance = decimal.RequireFromString("79.99")
	l.accounts.Put(drifted)

	report, err := l.balanceUC.VerifyBalances(ctx)
	require.NoError(t, err)
	require.Len(t, report.Discrepancies, 1)
	d := report.Discrepancies[0]
	assert.Equal(t, "1000", d.AccountCode)
	requireDecimal(t, "79.99", d.RecordedBalance)
	requireDecimal(t, "80.00", d.CalculatedBalance)
	requireDecimal(t, "-0.01", d.Difference)
	assert.Equal(t, 7, report.ReconciledAccounts)

	rebuilt, err := l.balanceUC.RebuildBalances(ctx)
	require.NoError(t, err)
	require.Len(t, rebuilt.Discrepancies, 1)
	assert.Contains(t, l.outbox.EventTypes(), domain.EventTypeBalanceCacheRebuilt)

	requireDecimal(t, "80.00", l.balance(t, "1000"))
	l.requireReplayConsistent(t)

	again, err := l.balanceUC.RebuildBalances(ctx)
	require.NoError(t, err)
	assert.Empty(t, again.Discrepancies)
}

// TestBalanceUseCase_CacheMatchesReplay runs a random sequence of every
// money-moving operation and checks the cached balances against a full
// replay of the journal.
func TestBalanceUseCase_CacheMatchesReplay(t *testing.T) {
	l := newTestLedger(t)
	l.seedChart(t)
	ctx := context.Background()
	rng := rand.New(rand.NewSource(42))

	amount := func() decimal.Decimal {
		return decimal.New(int64(1+rng.Intn(50000)), -2)
	}

	for i := 0; i < 200; i++ {
		switch rng.Intn(5) {
		case 0:
			a := amount()
			_, err := l.journalUC.PostEntry(ctx, usecase.PostEntryInput{
				Lines: []domain.JournalLine{{AccountCode: "1010", Amount: a}, {AccountCode: "3000", Amount: a.Neg()}},
			})
			require.NoError(t, err)
		case 1:
			batch, err := l.contributions.CreateBatch(ctx, usecase.CreateBatchInput{
				Entries: []domain.ContributionEntry{
					{Amount: amount(), Method: domain.ContributionMethodCash},
					{Amount: amount(), Method: domain.ContributionMethodElectronic},
				},
			})
			require.NoError(t, err)
			_, err = l.contributions.PostBatch(ctx, batch.ID, batch.ID+"-post")
			require.NoError(t, err)
		case 2:
			expense, err := l.expenseUC.Claim(ctx, usecase.ClaimInput{
				Amount: amount(), AccountCode: "5300", Description: "supplies", RequestedBy: "alice",
			})
			require.NoError(t, err)
			_, err = l.expenseUC.Approve(ctx, expense.ID, "bob")
			require.NoError(t, err)
			_, err = l.expenseUC.Pay(ctx, expense.ID, expense.ID+"-pay")
			require.NoError(t, err)
		case 3:
			entries, err := l.journalUC.ListEntries(ctx, domain.EntryFilter{Limit: 1000})
			require.NoError(t, err)
			if len(entries) == 0 {
				continue
			}
			target := entries[rng.Intn(len(entries))]
			_, err = l.journalUC.ReverseEntry(ctx, target.ID, "", "reverse-"+target.ID)
			require.NoError(t, err)
		case 4:
			a := amount()
			_, err := l.journalUC.PostEntry(ctx, usecase.PostEntryInput{
				Lines: []domain.JournalLine{{AccountCode: "1000", Amount: a}, {AccountCode: "4200", Amount: a.Neg().Add(decimal.New(1, -2))}},
			})
			require.ErrorIs(t, err, domain.ErrUnbalancedEntry)
		}
	}

	l.requireReplayConsistent(t)

	tb, err := l.balanceUC.ListBalances(ctx)
	require.NoError(t, err)
	assert.True(t, tb.Balanced)
}
