package usecase_test

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/treasury/internal/domain"
	"github.com/iho/treasury/internal/usecase"
)

func TestJournalUseCase_PostEntry(t *testing.T) {
	tests := []struct {
		name      string
		lines     []domain.JournalLine
		setup     func(*testing.T, *testLedger)
		errorType error
	}{
		{
			name:  "balanced two-line entry",
			lines: []domain.JournalLine{line("1000", "250.00"), line("3000", "-250.00")},
		},
		{
			name:  "split entry across three accounts",
			lines: []domain.JournalLine{line("5300", "40.00"), line("5400", "60.00"), line("1000", "-100.00")},
		},
		{
			name:      "single line",
			lines:     []domain.JournalLine{line("1000", "10.00")},
			errorType: domain.ErrMalformedEntry,
		},
		{
			name:      "zero amount line",
			lines:     []domain.JournalLine{line("1000", "0"), line("3000", "0")},
			errorType: domain.ErrMalformedEntry,
		},
		{
			name:      "unbalanced",
			lines:     []domain.JournalLine{line("1000", "10.00"), line("3000", "-9.99")},
			errorType: domain.ErrUnbalancedEntry,
		},
		{
			name:      "more than two decimals",
			lines:     []domain.JournalLine{line("1000", "10.005"), line("3000", "-10.005")},
			errorType: domain.ErrInvalidAmount,
		},
		{
			name:      "unknown account",
			lines:     []domain.JournalLine{line("1000", "10.00"), line("9999", "-10.00")},
			errorType: domain.ErrUnknownOrInactiveAccount,
		},
		{
			name:  "inactive account",
			lines: []domain.JournalLine{line("2000", "10.00"), line("3000", "-10.00")},
			setup: func(t *testing.T, l *testLedger) {
				_, err := l.accountUC.DeactivateAccount(context.Background(), "2000")
				require.NoError(t, err)
			},
			errorType: domain.ErrUnknownOrInactiveAccount,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := newTestLedger(t)
			l.seedChart(t)
			if tt.setup != nil {
				tt.setup(t, l)
			}

			result, err := l.journalUC.PostEntry(context.Background(), usecase.PostEntryInput{
				Lines: tt.lines,
				Memo:  tt.name,
			})

			if tt.errorType != nil {
				require.ErrorIs(t, err, tt.errorType)
				assert.Equal(t, 0, l.journal.Count(), "rejected entry must not be stored")
				for _, ln := range tt.lines {
					if acc, err := l.accounts.GetByCode(context.Background(), ln.AccountCode); err == nil {
						assert.True(t, acc.Balance.IsZero(), "balance of %s changed", acc.Code)
					}
				}
				return
			}

			require.NoError(t, err)
			assert.False(t, result.Replayed)
			assert.Equal(t, domain.SourceTypeManual, result.Entry.Source.Type)
			assert.True(t, result.Entry.Sum().IsZero())
			for _, ln := range tt.lines {
				requireDecimal(t, ln.Amount.String(), l.balance(t, ln.AccountCode))
			}
			l.requireReplayConsistent(t)
		})
	}
}

func TestJournalUseCase_PostEntry_RecordsBalanceAfter(t *testing.T) {
	l := newTestLedger(t)
	l.seedChart(t)
	ctx := context.Background()

	_, err := l.journalUC.PostEntry(ctx, usecase.PostEntryInput{
		Lines: []domain.JournalLine{line("1000", "100.00"), line("3000", "-100.00")},
	})
	require.NoError(t, err)

	result, err := l.journalUC.PostEntry(ctx, usecase.PostEntryInput{
		Lines: []domain.JournalLine{line("1000", "20.00"), line("1000", "5.00"), line("4200", "-25.00")},
	})
	require.NoError(t, err)

	lines := result.Entry.Lines
	require.Len(t, lines, 3)
	assert.Equal(t, 1, lines[0].LineNo)
	requireDecimal(t, "120.00", lines[0].BalanceAfter)
	requireDecimal(t, "125.00", lines[1].BalanceAfter)
	requireDecimal(t, "-25.00", lines[2].BalanceAfter)
	assert.Equal(t, int64(2), result.Entry.Sequence)
}

func TestJournalUseCase_PostEntry_StampsAfterLocking(t *testing.T) {
	l := newTestLedger(t)
	l.seedChart(t)
	ctx := context.Background()

	var lockedAt time.Time
	l.accounts.GetByCodesForUpdateFunc = func(ctx context.Context, _ usecase.Transaction, codes []string) ([]*domain.Account, error) {
		// Waiting on a row lock held by another posting.
		time.Sleep(5 * time.Millisecond)
		accounts := make([]*domain.Account, 0, len(codes))
		for _, code := range codes {
			acc, err := l.accounts.GetByCode(ctx, code)
			if err != nil {
				return nil, err
			}
			accounts = append(accounts, acc)
		}
		lockedAt = time.Now().UTC()
		return accounts, nil
	}

	result, err := l.journalUC.PostEntry(ctx, usecase.PostEntryInput{
		Lines:          []domain.JournalLine{line("1000", "4.00"), line("4100", "-4.00")},
		IdempotencyKey: "stamp",
	})
	require.NoError(t, err)
	assert.False(t, result.Entry.PostedAt.Before(lockedAt), "posted_at %s precedes lock %s", result.Entry.PostedAt, lockedAt)
}

func TestJournalUseCase_PostEntry_WritesEventAndAudit(t *testing.T) {
	l := newTestLedger(t)
	l.seedChart(t)

	result, err := l.journalUC.PostEntry(asActor("treasurer-1", domain.RoleTreasurer), usecase.PostEntryInput{
		Lines: []domain.JournalLine{line("1000", "10.00"), line("3000", "-10.00")},
	})
	require.NoError(t, err)

	assert.Contains(t, l.outbox.EventTypes(), domain.EventTypeJournalEntryPosted)
	require.NotNil(t, result.Entry.CreatedBy)
	assert.Equal(t, "treasurer-1", *result.Entry.CreatedBy)

	logs, err := l.audit.List(context.Background(), domain.AuditFilter{Action: string(domain.AuditActionJournalPost)})
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, "treasurer-1", logs[0].ActorID)
	assert.Equal(t, result.Entry.ID, logs[0].ResourceID)
}

func TestJournalUseCase_PostEntry_Idempotency(t *testing.T) {
	l := newTestLedger(t)
	l.seedChart(t)
	ctx := context.Background()

	in := usecase.PostEntryInput{
		Lines:          []domain.JournalLine{line("1000", "75.00"), line("4200", "-75.00")},
		Memo:           "donation",
		IdempotencyKey: "key-1",
	}

	first, err := l.journalUC.PostEntry(ctx, in)
	require.NoError(t, err)
	assert.False(t, first.Replayed)

	second, err := l.journalUC.PostEntry(ctx, in)
	require.NoError(t, err)
	assert.True(t, second.Replayed)
	assert.Equal(t, first.Entry.ID, second.Entry.ID)

	assert.Equal(t, 1, l.journal.Count())
	requireDecimal(t, "75.00", l.balance(t, "1000"))

	t.Run("different lines under the same key", func(t *testing.T) {
		changed := in
		changed.Lines = []domain.JournalLine{line("1000", "80.00"), line("4200", "-80.00")}
		_, err := l.journalUC.PostEntry(ctx, changed)
		require.ErrorIs(t, err, domain.ErrIdempotencyKeyReused)
		assert.Equal(t, domain.KindConflict, domain.KindOf(err))
	})

	t.Run("same key in another scope", func(t *testing.T) {
		expense, err := l.expenseUC.Claim(ctx, usecase.ClaimInput{
			Amount: dec("5.00"), AccountCode: "5300", Description: "pens", RequestedBy: "alice",
		})
		require.NoError(t, err)
		_, err = l.expenseUC.Approve(ctx, expense.ID, "bob")
		require.NoError(t, err)

		_, err = l.expenseUC.Pay(ctx, expense.ID, "key-1")
		require.ErrorIs(t, err, domain.ErrIdempotencyKeyReused)
	})
}

func TestJournalUseCase_PostEntry_LosesKeyRace(t *testing.T) {
	l := newTestLedger(t)
	l.seedChart(t)
	ctx := context.Background()

	in := usecase.PostEntryInput{
		Lines:          []domain.JournalLine{line("1000", "30.00"), line("3000", "-30.00")},
		IdempotencyKey: "race",
	}
	winner, err := l.journalUC.PostEntry(ctx, in)
	require.NoError(t, err)

	// The loser does not see the winner's record until its claim collides.
	l.idempotency.GetTxFunc = func(context.Context, usecase.Transaction, string) (*domain.IdempotencyRecord, error) {
		return nil, nil
	}

	loser, err := l.journalUC.PostEntry(ctx, in)
	require.NoError(t, err)
	assert.True(t, loser.Replayed)
	assert.Equal(t, winner.Entry.ID, loser.Entry.ID)
	assert.Equal(t, 1, l.journal.Count())
	requireDecimal(t, "30.00", l.balance(t, "1000"))

	_, _, rolledBack := l.txManager.Stats()
	assert.GreaterOrEqual(t, rolledBack, 1)
}

func TestJournalUseCase_PostEntry_ConcurrentSameKey(t *testing.T) {
	l := newTestLedger(t)
	l.seedChart(t)

	in := usecase.PostEntryInput{
		Lines:          []domain.JournalLine{line("1010", "12.50"), line("4100", "-12.50")},
		IdempotencyKey: "concurrent",
	}

	const workers = 8
	ids := make([]string, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			result, err := l.journalUC.PostEntry(context.Background(), in)
			if err == nil {
				ids[i] = result.Entry.ID
			}
		}(i)
	}
	wg.Wait()

	for _, id := range ids {
		assert.Equal(t, ids[0], id)
	}
	assert.Equal(t, 1, l.journal.Count())
	requireDecimal(t, "12.50", l.balance(t, "1010"))
}

func TestJournalUseCase_PostEntry_RollsBackOnFailure(t *testing.T) {
	l := newTestLedger(t)
	l.seedChart(t)

	l.outbox.CreateFunc = func(context.Context, usecase.Transaction, *domain.OutboxEvent) error {
		return errors.New("outbox unavailable")
	}

	_, err := l.journalUC.PostEntry(context.Background(), usecase.PostEntryInput{
		Lines:          []domain.JournalLine{line("1000", "10.00"), line("3000", "-10.00")},
		IdempotencyKey: "k",
	})
	require.Error(t, err)

	assert.Equal(t, 0, l.journal.Count())
	requireDecimal(t, "0", l.balance(t, "1000"))
	rec, err := l.idempotency.Get(context.Background(), "k")
	require.NoError(t, err)
	assert.Nil(t, rec, "idempotency record must roll back with the entry")
}

func TestJournalUseCase_PostEntry_RetriesTransientFailures(t *testing.T) {
	l := newTestLedger(t)
	l.seedChart(t)

	calls := 0
	l.outbox.CreateFunc = func(context.Context, usecase.Transaction, *domain.OutboxEvent) error {
		calls++
		if calls == 1 {
			return domain.ErrConcurrentModification
		}
		return nil
	}

	result, err := l.journalUC.PostEntry(context.Background(), usecase.PostEntryInput{
		Lines: []domain.JournalLine{line("1000", "10.00"), line("3000", "-10.00")},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, l.retrier.Attempts())
	assert.Equal(t, 1, l.journal.Count())
	requireDecimal(t, "10.00", l.balance(t, result.Entry.Lines[0].AccountCode))
}

func TestJournalUseCase_ReverseEntry(t *testing.T) {
	l := newTestLedger(t)
	l.seedChart(t)
	ctx := context.Background()

	original, err := l.journalUC.PostEntry(ctx, usecase.PostEntryInput{
		Lines: []domain.JournalLine{line("5300", "42.00"), line("1000", "-42.00")},
		Memo:  "duplicate receipt",
	})
	require.NoError(t, err)

	reversal, err := l.journalUC.ReverseEntry(ctx, original.Entry.ID, "", "rev-1")
	require.NoError(t, err)

	assert.Equal(t, domain.SourceTypeReversal, reversal.Entry.Source.Type)
	assert.Equal(t, original.Entry.ID, reversal.Entry.Source.ID)
	assert.Contains(t, reversal.Entry.Memo, original.Entry.ID)
	requireDecimal(t, "0", l.balance(t, "5300"))
	requireDecimal(t, "0", l.balance(t, "1000"))

	stored, err := l.journalUC.GetEntry(ctx, original.Entry.ID)
	require.NoError(t, err)
	requireDecimal(t, "42.00", stored.Lines[0].Amount)
	assert.Equal(t, 2, l.journal.Count())

	again, err := l.journalUC.ReverseEntry(ctx, original.Entry.ID, "", "rev-1")
	require.NoError(t, err)
	assert.True(t, again.Replayed)

	_, err = l.journalUC.ReverseEntry(ctx, "missing", "", "rev-2")
	require.ErrorIs(t, err, domain.ErrEntryNotFound)
}

func TestJournalUseCase_ListEntries(t *testing.T) {
	l := newTestLedger(t)
	l.seedChart(t)
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		_, err := l.journalUC.PostEntry(ctx, usecase.PostEntryInput{
			Lines: []domain.JournalLine{line("1000", fmt.Sprintf("%d.00", i)), line("4200", fmt.Sprintf("-%d.00", i))},
		})
		require.NoError(t, err)
	}
	_, err := l.journalUC.PostEntry(ctx, usecase.PostEntryInput{
		Lines: []domain.JournalLine{line("5400", "1.00"), line("1010", "-1.00")},
	})
	require.NoError(t, err)

	code := "4200"
	entries, err := l.journalUC.ListEntries(ctx, domain.EntryFilter{AccountCode: &code})
	require.NoError(t, err)
	require.Len(t, entries, 3)
	for i, e := range entries {
		assert.Equal(t, int64(i+1), e.Sequence)
	}

	from := time.Now().Add(time.Hour)
	to := from.Add(-2 * time.Hour)
	_, err = l.journalUC.ListEntries(ctx, domain.EntryFilter{From: &from, To: &to})
	require.ErrorIs(t, err, domain.ErrInvalidDateRange)
}

// TestJournalUseCase_RandomEntries posts a random mix of valid and invalid
// entries and checks that only balanced ones are committed and the cache
// still matches a replay.
func TestJournalUseCase_RandomEntries(t *testing.T) {
	l := newTestLedger(t)
	l.seedChart(t)
	ctx := context.Background()
	rng := rand.New(rand.NewSource(7))
	codes := []string{"1000", "1010", "2000", "3000", "4100", "4200", "5300", "5400"}

	committed := 0
	for i := 0; i < 300; i++ {
		n := 2 + rng.Intn(4)
		lines := make([]domain.JournalLine, 0, n)
		sum := int64(0)
		for j := 0; j < n-1; j++ {
			cents := int64(rng.Intn(20000) - 10000)
			if cents == 0 {
				cents = 1
			}
			sum += cents
			lines = append(lines, domain.JournalLine{AccountCode: codes[rng.Intn(len(codes))], Amount: centsToDecimal(cents)})
		}
		closing := -sum
		unbalanced := rng.Intn(4) == 0
		if unbalanced {
			closing += int64(1 + rng.Intn(100))
		}
		if closing == 0 {
			continue
		}
		lines = append(lines, domain.JournalLine{AccountCode: codes[rng.Intn(len(codes))], Amount: centsToDecimal(closing)})

		result, err := l.journalUC.PostEntry(ctx, usecase.PostEntryInput{Lines: lines})
		if unbalanced {
			require.ErrorIs(t, err, domain.ErrUnbalancedEntry)
			continue
		}
		require.NoError(t, err)
		require.True(t, result.Entry.Sum().IsZero())
		committed++
	}

	assert.Equal(t, committed, l.journal.Count())
	l.requireReplayConsistent(t)
}

func centsToDecimal(cents int64) decimal.Decimal {
	return decimal.New(cents, -2)
}
