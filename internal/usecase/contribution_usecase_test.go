package usecase_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/treasury/internal/domain"
	"github.com/iho/treasury/internal/usecase"
)

func cash(amount string) domain.ContributionEntry {
	return domain.ContributionEntry{Amount: dec(amount), Method: domain.ContributionMethodCash}
}

func electronic(amount string) domain.ContributionEntry {
	return domain.ContributionEntry{Amount: dec(amount), Method: domain.ContributionMethodElectronic}
}

func TestContributionUseCase_PostBatch(t *testing.T) {
	l := newTestLedger(t)
	l.seedChart(t)
	ctx := asActor("sec-1", domain.RoleSecretary)

	batch, err := l.contributions.CreateBatch(ctx, usecase.CreateBatchInput{
		Entries: []domain.ContributionEntry{cash("100.00"), cash("50.00")},
	})
	require.NoError(t, err)
	assert.Equal(t, domain.BatchStatusDraft, batch.Status)
	assert.Equal(t, 0, l.journal.Count(), "creating a batch must not post")

	result, err := l.contributions.PostBatch(ctx, batch.ID, "sunday-1")
	require.NoError(t, err)
	assert.False(t, result.Replayed)

	entry := result.Entry
	require.Len(t, entry.Lines, 2)
	assert.Equal(t, "1000", entry.Lines[0].AccountCode)
	requireDecimal(t, "150.00", entry.Lines[0].Amount)
	assert.Equal(t, "4100", entry.Lines[1].AccountCode)
	requireDecimal(t, "-150.00", entry.Lines[1].Amount)
	assert.Equal(t, domain.SourceTypeContributionBatch, entry.Source.Type)
	assert.Equal(t, batch.ID, entry.Source.ID)

	requireDecimal(t, "150.00", l.balance(t, "1000"))
	requireDecimal(t, "-150.00", l.balance(t, "4100"))

	stored, err := l.contributions.GetBatch(context.Background(), batch.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.BatchStatusPosted, stored.Status)
	require.NotNil(t, stored.PostedJournalEntryID)
	assert.Equal(t, entry.ID, *stored.PostedJournalEntryID)

	assert.Contains(t, l.outbox.EventTypes(), domain.EventTypeBatchPosted)
	l.requireReplayConsistent(t)
}

func TestContributionUseCase_PostBatch_MixedMethods(t *testing.T) {
	l := newTestLedger(t)
	l.seedChart(t)
	ref := "2026-10-11"

	batch, err := l.contributions.CreateBatch(context.Background(), usecase.CreateBatchInput{
		Entries:       []domain.ContributionEntry{electronic("20.00"), cash("5.00"), electronic("12.50"), cash("7.25")},
		OccurrenceRef: &ref,
	})
	require.NoError(t, err)

	result, err := l.contributions.PostBatch(context.Background(), batch.ID, "mixed")
	require.NoError(t, err)

	lines := result.Entry.Lines
	require.Len(t, lines, 3)
	assert.Equal(t, "1000", lines[0].AccountCode)
	requireDecimal(t, "12.25", lines[0].Amount)
	assert.Equal(t, "1010", lines[1].AccountCode)
	requireDecimal(t, "32.50", lines[1].Amount)
	assert.Equal(t, "4100", lines[2].AccountCode)
	requireDecimal(t, "-44.75", lines[2].Amount)
	assert.Contains(t, result.Entry.Memo, ref)

	electronicOnly, err := l.contributions.CreateBatch(context.Background(), usecase.CreateBatchInput{
		Entries: []domain.ContributionEntry{electronic("9.99")},
	})
	require.NoError(t, err)
	result, err = l.contributions.PostBatch(context.Background(), electronicOnly.ID, "electronic-only")
	require.NoError(t, err)
	require.Len(t, result.Entry.Lines, 2)
	assert.Equal(t, "1010", result.Entry.Lines[0].AccountCode)
}

func TestContributionUseCase_PostBatch_Idempotency(t *testing.T) {
	l := newTestLedger(t)
	l.seedChart(t)
	ctx := context.Background()

	batch, err := l.contributions.CreateBatch(ctx, usecase.CreateBatchInput{
		Entries: []domain.ContributionEntry{cash("150.00")},
	})
	require.NoError(t, err)

	first, err := l.contributions.PostBatch(ctx, batch.ID, "post-1")
	require.NoError(t, err)

	t.Run("same key replays", func(t *testing.T) {
		again, err := l.contributions.PostBatch(ctx, batch.ID, "post-1")
		require.NoError(t, err)
		assert.True(t, again.Replayed)
		assert.Equal(t, first.Entry.ID, again.Entry.ID)
		assert.Equal(t, 1, l.journal.Count())
		requireDecimal(t, "150.00", l.balance(t, "1000"))
	})

	t.Run("new key on a posted batch", func(t *testing.T) {
		_, err := l.contributions.PostBatch(ctx, batch.ID, "post-2")
		require.ErrorIs(t, err, domain.ErrBatchAlreadyPosted)
		assert.Equal(t, 1, l.journal.Count())
	})

	t.Run("same key for another batch", func(t *testing.T) {
		other, err := l.contributions.CreateBatch(ctx, usecase.CreateBatchInput{
			Entries: []domain.ContributionEntry{cash("1.00")},
		})
		require.NoError(t, err)
		_, err = l.contributions.PostBatch(ctx, other.ID, "post-1")
		require.ErrorIs(t, err, domain.ErrIdempotencyKeyReused)
	})

	t.Run("key required", func(t *testing.T) {
		_, err := l.contributions.PostBatch(ctx, batch.ID, "")
		require.ErrorIs(t, err, domain.ErrIdempotencyKeyRequired)
	})

	l.requireReplayConsistent(t)
}

func TestContributionUseCase_PostBatch_Concurrent(t *testing.T) {
	l := newTestLedger(t)
	l.seedChart(t)

	batch, err := l.contributions.CreateBatch(context.Background(), usecase.CreateBatchInput{
		Entries: []domain.ContributionEntry{cash("40.00")},
	})
	require.NoError(t, err)

	const workers = 6
	var wg sync.WaitGroup
	ids := make([]string, workers)
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			r, err := l.contributions.PostBatch(context.Background(), batch.ID, "meeting-key")
			errs[i] = err
			if err == nil {
				ids[i] = r.Entry.ID
			}
		}(i)
	}
	wg.Wait()

	for i := 0; i < workers; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, ids[0], ids[i])
	}
	assert.Equal(t, 1, l.journal.Count())
	requireDecimal(t, "40.00", l.balance(t, "1000"))
}

func TestContributionUseCase_PostBatch_WaitsOutKeyWinner(t *testing.T) {
	l := newTestLedger(t)
	l.seedChart(t)
	ctx := context.Background()

	batch, err := l.contributions.CreateBatch(ctx, usecase.CreateBatchInput{
		Entries: []domain.ContributionEntry{cash("75.00")},
	})
	require.NoError(t, err)

	winner, err := l.contributions.PostBatch(ctx, batch.ID, "sunday")
	require.NoError(t, err)

	l.idempotency.GetTxFunc = func(context.Context, usecase.Transaction, string) (*domain.IdempotencyRecord, error) {
		return nil, nil
	}

	loser, err := l.contributions.PostBatch(ctx, batch.ID, "sunday")
	require.NoError(t, err)
	assert.True(t, loser.Replayed)
	assert.Equal(t, winner.Entry.ID, loser.Entry.ID)
	assert.True(t, loser.Batch.IsPosted())
	assert.Equal(t, 1, l.journal.Count())

	_, err = l.contributions.PostBatch(ctx, batch.ID, "monday")
	require.ErrorIs(t, err, domain.ErrBatchAlreadyPosted)
	requireDecimal(t, "75.00", l.balance(t, "1000"))
}

func TestContributionUseCase_PostBatch_RollsBack(t *testing.T) {
	l := newTestLedger(t)
	l.seedChart(t)
	ctx := context.Background()

	batch, err := l.contributions.CreateBatch(ctx, usecase.CreateBatchInput{
		Entries: []domain.ContributionEntry{cash("75.00")},
	})
	require.NoError(t, err)

	boom := errors.New("disk full")
	l.batches.MarkPostedFunc = func(context.Context, usecase.Transaction, string, string, time.Time, int64) error {
		return boom
	}

	_, err = l.contributions.PostBatch(ctx, batch.ID, "fails")
	require.ErrorIs(t, err, boom)

	assert.Equal(t, 0, l.journal.Count())
	requireDecimal(t, "0", l.balance(t, "1000"))
	requireDecimal(t, "0", l.balance(t, "4100"))
	stored, err := l.contributions.GetBatch(ctx, batch.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.BatchStatusDraft, stored.Status)

	// The key was released with the rollback, so a retry can succeed.
	l.batches.MarkPostedFunc = nil
	result, err := l.contributions.PostBatch(ctx, batch.ID, "fails")
	require.NoError(t, err)
	assert.False(t, result.Replayed)
	l.requireReplayConsistent(t)
}

func TestContributionUseCase_CreateBatch_Validation(t *testing.T) {
	tests := []struct {
		name    string
		entries []domain.ContributionEntry
		wantErr error
	}{
		{
			name:    "empty batch",
			entries: nil,
			wantErr: domain.ErrEmptyBatch,
		},
		{
			name:    "zero amount",
			entries: []domain.ContributionEntry{cash("10.00"), cash("0")},
			wantErr: domain.ErrInvalidAmount,
		},
		{
			name:    "negative amount",
			entries: []domain.ContributionEntry{cash("-5.00")},
			wantErr: domain.ErrInvalidAmount,
		},
		{
			name:    "sub-cent amount",
			entries: []domain.ContributionEntry{electronic("1.005")},
			wantErr: domain.ErrInvalidAmount,
		},
		{
			name:    "unknown method",
			entries: []domain.ContributionEntry{{Amount: decimal.NewFromInt(5), Method: "cheque"}},
			wantErr: domain.ErrInvalidContributionMethod,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := newTestLedger(t)
			_, err := l.contributions.CreateBatch(context.Background(), usecase.CreateBatchInput{Entries: tt.entries})
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestContributionUseCase_ListBatches(t *testing.T) {
	l := newTestLedger(t)
	l.seedChart(t)
	ctx := context.Background()

	var ids []string
	for i := 0; i < 3; i++ {
		b, err := l.contributions.CreateBatch(ctx, usecase.CreateBatchInput{
			Entries: []domain.ContributionEntry{cash("10.00")},
		})
		require.NoError(t, err)
		ids = append(ids, b.ID)
	}
	_, err := l.contributions.PostBatch(ctx, ids[1], "list-post")
	require.NoError(t, err)

	all, err := l.contributions.ListBatches(ctx, domain.BatchFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	posted := domain.BatchStatusPosted
	onlyPosted, err := l.contributions.ListBatches(ctx, domain.BatchFilter{Status: &posted})
	require.NoError(t, err)
	require.Len(t, onlyPosted, 1)
	assert.Equal(t, ids[1], onlyPosted[0].ID)

	_, err = l.contributions.GetBatch(ctx, "missing")
	require.ErrorIs(t, err, domain.ErrBatchNotFound)
}
