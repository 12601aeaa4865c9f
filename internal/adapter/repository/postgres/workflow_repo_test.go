package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"

	"github.com/iho/treasury/internal/domain"
)

var (
	batchColumnNames   = []string{"id", "occurrence_ref", "status", "posted_journal_entry_id", "posted_at", "created_by", "version", "created_at", "updated_at"}
	expenseColumnNames = []string{
		"id", "amount", "account_code", "description", "requested_by", "state",
		"approved_by", "approved_at", "rejected_by", "rejection_reason", "rejected_at",
		"paid_journal_entry_id", "paid_at", "version", "created_at", "updated_at",
	}
)

func TestContributionRepository_Create(t *testing.T) {
	ctx := context.Background()
	pool := newMockPool(t)
	tx := beginMockTx(t, pool)

	batch := &domain.ContributionBatch{
		ID:            "batch-1",
		OccurrenceRef: strPtr("2026-03-01"),
		Status:        domain.BatchStatusDraft,
		Entries: []domain.ContributionEntry{
			{Amount: decimal.RequireFromString("12.25"), Method: domain.ContributionMethodCash},
			{Amount: decimal.RequireFromString("32.50"), Method: domain.ContributionMethodElectronic, Contributor: strPtr("m-7")},
		},
		CreatedAt: fixedTime,
		UpdatedAt: fixedTime,
	}

	pool.ExpectExec("INSERT INTO contribution_batches").
		WithArgs("batch-1", strPtr("2026-03-01"), "draft", (*string)(nil), pgxmock.AnyArg(), (*string)(nil), int64(0), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	pool.ExpectExec("INSERT INTO contribution_entries").
		WithArgs(
			"batch-1", 1, pgxmock.AnyArg(), "cash", (*string)(nil), (*string)(nil),
			"batch-1", 2, pgxmock.AnyArg(), "electronic", (*string)(nil), strPtr("m-7"),
		).
		WillReturnResult(pgxmock.NewResult("INSERT", 2))

	if err := newContributionRepository(pool).Create(ctx, tx, batch); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertExpectations(t, pool)
}

func TestContributionRepository_GetByIDForUpdate(t *testing.T) {
	ctx := context.Background()

	t.Run("loads entries", func(t *testing.T) {
		pool := newMockPool(t)
		tx := beginMockTx(t, pool)

		pool.ExpectQuery("FROM contribution_batches WHERE id = \\$1 FOR UPDATE").
			WithArgs("batch-1").
			WillReturnRows(pool.NewRows(batchColumnNames).AddRow(
				"batch-1", (*string)(nil), "draft", (*string)(nil), pgtype.Timestamptz{}, strPtr("secretary-1"), int64(0), ts(fixedTime), ts(fixedTime),
			))
		pool.ExpectQuery("FROM contribution_entries").
			WithArgs([]string{"batch-1"}).
			WillReturnRows(pool.NewRows([]string{"batch_id", "amount", "method", "note", "contributor"}).
				AddRow("batch-1", num("100.00"), "cash", (*string)(nil), (*string)(nil)).
				AddRow("batch-1", num("50.00"), "cash", strPtr("envelope"), (*string)(nil)))

		batch, err := newContributionRepository(pool).GetByIDForUpdate(ctx, tx, "batch-1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if batch.IsPosted() || batch.PostedAt != nil {
			t.Fatalf("expected draft batch, got %+v", batch)
		}
		if len(batch.Entries) != 2 || !batch.Total().Equal(decimal.RequireFromString("150")) {
			t.Fatalf("unexpected entries: %+v", batch.Entries)
		}
		if batch.Entries[1].Note == nil || *batch.Entries[1].Note != "envelope" {
			t.Fatalf("expected note on second entry")
		}
		assertExpectations(t, pool)
	})

	t.Run("not found", func(t *testing.T) {
		pool := newMockPool(t)
		pool.ExpectQuery("FROM contribution_batches WHERE id").
			WithArgs("missing").
			WillReturnError(pgx.ErrNoRows)

		_, err := newContributionRepository(pool).GetByID(ctx, "missing")
		if !errors.Is(err, domain.ErrBatchNotFound) {
			t.Fatalf("expected ErrBatchNotFound, got %v", err)
		}
	})
}

func TestContributionRepository_MarkPosted(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		affected int64
		wantErr  error
	}{
		{"version matches", 1, nil},
		{"version moved", 0, domain.ErrConcurrentModification},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pool := newMockPool(t)
			tx := beginMockTx(t, pool)
			pool.ExpectExec("UPDATE contribution_batches").
				WithArgs("batch-1", "posted", "je-1", pgxmock.AnyArg(), int64(3)).
				WillReturnResult(pgxmock.NewResult("UPDATE", tt.affected))

			err := newContributionRepository(pool).MarkPosted(ctx, tx, "batch-1", "je-1", fixedTime, 3)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
			assertExpectations(t, pool)
		})
	}
}

func TestContributionRepository_ListByStatus(t *testing.T) {
	ctx := context.Background()
	pool := newMockPool(t)
	status := domain.BatchStatusPosted

	pool.ExpectQuery("WHERE status = \\$1 ORDER BY created_at DESC, id LIMIT \\$2 OFFSET \\$3").
		WithArgs("posted", 20, 40).
		WillReturnRows(pool.NewRows(batchColumnNames).AddRow(
			"batch-9", (*string)(nil), "posted", strPtr("je-9"), ts(fixedTime), (*string)(nil), int64(1), ts(fixedTime), ts(fixedTime),
		))
	pool.ExpectQuery("FROM contribution_entries").
		WithArgs([]string{"batch-9"}).
		WillReturnRows(pool.NewRows([]string{"batch_id", "amount", "method", "note", "contributor"}).
			AddRow("batch-9", num("5.00"), "electronic", (*string)(nil), (*string)(nil)))

	batches, err := newContributionRepository(pool).List(ctx, domain.BatchFilter{Status: &status, Limit: 20, Offset: 40})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(batches) != 1 || !batches[0].IsPosted() || batches[0].PostedAt == nil {
		t.Fatalf("unexpected batches: %+v", batches)
	}
	assertExpectations(t, pool)
}

func TestExpenseRepository_GetByID(t *testing.T) {
	ctx := context.Background()
	pool := newMockPool(t)

	pool.ExpectQuery("FROM expenses WHERE id").
		WithArgs("exp-1").
		WillReturnRows(pool.NewRows(expenseColumnNames).AddRow(
			"exp-1", num("40.00"), "5300", "Hymn books", "member-1", "approved",
			strPtr("treasurer-1"), ts(fixedTime), (*string)(nil), (*string)(nil), pgtype.Timestamptz{},
			(*string)(nil), pgtype.Timestamptz{}, int64(1), ts(fixedTime), ts(fixedTime),
		))

	expense, err := newExpenseRepository(pool).GetByID(ctx, "exp-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if expense.State != domain.ExpenseStateApproved {
		t.Fatalf("expected approved, got %s", expense.State)
	}
	if expense.ApprovedAt == nil || expense.RejectedAt != nil || expense.PaidAt != nil {
		t.Fatalf("unexpected timestamps: %+v", expense)
	}
	if !expense.Amount.Equal(decimal.NewFromInt(40)) {
		t.Fatalf("unexpected amount %s", expense.Amount)
	}
	assertExpectations(t, pool)
}

func TestExpenseRepository_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown account", func(t *testing.T) {
		pool := newMockPool(t)
		tx := beginMockTx(t, pool)
		pool.ExpectExec("INSERT INTO expenses").
			WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
			WillReturnError(&pgconn.PgError{Code: pgErrForeignKeyViolation})

		err := newExpenseRepository(pool).Create(ctx, tx, &domain.Expense{ID: "exp-1", AccountCode: "5999", State: domain.ExpenseStateClaimed})
		if !errors.Is(err, domain.ErrAccountNotFound) {
			t.Fatalf("expected ErrAccountNotFound, got %v", err)
		}
	})
}

func TestExpenseRepository_Update(t *testing.T) {
	ctx := context.Background()
	paidBy := "je-4"

	expense := &domain.Expense{
		ID:                 "exp-1",
		State:              domain.ExpenseStatePaid,
		ApprovedBy:         strPtr("treasurer-1"),
		ApprovedAt:         &fixedTime,
		PaidJournalEntryID: &paidBy,
		PaidAt:             &fixedTime,
		UpdatedAt:          fixedTime,
	}

	t.Run("writes", func(t *testing.T) {
		pool := newMockPool(t)
		tx := beginMockTx(t, pool)
		pool.ExpectExec("UPDATE expenses").
			WithArgs(
				"exp-1", "paid", strPtr("treasurer-1"), pgxmock.AnyArg(), (*string)(nil), (*string)(nil),
				pgxmock.AnyArg(), &paidBy, pgxmock.AnyArg(), pgxmock.AnyArg(), int64(1),
			).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		if err := newExpenseRepository(pool).Update(ctx, tx, expense, 1); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		assertExpectations(t, pool)
	})

	t.Run("stale version", func(t *testing.T) {
		pool := newMockPool(t)
		tx := beginMockTx(t, pool)
		pool.ExpectExec("UPDATE expenses").
			WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))

		err := newExpenseRepository(pool).Update(ctx, tx, expense, 1)
		if !errors.Is(err, domain.ErrConcurrentModification) {
			t.Fatalf("expected ErrConcurrentModification, got %v", err)
		}
	})
}

func TestExpenseRepository_CountOpenByAccount(t *testing.T) {
	ctx := context.Background()
	pool := newMockPool(t)
	tx := beginMockTx(t, pool)

	pool.ExpectQuery("SELECT COUNT\\(\\*\\) FROM expenses").
		WithArgs("5300", "claimed", "approved").
		WillReturnRows(pool.NewRows([]string{"count"}).AddRow(2))

	n, err := newExpenseRepository(pool).CountOpenByAccount(ctx, tx, "5300")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 open expenses, got %d", n)
	}
	assertExpectations(t, pool)
}
