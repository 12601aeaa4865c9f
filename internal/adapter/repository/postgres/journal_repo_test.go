package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"

	"github.com/iho/treasury/internal/domain"
)

var (
	entryColumnNames = []string{"id", "sequence", "posted_at", "memo", "source_type", "source_id", "idempotency_key", "created_by"}
	lineColumnNames  = []string{"entry_id", "line_no", "account_code", "amount", "memo", "balance_after"}
)

func TestJournalRepository_Create(t *testing.T) {
	ctx := context.Background()
	pool := newMockPool(t)
	tx := beginMockTx(t, pool)

	entry := &domain.JournalEntry{
		ID:       "je-1",
		PostedAt: fixedTime,
		Memo:     "Sunday offering",
		Source:   domain.SourceRef{Type: domain.SourceTypeContributionBatch, ID: "batch-1"},
		Lines: []domain.JournalLine{
			{LineNo: 1, AccountCode: "1000", Amount: decimal.RequireFromString("150.00"), BalanceAfter: decimal.RequireFromString("150.00")},
			{LineNo: 2, AccountCode: "4100", Amount: decimal.RequireFromString("-150.00"), BalanceAfter: decimal.RequireFromString("-150.00")},
		},
	}

	pool.ExpectQuery("INSERT INTO journal_entries").
		WithArgs("je-1", pgxmock.AnyArg(), "Sunday offering", "contribution_batch", "batch-1", (*string)(nil), (*string)(nil)).
		WillReturnRows(pool.NewRows([]string{"sequence"}).AddRow(int64(17)))
	pool.ExpectExec("INSERT INTO journal_lines .* VALUES \\(\\$1, \\$2, \\$3, \\$4, \\$5, \\$6\\), \\(\\$7").
		WithArgs(
			"je-1", 1, "1000", pgxmock.AnyArg(), (*string)(nil), pgxmock.AnyArg(),
			"je-1", 2, "4100", pgxmock.AnyArg(), (*string)(nil), pgxmock.AnyArg(),
		).
		WillReturnResult(pgxmock.NewResult("INSERT", 2))

	if err := newJournalRepository(pool).Create(ctx, tx, entry); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if entry.Sequence != 17 {
		t.Fatalf("expected sequence 17, got %d", entry.Sequence)
	}
	assertExpectations(t, pool)
}

func TestJournalRepository_GetByID(t *testing.T) {
	ctx := context.Background()

	t.Run("loads lines", func(t *testing.T) {
		pool := newMockPool(t)
		memo := "hymn books"

		pool.ExpectQuery("FROM journal_entries e WHERE e.id").
			WithArgs("je-2").
			WillReturnRows(pool.NewRows(entryColumnNames).AddRow(
				"je-2", int64(3), ts(fixedTime), "Expense exp-1", "expense", "exp-1", strPtr("pay-1"), strPtr("treasurer-1"),
			))
		pool.ExpectQuery("FROM journal_lines").
			WithArgs([]string{"je-2"}).
			WillReturnRows(pool.NewRows(lineColumnNames).
				AddRow("je-2", 1, "5300", num("40.00"), &memo, num("40.00")).
				AddRow("je-2", 2, "1000", num("-40.00"), (*string)(nil), num("110.00")))

		entry, err := newJournalRepository(pool).GetByID(ctx, "je-2")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if entry.Source.Type != domain.SourceTypeExpense || entry.Source.ID != "exp-1" {
			t.Fatalf("unexpected source: %+v", entry.Source)
		}
		if entry.IdempotencyKey == nil || *entry.IdempotencyKey != "pay-1" {
			t.Fatalf("unexpected idempotency key: %v", entry.IdempotencyKey)
		}
		if len(entry.Lines) != 2 {
			t.Fatalf("expected 2 lines, got %d", len(entry.Lines))
		}
		if !entry.Lines[1].Amount.Equal(decimal.RequireFromString("-40")) || !entry.Lines[1].BalanceAfter.Equal(decimal.RequireFromString("110")) {
			t.Fatalf("unexpected second line: %+v", entry.Lines[1])
		}
		if entry.Lines[0].Memo == nil || *entry.Lines[0].Memo != memo {
			t.Fatalf("unexpected line memo")
		}
		assertExpectations(t, pool)
	})

	t.Run("not found", func(t *testing.T) {
		pool := newMockPool(t)
		pool.ExpectQuery("FROM journal_entries e WHERE e.id").
			WithArgs("missing").
			WillReturnError(pgx.ErrNoRows)

		_, err := newJournalRepository(pool).GetByID(ctx, "missing")
		if !errors.Is(err, domain.ErrEntryNotFound) {
			t.Fatalf("expected ErrEntryNotFound, got %v", err)
		}
	})
}

func TestJournalRepository_ListByAccount(t *testing.T) {
	ctx := context.Background()
	pool := newMockPool(t)
	code := "1000"

	pool.ExpectQuery("EXISTS \\(SELECT 1 FROM journal_lines l WHERE l.entry_id = e.id AND l.account_code = \\$1\\) ORDER BY e.sequence LIMIT \\$2 OFFSET \\$3").
		WithArgs("1000", 50, 0).
		WillReturnRows(pool.NewRows(entryColumnNames))

	entries, err := newJournalRepository(pool).List(ctx, domain.EntryFilter{AccountCode: &code, Limit: 50})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected no entries, got %d", len(entries))
	}
	assertExpectations(t, pool)
}

func TestJournalRepository_BalanceAt(t *testing.T) {
	ctx := context.Background()
	pool := newMockPool(t)

	pool.ExpectQuery("SUM\\(l.amount\\)").
		WithArgs("1000", pgxmock.AnyArg()).
		WillReturnRows(pool.NewRows([]string{"sum"}).AddRow(num("75.50")))

	balance, err := newJournalRepository(pool).BalanceAt(ctx, "1000", fixedTime)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !balance.Equal(decimal.RequireFromString("75.50")) {
		t.Fatalf("expected 75.50, got %s", balance)
	}
	assertExpectations(t, pool)
}

func TestJournalRepository_ActivityByAccount(t *testing.T) {
	ctx := context.Background()
	pool := newMockPool(t)
	from := fixedTime
	to := fixedTime.AddDate(1, 0, 0)

	pool.ExpectQuery("WHERE e.posted_at >= \\$1 AND e.posted_at < \\$2\\s+GROUP BY l.account_code").
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnRows(pool.NewRows([]string{"account_code", "sum"}).
			AddRow("1000", num("260.00")).
			AddRow("4100", num("-650.00")))

	activity, err := newJournalRepository(pool).ActivityByAccount(ctx, &from, &to)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(activity) != 2 || !activity["4100"].Equal(decimal.RequireFromString("-650")) {
		t.Fatalf("unexpected activity: %v", activity)
	}
	assertExpectations(t, pool)
}

func TestLedgerRepository_CheckConsistency(t *testing.T) {
	ctx := context.Background()
	pool := newMockPool(t)

	pool.ExpectQuery("SUM\\(balance\\)").
		WillReturnRows(pool.NewRows([]string{"balances", "amounts"}).AddRow(num("0.01"), num("0")))

	balances, amounts, err := newLedgerRepository(pool).CheckConsistency(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !balances.Equal(decimal.RequireFromString("0.01")) || !amounts.IsZero() {
		t.Fatalf("unexpected sums: %s %s", balances, amounts)
	}
	assertExpectations(t, pool)
}
