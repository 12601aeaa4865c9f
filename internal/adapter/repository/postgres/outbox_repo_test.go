package postgres

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/pashagolub/pgxmock/v4"

	"github.com/iho/treasury/internal/domain"
)

var outboxColumnNames = []string{"id", "aggregate_id", "aggregate_type", "event_type", "payload", "created_at", "published", "published_at"}

func TestOutboxRepository_Create(t *testing.T) {
	ctx := context.Background()
	pool := newMockPool(t)
	tx := beginMockTx(t, pool)

	pool.ExpectExec("INSERT INTO outbox_events").
		WithArgs("ev-1", "exp-1", "expense", "expense.paid", []byte(`{"amount":"40.00"}`), pgxmock.AnyArg(), false, pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := newOutboxRepository(pool).Create(ctx, tx, &domain.OutboxEvent{
		ID:            "ev-1",
		AggregateID:   "exp-1",
		AggregateType: domain.AggregateTypeExpense,
		EventType:     domain.EventTypeExpensePaid,
		Payload:       map[string]any{"amount": "40.00"},
		CreatedAt:     fixedTime,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertExpectations(t, pool)
}

func TestOutboxRepository_GetUnpublished(t *testing.T) {
	ctx := context.Background()
	pool := newMockPool(t)

	pool.ExpectQuery("WHERE NOT published").
		WithArgs(100).
		WillReturnRows(pool.NewRows(outboxColumnNames).
			AddRow("ev-1", "je-1", "journal_entry", "journal.entry_posted", []byte(`{"sequence":1}`), ts(fixedTime), false, pgtype.Timestamptz{}))

	events, err := newOutboxRepository(pool).GetUnpublished(ctx, 100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(events) != 1 || events[0].Published || events[0].PublishedAt != nil {
		t.Fatalf("unexpected events: %+v", events)
	}
	if events[0].Payload["sequence"] != float64(1) {
		t.Fatalf("unexpected payload: %v", events[0].Payload)
	}
	assertExpectations(t, pool)
}

func TestOutboxRepository_MarkPublished(t *testing.T) {
	pool := newMockPool(t)
	pool.ExpectExec("UPDATE outbox_events SET published = TRUE").
		WithArgs("ev-1", pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	pool.ExpectExec("DELETE FROM outbox_events").
		WithArgs(pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	repo := newOutboxRepository(pool)
	if err := repo.MarkPublished(context.Background(), "ev-1", fixedTime); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := repo.DeletePublished(context.Background(), fixedTime); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertExpectations(t, pool)
}

func TestAuditRepository(t *testing.T) {
	ctx := context.Background()
	columns := []string{
		"id", "actor_id", "action", "resource_type", "resource_id", "request_id",
		"before_state", "after_state", "status", "error_message", "created_at",
	}

	t.Run("create in transaction", func(t *testing.T) {
		pool := newMockPool(t)
		tx := beginMockTx(t, pool)
		pool.ExpectExec("INSERT INTO audit_logs").
			WithArgs("al-1", "treasurer-1", "expense.approve", "expense", "exp-1", "req-1",
				[]byte(`{"state":"claimed"}`), []byte(`{"state":"approved"}`), "success", "", pgxmock.AnyArg()).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		err := newAuditRepository(pool).CreateTx(ctx, tx, &domain.AuditLog{
			ID:           "al-1",
			ActorID:      "treasurer-1",
			Action:       string(domain.AuditActionExpenseApprove),
			ResourceType: domain.AggregateTypeExpense,
			ResourceID:   "exp-1",
			RequestID:    "req-1",
			BeforeState:  domain.JSON{"state": "claimed"},
			AfterState:   domain.JSON{"state": "approved"},
			Status:       string(domain.AuditStatusSuccess),
			CreatedAt:    fixedTime,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		assertExpectations(t, pool)
	})

	t.Run("list by resource", func(t *testing.T) {
		pool := newMockPool(t)
		pool.ExpectQuery("WHERE resource_type = \\$1 AND resource_id = \\$2 ORDER BY created_at DESC, id LIMIT \\$3 OFFSET \\$4").
			WithArgs("expense", "exp-1", 50, 0).
			WillReturnRows(pool.NewRows(columns).AddRow(
				"al-1", "treasurer-1", "expense.approve", "expense", "exp-1", "req-1",
				[]byte(`{"state":"claimed"}`), []byte(nil), "success", "", ts(fixedTime),
			))

		logs, err := newAuditRepository(pool).GetByResourceID(ctx, "expense", "exp-1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(logs) != 1 || logs[0].BeforeState["state"] != "claimed" || logs[0].AfterState != nil {
			t.Fatalf("unexpected logs: %+v", logs)
		}
		assertExpectations(t, pool)
	})
}
