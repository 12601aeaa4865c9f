package usecase

import (
	"context"
	"time"

	"github.com/iho/treasury/internal/domain"
)

// recorder writes the outbox event and audit row that accompany every
// state change, inside the caller's transaction.
type recorder struct {
	outboxRepo OutboxRepository
	auditRepo  AuditRepository
	idGen      IDGenerator
}

func (r recorder) event(ctx context.Context, tx Transaction, aggregateType, aggregateID, eventType string, payload map[string]any, now time.Time) error {
	if r.outboxRepo == nil {
		return nil
	}

	return r.outboxRepo.Create(ctx, tx, &domain.OutboxEvent{
		ID:            r.idGen.Generate(),
		AggregateID:   aggregateID,
		AggregateType: aggregateType,
		EventType:     eventType,
		Payload:       payload,
		CreatedAt:     now,
		Published:     false,
	})
}

func (r recorder) audit(ctx context.Context, tx Transaction, action domain.AuditAction, resourceType, resourceID string, before, after any, now time.Time) error {
	if r.auditRepo == nil {
		return nil
	}

	return r.auditRepo.CreateTx(ctx, tx, &domain.AuditLog{
		ID:           r.idGen.Generate(),
		ActorID:      domain.ActorID(ctx, systemActor),
		Action:       string(action),
		ResourceType: resourceType,
		ResourceID:   resourceID,
		RequestID:    domain.RequestIDFromContext(ctx),
		BeforeState:  domain.MarshalState(before),
		AfterState:   domain.MarshalState(after),
		Status:       string(domain.AuditStatusSuccess),
		CreatedAt:    now,
	})
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
