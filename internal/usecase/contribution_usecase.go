package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/treasury/internal/domain"
	"github.com/iho/treasury/internal/infrastructure/metrics"
)

// ContributionUseCase records contribution batches and posts them to the
// journal.
type ContributionUseCase struct {
	txManager   TransactionManager
	retrier     Retrier
	batchRepo   ContributionRepository
	journal     *JournalUseCase
	idempotency *IdempotencyGuard
	defaults    PostingDefaults
	recorder    recorder
	metrics     *metrics.Metrics
}

func NewContributionUseCase(
	txManager TransactionManager,
	retrier Retrier,
	batchRepo ContributionRepository,
	journal *JournalUseCase,
	idempotency *IdempotencyGuard,
	defaults PostingDefaults,
	outboxRepo OutboxRepository,
	auditRepo AuditRepository,
	idGen IDGenerator,
	metrics *metrics.Metrics,
) *ContributionUseCase {
	return &ContributionUseCase{
		txManager:   txManager,
		retrier:     retrier,
		batchRepo:   batchRepo,
		journal:     journal,
		idempotency: idempotency,
		defaults:    defaults,
		recorder: recorder{
			outboxRepo: outboxRepo,
			auditRepo:  auditRepo,
			idGen:      idGen,
		},
		metrics: metrics,
	}
}

// CreateBatchInput represents input for recording a batch.
type CreateBatchInput struct {
	Entries       []domain.ContributionEntry
	OccurrenceRef *string
}

// CreateBatch records a draft batch. Nothing is posted until PostBatch.
func (uc *ContributionUseCase) CreateBatch(ctx context.Context, input CreateBatchInput) (*domain.ContributionBatch, error) {
	if len(input.Entries) == 0 {
		return nil, domain.ErrEmptyBatch
	}
	for i, e := range input.Entries {
		if err := domain.ValidateAmount(e.Amount); err != nil {
			return nil, fmt.Errorf("entry %d: %w", i+1, err)
		}
		if !e.Method.IsValid() {
			return nil, fmt.Errorf("%w: entry %d has method %q", domain.ErrInvalidContributionMethod, i+1, e.Method)
		}
	}

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	now := time.Now().UTC()
	batch := &domain.ContributionBatch{
		ID:            uc.recorder.idGen.Generate(),
		OccurrenceRef: input.OccurrenceRef,
		Entries:       input.Entries,
		Status:        domain.BatchStatusDraft,
		CreatedBy:     optional(domain.ActorID(ctx, "")),
		Version:       0,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := uc.batchRepo.Create(txCtx, tx, batch); err != nil {
		return nil, err
	}

	payload := map[string]any{
		"batch_id":    batch.ID,
		"entry_count": len(batch.Entries),
		"total":       batch.Total().StringFixed(domain.MinorUnits),
	}
	if batch.OccurrenceRef != nil {
		payload["occurrence_ref"] = *batch.OccurrenceRef
	}
	if err := uc.recorder.event(txCtx, tx, domain.AggregateTypeBatch, batch.ID, domain.EventTypeBatchCreated, payload, now); err != nil {
		return nil, err
	}
	if err := uc.recorder.audit(txCtx, tx, domain.AuditActionBatchCreate, domain.AggregateTypeBatch, batch.ID, nil, batch, now); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.ContributionBatches.WithLabelValues(string(domain.BatchStatusDraft)).Inc()
	}

	return batch, nil
}

// GetBatch returns a batch with its entries.
func (uc *ContributionUseCase) GetBatch(ctx context.Context, id string) (*domain.ContributionBatch, error) {
	return uc.batchRepo.GetByID(ctx, id)
}

// ListBatches lists batches, newest first.
func (uc *ContributionUseCase) ListBatches(ctx context.Context, filter domain.BatchFilter) ([]*domain.ContributionBatch, error) {
	filter.Limit, filter.Offset = domain.ValidatePagination(filter.Limit, filter.Offset)
	return uc.batchRepo.List(ctx, filter)
}

// PostBatchResult is a posted batch with the entry that recorded it.
type PostBatchResult struct {
	Batch    *domain.ContributionBatch
	Entry    *domain.JournalEntry
	Replayed bool
}

// PostBatch posts a draft batch to the journal: one debit per method
// present, cash before electronic, and one credit of the total to the
// contribution income account.
func (uc *ContributionUseCase) PostBatch(ctx context.Context, batchID, idempotencyKey string) (*PostBatchResult, error) {
	if idempotencyKey == "" {
		return nil, domain.ErrIdempotencyKeyRequired
	}

	req := &idempotencyRequest{
		Key:        idempotencyKey,
		Scope:      domain.IdempotencyScopeContributionPost,
		Hash:       domain.HashRequest(batchID),
		ResourceID: batchID,
	}

	var result *PostBatchResult
	err := uc.retrier.Retry(ctx, func() error {
		r, err := uc.postOnce(ctx, batchID, req)
		if err != nil {
			return err
		}
		result = r
		return nil
	})
	if errors.Is(err, ErrIdempotencyKeyTaken) {
		rec, err := uc.idempotency.resolve(ctx, req)
		if err != nil {
			return nil, err
		}
		return uc.replay(ctx, rec)
	}
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (uc *ContributionUseCase) postOnce(ctx context.Context, batchID string, req *idempotencyRequest) (*PostBatchResult, error) {
	start := time.Now()

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	batch, err := uc.batchRepo.GetByIDForUpdate(txCtx, tx, batchID)
	if err != nil {
		return nil, err
	}

	// Looked up after the batch lock so a same-key winner's record is visible.
	rec, err := uc.idempotency.lookup(txCtx, tx, req)
	if err != nil {
		return nil, err
	}
	if rec == nil && batch.IsPosted() {
		if rec, err = uc.idempotency.settled(txCtx, req); err != nil {
			return nil, err
		}
	}
	if rec != nil {
		return uc.replay(txCtx, rec)
	}

	if batch.IsPosted() {
		return nil, fmt.Errorf("%w: batch %s", domain.ErrBatchAlreadyPosted, batch.ID)
	}
	if len(batch.Entries) == 0 {
		return nil, domain.ErrEmptyBatch
	}

	in := PostEntryInput{
		Lines:  uc.batchLines(batch),
		Memo:   batchMemo(batch),
		Source: domain.SourceRef{Type: domain.SourceTypeContributionBatch, ID: batch.ID},
	}
	if err := validatePostInput(in); err != nil {
		return nil, err
	}

	entry, err := uc.journal.postInTx(txCtx, tx, in, req)
	if err != nil {
		return nil, err
	}

	before := *batch
	if err := uc.batchRepo.MarkPosted(txCtx, tx, batch.ID, entry.ID, entry.PostedAt, batch.Version); err != nil {
		return nil, err
	}
	batch.Status = domain.BatchStatusPosted
	batch.PostedJournalEntryID = &entry.ID
	batch.PostedAt = &entry.PostedAt
	batch.UpdatedAt = entry.PostedAt
	batch.Version++

	payload := map[string]any{
		"batch_id":         batch.ID,
		"journal_entry_id": entry.ID,
		"total":            batch.Total().StringFixed(domain.MinorUnits),
	}
	if err := uc.recorder.event(txCtx, tx, domain.AggregateTypeBatch, batch.ID, domain.EventTypeBatchPosted, payload, entry.PostedAt); err != nil {
		return nil, err
	}
	if err := uc.recorder.audit(txCtx, tx, domain.AuditActionBatchPost, domain.AggregateTypeBatch, batch.ID, before, batch, entry.PostedAt); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	uc.journal.observePosted(entry, time.Since(start))
	if uc.metrics != nil {
		uc.metrics.ContributionBatches.WithLabelValues(string(domain.BatchStatusPosted)).Inc()
		for method, total := range batch.TotalsByMethod() {
			uc.metrics.ContributionAmount.WithLabelValues(string(method)).Add(total.InexactFloat64())
		}
	}

	return &PostBatchResult{Batch: batch, Entry: entry}, nil
}

func (uc *ContributionUseCase) replay(ctx context.Context, rec *domain.IdempotencyRecord) (*PostBatchResult, error) {
	batch, err := uc.batchRepo.GetByID(ctx, rec.ResourceID)
	if err != nil {
		return nil, err
	}
	entry, err := uc.journal.journalRepo.GetByID(ctx, rec.ResultJournalEntryID)
	if err != nil {
		return nil, err
	}
	return &PostBatchResult{Batch: batch, Entry: entry, Replayed: true}, nil
}

func (uc *ContributionUseCase) batchLines(batch *domain.ContributionBatch) []domain.JournalLine {
	totals := batch.TotalsByMethod()
	lines := make([]domain.JournalLine, 0, len(domain.ContributionMethods)+1)

	for _, method := range domain.ContributionMethods {
		amount, ok := totals[method]
		if !ok || amount.IsZero() {
			continue
		}
		lines = append(lines, domain.JournalLine{
			AccountCode: uc.methodAccount(method),
			Amount:      amount,
		})
	}

	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Amount)
	}
	lines = append(lines, domain.JournalLine{
		AccountCode: uc.defaults.ContributionIncomeAccount,
		Amount:      total.Neg(),
	})

	return lines
}

func (uc *ContributionUseCase) methodAccount(method domain.ContributionMethod) string {
	if method == domain.ContributionMethodElectronic {
		return uc.defaults.ContributionElectronicAccount
	}
	return uc.defaults.ContributionCashAccount
}

func batchMemo(batch *domain.ContributionBatch) string {
	if batch.OccurrenceRef != nil && *batch.OccurrenceRef != "" {
		return fmt.Sprintf("Contributions %s (batch %s)", *batch.OccurrenceRef, batch.ID)
	}
	return fmt.Sprintf("Contributions (batch %s)", batch.ID)
}
