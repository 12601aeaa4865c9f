package usecase

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/treasury/internal/domain"
	"github.com/iho/treasury/internal/infrastructure/metrics"
)

// PostEntryInput is a request to post a journal entry.
type PostEntryInput struct {
	Lines          []domain.JournalLine
	Memo           string
	Source         domain.SourceRef
	IdempotencyKey string
}

// PostEntryResult is the posted entry. Replayed is set when the entry was
// produced by an earlier request under the same idempotency key.
type PostEntryResult struct {
	Entry    *domain.JournalEntry
	Replayed bool
}

// JournalUseCase is the only writer of journal entries.
type JournalUseCase struct {
	txManager   TransactionManager
	retrier     Retrier
	accountRepo AccountRepository
	journalRepo JournalRepository
	idempotency *IdempotencyGuard
	recorder    recorder
	metrics     *metrics.Metrics
}

func NewJournalUseCase(
	txManager TransactionManager,
	retrier Retrier,
	accountRepo AccountRepository,
	journalRepo JournalRepository,
	idempotency *IdempotencyGuard,
	outboxRepo OutboxRepository,
	auditRepo AuditRepository,
	idGen IDGenerator,
	metrics *metrics.Metrics,
) *JournalUseCase {
	return &JournalUseCase{
		txManager:   txManager,
		retrier:     retrier,
		accountRepo: accountRepo,
		journalRepo: journalRepo,
		idempotency: idempotency,
		recorder: recorder{
			outboxRepo: outboxRepo,
			auditRepo:  auditRepo,
			idGen:      idGen,
		},
		metrics: metrics,
	}
}

// PostEntry validates and posts a balanced entry, updating the cached
// balance of every account it touches in the same transaction.
func (uc *JournalUseCase) PostEntry(ctx context.Context, in PostEntryInput) (*PostEntryResult, error) {
	if in.Source.Type == "" {
		in.Source.Type = domain.SourceTypeManual
	}
	if err := validatePostInput(in); err != nil {
		uc.observeError(err)
		return nil, err
	}

	req := &idempotencyRequest{
		Key:   in.IdempotencyKey,
		Scope: domain.IdempotencyScopeJournalPost,
		Hash:  hashPostInput(in),
	}

	var result *PostEntryResult
	err := uc.retrier.Retry(ctx, func() error {
		r, err := uc.postOnce(ctx, in, req)
		if err != nil {
			return err
		}
		result = r
		return nil
	})
	if errors.Is(err, ErrIdempotencyKeyTaken) {
		return uc.replay(ctx, req)
	}
	if err != nil {
		uc.observeError(err)
		return nil, err
	}

	return result, nil
}

func (uc *JournalUseCase) postOnce(ctx context.Context, in PostEntryInput, req *idempotencyRequest) (*PostEntryResult, error) {
	start := time.Now()

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	if req.enabled() {
		rec, err := uc.idempotency.lookup(txCtx, tx, req)
		if err != nil {
			return nil, err
		}
		if rec != nil {
			entry, err := uc.journalRepo.GetByID(txCtx, rec.ResultJournalEntryID)
			if err != nil {
				return nil, err
			}
			return &PostEntryResult{Entry: entry, Replayed: true}, nil
		}
	}

	entry, err := uc.postInTx(txCtx, tx, in, req)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	uc.observePosted(entry, time.Since(start))

	return &PostEntryResult{Entry: entry}, nil
}

// postInTx writes the entry inside tx. Workflows that post on behalf of a
// batch or an expense call it within their own transaction. in must
// already be validated.
func (uc *JournalUseCase) postInTx(ctx context.Context, tx Transaction, in PostEntryInput, req *idempotencyRequest) (*domain.JournalEntry, error) {
	entry := &domain.JournalEntry{
		ID:        uc.recorder.idGen.Generate(),
		Memo:      in.Memo,
		Source:    in.Source,
		CreatedBy: optional(domain.ActorID(ctx, "")),
	}

	// The key is claimed before any lock is taken so a concurrent request
	// under the same key waits on the unique index, not on account rows.
	if req.enabled() {
		if err := uc.idempotency.claim(ctx, tx, req, entry.ID, time.Now().UTC()); err != nil {
			return nil, err
		}
		entry.IdempotencyKey = &req.Key
	}

	codes := distinctCodes(in.Lines)
	slices.Sort(codes)

	accounts, err := uc.accountRepo.GetByCodesForUpdate(ctx, tx, codes)
	if err != nil {
		return nil, err
	}

	// Stamped under the account locks, so entries touching an account are
	// in the same order by posted_at as by sequence.
	now := time.Now().UTC()
	entry.PostedAt = now

	balances := make(map[string]decimal.Decimal, len(accounts))
	for _, acc := range accounts {
		if acc.Active {
			balances[acc.Code] = acc.Balance
		}
	}
	for _, code := range codes {
		if _, ok := balances[code]; !ok {
			return nil, fmt.Errorf("%w: %s", domain.ErrUnknownOrInactiveAccount, code)
		}
	}

	entry.Lines = make([]domain.JournalLine, len(in.Lines))
	for i, l := range in.Lines {
		balances[l.AccountCode] = balances[l.AccountCode].Add(l.Amount)
		entry.Lines[i] = domain.JournalLine{
			LineNo:       i + 1,
			AccountCode:  l.AccountCode,
			Amount:       l.Amount,
			Memo:         l.Memo,
			BalanceAfter: balances[l.AccountCode],
		}
	}

	if err := uc.journalRepo.Create(ctx, tx, entry); err != nil {
		return nil, err
	}

	for _, code := range codes {
		if err := uc.accountRepo.UpdateBalance(ctx, tx, code, balances[code], now); err != nil {
			return nil, err
		}
	}

	payload := map[string]any{
		"entry_id":    entry.ID,
		"sequence":    entry.Sequence,
		"source_type": string(entry.Source.Type),
		"source_id":   entry.Source.ID,
		"total":       debitTotal(entry.Lines).StringFixed(domain.MinorUnits),
		"line_count":  len(entry.Lines),
		"posted_at":   entry.PostedAt,
	}
	if err := uc.recorder.event(ctx, tx, domain.AggregateTypeJournalEntry, entry.ID, domain.EventTypeJournalEntryPosted, payload, now); err != nil {
		return nil, err
	}

	if err := uc.recorder.audit(ctx, tx, domain.AuditActionJournalPost, domain.AggregateTypeJournalEntry, entry.ID, nil, entry, now); err != nil {
		return nil, err
	}

	return entry, nil
}

// replay returns the committed outcome after a concurrent request won the
// race for the same key.
func (uc *JournalUseCase) replay(ctx context.Context, req *idempotencyRequest) (*PostEntryResult, error) {
	rec, err := uc.idempotency.resolve(ctx, req)
	if err != nil {
		return nil, err
	}

	entry, err := uc.journalRepo.GetByID(ctx, rec.ResultJournalEntryID)
	if err != nil {
		return nil, err
	}

	return &PostEntryResult{Entry: entry, Replayed: true}, nil
}

// GetEntry returns a journal entry with its lines.
func (uc *JournalUseCase) GetEntry(ctx context.Context, id string) (*domain.JournalEntry, error) {
	return uc.journalRepo.GetByID(ctx, id)
}

// ListEntries returns entries ordered by sequence.
func (uc *JournalUseCase) ListEntries(ctx context.Context, filter domain.EntryFilter) ([]*domain.JournalEntry, error) {
	if filter.From != nil && filter.To != nil && !filter.From.Before(*filter.To) {
		return nil, domain.ErrInvalidDateRange
	}
	filter.Limit, filter.Offset = domain.ValidatePagination(filter.Limit, filter.Offset)
	return uc.journalRepo.List(ctx, filter)
}

// ReverseEntry posts a new entry that negates every line of the original.
// The original is left untouched.
func (uc *JournalUseCase) ReverseEntry(ctx context.Context, entryID, memo, idempotencyKey string) (*PostEntryResult, error) {
	original, err := uc.journalRepo.GetByID(ctx, entryID)
	if err != nil {
		return nil, err
	}

	if memo == "" {
		memo = fmt.Sprintf("Reversal of entry %s", original.ID)
	}

	return uc.PostEntry(ctx, PostEntryInput{
		Lines:          original.Reversed(),
		Memo:           memo,
		Source:         domain.SourceRef{Type: domain.SourceTypeReversal, ID: original.ID},
		IdempotencyKey: idempotencyKey,
	})
}

func (uc *JournalUseCase) observePosted(entry *domain.JournalEntry, elapsed time.Duration) {
	if uc.metrics == nil {
		return
	}
	uc.metrics.EntriesPosted.WithLabelValues(string(entry.Source.Type)).Inc()
	uc.metrics.PostDuration.Observe(elapsed.Seconds())
	uc.metrics.EntryLineCount.Observe(float64(len(entry.Lines)))
}

func (uc *JournalUseCase) observeError(err error) {
	if uc.metrics != nil {
		uc.metrics.PostingErrors.WithLabelValues(domain.CodeOf(err)).Inc()
	}
}

func validatePostInput(in PostEntryInput) error {
	if !in.Source.Type.IsValid() {
		return fmt.Errorf("%w: unknown source type %q", domain.ErrMalformedEntry, in.Source.Type)
	}
	if len(in.Memo) > domain.MaxMemoLength {
		return fmt.Errorf("%w: memo exceeds %d characters", domain.ErrMalformedEntry, domain.MaxMemoLength)
	}
	return domain.ValidateLines(in.Lines)
}

// hashPostInput fingerprints everything that determines the entry, so a
// key replayed with different lines is detected.
func hashPostInput(in PostEntryInput) string {
	parts := []string{in.Memo, string(in.Source.Type), in.Source.ID}
	for _, l := range in.Lines {
		parts = append(parts, l.AccountCode, l.Amount.StringFixed(domain.MinorUnits), deref(l.Memo))
	}
	return domain.HashRequest(parts...)
}

func distinctCodes(lines []domain.JournalLine) []string {
	seen := make(map[string]bool, len(lines))
	codes := make([]string, 0, len(lines))
	for _, l := range lines {
		if !seen[l.AccountCode] {
			seen[l.AccountCode] = true
			codes = append(codes, l.AccountCode)
		}
	}
	return codes
}

func debitTotal(lines []domain.JournalLine) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		if l.Amount.IsPositive() {
			total = total.Add(l.Amount)
		}
	}
	return total
}
