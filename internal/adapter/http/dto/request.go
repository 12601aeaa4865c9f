package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/treasury/internal/domain"
	"github.com/iho/treasury/internal/usecase"
)

// CreateAccountRequest represents a request to create an account.
type CreateAccountRequest struct {
	Code       string  `json:"code"                  validate:"required,numeric,max=10"`
	Name       string  `json:"name"                  validate:"required,max=255"`
	Type       string  `json:"type"                  validate:"required,oneof=asset liability equity income expense"`
	ParentCode *string `json:"parent_code,omitempty" validate:"omitempty,numeric,max=10"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateAccountRequest) ToUseCaseInput() usecase.CreateAccountInput {
	return usecase.CreateAccountInput{
		Code:       r.Code,
		Name:       r.Name,
		Type:       domain.AccountType(r.Type),
		ParentCode: r.ParentCode,
	}
}

// JournalLineRequest is one line of a posted entry. Positive amounts are
// debits, negative amounts credits.
type JournalLineRequest struct {
	AccountCode string          `json:"account_code"   validate:"required,numeric,max=10"`
	Amount      decimal.Decimal `json:"amount"`
	Memo        *string         `json:"memo,omitempty" validate:"omitempty,max=1000"`
}

// PostEntryRequest represents a request to post a journal entry.
type PostEntryRequest struct {
	Memo       string               `json:"memo"                  validate:"max=1000"`
	SourceType string               `json:"source_type,omitempty" validate:"omitempty,oneof=manual contribution_batch expense reversal"`
	SourceID   string               `json:"source_id,omitempty"   validate:"max=100"`
	Lines      []JournalLineRequest `json:"lines"                 validate:"required,min=2,dive"`
}

// ToUseCaseInput converts to use case input.
func (r *PostEntryRequest) ToUseCaseInput(idempotencyKey string) usecase.PostEntryInput {
	lines := make([]domain.JournalLine, len(r.Lines))
	for i, l := range r.Lines {
		lines[i] = domain.JournalLine{
			AccountCode: l.AccountCode,
			Amount:      l.Amount,
			Memo:        l.Memo,
		}
	}
	return usecase.PostEntryInput{
		Lines:          lines,
		Memo:           r.Memo,
		Source:         domain.SourceRef{Type: domain.SourceType(r.SourceType), ID: r.SourceID},
		IdempotencyKey: idempotencyKey,
	}
}

// ReverseEntryRequest optionally overrides the reversal memo.
type ReverseEntryRequest struct {
	Memo string `json:"memo" validate:"max=1000"`
}

// ContributionEntryRequest is one contribution in a batch.
type ContributionEntryRequest struct {
	Amount      decimal.Decimal `json:"amount"`
	Method      string          `json:"method"                validate:"required,oneof=cash electronic"`
	Note        *string         `json:"note,omitempty"        validate:"omitempty,max=500"`
	Contributor *string         `json:"contributor,omitempty" validate:"omitempty,max=255"`
}

// CreateBatchRequest represents a request to record a contribution batch.
type CreateBatchRequest struct {
	OccurrenceRef *string                    `json:"occurrence_ref,omitempty" validate:"omitempty,max=255"`
	Entries       []ContributionEntryRequest `json:"entries"                  validate:"required,min=1,dive"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateBatchRequest) ToUseCaseInput() usecase.CreateBatchInput {
	entries := make([]domain.ContributionEntry, len(r.Entries))
	for i, e := range r.Entries {
		entries[i] = domain.ContributionEntry{
			Amount:      e.Amount,
			Method:      domain.ContributionMethod(e.Method),
			Note:        e.Note,
			Contributor: e.Contributor,
		}
	}
	return usecase.CreateBatchInput{
		Entries:       entries,
		OccurrenceRef: r.OccurrenceRef,
	}
}

// ClaimExpenseRequest represents a request to claim an expense.
type ClaimExpenseRequest struct {
	Amount      decimal.Decimal `json:"amount"`
	AccountCode string          `json:"account_code" validate:"required,numeric,max=10"`
	Description string          `json:"description"  validate:"required,max=1000"`
	RequestedBy string          `json:"requested_by" validate:"max=255"`
}

// ToUseCaseInput converts to use case input. requestedBy replaces the body
// identity when the caller is authenticated.
func (r *ClaimExpenseRequest) ToUseCaseInput(requestedBy string) usecase.ClaimInput {
	return usecase.ClaimInput{
		Amount:      r.Amount,
		AccountCode: r.AccountCode,
		Description: r.Description,
		RequestedBy: requestedBy,
	}
}

// ApproveExpenseRequest names the approver.
type ApproveExpenseRequest struct {
	ApprovedBy string `json:"approved_by" validate:"max=255"`
}

// RejectExpenseRequest carries the rejection reason.
type RejectExpenseRequest struct {
	Reason     string  `json:"reason"                validate:"required,max=1000"`
	RejectedBy *string `json:"rejected_by,omitempty" validate:"omitempty,max=255"`
}

// CreateFiscalYearRequest represents a request to open a fiscal year.
// The end date is exclusive.
type CreateFiscalYearRequest struct {
	Name      string    `json:"name"       validate:"required,max=100"`
	StartDate time.Time `json:"start_date" validate:"required"`
	EndDate   time.Time `json:"end_date"   validate:"required"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateFiscalYearRequest) ToUseCaseInput() usecase.CreateFiscalYearInput {
	return usecase.CreateFiscalYearInput{
		Name:      r.Name,
		StartDate: r.StartDate,
		EndDate:   r.EndDate,
	}
}

// SetBudgetLineRequest sets the budgeted amount for one account.
type SetBudgetLineRequest struct {
	Amount decimal.Decimal `json:"amount"`
}
