package domain

import (
	"context"
	"errors"
)

// Kind classifies domain errors so callers know whether to fix input,
// inspect state, or retry.
type Kind string

const (
	KindValidation Kind = "validation"
	KindConflict   Kind = "conflict"
	KindNotFound   Kind = "not_found"
	KindTransient  Kind = "transient"
	KindInternal   Kind = "internal"

	// Raised only at the auth boundary.
	KindUnauthenticated Kind = "unauthenticated"
	KindForbidden       Kind = "forbidden"
)

// Error is a classified domain error. Sentinels are compared by identity,
// so wrap them with fmt.Errorf("%w: ...") to add detail.
type Error struct {
	Kind    Kind
	Code    string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func newError(kind Kind, code, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

var (
	// Validation errors
	ErrMalformedEntry            = newError(KindValidation, "malformed_entry", "journal entry must have at least two lines with an account and a non-zero amount")
	ErrUnbalancedEntry           = newError(KindValidation, "unbalanced_entry", "journal entry lines do not sum to zero")
	ErrInvalidAmount             = newError(KindValidation, "invalid_amount", "amount must be positive with at most two decimal places")
	ErrUnknownOrInactiveAccount  = newError(KindValidation, "unknown_or_inactive_account", "account does not exist or is inactive")
	ErrInvalidAccountCode        = newError(KindValidation, "invalid_account_code", "account code must be 1 to 10 digits")
	ErrInvalidAccountName        = newError(KindValidation, "invalid_account_name", "invalid account name")
	ErrInvalidAccountType        = newError(KindValidation, "invalid_account_type", "account type must be one of asset, liability, equity, income, expense")
	ErrParentAccountNotFound     = newError(KindValidation, "parent_account_not_found", "parent account does not exist")
	ErrParentTypeMismatch        = newError(KindValidation, "parent_type_mismatch", "parent account must have the same type")
	ErrAccountTypeMismatch       = newError(KindValidation, "account_type_mismatch", "account type is not allowed for this operation")
	ErrEmptyBatch                = newError(KindValidation, "empty_batch", "contribution batch has no entries")
	ErrInvalidContributionMethod = newError(KindValidation, "invalid_contribution_method", "contribution method must be cash or electronic")
	ErrInvalidDateRange          = newError(KindValidation, "invalid_date_range", "start date must be before end date")
	ErrInvalidFiscalYearName     = newError(KindValidation, "invalid_fiscal_year_name", "fiscal year name must be 1 to 100 characters")
	ErrMissingActor              = newError(KindValidation, "missing_actor", "acting user identity is required")
	ErrMissingReason             = newError(KindValidation, "missing_reason", "a rejection reason is required")
	ErrIdempotencyKeyRequired    = newError(KindValidation, "idempotency_key_required", "an idempotency key is required for this operation")

	// Conflict errors
	ErrDuplicateAccount       = newError(KindConflict, "duplicate_account", "an account with this code already exists")
	ErrAccountInUse           = newError(KindConflict, "account_in_use", "account is referenced by an active workflow")
	ErrBatchAlreadyPosted     = newError(KindConflict, "batch_already_posted", "contribution batch is already posted")
	ErrInvalidTransition      = newError(KindConflict, "invalid_transition", "expense state does not allow this transition")
	ErrSelfApprovalForbidden  = newError(KindConflict, "self_approval_forbidden", "an expense cannot be approved by its requester")
	ErrIdempotencyKeyReused   = newError(KindConflict, "idempotency_key_reused", "idempotency key was already used for a different request")
	ErrFiscalYearOverlap      = newError(KindConflict, "fiscal_year_overlap", "fiscal year overlaps an existing fiscal year")
	ErrDuplicateFiscalYear    = newError(KindConflict, "duplicate_fiscal_year", "a fiscal year with this name already exists")
	ErrIdempotencyKeyInFlight = newError(KindConflict, "idempotency_key_in_flight", "a request with this idempotency key is still being processed")

	// Not found errors
	ErrAccountNotFound    = newError(KindNotFound, "account_not_found", "account not found")
	ErrEntryNotFound      = newError(KindNotFound, "entry_not_found", "journal entry not found")
	ErrBatchNotFound      = newError(KindNotFound, "batch_not_found", "contribution batch not found")
	ErrExpenseNotFound    = newError(KindNotFound, "expense_not_found", "expense not found")
	ErrFiscalYearNotFound = newError(KindNotFound, "fiscal_year_not_found", "fiscal year not found")

	// Auth boundary errors
	ErrUnauthenticated  = newError(KindUnauthenticated, "unauthenticated", "authentication is required")
	ErrInvalidToken     = newError(KindUnauthenticated, "invalid_token", "invalid token")
	ErrExpiredToken     = newError(KindUnauthenticated, "expired_token", "token has expired")
	ErrInsufficientRole = newError(KindForbidden, "insufficient_role", "insufficient role for this operation")

	// Transient errors
	ErrStoreUnavailable       = newError(KindTransient, "store_unavailable", "ledger store is temporarily unavailable")
	ErrConcurrentModification = newError(KindTransient, "concurrent_modification", "record was modified concurrently")
)

// KindOf returns the kind of err, or KindInternal for unclassified errors.
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return KindTransient
	}
	return KindInternal
}

// CodeOf returns the stable code of err, or "internal_error".
func CodeOf(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrStoreUnavailable.Code
	}
	return "internal_error"
}
