package domain

import (
	"encoding/json"
	"time"
)

// AuditLog represents an audit trail entry for compliance and debugging
type AuditLog struct {
	ID           string
	ActorID      string // Who performed the action
	Action       string // What action (journal.post, expense.approve, etc.)
	ResourceType string // Type of resource (journal_entry, expense, account)
	ResourceID   string
	RequestID    string // Request ID for tracing
	BeforeState  JSON
	AfterState   JSON
	Status       string // success, failure
	ErrorMessage string
	CreatedAt    time.Time
}

// JSON is a type alias for JSON data
type JSON map[string]any

// AuditAction represents different types of auditable actions
type AuditAction string

const (
	AuditActionAccountCreate     AuditAction = "account.create"
	AuditActionAccountDeactivate AuditAction = "account.deactivate"
	AuditActionAccountActivate   AuditAction = "account.activate"

	AuditActionJournalPost AuditAction = "journal.post"

	AuditActionBatchCreate AuditAction = "contribution.create"
	AuditActionBatchPost   AuditAction = "contribution.post"

	AuditActionExpenseClaim   AuditAction = "expense.claim"
	AuditActionExpenseApprove AuditAction = "expense.approve"
	AuditActionExpenseReject  AuditAction = "expense.reject"
	AuditActionExpensePay     AuditAction = "expense.pay"

	AuditActionFiscalYearCreate AuditAction = "fiscal_year.create"
	AuditActionBudgetLineSet    AuditAction = "budget.set_line"

	AuditActionBalancesRebuild AuditAction = "ledger.rebuild_balances"
)

// AuditStatus represents the status of an audited action
type AuditStatus string

const (
	AuditStatusSuccess AuditStatus = "success"
	AuditStatusFailure AuditStatus = "failure"
)

// MarshalState converts a domain object to JSON for audit logging
func MarshalState(v any) JSON {
	if v == nil {
		return nil
	}

	data, err := json.Marshal(v)
	if err != nil {
		return JSON{"error": "failed to marshal state"}
	}

	var result JSON
	if err := json.Unmarshal(data, &result); err != nil {
		return JSON{"error": "failed to unmarshal state"}
	}

	return result
}

// AuditFilter defines filters for querying audit logs
type AuditFilter struct {
	ActorID      string
	Action       string
	ResourceType string
	ResourceID   string
	StartDate    *time.Time
	EndDate      *time.Time
	Limit        int
	Offset       int
}
