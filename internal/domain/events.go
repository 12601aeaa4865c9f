package domain

import "time"

// Event types
const (
	EventTypeAccountCreated      = "account.created"
	EventTypeAccountDeactivated  = "account.deactivated"
	EventTypeAccountActivated    = "account.activated"
	EventTypeJournalEntryPosted  = "journal.entry_posted"
	EventTypeBatchCreated        = "contribution.batch_created"
	EventTypeBatchPosted         = "contribution.batch_posted"
	EventTypeExpenseClaimed      = "expense.claimed"
	EventTypeExpenseApproved     = "expense.approved"
	EventTypeExpenseRejected     = "expense.rejected"
	EventTypeExpensePaid         = "expense.paid"
	EventTypeBudgetLineSet       = "budget.line_set"
	EventTypeFiscalYearCreated   = "fiscal_year.created"
	EventTypeBalanceCacheRebuilt = "ledger.balances_rebuilt"
)

// Aggregate types
const (
	AggregateTypeAccount      = "account"
	AggregateTypeJournalEntry = "journal_entry"
	AggregateTypeBatch        = "contribution_batch"
	AggregateTypeExpense      = "expense"
	AggregateTypeFiscalYear   = "fiscal_year"
	AggregateTypeLedger       = "ledger"
)

// OutboxEvent represents an event to be published
type OutboxEvent struct {
	ID            string
	AggregateID   string
	AggregateType string
	EventType     string
	Payload       map[string]any
	CreatedAt     time.Time
	PublishedAt   *time.Time
	Published     bool
}
