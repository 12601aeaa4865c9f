package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ExpenseState is the workflow state of an expense.
type ExpenseState string

const (
	ExpenseStateClaimed  ExpenseState = "claimed"
	ExpenseStateApproved ExpenseState = "approved"
	ExpenseStateRejected ExpenseState = "rejected"
	ExpenseStatePaid     ExpenseState = "paid"
)

// expenseTransitions is the complete transition table. States absent as
// keys are terminal.
var expenseTransitions = map[ExpenseState]map[ExpenseState]bool{
	ExpenseStateClaimed: {
		ExpenseStateApproved: true,
		ExpenseStateRejected: true,
	},
	ExpenseStateApproved: {
		ExpenseStatePaid:     true,
		ExpenseStateRejected: true,
	},
}

// IsValid reports whether s is a known state.
func (s ExpenseState) IsValid() bool {
	switch s {
	case ExpenseStateClaimed, ExpenseStateApproved, ExpenseStateRejected, ExpenseStatePaid:
		return true
	}
	return false
}

// IsTerminal reports whether no transition leaves s.
func (s ExpenseState) IsTerminal() bool {
	return len(expenseTransitions[s]) == 0
}

// IsOpen reports whether the expense still needs action.
func (s ExpenseState) IsOpen() bool {
	return s == ExpenseStateClaimed || s == ExpenseStateApproved
}

// CanTransition reports whether from -> to is allowed.
func CanTransition(from, to ExpenseState) bool {
	return expenseTransitions[from][to]
}

// Expense is a reimbursement or payment request moving through
// claimed -> approved -> paid, or to rejected.
type Expense struct {
	ID                 string
	Amount             decimal.Decimal
	AccountCode        string
	Description        string
	RequestedBy        string
	State              ExpenseState
	ApprovedBy         *string
	ApprovedAt         *time.Time
	RejectedBy         *string
	RejectionReason    *string
	RejectedAt         *time.Time
	PaidJournalEntryID *string
	PaidAt             *time.Time
	Version            int64
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

func (e *Expense) transition(to ExpenseState) error {
	if !CanTransition(e.State, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, e.State, to)
	}
	e.State = to
	return nil
}

// Approve moves a claimed expense to approved. The requester may never
// approve their own claim.
func (e *Expense) Approve(approvedBy string, at time.Time) error {
	if strings.TrimSpace(approvedBy) == "" {
		return ErrMissingActor
	}
	if approvedBy == e.RequestedBy {
		return ErrSelfApprovalForbidden
	}
	if err := e.transition(ExpenseStateApproved); err != nil {
		return err
	}
	e.ApprovedBy = &approvedBy
	e.ApprovedAt = &at
	e.UpdatedAt = at
	return nil
}

// Reject moves a claimed or approved expense to rejected.
func (e *Expense) Reject(reason string, rejectedBy *string, at time.Time) error {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return ErrMissingReason
	}
	if err := e.transition(ExpenseStateRejected); err != nil {
		return err
	}
	e.RejectionReason = &reason
	e.RejectedBy = rejectedBy
	e.RejectedAt = &at
	e.UpdatedAt = at
	return nil
}

// MarkPaid moves an approved expense to paid and records its entry.
func (e *Expense) MarkPaid(journalEntryID string, at time.Time) error {
	if err := e.transition(ExpenseStatePaid); err != nil {
		return err
	}
	e.PaidJournalEntryID = &journalEntryID
	e.PaidAt = &at
	e.UpdatedAt = at
	return nil
}

// PaymentLines builds the entry that settles the expense: debit the expense
// account, credit the disbursing account.
func (e *Expense) PaymentLines(disbursingAccount string) []JournalLine {
	memo := e.Description
	return []JournalLine{
		{AccountCode: e.AccountCode, Amount: e.Amount, Memo: &memo},
		{AccountCode: disbursingAccount, Amount: e.Amount.Neg()},
	}
}

// ExpenseFilter narrows expense listings.
type ExpenseFilter struct {
	State       *ExpenseState
	RequestedBy *string
	AccountCode *string
	Limit       int
	Offset      int
}
