package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// SourceType names what caused a journal entry.
type SourceType string

const (
	SourceTypeManual            SourceType = "manual"
	SourceTypeContributionBatch SourceType = "contribution_batch"
	SourceTypeExpense           SourceType = "expense"
	SourceTypeReversal          SourceType = "reversal"
)

// IsValid reports whether s is a known source type.
func (s SourceType) IsValid() bool {
	switch s {
	case SourceTypeManual, SourceTypeContributionBatch, SourceTypeExpense, SourceTypeReversal:
		return true
	}
	return false
}

// SourceRef links an entry back to the record that produced it.
type SourceRef struct {
	Type SourceType
	ID   string
}

// JournalEntry is an immutable, balanced set of lines. Amounts are signed:
// debits positive, credits negative.
type JournalEntry struct {
	ID             string
	Sequence       int64
	PostedAt       time.Time
	Memo           string
	Source         SourceRef
	Lines          []JournalLine
	IdempotencyKey *string
	CreatedBy      *string
}

// JournalLine is a single signed posting to an account.
type JournalLine struct {
	LineNo       int
	AccountCode  string
	Amount       decimal.Decimal
	Memo         *string
	BalanceAfter decimal.Decimal
}

// IsDebit reports whether the line debits its account.
func (l JournalLine) IsDebit() bool {
	return l.Amount.IsPositive()
}

// Sum returns the signed sum of all lines.
func (e *JournalEntry) Sum() decimal.Decimal {
	total := decimal.Zero
	for _, l := range e.Lines {
		total = total.Add(l.Amount)
	}
	return total
}

// AccountCodes returns the distinct account codes touched by the entry, in
// line order.
func (e *JournalEntry) AccountCodes() []string {
	seen := make(map[string]bool, len(e.Lines))
	codes := make([]string, 0, len(e.Lines))
	for _, l := range e.Lines {
		if !seen[l.AccountCode] {
			seen[l.AccountCode] = true
			codes = append(codes, l.AccountCode)
		}
	}
	return codes
}

// ValidateLines checks the structural invariants of an entry: at least two
// lines, each with an account and a non-zero amount in minor units, and a
// zero sum. Account existence is checked by the engine against the store.
func ValidateLines(lines []JournalLine) error {
	if len(lines) < 2 {
		return fmt.Errorf("%w: got %d lines", ErrMalformedEntry, len(lines))
	}

	total := decimal.Zero
	for i, l := range lines {
		if l.AccountCode == "" {
			return fmt.Errorf("%w: line %d has no account", ErrMalformedEntry, i+1)
		}
		if l.Amount.IsZero() {
			return fmt.Errorf("%w: line %d has a zero amount", ErrMalformedEntry, i+1)
		}
		if !HasMinorUnitPrecision(l.Amount) {
			return fmt.Errorf("%w: line %d amount %s", ErrInvalidAmount, i+1, l.Amount.String())
		}
		total = total.Add(l.Amount)
	}

	if !total.IsZero() {
		return fmt.Errorf("%w: residual %s", ErrUnbalancedEntry, total.StringFixed(MinorUnits))
	}

	return nil
}

// Reversed returns lines with every amount negated, for posting a
// correcting entry.
func (e *JournalEntry) Reversed() []JournalLine {
	lines := make([]JournalLine, 0, len(e.Lines))
	for _, l := range e.Lines {
		lines = append(lines, JournalLine{
			AccountCode: l.AccountCode,
			Amount:      l.Amount.Neg(),
			Memo:        l.Memo,
		})
	}
	return lines
}

// EntryFilter narrows journal entry listings.
type EntryFilter struct {
	AccountCode *string
	SourceType  *SourceType
	From        *time.Time
	To          *time.Time
	Limit       int
	Offset      int
}
