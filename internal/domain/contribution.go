package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ContributionMethod is how a contribution was received.
type ContributionMethod string

const (
	ContributionMethodCash       ContributionMethod = "cash"
	ContributionMethodElectronic ContributionMethod = "electronic"
)

// ContributionMethods lists methods in posting order.
var ContributionMethods = []ContributionMethod{
	ContributionMethodCash,
	ContributionMethodElectronic,
}

// IsValid reports whether m is a known method.
func (m ContributionMethod) IsValid() bool {
	return m == ContributionMethodCash || m == ContributionMethodElectronic
}

// BatchStatus is the lifecycle state of a contribution batch.
type BatchStatus string

const (
	BatchStatusDraft  BatchStatus = "draft"
	BatchStatusPosted BatchStatus = "posted"
)

// ContributionEntry is one contribution inside a batch.
type ContributionEntry struct {
	Amount      decimal.Decimal
	Method      ContributionMethod
	Note        *string
	Contributor *string
}

// ContributionBatch groups contributions collected together, typically at
// one meeting occurrence.
type ContributionBatch struct {
	ID                   string
	OccurrenceRef        *string
	Entries              []ContributionEntry
	Status               BatchStatus
	PostedJournalEntryID *string
	PostedAt             *time.Time
	CreatedBy            *string
	Version              int64
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// IsPosted reports whether the batch already has a journal entry.
func (b *ContributionBatch) IsPosted() bool {
	return b.PostedJournalEntryID != nil
}

// Total returns the sum of all contribution amounts.
func (b *ContributionBatch) Total() decimal.Decimal {
	total := decimal.Zero
	for _, e := range b.Entries {
		total = total.Add(e.Amount)
	}
	return total
}

// TotalsByMethod returns the batch total per contribution method.
func (b *ContributionBatch) TotalsByMethod() map[ContributionMethod]decimal.Decimal {
	totals := make(map[ContributionMethod]decimal.Decimal)
	for _, e := range b.Entries {
		totals[e.Method] = totals[e.Method].Add(e.Amount)
	}
	return totals
}

// BatchFilter narrows batch listings.
type BatchFilter struct {
	Status        *BatchStatus
	OccurrenceRef *string
	Limit         int
	Offset        int
}
