package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// FiscalYear is the accounting period budgets are scoped to. The range is
// half-open: StartDate inclusive, EndDate exclusive.
type FiscalYear struct {
	ID        string
	Name      string
	StartDate time.Time
	EndDate   time.Time
	CreatedAt time.Time
}

// Contains reports whether t falls inside the fiscal year.
func (f *FiscalYear) Contains(t time.Time) bool {
	return !t.Before(f.StartDate) && t.Before(f.EndDate)
}

// Overlaps reports whether two fiscal years share any instant.
func (f *FiscalYear) Overlaps(other *FiscalYear) bool {
	return f.StartDate.Before(other.EndDate) && other.StartDate.Before(f.EndDate)
}

// BudgetLine is the budgeted amount for one account in one fiscal year.
type BudgetLine struct {
	FiscalYearID   string
	AccountCode    string
	BudgetedAmount decimal.Decimal
	UpdatedAt      time.Time
}

// BudgetRow compares budget and actual activity for one account. Actual is
// expressed on the account's normal side.
type BudgetRow struct {
	AccountCode string
	AccountName string
	AccountType AccountType
	Budgeted    decimal.Decimal
	Actual      decimal.Decimal
	Variance    decimal.Decimal
	Unbudgeted  bool
}

// BudgetTotals sums budget rows of one account type.
type BudgetTotals struct {
	Budgeted decimal.Decimal
	Actual   decimal.Decimal
	Variance decimal.Decimal
}

// BudgetReport is the budget-vs-actual view of a fiscal year.
type BudgetReport struct {
	FiscalYear  *FiscalYear
	Rows        []BudgetRow
	Totals      map[AccountType]BudgetTotals
	GeneratedAt time.Time
}
