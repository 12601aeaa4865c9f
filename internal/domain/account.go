package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountType is the accounting classification of an account.
type AccountType string

const (
	AccountTypeAsset     AccountType = "asset"
	AccountTypeLiability AccountType = "liability"
	AccountTypeEquity    AccountType = "equity"
	AccountTypeIncome    AccountType = "income"
	AccountTypeExpense   AccountType = "expense"
)

var validAccountTypes = map[AccountType]bool{
	AccountTypeAsset:     true,
	AccountTypeLiability: true,
	AccountTypeEquity:    true,
	AccountTypeIncome:    true,
	AccountTypeExpense:   true,
}

// IsValid reports whether t is a known account type.
func (t AccountType) IsValid() bool {
	return validAccountTypes[t]
}

// DebitNormal reports whether balances of this type grow with debits.
func (t AccountType) DebitNormal() bool {
	return t == AccountTypeAsset || t == AccountTypeExpense
}

// NormalSide converts a signed (debit-positive) amount to the account's
// natural orientation, so a funded asset and an earned income are both positive.
func (t AccountType) NormalSide(signed decimal.Decimal) decimal.Decimal {
	if t.DebitNormal() {
		return signed
	}
	return signed.Neg()
}

// Account is an entry in the chart of accounts. Balance is a cache of the
// sum of all journal lines posted to the account, maintained in the posting
// transaction and re-derivable by replay.
type Account struct {
	ID         string
	Code       string
	Name       string
	Type       AccountType
	ParentCode *string
	Active     bool
	Balance    decimal.Decimal
	Version    int64
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Apply returns the balance after posting a signed amount.
func (a *Account) Apply(amount decimal.Decimal) decimal.Decimal {
	return a.Balance.Add(amount)
}

// AccountFilter narrows account listings.
type AccountFilter struct {
	Type   *AccountType
	Active *bool
	Limit  int
	Offset int
}
