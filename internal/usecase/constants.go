package usecase

import "time"

const (
	// DefaultTransactionTimeout is the maximum duration for a database transaction
	// This prevents long-running transactions from blocking tables
	DefaultTransactionTimeout = 10 * time.Second

	// DefaultIdempotencyRetention is how long idempotency records are kept
	DefaultIdempotencyRetention = 48 * time.Hour

	// systemActor is recorded when no caller identity is available
	systemActor = "system"
)

// PostingDefaults names the accounts workflows post to.
type PostingDefaults struct {
	ContributionIncomeAccount     string
	ContributionCashAccount       string
	ContributionElectronicAccount string
	ExpenseDisbursingAccount      string
}

// DefaultPostingDefaults returns the standard chart-of-accounts defaults.
func DefaultPostingDefaults() PostingDefaults {
	return PostingDefaults{
		ContributionIncomeAccount:     "4100",
		ContributionCashAccount:       "1000",
		ContributionElectronicAccount: "1010",
		ExpenseDisbursingAccount:      "1000",
	}
}

// Codes returns every configured default account code.
func (d PostingDefaults) Codes() []string {
	return []string{
		d.ContributionIncomeAccount,
		d.ContributionCashAccount,
		d.ContributionElectronicAccount,
		d.ExpenseDisbursingAccount,
	}
}

// References reports whether code is one of the defaults.
func (d PostingDefaults) References(code string) bool {
	for _, c := range d.Codes() {
		if c == code {
			return true
		}
	}
	return false
}
