package domain

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// Validation constants
const (
	// MinorUnits is the number of decimal places money is kept in.
	MinorUnits = 2

	MaxAccountNameLength = 255
	MinAccountNameLength = 1
	MaxMemoLength        = 1000
	MaxAmount            = "1000000000000" // 1 trillion
)

var (
	accountCodeRegex = regexp.MustCompile(`^[0-9]{1,10}$`)
	maxAmount        = decimal.RequireFromString(MaxAmount)
)

// HasMinorUnitPrecision reports whether d has no more than MinorUnits
// decimal places.
func HasMinorUnitPrecision(d decimal.Decimal) bool {
	return d.Equal(d.Truncate(MinorUnits))
}

// ValidateAccountCode validates a hierarchical numeric account code.
func ValidateAccountCode(code string) error {
	if !accountCodeRegex.MatchString(code) {
		return fmt.Errorf("%w: %q", ErrInvalidAccountCode, code)
	}
	return nil
}

// ValidateAccountName validates account name
func ValidateAccountName(name string) error {
	name = strings.TrimSpace(name)

	if len(name) < MinAccountNameLength {
		return fmt.Errorf("%w: name cannot be empty", ErrInvalidAccountName)
	}

	if len(name) > MaxAccountNameLength {
		return fmt.Errorf("%w: name exceeds %d characters", ErrInvalidAccountName, MaxAccountNameLength)
	}

	return nil
}

// ValidateAmount validates a positive money amount.
func ValidateAmount(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("%w: %s is not positive", ErrInvalidAmount, amount.String())
	}

	if !HasMinorUnitPrecision(amount) {
		return fmt.Errorf("%w: %s has more than %d decimal places", ErrInvalidAmount, amount.String(), MinorUnits)
	}

	if amount.GreaterThan(maxAmount) {
		return fmt.Errorf("%w: maximum amount is %s", ErrInvalidAmount, MaxAmount)
	}

	return nil
}

// ValidateBudgetAmount validates a budgeted amount, which may be zero.
func ValidateBudgetAmount(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return fmt.Errorf("%w: budget %s is negative", ErrInvalidAmount, amount.String())
	}
	if amount.IsZero() {
		return nil
	}
	return ValidateAmount(amount)
}

// ValidatePagination validates and limits pagination parameters
func ValidatePagination(limit, offset int) (int, int) {
	const MaxPageSize = 1000
	const DefaultPageSize = 50

	if limit <= 0 {
		limit = DefaultPageSize
	}

	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	if offset < 0 {
		offset = 0
	}

	return limit, offset
}
