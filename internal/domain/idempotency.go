package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"
)

// IdempotencyScope identifies which operation consumed a key.
type IdempotencyScope string

const (
	IdempotencyScopeJournalPost      IdempotencyScope = "journal.post"
	IdempotencyScopeContributionPost IdempotencyScope = "contribution.post"
	IdempotencyScopeExpensePay       IdempotencyScope = "expense.pay"
)

// IdempotencyRecord maps a caller-supplied key to the single outcome it
// produced. It is written in the same transaction as the effect.
type IdempotencyRecord struct {
	Key                  string
	Scope                IdempotencyScope
	RequestHash          string
	ResultJournalEntryID string
	ResourceID           string
	CreatedAt            time.Time
	ExpiresAt            time.Time
}

// Matches reports whether a retried request is the same request that
// produced this record.
func (r *IdempotencyRecord) Matches(scope IdempotencyScope, requestHash string) bool {
	return r.Scope == scope && r.RequestHash == requestHash
}

// HashRequest returns a stable fingerprint of the request parts.
func HashRequest(parts ...string) string {
	h := sha256.New()
	h.Write([]byte(strings.Join(parts, "\x1f")))
	return hex.EncodeToString(h.Sum(nil))
}
