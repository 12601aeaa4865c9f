package domain

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"
)

func line(code, amount string) JournalLine {
	return JournalLine{AccountCode: code, Amount: decimal.RequireFromString(amount)}
}

func TestValidateLines(t *testing.T) {
	tests := []struct {
		name    string
		lines   []JournalLine
		wantErr error
	}{
		{
			name:  "balanced two lines",
			lines: []JournalLine{line("1000", "150.00"), line("4100", "-150.00")},
		},
		{
			name:  "balanced split debit",
			lines: []JournalLine{line("1000", "100"), line("1010", "50"), line("4100", "-150")},
		},
		{
			name:    "single line",
			lines:   []JournalLine{line("1000", "0")},
			wantErr: ErrMalformedEntry,
		},
		{
			name:    "no lines",
			wantErr: ErrMalformedEntry,
		},
		{
			name:    "missing account",
			lines:   []JournalLine{line("", "10"), line("4100", "-10")},
			wantErr: ErrMalformedEntry,
		},
		{
			name:    "zero amount line",
			lines:   []JournalLine{line("1000", "0"), line("4100", "0")},
			wantErr: ErrMalformedEntry,
		},
		{
			name:    "unbalanced",
			lines:   []JournalLine{line("1000", "150.00"), line("4100", "-149.99")},
			wantErr: ErrUnbalancedEntry,
		},
		{
			name:    "sub-cent precision",
			lines:   []JournalLine{line("1000", "0.001"), line("4100", "-0.001")},
			wantErr: ErrInvalidAmount,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateLines(tt.lines)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

// Generated entries are accepted exactly when their lines sum to zero.
func TestValidateLines_RandomEntries(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	codes := []string{"1000", "1010", "4100", "5300", "2000"}

	for i := 0; i < 500; i++ {
		n := 2 + rng.Intn(5)
		lines := make([]JournalLine, 0, n)
		total := decimal.Zero
		for j := 0; j < n-1; j++ {
			cents := rng.Int63n(2_000_000) - 1_000_000
			if cents == 0 {
				cents = 1
			}
			amount := decimal.New(cents, -MinorUnits)
			total = total.Add(amount)
			lines = append(lines, JournalLine{AccountCode: codes[rng.Intn(len(codes))], Amount: amount})
		}

		closing := total.Neg()
		if closing.IsZero() {
			continue
		}
		unbalanced := rng.Intn(3) == 0
		if unbalanced {
			closing = closing.Add(decimal.New(1+rng.Int63n(100), -MinorUnits))
			if closing.IsZero() {
				continue
			}
		}
		lines = append(lines, JournalLine{AccountCode: codes[rng.Intn(len(codes))], Amount: closing})

		entry := &JournalEntry{Lines: lines}
		err := ValidateLines(lines)
		if entry.Sum().IsZero() {
			if err != nil {
				t.Fatalf("iteration %d: balanced entry rejected: %v", i, err)
			}
		} else if !errors.Is(err, ErrUnbalancedEntry) {
			t.Fatalf("iteration %d: unbalanced entry (sum %s) not rejected: %v", i, entry.Sum(), err)
		}
	}
}

func TestJournalEntry_Reversed(t *testing.T) {
	entry := &JournalEntry{Lines: []JournalLine{line("5300", "40.00"), line("1000", "-40.00")}}

	reversed := entry.Reversed()
	if len(reversed) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(reversed))
	}
	if !reversed[0].Amount.Equal(decimal.RequireFromString("-40.00")) || !reversed[1].Amount.Equal(decimal.RequireFromString("40.00")) {
		t.Fatalf("unexpected reversed amounts: %s %s", reversed[0].Amount, reversed[1].Amount)
	}
	if !entry.Lines[0].Amount.Equal(decimal.RequireFromString("40.00")) {
		t.Fatal("Reversed must not mutate the original entry")
	}
	if err := ValidateLines(reversed); err != nil {
		t.Fatalf("reversed entry should be balanced: %v", err)
	}
}

func TestJournalEntry_AccountCodes(t *testing.T) {
	entry := &JournalEntry{Lines: []JournalLine{line("1000", "10"), line("1000", "5"), line("4100", "-15")}}

	codes := entry.AccountCodes()
	if len(codes) != 2 || codes[0] != "1000" || codes[1] != "4100" {
		t.Fatalf("unexpected codes: %v", codes)
	}
}
