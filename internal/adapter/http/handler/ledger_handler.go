package handler

import (
	"errors"
	"net/http"

	"github.com/iho/treasury/internal/adapter/http/dto"
	"github.com/iho/treasury/internal/usecase"
)

// LedgerHandler handles ledger-wide checks and recovery.
type LedgerHandler struct {
	ledgerUC  LedgerService
	balanceUC BalanceService
}

// NewLedgerHandler creates a new LedgerHandler.
func NewLedgerHandler(ledgerUC LedgerService, balanceUC BalanceService) *LedgerHandler {
	return &LedgerHandler{ledgerUC: ledgerUC, balanceUC: balanceUC}
}

// CheckConsistency checks that lines and cached balances both sum to zero.
// An inconsistent ledger answers 409 with the report.
func (h *LedgerHandler) CheckConsistency(w http.ResponseWriter, r *http.Request) {
	report, err := h.ledgerUC.CheckConsistency(r.Context())
	if errors.Is(err, usecase.ErrInconsistentLedger) && report != nil {
		writeJSON(w, http.StatusConflict, dto.ConsistencyFromUseCase(report))
		return
	}
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ConsistencyFromUseCase(report))
}

// VerifyBalances reports accounts whose cached balance drifted from the
// journal.
func (h *LedgerHandler) VerifyBalances(w http.ResponseWriter, r *http.Request) {
	report, err := h.balanceUC.VerifyBalances(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ReconciliationFromUseCase(report))
}

// RebuildBalances recomputes every cached balance from the journal.
func (h *LedgerHandler) RebuildBalances(w http.ResponseWriter, r *http.Request) {
	report, err := h.balanceUC.RebuildBalances(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ReconciliationFromUseCase(report))
}
