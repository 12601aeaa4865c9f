package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/treasury/internal/adapter/http/dto"
)

// BudgetHandler handles fiscal years, budget lines and reports.
type BudgetHandler struct {
	budgetUC BudgetService
}

// NewBudgetHandler creates a new BudgetHandler.
func NewBudgetHandler(budgetUC BudgetService) *BudgetHandler {
	return &BudgetHandler{budgetUC: budgetUC}
}

// CreateFiscalYear opens a fiscal year.
func (h *BudgetHandler) CreateFiscalYear(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateFiscalYearRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	fy, err := h.budgetUC.CreateFiscalYear(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.FiscalYearFromDomain(fy))
}

func (h *BudgetHandler) GetFiscalYear(w http.ResponseWriter, r *http.Request) {
	fy, err := h.budgetUC.GetFiscalYear(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.FiscalYearFromDomain(fy))
}

func (h *BudgetHandler) ListFiscalYears(w http.ResponseWriter, r *http.Request) {
	years, err := h.budgetUC.ListFiscalYears(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"fiscal_years": dto.FiscalYearsFromDomain(years),
	})
}

// SetLine creates or replaces the budget for one account.
func (h *BudgetHandler) SetLine(w http.ResponseWriter, r *http.Request) {
	var req dto.SetBudgetLineRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	line, err := h.budgetUC.SetBudgetLine(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "code"), req.Amount)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.BudgetLineFromDomain(line))
}

func (h *BudgetHandler) ListLines(w http.ResponseWriter, r *http.Request) {
	lines, err := h.budgetUC.ListBudgetLines(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"budget_lines": dto.BudgetLinesFromDomain(lines),
	})
}

// Report returns the budget-vs-actual report for a fiscal year.
func (h *BudgetHandler) Report(w http.ResponseWriter, r *http.Request) {
	report, err := h.budgetUC.GetBudgetVsActual(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.BudgetReportFromDomain(report))
}
