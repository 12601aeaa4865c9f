package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/treasury/internal/adapter/http/dto"
	"github.com/iho/treasury/internal/domain"
)

// ExpenseHandler handles the expense workflow.
type ExpenseHandler struct {
	expenseUC ExpenseService
}

// NewExpenseHandler creates a new ExpenseHandler.
func NewExpenseHandler(expenseUC ExpenseService) *ExpenseHandler {
	return &ExpenseHandler{expenseUC: expenseUC}
}

// Claim records a new expense claim.
func (h *ExpenseHandler) Claim(w http.ResponseWriter, r *http.Request) {
	var req dto.ClaimExpenseRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	expense, err := h.expenseUC.Claim(r.Context(), req.ToUseCaseInput(actingUser(r, req.RequestedBy)))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.ExpenseFromDomain(expense))
}

func (h *ExpenseHandler) Get(w http.ResponseWriter, r *http.Request) {
	expense, err := h.expenseUC.GetExpense(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ExpenseFromDomain(expense))
}

func (h *ExpenseHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := domain.ExpenseFilter{
		RequestedBy: optionalQuery(r, "requested_by"),
		AccountCode: optionalQuery(r, "account"),
		Limit:       parseIntQuery(r, "limit", 50),
		Offset:      parseIntQuery(r, "offset", 0),
	}
	if s := optionalQuery(r, "state"); s != nil {
		state := domain.ExpenseState(*s)
		filter.State = &state
	}

	expenses, err := h.expenseUC.ListExpenses(r.Context(), filter)
	if err != nil {
		writeError(w, r, err)
		return
	}

	resp := dto.ListExpensesResponse{
		Expenses: make([]*dto.ExpenseResponse, len(expenses)),
		Total:    int64(len(expenses)),
	}
	for i, e := range expenses {
		resp.Expenses[i] = dto.ExpenseFromDomain(e)
	}
	writeJSON(w, http.StatusOK, resp)
}

// Approve approves a claimed expense.
func (h *ExpenseHandler) Approve(w http.ResponseWriter, r *http.Request) {
	var req dto.ApproveExpenseRequest
	if r.ContentLength != 0 {
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, r, err)
			return
		}
	}

	approver := actingUser(r, req.ApprovedBy)
	if approver == "" {
		writeError(w, r, domain.ErrMissingActor)
		return
	}

	expense, err := h.expenseUC.Approve(r.Context(), chi.URLParam(r, "id"), approver)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ExpenseFromDomain(expense))
}

// Reject rejects a claimed or approved expense.
func (h *ExpenseHandler) Reject(w http.ResponseWriter, r *http.Request) {
	var req dto.RejectExpenseRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	rejectedBy := req.RejectedBy
	if actor, ok := domain.ActorFromContext(r.Context()); ok {
		rejectedBy = &actor.ID
	}

	expense, err := h.expenseUC.Reject(r.Context(), chi.URLParam(r, "id"), req.Reason, rejectedBy)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ExpenseFromDomain(expense))
}

// Pay settles an approved expense.
func (h *ExpenseHandler) Pay(w http.ResponseWriter, r *http.Request) {
	key := idempotencyKey(r)
	if key == "" {
		writeError(w, r, domain.ErrIdempotencyKeyRequired)
		return
	}

	result, err := h.expenseUC.Pay(r.Context(), chi.URLParam(r, "id"), key)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeResult(w, http.StatusOK, result.Replayed, dto.PayExpenseFromUseCase(result))
}
