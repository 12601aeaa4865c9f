package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/treasury/internal/adapter/http/dto"
	"github.com/iho/treasury/internal/domain"
)

// AccountHandler handles account-related HTTP requests.
type AccountHandler struct {
	accountUC AccountService
	balanceUC BalanceService
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(accountUC AccountService, balanceUC BalanceService) *AccountHandler {
	return &AccountHandler{accountUC: accountUC, balanceUC: balanceUC}
}

// Create adds an account to the chart of accounts.
func (h *AccountHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateAccountRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	account, err := h.accountUC.CreateAccount(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.AccountFromDomain(account))
}

// Get retrieves an account by code.
func (h *AccountHandler) Get(w http.ResponseWriter, r *http.Request) {
	account, err := h.accountUC.GetAccount(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.AccountFromDomain(account))
}

// List lists accounts ordered by code.
func (h *AccountHandler) List(w http.ResponseWriter, r *http.Request) {
	active, err := parseBoolQuery(r, "active")
	if err != nil {
		writeError(w, r, err)
		return
	}

	filter := domain.AccountFilter{
		Active: active,
		Limit:  parseIntQuery(r, "limit", 50),
		Offset: parseIntQuery(r, "offset", 0),
	}
	if t := optionalQuery(r, "type"); t != nil {
		accountType := domain.AccountType(*t)
		filter.Type = &accountType
	}

	accounts, err := h.accountUC.ListAccounts(r.Context(), filter)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ListAccountsResponse{
		Accounts: dto.AccountsFromDomain(accounts),
		Total:    int64(len(accounts)),
	})
}

// Deactivate stops new postings to an account.
func (h *AccountHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	account, err := h.accountUC.DeactivateAccount(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.AccountFromDomain(account))
}

// Activate re-enables a deactivated account.
func (h *AccountHandler) Activate(w http.ResponseWriter, r *http.Request) {
	account, err := h.accountUC.ActivateAccount(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.AccountFromDomain(account))
}

// Balance returns the account's signed balance, optionally as of a moment.
func (h *AccountHandler) Balance(w http.ResponseWriter, r *http.Request) {
	asOf, err := parseTimeQuery(r, "as_of")
	if err != nil {
		writeError(w, r, err)
		return
	}

	balance, err := h.balanceUC.GetBalance(r.Context(), chi.URLParam(r, "code"), asOf)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.BalanceFromUseCase(balance))
}

// TrialBalance lists every account balance.
func (h *AccountHandler) TrialBalance(w http.ResponseWriter, r *http.Request) {
	tb, err := h.balanceUC.ListBalances(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.TrialBalanceFromUseCase(tb))
}
