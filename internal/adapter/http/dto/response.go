package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/treasury/internal/domain"
	"github.com/iho/treasury/internal/usecase"
)

// money renders an amount with exactly two decimal places.
func money(d decimal.Decimal) string {
	return d.StringFixed(domain.MinorUnits)
}

// AccountResponse represents an account in API responses.
type AccountResponse struct {
	ID         string    `json:"id"`
	Code       string    `json:"code"`
	Name       string    `json:"name"`
	Type       string    `json:"type"`
	ParentCode *string   `json:"parent_code,omitempty"`
	Active     bool      `json:"active"`
	Balance    string    `json:"balance"`
	Version    int64     `json:"version"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// AccountFromDomain converts domain account to response.
func AccountFromDomain(a *domain.Account) *AccountResponse {
	return &AccountResponse{
		ID:         a.ID,
		Code:       a.Code,
		Name:       a.Name,
		Type:       string(a.Type),
		ParentCode: a.ParentCode,
		Active:     a.Active,
		Balance:    money(a.Balance),
		Version:    a.Version,
		CreatedAt:  a.CreatedAt,
		UpdatedAt:  a.UpdatedAt,
	}
}

// AccountsFromDomain converts domain accounts to responses.
func AccountsFromDomain(accounts []*domain.Account) []*AccountResponse {
	result := make([]*AccountResponse, len(accounts))
	for i, a := range accounts {
		result[i] = AccountFromDomain(a)
	}
	return result
}

// ListAccountsResponse represents a page of accounts.
type ListAccountsResponse struct {
	Accounts []*AccountResponse `json:"accounts"`
	Total    int64              `json:"total"`
}

// BalanceResponse is the signed balance of one account.
type BalanceResponse struct {
	AccountCode string     `json:"account_code"`
	AccountType string     `json:"account_type"`
	Balance     string     `json:"balance"`
	AsOf        *time.Time `json:"as_of,omitempty"`
}

// BalanceFromUseCase converts a balance result to response.
func BalanceFromUseCase(b *usecase.AccountBalance) *BalanceResponse {
	return &BalanceResponse{
		AccountCode: b.Account.Code,
		AccountType: string(b.Account.Type),
		Balance:     money(b.Balance),
		AsOf:        b.AsOf,
	}
}

// TrialBalanceResponse lists every account balance.
type TrialBalanceResponse struct {
	Accounts     []*AccountResponse `json:"accounts"`
	TotalDebits  string             `json:"total_debits"`
	TotalCredits string             `json:"total_credits"`
	Balanced     bool               `json:"balanced"`
	GeneratedAt  time.Time          `json:"generated_at"`
}

// TrialBalanceFromUseCase converts a trial balance to response.
func TrialBalanceFromUseCase(tb *usecase.TrialBalance) *TrialBalanceResponse {
	return &TrialBalanceResponse{
		Accounts:     AccountsFromDomain(tb.Accounts),
		TotalDebits:  money(tb.TotalDebits),
		TotalCredits: money(tb.TotalCredits),
		Balanced:     tb.Balanced,
		GeneratedAt:  tb.GeneratedAt,
	}
}

// JournalLineResponse represents a journal line in API responses.
type JournalLineResponse struct {
	LineNo       int     `json:"line_no"`
	AccountCode  string  `json:"account_code"`
	Amount       string  `json:"amount"`
	Memo         *string `json:"memo,omitempty"`
	BalanceAfter string  `json:"balance_after"`
}

// JournalEntryResponse represents a journal entry in API responses.
type JournalEntryResponse struct {
	ID             string                `json:"id"`
	Sequence       int64                 `json:"sequence"`
	PostedAt       time.Time             `json:"posted_at"`
	Memo           string                `json:"memo"`
	SourceType     string                `json:"source_type"`
	SourceID       string                `json:"source_id,omitempty"`
	Lines          []JournalLineResponse `json:"lines"`
	IdempotencyKey *string               `json:"idempotency_key,omitempty"`
	CreatedBy      *string               `json:"created_by,omitempty"`
	Replayed       bool                  `json:"replayed,omitempty"`
}

// EntryFromDomain converts domain entry to response.
func EntryFromDomain(e *domain.JournalEntry) *JournalEntryResponse {
	lines := make([]JournalLineResponse, len(e.Lines))
	for i, l := range e.Lines {
		lines[i] = JournalLineResponse{
			LineNo:       l.LineNo,
			AccountCode:  l.AccountCode,
			Amount:       money(l.Amount),
			Memo:         l.Memo,
			BalanceAfter: money(l.BalanceAfter),
		}
	}
	return &JournalEntryResponse{
		ID:             e.ID,
		Sequence:       e.Sequence,
		PostedAt:       e.PostedAt,
		Memo:           e.Memo,
		SourceType:     string(e.Source.Type),
		SourceID:       e.Source.ID,
		Lines:          lines,
		IdempotencyKey: e.IdempotencyKey,
		CreatedBy:      e.CreatedBy,
	}
}

// EntriesFromDomain converts domain entries to responses.
func EntriesFromDomain(entries []*domain.JournalEntry) []*JournalEntryResponse {
	result := make([]*JournalEntryResponse, len(entries))
	for i, e := range entries {
		result[i] = EntryFromDomain(e)
	}
	return result
}

// PostEntryFromUseCase converts a posting result to response.
func PostEntryFromUseCase(r *usecase.PostEntryResult) *JournalEntryResponse {
	resp := EntryFromDomain(r.Entry)
	resp.Replayed = r.Replayed
	return resp
}

// ListEntriesResponse represents a page of journal entries.
type ListEntriesResponse struct {
	Entries []*JournalEntryResponse `json:"entries"`
	Total   int64                   `json:"total"`
}

// ContributionEntryResponse is one contribution in a batch.
type ContributionEntryResponse struct {
	Amount      string  `json:"amount"`
	Method      string  `json:"method"`
	Note        *string `json:"note,omitempty"`
	Contributor *string `json:"contributor,omitempty"`
}

// BatchResponse represents a contribution batch in API responses.
type BatchResponse struct {
	ID                   string                      `json:"id"`
	OccurrenceRef        *string                     `json:"occurrence_ref,omitempty"`
	Status               string                      `json:"status"`
	Entries              []ContributionEntryResponse `json:"entries"`
	Total                string                      `json:"total"`
	PostedJournalEntryID *string                     `json:"posted_journal_entry_id,omitempty"`
	PostedAt             *time.Time                  `json:"posted_at,omitempty"`
	CreatedBy            *string                     `json:"created_by,omitempty"`
	Version              int64                       `json:"version"`
	CreatedAt            time.Time                   `json:"created_at"`
}

// BatchFromDomain converts domain batch to response.
func BatchFromDomain(b *domain.ContributionBatch) *BatchResponse {
	entries := make([]ContributionEntryResponse, len(b.Entries))
	for i, e := range b.Entries {
		entries[i] = ContributionEntryResponse{
			Amount:      money(e.Amount),
			Method:      string(e.Method),
			Note:        e.Note,
			Contributor: e.Contributor,
		}
	}
	return &BatchResponse{
		ID:                   b.ID,
		OccurrenceRef:        b.OccurrenceRef,
		Status:               string(b.Status),
		Entries:              entries,
		Total:                money(b.Total()),
		PostedJournalEntryID: b.PostedJournalEntryID,
		PostedAt:             b.PostedAt,
		CreatedBy:            b.CreatedBy,
		Version:              b.Version,
		CreatedAt:            b.CreatedAt,
	}
}

// ListBatchesResponse represents a page of batches.
type ListBatchesResponse struct {
	Batches []*BatchResponse `json:"batches"`
	Total   int64            `json:"total"`
}

// PostBatchResponse is a posted batch with its journal entry.
type PostBatchResponse struct {
	Batch    *BatchResponse        `json:"batch"`
	Entry    *JournalEntryResponse `json:"entry"`
	Replayed bool                  `json:"replayed,omitempty"`
}

// PostBatchFromUseCase converts a batch posting result to response.
func PostBatchFromUseCase(r *usecase.PostBatchResult) *PostBatchResponse {
	return &PostBatchResponse{
		Batch:    BatchFromDomain(r.Batch),
		Entry:    EntryFromDomain(r.Entry),
		Replayed: r.Replayed,
	}
}

// ExpenseResponse represents an expense in API responses.
type ExpenseResponse struct {
	ID                 string     `json:"id"`
	Amount             string     `json:"amount"`
	AccountCode        string     `json:"account_code"`
	Description        string     `json:"description"`
	RequestedBy        string     `json:"requested_by"`
	State              string     `json:"state"`
	ApprovedBy         *string    `json:"approved_by,omitempty"`
	ApprovedAt         *time.Time `json:"approved_at,omitempty"`
	RejectedBy         *string    `json:"rejected_by,omitempty"`
	RejectionReason    *string    `json:"rejection_reason,omitempty"`
	RejectedAt         *time.Time `json:"rejected_at,omitempty"`
	PaidJournalEntryID *string    `json:"paid_journal_entry_id,omitempty"`
	PaidAt             *time.Time `json:"paid_at,omitempty"`
	Version            int64      `json:"version"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// ExpenseFromDomain converts domain expense to response.
func ExpenseFromDomain(e *domain.Expense) *ExpenseResponse {
	return &ExpenseResponse{
		ID:                 e.ID,
		Amount:             money(e.Amount),
		AccountCode:        e.AccountCode,
		Description:        e.Description,
		RequestedBy:        e.RequestedBy,
		State:              string(e.State),
		ApprovedBy:         e.ApprovedBy,
		ApprovedAt:         e.ApprovedAt,
		RejectedBy:         e.RejectedBy,
		RejectionReason:    e.RejectionReason,
		RejectedAt:         e.RejectedAt,
		PaidJournalEntryID: e.PaidJournalEntryID,
		PaidAt:             e.PaidAt,
		Version:            e.Version,
		CreatedAt:          e.CreatedAt,
		UpdatedAt:          e.UpdatedAt,
	}
}

// ListExpensesResponse represents a page of expenses.
type ListExpensesResponse struct {
	Expenses []*ExpenseResponse `json:"expenses"`
	Total    int64              `json:"total"`
}

// PayExpenseResponse is a paid expense with the entry that settled it.
type PayExpenseResponse struct {
	Expense  *ExpenseResponse      `json:"expense"`
	Entry    *JournalEntryResponse `json:"entry"`
	Replayed bool                  `json:"replayed,omitempty"`
}

// PayExpenseFromUseCase converts a payment result to response.
func PayExpenseFromUseCase(r *usecase.PayResult) *PayExpenseResponse {
	return &PayExpenseResponse{
		Expense:  ExpenseFromDomain(r.Expense),
		Entry:    EntryFromDomain(r.Entry),
		Replayed: r.Replayed,
	}
}

// FiscalYearResponse represents a fiscal year in API responses.
type FiscalYearResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	CreatedAt time.Time `json:"created_at"`
}

// FiscalYearFromDomain converts domain fiscal year to response.
func FiscalYearFromDomain(f *domain.FiscalYear) *FiscalYearResponse {
	return &FiscalYearResponse{
		ID:        f.ID,
		Name:      f.Name,
		StartDate: f.StartDate,
		EndDate:   f.EndDate,
		CreatedAt: f.CreatedAt,
	}
}

// FiscalYearsFromDomain converts domain fiscal years to responses.
func FiscalYearsFromDomain(years []*domain.FiscalYear) []*FiscalYearResponse {
	result := make([]*FiscalYearResponse, len(years))
	for i, f := range years {
		result[i] = FiscalYearFromDomain(f)
	}
	return result
}

// BudgetLineResponse represents a budget line in API responses.
type BudgetLineResponse struct {
	FiscalYearID   string    `json:"fiscal_year_id"`
	AccountCode    string    `json:"account_code"`
	BudgetedAmount string    `json:"budgeted_amount"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// BudgetLineFromDomain converts domain budget line to response.
func BudgetLineFromDomain(l *domain.BudgetLine) *BudgetLineResponse {
	return &BudgetLineResponse{
		FiscalYearID:   l.FiscalYearID,
		AccountCode:    l.AccountCode,
		BudgetedAmount: money(l.BudgetedAmount),
		UpdatedAt:      l.UpdatedAt,
	}
}

// BudgetLinesFromDomain converts domain budget lines to responses.
func BudgetLinesFromDomain(lines []*domain.BudgetLine) []*BudgetLineResponse {
	result := make([]*BudgetLineResponse, len(lines))
	for i, l := range lines {
		result[i] = BudgetLineFromDomain(l)
	}
	return result
}

// BudgetRowResponse is one account in a budget-vs-actual report.
type BudgetRowResponse struct {
	AccountCode string `json:"account_code"`
	AccountName string `json:"account_name"`
	AccountType string `json:"account_type"`
	Budgeted    string `json:"budgeted"`
	Actual      string `json:"actual"`
	Variance    string `json:"variance"`
	Unbudgeted  bool   `json:"unbudgeted"`
}

// BudgetTotalsResponse sums the rows of one account type.
type BudgetTotalsResponse struct {
	Budgeted string `json:"budgeted"`
	Actual   string `json:"actual"`
	Variance string `json:"variance"`
}

// BudgetReportResponse is a budget-vs-actual report.
type BudgetReportResponse struct {
	FiscalYear  *FiscalYearResponse             `json:"fiscal_year"`
	Rows        []BudgetRowResponse             `json:"rows"`
	Totals      map[string]BudgetTotalsResponse `json:"totals"`
	GeneratedAt time.Time                       `json:"generated_at"`
}

// BudgetReportFromDomain converts a budget report to response.
func BudgetReportFromDomain(r *domain.BudgetReport) *BudgetReportResponse {
	rows := make([]BudgetRowResponse, len(r.Rows))
	for i, row := range r.Rows {
		rows[i] = BudgetRowResponse{
			AccountCode: row.AccountCode,
			AccountName: row.AccountName,
			AccountType: string(row.AccountType),
			Budgeted:    money(row.Budgeted),
			Actual:      money(row.Actual),
			Variance:    money(row.Variance),
			Unbudgeted:  row.Unbudgeted,
		}
	}
	totals := make(map[string]BudgetTotalsResponse, len(r.Totals))
	for t, tot := range r.Totals {
		totals[string(t)] = BudgetTotalsResponse{
			Budgeted: money(tot.Budgeted),
			Actual:   money(tot.Actual),
			Variance: money(tot.Variance),
		}
	}
	return &BudgetReportResponse{
		FiscalYear:  FiscalYearFromDomain(r.FiscalYear),
		Rows:        rows,
		Totals:      totals,
		GeneratedAt: r.GeneratedAt,
	}
}

// ConsistencyResponse is the outcome of a ledger-wide zero-sum check.
type ConsistencyResponse struct {
	Consistent    bool      `json:"consistent"`
	TotalLines    string    `json:"total_lines"`
	TotalBalances string    `json:"total_balances"`
	CheckedAt     time.Time `json:"checked_at"`
}

// ConsistencyFromUseCase converts a consistency report to response.
func ConsistencyFromUseCase(r *usecase.ConsistencyReport) *ConsistencyResponse {
	return &ConsistencyResponse{
		Consistent:    r.Consistent,
		TotalLines:    money(r.TotalLines),
		TotalBalances: money(r.TotalBalances),
		CheckedAt:     r.CheckedAt,
	}
}

// DiscrepancyResponse is one account whose cached balance drifted.
type DiscrepancyResponse struct {
	AccountCode       string `json:"account_code"`
	RecordedBalance   string `json:"recorded_balance"`
	CalculatedBalance string `json:"calculated_balance"`
	Difference        string `json:"difference"`
}

// ReconciliationResponse summarises a verification or rebuild pass.
type ReconciliationResponse struct {
	TotalAccounts      int                   `json:"total_accounts"`
	ReconciledAccounts int                   `json:"reconciled_accounts"`
	Discrepancies      []DiscrepancyResponse `json:"discrepancies"`
	CheckedAt          time.Time             `json:"checked_at"`
}

// ReconciliationFromUseCase converts a reconciliation report to response.
func ReconciliationFromUseCase(r *usecase.ReconciliationReport) *ReconciliationResponse {
	out := &ReconciliationResponse{
		TotalAccounts:      r.TotalAccounts,
		ReconciledAccounts: r.ReconciledAccounts,
		Discrepancies:      make([]DiscrepancyResponse, len(r.Discrepancies)),
		CheckedAt:          r.CheckedAt,
	}
	for i, d := range r.Discrepancies {
		out.Discrepancies[i] = DiscrepancyResponse{
			AccountCode:       d.AccountCode,
			RecordedBalance:   money(d.RecordedBalance),
			CalculatedBalance: money(d.CalculatedBalance),
			Difference:        money(d.Difference),
		}
	}
	return out
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string       `json:"error"`
	Kind    string       `json:"kind"`
	Message string       `json:"message,omitempty"`
	Fields  []FieldError `json:"fields,omitempty"`
}
