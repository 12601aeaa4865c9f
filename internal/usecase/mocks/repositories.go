package mocks

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/treasury/internal/domain"
	"github.com/iho/treasury/internal/usecase"
)

func cloneAccount(a *domain.Account) *domain.Account {
	c := *a
	return &c
}

func cloneEntry(e *domain.JournalEntry) *domain.JournalEntry {
	c := *e
	c.Lines = slices.Clone(e.Lines)
	return &c
}

func cloneBatch(b *domain.ContributionBatch) *domain.ContributionBatch {
	c := *b
	c.Entries = slices.Clone(b.Entries)
	return &c
}

func cloneExpense(e *domain.Expense) *domain.Expense {
	c := *e
	return &c
}

func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return []T{}
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}

// MockAccountRepository is a mock implementation of AccountRepository.
type MockAccountRepository struct {
	mu       sync.RWMutex
	accounts map[string]*domain.Account

	CreateFunc              func(ctx context.Context, tx usecase.Transaction, account *domain.Account) error
	GetByCodeFunc           func(ctx context.Context, code string) (*domain.Account, error)
	GetByCodesForUpdateFunc func(ctx context.Context, tx usecase.Transaction, codes []string) ([]*domain.Account, error)
	UpdateBalanceFunc       func(ctx context.Context, tx usecase.Transaction, code string, balance decimal.Decimal, updatedAt time.Time) error
	ListFunc                func(ctx context.Context, filter domain.AccountFilter) ([]*domain.Account, error)
}

func NewMockAccountRepository() *MockAccountRepository {
	return &MockAccountRepository{
		accounts: make(map[string]*domain.Account),
	}
}

// Put stores an account directly, outside any transaction.
func (m *MockAccountRepository) Put(account *domain.Account) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accounts[account.Code] = cloneAccount(account)
}

func (m *MockAccountRepository) Create(ctx context.Context, tx usecase.Transaction, account *domain.Account) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, account)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.accounts[account.Code]; ok {
		return domain.ErrDuplicateAccount
	}
	m.accounts[account.Code] = cloneAccount(account)
	onRollback(tx, func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.accounts, account.Code)
	})
	return nil
}

func (m *MockAccountRepository) GetByCode(ctx context.Context, code string) (*domain.Account, error) {
	if m.GetByCodeFunc != nil {
		return m.GetByCodeFunc(ctx, code)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if acc, ok := m.accounts[code]; ok {
		return cloneAccount(acc), nil
	}
	return nil, domain.ErrAccountNotFound
}

// GetByCodeForUpdate reads the stored account directly; a locked read always
// sees committed state, so GetByCodeFunc does not apply to it.
func (m *MockAccountRepository) GetByCodeForUpdate(ctx context.Context, tx usecase.Transaction, code string) (*domain.Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if acc, ok := m.accounts[code]; ok {
		return cloneAccount(acc), nil
	}
	return nil, domain.ErrAccountNotFound
}

func (m *MockAccountRepository) GetByCodesForUpdate(ctx context.Context, tx usecase.Transaction, codes []string) ([]*domain.Account, error) {
	if m.GetByCodesForUpdateFunc != nil {
		return m.GetByCodesForUpdateFunc(ctx, tx, codes)
	}
	sorted := slices.Clone(codes)
	slices.Sort(sorted)

	m.mu.RLock()
	defer m.mu.RUnlock()
	accounts := make([]*domain.Account, 0, len(sorted))
	for _, code := range sorted {
		if acc, ok := m.accounts[code]; ok {
			accounts = append(accounts, cloneAccount(acc))
		}
	}
	return accounts, nil
}

func (m *MockAccountRepository) UpdateBalance(ctx context.Context, tx usecase.Transaction, code string, balance decimal.Decimal, updatedAt time.Time) error {
	if m.UpdateBalanceFunc != nil {
		return m.UpdateBalanceFunc(ctx, tx, code, balance, updatedAt)
	}
	return m.update(tx, code, func(acc *domain.Account) {
		acc.Balance = balance
		acc.UpdatedAt = updatedAt
	})
}

func (m *MockAccountRepository) SetActive(ctx context.Context, tx usecase.Transaction, code string, active bool, updatedAt time.Time) error {
	return m.update(tx, code, func(acc *domain.Account) {
		acc.Active = active
		acc.UpdatedAt = updatedAt
	})
}

func (m *MockAccountRepository) update(tx usecase.Transaction, code string, apply func(*domain.Account)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	acc, ok := m.accounts[code]
	if !ok {
		return domain.ErrAccountNotFound
	}
	prev := cloneAccount(acc)
	apply(acc)
	acc.Version++
	onRollback(tx, func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		m.accounts[code] = prev
	})
	return nil
}

func (m *MockAccountRepository) List(ctx context.Context, filter domain.AccountFilter) ([]*domain.Account, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	accounts := make([]*domain.Account, 0, len(m.accounts))
	for _, acc := range m.accounts {
		if filter.Type != nil && acc.Type != *filter.Type {
			continue
		}
		if filter.Active != nil && acc.Active != *filter.Active {
			continue
		}
		accounts = append(accounts, cloneAccount(acc))
	}
	slices.SortFunc(accounts, func(a, b *domain.Account) int { return strings.Compare(a.Code, b.Code) })
	return page(accounts, filter.Limit, filter.Offset), nil
}

func (m *MockAccountRepository) ListForUpdate(ctx context.Context, tx usecase.Transaction) ([]*domain.Account, error) {
	return m.List(ctx, domain.AccountFilter{})
}

// MockJournalRepository is a mock implementation of JournalRepository.
type MockJournalRepository struct {
	mu       sync.RWMutex
	entries  []*domain.JournalEntry
	sequence int64

	CreateFunc  func(ctx context.Context, tx usecase.Transaction, entry *domain.JournalEntry) error
	GetByIDFunc func(ctx context.Context, id string) (*domain.JournalEntry, error)
}

func NewMockJournalRepository() *MockJournalRepository {
	return &MockJournalRepository{}
}

func (m *MockJournalRepository) Create(ctx context.Context, tx usecase.Transaction, entry *domain.JournalEntry) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, entry)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sequence++
	entry.Sequence = m.sequence
	m.entries = append(m.entries, cloneEntry(entry))
	onRollback(tx, func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		m.entries = slices.DeleteFunc(m.entries, func(e *domain.JournalEntry) bool { return e.ID == entry.ID })
	})
	return nil
}

func (m *MockJournalRepository) GetByID(ctx context.Context, id string) (*domain.JournalEntry, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, e := range m.entries {
		if e.ID == id {
			return cloneEntry(e), nil
		}
	}
	return nil, domain.ErrEntryNotFound
}

func (m *MockJournalRepository) List(ctx context.Context, filter domain.EntryFilter) ([]*domain.JournalEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var entries []*domain.JournalEntry
	for _, e := range m.entries {
		if filter.SourceType != nil && e.Source.Type != *filter.SourceType {
			continue
		}
		if !inRange(e.PostedAt, filter.From, filter.To) {
			continue
		}
		if filter.AccountCode != nil && !slices.Contains(e.AccountCodes(), *filter.AccountCode) {
			continue
		}
		entries = append(entries, cloneEntry(e))
	}
	return page(entries, filter.Limit, filter.Offset), nil
}

func (m *MockJournalRepository) BalanceAt(ctx context.Context, accountCode string, asOf time.Time) (decimal.Decimal, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	total := decimal.Zero
	for _, e := range m.entries {
		if e.PostedAt.After(asOf) {
			continue
		}
		for _, l := range e.Lines {
			if l.AccountCode == accountCode {
				total = total.Add(l.Amount)
			}
		}
	}
	return total, nil
}

func (m *MockJournalRepository) ActivityByAccount(ctx context.Context, from, to *time.Time) (map[string]decimal.Decimal, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	activity := make(map[string]decimal.Decimal)
	for _, e := range m.entries {
		if !inRange(e.PostedAt, from, to) {
			continue
		}
		for _, l := range e.Lines {
			activity[l.AccountCode] = activity[l.AccountCode].Add(l.Amount)
		}
	}
	return activity, nil
}

func (m *MockJournalRepository) ActivityByAccountTx(ctx context.Context, tx usecase.Transaction) (map[string]decimal.Decimal, error) {
	return m.ActivityByAccount(ctx, nil, nil)
}

// Count returns the number of stored entries.
func (m *MockJournalRepository) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// Backdate moves an entry's posting time, for as-of and fiscal range tests.
func (m *MockJournalRepository) Backdate(id string, postedAt time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.entries {
		if e.ID == id {
			e.PostedAt = postedAt
		}
	}
}

func inRange(t time.Time, from, to *time.Time) bool {
	if from != nil && t.Before(*from) {
		return false
	}
	if to != nil && !t.Before(*to) {
		return false
	}
	return true
}

// MockLedgerRepository sums the in-memory accounts and journal.
type MockLedgerRepository struct {
	accounts *MockAccountRepository
	journal  *MockJournalRepository

	CheckConsistencyFunc func(ctx context.Context) (decimal.Decimal, decimal.Decimal, error)
}

func NewMockLedgerRepository(accounts *MockAccountRepository, journal *MockJournalRepository) *MockLedgerRepository {
	return &MockLedgerRepository{accounts: accounts, journal: journal}
}

func (m *MockLedgerRepository) CheckConsistency(ctx context.Context) (decimal.Decimal, decimal.Decimal, error) {
	if m.CheckConsistencyFunc != nil {
		return m.CheckConsistencyFunc(ctx)
	}
	totalBalance := decimal.Zero
	accounts, _ := m.accounts.List(ctx, domain.AccountFilter{})
	for _, acc := range accounts {
		totalBalance = totalBalance.Add(acc.Balance)
	}
	totalAmount := decimal.Zero
	activity, _ := m.journal.ActivityByAccount(ctx, nil, nil)
	for _, amount := range activity {
		totalAmount = totalAmount.Add(amount)
	}
	return totalBalance, totalAmount, nil
}

// MockContributionRepository is a mock implementation of ContributionRepository.
type MockContributionRepository struct {
	mu      sync.RWMutex
	batches map[string]*domain.ContributionBatch

	MarkPostedFunc func(ctx context.Context, tx usecase.Transaction, id, journalEntryID string, postedAt time.Time, expectedVersion int64) error
}

func NewMockContributionRepository() *MockContributionRepository {
	return &MockContributionRepository{
		batches: make(map[string]*domain.ContributionBatch),
	}
}

func (m *MockContributionRepository) Create(ctx context.Context, tx usecase.Transaction, batch *domain.ContributionBatch) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.batches[batch.ID] = cloneBatch(batch)
	onRollback(tx, func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.batches, batch.ID)
	})
	return nil
}

func (m *MockContributionRepository) GetByID(ctx context.Context, id string) (*domain.ContributionBatch, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if b, ok := m.batches[id]; ok {
		return cloneBatch(b), nil
	}
	return nil, domain.ErrBatchNotFound
}

func (m *MockContributionRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.ContributionBatch, error) {
	return m.GetByID(ctx, id)
}

func (m *MockContributionRepository) MarkPosted(ctx context.Context, tx usecase.Transaction, id, journalEntryID string, postedAt time.Time, expectedVersion int64) error {
	if m.MarkPostedFunc != nil {
		return m.MarkPostedFunc(ctx, tx, id, journalEntryID, postedAt, expectedVersion)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.batches[id]
	if !ok {
		return domain.ErrBatchNotFound
	}
	if b.Version != expectedVersion {
		return domain.ErrConcurrentModification
	}
	prev := cloneBatch(b)
	b.Status = domain.BatchStatusPosted
	b.PostedJournalEntryID = &journalEntryID
	b.PostedAt = &postedAt
	b.UpdatedAt = postedAt
	b.Version++
	onRollback(tx, func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		m.batches[id] = prev
	})
	return nil
}

func (m *MockContributionRepository) List(ctx context.Context, filter domain.BatchFilter) ([]*domain.ContributionBatch, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	batches := make([]*domain.ContributionBatch, 0, len(m.batches))
	for _, b := range m.batches {
		if filter.Status != nil && b.Status != *filter.Status {
			continue
		}
		if filter.OccurrenceRef != nil && (b.OccurrenceRef == nil || *b.OccurrenceRef != *filter.OccurrenceRef) {
			continue
		}
		batches = append(batches, cloneBatch(b))
	}
	slices.SortFunc(batches, func(a, b *domain.ContributionBatch) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(b.ID, a.ID)
	})
	return page(batches, filter.Limit, filter.Offset), nil
}

// MockExpenseRepository is a mock implementation of ExpenseRepository.
type MockExpenseRepository struct {
	mu       sync.RWMutex
	expenses map[string]*domain.Expense

	UpdateFunc func(ctx context.Context, tx usecase.Transaction, expense *domain.Expense, expectedVersion int64) error
}

func NewMockExpenseRepository() *MockExpenseRepository {
	return &MockExpenseRepository{
		expenses: make(map[string]*domain.Expense),
	}
}

func (m *MockExpenseRepository) Create(ctx context.Context, tx usecase.Transaction, expense *domain.Expense) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.expenses[expense.ID] = cloneExpense(expense)
	onRollback(tx, func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.expenses, expense.ID)
	})
	return nil
}

func (m *MockExpenseRepository) GetByID(ctx context.Context, id string) (*domain.Expense, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if e, ok := m.expenses[id]; ok {
		return cloneExpense(e), nil
	}
	return nil, domain.ErrExpenseNotFound
}

func (m *MockExpenseRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Expense, error) {
	return m.GetByID(ctx, id)
}

func (m *MockExpenseRepository) Update(ctx context.Context, tx usecase.Transaction, expense *domain.Expense, expectedVersion int64) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, tx, expense, expectedVersion)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	current, ok := m.expenses[expense.ID]
	if !ok {
		return domain.ErrExpenseNotFound
	}
	if current.Version != expectedVersion {
		return domain.ErrConcurrentModification
	}
	updated := cloneExpense(expense)
	updated.Version = expectedVersion + 1
	m.expenses[expense.ID] = updated
	onRollback(tx, func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		m.expenses[current.ID] = current
	})
	return nil
}

func (m *MockExpenseRepository) List(ctx context.Context, filter domain.ExpenseFilter) ([]*domain.Expense, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	expenses := make([]*domain.Expense, 0, len(m.expenses))
	for _, e := range m.expenses {
		if filter.State != nil && e.State != *filter.State {
			continue
		}
		if filter.RequestedBy != nil && e.RequestedBy != *filter.RequestedBy {
			continue
		}
		if filter.AccountCode != nil && e.AccountCode != *filter.AccountCode {
			continue
		}
		expenses = append(expenses, cloneExpense(e))
	}
	slices.SortFunc(expenses, func(a, b *domain.Expense) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(b.ID, a.ID)
	})
	return page(expenses, filter.Limit, filter.Offset), nil
}

func (m *MockExpenseRepository) CountOpenByAccount(ctx context.Context, tx usecase.Transaction, accountCode string) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n := 0
	for _, e := range m.expenses {
		if e.AccountCode == accountCode && e.State.IsOpen() {
			n++
		}
	}
	return n, nil
}

// MockBudgetRepository is a mock implementation of BudgetRepository.
type MockBudgetRepository struct {
	mu          sync.RWMutex
	fiscalYears map[string]*domain.FiscalYear
	lines       map[string]*domain.BudgetLine

	GetFiscalYearFunc func(ctx context.Context, id string) (*domain.FiscalYear, error)
}

func NewMockBudgetRepository() *MockBudgetRepository {
	return &MockBudgetRepository{
		fiscalYears: make(map[string]*domain.FiscalYear),
		lines:       make(map[string]*domain.BudgetLine),
	}
}

func (m *MockBudgetRepository) CreateFiscalYear(ctx context.Context, tx usecase.Transaction, fy *domain.FiscalYear) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.fiscalYears {
		if existing.Name == fy.Name {
			return domain.ErrDuplicateFiscalYear
		}
	}
	c := *fy
	m.fiscalYears[fy.ID] = &c
	onRollback(tx, func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.fiscalYears, fy.ID)
	})
	return nil
}

func (m *MockBudgetRepository) GetFiscalYear(ctx context.Context, id string) (*domain.FiscalYear, error) {
	if m.GetFiscalYearFunc != nil {
		return m.GetFiscalYearFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if fy, ok := m.fiscalYears[id]; ok {
		c := *fy
		return &c, nil
	}
	return nil, domain.ErrFiscalYearNotFound
}

func (m *MockBudgetRepository) ListFiscalYears(ctx context.Context) ([]*domain.FiscalYear, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	years := make([]*domain.FiscalYear, 0, len(m.fiscalYears))
	for _, fy := range m.fiscalYears {
		c := *fy
		years = append(years, &c)
	}
	slices.SortFunc(years, func(a, b *domain.FiscalYear) int { return a.StartDate.Compare(b.StartDate) })
	return years, nil
}

func (m *MockBudgetRepository) FindOverlapping(ctx context.Context, tx usecase.Transaction, start, end time.Time) ([]*domain.FiscalYear, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	probe := &domain.FiscalYear{StartDate: start, EndDate: end}
	var overlapping []*domain.FiscalYear
	for _, fy := range m.fiscalYears {
		if fy.Overlaps(probe) {
			c := *fy
			overlapping = append(overlapping, &c)
		}
	}
	return overlapping, nil
}

func (m *MockBudgetRepository) UpsertLine(ctx context.Context, tx usecase.Transaction, line *domain.BudgetLine) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := line.FiscalYearID + "/" + line.AccountCode
	prev, existed := m.lines[key]
	c := *line
	m.lines[key] = &c
	onRollback(tx, func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		if existed {
			m.lines[key] = prev
		} else {
			delete(m.lines, key)
		}
	})
	return nil
}

func (m *MockBudgetRepository) ListLines(ctx context.Context, fiscalYearID string) ([]*domain.BudgetLine, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var lines []*domain.BudgetLine
	for _, l := range m.lines {
		if l.FiscalYearID == fiscalYearID {
			c := *l
			lines = append(lines, &c)
		}
	}
	slices.SortFunc(lines, func(a, b *domain.BudgetLine) int { return strings.Compare(a.AccountCode, b.AccountCode) })
	return lines, nil
}

// MockIdempotencyRepository is a mock implementation of IdempotencyRepository.
type MockIdempotencyRepository struct {
	mu      sync.RWMutex
	records map[string]*domain.IdempotencyRecord

	GetTxFunc  func(ctx context.Context, tx usecase.Transaction, key string) (*domain.IdempotencyRecord, error)
	CreateFunc func(ctx context.Context, tx usecase.Transaction, record *domain.IdempotencyRecord) error
}

func NewMockIdempotencyRepository() *MockIdempotencyRepository {
	return &MockIdempotencyRepository{
		records: make(map[string]*domain.IdempotencyRecord),
	}
}

func (m *MockIdempotencyRepository) Get(ctx context.Context, key string) (*domain.IdempotencyRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if r, ok := m.records[key]; ok {
		c := *r
		return &c, nil
	}
	return nil, nil
}

func (m *MockIdempotencyRepository) GetTx(ctx context.Context, tx usecase.Transaction, key string) (*domain.IdempotencyRecord, error) {
	if m.GetTxFunc != nil {
		return m.GetTxFunc(ctx, tx, key)
	}
	return m.Get(ctx, key)
}

func (m *MockIdempotencyRepository) Create(ctx context.Context, tx usecase.Transaction, record *domain.IdempotencyRecord) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, record)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.records[record.Key]; ok {
		return usecase.ErrIdempotencyKeyTaken
	}
	c := *record
	m.records[record.Key] = &c
	onRollback(tx, func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.records, record.Key)
	})
	return nil
}

// Put stores a record directly, outside any transaction.
func (m *MockIdempotencyRepository) Put(record *domain.IdempotencyRecord) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := *record
	m.records[record.Key] = &c
}

func (m *MockIdempotencyRepository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for key, r := range m.records {
		if r.ExpiresAt.Before(before) {
			delete(m.records, key)
			n++
		}
	}
	return n, nil
}

// MockOutboxRepository is a mock implementation of OutboxRepository.
type MockOutboxRepository struct {
	mu     sync.RWMutex
	events []*domain.OutboxEvent

	CreateFunc func(ctx context.Context, tx usecase.Transaction, event *domain.OutboxEvent) error
}

func NewMockOutboxRepository() *MockOutboxRepository {
	return &MockOutboxRepository{}
}

func (m *MockOutboxRepository) Create(ctx context.Context, tx usecase.Transaction, event *domain.OutboxEvent) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, event)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
	onRollback(tx, func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		m.events = slices.DeleteFunc(m.events, func(e *domain.OutboxEvent) bool { return e.ID == event.ID })
	})
	return nil
}

func (m *MockOutboxRepository) GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var events []*domain.OutboxEvent
	for _, e := range m.events {
		if !e.Published {
			events = append(events, e)
		}
	}
	return page(events, limit, 0), nil
}

func (m *MockOutboxRepository) MarkPublished(ctx context.Context, id string, publishedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.events {
		if e.ID == id {
			e.Published = true
			e.PublishedAt = &publishedAt
		}
	}
	return nil
}

func (m *MockOutboxRepository) GetByAggregate(ctx context.Context, aggregateType, aggregateID string, limit, offset int) ([]*domain.OutboxEvent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var events []*domain.OutboxEvent
	for _, e := range m.events {
		if e.AggregateType == aggregateType && e.AggregateID == aggregateID {
			events = append(events, e)
		}
	}
	return page(events, limit, offset), nil
}

func (m *MockOutboxRepository) DeletePublished(ctx context.Context, before time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = slices.DeleteFunc(m.events, func(e *domain.OutboxEvent) bool {
		return e.Published && e.PublishedAt != nil && e.PublishedAt.Before(before)
	})
	return nil
}

// EventTypes returns the type of every stored event in write order.
func (m *MockOutboxRepository) EventTypes() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	types := make([]string, 0, len(m.events))
	for _, e := range m.events {
		types = append(types, e.EventType)
	}
	return types
}

// MockAuditRepository is a mock implementation of AuditRepository.
type MockAuditRepository struct {
	mu   sync.RWMutex
	logs []*domain.AuditLog
}

func NewMockAuditRepository() *MockAuditRepository {
	return &MockAuditRepository{}
}

func (m *MockAuditRepository) CreateTx(ctx context.Context, tx usecase.Transaction, log *domain.AuditLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logs = append(m.logs, log)
	onRollback(tx, func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		m.logs = slices.DeleteFunc(m.logs, func(l *domain.AuditLog) bool { return l.ID == log.ID })
	})
	return nil
}

func (m *MockAuditRepository) List(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditLog, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var logs []*domain.AuditLog
	for _, l := range m.logs {
		if filter.ActorID != "" && l.ActorID != filter.ActorID {
			continue
		}
		if filter.Action != "" && l.Action != filter.Action {
			continue
		}
		if filter.ResourceType != "" && l.ResourceType != filter.ResourceType {
			continue
		}
		if filter.ResourceID != "" && l.ResourceID != filter.ResourceID {
			continue
		}
		logs = append(logs, l)
	}
	return page(logs, filter.Limit, filter.Offset), nil
}
