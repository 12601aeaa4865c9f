// Package mocks provides in-memory implementations of the use case ports.
// Repositories honour transactions: writes made through a *MockTransaction
// are undone when it rolls back, and MockTransactionManager runs one
// transaction at a time, which stands in for row locks.
package mocks

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/iho/treasury/internal/domain"
	"github.com/iho/treasury/internal/usecase"
)

// MockTransactionManager is a mock implementation of TransactionManager.
type MockTransactionManager struct {
	mu sync.Mutex

	BeginFunc func(ctx context.Context) (usecase.Transaction, error)

	begun      int
	committed  int
	rolledBack int
	statsMu    sync.Mutex
}

func NewMockTransactionManager() *MockTransactionManager {
	return &MockTransactionManager{}
}

func (m *MockTransactionManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.count(&m.begun)

	tx := &MockTransaction{manager: m}
	tx.release = m.mu.Unlock
	return tx, nil
}

func (m *MockTransactionManager) count(n *int) {
	m.statsMu.Lock()
	defer m.statsMu.Unlock()
	*n++
}

// Stats returns how many transactions were begun, committed and rolled back.
func (m *MockTransactionManager) Stats() (begun, committed, rolledBack int) {
	m.statsMu.Lock()
	defer m.statsMu.Unlock()
	return m.begun, m.committed, m.rolledBack
}

// MockTransaction is a mock implementation of Transaction.
type MockTransaction struct {
	CommitFunc   func(ctx context.Context) error
	RollbackFunc func(ctx context.Context) error

	manager *MockTransactionManager
	release func()
	undo    []func()
	done    bool
}

// OnRollback registers fn to run if the transaction rolls back.
func (m *MockTransaction) OnRollback(fn func()) {
	m.undo = append(m.undo, fn)
}

func (m *MockTransaction) Commit(ctx context.Context) error {
	if m.done {
		return fmt.Errorf("transaction already closed")
	}
	if m.CommitFunc != nil {
		if err := m.CommitFunc(ctx); err != nil {
			return err
		}
	}
	m.finish()
	if m.manager != nil {
		m.manager.count(&m.manager.committed)
	}
	return nil
}

func (m *MockTransaction) Rollback(ctx context.Context) error {
	if m.done {
		return nil
	}
	for i := len(m.undo) - 1; i >= 0; i-- {
		m.undo[i]()
	}
	m.finish()
	if m.manager != nil {
		m.manager.count(&m.manager.rolledBack)
	}
	if m.RollbackFunc != nil {
		return m.RollbackFunc(ctx)
	}
	return nil
}

func (m *MockTransaction) finish() {
	m.done = true
	m.undo = nil
	if m.release != nil {
		m.release()
		m.release = nil
	}
}

// onRollback registers undo on tx when it is a *MockTransaction.
func onRollback(tx usecase.Transaction, undo func()) {
	if mt, ok := tx.(*MockTransaction); ok {
		mt.OnRollback(undo)
	}
}

// MockRetrier retries transient errors up to MaxAttempts times without
// sleeping.
type MockRetrier struct {
	MaxAttempts int

	mu       sync.Mutex
	attempts int
}

func NewMockRetrier() *MockRetrier {
	return &MockRetrier{MaxAttempts: 3}
}

func (m *MockRetrier) Retry(ctx context.Context, operation func() error) error {
	var err error
	for attempt := 1; attempt <= m.MaxAttempts; attempt++ {
		m.mu.Lock()
		m.attempts++
		m.mu.Unlock()

		err = operation()
		if err == nil || domain.KindOf(err) != domain.KindTransient {
			return err
		}
	}
	return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
}

// Attempts returns the number of operation calls so far.
func (m *MockRetrier) Attempts() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.attempts
}

// MockIDGenerator is a mock implementation of IDGenerator.
type MockIDGenerator struct {
	GenerateFunc func() string
	counter      int
	mu           sync.Mutex
}

func NewMockIDGenerator() *MockIDGenerator {
	return &MockIDGenerator{}
}

func (m *MockIDGenerator) Generate() string {
	if m.GenerateFunc != nil {
		return m.GenerateFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counter++
	return fmt.Sprintf("mock-id-%04d", m.counter)
}

// MockCache is a mock implementation of Cache.
type MockCache struct {
	mu   sync.RWMutex
	data map[string][]byte

	GetFunc func(ctx context.Context, key string) ([]byte, error)
	hits    int
}

func NewMockCache() *MockCache {
	return &MockCache{data: make(map[string][]byte)}
}

func (m *MockCache) Get(ctx context.Context, key string) ([]byte, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, key)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	if !ok {
		return nil, nil
	}
	m.hits++
	return v, nil
}

func (m *MockCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *MockCache) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

// Hits returns how many Get calls found a value.
func (m *MockCache) Hits() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.hits
}

// MockIdempotencyStore is a mock implementation of IdempotencyStore.
type MockIdempotencyStore struct {
	mu   sync.RWMutex
	data map[string][]byte

	CheckAndSetFunc func(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	UpdateFunc      func(ctx context.Context, key string, response []byte, ttl time.Duration) error
}

func NewMockIdempotencyStore() *MockIdempotencyStore {
	return &MockIdempotencyStore{
		data: make(map[string][]byte),
	}
}

func (m *MockIdempotencyStore) CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
	if m.CheckAndSetFunc != nil {
		return m.CheckAndSetFunc(ctx, key, response, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.data[key]; ok {
		return true, existing, nil
	}
	if response != nil {
		m.data[key] = response
	} else {
		m.data[key] = []byte("processing")
	}
	return false, nil, nil
}

func (m *MockIdempotencyStore) Update(ctx context.Context, key string, response []byte, ttl time.Duration) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, key, response, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = response
	return nil
}

func (m *MockIdempotencyStore) Release(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

// Value returns the stored response for key.
func (m *MockIdempotencyStore) Value(key string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	return v, ok
}
