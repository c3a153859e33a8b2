package mocks

import (
	"context"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"

	"numledger/internal/domain"
	"numledger/internal/usecase"
)

// MemoryRepository is an in-memory implementation of usecase.Repository.
// The *Func fields, when set, override the default behavior so tests can
// inject failures at the persistence boundary.
type MemoryRepository struct {
	mu       sync.RWMutex
	entries  map[string][]*domain.Entry
	balances map[string]decimal.Decimal

	LoadEntriesFunc func(ctx context.Context, projectID string) ([]*domain.Entry, error)
	SaveEntriesFunc func(ctx context.Context, projectID string, entries []*domain.Entry) error
	LoadBalanceFunc func(ctx context.Context, userID string) (decimal.Decimal, error)
	SaveBalanceFunc func(ctx context.Context, userID string, balance decimal.Decimal) error
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		entries:  make(map[string][]*domain.Entry),
		balances: make(map[string]decimal.Decimal),
	}
}

// SetBalance seeds a user's balance.
func (m *MemoryRepository) SetBalance(userID string, balance decimal.Decimal) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.balances[userID] = balance
}

// StoredEntries returns the persisted entry list for a project.
func (m *MemoryRepository) StoredEntries(projectID string) []*domain.Entry {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*domain.Entry, len(m.entries[projectID]))
	copy(out, m.entries[projectID])

	return out
}

func (m *MemoryRepository) LoadEntries(ctx context.Context, projectID string) ([]*domain.Entry, error) {
	if m.LoadEntriesFunc != nil {
		return m.LoadEntriesFunc(ctx, projectID)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*domain.Entry, len(m.entries[projectID]))
	for i, e := range m.entries[projectID] {
		out[i] = e.Clone()
	}

	return out, nil
}

func (m *MemoryRepository) SaveEntries(ctx context.Context, projectID string, entries []*domain.Entry) error {
	if m.SaveEntriesFunc != nil {
		return m.SaveEntriesFunc(ctx, projectID, entries)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	stored := make([]*domain.Entry, len(entries))
	for i, e := range entries {
		stored[i] = e.Clone()
	}
	m.entries[projectID] = stored

	return nil
}

func (m *MemoryRepository) LoadBalance(ctx context.Context, userID string) (decimal.Decimal, error) {
	if m.LoadBalanceFunc != nil {
		return m.LoadBalanceFunc(ctx, userID)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	balance, ok := m.balances[userID]
	if !ok {
		return decimal.Zero, nil
	}

	return balance, nil
}

func (m *MemoryRepository) SaveBalance(ctx context.Context, userID string, balance decimal.Decimal) error {
	if m.SaveBalanceFunc != nil {
		return m.SaveBalanceFunc(ctx, userID, balance)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.balances[userID] = balance

	return nil
}

var _ usecase.Repository = (*MemoryRepository)(nil)

// SequenceIDGenerator produces deterministic IDs for tests.
type SequenceIDGenerator struct {
	mu sync.Mutex
	n  int
}

func NewSequenceIDGenerator() *SequenceIDGenerator {
	return &SequenceIDGenerator{}
}

func (g *SequenceIDGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++

	return fmt.Sprintf("id-%04d", g.n)
}

var _ usecase.IDGenerator = (*SequenceIDGenerator)(nil)
