package finance

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/menuhub/backend/internal/domain/finance"
	"github.com/menuhub/backend/internal/domain/identity"
	"github.com/menuhub/backend/internal/domain/shared"
	"github.com/menuhub/backend/internal/domain/trade"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// MockCashRegisterRepository is a mock implementation of finance.CashRegisterRepository
type MockCashRegisterRepository struct {
	mock.Mock
}

func (m *MockCashRegisterRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*finance.CashRegister, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.CashRegister), args.Error(1)
}

func (m *MockCashRegisterRepository) FindOpenByBranch(ctx context.Context, tenantID, branchID uuid.UUID) (*finance.CashRegister, error) {
	args := m.Called(ctx, tenantID, branchID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.CashRegister), args.Error(1)
}

func (m *MockCashRegisterRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]finance.CashRegister, int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]finance.CashRegister), args.Get(1).(int64), args.Error(2)
}

func (m *MockCashRegisterRepository) CountOpenByBranch(ctx context.Context, tenantID, branchID uuid.UUID) (int64, error) {
	args := m.Called(ctx, tenantID, branchID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCashRegisterRepository) Create(ctx context.Context, register *finance.CashRegister) error {
	return m.Called(ctx, register).Error(0)
}

func (m *MockCashRegisterRepository) SaveWithLock(ctx context.Context, register *finance.CashRegister, expectedVersion int) error {
	return m.Called(ctx, register, expectedVersion).Error(0)
}

// MockExpenseRepository is a mock implementation of finance.ExpenseRepository
type MockExpenseRepository struct {
	mock.Mock
}

func (m *MockExpenseRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*finance.Expense, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.Expense), args.Error(1)
}

func (m *MockExpenseRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]finance.Expense, int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]finance.Expense), args.Get(1).(int64), args.Error(2)
}

func (m *MockExpenseRepository) SumForPeriod(ctx context.Context, tenantID uuid.UUID, branchID *uuid.UUID, from, to time.Time) (decimal.Decimal, error) {
	args := m.Called(ctx, tenantID, branchID, from, to)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockExpenseRepository) Save(ctx context.Context, expense *finance.Expense) error {
	return m.Called(ctx, expense).Error(0)
}

func (m *MockExpenseRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return m.Called(ctx, tenantID, id).Error(0)
}

// MockBranchFinder is a mock implementation of BranchFinder
type MockBranchFinder struct {
	mock.Mock
}

func (m *MockBranchFinder) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*identity.Branch, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Branch), args.Error(1)
}

// MockOrderStatsSource is a mock implementation of OrderStatsSource
type MockOrderStatsSource struct {
	mock.Mock
}

func (m *MockOrderStatsSource) Stats(ctx context.Context, tenantID uuid.UUID, branchID *uuid.UUID, from, to time.Time) (*trade.OrderStats, error) {
	args := m.Called(ctx, tenantID, branchID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trade.OrderStats), args.Error(1)
}

const storageBase = "https://cdn.menuhub.test/"

type recordingStorage struct {
	deleted []string
}

func (s *recordingStorage) Put(context.Context, string, []byte, string) error { return nil }

func (s *recordingStorage) Delete(_ context.Context, key string) error {
	s.deleted = append(s.deleted, key)
	return nil
}

func (s *recordingStorage) Exists(context.Context, string) (bool, error) { return true, nil }

func (s *recordingStorage) PublicURL(key string) string { return storageBase + key }

func (s *recordingStorage) KeyFromURL(rawURL string) (string, bool) {
	if !strings.HasPrefix(rawURL, storageBase) {
		return "", false
	}
	return strings.TrimPrefix(rawURL, storageBase), true
}

type recordingPublisher struct {
	events []shared.DomainEvent
}

func (p *recordingPublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	p.events = append(p.events, events...)
	return nil
}

func (p *recordingPublisher) types() []string {
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.EventType()
	}
	return out
}
