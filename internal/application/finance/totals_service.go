package finance

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/menuhub/backend/internal/domain/finance"
	"github.com/menuhub/backend/internal/domain/shared"
	"github.com/menuhub/backend/internal/domain/trade"
)

// OrderStatsSource aggregates orders over a period
type OrderStatsSource interface {
	Stats(ctx context.Context, tenantID uuid.UUID, branchID *uuid.UUID, from, to time.Time) (*trade.OrderStats, error)
}

// TotalsService computes the financial totals of a period
type TotalsService struct {
	orders      OrderStatsSource
	expenseRepo finance.ExpenseRepository
}

// NewTotalsService creates a new TotalsService
func NewTotalsService(orders OrderStatsSource, expenseRepo finance.ExpenseRepository) *TotalsService {
	return &TotalsService{orders: orders, expenseRepo: expenseRepo}
}

// Totals returns revenue, expenses and order figures between from and to.
// A nil branchID covers every branch of the tenant.
func (s *TotalsService) Totals(ctx context.Context, tenantID uuid.UUID, branchID *uuid.UUID, from, to time.Time) (*TotalsResponse, error) {
	if to.Before(from) {
		return nil, shared.NewDomainError("INVALID_RANGE", "La fecha de inicio debe ser anterior a la fecha de fin")
	}
	stats, err := s.orders.Stats(ctx, tenantID, branchID, from, to)
	if err != nil {
		return nil, err
	}
	expenses, err := s.expenseRepo.SumForPeriod(ctx, tenantID, branchID, from, to)
	if err != nil {
		return nil, err
	}

	byStatus := make(map[string]int64, len(stats.ByStatus))
	for st, n := range stats.ByStatus {
		byStatus[string(st)] = n
	}
	totals := finance.NewFinancialTotals(stats.Revenue, expenses, stats.Count, stats.PaidCount, byStatus)
	return &TotalsResponse{
		BranchID:       branchID,
		From:           from,
		To:             to,
		Revenue:        totals.Revenue,
		Expenses:       totals.Expenses,
		NetProfit:      totals.NetProfit,
		OrderCount:     totals.OrderCount,
		PaidCount:      totals.PaidCount,
		AverageTicket:  totals.AverageTicket,
		OrdersByStatus: totals.OrdersByStatus,
	}, nil
}
