package finance

import (
	"context"

	"github.com/google/uuid"
	"github.com/menuhub/backend/internal/application/media"
	"github.com/menuhub/backend/internal/domain/finance"
	"github.com/menuhub/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ExpenseService handles branch expenses
type ExpenseService struct {
	expenseRepo finance.ExpenseRepository
	branches    BranchFinder
	cleaner     *media.ImageCleaner
	logger      *zap.Logger
}

// NewExpenseService creates a new ExpenseService
func NewExpenseService(expenseRepo finance.ExpenseRepository, branches BranchFinder, cleaner *media.ImageCleaner, logger *zap.Logger) *ExpenseService {
	return &ExpenseService{
		expenseRepo: expenseRepo,
		branches:    branches,
		cleaner:     cleaner,
		logger:      logger,
	}
}

// Create records an expense
func (s *ExpenseService) Create(ctx context.Context, tenantID uuid.UUID, input ExpenseInput) (*ExpenseResponse, error) {
	if _, err := s.branches.FindByIDForTenant(ctx, tenantID, input.BranchID); err != nil {
		return nil, err
	}
	expense, err := finance.NewExpense(tenantID, input.BranchID, input.details())
	if err != nil {
		return nil, err
	}
	if input.CreatedBy != nil {
		expense.SetCreatedBy(*input.CreatedBy)
	}
	if err := s.expenseRepo.Save(ctx, expense); err != nil {
		return nil, err
	}
	resp := ToExpenseResponse(expense)
	return &resp, nil
}

// GetByID retrieves an expense
func (s *ExpenseService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*ExpenseResponse, error) {
	expense, err := s.expenseRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := ToExpenseResponse(expense)
	return &resp, nil
}

// List retrieves expenses, newest date first
func (s *ExpenseService) List(ctx context.Context, tenantID uuid.UUID, filter ExpenseFilter) (shared.Paginated[ExpenseResponse], error) {
	f := shared.DefaultFilter()
	f.OrderBy = "date"
	if filter.Page > 0 {
		f.Page = filter.Page
	}
	if filter.PageSize > 0 {
		f.PageSize = filter.PageSize
	}
	f.From = filter.From
	f.To = filter.To
	if filter.BranchID != nil {
		f = f.With("branch_id", *filter.BranchID)
	}
	if filter.Category != "" {
		f = f.With("category", filter.Category)
	}

	expenses, total, err := s.expenseRepo.FindAllForTenant(ctx, tenantID, f)
	if err != nil {
		return shared.Paginated[ExpenseResponse]{}, err
	}
	out := make([]ExpenseResponse, len(expenses))
	for i := range expenses {
		out[i] = ToExpenseResponse(&expenses[i])
	}
	return shared.NewPaginated(out, total, f.Page, f.Limit()), nil
}

// Update replaces an expense. A replaced receipt is deleted from storage.
func (s *ExpenseService) Update(ctx context.Context, tenantID, id uuid.UUID, input ExpenseInput) (*ExpenseResponse, error) {
	expense, err := s.expenseRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	replaced, err := expense.Update(input.details())
	if err != nil {
		return nil, err
	}
	if err := s.expenseRepo.Save(ctx, expense); err != nil {
		return nil, err
	}
	s.cleaner.Remove(ctx, tenantID, replaced)

	resp := ToExpenseResponse(expense)
	return &resp, nil
}

// Delete removes an expense and its receipt
func (s *ExpenseService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	expense, err := s.expenseRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if err := s.expenseRepo.DeleteForTenant(ctx, tenantID, id); err != nil {
		return err
	}
	s.cleaner.Remove(ctx, tenantID, expense.ReceiptURL)
	s.logger.Info("Expense deleted",
		zap.String("tenant_id", tenantID.String()),
		zap.String("expense_id", id.String()))
	return nil
}
