package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/menuhub/backend/internal/application/media"
	"github.com/menuhub/backend/internal/domain/catalog"
	"github.com/menuhub/backend/internal/domain/identity"
	"github.com/menuhub/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ErrInvalidParent is returned when the parent of a subcategory does not exist in the branch
var ErrInvalidParent = shared.NewDomainError("INVALID_PARENT", "La categoría padre no existe")

// BranchFinder loads a branch of a tenant
type BranchFinder interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*identity.Branch, error)
}

// CategoryService handles category-related business operations
type CategoryService struct {
	categoryRepo catalog.CategoryRepository
	productRepo  catalog.ProductRepository
	branches     BranchFinder
	cleaner      *media.ImageCleaner
	events       shared.EventPublisher
	logger       *zap.Logger
}

// NewCategoryService creates a new CategoryService
func NewCategoryService(
	categoryRepo catalog.CategoryRepository,
	productRepo catalog.ProductRepository,
	branches BranchFinder,
	cleaner *media.ImageCleaner,
	events shared.EventPublisher,
	logger *zap.Logger,
) *CategoryService {
	return &CategoryService{
		categoryRepo: categoryRepo,
		productRepo:  productRepo,
		branches:     branches,
		cleaner:      cleaner,
		events:       events,
		logger:       logger,
	}
}

// Create creates a category, or a subcategory when ParentID is set
func (s *CategoryService) Create(ctx context.Context, tenantID uuid.UUID, input CreateCategoryInput) (*CategoryResponse, error) {
	if _, err := s.branches.FindByIDForTenant(ctx, tenantID, input.BranchID); err != nil {
		return nil, err
	}

	var parent *catalog.Category
	if input.ParentID != nil {
		p, err := s.categoryRepo.FindByIDForTenant(ctx, tenantID, *input.ParentID)
		if err != nil {
			if shared.IsNotFound(err) {
				return nil, ErrInvalidParent
			}
			return nil, err
		}
		if p.BranchID != input.BranchID {
			return nil, ErrInvalidParent
		}
		parent = p
	}

	order := 0
	if input.Order != nil {
		order = *input.Order
	} else {
		highest, err := s.categoryRepo.MaxOrder(ctx, tenantID, input.BranchID, input.ParentID)
		if err != nil {
			return nil, err
		}
		order = catalog.NextOrder(highest)
	}

	var (
		category *catalog.Category
		err      error
	)
	if parent != nil {
		category, err = catalog.NewSubcategory(parent, input.Name, input.Description, order)
	} else {
		category, err = catalog.NewCategory(tenantID, input.BranchID, input.Name, input.Description, order)
	}
	if err != nil {
		return nil, err
	}
	category.ImageURL = input.ImageURL
	if input.CreatedBy != nil {
		category.SetCreatedBy(*input.CreatedBy)
	}

	if err := s.categoryRepo.Save(ctx, category); err != nil {
		return nil, err
	}
	if err := shared.PublishPending(ctx, s.events, category); err != nil {
		s.logger.Warn("Failed to publish category events", zap.Error(err))
	}

	resp := ToCategoryResponse(category)
	return &resp, nil
}

// GetByID retrieves a category with its subcategories
func (s *CategoryService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*CategoryResponse, error) {
	category, err := s.categoryRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := ToCategoryResponse(category)
	if !category.IsSubcategory() {
		children, err := s.categoryRepo.FindByBranch(ctx, tenantID, category.BranchID, &category.ID, false)
		if err != nil {
			return nil, err
		}
		resp.Subcategories = toCategoryResponses(children)
	}
	return &resp, nil
}

// ListByBranch returns the top-level categories of a branch with their subcategories,
// sorted by order then name
func (s *CategoryService) ListByBranch(ctx context.Context, tenantID, branchID uuid.UUID, onlyActive bool) ([]CategoryResponse, error) {
	all, err := s.categoryRepo.FindAllByBranch(ctx, tenantID, branchID, onlyActive)
	if err != nil {
		return nil, err
	}
	catalog.SortByOrder(all)

	children := make(map[uuid.UUID][]catalog.Category)
	for _, c := range all {
		if c.IsSubcategory() {
			children[*c.ParentID] = append(children[*c.ParentID], c)
		}
	}
	out := make([]CategoryResponse, 0, len(all))
	for i := range all {
		if all[i].IsSubcategory() {
			continue
		}
		resp := ToCategoryResponse(&all[i])
		resp.Subcategories = toCategoryResponses(children[all[i].ID])
		out = append(out, resp)
	}
	return out, nil
}

// ListSubcategories returns the children of a category
func (s *CategoryService) ListSubcategories(ctx context.Context, tenantID, parentID uuid.UUID, onlyActive bool) ([]CategoryResponse, error) {
	parent, err := s.categoryRepo.FindByIDForTenant(ctx, tenantID, parentID)
	if err != nil {
		return nil, err
	}
	children, err := s.categoryRepo.FindByBranch(ctx, tenantID, parent.BranchID, &parent.ID, onlyActive)
	if err != nil {
		return nil, err
	}
	return toCategoryResponses(children), nil
}

// Update changes a category. A replaced image is deleted from storage.
func (s *CategoryService) Update(ctx context.Context, tenantID, id uuid.UUID, input UpdateCategoryInput) (*CategoryResponse, error) {
	category, err := s.categoryRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	replaced, err := category.Update(input.Name, input.Description, input.ImageURL)
	if err != nil {
		return nil, err
	}
	if input.Active != nil {
		category.SetActive(*input.Active)
	}
	if err := s.categoryRepo.Save(ctx, category); err != nil {
		return nil, err
	}
	s.cleaner.Remove(ctx, tenantID, replaced)

	resp := ToCategoryResponse(category)
	return &resp, nil
}

// Reorder applies a bulk change of positions
func (s *CategoryService) Reorder(ctx context.Context, tenantID uuid.UUID, input []OrderChangeInput) error {
	changes := make([]catalog.OrderChange, len(input))
	for i, in := range input {
		changes[i] = catalog.OrderChange{ID: in.ID, Order: in.Order}
	}
	if err := catalog.ValidateReorder(changes); err != nil {
		return err
	}
	return s.categoryRepo.UpdateOrders(ctx, tenantID, changes)
}

// Delete removes an empty category and its image
func (s *CategoryService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	category, err := s.categoryRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return err
	}
	children, err := s.categoryRepo.CountChildren(ctx, tenantID, id)
	if err != nil {
		return err
	}
	products, err := s.productRepo.CountByCategory(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if err := category.CanDelete(children, products); err != nil {
		return err
	}
	if err := s.categoryRepo.DeleteForTenant(ctx, tenantID, id); err != nil {
		return err
	}
	s.cleaner.Remove(ctx, tenantID, category.ImageURL)

	s.logger.Info("Category deleted",
		zap.String("tenant_id", tenantID.String()),
		zap.String("category_id", id.String()))
	return nil
}

func toCategoryResponses(categories []catalog.Category) []CategoryResponse {
	out := make([]CategoryResponse, len(categories))
	for i := range categories {
		out[i] = ToCategoryResponse(&categories[i])
	}
	return out
}
