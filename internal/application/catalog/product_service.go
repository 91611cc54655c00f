package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/menuhub/backend/internal/application/media"
	"github.com/menuhub/backend/internal/domain/catalog"
	"github.com/menuhub/backend/internal/domain/identity"
	"github.com/menuhub/backend/internal/domain/shared"
	"github.com/menuhub/backend/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// ErrInvalidCategory is returned when the category or subcategory of a product cannot be used
var ErrInvalidCategory = shared.NewDomainError("INVALID_CATEGORY", "La categoría no existe en esta sucursal")

// ProductService handles product and menu operations
type ProductService struct {
	tenantRepo   identity.TenantRepository
	categoryRepo catalog.CategoryRepository
	productRepo  catalog.ProductRepository
	cleaner      *media.ImageCleaner
	events       shared.EventPublisher
	logger       *zap.Logger
}

// NewProductService creates a new ProductService
func NewProductService(
	tenantRepo identity.TenantRepository,
	categoryRepo catalog.CategoryRepository,
	productRepo catalog.ProductRepository,
	cleaner *media.ImageCleaner,
	events shared.EventPublisher,
	logger *zap.Logger,
) *ProductService {
	return &ProductService{
		tenantRepo:   tenantRepo,
		categoryRepo: categoryRepo,
		productRepo:  productRepo,
		cleaner:      cleaner,
		events:       events,
		logger:       logger,
	}
}

// Create adds a product to the menu of its category's branch. The plan product
// limit is checked before anything is written.
func (s *ProductService) Create(ctx context.Context, tenantID uuid.UUID, input ProductInput) (_ *ProductResponse, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "product", "create", attribute.String("tenant.id", tenantID.String()))
	defer func() { telemetry.EndSpan(span, err) }()

	tenant, err := s.tenantRepo.FindByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	count, err := s.productRepo.CountForTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if !tenant.CanAddProduct(count) {
		s.logger.Info("Product limit reached",
			zap.String("tenant_id", tenantID.String()),
			zap.String("plan", string(tenant.Plan)),
			zap.Int64("products", count))
		return nil, shared.ErrLimitReached
	}

	category, subcategory, err := s.placement(ctx, tenantID, input.CategoryID, input.SubcategoryID)
	if err != nil {
		return nil, err
	}
	product, err := catalog.NewProduct(category, subcategory, input.details())
	if err != nil {
		return nil, err
	}
	for _, extra := range input.Extras {
		added, err := product.AddExtra(extra.Name, extra.Price)
		if err != nil {
			return nil, err
		}
		if extra.Available != nil {
			added.Available = *extra.Available
		}
	}
	if input.CreatedBy != nil {
		product.SetCreatedBy(*input.CreatedBy)
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}
	s.publish(ctx, product)

	resp := ToProductResponse(product)
	return &resp, nil
}

// placement loads the category and optional subcategory a product is filed under
func (s *ProductService) placement(ctx context.Context, tenantID, categoryID uuid.UUID, subcategoryID *uuid.UUID) (*catalog.Category, *catalog.Category, error) {
	category, err := s.categoryRepo.FindByIDForTenant(ctx, tenantID, categoryID)
	if err != nil {
		if shared.IsNotFound(err) {
			return nil, nil, ErrInvalidCategory
		}
		return nil, nil, err
	}
	if subcategoryID == nil {
		return category, nil, nil
	}
	subcategory, err := s.categoryRepo.FindByIDForTenant(ctx, tenantID, *subcategoryID)
	if err != nil {
		if shared.IsNotFound(err) {
			return nil, nil, ErrInvalidCategory
		}
		return nil, nil, err
	}
	return category, subcategory, nil
}

// GetByID retrieves a product with its extras
func (s *ProductService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := ToProductResponse(product)
	return &resp, nil
}

// List retrieves products sorted by order then name
func (s *ProductService) List(ctx context.Context, tenantID uuid.UUID, filter ProductFilter) (shared.Paginated[ProductResponse], error) {
	f := shared.DefaultFilter()
	f.OrderBy = "sort_order"
	f.OrderDir = "asc"
	if filter.Page > 0 {
		f.Page = filter.Page
	}
	if filter.PageSize > 0 {
		f.PageSize = filter.PageSize
	}
	f.Search = filter.Search
	if filter.BranchID != nil {
		f = f.With("branch_id", *filter.BranchID)
	}
	if filter.CategoryID != nil {
		f = f.With("category_id", *filter.CategoryID)
	}
	if filter.SubcategoryID != nil {
		f = f.With("subcategory_id", *filter.SubcategoryID)
	}
	if filter.Available != nil {
		f = f.With("available", *filter.Available)
	}
	if filter.Featured != nil {
		f = f.With("featured", *filter.Featured)
	}

	products, total, err := s.productRepo.FindAllForTenant(ctx, tenantID, f)
	if err != nil {
		return shared.Paginated[ProductResponse]{}, err
	}
	return shared.NewPaginated(toProductResponses(products), total, f.Page, f.Limit()), nil
}

// Update replaces the editable fields and, when it changed, the category of a product
func (s *ProductService) Update(ctx context.Context, tenantID, id uuid.UUID, input ProductInput) (*ProductResponse, error) {
	product, err := s.productRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if input.CategoryID != uuid.Nil && (input.CategoryID != product.CategoryID || !sameID(input.SubcategoryID, product.SubcategoryID)) {
		category, subcategory, err := s.placement(ctx, tenantID, input.CategoryID, input.SubcategoryID)
		if err != nil {
			return nil, err
		}
		if err := product.MoveTo(category, subcategory); err != nil {
			return nil, err
		}
	}
	replaced, err := product.Update(input.details())
	if err != nil {
		return nil, err
	}
	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}
	s.cleaner.Remove(ctx, tenantID, replaced)

	resp := ToProductResponse(product)
	return &resp, nil
}

// SetAvailable pauses or resumes sales of a product
func (s *ProductService) SetAvailable(ctx context.Context, tenantID, id uuid.UUID, available bool) (*ProductResponse, error) {
	return s.mutate(ctx, tenantID, id, func(p *catalog.Product) error {
		p.SetAvailable(available)
		return nil
	})
}

// SetFeatured highlights a product in the storefront
func (s *ProductService) SetFeatured(ctx context.Context, tenantID, id uuid.UUID, featured bool) (*ProductResponse, error) {
	return s.mutate(ctx, tenantID, id, func(p *catalog.Product) error {
		p.SetFeatured(featured)
		return nil
	})
}

// AddExtra adds an extra to a product
func (s *ProductService) AddExtra(ctx context.Context, tenantID, id uuid.UUID, input ExtraInput) (*ProductResponse, error) {
	return s.mutate(ctx, tenantID, id, func(p *catalog.Product) error {
		extra, err := p.AddExtra(input.Name, input.Price)
		if err != nil {
			return err
		}
		if input.Available != nil {
			extra.Available = *input.Available
		}
		return nil
	})
}

// UpdateExtra changes an extra of a product
func (s *ProductService) UpdateExtra(ctx context.Context, tenantID, id, extraID uuid.UUID, input ExtraInput) (*ProductResponse, error) {
	return s.mutate(ctx, tenantID, id, func(p *catalog.Product) error {
		available := true
		if current, ok := p.FindExtra(extraID); ok {
			available = current.Available
		}
		if input.Available != nil {
			available = *input.Available
		}
		return p.UpdateExtra(extraID, input.Name, input.Price, available)
	})
}

// RemoveExtra deletes an extra of a product
func (s *ProductService) RemoveExtra(ctx context.Context, tenantID, id, extraID uuid.UUID) (*ProductResponse, error) {
	return s.mutate(ctx, tenantID, id, func(p *catalog.Product) error {
		return p.RemoveExtra(extraID)
	})
}

// Delete removes a product and its image
func (s *ProductService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	product, err := s.productRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if err := s.productRepo.DeleteForTenant(ctx, tenantID, id); err != nil {
		return err
	}
	s.cleaner.Remove(ctx, tenantID, product.ImageURL)
	s.logger.Info("Product deleted",
		zap.String("tenant_id", tenantID.String()),
		zap.String("product_id", id.String()))
	return nil
}

// CountForTenant returns how many products the tenant has
func (s *ProductService) CountForTenant(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	return s.productRepo.CountForTenant(ctx, tenantID)
}

// Menu builds the public menu of a branch: available products grouped by active category
func (s *ProductService) Menu(ctx context.Context, tenantID, branchID uuid.UUID) (_ *MenuResponse, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "product", "menu", attribute.String("branch.id", branchID.String()))
	defer func() { telemetry.EndSpan(span, err) }()

	categories, err := s.categoryRepo.FindAllByBranch(ctx, tenantID, branchID, true)
	if err != nil {
		return nil, err
	}
	products, err := s.productRepo.FindByBranch(ctx, tenantID, branchID, true)
	if err != nil {
		return nil, err
	}
	return toMenuResponse(branchID, catalog.BuildMenu(categories, products)), nil
}

func (s *ProductService) mutate(ctx context.Context, tenantID, id uuid.UUID, fn func(*catalog.Product) error) (*ProductResponse, error) {
	product, err := s.productRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := fn(product); err != nil {
		return nil, err
	}
	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}
	s.publish(ctx, product)
	resp := ToProductResponse(product)
	return &resp, nil
}

func (s *ProductService) publish(ctx context.Context, product *catalog.Product) {
	if err := shared.PublishPending(ctx, s.events, product); err != nil {
		s.logger.Warn("Failed to publish product events", zap.String("product_id", product.ID.String()), zap.Error(err))
	}
}

func sameID(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
