package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/menuhub/backend/internal/application/media"
	"github.com/menuhub/backend/internal/domain/catalog"
	"github.com/menuhub/backend/internal/domain/identity"
	"github.com/menuhub/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type productFixture struct {
	tenants    *MockTenantRepository
	categories *MockCategoryRepository
	products   *MockProductRepository
	storage    *recordingStorage
	pub        *recordingPublisher
	svc        *ProductService
	tenant     *identity.Tenant
	category   *catalog.Category
}

func newProductFixture(t *testing.T) *productFixture {
	tenant, err := identity.NewTenant("pizzanow", "Pizza Now", identity.PlanFree)
	require.NoError(t, err)
	tenant.ClearDomainEvents()

	f := &productFixture{
		tenants:    new(MockTenantRepository),
		categories: new(MockCategoryRepository),
		products:   new(MockProductRepository),
		storage:    &recordingStorage{},
		pub:        &recordingPublisher{},
		tenant:     tenant,
		category:   newCategory(t, tenant.ID, uuid.New(), "Pizzas", 0),
	}
	cleaner := media.NewImageCleaner(f.storage, zap.NewNop())
	f.svc = NewProductService(f.tenants, f.categories, f.products, cleaner, f.pub, zap.NewNop())
	f.tenants.On("FindByID", mock.Anything, tenant.ID).Return(tenant, nil).Maybe()
	f.categories.On("FindByIDForTenant", mock.Anything, tenant.ID, f.category.ID).Return(f.category, nil).Maybe()
	return f
}

func (f *productFixture) newProduct(t *testing.T, name string) *catalog.Product {
	t.Helper()
	p, err := catalog.NewProduct(f.category, nil, catalog.ProductDetails{Name: name, Price: decimal.NewFromInt(10)})
	require.NoError(t, err)
	p.ClearDomainEvents()
	f.products.On("FindByIDForTenant", mock.Anything, f.tenant.ID, p.ID).Return(p, nil).Maybe()
	return p
}

func TestProductService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("creates product with extras", func(t *testing.T) {
		f := newProductFixture(t)
		f.products.On("CountForTenant", mock.Anything, f.tenant.ID).Return(int64(3), nil)
		f.products.On("Save", mock.Anything, mock.AnythingOfType("*catalog.Product")).Return(nil)
		hidden := false

		resp, err := f.svc.Create(ctx, f.tenant.ID, ProductInput{
			CategoryID: f.category.ID,
			Name:       "Muzzarella",
			Price:      decimal.NewFromInt(8500),
			Extras: []ExtraInput{
				{Name: "Doble queso", Price: decimal.NewFromInt(1200)},
				{Name: "Aceitunas", Price: decimal.NewFromInt(500), Available: &hidden},
			},
		})
		require.NoError(t, err)
		assert.Equal(t, f.category.BranchID, resp.BranchID)
		assert.True(t, resp.Available)
		require.Len(t, resp.Extras, 2)
		assert.True(t, resp.Extras[0].Available)
		assert.False(t, resp.Extras[1].Available)
		assert.True(t, resp.EffectivePrice.Equal(decimal.NewFromInt(8500)))
		assert.Equal(t, []string{catalog.EventTypeProductCreated}, f.pub.types())
	})

	t.Run("free plan stops at fifty products", func(t *testing.T) {
		f := newProductFixture(t)
		f.products.On("CountForTenant", mock.Anything, f.tenant.ID).Return(int64(50), nil)

		_, err := f.svc.Create(ctx, f.tenant.ID, ProductInput{CategoryID: f.category.ID, Name: "Fugazza", Price: decimal.NewFromInt(9000)})
		assert.ErrorIs(t, err, shared.ErrLimitReached)
		assert.Equal(t, "Límite alcanzado", err.Error())
		f.products.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("enterprise plan has no limit", func(t *testing.T) {
		f := newProductFixture(t)
		require.NoError(t, f.tenant.ChangePlan(identity.PlanEnterprise))
		f.products.On("CountForTenant", mock.Anything, f.tenant.ID).Return(int64(100000), nil)
		f.products.On("Save", mock.Anything, mock.Anything).Return(nil)

		_, err := f.svc.Create(ctx, f.tenant.ID, ProductInput{CategoryID: f.category.ID, Name: "Fugazza", Price: decimal.NewFromInt(9000)})
		require.NoError(t, err)
	})

	t.Run("unknown category", func(t *testing.T) {
		f := newProductFixture(t)
		missing := uuid.New()
		f.products.On("CountForTenant", mock.Anything, f.tenant.ID).Return(int64(0), nil)
		f.categories.On("FindByIDForTenant", mock.Anything, f.tenant.ID, missing).Return(nil, shared.ErrNotFound)

		_, err := f.svc.Create(ctx, f.tenant.ID, ProductInput{CategoryID: missing, Name: "Fugazza", Price: decimal.NewFromInt(9000)})
		assert.ErrorIs(t, err, ErrInvalidCategory)
	})

	t.Run("duplicate extra names", func(t *testing.T) {
		f := newProductFixture(t)
		f.products.On("CountForTenant", mock.Anything, f.tenant.ID).Return(int64(0), nil)

		_, err := f.svc.Create(ctx, f.tenant.ID, ProductInput{
			CategoryID: f.category.ID,
			Name:       "Fugazza",
			Price:      decimal.NewFromInt(9000),
			Extras: []ExtraInput{
				{Name: "Cebolla", Price: decimal.NewFromInt(300)},
				{Name: "cebolla", Price: decimal.NewFromInt(300)},
			},
		})
		assertCode(t, err, "EXTRA_EXISTS")
	})
}

func TestProductService_SetAvailable(t *testing.T) {
	f := newProductFixture(t)
	product := f.newProduct(t, "Muzzarella")
	f.products.On("Save", mock.Anything, product).Return(nil)

	resp, err := f.svc.SetAvailable(context.Background(), f.tenant.ID, product.ID, false)
	require.NoError(t, err)
	assert.False(t, resp.Available)
	assert.Equal(t, []string{catalog.EventTypeProductAvailabilityChanged}, f.pub.types())

	// unchanged availability emits nothing
	_, err = f.svc.SetAvailable(context.Background(), f.tenant.ID, product.ID, false)
	require.NoError(t, err)
	assert.Len(t, f.pub.events, 1)
}

func TestProductService_Extras(t *testing.T) {
	ctx := context.Background()
	f := newProductFixture(t)
	product := f.newProduct(t, "Muzzarella")
	f.products.On("Save", mock.Anything, product).Return(nil)

	resp, err := f.svc.AddExtra(ctx, f.tenant.ID, product.ID, ExtraInput{Name: "Jamón", Price: decimal.NewFromInt(900)})
	require.NoError(t, err)
	require.Len(t, resp.Extras, 1)
	extraID := resp.Extras[0].ID

	off := false
	resp, err = f.svc.UpdateExtra(ctx, f.tenant.ID, product.ID, extraID, ExtraInput{Name: "Jamón crudo", Price: decimal.NewFromInt(1500), Available: &off})
	require.NoError(t, err)
	assert.Equal(t, "Jamón crudo", resp.Extras[0].Name)
	assert.False(t, resp.Extras[0].Available)

	// availability is kept when not given
	resp, err = f.svc.UpdateExtra(ctx, f.tenant.ID, product.ID, extraID, ExtraInput{Name: "Jamón crudo", Price: decimal.NewFromInt(1600)})
	require.NoError(t, err)
	assert.False(t, resp.Extras[0].Available)
	assert.True(t, resp.Extras[0].Price.Equal(decimal.NewFromInt(1600)))

	resp, err = f.svc.RemoveExtra(ctx, f.tenant.ID, product.ID, extraID)
	require.NoError(t, err)
	assert.Empty(t, resp.Extras)

	_, err = f.svc.RemoveExtra(ctx, f.tenant.ID, product.ID, extraID)
	assertCode(t, err, "EXTRA_NOT_FOUND")
}

func TestProductService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("replaced image is removed", func(t *testing.T) {
		f := newProductFixture(t)
		product := f.newProduct(t, "Muzzarella")
		product.ImageURL = storageBase + "tenants/x/products/old.webp"
		f.products.On("Save", mock.Anything, product).Return(nil)

		resp, err := f.svc.Update(ctx, f.tenant.ID, product.ID, ProductInput{
			CategoryID: f.category.ID,
			Name:       "Muzzarella especial",
			Price:      decimal.NewFromInt(9500),
			ImageURL:   storageBase + "tenants/x/products/new.webp",
		})
		require.NoError(t, err)
		assert.Equal(t, "Muzzarella especial", resp.Name)
		assert.Equal(t, []string{"tenants/x/products/old.webp"}, f.storage.deleted)
	})

	t.Run("moves to a subcategory", func(t *testing.T) {
		f := newProductFixture(t)
		product := f.newProduct(t, "Muzzarella")
		sub, err := catalog.NewSubcategory(f.category, "Clásicas", "", 0)
		require.NoError(t, err)
		f.categories.On("FindByIDForTenant", mock.Anything, f.tenant.ID, sub.ID).Return(sub, nil)
		f.products.On("Save", mock.Anything, product).Return(nil)

		resp, err := f.svc.Update(ctx, f.tenant.ID, product.ID, ProductInput{
			CategoryID:    f.category.ID,
			SubcategoryID: &sub.ID,
			Name:          "Muzzarella",
			Price:         decimal.NewFromInt(10),
		})
		require.NoError(t, err)
		require.NotNil(t, resp.SubcategoryID)
		assert.Equal(t, sub.ID, *resp.SubcategoryID)
		assert.Empty(t, f.storage.deleted)
	})
}

func TestProductService_Delete(t *testing.T) {
	f := newProductFixture(t)
	product := f.newProduct(t, "Muzzarella")
	product.ImageURL = "https://elsewhere.example/pizza.webp"
	f.products.On("DeleteForTenant", mock.Anything, f.tenant.ID, product.ID).Return(nil)

	require.NoError(t, f.svc.Delete(context.Background(), f.tenant.ID, product.ID))
	assert.Empty(t, f.storage.deleted)
	f.products.AssertExpectations(t)
}

func TestProductService_List(t *testing.T) {
	f := newProductFixture(t)
	product := f.newProduct(t, "Muzzarella")
	branchID := f.category.BranchID
	available := true

	f.products.On("FindAllForTenant", mock.Anything, f.tenant.ID, mock.MatchedBy(func(filter shared.Filter) bool {
		return filter.OrderBy == "sort_order" &&
			filter.OrderDir == "asc" &&
			filter.Filters["branch_id"] == branchID &&
			filter.Filters["available"] == true &&
			filter.Page == 2
	})).Return([]catalog.Product{*product}, int64(21), nil)

	page, err := f.svc.List(context.Background(), f.tenant.ID, ProductFilter{Page: 2, BranchID: &branchID, Available: &available})
	require.NoError(t, err)
	assert.Equal(t, int64(21), page.Total)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Muzzarella", page.Items[0].Name)
}

func TestProductService_Menu(t *testing.T) {
	f := newProductFixture(t)
	branchID := f.category.BranchID
	drinks := newCategory(t, f.tenant.ID, branchID, "Bebidas", 1)
	pizza := f.newProduct(t, "Muzzarella")

	f.categories.On("FindAllByBranch", mock.Anything, f.tenant.ID, branchID, true).
		Return([]catalog.Category{*drinks, *f.category}, nil)
	f.products.On("FindByBranch", mock.Anything, f.tenant.ID, branchID, true).
		Return([]catalog.Product{*pizza}, nil)

	menu, err := f.svc.Menu(context.Background(), f.tenant.ID, branchID)
	require.NoError(t, err)
	assert.Equal(t, branchID, menu.BranchID)
	require.Len(t, menu.Sections, 1)
	assert.Equal(t, "Pizzas", menu.Sections[0].Category.Name)
	require.Len(t, menu.Sections[0].Products, 1)
	assert.Equal(t, "Muzzarella", menu.Sections[0].Products[0].Name)
}
