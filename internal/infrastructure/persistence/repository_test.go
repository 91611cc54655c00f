package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/menuhub/backend/internal/domain/catalog"
	"github.com/menuhub/backend/internal/domain/finance"
	"github.com/menuhub/backend/internal/domain/identity"
	"github.com/menuhub/backend/internal/domain/shared"
	"github.com/menuhub/backend/internal/domain/trade"
	"github.com/menuhub/backend/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	// every connection to :memory: is a separate database
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(models.All()...))
	return db
}

func dec(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func wideRange() (time.Time, time.Time) {
	return time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2100, 1, 1, 0, 0, 0, 0, time.UTC)
}

func TestGormBranchRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormBranchRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()

	centro, err := identity.NewBranch(tenantID, identity.BranchDetails{Name: "Centro", City: "Córdoba"})
	require.NoError(t, err)
	norte, err := identity.NewBranch(tenantID, identity.BranchDetails{Name: "Norte"})
	require.NoError(t, err)
	other, err := identity.NewBranch(uuid.New(), identity.BranchDetails{Name: "Ajena"})
	require.NoError(t, err)
	for _, b := range []*identity.Branch{norte, centro, other} {
		require.NoError(t, repo.Save(ctx, b))
	}

	count, err := repo.CountForTenant(ctx, tenantID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	branches, total, err := repo.FindAllForTenant(ctx, tenantID, shared.Filter{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, branches, 2)
	assert.Equal(t, "Centro", branches[0].Name)

	_, err = repo.FindByIDForTenant(ctx, tenantID, other.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	require.NoError(t, repo.DeleteForTenant(ctx, tenantID, norte.ID))
	assert.ErrorIs(t, repo.DeleteForTenant(ctx, tenantID, norte.ID), shared.ErrNotFound)
}

func TestGormCategoryRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormCategoryRepository(db)
	ctx := context.Background()
	tenantID, branchID := uuid.New(), uuid.New()

	maxOrder, err := repo.MaxOrder(ctx, tenantID, branchID, nil)
	require.NoError(t, err)
	assert.Nil(t, maxOrder)

	pizzas, _ := catalog.NewCategory(tenantID, branchID, "Pizzas", "", 1)
	bebidas, _ := catalog.NewCategory(tenantID, branchID, "Bebidas", "", 0)
	require.NoError(t, repo.Save(ctx, pizzas))
	require.NoError(t, repo.Save(ctx, bebidas))
	especiales, _ := catalog.NewSubcategory(pizzas, "Especiales", "", 0)
	require.NoError(t, repo.Save(ctx, especiales))

	top, err := repo.FindByBranch(ctx, tenantID, branchID, nil, false)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, "Bebidas", top[0].Name)

	children, err := repo.FindByBranch(ctx, tenantID, branchID, &pizzas.ID, false)
	require.NoError(t, err)
	require.Len(t, children, 1)
	assert.Equal(t, pizzas.ID, *children[0].ParentID)

	maxOrder, err = repo.MaxOrder(ctx, tenantID, branchID, nil)
	require.NoError(t, err)
	require.NotNil(t, maxOrder)
	assert.Equal(t, 1, *maxOrder)

	n, err := repo.CountChildren(ctx, tenantID, pizzas.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	require.NoError(t, repo.UpdateOrders(ctx, tenantID, []catalog.OrderChange{
		{ID: pizzas.ID, Order: 0},
		{ID: bebidas.ID, Order: 1},
	}))
	top, err = repo.FindByBranch(ctx, tenantID, branchID, nil, false)
	require.NoError(t, err)
	assert.Equal(t, "Pizzas", top[0].Name)

	err = repo.UpdateOrders(ctx, tenantID, []catalog.OrderChange{
		{ID: pizzas.ID, Order: 5},
		{ID: uuid.New(), Order: 6},
	})
	assert.ErrorIs(t, err, shared.ErrNotFound)
	reloaded, err := repo.FindByIDForTenant(ctx, tenantID, pizzas.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, reloaded.Order, "a failed reorder is rolled back")

	bebidas.SetActive(false)
	require.NoError(t, repo.Save(ctx, bebidas))
	all, err := repo.FindAllByBranch(ctx, tenantID, branchID, true)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestGormProductRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormProductRepository(db)
	ctx := context.Background()
	tenantID, branchID := uuid.New(), uuid.New()

	category, err := catalog.NewCategory(tenantID, branchID, "Pizzas", "", 0)
	require.NoError(t, err)
	p, err := catalog.NewProduct(category, nil, catalog.ProductDetails{Name: "Muzzarella", Price: dec("8500")})
	require.NoError(t, err)
	_, err = p.AddExtra("Doble queso", dec("1200"))
	require.NoError(t, err)
	_, err = p.AddExtra("Aceitunas", dec("500"))
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, p))

	loaded, err := repo.FindByIDForTenant(ctx, tenantID, p.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Extras, 2)
	assert.Equal(t, "Doble queso", loaded.Extras[0].Name)
	assert.True(t, loaded.Price.Equal(dec("8500")))

	require.NoError(t, loaded.RemoveExtra(loaded.Extras[0].ID))
	require.NoError(t, repo.Save(ctx, loaded))
	loaded, err = repo.FindByIDForTenant(ctx, tenantID, p.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Extras, 1)
	assert.Equal(t, "Aceitunas", loaded.Extras[0].Name)

	fugazza, _ := catalog.NewProduct(category, nil, catalog.ProductDetails{Name: "Fugazza", Price: dec("9000"), Order: 1})
	require.NoError(t, repo.Save(ctx, fugazza))

	products, total, err := repo.FindAllForTenant(ctx, tenantID, shared.Filter{Search: "fuga"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, products, 1)
	assert.Equal(t, "Fugazza", products[0].Name)

	products, _, err = repo.FindAllForTenant(ctx, tenantID, shared.Filter{}.With("category_id", category.ID))
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "Muzzarella", products[0].Name)

	byIDs, err := repo.FindByIDs(ctx, tenantID, []uuid.UUID{fugazza.ID, uuid.New()})
	require.NoError(t, err)
	assert.Len(t, byIDs, 1)

	n, err := repo.CountByCategory(ctx, tenantID, category.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	require.NoError(t, repo.DeleteForTenant(ctx, tenantID, p.ID))
	var extras int64
	require.NoError(t, db.Model(&models.ProductExtraModel{}).Count(&extras).Error)
	assert.Zero(t, extras)
	n, err = repo.CountForTenant(ctx, tenantID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func newOrder(t *testing.T, tenantID, branchID uuid.UUID) *trade.Order {
	t.Helper()
	o, err := trade.NewOrder(tenantID, branchID, trade.Customer{Name: "Ana", Phone: "351555"}, trade.OrderTypePickup, trade.PaymentMethodCash)
	require.NoError(t, err)
	_, err = o.AddItem(uuid.New(), "Muzzarella", dec("8500"), 2, []trade.ItemExtra{{Name: "Doble queso", Price: dec("1200")}}, "")
	require.NoError(t, err)
	_, err = o.AddItem(uuid.New(), "Gaseosa", dec("1500"), 1, nil, "bien fría")
	require.NoError(t, err)
	return o
}

func placeWith(o *trade.Order, minimum decimal.Decimal) func(int) error {
	return func(seq int) error { return o.Place(seq, minimum) }
}

func placedOrder(t *testing.T, repo *GormOrderRepository, tenantID, branchID uuid.UUID) *trade.Order {
	t.Helper()
	o := newOrder(t, tenantID, branchID)
	require.NoError(t, repo.Create(context.Background(), o, placeWith(o, decimal.Zero)))
	return o
}

func TestGormOrderRepository_SequencePerBranch(t *testing.T) {
	repo := NewGormOrderRepository(setupTestDB(t))
	tenantID, branchA, branchB := uuid.New(), uuid.New(), uuid.New()

	for _, want := range []string{"#0001", "#0002", "#0003"} {
		assert.Equal(t, want, placedOrder(t, repo, tenantID, branchA).Number)
	}
	assert.Equal(t, "#0001", placedOrder(t, repo, tenantID, branchB).Number, "each branch has its own counter")
}

func TestGormOrderRepository_RejectedPlacementKeepsSequence(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormOrderRepository(db)
	ctx := context.Background()
	tenantID, branchID := uuid.New(), uuid.New()

	rejected := newOrder(t, tenantID, branchID)
	err := repo.Create(ctx, rejected, placeWith(rejected, dec("1000000")))
	var de *shared.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "BELOW_MINIMUM_ORDER", de.Code)

	var count int64
	require.NoError(t, db.Model(&models.OrderModel{}).Count(&count).Error)
	assert.Zero(t, count)

	assert.Equal(t, "#0001", placedOrder(t, repo, tenantID, branchID).Number)
}

func TestGormOrderRepository_CreateAndFind(t *testing.T) {
	repo := NewGormOrderRepository(setupTestDB(t))
	ctx := context.Background()
	tenantID, branchID := uuid.New(), uuid.New()

	o := placedOrder(t, repo, tenantID, branchID)

	loaded, err := repo.FindByIDForTenant(ctx, tenantID, o.ID)
	require.NoError(t, err)
	assert.Equal(t, "#0001", loaded.Number)
	require.Len(t, loaded.Items, 2)
	assert.Equal(t, "Muzzarella", loaded.Items[0].Name)
	require.Len(t, loaded.Items[0].Extras, 1)
	assert.True(t, loaded.Items[0].Extras[0].Price.Equal(dec("1200")))
	assert.True(t, loaded.Total.Equal(o.Total))
	assert.NoError(t, loaded.VerifyTotals())

	_, err = repo.FindByIDForTenant(ctx, uuid.New(), o.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	second := placedOrder(t, repo, tenantID, branchID)
	orders, total, err := repo.FindAllForTenant(ctx, tenantID, shared.Filter{}.With("branch_id", branchID))
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, orders, 2)
	assert.Equal(t, "#0002", second.Number)
	assert.Len(t, orders[0].Items, 2)

	orders, _, err = repo.FindAllForTenant(ctx, tenantID, shared.Filter{Search: "#0002"})
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, second.ID, orders[0].ID)
}

func TestGormOrderRepository_SaveWithLock(t *testing.T) {
	repo := NewGormOrderRepository(setupTestDB(t))
	ctx := context.Background()
	tenantID, branchID := uuid.New(), uuid.New()
	o := placedOrder(t, repo, tenantID, branchID)

	first, err := repo.FindByIDForTenant(ctx, tenantID, o.ID)
	require.NoError(t, err)
	stale, err := repo.FindByIDForTenant(ctx, tenantID, o.ID)
	require.NoError(t, err)

	expected := first.Version
	require.NoError(t, first.TransitionTo(trade.OrderStatusReceived, ""))
	require.NoError(t, repo.SaveWithLock(ctx, first, expected))

	staleVersion := stale.Version
	require.NoError(t, stale.Cancel("sin stock"))
	err = repo.SaveWithLock(ctx, stale, staleVersion)
	assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)

	loaded, err := repo.FindByIDForTenant(ctx, tenantID, o.ID)
	require.NoError(t, err)
	assert.Equal(t, trade.OrderStatusReceived, loaded.Status)
	assert.Equal(t, expected+1, loaded.Version)
	assert.Len(t, loaded.Items, 2)

	ghost := *loaded
	ghost.ID = uuid.New()
	assert.ErrorIs(t, repo.SaveWithLock(ctx, &ghost, loaded.Version), shared.ErrNotFound)
}

func TestGormOrderRepository_Stats(t *testing.T) {
	repo := NewGormOrderRepository(setupTestDB(t))
	ctx := context.Background()
	tenantID, branchID := uuid.New(), uuid.New()

	paid := placedOrder(t, repo, tenantID, branchID)
	v := paid.Version
	_, err := paid.UpdatePaymentStatus(trade.PaymentStatusPaid)
	require.NoError(t, err)
	require.NoError(t, repo.SaveWithLock(ctx, paid, v))

	cancelled := placedOrder(t, repo, tenantID, branchID)
	v = cancelled.Version
	require.NoError(t, cancelled.Cancel("cliente"))
	require.NoError(t, repo.SaveWithLock(ctx, cancelled, v))

	placedOrder(t, repo, tenantID, branchID)

	from, to := wideRange()
	stats, err := repo.Stats(ctx, tenantID, &branchID, from, to)
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.Count)
	assert.Equal(t, int64(1), stats.PaidCount)
	assert.True(t, stats.Revenue.Equal(paid.Total), "revenue %s", stats.Revenue)
	assert.Equal(t, int64(2), stats.ByStatus[trade.OrderStatusNew])
	assert.Equal(t, int64(1), stats.ByStatus[trade.OrderStatusCancelled])

	other := uuid.New()
	stats, err = repo.Stats(ctx, tenantID, &other, from, to)
	require.NoError(t, err)
	assert.Zero(t, stats.Count)
	assert.True(t, stats.Revenue.IsZero())
}

func TestGormCashRegisterRepository(t *testing.T) {
	repo := NewGormCashRegisterRepository(setupTestDB(t))
	ctx := context.Background()
	tenantID, branchID, userID := uuid.New(), uuid.New(), uuid.New()

	_, err := repo.FindOpenByBranch(ctx, tenantID, branchID)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	register, err := finance.OpenCashRegister(tenantID, branchID, userID, "", dec("1000"))
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, register))

	open, err := repo.FindOpenByBranch(ctx, tenantID, branchID)
	require.NoError(t, err)
	assert.Equal(t, register.ID, open.ID)

	v := open.Version
	orderID := uuid.New()
	_, err = open.AddMovement(finance.MovementInput{Type: finance.MovementSale, Amount: dec("2500"), OrderID: &orderID})
	require.NoError(t, err)
	_, err = open.AddMovement(finance.MovementInput{Type: finance.MovementExpense, Amount: dec("300"), Description: "hielo"})
	require.NoError(t, err)
	require.NoError(t, repo.SaveWithLock(ctx, open, v))

	loaded, err := repo.FindByIDForTenant(ctx, tenantID, register.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Movements, 2)
	assert.True(t, loaded.HasOrderMovement(orderID, finance.MovementSale))
	assert.True(t, loaded.Summary().ExpectedBalance.Equal(dec("3200")))

	v = loaded.Version
	require.NoError(t, loaded.Close(userID, dec("3200"), ""))
	require.NoError(t, repo.SaveWithLock(ctx, loaded, v))

	n, err := repo.CountOpenByBranch(ctx, tenantID, branchID)
	require.NoError(t, err)
	assert.Zero(t, n)

	registers, total, err := repo.FindAllForTenant(ctx, tenantID, shared.Filter{}.With("status", string(finance.RegisterClosed)))
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, registers, 1)
	assert.Len(t, registers[0].Movements, 2)
}

func TestGormExpenseRepository(t *testing.T) {
	repo := NewGormExpenseRepository(setupTestDB(t))
	ctx := context.Background()
	tenantID, branchID := uuid.New(), uuid.New()

	for _, amount := range []string{"4500", "1500.50"} {
		e, err := finance.NewExpense(tenantID, branchID, finance.ExpenseDetails{
			Category: "Insumos", Description: "Harina", Amount: dec(amount), Date: time.Now().Add(-time.Hour),
		})
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, e))
	}
	rent, err := finance.NewExpense(tenantID, uuid.New(), finance.ExpenseDetails{
		Category: "Alquiler", Description: "Local", Amount: dec("90000"), Date: time.Now().Add(-time.Hour),
	})
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, rent))

	from, to := wideRange()
	sum, err := repo.SumForPeriod(ctx, tenantID, &branchID, from, to)
	require.NoError(t, err)
	assert.True(t, sum.Equal(dec("6000.5")), "sum %s", sum)

	sum, err = repo.SumForPeriod(ctx, tenantID, nil, from, to)
	require.NoError(t, err)
	assert.True(t, sum.Equal(dec("96000.5")))

	sum, err = repo.SumForPeriod(ctx, uuid.New(), nil, from, to)
	require.NoError(t, err)
	assert.True(t, sum.IsZero())

	expenses, total, err := repo.FindAllForTenant(ctx, tenantID, shared.Filter{}.With("category", "Alquiler"))
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, rent.ID, expenses[0].ID)

	require.NoError(t, repo.DeleteForTenant(ctx, tenantID, rent.ID))
	_, err = repo.FindByIDForTenant(ctx, tenantID, rent.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
