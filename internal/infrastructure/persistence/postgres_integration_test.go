//go:build integration

package persistence

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/menuhub/backend/internal/domain/identity"
	"github.com/menuhub/backend/internal/domain/shared"
	"github.com/menuhub/backend/internal/domain/trade"
	"github.com/menuhub/backend/internal/infrastructure/migration"
	"github.com/menuhub/backend/migrations"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupPostgres starts a disposable PostgreSQL and applies the embedded migrations
func setupPostgres(t *testing.T) *gorm.DB {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("menuhub_test"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err, "Failed to start PostgreSQL container")
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("Warning: failed to terminate container: %v", err)
		}
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := gorm.Open(gormpostgres.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	m, err := migration.New(sqlDB, migrations.FS, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, m.Up())
	return db
}

func seedBranch(t *testing.T, db *gorm.DB, subdomain string) (uuid.UUID, uuid.UUID) {
	t.Helper()
	ctx := context.Background()

	tenant, err := identity.NewTenant(subdomain, "Pizzería "+subdomain, identity.PlanPro)
	require.NoError(t, err)
	require.NoError(t, NewGormTenantRepository(db).Save(ctx, tenant))

	branch, err := identity.NewBranch(tenant.ID, identity.BranchDetails{Name: "Centro"})
	require.NoError(t, err)
	require.NoError(t, NewGormBranchRepository(db).Save(ctx, branch))
	return tenant.ID, branch.ID
}

func TestPostgres_Migrations(t *testing.T) {
	db := setupPostgres(t)
	sqlDB, err := db.DB()
	require.NoError(t, err)

	m, err := migration.New(sqlDB, migrations.FS, zap.NewNop())
	require.NoError(t, err)
	version, dirty, err := m.Version()
	require.NoError(t, err)
	assert.False(t, dirty)
	assert.Equal(t, uint(4), version)

	require.NoError(t, m.Down())
	assert.False(t, db.Migrator().HasTable("orders"))
	require.NoError(t, m.Up())
	assert.True(t, db.Migrator().HasTable("orders"))
}

func TestPostgres_OrderSequenceUnderConcurrency(t *testing.T) {
	db := setupPostgres(t)
	tenantID, branchID := seedBranch(t, db, "concurrent")
	repo := NewGormOrderRepository(db)

	const placements = 25
	var (
		mu      sync.Mutex
		numbers []string
		wg      sync.WaitGroup
	)
	for i := 0; i < placements; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			o := newOrder(t, tenantID, branchID)
			if !assert.NoError(t, repo.Create(context.Background(), o, placeWith(o, decimal.Zero))) {
				return
			}
			mu.Lock()
			numbers = append(numbers, o.Number)
			mu.Unlock()
		}()
	}
	wg.Wait()

	sort.Strings(numbers)
	require.Len(t, numbers, placements)
	for i, number := range numbers {
		assert.Equal(t, trade.FormatOrderNumber(i+1), number, "order numbers must be gapless and unique")
	}
}

func TestPostgres_OrderRoundTrip(t *testing.T) {
	db := setupPostgres(t)
	tenantID, branchID := seedBranch(t, db, "roundtrip")
	repo := NewGormOrderRepository(db)
	ctx := context.Background()

	o := placedOrder(t, repo, tenantID, branchID)
	loaded, err := repo.FindByIDForTenant(ctx, tenantID, o.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Items, 2)
	require.Len(t, loaded.Items[0].Extras, 1)
	assert.True(t, loaded.Total.Equal(o.Total))
	assert.NoError(t, loaded.VerifyTotals())

	stale, err := repo.FindByIDForTenant(ctx, tenantID, o.ID)
	require.NoError(t, err)

	expected := loaded.Version
	require.NoError(t, loaded.TransitionTo(trade.OrderStatusReceived, ""))
	require.NoError(t, repo.SaveWithLock(ctx, loaded, expected))

	staleVersion := stale.Version
	require.NoError(t, stale.Cancel("sin stock"))
	assert.ErrorIs(t, repo.SaveWithLock(ctx, stale, staleVersion), shared.ErrConcurrencyConflict)

	from, to := wideRange()
	stats, err := repo.Stats(ctx, tenantID, &branchID, from, to)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.Count)
	assert.Equal(t, int64(1), stats.ByStatus[trade.OrderStatusReceived])
}
