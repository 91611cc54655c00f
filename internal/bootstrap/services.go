// Package bootstrap assembles the application services from their infrastructure.
package bootstrap

import (
	"time"

	catalogapp "github.com/menuhub/backend/internal/application/catalog"
	financeapp "github.com/menuhub/backend/internal/application/finance"
	identityapp "github.com/menuhub/backend/internal/application/identity"
	"github.com/menuhub/backend/internal/application/media"
	tradeapp "github.com/menuhub/backend/internal/application/trade"
	"github.com/menuhub/backend/internal/domain/shared"
	"github.com/menuhub/backend/internal/infrastructure/auth"
	"github.com/menuhub/backend/internal/infrastructure/cache"
	"github.com/menuhub/backend/internal/infrastructure/config"
	"github.com/menuhub/backend/internal/infrastructure/persistence"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Infra holds the adapters the services run on
type Infra struct {
	DB          *gorm.DB
	Cache       cache.Store
	Locker      cache.Locker
	Blacklist   auth.TokenBlacklist
	Storage     media.ObjectStorage
	Thumbnailer media.Thumbnailer
	OAuth       identityapp.OAuthVerifier
	Events      shared.EventPublisher
	JWT         config.JWTConfig
	Auth        config.AuthConfig
	// TenantCacheTTL bounds how long a resolved tenant is served from Cache
	TenantCacheTTL time.Duration
	MaxUploadSize  int64
	Logger         *zap.Logger
}

// Services are the application services exposed over HTTP
type Services struct {
	JWT        *auth.JWTService
	Auth       *identityapp.AuthService
	Tenants    *identityapp.TenantService
	Setup      *identityapp.SetupService
	Branches   *identityapp.BranchService
	Users      *identityapp.UserService
	Categories *catalogapp.CategoryService
	Products   *catalogapp.ProductService
	Orders     *tradeapp.OrderService
	Registers  *financeapp.CashRegisterService
	Expenses   *financeapp.ExpenseService
	Totals     *financeapp.TotalsService
	Uploads    *media.UploadService
}

// NewServices builds every service over GORM repositories. Paid orders are
// booked into the cash register of their branch.
func NewServices(in Infra) *Services {
	log := in.Logger
	if log == nil {
		log = zap.NewNop()
	}

	tenantRepo := persistence.NewGormTenantRepository(in.DB)
	userRepo := persistence.NewGormUserRepository(in.DB)
	branchRepo := persistence.NewGormBranchRepository(in.DB)
	categoryRepo := persistence.NewGormCategoryRepository(in.DB)
	productRepo := persistence.NewGormProductRepository(in.DB)
	orderRepo := persistence.NewGormOrderRepository(in.DB)
	registerRepo := persistence.NewGormCashRegisterRepository(in.DB)
	expenseRepo := persistence.NewGormExpenseRepository(in.DB)

	cleaner := media.NewImageCleaner(in.Storage, log)
	jwtService := auth.NewJWTService(in.JWT)

	s := &Services{JWT: jwtService}
	s.Auth = identityapp.NewAuthService(tenantRepo, userRepo, jwtService, in.Blacklist, in.OAuth,
		identityapp.AuthServiceConfig{SuperAdminSecret: in.Auth.SuperAdminSecret}, in.Events, log)
	s.Tenants = identityapp.NewTenantService(tenantRepo, userRepo, in.Cache, in.TenantCacheTTL, cleaner, in.Events, log)
	s.Branches = identityapp.NewBranchService(tenantRepo, branchRepo, registerRepo, in.Events, log)
	s.Users = identityapp.NewUserService(tenantRepo, userRepo, in.Events, log)
	s.Categories = catalogapp.NewCategoryService(categoryRepo, productRepo, branchRepo, cleaner, in.Events, log)
	s.Products = catalogapp.NewProductService(tenantRepo, categoryRepo, productRepo, cleaner, in.Events, log)
	s.Setup = identityapp.NewSetupService(s.Tenants, s.Branches, s.Products, log)
	s.Orders = tradeapp.NewOrderService(tenantRepo, branchRepo, productRepo, orderRepo, in.Locker, in.Events, log)
	s.Registers = financeapp.NewCashRegisterService(registerRepo, branchRepo, in.Locker, in.Events, log)
	s.Orders.SetCashRecorder(s.Registers)
	s.Expenses = financeapp.NewExpenseService(expenseRepo, branchRepo, cleaner, log)
	s.Totals = financeapp.NewTotalsService(orderRepo, expenseRepo)
	s.Uploads = media.NewUploadService(in.Storage, in.Thumbnailer, in.MaxUploadSize, log)
	return s
}
