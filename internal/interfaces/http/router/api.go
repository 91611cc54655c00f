package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/menuhub/backend/internal/interfaces/http/dto"
	"github.com/menuhub/backend/internal/interfaces/http/handler"
	"github.com/menuhub/backend/internal/interfaces/http/middleware"
	"go.uber.org/zap"
)

// Handlers are the HTTP handlers served by the API
type Handlers struct {
	Auth         *handler.AuthHandler
	Tenant       *handler.TenantHandler
	Branch       *handler.BranchHandler
	User         *handler.UserHandler
	Category     *handler.CategoryHandler
	Product      *handler.ProductHandler
	Order        *handler.OrderHandler
	CashRegister *handler.CashRegisterHandler
	Expense      *handler.ExpenseHandler
	Upload       *handler.UploadHandler
	Health       *handler.HealthHandler
}

// APIConfig configures the guards in front of the handlers
type APIConfig struct {
	Authenticator middleware.Authenticator
	Tenants       middleware.TenantResolver
	RootDomain    string
	AuthLimiter   *middleware.RateLimiter // nil disables sign-in throttling
	MaxBodySize   int64
	MaxUploadSize int64
	Metrics       http.Handler // served on /metrics when set
	Logger        *zap.Logger
}

// API holds the mounted domain groups
type API struct {
	*Router
	Groups []*DomainGroup
}

// SetupAPI mounts every MenuHub route on engine:
//
//	/api/v1/auth/...                 sign in, tokens, own profile
//	/api/v1/tenant/:tenantId/...     public storefront
//	/api/v1/tenants/...              tenant administration
//	/api/v1/{branches,users,...}     back office of the resolved tenant
//	/api/upload                      image uploads
//	/health, /metrics
func SetupAPI(engine *gin.Engine, h Handlers, cfg APIConfig) *API {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	api := &API{Router: NewRouter(engine, WithAPIVersion("v1"))}

	requireAuth := middleware.JWTAuth(cfg.Authenticator, log)
	bodyLimit := middleware.BodyLimit(cfg.MaxBodySize)
	var authLimit gin.HandlerFunc = func(c *gin.Context) { c.Next() }
	if cfg.AuthLimiter != nil {
		authLimit = middleware.RateLimit(cfg.AuthLimiter)
	}
	tenantFrom := func(required bool, pathParam string) gin.HandlerFunc {
		return middleware.Tenant(middleware.TenantMiddlewareConfig{
			Resolver:   cfg.Tenants,
			RootDomain: cfg.RootDomain,
			PathParam:  pathParam,
			Required:   required,
			Logger:     log,
		})
	}
	backOffice := []gin.HandlerFunc{bodyLimit, requireAuth, tenantFrom(true, ""), middleware.RequireTenantAdmin()}

	// Authentication
	authGroup := NewDomainGroup("auth", "/auth").Use(bodyLimit)
	authGroup.POST("/login", authLimit, tenantFrom(false, ""), h.Auth.Login)
	authGroup.POST("/refresh", authLimit, h.Auth.RefreshToken)
	authGroup.POST("/bootstrap", authLimit, h.Auth.Bootstrap)
	authGroup.POST("/logout", requireAuth, h.Auth.Logout)
	authGroup.GET("/me", requireAuth, h.Auth.Me)
	authGroup.PUT("/me", requireAuth, h.Auth.UpdateMe)
	authGroup.PUT("/password", requireAuth, h.Auth.ChangePassword)

	// Storefront
	storefront := NewDomainGroup("storefront", "/tenant/:tenantId").
		Use(bodyLimit, middleware.OptionalJWTAuth(cfg.Authenticator), tenantFrom(true, "tenantId"))
	storefront.GET("", h.Tenant.Public)
	storefront.GET("/branches", h.Branch.ListPublic)
	storefront.GET("/branches/:branchId/menu", h.Product.Menu)
	storefront.GET("/products/:id", h.Product.GetPublic)
	storefront.POST("/orders", h.Order.Place)
	storefront.GET("/orders/:id", h.Order.Track)
	storefront.GET("/my-orders", h.Order.MyOrders)
	storefrontAuth := storefront.Group("storefront-auth", "/auth").Use(authLimit)
	storefrontAuth.POST("/register", h.Auth.Register)
	storefrontAuth.POST("/login", h.Auth.Login)
	storefrontAuth.POST("/oauth", h.Auth.OAuthLogin)

	// Tenant administration
	superAdmin := middleware.RequireSuperAdmin()
	ownTenant := middleware.RequireTenantParamAccess("id")
	tenants := NewDomainGroup("tenants", "/tenants").Use(bodyLimit, requireAuth)
	tenants.POST("", superAdmin, h.Tenant.Create)
	tenants.GET("", superAdmin, h.Tenant.List)
	tenants.GET("/:id", ownTenant, h.Tenant.GetByID)
	tenants.PUT("/:id", ownTenant, h.Tenant.UpdateInfo)
	tenants.PUT("/:id/branding", ownTenant, h.Tenant.UpdateBranding)
	tenants.PUT("/:id/settings", ownTenant, h.Tenant.UpdateSettings)
	tenants.GET("/:id/setup", ownTenant, h.Tenant.GetSetup)
	tenants.PUT("/:id/setup", ownTenant, h.Tenant.AdvanceSetup)
	tenants.PUT("/:id/plan", superAdmin, h.Tenant.ChangePlan)
	tenants.POST("/:id/activate", superAdmin, h.Tenant.Activate)
	tenants.POST("/:id/suspend", superAdmin, h.Tenant.Suspend)
	tenants.DELETE("/:id", superAdmin, h.Tenant.Delete)

	// Back office
	branches := NewDomainGroup("branches", "/branches").Use(backOffice...)
	branches.POST("", h.Branch.Create)
	branches.GET("", h.Branch.List)
	branches.GET("/:id", h.Branch.GetByID)
	branches.PUT("/:id", h.Branch.Update)
	branches.PATCH("/:id/active", h.Branch.SetActive)
	branches.POST("/:id/main", h.Branch.SetMain)
	branches.DELETE("/:id", h.Branch.Delete)

	users := NewDomainGroup("users", "/users").Use(backOffice...)
	users.POST("", h.User.Create)
	users.GET("", h.User.List)
	users.GET("/:id", h.User.GetByID)
	users.PUT("/:id", h.User.Update)
	users.PUT("/:id/role", h.User.ChangeRole)
	users.PATCH("/:id/active", h.User.SetActive)
	users.DELETE("/:id", h.User.Delete)

	categories := NewDomainGroup("categories", "/categories").Use(backOffice...)
	categories.POST("", h.Category.Create)
	categories.GET("", h.Category.ListByBranch)
	categories.PUT("/reorder", h.Category.Reorder)
	categories.GET("/:id", h.Category.GetByID)
	categories.GET("/:id/subcategories", h.Category.ListSubcategories)
	categories.PUT("/:id", h.Category.Update)
	categories.DELETE("/:id", h.Category.Delete)

	products := NewDomainGroup("products", "/products").Use(backOffice...)
	products.POST("", h.Product.Create)
	products.GET("", h.Product.List)
	products.GET("/:id", h.Product.GetByID)
	products.PUT("/:id", h.Product.Update)
	products.PATCH("/:id/available", h.Product.SetAvailable)
	products.PATCH("/:id/featured", h.Product.SetFeatured)
	products.POST("/:id/extras", h.Product.AddExtra)
	products.PUT("/:id/extras/:extraId", h.Product.UpdateExtra)
	products.DELETE("/:id/extras/:extraId", h.Product.RemoveExtra)
	products.DELETE("/:id", h.Product.Delete)

	orders := NewDomainGroup("orders", "/orders").Use(backOffice...)
	orders.GET("", h.Order.List)
	orders.GET("/stats", h.Order.Stats)
	orders.GET("/:id", h.Order.GetByID)
	orders.GET("/:id/next-statuses", h.Order.NextStatuses)
	orders.PATCH("/:id/status", h.Order.Transition)
	orders.POST("/:id/cancel", h.Order.Cancel)
	orders.PATCH("/:id/payment", h.Order.UpdatePayment)
	orders.PATCH("/:id/discount", h.Order.ApplyDiscount)
	orders.PATCH("/:id/items/:itemId", h.Order.UpdateItem)
	orders.DELETE("/:id/items/:itemId", h.Order.RemoveItem)

	registers := NewDomainGroup("cash-registers", "/cash-registers").Use(backOffice...)
	registers.POST("", h.CashRegister.Open)
	registers.GET("", h.CashRegister.List)
	registers.GET("/current", h.CashRegister.Current)
	registers.GET("/:id", h.CashRegister.GetByID)
	registers.GET("/:id/summary", h.CashRegister.Summary)
	registers.POST("/:id/movements", h.CashRegister.AddMovement)
	registers.DELETE("/:id/movements/:movementId", h.CashRegister.RemoveMovement)
	registers.POST("/:id/close", h.CashRegister.Close)

	expenses := NewDomainGroup("expenses", "/expenses").Use(backOffice...)
	expenses.POST("", h.Expense.Create)
	expenses.GET("", h.Expense.List)
	expenses.GET("/:id", h.Expense.GetByID)
	expenses.PUT("/:id", h.Expense.Update)
	expenses.DELETE("/:id", h.Expense.Delete)

	finance := NewDomainGroup("finance", "/finance").Use(backOffice...)
	finance.GET("/totals", h.Expense.Totals)

	system := NewDomainGroup("system", "")
	system.GET("/ping", h.Health.Ping)
	system.GET("/system/info", h.Health.GetSystemInfo)

	api.Groups = []*DomainGroup{authGroup, storefront, tenants, branches, users, categories, products, orders, registers, expenses, finance, system}
	for _, g := range api.Groups {
		api.Register(g)
	}
	api.Setup()

	// Uploads sit outside the versioned prefix and allow larger bodies
	upload := engine.Group("/api/upload",
		middleware.BodyLimit(cfg.MaxUploadSize+1<<20),
		requireAuth,
		tenantFrom(true, ""),
		middleware.RequireTenantAdmin(),
	)
	upload.POST("", h.Upload.Upload)
	upload.DELETE("", h.Upload.Delete)

	engine.GET("/health", h.Health.Health)
	if cfg.Metrics != nil {
		engine.GET("/metrics", gin.WrapH(cfg.Metrics))
	}

	engine.NoRoute(func(c *gin.Context) {
		middleware.AbortWithError(c, http.StatusNotFound, dto.ErrCodeRouteNotFound, "")
	})
	return api
}

// Routes lists every versioned route mounted by SetupAPI
func (a *API) Routes() []RouteInfo {
	var out []RouteInfo
	for _, g := range a.Groups {
		for _, r := range g.Routes() {
			r.Path = a.BasePath() + r.Path
			out = append(out, r)
		}
	}
	return out
}
