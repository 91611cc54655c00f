package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	_ "github.com/menuhub/backend/docs"
	"github.com/menuhub/backend/internal/application/media"
	"github.com/menuhub/backend/internal/bootstrap"
	"github.com/menuhub/backend/internal/infrastructure/auth"
	"github.com/menuhub/backend/internal/infrastructure/cache"
	"github.com/menuhub/backend/internal/infrastructure/config"
	"github.com/menuhub/backend/internal/infrastructure/event"
	"github.com/menuhub/backend/internal/infrastructure/logger"
	"github.com/menuhub/backend/internal/infrastructure/migration"
	"github.com/menuhub/backend/internal/infrastructure/persistence"
	"github.com/menuhub/backend/internal/infrastructure/storage"
	"github.com/menuhub/backend/internal/infrastructure/telemetry"
	"github.com/menuhub/backend/internal/infrastructure/thumbnail"
	"github.com/menuhub/backend/internal/interfaces/http/dto"
	"github.com/menuhub/backend/internal/interfaces/http/handler"
	"github.com/menuhub/backend/internal/interfaces/http/middleware"
	"github.com/menuhub/backend/internal/interfaces/http/router"
	"github.com/menuhub/backend/migrations"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

//	@title			MenuHub API
//	@version		1.0
//	@description	Multi-tenant restaurant ordering and back office
//	@BasePath		/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Type "Bearer" followed by a space and the access token

const (
	version        = "1.0.0"
	thumbnailWidth = 200
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	}, cfg.App.Name)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting MenuHub API",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("root_domain", cfg.App.RootDomain),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tracerProvider, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracing", zap.Error(err))
	}

	meterProvider, err := telemetry.NewMeterProvider(ctx, telemetry.MeterConfig{
		Enabled:           cfg.Telemetry.Enabled && cfg.Telemetry.MetricsExport,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize metric export", zap.Error(err))
	}

	logProvider, err := telemetry.NewLoggerProvider(ctx, telemetry.LogsConfig{
		Enabled:           cfg.Telemetry.Enabled && cfg.Telemetry.LogsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
		Level:             logger.ParseLevel(cfg.Log.Level),
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize log export", zap.Error(err))
	}
	log = logProvider.Bridge(log)

	profiler, err := telemetry.NewProfiler(telemetry.ProfilerConfig{
		Enabled:           cfg.Telemetry.Profiling.Enabled,
		ServerAddress:     cfg.Telemetry.Profiling.ServerAddress,
		ApplicationName:   cfg.Telemetry.ServiceName,
		BasicAuthUser:     cfg.Telemetry.Profiling.BasicAuthUser,
		BasicAuthPassword: cfg.Telemetry.Profiling.BasicAuthPassword,
	}, log)
	if err != nil {
		log.Fatal("Failed to start profiler", zap.Error(err))
	}
	if profiler.Enabled() {
		tracerProvider.EnableSpanProfiles()
	}

	gormLevel := logger.MapGormLogLevel(cfg.Log.Level)
	db, err := persistence.NewDatabase(&cfg.Database, logger.NewGormLogger(log, gormLevel, cfg.Telemetry.DBSlowQueryThresh))
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Failed to close database connection", zap.Error(err))
		}
	}()
	log.Info("Database connected",
		zap.String("host", cfg.Database.Host),
		zap.Int("port", cfg.Database.Port),
		zap.String("database", cfg.Database.DBName),
	)

	if err := telemetry.RegisterDBTracing(db.DB, telemetry.DBTracingConfig{
		Enabled:       cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
		DBName:        cfg.Database.DBName,
		WithVariables: !cfg.App.IsProduction(),
	}, log); err != nil {
		log.Fatal("Failed to enable database tracing", zap.Error(err))
	}

	if cfg.Database.AutoMigrate {
		if err := migrate(db, log); err != nil {
			log.Fatal("Failed to apply migrations", zap.Error(err))
		}
	}

	// Redis backs the tenant cache, branch locks and the token blacklist.
	// Without it everything falls back to process memory.
	var (
		store     cache.Store
		locker    cache.Locker
		blacklist auth.TokenBlacklist
		redisPing handler.HealthCheck
	)
	if cfg.Redis.Enabled {
		client, err := cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			log.Fatal("Failed to connect to Redis", zap.Error(err), zap.String("addr", cfg.Redis.Addr()))
		}
		defer func() { _ = client.Close() }()
		store = cache.NewRedisStore(client, "menuhub:")
		locker = cache.NewRedisLocker(client, cfg.Lock.RetryCount, cfg.Lock.RetryDelay)
		blacklist = auth.NewRedisTokenBlacklist(client)
		redisPing = redisHealthCheck(client)
		log.Info("Redis connected", zap.String("addr", cfg.Redis.Addr()))
	} else {
		log.Warn("Redis disabled, using in-memory cache, locks and token blacklist")
		store = cache.NewInMemoryStore()
		locker = cache.NewInMemoryLocker(cfg.Lock.RetryCount, cfg.Lock.RetryDelay)
		blacklist = auth.NewInMemoryTokenBlacklist()
	}

	var objects media.ObjectStorage
	switch cfg.Storage.Driver {
	case "s3":
		s3, err := storage.NewS3ObjectStorage(&cfg.Storage, storage.WithLogger(log))
		if err != nil {
			log.Fatal("Failed to initialize object storage", zap.Error(err))
		}
		objects = s3
	default:
		log.Warn("Using in-memory object storage, uploads are lost on restart")
		objects = storage.NewMemoryObjectStorage(cfg.Storage.PublicBaseURL)
	}

	metrics := telemetry.NewMetrics(cfg.Metrics.Namespace)
	eventBus := event.NewInMemoryEventBus(log)
	eventBus.Subscribe(metrics)
	eventBus.Subscribe(event.NewLogHandler(log))
	if err := eventBus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}

	services := bootstrap.NewServices(bootstrap.Infra{
		DB:             db.DB,
		Cache:          store,
		Locker:         locker,
		Blacklist:      blacklist,
		Storage:        objects,
		Thumbnailer:    thumbnail.NewThumbnailer(thumbnailWidth),
		OAuth:          auth.NewOAuthVerifier(cfg.Auth, &http.Client{Timeout: cfg.Auth.OAuthTimeout}),
		Events:         eventBus,
		JWT:            cfg.JWT,
		Auth:           cfg.Auth,
		TenantCacheTTL: cfg.Cache.TenantTTL,
		MaxUploadSize:  cfg.Storage.MaxUploadSize,
		Logger:         log,
	})

	if err := dto.SetupValidator(); err != nil {
		log.Fatal("Failed to register validator translations", zap.Error(err))
	}

	if cfg.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		log.Fatal("Invalid trusted proxies", zap.Error(err))
	}

	engine.Use(middleware.RequestID())
	engine.Use(middleware.Locale())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Tracing(middleware.TracingConfig{
		ServiceName: cfg.Telemetry.ServiceName,
		Enabled:     cfg.Telemetry.Enabled,
	}))
	engine.Use(middleware.SpanEnricher())
	if cfg.Metrics.Enabled {
		engine.Use(metrics.GinMiddleware(cfg.Metrics.Path))
	}
	engine.Use(middleware.Secure())

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		corsConfig.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		corsConfig.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	if cfg.HTTP.RateLimitEnabled {
		limiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		go limiter.RunCleanup(ctx.Done())
		engine.Use(middleware.RateLimit(limiter))
	}
	var authLimiter *middleware.RateLimiter
	if cfg.HTTP.AuthRateLimitEnabled {
		authLimiter = middleware.NewRateLimiter(cfg.HTTP.AuthRateLimitRequests, cfg.HTTP.AuthRateLimitWindow)
		go authLimiter.RunCleanup(ctx.Done())
	}

	checks := map[string]handler.HealthCheck{"database": db.Ping}
	if redisPing != nil {
		checks["redis"] = redisPing
	}
	apiConfig := router.APIConfig{
		Authenticator: services.Auth,
		Tenants:       services.Tenants,
		RootDomain:    cfg.App.RootDomain,
		AuthLimiter:   authLimiter,
		MaxBodySize:   cfg.HTTP.MaxBodySize,
		MaxUploadSize: cfg.Storage.MaxUploadSize,
		Logger:        log,
	}
	if cfg.Metrics.Enabled {
		apiConfig.Metrics = metrics.Handler()
	}
	api := router.SetupAPI(engine, router.Handlers{
		Auth:         handler.NewAuthHandler(services.Auth),
		Tenant:       handler.NewTenantHandler(services.Tenants, services.Setup),
		Branch:       handler.NewBranchHandler(services.Branches),
		User:         handler.NewUserHandler(services.Users),
		Category:     handler.NewCategoryHandler(services.Categories),
		Product:      handler.NewProductHandler(services.Products),
		Order:        handler.NewOrderHandler(services.Orders),
		CashRegister: handler.NewCashRegisterHandler(services.Registers),
		Expense:      handler.NewExpenseHandler(services.Expenses, services.Totals),
		Upload:       handler.NewUploadHandler(services.Uploads),
		Health:       handler.NewHealthHandler(cfg.App.Name, version, checks),
	}, apiConfig)
	if !cfg.App.IsProduction() {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}
	log.Info("Routes registered", zap.Int("count", len(api.Routes())))

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if err := eventBus.Stop(shutdownCtx); err != nil {
		log.Error("Failed to stop event bus", zap.Error(err))
	}
	if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
		log.Error("Failed to flush traces", zap.Error(err))
	}
	if err := meterProvider.Shutdown(shutdownCtx); err != nil {
		log.Error("Failed to flush metrics", zap.Error(err))
	}
	if err := profiler.Stop(); err != nil {
		log.Error("Failed to stop profiler", zap.Error(err))
	}
	if err := logProvider.Shutdown(shutdownCtx); err != nil {
		log.Error("Failed to flush logs", zap.Error(err))
	}

	log.Info("Server exited")
}

func migrate(db *persistence.Database, log *zap.Logger) error {
	sqlDB, err := db.DB.DB()
	if err != nil {
		return err
	}
	m, err := migration.New(sqlDB, migrations.FS, log)
	if err != nil {
		return err
	}
	// not closed: Close would also close the shared pool
	return m.Up()
}

func redisHealthCheck(client *redis.Client) handler.HealthCheck {
	return func(ctx context.Context) error {
		return client.Ping(ctx).Err()
	}
}
