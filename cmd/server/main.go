package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	catalogapp "github.com/floresya/backend/internal/application/catalog"
	identityapp "github.com/floresya/backend/internal/application/identity"
	orderapp "github.com/floresya/backend/internal/application/order"
	paymentapp "github.com/floresya/backend/internal/application/payment"
	settingsapp "github.com/floresya/backend/internal/application/settings"
	"github.com/floresya/backend/internal/infrastructure/auth"
	"github.com/floresya/backend/internal/infrastructure/cache"
	"github.com/floresya/backend/internal/infrastructure/config"
	"github.com/floresya/backend/internal/infrastructure/event"
	"github.com/floresya/backend/internal/infrastructure/logger"
	"github.com/floresya/backend/internal/infrastructure/persistence"
	"github.com/floresya/backend/internal/infrastructure/telemetry"
	"github.com/floresya/backend/internal/interfaces/http/handler"
	"github.com/floresya/backend/internal/interfaces/http/middleware"
	"github.com/floresya/backend/internal/interfaces/http/router"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting FloresYa Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Tracing: spans go to an OTLP collector when enabled, no-op otherwise
	tracerProvider, err := telemetry.NewTracerProvider(context.Background(), telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.App.Name,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracing", zap.Error(err))
	}
	defer func() {
		if err := tracerProvider.Shutdown(context.Background()); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

	// Database connection with zap-backed GORM logging
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	if err := telemetry.RegisterDBTracing(db.DB, telemetry.DBTracingConfig{
		Enabled:         cfg.Telemetry.Enabled && cfg.Telemetry.DBTracingEnabled,
		LogFullSQL:      cfg.Telemetry.DBLogFullSQL,
		SlowQueryThresh: cfg.Telemetry.DBSlowQueryThresh,
	}, log); err != nil {
		log.Fatal("Failed to register database tracing", zap.Error(err))
	}

	// Settings cache: Redis when configured, in-process otherwise
	var settingsCache settingsapp.Cache
	if cfg.Redis.Enabled {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer func() {
			if err := redisClient.Close(); err != nil {
				log.Error("Error closing redis client", zap.Error(err))
			}
		}()

		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := redisClient.Ping(pingCtx).Err(); err != nil {
			log.Warn("Redis unreachable, falling back to in-memory cache", zap.Error(err))
			settingsCache = cache.NewMemoryCache()
		} else {
			settingsCache = cache.NewRedisCache(redisClient, "settings", log)
			log.Info("Redis settings cache enabled", zap.String("addr", cfg.Redis.Addr()))
		}
		cancel()
	} else {
		settingsCache = cache.NewMemoryCache()
	}

	// Repositories
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	paymentRepo := persistence.NewGormPaymentRepository(db.DB)
	methodRepo := persistence.NewGormPaymentMethodRepository(db.DB)
	occasionRepo := persistence.NewGormOccasionRepository(db.DB)
	productRepo := persistence.NewGormProductRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)
	settingsRepo := persistence.NewGormSettingsRepository(db.DB)

	// Application services. The settings service doubles as the pricing
	// and rate provider for checkout and catalog responses.
	settingsService := settingsapp.NewSettingsService(settingsRepo, settingsCache)
	settingsService.SetCacheTTL(cfg.Cache.SettingsTTL)
	orderService := orderapp.NewOrderService(orderRepo, productRepo, settingsService)
	statsService := orderapp.NewStatsService(orderRepo)
	paymentService := paymentapp.NewPaymentService(
		paymentRepo, methodRepo, orderRepo,
		paymentapp.ReconfirmPolicy(cfg.Payments.ReconfirmPolicy),
	)
	paymentService.SetTxManager(persistence.NewGormTxManager(db.DB))
	occasionService := catalogapp.NewOccasionService(occasionRepo)
	productService := catalogapp.NewProductService(productRepo, occasionRepo, settingsService)

	jwtService := auth.NewJWTService(cfg.JWT)
	userService := identityapp.NewUserService(userRepo, jwtService)

	// Domain events go to the structured log
	eventPublisher := event.NewLoggingPublisher(log)
	orderService.SetEventPublisher(eventPublisher)
	paymentService.SetEventPublisher(eventPublisher)

	// HTTP handlers
	orderHandler := handler.NewOrderHandler(orderService, statsService)
	paymentHandler := handler.NewPaymentHandler(paymentService)
	occasionHandler := handler.NewOccasionHandler(occasionService)
	productHandler := handler.NewProductHandler(productService)
	authHandler := handler.NewAuthHandler(userService, jwtService)
	userHandler := handler.NewUserHandler(userService)
	settingsHandler := handler.NewSettingsHandler(settingsService)
	systemHandler := handler.NewSystemHandler(db)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Middleware stack: request ID, tracing, panic recovery, request
	// logging, security headers, CORS, body limit, then rate limiting
	engine.Use(middleware.RequestID())
	engine.Use(middleware.Tracing(middleware.TracingConfig{
		ServiceName: cfg.App.Name,
		Enabled:     cfg.Telemetry.Enabled,
	}))
	engine.Use(middleware.SpanErrorMarker())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
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

	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	if cfg.HTTP.RateLimitEnabled {
		rateLimiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(rateLimiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	// Probes live outside API versioning
	engine.GET("/health", systemHandler.Health)
	engine.GET("/ready", systemHandler.Ready)

	requireAuth := middleware.JWTAuthMiddleware(jwtService)
	optionalAuth := middleware.OptionalJWTAuthMiddleware(jwtService)
	requireAdmin := middleware.RequireAdmin()

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	// Auth endpoints, throttled separately against credential stuffing
	authRoutes := router.NewDomainGroup("auth", "/auth")
	if cfg.HTTP.AuthRateLimitEnabled {
		authLimiter := middleware.NewRateLimiter(cfg.HTTP.AuthRateLimitRequests, cfg.HTTP.AuthRateLimitWindow)
		authRoutes.Use(middleware.RateLimit(authLimiter))
	}
	authRoutes.POST("/register", authHandler.Register)
	authRoutes.POST("/login", authHandler.Login)
	authRoutes.POST("/refresh", authHandler.Refresh)

	// Public storefront endpoints
	storefrontRoutes := router.NewDomainGroup("storefront", "")
	storefrontRoutes.GET("/products", productHandler.List)
	storefrontRoutes.GET("/products/featured", productHandler.ListFeatured)
	storefrontRoutes.GET("/products/:id", productHandler.GetByID)
	storefrontRoutes.GET("/occasions", occasionHandler.List)
	storefrontRoutes.GET("/occasions/:id", occasionHandler.GetByID)
	storefrontRoutes.GET("/occasions/slug/:slug", occasionHandler.GetBySlug)
	storefrontRoutes.GET("/payment-methods", paymentHandler.ListActiveMethods)
	storefrontRoutes.GET("/settings", settingsHandler.ListPublic)
	storefrontRoutes.POST("/orders", optionalAuth, orderHandler.Create)
	storefrontRoutes.GET("/orders/number/:number", orderHandler.GetByNumber)
	storefrontRoutes.POST("/orders/:id/payments", optionalAuth, paymentHandler.Confirm)
	storefrontRoutes.GET("/orders/mine", requireAuth, orderHandler.ListMine)

	// Account endpoints for any authenticated user
	accountRoutes := router.NewDomainGroup("account", "/users")
	accountRoutes.Use(requireAuth)
	accountRoutes.GET("/me", userHandler.Me)
	accountRoutes.PUT("/me", userHandler.UpdateProfile)
	accountRoutes.PUT("/me/password", userHandler.ChangePassword)

	// Admin endpoints
	adminRoutes := router.NewDomainGroup("admin", "/admin")
	adminRoutes.Use(requireAuth, requireAdmin)
	adminRoutes.GET("/orders", orderHandler.List)
	adminRoutes.GET("/orders/stats", orderHandler.Stats)
	adminRoutes.GET("/orders/:id", orderHandler.GetByID)
	adminRoutes.PATCH("/orders/:id", orderHandler.Update)
	adminRoutes.PATCH("/orders/:id/status", orderHandler.UpdateStatus)
	adminRoutes.POST("/orders/:id/cancel", orderHandler.Cancel)
	adminRoutes.GET("/orders/:id/history", orderHandler.History)
	adminRoutes.GET("/orders/:id/payments", paymentHandler.ListByOrder)
	adminRoutes.GET("/payments", paymentHandler.List)
	adminRoutes.GET("/payments/:id", paymentHandler.GetByID)
	adminRoutes.POST("/payments/:id/complete", paymentHandler.Complete)
	adminRoutes.POST("/payments/:id/fail", paymentHandler.Fail)
	adminRoutes.POST("/payments/:id/refund", paymentHandler.Refund)
	adminRoutes.GET("/payment-methods", paymentHandler.ListAllMethods)
	adminRoutes.POST("/payment-methods", paymentHandler.CreateMethod)
	adminRoutes.PUT("/payment-methods/:id", paymentHandler.UpdateMethod)
	adminRoutes.DELETE("/payment-methods/:id", paymentHandler.DeleteMethod)
	adminRoutes.POST("/products", productHandler.Create)
	adminRoutes.PUT("/products/:id", productHandler.Update)
	adminRoutes.PATCH("/products/:id/featured", productHandler.SetFeatured)
	adminRoutes.PATCH("/products/:id/stock", productHandler.AdjustStock)
	adminRoutes.DELETE("/products/:id", productHandler.Delete)
	adminRoutes.POST("/products/:id/restore", productHandler.Restore)
	adminRoutes.POST("/occasions", occasionHandler.Create)
	adminRoutes.PUT("/occasions/:id", occasionHandler.Update)
	adminRoutes.DELETE("/occasions/:id", occasionHandler.Delete)
	adminRoutes.POST("/occasions/:id/restore", occasionHandler.Restore)
	adminRoutes.GET("/users", userHandler.List)
	adminRoutes.POST("/users", userHandler.Create)
	adminRoutes.GET("/users/:id", userHandler.GetByID)
	adminRoutes.GET("/users/email/:email", userHandler.GetByEmail)
	adminRoutes.DELETE("/users/:id", userHandler.Deactivate)
	adminRoutes.POST("/users/:id/reactivate", userHandler.Reactivate)
	adminRoutes.GET("/settings", settingsHandler.List)
	adminRoutes.POST("/settings", settingsHandler.Create)
	adminRoutes.GET("/settings/:key", settingsHandler.GetByKey)
	adminRoutes.GET("/settings/:key/value", settingsHandler.GetValue)
	adminRoutes.PUT("/settings/:key", settingsHandler.Update)
	adminRoutes.DELETE("/settings/:key", settingsHandler.Delete)

	// System endpoints
	systemRoutes := router.NewDomainGroup("system", "/system")
	systemRoutes.GET("/info", systemHandler.GetSystemInfo)

	r.Register(authRoutes)
	r.Register(storefrontRoutes)
	r.Register(accountRoutes)
	r.Register(adminRoutes)
	r.Register(systemRoutes)
	r.Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	log.Info("Server stopped")
}
