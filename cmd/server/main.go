package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"marketly/internal/config"
	"marketly/internal/handlers"
	"marketly/internal/handlers/shared"
	"marketly/internal/jobs"
	"marketly/internal/repositories/mongodb"
	"marketly/internal/services"
	"marketly/internal/utils"
	"marketly/pkg/cache"
	"marketly/pkg/database"
	"marketly/pkg/logger"
	"marketly/pkg/notify"
	"marketly/pkg/queue"
	"marketly/pkg/storage"
	"marketly/routes"

	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	appLogger, err := logger.NewLogger(&logger.Config{
		Level:   logger.LogLevel(cfg.App.LogLevel),
		Format:  cfg.App.LogFormat,
		AppName: cfg.App.Name,
		Version: cfg.App.Version,
	})
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}

	if err := run(cfg, appLogger); err != nil {
		appLogger.WithError(err).Fatal("Server exited with error")
	}
}

func run(cfg *config.Config, appLogger *logger.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	// Database
	mongo, err := database.NewMongoDB(&database.DatabaseConfig{
		URI:            cfg.Database.URI,
		Database:       cfg.Database.Database,
		MaxPoolSize:    cfg.Database.MaxPoolSize,
		MinPoolSize:    cfg.Database.MinPoolSize,
		ConnectTimeout: cfg.Database.ConnectTimeout,
		SocketTimeout:  cfg.Database.SocketTimeout,
		Transactions:   cfg.Database.Transactions,
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := mongo.Close(); err != nil {
			appLogger.WithError(err).Warn("Failed to close mongodb")
		}
	}()

	if cfg.Database.RunMigrations {
		if err := database.NewMigrator(mongo.Database, appLogger).Up(ctx); err != nil {
			return fmt.Errorf("migrations failed: %w", err)
		}
	}

	// Redis backs the cache, rate limits and the job queue. Everything degrades without it.
	var (
		redisCache   *cache.RedisCache
		cacheService services.CacheService
		jobQueue     *queue.RedisQueue
	)
	if cfg.Redis.Enabled {
		redisCache, err = cache.NewRedisCache(&cache.RedisConfig{
			Host:         cfg.Redis.Host,
			Port:         cfg.Redis.Port,
			Password:     cfg.Redis.Password,
			DB:           cfg.Redis.DB,
			PoolSize:     cfg.Redis.PoolSize,
			MinIdleConns: cfg.Redis.MinIdleConns,
			DialTimeout:  cfg.Redis.DialTimeout,
			ReadTimeout:  cfg.Redis.ReadTimeout,
			WriteTimeout: cfg.Redis.WriteTimeout,
			KeyPrefix:    cfg.Redis.KeyPrefix,
		})
		if err != nil {
			return err
		}
		defer func() {
			if err := redisCache.Close(); err != nil {
				appLogger.WithError(err).Warn("Failed to close redis")
			}
		}()

		cacheService = services.NewCacheService(redisCache, cfg.SEO.CacheTTL, appLogger)
		jobQueue = queue.NewRedisQueue(redisCache, cfg.Jobs.InventoryQueue)
	} else {
		appLogger.Warn("Redis disabled: no cache, local rate limits and no inventory jobs")
	}

	storageProvider, closeStorage, err := newStorageProvider(ctx, cfg.Storage)
	if err != nil {
		return err
	}
	defer closeStorage()

	notifier, err := newNotifier(ctx, cfg.Notify, appLogger)
	if err != nil {
		return err
	}

	// Repositories
	db := mongo.Database
	userRepo := mongodb.NewUserRepository(db)
	roleRepo := mongodb.NewRoleRepository(db)
	brandRepo := mongodb.NewBrandRepository(db)
	categoryRepo := mongodb.NewCategoryRepository(db)
	tagRepo := mongodb.NewTagRepository(db)
	productRepo := mongodb.NewProductRepository(db)
	movementRepo := mongodb.NewInventoryMovementRepository(db)
	cartRepo := mongodb.NewCartRepository(db)
	orderRepo := mongodb.NewOrderRepository(db)
	seoRepo := mongodb.NewSeoRepository(db)
	settingsRepo := mongodb.NewSettingsRepository(db)
	mediaRepo := mongodb.NewMediaRepository(db)
	couponRepo := mongodb.NewCouponRepository(db)
	shippingRepo := mongodb.NewShippingRuleRepository(db)
	taxRepo := mongodb.NewTaxSlabRepository(db)
	vehicleBrandRepo := mongodb.NewVehicleBrandRepository(db)
	vehicleModelRepo := mongodb.NewVehicleModelRepository(db)
	vehicleYearRepo := mongodb.NewVehicleModelYearRepository(db)
	vehicleRepo := mongodb.NewVehicleRepository(db)

	// Services
	jwtManager := utils.NewJWTManager(cfg.Security.JWTSecret, cfg.Security.JWTAccessTokenTTL, cfg.Security.JWTRefreshTokenTTL)

	var inventoryJobs services.JobQueue
	if jobQueue != nil {
		inventoryJobs = jobQueue
	}

	settingsService := services.NewSettingsService(settingsRepo, services.SettingsDefaults{
		StoreName:         cfg.App.Name,
		Currency:          cfg.App.Currency,
		CommissionRate:    cfg.Jobs.CommissionRate,
		VolumetricDivisor: utils.DefaultVolumetricDivisor,
	}, appLogger)
	inventoryService := services.NewInventoryService(productRepo, movementRepo, inventoryJobs, cfg.Jobs.DefaultLowStockLevel, appLogger)
	couponService := services.NewCouponService(couponRepo, orderRepo, appLogger)
	shippingService := services.NewShippingService(shippingRepo, settingsService, appLogger)
	taxService := services.NewTaxService(taxRepo, appLogger)

	h := &routes.Handlers{
		Health: shared.NewHealthHandler(healthChecks(mongo, redisCache)),
		Auth:   handlers.NewAuthHandler(services.NewAuthService(userRepo, jwtManager, appLogger)),
		User:   handlers.NewUserHandler(services.NewUserService(userRepo, roleRepo, appLogger)),
		Role:   handlers.NewRoleHandler(services.NewRoleService(roleRepo, userRepo, appLogger)),
		Vehicle: handlers.NewVehicleHandler(services.NewVehicleTaxonomyService(
			vehicleBrandRepo, vehicleModelRepo, vehicleYearRepo, vehicleRepo, mongo, appLogger,
		)),
		Brand:    handlers.NewBrandHandler(services.NewBrandService(brandRepo, appLogger)),
		Category: handlers.NewCategoryHandler(services.NewCategoryService(categoryRepo, mongo, appLogger)),
		Tag:      handlers.NewTagHandler(services.NewTagService(tagRepo, appLogger)),
		Product:  handlers.NewProductHandler(services.NewProductService(productRepo, brandRepo, categoryRepo, tagRepo, appLogger)),
		Coupon:   handlers.NewCouponHandler(couponService),
		Shipping: handlers.NewShippingHandler(shippingService),
		Tax:      handlers.NewTaxHandler(taxService),
		Seo:      handlers.NewSeoHandler(services.NewSeoService(seoRepo, cacheService, cfg.SEO.CacheTTL, appLogger)),
		Settings: handlers.NewSettingsHandler(settingsService),
		Media: handlers.NewMediaHandler(services.NewMediaService(mediaRepo, storageProvider, services.MediaSettings{
			PresignTTL:  cfg.Storage.PresignTTL,
			MaxFileSize: cfg.Storage.MaxFileSize,
		}, appLogger)),
		Inventory: handlers.NewInventoryHandler(inventoryService),
		Cart:      handlers.NewCartHandler(services.NewCartService(cartRepo, productRepo, appLogger)),
		Checkout: handlers.NewCheckoutHandler(services.NewCheckoutService(
			cartRepo, productRepo, orderRepo, couponService, shippingService, taxService,
			inventoryService, settingsService, mongo, appLogger,
		)),
		Order:  handlers.NewOrderHandler(services.NewOrderService(orderRepo, inventoryService, mongo, appLogger)),
		Report: handlers.NewReportHandler(services.NewReportService(orderRepo, appLogger)),
	}

	router := routes.NewRouter(routes.Options{
		JWT:             jwtManager,
		Cache:           cacheService,
		Logger:          appLogger,
		CORSOrigins:     cfg.Security.CORSAllowedOrigins,
		TrustedProxies:  cfg.Security.TrustedProxies,
		PublicRateLimit: cfg.Security.RateLimitPerMinute,
		AdminRateLimit:  cfg.Security.AdminRateLimit,
	}, h)

	// Background jobs
	keepAlive := jobs.NewKeepAlive(cfg.KeepAlive, appLogger)
	if err := keepAlive.Start(); err != nil {
		return err
	}

	workerCtx, stopWorker := context.WithCancel(context.Background())
	workerDone := make(chan struct{})
	if jobQueue != nil && cfg.Jobs.WorkerEnabled {
		worker := jobs.NewInventoryWorker(jobQueue, notifier, cfg.Jobs.PollTimeout, appLogger)
		go func() {
			defer close(workerDone)
			worker.Run(workerCtx)
		}()
	} else {
		close(workerDone)
	}

	stopJobs := func() {
		keepAlive.Stop()
		stopWorker()
		<-workerDone
	}

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.App.Host, cfg.App.Port),
		Handler:      router,
		ReadTimeout:  cfg.App.ReadTimeout,
		WriteTimeout: cfg.App.WriteTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		appLogger.WithField("addr", server.Addr).Info("Starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		stopJobs()
		return err
	case <-ctx.Done():
		appLogger.Info("Shutdown signal received")
	}
	stopJobs()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	appLogger.Info("Server stopped")
	return nil
}

func newStorageProvider(ctx context.Context, cfg *config.StorageConfig) (storage.StorageProvider, func(), error) {
	noop := func() {}

	switch cfg.Provider {
	case "gcs":
		if cfg.GCP.Bucket == "" {
			return nil, noop, nil
		}
		gcs, err := storage.NewGCPStorage(ctx, cfg.GCP.Bucket, cfg.GCP.CredentialsFile, cfg.GCP.CDNDomain)
		if err != nil {
			return nil, noop, err
		}
		return gcs, func() { _ = gcs.Close() }, nil
	case "s3", "":
		if cfg.AWS.Bucket == "" {
			return nil, noop, nil
		}
		s3, err := storage.NewAWSS3Storage(ctx, cfg.AWS.Region, cfg.AWS.Bucket, cfg.AWS.CDNDomain)
		if err != nil {
			return nil, noop, err
		}
		return s3, noop, nil
	default:
		return nil, noop, fmt.Errorf("unknown storage provider %q", cfg.Provider)
	}
}

func newNotifier(ctx context.Context, cfg *config.NotifyConfig, appLogger *logger.Logger) (notify.Notifier, error) {
	if cfg.Provider == "sns" && cfg.AWS.AlertTopicARN != "" {
		return notify.NewAWSSNSNotifier(ctx, cfg.AWS.Region, cfg.AWS.AlertTopicARN)
	}
	return notify.NewLogNotifier(appLogger), nil
}

// healthChecks reports redis as disabled when it is not configured.
func healthChecks(mongo *database.MongoDB, redisCache *cache.RedisCache) map[string]shared.Pinger {
	checks := map[string]shared.Pinger{"mongodb": mongo}
	if redisCache != nil {
		checks["redis"] = redisCache
	} else {
		checks["redis"] = nil
	}
	return checks
}
