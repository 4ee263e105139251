package main

import (
	"context"
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"golang.org/x/crypto/bcrypt"

	_ "github.com/deptsched/timetable-api/api/swagger"
	"github.com/deptsched/timetable-api/internal/engine"
	internalhandler "github.com/deptsched/timetable-api/internal/handler"
	internalmiddleware "github.com/deptsched/timetable-api/internal/middleware"
	"github.com/deptsched/timetable-api/internal/repository"
	"github.com/deptsched/timetable-api/internal/service"
	"github.com/deptsched/timetable-api/pkg/cache"
	"github.com/deptsched/timetable-api/pkg/config"
	"github.com/deptsched/timetable-api/pkg/database"
	"github.com/deptsched/timetable-api/pkg/jobs"
	"github.com/deptsched/timetable-api/pkg/logger"
	corsmiddleware "github.com/deptsched/timetable-api/pkg/middleware/cors"
	reqidmiddleware "github.com/deptsched/timetable-api/pkg/middleware/requestid"
	"github.com/deptsched/timetable-api/pkg/storage"
)

// @title Timetable Scheduling API
// @version 1.0.0
// @description Weekly academic timetable generator: submit a Faculty Plan, get back workbooks.
// @BasePath /
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	validate := validator.New()
	metricsSvc := service.NewMetricsService()
	metricsHandler := internalhandler.NewMetricsHandler(metricsSvc)

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to initialise database", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Fatalw("failed to initialise redis", "error", err)
	}
	defer redisClient.Close()

	cacheRepo := repository.NewCacheRepository(redisClient, logr)
	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Scheduler.RunCacheTTL, logr, true)

	templates, err := engine.DefaultShiftTemplates()
	if err != nil {
		logr.Sugar().Fatalw("failed to build shift templates", "error", err)
	}

	localStorage, err := storage.NewLocalStorage(cfg.Export.StorageDir)
	if err != nil {
		logr.Sugar().Fatalw("failed to initialise export storage", "error", err)
	}
	signer := storage.NewSignedURLSigner(cfg.Export.SignedURLSecret, cfg.Export.SignedURLTTL)

	runRepo := repository.NewRunRepository(db)
	exportSvc := service.NewExportService(localStorage, signer, logr)

	schedulerSvc := service.NewSchedulerService(templates, runRepo, exportSvc, jobs.QueueConfig{
		Workers:    cfg.Export.WorkerConcurrency,
		MaxRetries: cfg.Export.WorkerRetries,
	}, metricsSvc, cacheSvc, validate, logr, service.SchedulerConfig{
		DefaultSeed:       cfg.Scheduler.DefaultSeed,
		CompatibilityMode: cfg.Scheduler.CompatibilityMode,
		RunCacheTTL:       cfg.Scheduler.RunCacheTTL,
	})
	schedulerSvc.Start(context.Background())
	defer schedulerSvc.Stop()

	adminPasswordHash, err := bcrypt.GenerateFromPassword([]byte(cfg.Auth.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		logr.Sugar().Fatalw("failed to hash admin password", "error", err)
	}
	authSvc := service.NewAuthService(validate, logr, service.AuthConfig{
		AdminUsername:     cfg.Auth.AdminUsername,
		AdminPasswordHash: string(adminPasswordHash),
		AccessTokenSecret: cfg.Auth.JWTSecret,
		AccessTokenExpiry: cfg.Auth.JWTExpiration,
		Issuer:            "timetable-api",
	})
	authHandler := internalhandler.NewAuthHandler(authSvc)
	schedulerHandler := internalhandler.NewSchedulerHandler(schedulerSvc, localStorage, signer)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(internalmiddleware.WithResponseMeta())
	r.Use(internalmiddleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Health)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	r.GET("/", schedulerHandler.Home)
	r.GET("/builder", schedulerHandler.Builder)
	r.GET("/success", schedulerHandler.Success)

	r.POST("/auth/login", authHandler.Login)

	protected := r.Group("")
	protected.Use(internalmiddleware.JWT(authSvc))
	protected.POST("/generate", schedulerHandler.Generate)
	protected.GET("/download/:token", schedulerHandler.Download)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
