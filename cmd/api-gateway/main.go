package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/Ipeter02/ccapsystemsynod/api/swagger"
	"github.com/Ipeter02/ccapsystemsynod/internal/handler"
	"github.com/Ipeter02/ccapsystemsynod/internal/middleware"
	"github.com/Ipeter02/ccapsystemsynod/internal/repository"
	"github.com/Ipeter02/ccapsystemsynod/internal/service"
	"github.com/Ipeter02/ccapsystemsynod/pkg/cache"
	"github.com/Ipeter02/ccapsystemsynod/pkg/config"
	"github.com/Ipeter02/ccapsystemsynod/pkg/database"
	"github.com/Ipeter02/ccapsystemsynod/pkg/logger"
	corsmiddleware "github.com/Ipeter02/ccapsystemsynod/pkg/middleware/cors"
	reqidmiddleware "github.com/Ipeter02/ccapsystemsynod/pkg/middleware/requestid"
)

// @title CCAP Synod API
// @version 1.0.0
// @description Remote service consumed by the synod admin sync client
// @BasePath /api
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

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect database", "error", err)
	}
	defer db.Close() //nolint:errcheck

	metrics := service.NewMetricsService()
	validate := validator.New()

	var listCache *service.CacheService
	if cfg.Cache.Enabled {
		redisClient, err := cache.NewRedis(ctx, cfg.Redis, "list-cache")
		if err != nil {
			logr.Sugar().Warnw("redis unavailable, list cache disabled", "error", err)
		} else {
			defer redisClient.Close() //nolint:errcheck
			cacheRepo := repository.NewCacheRepository(redisClient, cfg.Cache.Prefix, logger.Named(logr, "cache"))
			listCache = service.NewCacheService(cacheRepo, metrics, cfg.Cache.TTL, logger.Named(logr, "cache"), true)
		}
	}

	userRepo := repository.NewUserRepository(db, metrics)
	directory := service.NewDirectoryService(userRepo, validate, logger.Named(logr, "directory"), metrics, service.DirectoryConfig{
		HashPasswords: cfg.Security.HashPasswords,
	}).WithCache(listCache)
	auth := service.NewAuthService(userRepo, validate, logger.Named(logr, "auth"))
	announcements := service.NewAnnouncementService(repository.NewAnnouncementRepository(db, metrics), validate, logger.Named(logr, "announcements")).WithCache(listCache)
	locations := service.NewLocationService(repository.NewLocationRepository(db, metrics), validate, logger.Named(logr, "locations")).WithCache(listCache)

	sweeper := service.NewGraceSweeper(directory, cfg.Grace, logger.Named(logr, "grace"))
	if err := sweeper.Start(); err != nil {
		logr.Sugar().Fatalw("failed to schedule grace sweep", "error", err)
	}
	defer sweeper.Stop()

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics, "/health", "/ready", "/metrics"))

	ops := handler.NewMetricsHandler(metrics, db)
	r.GET("/health", ops.Health)
	r.GET("/ready", ops.Ready)
	r.GET("/metrics", ops.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	handler.RegisterRoutes(r.Group(cfg.APIPrefix), handler.Handlers{
		Users:         handler.NewUserHandler(directory),
		Auth:          handler.NewAuthHandler(directory, auth),
		Announcements: handler.NewAnnouncementHandler(announcements),
		Locations:     handler.NewLocationHandler(locations),
		AuditLogger:   logger.Named(logr, "audit"),
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env, "password_hashing", cfg.Security.HashPasswords)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("graceful shutdown failed", "error", err)
	}
}
