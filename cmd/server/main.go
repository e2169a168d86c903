// cmd/server/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/clubhub/ads-backend/internal/config"
	"github.com/clubhub/ads-backend/internal/database"
	"github.com/clubhub/ads-backend/internal/i18n"
	"github.com/clubhub/ads-backend/internal/lock"
	"github.com/clubhub/ads-backend/internal/logger"
	"github.com/clubhub/ads-backend/internal/repository"
	"github.com/clubhub/ads-backend/internal/router"
	"github.com/clubhub/ads-backend/internal/services"
)

var version = "dev"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}

	logCloser := logger.Initialize(cfg.Log)
	defer logCloser.Close()

	loc, err := cfg.Scheduler.Location()
	if err != nil {
		logrus.WithError(err).Fatal("Invalid scheduler timezone")
	}
	clock := services.SystemClock(loc)

	// Initialize database
	db, err := database.Initialize(cfg.Database)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to initialize database")
	}
	defer database.Close(db)

	// Run database migrations
	if err := database.RunMigrations(db); err != nil {
		logrus.WithError(err).Fatal("Failed to run migrations")
	}

	// Initialize i18n
	if err := i18n.Initialize(); err != nil {
		logrus.WithError(err).Fatal("Failed to initialize i18n")
	}

	// Redis only elects the scheduler replica; the API runs without it
	var tickLocker services.TickLocker
	if cfg.Redis.Enabled {
		rdb, err := database.InitRedis(cfg.Redis)
		if err != nil {
			logrus.WithError(err).Warn("Redis unavailable, scheduler ticks will not be coordinated")
		} else {
			defer rdb.Close()
			tickLocker = lock.NewRedisLock(rdb)
		}
	}

	storage, err := services.NewStorageService(cfg)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to initialize media storage")
	}

	adService := services.NewAdService(repository.NewAdRepository(db), storage, clock)
	pricingService := services.NewPricingService(repository.NewPricingRepository(db))
	exportService := services.NewExportService(adService)

	// Set Gin mode
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := router.Initialize(cfg, router.Dependencies{
		AdService:      adService,
		PricingService: pricingService,
		ExportService:  exportService,
		Storage:        storage,
		AuditLog:       repository.NewAuditLogRepository(db),
		Version:        version,
	})

	stopScheduler := func() {}
	if cfg.Scheduler.Enabled {
		scheduler := services.NewReconciliationScheduler(adService, tickLocker, cfg.Scheduler.Interval, cfg.Scheduler.LockTTL, clock)
		stopScheduler = scheduler.Start(context.Background())
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	go func() {
		logrus.WithFields(logrus.Fields{
			"port":    cfg.Server.Port,
			"version": version,
		}).Info("Starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.WithError(err).Fatal("Failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logrus.Info("Shutting down server...")

	stopScheduler()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logrus.WithError(err).Error("Server forced to shutdown")
	}

	logrus.Info("Server exited")
}
