// cmd/reconcile/main.go
package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/clubhub/ads-backend/internal/config"
	"github.com/clubhub/ads-backend/internal/database"
	"github.com/clubhub/ads-backend/internal/lock"
	"github.com/clubhub/ads-backend/internal/logger"
	"github.com/clubhub/ads-backend/internal/repository"
	"github.com/clubhub/ads-backend/internal/services"
)

// Runs a single promote/expire sweep, for cron setups that keep the
// in-process scheduler disabled.
func main() {
	timeout := flag.Duration("timeout", 2*time.Minute, "maximum run time")
	flag.Parse()

	os.Exit(run(*timeout))
}

func run(timeout time.Duration) int {
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

	db, err := database.Initialize(cfg.Database)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to initialize database")
	}
	defer database.Close(db)

	var tickLocker services.TickLocker
	if cfg.Redis.Enabled {
		rdb, err := database.InitRedis(cfg.Redis)
		if err != nil {
			logrus.WithError(err).Warn("Redis unavailable, running without the reconciliation lock")
		} else {
			defer rdb.Close()
			tickLocker = lock.NewRedisLock(rdb)
		}
	}

	adService := services.NewAdService(repository.NewAdRepository(db), nil, clock)
	scheduler := services.NewReconciliationScheduler(adService, tickLocker, cfg.Scheduler.Interval, cfg.Scheduler.LockTTL, clock)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	result, err := scheduler.RunOnce(ctx)
	fields := logrus.Fields{
		"promoted": result.Promoted,
		"expired":  result.Expired,
		"skipped":  result.Skipped,
	}
	if err != nil {
		logrus.WithError(err).WithFields(fields).Error("Reconciliation failed")
		return 1
	}
	logrus.WithFields(fields).Info("Reconciliation finished")
	return 0
}
