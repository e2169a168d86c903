// internal/services/scheduler.go
package services

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/clubhub/ads-backend/internal/metrics"
)

const ReconcileLockKey = "ads:reconcile:lock"

// Reconciler performs the time-driven status moves.
type Reconciler interface {
	PromoteDueAds(ctx context.Context) (int64, error)
	ExpireEndedAds(ctx context.Context) (int64, error)
}

// TickLocker elects one replica per tick. A nil TickLocker lets every
// replica sweep; the bulk updates are idempotent.
type TickLocker interface {
	TryAcquire(ctx context.Context, key string, ttl time.Duration) (string, bool, error)
	Release(ctx context.Context, key, token string) error
}

type TickResult struct {
	Promoted int64
	Expired  int64
	Skipped  bool
}

// ReconciliationScheduler periodically promotes due APPROVED ads and
// expires ended ones.
type ReconciliationScheduler struct {
	reconciler Reconciler
	locker     TickLocker
	interval   time.Duration
	lockTTL    time.Duration
	clock      Clock
}

func NewReconciliationScheduler(reconciler Reconciler, locker TickLocker, interval, lockTTL time.Duration, clock Clock) *ReconciliationScheduler {
	if interval <= 0 {
		interval = time.Minute
	}
	if lockTTL <= 0 {
		lockTTL = 30 * time.Second
	}
	if clock == nil {
		clock = SystemClock(time.UTC)
	}
	return &ReconciliationScheduler{
		reconciler: reconciler,
		locker:     locker,
		interval:   interval,
		lockTTL:    lockTTL,
		clock:      clock,
	}
}

// Start runs a tick immediately and then on every interval until the
// returned stop func is called or parent is cancelled. Stop waits for an
// in-flight tick to finish.
func (s *ReconciliationScheduler) Start(parent context.Context) func() {
	ctx, cancel := context.WithCancel(parent)
	done := make(chan struct{})

	go func() {
		defer close(done)
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		s.RunOnce(ctx)

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.RunOnce(ctx)
			}
		}
	}()

	logrus.WithField("interval", s.interval.String()).Info("Reconciliation scheduler started")

	return func() {
		cancel()
		<-done
		logrus.Info("Reconciliation scheduler stopped")
	}
}

// RunOnce executes a single tick. Failures are logged and counted; the
// returned error is informational and the next tick runs regardless.
func (s *ReconciliationScheduler) RunOnce(ctx context.Context) (TickResult, error) {
	var result TickResult
	log := logrus.WithField("tick_at", s.clock().Format(time.RFC3339))

	if s.locker != nil {
		token, ok, err := s.locker.TryAcquire(ctx, ReconcileLockKey, s.lockTTL)
		if err != nil {
			tickErr := &SchedulerTickError{Step: "lock", Err: err}
			log.WithError(err).Error("Reconciliation lock unavailable")
			metrics.SchedulerTicksTotal.WithLabelValues(metrics.TickError).Inc()
			return result, tickErr
		}
		if !ok {
			log.Debug("Reconciliation tick skipped, another replica holds the lock")
			metrics.SchedulerTicksTotal.WithLabelValues(metrics.TickSkipped).Inc()
			result.Skipped = true
			return result, nil
		}
		defer func() {
			// Release on a fresh context so shutdown does not leak the lock
			releaseCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := s.locker.Release(releaseCtx, ReconcileLockKey, token); err != nil {
				log.WithError(err).Warn("Failed to release reconciliation lock")
			}
		}()
	}

	var errs []error

	promoted, err := s.reconciler.PromoteDueAds(ctx)
	result.Promoted = promoted
	if err != nil {
		errs = append(errs, &SchedulerTickError{Step: "promote", Err: err})
		log.WithError(err).Error("Failed to promote due ads")
	}

	expired, err := s.reconciler.ExpireEndedAds(ctx)
	result.Expired = expired
	if err != nil {
		errs = append(errs, &SchedulerTickError{Step: "expire", Err: err})
		log.WithError(err).Error("Failed to expire ended ads")
	}

	metrics.SchedulerAdsTotal.WithLabelValues("promoted").Add(float64(result.Promoted))
	metrics.SchedulerAdsTotal.WithLabelValues("expired").Add(float64(result.Expired))

	if len(errs) > 0 {
		metrics.SchedulerTicksTotal.WithLabelValues(metrics.TickError).Inc()
		return result, errors.Join(errs...)
	}

	metrics.SchedulerTicksTotal.WithLabelValues(metrics.TickOK).Inc()
	metrics.SchedulerLastSuccess.SetToCurrentTime()
	if result.Promoted > 0 || result.Expired > 0 {
		log.WithFields(logrus.Fields{
			"promoted": result.Promoted,
			"expired":  result.Expired,
		}).Info("Reconciliation tick completed")
	} else {
		log.Debug("Reconciliation tick completed, nothing to do")
	}
	return result, nil
}
