package services

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clubhub/ads-backend/internal/lock"
	"github.com/clubhub/ads-backend/internal/models"
	"github.com/clubhub/ads-backend/internal/repository/repotest"
)

func seedAd(repo *repotest.AdRepository, adType models.AdType, status models.AdStatus, start string, days int) *models.Ad {
	ad := &models.Ad{
		AdName:        "Seeded",
		AdType:        adType,
		StartDate:     models.MustParseDate(start),
		DurationDays:  days,
		PricePerDay:   decimal.NewFromInt(10),
		PaymentMethod: models.PaymentMethodCard,
		Status:        status,
	}
	ad.RecomputeDerived()
	return repo.Put(ad)
}

func newTestScheduler(repo *repotest.AdRepository, locker TickLocker, now time.Time) *ReconciliationScheduler {
	svc := NewAdService(repo, nil, fixedClock(now))
	return NewReconciliationScheduler(svc, locker, time.Minute, 30*time.Second, fixedClock(now))
}

func statusOf(t *testing.T, repo *repotest.AdRepository, ad *models.Ad) models.AdStatus {
	t.Helper()
	got, err := repo.GetByID(context.Background(), ad.ID)
	require.NoError(t, err)
	return got.Status
}

func TestRunOnceExpiresEndedAdsIdempotently(t *testing.T) {
	repo := repotest.NewAdRepository()
	ended := seedAd(repo, models.AdTypeAppBanner, models.AdStatusActive, "2024-05-01", 10)     // ends 05-11
	lastDay := seedAd(repo, models.AdTypeClubListing, models.AdStatusActive, "2024-05-02", 10) // ends 05-12
	now := time.Date(2024, 5, 12, 0, 5, 0, 0, time.UTC)
	s := newTestScheduler(repo, nil, now)

	result, err := s.RunOnce(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 1, result.Expired)
	assert.Equal(t, models.AdStatusExpired, statusOf(t, repo, ended))
	assert.Equal(t, models.AdStatusActive, statusOf(t, repo, lastDay))

	result, err = s.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Zero(t, result.Expired)
	assert.Zero(t, result.Promoted)
	assert.Equal(t, models.AdStatusExpired, statusOf(t, repo, ended))
}

func TestRunOncePromotesApprovedAdsInWindow(t *testing.T) {
	repo := repotest.NewAdRepository()
	due := seedAd(repo, models.AdTypeWebsiteBanner, models.AdStatusApproved, "2024-06-01", 5)
	future := seedAd(repo, models.AdTypeAppBanner, models.AdStatusApproved, "2024-06-02", 5)
	pending := seedAd(repo, models.AdTypeClubListing, models.AdStatusPendingApproval, "2024-05-30", 5)
	stale := seedAd(repo, models.AdTypeClubListing, models.AdStatusApproved, "2024-05-01", 3)

	s := newTestScheduler(repo, nil, time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC))
	result, err := s.RunOnce(context.Background())
	require.NoError(t, err)

	assert.EqualValues(t, 1, result.Promoted)
	assert.EqualValues(t, 1, result.Expired)
	assert.Equal(t, models.AdStatusActive, statusOf(t, repo, due))
	assert.Equal(t, models.AdStatusApproved, statusOf(t, repo, future))
	assert.Equal(t, models.AdStatusPendingApproval, statusOf(t, repo, pending))
	assert.Equal(t, models.AdStatusExpired, statusOf(t, repo, stale))
}

func TestRunOnceContainsStepFailures(t *testing.T) {
	repo := repotest.NewAdRepository()
	ended := seedAd(repo, models.AdTypeAppBanner, models.AdStatusActive, "2024-05-01", 2)
	repo.PromoteErr = errors.New("connection reset")

	s := newTestScheduler(repo, nil, time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC))
	result, err := s.RunOnce(context.Background())
	require.Error(t, err)

	var tickErr *SchedulerTickError
	require.True(t, errors.As(err, &tickErr))
	assert.Equal(t, "promote", tickErr.Step)

	// Expiry still ran
	assert.EqualValues(t, 1, result.Expired)
	assert.Equal(t, models.AdStatusExpired, statusOf(t, repo, ended))
}

func TestRunOnceSkipsWhenAnotherReplicaHoldsTheLock(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	locker := lock.NewRedisLock(client)

	repo := repotest.NewAdRepository()
	ended := seedAd(repo, models.AdTypeAppBanner, models.AdStatusActive, "2024-05-01", 2)
	s := newTestScheduler(repo, locker, time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC))

	_, ok, err := locker.TryAcquire(context.Background(), ReconcileLockKey, time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	result, err := s.RunOnce(context.Background())
	require.NoError(t, err)
	assert.True(t, result.Skipped)
	assert.Equal(t, models.AdStatusActive, statusOf(t, repo, ended))

	mr.FastForward(2 * time.Minute)

	result, err = s.RunOnce(context.Background())
	require.NoError(t, err)
	assert.False(t, result.Skipped)
	assert.EqualValues(t, 1, result.Expired)
	assert.False(t, mr.Exists(ReconcileLockKey), "lock must be released after the tick")
}

type countingReconciler struct {
	promotes atomic.Int32
}

func (c *countingReconciler) PromoteDueAds(ctx context.Context) (int64, error) {
	c.promotes.Add(1)
	return 0, nil
}

func (c *countingReconciler) ExpireEndedAds(ctx context.Context) (int64, error) {
	return 0, nil
}

func TestStartRunsImmediatelyAndStops(t *testing.T) {
	rec := &countingReconciler{}
	s := NewReconciliationScheduler(rec, nil, 10*time.Millisecond, 0, nil)

	stop := s.Start(context.Background())
	require.Eventually(t, func() bool { return rec.promotes.Load() >= 2 }, time.Second, 5*time.Millisecond)
	stop()

	after := rec.promotes.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, after, rec.promotes.Load())
}

func TestNewReconciliationSchedulerDefaults(t *testing.T) {
	s := NewReconciliationScheduler(&countingReconciler{}, nil, 0, 0, nil)
	assert.Equal(t, time.Minute, s.interval)
	assert.Equal(t, 30*time.Second, s.lockTTL)
}
