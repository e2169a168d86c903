// internal/repository/ad_repository.go
package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/clubhub/ads-backend/internal/models"
)

// SlotQuery asks for a reserved ad occupying key during window.
type SlotQuery struct {
	Key       models.InventoryKey
	Window    models.Window
	ExcludeID *uuid.UUID
}

// WindowQuery selects ads by status whose window overlaps Window. An empty
// AdType matches every type; a zero Window bound is open.
type WindowQuery struct {
	Statuses []models.AdStatus
	AdType   models.AdType
	Window   models.Window
}

type AdFilter struct {
	ClubID        *int64
	ClientID      *int64
	AdType        *models.AdType
	Branchname    *string
	Status        *models.AdStatus
	StartDateFrom *models.Date
	StartDateTo   *models.Date
	Offset        int
	Limit         int
}

// AdRepository is the ad entity store.
type AdRepository interface {
	Create(ctx context.Context, ad *models.Ad) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Ad, error)
	// Update writes every mutable column of ad provided its stored status is
	// still expected. It returns ErrNotFound or ErrStaleStatus otherwise.
	Update(ctx context.Context, ad *models.Ad, expected models.AdStatus) error
	FindConflicting(ctx context.Context, q SlotQuery) (*models.Ad, error)
	ListByStatusAndWindow(ctx context.Context, q WindowQuery) ([]*models.Ad, error)
	List(ctx context.Context, filter AdFilter) ([]*models.Ad, int64, error)
	GetAsset(ctx context.Context, id uuid.UUID) (*models.AdAsset, error)

	// PromoteDue moves APPROVED ads whose window contains today to ACTIVE.
	PromoteDue(ctx context.Context, today models.Date) (int64, error)
	// ExpirePast moves APPROVED and ACTIVE ads that ended before today to EXPIRED.
	ExpirePast(ctx context.Context, today models.Date) (int64, error)

	// WithSlotLock runs fn in a transaction that holds an exclusive lock on
	// each inventory key until commit.
	WithSlotLock(ctx context.Context, keys []models.InventoryKey, fn func(ctx context.Context) error) error
}

type adRepository struct {
	baseRepository
}

func NewAdRepository(db *gorm.DB) AdRepository {
	return &adRepository{baseRepository{db: db}}
}

func (r *adRepository) Create(ctx context.Context, ad *models.Ad) error {
	if err := r.getDB(ctx).Create(ad).Error; err != nil {
		return fmt.Errorf("failed to create ad: %w", mapWriteError(err))
	}
	return nil
}

func (r *adRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Ad, error) {
	var ad models.Ad
	err := r.getDB(ctx).Preload("Assets", func(db *gorm.DB) *gorm.DB {
		return db.Order("created_at ASC")
	}).First(&ad, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &ad, nil
}

func (r *adRepository) Update(ctx context.Context, ad *models.Ad, expected models.AdStatus) error {
	db := r.getDB(ctx)
	ad.UpdatedAt = time.Now()

	result := db.Model(&models.Ad{}).
		Where("id = ? AND status = ?", ad.ID, expected).
		Updates(map[string]interface{}{
			"ad_name":          ad.AdName,
			"branchname":       ad.Branchname,
			"client_id":        ad.ClientID,
			"listing_position": ad.ListingPosition,
			"start_date":       ad.StartDate,
			"duration_days":    ad.DurationDays,
			"end_date":         ad.EndDate,
			"price_per_day":    ad.PricePerDay,
			"total_budget":     ad.TotalBudget,
			"payment_method":   ad.PaymentMethod,
			"payment_status":   ad.PaymentStatus,
			"status":           ad.Status,
			"rejection_reason": ad.RejectionReason,
			"approved_at":      ad.ApprovedAt,
			"approved_by":      ad.ApprovedBy,
			"activated_at":     ad.ActivatedAt,
			"updated_at":       ad.UpdatedAt,
		})
	if result.Error != nil {
		if errors.Is(mapWriteError(result.Error), ErrSlotTaken) {
			return ErrSlotTaken
		}
		return fmt.Errorf("failed to update ad: %w", result.Error)
	}
	if result.RowsAffected > 0 {
		return nil
	}

	var count int64
	if err := db.Model(&models.Ad{}).Where("id = ?", ad.ID).Count(&count).Error; err != nil {
		return fmt.Errorf("database error: %w", err)
	}
	if count == 0 {
		return ErrNotFound
	}
	return ErrStaleStatus
}

func (r *adRepository) FindConflicting(ctx context.Context, q SlotQuery) (*models.Ad, error) {
	query := r.getDB(ctx).Model(&models.Ad{}).
		Where("ad_type = ? AND status IN ?", q.Key.AdType, models.ReservedStatuses).
		Where("start_date <= ? AND end_date >= ?", q.Window.End, q.Window.Start)

	if q.Key.AdType.HasListingPosition() {
		query = query.Where("listing_position = ?", q.Key.ListingPosition)
	}
	if q.ExcludeID != nil {
		query = query.Where("id <> ?", *q.ExcludeID)
	}

	var ad models.Ad
	if err := query.Order("start_date ASC").First(&ad).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to check slot conflicts: %w", err)
	}
	return &ad, nil
}

func (r *adRepository) ListByStatusAndWindow(ctx context.Context, q WindowQuery) ([]*models.Ad, error) {
	query := r.getDB(ctx).Model(&models.Ad{}).Preload("Assets")

	if len(q.Statuses) > 0 {
		query = query.Where("status IN ?", q.Statuses)
	}
	if q.AdType != "" {
		query = query.Where("ad_type = ?", q.AdType)
	}
	if !q.Window.End.IsZero() {
		query = query.Where("start_date <= ?", q.Window.End)
	}
	if !q.Window.Start.IsZero() {
		query = query.Where("end_date >= ?", q.Window.Start)
	}

	var ads []*models.Ad
	if err := query.Order("ad_type ASC, listing_position ASC, start_date ASC").Find(&ads).Error; err != nil {
		return nil, fmt.Errorf("failed to list ads: %w", err)
	}
	return ads, nil
}

func (r *adRepository) List(ctx context.Context, filter AdFilter) ([]*models.Ad, int64, error) {
	query := r.getDB(ctx).Model(&models.Ad{})

	if filter.ClubID != nil {
		query = query.Where("club_id = ?", *filter.ClubID)
	}
	if filter.ClientID != nil {
		query = query.Where("client_id = ?", *filter.ClientID)
	}
	if filter.AdType != nil {
		query = query.Where("ad_type = ?", *filter.AdType)
	}
	if filter.Branchname != nil {
		query = query.Where("branchname = ?", *filter.Branchname)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.StartDateFrom != nil {
		query = query.Where("start_date >= ?", *filter.StartDateFrom)
	}
	if filter.StartDateTo != nil {
		query = query.Where("start_date <= ?", *filter.StartDateTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count ads: %w", err)
	}

	var ads []*models.Ad
	err := query.Preload("Assets").
		Order("created_at DESC").
		Offset(filter.Offset).
		Limit(filter.Limit).
		Find(&ads).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list ads: %w", err)
	}
	return ads, total, nil
}

func (r *adRepository) GetAsset(ctx context.Context, id uuid.UUID) (*models.AdAsset, error) {
	var asset models.AdAsset
	if err := r.getDB(ctx).First(&asset, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &asset, nil
}

func (r *adRepository) PromoteDue(ctx context.Context, today models.Date) (int64, error) {
	now := time.Now()
	result := r.getDB(ctx).Model(&models.Ad{}).
		Where("status = ? AND start_date <= ? AND end_date >= ?", models.AdStatusApproved, today, today).
		Updates(map[string]interface{}{
			"status":       models.AdStatusActive,
			"activated_at": gorm.Expr("COALESCE(activated_at, ?)", now),
			"updated_at":   now,
		})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to activate due ads: %w", result.Error)
	}
	return result.RowsAffected, nil
}

func (r *adRepository) ExpirePast(ctx context.Context, today models.Date) (int64, error) {
	result := r.getDB(ctx).Model(&models.Ad{}).
		Where("status IN ? AND end_date < ?", models.ReservedStatuses, today).
		Updates(map[string]interface{}{
			"status":     models.AdStatusExpired,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to expire ads: %w", result.Error)
	}
	return result.RowsAffected, nil
}

func (r *adRepository) WithSlotLock(ctx context.Context, keys []models.InventoryKey, fn func(ctx context.Context) error) error {
	names := lockNames(keys)

	run := func(tx *gorm.DB) error {
		for _, name := range names {
			if err := tx.Exec("SELECT pg_advisory_xact_lock(hashtext(?))", name).Error; err != nil {
				return fmt.Errorf("failed to lock slot %s: %w", name, err)
			}
		}
		return fn(context.WithValue(ctx, TxContextKey, tx))
	}

	if inTransaction(ctx) {
		return run(r.getDB(ctx))
	}
	return r.db.WithContext(ctx).Transaction(run)
}

// lockNames dedupes and sorts keys so concurrent callers lock in the same order.
func lockNames(keys []models.InventoryKey) []string {
	seen := make(map[string]struct{}, len(keys))
	names := make([]string, 0, len(keys))
	for _, key := range keys {
		name := "ads-slot:" + key.String()
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
