// internal/repository/repotest/memory.go

// Package repotest provides in-memory repositories for tests.
package repotest

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/clubhub/ads-backend/internal/models"
	"github.com/clubhub/ads-backend/internal/repository"
)

type lockedKey struct{}

// AdRepository is a goroutine-safe in-memory repository.AdRepository. It
// enforces the reserved-slot exclusivity the Postgres exclusion constraint
// provides, so racing writers see repository.ErrSlotTaken.
type AdRepository struct {
	mu     sync.RWMutex
	slotMu sync.Mutex
	ads    map[uuid.UUID]*models.Ad
	assets map[uuid.UUID]models.AdAsset

	// Optional failure injection.
	PromoteErr error
	ExpireErr  error
}

var _ repository.AdRepository = (*AdRepository)(nil)

func NewAdRepository() *AdRepository {
	return &AdRepository{
		ads:    make(map[uuid.UUID]*models.Ad),
		assets: make(map[uuid.UUID]models.AdAsset),
	}
}

// Put stores ad as-is, assigning an ID when missing. It bypasses all checks.
func (r *AdRepository) Put(ad *models.Ad) *models.Ad {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.store(ad)
	return cloneAd(ad)
}

func (r *AdRepository) store(ad *models.Ad) {
	if ad.ID == uuid.Nil {
		ad.ID = uuid.New()
	}
	now := time.Now()
	if ad.CreatedAt.IsZero() {
		ad.CreatedAt = now
	}
	ad.UpdatedAt = now
	if ad.Status == "" {
		ad.Status = models.AdStatusDraft
	}
	if ad.PaymentStatus == "" {
		ad.PaymentStatus = models.PaymentStatusPending
	}
	for i := range ad.Assets {
		if ad.Assets[i].ID == uuid.Nil {
			ad.Assets[i].ID = uuid.New()
		}
		ad.Assets[i].AdID = ad.ID
		ad.Assets[i].CreatedAt = now
		ad.Assets[i].UpdatedAt = now
		r.assets[ad.Assets[i].ID] = ad.Assets[i]
	}
	r.ads[ad.ID] = cloneAd(ad)
}

func (r *AdRepository) Create(ctx context.Context, ad *models.Ad) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if ad.Status.IsReserved() && r.conflictLocked(ad.InventoryKey(), ad.Window(), &ad.ID) != nil {
		return repository.ErrSlotTaken
	}
	r.store(ad)
	return nil
}

func (r *AdRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Ad, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ad, ok := r.ads[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return cloneAd(ad), nil
}

func (r *AdRepository) Update(ctx context.Context, ad *models.Ad, expected models.AdStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.ads[ad.ID]
	if !ok {
		return repository.ErrNotFound
	}
	if current.Status != expected {
		return repository.ErrStaleStatus
	}
	if ad.Status.IsReserved() && r.conflictLocked(ad.InventoryKey(), ad.Window(), &ad.ID) != nil {
		return repository.ErrSlotTaken
	}

	updated := cloneAd(ad)
	updated.AdType = current.AdType
	updated.ClubID = current.ClubID
	updated.CreatedAt = current.CreatedAt
	updated.Assets = current.Assets
	updated.UpdatedAt = time.Now()
	r.ads[ad.ID] = updated
	return nil
}

func (r *AdRepository) FindConflicting(ctx context.Context, q repository.SlotQuery) (*models.Ad, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if ad := r.conflictLocked(q.Key, q.Window, q.ExcludeID); ad != nil {
		return cloneAd(ad), nil
	}
	return nil, nil
}

func (r *AdRepository) conflictLocked(key models.InventoryKey, window models.Window, exclude *uuid.UUID) *models.Ad {
	var found *models.Ad
	for _, ad := range r.ads {
		if exclude != nil && ad.ID == *exclude {
			continue
		}
		if !ad.Status.IsReserved() || ad.InventoryKey() != key || !ad.Window().Overlaps(window) {
			continue
		}
		if found == nil || ad.StartDate.Before(found.StartDate) {
			found = ad
		}
	}
	return found
}

func (r *AdRepository) ListByStatusAndWindow(ctx context.Context, q repository.WindowQuery) ([]*models.Ad, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*models.Ad
	for _, ad := range r.ads {
		if len(q.Statuses) > 0 && !containsStatus(q.Statuses, ad.Status) {
			continue
		}
		if q.AdType != "" && ad.AdType != q.AdType {
			continue
		}
		if !q.Window.End.IsZero() && ad.StartDate.After(q.Window.End) {
			continue
		}
		if !q.Window.Start.IsZero() && ad.EndDate.Before(q.Window.Start) {
			continue
		}
		out = append(out, cloneAd(ad))
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.AdType != b.AdType {
			return a.AdType < b.AdType
		}
		if pa, pb := position(a), position(b); pa != pb {
			return pa < pb
		}
		return a.StartDate.Before(b.StartDate)
	})
	return out, nil
}

func (r *AdRepository) List(ctx context.Context, f repository.AdFilter) ([]*models.Ad, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []*models.Ad
	for _, ad := range r.ads {
		if f.ClubID != nil && (ad.ClubID == nil || *ad.ClubID != *f.ClubID) {
			continue
		}
		if f.ClientID != nil && (ad.ClientID == nil || *ad.ClientID != *f.ClientID) {
			continue
		}
		if f.AdType != nil && ad.AdType != *f.AdType {
			continue
		}
		if f.Branchname != nil && (ad.Branchname == nil || *ad.Branchname != *f.Branchname) {
			continue
		}
		if f.Status != nil && ad.Status != *f.Status {
			continue
		}
		if f.StartDateFrom != nil && ad.StartDate.Before(*f.StartDateFrom) {
			continue
		}
		if f.StartDateTo != nil && ad.StartDate.After(*f.StartDateTo) {
			continue
		}
		matched = append(matched, ad)
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := int64(len(matched))
	start := f.Offset
	if start > len(matched) {
		start = len(matched)
	}
	end := len(matched)
	if f.Limit > 0 && start+f.Limit < end {
		end = start + f.Limit
	}

	out := make([]*models.Ad, 0, end-start)
	for _, ad := range matched[start:end] {
		out = append(out, cloneAd(ad))
	}
	return out, total, nil
}

func (r *AdRepository) GetAsset(ctx context.Context, id uuid.UUID) (*models.AdAsset, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	asset, ok := r.assets[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &asset, nil
}

func (r *AdRepository) PromoteDue(ctx context.Context, today models.Date) (int64, error) {
	if r.PromoteErr != nil {
		return 0, r.PromoteErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int64
	now := time.Now()
	for _, ad := range r.ads {
		if ad.Status == models.AdStatusApproved && ad.Window().Contains(today) {
			ad.Status = models.AdStatusActive
			if ad.ActivatedAt == nil {
				ad.ActivatedAt = &now
			}
			ad.UpdatedAt = now
			n++
		}
	}
	return n, nil
}

func (r *AdRepository) ExpirePast(ctx context.Context, today models.Date) (int64, error) {
	if r.ExpireErr != nil {
		return 0, r.ExpireErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int64
	for _, ad := range r.ads {
		if ad.Status.IsReserved() && ad.EndDate.Before(today) {
			ad.Status = models.AdStatusExpired
			ad.UpdatedAt = time.Now()
			n++
		}
	}
	return n, nil
}

// WithSlotLock serializes all slot-locked sections behind one mutex.
func (r *AdRepository) WithSlotLock(ctx context.Context, keys []models.InventoryKey, fn func(ctx context.Context) error) error {
	if ctx.Value(lockedKey{}) != nil {
		return fn(ctx)
	}
	r.slotMu.Lock()
	defer r.slotMu.Unlock()
	return fn(context.WithValue(ctx, lockedKey{}, true))
}

// Count returns how many stored ads are in status.
func (r *AdRepository) Count(status models.AdStatus) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n := 0
	for _, ad := range r.ads {
		if ad.Status == status {
			n++
		}
	}
	return n
}

func containsStatus(list []models.AdStatus, s models.AdStatus) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func position(ad *models.Ad) int {
	if ad.ListingPosition == nil {
		return 0
	}
	return *ad.ListingPosition
}

func cloneAd(ad *models.Ad) *models.Ad {
	c := *ad
	c.ClubID = cloneInt64(ad.ClubID)
	c.ClientID = cloneInt64(ad.ClientID)
	c.ListingPosition = cloneInt(ad.ListingPosition)
	c.Branchname = cloneString(ad.Branchname)
	c.RejectionReason = cloneString(ad.RejectionReason)
	c.ApprovedBy = cloneString(ad.ApprovedBy)
	if ad.Assets != nil {
		c.Assets = append([]models.AdAsset(nil), ad.Assets...)
	}
	return &c
}

func cloneInt(v *int) *int {
	if v == nil {
		return nil
	}
	out := *v
	return &out
}

func cloneInt64(v *int64) *int64 {
	if v == nil {
		return nil
	}
	out := *v
	return &out
}

func cloneString(v *string) *string {
	if v == nil {
		return nil
	}
	out := *v
	return &out
}

// PricingRepository is an in-memory repository.PricingRepository.
type PricingRepository struct {
	mu   sync.Mutex
	rows []models.AdPricing
}

var _ repository.PricingRepository = (*PricingRepository)(nil)

func NewPricingRepository() *PricingRepository {
	return &PricingRepository{}
}

func (r *PricingRepository) List(ctx context.Context) ([]models.AdPricing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.AdPricing(nil), r.rows...), nil
}

func (r *PricingRepository) Upsert(ctx context.Context, adType models.AdType, rank *int, price decimal.Decimal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, row := range r.rows {
		if row.AdType != adType {
			continue
		}
		if (row.Rank == nil && rank == nil) || (row.Rank != nil && rank != nil && *row.Rank == *rank) {
			r.rows[i].PricePerDay = price
			r.rows[i].UpdatedAt = time.Now()
			return nil
		}
	}
	r.rows = append(r.rows, models.AdPricing{
		BaseModel:   models.BaseModel{ID: uuid.New(), CreatedAt: time.Now(), UpdatedAt: time.Now()},
		AdType:      adType,
		Rank:        cloneInt(rank),
		PricePerDay: price,
	})
	return nil
}

// AuditLogRepository records entries in memory.
type AuditLogRepository struct {
	mu      sync.Mutex
	Entries []models.AuditLog
}

func (r *AuditLogRepository) Create(ctx context.Context, entry *models.AuditLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Entries = append(r.Entries, *entry)
	return nil
}

func (r *AuditLogRepository) Snapshot() []models.AuditLog {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.AuditLog(nil), r.Entries...)
}
