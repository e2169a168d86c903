// internal/models/ad.go
package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

const (
	MinListingPosition = 1
	MaxListingPosition = 5
)

type Ad struct {
	BaseModel
	ClubID          *int64          `json:"club_id,omitempty" gorm:"index"`
	ClientID        *int64          `json:"client_id,omitempty" gorm:"index"`
	AdName          string          `json:"ad_name" gorm:"type:varchar(255);not null"`
	Branchname      *string         `json:"branchname,omitempty" gorm:"type:varchar(255)"`
	AdType          AdType          `json:"ad_type" gorm:"type:varchar(20);not null;index"`
	ListingPosition *int            `json:"listing_position" gorm:"type:smallint"`
	StartDate       Date            `json:"start_date" gorm:"type:date;not null"`
	DurationDays    int             `json:"duration_days" gorm:"not null"`
	EndDate         Date            `json:"end_date" gorm:"type:date;not null"`
	PricePerDay     decimal.Decimal `json:"price_per_day" gorm:"type:decimal(10,2);not null"`
	TotalBudget     decimal.Decimal `json:"total_budget" gorm:"type:decimal(10,2);not null"`
	PaymentMethod   PaymentMethod   `json:"payment_method" gorm:"type:varchar(10);not null"`
	PaymentStatus   PaymentStatus   `json:"payment_status" gorm:"type:varchar(10);default:'PENDING'"`
	Status          AdStatus        `json:"status" gorm:"type:varchar(20);default:'DRAFT';index"`
	RejectionReason *string         `json:"rejection_reason,omitempty" gorm:"type:text"`
	ApprovedAt      *time.Time      `json:"approved_at,omitempty"`
	ApprovedBy      *string         `json:"approved_by,omitempty" gorm:"type:varchar(64)"`
	ActivatedAt     *time.Time      `json:"activated_at,omitempty"`

	// Relationships
	Assets []AdAsset `json:"assets" gorm:"foreignKey:AdID;constraint:OnDelete:CASCADE"`
}

func (Ad) TableName() string {
	return "ads"
}

// ComputeEndDate derives end_date; it must be called whenever start_date or
// duration_days changes.
func ComputeEndDate(start Date, durationDays int) Date {
	return start.AddDays(durationDays)
}

// ComputeBudget derives total_budget; it must be called whenever
// price_per_day or duration_days changes.
func ComputeBudget(pricePerDay decimal.Decimal, durationDays int) decimal.Decimal {
	return pricePerDay.Mul(decimal.NewFromInt(int64(durationDays))).Round(2)
}

// RecomputeDerived refreshes end_date and total_budget from their inputs.
func (a *Ad) RecomputeDerived() {
	a.EndDate = ComputeEndDate(a.StartDate, a.DurationDays)
	a.TotalBudget = ComputeBudget(a.PricePerDay, a.DurationDays)
}

func (a *Ad) Window() Window {
	return Window{Start: a.StartDate, End: a.EndDate}
}

func (a *Ad) InventoryKey() InventoryKey {
	return NewInventoryKey(a.AdType, a.ListingPosition)
}

// InventoryKey identifies one exclusive slot. Banner types have a single
// slot each; club listings have one slot per rank.
type InventoryKey struct {
	AdType          AdType
	ListingPosition int
}

func NewInventoryKey(adType AdType, listingPosition *int) InventoryKey {
	key := InventoryKey{AdType: adType}
	if adType.HasListingPosition() && listingPosition != nil {
		key.ListingPosition = *listingPosition
	}
	return key
}

// Position returns the rank for club listings and nil for banners.
func (k InventoryKey) Position() *int {
	if !k.AdType.HasListingPosition() {
		return nil
	}
	pos := k.ListingPosition
	return &pos
}

func (k InventoryKey) String() string {
	if k.AdType.HasListingPosition() {
		return fmt.Sprintf("%s#%d", k.AdType, k.ListingPosition)
	}
	return string(k.AdType)
}
