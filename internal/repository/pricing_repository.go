// internal/repository/pricing_repository.go
package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/clubhub/ads-backend/internal/models"
)

type PricingRepository interface {
	List(ctx context.Context) ([]models.AdPricing, error)
	// Upsert sets the daily price for an ad type, and for club listings a rank.
	Upsert(ctx context.Context, adType models.AdType, rank *int, price decimal.Decimal) error
}

type pricingRepository struct {
	baseRepository
}

func NewPricingRepository(db *gorm.DB) PricingRepository {
	return &pricingRepository{baseRepository{db: db}}
}

func (r *pricingRepository) List(ctx context.Context) ([]models.AdPricing, error) {
	var rows []models.AdPricing
	if err := r.getDB(ctx).Order("ad_type ASC, rank ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list pricing: %w", err)
	}
	return rows, nil
}

func (r *pricingRepository) Upsert(ctx context.Context, adType models.AdType, rank *int, price decimal.Decimal) error {
	return r.getDB(ctx).Transaction(func(tx *gorm.DB) error {
		query := tx.Where("ad_type = ?", adType)
		if rank == nil {
			query = query.Where("rank IS NULL")
		} else {
			query = query.Where("rank = ?", *rank)
		}

		var existing models.AdPricing
		err := query.First(&existing).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			row := &models.AdPricing{AdType: adType, Rank: rank, PricePerDay: price}
			if err := tx.Create(row).Error; err != nil {
				return fmt.Errorf("failed to create pricing: %w", err)
			}
			return nil
		case err != nil:
			return fmt.Errorf("database error: %w", err)
		}

		if err := tx.Model(&existing).Update("price_per_day", price).Error; err != nil {
			return fmt.Errorf("failed to update pricing: %w", err)
		}
		return nil
	})
}
