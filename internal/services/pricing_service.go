// internal/services/pricing_service.go
package services

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/clubhub/ads-backend/internal/models"
	"github.com/clubhub/ads-backend/internal/repository"
)

// ClubListingPricing holds one daily price per listing rank.
type ClubListingPricing struct {
	Rank1 *decimal.Decimal `json:"rank1"`
	Rank2 *decimal.Decimal `json:"rank2"`
	Rank3 *decimal.Decimal `json:"rank3"`
	Rank4 *decimal.Decimal `json:"rank4"`
	Rank5 *decimal.Decimal `json:"rank5"`
}

func (p *ClubListingPricing) ranks() []**decimal.Decimal {
	return []**decimal.Decimal{&p.Rank1, &p.Rank2, &p.Rank3, &p.Rank4, &p.Rank5}
}

// PricingTable is the rate card. Unset prices are null.
type PricingTable struct {
	AppBanner     *decimal.Decimal   `json:"app_banner"`
	WebsiteBanner *decimal.Decimal   `json:"website_banner"`
	ClubListing   ClubListingPricing `json:"club_listing"`
}

type PricingService struct {
	repo repository.PricingRepository
}

func NewPricingService(repo repository.PricingRepository) *PricingService {
	return &PricingService{repo: repo}
}

func (s *PricingService) GetPricing(ctx context.Context) (*PricingTable, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	table := &PricingTable{}
	ranks := table.ClubListing.ranks()
	for _, row := range rows {
		price := row.PricePerDay
		switch row.AdType {
		case models.AdTypeAppBanner:
			table.AppBanner = &price
		case models.AdTypeWebsiteBanner:
			table.WebsiteBanner = &price
		case models.AdTypeClubListing:
			if row.Rank != nil && *row.Rank >= models.MinListingPosition && *row.Rank <= models.MaxListingPosition {
				*ranks[*row.Rank-1] = &price
			}
		}
	}
	return table, nil
}

// UpdatePricing upserts every price present in req and leaves the rest.
func (s *PricingService) UpdatePricing(ctx context.Context, req *PricingTable) (*PricingTable, error) {
	type entry struct {
		adType models.AdType
		rank   *int
		price  *decimal.Decimal
		field  string
	}

	entries := []entry{
		{adType: models.AdTypeAppBanner, price: req.AppBanner, field: "app_banner"},
		{adType: models.AdTypeWebsiteBanner, price: req.WebsiteBanner, field: "website_banner"},
	}
	for i, p := range req.ClubListing.ranks() {
		rank := i + 1
		entries = append(entries, entry{
			adType: models.AdTypeClubListing,
			rank:   &rank,
			price:  *p,
			field:  fmt.Sprintf("club_listing.rank%d", rank),
		})
	}

	updated := 0
	for _, e := range entries {
		if e.price == nil {
			continue
		}
		if e.price.IsNegative() {
			return nil, newValidationError(e.field, "%s must not be negative", e.field)
		}
	}
	for _, e := range entries {
		if e.price == nil {
			continue
		}
		if err := s.repo.Upsert(ctx, e.adType, e.rank, e.price.Round(2)); err != nil {
			return nil, err
		}
		updated++
	}

	logrus.WithField("prices", updated).Info("Ad pricing updated")
	return s.GetPricing(ctx)
}
