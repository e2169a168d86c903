// internal/models/ad_pricing.go
package models

import (
	"github.com/shopspring/decimal"
)

type AdPricing struct {
	BaseModel
	AdType      AdType          `json:"ad_type" gorm:"type:varchar(20);not null;index"`
	Rank        *int            `json:"rank" gorm:"type:smallint"`
	PricePerDay decimal.Decimal `json:"price_per_day" gorm:"type:decimal(10,2);not null"`
}

func (AdPricing) TableName() string {
	return "ad_pricing"
}
