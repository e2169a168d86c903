// internal/models/common.go
package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func init() {
	// Prices are rendered as JSON numbers
	decimal.MarshalJSONWithoutQuotes = true
}

// Base model with common fields
type BaseModel struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// JSONB type for PostgreSQL
type JSONB map[string]interface{}

func (j JSONB) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

func (j *JSONB) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return nil
	}

	return json.Unmarshal(bytes, j)
}

// Enums
type AdType string

const (
	AdTypeAppBanner     AdType = "APP_BANNER"
	AdTypeWebsiteBanner AdType = "WEBSITE_BANNER"
	AdTypeClubListing   AdType = "CLUB_LISTING"
)

var AdTypes = []AdType{AdTypeAppBanner, AdTypeWebsiteBanner, AdTypeClubListing}

func (t AdType) Valid() bool {
	switch t {
	case AdTypeAppBanner, AdTypeWebsiteBanner, AdTypeClubListing:
		return true
	}
	return false
}

// HasListingPosition reports whether the inventory of this type is split by rank.
func (t AdType) HasListingPosition() bool {
	return t == AdTypeClubListing
}

type AdStatus string

const (
	AdStatusDraft           AdStatus = "DRAFT"
	AdStatusPendingApproval AdStatus = "PENDING_APPROVAL"
	AdStatusApproved        AdStatus = "APPROVED"
	AdStatusActive          AdStatus = "ACTIVE"
	AdStatusExpired         AdStatus = "EXPIRED"
	AdStatusRejected        AdStatus = "REJECTED"
)

// ReservedStatuses hold inventory; no two ads in these statuses may overlap on the same key.
var ReservedStatuses = []AdStatus{AdStatusApproved, AdStatusActive}

func (s AdStatus) Valid() bool {
	switch s {
	case AdStatusDraft, AdStatusPendingApproval, AdStatusApproved,
		AdStatusActive, AdStatusExpired, AdStatusRejected:
		return true
	}
	return false
}

func (s AdStatus) IsReserved() bool {
	return s == AdStatusApproved || s == AdStatusActive
}

type PaymentMethod string

const (
	PaymentMethodCard PaymentMethod = "CARD"
	PaymentMethodCash PaymentMethod = "CASH"
)

func (p PaymentMethod) Valid() bool {
	return p == PaymentMethodCard || p == PaymentMethodCash
}

type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "PENDING"
	PaymentStatusPaid    PaymentStatus = "PAID"
)

func (p PaymentStatus) Valid() bool {
	return p == PaymentStatusPending || p == PaymentStatusPaid
}

type MediaType string

const (
	MediaTypeImage MediaType = "IMAGE"
	MediaTypeVideo MediaType = "VIDEO"
)
