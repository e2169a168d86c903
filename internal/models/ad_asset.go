// internal/models/ad_asset.go
package models

import (
	"github.com/google/uuid"
)

type AdAsset struct {
	BaseModel
	AdID       uuid.UUID `json:"ad_id" gorm:"type:uuid;not null;index"`
	MediaType  MediaType `json:"media_type" gorm:"type:varchar(10);not null;default:'IMAGE'"`
	FileURL    string    `json:"file_url" gorm:"type:text;not null"`
	StorageKey string    `json:"-" gorm:"type:text"`
	Width      *int      `json:"width"`
	Height     *int      `json:"height"`
}

func (AdAsset) TableName() string {
	return "ad_assets"
}
