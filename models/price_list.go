package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PriceList identifies a catalog of procedure prices. Referenced, not owned,
// by the calculation engine.
// Table: price_lists
type PriceList struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UUID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uk_price_lists_uuid" json:"uuid"`
	Code      string    `gorm:"size:50;not null;uniqueIndex:uk_price_lists_code" json:"code"`
	NameEn    string    `gorm:"size:255;not null" json:"name_en"`
	IsActive  *bool     `gorm:"not null;default:true" json:"is_active"`
	CreatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`
}

// TableName returns the table name for the model
func (PriceList) TableName() string {
	return "price_lists"
}

// BeforeCreate is called before creating a new record
func (p *PriceList) BeforeCreate(tx *gorm.DB) error {
	if p.UUID == uuid.Nil {
		p.UUID = uuid.New()
	}
	return nil
}

// PriceListFilter represents filter criteria for price lists
type PriceListFilter struct {
	Code     *string `json:"code,omitempty"`
	IsActive *bool   `json:"is_active,omitempty"`
}
