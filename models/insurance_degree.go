package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// InsuranceDegree represents a coverage tier (e.g. VIP, Standard) used to
// select point rates and rule eligibility.
// Table: insurance_degrees
type InsuranceDegree struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UUID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uk_insurance_degrees_uuid" json:"uuid"`
	Code      string    `gorm:"size:50;not null;uniqueIndex:uk_insurance_degrees_code" json:"code"`
	NameEn    string    `gorm:"size:255;not null" json:"name_en"`
	IsActive  *bool     `gorm:"not null;default:true" json:"is_active"`
	CreatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`
}

// TableName returns the table name for the model
func (InsuranceDegree) TableName() string {
	return "insurance_degrees"
}

// BeforeCreate is called before creating a new record
func (d *InsuranceDegree) BeforeCreate(tx *gorm.DB) error {
	if d.UUID == uuid.Nil {
		d.UUID = uuid.New()
	}
	return nil
}

// InsuranceDegreeFilter represents filter criteria for insurance degrees
type InsuranceDegreeFilter struct {
	Code     *string `json:"code,omitempty"`
	IsActive *bool   `json:"is_active,omitempty"`
}
