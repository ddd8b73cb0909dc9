package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PointRate is the currency value of one pricing point for a given insurance
// degree within an effective window. Used only by POINTS-method rules.
// Table: point_rates
type PointRate struct {
	ID                uint            `gorm:"primaryKey" json:"id"`
	InsuranceDegreeID uint            `gorm:"not null;index:idx_point_rates_degree" json:"insurance_degree_id"`
	PointPrice        decimal.Decimal `gorm:"type:numeric(14,4);not null" json:"point_price"`
	EffectiveFrom     time.Time       `gorm:"not null;index:idx_point_rates_effective_from" json:"effective_from"`
	EffectiveTo       *time.Time      `json:"effective_to,omitempty"` // nil = open-ended
	CreatedAt         time.Time       `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"created_at"`
	UpdatedAt         time.Time       `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`

	// Relations
	InsuranceDegree *InsuranceDegree `gorm:"foreignKey:InsuranceDegreeID;references:ID" json:"insurance_degree,omitempty"`
}

// TableName returns the table name for the model
func (PointRate) TableName() string {
	return "point_rates"
}

// ValidAt reports whether the rate's effective window contains t (inclusive).
func (r *PointRate) ValidAt(t time.Time) bool {
	if t.Before(r.EffectiveFrom) {
		return false
	}
	if r.EffectiveTo != nil && t.After(*r.EffectiveTo) {
		return false
	}
	return true
}

// PointRateFilter represents filter criteria for point rates
type PointRateFilter struct {
	InsuranceDegreeID *uint      `json:"insurance_degree_id,omitempty"`
	ValidAt           *time.Time `json:"valid_at,omitempty"`
}
