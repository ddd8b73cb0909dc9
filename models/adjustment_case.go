package models

import (
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// AdjustmentType distinguishes fixed-amount deltas from percentage
// adjustments of the running amount.
type AdjustmentType string

const (
	AdjustmentTypeFixed   AdjustmentType = "FIXED"
	AdjustmentTypePercent AdjustmentType = "PERCENT"
)

// String returns the string representation of the adjustment type
func (t AdjustmentType) String() string {
	return string(t)
}

// Valid checks if the adjustment type is valid
func (t AdjustmentType) Valid() bool {
	return t == AdjustmentTypeFixed || t == AdjustmentTypePercent
}

// Scan implements the sql.Scanner interface for AdjustmentType
func (t *AdjustmentType) Scan(value any) error {
	if value == nil {
		*t = ""
		return nil
	}

	switch v := value.(type) {
	case string:
		*t = AdjustmentType(v)
	case []byte:
		*t = AdjustmentType(string(v))
	default:
		return fmt.Errorf("cannot scan %T into AdjustmentType", value)
	}

	return nil
}

// Value implements the driver.Valuer interface for AdjustmentType
func (t AdjustmentType) Value() (driver.Value, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("invalid AdjustmentType: %s", t)
	}
	return string(t), nil
}

// AdjustmentCase is a conditional surcharge or discount applied after base
// price computation. Cases are evaluated in Position order; first-defined,
// first-evaluated, and multiple matching cases compose sequentially.
// Table: adjustment_cases
type AdjustmentCase struct {
	ID             uint            `gorm:"primaryKey" json:"id"`
	NameEn         string          `gorm:"size:255;not null" json:"name_en"`
	MatchCondition RuleConditions  `gorm:"type:jsonb;not null;default:'[]'" json:"match_condition"`
	AdjustmentType AdjustmentType  `gorm:"type:adjustment_type;not null" json:"adjustment_type"`
	Amount         decimal.Decimal `gorm:"type:numeric(14,4);not null" json:"amount"` // delta for FIXED, percent for PERCENT
	Position       int             `gorm:"not null;index:idx_adjustment_cases_position" json:"position"`
	IsActive       *bool           `gorm:"not null;default:true" json:"is_active"`
	CreatedAt      time.Time       `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"created_at"`
	UpdatedAt      time.Time       `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`
}

// TableName returns the table name for the model
func (AdjustmentCase) TableName() string {
	return "adjustment_cases"
}

// AdjustmentCaseFilter represents filter criteria for adjustment cases
type AdjustmentCaseFilter struct {
	AdjustmentType *AdjustmentType `json:"adjustment_type,omitempty"`
	IsActive       *bool           `json:"is_active,omitempty"`
}
