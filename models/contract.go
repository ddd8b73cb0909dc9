package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CopayType distinguishes fixed-amount copays from percentage copays.
type CopayType string

const (
	CopayTypeFixed   CopayType = "FIXED"
	CopayTypePercent CopayType = "PERCENT"
)

// Valid checks if the copay type is valid
func (t CopayType) Valid() bool {
	return t == CopayTypeFixed || t == CopayTypePercent
}

// DiscountSchedule is a contract-level discount with a validity period,
// stored as a jsonb column.
type DiscountSchedule struct {
	DiscountID uint            `json:"discount_id"`
	Percentage decimal.Decimal `json:"percentage"` // e.g. 10 = 10%
	PeriodFrom time.Time       `json:"period_from"`
	PeriodTo   time.Time       `json:"period_to"`
	Unit       string          `json:"unit"` // e.g. "visit", "case", "year"
}

// Value implements the driver.Valuer interface for DiscountSchedule
func (d DiscountSchedule) Value() (driver.Value, error) {
	return json.Marshal(d)
}

// Scan implements the sql.Scanner interface for DiscountSchedule
func (d *DiscountSchedule) Scan(value any) error {
	if value == nil {
		*d = DiscountSchedule{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into DiscountSchedule", value)
	}

	return json.Unmarshal(bytes, d)
}

// ActiveAt reports whether the discount period contains t (inclusive).
func (d *DiscountSchedule) ActiveAt(t time.Time) bool {
	return !t.Before(d.PeriodFrom) && !t.After(d.PeriodTo)
}

// Contract holds the contract-specific pricing overrides layered on top of
// standard pricing: price list substitution, discount schedule, deductible
// and copay overrides, and informational caps. Owned by the contract
// administration; read-only input to the calculation engine.
// Table: contracts
type Contract struct {
	ID                  uint              `gorm:"primaryKey" json:"id"`
	UUID                uuid.UUID         `gorm:"type:uuid;not null;uniqueIndex:uk_contracts_uuid" json:"uuid"`
	Code                string            `gorm:"size:50;not null;uniqueIndex:uk_contracts_code" json:"code"`
	NameEn              string            `gorm:"size:255;not null" json:"name_en"`
	OverridePriceListID *uint             `json:"override_price_list_id,omitempty"`
	Discount            *DiscountSchedule `gorm:"type:jsonb" json:"discount,omitempty"`
	DeductibleOverride  *decimal.Decimal  `gorm:"type:numeric(14,2)" json:"deductible_override,omitempty"`
	CopayOverride       *decimal.Decimal  `gorm:"type:numeric(14,2)" json:"copay_override,omitempty"`
	CopayType           *CopayType        `gorm:"type:copay_type" json:"copay_type,omitempty"`
	AnnualCap           *decimal.Decimal  `gorm:"type:numeric(14,2)" json:"annual_cap,omitempty"`
	MonthlyCap          *decimal.Decimal  `gorm:"type:numeric(14,2)" json:"monthly_cap,omitempty"`
	PerCaseCap          *decimal.Decimal  `gorm:"type:numeric(14,2)" json:"per_case_cap,omitempty"`
	IsActive            *bool             `gorm:"not null;default:true" json:"is_active"`
	CreatedAt           time.Time         `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"created_at"`
	UpdatedAt           time.Time         `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`

	// Relations
	OverridePriceList *PriceList `gorm:"foreignKey:OverridePriceListID;references:ID" json:"override_price_list,omitempty"`
}

// TableName returns the table name for the model
func (Contract) TableName() string {
	return "contracts"
}

// BeforeCreate is called before creating a new record
func (c *Contract) BeforeCreate(tx *gorm.DB) error {
	if c.UUID == uuid.Nil {
		c.UUID = uuid.New()
	}
	return nil
}

// ContractFilter represents filter criteria for contracts
type ContractFilter struct {
	Code     *string `json:"code,omitempty"`
	IsActive *bool   `json:"is_active,omitempty"`
}
