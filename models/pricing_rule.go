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

// PricingMethod represents how a rule computes its base price.
type PricingMethod string

const (
	PricingMethodFixed      PricingMethod = "FIXED"
	PricingMethodPoints     PricingMethod = "POINTS"
	PricingMethodRange      PricingMethod = "RANGE"
	PricingMethodPercentage PricingMethod = "PERCENTAGE"
)

// String returns the string representation of the pricing method
func (m PricingMethod) String() string {
	return string(m)
}

// Valid checks if the pricing method is valid
func (m PricingMethod) Valid() bool {
	switch m {
	case PricingMethodFixed, PricingMethodPoints, PricingMethodRange, PricingMethodPercentage:
		return true
	default:
		return false
	}
}

// Scan implements the sql.Scanner interface for PricingMethod
func (m *PricingMethod) Scan(value any) error {
	if value == nil {
		*m = ""
		return nil
	}

	switch v := value.(type) {
	case string:
		*m = PricingMethod(v)
	case []byte:
		*m = PricingMethod(string(v))
	default:
		return fmt.Errorf("cannot scan %T into PricingMethod", value)
	}

	return nil
}

// Value implements the driver.Valuer interface for PricingMethod
func (m PricingMethod) Value() (driver.Value, error) {
	if !m.Valid() {
		return nil, fmt.Errorf("invalid PricingMethod: %s", m)
	}
	return string(m), nil
}

// ConditionOperator is the comparison operator of a rule condition.
type ConditionOperator string

const (
	OperatorEquals       ConditionOperator = "eq"
	OperatorNotEquals    ConditionOperator = "neq"
	OperatorGreaterThan  ConditionOperator = "gt"
	OperatorGreaterEqual ConditionOperator = "gte"
	OperatorLessThan     ConditionOperator = "lt"
	OperatorLessEqual    ConditionOperator = "lte"
	OperatorIn           ConditionOperator = "in"
)

// Valid checks if the operator is valid
func (o ConditionOperator) Valid() bool {
	switch o {
	case OperatorEquals, OperatorNotEquals, OperatorGreaterThan,
		OperatorGreaterEqual, OperatorLessThan, OperatorLessEqual, OperatorIn:
		return true
	default:
		return false
	}
}

// IsOrdering reports whether the operator needs a numeric or date ordering.
func (o ConditionOperator) IsOrdering() bool {
	switch o {
	case OperatorGreaterThan, OperatorGreaterEqual, OperatorLessThan, OperatorLessEqual:
		return true
	default:
		return false
	}
}

// RuleCondition is a single (factorKey, operator, expectedValue) predicate.
// For the "in" operator ExpectedValue is a comma-separated membership list.
type RuleCondition struct {
	FactorKey     string            `json:"factor_key"`
	Operator      ConditionOperator `json:"operator"`
	ExpectedValue string            `json:"expected_value"`
}

// RuleConditions is the ordered condition list of a rule, stored as jsonb.
// Definition order is significant and must be preserved.
type RuleConditions []RuleCondition

// Value implements the driver.Valuer interface for RuleConditions
func (c RuleConditions) Value() (driver.Value, error) {
	if c == nil {
		return json.Marshal([]RuleCondition{})
	}
	return json.Marshal(c)
}

// Scan implements the sql.Scanner interface for RuleConditions
func (c *RuleConditions) Scan(value any) error {
	if value == nil {
		*c = nil
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into RuleConditions", value)
	}

	return json.Unmarshal(bytes, c)
}

// PricingRule maps a procedure/price-list/insurance-degree/date combination
// plus factor conditions to a pricing method and coverage decision. Reference
// data created by administrators; the engine only reads it.
// Table: pricing_rules
type PricingRule struct {
	ID                uint           `gorm:"primaryKey" json:"id"`
	UUID              uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:uk_pricing_rules_uuid" json:"uuid"`
	ProcedureID       uint           `gorm:"not null;index:idx_pricing_rules_procedure" json:"procedure_id"`
	PriceListID       *uint          `gorm:"index:idx_pricing_rules_price_list" json:"price_list_id,omitempty"`         // nil = any price list
	InsuranceDegreeID *uint          `gorm:"index:idx_pricing_rules_insurance_degree" json:"insurance_degree_id,omitempty"` // nil = wildcard
	Conditions        RuleConditions `gorm:"type:jsonb;not null;default:'[]'" json:"conditions"`
	PricingMethod     PricingMethod  `gorm:"type:pricing_method;not null" json:"pricing_method"`

	// Method-specific parameters
	FixedAmount     *decimal.Decimal `gorm:"type:numeric(14,2)" json:"fixed_amount,omitempty"`     // FIXED
	PointMultiplier *decimal.Decimal `gorm:"type:numeric(14,4)" json:"point_multiplier,omitempty"` // POINTS
	MinPrice        *decimal.Decimal `gorm:"type:numeric(14,2)" json:"min_price,omitempty"`        // RANGE
	MaxPrice        *decimal.Decimal `gorm:"type:numeric(14,2)" json:"max_price,omitempty"`        // RANGE
	NominalAmount   *decimal.Decimal `gorm:"type:numeric(14,2)" json:"nominal_amount,omitempty"`   // RANGE default amount to clamp
	PercentageRate  *decimal.Decimal `gorm:"type:numeric(7,4)" json:"percentage_rate,omitempty"`   // PERCENTAGE, e.g. 0.8000 = 80%
	ReferenceKind   *string          `gorm:"size:50" json:"reference_kind,omitempty"`              // PERCENTAGE reference field name

	Deductible *decimal.Decimal `gorm:"type:numeric(14,2)" json:"deductible,omitempty"` // default, overridable by contract

	Priority      int        `gorm:"not null;default:0;index:idx_pricing_rules_priority" json:"priority"`
	EffectiveFrom time.Time  `gorm:"not null;index:idx_pricing_rules_effective_from" json:"effective_from"`
	EffectiveTo   *time.Time `json:"effective_to,omitempty"` // nil = open-ended

	Covered             *bool   `gorm:"not null;default:true" json:"covered"`
	CoverageReason      *string `gorm:"type:text" json:"coverage_reason,omitempty"`
	PreapprovalRequired *bool   `gorm:"not null;default:false" json:"preapproval_required"`
	PreapprovalReason   *string `gorm:"type:text" json:"preapproval_reason,omitempty"`

	CreatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC');index:idx_pricing_rules_created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`

	// Relations
	PriceList       *PriceList       `gorm:"foreignKey:PriceListID;references:ID" json:"price_list,omitempty"`
	InsuranceDegree *InsuranceDegree `gorm:"foreignKey:InsuranceDegreeID;references:ID" json:"insurance_degree,omitempty"`
}

// TableName returns the table name for the model
func (PricingRule) TableName() string {
	return "pricing_rules"
}

// BeforeCreate is called before creating a new record
func (r *PricingRule) BeforeCreate(tx *gorm.DB) error {
	if r.UUID == uuid.Nil {
		r.UUID = uuid.New()
	}
	return nil
}

// EffectiveAt reports whether the rule's effective window contains t (inclusive).
func (r *PricingRule) EffectiveAt(t time.Time) bool {
	if t.Before(r.EffectiveFrom) {
		return false
	}
	if r.EffectiveTo != nil && t.After(*r.EffectiveTo) {
		return false
	}
	return true
}

// ValidateWindow enforces effective_from <= effective_to when both are set.
func (r *PricingRule) ValidateWindow() error {
	if r.EffectiveTo != nil && r.EffectiveFrom.After(*r.EffectiveTo) {
		return fmt.Errorf("effective_from %s is after effective_to %s",
			r.EffectiveFrom.Format("2006-01-02"), r.EffectiveTo.Format("2006-01-02"))
	}
	return nil
}

// ValidateMethodParams checks that the parameters required by the pricing
// method are present.
func (r *PricingRule) ValidateMethodParams() error {
	switch r.PricingMethod {
	case PricingMethodFixed:
		if r.FixedAmount == nil {
			return fmt.Errorf("FIXED rule requires fixed_amount")
		}
	case PricingMethodPoints:
		if r.PointMultiplier == nil {
			return fmt.Errorf("POINTS rule requires point_multiplier")
		}
		if r.InsuranceDegreeID == nil {
			return fmt.Errorf("POINTS rule requires an insurance degree")
		}
	case PricingMethodRange:
		if r.MinPrice == nil || r.MaxPrice == nil {
			return fmt.Errorf("RANGE rule requires min_price and max_price")
		}
		if r.MinPrice.GreaterThan(*r.MaxPrice) {
			return fmt.Errorf("RANGE rule min_price exceeds max_price")
		}
	case PricingMethodPercentage:
		if r.PercentageRate == nil {
			return fmt.Errorf("PERCENTAGE rule requires percentage_rate")
		}
	default:
		return fmt.Errorf("invalid pricing method: %s", r.PricingMethod)
	}
	return nil
}

// PricingRuleFilter represents filter criteria for pricing rules
type PricingRuleFilter struct {
	ProcedureID       *uint          `json:"procedure_id,omitempty"`
	PriceListID       *uint          `json:"price_list_id,omitempty"`
	InsuranceDegreeID *uint          `json:"insurance_degree_id,omitempty"`
	PricingMethod     *PricingMethod `json:"pricing_method,omitempty"`
	EffectiveAt       *time.Time     `json:"effective_at,omitempty"`
}
