package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RuleConditionDTO is one condition of a pricing rule or adjustment case.
type RuleConditionDTO struct {
	FactorKey     string `json:"factor_key" validate:"required"`
	Operator      string `json:"operator" validate:"required,oneof=eq neq gt gte lt lte in"`
	ExpectedValue string `json:"expected_value" validate:"required"`
}

// AdminCreatePricingRuleRequest represents the payload to create a pricing rule.
type AdminCreatePricingRuleRequest struct {
	ProcedureID       uint               `json:"procedure_id" validate:"required,gt=0"`
	PriceListID       *uint              `json:"price_list_id,omitempty"`
	InsuranceDegreeID *uint              `json:"insurance_degree_id,omitempty"`
	Conditions        []RuleConditionDTO `json:"conditions,omitempty" validate:"omitempty,dive"`
	PricingMethod     string             `json:"pricing_method" validate:"required,oneof=FIXED POINTS RANGE PERCENTAGE"`

	FixedAmount     *decimal.Decimal `json:"fixed_amount,omitempty"`
	PointMultiplier *decimal.Decimal `json:"point_multiplier,omitempty"`
	MinPrice        *decimal.Decimal `json:"min_price,omitempty"`
	MaxPrice        *decimal.Decimal `json:"max_price,omitempty"`
	NominalAmount   *decimal.Decimal `json:"nominal_amount,omitempty"`
	PercentageRate  *decimal.Decimal `json:"percentage_rate,omitempty"`
	ReferenceKind   *string          `json:"reference_kind,omitempty"`
	Deductible      *decimal.Decimal `json:"deductible,omitempty"`

	Priority      int        `json:"priority"`
	EffectiveFrom time.Time  `json:"effective_from" validate:"required"`
	EffectiveTo   *time.Time `json:"effective_to,omitempty"`

	Covered             *bool   `json:"covered,omitempty"`
	CoverageReason      *string `json:"coverage_reason,omitempty"`
	PreapprovalRequired *bool   `json:"preapproval_required,omitempty"`
	PreapprovalReason   *string `json:"preapproval_reason,omitempty"`
}

type AdminCreatePricingRuleResponse struct {
	Message string         `json:"message"`
	Rule    PricingRuleDTO `json:"rule"`
}

// AdminUpdatePricingRuleRequest updates an existing rule by ID. Semantics
// match create; the full rule definition is replaced.
type AdminUpdatePricingRuleRequest struct {
	ID uint `json:"-"`
	AdminCreatePricingRuleRequest
}

type AdminUpdatePricingRuleResponse struct {
	Message string         `json:"message"`
	Rule    PricingRuleDTO `json:"rule"`
}

type AdminDeletePricingRuleResponse struct {
	Message string `json:"message"`
}

// PricingRuleDTO is the full rule shape in admin responses.
type PricingRuleDTO struct {
	ID                uint               `json:"id"`
	UUID              string             `json:"uuid"`
	ProcedureID       uint               `json:"procedure_id"`
	PriceListID       *uint              `json:"price_list_id,omitempty"`
	InsuranceDegreeID *uint              `json:"insurance_degree_id,omitempty"`
	Conditions        []RuleConditionDTO `json:"conditions"`
	PricingMethod     string             `json:"pricing_method"`

	FixedAmount     *decimal.Decimal `json:"fixed_amount,omitempty"`
	PointMultiplier *decimal.Decimal `json:"point_multiplier,omitempty"`
	MinPrice        *decimal.Decimal `json:"min_price,omitempty"`
	MaxPrice        *decimal.Decimal `json:"max_price,omitempty"`
	NominalAmount   *decimal.Decimal `json:"nominal_amount,omitempty"`
	PercentageRate  *decimal.Decimal `json:"percentage_rate,omitempty"`
	ReferenceKind   *string          `json:"reference_kind,omitempty"`
	Deductible      *decimal.Decimal `json:"deductible,omitempty"`

	Priority      int        `json:"priority"`
	EffectiveFrom time.Time  `json:"effective_from"`
	EffectiveTo   *time.Time `json:"effective_to,omitempty"`

	Covered             bool    `json:"covered"`
	CoverageReason      *string `json:"coverage_reason,omitempty"`
	PreapprovalRequired bool    `json:"preapproval_required"`
	PreapprovalReason   *string `json:"preapproval_reason,omitempty"`

	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

type AdminListPricingRulesResponse struct {
	Message string           `json:"message"`
	Items   []PricingRuleDTO `json:"items"`
	Total   int64            `json:"total"`
}

type AdminGetPricingRuleResponse struct {
	Message string         `json:"message"`
	Rule    PricingRuleDTO `json:"rule"`
}

// AdminImportPricingRulesResponse reports the outcome of an Excel import.
// Row errors are collected per row; valid rows are still imported.
type AdminImportPricingRulesResponse struct {
	Message   string   `json:"message"`
	Imported  int      `json:"imported"`
	RowErrors []string `json:"row_errors,omitempty"`
}
