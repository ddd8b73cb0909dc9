package dto

import (
	"github.com/shopspring/decimal"
)

// ContractContext identifies the contract whose overrides apply to a
// calculation. Optional; absent means standard pricing.
type ContractContext struct {
	ContractID uint `json:"contractId" validate:"required,gt=0"`
}

// CalculatePricingRequest represents a single pricing preview request.
// Factor values arrive untyped and are coerced against the declared factor
// definitions during calculation.
type CalculatePricingRequest struct {
	ProcedureID       uint             `json:"procedureId" validate:"required,gt=0"`
	PriceListID       uint             `json:"priceListId" validate:"required,gt=0"`
	InsuranceDegreeID uint             `json:"insuranceDegreeId" validate:"required,gt=0"`
	Date              string           `json:"date" validate:"required,datetime=2006-01-02"`
	Factors           map[string]any   `json:"factors,omitempty"`
	ReferenceAmount   *decimal.Decimal `json:"referenceAmount,omitempty"`
	ContractContext   *ContractContext `json:"contractContext,omitempty"`
}

// AppliedAdjustmentDTO is one adjustment case that changed the amount.
type AppliedAdjustmentDTO struct {
	Type        string          `json:"type"`
	FactorKey   string          `json:"factorKey"`
	CaseMatched string          `json:"caseMatched"`
	Amount      decimal.Decimal `json:"amount"`
}

// AppliedDiscountDTO is the contract discount applied, if any.
type AppliedDiscountDTO struct {
	DiscountID uint            `json:"discountId"`
	Pct        decimal.Decimal `json:"pct"`
	Period     string          `json:"period"`
	Unit       string          `json:"unit"`
}

// InsuranceDegreeRefDTO identifies an insurance degree in responses.
type InsuranceDegreeRefDTO struct {
	ID     uint   `json:"id"`
	Code   string `json:"code"`
	NameEn string `json:"nameEn"`
}

// PointRateUsedDTO is the point rate that contributed to a POINTS price.
type PointRateUsedDTO struct {
	PointPrice      decimal.Decimal       `json:"pointPrice"`
	InsuranceDegree InsuranceDegreeRefDTO `json:"insuranceDegree"`
}

// FactorWarningDTO is a non-fatal resolver diagnostic.
type FactorWarningDTO struct {
	FactorKey string `json:"factorKey"`
	Message   string `json:"message"`
}

// CalculatePricingResponse represents the fully-explained calculation result.
type CalculatePricingResponse struct {
	FinalPrice          decimal.Decimal        `json:"finalPrice"`
	Covered             bool                   `json:"covered"`
	CoverageReason      string                 `json:"coverageReason,omitempty"`
	RequiresPreapproval bool                   `json:"requiresPreapproval"`
	PreapprovalReason   string                 `json:"preapprovalReason,omitempty"`
	SelectedRuleID      *uint                  `json:"selectedRuleId,omitempty"`
	SelectionReason     string                 `json:"selectionReason,omitempty"`
	OverridePriceListID *uint                  `json:"overridePriceListId,omitempty"`
	AdjustmentsApplied  []AppliedAdjustmentDTO `json:"adjustmentsApplied"`
	DiscountApplied     *AppliedDiscountDTO    `json:"discountApplied,omitempty"`
	DeductibleApplied   *decimal.Decimal       `json:"deductibleApplied,omitempty"`
	PointRateUsed       *PointRateUsedDTO      `json:"pointRateUsed,omitempty"`
	Warnings            []FactorWarningDTO     `json:"warnings,omitempty"`
}

// CalculatePricingBatchRequest previews several procedures in one call.
type CalculatePricingBatchRequest struct {
	Items []CalculatePricingRequest `json:"items" validate:"required,min=1,max=100,dive"`
}

// CalculationErrorDTO is the kind+message pair for a failed calculation.
// The message is human-readable prose, never serialized diagnostics.
type CalculationErrorDTO struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// CalculatePricingBatchItem is one item's outcome: either a result or an
// explained error. A failed item never aborts the rest of the batch.
type CalculatePricingBatchItem struct {
	Index  int                       `json:"index"`
	Result *CalculatePricingResponse `json:"result,omitempty"`
	Error  *CalculationErrorDTO      `json:"error,omitempty"`
}

// CalculatePricingBatchResponse carries per-item outcomes in request order.
type CalculatePricingBatchResponse struct {
	Message string                      `json:"message"`
	Items   []CalculatePricingBatchItem `json:"items"`
}
