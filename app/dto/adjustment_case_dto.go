package dto

import (
	"github.com/shopspring/decimal"
)

type AdminCreateAdjustmentCaseRequest struct {
	NameEn         string             `json:"name_en" validate:"required,max=255"`
	MatchCondition []RuleConditionDTO `json:"match_condition,omitempty" validate:"omitempty,dive"`
	AdjustmentType string             `json:"adjustment_type" validate:"required,oneof=FIXED PERCENT"`
	Amount         decimal.Decimal    `json:"amount" validate:"required"`
	Position       *int               `json:"position,omitempty"`
	IsActive       *bool              `json:"is_active,omitempty"`
}

type AdminCreateAdjustmentCaseResponse struct {
	Message string            `json:"message"`
	Case    AdjustmentCaseDTO `json:"case"`
}

type AdminUpdateAdjustmentCaseRequest struct {
	ID uint `json:"-"`
	AdminCreateAdjustmentCaseRequest
}

type AdminUpdateAdjustmentCaseResponse struct {
	Message string            `json:"message"`
	Case    AdjustmentCaseDTO `json:"case"`
}

type AdminDeleteAdjustmentCaseResponse struct {
	Message string `json:"message"`
}

// AdminReorderAdjustmentCasesRequest rewrites the evaluation order. Every
// active case ID must appear exactly once.
type AdminReorderAdjustmentCasesRequest struct {
	OrderedIDs []uint `json:"ordered_ids" validate:"required,min=1,dive,gt=0"`
}

type AdminReorderAdjustmentCasesResponse struct {
	Message string `json:"message"`
}

type AdjustmentCaseDTO struct {
	ID             uint               `json:"id"`
	NameEn         string             `json:"name_en"`
	MatchCondition []RuleConditionDTO `json:"match_condition"`
	AdjustmentType string             `json:"adjustment_type"`
	Amount         decimal.Decimal    `json:"amount"`
	Position       int                `json:"position"`
	IsActive       bool               `json:"is_active"`
}

type AdminListAdjustmentCasesResponse struct {
	Message string              `json:"message"`
	Items   []AdjustmentCaseDTO `json:"items"`
}
