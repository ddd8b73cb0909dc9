package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// DiscountScheduleDTO is a contract's discount schedule.
type DiscountScheduleDTO struct {
	DiscountID uint            `json:"discount_id"`
	Percentage decimal.Decimal `json:"percentage" validate:"required"`
	PeriodFrom time.Time       `json:"period_from" validate:"required"`
	PeriodTo   time.Time       `json:"period_to" validate:"required"`
	Unit       string          `json:"unit" validate:"required,max=20"`
}

type AdminCreateContractRequest struct {
	Code                string               `json:"code" validate:"required,max=50"`
	NameEn              string               `json:"name_en" validate:"required,max=255"`
	OverridePriceListID *uint                `json:"override_price_list_id,omitempty"`
	Discount            *DiscountScheduleDTO `json:"discount,omitempty"`
	DeductibleOverride  *decimal.Decimal     `json:"deductible_override,omitempty"`
	CopayOverride       *decimal.Decimal     `json:"copay_override,omitempty"`
	CopayType           *string              `json:"copay_type,omitempty" validate:"omitempty,oneof=FIXED PERCENT"`
	AnnualCap           *decimal.Decimal     `json:"annual_cap,omitempty"`
	MonthlyCap          *decimal.Decimal     `json:"monthly_cap,omitempty"`
	PerCaseCap          *decimal.Decimal     `json:"per_case_cap,omitempty"`
	IsActive            *bool                `json:"is_active,omitempty"`
}

type AdminCreateContractResponse struct {
	Message  string      `json:"message"`
	Contract ContractDTO `json:"contract"`
}

type AdminUpdateContractRequest struct {
	ID uint `json:"-"`
	AdminCreateContractRequest
}

type AdminUpdateContractResponse struct {
	Message  string      `json:"message"`
	Contract ContractDTO `json:"contract"`
}

type ContractDTO struct {
	ID                  uint                 `json:"id"`
	UUID                string               `json:"uuid"`
	Code                string               `json:"code"`
	NameEn              string               `json:"name_en"`
	OverridePriceListID *uint                `json:"override_price_list_id,omitempty"`
	Discount            *DiscountScheduleDTO `json:"discount,omitempty"`
	DeductibleOverride  *decimal.Decimal     `json:"deductible_override,omitempty"`
	CopayOverride       *decimal.Decimal     `json:"copay_override,omitempty"`
	CopayType           *string              `json:"copay_type,omitempty"`
	AnnualCap           *decimal.Decimal     `json:"annual_cap,omitempty"`
	MonthlyCap          *decimal.Decimal     `json:"monthly_cap,omitempty"`
	PerCaseCap          *decimal.Decimal     `json:"per_case_cap,omitempty"`
	IsActive            bool                 `json:"is_active"`
}

type AdminListContractsResponse struct {
	Message string        `json:"message"`
	Items   []ContractDTO `json:"items"`
}
