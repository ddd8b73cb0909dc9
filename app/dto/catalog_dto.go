package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// Factor definitions

type AdminCreateFactorDefinitionRequest struct {
	Key           string   `json:"key" validate:"required,max=100"`
	NameEn        string   `json:"name_en" validate:"required,max=255"`
	DataType      string   `json:"data_type" validate:"required,oneof=TEXT STRING NUMBER INTEGER DECIMAL BOOLEAN DATE SELECT"`
	AllowedValues []string `json:"allowed_values,omitempty"`
	IsActive      *bool    `json:"is_active,omitempty"`
}

type AdminCreateFactorDefinitionResponse struct {
	Message    string              `json:"message"`
	Definition FactorDefinitionDTO `json:"definition"`
}

type AdminUpdateFactorDefinitionRequest struct {
	ID uint `json:"-"`
	AdminCreateFactorDefinitionRequest
}

type AdminUpdateFactorDefinitionResponse struct {
	Message    string              `json:"message"`
	Definition FactorDefinitionDTO `json:"definition"`
}

type AdminDeleteFactorDefinitionResponse struct {
	Message string `json:"message"`
}

type FactorDefinitionDTO struct {
	ID            uint     `json:"id"`
	Key           string   `json:"key"`
	NameEn        string   `json:"name_en"`
	DataType      string   `json:"data_type"`
	AllowedValues []string `json:"allowed_values,omitempty"`
	IsActive      bool     `json:"is_active"`
	CreatedAt     string   `json:"created_at"`
}

type AdminListFactorDefinitionsResponse struct {
	Message string                `json:"message"`
	Items   []FactorDefinitionDTO `json:"items"`
}

// Price lists

type AdminCreatePriceListRequest struct {
	Code     string `json:"code" validate:"required,max=50"`
	NameEn   string `json:"name_en" validate:"required,max=255"`
	IsActive *bool  `json:"is_active,omitempty"`
}

type AdminCreatePriceListResponse struct {
	Message   string       `json:"message"`
	PriceList PriceListDTO `json:"price_list"`
}

type AdminUpdatePriceListRequest struct {
	ID uint `json:"-"`
	AdminCreatePriceListRequest
}

type AdminUpdatePriceListResponse struct {
	Message   string       `json:"message"`
	PriceList PriceListDTO `json:"price_list"`
}

type PriceListDTO struct {
	ID       uint   `json:"id"`
	UUID     string `json:"uuid"`
	Code     string `json:"code"`
	NameEn   string `json:"name_en"`
	IsActive bool   `json:"is_active"`
}

type AdminListPriceListsResponse struct {
	Message string         `json:"message"`
	Items   []PriceListDTO `json:"items"`
}

// Insurance degrees

type AdminCreateInsuranceDegreeRequest struct {
	Code     string `json:"code" validate:"required,max=50"`
	NameEn   string `json:"name_en" validate:"required,max=255"`
	IsActive *bool  `json:"is_active,omitempty"`
}

type AdminCreateInsuranceDegreeResponse struct {
	Message string             `json:"message"`
	Degree  InsuranceDegreeDTO `json:"degree"`
}

type AdminUpdateInsuranceDegreeRequest struct {
	ID uint `json:"-"`
	AdminCreateInsuranceDegreeRequest
}

type AdminUpdateInsuranceDegreeResponse struct {
	Message string             `json:"message"`
	Degree  InsuranceDegreeDTO `json:"degree"`
}

type InsuranceDegreeDTO struct {
	ID       uint   `json:"id"`
	UUID     string `json:"uuid"`
	Code     string `json:"code"`
	NameEn   string `json:"name_en"`
	IsActive bool   `json:"is_active"`
}

type AdminListInsuranceDegreesResponse struct {
	Message string               `json:"message"`
	Items   []InsuranceDegreeDTO `json:"items"`
}

// Point rates

type AdminCreatePointRateRequest struct {
	InsuranceDegreeID uint            `json:"insurance_degree_id" validate:"required,gt=0"`
	PointPrice        decimal.Decimal `json:"point_price" validate:"required"`
	EffectiveFrom     time.Time       `json:"effective_from" validate:"required"`
	EffectiveTo       *time.Time      `json:"effective_to,omitempty"`
}

type AdminCreatePointRateResponse struct {
	Message string       `json:"message"`
	Rate    PointRateDTO `json:"rate"`
}

type AdminDeletePointRateResponse struct {
	Message string `json:"message"`
}

type PointRateDTO struct {
	ID                uint            `json:"id"`
	InsuranceDegreeID uint            `json:"insurance_degree_id"`
	PointPrice        decimal.Decimal `json:"point_price"`
	EffectiveFrom     time.Time       `json:"effective_from"`
	EffectiveTo       *time.Time      `json:"effective_to,omitempty"`
}

type AdminListPointRatesResponse struct {
	Message string         `json:"message"`
	Items   []PointRateDTO `json:"items"`
}
