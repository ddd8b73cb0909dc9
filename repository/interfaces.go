// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"
	"time"

	"github.com/alqaisi42/medexaTPA-sub003/models"
)

// RepositoryContext key for transaction in context
type contextKey string

const TxContextKey contextKey = "tx"

type Repository[T any, F any] interface {
	ByID(ctx context.Context, id uint) (*T, error)
	ByFilter(ctx context.Context, filter F, orderBy string, limit, offset int) ([]*T, error)
	Save(ctx context.Context, entity *T) error
	SaveBatch(ctx context.Context, entities []*T) error
	Update(ctx context.Context, entity *T) error
	Delete(ctx context.Context, id uint) error
	Count(ctx context.Context, filter F) (int64, error)
	Exists(ctx context.Context, filter F) (bool, error)
}

// FactorDefinitionRepository defines operations for pricing factor definitions
type FactorDefinitionRepository interface {
	Repository[models.PricingFactorDefinition, models.PricingFactorDefinitionFilter]
	ByKey(ctx context.Context, key string) (*models.PricingFactorDefinition, error)
	ListActive(ctx context.Context) ([]*models.PricingFactorDefinition, error)
}

// PriceListRepository defines operations for price lists
type PriceListRepository interface {
	Repository[models.PriceList, models.PriceListFilter]
	ByCode(ctx context.Context, code string) (*models.PriceList, error)
}

// InsuranceDegreeRepository defines operations for insurance degrees
type InsuranceDegreeRepository interface {
	Repository[models.InsuranceDegree, models.InsuranceDegreeFilter]
	ByCode(ctx context.Context, code string) (*models.InsuranceDegree, error)
}

// PointRateRepository defines operations for point rates
type PointRateRepository interface {
	Repository[models.PointRate, models.PointRateFilter]
	ListByDegree(ctx context.Context, insuranceDegreeID uint) ([]*models.PointRate, error)
	ValidForDegree(ctx context.Context, insuranceDegreeID uint, asOf time.Time) ([]*models.PointRate, error)
}

// PricingRuleRepository defines operations for pricing rules
type PricingRuleRepository interface {
	Repository[models.PricingRule, models.PricingRuleFilter]
	ByUUID(ctx context.Context, uuid string) (*models.PricingRule, error)
	// CandidatesFor returns rules that could match the combination: exact
	// procedure, exact-or-wildcard price list and insurance degree. Temporal
	// and condition filtering happens in the calculation engine.
	CandidatesFor(ctx context.Context, procedureID, priceListID, insuranceDegreeID uint) ([]models.PricingRule, error)
	ListByProcedure(ctx context.Context, procedureID uint, limit, offset int) ([]*models.PricingRule, error)
}

// ContractRepository defines operations for contracts
type ContractRepository interface {
	Repository[models.Contract, models.ContractFilter]
	ByCode(ctx context.Context, code string) (*models.Contract, error)
}

// AdjustmentCaseRepository defines operations for adjustment cases
type AdjustmentCaseRepository interface {
	Repository[models.AdjustmentCase, models.AdjustmentCaseFilter]
	ListActiveOrdered(ctx context.Context) ([]models.AdjustmentCase, error)
	Reorder(ctx context.Context, orderedIDs []uint) error
}
