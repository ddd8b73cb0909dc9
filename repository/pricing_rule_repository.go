package repository

import (
	"context"
	"errors"

	"github.com/alqaisi42/medexaTPA-sub003/models"
	"gorm.io/gorm"
)

// PricingRuleRepositoryImpl implements PricingRuleRepository
type PricingRuleRepositoryImpl struct {
	*BaseRepository[models.PricingRule, models.PricingRuleFilter]
}

// NewPricingRuleRepository creates a new repository for pricing rules
func NewPricingRuleRepository(db *gorm.DB) PricingRuleRepository {
	return &PricingRuleRepositoryImpl{
		BaseRepository: NewBaseRepository[models.PricingRule, models.PricingRuleFilter](db),
	}
}

// ByUUID retrieves a pricing rule by its UUID.
func (r *PricingRuleRepositoryImpl) ByUUID(ctx context.Context, uuid string) (*models.PricingRule, error) {
	db := r.getDB(ctx)
	var rule models.PricingRule
	err := db.Where("uuid = ?", uuid).Last(&rule).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rule, nil
}

// CandidatesFor returns rules for the exact procedure whose price list and
// insurance degree either match exactly or are wildcards (NULL). Temporal
// windows and condition lists are evaluated by the caller.
func (r *PricingRuleRepositoryImpl) CandidatesFor(ctx context.Context, procedureID, priceListID, insuranceDegreeID uint) ([]models.PricingRule, error) {
	db := r.getDB(ctx)

	var rules []models.PricingRule
	err := db.
		Where("procedure_id = ?", procedureID).
		Where("price_list_id = ? OR price_list_id IS NULL", priceListID).
		Where("insurance_degree_id = ? OR insurance_degree_id IS NULL", insuranceDegreeID).
		Order("priority DESC, effective_from DESC, id ASC").
		Find(&rules).Error
	if err != nil {
		return nil, err
	}

	return rules, nil
}

// ListByProcedure returns rules for a procedure across all price lists.
func (r *PricingRuleRepositoryImpl) ListByProcedure(ctx context.Context, procedureID uint, limit, offset int) ([]*models.PricingRule, error) {
	db := r.getDB(ctx)

	var rules []*models.PricingRule
	q := db.Where("procedure_id = ?", procedureID).Order("priority DESC, effective_from DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if offset > 0 {
		q = q.Offset(offset)
	}
	if err := q.Find(&rules).Error; err != nil {
		return nil, err
	}
	return rules, nil
}

// applyFilter applies filter conditions to the GORM query
func (r *PricingRuleRepositoryImpl) applyFilter(db *gorm.DB, filter models.PricingRuleFilter) *gorm.DB {
	if filter.ProcedureID != nil {
		db = db.Where("procedure_id = ?", *filter.ProcedureID)
	}
	if filter.PriceListID != nil {
		db = db.Where("price_list_id = ?", *filter.PriceListID)
	}
	if filter.InsuranceDegreeID != nil {
		db = db.Where("insurance_degree_id = ?", *filter.InsuranceDegreeID)
	}
	if filter.PricingMethod != nil {
		db = db.Where("pricing_method = ?", *filter.PricingMethod)
	}
	if filter.EffectiveAt != nil {
		db = db.Where("effective_from <= ? AND (effective_to IS NULL OR effective_to >= ?)", *filter.EffectiveAt, *filter.EffectiveAt)
	}
	return db
}

// ByFilter retrieves pricing rules based on filter criteria.
func (r *PricingRuleRepositoryImpl) ByFilter(ctx context.Context, filter models.PricingRuleFilter, orderBy string, limit, offset int) ([]*models.PricingRule, error) {
	db := r.getDB(ctx)
	query := db.Model(&models.PricingRule{})

	query = r.applyFilter(query, filter)

	if orderBy == "" {
		orderBy = "priority DESC, effective_from DESC"
	}
	query = query.Order(orderBy)

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var rules []*models.PricingRule
	if err := query.Find(&rules).Error; err != nil {
		return nil, err
	}
	return rules, nil
}

// Count returns the number of pricing rules matching the filter.
func (r *PricingRuleRepositoryImpl) Count(ctx context.Context, filter models.PricingRuleFilter) (int64, error) {
	db := r.getDB(ctx)
	query := db.Model(&models.PricingRule{})
	query = r.applyFilter(query, filter)

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Exists checks if any pricing rule matching the filter exists.
func (r *PricingRuleRepositoryImpl) Exists(ctx context.Context, filter models.PricingRuleFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
