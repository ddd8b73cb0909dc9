package repository

import (
	"context"
	"errors"

	"github.com/alqaisi42/medexaTPA-sub003/models"
	"gorm.io/gorm"
)

// FactorDefinitionRepositoryImpl implements FactorDefinitionRepository
type FactorDefinitionRepositoryImpl struct {
	*BaseRepository[models.PricingFactorDefinition, models.PricingFactorDefinitionFilter]
}

// NewFactorDefinitionRepository creates a new repository for factor definitions
func NewFactorDefinitionRepository(db *gorm.DB) FactorDefinitionRepository {
	return &FactorDefinitionRepositoryImpl{
		BaseRepository: NewBaseRepository[models.PricingFactorDefinition, models.PricingFactorDefinitionFilter](db),
	}
}

// ByKey retrieves a factor definition by its unique key.
func (r *FactorDefinitionRepositoryImpl) ByKey(ctx context.Context, key string) (*models.PricingFactorDefinition, error) {
	db := r.getDB(ctx)
	var def models.PricingFactorDefinition
	err := db.Where("key = ?", key).Last(&def).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &def, nil
}

// ListActive returns all active factor definitions in key order.
func (r *FactorDefinitionRepositoryImpl) ListActive(ctx context.Context) ([]*models.PricingFactorDefinition, error) {
	db := r.getDB(ctx)

	var defs []*models.PricingFactorDefinition
	err := db.Where("is_active = ?", true).Order("key ASC").Find(&defs).Error
	if err != nil {
		return nil, err
	}
	return defs, nil
}

// applyFilter applies filter conditions to the GORM query
func (r *FactorDefinitionRepositoryImpl) applyFilter(db *gorm.DB, filter models.PricingFactorDefinitionFilter) *gorm.DB {
	if filter.Key != nil {
		db = db.Where("key = ?", *filter.Key)
	}
	if filter.DataType != nil {
		db = db.Where("data_type = ?", *filter.DataType)
	}
	if filter.IsActive != nil {
		db = db.Where("is_active = ?", *filter.IsActive)
	}
	return db
}

// ByFilter retrieves factor definitions based on filter criteria.
func (r *FactorDefinitionRepositoryImpl) ByFilter(ctx context.Context, filter models.PricingFactorDefinitionFilter, orderBy string, limit, offset int) ([]*models.PricingFactorDefinition, error) {
	db := r.getDB(ctx)
	query := db.Model(&models.PricingFactorDefinition{})

	query = r.applyFilter(query, filter)

	if orderBy == "" {
		orderBy = "key ASC"
	}
	query = query.Order(orderBy)

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var defs []*models.PricingFactorDefinition
	if err := query.Find(&defs).Error; err != nil {
		return nil, err
	}
	return defs, nil
}

// Count returns the number of factor definitions matching the filter.
func (r *FactorDefinitionRepositoryImpl) Count(ctx context.Context, filter models.PricingFactorDefinitionFilter) (int64, error) {
	db := r.getDB(ctx)
	query := db.Model(&models.PricingFactorDefinition{})
	query = r.applyFilter(query, filter)

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Exists checks if any factor definition matching the filter exists.
func (r *FactorDefinitionRepositoryImpl) Exists(ctx context.Context, filter models.PricingFactorDefinitionFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
