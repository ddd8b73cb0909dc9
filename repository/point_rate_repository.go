package repository

import (
	"context"
	"time"

	"github.com/alqaisi42/medexaTPA-sub003/models"
	"gorm.io/gorm"
)

// PointRateRepositoryImpl implements PointRateRepository
type PointRateRepositoryImpl struct {
	*BaseRepository[models.PointRate, models.PointRateFilter]
}

// NewPointRateRepository creates a new repository for point rates
func NewPointRateRepository(db *gorm.DB) PointRateRepository {
	return &PointRateRepositoryImpl{
		BaseRepository: NewBaseRepository[models.PointRate, models.PointRateFilter](db),
	}
}

// ListByDegree returns all rates for an insurance degree, newest window first.
func (r *PointRateRepositoryImpl) ListByDegree(ctx context.Context, insuranceDegreeID uint) ([]*models.PointRate, error) {
	db := r.getDB(ctx)

	var rates []*models.PointRate
	err := db.Where("insurance_degree_id = ?", insuranceDegreeID).
		Order("effective_from DESC").
		Find(&rates).Error
	if err != nil {
		return nil, err
	}
	return rates, nil
}

// ValidForDegree returns rates whose window contains asOf, newest window first
// so the first row is the one the engine should use.
func (r *PointRateRepositoryImpl) ValidForDegree(ctx context.Context, insuranceDegreeID uint, asOf time.Time) ([]*models.PointRate, error) {
	db := r.getDB(ctx)

	var rates []*models.PointRate
	err := db.Where("insurance_degree_id = ?", insuranceDegreeID).
		Where("effective_from <= ? AND (effective_to IS NULL OR effective_to >= ?)", asOf, asOf).
		Order("effective_from DESC").
		Find(&rates).Error
	if err != nil {
		return nil, err
	}
	return rates, nil
}

// applyFilter applies filter conditions to the GORM query
func (r *PointRateRepositoryImpl) applyFilter(db *gorm.DB, filter models.PointRateFilter) *gorm.DB {
	if filter.InsuranceDegreeID != nil {
		db = db.Where("insurance_degree_id = ?", *filter.InsuranceDegreeID)
	}
	if filter.ValidAt != nil {
		db = db.Where("effective_from <= ? AND (effective_to IS NULL OR effective_to >= ?)", *filter.ValidAt, *filter.ValidAt)
	}
	return db
}

// ByFilter retrieves point rates based on filter criteria.
func (r *PointRateRepositoryImpl) ByFilter(ctx context.Context, filter models.PointRateFilter, orderBy string, limit, offset int) ([]*models.PointRate, error) {
	db := r.getDB(ctx)
	query := db.Model(&models.PointRate{})

	query = r.applyFilter(query, filter)

	if orderBy == "" {
		orderBy = "effective_from DESC"
	}
	query = query.Order(orderBy)

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var rates []*models.PointRate
	if err := query.Find(&rates).Error; err != nil {
		return nil, err
	}
	return rates, nil
}

// Count returns the number of point rates matching the filter.
func (r *PointRateRepositoryImpl) Count(ctx context.Context, filter models.PointRateFilter) (int64, error) {
	db := r.getDB(ctx)
	query := db.Model(&models.PointRate{})
	query = r.applyFilter(query, filter)

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Exists checks if any point rate matching the filter exists.
func (r *PointRateRepositoryImpl) Exists(ctx context.Context, filter models.PointRateFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
