package repository

import (
	"context"
	"errors"

	"github.com/alqaisi42/medexaTPA-sub003/models"
	"gorm.io/gorm"
)

// InsuranceDegreeRepositoryImpl implements InsuranceDegreeRepository
type InsuranceDegreeRepositoryImpl struct {
	*BaseRepository[models.InsuranceDegree, models.InsuranceDegreeFilter]
}

// NewInsuranceDegreeRepository creates a new repository for insurance degrees
func NewInsuranceDegreeRepository(db *gorm.DB) InsuranceDegreeRepository {
	return &InsuranceDegreeRepositoryImpl{
		BaseRepository: NewBaseRepository[models.InsuranceDegree, models.InsuranceDegreeFilter](db),
	}
}

// ByCode retrieves an insurance degree by its unique code.
func (r *InsuranceDegreeRepositoryImpl) ByCode(ctx context.Context, code string) (*models.InsuranceDegree, error) {
	db := r.getDB(ctx)
	var degree models.InsuranceDegree
	err := db.Where("code = ?", code).Last(&degree).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &degree, nil
}

// applyFilter applies filter conditions to the GORM query
func (r *InsuranceDegreeRepositoryImpl) applyFilter(db *gorm.DB, filter models.InsuranceDegreeFilter) *gorm.DB {
	if filter.Code != nil {
		db = db.Where("code = ?", *filter.Code)
	}
	if filter.IsActive != nil {
		db = db.Where("is_active = ?", *filter.IsActive)
	}
	return db
}

// ByFilter retrieves insurance degrees based on filter criteria.
func (r *InsuranceDegreeRepositoryImpl) ByFilter(ctx context.Context, filter models.InsuranceDegreeFilter, orderBy string, limit, offset int) ([]*models.InsuranceDegree, error) {
	db := r.getDB(ctx)
	query := db.Model(&models.InsuranceDegree{})

	query = r.applyFilter(query, filter)

	if orderBy == "" {
		orderBy = "code ASC"
	}
	query = query.Order(orderBy)

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var degrees []*models.InsuranceDegree
	if err := query.Find(&degrees).Error; err != nil {
		return nil, err
	}
	return degrees, nil
}

// Count returns the number of insurance degrees matching the filter.
func (r *InsuranceDegreeRepositoryImpl) Count(ctx context.Context, filter models.InsuranceDegreeFilter) (int64, error) {
	db := r.getDB(ctx)
	query := db.Model(&models.InsuranceDegree{})
	query = r.applyFilter(query, filter)

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Exists checks if any insurance degree matching the filter exists.
func (r *InsuranceDegreeRepositoryImpl) Exists(ctx context.Context, filter models.InsuranceDegreeFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
