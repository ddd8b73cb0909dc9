package repository

import (
	"context"
	"errors"

	"github.com/alqaisi42/medexaTPA-sub003/models"
	"gorm.io/gorm"
)

// PriceListRepositoryImpl implements PriceListRepository
type PriceListRepositoryImpl struct {
	*BaseRepository[models.PriceList, models.PriceListFilter]
}

// NewPriceListRepository creates a new repository for price lists
func NewPriceListRepository(db *gorm.DB) PriceListRepository {
	return &PriceListRepositoryImpl{
		BaseRepository: NewBaseRepository[models.PriceList, models.PriceListFilter](db),
	}
}

// ByCode retrieves a price list by its unique code.
func (r *PriceListRepositoryImpl) ByCode(ctx context.Context, code string) (*models.PriceList, error) {
	db := r.getDB(ctx)
	var list models.PriceList
	err := db.Where("code = ?", code).Last(&list).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &list, nil
}

// applyFilter applies filter conditions to the GORM query
func (r *PriceListRepositoryImpl) applyFilter(db *gorm.DB, filter models.PriceListFilter) *gorm.DB {
	if filter.Code != nil {
		db = db.Where("code = ?", *filter.Code)
	}
	if filter.IsActive != nil {
		db = db.Where("is_active = ?", *filter.IsActive)
	}
	return db
}

// ByFilter retrieves price lists based on filter criteria.
func (r *PriceListRepositoryImpl) ByFilter(ctx context.Context, filter models.PriceListFilter, orderBy string, limit, offset int) ([]*models.PriceList, error) {
	db := r.getDB(ctx)
	query := db.Model(&models.PriceList{})

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

	var lists []*models.PriceList
	if err := query.Find(&lists).Error; err != nil {
		return nil, err
	}
	return lists, nil
}

// Count returns the number of price lists matching the filter.
func (r *PriceListRepositoryImpl) Count(ctx context.Context, filter models.PriceListFilter) (int64, error) {
	db := r.getDB(ctx)
	query := db.Model(&models.PriceList{})
	query = r.applyFilter(query, filter)

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Exists checks if any price list matching the filter exists.
func (r *PriceListRepositoryImpl) Exists(ctx context.Context, filter models.PriceListFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
