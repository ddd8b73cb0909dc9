package repository

import (
	"context"
	"errors"

	"github.com/alqaisi42/medexaTPA-sub003/models"
	"gorm.io/gorm"
)

// AdjustmentCaseRepositoryImpl implements AdjustmentCaseRepository
type AdjustmentCaseRepositoryImpl struct {
	*BaseRepository[models.AdjustmentCase, models.AdjustmentCaseFilter]
}

// NewAdjustmentCaseRepository creates a new repository for adjustment cases
func NewAdjustmentCaseRepository(db *gorm.DB) AdjustmentCaseRepository {
	return &AdjustmentCaseRepositoryImpl{
		BaseRepository: NewBaseRepository[models.AdjustmentCase, models.AdjustmentCaseFilter](db),
	}
}

// ListActiveOrdered returns active cases in their evaluation order.
func (r *AdjustmentCaseRepositoryImpl) ListActiveOrdered(ctx context.Context) ([]models.AdjustmentCase, error) {
	db := r.getDB(ctx)

	var cases []models.AdjustmentCase
	err := db.Where("is_active = ?", true).Order("position ASC, id ASC").Find(&cases).Error
	if err != nil {
		return nil, err
	}
	return cases, nil
}

// Reorder rewrites the position of every listed case to its index in the
// provided order. Runs in a single transaction so the ordering is never
// partially applied.
func (r *AdjustmentCaseRepositoryImpl) Reorder(ctx context.Context, orderedIDs []uint) error {
	if len(orderedIDs) == 0 {
		return errors.New("ordered IDs are required for reorder")
	}

	db, shouldCommit, err := r.getDBForWrite(ctx)
	if err != nil {
		return err
	}
	if shouldCommit {
		defer func() {
			if err != nil {
				db.Rollback()
			} else {
				db.Commit()
			}
		}()
	}

	for i, id := range orderedIDs {
		err = db.Model(&models.AdjustmentCase{}).Where("id = ?", id).Update("position", i+1).Error
		if err != nil {
			return err
		}
	}

	return nil
}

// applyFilter applies filter conditions to the GORM query
func (r *AdjustmentCaseRepositoryImpl) applyFilter(db *gorm.DB, filter models.AdjustmentCaseFilter) *gorm.DB {
	if filter.AdjustmentType != nil {
		db = db.Where("adjustment_type = ?", *filter.AdjustmentType)
	}
	if filter.IsActive != nil {
		db = db.Where("is_active = ?", *filter.IsActive)
	}
	return db
}

// ByFilter retrieves adjustment cases based on filter criteria.
func (r *AdjustmentCaseRepositoryImpl) ByFilter(ctx context.Context, filter models.AdjustmentCaseFilter, orderBy string, limit, offset int) ([]*models.AdjustmentCase, error) {
	db := r.getDB(ctx)
	query := db.Model(&models.AdjustmentCase{})

	query = r.applyFilter(query, filter)

	if orderBy == "" {
		orderBy = "position ASC, id ASC"
	}
	query = query.Order(orderBy)

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var cases []*models.AdjustmentCase
	if err := query.Find(&cases).Error; err != nil {
		return nil, err
	}
	return cases, nil
}

// Count returns the number of adjustment cases matching the filter.
func (r *AdjustmentCaseRepositoryImpl) Count(ctx context.Context, filter models.AdjustmentCaseFilter) (int64, error) {
	db := r.getDB(ctx)
	query := db.Model(&models.AdjustmentCase{})
	query = r.applyFilter(query, filter)

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Exists checks if any adjustment case matching the filter exists.
func (r *AdjustmentCaseRepositoryImpl) Exists(ctx context.Context, filter models.AdjustmentCaseFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
