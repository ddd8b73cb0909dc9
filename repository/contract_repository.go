package repository

import (
	"context"
	"errors"

	"github.com/alqaisi42/medexaTPA-sub003/models"
	"gorm.io/gorm"
)

// ContractRepositoryImpl implements ContractRepository
type ContractRepositoryImpl struct {
	*BaseRepository[models.Contract, models.ContractFilter]
}

// NewContractRepository creates a new repository for contracts
func NewContractRepository(db *gorm.DB) ContractRepository {
	return &ContractRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Contract, models.ContractFilter](db),
	}
}

// ByCode retrieves a contract by its unique code.
func (r *ContractRepositoryImpl) ByCode(ctx context.Context, code string) (*models.Contract, error) {
	db := r.getDB(ctx)
	var contract models.Contract
	err := db.Where("code = ?", code).Last(&contract).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &contract, nil
}

// applyFilter applies filter conditions to the GORM query
func (r *ContractRepositoryImpl) applyFilter(db *gorm.DB, filter models.ContractFilter) *gorm.DB {
	if filter.Code != nil {
		db = db.Where("code = ?", *filter.Code)
	}
	if filter.IsActive != nil {
		db = db.Where("is_active = ?", *filter.IsActive)
	}
	return db
}

// ByFilter retrieves contracts based on filter criteria.
func (r *ContractRepositoryImpl) ByFilter(ctx context.Context, filter models.ContractFilter, orderBy string, limit, offset int) ([]*models.Contract, error) {
	db := r.getDB(ctx)
	query := db.Model(&models.Contract{})

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

	var contracts []*models.Contract
	if err := query.Find(&contracts).Error; err != nil {
		return nil, err
	}
	return contracts, nil
}

// Count returns the number of contracts matching the filter.
func (r *ContractRepositoryImpl) Count(ctx context.Context, filter models.ContractFilter) (int64, error) {
	db := r.getDB(ctx)
	query := db.Model(&models.Contract{})
	query = r.applyFilter(query, filter)

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Exists checks if any contract matching the filter exists.
func (r *ContractRepositoryImpl) Exists(ctx context.Context, filter models.ContractFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
