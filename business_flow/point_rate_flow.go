package businessflow

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/alqaisi42/medexaTPA-sub003/app/dto"
	"github.com/alqaisi42/medexaTPA-sub003/models"
	"github.com/alqaisi42/medexaTPA-sub003/repository"
	"github.com/alqaisi42/medexaTPA-sub003/utils"
)

// PointRateFlow defines admin operations for point rate schedules.
type PointRateFlow interface {
	AdminCreatePointRate(ctx context.Context, req *dto.AdminCreatePointRateRequest) (*dto.AdminCreatePointRateResponse, error)
	AdminDeletePointRate(ctx context.Context, id uint) (*dto.AdminDeletePointRateResponse, error)
	AdminListPointRates(ctx context.Context, insuranceDegreeID uint) (*dto.AdminListPointRatesResponse, error)
}

type PointRateFlowImpl struct {
	rateRepo   repository.PointRateRepository
	degreeRepo repository.InsuranceDegreeRepository
}

func NewPointRateFlow(rateRepo repository.PointRateRepository, degreeRepo repository.InsuranceDegreeRepository) PointRateFlow {
	return &PointRateFlowImpl{rateRepo: rateRepo, degreeRepo: degreeRepo}
}

func (f *PointRateFlowImpl) AdminCreatePointRate(ctx context.Context, req *dto.AdminCreatePointRateRequest) (*dto.AdminCreatePointRateResponse, error) {
	if !req.PointPrice.GreaterThan(decimal.Zero) {
		return nil, NewBusinessError("POINT_PRICE_INVALID", "Point price must be positive", ErrPointPriceInvalid)
	}
	if req.EffectiveTo != nil && req.EffectiveTo.Before(req.EffectiveFrom) {
		return nil, NewBusinessError("EFFECTIVE_WINDOW_INVERTED", "Effective window end precedes its start", ErrEffectiveWindowInverted)
	}

	degree, err := f.degreeRepo.ByID(ctx, req.InsuranceDegreeID)
	if err != nil {
		return nil, NewBusinessError("INSURANCE_DEGREE_LOAD_FAILED", "Failed to load insurance degree", err)
	}
	if degree == nil {
		return nil, NewBusinessError("INSURANCE_DEGREE_NOT_FOUND", "Insurance degree not found", ErrInsuranceDegreeNotFound)
	}

	rate := &models.PointRate{
		InsuranceDegreeID: req.InsuranceDegreeID,
		PointPrice:        req.PointPrice,
		EffectiveFrom:     req.EffectiveFrom.UTC(),
		CreatedAt:         utils.UTCNow(),
		UpdatedAt:         utils.UTCNow(),
	}
	if req.EffectiveTo != nil {
		to := req.EffectiveTo.UTC()
		rate.EffectiveTo = &to
	}

	if err := f.rateRepo.Save(ctx, rate); err != nil {
		return nil, NewBusinessError("POINT_RATE_SAVE_FAILED", "Failed to save point rate", err)
	}

	return &dto.AdminCreatePointRateResponse{
		Message: "Point rate created successfully",
		Rate:    toPointRateDTO(*rate),
	}, nil
}

func (f *PointRateFlowImpl) AdminDeletePointRate(ctx context.Context, id uint) (*dto.AdminDeletePointRateResponse, error) {
	existing, err := f.rateRepo.ByID(ctx, id)
	if err != nil {
		return nil, NewBusinessError("POINT_RATE_LOAD_FAILED", "Failed to load point rate", err)
	}
	if existing == nil {
		return nil, NewBusinessError("POINT_RATE_NOT_FOUND", "Point rate not found", ErrPointRateNotFound)
	}

	if err := f.rateRepo.Delete(ctx, id); err != nil {
		return nil, NewBusinessError("POINT_RATE_DELETE_FAILED", "Failed to delete point rate", err)
	}

	return &dto.AdminDeletePointRateResponse{
		Message: "Point rate deleted successfully",
	}, nil
}

func (f *PointRateFlowImpl) AdminListPointRates(ctx context.Context, insuranceDegreeID uint) (*dto.AdminListPointRatesResponse, error) {
	rates, err := f.rateRepo.ListByDegree(ctx, insuranceDegreeID)
	if err != nil {
		return nil, NewBusinessError("POINT_RATE_LIST_FAILED", "Failed to list point rates", err)
	}

	items := make([]dto.PointRateDTO, 0, len(rates))
	for _, r := range rates {
		items = append(items, toPointRateDTO(*r))
	}

	return &dto.AdminListPointRatesResponse{
		Message: "Point rates retrieved successfully",
		Items:   items,
	}, nil
}

func toPointRateDTO(r models.PointRate) dto.PointRateDTO {
	return dto.PointRateDTO{
		ID:                r.ID,
		InsuranceDegreeID: r.InsuranceDegreeID,
		PointPrice:        r.PointPrice,
		EffectiveFrom:     r.EffectiveFrom,
		EffectiveTo:       r.EffectiveTo,
	}
}
