package businessflow

import (
	"context"

	"github.com/alqaisi42/medexaTPA-sub003/app/dto"
	"github.com/alqaisi42/medexaTPA-sub003/models"
	"github.com/alqaisi42/medexaTPA-sub003/repository"
	"github.com/alqaisi42/medexaTPA-sub003/utils"
)

// InsuranceDegreeFlow defines admin operations for insurance degree reference data.
type InsuranceDegreeFlow interface {
	AdminCreateInsuranceDegree(ctx context.Context, req *dto.AdminCreateInsuranceDegreeRequest) (*dto.AdminCreateInsuranceDegreeResponse, error)
	AdminUpdateInsuranceDegree(ctx context.Context, req *dto.AdminUpdateInsuranceDegreeRequest) (*dto.AdminUpdateInsuranceDegreeResponse, error)
	AdminListInsuranceDegrees(ctx context.Context) (*dto.AdminListInsuranceDegreesResponse, error)
}

type InsuranceDegreeFlowImpl struct {
	degreeRepo repository.InsuranceDegreeRepository
}

func NewInsuranceDegreeFlow(degreeRepo repository.InsuranceDegreeRepository) InsuranceDegreeFlow {
	return &InsuranceDegreeFlowImpl{degreeRepo: degreeRepo}
}

func (f *InsuranceDegreeFlowImpl) AdminCreateInsuranceDegree(ctx context.Context, req *dto.AdminCreateInsuranceDegreeRequest) (*dto.AdminCreateInsuranceDegreeResponse, error) {
	existing, err := f.degreeRepo.ByCode(ctx, req.Code)
	if err != nil {
		return nil, NewBusinessError("INSURANCE_DEGREE_LOAD_FAILED", "Failed to check degree code uniqueness", err)
	}
	if existing != nil {
		return nil, NewBusinessErrorf("DEGREE_CODE_EXISTS", "Insurance degree code %q already exists", ErrDegreeCodeExists, req.Code)
	}

	degree := &models.InsuranceDegree{
		Code:      req.Code,
		NameEn:    req.NameEn,
		IsActive:  req.IsActive,
		CreatedAt: utils.UTCNow(),
		UpdatedAt: utils.UTCNow(),
	}
	if degree.IsActive == nil {
		degree.IsActive = utils.ToPtr(true)
	}

	if err := f.degreeRepo.Save(ctx, degree); err != nil {
		return nil, NewBusinessError("INSURANCE_DEGREE_SAVE_FAILED", "Failed to save insurance degree", err)
	}

	return &dto.AdminCreateInsuranceDegreeResponse{
		Message: "Insurance degree created successfully",
		Degree:  toInsuranceDegreeDTO(*degree),
	}, nil
}

func (f *InsuranceDegreeFlowImpl) AdminUpdateInsuranceDegree(ctx context.Context, req *dto.AdminUpdateInsuranceDegreeRequest) (*dto.AdminUpdateInsuranceDegreeResponse, error) {
	existing, err := f.degreeRepo.ByID(ctx, req.ID)
	if err != nil {
		return nil, NewBusinessError("INSURANCE_DEGREE_LOAD_FAILED", "Failed to load insurance degree", err)
	}
	if existing == nil {
		return nil, NewBusinessError("INSURANCE_DEGREE_NOT_FOUND", "Insurance degree not found", ErrInsuranceDegreeNotFound)
	}

	if req.Code != existing.Code {
		dup, err := f.degreeRepo.ByCode(ctx, req.Code)
		if err != nil {
			return nil, NewBusinessError("INSURANCE_DEGREE_LOAD_FAILED", "Failed to check degree code uniqueness", err)
		}
		if dup != nil {
			return nil, NewBusinessErrorf("DEGREE_CODE_EXISTS", "Insurance degree code %q already exists", ErrDegreeCodeExists, req.Code)
		}
	}

	existing.Code = req.Code
	existing.NameEn = req.NameEn
	if req.IsActive != nil {
		existing.IsActive = req.IsActive
	}
	existing.UpdatedAt = utils.UTCNow()

	if err := f.degreeRepo.Update(ctx, existing); err != nil {
		return nil, NewBusinessError("INSURANCE_DEGREE_UPDATE_FAILED", "Failed to update insurance degree", err)
	}

	return &dto.AdminUpdateInsuranceDegreeResponse{
		Message: "Insurance degree updated successfully",
		Degree:  toInsuranceDegreeDTO(*existing),
	}, nil
}

func (f *InsuranceDegreeFlowImpl) AdminListInsuranceDegrees(ctx context.Context) (*dto.AdminListInsuranceDegreesResponse, error) {
	degrees, err := f.degreeRepo.ByFilter(ctx, models.InsuranceDegreeFilter{}, "code ASC", 0, 0)
	if err != nil {
		return nil, NewBusinessError("INSURANCE_DEGREE_LIST_FAILED", "Failed to list insurance degrees", err)
	}

	items := make([]dto.InsuranceDegreeDTO, 0, len(degrees))
	for _, d := range degrees {
		items = append(items, toInsuranceDegreeDTO(*d))
	}

	return &dto.AdminListInsuranceDegreesResponse{
		Message: "Insurance degrees retrieved successfully",
		Items:   items,
	}, nil
}

func toInsuranceDegreeDTO(d models.InsuranceDegree) dto.InsuranceDegreeDTO {
	return dto.InsuranceDegreeDTO{
		ID:       d.ID,
		UUID:     d.UUID.String(),
		Code:     d.Code,
		NameEn:   d.NameEn,
		IsActive: utils.IsTrue(d.IsActive),
	}
}
