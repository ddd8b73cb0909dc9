package businessflow

import (
	"context"

	"github.com/alqaisi42/medexaTPA-sub003/app/dto"
	"github.com/alqaisi42/medexaTPA-sub003/models"
	"github.com/alqaisi42/medexaTPA-sub003/repository"
	"github.com/alqaisi42/medexaTPA-sub003/utils"
)

// AdjustmentCaseFlow defines admin operations for post-base adjustment cases.
type AdjustmentCaseFlow interface {
	AdminCreateAdjustmentCase(ctx context.Context, req *dto.AdminCreateAdjustmentCaseRequest) (*dto.AdminCreateAdjustmentCaseResponse, error)
	AdminUpdateAdjustmentCase(ctx context.Context, req *dto.AdminUpdateAdjustmentCaseRequest) (*dto.AdminUpdateAdjustmentCaseResponse, error)
	AdminDeleteAdjustmentCase(ctx context.Context, id uint) (*dto.AdminDeleteAdjustmentCaseResponse, error)
	AdminReorderAdjustmentCases(ctx context.Context, req *dto.AdminReorderAdjustmentCasesRequest) (*dto.AdminReorderAdjustmentCasesResponse, error)
	AdminListAdjustmentCases(ctx context.Context) (*dto.AdminListAdjustmentCasesResponse, error)
}

type AdjustmentCaseFlowImpl struct {
	caseRepo repository.AdjustmentCaseRepository
	defRepo  repository.FactorDefinitionRepository
}

func NewAdjustmentCaseFlow(caseRepo repository.AdjustmentCaseRepository, defRepo repository.FactorDefinitionRepository) AdjustmentCaseFlow {
	return &AdjustmentCaseFlowImpl{caseRepo: caseRepo, defRepo: defRepo}
}

func (f *AdjustmentCaseFlowImpl) AdminCreateAdjustmentCase(ctx context.Context, req *dto.AdminCreateAdjustmentCaseRequest) (*dto.AdminCreateAdjustmentCaseResponse, error) {
	adjCase, err := f.buildCase(ctx, req)
	if err != nil {
		return nil, err
	}

	if req.Position != nil {
		adjCase.Position = *req.Position
	} else {
		// Append to the end of the evaluation order.
		active, err := f.caseRepo.ListActiveOrdered(ctx)
		if err != nil {
			return nil, NewBusinessError("ADJUSTMENT_CASE_LOAD_FAILED", "Failed to load adjustment cases", err)
		}
		if len(active) > 0 {
			adjCase.Position = active[len(active)-1].Position + 1
		} else {
			adjCase.Position = 1
		}
	}

	if err := f.caseRepo.Save(ctx, adjCase); err != nil {
		return nil, NewBusinessError("ADJUSTMENT_CASE_SAVE_FAILED", "Failed to save adjustment case", err)
	}

	return &dto.AdminCreateAdjustmentCaseResponse{
		Message: "Adjustment case created successfully",
		Case:    ToAdjustmentCaseDTO(*adjCase),
	}, nil
}

func (f *AdjustmentCaseFlowImpl) AdminUpdateAdjustmentCase(ctx context.Context, req *dto.AdminUpdateAdjustmentCaseRequest) (*dto.AdminUpdateAdjustmentCaseResponse, error) {
	existing, err := f.caseRepo.ByID(ctx, req.ID)
	if err != nil {
		return nil, NewBusinessError("ADJUSTMENT_CASE_LOAD_FAILED", "Failed to load adjustment case", err)
	}
	if existing == nil {
		return nil, NewBusinessError("ADJUSTMENT_CASE_NOT_FOUND", "Adjustment case not found", ErrAdjustmentCaseNotFound)
	}

	adjCase, err := f.buildCase(ctx, &req.AdminCreateAdjustmentCaseRequest)
	if err != nil {
		return nil, err
	}
	adjCase.ID = existing.ID
	adjCase.CreatedAt = existing.CreatedAt
	adjCase.UpdatedAt = utils.UTCNow()
	if req.Position != nil {
		adjCase.Position = *req.Position
	} else {
		adjCase.Position = existing.Position
	}

	if err := f.caseRepo.Update(ctx, adjCase); err != nil {
		return nil, NewBusinessError("ADJUSTMENT_CASE_UPDATE_FAILED", "Failed to update adjustment case", err)
	}

	return &dto.AdminUpdateAdjustmentCaseResponse{
		Message: "Adjustment case updated successfully",
		Case:    ToAdjustmentCaseDTO(*adjCase),
	}, nil
}

func (f *AdjustmentCaseFlowImpl) AdminDeleteAdjustmentCase(ctx context.Context, id uint) (*dto.AdminDeleteAdjustmentCaseResponse, error) {
	existing, err := f.caseRepo.ByID(ctx, id)
	if err != nil {
		return nil, NewBusinessError("ADJUSTMENT_CASE_LOAD_FAILED", "Failed to load adjustment case", err)
	}
	if existing == nil {
		return nil, NewBusinessError("ADJUSTMENT_CASE_NOT_FOUND", "Adjustment case not found", ErrAdjustmentCaseNotFound)
	}

	if err := f.caseRepo.Delete(ctx, id); err != nil {
		return nil, NewBusinessError("ADJUSTMENT_CASE_DELETE_FAILED", "Failed to delete adjustment case", err)
	}

	return &dto.AdminDeleteAdjustmentCaseResponse{
		Message: "Adjustment case deleted successfully",
	}, nil
}

// AdminReorderAdjustmentCases rewrites the evaluation order of all active
// cases. The request must list every active case ID exactly once.
func (f *AdjustmentCaseFlowImpl) AdminReorderAdjustmentCases(ctx context.Context, req *dto.AdminReorderAdjustmentCasesRequest) (*dto.AdminReorderAdjustmentCasesResponse, error) {
	active, err := f.caseRepo.ListActiveOrdered(ctx)
	if err != nil {
		return nil, NewBusinessError("ADJUSTMENT_CASE_LOAD_FAILED", "Failed to load adjustment cases", err)
	}

	if len(req.OrderedIDs) != len(active) {
		return nil, NewBusinessError("REORDER_IDS_INCOMPLETE", "Reorder must list every active adjustment case exactly once", ErrReorderIDsIncomplete)
	}
	activeIDs := make(map[uint]bool, len(active))
	for _, c := range active {
		activeIDs[c.ID] = true
	}
	seen := make(map[uint]bool, len(req.OrderedIDs))
	for _, id := range req.OrderedIDs {
		if !activeIDs[id] || seen[id] {
			return nil, NewBusinessError("REORDER_IDS_INCOMPLETE", "Reorder must list every active adjustment case exactly once", ErrReorderIDsIncomplete)
		}
		seen[id] = true
	}

	if err := f.caseRepo.Reorder(ctx, req.OrderedIDs); err != nil {
		return nil, NewBusinessError("ADJUSTMENT_CASE_REORDER_FAILED", "Failed to reorder adjustment cases", err)
	}

	return &dto.AdminReorderAdjustmentCasesResponse{
		Message: "Adjustment cases reordered successfully",
	}, nil
}

func (f *AdjustmentCaseFlowImpl) AdminListAdjustmentCases(ctx context.Context) (*dto.AdminListAdjustmentCasesResponse, error) {
	cases, err := f.caseRepo.ByFilter(ctx, models.AdjustmentCaseFilter{}, "position ASC, id ASC", 0, 0)
	if err != nil {
		return nil, NewBusinessError("ADJUSTMENT_CASE_LIST_FAILED", "Failed to list adjustment cases", err)
	}

	items := make([]dto.AdjustmentCaseDTO, 0, len(cases))
	for _, c := range cases {
		items = append(items, ToAdjustmentCaseDTO(*c))
	}

	return &dto.AdminListAdjustmentCasesResponse{
		Message: "Adjustment cases retrieved successfully",
		Items:   items,
	}, nil
}

func (f *AdjustmentCaseFlowImpl) buildCase(ctx context.Context, req *dto.AdminCreateAdjustmentCaseRequest) (*models.AdjustmentCase, error) {
	adjType := models.AdjustmentType(req.AdjustmentType)
	if !adjType.Valid() {
		return nil, NewBusinessErrorf("ADJUSTMENT_TYPE_INVALID", "Adjustment type %q is not supported", ErrAdjustmentTypeInvalid, req.AdjustmentType)
	}

	conditions, err := parseConditions(req.MatchCondition)
	if err != nil {
		return nil, err
	}
	if len(conditions) > 0 {
		defs, err := f.defRepo.ListActive(ctx)
		if err != nil {
			return nil, NewBusinessError("FACTOR_DEFINITION_LOAD_FAILED", "Failed to load factor definitions", err)
		}
		known := make(map[string]bool, len(defs))
		for _, d := range defs {
			known[d.Key] = true
		}
		for _, c := range conditions {
			if !known[c.FactorKey] {
				return nil, NewBusinessErrorf("CONDITION_FACTOR_KEY_UNKNOWN", "Condition factor key %q has no active definition", ErrConditionFactorKeyUnknown, c.FactorKey)
			}
		}
	}

	adjCase := &models.AdjustmentCase{
		NameEn:         req.NameEn,
		MatchCondition: conditions,
		AdjustmentType: adjType,
		Amount:         req.Amount,
		IsActive:       req.IsActive,
		CreatedAt:      utils.UTCNow(),
		UpdatedAt:      utils.UTCNow(),
	}
	if adjCase.IsActive == nil {
		adjCase.IsActive = utils.ToPtr(true)
	}
	return adjCase, nil
}
