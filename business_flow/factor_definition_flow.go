package businessflow

import (
	"context"
	"time"

	"github.com/alqaisi42/medexaTPA-sub003/app/dto"
	"github.com/alqaisi42/medexaTPA-sub003/models"
	"github.com/alqaisi42/medexaTPA-sub003/repository"
	"github.com/alqaisi42/medexaTPA-sub003/utils"
)

// FactorDefinitionFlow defines admin operations for pricing factor definitions.
type FactorDefinitionFlow interface {
	AdminCreateFactorDefinition(ctx context.Context, req *dto.AdminCreateFactorDefinitionRequest) (*dto.AdminCreateFactorDefinitionResponse, error)
	AdminUpdateFactorDefinition(ctx context.Context, req *dto.AdminUpdateFactorDefinitionRequest) (*dto.AdminUpdateFactorDefinitionResponse, error)
	AdminDeleteFactorDefinition(ctx context.Context, id uint) (*dto.AdminDeleteFactorDefinitionResponse, error)
	AdminListFactorDefinitions(ctx context.Context) (*dto.AdminListFactorDefinitionsResponse, error)
}

type FactorDefinitionFlowImpl struct {
	defRepo repository.FactorDefinitionRepository
}

func NewFactorDefinitionFlow(defRepo repository.FactorDefinitionRepository) FactorDefinitionFlow {
	return &FactorDefinitionFlowImpl{defRepo: defRepo}
}

// AdminCreateFactorDefinition validates and persists a new factor definition.
func (f *FactorDefinitionFlowImpl) AdminCreateFactorDefinition(ctx context.Context, req *dto.AdminCreateFactorDefinitionRequest) (*dto.AdminCreateFactorDefinitionResponse, error) {
	def, err := f.buildDefinition(req)
	if err != nil {
		return nil, err
	}

	existing, err := f.defRepo.ByKey(ctx, def.Key)
	if err != nil {
		return nil, NewBusinessError("FACTOR_DEFINITION_LOAD_FAILED", "Failed to check factor key uniqueness", err)
	}
	if existing != nil {
		return nil, NewBusinessErrorf("FACTOR_KEY_EXISTS", "Factor key %q already exists", ErrFactorKeyAlreadyExists, def.Key)
	}

	if err := f.defRepo.Save(ctx, def); err != nil {
		return nil, NewBusinessError("FACTOR_DEFINITION_SAVE_FAILED", "Failed to save factor definition", err)
	}

	return &dto.AdminCreateFactorDefinitionResponse{
		Message:    "Factor definition created successfully",
		Definition: toFactorDefinitionDTO(*def),
	}, nil
}

// AdminUpdateFactorDefinition replaces an existing definition.
func (f *FactorDefinitionFlowImpl) AdminUpdateFactorDefinition(ctx context.Context, req *dto.AdminUpdateFactorDefinitionRequest) (*dto.AdminUpdateFactorDefinitionResponse, error) {
	existing, err := f.defRepo.ByID(ctx, req.ID)
	if err != nil {
		return nil, NewBusinessError("FACTOR_DEFINITION_LOAD_FAILED", "Failed to load factor definition", err)
	}
	if existing == nil {
		return nil, NewBusinessError("FACTOR_DEFINITION_NOT_FOUND", "Factor definition not found", ErrFactorDefinitionNotFound)
	}

	def, err := f.buildDefinition(&req.AdminCreateFactorDefinitionRequest)
	if err != nil {
		return nil, err
	}
	if def.Key != existing.Key {
		dup, err := f.defRepo.ByKey(ctx, def.Key)
		if err != nil {
			return nil, NewBusinessError("FACTOR_DEFINITION_LOAD_FAILED", "Failed to check factor key uniqueness", err)
		}
		if dup != nil {
			return nil, NewBusinessErrorf("FACTOR_KEY_EXISTS", "Factor key %q already exists", ErrFactorKeyAlreadyExists, def.Key)
		}
	}
	def.ID = existing.ID
	def.CreatedAt = existing.CreatedAt
	def.UpdatedAt = utils.UTCNow()

	if err := f.defRepo.Update(ctx, def); err != nil {
		return nil, NewBusinessError("FACTOR_DEFINITION_UPDATE_FAILED", "Failed to update factor definition", err)
	}

	return &dto.AdminUpdateFactorDefinitionResponse{
		Message:    "Factor definition updated successfully",
		Definition: toFactorDefinitionDTO(*def),
	}, nil
}

// AdminDeleteFactorDefinition removes a definition by ID.
func (f *FactorDefinitionFlowImpl) AdminDeleteFactorDefinition(ctx context.Context, id uint) (*dto.AdminDeleteFactorDefinitionResponse, error) {
	existing, err := f.defRepo.ByID(ctx, id)
	if err != nil {
		return nil, NewBusinessError("FACTOR_DEFINITION_LOAD_FAILED", "Failed to load factor definition", err)
	}
	if existing == nil {
		return nil, NewBusinessError("FACTOR_DEFINITION_NOT_FOUND", "Factor definition not found", ErrFactorDefinitionNotFound)
	}

	if err := f.defRepo.Delete(ctx, id); err != nil {
		return nil, NewBusinessError("FACTOR_DEFINITION_DELETE_FAILED", "Failed to delete factor definition", err)
	}

	return &dto.AdminDeleteFactorDefinitionResponse{
		Message: "Factor definition deleted successfully",
	}, nil
}

// AdminListFactorDefinitions returns all definitions in key order.
func (f *FactorDefinitionFlowImpl) AdminListFactorDefinitions(ctx context.Context) (*dto.AdminListFactorDefinitionsResponse, error) {
	defs, err := f.defRepo.ByFilter(ctx, models.PricingFactorDefinitionFilter{}, "key ASC", 0, 0)
	if err != nil {
		return nil, NewBusinessError("FACTOR_DEFINITION_LIST_FAILED", "Failed to list factor definitions", err)
	}

	items := make([]dto.FactorDefinitionDTO, 0, len(defs))
	for _, d := range defs {
		items = append(items, toFactorDefinitionDTO(*d))
	}

	return &dto.AdminListFactorDefinitionsResponse{
		Message: "Factor definitions retrieved successfully",
		Items:   items,
	}, nil
}

func (f *FactorDefinitionFlowImpl) buildDefinition(req *dto.AdminCreateFactorDefinitionRequest) (*models.PricingFactorDefinition, error) {
	dataType := models.FactorDataType(req.DataType)
	if !dataType.Valid() {
		return nil, NewBusinessErrorf("FACTOR_DATA_TYPE_INVALID", "Factor data type %q is not supported", ErrFactorDataTypeInvalid, req.DataType)
	}
	if dataType == models.FactorDataTypeSelect && len(req.AllowedValues) == 0 {
		return nil, NewBusinessError("ALLOWED_VALUES_REQUIRED", "SELECT factors require allowed values", ErrAllowedValuesRequired)
	}

	def := &models.PricingFactorDefinition{
		Key:           req.Key,
		NameEn:        req.NameEn,
		DataType:      dataType,
		AllowedValues: models.StringList(req.AllowedValues),
		IsActive:      req.IsActive,
		CreatedAt:     utils.UTCNow(),
		UpdatedAt:     utils.UTCNow(),
	}
	if def.IsActive == nil {
		def.IsActive = utils.ToPtr(true)
	}
	return def, nil
}

func toFactorDefinitionDTO(def models.PricingFactorDefinition) dto.FactorDefinitionDTO {
	return dto.FactorDefinitionDTO{
		ID:            def.ID,
		Key:           def.Key,
		NameEn:        def.NameEn,
		DataType:      string(def.DataType),
		AllowedValues: def.AllowedValues,
		IsActive:      utils.IsTrue(def.IsActive),
		CreatedAt:     def.CreatedAt.Format(time.RFC3339),
	}
}
