package businessflow

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/alqaisi42/medexaTPA-sub003/app/dto"
	"github.com/alqaisi42/medexaTPA-sub003/models"
	"github.com/alqaisi42/medexaTPA-sub003/repository"
	"github.com/alqaisi42/medexaTPA-sub003/utils"
)

// ContractFlow defines admin operations for contract pricing overlays.
type ContractFlow interface {
	AdminCreateContract(ctx context.Context, req *dto.AdminCreateContractRequest) (*dto.AdminCreateContractResponse, error)
	AdminUpdateContract(ctx context.Context, req *dto.AdminUpdateContractRequest) (*dto.AdminUpdateContractResponse, error)
	AdminListContracts(ctx context.Context) (*dto.AdminListContractsResponse, error)
}

type ContractFlowImpl struct {
	contractRepo repository.ContractRepository
	listRepo     repository.PriceListRepository
}

func NewContractFlow(contractRepo repository.ContractRepository, listRepo repository.PriceListRepository) ContractFlow {
	return &ContractFlowImpl{contractRepo: contractRepo, listRepo: listRepo}
}

func (f *ContractFlowImpl) AdminCreateContract(ctx context.Context, req *dto.AdminCreateContractRequest) (*dto.AdminCreateContractResponse, error) {
	existing, err := f.contractRepo.ByCode(ctx, req.Code)
	if err != nil {
		return nil, NewBusinessError("CONTRACT_LOAD_FAILED", "Failed to check contract code uniqueness", err)
	}
	if existing != nil {
		return nil, NewBusinessErrorf("CONTRACT_CODE_EXISTS", "Contract code %q already exists", ErrContractCodeExists, req.Code)
	}

	contract, err := f.buildContract(ctx, req)
	if err != nil {
		return nil, err
	}

	if err := f.contractRepo.Save(ctx, contract); err != nil {
		return nil, NewBusinessError("CONTRACT_SAVE_FAILED", "Failed to save contract", err)
	}

	return &dto.AdminCreateContractResponse{
		Message:  "Contract created successfully",
		Contract: ToContractDTO(*contract),
	}, nil
}

func (f *ContractFlowImpl) AdminUpdateContract(ctx context.Context, req *dto.AdminUpdateContractRequest) (*dto.AdminUpdateContractResponse, error) {
	existing, err := f.contractRepo.ByID(ctx, req.ID)
	if err != nil {
		return nil, NewBusinessError("CONTRACT_LOAD_FAILED", "Failed to load contract", err)
	}
	if existing == nil {
		return nil, NewBusinessError("CONTRACT_NOT_FOUND", "Contract not found", ErrContractNotFound)
	}

	if req.Code != existing.Code {
		dup, err := f.contractRepo.ByCode(ctx, req.Code)
		if err != nil {
			return nil, NewBusinessError("CONTRACT_LOAD_FAILED", "Failed to check contract code uniqueness", err)
		}
		if dup != nil {
			return nil, NewBusinessErrorf("CONTRACT_CODE_EXISTS", "Contract code %q already exists", ErrContractCodeExists, req.Code)
		}
	}

	contract, err := f.buildContract(ctx, &req.AdminCreateContractRequest)
	if err != nil {
		return nil, err
	}
	contract.ID = existing.ID
	contract.UUID = existing.UUID
	contract.CreatedAt = existing.CreatedAt
	contract.UpdatedAt = utils.UTCNow()

	if err := f.contractRepo.Update(ctx, contract); err != nil {
		return nil, NewBusinessError("CONTRACT_UPDATE_FAILED", "Failed to update contract", err)
	}

	return &dto.AdminUpdateContractResponse{
		Message:  "Contract updated successfully",
		Contract: ToContractDTO(*contract),
	}, nil
}

func (f *ContractFlowImpl) AdminListContracts(ctx context.Context) (*dto.AdminListContractsResponse, error) {
	contracts, err := f.contractRepo.ByFilter(ctx, models.ContractFilter{}, "code ASC", 0, 0)
	if err != nil {
		return nil, NewBusinessError("CONTRACT_LIST_FAILED", "Failed to list contracts", err)
	}

	items := make([]dto.ContractDTO, 0, len(contracts))
	for _, c := range contracts {
		items = append(items, ToContractDTO(*c))
	}

	return &dto.AdminListContractsResponse{
		Message: "Contracts retrieved successfully",
		Items:   items,
	}, nil
}

func (f *ContractFlowImpl) buildContract(ctx context.Context, req *dto.AdminCreateContractRequest) (*models.Contract, error) {
	contract := &models.Contract{
		Code:                req.Code,
		NameEn:              req.NameEn,
		OverridePriceListID: req.OverridePriceListID,
		DeductibleOverride:  req.DeductibleOverride,
		CopayOverride:       req.CopayOverride,
		AnnualCap:           req.AnnualCap,
		MonthlyCap:          req.MonthlyCap,
		PerCaseCap:          req.PerCaseCap,
		IsActive:            req.IsActive,
		CreatedAt:           utils.UTCNow(),
		UpdatedAt:           utils.UTCNow(),
	}
	if contract.IsActive == nil {
		contract.IsActive = utils.ToPtr(true)
	}

	if req.OverridePriceListID != nil {
		list, err := f.listRepo.ByID(ctx, *req.OverridePriceListID)
		if err != nil {
			return nil, NewBusinessError("PRICE_LIST_LOAD_FAILED", "Failed to load override price list", err)
		}
		if list == nil || !utils.IsTrue(list.IsActive) {
			return nil, NewBusinessError("OVERRIDE_PRICE_LIST_INVALID", "Override price list does not exist or is inactive", ErrOverridePriceListInvalid)
		}
	}

	if req.Discount != nil {
		pct := req.Discount.Percentage
		if pct.LessThan(decimal.Zero) || pct.GreaterThan(decimal.NewFromInt(100)) {
			return nil, NewBusinessError("DISCOUNT_PCT_OUT_OF_RANGE", "Discount percentage must be between 0 and 100", ErrDiscountPctOutOfRange)
		}
		if req.Discount.PeriodTo.Before(req.Discount.PeriodFrom) {
			return nil, NewBusinessError("DISCOUNT_PERIOD_INVERTED", "Discount period end precedes its start", ErrDiscountPeriodInverted)
		}
		contract.Discount = &models.DiscountSchedule{
			DiscountID: req.Discount.DiscountID,
			Percentage: pct,
			PeriodFrom: req.Discount.PeriodFrom.UTC(),
			PeriodTo:   req.Discount.PeriodTo.UTC(),
			Unit:       req.Discount.Unit,
		}
	}

	if req.CopayType != nil {
		copayType := models.CopayType(*req.CopayType)
		if !copayType.Valid() {
			return nil, NewBusinessErrorf("COPAY_TYPE_INVALID", "Copay type %q is not supported", ErrCopayTypeInvalid, *req.CopayType)
		}
		contract.CopayType = &copayType
	}

	return contract, nil
}
