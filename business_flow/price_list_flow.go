package businessflow

import (
	"context"

	"github.com/alqaisi42/medexaTPA-sub003/app/dto"
	"github.com/alqaisi42/medexaTPA-sub003/models"
	"github.com/alqaisi42/medexaTPA-sub003/repository"
	"github.com/alqaisi42/medexaTPA-sub003/utils"
)

// PriceListFlow defines admin operations for price list reference data.
type PriceListFlow interface {
	AdminCreatePriceList(ctx context.Context, req *dto.AdminCreatePriceListRequest) (*dto.AdminCreatePriceListResponse, error)
	AdminUpdatePriceList(ctx context.Context, req *dto.AdminUpdatePriceListRequest) (*dto.AdminUpdatePriceListResponse, error)
	AdminListPriceLists(ctx context.Context) (*dto.AdminListPriceListsResponse, error)
}

type PriceListFlowImpl struct {
	listRepo repository.PriceListRepository
}

func NewPriceListFlow(listRepo repository.PriceListRepository) PriceListFlow {
	return &PriceListFlowImpl{listRepo: listRepo}
}

func (f *PriceListFlowImpl) AdminCreatePriceList(ctx context.Context, req *dto.AdminCreatePriceListRequest) (*dto.AdminCreatePriceListResponse, error) {
	existing, err := f.listRepo.ByCode(ctx, req.Code)
	if err != nil {
		return nil, NewBusinessError("PRICE_LIST_LOAD_FAILED", "Failed to check price list code uniqueness", err)
	}
	if existing != nil {
		return nil, NewBusinessErrorf("PRICE_LIST_CODE_EXISTS", "Price list code %q already exists", ErrPriceListCodeExists, req.Code)
	}

	list := &models.PriceList{
		Code:      req.Code,
		NameEn:    req.NameEn,
		IsActive:  req.IsActive,
		CreatedAt: utils.UTCNow(),
		UpdatedAt: utils.UTCNow(),
	}
	if list.IsActive == nil {
		list.IsActive = utils.ToPtr(true)
	}

	if err := f.listRepo.Save(ctx, list); err != nil {
		return nil, NewBusinessError("PRICE_LIST_SAVE_FAILED", "Failed to save price list", err)
	}

	return &dto.AdminCreatePriceListResponse{
		Message:   "Price list created successfully",
		PriceList: toPriceListDTO(*list),
	}, nil
}

func (f *PriceListFlowImpl) AdminUpdatePriceList(ctx context.Context, req *dto.AdminUpdatePriceListRequest) (*dto.AdminUpdatePriceListResponse, error) {
	existing, err := f.listRepo.ByID(ctx, req.ID)
	if err != nil {
		return nil, NewBusinessError("PRICE_LIST_LOAD_FAILED", "Failed to load price list", err)
	}
	if existing == nil {
		return nil, NewBusinessError("PRICE_LIST_NOT_FOUND", "Price list not found", ErrPriceListNotFound)
	}

	if req.Code != existing.Code {
		dup, err := f.listRepo.ByCode(ctx, req.Code)
		if err != nil {
			return nil, NewBusinessError("PRICE_LIST_LOAD_FAILED", "Failed to check price list code uniqueness", err)
		}
		if dup != nil {
			return nil, NewBusinessErrorf("PRICE_LIST_CODE_EXISTS", "Price list code %q already exists", ErrPriceListCodeExists, req.Code)
		}
	}

	existing.Code = req.Code
	existing.NameEn = req.NameEn
	if req.IsActive != nil {
		existing.IsActive = req.IsActive
	}
	existing.UpdatedAt = utils.UTCNow()

	if err := f.listRepo.Update(ctx, existing); err != nil {
		return nil, NewBusinessError("PRICE_LIST_UPDATE_FAILED", "Failed to update price list", err)
	}

	return &dto.AdminUpdatePriceListResponse{
		Message:   "Price list updated successfully",
		PriceList: toPriceListDTO(*existing),
	}, nil
}

func (f *PriceListFlowImpl) AdminListPriceLists(ctx context.Context) (*dto.AdminListPriceListsResponse, error) {
	lists, err := f.listRepo.ByFilter(ctx, models.PriceListFilter{}, "code ASC", 0, 0)
	if err != nil {
		return nil, NewBusinessError("PRICE_LIST_LIST_FAILED", "Failed to list price lists", err)
	}

	items := make([]dto.PriceListDTO, 0, len(lists))
	for _, l := range lists {
		items = append(items, toPriceListDTO(*l))
	}

	return &dto.AdminListPriceListsResponse{
		Message: "Price lists retrieved successfully",
		Items:   items,
	}, nil
}

func toPriceListDTO(l models.PriceList) dto.PriceListDTO {
	return dto.PriceListDTO{
		ID:       l.ID,
		UUID:     l.UUID.String(),
		Code:     l.Code,
		NameEn:   l.NameEn,
		IsActive: utils.IsTrue(l.IsActive),
	}
}
