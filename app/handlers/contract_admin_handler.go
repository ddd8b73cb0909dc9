package handlers

import (
	"context"
	"log"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"

	"github.com/alqaisi42/medexaTPA-sub003/app/dto"
	businessflow "github.com/alqaisi42/medexaTPA-sub003/business_flow"
	"github.com/alqaisi42/medexaTPA-sub003/utils"
)

// ContractAdminHandlerInterface defines admin endpoints for contracts.
type ContractAdminHandlerInterface interface {
	CreateContract(c fiber.Ctx) error
	UpdateContract(c fiber.Ctx) error
	ListContracts(c fiber.Ctx) error
}

// ContractAdminHandler implements admin endpoints for contracts.
type ContractAdminHandler struct {
	flow      businessflow.ContractFlow
	validator *validator.Validate
}

func NewContractAdminHandler(flow businessflow.ContractFlow) ContractAdminHandlerInterface {
	return &ContractAdminHandler{
		flow:      flow,
		validator: validator.New(),
	}
}

func (h *ContractAdminHandler) ErrorResponse(c fiber.Ctx, status int, message, code string, details any) error {
	return c.Status(status).JSON(dto.APIResponse{Success: false, Message: message, Error: dto.ErrorDetail{Code: code, Details: details}})
}

func (h *ContractAdminHandler) SuccessResponse(c fiber.Ctx, status int, message string, data any) error {
	return c.Status(status).JSON(dto.APIResponse{Success: true, Message: message, Data: data})
}

// CreateContract creates a contract with its pricing overlay.
// @Summary Create Contract (Admin)
// @Tags Admin Contracts
// @Accept json
// @Produce json
// @Param request body dto.AdminCreateContractRequest true "Contract payload"
// @Success 201 {object} dto.APIResponse{data=dto.AdminCreateContractResponse}
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Failure 409 {object} dto.APIResponse "Code exists"
// @Router /api/v1/admin/contracts [post]
func (h *ContractAdminHandler) CreateContract(c fiber.Ctx) error {
	var req dto.AdminCreateContractRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if err := h.validator.Struct(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationMessages(err))
	}

	res, err := h.flow.AdminCreateContract(h.createRequestContext(c, "/api/v1/admin/contracts"), &req)
	if err != nil {
		return h.contractErrorResponse(c, err, "Create contract failed", "CONTRACT_CREATE_FAILED")
	}

	return h.SuccessResponse(c, fiber.StatusCreated, "Contract created", res)
}

// UpdateContract replaces a contract's pricing overlay.
// @Summary Update Contract (Admin)
// @Tags Admin Contracts
// @Accept json
// @Produce json
// @Param id path int true "Contract ID"
// @Param request body dto.AdminCreateContractRequest true "Contract payload"
// @Success 200 {object} dto.APIResponse{data=dto.AdminUpdateContractResponse}
// @Failure 404 {object} dto.APIResponse "Contract not found"
// @Router /api/v1/admin/contracts/{id} [put]
func (h *ContractAdminHandler) UpdateContract(c fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil || id == 0 {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid contract id", "INVALID_REQUEST", nil)
	}

	var req dto.AdminUpdateContractRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	req.ID = uint(id)
	if err := h.validator.Struct(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationMessages(err))
	}

	res, flowErr := h.flow.AdminUpdateContract(h.createRequestContext(c, "/api/v1/admin/contracts/{id}"), &req)
	if flowErr != nil {
		return h.contractErrorResponse(c, flowErr, "Update contract failed", "CONTRACT_UPDATE_FAILED")
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Contract updated", res)
}

// ListContracts lists all contracts.
// @Summary List Contracts (Admin)
// @Tags Admin Contracts
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.AdminListContractsResponse}
// @Failure 500 {object} dto.APIResponse "List failed"
// @Router /api/v1/admin/contracts [get]
func (h *ContractAdminHandler) ListContracts(c fiber.Ctx) error {
	res, err := h.flow.AdminListContracts(h.createRequestContext(c, "/api/v1/admin/contracts"))
	if err != nil {
		log.Println("List contracts failed:", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "List contracts failed", "CONTRACT_LIST_FAILED", nil)
	}
	return h.SuccessResponse(c, fiber.StatusOK, "Contracts retrieved", res)
}

func (h *ContractAdminHandler) contractErrorResponse(c fiber.Ctx, err error, fallbackMessage, fallbackCode string) error {
	if bizErr, ok := err.(*businessflow.BusinessError); ok {
		switch {
		case businessflow.IsContractNotFound(err):
			return h.ErrorResponse(c, fiber.StatusNotFound, bizErr.Message, bizErr.Code, nil)
		case businessflow.IsContractCodeExists(err):
			return h.ErrorResponse(c, fiber.StatusConflict, bizErr.Message, bizErr.Code, nil)
		case businessflow.IsDiscountPctOutOfRange(err),
			businessflow.IsDiscountPeriodInverted(err),
			businessflow.IsOverridePriceListInvalid(err),
			businessflow.IsCopayTypeInvalid(err):
			return h.ErrorResponse(c, fiber.StatusBadRequest, bizErr.Message, bizErr.Code, nil)
		}
	}
	log.Println(fallbackMessage+":", err)
	return h.ErrorResponse(c, fiber.StatusInternalServerError, fallbackMessage, fallbackCode, nil)
}

func (h *ContractAdminHandler) createRequestContext(c fiber.Ctx, endpoint string) context.Context {
	return h.createRequestContextWithTimeout(c, endpoint, utils.DefaultRequestTimeout)
}

func (h *ContractAdminHandler) createRequestContextWithTimeout(c fiber.Ctx, endpoint string, timeout time.Duration) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	ctx = context.WithValue(ctx, utils.RequestIDKey, c.Get("X-Request-ID"))
	ctx = context.WithValue(ctx, utils.UserAgentKey, c.Get("User-Agent"))
	ctx = context.WithValue(ctx, utils.IPAddressKey, c.IP())
	ctx = context.WithValue(ctx, utils.EndpointKey, endpoint)
	ctx = context.WithValue(ctx, utils.TimeoutKey, timeout)
	ctx = context.WithValue(ctx, utils.CancelFuncKey, cancel)
	return ctx
}
