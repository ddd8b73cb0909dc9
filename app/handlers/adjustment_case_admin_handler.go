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

// AdjustmentCaseAdminHandlerInterface defines admin endpoints for adjustment cases.
type AdjustmentCaseAdminHandlerInterface interface {
	CreateAdjustmentCase(c fiber.Ctx) error
	UpdateAdjustmentCase(c fiber.Ctx) error
	DeleteAdjustmentCase(c fiber.Ctx) error
	ReorderAdjustmentCases(c fiber.Ctx) error
	ListAdjustmentCases(c fiber.Ctx) error
}

// AdjustmentCaseAdminHandler implements admin endpoints for adjustment cases.
type AdjustmentCaseAdminHandler struct {
	flow      businessflow.AdjustmentCaseFlow
	validator *validator.Validate
}

func NewAdjustmentCaseAdminHandler(flow businessflow.AdjustmentCaseFlow) AdjustmentCaseAdminHandlerInterface {
	return &AdjustmentCaseAdminHandler{
		flow:      flow,
		validator: validator.New(),
	}
}

func (h *AdjustmentCaseAdminHandler) ErrorResponse(c fiber.Ctx, status int, message, code string, details any) error {
	return c.Status(status).JSON(dto.APIResponse{Success: false, Message: message, Error: dto.ErrorDetail{Code: code, Details: details}})
}

func (h *AdjustmentCaseAdminHandler) SuccessResponse(c fiber.Ctx, status int, message string, data any) error {
	return c.Status(status).JSON(dto.APIResponse{Success: true, Message: message, Data: data})
}

// CreateAdjustmentCase creates an adjustment case.
// @Summary Create Adjustment Case (Admin)
// @Tags Admin Adjustment Cases
// @Accept json
// @Produce json
// @Param request body dto.AdminCreateAdjustmentCaseRequest true "Adjustment case payload"
// @Success 201 {object} dto.APIResponse{data=dto.AdminCreateAdjustmentCaseResponse}
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Router /api/v1/admin/adjustment-cases [post]
func (h *AdjustmentCaseAdminHandler) CreateAdjustmentCase(c fiber.Ctx) error {
	var req dto.AdminCreateAdjustmentCaseRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if err := h.validator.Struct(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationMessages(err))
	}

	res, err := h.flow.AdminCreateAdjustmentCase(h.createRequestContext(c, "/api/v1/admin/adjustment-cases"), &req)
	if err != nil {
		return h.caseErrorResponse(c, err, "Create adjustment case failed", "ADJUSTMENT_CASE_CREATE_FAILED")
	}

	return h.SuccessResponse(c, fiber.StatusCreated, "Adjustment case created", res)
}

// UpdateAdjustmentCase replaces an adjustment case.
// @Summary Update Adjustment Case (Admin)
// @Tags Admin Adjustment Cases
// @Accept json
// @Produce json
// @Param id path int true "Adjustment case ID"
// @Param request body dto.AdminCreateAdjustmentCaseRequest true "Adjustment case payload"
// @Success 200 {object} dto.APIResponse{data=dto.AdminUpdateAdjustmentCaseResponse}
// @Failure 404 {object} dto.APIResponse "Case not found"
// @Router /api/v1/admin/adjustment-cases/{id} [put]
func (h *AdjustmentCaseAdminHandler) UpdateAdjustmentCase(c fiber.Ctx) error {
	id, ok := h.parseIDParam(c)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid case id", "INVALID_REQUEST", nil)
	}

	var req dto.AdminUpdateAdjustmentCaseRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	req.ID = id
	if err := h.validator.Struct(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationMessages(err))
	}

	res, err := h.flow.AdminUpdateAdjustmentCase(h.createRequestContext(c, "/api/v1/admin/adjustment-cases/{id}"), &req)
	if err != nil {
		return h.caseErrorResponse(c, err, "Update adjustment case failed", "ADJUSTMENT_CASE_UPDATE_FAILED")
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Adjustment case updated", res)
}

// DeleteAdjustmentCase removes an adjustment case.
// @Summary Delete Adjustment Case (Admin)
// @Tags Admin Adjustment Cases
// @Produce json
// @Param id path int true "Adjustment case ID"
// @Success 200 {object} dto.APIResponse{data=dto.AdminDeleteAdjustmentCaseResponse}
// @Failure 404 {object} dto.APIResponse "Case not found"
// @Router /api/v1/admin/adjustment-cases/{id} [delete]
func (h *AdjustmentCaseAdminHandler) DeleteAdjustmentCase(c fiber.Ctx) error {
	id, ok := h.parseIDParam(c)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid case id", "INVALID_REQUEST", nil)
	}

	res, err := h.flow.AdminDeleteAdjustmentCase(h.createRequestContext(c, "/api/v1/admin/adjustment-cases/{id}"), id)
	if err != nil {
		return h.caseErrorResponse(c, err, "Delete adjustment case failed", "ADJUSTMENT_CASE_DELETE_FAILED")
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Adjustment case deleted", res)
}

// ReorderAdjustmentCases rewrites the evaluation order of active cases.
// @Summary Reorder Adjustment Cases (Admin)
// @Tags Admin Adjustment Cases
// @Accept json
// @Produce json
// @Param request body dto.AdminReorderAdjustmentCasesRequest true "Ordered case IDs"
// @Success 200 {object} dto.APIResponse{data=dto.AdminReorderAdjustmentCasesResponse}
// @Failure 400 {object} dto.APIResponse "Incomplete ID set"
// @Router /api/v1/admin/adjustment-cases/reorder [post]
func (h *AdjustmentCaseAdminHandler) ReorderAdjustmentCases(c fiber.Ctx) error {
	var req dto.AdminReorderAdjustmentCasesRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if err := h.validator.Struct(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationMessages(err))
	}

	res, err := h.flow.AdminReorderAdjustmentCases(h.createRequestContext(c, "/api/v1/admin/adjustment-cases/reorder"), &req)
	if err != nil {
		return h.caseErrorResponse(c, err, "Reorder adjustment cases failed", "ADJUSTMENT_CASE_REORDER_FAILED")
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Adjustment cases reordered", res)
}

// ListAdjustmentCases lists all cases in evaluation order.
// @Summary List Adjustment Cases (Admin)
// @Tags Admin Adjustment Cases
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.AdminListAdjustmentCasesResponse}
// @Failure 500 {object} dto.APIResponse "List failed"
// @Router /api/v1/admin/adjustment-cases [get]
func (h *AdjustmentCaseAdminHandler) ListAdjustmentCases(c fiber.Ctx) error {
	res, err := h.flow.AdminListAdjustmentCases(h.createRequestContext(c, "/api/v1/admin/adjustment-cases"))
	if err != nil {
		log.Println("List adjustment cases failed:", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "List adjustment cases failed", "ADJUSTMENT_CASE_LIST_FAILED", nil)
	}
	return h.SuccessResponse(c, fiber.StatusOK, "Adjustment cases retrieved", res)
}

func (h *AdjustmentCaseAdminHandler) caseErrorResponse(c fiber.Ctx, err error, fallbackMessage, fallbackCode string) error {
	if bizErr, ok := err.(*businessflow.BusinessError); ok {
		switch {
		case businessflow.IsAdjustmentCaseNotFound(err):
			return h.ErrorResponse(c, fiber.StatusNotFound, bizErr.Message, bizErr.Code, nil)
		case businessflow.IsAdjustmentTypeInvalid(err),
			businessflow.IsReorderIDsIncomplete(err),
			businessflow.IsConditionOperatorInvalid(err),
			businessflow.IsConditionFactorKeyUnknown(err):
			return h.ErrorResponse(c, fiber.StatusBadRequest, bizErr.Message, bizErr.Code, nil)
		}
	}
	log.Println(fallbackMessage+":", err)
	return h.ErrorResponse(c, fiber.StatusInternalServerError, fallbackMessage, fallbackCode, nil)
}

func (h *AdjustmentCaseAdminHandler) parseIDParam(c fiber.Ctx) (uint, bool) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

func (h *AdjustmentCaseAdminHandler) createRequestContext(c fiber.Ctx, endpoint string) context.Context {
	return h.createRequestContextWithTimeout(c, endpoint, utils.DefaultRequestTimeout)
}

func (h *AdjustmentCaseAdminHandler) createRequestContextWithTimeout(c fiber.Ctx, endpoint string, timeout time.Duration) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	ctx = context.WithValue(ctx, utils.RequestIDKey, c.Get("X-Request-ID"))
	ctx = context.WithValue(ctx, utils.UserAgentKey, c.Get("User-Agent"))
	ctx = context.WithValue(ctx, utils.IPAddressKey, c.IP())
	ctx = context.WithValue(ctx, utils.EndpointKey, endpoint)
	ctx = context.WithValue(ctx, utils.TimeoutKey, timeout)
	ctx = context.WithValue(ctx, utils.CancelFuncKey, cancel)
	return ctx
}
