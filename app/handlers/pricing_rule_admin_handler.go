package handlers

import (
	"context"
	"io"
	"log"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"

	"github.com/alqaisi42/medexaTPA-sub003/app/dto"
	businessflow "github.com/alqaisi42/medexaTPA-sub003/business_flow"
	"github.com/alqaisi42/medexaTPA-sub003/models"
	"github.com/alqaisi42/medexaTPA-sub003/utils"
)

// PricingRuleAdminHandlerInterface defines admin endpoints for pricing rules.
type PricingRuleAdminHandlerInterface interface {
	CreatePricingRule(c fiber.Ctx) error
	UpdatePricingRule(c fiber.Ctx) error
	DeletePricingRule(c fiber.Ctx) error
	GetPricingRule(c fiber.Ctx) error
	ListPricingRules(c fiber.Ctx) error
	ExportPricingRules(c fiber.Ctx) error
	ImportPricingRules(c fiber.Ctx) error
}

// PricingRuleAdminHandler implements admin endpoints for pricing rules.
type PricingRuleAdminHandler struct {
	flow      businessflow.PricingRuleFlow
	validator *validator.Validate
}

func NewPricingRuleAdminHandler(flow businessflow.PricingRuleFlow) PricingRuleAdminHandlerInterface {
	return &PricingRuleAdminHandler{
		flow:      flow,
		validator: validator.New(),
	}
}

func (h *PricingRuleAdminHandler) ErrorResponse(c fiber.Ctx, status int, message, code string, details any) error {
	return c.Status(status).JSON(dto.APIResponse{Success: false, Message: message, Error: dto.ErrorDetail{Code: code, Details: details}})
}

func (h *PricingRuleAdminHandler) SuccessResponse(c fiber.Ctx, status int, message string, data any) error {
	return c.Status(status).JSON(dto.APIResponse{Success: true, Message: message, Data: data})
}

// CreatePricingRule creates a new pricing rule.
// @Summary Create Pricing Rule (Admin)
// @Tags Admin Pricing Rules
// @Accept json
// @Produce json
// @Param request body dto.AdminCreatePricingRuleRequest true "Pricing rule payload"
// @Success 201 {object} dto.APIResponse{data=dto.AdminCreatePricingRuleResponse}
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Failure 500 {object} dto.APIResponse "Creation failed"
// @Router /api/v1/admin/pricing-rules [post]
func (h *PricingRuleAdminHandler) CreatePricingRule(c fiber.Ctx) error {
	var req dto.AdminCreatePricingRuleRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if err := h.validator.Struct(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationMessages(err))
	}

	res, err := h.flow.AdminCreatePricingRule(h.createRequestContext(c, "/api/v1/admin/pricing-rules"), &req)
	if err != nil {
		return h.ruleErrorResponse(c, err, "Create pricing rule failed", "PRICING_RULE_CREATE_FAILED")
	}

	return h.SuccessResponse(c, fiber.StatusCreated, "Pricing rule created", res)
}

// UpdatePricingRule replaces an existing pricing rule.
// @Summary Update Pricing Rule (Admin)
// @Tags Admin Pricing Rules
// @Accept json
// @Produce json
// @Param id path int true "Pricing rule ID"
// @Param request body dto.AdminCreatePricingRuleRequest true "Pricing rule payload"
// @Success 200 {object} dto.APIResponse{data=dto.AdminUpdatePricingRuleResponse}
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Failure 404 {object} dto.APIResponse "Rule not found"
// @Router /api/v1/admin/pricing-rules/{id} [put]
func (h *PricingRuleAdminHandler) UpdatePricingRule(c fiber.Ctx) error {
	id, ok := h.parseIDParam(c)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid rule id", "INVALID_REQUEST", nil)
	}

	var req dto.AdminUpdatePricingRuleRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	req.ID = id
	if err := h.validator.Struct(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationMessages(err))
	}

	res, err := h.flow.AdminUpdatePricingRule(h.createRequestContext(c, "/api/v1/admin/pricing-rules/{id}"), &req)
	if err != nil {
		return h.ruleErrorResponse(c, err, "Update pricing rule failed", "PRICING_RULE_UPDATE_FAILED")
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Pricing rule updated", res)
}

// DeletePricingRule removes a pricing rule.
// @Summary Delete Pricing Rule (Admin)
// @Tags Admin Pricing Rules
// @Produce json
// @Param id path int true "Pricing rule ID"
// @Success 200 {object} dto.APIResponse{data=dto.AdminDeletePricingRuleResponse}
// @Failure 404 {object} dto.APIResponse "Rule not found"
// @Router /api/v1/admin/pricing-rules/{id} [delete]
func (h *PricingRuleAdminHandler) DeletePricingRule(c fiber.Ctx) error {
	id, ok := h.parseIDParam(c)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid rule id", "INVALID_REQUEST", nil)
	}

	res, err := h.flow.AdminDeletePricingRule(h.createRequestContext(c, "/api/v1/admin/pricing-rules/{id}"), id)
	if err != nil {
		return h.ruleErrorResponse(c, err, "Delete pricing rule failed", "PRICING_RULE_DELETE_FAILED")
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Pricing rule deleted", res)
}

// GetPricingRule returns a single pricing rule.
// @Summary Get Pricing Rule (Admin)
// @Tags Admin Pricing Rules
// @Produce json
// @Param id path int true "Pricing rule ID"
// @Success 200 {object} dto.APIResponse{data=dto.AdminGetPricingRuleResponse}
// @Failure 404 {object} dto.APIResponse "Rule not found"
// @Router /api/v1/admin/pricing-rules/{id} [get]
func (h *PricingRuleAdminHandler) GetPricingRule(c fiber.Ctx) error {
	id, ok := h.parseIDParam(c)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid rule id", "INVALID_REQUEST", nil)
	}

	res, err := h.flow.AdminGetPricingRule(h.createRequestContext(c, "/api/v1/admin/pricing-rules/{id}"), id)
	if err != nil {
		return h.ruleErrorResponse(c, err, "Get pricing rule failed", "PRICING_RULE_GET_FAILED")
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Pricing rule retrieved", res)
}

// ListPricingRules lists rules filtered by query parameters.
// @Summary List Pricing Rules (Admin)
// @Tags Admin Pricing Rules
// @Produce json
// @Param procedure_id query int false "Procedure ID"
// @Param price_list_id query int false "Price list ID"
// @Param insurance_degree_id query int false "Insurance degree ID"
// @Param pricing_method query string false "Pricing method"
// @Param effective_at query string false "Effective date (YYYY-MM-DD)"
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {object} dto.APIResponse{data=dto.AdminListPricingRulesResponse}
// @Failure 500 {object} dto.APIResponse "List failed"
// @Router /api/v1/admin/pricing-rules [get]
func (h *PricingRuleAdminHandler) ListPricingRules(c fiber.Ctx) error {
	filter, err := h.parseRuleFilter(c)
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, err.Error(), "INVALID_REQUEST", nil)
	}
	limit, offset := h.parsePagination(c)

	res, flowErr := h.flow.AdminListPricingRules(h.createRequestContext(c, "/api/v1/admin/pricing-rules"), filter, limit, offset)
	if flowErr != nil {
		log.Println("List pricing rules failed:", flowErr)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "List pricing rules failed", "PRICING_RULE_LIST_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Pricing rules retrieved", res)
}

// ExportPricingRules returns the filtered rule set as an Excel workbook.
// @Summary Export Pricing Rules (Admin)
// @Tags Admin Pricing Rules
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param procedure_id query int false "Procedure ID"
// @Param price_list_id query int false "Price list ID"
// @Param insurance_degree_id query int false "Insurance degree ID"
// @Success 200 {string} string "Excel file"
// @Failure 500 {object} dto.APIResponse "Export failed"
// @Router /api/v1/admin/pricing-rules/export [get]
func (h *PricingRuleAdminHandler) ExportPricingRules(c fiber.Ctx) error {
	filter, err := h.parseRuleFilter(c)
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, err.Error(), "INVALID_REQUEST", nil)
	}

	filename, data, flowErr := h.flow.AdminExportPricingRules(h.createRequestContext(c, "/api/v1/admin/pricing-rules/export"), filter)
	if flowErr != nil {
		log.Println("Export pricing rules failed:", flowErr)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Export pricing rules failed", "PRICING_RULE_EXPORT_FAILED", nil)
	}

	c.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set("Content-Disposition", "attachment; filename="+filename)
	return c.Send(data)
}

// ImportPricingRules accepts a multipart/form-data upload with an Excel file field.
// @Summary Import Pricing Rules (Admin)
// @Tags Admin Pricing Rules
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Excel file with pricing rule rows"
// @Success 201 {object} dto.APIResponse{data=dto.AdminImportPricingRulesResponse}
// @Failure 400 {object} dto.APIResponse "Invalid file"
// @Failure 500 {object} dto.APIResponse "Import failed"
// @Router /api/v1/admin/pricing-rules/import [post]
func (h *PricingRuleAdminHandler) ImportPricingRules(c fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil || fileHeader == nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "file is required", "INVALID_REQUEST", nil)
	}
	fh, err := fileHeader.Open()
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "invalid file", "INVALID_FILE", err.Error())
	}
	defer fh.Close()
	data, err := io.ReadAll(fh)
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "invalid file", "INVALID_FILE", err.Error())
	}

	res, flowErr := h.flow.AdminImportPricingRules(h.createRequestContext(c, "/api/v1/admin/pricing-rules/import"), data)
	if flowErr != nil {
		if businessflow.IsImportFileInvalid(flowErr) || businessflow.IsImportFileEmpty(flowErr) {
			if bizErr, ok := flowErr.(*businessflow.BusinessError); ok {
				return h.ErrorResponse(c, fiber.StatusBadRequest, bizErr.Message, bizErr.Code, nil)
			}
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid import file", "INVALID_FILE", nil)
		}
		log.Println("Import pricing rules failed:", flowErr)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Import pricing rules failed", "PRICING_RULE_IMPORT_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusCreated, "Pricing rules imported", res)
}

func (h *PricingRuleAdminHandler) ruleErrorResponse(c fiber.Ctx, err error, fallbackMessage, fallbackCode string) error {
	if bizErr, ok := err.(*businessflow.BusinessError); ok {
		switch {
		case businessflow.IsPricingRuleNotFound(err):
			return h.ErrorResponse(c, fiber.StatusNotFound, bizErr.Message, bizErr.Code, nil)
		case businessflow.IsPricingMethodInvalid(err),
			businessflow.IsMethodParamsIncomplete(err),
			businessflow.IsEffectiveWindowInverted(err),
			businessflow.IsConditionOperatorInvalid(err),
			businessflow.IsConditionFactorKeyUnknown(err):
			return h.ErrorResponse(c, fiber.StatusBadRequest, bizErr.Message, bizErr.Code, nil)
		}
	}
	log.Println(fallbackMessage+":", err)
	return h.ErrorResponse(c, fiber.StatusInternalServerError, fallbackMessage, fallbackCode, nil)
}

func (h *PricingRuleAdminHandler) parseIDParam(c fiber.Ctx) (uint, bool) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

func (h *PricingRuleAdminHandler) parseRuleFilter(c fiber.Ctx) (models.PricingRuleFilter, error) {
	var filter models.PricingRuleFilter
	if v := c.Query("procedure_id"); v != "" {
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return filter, fiber.NewError(fiber.StatusBadRequest, "procedure_id must be a positive integer")
		}
		filter.ProcedureID = utils.ToPtr(uint(id))
	}
	if v := c.Query("price_list_id"); v != "" {
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return filter, fiber.NewError(fiber.StatusBadRequest, "price_list_id must be a positive integer")
		}
		filter.PriceListID = utils.ToPtr(uint(id))
	}
	if v := c.Query("insurance_degree_id"); v != "" {
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return filter, fiber.NewError(fiber.StatusBadRequest, "insurance_degree_id must be a positive integer")
		}
		filter.InsuranceDegreeID = utils.ToPtr(uint(id))
	}
	if v := c.Query("pricing_method"); v != "" {
		method := models.PricingMethod(v)
		if !method.Valid() {
			return filter, fiber.NewError(fiber.StatusBadRequest, "pricing_method is invalid")
		}
		filter.PricingMethod = &method
	}
	if v := c.Query("effective_at"); v != "" {
		t, err := time.Parse(utils.DateLayout, v)
		if err != nil {
			return filter, fiber.NewError(fiber.StatusBadRequest, "effective_at must be a date (YYYY-MM-DD)")
		}
		filter.EffectiveAt = &t
	}
	return filter, nil
}

func (h *PricingRuleAdminHandler) parsePagination(c fiber.Ctx) (int, int) {
	limit, offset := 0, 0
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	if v := c.Query("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			offset = n
		}
	}
	return limit, offset
}

func (h *PricingRuleAdminHandler) createRequestContext(c fiber.Ctx, endpoint string) context.Context {
	return h.createRequestContextWithTimeout(c, endpoint, 60*time.Second)
}

func (h *PricingRuleAdminHandler) createRequestContextWithTimeout(c fiber.Ctx, endpoint string, timeout time.Duration) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	ctx = context.WithValue(ctx, utils.RequestIDKey, c.Get("X-Request-ID"))
	ctx = context.WithValue(ctx, utils.UserAgentKey, c.Get("User-Agent"))
	ctx = context.WithValue(ctx, utils.IPAddressKey, c.IP())
	ctx = context.WithValue(ctx, utils.EndpointKey, endpoint)
	ctx = context.WithValue(ctx, utils.TimeoutKey, timeout)
	ctx = context.WithValue(ctx, utils.CancelFuncKey, cancel)
	return ctx
}
