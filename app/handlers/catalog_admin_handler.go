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

// CatalogAdminHandlerInterface defines admin endpoints for pricing reference
// data: factor definitions, price lists, insurance degrees, and point rates.
type CatalogAdminHandlerInterface interface {
	CreateFactorDefinition(c fiber.Ctx) error
	UpdateFactorDefinition(c fiber.Ctx) error
	DeleteFactorDefinition(c fiber.Ctx) error
	ListFactorDefinitions(c fiber.Ctx) error

	CreatePriceList(c fiber.Ctx) error
	UpdatePriceList(c fiber.Ctx) error
	ListPriceLists(c fiber.Ctx) error

	CreateInsuranceDegree(c fiber.Ctx) error
	UpdateInsuranceDegree(c fiber.Ctx) error
	ListInsuranceDegrees(c fiber.Ctx) error

	CreatePointRate(c fiber.Ctx) error
	DeletePointRate(c fiber.Ctx) error
	ListPointRates(c fiber.Ctx) error
}

// CatalogAdminHandler implements admin endpoints for pricing reference data.
type CatalogAdminHandler struct {
	defFlow    businessflow.FactorDefinitionFlow
	listFlow   businessflow.PriceListFlow
	degreeFlow businessflow.InsuranceDegreeFlow
	rateFlow   businessflow.PointRateFlow
	validator  *validator.Validate
}

func NewCatalogAdminHandler(
	defFlow businessflow.FactorDefinitionFlow,
	listFlow businessflow.PriceListFlow,
	degreeFlow businessflow.InsuranceDegreeFlow,
	rateFlow businessflow.PointRateFlow,
) CatalogAdminHandlerInterface {
	return &CatalogAdminHandler{
		defFlow:    defFlow,
		listFlow:   listFlow,
		degreeFlow: degreeFlow,
		rateFlow:   rateFlow,
		validator:  validator.New(),
	}
}

func (h *CatalogAdminHandler) ErrorResponse(c fiber.Ctx, status int, message, code string, details any) error {
	return c.Status(status).JSON(dto.APIResponse{Success: false, Message: message, Error: dto.ErrorDetail{Code: code, Details: details}})
}

func (h *CatalogAdminHandler) SuccessResponse(c fiber.Ctx, status int, message string, data any) error {
	return c.Status(status).JSON(dto.APIResponse{Success: true, Message: message, Data: data})
}

// CreateFactorDefinition creates a pricing factor definition.
// @Summary Create Factor Definition (Admin)
// @Tags Admin Catalog
// @Accept json
// @Produce json
// @Param request body dto.AdminCreateFactorDefinitionRequest true "Factor definition payload"
// @Success 201 {object} dto.APIResponse{data=dto.AdminCreateFactorDefinitionResponse}
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Router /api/v1/admin/factor-definitions [post]
func (h *CatalogAdminHandler) CreateFactorDefinition(c fiber.Ctx) error {
	var req dto.AdminCreateFactorDefinitionRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if err := h.validator.Struct(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationMessages(err))
	}

	res, err := h.defFlow.AdminCreateFactorDefinition(h.createRequestContext(c, "/api/v1/admin/factor-definitions"), &req)
	if err != nil {
		return h.catalogErrorResponse(c, err, "Create factor definition failed", "FACTOR_DEFINITION_CREATE_FAILED")
	}

	return h.SuccessResponse(c, fiber.StatusCreated, "Factor definition created", res)
}

// UpdateFactorDefinition replaces a factor definition.
// @Summary Update Factor Definition (Admin)
// @Tags Admin Catalog
// @Accept json
// @Produce json
// @Param id path int true "Factor definition ID"
// @Param request body dto.AdminCreateFactorDefinitionRequest true "Factor definition payload"
// @Success 200 {object} dto.APIResponse{data=dto.AdminUpdateFactorDefinitionResponse}
// @Failure 404 {object} dto.APIResponse "Definition not found"
// @Router /api/v1/admin/factor-definitions/{id} [put]
func (h *CatalogAdminHandler) UpdateFactorDefinition(c fiber.Ctx) error {
	id, ok := h.parseIDParam(c)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid definition id", "INVALID_REQUEST", nil)
	}

	var req dto.AdminUpdateFactorDefinitionRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	req.ID = id
	if err := h.validator.Struct(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationMessages(err))
	}

	res, err := h.defFlow.AdminUpdateFactorDefinition(h.createRequestContext(c, "/api/v1/admin/factor-definitions/{id}"), &req)
	if err != nil {
		return h.catalogErrorResponse(c, err, "Update factor definition failed", "FACTOR_DEFINITION_UPDATE_FAILED")
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Factor definition updated", res)
}

// DeleteFactorDefinition removes a factor definition.
// @Summary Delete Factor Definition (Admin)
// @Tags Admin Catalog
// @Produce json
// @Param id path int true "Factor definition ID"
// @Success 200 {object} dto.APIResponse{data=dto.AdminDeleteFactorDefinitionResponse}
// @Failure 404 {object} dto.APIResponse "Definition not found"
// @Router /api/v1/admin/factor-definitions/{id} [delete]
func (h *CatalogAdminHandler) DeleteFactorDefinition(c fiber.Ctx) error {
	id, ok := h.parseIDParam(c)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid definition id", "INVALID_REQUEST", nil)
	}

	res, err := h.defFlow.AdminDeleteFactorDefinition(h.createRequestContext(c, "/api/v1/admin/factor-definitions/{id}"), id)
	if err != nil {
		return h.catalogErrorResponse(c, err, "Delete factor definition failed", "FACTOR_DEFINITION_DELETE_FAILED")
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Factor definition deleted", res)
}

// ListFactorDefinitions lists all factor definitions.
// @Summary List Factor Definitions (Admin)
// @Tags Admin Catalog
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.AdminListFactorDefinitionsResponse}
// @Failure 500 {object} dto.APIResponse "List failed"
// @Router /api/v1/admin/factor-definitions [get]
func (h *CatalogAdminHandler) ListFactorDefinitions(c fiber.Ctx) error {
	res, err := h.defFlow.AdminListFactorDefinitions(h.createRequestContext(c, "/api/v1/admin/factor-definitions"))
	if err != nil {
		log.Println("List factor definitions failed:", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "List factor definitions failed", "FACTOR_DEFINITION_LIST_FAILED", nil)
	}
	return h.SuccessResponse(c, fiber.StatusOK, "Factor definitions retrieved", res)
}

// CreatePriceList creates a price list.
// @Summary Create Price List (Admin)
// @Tags Admin Catalog
// @Accept json
// @Produce json
// @Param request body dto.AdminCreatePriceListRequest true "Price list payload"
// @Success 201 {object} dto.APIResponse{data=dto.AdminCreatePriceListResponse}
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Router /api/v1/admin/price-lists [post]
func (h *CatalogAdminHandler) CreatePriceList(c fiber.Ctx) error {
	var req dto.AdminCreatePriceListRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if err := h.validator.Struct(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationMessages(err))
	}

	res, err := h.listFlow.AdminCreatePriceList(h.createRequestContext(c, "/api/v1/admin/price-lists"), &req)
	if err != nil {
		return h.catalogErrorResponse(c, err, "Create price list failed", "PRICE_LIST_CREATE_FAILED")
	}

	return h.SuccessResponse(c, fiber.StatusCreated, "Price list created", res)
}

// UpdatePriceList updates a price list.
// @Summary Update Price List (Admin)
// @Tags Admin Catalog
// @Accept json
// @Produce json
// @Param id path int true "Price list ID"
// @Param request body dto.AdminCreatePriceListRequest true "Price list payload"
// @Success 200 {object} dto.APIResponse{data=dto.AdminUpdatePriceListResponse}
// @Failure 404 {object} dto.APIResponse "Price list not found"
// @Router /api/v1/admin/price-lists/{id} [put]
func (h *CatalogAdminHandler) UpdatePriceList(c fiber.Ctx) error {
	id, ok := h.parseIDParam(c)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid price list id", "INVALID_REQUEST", nil)
	}

	var req dto.AdminUpdatePriceListRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	req.ID = id
	if err := h.validator.Struct(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationMessages(err))
	}

	res, err := h.listFlow.AdminUpdatePriceList(h.createRequestContext(c, "/api/v1/admin/price-lists/{id}"), &req)
	if err != nil {
		return h.catalogErrorResponse(c, err, "Update price list failed", "PRICE_LIST_UPDATE_FAILED")
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Price list updated", res)
}

// ListPriceLists lists all price lists.
// @Summary List Price Lists (Admin)
// @Tags Admin Catalog
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.AdminListPriceListsResponse}
// @Failure 500 {object} dto.APIResponse "List failed"
// @Router /api/v1/admin/price-lists [get]
func (h *CatalogAdminHandler) ListPriceLists(c fiber.Ctx) error {
	res, err := h.listFlow.AdminListPriceLists(h.createRequestContext(c, "/api/v1/admin/price-lists"))
	if err != nil {
		log.Println("List price lists failed:", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "List price lists failed", "PRICE_LIST_LIST_FAILED", nil)
	}
	return h.SuccessResponse(c, fiber.StatusOK, "Price lists retrieved", res)
}

// CreateInsuranceDegree creates an insurance degree.
// @Summary Create Insurance Degree (Admin)
// @Tags Admin Catalog
// @Accept json
// @Produce json
// @Param request body dto.AdminCreateInsuranceDegreeRequest true "Insurance degree payload"
// @Success 201 {object} dto.APIResponse{data=dto.AdminCreateInsuranceDegreeResponse}
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Router /api/v1/admin/insurance-degrees [post]
func (h *CatalogAdminHandler) CreateInsuranceDegree(c fiber.Ctx) error {
	var req dto.AdminCreateInsuranceDegreeRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if err := h.validator.Struct(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationMessages(err))
	}

	res, err := h.degreeFlow.AdminCreateInsuranceDegree(h.createRequestContext(c, "/api/v1/admin/insurance-degrees"), &req)
	if err != nil {
		return h.catalogErrorResponse(c, err, "Create insurance degree failed", "INSURANCE_DEGREE_CREATE_FAILED")
	}

	return h.SuccessResponse(c, fiber.StatusCreated, "Insurance degree created", res)
}

// UpdateInsuranceDegree updates an insurance degree.
// @Summary Update Insurance Degree (Admin)
// @Tags Admin Catalog
// @Accept json
// @Produce json
// @Param id path int true "Insurance degree ID"
// @Param request body dto.AdminCreateInsuranceDegreeRequest true "Insurance degree payload"
// @Success 200 {object} dto.APIResponse{data=dto.AdminUpdateInsuranceDegreeResponse}
// @Failure 404 {object} dto.APIResponse "Degree not found"
// @Router /api/v1/admin/insurance-degrees/{id} [put]
func (h *CatalogAdminHandler) UpdateInsuranceDegree(c fiber.Ctx) error {
	id, ok := h.parseIDParam(c)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid degree id", "INVALID_REQUEST", nil)
	}

	var req dto.AdminUpdateInsuranceDegreeRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	req.ID = id
	if err := h.validator.Struct(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationMessages(err))
	}

	res, err := h.degreeFlow.AdminUpdateInsuranceDegree(h.createRequestContext(c, "/api/v1/admin/insurance-degrees/{id}"), &req)
	if err != nil {
		return h.catalogErrorResponse(c, err, "Update insurance degree failed", "INSURANCE_DEGREE_UPDATE_FAILED")
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Insurance degree updated", res)
}

// ListInsuranceDegrees lists all insurance degrees.
// @Summary List Insurance Degrees (Admin)
// @Tags Admin Catalog
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.AdminListInsuranceDegreesResponse}
// @Failure 500 {object} dto.APIResponse "List failed"
// @Router /api/v1/admin/insurance-degrees [get]
func (h *CatalogAdminHandler) ListInsuranceDegrees(c fiber.Ctx) error {
	res, err := h.degreeFlow.AdminListInsuranceDegrees(h.createRequestContext(c, "/api/v1/admin/insurance-degrees"))
	if err != nil {
		log.Println("List insurance degrees failed:", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "List insurance degrees failed", "INSURANCE_DEGREE_LIST_FAILED", nil)
	}
	return h.SuccessResponse(c, fiber.StatusOK, "Insurance degrees retrieved", res)
}

// CreatePointRate creates a point rate for an insurance degree.
// @Summary Create Point Rate (Admin)
// @Tags Admin Catalog
// @Accept json
// @Produce json
// @Param request body dto.AdminCreatePointRateRequest true "Point rate payload"
// @Success 201 {object} dto.APIResponse{data=dto.AdminCreatePointRateResponse}
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Router /api/v1/admin/point-rates [post]
func (h *CatalogAdminHandler) CreatePointRate(c fiber.Ctx) error {
	var req dto.AdminCreatePointRateRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if err := h.validator.Struct(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationMessages(err))
	}

	res, err := h.rateFlow.AdminCreatePointRate(h.createRequestContext(c, "/api/v1/admin/point-rates"), &req)
	if err != nil {
		return h.catalogErrorResponse(c, err, "Create point rate failed", "POINT_RATE_CREATE_FAILED")
	}

	return h.SuccessResponse(c, fiber.StatusCreated, "Point rate created", res)
}

// DeletePointRate removes a point rate.
// @Summary Delete Point Rate (Admin)
// @Tags Admin Catalog
// @Produce json
// @Param id path int true "Point rate ID"
// @Success 200 {object} dto.APIResponse{data=dto.AdminDeletePointRateResponse}
// @Failure 404 {object} dto.APIResponse "Point rate not found"
// @Router /api/v1/admin/point-rates/{id} [delete]
func (h *CatalogAdminHandler) DeletePointRate(c fiber.Ctx) error {
	id, ok := h.parseIDParam(c)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid point rate id", "INVALID_REQUEST", nil)
	}

	res, err := h.rateFlow.AdminDeletePointRate(h.createRequestContext(c, "/api/v1/admin/point-rates/{id}"), id)
	if err != nil {
		return h.catalogErrorResponse(c, err, "Delete point rate failed", "POINT_RATE_DELETE_FAILED")
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Point rate deleted", res)
}

// ListPointRates lists point rates for an insurance degree.
// @Summary List Point Rates (Admin)
// @Tags Admin Catalog
// @Produce json
// @Param insurance_degree_id query int true "Insurance degree ID"
// @Success 200 {object} dto.APIResponse{data=dto.AdminListPointRatesResponse}
// @Failure 400 {object} dto.APIResponse "Missing degree id"
// @Router /api/v1/admin/point-rates [get]
func (h *CatalogAdminHandler) ListPointRates(c fiber.Ctx) error {
	degreeID, err := strconv.ParseUint(c.Query("insurance_degree_id"), 10, 64)
	if err != nil || degreeID == 0 {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "insurance_degree_id is required", "INVALID_REQUEST", nil)
	}

	res, flowErr := h.rateFlow.AdminListPointRates(h.createRequestContext(c, "/api/v1/admin/point-rates"), uint(degreeID))
	if flowErr != nil {
		log.Println("List point rates failed:", flowErr)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "List point rates failed", "POINT_RATE_LIST_FAILED", nil)
	}
	return h.SuccessResponse(c, fiber.StatusOK, "Point rates retrieved", res)
}

func (h *CatalogAdminHandler) catalogErrorResponse(c fiber.Ctx, err error, fallbackMessage, fallbackCode string) error {
	if bizErr, ok := err.(*businessflow.BusinessError); ok {
		switch {
		case businessflow.IsFactorDefinitionNotFound(err),
			businessflow.IsPriceListNotFound(err),
			businessflow.IsInsuranceDegreeNotFound(err),
			businessflow.IsPointRateNotFound(err):
			return h.ErrorResponse(c, fiber.StatusNotFound, bizErr.Message, bizErr.Code, nil)
		case businessflow.IsFactorKeyExists(err),
			businessflow.IsPriceListCodeExists(err),
			businessflow.IsDegreeCodeExists(err):
			return h.ErrorResponse(c, fiber.StatusConflict, bizErr.Message, bizErr.Code, nil)
		case businessflow.IsFactorDataTypeInvalid(err),
			businessflow.IsAllowedValuesRequired(err),
			businessflow.IsPointPriceInvalid(err),
			businessflow.IsEffectiveWindowInverted(err):
			return h.ErrorResponse(c, fiber.StatusBadRequest, bizErr.Message, bizErr.Code, nil)
		}
	}
	log.Println(fallbackMessage+":", err)
	return h.ErrorResponse(c, fiber.StatusInternalServerError, fallbackMessage, fallbackCode, nil)
}

func (h *CatalogAdminHandler) parseIDParam(c fiber.Ctx) (uint, bool) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

func (h *CatalogAdminHandler) createRequestContext(c fiber.Ctx, endpoint string) context.Context {
	return h.createRequestContextWithTimeout(c, endpoint, utils.DefaultRequestTimeout)
}

func (h *CatalogAdminHandler) createRequestContextWithTimeout(c fiber.Ctx, endpoint string, timeout time.Duration) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	ctx = context.WithValue(ctx, utils.RequestIDKey, c.Get("X-Request-ID"))
	ctx = context.WithValue(ctx, utils.UserAgentKey, c.Get("User-Agent"))
	ctx = context.WithValue(ctx, utils.IPAddressKey, c.IP())
	ctx = context.WithValue(ctx, utils.EndpointKey, endpoint)
	ctx = context.WithValue(ctx, utils.TimeoutKey, timeout)
	ctx = context.WithValue(ctx, utils.CancelFuncKey, cancel)
	return ctx
}
