package handlers

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"

	"github.com/alqaisi42/medexaTPA-sub003/app/dto"
	businessflow "github.com/alqaisi42/medexaTPA-sub003/business_flow"
	"github.com/alqaisi42/medexaTPA-sub003/utils"
)

// PricingHandlerInterface defines the calculation endpoints.
type PricingHandlerInterface interface {
	CalculatePricing(c fiber.Ctx) error
	CalculatePricingBatch(c fiber.Ctx) error
}

// PricingHandler implements the calculation endpoints.
type PricingHandler struct {
	flow      businessflow.PricingFlow
	validator *validator.Validate
}

func NewPricingHandler(flow businessflow.PricingFlow) PricingHandlerInterface {
	return &PricingHandler{
		flow:      flow,
		validator: validator.New(),
	}
}

func (h *PricingHandler) ErrorResponse(c fiber.Ctx, status int, message, code string, details any) error {
	return c.Status(status).JSON(dto.APIResponse{Success: false, Message: message, Error: dto.ErrorDetail{Code: code, Details: details}})
}

func (h *PricingHandler) SuccessResponse(c fiber.Ctx, status int, message string, data any) error {
	return c.Status(status).JSON(dto.APIResponse{Success: true, Message: message, Data: data})
}

// CalculatePricing computes the final price for a single procedure.
// @Summary Calculate Procedure Price
// @Description Resolve factors, match a pricing rule, and compute the final price with contract overlay and adjustments
// @Tags Pricing
// @Accept json
// @Produce json
// @Param request body dto.CalculatePricingRequest true "Calculation input"
// @Success 200 {object} dto.APIResponse{data=dto.CalculatePricingResponse}
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Failure 404 {object} dto.APIResponse "No applicable rule"
// @Failure 422 {object} dto.APIResponse "Missing point rate"
// @Failure 500 {object} dto.APIResponse "Calculation failed"
// @Router /api/v1/pricing/calculate [post]
func (h *PricingHandler) CalculatePricing(c fiber.Ctx) error {
	var req dto.CalculatePricingRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if err := h.validator.Struct(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationMessages(err))
	}

	res, err := h.flow.CalculatePricing(h.createRequestContext(c, "/api/v1/pricing/calculate"), &req)
	if err != nil {
		return h.calculationErrorResponse(c, err)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Price calculated", res)
}

// CalculatePricingBatch computes prices for up to 100 inputs in one request.
// Per-item failures are reported in place; the batch itself always succeeds.
// @Summary Calculate Procedure Prices (Batch)
// @Description Compute prices for multiple inputs; failed items carry an error instead of a result
// @Tags Pricing
// @Accept json
// @Produce json
// @Param request body dto.CalculatePricingBatchRequest true "Batch calculation input"
// @Success 200 {object} dto.APIResponse{data=dto.CalculatePricingBatchResponse}
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Failure 500 {object} dto.APIResponse "Batch failed"
// @Router /api/v1/pricing/calculate/batch [post]
func (h *PricingHandler) CalculatePricingBatch(c fiber.Ctx) error {
	var req dto.CalculatePricingBatchRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if err := h.validator.Struct(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationMessages(err))
	}

	res, err := h.flow.CalculatePricingBatch(h.createRequestContext(c, "/api/v1/pricing/calculate/batch"), &req)
	if err != nil {
		log.Println("Batch calculation failed:", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Batch calculation failed", "CALCULATION_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Batch calculated", res)
}

func (h *PricingHandler) calculationErrorResponse(c fiber.Ctx, err error) error {
	var bizErr *businessflow.BusinessError
	if errors.As(err, &bizErr) {
		switch {
		case businessflow.IsInvalidCalculation(err):
			return h.ErrorResponse(c, fiber.StatusBadRequest, bizErr.Message, bizErr.Code, nil)
		case businessflow.IsNoRuleFound(err):
			return h.ErrorResponse(c, fiber.StatusNotFound, bizErr.Message, bizErr.Code, nil)
		case businessflow.IsMissingPointRate(err):
			return h.ErrorResponse(c, fiber.StatusUnprocessableEntity, bizErr.Message, bizErr.Code, nil)
		case businessflow.IsContractNotFound(err):
			return h.ErrorResponse(c, fiber.StatusNotFound, bizErr.Message, bizErr.Code, nil)
		case businessflow.IsContractInactive(err):
			return h.ErrorResponse(c, fiber.StatusUnprocessableEntity, bizErr.Message, bizErr.Code, nil)
		}
	}
	log.Println("Calculation failed:", err)
	return h.ErrorResponse(c, fiber.StatusInternalServerError, "Calculation failed", "CALCULATION_FAILED", nil)
}

func (h *PricingHandler) createRequestContext(c fiber.Ctx, endpoint string) context.Context {
	return h.createRequestContextWithTimeout(c, endpoint, utils.DefaultRequestTimeout)
}

func (h *PricingHandler) createRequestContextWithTimeout(c fiber.Ctx, endpoint string, timeout time.Duration) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	ctx = context.WithValue(ctx, utils.RequestIDKey, c.Get("X-Request-ID"))
	ctx = context.WithValue(ctx, utils.UserAgentKey, c.Get("User-Agent"))
	ctx = context.WithValue(ctx, utils.IPAddressKey, c.IP())
	ctx = context.WithValue(ctx, utils.EndpointKey, endpoint)
	ctx = context.WithValue(ctx, utils.TimeoutKey, timeout)
	ctx = context.WithValue(ctx, utils.CancelFuncKey, cancel)
	return ctx
}
