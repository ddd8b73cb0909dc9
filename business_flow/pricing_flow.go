package businessflow

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/alqaisi42/medexaTPA-sub003/app/dto"
	"github.com/alqaisi42/medexaTPA-sub003/config"
	"github.com/alqaisi42/medexaTPA-sub003/models"
	"github.com/alqaisi42/medexaTPA-sub003/pricing"
	"github.com/alqaisi42/medexaTPA-sub003/repository"
	"github.com/alqaisi42/medexaTPA-sub003/utils"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"
)

// Error codes surfaced to API clients for calculation outcomes.
const (
	CodeInvalidInput     = "INVALID_INPUT"
	CodeNoRuleFound      = "NO_RULE_FOUND"
	CodeMissingPointRate = "MISSING_POINT_RATE"
)

// calculationsTotal is the single registration of the calculation outcome
// counter; outcomes use lowercase snake_case labels.
var calculationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "pricing_calculations_total",
		Help: "Total pricing calculations by outcome",
	},
	[]string{"outcome"},
)

// PricingFlow defines the pricing preview calculation operations.
type PricingFlow interface {
	CalculatePricing(ctx context.Context, req *dto.CalculatePricingRequest) (*dto.CalculatePricingResponse, error)
	CalculatePricingBatch(ctx context.Context, req *dto.CalculatePricingBatchRequest) (*dto.CalculatePricingBatchResponse, error)
}

type PricingFlowImpl struct {
	ruleRepo     repository.PricingRuleRepository
	rateRepo     repository.PointRateRepository
	defRepo      repository.FactorDefinitionRepository
	degreeRepo   repository.InsuranceDegreeRepository
	contractRepo repository.ContractRepository
	caseRepo     repository.AdjustmentCaseRepository
	rc           *redis.Client
	cacheConfig  *config.CacheConfig
}

func NewPricingFlow(
	ruleRepo repository.PricingRuleRepository,
	rateRepo repository.PointRateRepository,
	defRepo repository.FactorDefinitionRepository,
	degreeRepo repository.InsuranceDegreeRepository,
	contractRepo repository.ContractRepository,
	caseRepo repository.AdjustmentCaseRepository,
	rc *redis.Client,
	cacheConfig *config.CacheConfig,
) PricingFlow {
	return &PricingFlowImpl{
		ruleRepo:     ruleRepo,
		rateRepo:     rateRepo,
		defRepo:      defRepo,
		degreeRepo:   degreeRepo,
		contractRepo: contractRepo,
		caseRepo:     caseRepo,
		rc:           rc,
		cacheConfig:  cacheConfig,
	}
}

// CalculatePricing runs one pricing preview: it validates the request,
// gathers all reference data, and invokes the calculation pipeline. Lookups
// happen up front so the pipeline itself never blocks on I/O.
func (f *PricingFlowImpl) CalculatePricing(ctx context.Context, req *dto.CalculatePricingRequest) (*dto.CalculatePricingResponse, error) {
	asOf, err := f.validateRequest(req)
	if err != nil {
		calculationsTotal.WithLabelValues("invalid_input").Inc()
		return nil, err
	}

	defs, err := f.loadDefinitions(ctx)
	if err != nil {
		return nil, err
	}

	candidates, err := f.candidateRules(ctx, req.ProcedureID, req.PriceListID, req.InsuranceDegreeID)
	if err != nil {
		return nil, NewBusinessError("PRICING_RULES_LOAD_FAILED", "Failed to load pricing rules", err)
	}

	var contract *models.Contract
	var overrideCandidates []models.PricingRule
	if req.ContractContext != nil {
		contract, err = f.loadContract(ctx, req.ContractContext.ContractID)
		if err != nil {
			return nil, err
		}
		if contract.OverridePriceListID != nil {
			overrideCandidates, err = f.candidateRules(ctx, req.ProcedureID, *contract.OverridePriceListID, req.InsuranceDegreeID)
			if err != nil {
				return nil, NewBusinessError("PRICING_RULES_LOAD_FAILED", "Failed to load pricing rules for the contract price list", err)
			}
		}
	}

	rates, err := f.rateRepo.ListByDegree(ctx, req.InsuranceDegreeID)
	if err != nil {
		return nil, NewBusinessError("POINT_RATES_LOAD_FAILED", "Failed to load point rates", err)
	}

	cases, err := f.caseRepo.ListActiveOrdered(ctx)
	if err != nil {
		return nil, NewBusinessError("ADJUSTMENT_CASES_LOAD_FAILED", "Failed to load adjustment cases", err)
	}

	result, err := pricing.Calculate(pricing.CalculationInput{
		ProcedureID:            req.ProcedureID,
		PriceListID:            req.PriceListID,
		InsuranceDegreeID:      req.InsuranceDegreeID,
		AsOf:                   asOf,
		RawFactors:             req.Factors,
		Definitions:            derefDefinitions(defs),
		CandidateRules:         candidates,
		OverrideCandidateRules: overrideCandidates,
		PointRates:             derefRates(rates),
		ReferenceAmount:        req.ReferenceAmount,
		Contract:               contract,
		AdjustmentCases:        cases,
	})
	if err != nil {
		return nil, f.mapCalculationError(err)
	}

	calculationsTotal.WithLabelValues("success").Inc()
	return f.toResponse(ctx, result)
}

// CalculatePricingBatch previews several items independently. An explained
// calculation failure for one item never aborts the others.
func (f *PricingFlowImpl) CalculatePricingBatch(ctx context.Context, req *dto.CalculatePricingBatchRequest) (*dto.CalculatePricingBatchResponse, error) {
	if len(req.Items) > utils.CalculationBatchLimit {
		return nil, NewBusinessError(CodeInvalidInput,
			fmt.Sprintf("A batch may contain at most %d items", utils.CalculationBatchLimit), ErrInvalidCalculation)
	}

	items := make([]dto.CalculatePricingBatchItem, 0, len(req.Items))
	for i := range req.Items {
		item := dto.CalculatePricingBatchItem{Index: i}

		result, err := f.CalculatePricing(ctx, &req.Items[i])
		if err != nil {
			var be *BusinessError
			if errors.As(err, &be) {
				item.Error = &dto.CalculationErrorDTO{Code: be.Code, Message: be.Message}
			} else {
				item.Error = &dto.CalculationErrorDTO{Code: "CALCULATION_FAILED", Message: "Calculation failed"}
			}
		} else {
			item.Result = result
		}

		items = append(items, item)
	}

	return &dto.CalculatePricingBatchResponse{
		Message: "Batch calculation completed",
		Items:   items,
	}, nil
}

// validateRequest rejects malformed requests before any lookup.
func (f *PricingFlowImpl) validateRequest(req *dto.CalculatePricingRequest) (time.Time, error) {
	if req.ProcedureID == 0 {
		return time.Time{}, NewBusinessError(CodeInvalidInput, "Procedure id is required", ErrInvalidCalculation)
	}
	if req.PriceListID == 0 {
		return time.Time{}, NewBusinessError(CodeInvalidInput, "Price list id is required", ErrInvalidCalculation)
	}
	if req.InsuranceDegreeID == 0 {
		return time.Time{}, NewBusinessError(CodeInvalidInput, "Insurance degree id is required", ErrInvalidCalculation)
	}
	asOf, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return time.Time{}, NewBusinessError(CodeInvalidInput, "Date must be an ISO date (YYYY-MM-DD)", ErrInvalidCalculation)
	}
	return asOf, nil
}

func (f *PricingFlowImpl) loadDefinitions(ctx context.Context) ([]*models.PricingFactorDefinition, error) {
	defs, err := f.defRepo.ListActive(ctx)
	if err != nil {
		return nil, NewBusinessError("FACTOR_DEFINITIONS_LOAD_FAILED", "Failed to load factor definitions", err)
	}
	return defs, nil
}

func (f *PricingFlowImpl) loadContract(ctx context.Context, contractID uint) (*models.Contract, error) {
	contract, err := f.contractRepo.ByID(ctx, contractID)
	if err != nil {
		return nil, NewBusinessError("CONTRACT_LOAD_FAILED", "Failed to load contract", err)
	}
	if contract == nil {
		return nil, NewBusinessError("CONTRACT_NOT_FOUND", "Contract not found", ErrContractNotFound)
	}
	if !utils.IsTrue(contract.IsActive) {
		return nil, NewBusinessError("CONTRACT_INACTIVE", "Contract is inactive", ErrContractInactive)
	}
	return contract, nil
}

// candidateRules fetches the candidate set for a combination, consulting the
// Redis cache first. Cache failures fall through to the database; a cache
// problem never fails a calculation.
func (f *PricingFlowImpl) candidateRules(ctx context.Context, procedureID, priceListID, insuranceDegreeID uint) ([]models.PricingRule, error) {
	cacheKey := ""
	if f.cacheEnabled() {
		cacheKey = redisKey(*f.cacheConfig, fmt.Sprintf("%s:%d:%d:%d", utils.PricingRulesCacheKey, procedureID, priceListID, insuranceDegreeID))
		if bs, err := f.rc.Get(ctx, cacheKey).Bytes(); err == nil && len(bs) > 0 {
			var cached []models.PricingRule
			if err := json.Unmarshal(bs, &cached); err == nil {
				return cached, nil
			}
		}
	}

	rules, err := f.ruleRepo.CandidatesFor(ctx, procedureID, priceListID, insuranceDegreeID)
	if err != nil {
		return nil, err
	}

	if cacheKey != "" {
		if bs, err := json.Marshal(rules); err == nil {
			_ = f.rc.Set(ctx, cacheKey, bs, f.cacheConfig.DefaultTTL).Err()
		}
	}

	return rules, nil
}

func (f *PricingFlowImpl) cacheEnabled() bool {
	return f.rc != nil && f.cacheConfig != nil && f.cacheConfig.Enabled
}

// mapCalculationError converts calculation taxonomy errors into business
// errors with a kind code and a clean human-readable message.
func (f *PricingFlowImpl) mapCalculationError(err error) error {
	switch {
	case errors.Is(err, pricing.ErrNoRuleFound):
		calculationsTotal.WithLabelValues("no_rule_found").Inc()
		return NewBusinessError(CodeNoRuleFound, err.Error(), ErrNoRuleFound)
	case errors.Is(err, pricing.ErrMissingPointRate):
		calculationsTotal.WithLabelValues("missing_point_rate").Inc()
		return NewBusinessError(CodeMissingPointRate, err.Error(), ErrMissingPointRate)
	case errors.Is(err, pricing.ErrReferenceAmountRequired):
		calculationsTotal.WithLabelValues("invalid_input").Inc()
		return NewBusinessError(CodeInvalidInput, err.Error(), ErrReferenceAmountEmpty)
	case errors.Is(err, pricing.ErrInvalidInput):
		calculationsTotal.WithLabelValues("invalid_input").Inc()
		return NewBusinessError(CodeInvalidInput, err.Error(), ErrInvalidCalculation)
	default:
		calculationsTotal.WithLabelValues("error").Inc()
		return NewBusinessError("CALCULATION_FAILED", "Calculation failed", err)
	}
}

// toResponse maps an engine result to the API response shape.
func (f *PricingFlowImpl) toResponse(ctx context.Context, result *pricing.CalculationResult) (*dto.CalculatePricingResponse, error) {
	resp := &dto.CalculatePricingResponse{
		FinalPrice:          result.FinalPrice,
		Covered:             result.Covered,
		CoverageReason:      result.CoverageReason,
		RequiresPreapproval: result.RequiresPreapproval,
		PreapprovalReason:   result.PreapprovalReason,
		SelectedRuleID:      utils.ToPtr(result.SelectedRuleID),
		SelectionReason:     result.SelectionReason,
		OverridePriceListID: result.OverridePriceListID,
		AdjustmentsApplied:  make([]dto.AppliedAdjustmentDTO, 0, len(result.Adjustments)),
		DeductibleApplied:   result.DeductibleApplied,
	}

	for _, a := range result.Adjustments {
		resp.AdjustmentsApplied = append(resp.AdjustmentsApplied, dto.AppliedAdjustmentDTO{
			Type:        string(a.Type),
			FactorKey:   a.FactorKey,
			CaseMatched: a.CaseName,
			Amount:      a.Amount,
		})
	}

	if result.Discount != nil {
		resp.DiscountApplied = &dto.AppliedDiscountDTO{
			DiscountID: result.Discount.DiscountID,
			Pct:        result.Discount.Percentage,
			Period:     discountPeriodString(result.Discount.PeriodFrom, result.Discount.PeriodTo),
			Unit:       result.Discount.Unit,
		}
	}

	if result.PointRate != nil {
		used := &dto.PointRateUsedDTO{
			PointPrice: result.PointRate.PointPrice,
			InsuranceDegree: dto.InsuranceDegreeRefDTO{
				ID: result.PointRate.InsuranceDegreeID,
			},
		}
		if degree, err := f.degreeRepo.ByID(ctx, result.PointRate.InsuranceDegreeID); err == nil && degree != nil {
			used.InsuranceDegree.Code = degree.Code
			used.InsuranceDegree.NameEn = degree.NameEn
		}
		resp.PointRateUsed = used
	}

	for _, w := range result.Warnings {
		resp.Warnings = append(resp.Warnings, dto.FactorWarningDTO{
			FactorKey: w.FactorKey,
			Message:   w.Message,
		})
	}

	return resp, nil
}

func derefDefinitions(in []*models.PricingFactorDefinition) []models.PricingFactorDefinition {
	out := make([]models.PricingFactorDefinition, 0, len(in))
	for _, d := range in {
		if d != nil {
			out = append(out, *d)
		}
	}
	return out
}

func derefRates(in []*models.PointRate) []models.PointRate {
	out := make([]models.PointRate, 0, len(in))
	for _, r := range in {
		if r != nil {
			out = append(out, *r)
		}
	}
	return out
}
