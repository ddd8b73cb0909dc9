// Package businessflow contains the business logic for the application.
package businessflow

import (
	"fmt"
	"time"

	"github.com/alqaisi42/medexaTPA-sub003/app/dto"
	"github.com/alqaisi42/medexaTPA-sub003/config"
	"github.com/alqaisi42/medexaTPA-sub003/models"
	"github.com/alqaisi42/medexaTPA-sub003/utils"
)

// redisKey namespaces a cache key with the configured prefix.
func redisKey(cfg config.CacheConfig, key string) string {
	if cfg.RedisPrefix == "" {
		return key
	}
	return cfg.RedisPrefix + ":" + key
}

// parseConditions converts condition DTOs to the model representation,
// validating each operator.
func parseConditions(in []dto.RuleConditionDTO) (models.RuleConditions, error) {
	if len(in) == 0 {
		return models.RuleConditions{}, nil
	}
	out := make(models.RuleConditions, 0, len(in))
	for _, c := range in {
		op := models.ConditionOperator(c.Operator)
		if !op.Valid() {
			return nil, NewBusinessErrorf("CONDITION_OPERATOR_INVALID", "Condition operator %q is not supported", ErrConditionOperatorInvalid, c.Operator)
		}
		out = append(out, models.RuleCondition{
			FactorKey:     c.FactorKey,
			Operator:      op,
			ExpectedValue: c.ExpectedValue,
		})
	}
	return out, nil
}

func conditionsToDTO(in models.RuleConditions) []dto.RuleConditionDTO {
	out := make([]dto.RuleConditionDTO, 0, len(in))
	for _, c := range in {
		out = append(out, dto.RuleConditionDTO{
			FactorKey:     c.FactorKey,
			Operator:      string(c.Operator),
			ExpectedValue: c.ExpectedValue,
		})
	}
	return out
}

// ToPricingRuleDTO converts a pricing rule model for admin responses.
func ToPricingRuleDTO(rule models.PricingRule) dto.PricingRuleDTO {
	return dto.PricingRuleDTO{
		ID:                  rule.ID,
		UUID:                rule.UUID.String(),
		ProcedureID:         rule.ProcedureID,
		PriceListID:         rule.PriceListID,
		InsuranceDegreeID:   rule.InsuranceDegreeID,
		Conditions:          conditionsToDTO(rule.Conditions),
		PricingMethod:       string(rule.PricingMethod),
		FixedAmount:         rule.FixedAmount,
		PointMultiplier:     rule.PointMultiplier,
		MinPrice:            rule.MinPrice,
		MaxPrice:            rule.MaxPrice,
		NominalAmount:       rule.NominalAmount,
		PercentageRate:      rule.PercentageRate,
		ReferenceKind:       rule.ReferenceKind,
		Deductible:          rule.Deductible,
		Priority:            rule.Priority,
		EffectiveFrom:       rule.EffectiveFrom,
		EffectiveTo:         rule.EffectiveTo,
		Covered:             utils.IsTrue(rule.Covered),
		CoverageReason:      rule.CoverageReason,
		PreapprovalRequired: utils.IsTrue(rule.PreapprovalRequired),
		PreapprovalReason:   rule.PreapprovalReason,
		CreatedAt:           rule.CreatedAt.Format(time.RFC3339),
		UpdatedAt:           rule.UpdatedAt.Format(time.RFC3339),
	}
}

// ToContractDTO converts a contract model for admin responses.
func ToContractDTO(contract models.Contract) dto.ContractDTO {
	out := dto.ContractDTO{
		ID:                  contract.ID,
		UUID:                contract.UUID.String(),
		Code:                contract.Code,
		NameEn:              contract.NameEn,
		OverridePriceListID: contract.OverridePriceListID,
		DeductibleOverride:  contract.DeductibleOverride,
		CopayOverride:       contract.CopayOverride,
		AnnualCap:           contract.AnnualCap,
		MonthlyCap:          contract.MonthlyCap,
		PerCaseCap:          contract.PerCaseCap,
		IsActive:            utils.IsTrue(contract.IsActive),
	}
	if contract.CopayType != nil {
		out.CopayType = utils.ToPtr(string(*contract.CopayType))
	}
	if contract.Discount != nil {
		out.Discount = &dto.DiscountScheduleDTO{
			DiscountID: contract.Discount.DiscountID,
			Percentage: contract.Discount.Percentage,
			PeriodFrom: contract.Discount.PeriodFrom,
			PeriodTo:   contract.Discount.PeriodTo,
			Unit:       contract.Discount.Unit,
		}
	}
	return out
}

// ToAdjustmentCaseDTO converts an adjustment case model for admin responses.
func ToAdjustmentCaseDTO(c models.AdjustmentCase) dto.AdjustmentCaseDTO {
	return dto.AdjustmentCaseDTO{
		ID:             c.ID,
		NameEn:         c.NameEn,
		MatchCondition: conditionsToDTO(c.MatchCondition),
		AdjustmentType: string(c.AdjustmentType),
		Amount:         c.Amount,
		Position:       c.Position,
		IsActive:       utils.IsTrue(c.IsActive),
	}
}

// discountPeriodString renders a discount validity period for responses.
func discountPeriodString(from, to time.Time) string {
	return fmt.Sprintf("%s/%s", from.Format("2006-01-02"), to.Format("2006-01-02"))
}
