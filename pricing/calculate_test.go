package pricing

import (
	"errors"
	"testing"
	"time"

	"github.com/alqaisi42/medexaTPA-sub003/models"
	"github.com/alqaisi42/medexaTPA-sub003/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseInput() CalculationInput {
	rule := fixedRule(1, 10, "50")
	rule.CoverageReason = utils.ToPtr("standard outpatient coverage")
	return CalculationInput{
		ProcedureID:       10,
		PriceListID:       1,
		InsuranceDegreeID: 2,
		AsOf:              day(2024, time.June, 15),
		CandidateRules:    []models.PricingRule{rule},
	}
}

func TestCalculate(t *testing.T) {
	t.Run("FixedRuleEndToEnd", func(t *testing.T) {
		result, err := Calculate(baseInput())
		require.NoError(t, err)

		assert.Equal(t, "50.00", result.FinalPrice.StringFixed(2))
		assert.True(t, result.Covered)
		assert.Equal(t, "standard outpatient coverage", result.CoverageReason)
		assert.False(t, result.RequiresPreapproval)
		assert.Equal(t, uint(1), result.SelectedRuleID)
		assert.NotEmpty(t, result.SelectionReason)
		assert.Nil(t, result.OverridePriceListID)
		assert.Empty(t, result.Adjustments)
		assert.Nil(t, result.Discount)
		assert.Nil(t, result.DeductibleApplied)
	})

	t.Run("Deterministic", func(t *testing.T) {
		in := baseInput()
		in.RawFactors = map[string]any{"age": "70", "emergency": "true"}
		in.Definitions = []models.PricingFactorDefinition{
			{ID: 1, Key: "age", DataType: models.FactorDataTypeInteger},
			{ID: 2, Key: "emergency", DataType: models.FactorDataTypeBoolean},
		}
		in.AdjustmentCases = []models.AdjustmentCase{
			{ID: 1, NameEn: "Emergency surcharge", AdjustmentType: models.AdjustmentTypePercent, Amount: dec("10"), Position: 1,
				MatchCondition: models.RuleConditions{{FactorKey: "emergency", Operator: models.OperatorEquals, ExpectedValue: "true"}}},
		}

		first, err := Calculate(in)
		require.NoError(t, err)
		second, err := Calculate(in)
		require.NoError(t, err)

		assert.True(t, first.FinalPrice.Equal(second.FinalPrice))
		assert.Equal(t, first.SelectedRuleID, second.SelectedRuleID)
		assert.Equal(t, first.SelectionReason, second.SelectionReason)
		assert.Equal(t, len(first.Adjustments), len(second.Adjustments))
	})

	t.Run("ContractDiscountAfterBase", func(t *testing.T) {
		in := baseInput()
		in.Contract = &models.Contract{
			ID: 1,
			Discount: &models.DiscountSchedule{
				DiscountID: 3,
				Percentage: dec("10"),
				PeriodFrom: day(2024, time.January, 1),
				PeriodTo:   day(2024, time.December, 31),
				Unit:       "case",
			},
		}

		result, err := Calculate(in)
		require.NoError(t, err)
		assert.Equal(t, "45.00", result.FinalPrice.StringFixed(2))
		require.NotNil(t, result.Discount)
		assert.Equal(t, uint(3), result.Discount.DiscountID)
	})

	t.Run("ContractCopaySurfacedWithoutReducingPrice", func(t *testing.T) {
		copayType := models.CopayTypePercent
		in := baseInput()
		in.Contract = &models.Contract{
			ID:            1,
			CopayOverride: decp("10"),
			CopayType:     &copayType,
		}

		result, err := Calculate(in)
		require.NoError(t, err)
		assert.Equal(t, "50.00", result.FinalPrice.StringFixed(2))
		require.NotNil(t, result.Copay)
		assert.Equal(t, models.CopayTypePercent, result.Copay.Type)
		assert.Equal(t, "5.00", result.Copay.Amount.StringFixed(2))
	})

	t.Run("ContractPriceListSubstitution", func(t *testing.T) {
		in := baseInput()
		in.Contract = &models.Contract{ID: 1, OverridePriceListID: uintp(9)}
		override := fixedRule(5, 10, "70")
		override.PriceListID = uintp(9)
		in.OverrideCandidateRules = []models.PricingRule{override}

		result, err := Calculate(in)
		require.NoError(t, err)
		assert.Equal(t, "70.00", result.FinalPrice.StringFixed(2))
		assert.Equal(t, uint(5), result.SelectedRuleID)
		require.NotNil(t, result.OverridePriceListID)
		assert.Equal(t, uint(9), *result.OverridePriceListID)
	})

	t.Run("DiscountThenAdjustmentThenDeductible", func(t *testing.T) {
		in := baseInput()
		rule := fixedRule(1, 10, "100")
		rule.Deductible = decp("15")
		in.CandidateRules = []models.PricingRule{rule}
		in.Contract = &models.Contract{
			ID: 1,
			Discount: &models.DiscountSchedule{
				DiscountID: 3,
				Percentage: dec("10"),
				PeriodFrom: day(2024, time.January, 1),
				PeriodTo:   day(2024, time.December, 31),
			},
		}
		in.RawFactors = map[string]any{"emergency": true}
		in.Definitions = []models.PricingFactorDefinition{
			{ID: 1, Key: "emergency", DataType: models.FactorDataTypeBoolean},
		}
		in.AdjustmentCases = []models.AdjustmentCase{
			{ID: 1, NameEn: "Emergency surcharge", AdjustmentType: models.AdjustmentTypePercent, Amount: dec("10"), Position: 1,
				MatchCondition: models.RuleConditions{{FactorKey: "emergency", Operator: models.OperatorEquals, ExpectedValue: "true"}}},
		}

		// 100 -> 90 (discount) -> 99 (surcharge) -> 84 (deductible).
		result, err := Calculate(in)
		require.NoError(t, err)
		assert.Equal(t, "84.00", result.FinalPrice.StringFixed(2))
		require.NotNil(t, result.DeductibleApplied)
		assert.Equal(t, "15.00", result.DeductibleApplied.StringFixed(2))
	})

	t.Run("OutOfWindowReportsNoRuleFound", func(t *testing.T) {
		in := baseInput()
		in.AsOf = day(2023, time.June, 15)

		_, err := Calculate(in)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrNoRuleFound))

		var nrf *NoRuleFoundError
		require.True(t, errors.As(err, &nrf))
		assert.Equal(t, uint(10), nrf.ProcedureID)
		assert.Equal(t, uint(1), nrf.PriceListID)
		assert.Equal(t, uint(2), nrf.InsuranceDegreeID)
	})

	t.Run("MissingPointRateSurfaces", func(t *testing.T) {
		in := baseInput()
		in.CandidateRules = []models.PricingRule{{
			ID:                1,
			ProcedureID:       10,
			InsuranceDegreeID: uintp(2),
			PricingMethod:     models.PricingMethodPoints,
			PointMultiplier:   decp("2"),
			EffectiveFrom:     day(2024, time.January, 1),
		}}

		_, err := Calculate(in)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrMissingPointRate))
	})

	t.Run("ResolverWarningsCarriedToResult", func(t *testing.T) {
		in := baseInput()
		in.RawFactors = map[string]any{"network_tier": "PLATINUM"}
		in.Definitions = []models.PricingFactorDefinition{
			{ID: 1, Key: "network_tier", DataType: models.FactorDataTypeSelect, AllowedValues: models.StringList{"GOLD", "SILVER"}},
		}

		result, err := Calculate(in)
		require.NoError(t, err)
		require.Len(t, result.Warnings, 1)
		assert.Equal(t, "network_tier", result.Warnings[0].FactorKey)
	})

	t.Run("InvalidInputRejectedBeforeMatching", func(t *testing.T) {
		for _, mutate := range []func(*CalculationInput){
			func(in *CalculationInput) { in.ProcedureID = 0 },
			func(in *CalculationInput) { in.PriceListID = 0 },
			func(in *CalculationInput) { in.InsuranceDegreeID = 0 },
			func(in *CalculationInput) { in.AsOf = time.Time{} },
		} {
			in := baseInput()
			mutate(&in)
			_, err := Calculate(in)
			assert.True(t, errors.Is(err, ErrInvalidInput))
		}
	})
}
