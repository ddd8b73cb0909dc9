package pricing

import (
	"testing"
	"time"

	"github.com/alqaisi42/medexaTPA-sub003/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyContract(t *testing.T) {
	asOf := day(2024, time.June, 15)

	t.Run("NilContractPassesThrough", func(t *testing.T) {
		got, discount, caps := ApplyContract(dec("50"), nil, asOf)
		assert.Equal(t, "50", got.String())
		assert.Nil(t, discount)
		assert.Nil(t, caps)
	})

	t.Run("ActiveDiscountReduces", func(t *testing.T) {
		contract := &models.Contract{
			ID: 1,
			Discount: &models.DiscountSchedule{
				DiscountID: 7,
				Percentage: dec("10"),
				PeriodFrom: day(2024, time.January, 1),
				PeriodTo:   day(2024, time.December, 31),
				Unit:       "case",
			},
		}

		got, discount, _ := ApplyContract(dec("50"), contract, asOf)
		assert.Equal(t, "45.00", got.StringFixed(2))
		require.NotNil(t, discount)
		assert.Equal(t, uint(7), discount.DiscountID)
		assert.True(t, discount.Percentage.Equal(dec("10")))
	})

	t.Run("ExpiredDiscountIgnored", func(t *testing.T) {
		contract := &models.Contract{
			ID: 1,
			Discount: &models.DiscountSchedule{
				DiscountID: 7,
				Percentage: dec("10"),
				PeriodFrom: day(2023, time.January, 1),
				PeriodTo:   day(2023, time.December, 31),
			},
		}

		got, discount, _ := ApplyContract(dec("50"), contract, asOf)
		assert.Equal(t, "50", got.String())
		assert.Nil(t, discount)
	})

	t.Run("CapsSurfacedWithoutEnforcement", func(t *testing.T) {
		contract := &models.Contract{
			ID:         1,
			AnnualCap:  decp("10000"),
			PerCaseCap: decp("500"),
		}

		got, _, caps := ApplyContract(dec("50"), contract, asOf)
		assert.Equal(t, "50", got.String())
		require.NotNil(t, caps)
		assert.True(t, caps.AnnualCap.Equal(dec("10000")))
		assert.True(t, caps.PerCaseCap.Equal(dec("500")))
		assert.Nil(t, caps.MonthlyCap)
	})

	t.Run("NoCapsMeansNilSummary", func(t *testing.T) {
		_, _, caps := ApplyContract(dec("50"), &models.Contract{ID: 1}, asOf)
		assert.Nil(t, caps)
	})
}

func TestEffectiveDeductible(t *testing.T) {
	rule := fixedRule(1, 10, "50")
	rule.Deductible = decp("15")

	t.Run("ContractOverrideWins", func(t *testing.T) {
		contract := &models.Contract{ID: 1, DeductibleOverride: decp("5")}
		got := EffectiveDeductible(&rule, contract)
		require.NotNil(t, got)
		assert.True(t, got.Equal(dec("5")), "override replaces the rule default, never merges with it")
	})

	t.Run("RuleDefaultWithoutOverride", func(t *testing.T) {
		got := EffectiveDeductible(&rule, &models.Contract{ID: 1})
		require.NotNil(t, got)
		assert.True(t, got.Equal(dec("15")))
	})

	t.Run("NilWhenNeitherSet", func(t *testing.T) {
		bare := fixedRule(2, 10, "50")
		assert.Nil(t, EffectiveDeductible(&bare, nil))
	})
}

func TestEffectiveCopay(t *testing.T) {
	t.Run("NilWithoutOverride", func(t *testing.T) {
		assert.Nil(t, EffectiveCopay(nil, dec("100")))
		assert.Nil(t, EffectiveCopay(&models.Contract{ID: 1}, dec("100")))
	})

	t.Run("FixedOverride", func(t *testing.T) {
		copayType := models.CopayTypeFixed
		contract := &models.Contract{
			ID:            1,
			CopayOverride: decp("15"),
			CopayType:     &copayType,
		}

		copay := EffectiveCopay(contract, dec("200"))
		require.NotNil(t, copay)
		assert.Equal(t, models.CopayTypeFixed, copay.Type)
		assert.Equal(t, "15.00", copay.Amount.StringFixed(2))
	})

	t.Run("PercentOverrideTakesShareOfFinal", func(t *testing.T) {
		copayType := models.CopayTypePercent
		contract := &models.Contract{
			ID:            1,
			CopayOverride: decp("10"),
			CopayType:     &copayType,
		}

		copay := EffectiveCopay(contract, dec("200"))
		require.NotNil(t, copay)
		assert.Equal(t, models.CopayTypePercent, copay.Type)
		assert.True(t, copay.Value.Equal(dec("10")))
		assert.Equal(t, "20.00", copay.Amount.StringFixed(2))
	})

	t.Run("UntypedOverrideTreatedAsFixed", func(t *testing.T) {
		contract := &models.Contract{
			ID:            1,
			CopayOverride: decp("25"),
		}

		copay := EffectiveCopay(contract, dec("200"))
		require.NotNil(t, copay)
		assert.Equal(t, models.CopayTypeFixed, copay.Type)
		assert.Equal(t, "25.00", copay.Amount.StringFixed(2))
	})
}

func TestDecide(t *testing.T) {
	t.Run("ReflectsRuleFlags", func(t *testing.T) {
		rule := fixedRule(1, 10, "50")
		rule.Covered = boolp(false)
		rule.CoverageReason = strp("cosmetic procedure excluded")
		rule.PreapprovalRequired = boolp(true)
		rule.PreapprovalReason = strp("high cost procedure")

		d := Decide(&rule)
		assert.False(t, d.Covered)
		assert.Equal(t, "cosmetic procedure excluded", d.CoverageReason)
		assert.True(t, d.RequiresPreapproval)
		assert.Equal(t, "high cost procedure", d.PreapprovalReason)
	})

	t.Run("NilRuleIsNotCovered", func(t *testing.T) {
		d := Decide(nil)
		assert.False(t, d.Covered)
		assert.NotEmpty(t, d.CoverageReason)
		assert.False(t, d.RequiresPreapproval)
	})
}
