package pricing

import (
	"testing"

	"github.com/alqaisi42/medexaTPA-sub003/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func emergencyFactors() []FactorValue {
	return []FactorValue{
		{Key: "emergency", DataType: models.FactorDataTypeBoolean, Raw: "true", Bool: true},
		{Key: "age", DataType: models.FactorDataTypeInteger, Raw: "70", Number: dec("70")},
	}
}

func TestApplyAdjustments(t *testing.T) {
	t.Run("OrderSensitiveComposition", func(t *testing.T) {
		// +10% then -5 on 100 gives 105; applying -5 first would give 104.50.
		cases := []models.AdjustmentCase{
			{ID: 2, NameEn: "Night discount", AdjustmentType: models.AdjustmentTypeFixed, Amount: dec("-5"), Position: 2},
			{ID: 1, NameEn: "Emergency surcharge", AdjustmentType: models.AdjustmentTypePercent, Amount: dec("10"), Position: 1,
				MatchCondition: models.RuleConditions{{FactorKey: "emergency", Operator: models.OperatorEquals, ExpectedValue: "true"}}},
		}

		got, applied := ApplyAdjustments(dec("100"), emergencyFactors(), cases)
		assert.Equal(t, "105.00", got.StringFixed(2))
		require.Len(t, applied, 2)
		assert.Equal(t, uint(1), applied[0].CaseID)
		assert.Equal(t, "110", applied[0].Running.String())
		assert.Equal(t, uint(2), applied[1].CaseID)
		assert.Equal(t, "105", applied[1].Running.String())
	})

	t.Run("PercentAppliesToRunningAmount", func(t *testing.T) {
		cases := []models.AdjustmentCase{
			{ID: 1, NameEn: "Base surcharge", AdjustmentType: models.AdjustmentTypeFixed, Amount: dec("100"), Position: 1},
			{ID: 2, NameEn: "Senior surcharge", AdjustmentType: models.AdjustmentTypePercent, Amount: dec("10"), Position: 2,
				MatchCondition: models.RuleConditions{{FactorKey: "age", Operator: models.OperatorGreaterEqual, ExpectedValue: "65"}}},
		}

		got, applied := ApplyAdjustments(dec("100"), emergencyFactors(), cases)
		assert.Equal(t, "220.00", got.StringFixed(2), "percent sees the post-surcharge amount")
		require.Len(t, applied, 2)
	})

	t.Run("NonMatchingAndInactiveCasesSkipped", func(t *testing.T) {
		cases := []models.AdjustmentCase{
			{ID: 1, NameEn: "Pediatric discount", AdjustmentType: models.AdjustmentTypeFixed, Amount: dec("-10"), Position: 1,
				MatchCondition: models.RuleConditions{{FactorKey: "age", Operator: models.OperatorLessThan, ExpectedValue: "12"}}},
			{ID: 2, NameEn: "Retired surcharge", AdjustmentType: models.AdjustmentTypeFixed, Amount: dec("5"), Position: 2,
				IsActive: boolp(false)},
		}

		got, applied := ApplyAdjustments(dec("100"), emergencyFactors(), cases)
		assert.Equal(t, "100.00", got.StringFixed(2))
		assert.Empty(t, applied)
	})

	t.Run("EmptyConditionCaseAlwaysApplies", func(t *testing.T) {
		cases := []models.AdjustmentCase{
			{ID: 1, NameEn: "Flat admin fee", AdjustmentType: models.AdjustmentTypeFixed, Amount: dec("2.50"), Position: 1},
		}

		got, applied := ApplyAdjustments(dec("100"), nil, cases)
		assert.Equal(t, "102.50", got.StringFixed(2))
		assert.Len(t, applied, 1)
	})

	t.Run("RoundsOnceAfterAllCases", func(t *testing.T) {
		cases := []models.AdjustmentCase{
			{ID: 1, NameEn: "A", AdjustmentType: models.AdjustmentTypePercent, Amount: dec("3.333"), Position: 1},
			{ID: 2, NameEn: "B", AdjustmentType: models.AdjustmentTypePercent, Amount: dec("3.333"), Position: 2},
		}

		got, _ := ApplyAdjustments(dec("100"), nil, cases)
		// 100 * 1.03333^2 = 106.77709..., rounded once at the end.
		assert.Equal(t, "106.78", got.StringFixed(2))
	})
}

func TestApplyDeductible(t *testing.T) {
	t.Run("Subtracts", func(t *testing.T) {
		got, applied := ApplyDeductible(dec("105"), decp("15"))
		assert.Equal(t, "90.00", got.StringFixed(2))
		require.NotNil(t, applied)
		assert.Equal(t, "15.00", applied.StringFixed(2))
	})

	t.Run("FloorsAtZero", func(t *testing.T) {
		got, applied := ApplyDeductible(dec("10"), decp("25"))
		assert.True(t, got.IsZero())
		assert.NotNil(t, applied)
	})

	t.Run("NilOrZeroDeductibleIsNoop", func(t *testing.T) {
		got, applied := ApplyDeductible(dec("10"), nil)
		assert.Equal(t, "10", got.String())
		assert.Nil(t, applied)

		got, applied = ApplyDeductible(dec("10"), decp("0"))
		assert.Equal(t, "10", got.String())
		assert.Nil(t, applied)
	})
}
