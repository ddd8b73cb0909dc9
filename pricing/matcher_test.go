package pricing

import (
	"errors"
	"testing"
	"time"

	"github.com/alqaisi42/medexaTPA-sub003/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectRule(t *testing.T) {
	match := MatchInput{
		ProcedureID:       10,
		PriceListID:       1,
		InsuranceDegreeID: 2,
		AsOf:              day(2024, time.June, 15),
	}

	t.Run("DisjointWindowsPickByDate", func(t *testing.T) {
		older := fixedRule(1, 10, "40")
		older.EffectiveTo = dayp(2024, time.March, 31)
		newer := fixedRule(2, 10, "50")
		newer.EffectiveFrom = day(2024, time.April, 1)

		sel, err := SelectRule(match, nil, []models.PricingRule{older, newer})
		require.NoError(t, err)
		assert.Equal(t, uint(2), sel.Rule.ID)

		early := match
		early.AsOf = day(2024, time.February, 1)
		sel, err = SelectRule(early, nil, []models.PricingRule{older, newer})
		require.NoError(t, err)
		assert.Equal(t, uint(1), sel.Rule.ID)
	})

	t.Run("WindowBoundsAreInclusive", func(t *testing.T) {
		rule := fixedRule(1, 10, "40")
		rule.EffectiveFrom = day(2024, time.June, 15)
		rule.EffectiveTo = dayp(2024, time.June, 15)

		sel, err := SelectRule(match, nil, []models.PricingRule{rule})
		require.NoError(t, err)
		assert.Equal(t, uint(1), sel.Rule.ID)
	})

	t.Run("PriorityBeatsSpecificity", func(t *testing.T) {
		specific := fixedRule(1, 10, "40")
		specific.Conditions = models.RuleConditions{
			{FactorKey: "age", Operator: models.OperatorGreaterEqual, ExpectedValue: "18"},
			{FactorKey: "chronic", Operator: models.OperatorEquals, ExpectedValue: "true"},
		}
		prioritized := fixedRule(2, 10, "60")
		prioritized.Priority = 5

		factors := []FactorValue{
			{Key: "age", DataType: models.FactorDataTypeInteger, Raw: "30", Number: dec("30")},
			{Key: "chronic", DataType: models.FactorDataTypeBoolean, Raw: "true", Bool: true},
		}

		sel, err := SelectRule(match, factors, []models.PricingRule{specific, prioritized})
		require.NoError(t, err)
		assert.Equal(t, uint(2), sel.Rule.ID)
	})

	t.Run("SpecificityBreaksEqualPriority", func(t *testing.T) {
		general := fixedRule(1, 10, "40")
		specific := fixedRule(2, 10, "60")
		specific.Conditions = models.RuleConditions{
			{FactorKey: "age", Operator: models.OperatorGreaterEqual, ExpectedValue: "18"},
		}

		factors := []FactorValue{
			{Key: "age", DataType: models.FactorDataTypeInteger, Raw: "30", Number: dec("30")},
		}

		sel, err := SelectRule(match, factors, []models.PricingRule{general, specific})
		require.NoError(t, err)
		assert.Equal(t, uint(2), sel.Rule.ID)
	})

	t.Run("RecencyThenLowestIDBreakRemainingTies", func(t *testing.T) {
		a := fixedRule(7, 10, "40")
		b := fixedRule(3, 10, "50")
		b.EffectiveFrom = day(2024, time.March, 1)

		sel, err := SelectRule(match, nil, []models.PricingRule{a, b})
		require.NoError(t, err)
		assert.Equal(t, uint(3), sel.Rule.ID, "later effective_from wins")

		c := fixedRule(9, 10, "55")
		c.EffectiveFrom = day(2024, time.March, 1)
		sel, err = SelectRule(match, nil, []models.PricingRule{c, b})
		require.NoError(t, err)
		assert.Equal(t, uint(3), sel.Rule.ID, "fully tied rules fall back to lowest id")
	})

	t.Run("WildcardDegreeMatchesAnyDegree", func(t *testing.T) {
		wildcard := fixedRule(1, 10, "40")
		other := fixedRule(2, 10, "50")
		other.InsuranceDegreeID = uintp(99)

		sel, err := SelectRule(match, nil, []models.PricingRule{wildcard, other})
		require.NoError(t, err)
		assert.Equal(t, uint(1), sel.Rule.ID)
	})

	t.Run("AbsentFactorKeyFailsTheRule", func(t *testing.T) {
		conditional := fixedRule(1, 10, "40")
		conditional.Conditions = models.RuleConditions{
			{FactorKey: "age", Operator: models.OperatorGreaterEqual, ExpectedValue: "18"},
		}

		_, err := SelectRule(match, nil, []models.PricingRule{conditional})
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrNoRuleFound))
	})

	t.Run("NoRuleFoundEchoesTheCombination", func(t *testing.T) {
		stale := fixedRule(1, 10, "40")
		stale.EffectiveTo = dayp(2024, time.January, 31)

		_, err := SelectRule(match, nil, []models.PricingRule{stale})
		require.Error(t, err)

		var nrf *NoRuleFoundError
		require.True(t, errors.As(err, &nrf))
		assert.Equal(t, uint(10), nrf.ProcedureID)
		assert.Equal(t, uint(1), nrf.PriceListID)
		assert.Equal(t, uint(2), nrf.InsuranceDegreeID)
		assert.True(t, nrf.AsOf.Equal(match.AsOf))
	})

	t.Run("InOperatorAgainstList", func(t *testing.T) {
		rule := fixedRule(1, 10, "40")
		rule.Conditions = models.RuleConditions{
			{FactorKey: "network_tier", Operator: models.OperatorIn, ExpectedValue: "GOLD, SILVER"},
		}

		factors := []FactorValue{
			{Key: "network_tier", DataType: models.FactorDataTypeSelect, Raw: "SILVER"},
		}
		sel, err := SelectRule(match, factors, []models.PricingRule{rule})
		require.NoError(t, err)
		assert.Equal(t, uint(1), sel.Rule.ID)

		factors[0].Raw = "BRONZE"
		_, err = SelectRule(match, factors, []models.PricingRule{rule})
		assert.True(t, errors.Is(err, ErrNoRuleFound))
	})

	t.Run("UnconvertedNumericFailsOrderingButAllowsEquality", func(t *testing.T) {
		ordering := fixedRule(1, 10, "40")
		ordering.Conditions = models.RuleConditions{
			{FactorKey: "age", Operator: models.OperatorGreaterThan, ExpectedValue: "18"},
		}
		equality := fixedRule(2, 10, "50")
		equality.Conditions = models.RuleConditions{
			{FactorKey: "age", Operator: models.OperatorEquals, ExpectedValue: "unknown"},
		}

		factors := []FactorValue{
			{Key: "age", DataType: models.FactorDataTypeInteger, Raw: "unknown", Unconverted: true},
		}

		sel, err := SelectRule(match, factors, []models.PricingRule{ordering, equality})
		require.NoError(t, err)
		assert.Equal(t, uint(2), sel.Rule.ID)
	})

	t.Run("SelectionIsDeterministicAcrossInputOrder", func(t *testing.T) {
		rules := []models.PricingRule{
			fixedRule(1, 10, "40"),
			fixedRule(2, 10, "50"),
			fixedRule(3, 10, "60"),
		}
		rules[1].Priority = 3
		rules[2].Priority = 3

		reversed := []models.PricingRule{rules[2], rules[1], rules[0]}

		first, err := SelectRule(match, nil, rules)
		require.NoError(t, err)
		second, err := SelectRule(match, nil, reversed)
		require.NoError(t, err)
		assert.Equal(t, first.Rule.ID, second.Rule.ID)
		assert.Equal(t, uint(2), first.Rule.ID)
	})
}
