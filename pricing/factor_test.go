package pricing

import (
	"testing"

	"github.com/alqaisi42/medexaTPA-sub003/models"
	"github.com/alqaisi42/medexaTPA-sub003/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defsForTest() []models.PricingFactorDefinition {
	return []models.PricingFactorDefinition{
		{ID: 1, Key: "age", NameEn: "Age", DataType: models.FactorDataTypeInteger, IsActive: utils.ToPtr(true)},
		{ID: 2, Key: "chronic", NameEn: "Chronic Condition", DataType: models.FactorDataTypeBoolean, IsActive: utils.ToPtr(true)},
		{ID: 3, Key: "admission_date", NameEn: "Admission Date", DataType: models.FactorDataTypeDate, IsActive: utils.ToPtr(true)},
		{ID: 4, Key: "network_tier", NameEn: "Network Tier", DataType: models.FactorDataTypeSelect, AllowedValues: models.StringList{"GOLD", "SILVER", "BRONZE"}, IsActive: utils.ToPtr(true)},
		{ID: 5, Key: "diagnosis", NameEn: "Diagnosis Code", DataType: models.FactorDataTypeText, IsActive: utils.ToPtr(true)},
	}
}

func TestResolveFactors(t *testing.T) {
	defs := defsForTest()

	t.Run("NumericCoercion", func(t *testing.T) {
		resolved, warnings := ResolveFactors(map[string]any{"age": "42"}, defs)
		require.Len(t, resolved, 1)
		assert.Empty(t, warnings)
		assert.Equal(t, "age", resolved[0].Key)
		assert.False(t, resolved[0].Unconverted)
		assert.True(t, resolved[0].Number.Equal(dec("42")))
	})

	t.Run("NumericFromJSONNumber", func(t *testing.T) {
		resolved, _ := ResolveFactors(map[string]any{"age": float64(42)}, defs)
		require.Len(t, resolved, 1)
		assert.True(t, resolved[0].Number.Equal(dec("42")))
	})

	t.Run("UnparsableNumberKeptUnconverted", func(t *testing.T) {
		resolved, warnings := ResolveFactors(map[string]any{"age": "forty-two"}, defs)
		require.Len(t, resolved, 1)
		assert.Empty(t, warnings)
		assert.True(t, resolved[0].Unconverted)
		assert.Equal(t, "forty-two", resolved[0].Raw)
	})

	t.Run("BooleanVariants", func(t *testing.T) {
		for _, truthy := range []any{"true", "TRUE", " yes ", "1", true} {
			resolved, _ := ResolveFactors(map[string]any{"chronic": truthy}, defs)
			require.Len(t, resolved, 1)
			assert.True(t, resolved[0].Bool, "expected %v to resolve true", truthy)
		}
		for _, falsy := range []any{"false", "no", "0", "maybe", ""} {
			resolved, _ := ResolveFactors(map[string]any{"chronic": falsy}, defs)
			require.Len(t, resolved, 1)
			assert.False(t, resolved[0].Bool, "expected %v to resolve false", falsy)
		}
	})

	t.Run("DatePassesThrough", func(t *testing.T) {
		resolved, _ := ResolveFactors(map[string]any{"admission_date": "2024-06-01"}, defs)
		require.Len(t, resolved, 1)
		assert.Equal(t, "2024-06-01", resolved[0].Raw)
	})

	t.Run("SelectMemberAccepted", func(t *testing.T) {
		resolved, warnings := ResolveFactors(map[string]any{"network_tier": "GOLD"}, defs)
		require.Len(t, resolved, 1)
		assert.Empty(t, warnings)
	})

	t.Run("SelectIsCaseSensitive", func(t *testing.T) {
		resolved, warnings := ResolveFactors(map[string]any{"network_tier": "gold"}, defs)
		assert.Empty(t, resolved)
		require.Len(t, warnings, 1)
		assert.Equal(t, "network_tier", warnings[0].FactorKey)
	})

	t.Run("SelectFailSoft", func(t *testing.T) {
		resolved, warnings := ResolveFactors(map[string]any{
			"network_tier": "PLATINUM",
			"age":          "30",
		}, defs)
		require.Len(t, resolved, 1, "resolution continues for other factors")
		assert.Equal(t, "age", resolved[0].Key)
		assert.Len(t, warnings, 1)
	})

	t.Run("UnknownKeysDroppedSilently", func(t *testing.T) {
		resolved, warnings := ResolveFactors(map[string]any{"no_such_factor": "x"}, defs)
		assert.Empty(t, resolved)
		assert.Empty(t, warnings)
	})
}
