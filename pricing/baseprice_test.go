package pricing

import (
	"errors"
	"testing"
	"time"

	"github.com/alqaisi42/medexaTPA-sub003/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeBase(t *testing.T) {
	asOf := day(2024, time.June, 15)

	t.Run("FixedRoundsToMinorUnit", func(t *testing.T) {
		rule := fixedRule(1, 10, "50.005")
		got, used, err := ComputeBase(&rule, nil, nil, asOf)
		require.NoError(t, err)
		assert.Nil(t, used)
		assert.Equal(t, "50.01", got.StringFixed(2), "half-up at the minor unit")
	})

	t.Run("PointsMultipliesValidRate", func(t *testing.T) {
		rule := models.PricingRule{
			ID:                1,
			ProcedureID:       10,
			InsuranceDegreeID: uintp(2),
			PricingMethod:     models.PricingMethodPoints,
			PointMultiplier:   decp("3.5"),
			EffectiveFrom:     day(2024, time.January, 1),
		}
		rates := []models.PointRate{
			{ID: 1, InsuranceDegreeID: 2, PointPrice: dec("12.40"), EffectiveFrom: day(2024, time.January, 1)},
		}

		got, used, err := ComputeBase(&rule, rates, nil, asOf)
		require.NoError(t, err)
		assert.Equal(t, "43.40", got.StringFixed(2))
		require.NotNil(t, used)
		assert.Equal(t, uint(1), used.RateID)
		assert.True(t, used.PointPrice.Equal(dec("12.40")))
	})

	t.Run("PointsPrefersLatestEffectiveRate", func(t *testing.T) {
		rule := models.PricingRule{
			ID:                1,
			ProcedureID:       10,
			InsuranceDegreeID: uintp(2),
			PricingMethod:     models.PricingMethodPoints,
			PointMultiplier:   decp("1"),
			EffectiveFrom:     day(2024, time.January, 1),
		}
		rates := []models.PointRate{
			{ID: 1, InsuranceDegreeID: 2, PointPrice: dec("10"), EffectiveFrom: day(2024, time.January, 1)},
			{ID: 2, InsuranceDegreeID: 2, PointPrice: dec("11"), EffectiveFrom: day(2024, time.May, 1)},
			{ID: 3, InsuranceDegreeID: 3, PointPrice: dec("99"), EffectiveFrom: day(2024, time.May, 1)},
		}

		got, used, err := ComputeBase(&rule, rates, nil, asOf)
		require.NoError(t, err)
		assert.Equal(t, "11.00", got.StringFixed(2))
		assert.Equal(t, uint(2), used.RateID)
	})

	t.Run("PointsWithoutRateFails", func(t *testing.T) {
		rule := models.PricingRule{
			ID:                1,
			ProcedureID:       10,
			InsuranceDegreeID: uintp(2),
			PricingMethod:     models.PricingMethodPoints,
			PointMultiplier:   decp("2"),
			EffectiveFrom:     day(2024, time.January, 1),
		}
		expired := []models.PointRate{
			{ID: 1, InsuranceDegreeID: 2, PointPrice: dec("10"), EffectiveFrom: day(2023, time.January, 1), EffectiveTo: dayp(2023, time.December, 31)},
		}

		_, _, err := ComputeBase(&rule, expired, nil, asOf)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrMissingPointRate))

		var mpr *MissingPointRateError
		require.True(t, errors.As(err, &mpr))
		assert.Equal(t, uint(2), mpr.InsuranceDegreeID)
	})

	t.Run("RangeClampsReferenceAmount", func(t *testing.T) {
		rule := models.PricingRule{
			ID:            1,
			ProcedureID:   10,
			PricingMethod: models.PricingMethodRange,
			MinPrice:      decp("20"),
			MaxPrice:      decp("80"),
			EffectiveFrom: day(2024, time.January, 1),
		}

		for _, tc := range []struct{ ref, want string }{
			{"10", "20.00"},
			{"50", "50.00"},
			{"95", "80.00"},
		} {
			got, _, err := ComputeBase(&rule, nil, decp(tc.ref), asOf)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got.StringFixed(2))
		}
	})

	t.Run("RangeFallsBackToNominalAmount", func(t *testing.T) {
		rule := models.PricingRule{
			ID:            1,
			ProcedureID:   10,
			PricingMethod: models.PricingMethodRange,
			MinPrice:      decp("20"),
			MaxPrice:      decp("80"),
			NominalAmount: decp("100"),
			EffectiveFrom: day(2024, time.January, 1),
		}

		got, _, err := ComputeBase(&rule, nil, nil, asOf)
		require.NoError(t, err)
		assert.Equal(t, "80.00", got.StringFixed(2))
	})

	t.Run("PercentageNeedsReferenceAmount", func(t *testing.T) {
		rule := models.PricingRule{
			ID:             1,
			ProcedureID:    10,
			PricingMethod:  models.PricingMethodPercentage,
			PercentageRate: decp("0.8"),
			EffectiveFrom:  day(2024, time.January, 1),
		}

		got, _, err := ComputeBase(&rule, nil, decp("125"), asOf)
		require.NoError(t, err)
		assert.Equal(t, "100.00", got.StringFixed(2))

		_, _, err = ComputeBase(&rule, nil, nil, asOf)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrInvalidInput))
		assert.True(t, errors.Is(err, ErrReferenceAmountRequired))
	})

	t.Run("MisconfiguredMethodParamsFail", func(t *testing.T) {
		rule := models.PricingRule{
			ID:            1,
			ProcedureID:   10,
			PricingMethod: models.PricingMethodFixed,
			EffectiveFrom: day(2024, time.January, 1),
		}
		_, _, err := ComputeBase(&rule, nil, nil, asOf)
		assert.True(t, errors.Is(err, ErrInvalidInput))
	})
}
