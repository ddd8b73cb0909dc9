package businessflow_test

import (
	"context"
	"testing"

	"github.com/alqaisi42/medexaTPA-sub003/app/dto"
	"github.com/alqaisi42/medexaTPA-sub003/app/middleware"
	testingutil "github.com/alqaisi42/medexaTPA-sub003/testing"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The flow's calculation counter and the HTTP middleware collectors share the
// default registry; linking both packages into one binary must leave exactly
// one pricing_calculations_total family.
func TestCalculationCounterRegisteredOnce(t *testing.T) {
	require.NotNil(t, middleware.Metrics())

	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		flow := newPricingFlow(testDB)
		ctx := context.Background()

		list, err := fixtures.CreateTestPriceList("Metrics Tariff")
		require.NoError(t, err)
		degree, err := fixtures.CreateTestInsuranceDegree("Metrics Degree")
		require.NoError(t, err)
		_, err = fixtures.CreateTestFixedRule(7001, "10.00")
		require.NoError(t, err)

		_, err = flow.CalculatePricing(ctx, &dto.CalculatePricingRequest{
			ProcedureID:       7001,
			PriceListID:       list.ID,
			InsuranceDegreeID: degree.ID,
			Date:              today(),
		})
		require.NoError(t, err)

		families, err := prometheus.DefaultGatherer.Gather()
		require.NoError(t, err)

		seen := 0
		for _, mf := range families {
			if mf.GetName() == "pricing_calculations_total" {
				seen++
			}
		}
		assert.Equal(t, 1, seen)

		return nil
	})
	require.NoError(t, err)
}
