package businessflow_test

import (
	"context"
	"testing"
	"time"

	"github.com/alqaisi42/medexaTPA-sub003/app/dto"
	businessflow "github.com/alqaisi42/medexaTPA-sub003/business_flow"
	"github.com/alqaisi42/medexaTPA-sub003/models"
	"github.com/alqaisi42/medexaTPA-sub003/repository"
	testingutil "github.com/alqaisi42/medexaTPA-sub003/testing"
	"github.com/alqaisi42/medexaTPA-sub003/utils"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPricingFlow(testDB *testingutil.TestDB) businessflow.PricingFlow {
	return businessflow.NewPricingFlow(
		repository.NewPricingRuleRepository(testDB.DB),
		repository.NewPointRateRepository(testDB.DB),
		repository.NewFactorDefinitionRepository(testDB.DB),
		repository.NewInsuranceDegreeRepository(testDB.DB),
		repository.NewContractRepository(testDB.DB),
		repository.NewAdjustmentCaseRepository(testDB.DB),
		nil,
		nil,
	)
}

func today() string {
	return utils.UTCNow().Format(utils.DateLayout)
}

func TestCalculatePricing(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		flow := newPricingFlow(testDB)
		ctx := context.Background()

		list, err := fixtures.CreateTestPriceList("Standard Tariff")
		require.NoError(t, err)
		degree, err := fixtures.CreateTestInsuranceDegree("Gold")
		require.NoError(t, err)

		t.Run("FixedRule", func(t *testing.T) {
			_, err := fixtures.CreateTestFixedRule(1001, "150.00")
			require.NoError(t, err)

			result, err := flow.CalculatePricing(ctx, &dto.CalculatePricingRequest{
				ProcedureID:       1001,
				PriceListID:       list.ID,
				InsuranceDegreeID: degree.ID,
				Date:              today(),
			})
			require.NoError(t, err)
			assert.True(t, result.FinalPrice.Equal(decimal.RequireFromString("150.00")),
				"final price %s", result.FinalPrice)
			assert.True(t, result.Covered)
			assert.NotNil(t, result.SelectedRuleID)
			assert.Empty(t, result.AdjustmentsApplied)
		})

		t.Run("PointsRule", func(t *testing.T) {
			_, err := fixtures.CreateTestPointRate(degree.ID, "2.5")
			require.NoError(t, err)
			_, err = fixtures.CreateTestPointsRule(1002, degree.ID, "10")
			require.NoError(t, err)

			result, err := flow.CalculatePricing(ctx, &dto.CalculatePricingRequest{
				ProcedureID:       1002,
				PriceListID:       list.ID,
				InsuranceDegreeID: degree.ID,
				Date:              today(),
			})
			require.NoError(t, err)
			assert.True(t, result.FinalPrice.Equal(decimal.RequireFromString("25.00")),
				"final price %s", result.FinalPrice)
			require.NotNil(t, result.PointRateUsed)
			assert.True(t, result.PointRateUsed.PointPrice.Equal(decimal.RequireFromString("2.5")))
			assert.Equal(t, degree.ID, result.PointRateUsed.InsuranceDegree.ID)
			assert.Equal(t, "Gold", result.PointRateUsed.InsuranceDegree.NameEn)
		})

		t.Run("PointsRuleWithoutRate", func(t *testing.T) {
			bare, err := fixtures.CreateTestInsuranceDegree("Bare")
			require.NoError(t, err)
			_, err = fixtures.CreateTestPointsRule(1003, bare.ID, "10")
			require.NoError(t, err)

			_, err = flow.CalculatePricing(ctx, &dto.CalculatePricingRequest{
				ProcedureID:       1003,
				PriceListID:       list.ID,
				InsuranceDegreeID: bare.ID,
				Date:              today(),
			})
			require.Error(t, err)
			assert.True(t, businessflow.IsMissingPointRate(err))
		})

		t.Run("NoRuleFound", func(t *testing.T) {
			_, err := flow.CalculatePricing(ctx, &dto.CalculatePricingRequest{
				ProcedureID:       999999,
				PriceListID:       list.ID,
				InsuranceDegreeID: degree.ID,
				Date:              today(),
			})
			require.Error(t, err)
			assert.True(t, businessflow.IsNoRuleFound(err))
		})

		t.Run("PercentageRuleNeedsReferenceAmount", func(t *testing.T) {
			rate := decimal.RequireFromString("0.8")
			rule := &models.PricingRule{
				ProcedureID:    1003,
				Conditions:     models.RuleConditions{},
				PricingMethod:  models.PricingMethodPercentage,
				PercentageRate: &rate,
				EffectiveFrom:  utils.UTCNow().Add(-24 * time.Hour),
				Covered:        utils.ToPtr(true),
			}
			require.NoError(t, testDB.DB.Create(rule).Error)

			req := &dto.CalculatePricingRequest{
				ProcedureID:       1003,
				PriceListID:       list.ID,
				InsuranceDegreeID: degree.ID,
				Date:              today(),
			}

			_, err := flow.CalculatePricing(ctx, req)
			require.Error(t, err)
			assert.True(t, businessflow.IsReferenceAmountEmpty(err))

			ref := decimal.RequireFromString("125")
			req.ReferenceAmount = &ref
			result, err := flow.CalculatePricing(ctx, req)
			require.NoError(t, err)
			assert.True(t, result.FinalPrice.Equal(decimal.RequireFromString("100.00")),
				"final price %s", result.FinalPrice)
		})

		t.Run("InvalidDate", func(t *testing.T) {
			_, err := flow.CalculatePricing(ctx, &dto.CalculatePricingRequest{
				ProcedureID:       1001,
				PriceListID:       list.ID,
				InsuranceDegreeID: degree.ID,
				Date:              "not-a-date",
			})
			require.Error(t, err)
			assert.True(t, businessflow.IsInvalidCalculation(err))
		})

		t.Run("DateOutsideRuleWindow", func(t *testing.T) {
			_, err := flow.CalculatePricing(ctx, &dto.CalculatePricingRequest{
				ProcedureID:       1001,
				PriceListID:       list.ID,
				InsuranceDegreeID: degree.ID,
				Date:              utils.UTCNow().Add(-365 * 24 * time.Hour).Format(utils.DateLayout),
			})
			require.Error(t, err)
			assert.True(t, businessflow.IsNoRuleFound(err))
		})

		return nil
	})
	require.NoError(t, err)
}

func TestCalculatePricingWithContract(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		flow := newPricingFlow(testDB)
		ctx := context.Background()

		list, err := fixtures.CreateTestPriceList("Contract Tariff")
		require.NoError(t, err)
		degree, err := fixtures.CreateTestInsuranceDegree("Platinum")
		require.NoError(t, err)
		_, err = fixtures.CreateTestFixedRule(2001, "200.00")
		require.NoError(t, err)

		t.Run("DiscountApplied", func(t *testing.T) {
			contract, err := fixtures.CreateTestContract("10")
			require.NoError(t, err)

			result, err := flow.CalculatePricing(ctx, &dto.CalculatePricingRequest{
				ProcedureID:       2001,
				PriceListID:       list.ID,
				InsuranceDegreeID: degree.ID,
				Date:              today(),
				ContractContext:   &dto.ContractContext{ContractID: contract.ID},
			})
			require.NoError(t, err)
			assert.True(t, result.FinalPrice.Equal(decimal.RequireFromString("180.00")),
				"final price %s", result.FinalPrice)
			require.NotNil(t, result.DiscountApplied)
			assert.True(t, result.DiscountApplied.Pct.Equal(decimal.RequireFromString("10")))
		})

		t.Run("DeductibleOverride", func(t *testing.T) {
			contract, err := fixtures.CreateTestContract("0")
			require.NoError(t, err)
			contract.Discount = nil
			contract.DeductibleOverride = utils.ToPtr(decimal.RequireFromString("50.00"))
			contractRepo := repository.NewContractRepository(testDB.DB)
			require.NoError(t, contractRepo.Update(ctx, contract))

			result, err := flow.CalculatePricing(ctx, &dto.CalculatePricingRequest{
				ProcedureID:       2001,
				PriceListID:       list.ID,
				InsuranceDegreeID: degree.ID,
				Date:              today(),
				ContractContext:   &dto.ContractContext{ContractID: contract.ID},
			})
			require.NoError(t, err)
			assert.True(t, result.FinalPrice.Equal(decimal.RequireFromString("150.00")),
				"final price %s", result.FinalPrice)
			require.NotNil(t, result.DeductibleApplied)
			assert.True(t, result.DeductibleApplied.Equal(decimal.RequireFromString("50.00")))
		})

		t.Run("ContractNotFound", func(t *testing.T) {
			_, err := flow.CalculatePricing(ctx, &dto.CalculatePricingRequest{
				ProcedureID:       2001,
				PriceListID:       list.ID,
				InsuranceDegreeID: degree.ID,
				Date:              today(),
				ContractContext:   &dto.ContractContext{ContractID: 99999},
			})
			require.Error(t, err)
			assert.True(t, businessflow.IsContractNotFound(err))
		})

		t.Run("ContractInactive", func(t *testing.T) {
			contract, err := fixtures.CreateTestContract("5")
			require.NoError(t, err)
			contract.IsActive = utils.ToPtr(false)
			contractRepo := repository.NewContractRepository(testDB.DB)
			require.NoError(t, contractRepo.Update(ctx, contract))

			_, err = flow.CalculatePricing(ctx, &dto.CalculatePricingRequest{
				ProcedureID:       2001,
				PriceListID:       list.ID,
				InsuranceDegreeID: degree.ID,
				Date:              today(),
				ContractContext:   &dto.ContractContext{ContractID: contract.ID},
			})
			require.Error(t, err)
			assert.True(t, businessflow.IsContractInactive(err))
		})

		return nil
	})
	require.NoError(t, err)
}

func TestCalculatePricingWithAdjustments(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		flow := newPricingFlow(testDB)
		ctx := context.Background()

		list, err := fixtures.CreateTestPriceList("Adjustment Tariff")
		require.NoError(t, err)
		degree, err := fixtures.CreateTestInsuranceDegree("Basic")
		require.NoError(t, err)
		_, err = fixtures.CreateTestFixedRule(3001, "100.00")
		require.NoError(t, err)
		_, err = fixtures.CreateTestFactorDefinition("visit_type", models.FactorDataTypeSelect, "inpatient", "outpatient")
		require.NoError(t, err)

		_, err = fixtures.CreateTestAdjustmentCase("Inpatient surcharge", models.AdjustmentTypePercent, "10", 1, models.RuleConditions{
			{FactorKey: "visit_type", Operator: models.OperatorEquals, ExpectedValue: "inpatient"},
		})
		require.NoError(t, err)
		_, err = fixtures.CreateTestAdjustmentCase("Processing fee", models.AdjustmentTypeFixed, "5.00", 2, nil)
		require.NoError(t, err)

		t.Run("MatchedCasesComposeInOrder", func(t *testing.T) {
			result, err := flow.CalculatePricing(ctx, &dto.CalculatePricingRequest{
				ProcedureID:       3001,
				PriceListID:       list.ID,
				InsuranceDegreeID: degree.ID,
				Date:              today(),
				Factors:           map[string]any{"visit_type": "inpatient"},
			})
			require.NoError(t, err)
			// 100 * 1.10 + 5
			assert.True(t, result.FinalPrice.Equal(decimal.RequireFromString("115.00")),
				"final price %s", result.FinalPrice)
			require.Len(t, result.AdjustmentsApplied, 2)
			assert.Equal(t, "Inpatient surcharge", result.AdjustmentsApplied[0].CaseMatched)
			assert.Equal(t, "Processing fee", result.AdjustmentsApplied[1].CaseMatched)
		})

		t.Run("UnmatchedCaseSkipped", func(t *testing.T) {
			result, err := flow.CalculatePricing(ctx, &dto.CalculatePricingRequest{
				ProcedureID:       3001,
				PriceListID:       list.ID,
				InsuranceDegreeID: degree.ID,
				Date:              today(),
				Factors:           map[string]any{"visit_type": "outpatient"},
			})
			require.NoError(t, err)
			// only the unconditional fee applies
			assert.True(t, result.FinalPrice.Equal(decimal.RequireFromString("105.00")),
				"final price %s", result.FinalPrice)
			require.Len(t, result.AdjustmentsApplied, 1)
		})

		return nil
	})
	require.NoError(t, err)
}

func TestCalculatePricingBatch(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		flow := newPricingFlow(testDB)
		ctx := context.Background()

		list, err := fixtures.CreateTestPriceList("Batch Tariff")
		require.NoError(t, err)
		degree, err := fixtures.CreateTestInsuranceDegree("Batch Degree")
		require.NoError(t, err)
		_, err = fixtures.CreateTestFixedRule(4001, "75.00")
		require.NoError(t, err)

		t.Run("FailedItemDoesNotAbortBatch", func(t *testing.T) {
			resp, err := flow.CalculatePricingBatch(ctx, &dto.CalculatePricingBatchRequest{
				Items: []dto.CalculatePricingRequest{
					{ProcedureID: 4001, PriceListID: list.ID, InsuranceDegreeID: degree.ID, Date: today()},
					{ProcedureID: 888888, PriceListID: list.ID, InsuranceDegreeID: degree.ID, Date: today()},
					{ProcedureID: 4001, PriceListID: list.ID, InsuranceDegreeID: degree.ID, Date: today()},
				},
			})
			require.NoError(t, err)
			require.Len(t, resp.Items, 3)

			assert.NotNil(t, resp.Items[0].Result)
			assert.Nil(t, resp.Items[0].Error)
			assert.Equal(t, 0, resp.Items[0].Index)

			assert.Nil(t, resp.Items[1].Result)
			require.NotNil(t, resp.Items[1].Error)
			assert.Equal(t, businessflow.CodeNoRuleFound, resp.Items[1].Error.Code)

			assert.NotNil(t, resp.Items[2].Result)
			assert.True(t, resp.Items[2].Result.FinalPrice.Equal(decimal.RequireFromString("75.00")))
		})

		t.Run("RejectsOversizedBatch", func(t *testing.T) {
			items := make([]dto.CalculatePricingRequest, utils.CalculationBatchLimit+1)
			for i := range items {
				items[i] = dto.CalculatePricingRequest{
					ProcedureID:       4001,
					PriceListID:       list.ID,
					InsuranceDegreeID: degree.ID,
					Date:              today(),
				}
			}

			resp, err := flow.CalculatePricingBatch(ctx, &dto.CalculatePricingBatchRequest{Items: items})
			require.Error(t, err)
			assert.Nil(t, resp)
			assert.True(t, businessflow.IsInvalidCalculation(err))
		})

		return nil
	})
	require.NoError(t, err)
}
