package businessflow_test

import (
	"context"
	"testing"
	"time"

	"github.com/alqaisi42/medexaTPA-sub003/app/dto"
	businessflow "github.com/alqaisi42/medexaTPA-sub003/business_flow"
	"github.com/alqaisi42/medexaTPA-sub003/repository"
	testingutil "github.com/alqaisi42/medexaTPA-sub003/testing"
	"github.com/alqaisi42/medexaTPA-sub003/utils"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdminFactorDefinitionFlow(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		flow := businessflow.NewFactorDefinitionFlow(repository.NewFactorDefinitionRepository(testDB.DB))
		ctx := context.Background()

		t.Run("Create", func(t *testing.T) {
			resp, err := flow.AdminCreateFactorDefinition(ctx, &dto.AdminCreateFactorDefinitionRequest{
				Key:      "patient_age",
				NameEn:   "Patient age",
				DataType: "INTEGER",
			})
			require.NoError(t, err)
			assert.NotZero(t, resp.Definition.ID)
			assert.True(t, resp.Definition.IsActive)
		})

		t.Run("CreateRejectsDuplicateKey", func(t *testing.T) {
			_, err := flow.AdminCreateFactorDefinition(ctx, &dto.AdminCreateFactorDefinitionRequest{
				Key:      "patient_age",
				NameEn:   "Patient age again",
				DataType: "INTEGER",
			})
			require.Error(t, err)
			assert.True(t, businessflow.IsFactorKeyExists(err))
		})

		t.Run("CreateRejectsBadDataType", func(t *testing.T) {
			_, err := flow.AdminCreateFactorDefinition(ctx, &dto.AdminCreateFactorDefinitionRequest{
				Key:      "weird",
				NameEn:   "Weird",
				DataType: "BLOB",
			})
			require.Error(t, err)
			assert.True(t, businessflow.IsFactorDataTypeInvalid(err))
		})

		t.Run("SelectRequiresAllowedValues", func(t *testing.T) {
			_, err := flow.AdminCreateFactorDefinition(ctx, &dto.AdminCreateFactorDefinitionRequest{
				Key:      "visit_type",
				NameEn:   "Visit type",
				DataType: "SELECT",
			})
			require.Error(t, err)
			assert.True(t, businessflow.IsAllowedValuesRequired(err))

			resp, err := flow.AdminCreateFactorDefinition(ctx, &dto.AdminCreateFactorDefinitionRequest{
				Key:           "visit_type",
				NameEn:        "Visit type",
				DataType:      "SELECT",
				AllowedValues: []string{"inpatient", "outpatient"},
			})
			require.NoError(t, err)
			assert.Equal(t, []string{"inpatient", "outpatient"}, resp.Definition.AllowedValues)
		})

		t.Run("UpdateKeepsKeyWhenUnchanged", func(t *testing.T) {
			created, err := flow.AdminCreateFactorDefinition(ctx, &dto.AdminCreateFactorDefinitionRequest{
				Key:      "provider_grade",
				NameEn:   "Provider grade",
				DataType: "TEXT",
			})
			require.NoError(t, err)

			resp, err := flow.AdminUpdateFactorDefinition(ctx, &dto.AdminUpdateFactorDefinitionRequest{
				ID: created.Definition.ID,
				AdminCreateFactorDefinitionRequest: dto.AdminCreateFactorDefinitionRequest{
					Key:      "provider_grade",
					NameEn:   "Provider grade (renamed)",
					DataType: "TEXT",
				},
			})
			require.NoError(t, err)
			assert.Equal(t, "Provider grade (renamed)", resp.Definition.NameEn)
		})

		t.Run("DeleteAndList", func(t *testing.T) {
			created, err := flow.AdminCreateFactorDefinition(ctx, &dto.AdminCreateFactorDefinitionRequest{
				Key:      "temp_factor",
				NameEn:   "Temporary",
				DataType: "BOOLEAN",
			})
			require.NoError(t, err)

			_, err = flow.AdminDeleteFactorDefinition(ctx, created.Definition.ID)
			require.NoError(t, err)

			list, err := flow.AdminListFactorDefinitions(ctx)
			require.NoError(t, err)
			for _, item := range list.Items {
				assert.NotEqual(t, "temp_factor", item.Key)
			}
		})

		return nil
	})
	require.NoError(t, err)
}

func TestAdminPriceListFlow(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		flow := businessflow.NewPriceListFlow(repository.NewPriceListRepository(testDB.DB))
		ctx := context.Background()

		t.Run("CreateAndDuplicateCode", func(t *testing.T) {
			resp, err := flow.AdminCreatePriceList(ctx, &dto.AdminCreatePriceListRequest{
				Code:   "GENERAL",
				NameEn: "General Tariff",
			})
			require.NoError(t, err)
			assert.NotEmpty(t, resp.PriceList.UUID)

			_, err = flow.AdminCreatePriceList(ctx, &dto.AdminCreatePriceListRequest{
				Code:   "GENERAL",
				NameEn: "Another",
			})
			require.Error(t, err)
			assert.True(t, businessflow.IsPriceListCodeExists(err))
		})

		t.Run("UpdateDeactivates", func(t *testing.T) {
			created, err := flow.AdminCreatePriceList(ctx, &dto.AdminCreatePriceListRequest{
				Code:   "LEGACY",
				NameEn: "Legacy Tariff",
			})
			require.NoError(t, err)

			resp, err := flow.AdminUpdatePriceList(ctx, &dto.AdminUpdatePriceListRequest{
				ID: created.PriceList.ID,
				AdminCreatePriceListRequest: dto.AdminCreatePriceListRequest{
					Code:     "LEGACY",
					NameEn:   "Legacy Tariff",
					IsActive: utils.ToPtr(false),
				},
			})
			require.NoError(t, err)
			assert.False(t, resp.PriceList.IsActive)
		})

		t.Run("UpdateMissing", func(t *testing.T) {
			_, err := flow.AdminUpdatePriceList(ctx, &dto.AdminUpdatePriceListRequest{
				ID: 99999,
				AdminCreatePriceListRequest: dto.AdminCreatePriceListRequest{
					Code:   "NOPE",
					NameEn: "Nope",
				},
			})
			require.Error(t, err)
			assert.True(t, businessflow.IsPriceListNotFound(err))
		})

		return nil
	})
	require.NoError(t, err)
}

func TestAdminInsuranceDegreeFlow(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		flow := businessflow.NewInsuranceDegreeFlow(repository.NewInsuranceDegreeRepository(testDB.DB))
		ctx := context.Background()

		t.Run("CreateListAndDuplicate", func(t *testing.T) {
			_, err := flow.AdminCreateInsuranceDegree(ctx, &dto.AdminCreateInsuranceDegreeRequest{
				Code:   "VIP",
				NameEn: "VIP",
			})
			require.NoError(t, err)

			_, err = flow.AdminCreateInsuranceDegree(ctx, &dto.AdminCreateInsuranceDegreeRequest{
				Code:   "VIP",
				NameEn: "VIP again",
			})
			require.Error(t, err)
			assert.True(t, businessflow.IsDegreeCodeExists(err))

			list, err := flow.AdminListInsuranceDegrees(ctx)
			require.NoError(t, err)
			assert.Len(t, list.Items, 1)
		})

		return nil
	})
	require.NoError(t, err)
}

func TestAdminPointRateFlow(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		flow := businessflow.NewPointRateFlow(
			repository.NewPointRateRepository(testDB.DB),
			repository.NewInsuranceDegreeRepository(testDB.DB),
		)
		fixtures := testingutil.NewTestFixtures(testDB)
		ctx := context.Background()

		degree, err := fixtures.CreateTestInsuranceDegree("Gold")
		require.NoError(t, err)

		t.Run("Create", func(t *testing.T) {
			resp, err := flow.AdminCreatePointRate(ctx, &dto.AdminCreatePointRateRequest{
				InsuranceDegreeID: degree.ID,
				PointPrice:        decimal.RequireFromString("3.25"),
				EffectiveFrom:     utils.UTCNow().Add(-24 * time.Hour),
			})
			require.NoError(t, err)
			assert.True(t, resp.Rate.PointPrice.Equal(decimal.RequireFromString("3.25")))
		})

		t.Run("CreateRejectsNonPositivePrice", func(t *testing.T) {
			_, err := flow.AdminCreatePointRate(ctx, &dto.AdminCreatePointRateRequest{
				InsuranceDegreeID: degree.ID,
				PointPrice:        decimal.Zero,
				EffectiveFrom:     utils.UTCNow(),
			})
			require.Error(t, err)
			assert.True(t, businessflow.IsPointPriceInvalid(err))
		})

		t.Run("CreateRejectsInvertedWindow", func(t *testing.T) {
			from := utils.UTCNow()
			_, err := flow.AdminCreatePointRate(ctx, &dto.AdminCreatePointRateRequest{
				InsuranceDegreeID: degree.ID,
				PointPrice:        decimal.RequireFromString("1.0"),
				EffectiveFrom:     from,
				EffectiveTo:       utils.ToPtr(from.Add(-time.Hour)),
			})
			require.Error(t, err)
			assert.True(t, businessflow.IsEffectiveWindowInverted(err))
		})

		t.Run("CreateRejectsUnknownDegree", func(t *testing.T) {
			_, err := flow.AdminCreatePointRate(ctx, &dto.AdminCreatePointRateRequest{
				InsuranceDegreeID: 99999,
				PointPrice:        decimal.RequireFromString("1.0"),
				EffectiveFrom:     utils.UTCNow(),
			})
			require.Error(t, err)
			assert.True(t, businessflow.IsInsuranceDegreeNotFound(err))
		})

		t.Run("ListAndDelete", func(t *testing.T) {
			list, err := flow.AdminListPointRates(ctx, degree.ID)
			require.NoError(t, err)
			require.Len(t, list.Items, 1)

			_, err = flow.AdminDeletePointRate(ctx, list.Items[0].ID)
			require.NoError(t, err)

			list, err = flow.AdminListPointRates(ctx, degree.ID)
			require.NoError(t, err)
			assert.Empty(t, list.Items)
		})

		return nil
	})
	require.NoError(t, err)
}
