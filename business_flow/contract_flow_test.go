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

func newContractFlow(testDB *testingutil.TestDB) businessflow.ContractFlow {
	return businessflow.NewContractFlow(
		repository.NewContractRepository(testDB.DB),
		repository.NewPriceListRepository(testDB.DB),
	)
}

func discountDTO(pct string) *dto.DiscountScheduleDTO {
	now := utils.UTCNow()
	return &dto.DiscountScheduleDTO{
		DiscountID: 1,
		Percentage: decimal.RequireFromString(pct),
		PeriodFrom: now.Add(-24 * time.Hour),
		PeriodTo:   now.Add(30 * 24 * time.Hour),
		Unit:       "case",
	}
}

func TestAdminContractFlow(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		flow := newContractFlow(testDB)
		fixtures := testingutil.NewTestFixtures(testDB)
		ctx := context.Background()

		t.Run("CreateAndDuplicateCode", func(t *testing.T) {
			resp, err := flow.AdminCreateContract(ctx, &dto.AdminCreateContractRequest{
				Code:     "ACME-2026",
				NameEn:   "ACME Corp",
				Discount: discountDTO("10"),
			})
			require.NoError(t, err)
			assert.NotEmpty(t, resp.Contract.UUID)
			require.NotNil(t, resp.Contract.Discount)
			assert.True(t, resp.Contract.Discount.Percentage.Equal(decimal.RequireFromString("10")))

			_, err = flow.AdminCreateContract(ctx, &dto.AdminCreateContractRequest{
				Code:   "ACME-2026",
				NameEn: "ACME duplicate",
			})
			require.Error(t, err)
			assert.True(t, businessflow.IsContractCodeExists(err))
		})

		t.Run("CreateRejectsDiscountOutOfRange", func(t *testing.T) {
			_, err := flow.AdminCreateContract(ctx, &dto.AdminCreateContractRequest{
				Code:     "BAD-PCT",
				NameEn:   "Bad percentage",
				Discount: discountDTO("150"),
			})
			require.Error(t, err)
			assert.True(t, businessflow.IsDiscountPctOutOfRange(err))
		})

		t.Run("CreateRejectsInvertedDiscountPeriod", func(t *testing.T) {
			d := discountDTO("10")
			d.PeriodFrom, d.PeriodTo = d.PeriodTo, d.PeriodFrom
			_, err := flow.AdminCreateContract(ctx, &dto.AdminCreateContractRequest{
				Code:     "BAD-PERIOD",
				NameEn:   "Bad period",
				Discount: d,
			})
			require.Error(t, err)
			assert.True(t, businessflow.IsDiscountPeriodInverted(err))
		})

		t.Run("CreateRejectsUnknownOverrideList", func(t *testing.T) {
			_, err := flow.AdminCreateContract(ctx, &dto.AdminCreateContractRequest{
				Code:                "BAD-LIST",
				NameEn:              "Bad list",
				OverridePriceListID: utils.ToPtr(uint(99999)),
			})
			require.Error(t, err)
			assert.True(t, businessflow.IsOverridePriceListInvalid(err))
		})

		t.Run("CreateRejectsInactiveOverrideList", func(t *testing.T) {
			list, err := fixtures.CreateTestPriceList("Retired Tariff")
			require.NoError(t, err)
			list.IsActive = utils.ToPtr(false)
			require.NoError(t, repository.NewPriceListRepository(testDB.DB).Update(ctx, list))

			_, err = flow.AdminCreateContract(ctx, &dto.AdminCreateContractRequest{
				Code:                "INACTIVE-LIST",
				NameEn:              "Inactive list",
				OverridePriceListID: &list.ID,
			})
			require.Error(t, err)
			assert.True(t, businessflow.IsOverridePriceListInvalid(err))
		})

		t.Run("CreateWithCopayOverride", func(t *testing.T) {
			copayType := "PERCENT"
			resp, err := flow.AdminCreateContract(ctx, &dto.AdminCreateContractRequest{
				Code:          "COPAY",
				NameEn:        "Copay contract",
				CopayOverride: utils.ToPtr(decimal.RequireFromString("20")),
				CopayType:     &copayType,
			})
			require.NoError(t, err)
			require.NotNil(t, resp.Contract.CopayType)
			assert.Equal(t, "PERCENT", *resp.Contract.CopayType)
		})

		t.Run("UpdatePreservesIdentity", func(t *testing.T) {
			created, err := flow.AdminCreateContract(ctx, &dto.AdminCreateContractRequest{
				Code:   "UPD",
				NameEn: "Before",
			})
			require.NoError(t, err)

			resp, err := flow.AdminUpdateContract(ctx, &dto.AdminUpdateContractRequest{
				ID: created.Contract.ID,
				AdminCreateContractRequest: dto.AdminCreateContractRequest{
					Code:   "UPD",
					NameEn: "After",
				},
			})
			require.NoError(t, err)
			assert.Equal(t, created.Contract.UUID, resp.Contract.UUID)
			assert.Equal(t, "After", resp.Contract.NameEn)
		})

		t.Run("List", func(t *testing.T) {
			list, err := flow.AdminListContracts(ctx)
			require.NoError(t, err)
			assert.GreaterOrEqual(t, len(list.Items), 3)
		})

		return nil
	})
	require.NoError(t, err)
}
