package businessflow_test

import (
	"context"
	"testing"

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

func newCaseFlow(testDB *testingutil.TestDB) businessflow.AdjustmentCaseFlow {
	return businessflow.NewAdjustmentCaseFlow(
		repository.NewAdjustmentCaseRepository(testDB.DB),
		repository.NewFactorDefinitionRepository(testDB.DB),
	)
}

func TestAdminAdjustmentCaseFlow(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		flow := newCaseFlow(testDB)
		fixtures := testingutil.NewTestFixtures(testDB)
		ctx := context.Background()

		t.Run("CreateAppendsToEnd", func(t *testing.T) {
			first, err := flow.AdminCreateAdjustmentCase(ctx, &dto.AdminCreateAdjustmentCaseRequest{
				NameEn:         "Night surcharge",
				AdjustmentType: "PERCENT",
				Amount:         decimal.RequireFromString("10"),
			})
			require.NoError(t, err)
			assert.Equal(t, 1, first.Case.Position)

			second, err := flow.AdminCreateAdjustmentCase(ctx, &dto.AdminCreateAdjustmentCaseRequest{
				NameEn:         "Emergency fee",
				AdjustmentType: "FIXED",
				Amount:         decimal.RequireFromString("50.00"),
			})
			require.NoError(t, err)
			assert.Equal(t, 2, second.Case.Position)
		})

		t.Run("CreateRejectsBadType", func(t *testing.T) {
			_, err := flow.AdminCreateAdjustmentCase(ctx, &dto.AdminCreateAdjustmentCaseRequest{
				NameEn:         "Broken",
				AdjustmentType: "MULTIPLY",
				Amount:         decimal.RequireFromString("2"),
			})
			require.Error(t, err)
			assert.True(t, businessflow.IsAdjustmentTypeInvalid(err))
		})

		t.Run("CreateRejectsUnknownConditionKey", func(t *testing.T) {
			_, err := flow.AdminCreateAdjustmentCase(ctx, &dto.AdminCreateAdjustmentCaseRequest{
				NameEn:         "Conditional",
				AdjustmentType: "PERCENT",
				Amount:         decimal.RequireFromString("5"),
				MatchCondition: []dto.RuleConditionDTO{
					{FactorKey: "undeclared", Operator: "eq", ExpectedValue: "x"},
				},
			})
			require.Error(t, err)
			assert.True(t, businessflow.IsConditionFactorKeyUnknown(err))
		})

		t.Run("CreateWithDeclaredCondition", func(t *testing.T) {
			_, err := fixtures.CreateTestFactorDefinition("visit_type", models.FactorDataTypeSelect, "inpatient", "outpatient")
			require.NoError(t, err)

			resp, err := flow.AdminCreateAdjustmentCase(ctx, &dto.AdminCreateAdjustmentCaseRequest{
				NameEn:         "Inpatient surcharge",
				AdjustmentType: "PERCENT",
				Amount:         decimal.RequireFromString("15"),
				MatchCondition: []dto.RuleConditionDTO{
					{FactorKey: "visit_type", Operator: "eq", ExpectedValue: "inpatient"},
				},
			})
			require.NoError(t, err)
			require.Len(t, resp.Case.MatchCondition, 1)
			assert.Equal(t, 3, resp.Case.Position)
		})

		t.Run("ReorderRejectsIncompleteSet", func(t *testing.T) {
			list, err := flow.AdminListAdjustmentCases(ctx)
			require.NoError(t, err)
			require.Len(t, list.Items, 3)

			_, err = flow.AdminReorderAdjustmentCases(ctx, &dto.AdminReorderAdjustmentCasesRequest{
				OrderedIDs: []uint{list.Items[0].ID},
			})
			require.Error(t, err)
			assert.True(t, businessflow.IsReorderIDsIncomplete(err))

			// duplicate IDs padded to the right length are rejected too
			_, err = flow.AdminReorderAdjustmentCases(ctx, &dto.AdminReorderAdjustmentCasesRequest{
				OrderedIDs: []uint{list.Items[0].ID, list.Items[0].ID, list.Items[1].ID},
			})
			require.Error(t, err)
			assert.True(t, businessflow.IsReorderIDsIncomplete(err))
		})

		t.Run("ReorderRewritesPositions", func(t *testing.T) {
			list, err := flow.AdminListAdjustmentCases(ctx)
			require.NoError(t, err)
			require.Len(t, list.Items, 3)

			reversed := []uint{list.Items[2].ID, list.Items[1].ID, list.Items[0].ID}
			_, err = flow.AdminReorderAdjustmentCases(ctx, &dto.AdminReorderAdjustmentCasesRequest{
				OrderedIDs: reversed,
			})
			require.NoError(t, err)

			after, err := flow.AdminListAdjustmentCases(ctx)
			require.NoError(t, err)
			require.Len(t, after.Items, 3)
			assert.Equal(t, reversed[0], after.Items[0].ID)
			assert.Equal(t, 1, after.Items[0].Position)
			assert.Equal(t, reversed[2], after.Items[2].ID)
			assert.Equal(t, 3, after.Items[2].Position)
		})

		t.Run("UpdateDeactivatesCase", func(t *testing.T) {
			list, err := flow.AdminListAdjustmentCases(ctx)
			require.NoError(t, err)
			target := list.Items[0]

			resp, err := flow.AdminUpdateAdjustmentCase(ctx, &dto.AdminUpdateAdjustmentCaseRequest{
				ID: target.ID,
				AdminCreateAdjustmentCaseRequest: dto.AdminCreateAdjustmentCaseRequest{
					NameEn:         target.NameEn,
					AdjustmentType: target.AdjustmentType,
					Amount:         target.Amount,
					Position:       utils.ToPtr(target.Position),
					IsActive:       utils.ToPtr(false),
				},
			})
			require.NoError(t, err)
			assert.False(t, resp.Case.IsActive)
		})

		t.Run("Delete", func(t *testing.T) {
			created, err := flow.AdminCreateAdjustmentCase(ctx, &dto.AdminCreateAdjustmentCaseRequest{
				NameEn:         "Short lived",
				AdjustmentType: "FIXED",
				Amount:         decimal.RequireFromString("1.00"),
			})
			require.NoError(t, err)

			_, err = flow.AdminDeleteAdjustmentCase(ctx, created.Case.ID)
			require.NoError(t, err)

			_, err = flow.AdminDeleteAdjustmentCase(ctx, created.Case.ID)
			require.Error(t, err)
			assert.True(t, businessflow.IsAdjustmentCaseNotFound(err))
		})

		return nil
	})
	require.NoError(t, err)
}
