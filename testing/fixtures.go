// Package testing provides test utilities and database setup for testing the pricing service
package testing

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/alqaisi42/medexaTPA-sub003/models"
	"github.com/alqaisi42/medexaTPA-sub003/utils"
	"github.com/shopspring/decimal"
)

// TestFixtures provides helper methods for creating test data
type TestFixtures struct {
	DB *TestDB
}

// NewTestFixtures creates a new test fixtures instance
func NewTestFixtures(db *TestDB) *TestFixtures {
	return &TestFixtures{DB: db}
}

// CreateTestPriceList creates an active price list with a random unique code
func (tf *TestFixtures) CreateTestPriceList(name string) (*models.PriceList, error) {
	list := &models.PriceList{
		Code:     fmt.Sprintf("PL-%06d", rand.Intn(900000)+100000),
		NameEn:   name,
		IsActive: utils.ToPtr(true),
	}

	if err := tf.DB.DB.Create(list).Error; err != nil {
		return nil, fmt.Errorf("failed to create test price list: %w", err)
	}

	return list, nil
}

// CreateTestInsuranceDegree creates an active insurance degree with a random unique code
func (tf *TestFixtures) CreateTestInsuranceDegree(name string) (*models.InsuranceDegree, error) {
	degree := &models.InsuranceDegree{
		Code:     fmt.Sprintf("DEG-%06d", rand.Intn(900000)+100000),
		NameEn:   name,
		IsActive: utils.ToPtr(true),
	}

	if err := tf.DB.DB.Create(degree).Error; err != nil {
		return nil, fmt.Errorf("failed to create test insurance degree: %w", err)
	}

	return degree, nil
}

// CreateTestFactorDefinition creates an active factor definition
func (tf *TestFixtures) CreateTestFactorDefinition(key string, dataType models.FactorDataType, allowedValues ...string) (*models.PricingFactorDefinition, error) {
	def := &models.PricingFactorDefinition{
		Key:           key,
		NameEn:        fmt.Sprintf("Test factor %s", key),
		DataType:      dataType,
		AllowedValues: models.StringList(allowedValues),
		IsActive:      utils.ToPtr(true),
	}

	if err := tf.DB.DB.Create(def).Error; err != nil {
		return nil, fmt.Errorf("failed to create test factor definition: %w", err)
	}

	return def, nil
}

// CreateTestPointRate creates an open-ended point rate effective since yesterday
func (tf *TestFixtures) CreateTestPointRate(degreeID uint, price string) (*models.PointRate, error) {
	pointPrice, err := decimal.NewFromString(price)
	if err != nil {
		return nil, fmt.Errorf("invalid point price %q: %w", price, err)
	}

	rate := &models.PointRate{
		InsuranceDegreeID: degreeID,
		PointPrice:        pointPrice,
		EffectiveFrom:     utils.UTCNow().Add(-24 * time.Hour),
	}

	if err := tf.DB.DB.Create(rate).Error; err != nil {
		return nil, fmt.Errorf("failed to create test point rate: %w", err)
	}

	return rate, nil
}

// CreateTestFixedRule creates an active FIXED-method rule for the given
// procedure, effective since yesterday and open-ended
func (tf *TestFixtures) CreateTestFixedRule(procedureID uint, amount string) (*models.PricingRule, error) {
	fixedAmount, err := decimal.NewFromString(amount)
	if err != nil {
		return nil, fmt.Errorf("invalid fixed amount %q: %w", amount, err)
	}

	rule := &models.PricingRule{
		ProcedureID:   procedureID,
		Conditions:    models.RuleConditions{},
		PricingMethod: models.PricingMethodFixed,
		FixedAmount:   &fixedAmount,
		EffectiveFrom: utils.UTCNow().Add(-24 * time.Hour),
		Covered:       utils.ToPtr(true),
	}

	if err := tf.DB.DB.Create(rule).Error; err != nil {
		return nil, fmt.Errorf("failed to create test pricing rule: %w", err)
	}

	return rule, nil
}

// CreateTestPointsRule creates an active POINTS-method rule scoped to an
// insurance degree
func (tf *TestFixtures) CreateTestPointsRule(procedureID, degreeID uint, multiplier string) (*models.PricingRule, error) {
	pointMultiplier, err := decimal.NewFromString(multiplier)
	if err != nil {
		return nil, fmt.Errorf("invalid point multiplier %q: %w", multiplier, err)
	}

	rule := &models.PricingRule{
		ProcedureID:       procedureID,
		InsuranceDegreeID: &degreeID,
		Conditions:        models.RuleConditions{},
		PricingMethod:     models.PricingMethodPoints,
		PointMultiplier:   &pointMultiplier,
		EffectiveFrom:     utils.UTCNow().Add(-24 * time.Hour),
		Covered:           utils.ToPtr(true),
	}

	if err := tf.DB.DB.Create(rule).Error; err != nil {
		return nil, fmt.Errorf("failed to create test pricing rule: %w", err)
	}

	return rule, nil
}

// CreateTestContract creates an active contract with a percentage discount
// valid for the next 30 days
func (tf *TestFixtures) CreateTestContract(discountPct string) (*models.Contract, error) {
	percentage, err := decimal.NewFromString(discountPct)
	if err != nil {
		return nil, fmt.Errorf("invalid discount percentage %q: %w", discountPct, err)
	}

	now := utils.UTCNow()
	contract := &models.Contract{
		Code:   fmt.Sprintf("CT-%06d", rand.Intn(900000)+100000),
		NameEn: "Test Contract",
		Discount: &models.DiscountSchedule{
			DiscountID: 1,
			Percentage: percentage,
			PeriodFrom: now.Add(-24 * time.Hour),
			PeriodTo:   now.Add(30 * 24 * time.Hour),
			Unit:       "case",
		},
		IsActive: utils.ToPtr(true),
	}

	if err := tf.DB.DB.Create(contract).Error; err != nil {
		return nil, fmt.Errorf("failed to create test contract: %w", err)
	}

	return contract, nil
}

// CreateTestAdjustmentCase creates an active adjustment case at the given position
func (tf *TestFixtures) CreateTestAdjustmentCase(name string, adjType models.AdjustmentType, amount string, position int, conditions models.RuleConditions) (*models.AdjustmentCase, error) {
	amt, err := decimal.NewFromString(amount)
	if err != nil {
		return nil, fmt.Errorf("invalid adjustment amount %q: %w", amount, err)
	}

	if conditions == nil {
		conditions = models.RuleConditions{}
	}

	adjCase := &models.AdjustmentCase{
		NameEn:         name,
		MatchCondition: conditions,
		AdjustmentType: adjType,
		Amount:         amt,
		Position:       position,
		IsActive:       utils.ToPtr(true),
	}

	if err := tf.DB.DB.Create(adjCase).Error; err != nil {
		return nil, fmt.Errorf("failed to create test adjustment case: %w", err)
	}

	return adjCase, nil
}
