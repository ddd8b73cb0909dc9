package pricing

import (
	"time"

	"github.com/alqaisi42/medexaTPA-sub003/models"
	"github.com/shopspring/decimal"
)

// PointRateUsed records the point rate that contributed to a POINTS
// calculation, for result transparency.
type PointRateUsed struct {
	RateID            uint            `json:"rate_id"`
	InsuranceDegreeID uint            `json:"insurance_degree_id"`
	PointPrice        decimal.Decimal `json:"point_price"`
}

// ComputeBase computes the raw price from the selected rule's pricing method.
// referenceAmount is the injected reference for PERCENTAGE rules and, when
// present, the amount to clamp for RANGE rules; the engine never computes a
// reference price itself to avoid circular pricing.
//
// The returned amount is rounded to the currency's minor unit.
func ComputeBase(rule *models.PricingRule, rates []models.PointRate, referenceAmount *decimal.Decimal, asOf time.Time) (decimal.Decimal, *PointRateUsed, error) {
	switch rule.PricingMethod {
	case models.PricingMethodFixed:
		if rule.FixedAmount == nil {
			return decimal.Zero, nil, invalidInputf("rule %d is FIXED but has no fixed amount", rule.ID)
		}
		return RoundMoney(*rule.FixedAmount), nil, nil

	case models.PricingMethodPoints:
		if rule.PointMultiplier == nil || rule.InsuranceDegreeID == nil {
			return decimal.Zero, nil, invalidInputf("rule %d is POINTS but is missing its multiplier or insurance degree", rule.ID)
		}
		rate := validPointRate(rates, *rule.InsuranceDegreeID, asOf)
		if rate == nil {
			return decimal.Zero, nil, &MissingPointRateError{
				InsuranceDegreeID: *rule.InsuranceDegreeID,
				AsOf:              asOf,
			}
		}
		amount := rate.PointPrice.Mul(*rule.PointMultiplier)
		used := &PointRateUsed{
			RateID:            rate.ID,
			InsuranceDegreeID: rate.InsuranceDegreeID,
			PointPrice:        rate.PointPrice,
		}
		return RoundMoney(amount), used, nil

	case models.PricingMethodRange:
		if rule.MinPrice == nil || rule.MaxPrice == nil {
			return decimal.Zero, nil, invalidInputf("rule %d is RANGE but has no price bounds", rule.ID)
		}
		base := referenceAmount
		if base == nil {
			base = rule.NominalAmount
		}
		if base == nil {
			return decimal.Zero, nil, invalidInputf("rule %d is RANGE but has no amount to clamp", rule.ID)
		}
		return RoundMoney(clamp(*base, *rule.MinPrice, *rule.MaxPrice)), nil, nil

	case models.PricingMethodPercentage:
		if rule.PercentageRate == nil {
			return decimal.Zero, nil, invalidInputf("rule %d is PERCENTAGE but has no rate", rule.ID)
		}
		if referenceAmount == nil {
			return decimal.Zero, nil, &ReferenceAmountRequiredError{RuleID: rule.ID}
		}
		return RoundMoney(rule.PercentageRate.Mul(*referenceAmount)), nil, nil

	default:
		return decimal.Zero, nil, invalidInputf("rule %d has unknown pricing method %q", rule.ID, rule.PricingMethod)
	}
}

// validPointRate returns the rate valid as of the date for the degree. When
// several windows overlap the one with the latest effective_from wins.
func validPointRate(rates []models.PointRate, degreeID uint, asOf time.Time) *models.PointRate {
	var best *models.PointRate
	for i := range rates {
		r := &rates[i]
		if r.InsuranceDegreeID != degreeID || !r.ValidAt(asOf) {
			continue
		}
		if best == nil || r.EffectiveFrom.After(best.EffectiveFrom) {
			best = r
		}
	}
	return best
}

func clamp(v, lo, hi decimal.Decimal) decimal.Decimal {
	if v.LessThan(lo) {
		return lo
	}
	if v.GreaterThan(hi) {
		return hi
	}
	return v
}
