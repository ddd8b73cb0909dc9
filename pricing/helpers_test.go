package pricing

import (
	"time"

	"github.com/alqaisi42/medexaTPA-sub003/models"
	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decp(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func dayp(y int, m time.Month, d int) *time.Time {
	t := day(y, m, d)
	return &t
}

func uintp(v uint) *uint {
	return &v
}

func boolp(v bool) *bool {
	return &v
}

func strp(v string) *string {
	return &v
}

// fixedRule builds a minimal FIXED-method rule effective from 2024-01-01.
func fixedRule(id uint, procedureID uint, amount string) models.PricingRule {
	return models.PricingRule{
		ID:            id,
		ProcedureID:   procedureID,
		PricingMethod: models.PricingMethodFixed,
		FixedAmount:   decp(amount),
		EffectiveFrom: day(2024, time.January, 1),
		Covered:       boolp(true),
	}
}
