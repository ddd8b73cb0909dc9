package pricing

import (
	"sort"

	"github.com/alqaisi42/medexaTPA-sub003/models"
	"github.com/shopspring/decimal"
)

// AdjustmentApplied records one adjustment case that matched and changed the
// running amount.
type AdjustmentApplied struct {
	CaseID      uint                  `json:"case_id"`
	CaseName    string                `json:"case_name"`
	Type        models.AdjustmentType `json:"type"`
	FactorKey   string                `json:"factor_key"`
	Amount      decimal.Decimal       `json:"amount"`  // the case's configured delta or percent
	Running     decimal.Decimal       `json:"running"` // amount after this case applied
}

// ApplyAdjustments evaluates the cases in their definition order against the
// resolved factors. Every matching case applies, each adjusting the running
// amount: FIXED amounts are additive deltas, PERCENT amounts apply to the
// amount as it stands after prior adjustments. Adjustments compose
// sequentially, never against the original base.
//
// The returned amount is rounded once, after all adjustments.
func ApplyAdjustments(amount decimal.Decimal, factors []FactorValue, cases []models.AdjustmentCase) (decimal.Decimal, []AdjustmentApplied) {
	facts := indexFactors(factors)

	ordered := make([]models.AdjustmentCase, len(cases))
	copy(ordered, cases)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Position < ordered[j].Position
	})

	running := amount
	applied := make([]AdjustmentApplied, 0)
	hundred := decimal.NewFromInt(100)
	for _, c := range ordered {
		if c.IsActive != nil && !*c.IsActive {
			continue
		}
		if !conditionsSatisfied(c.MatchCondition, facts) {
			continue
		}

		switch c.AdjustmentType {
		case models.AdjustmentTypeFixed:
			running = running.Add(c.Amount)
		case models.AdjustmentTypePercent:
			running = running.Add(running.Mul(c.Amount).Div(hundred))
		default:
			continue
		}

		applied = append(applied, AdjustmentApplied{
			CaseID:    c.ID,
			CaseName:  c.NameEn,
			Type:      c.AdjustmentType,
			FactorKey: firstConditionKey(c.MatchCondition),
			Amount:    c.Amount,
			Running:   running,
		})
	}

	return RoundMoney(running), applied
}

// ApplyDeductible subtracts the effective deductible from the amount, floored
// at zero, and reports the deductible actually applied.
func ApplyDeductible(amount decimal.Decimal, deductible *decimal.Decimal) (decimal.Decimal, *decimal.Decimal) {
	if deductible == nil || deductible.IsZero() {
		return amount, nil
	}
	applied := RoundMoney(*deductible)
	return RoundMoney(FloorZero(amount.Sub(applied))), &applied
}

func firstConditionKey(conds models.RuleConditions) string {
	if len(conds) == 0 {
		return ""
	}
	return conds[0].FactorKey
}
