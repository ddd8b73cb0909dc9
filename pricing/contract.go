package pricing

import (
	"time"

	"github.com/alqaisi42/medexaTPA-sub003/models"
	"github.com/shopspring/decimal"
)

// DiscountApplied records a contract discount that reduced the amount.
type DiscountApplied struct {
	DiscountID uint            `json:"discount_id"`
	Percentage decimal.Decimal `json:"percentage"`
	PeriodFrom time.Time       `json:"period_from"`
	PeriodTo   time.Time       `json:"period_to"`
	Unit       string          `json:"unit"`
}

// CapSummary surfaces the contract's informational spending bounds. Enforcing
// them against cumulative spend needs external claims history; the engine
// only reports the applicable values.
type CapSummary struct {
	AnnualCap  *decimal.Decimal `json:"annual_cap,omitempty"`
	MonthlyCap *decimal.Decimal `json:"monthly_cap,omitempty"`
	PerCaseCap *decimal.Decimal `json:"per_case_cap,omitempty"`
}

// ApplyContract applies the contract's discount schedule to the amount when
// the schedule is active as of the calculation date, and collects the caps.
// Price list substitution is handled during rule matching, before base
// computation; this stage only adjusts money.
//
// The returned amount is rounded to the currency's minor unit.
func ApplyContract(amount decimal.Decimal, contract *models.Contract, asOf time.Time) (decimal.Decimal, *DiscountApplied, *CapSummary) {
	if contract == nil {
		return amount, nil, nil
	}

	caps := &CapSummary{
		AnnualCap:  contract.AnnualCap,
		MonthlyCap: contract.MonthlyCap,
		PerCaseCap: contract.PerCaseCap,
	}
	if caps.AnnualCap == nil && caps.MonthlyCap == nil && caps.PerCaseCap == nil {
		caps = nil
	}

	if contract.Discount == nil || !contract.Discount.ActiveAt(asOf) {
		return amount, nil, caps
	}

	d := contract.Discount
	hundred := decimal.NewFromInt(100)
	reduced := amount.Mul(hundred.Sub(d.Percentage)).Div(hundred)

	return RoundMoney(reduced), &DiscountApplied{
		DiscountID: d.DiscountID,
		Percentage: d.Percentage,
		PeriodFrom: d.PeriodFrom,
		PeriodTo:   d.PeriodTo,
		Unit:       d.Unit,
	}, caps
}

// CopayApplied reports the member copay applicable under the contract. Like
// the caps it is informational: the final price stays the full procedure
// price and the copay is the member's share of it.
type CopayApplied struct {
	Type   models.CopayType `json:"type"`
	Value  decimal.Decimal  `json:"value"`
	Amount decimal.Decimal  `json:"amount"`
}

// EffectiveCopay resolves the copay applicable to the final amount. A
// contract override supersedes any default entirely; an override without a
// declared type is treated as a fixed amount.
func EffectiveCopay(contract *models.Contract, final decimal.Decimal) *CopayApplied {
	if contract == nil || contract.CopayOverride == nil {
		return nil
	}

	copayType := models.CopayTypeFixed
	if contract.CopayType != nil {
		copayType = *contract.CopayType
	}

	amount := *contract.CopayOverride
	if copayType == models.CopayTypePercent {
		amount = final.Mul(*contract.CopayOverride).Div(decimal.NewFromInt(100))
	}

	return &CopayApplied{
		Type:   copayType,
		Value:  *contract.CopayOverride,
		Amount: RoundMoney(amount),
	}
}

// EffectiveDeductible picks the deductible to subtract after adjustments.
// A contract override supersedes the rule default entirely; the two are
// never merged.
func EffectiveDeductible(rule *models.PricingRule, contract *models.Contract) *decimal.Decimal {
	if contract != nil && contract.DeductibleOverride != nil {
		return contract.DeductibleOverride
	}
	if rule != nil {
		return rule.Deductible
	}
	return nil
}
