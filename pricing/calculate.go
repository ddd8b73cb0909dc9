package pricing

import (
	"time"

	"github.com/alqaisi42/medexaTPA-sub003/models"
	"github.com/shopspring/decimal"
)

// CalculationInput carries a single pricing request together with all the
// reference data the pipeline needs. The orchestrating flow fetches rules,
// point rates, contract terms and adjustment cases before calling Calculate;
// the engine itself performs no I/O.
type CalculationInput struct {
	ProcedureID       uint
	PriceListID       uint
	InsuranceDegreeID uint
	AsOf              time.Time

	RawFactors  map[string]any
	Definitions []models.PricingFactorDefinition

	// CandidateRules are the rules fetched for the requested price list.
	// OverrideCandidateRules are fetched for the contract's override price
	// list and are used instead when the contract substitutes one.
	CandidateRules         []models.PricingRule
	OverrideCandidateRules []models.PricingRule

	PointRates      []models.PointRate
	ReferenceAmount *decimal.Decimal
	Contract        *models.Contract
	AdjustmentCases []models.AdjustmentCase
}

// CalculationResult is the fully-explained outcome of one calculation.
// Constructed fresh per call; never persisted by the engine.
type CalculationResult struct {
	FinalPrice decimal.Decimal

	Covered             bool
	CoverageReason      string
	RequiresPreapproval bool
	PreapprovalReason   string

	SelectedRuleID  uint
	SelectionReason string

	// OverridePriceListID is set only when the contract overlay substituted
	// the price list that rules were matched against.
	OverridePriceListID *uint

	Adjustments       []AdjustmentApplied
	Discount          *DiscountApplied
	DeductibleApplied *decimal.Decimal
	PointRate         *PointRateUsed
	Caps              *CapSummary
	Copay             *CopayApplied

	Warnings []Warning
}

// Calculate runs the full pipeline: factor resolution, rule matching, base
// price computation, contract overlay, ordered adjustments, deductible, and
// the coverage decision. It is deterministic: identical inputs produce an
// identical result.
func Calculate(in CalculationInput) (*CalculationResult, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}

	factors, warnings := ResolveFactors(in.RawFactors, in.Definitions)

	// Contract price-list substitution happens before matching so the base
	// price comes from the substituted catalog.
	match := MatchInput{
		ProcedureID:       in.ProcedureID,
		PriceListID:       in.PriceListID,
		InsuranceDegreeID: in.InsuranceDegreeID,
		AsOf:              in.AsOf,
	}
	candidates := in.CandidateRules
	var overrideListID *uint
	if in.Contract != nil && in.Contract.OverridePriceListID != nil {
		match.PriceListID = *in.Contract.OverridePriceListID
		candidates = in.OverrideCandidateRules
		overrideListID = in.Contract.OverridePriceListID
	}

	selection, err := SelectRule(match, factors, candidates)
	if err != nil {
		return nil, err
	}
	rule := selection.Rule

	base, rateUsed, err := ComputeBase(rule, in.PointRates, in.ReferenceAmount, in.AsOf)
	if err != nil {
		return nil, err
	}

	amount, discount, caps := ApplyContract(base, in.Contract, in.AsOf)

	amount, adjustments := ApplyAdjustments(amount, factors, in.AdjustmentCases)

	amount, deductible := ApplyDeductible(amount, EffectiveDeductible(rule, in.Contract))

	final := RoundMoney(amount)
	copay := EffectiveCopay(in.Contract, final)

	decision := Decide(rule)

	return &CalculationResult{
		FinalPrice:          final,
		Covered:             decision.Covered,
		CoverageReason:      decision.CoverageReason,
		RequiresPreapproval: decision.RequiresPreapproval,
		PreapprovalReason:   decision.PreapprovalReason,
		SelectedRuleID:      rule.ID,
		SelectionReason:     selection.Reason,
		OverridePriceListID: overrideListID,
		Adjustments:         adjustments,
		Discount:            discount,
		DeductibleApplied:   deductible,
		PointRate:           rateUsed,
		Caps:                caps,
		Copay:               copay,
		Warnings:            warnings,
	}, nil
}

func validateInput(in CalculationInput) error {
	if in.ProcedureID == 0 {
		return invalidInputf("procedure id is required")
	}
	if in.PriceListID == 0 {
		return invalidInputf("price list id is required")
	}
	if in.InsuranceDegreeID == 0 {
		return invalidInputf("insurance degree id is required")
	}
	if in.AsOf.IsZero() {
		return invalidInputf("calculation date is required")
	}
	return nil
}
