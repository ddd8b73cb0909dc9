package pricing

import (
	"fmt"
	"sort"
	"time"

	"github.com/alqaisi42/medexaTPA-sub003/models"
)

// MatchInput identifies the combination a rule is being selected for.
type MatchInput struct {
	ProcedureID       uint
	PriceListID       uint
	InsuranceDegreeID uint
	AsOf              time.Time
}

// Selection is the outcome of rule matching: the single best rule and a
// human-readable explanation of why it won.
type Selection struct {
	Rule   *models.PricingRule
	Reason string
}

// SelectRule finds all temporally-valid candidate rules for the given
// combination and picks the single best match.
//
// Tie-break order among rules whose conditions are all satisfied:
// highest priority, then most conditions (more specific), then most recent
// effective_from (most recently defined policy takes precedence), then
// lowest rule id so the choice is always deterministic.
func SelectRule(in MatchInput, factors []FactorValue, candidates []models.PricingRule) (*Selection, error) {
	facts := indexFactors(factors)

	var matched []models.PricingRule
	for _, rule := range candidates {
		if rule.ProcedureID != in.ProcedureID {
			continue
		}
		if rule.PriceListID != nil && *rule.PriceListID != in.PriceListID {
			continue
		}
		if rule.InsuranceDegreeID != nil && *rule.InsuranceDegreeID != in.InsuranceDegreeID {
			continue
		}
		if !rule.EffectiveAt(in.AsOf) {
			continue
		}
		if !conditionsSatisfied(rule.Conditions, facts) {
			continue
		}
		matched = append(matched, rule)
	}

	if len(matched) == 0 {
		return nil, &NoRuleFoundError{
			ProcedureID:       in.ProcedureID,
			PriceListID:       in.PriceListID,
			InsuranceDegreeID: in.InsuranceDegreeID,
			AsOf:              in.AsOf,
		}
	}

	sort.SliceStable(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		if a.Priority != b.Priority {
			return a.Priority > b.Priority
		}
		if len(a.Conditions) != len(b.Conditions) {
			return len(a.Conditions) > len(b.Conditions)
		}
		if !a.EffectiveFrom.Equal(b.EffectiveFrom) {
			return a.EffectiveFrom.After(b.EffectiveFrom)
		}
		return a.ID < b.ID
	})

	winner := matched[0]
	return &Selection{
		Rule:   &winner,
		Reason: selectionReason(&winner, len(matched)),
	}, nil
}

func selectionReason(rule *models.PricingRule, matchedCount int) string {
	reason := fmt.Sprintf("rule %d selected: %s method, %d condition(s) satisfied, priority %d, effective from %s",
		rule.ID, rule.PricingMethod, len(rule.Conditions), rule.Priority, rule.EffectiveFrom.Format("2006-01-02"))
	if matchedCount > 1 {
		reason += fmt.Sprintf(" (preferred over %d other candidate(s))", matchedCount-1)
	}
	return reason
}
