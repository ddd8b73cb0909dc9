package pricing

import "github.com/alqaisi42/medexaTPA-sub003/models"

// CoverageDecision is the coverage and pre-approval outcome for a
// calculation.
type CoverageDecision struct {
	Covered             bool   `json:"covered"`
	CoverageReason      string `json:"coverage_reason,omitempty"`
	RequiresPreapproval bool   `json:"requires_preapproval"`
	PreapprovalReason   string `json:"preapproval_reason,omitempty"`
}

// Decide reflects the selected rule's coverage and pre-approval flags and
// their reason text. A nil rule (no rule selected) means not covered.
func Decide(rule *models.PricingRule) CoverageDecision {
	if rule == nil {
		return CoverageDecision{
			Covered:        false,
			CoverageReason: "no applicable pricing rule",
		}
	}

	decision := CoverageDecision{
		Covered:             rule.Covered != nil && *rule.Covered,
		RequiresPreapproval: rule.PreapprovalRequired != nil && *rule.PreapprovalRequired,
	}
	if rule.CoverageReason != nil {
		decision.CoverageReason = *rule.CoverageReason
	}
	if rule.PreapprovalReason != nil {
		decision.PreapprovalReason = *rule.PreapprovalReason
	}
	return decision
}
