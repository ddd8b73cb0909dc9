// Package pricing implements the pricing calculation engine: factor
// resolution, rule matching, base price computation, contract overlay,
// ordered adjustments, and the coverage/pre-approval decision. Every function
// is pure given its inputs; reference data is supplied per call and never
// mutated, so the package is safe for concurrent use without locking.
package pricing

import (
	"errors"
	"fmt"
	"time"
)

// Sentinel errors for the calculation outcome taxonomy. Callers should match
// with errors.Is; the typed wrappers below carry the attempted combination
// for diagnostics while keeping Error() a clean human-readable message.
var (
	ErrInvalidInput            = errors.New("invalid calculation input")
	ErrNoRuleFound             = errors.New("no applicable pricing rule")
	ErrMissingPointRate        = errors.New("missing point rate")
	ErrReferenceAmountRequired = errors.New("reference amount is required")
)

// NoRuleFoundError reports that no temporally-valid, condition-satisfying
// rule exists for the attempted combination. It is a well-formed outcome
// ("not priced for this combination"), not a fatal engine error.
type NoRuleFoundError struct {
	ProcedureID       uint
	PriceListID       uint
	InsuranceDegreeID uint
	AsOf              time.Time
}

func (e *NoRuleFoundError) Error() string {
	return fmt.Sprintf("no applicable pricing rule for procedure %d, price list %d, insurance degree %d as of %s",
		e.ProcedureID, e.PriceListID, e.InsuranceDegreeID, e.AsOf.Format("2006-01-02"))
}

func (e *NoRuleFoundError) Unwrap() error {
	return ErrNoRuleFound
}

// MissingPointRateError reports that a POINTS-method rule was selected but no
// point rate is valid for its insurance degree as of the calculation date.
type MissingPointRateError struct {
	InsuranceDegreeID uint
	AsOf              time.Time
}

func (e *MissingPointRateError) Error() string {
	return fmt.Sprintf("no point rate for insurance degree %d as of %s",
		e.InsuranceDegreeID, e.AsOf.Format("2006-01-02"))
}

func (e *MissingPointRateError) Unwrap() error {
	return ErrMissingPointRate
}

// InvalidInputError reports a malformed request rejected before any rule
// matching takes place.
type InvalidInputError struct {
	Reason string
}

func (e *InvalidInputError) Error() string {
	return e.Reason
}

func (e *InvalidInputError) Unwrap() error {
	return ErrInvalidInput
}

func invalidInputf(format string, args ...any) *InvalidInputError {
	return &InvalidInputError{Reason: fmt.Sprintf(format, args...)}
}

// ReferenceAmountRequiredError reports a PERCENTAGE rule selected without an
// injected reference amount. It matches both ErrInvalidInput and
// ErrReferenceAmountRequired so callers can react to the specific cause.
type ReferenceAmountRequiredError struct {
	RuleID uint
}

func (e *ReferenceAmountRequiredError) Error() string {
	return fmt.Sprintf("rule %d is PERCENTAGE but no reference amount was supplied", e.RuleID)
}

func (e *ReferenceAmountRequiredError) Unwrap() []error {
	return []error{ErrInvalidInput, ErrReferenceAmountRequired}
}
