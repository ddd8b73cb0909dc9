// Package businessflow contains the core business logic and use cases for pricing workflows
package businessflow

import (
	"errors"
	"fmt"
)

// Business flow error constants
var (
	// Calculation-related errors
	ErrNoRuleFound          = errors.New("no applicable pricing rule")
	ErrMissingPointRate     = errors.New("missing point rate")
	ErrInvalidCalculation   = errors.New("invalid calculation input")
	ErrContractNotFound     = errors.New("contract not found")
	ErrContractInactive     = errors.New("contract is inactive")
	ErrReferenceAmountEmpty = errors.New("reference amount is required for percentage pricing")

	// Rule-related errors
	ErrPricingRuleNotFound       = errors.New("pricing rule not found")
	ErrPricingMethodInvalid      = errors.New("pricing method is invalid")
	ErrMethodParamsIncomplete    = errors.New("pricing method parameters are incomplete")
	ErrEffectiveWindowInverted   = errors.New("effective from must not be after effective to")
	ErrConditionOperatorInvalid  = errors.New("condition operator is invalid")
	ErrConditionFactorKeyUnknown = errors.New("condition factor key has no definition")

	// Factor definition errors
	ErrFactorDefinitionNotFound = errors.New("factor definition not found")
	ErrFactorKeyAlreadyExists   = errors.New("factor key already exists")
	ErrFactorDataTypeInvalid    = errors.New("factor data type is invalid")
	ErrAllowedValuesRequired    = errors.New("allowed values are required for SELECT factors")

	// Catalog errors
	ErrPriceListNotFound       = errors.New("price list not found")
	ErrPriceListCodeExists     = errors.New("price list code already exists")
	ErrInsuranceDegreeNotFound = errors.New("insurance degree not found")
	ErrDegreeCodeExists        = errors.New("insurance degree code already exists")
	ErrPointRateNotFound       = errors.New("point rate not found")
	ErrPointPriceInvalid       = errors.New("point price must be greater than zero")

	// Contract errors
	ErrContractCodeExists       = errors.New("contract code already exists")
	ErrDiscountPctOutOfRange    = errors.New("discount percentage must be between 0 and 100")
	ErrDiscountPeriodInverted   = errors.New("discount period from must not be after period to")
	ErrOverridePriceListInvalid = errors.New("override price list does not exist")
	ErrCopayTypeInvalid         = errors.New("copay type is invalid")

	// Adjustment case errors
	ErrAdjustmentCaseNotFound  = errors.New("adjustment case not found")
	ErrAdjustmentTypeInvalid   = errors.New("adjustment type is invalid")
	ErrReorderIDsIncomplete    = errors.New("reorder must list every active adjustment case exactly once")
	ErrAdjustmentAmountInvalid = errors.New("adjustment amount is invalid")

	// Import errors
	ErrImportFileEmpty   = errors.New("import file has no data rows")
	ErrImportFileInvalid = errors.New("import file could not be parsed")
)

type BusinessError struct {
	Code    string
	Message string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func NewBusinessErrorf(code, message string, err error, args ...any) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: fmt.Sprintf(message, args...),
		Err:     err,
	}
}

func IsNoRuleFound(err error) bool {
	return errors.Is(err, ErrNoRuleFound)
}

func IsMissingPointRate(err error) bool {
	return errors.Is(err, ErrMissingPointRate)
}

func IsInvalidCalculation(err error) bool {
	return errors.Is(err, ErrInvalidCalculation)
}

func IsReferenceAmountEmpty(err error) bool {
	return errors.Is(err, ErrReferenceAmountEmpty)
}

func IsContractNotFound(err error) bool {
	return errors.Is(err, ErrContractNotFound)
}

func IsContractInactive(err error) bool {
	return errors.Is(err, ErrContractInactive)
}

func IsPricingRuleNotFound(err error) bool {
	return errors.Is(err, ErrPricingRuleNotFound)
}

func IsFactorDefinitionNotFound(err error) bool {
	return errors.Is(err, ErrFactorDefinitionNotFound)
}

func IsFactorKeyAlreadyExists(err error) bool {
	return errors.Is(err, ErrFactorKeyAlreadyExists)
}

func IsPriceListNotFound(err error) bool {
	return errors.Is(err, ErrPriceListNotFound)
}

func IsInsuranceDegreeNotFound(err error) bool {
	return errors.Is(err, ErrInsuranceDegreeNotFound)
}

func IsPointRateNotFound(err error) bool {
	return errors.Is(err, ErrPointRateNotFound)
}

func IsAdjustmentCaseNotFound(err error) bool {
	return errors.Is(err, ErrAdjustmentCaseNotFound)
}

func IsPricingMethodInvalid(err error) bool {
	return errors.Is(err, ErrPricingMethodInvalid)
}

func IsMethodParamsIncomplete(err error) bool {
	return errors.Is(err, ErrMethodParamsIncomplete)
}

func IsEffectiveWindowInverted(err error) bool {
	return errors.Is(err, ErrEffectiveWindowInverted)
}

func IsConditionOperatorInvalid(err error) bool {
	return errors.Is(err, ErrConditionOperatorInvalid)
}

func IsConditionFactorKeyUnknown(err error) bool {
	return errors.Is(err, ErrConditionFactorKeyUnknown)
}

func IsFactorDataTypeInvalid(err error) bool {
	return errors.Is(err, ErrFactorDataTypeInvalid)
}

func IsAllowedValuesRequired(err error) bool {
	return errors.Is(err, ErrAllowedValuesRequired)
}

func IsFactorKeyExists(err error) bool {
	return errors.Is(err, ErrFactorKeyAlreadyExists)
}

func IsPriceListCodeExists(err error) bool {
	return errors.Is(err, ErrPriceListCodeExists)
}

func IsDegreeCodeExists(err error) bool {
	return errors.Is(err, ErrDegreeCodeExists)
}

func IsPointPriceInvalid(err error) bool {
	return errors.Is(err, ErrPointPriceInvalid)
}

func IsContractCodeExists(err error) bool {
	return errors.Is(err, ErrContractCodeExists)
}

func IsDiscountPctOutOfRange(err error) bool {
	return errors.Is(err, ErrDiscountPctOutOfRange)
}

func IsDiscountPeriodInverted(err error) bool {
	return errors.Is(err, ErrDiscountPeriodInverted)
}

func IsOverridePriceListInvalid(err error) bool {
	return errors.Is(err, ErrOverridePriceListInvalid)
}

func IsCopayTypeInvalid(err error) bool {
	return errors.Is(err, ErrCopayTypeInvalid)
}

func IsAdjustmentTypeInvalid(err error) bool {
	return errors.Is(err, ErrAdjustmentTypeInvalid)
}

func IsReorderIDsIncomplete(err error) bool {
	return errors.Is(err, ErrReorderIDsIncomplete)
}

func IsImportFileEmpty(err error) bool {
	return errors.Is(err, ErrImportFileEmpty)
}

func IsImportFileInvalid(err error) bool {
	return errors.Is(err, ErrImportFileInvalid)
}
