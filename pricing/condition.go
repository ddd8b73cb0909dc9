package pricing

import (
	"strings"

	"github.com/alqaisi42/medexaTPA-sub003/models"
	"github.com/shopspring/decimal"
)

// conditionsSatisfied reports whether every condition in the list holds
// against the resolved factors. An empty list is a catch-all and always
// satisfies; a condition whose key is absent from the factors fails.
func conditionsSatisfied(conds models.RuleConditions, facts map[string]FactorValue) bool {
	for _, c := range conds {
		if !conditionSatisfied(c, facts) {
			return false
		}
	}
	return true
}

func conditionSatisfied(c models.RuleCondition, facts map[string]FactorValue) bool {
	fv, ok := facts[c.FactorKey]
	if !ok {
		return false
	}

	switch c.Operator {
	case models.OperatorEquals:
		return valueEquals(fv, c.ExpectedValue)
	case models.OperatorNotEquals:
		return !valueEquals(fv, c.ExpectedValue)
	case models.OperatorIn:
		for _, member := range strings.Split(c.ExpectedValue, ",") {
			if valueEquals(fv, strings.TrimSpace(member)) {
				return true
			}
		}
		return false
	case models.OperatorGreaterThan, models.OperatorGreaterEqual,
		models.OperatorLessThan, models.OperatorLessEqual:
		return orderingSatisfied(fv, c.Operator, c.ExpectedValue)
	default:
		return false
	}
}

// valueEquals compares a resolved factor against an expected literal using
// the factor's declared type. Unconverted numeric values fall back to exact
// string equality; that is the only comparison they are allowed.
func valueEquals(fv FactorValue, expected string) bool {
	switch {
	case fv.DataType == models.FactorDataTypeBoolean:
		return fv.Bool == ParseBool(expected)
	case fv.DataType.IsNumeric() && !fv.Unconverted:
		exp, err := decimal.NewFromString(strings.TrimSpace(expected))
		if err != nil {
			return fv.Raw == expected
		}
		return fv.Number.Equal(exp)
	default:
		return fv.Raw == expected
	}
}

// orderingSatisfied evaluates gt/gte/lt/lte. Numeric factors compare as
// decimals; DATE factors compare lexically, which is correct for ISO dates.
// Unconverted numerics never satisfy an ordering comparison.
func orderingSatisfied(fv FactorValue, op models.ConditionOperator, expected string) bool {
	var cmp int
	switch {
	case fv.DataType.IsNumeric():
		if fv.Unconverted {
			return false
		}
		exp, err := decimal.NewFromString(strings.TrimSpace(expected))
		if err != nil {
			return false
		}
		cmp = fv.Number.Cmp(exp)
	case fv.DataType == models.FactorDataTypeDate:
		cmp = strings.Compare(fv.Raw, strings.TrimSpace(expected))
	default:
		return false
	}

	switch op {
	case models.OperatorGreaterThan:
		return cmp > 0
	case models.OperatorGreaterEqual:
		return cmp >= 0
	case models.OperatorLessThan:
		return cmp < 0
	case models.OperatorLessEqual:
		return cmp <= 0
	default:
		return false
	}
}
