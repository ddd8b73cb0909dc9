package pricing

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alqaisi42/medexaTPA-sub003/models"
	"github.com/shopspring/decimal"
)

// FactorValue is a resolved (key, dataType, value) triple. The DataType
// discriminant is validated once at resolution time so consumers never parse
// raw values again.
type FactorValue struct {
	Key      string                `json:"key"`
	DataType models.FactorDataType `json:"data_type"`

	// Raw is the canonical textual form of the value. It is always set and is
	// the value used for equality comparisons.
	Raw string `json:"raw"`

	// Number is valid for numeric data types when Unconverted is false.
	Number decimal.Decimal `json:"number,omitempty"`

	// Bool is valid for BOOLEAN data types.
	Bool bool `json:"bool,omitempty"`

	// Unconverted marks a numeric factor whose raw value failed to parse.
	// The value still participates in equality conditions, but ordering
	// comparisons against it fail.
	Unconverted bool `json:"unconverted,omitempty"`
}

// Warning is a non-fatal resolver diagnostic attached to the result.
type Warning struct {
	FactorKey string `json:"factor_key"`
	Message   string `json:"message"`
}

// ResolveFactors normalizes a heterogeneous bag of named factor values into
// typed values bound to their declared definitions. Resolution is fail-soft:
// invalid SELECT entries are dropped with a warning, unknown keys are dropped
// silently, and numeric parse failures keep the raw string marked unconverted.
func ResolveFactors(raw map[string]any, defs []models.PricingFactorDefinition) ([]FactorValue, []Warning) {
	byKey := make(map[string]models.PricingFactorDefinition, len(defs))
	for _, d := range defs {
		byKey[d.Key] = d
	}

	// Iterate definitions rather than the raw map so output order is stable.
	resolved := make([]FactorValue, 0, len(raw))
	var warnings []Warning
	for _, d := range defs {
		rv, ok := raw[d.Key]
		if !ok {
			continue
		}

		text := rawToString(rv)
		fv := FactorValue{Key: d.Key, DataType: d.DataType, Raw: text}

		switch {
		case d.DataType.IsNumeric():
			n, err := decimal.NewFromString(strings.TrimSpace(text))
			if err != nil {
				fv.Unconverted = true
			} else {
				fv.Number = n
				fv.Raw = n.String()
			}
		case d.DataType == models.FactorDataTypeBoolean:
			fv.Bool = ParseBool(text)
			fv.Raw = strconv.FormatBool(fv.Bool)
		case d.DataType == models.FactorDataTypeDate:
			// ISO date strings pass through untouched; no timezone normalization.
			fv.Raw = strings.TrimSpace(text)
		case d.DataType == models.FactorDataTypeSelect:
			if !d.AllowedValues.Contains(text) {
				warnings = append(warnings, Warning{
					FactorKey: d.Key,
					Message:   fmt.Sprintf("value %q is not among the allowed values for factor %q", text, d.Key),
				})
				continue
			}
		}

		resolved = append(resolved, fv)
	}

	return resolved, warnings
}

// ParseBool interprets a raw factor value as a boolean: true iff the
// lowercased trimmed value is "true", "1", or "yes".
func ParseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "yes":
		return true
	default:
		return false
	}
}

// rawToString renders an arbitrary request value as its canonical text form.
func rawToString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case uint:
		return strconv.FormatUint(uint64(t), 10)
	case decimal.Decimal:
		return t.String()
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprintf("%v", v)
	}
}

// indexFactors builds a key lookup over resolved factors. Later entries win,
// matching the map semantics of the raw input.
func indexFactors(factors []FactorValue) map[string]FactorValue {
	idx := make(map[string]FactorValue, len(factors))
	for _, f := range factors {
		idx[f.Key] = f
	}
	return idx
}
