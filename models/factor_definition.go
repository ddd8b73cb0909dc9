package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// FactorDataType represents the declared type of a pricing factor.
type FactorDataType string

const (
	FactorDataTypeText    FactorDataType = "TEXT"
	FactorDataTypeString  FactorDataType = "STRING"
	FactorDataTypeNumber  FactorDataType = "NUMBER"
	FactorDataTypeInteger FactorDataType = "INTEGER"
	FactorDataTypeDecimal FactorDataType = "DECIMAL"
	FactorDataTypeBoolean FactorDataType = "BOOLEAN"
	FactorDataTypeDate    FactorDataType = "DATE"
	FactorDataTypeSelect  FactorDataType = "SELECT"
)

// String returns the string representation of the data type
func (t FactorDataType) String() string {
	return string(t)
}

// Valid checks if the data type is valid
func (t FactorDataType) Valid() bool {
	switch t {
	case FactorDataTypeText, FactorDataTypeString, FactorDataTypeNumber,
		FactorDataTypeInteger, FactorDataTypeDecimal, FactorDataTypeBoolean,
		FactorDataTypeDate, FactorDataTypeSelect:
		return true
	default:
		return false
	}
}

// IsNumeric reports whether values of this type are compared numerically.
func (t FactorDataType) IsNumeric() bool {
	return t == FactorDataTypeNumber || t == FactorDataTypeInteger || t == FactorDataTypeDecimal
}

// Scan implements the sql.Scanner interface for FactorDataType
func (t *FactorDataType) Scan(value any) error {
	if value == nil {
		*t = ""
		return nil
	}

	switch v := value.(type) {
	case string:
		*t = FactorDataType(v)
	case []byte:
		*t = FactorDataType(string(v))
	default:
		return fmt.Errorf("cannot scan %T into FactorDataType", value)
	}

	return nil
}

// Value implements the driver.Valuer interface for FactorDataType
func (t FactorDataType) Value() (driver.Value, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("invalid FactorDataType: %s", t)
	}
	return string(t), nil
}

// StringList is an ordered list of strings stored as a jsonb column.
type StringList []string

// Value implements the driver.Valuer interface for StringList
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return json.Marshal([]string{})
	}
	return json.Marshal(l)
}

// Scan implements the sql.Scanner interface for StringList
func (l *StringList) Scan(value any) error {
	if value == nil {
		*l = nil
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into StringList", value)
	}

	return json.Unmarshal(bytes, l)
}

// Contains reports whether the list contains the given value (case-sensitive).
func (l StringList) Contains(v string) bool {
	for _, item := range l {
		if item == v {
			return true
		}
	}
	return false
}

// PricingFactorDefinition declares a named, typed input used in rule conditions
// and adjustment cases. Reference data maintained by administrators; the
// calculation engine only reads it.
// Table: pricing_factor_definitions
type PricingFactorDefinition struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	Key           string         `gorm:"size:100;not null;uniqueIndex:uk_pricing_factor_definitions_key" json:"key"`
	NameEn        string         `gorm:"size:255;not null" json:"name_en"`
	DataType      FactorDataType `gorm:"type:factor_data_type;not null" json:"data_type"`
	AllowedValues StringList     `gorm:"type:jsonb;default:'[]'" json:"allowed_values"` // only meaningful for SELECT
	IsActive      *bool          `gorm:"not null;default:true" json:"is_active"`
	CreatedAt     time.Time      `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"created_at"`
	UpdatedAt     time.Time      `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`
}

// TableName returns the table name for the model
func (PricingFactorDefinition) TableName() string {
	return "pricing_factor_definitions"
}

// PricingFactorDefinitionFilter represents filter criteria for factor definitions
type PricingFactorDefinitionFilter struct {
	Key      *string         `json:"key,omitempty"`
	DataType *FactorDataType `json:"data_type,omitempty"`
	IsActive *bool           `json:"is_active,omitempty"`
}
