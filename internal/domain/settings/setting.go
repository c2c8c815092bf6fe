package settings

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/floresya/backend/internal/domain/shared"
)

// Well-known setting keys
const (
	KeyDeliveryCostUSD = "DELIVERY_COST_USD"
	KeyBCVRate         = "USD_VES_BCV_RATE"
)

// ValueType describes how a setting value is parsed
type ValueType string

const (
	TypeString  ValueType = "string"
	TypeNumber  ValueType = "number"
	TypeBoolean ValueType = "boolean"
	TypeJSON    ValueType = "json"
)

// IsValid checks if the value type is known
func (t ValueType) IsValid() bool {
	switch t {
	case TypeString, TypeNumber, TypeBoolean, TypeJSON:
		return true
	}
	return false
}

// Setting represents a typed key/value configuration row.
// Values are stored as text and parsed on read according to Type.
// Parsing failures surface as validation errors so a corrupted value
// is caught immediately instead of silently falling back to a default.
type Setting struct {
	shared.BaseEntity
	Key         string     `gorm:"uniqueIndex;not null" json:"key"`
	Value       string     `gorm:"not null" json:"value"`
	Type        ValueType  `gorm:"type:varchar(10);not null;default:'string'" json:"type"`
	Description string     `json:"description"`
	IsPublic    bool       `gorm:"not null;default:false" json:"is_public"`
	IsActive    bool       `gorm:"not null" json:"is_active"`
	DeletedAt   *time.Time `gorm:"index" json:"deleted_at,omitempty"`
}

// TableName returns the table name for GORM
func (Setting) TableName() string {
	return "settings"
}

// NewSetting creates a new setting, validating the value against the type
func NewSetting(key, value string, valueType ValueType, description string, isPublic bool) (*Setting, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, shared.NewDomainError("INVALID_KEY", "Setting key cannot be empty")
	}
	if !valueType.IsValid() {
		return nil, shared.NewDomainError("INVALID_TYPE", fmt.Sprintf("Unknown setting type: %s", valueType))
	}

	s := &Setting{
		BaseEntity:  shared.NewBaseEntity(),
		Key:         key,
		Value:       value,
		Type:        valueType,
		Description: description,
		IsPublic:    isPublic,
		IsActive:    true,
	}
	if err := s.validateValue(value); err != nil {
		return nil, err
	}

	return s, nil
}

// UpdateValue replaces the value, validating it against the type
func (s *Setting) UpdateValue(value string) error {
	if err := s.validateValue(value); err != nil {
		return err
	}
	s.Value = value
	s.UpdatedAt = time.Now()
	return nil
}

func (s *Setting) validateValue(value string) error {
	switch s.Type {
	case TypeNumber:
		if _, err := decimal.NewFromString(value); err != nil {
			return shared.NewDomainError("VALIDATION_ERROR", fmt.Sprintf("Setting %s must be a number", s.Key))
		}
	case TypeBoolean:
		if _, err := strconv.ParseBool(value); err != nil {
			return shared.NewDomainError("VALIDATION_ERROR", fmt.Sprintf("Setting %s must be a boolean", s.Key))
		}
	case TypeJSON:
		if !json.Valid([]byte(value)) {
			return shared.NewDomainError("VALIDATION_ERROR", fmt.Sprintf("Setting %s must be valid JSON", s.Key))
		}
	}
	return nil
}

// NumberValue parses the value as a decimal.
// Fails with a validation error if the setting is not a number type
// or the stored text does not parse.
func (s *Setting) NumberValue() (decimal.Decimal, error) {
	if s.Type != TypeNumber {
		return decimal.Zero, shared.NewDomainError("VALIDATION_ERROR", fmt.Sprintf("Setting %s is not a number", s.Key))
	}
	d, err := decimal.NewFromString(s.Value)
	if err != nil {
		return decimal.Zero, shared.NewDomainError("VALIDATION_ERROR", fmt.Sprintf("Setting %s has an invalid numeric value", s.Key))
	}
	return d, nil
}

// BoolValue parses the value as a boolean
func (s *Setting) BoolValue() (bool, error) {
	if s.Type != TypeBoolean {
		return false, shared.NewDomainError("VALIDATION_ERROR", fmt.Sprintf("Setting %s is not a boolean", s.Key))
	}
	b, err := strconv.ParseBool(s.Value)
	if err != nil {
		return false, shared.NewDomainError("VALIDATION_ERROR", fmt.Sprintf("Setting %s has an invalid boolean value", s.Key))
	}
	return b, nil
}

// JSONValue unmarshals the value into dest
func (s *Setting) JSONValue(dest any) error {
	if s.Type != TypeJSON {
		return shared.NewDomainError("VALIDATION_ERROR", fmt.Sprintf("Setting %s is not JSON", s.Key))
	}
	if err := json.Unmarshal([]byte(s.Value), dest); err != nil {
		return shared.NewDomainError("VALIDATION_ERROR", fmt.Sprintf("Setting %s has invalid JSON", s.Key))
	}
	return nil
}

// TypedValue returns the value parsed according to its type
func (s *Setting) TypedValue() (any, error) {
	switch s.Type {
	case TypeNumber:
		return s.NumberValue()
	case TypeBoolean:
		return s.BoolValue()
	case TypeJSON:
		var v any
		if err := s.JSONValue(&v); err != nil {
			return nil, err
		}
		return v, nil
	default:
		return s.Value, nil
	}
}

// Deactivate soft deletes the setting
func (s *Setting) Deactivate() {
	now := time.Now()
	s.IsActive = false
	s.DeletedAt = &now
	s.UpdatedAt = now
}

// Restore reactivates a soft-deleted setting
func (s *Setting) Restore() {
	s.IsActive = true
	s.DeletedAt = nil
	s.UpdatedAt = time.Now()
}
