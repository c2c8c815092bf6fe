package settings

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/floresya/backend/internal/domain/shared"
)

func TestNewSetting_ValidatesValueAgainstType(t *testing.T) {
	tests := []struct {
		name      string
		value     string
		valueType ValueType
		wantErr   bool
	}{
		{"number ok", "7.00", TypeNumber, false},
		{"number invalid", "siete", TypeNumber, true},
		{"boolean ok", "true", TypeBoolean, false},
		{"boolean invalid", "yes-ish", TypeBoolean, true},
		{"json ok", `{"hours":"9-18"}`, TypeJSON, false},
		{"json invalid", `{hours}`, TypeJSON, true},
		{"string anything", "hola", TypeString, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSetting("TEST_KEY", tt.value, tt.valueType, "", false)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNewSetting_EmptyKey(t *testing.T) {
	_, err := NewSetting("  ", "x", TypeString, "", false)
	assert.Error(t, err)
}

func TestSetting_NumberValue(t *testing.T) {
	s, err := NewSetting(KeyDeliveryCostUSD, "7.00", TypeNumber, "Delivery cost", true)
	require.NoError(t, err)

	v, err := s.NumberValue()
	require.NoError(t, err)
	assert.True(t, v.Equal(decimal.NewFromFloat(7.00)))
}

func TestSetting_NumberValue_CorruptedValue(t *testing.T) {
	s, err := NewSetting(KeyBCVRate, "36.50", TypeNumber, "", true)
	require.NoError(t, err)

	// Simulate a row corrupted outside the domain layer
	s.Value = "N/A"

	_, err = s.NumberValue()
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "VALIDATION_ERROR", domainErr.Code)
}

func TestSetting_NumberValue_WrongType(t *testing.T) {
	s, err := NewSetting("SITE_NAME", "FloresYa", TypeString, "", true)
	require.NoError(t, err)

	_, err = s.NumberValue()
	assert.Error(t, err)
}

func TestSetting_UpdateValue(t *testing.T) {
	s, err := NewSetting(KeyBCVRate, "36.50", TypeNumber, "", true)
	require.NoError(t, err)

	require.NoError(t, s.UpdateValue("37.10"))
	assert.Equal(t, "37.10", s.Value)

	assert.Error(t, s.UpdateValue("not-a-number"))
	assert.Equal(t, "37.10", s.Value)
}

func TestSetting_TypedValue(t *testing.T) {
	s, err := NewSetting("MAINTENANCE", "false", TypeBoolean, "", true)
	require.NoError(t, err)

	v, err := s.TypedValue()
	require.NoError(t, err)
	assert.Equal(t, false, v)
}

func TestSetting_JSONValue(t *testing.T) {
	s, err := NewSetting("BUSINESS_HOURS", `{"open":"09:00","close":"18:00"}`, TypeJSON, "", true)
	require.NoError(t, err)

	var hours map[string]string
	require.NoError(t, s.JSONValue(&hours))
	assert.Equal(t, "09:00", hours["open"])
}

func TestSetting_DeactivateAndRestore(t *testing.T) {
	s, err := NewSetting("OLD_KEY", "x", TypeString, "", false)
	require.NoError(t, err)

	s.Deactivate()
	assert.False(t, s.IsActive)
	assert.NotNil(t, s.DeletedAt)

	s.Restore()
	assert.True(t, s.IsActive)
	assert.Nil(t, s.DeletedAt)
}
