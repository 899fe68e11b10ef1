package httpconform

import (
	"testing"

	"github.com/oasconform/httpconform/openapi"
	"github.com/stretchr/testify/assert"
)

func TestCoerceNumeric_SkipsNonNumericSchema(t *testing.T) {
	schema := &openapi.Schema{Type: "string"}
	_, converted := CoerceNumeric("abc", schema)
	assert.False(t, converted)
}

func TestCoerceNumeric_Integer(t *testing.T) {
	schema := &openapi.Schema{Type: "integer"}
	d, converted := CoerceNumeric("42", schema)
	assert.True(t, converted)
	assert.Equal(t, "42", FormatDecimal(d))
	assert.True(t, IsIntegral(d))
}

func TestCoerceNumeric_IntegerFractionIsNotIntegral(t *testing.T) {
	schema := &openapi.Schema{Type: "integer"}
	d, converted := CoerceNumeric("1.5", schema)
	assert.True(t, converted)
	assert.False(t, IsIntegral(d))
}

func TestCoerceNumeric_UnparsableFallsThrough(t *testing.T) {
	schema := &openapi.Schema{Type: "number"}
	_, converted := CoerceNumeric("not-a-number", schema)
	assert.False(t, converted)
}

func TestCoerceNumeric_PreservesTrailingZero(t *testing.T) {
	schema := &openapi.Schema{Type: "number"}
	d, converted := CoerceNumeric("1.0", schema)
	assert.True(t, converted)
	assert.Equal(t, "1.0", FormatDecimal(d))
}

func TestIsMultipleOf(t *testing.T) {
	schema := &openapi.Schema{Type: "number"}
	value, _ := CoerceNumeric("0.3", schema)
	divisor, _ := CoerceNumeric("0.1", schema)
	assert.True(t, IsMultipleOf(value, divisor))
}
