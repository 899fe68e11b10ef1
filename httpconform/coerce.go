package httpconform

import (
	"strconv"

	"github.com/oasconform/httpconform/openapi"
	"github.com/woodsbury/decimal128"
)

// CoerceNumeric converts a raw string value (a path/query/header
// parameter, always transmitted as text) into a decimal128.Decimal
// when the parameter's top-level schema declares type "number" or
// "integer" (§4.C8). Arbitrary-precision decimal arithmetic is used
// instead of float64 so that "1" and "1.0" remain distinguishable and
// large integers never lose precision in a binary float round-trip.
//
// Coercion failure is not itself a validation error (§4.C8): a string
// that doesn't parse as a decimal is passed through unconverted, and
// the schema evaluator's own "type" keyword check produces the
// user-facing error. Non-numeric schemas are likewise passed through
// unconverted for C12 to evaluate as a string.
func CoerceNumeric(raw string, schema *openapi.Schema) (decimal128.Decimal, bool) {
	if schema == nil || !wantsNumericCoercion(schema) {
		return decimal128.Decimal{}, false
	}
	d, err := decimal128.Parse(raw)
	if err != nil {
		return decimal128.Decimal{}, false
	}
	return d, true
}

func wantsNumericCoercion(schema *openapi.Schema) bool {
	for _, t := range schema.Types() {
		if t == "number" || t == "integer" {
			return true
		}
	}
	return false
}

// IsIntegral reports whether d has no fractional part, the decimal128
// analogue of the teacher's float64 fractional-part check in
// validateType (grounded on httpvalidator/schema.go), generalized to
// arbitrary precision via QuoRem against one instead of a modulo on a
// lossy float64. The C12 evaluator (internal/jsonschema) does not call
// this; it has its own integral check in numeric.go.
func IsIntegral(d decimal128.Decimal) bool {
	_, rem := d.QuoRem(decimalFromInt64(1))
	return rem.IsZero()
}

// CompareDecimal wraps decimal128's three-way comparison, so callers
// comparing coerced values never have to reach for float64 comparisons
// that would reintroduce the precision loss this file exists to avoid.
// The C12 evaluator compares decimals directly and does not call this.
func CompareDecimal(a, b decimal128.Decimal) int {
	return a.Cmp(b)
}

// IsMultipleOf reports whether value is an exact integer multiple of
// divisor using decimal128's exact remainder, replacing the teacher's
// validateNumber float-division modulo check (httpvalidator/schema.go)
// which is unreliable for values like 0.1 and 0.3 in binary float64.
func IsMultipleOf(value, divisor decimal128.Decimal) bool {
	if divisor.IsZero() {
		return false
	}
	_, rem := value.QuoRem(divisor)
	return rem.IsZero()
}

// FormatDecimal renders d back to its shortest round-tripping decimal
// string, used when an annotation or error message needs to echo a
// coerced numeric value.
func FormatDecimal(d decimal128.Decimal) string {
	return d.String()
}

// decimalFromInt64 is a small helper kept local to this file rather
// than exported, since only IsIntegral's "one" constant needs it.
func decimalFromInt64(i int64) decimal128.Decimal {
	d, err := decimal128.Parse(strconv.FormatInt(i, 10))
	if err != nil {
		return decimal128.Decimal{}
	}
	return d
}
