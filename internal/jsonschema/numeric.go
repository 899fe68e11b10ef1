package jsonschema

import (
	"strconv"

	"github.com/woodsbury/decimal128"
)

func decimalFromInt64(i int64) decimal128.Decimal {
	d, err := decimal128.Parse(strconv.FormatInt(i, 10))
	if err != nil {
		return decimal128.Decimal{}
	}
	return d
}

func decimalFromFloat64(f float64) (decimal128.Decimal, bool) {
	d, err := decimal128.Parse(formatFloat(f))
	if err != nil {
		return decimal128.Decimal{}, false
	}
	return d, true
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// isIntegral reports whether d has no fractional remainder against 1,
// decimal128's exact replacement for the teacher's float64 fractional-
// part check (httpvalidator/schema.go's validateType).
func isIntegral(d decimal128.Decimal) bool {
	_, rem := d.QuoRem(decimalFromInt64(1))
	return rem.IsZero()
}

// isMultipleOf reports whether value is an exact multiple of divisor,
// decimal128's exact replacement for the teacher's float-division
// modulo check in validateNumber, which is unreliable for values like
// 0.1 and 0.3 under binary float64.
func isMultipleOf(value, divisor decimal128.Decimal) bool {
	if divisor.IsZero() {
		return false
	}
	_, rem := value.QuoRem(divisor)
	return rem.IsZero()
}
