package jsonschema

import (
	"reflect"

	segjson "github.com/segmentio/encoding/json"
)

// valuesEqual implements JSON Schema's equality rule for enum/const:
// structurally equal JSON values, with numbers compared by value
// rather than by Go type (so a decimal128-coerced 1 and a YAML-decoded
// int64 1 from the schema's own const/enum literal count as equal).
func valuesEqual(a, b any) bool {
	an, aIsNum := numericDecimal(a)
	bn, bIsNum := numericDecimal(b)
	if aIsNum && bIsNum {
		return an.Cmp(bn) == 0
	}
	if aIsNum != bIsNum {
		return false
	}

	aArr, aIsArr := a.([]any)
	bArr, bIsArr := b.([]any)
	if aIsArr && bIsArr {
		if len(aArr) != len(bArr) {
			return false
		}
		for i := range aArr {
			if !valuesEqual(aArr[i], bArr[i]) {
				return false
			}
		}
		return true
	}
	if aIsArr != bIsArr {
		return false
	}

	aMap, aIsMap := a.(map[string]any)
	bMap, bIsMap := b.(map[string]any)
	if aIsMap && bIsMap {
		if len(aMap) != len(bMap) {
			return false
		}
		for k, v := range aMap {
			other, ok := bMap[k]
			if !ok || !valuesEqual(v, other) {
				return false
			}
		}
		return true
	}
	if aIsMap != bIsMap {
		return false
	}

	return reflect.DeepEqual(a, b)
}

// marshalStable serializes v for use as a set-membership key in
// uniqueItems checking; encoding/json (and this encoder, which mirrors
// it) sorts object keys, so structurally equal values always produce
// the same bytes regardless of decode order.
func marshalStable(v any) ([]byte, error) {
	return segjson.Marshal(v)
}
