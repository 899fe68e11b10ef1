package httpconform

import (
	"net/url"
	"strings"

	"github.com/oasconform/httpconform/openapi"
	"github.com/woodsbury/decimal128"
)

// ExtractedValue is the typed result of projecting one wire-format
// parameter value back through C8 coercion (§4.C4 step 1), ready for
// C12 schema evaluation (step 2).
type ExtractedValue struct {
	Raw      string
	Decimal  decimal128.Decimal
	Numeric  bool
	Present  bool
}

// ExtractPathParam resolves one path parameter's value from a PathMatch's
// already-URL-decoded captures. Only style=simple/explode=true is
// supported (§4.C4); a declared non-simple style is a configuration
// mistake in the document this package deliberately does not try to
// paper over, so it is treated the same as a missing capture.
func ExtractPathParam(match PathMatch, param *openapi.Parameter) (ExtractedValue, *Error) {
	raw, ok := match.PathCaptures[param.Name]
	if param.Style != "" && param.Style != "simple" {
		ok = false
	}
	if !ok {
		if param.Required {
			return ExtractedValue{}, &Error{
				Kind:             KindMissingRequiredParameter,
				InstanceLocation: "/request/path/" + param.Name,
				Message:          "missing required path parameter " + param.Name,
			}
		}
		return ExtractedValue{}, nil
	}
	return coerceParamValue(raw, param)
}

// ExtractQueryParam resolves one query parameter, considering only the
// first occurrence of its name per the Non-goals in §1. Style must be
// form/explode=true; both are the OAS default for query parameters so
// this requires no style lookup.
func ExtractQueryParam(query url.Values, param *openapi.Parameter) (ExtractedValue, *Error) {
	values, ok := query[param.Name]
	if !ok || len(values) == 0 {
		if param.Required {
			return ExtractedValue{}, &Error{
				Kind:             KindMissingRequiredParameter,
				InstanceLocation: "/request/query/" + param.Name,
				Message:          "missing required query parameter " + param.Name,
			}
		}
		return ExtractedValue{}, nil
	}
	return coerceParamValue(values[0], param)
}

// ExtractHeaderParam resolves one header parameter by case-insensitive
// name, considering only the first value. Content-Type, Accept, and
// Authorization are never extracted here: the body dispatcher (C5)
// owns Content-Type, and neither Accept nor Authorization is validated
// by this module.
func ExtractHeaderParam(req Request, param *openapi.Parameter) (ExtractedValue, *Error) {
	if isReservedHeader(param.Name) {
		return ExtractedValue{}, nil
	}
	raw, ok := req.Header(param.Name)
	if !ok {
		if param.Required {
			return ExtractedValue{}, &Error{
				Kind:             KindMissingRequiredParameter,
				InstanceLocation: "/request/header/" + param.Name,
				Message:          "missing required header " + param.Name,
			}
		}
		return ExtractedValue{}, nil
	}
	return coerceParamValue(raw, param)
}

func isReservedHeader(name string) bool {
	switch strings.ToLower(name) {
	case "content-type", "accept", "authorization":
		return true
	default:
		return false
	}
}

// coerceParamValue applies C8 numeric coercion when the parameter's
// schema calls for it, then returns the extracted value for C12 to
// evaluate against the full schema. Coercion never fails outward
// (§4.C8); an unparsable numeric string is simply left un-coerced for
// the schema's own "type" keyword to reject. A content-style parameter
// (param.Schema nil, param.Content set) has no scalar schema to coerce
// against here — it is evaluated whole by evalContentParam instead.
func coerceParamValue(raw string, param *openapi.Parameter) (ExtractedValue, *Error) {
	if param.Schema == nil {
		return ExtractedValue{Raw: raw, Present: true}, nil
	}
	d, numeric := CoerceNumeric(raw, param.Schema)
	return ExtractedValue{Raw: raw, Decimal: d, Numeric: numeric, Present: true}, nil
}

// evalContentParam implements §4.C4 step 2's alternate form: a
// parameter declared with "content" instead of "schema" carries the
// single media-type entry that describes how to decode its wire value,
// so it is validated by the same dispatch C5 uses for message bodies
// rather than against a bare schema.
func evalContentParam(raw string, param *openapi.Parameter, eval Evaluator, instanceLoc, absRoot string) Result {
	contentType := firstMediaType(param.Content)
	mode := bodyMode{instancePrefix: instanceLoc}
	return dispatchBody([]byte(raw), contentType, param.Content, eval, mode, 0, absRoot)
}

// firstMediaType returns the lone key of a single-entry content map,
// the only shape the OpenAPI "parameter with content" form allows.
func firstMediaType(content map[string]*openapi.MediaType) string {
	for k := range content {
		return k
	}
	return ""
}

// OrderedParameters returns an operation's parameters for one location
// ("header" in particular) in canonical, case-folded sorted order so
// that the error stream produced when iterating them is deterministic
// (§5 Ordering guarantees).
func OrderedParameters(doc *openapi.Document, pathTemplate string, op *openapi.Operation, in string) []*openapi.Parameter {
	params := doc.ParametersByLocation(pathTemplate, op, in)
	if in != "header" {
		return params
	}
	sorted := make([]*openapi.Parameter, len(params))
	copy(sorted, params)
	sortParamsByCanonicalName(sorted)
	return sorted
}

func sortParamsByCanonicalName(params []*openapi.Parameter) {
	for i := 1; i < len(params); i++ {
		for j := i; j > 0 && strings.ToLower(params[j-1].Name) > strings.ToLower(params[j].Name); j-- {
			params[j-1], params[j] = params[j], params[j-1]
		}
	}
}
