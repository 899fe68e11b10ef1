package httpconform

import (
	"bytes"

	"github.com/oasconform/httpconform/openapi"
	"github.com/segmentio/encoding/json"
	"github.com/woodsbury/decimal128"
)

// bodyMode distinguishes request-side from response-side dispatch, the
// two branches §4.C5 describes as sharing identical rules except for
// the anti-smuggling check and which readOnly/writeOnly flag applies.
type bodyMode struct {
	instancePrefix  string
	rejectReadOnly  bool
	rejectWriteOnly bool
}

var requestBodyMode = bodyMode{instancePrefix: "/request/body", rejectReadOnly: true}
var responseBodyMode = bodyMode{instancePrefix: "/response/body", rejectWriteOnly: true}

// ValidateRequestBody implements the request side of §4.C5: the
// anti-smuggling GET/HEAD check, required/empty-body short circuits,
// media-type selection, decoding, and schema evaluation.
func ValidateRequestBody(req Request, method string, body *openapi.RequestBody, eval Evaluator, maxBodySize int64, absRoot string) Result {
	raw, hasBody := req.BodyBytes()
	contentLength, hasLength := req.Header("Content-Length")
	bodyPresent := hasBody || (hasLength && contentLength != "" && contentLength != "0")

	if (method == "get" || method == "head") && bodyPresent && body == nil {
		return Invalid(Error{
			Kind:             KindUnexpectedBodyForGetHead,
			InstanceLocation: requestBodyMode.instancePrefix,
			Message:          "a " + method + " request must not carry a body unless requestBody is declared",
		})
	}

	if body == nil {
		return Valid(nil)
	}
	contentType, _ := req.Header("Content-Type")
	if !bodyPresent {
		if entrySchemaIsEmpty(body.Content, contentType) {
			return Valid(nil)
		}
		if body.Required {
			return Invalid(Error{
				Kind:             KindMissingRequiredParameter,
				InstanceLocation: requestBodyMode.instancePrefix,
				Message:          "request body is required",
			})
		}
		return Valid(nil)
	}

	return dispatchBody(raw, contentType, body.Content, eval, requestBodyMode, maxBodySize, absRoot)
}

// entrySchemaIsEmpty reports whether the content map's best-matching
// media type (by the header's declared type, falling back to the
// content map's own lone entry when there is exactly one) declares the
// empty schema ("true" or "{}"), which §4.C5 treats as always passing
// regardless of the body-required flag.
func entrySchemaIsEmpty(content map[string]*openapi.MediaType, contentTypeHeader string) bool {
	if len(content) == 0 {
		return false
	}
	actualType := contentTypeHeader
	if parsed, _, err := ParseContentType(contentTypeHeader); err == nil {
		actualType = parsed
	} else if len(content) == 1 {
		for k := range content {
			actualType = k
		}
	}
	_, entry, ok := SelectContentEntry(content, actualType)
	if !ok {
		return false
	}
	return entry.Schema == nil || entry.Schema.IsEmpty()
}

// ValidateResponseBody implements the response side of §4.C5: missing
// Content-Length alongside a present body is tolerated (the rule only
// exists to catch GET/HEAD smuggling on the request side).
func ValidateResponseBody(resp Response, response *openapi.Response, eval Evaluator, maxBodySize int64, absRoot string) Result {
	if response == nil {
		return Valid(nil)
	}
	raw, hasBody := resp.BodyBytes()
	if !hasBody {
		return Valid(nil)
	}
	contentType, _ := resp.Header("Content-Type")
	return dispatchBody(raw, contentType, response.Content, eval, responseBodyMode, maxBodySize, absRoot)
}

// dispatchBody resolves a media type by C2 precedence, applies the
// forbidden/empty-schema short circuits, decodes the payload, and hands
// it to the evaluator. maxBodySize <= 0 disables the size cap (§9
// Option semantics, WithMaxBodySize).
func dispatchBody(raw []byte, contentTypeHeader string, content map[string]*openapi.MediaType, eval Evaluator, mode bodyMode, maxBodySize int64, absRoot string) Result {
	if maxBodySize > 0 && int64(len(raw)) > maxBodySize {
		return Invalid(Error{
			Kind:             KindBodyTooLarge,
			InstanceLocation: mode.instancePrefix,
			Message:          "body exceeds the configured maximum size",
		})
	}
	if len(content) == 0 {
		return Valid(nil)
	}
	actualType, charset, err := ParseContentType(contentTypeHeader)
	if err != nil {
		return Invalid(Error{
			Kind:             KindNoMatchingContentType,
			InstanceLocation: mode.instancePrefix,
			Message:          "invalid Content-Type header: " + err.Error(),
		})
	}

	_, entry, ok := SelectContentEntry(content, actualType)
	if !ok {
		return Invalid(Error{
			Kind:             KindNoMatchingContentType,
			InstanceLocation: mode.instancePrefix,
			Message:          "no declared media type matches " + actualType,
		})
	}

	if entry.Forbidden {
		return Invalid(Error{
			Kind:             KindEntityForbidden,
			InstanceLocation: mode.instancePrefix,
			Message:          "the entity is forbidden",
		})
	}
	if len(raw) == 0 {
		return Valid(nil)
	}
	if entry.Schema == nil || entry.Schema.IsEmpty() {
		return Valid(nil)
	}

	decoded, err := DecodeBody(raw, charset)
	if err != nil {
		return Invalid(Error{
			Kind:             KindDecodingFailed,
			InstanceLocation: mode.instancePrefix,
			Message:          err.Error(),
		})
	}

	instance, err := decodeInstance(decoded, actualType)
	if err != nil {
		return Invalid(Error{
			Kind:             KindDecodingFailed,
			InstanceLocation: mode.instancePrefix,
			Message:          err.Error(),
		})
	}

	if eval == nil {
		return Valid(nil)
	}
	return eval.Evaluate(entry.Schema, instance, EvalOptions{
		InstancePrefix:      mode.instancePrefix,
		AbsoluteKeywordRoot: absRoot,
		RejectReadOnly:      mode.rejectReadOnly,
		RejectWriteOnly:     mode.rejectWriteOnly,
		FailureKind:         KindBodySchemaFailure,
	})
}

// decodeInstance turns decoded body bytes into the any-typed instance
// tree the evaluator operates on. Only application/json and +json
// media types are parsed structurally; everything else is handed to
// the evaluator as a raw string, which is correct for schemas that
// only constrain string-shaped properties like "format". JSON numbers
// are decoded via json.Number rather than the default float64, then
// converted to decimal128.Decimal so a body value outside float64's
// 2^53 exact-integer range (e.g. a snowflake ID) keeps the same
// decimal-exact precision C8 already gives path/query/header values.
func decodeInstance(decoded []byte, mediaType string) (any, error) {
	if mediaType == "application/json" || hasJSONSuffix(mediaType) {
		dec := json.NewDecoder(bytes.NewReader(decoded))
		dec.UseNumber()
		var v any
		if err := dec.Decode(&v); err != nil {
			return nil, err
		}
		return decimalizeNumbers(v), nil
	}
	return string(decoded), nil
}

// decimalizeNumbers walks a decoded JSON tree in place, replacing every
// json.Number leaf with the decimal128.Decimal it parses to.
func decimalizeNumbers(v any) any {
	switch x := v.(type) {
	case json.Number:
		d, err := decimal128.Parse(string(x))
		if err != nil {
			f, _ := x.Float64()
			return f
		}
		return d
	case map[string]any:
		for k, val := range x {
			x[k] = decimalizeNumbers(val)
		}
		return x
	case []any:
		for i, val := range x {
			x[i] = decimalizeNumbers(val)
		}
		return x
	default:
		return v
	}
}

func hasJSONSuffix(mediaType string) bool {
	return len(mediaType) > len("+json") && mediaType[len(mediaType)-len("+json"):] == "+json"
}
