package httpconform

import (
	"net/http"
	"strings"

	"github.com/oasconform/httpconform/openapi"
)

// standardHeaders are the headers strict mode (§9, WithStrictMode)
// tolerates on a request even when the operation doesn't declare them,
// matching the teacher's httpvalidator strict-mode allowlist.
var standardHeaders = map[string]bool{
	"accept": true, "accept-charset": true, "accept-encoding": true,
	"accept-language": true, "authorization": true, "cache-control": true,
	"connection": true, "content-length": true, "content-type": true,
	"cookie": true, "host": true, "origin": true, "referer": true,
	"user-agent": true, "x-forwarded-for": true, "x-forwarded-host": true,
	"x-forwarded-proto": true, "x-real-ip": true, "x-request-id": true,
}

// ValidateRequest implements C6: resolve the operation (§4.C3), extract
// and evaluate every declared parameter in the ordering §5 guarantees
// (path, then query, then canonical-sorted headers), then the body
// (§4.C5). hint lets a caller that already knows the operation skip
// FindPath's fallback search; pass the zero value for full document-order
// matching. The resolved PathMatch is returned alongside the Result so a
// caller validating the paired response doesn't have to re-resolve it.
func ValidateRequest(doc *openapi.Document, req Request, hint PathMatchHint, eval Evaluator) (Result, PathMatch) {
	match, errs := FindPath(doc, req, hint)
	if len(errs) > 0 {
		return Invalid(errs...), match
	}

	op := doc.Paths.Get(match.PathTemplate).Operation(match.Method)
	result := Valid(nil)
	absRoot := resolveAbsoluteKeywordRoot(doc, match.Host)

	for _, p := range doc.ParametersByLocation(match.PathTemplate, op, "path") {
		extracted, extractErr := ExtractPathParam(match, p)
		result = evalParam(result, extracted, extractErr, p, "/request/path/"+p.Name, eval, absRoot)
	}

	query := req.URL().Query()
	queryParams := doc.ParametersByLocation(match.PathTemplate, op, "query")
	for _, p := range queryParams {
		extracted, extractErr := ExtractQueryParam(query, p)
		result = evalParam(result, extracted, extractErr, p, "/request/query/"+p.Name, eval, absRoot)
	}
	if doc.StrictMode {
		result = rejectUnknownQueryParams(result, query, queryParams)
	}

	headerParams := OrderedParameters(doc, match.PathTemplate, op, "header")
	for _, p := range headerParams {
		extracted, extractErr := ExtractHeaderParam(req, p)
		result = evalParam(result, extracted, extractErr, p, "/request/header/"+p.Name, eval, absRoot)
	}
	if doc.StrictMode {
		result = rejectUnknownHeaders(result, req, headerParams)
	}

	bodyResult := ValidateRequestBody(req, match.Method, op.RequestBody, eval, doc.MaxBodySize, absRoot)
	result = result.Merge(bodyResult, "", "")

	return result, match
}

// evalParam folds one parameter's extraction and, if present, its C12
// schema evaluation into the accumulating request Result.
func evalParam(result Result, extracted ExtractedValue, extractErr *Error, param *openapi.Parameter, instanceLoc string, eval Evaluator, absRoot string) Result {
	if extractErr != nil {
		return result.AddError(*extractErr)
	}
	if !extracted.Present || eval == nil {
		return result
	}
	if param.Schema == nil {
		if len(param.Content) == 0 {
			return result
		}
		return result.Merge(evalContentParam(extracted.Raw, param, eval, instanceLoc, absRoot), "", "")
	}
	var instance any = extracted.Raw
	if extracted.Numeric {
		instance = extracted.Decimal
	}
	paramResult := eval.Evaluate(param.Schema, instance, EvalOptions{
		InstancePrefix:      instanceLoc,
		AbsoluteKeywordRoot: absRoot,
		FailureKind:         KindParameterSchemaFailure,
	})
	return result.Merge(paramResult, "", "")
}

// rejectUnknownQueryParams implements the query-parameter half of
// strict mode: any query key the operation does not declare is an error.
func rejectUnknownQueryParams(result Result, query map[string][]string, declared []*openapi.Parameter) Result {
	known := make(map[string]bool, len(declared))
	for _, p := range declared {
		known[p.Name] = true
	}
	for key := range query {
		if !known[key] {
			result = result.AddError(Error{
				Kind:             KindUnknownQueryParameter,
				InstanceLocation: "/request/query/" + key,
				Message:          "unknown query parameter " + key,
			})
		}
	}
	return result
}

// rejectUnknownHeaders implements the header half of strict mode,
// tolerating standardHeaders and the Sec- prefix the teacher's
// allowlist also carves out for user-agent/CORS preflight headers.
func rejectUnknownHeaders(result Result, req Request, declared []*openapi.Parameter) Result {
	known := make(map[string]bool, len(declared))
	for _, p := range declared {
		known[strings.ToLower(p.Name)] = true
	}
	for name := range req.Headers() {
		lower := strings.ToLower(name)
		if known[lower] || standardHeaders[lower] || strings.HasPrefix(lower, "sec-") {
			continue
		}
		result = result.AddError(Error{
			Kind:             KindUnknownHeader,
			InstanceLocation: "/request/header/" + http.CanonicalHeaderKey(name),
			Message:          "unknown header parameter " + name,
		})
	}
	return result
}
