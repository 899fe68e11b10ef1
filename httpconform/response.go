package httpconform

import (
	"sort"
	"strconv"
	"strings"

	"github.com/oasconform/httpconform/internal/httputil"
	"github.com/oasconform/httpconform/openapi"
)

// ValidateResponse implements C7: resolve the declared response for the
// status code (§4's exact → wildcard → default precedence), validate
// declared response headers in canonical sorted order, then the body.
// match must come from a prior FindPath/ValidateRequest call against the
// paired request — a response is only meaningful in the context of the
// operation it answers, so this package never re-resolves one on its own.
func ValidateResponse(doc *openapi.Document, resp Response, match PathMatch, eval Evaluator) Result {
	if !match.matched() {
		return Invalid(Error{
			Kind:             KindNoPathMatch,
			InstanceLocation: "/response",
			Message:          "no resolved request path match to validate the response against",
		})
	}

	op := doc.Paths.Get(match.PathTemplate).Operation(match.Method)
	if op == nil || op.Responses == nil {
		return Invalid(Error{
			Kind:             KindNoMatchingOperation,
			InstanceLocation: "/response",
			Message:          "no responses declared for " + match.Method + " " + match.PathTemplate,
		})
	}

	response, _, ok := op.Responses.Lookup(resp.StatusCode())
	if !ok {
		return Invalid(Error{
			Kind:             KindNoMatchingOperation,
			InstanceLocation: "/response",
			Message:          "no declared response matches status " + strconv.Itoa(resp.StatusCode()),
		})
	}

	result := Valid(nil)
	if doc.StrictMode && !httputil.IsStandardStatusCode(strconv.Itoa(resp.StatusCode())) {
		result = result.AddError(Error{
			Kind:             KindNonStandardStatusCode,
			InstanceLocation: "/response/status",
			Message:          "status code " + strconv.Itoa(resp.StatusCode()) + " is not a standard HTTP status code (RFC 9110)",
		})
	}

	absRoot := resolveAbsoluteKeywordRoot(doc, match.Host)
	for _, name := range orderedHeaderNames(response.Headers) {
		result = evalResponseHeader(result, resp, name, response.Headers[name], eval, absRoot)
	}

	bodyResult := ValidateResponseBody(resp, response, eval, doc.MaxBodySize, absRoot)
	return result.Merge(bodyResult, "", "")
}

// orderedHeaderNames sorts by case-folded name so the error stream for
// declared response headers is deterministic, the §5 "headers (canonical
// sorted)" guarantee applied to C7 the same way OrderedParameters
// applies it to C6.
func orderedHeaderNames(headers map[string]*openapi.Header) []string {
	names := make([]string, 0, len(headers))
	for name := range headers {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		return strings.ToLower(names[i]) < strings.ToLower(names[j])
	})
	return names
}

func evalResponseHeader(result Result, resp Response, name string, header *openapi.Header, eval Evaluator, absRoot string) Result {
	instanceLoc := "/response/header/" + name
	raw, ok := resp.Header(name)
	if !ok {
		if header.Required {
			return result.AddError(Error{
				Kind:             KindMissingRequiredParameter,
				InstanceLocation: instanceLoc,
				Message:          "missing required response header " + name,
			})
		}
		return result
	}
	if eval == nil || header.Schema == nil {
		return result
	}
	var instance any = raw
	if d, numeric := CoerceNumeric(raw, header.Schema); numeric {
		instance = d
	}
	headerResult := eval.Evaluate(header.Schema, instance, EvalOptions{
		InstancePrefix:      instanceLoc,
		AbsoluteKeywordRoot: absRoot,
		FailureKind:         KindParameterSchemaFailure,
	})
	return result.Merge(headerResult, "", "")
}
