package httpconform

import (
	"net/url"
	"strings"

	"github.com/oasconform/httpconform/openapi"
)

// PathMatchHint lets a caller short-circuit path resolution when it
// already knows part of the answer (a router dispatching by template,
// or a prior FindPath/ValidateRequest call). Any subset of fields may
// be set; the zero value requests full document-order matching.
type PathMatchHint struct {
	PathTemplate string
	OperationID  string
	PathCaptures map[string]string
	Method       string
}

// PathMatch is the immutable result of resolving a request to a
// declared operation. It is the memoization channel between FindPath,
// ValidateRequest, and ValidateResponse (§9 Design Notes) — never
// mutated in place, only produced and read.
type PathMatch struct {
	PathTemplate string
	PathCaptures map[string]string
	Method       string
	OperationID  string
	// Host is the request's Host-header-equivalent, carried through so
	// ValidateResponse can resolve the C10 AbsoluteKeywordLocation root
	// the same way ValidateRequest did, without re-deriving it from a
	// response (which has no Host of its own).
	Host string
}

// matched reports whether m was produced by a successful resolution,
// as opposed to the zero value a caller might pass when it has none.
func (m PathMatch) matched() bool {
	return m.PathTemplate != ""
}

// FindPath resolves a request to its declared operation following the
// three-step policy of §4.C3: hinted template, then hinted operationId,
// then full document-order matching.
func FindPath(doc *openapi.Document, req Request, hint PathMatchHint) (PathMatch, []Error) {
	method := strings.ToLower(hint.Method)
	reqMethod := strings.ToLower(req.Method())
	if method == "" {
		method = reqMethod
	} else if reqMethod != "" && method != reqMethod {
		return PathMatch{}, []Error{{
			Kind:    KindOptionsInconsistent,
			Message: "hinted method " + hint.Method + " disagrees with request method " + req.Method(),
		}}
	}
	path := req.URL().EscapedPath()
	host := hostOf(req)

	switch {
	case hint.PathTemplate != "" && hint.OperationID != "":
		if resolvedTemplate, _, ok := doc.OperationPath(hint.OperationID); !ok || resolvedTemplate != hint.PathTemplate {
			return PathMatch{}, []Error{{
				Kind: KindOptionsInconsistent,
				Message: "hinted path template " + hint.PathTemplate + " disagrees with operationId " +
					hint.OperationID + " (resolves to " + resolvedTemplate + ")",
			}}
		}
		return matchByTemplate(doc, hint.PathTemplate, method, path, host, hint.PathCaptures)

	case hint.PathTemplate != "":
		if doc.Paths.Get(hint.PathTemplate) == nil {
			return PathMatch{}, []Error{{Kind: KindPathTemplateUnknown, Message: "unknown path template " + hint.PathTemplate}}
		}
		return matchByTemplate(doc, hint.PathTemplate, method, path, host, hint.PathCaptures)

	case hint.OperationID != "":
		template, _, ok := doc.OperationPath(hint.OperationID)
		if !ok {
			return PathMatch{}, []Error{{Kind: KindOperationIDUnknown, Message: "unknown operationId " + hint.OperationID}}
		}
		return matchByTemplate(doc, template, method, path, host, hint.PathCaptures)

	default:
		template, captures, ok := doc.MatchPathIndex(path)
		if !ok {
			return PathMatch{}, []Error{{Kind: KindNoPathMatch, Message: "no declared path template matches " + path}}
		}
		decoded, err := decodeCaptures(captures)
		if err != nil {
			return PathMatch{}, []Error{{Kind: KindNoPathMatch, Message: err.Error()}}
		}
		return finishMatch(doc, template, method, host, decoded)
	}
}

// matchByTemplate implements §4.C3 step 1/2: a template is already
// known (directly hinted, or resolved from a hinted operationId); only
// its own regex is tried, and any hinted captures are cross-checked
// against what the URI actually contains.
func matchByTemplate(doc *openapi.Document, template, method, path, host string, hintedCaptures map[string]string) (PathMatch, []Error) {
	captures, ok := doc.MatchTemplate(template, path)
	if !ok {
		return PathMatch{}, []Error{{Kind: KindNoPathMatch, Message: "path template " + template + " does not match " + path}}
	}
	decoded, err := decodeCaptures(captures)
	if err != nil {
		return PathMatch{}, []Error{{Kind: KindNoPathMatch, Message: err.Error()}}
	}
	for name, want := range hintedCaptures {
		if got, ok := decoded[name]; !ok || got != want {
			return PathMatch{}, []Error{{
				Kind:    KindPathCaptureMismatch,
				Message: "hinted capture " + name + "=" + want + " disagrees with resolved value " + got,
			}}
		}
	}
	return finishMatch(doc, template, method, host, decoded)
}

func finishMatch(doc *openapi.Document, template, method, host string, captures map[string]string) (PathMatch, []Error) {
	item := doc.Paths.Get(template)
	op := item.Operation(method)
	if op == nil {
		return PathMatch{}, []Error{{Kind: KindNoMatchingOperation, Message: "no operation for method " + method + " on " + template}}
	}
	return PathMatch{
		PathTemplate: template,
		PathCaptures: captures,
		Method:       method,
		OperationID:  op.OperationID,
		Host:         host,
	}, nil
}

func decodeCaptures(raw map[string]string) (map[string]string, error) {
	decoded := make(map[string]string, len(raw))
	for name, v := range raw {
		unescaped, err := url.PathUnescape(v)
		if err != nil {
			return nil, err
		}
		decoded[name] = unescaped
	}
	return decoded, nil
}
