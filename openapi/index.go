package openapi

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/oasconform/httpconform/internal/httputil"
)

// indexedOperation is a load-time-resolved entry in the operation index:
// operationId → (path template, method).
type indexedOperation struct {
	pathTemplate string
	method       string
}

// indexedPath is one entry of the path-template index (§4.C3): the
// compiled regex and ordered capture names for a single template.
type indexedPath struct {
	template    string
	regex       *regexp.Regexp
	paramNames  []string
}

var pathParamEscape = strings.NewReplacer(
	`\`, `\\`, `.`, `\.`, `+`, `\+`, `*`, `\*`, `?`, `\?`,
	`(`, `\(`, `)`, `\)`, `|`, `\|`, `[`, `\[`, `]`, `\]`,
	`{`, `\{`, `}`, `\}`, `^`, `\^`, `$`, `\$`,
)

// compilePathTemplate builds the anchored, non-slash-capturing regex for
// one path template, per §4.C3: each "{name}" becomes "([^/]+)". A
// template with a repeated capture name is a load-time error.
func compilePathTemplate(template string) (*indexedPath, error) {
	var pattern strings.Builder
	pattern.WriteString("^")

	var names []string
	seen := make(map[string]bool)

	i := 0
	for i < len(template) {
		if template[i] != '{' {
			pattern.WriteString(pathParamEscape.Replace(string(template[i])))
			i++
			continue
		}
		end := strings.IndexByte(template[i:], '}')
		if end == -1 {
			return nil, fmt.Errorf("openapi: unclosed path parameter in template %q", template)
		}
		name := template[i+1 : i+end]
		if name == "" {
			return nil, fmt.Errorf("openapi: empty path parameter in template %q", template)
		}
		if seen[name] {
			return nil, &LoadError{Kind: KindDuplicateCaptureName, Message: fmt.Sprintf("duplicate path parameter %q in template %q", name, template)}
		}
		seen[name] = true
		names = append(names, name)
		pattern.WriteString("([^/]+)")
		i += end + 1
	}
	pattern.WriteString("$")

	re, err := regexp.Compile(pattern.String())
	if err != nil {
		return nil, fmt.Errorf("openapi: failed to compile template %q: %w", template, err)
	}
	return &indexedPath{template: template, regex: re, paramNames: names}, nil
}

// buildIndices walks the document's Paths in order, compiling the
// path-template index and the operationId → (template, method) index.
// Duplicate operationId across any two operations is a load-time error.
func (d *Document) buildIndices() error {
	d.operationIndex = make(map[string]*indexedOperation)
	d.pathIndex = nil

	for _, template := range d.Paths.Templates() {
		item := d.Paths.Get(template)
		indexed, err := compilePathTemplate(template)
		if err != nil {
			return err
		}
		d.pathIndex = append(d.pathIndex, indexed)

		for _, method := range httpMethods {
			op := item.Operation(method)
			if op == nil {
				continue
			}
			if err := validateOperationMediaTypes(op); err != nil {
				return err
			}
			if op.OperationID == "" {
				continue
			}
			if existing, ok := d.operationIndex[op.OperationID]; ok {
				return &LoadError{
					Kind: KindDuplicateOperationID,
					Message: fmt.Sprintf("duplicate operationId %q on %s %s (first seen on %s %s)",
						op.OperationID, method, template, existing.method, existing.pathTemplate),
				}
			}
			d.operationIndex[op.OperationID] = &indexedOperation{pathTemplate: template, method: method}
		}
	}
	return nil
}

// validateOperationMediaTypes checks that every Content map key declared
// on an operation's parameters, request body, and responses is a
// well-formed media-type pattern, per RFC 2045/2046 wildcard rules.
func validateOperationMediaTypes(op *Operation) error {
	checkContent := func(content map[string]*MediaType) error {
		for mediaType := range content {
			if !httputil.IsValidMediaType(mediaType) {
				return &LoadError{Kind: KindInvalidMediaType, Message: "invalid media type " + mediaType}
			}
		}
		return nil
	}

	for _, p := range op.Parameters {
		if err := checkContent(p.Content); err != nil {
			return err
		}
	}
	if op.RequestBody != nil {
		if err := checkContent(op.RequestBody.Content); err != nil {
			return err
		}
	}
	if op.Responses == nil {
		return nil
	}
	if op.Responses.Default != nil {
		if err := checkContent(op.Responses.Default.Content); err != nil {
			return err
		}
	}
	for _, resp := range op.Responses.Codes {
		if err := checkContent(resp.Content); err != nil {
			return err
		}
	}
	return nil
}

var httpMethods = []string{"get", "put", "post", "delete", "options", "head", "patch", "trace"}

// OperationPath returns the path template an operationId was declared
// on, and whether it was found.
func (d *Document) OperationPath(operationID string) (template, method string, ok bool) {
	if d == nil || d.operationIndex == nil {
		return "", "", false
	}
	entry, ok := d.operationIndex[operationID]
	if !ok {
		return "", "", false
	}
	return entry.pathTemplate, entry.method, true
}

// MatchPathIndex tries each path-template regex in document order and
// returns the first match, its captures (still URL-encoded), and the
// matched template. This is the fallback branch of §4.C3 step 3.
func (d *Document) MatchPathIndex(path string) (template string, captures map[string]string, ok bool) {
	for _, entry := range d.pathIndex {
		m := entry.regex.FindStringSubmatch(path)
		if m == nil {
			continue
		}
		caps := make(map[string]string, len(entry.paramNames))
		for i, name := range entry.paramNames {
			caps[name] = m[i+1]
		}
		return entry.template, caps, true
	}
	return "", nil, false
}

// MatchTemplate checks a single known template's regex against path,
// used by §4.C3 step 1/2 once the template has already been resolved
// by name or by operationId.
func (d *Document) MatchTemplate(template, path string) (captures map[string]string, ok bool) {
	for _, entry := range d.pathIndex {
		if entry.template != template {
			continue
		}
		m := entry.regex.FindStringSubmatch(path)
		if m == nil {
			return nil, false
		}
		caps := make(map[string]string, len(entry.paramNames))
		for i, name := range entry.paramNames {
			caps[name] = m[i+1]
		}
		return caps, true
	}
	return nil, false
}

// Parameters returns the effective parameter list for an operation on a
// path template: path-level parameters overridden by operation-level
// parameters with the same (in, name), per §4.C6.
func (d *Document) Parameters(pathTemplate string, op *Operation) []*Parameter {
	item := d.Paths.Get(pathTemplate)
	if item == nil {
		if op == nil {
			return nil
		}
		return op.Parameters
	}

	merged := make(map[paramKey]*Parameter)
	var order []paramKey
	add := func(p *Parameter) {
		if p == nil {
			return
		}
		k := paramKey{in: p.In, name: p.Name}
		if _, exists := merged[k]; !exists {
			order = append(order, k)
		}
		merged[k] = p
	}
	for _, p := range item.Parameters {
		add(p)
	}
	if op != nil {
		for _, p := range op.Parameters {
			add(p)
		}
	}

	out := make([]*Parameter, 0, len(order))
	for _, k := range order {
		out = append(out, merged[k])
	}
	return out
}

// ParametersByLocation filters Parameters by the "in" value.
func (d *Document) ParametersByLocation(pathTemplate string, op *Operation, in string) []*Parameter {
	all := d.Parameters(pathTemplate, op)
	out := make([]*Parameter, 0, len(all))
	for _, p := range all {
		if p.In == in {
			out = append(out, p)
		}
	}
	return out
}
