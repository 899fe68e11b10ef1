// Package openapi models an OpenAPI 3.1 document: the subset of the
// specification that httpconform needs to route and validate HTTP
// messages against declared operations.
package openapi

import (
	"strconv"
	"strings"

	"github.com/oasconform/httpconform/internal/httputil"
	"go.yaml.in/yaml/v4"
)

// Document is the root of a parsed OpenAPI 3.1 description.
type Document struct {
	OpenAPI    string      `yaml:"openapi"`
	Info       *Info       `yaml:"info"`
	Paths      Paths       `yaml:"paths,omitempty"`
	Components *Components `yaml:"components,omitempty"`

	// URI is the document's own identifier, used by the URI resolver
	// (§4.C10) to build absolute keyword locations. It is set by the
	// caller of Load/LoadFile, not decoded from the document body.
	URI string `yaml:"-"`

	// MaxBodySize, StrictMode, and BaseURI are load-time Options (§4.C11
	// ambient config), not part of the document's wire shape.
	MaxBodySize int64  `yaml:"-"`
	StrictMode  bool   `yaml:"-"`
	BaseURI     string `yaml:"-"`

	Extra map[string]any `yaml:",inline"`

	operationIndex map[string]*indexedOperation
	pathIndex      []*indexedPath
}

// Info is the OAS "info" object; only the fields httpconform's error
// messages and tests ever reference are kept.
type Info struct {
	Title   string `yaml:"title"`
	Version string `yaml:"version"`
}

// Components holds the reusable "components" section of the document.
// Only the subsections a $ref can resolve into are modeled.
type Components struct {
	Schemas    map[string]*Schema    `yaml:"schemas,omitempty"`
	Parameters map[string]*Parameter `yaml:"parameters,omitempty"`
	Responses  map[string]*Response  `yaml:"responses,omitempty"`
	Headers    map[string]*Header    `yaml:"headers,omitempty"`
}

// Paths is the ordered set of path templates. YAML mapping iteration
// order from go.yaml.in/yaml is insertion order, which this module
// relies on for the document-order matching policy of §4.C3.
type Paths struct {
	templates []string
	items     map[string]*PathItem
}

// Set inserts or replaces the path item for a template, preserving
// first-seen insertion order.
func (p *Paths) Set(template string, item *PathItem) {
	if p.items == nil {
		p.items = make(map[string]*PathItem)
	}
	if _, exists := p.items[template]; !exists {
		p.templates = append(p.templates, template)
	}
	p.items[template] = item
}

// Get returns the path item for a template, or nil.
func (p *Paths) Get(template string) *PathItem {
	if p == nil || p.items == nil {
		return nil
	}
	return p.items[template]
}

// Templates returns path templates in document order.
func (p *Paths) Templates() []string {
	if p == nil {
		return nil
	}
	return p.templates
}

// Len reports the number of path templates.
func (p *Paths) Len() int {
	if p == nil {
		return 0
	}
	return len(p.templates)
}

// PathItem describes the operations available on a single path template.
type PathItem struct {
	Summary     string       `yaml:"summary,omitempty"`
	Description string       `yaml:"description,omitempty"`
	Get         *Operation   `yaml:"get,omitempty"`
	Put         *Operation   `yaml:"put,omitempty"`
	Post        *Operation   `yaml:"post,omitempty"`
	Delete      *Operation   `yaml:"delete,omitempty"`
	Options     *Operation   `yaml:"options,omitempty"`
	Head        *Operation   `yaml:"head,omitempty"`
	Patch       *Operation   `yaml:"patch,omitempty"`
	Trace       *Operation   `yaml:"trace,omitempty"`
	Parameters  []*Parameter `yaml:"parameters,omitempty"`
}

// Operation maps to one of the eight HTTP methods on a PathItem.
func (pi *PathItem) Operation(method string) *Operation {
	if pi == nil {
		return nil
	}
	switch method {
	case "get":
		return pi.Get
	case "put":
		return pi.Put
	case "post":
		return pi.Post
	case "delete":
		return pi.Delete
	case "options":
		return pi.Options
	case "head":
		return pi.Head
	case "patch":
		return pi.Patch
	case "trace":
		return pi.Trace
	default:
		return nil
	}
}

// Operation describes a single API operation on a path.
type Operation struct {
	OperationID string       `yaml:"operationId,omitempty"`
	Summary     string       `yaml:"summary,omitempty"`
	Parameters  []*Parameter `yaml:"parameters,omitempty"`
	RequestBody *RequestBody `yaml:"requestBody,omitempty"`
	Responses   *Responses   `yaml:"responses"`
	Deprecated  bool         `yaml:"deprecated,omitempty"`
}

// Responses is a container for the expected responses of an operation,
// keyed by status code ("200"), status-code wildcard ("2XX"), or the
// literal "default".
type Responses struct {
	Default *Response
	Codes   map[string]*Response
}

// UnmarshalYAML routes the literal "default" key to Default, drops
// "x-" extension keys, and puts numeric status codes and "NXX"
// wildcards into Codes; any other key is a KindInvalidStatusCode error.
// A plain struct tag can't express this split, since "default" isn't a
// fixed field alongside an open-ended map of the remaining keys.
func (r *Responses) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return &LoadError{Kind: KindMalformed, Message: "responses must be a mapping"}
	}
	r.Codes = make(map[string]*Response)
	for i := 0; i+1 < len(node.Content); i += 2 {
		keyNode, valNode := node.Content[i], node.Content[i+1]
		var key string
		if err := keyNode.Decode(&key); err != nil {
			return &LoadError{Kind: KindMalformed, Message: "responses key must be a string", Cause: err}
		}
		var resp Response
		if err := valNode.Decode(&resp); err != nil {
			return &LoadError{Kind: KindMalformed, Message: "invalid response for key " + key, Cause: err}
		}
		if key == "default" {
			r.Default = &resp
			continue
		}
		if strings.HasPrefix(key, "x-") {
			continue
		}
		if !httputil.ValidateStatusCode(key) {
			return &LoadError{Kind: KindInvalidStatusCode, Message: "invalid response status code key " + key}
		}
		r.Codes[key] = &resp
	}
	return nil
}

// Lookup selects the declared Response for a concrete status code,
// applying exact → "NXX" wildcard → default precedence over the keys
// httputil.ValidateStatusCode accepts as valid response keys.
func (r *Responses) Lookup(statusCode int) (*Response, string, bool) {
	if r == nil {
		return nil, "", false
	}
	exact := strconv.Itoa(statusCode)
	if resp, ok := r.Codes[exact]; ok {
		return resp, exact, true
	}
	wildcard := httputil.WildcardKey(statusCode)
	if resp, ok := r.Codes[wildcard]; ok {
		return resp, wildcard, true
	}
	if resp, ok := r.Codes[strings.ToLower(wildcard)]; ok {
		return resp, strings.ToLower(wildcard), true
	}
	if r.Default != nil {
		return r.Default, "default", true
	}
	return nil, "", false
}

// Response describes a single declared response.
type Response struct {
	Description string                 `yaml:"description"`
	Headers     map[string]*Header     `yaml:"headers,omitempty"`
	Content     map[string]*MediaType  `yaml:"content,omitempty"`
}

// MediaType provides a schema (and, in a future extension, encoding
// rules) for one content-type pattern under requestBody/response content.
// Schema is nil both when the key is absent (matches everything, the
// JSON Schema "true" schema) and when it is the boolean "false" schema
// ("the entity is forbidden", §4.C5) — Forbidden distinguishes the two.
type MediaType struct {
	Schema    *Schema `yaml:"schema,omitempty"`
	Forbidden bool    `yaml:"-"`
}

// UnmarshalYAML handles the OAS media-type object as well as the
// boolean-schema shorthand a "schema" key's value can carry under
// JSON Schema 2020-12 (a bare `true`/`false` in place of an object).
func (m *MediaType) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return &LoadError{Kind: KindMalformed, Message: "media type entry must be a mapping"}
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		keyNode, valNode := node.Content[i], node.Content[i+1]
		var key string
		if err := keyNode.Decode(&key); err != nil || key != "schema" {
			continue
		}
		if valNode.Kind == yaml.ScalarNode {
			var b bool
			if err := valNode.Decode(&b); err == nil {
				m.Forbidden = !b
				continue
			}
		}
		var schema Schema
		if err := valNode.Decode(&schema); err != nil {
			return &LoadError{Kind: KindMalformed, Message: "invalid media type schema", Cause: err}
		}
		m.Schema = &schema
	}
	return nil
}

// RequestBody describes an operation's request body.
type RequestBody struct {
	Description string                `yaml:"description,omitempty"`
	Content     map[string]*MediaType `yaml:"content"`
	Required    bool                  `yaml:"required,omitempty"`
}

// Parameter describes a single operation or path-level parameter.
type Parameter struct {
	Name        string  `yaml:"name"`
	In          string  `yaml:"in"`
	Description string  `yaml:"description,omitempty"`
	Required    bool    `yaml:"required,omitempty"`
	Deprecated  bool    `yaml:"deprecated,omitempty"`
	Style       string  `yaml:"style,omitempty"`
	Explode     *bool   `yaml:"explode,omitempty"`
	Schema      *Schema `yaml:"schema,omitempty"`
	// Content, when set, carries the single media-type entry that
	// describes how to decode and validate this parameter's value
	// instead of Schema (OAS's "parameter with content" form).
	Content map[string]*MediaType `yaml:"content,omitempty"`
}

// ExplodeOrDefault returns the parameter's effective explode flag given
// the location-specific default (simple/header → false, form/query → true).
func (p *Parameter) ExplodeOrDefault(def bool) bool {
	if p.Explode != nil {
		return *p.Explode
	}
	return def
}

// Header describes a response header or a header-style $ref target.
type Header struct {
	Description string  `yaml:"description,omitempty"`
	Required    bool    `yaml:"required,omitempty"`
	Schema      *Schema `yaml:"schema,omitempty"`
}

// paramKey identifies a parameter by its (in, name) pair, the tuple the spec
// requires to be unique within one operation plus its path-level list.
type paramKey struct {
	in, name string
}
