package openapi

import "go.yaml.in/yaml/v4"

// Schema represents a JSON Schema node as used by an OpenAPI 3.1 document
// (JSON Schema draft 2020-12 plus the OAS-specific annotation keywords).
type Schema struct {
	Ref    string `yaml:"$ref,omitempty"`
	Schema string `yaml:"$schema,omitempty"`

	Title       string        `yaml:"title,omitempty"`
	Description string        `yaml:"description,omitempty"`
	Default     any           `yaml:"default,omitempty"`
	Examples    []any         `yaml:"examples,omitempty"`

	// Type is a string or []string; use Types() to normalize.
	Type  any   `yaml:"type,omitempty"`
	Enum  []any `yaml:"enum,omitempty"`
	Const any   `yaml:"const,omitempty"`

	MultipleOf       *float64 `yaml:"multipleOf,omitempty"`
	Maximum          *float64 `yaml:"maximum,omitempty"`
	ExclusiveMaximum *float64 `yaml:"exclusiveMaximum,omitempty"`
	Minimum          *float64 `yaml:"minimum,omitempty"`
	ExclusiveMinimum *float64 `yaml:"exclusiveMinimum,omitempty"`

	MaxLength *int   `yaml:"maxLength,omitempty"`
	MinLength *int   `yaml:"minLength,omitempty"`
	Pattern   string `yaml:"pattern,omitempty"`

	// Items is *Schema or bool (the "false means no extra items" sentinel).
	Items       any     `yaml:"items,omitempty"`
	PrefixItems []*Schema `yaml:"prefixItems,omitempty"`
	MaxItems    *int    `yaml:"maxItems,omitempty"`
	MinItems    *int    `yaml:"minItems,omitempty"`
	UniqueItems bool    `yaml:"uniqueItems,omitempty"`
	Contains    *Schema `yaml:"contains,omitempty"`

	Properties        map[string]*Schema `yaml:"properties,omitempty"`
	PatternProperties map[string]*Schema `yaml:"patternProperties,omitempty"`
	// AdditionalProperties is *Schema or bool.
	AdditionalProperties any      `yaml:"additionalProperties,omitempty"`
	Required              []string `yaml:"required,omitempty"`
	MaxProperties          *int    `yaml:"maxProperties,omitempty"`
	MinProperties          *int    `yaml:"minProperties,omitempty"`
	UnevaluatedProperties  any     `yaml:"unevaluatedProperties,omitempty"`
	UnevaluatedItems       any     `yaml:"unevaluatedItems,omitempty"`

	If   *Schema `yaml:"if,omitempty"`
	Then *Schema `yaml:"then,omitempty"`
	Else *Schema `yaml:"else,omitempty"`

	AllOf []*Schema `yaml:"allOf,omitempty"`
	AnyOf []*Schema `yaml:"anyOf,omitempty"`
	OneOf []*Schema `yaml:"oneOf,omitempty"`
	Not   *Schema   `yaml:"not,omitempty"`

	ReadOnly   bool `yaml:"readOnly,omitempty"`
	WriteOnly  bool `yaml:"writeOnly,omitempty"`
	Deprecated bool `yaml:"deprecated,omitempty"`

	Format string `yaml:"format,omitempty"`

	Extra map[string]any `yaml:",inline"`
}

// UnmarshalYAML decodes a schema node field by field rather than relying
// on struct tags, because four keywords (items, additionalProperties,
// unevaluatedProperties, unevaluatedItems) are a "*Schema or bool"
// union that plain tag-based decoding into an `any` field cannot
// resolve: go.yaml.in/yaml/v4 decodes a mapping into an `any`-typed
// field as map[string]interface{}, never as *Schema, so every
// type-switch in internal/jsonschema that expects a *Schema there would
// silently fall through for the overwhelmingly common object-valued
// form (e.g. items: {type: string}). Grounded on Responses.UnmarshalYAML
// and MediaType.UnmarshalYAML (document.go) for the manual key-by-key
// node walk, and on the teacher's decodeSchemaOrBool
// (erraggy-oastools/parser/decode_helpers.go) for the union-resolution
// logic itself, adapted from its map[string]any input to a yaml.Node one.
func (s *Schema) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		// A bare true/false in a *Schema-typed position (the JSON
		// Schema boolean-schema shorthand for e.g. "not: false") has no
		// keywords; leave the zero-value Schema as is.
		return nil
	}
	if node.Kind != yaml.MappingNode {
		return &LoadError{Kind: KindMalformed, Message: "schema must be a mapping or boolean"}
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		keyNode, valNode := node.Content[i], node.Content[i+1]
		var key string
		if err := keyNode.Decode(&key); err != nil {
			return &LoadError{Kind: KindMalformed, Message: "schema key must be a string", Cause: err}
		}
		var err error
		switch key {
		case "$ref":
			err = valNode.Decode(&s.Ref)
		case "$schema":
			err = valNode.Decode(&s.Schema)
		case "title":
			err = valNode.Decode(&s.Title)
		case "description":
			err = valNode.Decode(&s.Description)
		case "default":
			err = valNode.Decode(&s.Default)
		case "examples":
			err = valNode.Decode(&s.Examples)
		case "type":
			err = valNode.Decode(&s.Type)
		case "enum":
			err = valNode.Decode(&s.Enum)
		case "const":
			err = valNode.Decode(&s.Const)
		case "multipleOf":
			err = valNode.Decode(&s.MultipleOf)
		case "maximum":
			err = valNode.Decode(&s.Maximum)
		case "exclusiveMaximum":
			err = valNode.Decode(&s.ExclusiveMaximum)
		case "minimum":
			err = valNode.Decode(&s.Minimum)
		case "exclusiveMinimum":
			err = valNode.Decode(&s.ExclusiveMinimum)
		case "maxLength":
			err = valNode.Decode(&s.MaxLength)
		case "minLength":
			err = valNode.Decode(&s.MinLength)
		case "pattern":
			err = valNode.Decode(&s.Pattern)
		case "items":
			s.Items, err = decodeSchemaOrBool(valNode)
		case "prefixItems":
			err = valNode.Decode(&s.PrefixItems)
		case "maxItems":
			err = valNode.Decode(&s.MaxItems)
		case "minItems":
			err = valNode.Decode(&s.MinItems)
		case "uniqueItems":
			err = valNode.Decode(&s.UniqueItems)
		case "contains":
			err = valNode.Decode(&s.Contains)
		case "properties":
			err = valNode.Decode(&s.Properties)
		case "patternProperties":
			err = valNode.Decode(&s.PatternProperties)
		case "additionalProperties":
			s.AdditionalProperties, err = decodeSchemaOrBool(valNode)
		case "required":
			err = valNode.Decode(&s.Required)
		case "maxProperties":
			err = valNode.Decode(&s.MaxProperties)
		case "minProperties":
			err = valNode.Decode(&s.MinProperties)
		case "unevaluatedProperties":
			s.UnevaluatedProperties, err = decodeSchemaOrBool(valNode)
		case "unevaluatedItems":
			s.UnevaluatedItems, err = decodeSchemaOrBool(valNode)
		case "if":
			err = valNode.Decode(&s.If)
		case "then":
			err = valNode.Decode(&s.Then)
		case "else":
			err = valNode.Decode(&s.Else)
		case "allOf":
			err = valNode.Decode(&s.AllOf)
		case "anyOf":
			err = valNode.Decode(&s.AnyOf)
		case "oneOf":
			err = valNode.Decode(&s.OneOf)
		case "not":
			err = valNode.Decode(&s.Not)
		case "readOnly":
			err = valNode.Decode(&s.ReadOnly)
		case "writeOnly":
			err = valNode.Decode(&s.WriteOnly)
		case "deprecated":
			err = valNode.Decode(&s.Deprecated)
		case "format":
			err = valNode.Decode(&s.Format)
		default:
			var v any
			if err = valNode.Decode(&v); err == nil {
				if s.Extra == nil {
					s.Extra = make(map[string]any)
				}
				s.Extra[key] = v
			}
		}
		if err != nil {
			return &LoadError{Kind: KindMalformed, Message: "invalid schema value for " + key, Cause: err}
		}
	}
	return nil
}

// decodeSchemaOrBool resolves a "*Schema or bool" union keyword from
// its raw node: a scalar decodes as the JSON Schema true/false
// sentinel, anything else (a mapping) decodes as a nested Schema.
func decodeSchemaOrBool(node *yaml.Node) (any, error) {
	if node.Kind == yaml.ScalarNode {
		var b bool
		if err := node.Decode(&b); err == nil {
			return b, nil
		}
	}
	var sub Schema
	if err := node.Decode(&sub); err != nil {
		return nil, err
	}
	return &sub, nil
}

// Types normalizes Schema.Type into a slice, handling the string and
// []string/[]any representations a YAML decoder may produce.
func (s *Schema) Types() []string {
	if s == nil || s.Type == nil {
		return nil
	}
	switch t := s.Type.(type) {
	case string:
		return []string{t}
	case []string:
		return t
	case []any:
		out := make([]string, 0, len(t))
		for _, v := range t {
			if str, ok := v.(string); ok {
				out = append(out, str)
			}
		}
		return out
	}
	return nil
}

// IsNullable reports whether the schema's type set includes "null",
// which is OAS 3.1's replacement for the OAS 3.0 "nullable: true" flag.
func (s *Schema) IsNullable() bool {
	for _, t := range s.Types() {
		if t == "null" {
			return true
		}
	}
	return false
}

// IsEmpty reports whether the schema is the JSON Schema "true" schema
// (matches everything): no keywords set.
func (s *Schema) IsEmpty() bool {
	if s == nil {
		return true
	}
	return s.Type == nil && len(s.Enum) == 0 && s.Const == nil &&
		len(s.Properties) == 0 && len(s.AllOf) == 0 && len(s.AnyOf) == 0 &&
		len(s.OneOf) == 0 && s.Not == nil && s.Ref == ""
}

// ItemsSchema returns the schema for array items, or nil if Items is
// absent or the boolean sentinel.
func (s *Schema) ItemsSchema() *Schema {
	if s == nil {
		return nil
	}
	if sub, ok := s.Items.(*Schema); ok {
		return sub
	}
	return nil
}

// PropertySchema returns the declared schema for a property name, or nil.
func (s *Schema) PropertySchema(name string) *Schema {
	if s == nil || s.Properties == nil {
		return nil
	}
	return s.Properties[name]
}
