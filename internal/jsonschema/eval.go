package jsonschema

import (
	"regexp"
	"strconv"
	"sync"
	"sync/atomic"
	"unicode/utf8"

	"github.com/oasconform/httpconform/internal/jsonptr"
	"github.com/oasconform/httpconform/openapi"
	"github.com/woodsbury/decimal128"
)

// patternCache is a package-level, size-capped compiled-regex cache
// shared by every Evaluator, in the teacher's style (httpvalidator's
// SchemaValidator.patternCache) — patterns are a property of the
// document's schema text, not of any one evaluation call.
var (
	patternCache sync.Map
	patternCount atomic.Int32
)

const maxPatternCacheSize = 1000

func matchPattern(pattern, s string) (bool, error) {
	if cached, ok := patternCache.Load(pattern); ok {
		return cached.(*regexp.Regexp).MatchString(s), nil
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return false, err
	}
	// Size cap is intentionally not atomic with the store below: worst
	// case under concurrent growth is a little extra recompilation, not
	// unbounded memory growth, in the teacher's documented tradeoff.
	if patternCount.Add(1) > maxPatternCacheSize {
		patternCache.Range(func(key, _ any) bool {
			patternCache.Delete(key)
			return true
		})
		patternCount.Store(1)
	}
	patternCache.Store(pattern, re)
	return re.MatchString(s), nil
}

// evalNode validates instance against schema, appending any failures
// to result. instanceLoc/keywordLoc are the JSON-pointer paths
// accumulated so far; each recursive call extends them by exactly the
// keyword/property/index that motivated the call.
func (c *evalContext) evalNode(schema *openapi.Schema, instance any, instanceLoc, keywordLoc string, result *Result) {
	if schema == nil || schema.IsEmpty() {
		return
	}

	if schema.Ref != "" {
		c.evalRef(schema, instance, instanceLoc, keywordLoc, result)
	}

	if instance == nil {
		if !schema.IsNullable() && hasTypeConstraint(schema) {
			c.addError(result, KindSchemaViolation, instanceLoc, keywordLoc+"/type", "value cannot be null")
		}
		return
	}

	if c.opts.RejectReadOnly && schema.ReadOnly {
		c.addError(result, KindReadOnlyViolation, instanceLoc, keywordLoc+"/readOnly", "property is readOnly and must not appear in a request")
		return
	}
	if c.opts.RejectWriteOnly && schema.WriteOnly {
		c.addError(result, KindWriteOnlyViolation, instanceLoc, keywordLoc+"/writeOnly", "property is writeOnly and must not appear in a response")
		return
	}

	if !c.evalType(schema, instance, instanceLoc, keywordLoc, result) {
		return
	}

	switch v := instance.(type) {
	case string:
		c.evalString(schema, v, instanceLoc, keywordLoc, result)
	case float64:
		if d, ok := decimalFromFloat64(v); ok {
			c.evalNumber(schema, d, instanceLoc, keywordLoc, result)
		}
	case decimal128.Decimal:
		c.evalNumber(schema, v, instanceLoc, keywordLoc, result)
	case []any:
		c.evalArray(schema, v, instanceLoc, keywordLoc, result)
	case map[string]any:
		c.evalObject(schema, v, instanceLoc, keywordLoc, result)
	}

	if len(schema.Enum) > 0 {
		c.evalEnum(schema, instance, instanceLoc, keywordLoc, result)
	}
	if schema.Const != nil {
		if !valuesEqual(instance, schema.Const) {
			c.addError(result, KindSchemaViolation, instanceLoc, keywordLoc+"/const", "value does not equal the const value")
		}
	}

	c.evalComposition(schema, instance, instanceLoc, keywordLoc, result)
	c.evalConditional(schema, instance, instanceLoc, keywordLoc, result)
}

func hasTypeConstraint(schema *openapi.Schema) bool {
	return len(schema.Types()) > 0
}

// evalRef resolves schema.Ref against the document and recurses into
// it under the C9 recursion guard. Per JSON Schema 2020-12, keywords
// alongside $ref in the same object still apply, so the caller
// continues evaluating schema's own keywords after this returns.
func (c *evalContext) evalRef(schema *openapi.Schema, instance any, instanceLoc, keywordLoc string, result *Result) {
	resolved, ok := resolveRef(c.doc, schema.Ref)
	if !ok {
		c.addError(result, KindSchemaViolation, instanceLoc, keywordLoc+"/$ref", "cannot resolve $ref "+schema.Ref)
		return
	}
	if !c.guard.enter(schema.Ref, instanceLoc) {
		c.addError(result, KindRecursion, instanceLoc, keywordLoc+"/$ref", "circular $ref detected at "+schema.Ref)
		return
	}
	defer c.guard.leave(schema.Ref, instanceLoc)
	c.evalNode(resolved, instance, instanceLoc, keywordLoc+"/$ref", result)
}

// resolveRef supports the one $ref shape OpenAPI schemas actually use
// in practice: a same-document pointer into components.schemas.
func resolveRef(doc *openapi.Document, ref string) (*openapi.Schema, bool) {
	const prefix = "#/components/schemas/"
	if len(ref) <= len(prefix) || ref[:len(prefix)] != prefix {
		return nil, false
	}
	if doc == nil || doc.Components == nil {
		return nil, false
	}
	name := ref[len(prefix):]
	schema, ok := doc.Components.Schemas[name]
	return schema, ok
}

func (c *evalContext) evalType(schema *openapi.Schema, instance any, instanceLoc, keywordLoc string, result *Result) bool {
	types := schema.Types()
	if len(types) == 0 {
		return true
	}
	dataType := dataTypeOf(instance)
	for _, t := range types {
		if !typeMatches(dataType, t) {
			continue
		}
		if t == "integer" && dataType == "number" {
			d, ok := numericDecimal(instance)
			if ok && !isIntegral(d) {
				c.addError(result, KindSchemaViolation, instanceLoc, keywordLoc+"/type", "value must be an integer")
				return false
			}
		}
		return true
	}
	got := dataType
	if got == "number" {
		if d, ok := numericDecimal(instance); ok && isIntegral(d) {
			got = "integer"
		}
	}
	c.addError(result, KindSchemaViolation, instanceLoc, keywordLoc+"/type", "got "+got+", not "+joinTypes(types))
	return false
}

func joinTypes(types []string) string {
	out := types[0]
	for _, t := range types[1:] {
		out += " or " + t
	}
	return out
}

func dataTypeOf(v any) string {
	switch x := v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "boolean"
	case float64, decimal128.Decimal, int, int64:
		return "number"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		_ = x
		return "unknown"
	}
}

func typeMatches(dataType, schemaType string) bool {
	if dataType == schemaType {
		return true
	}
	if schemaType == "number" && dataType == "integer" {
		return true
	}
	if schemaType == "integer" && dataType == "number" {
		return true
	}
	return false
}

func (c *evalContext) evalString(schema *openapi.Schema, s string, instanceLoc, keywordLoc string, result *Result) {
	length := utf8.RuneCountInString(s)
	if schema.MinLength != nil && length < *schema.MinLength {
		c.addError(result, KindSchemaViolation, instanceLoc, keywordLoc+"/minLength",
			"string length "+strconv.Itoa(length)+" is less than minimum "+strconv.Itoa(*schema.MinLength))
	}
	if schema.MaxLength != nil && length > *schema.MaxLength {
		c.addError(result, KindSchemaViolation, instanceLoc, keywordLoc+"/maxLength",
			"string length "+strconv.Itoa(length)+" exceeds maximum "+strconv.Itoa(*schema.MaxLength))
	}
	if schema.Pattern != "" {
		matched, err := matchPattern(schema.Pattern, s)
		if err != nil {
			c.addError(result, KindSchemaViolation, instanceLoc, keywordLoc+"/pattern", "invalid pattern "+schema.Pattern+": "+err.Error())
		} else if !matched {
			c.addError(result, KindSchemaViolation, instanceLoc, keywordLoc+"/pattern", "string does not match pattern "+schema.Pattern)
		}
	}
	if schema.Format != "" {
		if ok, msg := validateFormat(s, schema.Format); !ok {
			c.addError(result, KindSchemaViolation, instanceLoc, keywordLoc+"/format", msg)
		}
	}
}

func (c *evalContext) evalNumber(schema *openapi.Schema, n decimal128.Decimal, instanceLoc, keywordLoc string, result *Result) {
	if schema.Minimum != nil {
		min, ok := decimalFromFloat64(*schema.Minimum)
		if ok && n.Cmp(min) < 0 {
			c.addError(result, KindSchemaViolation, instanceLoc, keywordLoc+"/minimum", "value is less than minimum")
		}
	}
	if schema.Maximum != nil {
		max, ok := decimalFromFloat64(*schema.Maximum)
		if ok && n.Cmp(max) > 0 {
			c.addError(result, KindSchemaViolation, instanceLoc, keywordLoc+"/maximum", "value exceeds maximum")
		}
	}
	if schema.ExclusiveMinimum != nil {
		min, ok := decimalFromFloat64(*schema.ExclusiveMinimum)
		if ok && n.Cmp(min) <= 0 {
			c.addError(result, KindSchemaViolation, instanceLoc, keywordLoc+"/exclusiveMinimum", "value must be greater than the exclusive minimum")
		}
	}
	if schema.ExclusiveMaximum != nil {
		max, ok := decimalFromFloat64(*schema.ExclusiveMaximum)
		if ok && n.Cmp(max) >= 0 {
			c.addError(result, KindSchemaViolation, instanceLoc, keywordLoc+"/exclusiveMaximum", "value must be less than the exclusive maximum")
		}
	}
	if schema.MultipleOf != nil {
		div, ok := decimalFromFloat64(*schema.MultipleOf)
		if ok && !isMultipleOf(n, div) {
			c.addError(result, KindSchemaViolation, instanceLoc, keywordLoc+"/multipleOf", "value is not a multiple of "+strconv.FormatFloat(*schema.MultipleOf, 'g', -1, 64))
		}
	}
}

func (c *evalContext) evalArray(schema *openapi.Schema, arr []any, instanceLoc, keywordLoc string, result *Result) {
	if schema.MinItems != nil && len(arr) < *schema.MinItems {
		c.addError(result, KindSchemaViolation, instanceLoc, keywordLoc+"/minItems", "array has fewer items than the minimum")
	}
	if schema.MaxItems != nil && len(arr) > *schema.MaxItems {
		c.addError(result, KindSchemaViolation, instanceLoc, keywordLoc+"/maxItems", "array has more items than the maximum")
	}
	if schema.UniqueItems && hasDuplicates(arr) {
		c.addError(result, KindSchemaViolation, instanceLoc, keywordLoc+"/uniqueItems", "array items must be unique")
	}

	before := len(result.Errors)

	prefixLen := len(schema.PrefixItems)
	for i := 0; i < prefixLen && i < len(arr); i++ {
		c.evalNode(schema.PrefixItems[i], arr[i], instanceLoc+"/"+strconv.Itoa(i), keywordLoc+"/prefixItems/"+strconv.Itoa(i), result)
	}

	itemsSchema, itemsForbidden := itemsSchemaOf(schema)
	for i := prefixLen; i < len(arr); i++ {
		switch {
		case itemsSchema != nil:
			c.evalNode(itemsSchema, arr[i], instanceLoc+"/"+strconv.Itoa(i), keywordLoc+"/items", result)
		case itemsForbidden:
			c.addError(result, KindSchemaViolation, instanceLoc+"/"+strconv.Itoa(i), keywordLoc+"/items", "array must not have more than "+strconv.Itoa(prefixLen)+" items")
		default:
			c.evalUnevaluatedItem(schema, arr[i], instanceLoc+"/"+strconv.Itoa(i), keywordLoc, result)
		}
	}

	// JSON Schema's basic-output-format semantics report pass/fail at
	// every evaluated location, not just the leaves (SPEC_FULL.md §8
	// Scenario 1's two-error shape for a failing object property is the
	// same invariant applied one level up); a failing item rolls up
	// into one summary error at the array's own location.
	if len(result.Errors) > before {
		c.addError(result, KindSchemaViolation, instanceLoc, keywordLoc, "not all items are valid")
	}

	if schema.Contains != nil {
		found := false
		for i, item := range arr {
			var probe Result
			c.evalNode(schema.Contains, item, instanceLoc+"/"+strconv.Itoa(i), keywordLoc+"/contains", &probe)
			if probe.IsValid() {
				found = true
				break
			}
		}
		if !found {
			c.addError(result, KindSchemaViolation, instanceLoc, keywordLoc+"/contains", "array does not contain a matching item")
		}
	}
}

func itemsSchemaOf(schema *openapi.Schema) (sub *openapi.Schema, forbidden bool) {
	switch v := schema.Items.(type) {
	case *openapi.Schema:
		return v, false
	case bool:
		return nil, !v
	default:
		return nil, false
	}
}

func (c *evalContext) evalUnevaluatedItem(schema *openapi.Schema, item any, instanceLoc, keywordLoc string, result *Result) {
	switch v := schema.UnevaluatedItems.(type) {
	case *openapi.Schema:
		c.evalNode(v, item, instanceLoc, keywordLoc+"/unevaluatedItems", result)
	case bool:
		if !v {
			c.addError(result, KindSchemaViolation, instanceLoc, keywordLoc+"/unevaluatedItems", "array item is not covered by items/prefixItems and unevaluatedItems is false")
		}
	}
}

func hasDuplicates(arr []any) bool {
	seen := make(map[string]bool, len(arr))
	for _, item := range arr {
		key := toComparableString(item)
		if seen[key] {
			return true
		}
		seen[key] = true
	}
	return false
}

func toComparableString(v any) string {
	b, err := marshalStable(v)
	if err != nil {
		return ""
	}
	return string(b)
}

func (c *evalContext) evalObject(schema *openapi.Schema, obj map[string]any, instanceLoc, keywordLoc string, result *Result) {
	for _, req := range schema.Required {
		if _, ok := obj[req]; !ok {
			c.addError(result, KindSchemaViolation, instanceLoc+"/"+jsonptr.EscapeToken(req), keywordLoc+"/required", "required property "+req+" is missing")
		}
	}
	if schema.MinProperties != nil && len(obj) < *schema.MinProperties {
		c.addError(result, KindSchemaViolation, instanceLoc, keywordLoc+"/minProperties", "object has fewer properties than the minimum")
	}
	if schema.MaxProperties != nil && len(obj) > *schema.MaxProperties {
		c.addError(result, KindSchemaViolation, instanceLoc, keywordLoc+"/maxProperties", "object has more properties than the maximum")
	}

	before := len(result.Errors)

	evaluated := make(map[string]bool, len(obj))
	for name, value := range obj {
		if propSchema, ok := schema.Properties[name]; ok {
			c.evalNode(propSchema, value, instanceLoc+"/"+jsonptr.EscapeToken(name), keywordLoc+"/properties/"+jsonptr.EscapeToken(name), result)
			evaluated[name] = true
		}
	}
	for pattern, patternSchema := range schema.PatternProperties {
		for name, value := range obj {
			matched, err := matchPattern(pattern, name)
			if err != nil || !matched {
				continue
			}
			c.evalNode(patternSchema, value, instanceLoc+"/"+jsonptr.EscapeToken(name), keywordLoc+"/patternProperties/"+jsonptr.EscapeToken(pattern), result)
			evaluated[name] = true
		}
	}

	additionalHandled := false
	switch v := schema.AdditionalProperties.(type) {
	case *openapi.Schema:
		additionalHandled = true
		for name, value := range obj {
			if evaluated[name] {
				continue
			}
			c.evalNode(v, value, instanceLoc+"/"+jsonptr.EscapeToken(name), keywordLoc+"/additionalProperties", result)
			evaluated[name] = true
		}
	case bool:
		additionalHandled = true
		if !v {
			for name := range obj {
				if evaluated[name] {
					continue
				}
				c.addError(result, KindSchemaViolation, instanceLoc+"/"+jsonptr.EscapeToken(name), keywordLoc+"/additionalProperties", "additional property "+name+" is not allowed")
				evaluated[name] = true
			}
		}
	}

	if !additionalHandled && schema.UnevaluatedProperties != nil {
		switch v := schema.UnevaluatedProperties.(type) {
		case *openapi.Schema:
			for name, value := range obj {
				if evaluated[name] {
					continue
				}
				c.evalNode(v, value, instanceLoc+"/"+jsonptr.EscapeToken(name), keywordLoc+"/unevaluatedProperties", result)
			}
		case bool:
			if !v {
				for name := range obj {
					if evaluated[name] {
						continue
					}
					c.addError(result, KindSchemaViolation, instanceLoc+"/"+jsonptr.EscapeToken(name), keywordLoc+"/unevaluatedProperties", "property "+name+" is not covered by properties/patternProperties/additionalProperties and unevaluatedProperties is false")
				}
			}
		}
	}

	// JSON Schema's basic-output-format semantics report pass/fail at
	// every evaluated location, not just the leaves: a failing property
	// rolls up into one summary error at the object's own location, per
	// the two-error shape SPEC_FULL.md §8 Scenario 1 requires.
	if len(result.Errors) > before {
		c.addError(result, KindSchemaViolation, instanceLoc, keywordLoc, "not all properties are valid")
	}
}

func (c *evalContext) evalEnum(schema *openapi.Schema, instance any, instanceLoc, keywordLoc string, result *Result) {
	for _, allowed := range schema.Enum {
		if valuesEqual(instance, allowed) {
			return
		}
	}
	c.addError(result, KindSchemaViolation, instanceLoc, keywordLoc+"/enum", "value is not one of the allowed values")
}

func (c *evalContext) evalComposition(schema *openapi.Schema, instance any, instanceLoc, keywordLoc string, result *Result) {
	if len(schema.AllOf) > 0 {
		before := len(result.Errors)
		for i, sub := range schema.AllOf {
			var probe Result
			c.evalNode(sub, instance, instanceLoc, keywordLoc+"/allOf/"+strconv.Itoa(i), &probe)
			result.Errors = append(result.Errors, probe.Errors...)
		}
		if len(result.Errors) > before {
			c.addError(result, KindSchemaViolation, instanceLoc, keywordLoc+"/allOf", "not all allOf schemas are valid")
		}
	}
	if len(schema.AnyOf) > 0 {
		matched := false
		for _, sub := range schema.AnyOf {
			var probe Result
			c.evalNode(sub, instance, instanceLoc, keywordLoc, &probe)
			if probe.IsValid() {
				matched = true
				break
			}
		}
		if !matched {
			c.addError(result, KindSchemaViolation, instanceLoc, keywordLoc+"/anyOf", "value does not match any of the anyOf schemas")
		}
	}
	if len(schema.OneOf) > 0 {
		matches := 0
		for _, sub := range schema.OneOf {
			var probe Result
			c.evalNode(sub, instance, instanceLoc, keywordLoc, &probe)
			if probe.IsValid() {
				matches++
			}
		}
		switch {
		case matches == 0:
			c.addError(result, KindSchemaViolation, instanceLoc, keywordLoc+"/oneOf", "value does not match any of the oneOf schemas")
		case matches > 1:
			c.addError(result, KindSchemaViolation, instanceLoc, keywordLoc+"/oneOf", "value matches more than one oneOf schema")
		}
	}
	if schema.Not != nil {
		var probe Result
		c.evalNode(schema.Not, instance, instanceLoc, keywordLoc+"/not", &probe)
		if probe.IsValid() {
			c.addError(result, KindSchemaViolation, instanceLoc, keywordLoc+"/not", "value must not match the not schema")
		}
	}
}

func (c *evalContext) evalConditional(schema *openapi.Schema, instance any, instanceLoc, keywordLoc string, result *Result) {
	if schema.If == nil {
		return
	}
	var probe Result
	c.evalNode(schema.If, instance, instanceLoc, keywordLoc+"/if", &probe)
	if probe.IsValid() {
		if schema.Then != nil {
			c.evalNode(schema.Then, instance, instanceLoc, keywordLoc+"/then", result)
		}
		return
	}
	if schema.Else != nil {
		c.evalNode(schema.Else, instance, instanceLoc, keywordLoc+"/else", result)
	}
}

