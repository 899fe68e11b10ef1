// Package jsonschema implements the default JSON Schema draft 2020-12
// evaluator consumed by httpconform through its narrow Evaluator
// contract. It is deliberately self-contained — it imports only the
// openapi package for the Schema tree it walks, never httpconform
// itself, so that httpconform can wire this package in as its default
// without creating an import cycle.
package jsonschema

import (
	"fmt"

	"github.com/oasconform/httpconform/openapi"
	"github.com/woodsbury/decimal128"
)

// Kind tags the handful of ways a node evaluation can fail, coarse
// enough for httpconform's adapter to remap into its own taxonomy
// (§7) without this package needing to know that taxonomy.
type Kind int

const (
	KindSchemaViolation Kind = iota
	KindReadOnlyViolation
	KindWriteOnlyViolation
	KindRecursion
)

// Error is one evaluation failure, carrying the same two synchronized
// location pointers httpconform.Error does, so the adapter's
// conversion is a field-for-field copy.
type Error struct {
	Kind                    Kind
	InstanceLocation        string
	KeywordLocation         string
	AbsoluteKeywordLocation string
	Message                 string
}

// Result is this package's own plain result (valid when Errors is
// empty; Annotations is never populated by this evaluator), converted to
// httpconform.Result by the adapter in httpconform.
type Result struct {
	Errors      []Error
	Annotations map[string]any
}

func (r Result) IsValid() bool { return len(r.Errors) == 0 }

// Options mirrors the evaluation-mode fields of httpconform.EvalOptions
// this package actually needs, independent of that package's type.
type Options struct {
	AbsoluteKeywordRoot string
	RejectReadOnly      bool
	RejectWriteOnly     bool
	InstancePrefix      string
}

// Evaluator is the shipped default implementation of the §6.3
// contract (§4.C12): draft 2020-12 vocabulary support, $ref resolution
// against the owning document, a recursion guard, and decimal128-exact
// numeric comparisons.
type Evaluator struct {
	doc   *openapi.Document
	guard *recursionGuard
}

// New builds an Evaluator bound to doc, used to resolve $ref targets
// under doc.Components.
func New(doc *openapi.Document) *Evaluator {
	return &Evaluator{doc: doc}
}

// Evaluate validates instance against schema, pulling a recursion
// guard from the pool and resetting it for this top-level call (§4.C9):
// the active set is per-Evaluate-call, not shared across sibling
// validations, since two unrelated parameters validating the same $ref
// concurrently must not trip each other's cycle detector.
func (e *Evaluator) Evaluate(schema *openapi.Schema, instance any, opts Options) (result Result) {
	guard := getRecursionGuard()
	defer putRecursionGuard(guard)
	ctx := &evalContext{
		doc:   e.doc,
		guard: guard,
		opts:  opts,
	}
	defer func() {
		if r := recover(); r != nil {
			ctx.addError(&result, KindRecursion, "", "", fmt.Sprint("evaluation aborted: ", r))
		}
	}()
	ctx.evalNode(schema, instance, "", "", &result)
	return result
}

// evalContext threads the per-call state (recursion guard and
// options) through the recursive node walk without
// making every helper a method with a long parameter list.
type evalContext struct {
	doc   *openapi.Document
	guard *recursionGuard
	opts  Options
}

func (c *evalContext) addError(result *Result, kind Kind, instanceLoc, keyword, message string) {
	result.Errors = append(result.Errors, Error{
		Kind:                    kind,
		InstanceLocation:        c.opts.InstancePrefix + instanceLoc,
		KeywordLocation:         keyword,
		AbsoluteKeywordLocation: c.opts.AbsoluteKeywordRoot + keyword,
		Message:                 message,
	})
}

// numericDecimal best-effort converts a JSON instance value (float64
// from the default decoder, or a decimal128.Decimal already
// produced by C8 coercion) into decimal128 for exact comparison.
func numericDecimal(v any) (decimal128.Decimal, bool) {
	switch n := v.(type) {
	case decimal128.Decimal:
		return n, true
	case float64:
		d, err := decimal128.Parse(formatFloat(n))
		if err != nil {
			return decimal128.Decimal{}, false
		}
		return d, true
	case int:
		return decimalFromInt64(int64(n)), true
	case int64:
		return decimalFromInt64(n), true
	}
	return decimal128.Decimal{}, false
}
