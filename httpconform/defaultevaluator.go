package httpconform

import (
	"github.com/oasconform/httpconform/internal/jsonschema"
	"github.com/oasconform/httpconform/openapi"
)

// defaultEvaluator adapts internal/jsonschema.Evaluator to the
// Evaluator contract. jsonschema is self-contained and cannot import
// this package (that would cycle back through here), so the
// translation between its Result/Error/Kind and ours lives on this
// side instead.
type defaultEvaluator struct {
	inner *jsonschema.Evaluator
}

// NewDefaultEvaluator returns the shipped Evaluator (§4.C12) bound to
// doc, used to resolve $ref targets during evaluation.
func NewDefaultEvaluator(doc *openapi.Document) Evaluator {
	return &defaultEvaluator{inner: jsonschema.New(doc)}
}

func (d *defaultEvaluator) Evaluate(schema *openapi.Schema, instance any, opts EvalOptions) Result {
	inner := d.inner.Evaluate(schema, instance, jsonschema.Options{
		AbsoluteKeywordRoot: opts.AbsoluteKeywordRoot,
		RejectReadOnly:      opts.RejectReadOnly,
		RejectWriteOnly:     opts.RejectWriteOnly,
		InstancePrefix:      opts.InstancePrefix,
	})
	if inner.IsValid() {
		return Valid(inner.Annotations)
	}
	errs := make([]Error, 0, len(inner.Errors))
	for _, e := range inner.Errors {
		errs = append(errs, Error{
			Kind:                    kindFor(e.Kind, opts.FailureKind),
			InstanceLocation:        e.InstanceLocation,
			KeywordLocation:         e.KeywordLocation,
			AbsoluteKeywordLocation: e.AbsoluteKeywordLocation,
			Message:                 e.Message,
		})
	}
	return Invalid(errs...)
}

// kindFor maps the evaluator's 4 coarse buckets onto the taxonomy
// (§7): read-only/write-only/recursion have one fixed Kind each,
// while a plain schema violation takes whichever Kind the call site
// asked for (body vs. parameter failure) via failureKind.
func kindFor(inner jsonschema.Kind, failureKind Kind) Kind {
	switch inner {
	case jsonschema.KindReadOnlyViolation:
		return KindReadOnlyInRequest
	case jsonschema.KindWriteOnlyViolation:
		return KindWriteOnlyInResponse
	case jsonschema.KindRecursion:
		return KindInfiniteRecursion
	default:
		return failureKind
	}
}
