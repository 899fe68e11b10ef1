package httpconform

import "github.com/oasconform/httpconform/openapi"

// EvalOptions carries the per-call evaluation mode for a JSON Schema
// evaluator (§6.3): which of readOnly/writeOnly should be rejected, the
// keyword-location root the evaluator's error pointers are built
// relative to, and which taxonomy Kind a generic schema violation
// should be stamped with at this call site (body vs parameter).
type EvalOptions struct {
	// AbsoluteKeywordRoot is the resolved document URI fragment the
	// schema argument lives at (§4.C10), used to build each error's
	// AbsoluteKeywordLocation.
	AbsoluteKeywordRoot string
	// RejectReadOnly, when true, turns a schema node's readOnly:true
	// into an error (request-body mode, §4.C5).
	RejectReadOnly bool
	// RejectWriteOnly, when true, turns a schema node's writeOnly:true
	// into an error (response-body mode, §4.C5).
	RejectWriteOnly bool
	// InstancePrefix is prepended to every InstanceLocation the
	// evaluator produces (e.g. "/request/body").
	InstancePrefix string
	// FailureKind is the Kind stamped on a generic schema-keyword
	// violation; callers distinguish KindBodySchemaFailure from
	// KindParameterSchemaFailure by setting this per call site.
	FailureKind Kind
}

// Evaluator is the consumed JSON Schema contract (§6.3). The default
// implementation wraps internal/jsonschema.Evaluator; callers may
// substitute their own by implementing this narrow interface instead.
// The schema node is passed directly (not a document pointer the
// evaluator would have to re-resolve) since every call site already
// holds the concrete node it wants evaluated.
type Evaluator interface {
	Evaluate(schema *openapi.Schema, instance any, opts EvalOptions) Result
}
