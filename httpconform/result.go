package httpconform

import "github.com/segmentio/encoding/json"

// Result is a tagged sum: either Valid (carrying optional annotations)
// or Invalid (carrying one or more Errors). Unlike the boolean-flag
// shape of the source tool this was modeled on, the zero value of
// Result is deliberately invalid-shaped — IsValid() on an unconstructed
// Result reports false, so a forgotten assignment never reads as success.
type Result struct {
	errors      []Error
	annotations map[string]any
	constructed bool
	invalid     bool
}

// Valid builds a successful Result, optionally carrying annotations
// collected during schema evaluation (e.g. unevaluatedProperties
// bookkeeping).
func Valid(annotations map[string]any) Result {
	return Result{annotations: annotations, constructed: true}
}

// Invalid builds a failing Result from one or more errors. Invalid with
// no errors still degrades to IsValid() == false, but callers should
// always supply at least one Error.
func Invalid(errs ...Error) Result {
	return Result{errors: errs, constructed: true, invalid: true}
}

// IsValid reports whether the result carries no error records. An
// unconstructed (zero-value) Result reports false, not true: a caller
// that forgets to assign a Result never reads a forgotten check as a
// pass.
func (r Result) IsValid() bool {
	return r.constructed && !r.invalid && len(r.errors) == 0
}

// Errors returns the result's error records in generation order.
func (r Result) Errors() []Error {
	return r.errors
}

// Annotations returns any annotations collected on a valid result.
func (r Result) Annotations() map[string]any {
	return r.annotations
}

// Merge combines a child result into r, prefixing every child error's
// KeywordLocation with keywordPrefix and its InstanceLocation with
// instancePrefix; AbsoluteKeywordLocation is left unchanged. Used to
// compose C3–C5 leaf results into the single result C6/C7 return.
func (r Result) Merge(child Result, instancePrefix, keywordPrefix string) Result {
	merged := r
	merged.constructed = true
	if child.invalid {
		merged.invalid = true
	}
	for _, e := range child.errors {
		e.InstanceLocation = instancePrefix + e.InstanceLocation
		e.KeywordLocation = keywordPrefix + e.KeywordLocation
		merged.errors = append(merged.errors, e)
	}
	return merged
}

// AddError appends a single error, turning a Valid result into Invalid.
func (r Result) AddError(e Error) Result {
	r.constructed = true
	r.errors = append(r.errors, e)
	return r
}

// resultJSON is the stable wire shape from §6.5.
type resultJSON struct {
	Valid       bool            `json:"valid"`
	Errors      []errorJSON     `json:"errors,omitempty"`
	Annotations map[string]any  `json:"annotations,omitempty"`
}

type errorJSON struct {
	InstanceLocation        string `json:"instanceLocation"`
	KeywordLocation          string `json:"keywordLocation"`
	AbsoluteKeywordLocation  string `json:"absoluteKeywordLocation"`
	Error                    string `json:"error"`
}

// MarshalJSON implements the §6.5 wire shape directly rather than
// relying on exported-field reflection, so the tagged-sum internal
// representation never leaks into the JSON output.
func (r Result) MarshalJSON() ([]byte, error) {
	wire := resultJSON{
		Valid:       r.IsValid(),
		Annotations: r.annotations,
	}
	for _, e := range r.errors {
		wire.Errors = append(wire.Errors, errorJSON{
			InstanceLocation:        e.InstanceLocation,
			KeywordLocation:          e.KeywordLocation,
			AbsoluteKeywordLocation:  e.AbsoluteKeywordLocation,
			Error:                    e.Message,
		})
	}
	return json.Marshal(wire)
}
