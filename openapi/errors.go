package openapi

import "fmt"

// Kind identifies a structural, load-time failure category. All five
// kinds below are fatal to construction and never recovered into a
// Result.
type Kind int

const (
	KindDuplicateCaptureName Kind = iota
	KindDuplicateOperationID
	KindMalformed
	KindInvalidStatusCode
	KindInvalidMediaType
)

func (k Kind) String() string {
	switch k {
	case KindDuplicateCaptureName:
		return "duplicate-capture-name"
	case KindDuplicateOperationID:
		return "duplicate-operation-id"
	case KindMalformed:
		return "malformed-document"
	case KindInvalidStatusCode:
		return "invalid-status-code"
	case KindInvalidMediaType:
		return "invalid-media-type"
	default:
		return "unknown"
	}
}

// LoadError is returned by Load/LoadFile when a document fails a
// structural invariant. Structural errors are always fatal: no
// Document is returned alongside one.
type LoadError struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *LoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("openapi: %s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("openapi: %s: %s", e.Kind, e.Message)
}

func (e *LoadError) Unwrap() error { return e.Cause }

// Is matches against the Kind-keyed sentinels below, in the teacher's
// oaserrors style of exposing both typed errors and errors.Is sentinels.
func (e *LoadError) Is(target error) bool {
	sentinel, ok := target.(*LoadError)
	if !ok {
		return false
	}
	return sentinel.Kind == e.Kind && sentinel.Message == ""
}

var (
	// ErrDuplicateCaptureName matches any *LoadError of that kind via errors.Is.
	ErrDuplicateCaptureName = &LoadError{Kind: KindDuplicateCaptureName}
	// ErrDuplicateOperationID matches any *LoadError of that kind via errors.Is.
	ErrDuplicateOperationID = &LoadError{Kind: KindDuplicateOperationID}
	// ErrInvalidStatusCode matches any *LoadError of that kind via errors.Is.
	ErrInvalidStatusCode = &LoadError{Kind: KindInvalidStatusCode}
	// ErrInvalidMediaType matches any *LoadError of that kind via errors.Is.
	ErrInvalidMediaType = &LoadError{Kind: KindInvalidMediaType}
)
