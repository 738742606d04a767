package form

import (
	"errors"
	"fmt"

	"github.com/a3tai/dr-antrag/internal/trip"
)

// Kind classifies a failure so callers can map it to a response without
// inspecting the underlying error chain.
type Kind int

const (
	KindUnknown Kind = iota
	KindValidationFailed
	KindTemplateNotFound
	KindRenderFailed
)

// String returns a string representation of the Kind
func (k Kind) String() string {
	switch k {
	case KindValidationFailed:
		return "VALIDATION_FAILED"
	case KindTemplateNotFound:
		return "TEMPLATE_NOT_FOUND"
	case KindRenderFailed:
		return "RENDER_FAILED"
	default:
		return "UNKNOWN"
	}
}

// Sentinel errors of the form package.
var (
	ErrTemplateNotFound  = errors.New("template not found")
	ErrIncompleteRequest = errors.New("incomplete request")
)

// Error is a failure of one step of the fill pipeline.
type Error struct {
	Kind Kind
	Op   string
	Path string
	Err  error
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("[%s] %s %s: %v", e.Kind, e.Op, e.Path, e.Err)
	}
	return fmt.Sprintf("[%s] %s: %v", e.Kind, e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func templateNotFound(path string, err error) *Error {
	return &Error{Kind: KindTemplateNotFound, Op: "open template", Path: path, Err: fmt.Errorf("%w: %v", ErrTemplateNotFound, err)}
}

func renderFailed(op, path string, err error) *Error {
	return &Error{Kind: KindRenderFailed, Op: op, Path: path, Err: err}
}

// KindOf reports the Kind of err. Validation errors from the trip package
// count as KindValidationFailed; any other error not produced by this
// package is KindUnknown.
func KindOf(err error) Kind {
	if err == nil {
		return KindUnknown
	}
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	if errors.Is(err, trip.ErrValidation) || errors.Is(err, trip.ErrMalformedJSON) {
		return KindValidationFailed
	}
	if errors.Is(err, ErrTemplateNotFound) {
		return KindTemplateNotFound
	}
	return KindUnknown
}
