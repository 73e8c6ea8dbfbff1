package domain

import (
	"errors"
)

// ErrorKind classifies failures of the analysis pipeline. The HTTP layer maps
// each kind to exactly one status code.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindValidation
	KindConfiguration
	KindUpstreamFormat
)

func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindConfiguration:
		return "configuration"
	case KindUpstreamFormat:
		return "upstream_format"
	default:
		return "unknown"
	}
}

var (
	ErrMissingCredential = errors.New("model provider API key is not set")
	ErrNoTextContent     = errors.New("no text content in model response")
	ErrMalformedAnalysis = errors.New("model response is not a valid analysis")
	ErrEmptyRequest      = errors.New("analysis request is empty")
)

// Error tags an underlying error with its kind.
type Error struct {
	Kind ErrorKind
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Kind.String() + " error"
	}
	return e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewError wraps err with kind. A nil err yields nil.
func NewError(kind ErrorKind, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Err: err}
}

// KindOf returns the kind of the outermost *Error in err's chain, or KindUnknown.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}
