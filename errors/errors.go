package errors

import (
	"fmt"
)

// Kind classifies codec errors into the fixed taxonomy shared by the
// primitive codec, the extension builders and the matchers.
type Kind int

const (
	// EncodingConstraint means a value or payload exceeds the chosen
	// width class (e.g. a string8 payload longer than 255 bytes).
	EncodingConstraint Kind = iota + 1
	// UnrecognizedEnum means an enum name has no wire code mapping.
	UnrecognizedEnum
	// DuplicateField means a matcher field was configured twice.
	DuplicateField
	// BufferCapacity means a record or collection region exceeds its hard cap.
	BufferCapacity
	// DecodeFailure means candidate bytes do not parse as the expected shape.
	DecodeFailure
	// MatchFailure means a decoded record failed a configured field comparison.
	MatchFailure
)

// String returns the canonical name of the error kind.
func (k Kind) String() string {
	switch k {
	case EncodingConstraint:
		return "EncodingConstraintViolation"
	case UnrecognizedEnum:
		return "UnrecognizedEnumValue"
	case DuplicateField:
		return "DuplicateFieldAssignment"
	case BufferCapacity:
		return "BufferCapacityExceeded"
	case DecodeFailure:
		return "DecodeFailure"
	case MatchFailure:
		return "MatchFailure"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// CodecError is the error type for every fault raised by this module.
type CodecError struct {
	Kind    Kind   `json:"kind"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
	Cause   error  `json:"cause,omitempty"`
}

func (e *CodecError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: field %q: %s", e.Kind, e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *CodecError) Unwrap() error {
	return e.Cause
}

// Is reports kind equality so callers can test with errors.Is against a
// bare-kind sentinel, e.g. errors.Is(err, &CodecError{Kind: DecodeFailure}).
func (e *CodecError) Is(target error) bool {
	t, ok := target.(*CodecError)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Field == "" || t.Field == e.Field)
}

// IsKind reports whether err or any error in its chain is a *CodecError of
// the given kind.
func IsKind(err error, kind Kind) bool {
	for err != nil {
		if ce, ok := err.(*CodecError); ok && ce.Kind == kind {
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}

// NewEncodingConstraint reports a value whose encoding exceeds its width class.
func NewEncodingConstraint(field, format string, args ...interface{}) *CodecError {
	return &CodecError{Kind: EncodingConstraint, Field: field, Message: fmt.Sprintf(format, args...)}
}

// NewUnrecognizedEnum reports an enum name with no wire code mapping.
func NewUnrecognizedEnum(enum, name string) *CodecError {
	return &CodecError{Kind: UnrecognizedEnum, Field: enum, Message: fmt.Sprintf("unknown %s value %q", enum, name)}
}

// NewDuplicateField reports a matcher field configured twice.
func NewDuplicateField(field string) *CodecError {
	return &CodecError{Kind: DuplicateField, Field: field, Message: "field already configured"}
}

// NewBufferCapacity reports a record or collection region over its hard cap.
func NewBufferCapacity(field string, size, limit int) *CodecError {
	return &CodecError{Kind: BufferCapacity, Field: field, Message: fmt.Sprintf("encoded size %d exceeds cap %d", size, limit)}
}

// NewDecodeFailure reports bytes that do not parse as the expected shape.
func NewDecodeFailure(field, format string, args ...interface{}) *CodecError {
	return &CodecError{Kind: DecodeFailure, Field: field, Message: fmt.Sprintf(format, args...)}
}

// NewMatchFailure reports a configured-field mismatch. The rendered decoded
// record travels in the message so failures are diagnosable without rerunning.
func NewMatchFailure(field, format string, args ...interface{}) *CodecError {
	return &CodecError{Kind: MatchFailure, Field: field, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a cause to a CodecError, preserving kind and field.
func Wrap(err *CodecError, cause error) *CodecError {
	err.Cause = cause
	return err
}
