package format

import (
	"errors"
	"fmt"
)

var (
	ErrMalformed     = errors.New("malformed input")
	ErrUnsupported   = errors.New("unsupported conversion")
	ErrAmbiguousName = errors.New("ambiguous xml name")
)

// MalformedInputError reports text that does not parse as the format it
// claimed to be.
type MalformedInputError struct {
	Kind   Kind
	Offset int64 // byte offset of the failure, -1 when unknown
	Err    error
}

func (e *MalformedInputError) Error() string {
	msg := "malformed " + string(e.Kind)
	if e.Offset >= 0 {
		msg = fmt.Sprintf("%s at offset %d", msg, e.Offset)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *MalformedInputError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrMalformed}
	}
	return []error{ErrMalformed, e.Err}
}

// Malformed builds a MalformedInputError with an unknown offset.
func Malformed(k Kind, err error) *MalformedInputError {
	return &MalformedInputError{Kind: k, Offset: -1, Err: err}
}

// Malformedf builds a MalformedInputError at the given offset.
func Malformedf(k Kind, off int64, f string, args ...any) *MalformedInputError {
	return &MalformedInputError{Kind: k, Offset: off, Err: fmt.Errorf(f, args...)}
}

// UnsupportedConversionError reports that no encoder can render the input's
// resolved shape in the requested target.
type UnsupportedConversionError struct {
	To     Kind
	Reason string
}

func (e *UnsupportedConversionError) Error() string {
	return fmt.Sprintf("cannot convert to %s: %s", e.To, e.Reason)
}

func (e *UnsupportedConversionError) Unwrap() error {
	return ErrUnsupported
}

// AmbiguousXMLNameError reports a key that cannot become an XML element
// name, typically a numeric key outside of any list context.
type AmbiguousXMLNameError struct {
	Name string
	Path string
}

func (e *AmbiguousXMLNameError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("invalid xml element name %q at %s", e.Name, e.Path)
	}
	return fmt.Sprintf("invalid xml element name %q", e.Name)
}

func (e *AmbiguousXMLNameError) Unwrap() error {
	return ErrAmbiguousName
}
