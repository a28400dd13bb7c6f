package normalize

import "fmt"

// MarshalError reports a Go value that cannot be normalized.
type MarshalError struct {
	FieldPath string
	Message   string
	Err       error
}

func (e *MarshalError) Error() string {
	msg := e.Message
	if e.Err != nil {
		if msg == "" {
			msg = e.Err.Error()
		} else {
			msg += ": " + e.Err.Error()
		}
	}
	if e.FieldPath != "" {
		return fmt.Sprintf("normalize error at %s: %s", e.FieldPath, msg)
	}
	return fmt.Sprintf("normalize error: %s", msg)
}

func (e *MarshalError) Unwrap() error {
	return e.Err
}
