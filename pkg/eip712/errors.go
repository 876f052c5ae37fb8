package eip712

import "fmt"

// EncodingError reports a value that cannot be represented in its declared fixed-width type.
// It is always returned before any hashing takes place.
type EncodingError struct {
	Field  string
	Type   FieldType
	Reason string
	Err    error
}

func newEncodingError(field string, typ FieldType, reason string, err error) *EncodingError {
	return &EncodingError{
		Field:  field,
		Type:   typ,
		Reason: reason,
		Err:    err,
	}
}

func (e *EncodingError) Error() string {
	msg := "eip712 encoding error"
	if e.Field != "" {
		msg = fmt.Sprintf("%s: field %q", msg, e.Field)
	}
	if e.Type != "" {
		msg = fmt.Sprintf("%s (%s)", msg, e.Type)
	}
	msg = fmt.Sprintf("%s: %s", msg, e.Reason)
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *EncodingError) Unwrap() error {
	return e.Err
}
