package transform

import "fmt"

// FieldError reports a transformation failure tied to a specific output
// field: a missing required value, an out-of-range numeric coercion, an
// unparseable hex string, or a schema mismatch. It carries an optional
// field-name tag so callers can log it alongside the block number and
// phase per the per-block isolation error policy.
type FieldError struct {
	Field string
	Err   error
}

func (e *FieldError) Error() string {
	if e.Field == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("field %q: %s", e.Field, e.Err)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

func fieldErr(field string, err error) error {
	if err == nil {
		return nil
	}
	return &FieldError{Field: field, Err: err}
}

func fieldErrf(field, format string, args ...interface{}) error {
	return &FieldError{Field: field, Err: fmt.Errorf(format, args...)}
}
