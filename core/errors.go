package core

import "github.com/pkg/errors"

// FieldError reports a problem with a single input field, keyed by the
// field's JSON name.
type FieldError struct {
	Field string
	Error string
}

// ValidationError carries either a root cause (a domain sentinel such as a
// duplicate email) or a list of field errors. The API layer renders Fields
// as a field-to-message map and falls back to Err for single-message cases.
type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{Err: err, Fields: flds}
}

func (err ValidationError) Error() string {
	if err.Err != nil {
		return err.Err.Error()
	}
	if len(err.Fields) > 0 {
		return err.Fields[0].Error
	}
	return "invalid input"
}

// shutdown marks an error as unrecoverable for the whole process, not just
// the failing request; the server drains and exits when it sees one.
type shutdown struct {
	message string
}

func NewShutdownError(msg string) error {
	return &shutdown{message: msg}
}

func (s *shutdown) Error() string {
	return s.message
}

// IsShutdown checks err's cause chain for a shutdown marker.
func IsShutdown(err error) bool {
	_, ok := errors.Cause(err).(*shutdown)
	return ok
}
