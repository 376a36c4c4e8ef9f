package appvalues

import (
	"fmt"
	"strings"
)

// FieldError describes a single validation failure at a values path.
type FieldError struct {
	// Path is the dot-notation location of the offending value.
	Path string
	// Msg describes what is wrong with it.
	Msg string
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Path, e.Msg)
}

// ValidationErrors aggregates every failure found in one validation pass so
// an operator can fix a values file in a single round trip.
type ValidationErrors struct {
	Errors []FieldError
}

func (e *ValidationErrors) Error() string {
	msgs := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		msgs = append(msgs, fe.Error())
	}
	return fmt.Sprintf("values validation failed with %d error(s): %s",
		len(e.Errors), strings.Join(msgs, "; "))
}

// add records a failure at the given path.
func (e *ValidationErrors) add(path, format string, args ...interface{}) {
	e.Errors = append(e.Errors, FieldError{Path: path, Msg: fmt.Sprintf(format, args...)})
}

// orNil returns nil when no failures were recorded.
func (e *ValidationErrors) orNil() error {
	if len(e.Errors) == 0 {
		return nil
	}
	return e
}
