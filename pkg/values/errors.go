package values

import "errors"

// Sentinel errors returned by values document operations.
var (
	// ErrNilDocument indicates a nil document was passed where one is required.
	ErrNilDocument = errors.New("values document cannot be nil")
	// ErrEmptyPath indicates an empty path was passed to a path operation.
	ErrEmptyPath = errors.New("empty path")
	// ErrNotFound indicates no value exists at the requested path.
	ErrNotFound = errors.New("no value at path")
	// ErrNotAMap indicates the document root did not decode to a mapping.
	ErrNotAMap = errors.New("values document root must be a mapping")
)
