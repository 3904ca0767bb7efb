package statepath

import "errors"

// Errors returned by manager operations.
var (
	// ErrInvalidRoot indicates a nil backing object.
	ErrInvalidRoot = errors.New("root object must not be nil")

	// ErrInvalidMerge indicates a nil merge document.
	ErrInvalidMerge = errors.New("merge document must not be nil")
)
