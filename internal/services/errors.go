package services

import "errors"

// Core error taxonomy. Handlers map these to HTTP status codes; everything
// else bubbles up as a 500.
var (
	// ErrInvalidInput: malformed date, non-positive months, unknown document
	// type, bad permission level. The caller sent something the core refuses
	// to coerce.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotFound: a referenced record is absent from the store. The caller
	// was supposed to have fetched correctly; fail loudly.
	ErrNotFound = errors.New("not found")
)
