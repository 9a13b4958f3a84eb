package store

import "errors"

var (
	// ErrNotFound signals that no document matched the lookup.
	ErrNotFound = errors.New("store: document not found")
	// ErrDuplicateEmail signals a write that violates the unique email index.
	ErrDuplicateEmail = errors.New("store: email already in use")
)
