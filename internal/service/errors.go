package service

import "errors"

// Callers tell failures apart with errors.Is.
var (
	// ErrNotFound: a referenced test, attempt, answer or behaviour is absent.
	ErrNotFound = errors.New("not found")
	// ErrInvalidState: the attempt cannot accept the operation, e.g. it is no
	// longer in progress or has expired.
	ErrInvalidState = errors.New("invalid state")
	// ErrInvalidInput: the request itself is unusable.
	ErrInvalidInput = errors.New("invalid input")
	// ErrUnavailable: an optional collaborator is not configured.
	ErrUnavailable = errors.New("service unavailable")
)
