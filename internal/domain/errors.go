package domain

import "errors"

var (
	// ErrValidation marks malformed or incomplete input.
	ErrValidation = errors.New("validation failed")
	// ErrQuizNotFound indicates no quiz exists under the requested id.
	ErrQuizNotFound = errors.New("quiz not found")
	// ErrUpstream wraps failures of the question source or the document store.
	ErrUpstream = errors.New("upstream unavailable")
	// ErrPrecondition signals misuse of the playthrough state machine.
	ErrPrecondition = errors.New("precondition failed")
)
