package orchestrator

import "errors"

var (
	// ErrTimeout marks a role that did not finish within its time limit.
	ErrTimeout = errors.New("agent timed out")

	// ErrInvalidMode is returned for a mode other than parallel or chain.
	ErrInvalidMode = errors.New("invalid mode")

	// ErrInvalidRole is returned when a role list holds a blank or repeated name.
	ErrInvalidRole = errors.New("invalid role list")

	// ErrEmptyQuery is returned when a request carries no query text.
	ErrEmptyQuery = errors.New("query is required")
)
