package prompt

import "errors"

var (
	// ErrInvalidTemplate reports a template string that does not parse.
	ErrInvalidTemplate = errors.New("invalid template")

	// ErrMissingVariable reports a placeholder with no binding at format
	// time.
	ErrMissingVariable = errors.New("missing variable")

	// ErrBadPlaceholderValue reports a messages placeholder bound to a
	// value that is not a message or message list.
	ErrBadPlaceholderValue = errors.New("placeholder value is not a message list")
)
