package ir

import "errors"

var (
	// ErrType marks failures where a value's kind does not fit an
	// operation, such as encoding an unsupported type or indexing a
	// non-container.
	ErrType = errors.New("type error")

	// ErrValue marks failures where a value of the right kind has an
	// unusable value: circular references, disallowed non-finite
	// numbers, orderings that are not total.
	ErrValue = errors.New("value error")
)
