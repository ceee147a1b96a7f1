package patch

import (
	"errors"
	"fmt"
)

var (
	// ErrPatch reports an invalid operation or a violated operation
	// contract.
	ErrPatch = errors.New("patch error")
	// ErrAssert reports a failed assert operation.
	ErrAssert = errors.New("assertion failed")
)

// OpError carries the index of the operation that failed.
type OpError struct {
	Index int
	Op    string
	Err   error
}

func (e *OpError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("op %d (%s): %s", e.Index, e.Op, e.Err)
	}
	return fmt.Sprintf("op %d: %s", e.Index, e.Err)
}

func (e *OpError) Unwrap() error {
	return e.Err
}
