// Package validate holds post-run checks. Checks never modify the frame.
package validate

import (
	"errors"
	"fmt"
)

// ErrInvalid matches any *Error.
var ErrInvalid = errors.New("validation failed")

// Error reports how many rows of Column broke a check.
type Error struct {
	Check  string
	Column string
	Rows   int
	Detail string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: column %s has %d %s", e.Check, e.Column, e.Rows, e.Detail)
}

func (e *Error) Is(target error) bool { return target == ErrInvalid }
