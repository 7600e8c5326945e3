package indent

import (
	"errors"
	"fmt"
)

var (
	ErrOutOfRange     = errors.New("line out of range")
	ErrInvalidTabSize = errors.New("tab size must be positive")
)

// RangeError reports a line index outside the document
type RangeError struct {
	Line int
	Len  int
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("line %d out of range [0, %d)", e.Line, e.Len)
}

func (e *RangeError) Is(target error) bool {
	return target == ErrOutOfRange
}
