package fold

import (
	"errors"
	"fmt"
)

var (
	ErrNoActiveDocument = errors.New("no active document")
	ErrDirectiveFailed  = errors.New("editor directive failed")
)

// DirectiveError wraps a failure reported by the editor for one directive
type DirectiveError struct {
	Directive string
	Line      int // -1 for directives without a target line
	Err       error
}

func (e *DirectiveError) Error() string {
	if e.Line < 0 {
		return fmt.Sprintf("%s: %v", e.Directive, e.Err)
	}
	return fmt.Sprintf("%s at line %d: %v", e.Directive, e.Line, e.Err)
}

func (e *DirectiveError) Unwrap() error {
	return e.Err
}

func (e *DirectiveError) Is(target error) bool {
	return target == ErrDirectiveFailed
}
