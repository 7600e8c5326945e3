package fold

import (
	"context"

	"github.com/TimelordUK/mfold/internal/indent"
)

// Selection is the editor cursor. Anchor is where the selection started,
// Active is where it currently ends.
type Selection struct {
	Anchor int
	Active int
}

// At returns an empty selection on line
func At(line int) Selection {
	return Selection{Anchor: line, Active: line}
}

// RevealMode controls where a revealed line is placed in the view
type RevealMode int

const (
	RevealDefault RevealMode = iota
	RevealCenter
	RevealTop
)

// Editor is the host editor the commands drive.
//
// Fold directives may be called concurrently within one batch and must
// each act on their own target line.
type Editor interface {
	// Document returns a snapshot of the current buffer measured with the
	// editor's tab size, or ErrNoActiveDocument.
	Document() (*indent.Document, error)

	// Selection returns the current selection, or ErrNoActiveDocument.
	Selection() (Selection, error)
	SetSelection(sel Selection)

	// FoldAtLevel folds every region whose header is at level.
	FoldAtLevel(ctx context.Context, level int) error
	// Fold folds the region at line. Editors fold the enclosing region
	// when line heads none.
	Fold(ctx context.Context, line int) error
	Unfold(ctx context.Context, line int) error
	// UnfoldRecursively unfolds line and every region nested under it.
	UnfoldRecursively(ctx context.Context, line int) error
	FoldAll(ctx context.Context) error

	RevealLine(line int, mode RevealMode)
	// RefreshHighlight re-runs cursor dependent decorations. Best effort.
	RefreshHighlight()
}
