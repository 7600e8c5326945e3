package foldstate

import (
	"context"
	"sync"

	"github.com/TimelordUK/mfold/internal/fold"
	"github.com/TimelordUK/mfold/internal/indent"
)

// Editor is a headless fold.Editor over a document, its fold state and a
// selection
type Editor struct {
	mu     sync.Mutex
	doc    *indent.Document
	state  *State
	sel    fold.Selection
	reveal int
}

var _ fold.Editor = (*Editor)(nil)

// NewEditor creates an editor on doc with the cursor on line 0. doc may be
// nil for an editor without a document.
func NewEditor(doc *indent.Document) *Editor {
	e := &Editor{state: &State{}, reveal: -1}
	if doc != nil {
		e.Load(doc)
	}
	return e
}

// Load replaces the document, keeping folds whose header line survives and
// clamping the selection
func (e *Editor) Load(doc *indent.Document) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.doc = doc
	e.state.SetDocument(doc)
	e.sel = fold.Selection{
		Anchor: clampLine(e.sel.Anchor, doc.Len()),
		Active: clampLine(e.sel.Active, doc.Len()),
	}
}

func clampLine(line, n int) int {
	if line >= n {
		line = n - 1
	}
	if line < 0 {
		line = 0
	}
	return line
}

// State returns the fold state
func (e *Editor) State() *State {
	return e.state
}

// Document implements fold.Editor
func (e *Editor) Document() (*indent.Document, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.doc == nil {
		return nil, fold.ErrNoActiveDocument
	}
	return e.doc, nil
}

// Selection implements fold.Editor
func (e *Editor) Selection() (fold.Selection, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.doc == nil {
		return fold.Selection{}, fold.ErrNoActiveDocument
	}
	return e.sel, nil
}

// SetSelection implements fold.Editor
func (e *Editor) SetSelection(sel fold.Selection) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.doc == nil {
		return
	}
	e.sel = fold.Selection{
		Anchor: clampLine(sel.Anchor, e.doc.Len()),
		Active: clampLine(sel.Active, e.doc.Len()),
	}
}

// checkLine validates line against the current document
func (e *Editor) checkLine(ctx context.Context, line int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	doc, err := e.Document()
	if err != nil {
		return err
	}
	_, err = doc.Line(line)
	return err
}

// FoldAtLevel implements fold.Editor. The region holding the cursor is
// left open.
func (e *Editor) FoldAtLevel(ctx context.Context, level int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	sel, err := e.Selection()
	if err != nil {
		return err
	}
	e.state.FoldAtLevel(level, sel.Active)
	return nil
}

// Fold implements fold.Editor
func (e *Editor) Fold(ctx context.Context, line int) error {
	if err := e.checkLine(ctx, line); err != nil {
		return err
	}
	e.state.Fold(line)
	return nil
}

// Unfold implements fold.Editor
func (e *Editor) Unfold(ctx context.Context, line int) error {
	if err := e.checkLine(ctx, line); err != nil {
		return err
	}
	e.state.Unfold(line)
	return nil
}

// UnfoldRecursively implements fold.Editor
func (e *Editor) UnfoldRecursively(ctx context.Context, line int) error {
	if err := e.checkLine(ctx, line); err != nil {
		return err
	}
	e.state.UnfoldRecursively(line)
	return nil
}

// FoldAll implements fold.Editor
func (e *Editor) FoldAll(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := e.Document(); err != nil {
		return err
	}
	e.state.FoldAll()
	return nil
}

// RevealLine records the last revealed line
func (e *Editor) RevealLine(line int, mode fold.RevealMode) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.reveal = line
}

// Revealed returns the last revealed line, or -1
func (e *Editor) Revealed() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.reveal
}

// RefreshHighlight is a no-op without a view
func (e *Editor) RefreshHighlight() {}
