// Package fold implements indentation based fold commands on top of an
// Editor.
//
// Each command reads a fresh document snapshot and selection, decides which
// lines to fold or unfold, and issues the directives in batches. Directives
// inside a batch run concurrently; the command waits for the whole batch
// before it moves on. When any directive fails the command returns the
// error and leaves the selection wherever the editor last put it.
package fold

import (
	"context"
	"fmt"
	"slices"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/TimelordUK/mfold/internal/indent"
)

// Command names used in logs and errors
const (
	CmdFoldLevelOfParent = "fold-level-of-parent"
	CmdFoldLevelOfCursor = "fold-level-of-cursor"
	CmdFoldChildren      = "fold-children"
	CmdFoldLines         = "fold-lines"
	CmdFoldAllExcept     = "fold-all-except"
)

// Commands runs fold commands against an editor
type Commands struct {
	editor Editor
	log    *Logger
}

// New creates commands bound to editor. logger may be nil.
func New(editor Editor, logger *zap.Logger) *Commands {
	return &Commands{
		editor: editor,
		log:    NewLogger(logger),
	}
}

type directive struct {
	name string
	line int
	run  func(ctx context.Context) error
}

func (c *Commands) foldAtLevel(level int) directive {
	return directive{name: "fold-level", line: -1, run: func(ctx context.Context) error {
		return c.editor.FoldAtLevel(ctx, level)
	}}
}

func (c *Commands) fold(line int) directive {
	return directive{name: "fold", line: line, run: func(ctx context.Context) error {
		return c.editor.Fold(ctx, line)
	}}
}

func (c *Commands) unfold(line int) directive {
	return directive{name: "unfold", line: line, run: func(ctx context.Context) error {
		return c.editor.Unfold(ctx, line)
	}}
}

func (c *Commands) unfoldRecursively(line int) directive {
	return directive{name: "unfold-recursively", line: line, run: func(ctx context.Context) error {
		return c.editor.UnfoldRecursively(ctx, line)
	}}
}

func (c *Commands) foldAll() directive {
	return directive{name: "fold-all", line: -1, run: func(ctx context.Context) error {
		return c.editor.FoldAll(ctx)
	}}
}

// dispatch issues a batch of independent directives and waits for all of
// them
func (c *Commands) dispatch(ctx context.Context, batch []directive) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, d := range batch {
		g.Go(func() error {
			if err := d.run(gctx); err != nil {
				return &DirectiveError{Directive: d.name, Line: d.line, Err: err}
			}
			return nil
		})
	}
	return g.Wait()
}

func (c *Commands) snapshot() (*indent.Document, Selection, error) {
	doc, err := c.editor.Document()
	if err != nil {
		return nil, Selection{}, err
	}
	if doc == nil {
		return nil, Selection{}, ErrNoActiveDocument
	}

	sel, err := c.editor.Selection()
	if err != nil {
		return nil, Selection{}, err
	}
	return doc, sel, nil
}

// restore puts the selection back, optionally scrolls to it, and refreshes
// highlighting
func (c *Commands) restore(sel Selection, reveal bool) {
	c.editor.SetSelection(sel)
	if reveal {
		c.editor.RevealLine(sel.Active, RevealCenter)
	}
	c.editor.RefreshHighlight()
}

func (c *Commands) fail(command string, err error) error {
	c.log.CommandFailed(command, err)
	return fmt.Errorf("%s: %w", command, err)
}

// FoldLevelOfParent moves the cursor to the parent of the active line and
// folds every region at the parent's level, then the parent itself. A
// top-level line has no parent and is folded at level 0 in place.
func (c *Commands) FoldLevelOfParent(ctx context.Context) error {
	start := time.Now()
	doc, sel, err := c.snapshot()
	if err != nil {
		return c.fail(CmdFoldLevelOfParent, err)
	}

	target, err := doc.FindParent(sel.Active)
	if err != nil {
		return c.fail(CmdFoldLevelOfParent, err)
	}

	level := 0
	if target == indent.Root {
		target = sel.Active
	} else if level, err = doc.LevelOf(target); err != nil {
		return c.fail(CmdFoldLevelOfParent, err)
	}

	c.log.CommandPlanned(CmdFoldLevelOfParent, target, 2)
	c.editor.SetSelection(At(target))

	if err := c.dispatch(ctx, []directive{c.foldAtLevel(level)}); err != nil {
		return c.fail(CmdFoldLevelOfParent, err)
	}
	if err := c.dispatch(ctx, []directive{c.fold(target)}); err != nil {
		return c.fail(CmdFoldLevelOfParent, err)
	}

	c.log.CommandCompleted(CmdFoldLevelOfParent, 2, time.Since(start))
	return nil
}

// FoldLevelOfCursor folds every region at the level of the anchor line,
// including the anchor's own region when it heads one.
func (c *Commands) FoldLevelOfCursor(ctx context.Context) error {
	start := time.Now()
	doc, sel, err := c.snapshot()
	if err != nil {
		return c.fail(CmdFoldLevelOfCursor, err)
	}

	level, err := doc.LevelOf(sel.Anchor)
	if err != nil {
		return c.fail(CmdFoldLevelOfCursor, err)
	}

	batch := []directive{c.foldAtLevel(level)}
	// folding a line that heads no region would fold its parent instead
	if foldable, _ := doc.IsFoldable(sel.Anchor); foldable {
		batch = append(batch, c.fold(sel.Anchor))
	}

	c.log.CommandPlanned(CmdFoldLevelOfCursor, sel.Anchor, len(batch))
	if err := c.dispatch(ctx, batch); err != nil {
		return c.fail(CmdFoldLevelOfCursor, err)
	}

	c.restore(sel, false)
	c.log.CommandCompleted(CmdFoldLevelOfCursor, len(batch), time.Since(start))
	return nil
}

// FoldChildren folds each line one level below the active line.
func (c *Commands) FoldChildren(ctx context.Context) error {
	start := time.Now()
	doc, sel, err := c.snapshot()
	if err != nil {
		return c.fail(CmdFoldChildren, err)
	}

	children, err := doc.ChildRegionLines(sel.Active)
	if err != nil {
		return c.fail(CmdFoldChildren, err)
	}

	n, err := c.foldLines(ctx, doc, sel, slices.Collect(children))
	if err != nil {
		return c.fail(CmdFoldChildren, err)
	}

	c.log.CommandCompleted(CmdFoldChildren, n, time.Since(start))
	return nil
}

// FoldLines folds each of lines, skipping lines already covered by an
// earlier fold and lines whose region is too small to fold.
func (c *Commands) FoldLines(ctx context.Context, lines []int) error {
	start := time.Now()
	doc, sel, err := c.snapshot()
	if err != nil {
		return c.fail(CmdFoldLines, err)
	}

	n, err := c.foldLines(ctx, doc, sel, lines)
	if err != nil {
		return c.fail(CmdFoldLines, err)
	}

	c.log.CommandCompleted(CmdFoldLines, n, time.Since(start))
	return nil
}

func (c *Commands) foldLines(ctx context.Context, doc *indent.Document, sel Selection, lines []int) (int, error) {
	planned, err := PlanFoldLines(doc, lines)
	if err != nil {
		return 0, err
	}

	batch := make([]directive, 0, len(planned))
	for _, line := range planned {
		batch = append(batch, c.fold(line))
	}

	c.log.CommandPlanned(CmdFoldLines, sel.Active, len(batch))
	if err := c.dispatch(ctx, batch); err != nil {
		return 0, err
	}

	c.restore(sel, true)
	return len(batch), nil
}

// FoldAllExcept folds the whole document, then opens each excluded line
// with its subtree and the chain of headers leading to it.
func (c *Commands) FoldAllExcept(ctx context.Context, excluded []int) error {
	start := time.Now()
	doc, sel, err := c.snapshot()
	if err != nil {
		return c.fail(CmdFoldAllExcept, err)
	}

	plan, err := PlanFoldAllExcept(doc, excluded)
	if err != nil {
		return c.fail(CmdFoldAllExcept, err)
	}

	if err := c.dispatch(ctx, []directive{c.foldAll()}); err != nil {
		return c.fail(CmdFoldAllExcept, err)
	}

	batch := make([]directive, 0, len(plan.Recursive)+len(plan.Ancestors))
	for _, line := range plan.Recursive {
		batch = append(batch, c.unfoldRecursively(line))
	}
	for _, line := range plan.Ancestors {
		batch = append(batch, c.unfold(line))
	}

	c.log.CommandPlanned(CmdFoldAllExcept, sel.Active, len(batch)+1)
	if err := c.dispatch(ctx, batch); err != nil {
		return c.fail(CmdFoldAllExcept, err)
	}

	c.restore(sel, true)
	c.log.CommandCompleted(CmdFoldAllExcept, len(batch)+1, time.Since(start))
	return nil
}
