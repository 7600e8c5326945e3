package fold_test

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/TimelordUK/mfold/internal/fold"
	"github.com/TimelordUK/mfold/internal/foldstate"
	"github.com/TimelordUK/mfold/internal/indent"
)

var errBoom = errors.New("boom")

// recorder is a fold.Editor that records every call
type recorder struct {
	mu    sync.Mutex
	doc   *indent.Document
	sel   fold.Selection
	calls []string
	fail  string
}

func newRecorder(t *testing.T, sel fold.Selection, lines ...string) *recorder {
	t.Helper()
	doc, err := indent.NewDocument(lines, 2)
	require.NoError(t, err)
	return &recorder{doc: doc, sel: sel}
}

func (r *recorder) record(call string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, call)
	if call == r.fail {
		return errBoom
	}
	return nil
}

func (r *recorder) Calls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.calls)
}

func (r *recorder) Document() (*indent.Document, error) {
	if r.doc == nil {
		return nil, fold.ErrNoActiveDocument
	}
	return r.doc, nil
}

func (r *recorder) Selection() (fold.Selection, error) {
	if r.doc == nil {
		return fold.Selection{}, fold.ErrNoActiveDocument
	}
	return r.sel, nil
}

func (r *recorder) SetSelection(sel fold.Selection) {
	r.sel = sel
	r.record(fmt.Sprintf("select %d %d", sel.Anchor, sel.Active))
}

func (r *recorder) FoldAtLevel(_ context.Context, level int) error {
	return r.record(fmt.Sprintf("fold-level %d", level))
}

func (r *recorder) Fold(_ context.Context, line int) error {
	return r.record(fmt.Sprintf("fold %d", line))
}

func (r *recorder) Unfold(_ context.Context, line int) error {
	return r.record(fmt.Sprintf("unfold %d", line))
}

func (r *recorder) UnfoldRecursively(_ context.Context, line int) error {
	return r.record(fmt.Sprintf("unfold-recursively %d", line))
}

func (r *recorder) FoldAll(_ context.Context) error {
	return r.record("fold-all")
}

func (r *recorder) RevealLine(line int, mode fold.RevealMode) {
	r.record(fmt.Sprintf("reveal %d %d", line, mode))
}

func (r *recorder) RefreshHighlight() {
	r.record("highlight")
}

// nested is
//
//	0 a
//	1   b
//	2     c
//	3     d
//	4   e
//	5     f
//	6     g
//	7 h
var nested = []string{"a", "  b", "    c", "    d", "  e", "    f", "    g", "h"}

func TestFoldLevelOfCursor_FoldableLine(t *testing.T) {
	r := newRecorder(t, fold.At(1), nested...)
	cmds := fold.New(r, nil)

	require.NoError(t, cmds.FoldLevelOfCursor(context.Background()))

	calls := r.Calls()
	require.Len(t, calls, 4)
	assert.ElementsMatch(t, []string{"fold-level 1", "fold 1"}, calls[:2])
	assert.Equal(t, []string{"select 1 1", "highlight"}, calls[2:])
}

func TestFoldLevelOfCursor_LeafLineSkipsFoldCurrent(t *testing.T) {
	r := newRecorder(t, fold.Selection{Anchor: 2, Active: 3}, nested...)
	cmds := fold.New(r, nil)

	require.NoError(t, cmds.FoldLevelOfCursor(context.Background()))
	assert.Equal(t, []string{"fold-level 2", "select 2 3", "highlight"}, r.Calls())
}

func TestFoldLevelOfParent(t *testing.T) {
	r := newRecorder(t, fold.At(3), nested...)
	cmds := fold.New(r, nil)

	require.NoError(t, cmds.FoldLevelOfParent(context.Background()))
	assert.Equal(t, []string{"select 1 1", "fold-level 1", "fold 1"}, r.Calls())
}

// A top-level line has no parent. The command then folds level 0 on the
// line itself, matching long-standing editor behaviour.
func TestFoldLevelOfParent_TopLevelLineFoldsInPlace(t *testing.T) {
	r := newRecorder(t, fold.At(7), nested...)
	cmds := fold.New(r, nil)

	require.NoError(t, cmds.FoldLevelOfParent(context.Background()))
	assert.Equal(t, []string{"select 7 7", "fold-level 0", "fold 7"}, r.Calls())
}

func TestFoldChildren(t *testing.T) {
	r := newRecorder(t, fold.At(0), nested...)
	cmds := fold.New(r, nil)

	require.NoError(t, cmds.FoldChildren(context.Background()))

	calls := r.Calls()
	assert.ElementsMatch(t, []string{"fold 1", "fold 4"}, calls[:2])
	assert.Equal(t, []string{"select 0 0", "reveal 0 1", "highlight"}, calls[2:])
}

func TestFoldLines_SkipsCoveredLines(t *testing.T) {
	r := newRecorder(t, fold.At(5), nested...)
	cmds := fold.New(r, nil)

	require.NoError(t, cmds.FoldLines(context.Background(), []int{4, 1, 0}))
	assert.Equal(t, []string{"fold 0", "select 5 5", "reveal 5 1", "highlight"}, r.Calls())
}

func TestFoldLines_SiblingBlocks(t *testing.T) {
	r := newRecorder(t, fold.At(0), nested...)
	cmds := fold.New(r, nil)

	require.NoError(t, cmds.FoldLines(context.Background(), []int{1, 2, 4, 4}))
	calls := r.Calls()
	require.Len(t, calls, 5)
	assert.ElementsMatch(t, []string{"fold 1", "fold 4"}, calls[:2])
}

// Lines 1 and 2 of this document head nothing, so their regions are
// degenerate and no fold is issued at all.
func TestFoldLines_DegenerateRegionsSkipped(t *testing.T) {
	r := newRecorder(t, fold.At(0), "a", "  b", "  c", "d")
	cmds := fold.New(r, nil)

	require.NoError(t, cmds.FoldLines(context.Background(), []int{1, 2}))
	assert.Equal(t, []string{"select 0 0", "reveal 0 1", "highlight"}, r.Calls())
}

func TestFoldLines_OutOfRangeIssuesNothing(t *testing.T) {
	r := newRecorder(t, fold.At(0), nested...)
	cmds := fold.New(r, nil)

	err := cmds.FoldLines(context.Background(), []int{1, 99})
	require.ErrorIs(t, err, indent.ErrOutOfRange)
	assert.Empty(t, r.Calls())
}

func TestFoldLines_DirectiveFailureSkipsFinalization(t *testing.T) {
	r := newRecorder(t, fold.At(0), nested...)
	r.fail = "fold 4"
	cmds := fold.New(r, nil)

	err := cmds.FoldLines(context.Background(), []int{1, 4})
	require.ErrorIs(t, err, fold.ErrDirectiveFailed)
	require.ErrorIs(t, err, errBoom)

	var dirErr *fold.DirectiveError
	require.ErrorAs(t, err, &dirErr)
	assert.Equal(t, "fold", dirErr.Directive)
	assert.Equal(t, 4, dirErr.Line)

	for _, call := range r.Calls() {
		assert.NotContains(t, call, "select")
		assert.NotContains(t, call, "reveal")
	}
}

func TestFoldAllExcept_Ordering(t *testing.T) {
	r := newRecorder(t, fold.At(4), "a", "  b", "    c", "  d", "e")
	cmds := fold.New(r, nil)

	require.NoError(t, cmds.FoldAllExcept(context.Background(), []int{2}))

	calls := r.Calls()
	require.Len(t, calls, 7)
	assert.Equal(t, "fold-all", calls[0])
	assert.ElementsMatch(t, []string{"unfold-recursively 2", "unfold 0", "unfold 1"}, calls[1:4])
	assert.Equal(t, []string{"select 4 4", "reveal 4 1", "highlight"}, calls[4:])
}

func TestFoldAllExcept_FoldAllFailureStopsSecondPhase(t *testing.T) {
	r := newRecorder(t, fold.At(0), nested...)
	r.fail = "fold-all"
	cmds := fold.New(r, nil)

	err := cmds.FoldAllExcept(context.Background(), []int{2})
	require.ErrorIs(t, err, fold.ErrDirectiveFailed)
	assert.Equal(t, []string{"fold-all"}, r.Calls())
}

func TestCommands_NoActiveDocument(t *testing.T) {
	r := &recorder{}
	cmds := fold.New(r, nil)
	ctx := context.Background()

	assert.ErrorIs(t, cmds.FoldLevelOfParent(ctx), fold.ErrNoActiveDocument)
	assert.ErrorIs(t, cmds.FoldLevelOfCursor(ctx), fold.ErrNoActiveDocument)
	assert.ErrorIs(t, cmds.FoldChildren(ctx), fold.ErrNoActiveDocument)
	assert.ErrorIs(t, cmds.FoldLines(ctx, []int{0}), fold.ErrNoActiveDocument)
	assert.ErrorIs(t, cmds.FoldAllExcept(ctx, []int{0}), fold.ErrNoActiveDocument)
	assert.Empty(t, r.Calls())
}

func TestCommands_CancelledContext(t *testing.T) {
	r := newRecorder(t, fold.At(0), nested...)
	cmds := fold.New(r, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, cmds.FoldLines(ctx, []int{1}), context.Canceled)
	assert.Empty(t, r.Calls())
}

func TestCommands_Logging(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	r := newRecorder(t, fold.At(0), nested...)
	cmds := fold.New(r, zap.New(core))

	require.NoError(t, cmds.FoldChildren(context.Background()))

	completed := logs.FilterMessage("command completed").All()
	require.Len(t, completed, 1)
	assert.Equal(t, "fold", completed[0].LoggerName)
	fields := completed[0].ContextMap()
	assert.Equal(t, fold.CmdFoldChildren, fields["command"])
	assert.EqualValues(t, 2, fields["directives"])

	r.fail = "fold 1"
	require.Error(t, cmds.FoldChildren(context.Background()))
	failed := logs.FilterMessage("command failed").All()
	require.Len(t, failed, 1)
	assert.Equal(t, zapcore.WarnLevel, failed[0].Level)
}

func newEditor(t *testing.T, lines ...string) *foldstate.Editor {
	t.Helper()
	doc, err := indent.NewDocument(lines, 2)
	require.NoError(t, err)
	return foldstate.NewEditor(doc)
}

func TestFoldAllExcept_KeepsAncestorChainOpen(t *testing.T) {
	e := newEditor(t, "a", "  b", "    c", "  d", "e")
	cmds := fold.New(e, nil)

	require.NoError(t, cmds.FoldAllExcept(context.Background(), []int{2}))
	assert.Equal(t, []int{0, 1, 2, 3, 4}, e.State().VisibleLines())
	assert.Empty(t, e.State().FoldedRegions())
}

func TestFoldAllExcept_BlankLineStaysVisible(t *testing.T) {
	e := newEditor(t, "a", "  b", "", "    c", "d")
	cmds := fold.New(e, nil)

	require.NoError(t, cmds.FoldAllExcept(context.Background(), []int{2}))
	assert.False(t, e.State().IsHidden(2))
	assert.Equal(t, []int{0, 1, 2, 3, 4}, e.State().VisibleLines())
}

func TestFoldAllExcept_SiblingsStayFolded(t *testing.T) {
	e := newEditor(t, nested...)
	e.SetSelection(fold.At(2))
	cmds := fold.New(e, nil)

	require.NoError(t, cmds.FoldAllExcept(context.Background(), []int{2}))
	assert.Equal(t, []int{0, 1, 2, 3, 4, 7}, e.State().VisibleLines())
	assert.True(t, e.State().IsFolded(4))

	sel, err := e.Selection()
	require.NoError(t, err)
	assert.Equal(t, fold.At(2), sel)
	assert.Equal(t, 2, e.Revealed())
}

func TestFoldAllExcept_ExcludedSubtreeStaysOpen(t *testing.T) {
	e := newEditor(t, nested...)
	cmds := fold.New(e, nil)

	require.NoError(t, cmds.FoldAllExcept(context.Background(), []int{0}))
	assert.Empty(t, e.State().FoldedRegions())
}

func TestFoldAllExcept_SingleLineDocument(t *testing.T) {
	e := newEditor(t, "a")
	cmds := fold.New(e, nil)

	require.NoError(t, cmds.FoldAllExcept(context.Background(), []int{0}))
	assert.Equal(t, []int{0}, e.State().VisibleLines())
	assert.Empty(t, e.State().FoldedRegions())
}

func TestFoldLevelOfCursor_FoldsSiblings(t *testing.T) {
	e := newEditor(t, nested...)
	e.SetSelection(fold.At(1))
	cmds := fold.New(e, nil)

	require.NoError(t, cmds.FoldLevelOfCursor(context.Background()))
	assert.True(t, e.State().IsFolded(1))
	assert.True(t, e.State().IsFolded(4))
	assert.False(t, e.State().IsFolded(0))
	assert.Equal(t, []int{0, 1, 4, 7}, e.State().VisibleLines())
}

func TestFoldLevelOfParent_MovesCursorToParent(t *testing.T) {
	e := newEditor(t, nested...)
	e.SetSelection(fold.At(5))
	cmds := fold.New(e, nil)

	require.NoError(t, cmds.FoldLevelOfParent(context.Background()))

	sel, err := e.Selection()
	require.NoError(t, err)
	assert.Equal(t, fold.At(4), sel)
	assert.True(t, e.State().IsFolded(1))
	assert.True(t, e.State().IsFolded(4))
}
