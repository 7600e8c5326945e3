package ui

import (
	"context"
	"path/filepath"
	"slices"
	"strings"

	"go.uber.org/zap"

	"github.com/TimelordUK/mfold/internal/config"
	"github.com/TimelordUK/mfold/internal/export"
	"github.com/TimelordUK/mfold/internal/fold"
	"github.com/TimelordUK/mfold/internal/foldstate"
	"github.com/TimelordUK/mfold/internal/indent"
	"github.com/TimelordUK/mfold/internal/render"
	"github.com/TimelordUK/mfold/internal/source"
	"github.com/TimelordUK/mfold/internal/view"
)

// Pane is a single file view. It is the fold.Editor the fold commands run
// against: selection and fold state come from the embedded headless editor,
// and reveal and highlight requests move the viewport.
type Pane struct {
	*foldstate.Editor

	viewport *view.Viewport
	source   *source.FileSource
	folded   *source.FoldedProvider
	commands *fold.Commands
	exporter *export.Exporter
	config   *config.Config
	log      *zap.Logger

	filename   string
	sourcePath string
	tabSize    int

	// Marked original line numbers
	marks map[int]bool

	// Search state, original line numbers
	searchTerm    string
	searchResults []int
	searchIndex   int
}

var _ fold.Editor = (*Pane)(nil)

// NewPane opens filePath and builds its fold state. logger may be nil.
func NewPane(filePath string, cfg *config.Config, logger *zap.Logger) (*Pane, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	src, err := source.NewFileSource(filePath)
	if err != nil {
		return nil, err
	}

	doc, err := loadDocument(src, cfg.Display.TabWidth)
	if err != nil {
		src.Close()
		return nil, err
	}

	editor := foldstate.NewEditor(doc)
	folded := source.NewFoldedProvider(src, editor.State())

	viewport := view.NewViewport(80, 24)
	viewport.SetProvider(folded)
	viewport.SetShowLineNumbers(cfg.Display.ShowLineNumbers)
	viewport.SetColors(cfg.Theme.LineNumbers, cfg.Theme.Cursor, cfg.Theme.Mark)

	var inner render.Renderer
	if cfg.Display.Syntax && render.Highlightable(filePath) {
		inner = render.NewSyntaxRenderer(filePath, cfg.Theme.SyntaxStyle)
	}
	viewport.SetRenderer(render.NewFoldRenderer(inner, cfg.Theme.FoldMarker))

	p := &Pane{
		Editor:     editor,
		viewport:   viewport,
		source:     src,
		folded:     folded,
		exporter:   export.NewExporter(),
		config:     cfg,
		log:        logger.Named("pane"),
		filename:   filepath.Base(filePath),
		sourcePath: filePath,
		tabSize:    cfg.Display.TabWidth,
		marks:      make(map[int]bool),
	}
	p.commands = fold.New(p, logger)
	viewport.SetMarks(p.marks)
	return p, nil
}

func loadDocument(src *source.FileSource, tabSize int) (*indent.Document, error) {
	texts, err := src.Texts()
	if err != nil {
		return nil, err
	}
	return indent.NewDocument(texts, tabSize)
}

// RevealLine scrolls the viewport to the visible line showing line
func (p *Pane) RevealLine(line int, mode fold.RevealMode) {
	p.Editor.RevealLine(line, mode)
	p.folded.MarkDirty()
	if idx := p.folded.VisibleIndexFor(line); idx >= 0 {
		p.viewport.Reveal(idx, mode == fold.RevealCenter)
	}
}

// RefreshHighlight rebuilds the visible lines and moves the cursor to the
// selection
func (p *Pane) RefreshHighlight() {
	p.folded.MarkDirty()
	p.syncCursor()
}

// syncCursor moves the viewport cursor to the active selection line
func (p *Pane) syncCursor() {
	sel, err := p.Selection()
	if err != nil {
		return
	}
	if idx := p.folded.VisibleIndexFor(sel.Active); idx >= 0 {
		p.viewport.SetCursor(idx)
	}
}

// syncSelection puts the selection on the viewport cursor
func (p *Pane) syncSelection() {
	if line := p.CursorLine(); line >= 0 {
		p.SetSelection(fold.At(line))
	}
}

// run executes a fold command from the cursor and redraws afterwards,
// whether or not it succeeded
func (p *Pane) run(ctx context.Context, command func(context.Context) error) error {
	p.syncSelection()
	err := command(ctx)
	p.RefreshHighlight()
	return err
}

// FoldLevelOfCursor folds every region at the cursor line's level
func (p *Pane) FoldLevelOfCursor(ctx context.Context) error {
	return p.run(ctx, p.commands.FoldLevelOfCursor)
}

// FoldLevelOfParent folds every region at the level of the cursor line's
// parent and moves to the parent
func (p *Pane) FoldLevelOfParent(ctx context.Context) error {
	return p.run(ctx, p.commands.FoldLevelOfParent)
}

// FoldChildren folds the regions directly below the cursor line
func (p *Pane) FoldChildren(ctx context.Context) error {
	return p.run(ctx, p.commands.FoldChildren)
}

// FoldMarked folds the marked lines, or the cursor line when nothing is
// marked
func (p *Pane) FoldMarked(ctx context.Context) error {
	lines := p.targets()
	return p.run(ctx, func(ctx context.Context) error {
		return p.commands.FoldLines(ctx, lines)
	})
}

// FoldAllExcept folds everything except the marked lines, or the cursor
// line when nothing is marked
func (p *Pane) FoldAllExcept(ctx context.Context) error {
	lines := p.targets()
	return p.run(ctx, func(ctx context.Context) error {
		return p.commands.FoldAllExcept(ctx, lines)
	})
}

// targets returns the marked lines in order, or the cursor line
func (p *Pane) targets() []int {
	if len(p.marks) == 0 {
		if line := p.CursorLine(); line >= 0 {
			return []int{line}
		}
		return nil
	}
	lines := make([]int, 0, len(p.marks))
	for line := range p.marks {
		lines = append(lines, line)
	}
	slices.Sort(lines)
	return lines
}

// UnfoldAtCursor opens the fold at the cursor
func (p *Pane) UnfoldAtCursor(ctx context.Context) error {
	return p.run(ctx, func(ctx context.Context) error {
		return p.Unfold(ctx, p.CursorLine())
	})
}

// UnfoldRecursivelyAtCursor opens the fold at the cursor and every fold
// inside it
func (p *Pane) UnfoldRecursivelyAtCursor(ctx context.Context) error {
	return p.run(ctx, func(ctx context.Context) error {
		return p.UnfoldRecursively(ctx, p.CursorLine())
	})
}

// FoldEverything folds every region
func (p *Pane) FoldEverything(ctx context.Context) error {
	return p.run(ctx, p.FoldAll)
}

// UnfoldEverything opens every region
func (p *Pane) UnfoldEverything() {
	p.syncSelection()
	p.State().UnfoldAll()
	p.RefreshHighlight()
}

// ToggleAtCursor flips the fold headed by the cursor line
func (p *Pane) ToggleAtCursor() bool {
	p.syncSelection()
	ok := p.State().Toggle(p.CursorLine())
	p.RefreshHighlight()
	return ok
}

// CursorLine returns the original line number under the cursor, or -1
func (p *Pane) CursorLine() int {
	return p.folded.OriginalLineNumber(p.viewport.Cursor())
}

// CursorLevel returns the indentation level of the cursor line
func (p *Pane) CursorLevel() int {
	doc, err := p.Document()
	if err != nil {
		return 0
	}
	level, err := doc.LevelOf(p.CursorLine())
	if err != nil {
		return 0
	}
	return level
}

// FoldCount returns the number of folded regions
func (p *Pane) FoldCount() int {
	return len(p.State().FoldedRegions())
}

// GotoLine moves the cursor to a 1-based line number. A line inside a fold
// lands on the fold header.
func (p *Pane) GotoLine(lineNum int) {
	doc, err := p.Document()
	if err != nil || doc.Len() == 0 {
		return
	}
	line := max(0, min(lineNum-1, doc.Len()-1))
	p.SetSelection(fold.At(line))
	p.RevealLine(line, fold.RevealCenter)
	p.syncCursor()
}

// ToggleMark marks or unmarks the cursor line
func (p *Pane) ToggleMark() {
	line := p.CursorLine()
	if line < 0 {
		return
	}
	if p.marks[line] {
		delete(p.marks, line)
	} else {
		p.marks[line] = true
	}
}

// Marks returns the marked lines in order
func (p *Pane) Marks() []int {
	if len(p.marks) == 0 {
		return nil
	}
	return p.targets()
}

// ClearMarks removes every mark
func (p *Pane) ClearMarks() {
	clear(p.marks)
}

// PerformSearch finds the lines containing term and jumps to the first
// match after the cursor
func (p *Pane) PerformSearch(term string) {
	p.searchTerm = term
	p.searchResults = nil
	p.searchIndex = 0
	if term == "" {
		return
	}

	doc, err := p.Document()
	if err != nil {
		return
	}
	for _, line := range doc.Lines() {
		if strings.Contains(line.Text, term) {
			p.searchResults = append(p.searchResults, line.Index)
		}
	}
	if len(p.searchResults) == 0 {
		return
	}

	cursor := p.CursorLine()
	for i, line := range p.searchResults {
		if line >= cursor {
			p.searchIndex = i
			break
		}
	}
	p.GotoLine(p.searchResults[p.searchIndex] + 1)
}

// NextSearchResult jumps to next search result
func (p *Pane) NextSearchResult() {
	if len(p.searchResults) == 0 {
		return
	}
	p.searchIndex = (p.searchIndex + 1) % len(p.searchResults)
	p.GotoLine(p.searchResults[p.searchIndex] + 1)
}

// PrevSearchResult jumps to previous search result
func (p *Pane) PrevSearchResult() {
	if len(p.searchResults) == 0 {
		return
	}
	p.searchIndex--
	if p.searchIndex < 0 {
		p.searchIndex = len(p.searchResults) - 1
	}
	p.GotoLine(p.searchResults[p.searchIndex] + 1)
}

// SearchTerm returns the current search term
func (p *Pane) SearchTerm() string {
	return p.searchTerm
}

// SearchResults returns the search results
func (p *Pane) SearchResults() []int {
	return p.searchResults
}

// Export writes the visible lines to path, or a temp file when path is
// empty
func (p *Pane) Export(path string) (*export.Info, error) {
	info, err := p.exporter.WriteFile(path, p.sourcePath, p.folded)
	if err != nil {
		return nil, err
	}
	p.log.Info("exported",
		zap.String("path", info.OutputPath),
		zap.Int("lines", info.Lines),
		zap.Int("folded", info.Folded),
	)
	return info, nil
}

// Reload re-reads the file when it changed on disk. Folds whose header line
// is unchanged survive, marks past the end are dropped.
func (p *Pane) Reload() (bool, error) {
	changed, err := p.source.Reload()
	if err != nil || !changed {
		return false, err
	}

	doc, err := loadDocument(p.source, p.tabSize)
	if err != nil {
		return false, err
	}

	line := p.CursorLine()
	p.Load(doc)
	if line >= 0 {
		p.SetSelection(fold.At(line))
	}
	for mark := range p.marks {
		if mark >= doc.Len() {
			delete(p.marks, mark)
		}
	}
	if len(p.searchResults) > 0 {
		p.PerformSearch(p.searchTerm)
	}

	p.RefreshHighlight()
	p.log.Debug("reloaded", zap.String("file", p.sourcePath), zap.Int("lines", doc.Len()))
	return true, nil
}

// SetSize sets the viewport size
func (p *Pane) SetSize(width, height int) {
	p.viewport.SetSize(width, height)
}

// Render returns the rendered viewport content
func (p *Pane) Render() string {
	return p.viewport.Render()
}

// Viewport returns the pane's viewport
func (p *Pane) Viewport() *view.Viewport {
	return p.viewport
}

// Filename returns the display filename
func (p *Pane) Filename() string {
	return p.filename
}

// SourcePath returns the path the pane was opened with
func (p *Pane) SourcePath() string {
	return p.sourcePath
}

// LineCount returns the number of lines in the file
func (p *Pane) LineCount() int {
	return p.source.LineCount()
}

// Close cleans up pane resources
func (p *Pane) Close() error {
	return p.source.Close()
}
