package source

import (
	"sort"

	"github.com/TimelordUK/mfold/internal/indent"
)

// FoldView reports which document lines are folded away
type FoldView interface {
	VisibleLines() []int
	FoldedRegions() []indent.Region
}

// FoldedProvider wraps a LineProvider and hides lines inside folded regions
type FoldedProvider struct {
	source LineProvider
	folds  FoldView

	// Cached visible indices (original line numbers not hidden by a fold)
	visible []int
	// Lines hidden under each visible folded header
	hiddenUnder map[int]int
	dirty       bool
}

// NewFoldedProvider creates a folded provider
func NewFoldedProvider(source LineProvider, folds FoldView) *FoldedProvider {
	return &FoldedProvider{
		source: source,
		folds:  folds,
		dirty:  true,
	}
}

// SetSource replaces the underlying provider
func (f *FoldedProvider) SetSource(source LineProvider) {
	f.source = source
	f.dirty = true
}

// MarkDirty marks the visible index as needing rebuild
func (f *FoldedProvider) MarkDirty() {
	f.dirty = true
}

// rebuildIndex rebuilds the visible index if dirty
func (f *FoldedProvider) rebuildIndex() {
	if !f.dirty {
		return
	}

	total := f.source.LineCount()
	f.visible = f.visible[:0]
	for _, line := range f.folds.VisibleLines() {
		if line < total {
			f.visible = append(f.visible, line)
		}
	}

	f.hiddenUnder = make(map[int]int)
	for _, r := range f.folds.FoldedRegions() {
		if _, seen := f.hiddenUnder[r.Start]; !seen {
			f.hiddenUnder[r.Start] = r.End - r.Start
		}
	}

	f.dirty = false
}

// LineCount returns the number of visible lines
func (f *FoldedProvider) LineCount() int {
	f.rebuildIndex()
	return len(f.visible)
}

// GetLine returns the line at visible index
func (f *FoldedProvider) GetLine(index int) (*Line, error) {
	f.rebuildIndex()

	if index < 0 || index >= len(f.visible) {
		return nil, nil
	}

	original := f.visible[index]
	line, err := f.source.GetLine(original)
	if err != nil || line == nil {
		return nil, err
	}

	line.OriginalIndex = original
	line.FoldedLines = f.hiddenUnder[original]
	return line, nil
}

// GetLines returns a range of visible lines
func (f *FoldedProvider) GetLines(start, count int) ([]*Line, error) {
	f.rebuildIndex()

	var lines []*Line
	for i := start; i < start+count && i < len(f.visible); i++ {
		line, err := f.GetLine(i)
		if err != nil {
			return lines, err
		}
		if line != nil {
			lines = append(lines, line)
		}
	}
	return lines, nil
}

// OriginalLineNumber returns the document line for a visible index, or -1
func (f *FoldedProvider) OriginalLineNumber(visibleIndex int) int {
	f.rebuildIndex()

	if visibleIndex < 0 || visibleIndex >= len(f.visible) {
		return -1
	}
	return f.visible[visibleIndex]
}

// VisibleIndexFor returns the visible index showing original: the line
// itself, or the folded header hiding it. Returns -1 for an empty view.
func (f *FoldedProvider) VisibleIndexFor(original int) int {
	f.rebuildIndex()

	if len(f.visible) == 0 {
		return -1
	}
	i := sort.SearchInts(f.visible, original)
	if i < len(f.visible) && f.visible[i] == original {
		return i
	}
	if i == 0 {
		return 0
	}
	return i - 1
}
