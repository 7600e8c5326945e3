package foldstate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TimelordUK/mfold/internal/indent"
)

// 0 a
// 1   b
// 2     c
// 3     d
// 4   e
// 5     f
// 6 g
func sampleDoc(t *testing.T) *indent.Document {
	t.Helper()
	doc, err := indent.NewDocument([]string{
		"a", "  b", "    c", "    d", "  e", "    f", "g",
	}, 2)
	require.NoError(t, err)
	return doc
}

func TestNewState_Regions(t *testing.T) {
	s := NewState(sampleDoc(t))

	regions := s.Regions()
	require.Len(t, regions, 3)
	assert.Equal(t, indent.Region{Start: 0, End: 5}, regions[0].Region)
	assert.Equal(t, 0, regions[0].Level)
	assert.Equal(t, indent.Region{Start: 1, End: 3}, regions[1].Region)
	assert.Equal(t, 1, regions[1].Level)
	assert.Equal(t, indent.Region{Start: 4, End: 5}, regions[2].Region)
	assert.Empty(t, s.FoldedRegions())
}

func TestFold_HeaderAndFallback(t *testing.T) {
	s := NewState(sampleDoc(t))

	assert.True(t, s.Fold(1))
	assert.True(t, s.IsFolded(1))

	// line 5 heads nothing: the innermost unfolded region holding it folds
	assert.True(t, s.Fold(5))
	assert.True(t, s.IsFolded(4))

	// line 6 is in no region
	assert.False(t, s.Fold(6))
}

func TestIsHiddenAndVisibleLines(t *testing.T) {
	s := NewState(sampleDoc(t))
	s.Fold(1)

	tests := []struct {
		line   int
		hidden bool
	}{
		{0, false},
		{1, false}, // header stays visible
		{2, true},
		{3, true},
		{4, false},
		{6, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.hidden, s.IsHidden(tt.line), "line %d", tt.line)
	}
	assert.Equal(t, []int{0, 1, 4, 5, 6}, s.VisibleLines())

	s.Fold(0)
	assert.Equal(t, []int{0, 6}, s.VisibleLines())
}

func TestUnfold(t *testing.T) {
	s := NewState(sampleDoc(t))
	s.FoldAll()

	assert.True(t, s.Unfold(0))
	assert.False(t, s.IsFolded(0))
	assert.True(t, s.IsFolded(1), "nested region keeps its state")

	// unfolding inside a folded region opens that region
	assert.True(t, s.Unfold(2))
	assert.False(t, s.IsFolded(1))
}

func TestUnfoldRecursively(t *testing.T) {
	s := NewState(sampleDoc(t))
	s.FoldAll()

	assert.True(t, s.UnfoldRecursively(0))
	assert.Empty(t, s.FoldedRegions())

	s.FoldAll()
	assert.True(t, s.UnfoldRecursively(1))
	assert.Equal(t, []indent.Region{{Start: 0, End: 5}, {Start: 4, End: 5}}, s.FoldedRegions())

	assert.False(t, s.UnfoldRecursively(2))
}

func TestFoldAtLevel(t *testing.T) {
	s := NewState(sampleDoc(t))

	n := s.FoldAtLevel(1, 6)
	assert.Equal(t, 2, n)
	assert.True(t, s.IsFolded(1))
	assert.True(t, s.IsFolded(4))
	assert.False(t, s.IsFolded(0))

	s.UnfoldAll()
	n = s.FoldAtLevel(1, 2)
	assert.Equal(t, 1, n, "region holding the cursor stays open")
	assert.False(t, s.IsFolded(1))
	assert.True(t, s.IsFolded(4))
}

func TestToggle(t *testing.T) {
	s := NewState(sampleDoc(t))

	assert.True(t, s.Toggle(4))
	assert.True(t, s.IsFolded(4))
	assert.True(t, s.Toggle(4))
	assert.False(t, s.IsFolded(4))
	assert.False(t, s.Toggle(99))
}

func TestSetDocument_PreservesFolds(t *testing.T) {
	s := NewState(sampleDoc(t))
	s.Fold(4)

	doc, err := indent.NewDocument([]string{
		"a", "  b", "    c", "    d", "  e", "    f", "    f2", "g", "  h",
	}, 2)
	require.NoError(t, err)
	s.SetDocument(doc)

	assert.True(t, s.IsFolded(4))
	assert.False(t, s.IsFolded(1))
	assert.False(t, s.IsFolded(7))
	assert.Equal(t, []indent.Region{{Start: 4, End: 6}}, s.FoldedRegions())
}
