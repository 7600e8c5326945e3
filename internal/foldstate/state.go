// Package foldstate keeps track of which indentation regions of a document
// are folded, the way an editor does.
package foldstate

import (
	"sync"

	"github.com/TimelordUK/mfold/internal/indent"
)

// Region is a foldable region with its header level and folded flag
type Region struct {
	indent.Region
	Level  int
	Folded bool
}

// State holds the foldable regions of a document. All methods are safe for
// concurrent use.
type State struct {
	mu      sync.Mutex
	regions []Region // sorted by Start, nested regions after their parent
	lines   int
}

// NewState creates an unfolded state for doc
func NewState(doc *indent.Document) *State {
	s := &State{}
	s.SetDocument(doc)
	return s
}

// SetDocument recomputes regions for doc. Regions whose header line is
// unchanged keep their folded flag.
func (s *State) SetDocument(doc *indent.Document) {
	s.mu.Lock()
	defer s.mu.Unlock()

	folded := make(map[int]bool)
	for _, r := range s.regions {
		if r.Folded {
			folded[r.Start] = true
		}
	}

	var regions []Region
	for _, r := range doc.Regions() {
		level, _ := doc.LevelOf(r.Start)
		regions = append(regions, Region{
			Region: r,
			Level:  level,
			Folded: folded[r.Start],
		})
	}
	s.regions = regions
	s.lines = doc.Len()
}

// Regions returns a copy of all regions
func (s *State) Regions() []Region {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Region, len(s.regions))
	copy(out, s.regions)
	return out
}

// FoldedRegions returns the folded regions in document order
func (s *State) FoldedRegions() []indent.Region {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []indent.Region
	for _, r := range s.regions {
		if r.Folded {
			out = append(out, r.Region)
		}
	}
	return out
}

// headedAt returns the index of the region starting at line, or -1
func (s *State) headedAt(line int) int {
	for i, r := range s.regions {
		if r.Start == line {
			return i
		}
		if r.Start > line {
			break
		}
	}
	return -1
}

// innermost returns the index of the innermost region containing line
// whose folded flag equals folded, or -1
func (s *State) innermost(line int, folded bool) int {
	found := -1
	for i, r := range s.regions {
		if r.Start > line {
			break
		}
		if r.Contains(line) && r.Folded == folded {
			found = i
		}
	}
	return found
}

// Fold folds the region headed by line, or the innermost unfolded region
// containing it. Returns false when nothing was folded.
func (s *State) Fold(line int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.headedAt(line)
	if i < 0 {
		i = s.innermost(line, false)
	}
	if i < 0 {
		return false
	}
	s.regions[i].Folded = true
	return true
}

// Unfold unfolds the region headed by line, or the innermost folded region
// containing it. Nested regions keep their state.
func (s *State) Unfold(line int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.headedAt(line)
	if i < 0 {
		i = s.innermost(line, true)
	}
	if i < 0 {
		return false
	}
	s.regions[i].Folded = false
	return true
}

// UnfoldRecursively unfolds the region headed by line and every region
// nested inside it. A line that heads no region has nothing to open.
func (s *State) UnfoldRecursively(line int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.headedAt(line)
	if i < 0 {
		return false
	}
	outer := s.regions[i].Region
	for j := i; j < len(s.regions) && s.regions[j].Start <= outer.End; j++ {
		s.regions[j].Folded = false
	}
	return true
}

// Toggle flips the region headed by line
func (s *State) Toggle(line int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.headedAt(line)
	if i < 0 {
		return false
	}
	s.regions[i].Folded = !s.regions[i].Folded
	return true
}

// FoldAtLevel folds every region whose header is at level, except regions
// that contain keep
func (s *State) FoldAtLevel(level, keep int) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for i, r := range s.regions {
		if r.Level == level && !r.Contains(keep) {
			s.regions[i].Folded = true
			n++
		}
	}
	return n
}

// FoldAll folds every region
func (s *State) FoldAll() {
	s.setAll(true)
}

// UnfoldAll unfolds every region
func (s *State) UnfoldAll() {
	s.setAll(false)
}

func (s *State) setAll(folded bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.regions {
		s.regions[i].Folded = folded
	}
}

// IsFolded reports whether the region headed by line is folded
func (s *State) IsFolded(line int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.headedAt(line)
	return i >= 0 && s.regions[i].Folded
}

// IsHidden reports whether line is inside a folded region. Region headers
// stay visible unless an outer fold hides them.
func (s *State) IsHidden(line int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range s.regions {
		if r.Start >= line {
			break
		}
		if r.Folded && line <= r.End {
			return true
		}
	}
	return false
}

// VisibleLines returns the lines not hidden by a fold, in order
func (s *State) VisibleLines() []int {
	s.mu.Lock()
	defer s.mu.Unlock()

	hidden := make([]bool, s.lines)
	for _, r := range s.regions {
		if !r.Folded {
			continue
		}
		for i := r.Start + 1; i <= r.End && i < s.lines; i++ {
			hidden[i] = true
		}
	}

	visible := make([]int, 0, s.lines)
	for i, h := range hidden {
		if !h {
			visible = append(visible, i)
		}
	}
	return visible
}
