package fold

import (
	"slices"

	"github.com/TimelordUK/mfold/internal/indent"
)

// normalize validates lines against doc and returns them sorted without
// duplicates
func normalize(doc *indent.Document, lines []int) ([]int, error) {
	out := slices.Clone(lines)
	slices.Sort(out)
	out = slices.Compact(out)
	for _, line := range out {
		if _, err := doc.Line(line); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// PlanFoldLines returns the lines that receive a fold directive when
// folding lines. A line is skipped when it lies inside a region already
// planned, or when its own region is degenerate.
func PlanFoldLines(doc *indent.Document, lines []int) ([]int, error) {
	sorted, err := normalize(doc, lines)
	if err != nil {
		return nil, err
	}

	var planned []int
	endOfPrevious := -1
	for _, line := range sorted {
		region, err := doc.FoldingRegionOf(line)
		if err != nil {
			return nil, err
		}
		if line > endOfPrevious && !region.Degenerate() {
			endOfPrevious = region.End
			planned = append(planned, line)
		}
	}
	return planned, nil
}

// UnfoldPlan is the second phase of folding everything except a set of
// lines
type UnfoldPlan struct {
	// Recursive lines keep their whole subtree open.
	Recursive []int
	// Ancestors are opened one level each so the recursive lines are
	// reachable.
	Ancestors []int
}

// PlanFoldAllExcept computes which lines are unfolded after folding all
func PlanFoldAllExcept(doc *indent.Document, excluded []int) (UnfoldPlan, error) {
	sorted, err := normalize(doc, excluded)
	if err != nil {
		return UnfoldPlan{}, err
	}

	seen := make(map[int]bool)
	var ancestors []int
	for _, line := range sorted {
		chain, err := doc.AncestryToRoot(line)
		if err != nil {
			return UnfoldPlan{}, err
		}
		if header, ok := blankHeader(doc, line); ok {
			chain = append(chain, header)
		}
		for _, a := range chain {
			if !seen[a] {
				seen[a] = true
				ancestors = append(ancestors, a)
			}
		}
	}
	slices.Sort(ancestors)

	return UnfoldPlan{Recursive: sorted, Ancestors: ancestors}, nil
}

// blankHeader returns the nearest non-blank line above a blank line when
// that line's region covers it. AncestryToRoot measures a blank line by the
// line above, so it never reports that line itself.
func blankHeader(doc *indent.Document, line int) (int, bool) {
	l, err := doc.Line(line)
	if err != nil || !l.Blank {
		return 0, false
	}
	for i := line - 1; i >= 0; i-- {
		above, _ := doc.Line(i)
		if above.Blank {
			continue
		}
		region, _ := doc.FoldingRegionOf(i)
		return i, region.Contains(line)
	}
	return 0, false
}
