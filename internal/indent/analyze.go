package indent

import "iter"

// Region is the block that folding at Start would collapse. End is
// inclusive and never before Start.
type Region struct {
	Start int
	End   int
}

// Degenerate reports whether the region is too small for a fold directive
// at Start to act on it rather than on an enclosing region
func (r Region) Degenerate() bool {
	return r.End-r.Start <= 1
}

// Contains reports whether line lies inside the region
func (r Region) Contains(line int) bool {
	return line >= r.Start && line <= r.End
}

// LevelOf returns the nesting depth of a line
func (d *Document) LevelOf(index int) (int, error) {
	if err := d.check(index); err != nil {
		return 0, err
	}
	return d.level(index), nil
}

// FindParent returns the nearest line above index that is indented strictly
// less than index, or Root when there is none
func (d *Document) FindParent(index int) (int, error) {
	if err := d.check(index); err != nil {
		return Root, err
	}
	return d.parent(index), nil
}

func (d *Document) parent(index int) int {
	ref := d.referenceWidth(index)
	for i := index - 1; i >= 0; i-- {
		if d.lines[i].Blank {
			continue
		}
		if d.lines[i].IndentWidth < ref {
			return i
		}
	}
	return Root
}

// IsFoldable reports whether the next non-blank line is indented deeper
func (d *Document) IsFoldable(index int) (bool, error) {
	if err := d.check(index); err != nil {
		return false, err
	}
	return d.foldable(index), nil
}

func (d *Document) foldable(index int) bool {
	if d.lines[index].Blank {
		return false
	}
	next := d.nextNonBlank(index)
	return next >= 0 && d.lines[next].IndentWidth > d.lines[index].IndentWidth
}

// ChildRegionLines yields the lines exactly one level below index, in
// document order, up to the first line back at or above its level. Blank
// lines and deeper lines are skipped.
func (d *Document) ChildRegionLines(index int) (iter.Seq[int], error) {
	if err := d.check(index); err != nil {
		return nil, err
	}

	level := d.level(index)
	return func(yield func(int) bool) {
		for i := index + 1; i < len(d.lines); i++ {
			if d.lines[i].Blank {
				continue
			}
			l := d.level(i)
			if l <= level {
				return
			}
			if l == level+1 && !yield(i) {
				return
			}
		}
	}, nil
}

// FoldingRegionOf returns the block headed by index. The block ends at the
// last non-blank line before the next line indented no deeper than index.
func (d *Document) FoldingRegionOf(index int) (Region, error) {
	if err := d.check(index); err != nil {
		return Region{}, err
	}
	return d.region(index), nil
}

func (d *Document) region(index int) Region {
	r := Region{Start: index, End: index}
	if d.lines[index].Blank {
		return r
	}

	width := d.lines[index].IndentWidth
	for i := index + 1; i < len(d.lines); i++ {
		if d.lines[i].Blank {
			continue
		}
		if d.lines[i].IndentWidth <= width {
			break
		}
		r.End = i
	}
	return r
}

// AncestryToRoot returns the ancestors of index, nearest first. The root
// sentinel is not included.
func (d *Document) AncestryToRoot(index int) ([]int, error) {
	if err := d.check(index); err != nil {
		return nil, err
	}

	var ancestors []int
	for cur := d.parent(index); cur != Root; cur = d.parent(cur) {
		ancestors = append(ancestors, cur)
	}
	return ancestors, nil
}

// Regions returns the region of every line that heads one, in document
// order. Nested regions follow their parent.
func (d *Document) Regions() []Region {
	var regions []Region
	for i := range d.lines {
		if !d.foldable(i) {
			continue
		}
		regions = append(regions, d.region(i))
	}
	return regions
}
