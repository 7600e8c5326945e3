// Package indent analyzes the indentation structure of a document.
//
// Lines are addressed by 0-based index. Indentation is measured in columns
// with tabs advancing to the next multiple of the tab size, and a line's
// level is its indentation width divided by the tab size. Blank lines never
// define structure: scans skip them.
package indent

import (
	"fmt"
	"strings"
)

// Root is the index of the virtual line that parents every top-level line.
const Root = -1

// Line is a single row of a document
type Line struct {
	Index       int
	Text        string
	IndentWidth int
	Blank       bool
}

// Document is an immutable snapshot of lines measured with one tab size
type Document struct {
	lines   []Line
	tabSize int
}

// NewDocument measures texts with the given tab size
func NewDocument(texts []string, tabSize int) (*Document, error) {
	if tabSize <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidTabSize, tabSize)
	}

	lines := make([]Line, len(texts))
	for i, text := range texts {
		width, blank := Measure(text, tabSize)
		lines[i] = Line{
			Index:       i,
			Text:        text,
			IndentWidth: width,
			Blank:       blank,
		}
	}

	return &Document{lines: lines, tabSize: tabSize}, nil
}

// Measure returns the leading whitespace width of text in columns and
// whether the text is blank. Blank text has width 0.
func Measure(text string, tabSize int) (width int, blank bool) {
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case ' ':
			width++
		case '\t':
			width += tabSize - width%tabSize
		default:
			if strings.TrimSpace(text[i:]) == "" {
				return 0, true
			}
			return width, false
		}
	}
	return 0, true
}

// Len returns the number of lines
func (d *Document) Len() int {
	return len(d.lines)
}

// TabSize returns the tab size the document was measured with
func (d *Document) TabSize() int {
	return d.tabSize
}

// Line returns the line at index
func (d *Document) Line(index int) (Line, error) {
	if err := d.check(index); err != nil {
		return Line{}, err
	}
	return d.lines[index], nil
}

// Lines returns a copy of all lines
func (d *Document) Lines() []Line {
	out := make([]Line, len(d.lines))
	copy(out, d.lines)
	return out
}

func (d *Document) check(index int) error {
	if index < 0 || index >= len(d.lines) {
		return &RangeError{Line: index, Len: len(d.lines)}
	}
	return nil
}

func (d *Document) level(index int) int {
	return d.lines[index].IndentWidth / d.tabSize
}

// nextNonBlank returns the first non-blank line after index, or -1
func (d *Document) nextNonBlank(index int) int {
	for i := index + 1; i < len(d.lines); i++ {
		if !d.lines[i].Blank {
			return i
		}
	}
	return -1
}

// referenceWidth is the width of index, or of the nearest non-blank line
// above it when index itself is blank
func (d *Document) referenceWidth(index int) int {
	for i := index; i >= 0; i-- {
		if !d.lines[i].Blank {
			return d.lines[i].IndentWidth
		}
	}
	return 0
}
