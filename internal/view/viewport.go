package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/TimelordUK/mfold/internal/render"
	"github.com/TimelordUK/mfold/internal/source"
)

// Viewport manages the visible portion of content
// It knows nothing about files or folding
// It only knows how to display lines from a LineProvider
type Viewport struct {
	provider source.LineProvider
	renderer render.Renderer

	// Dimensions
	width  int
	height int

	// Scroll position and cursor, both indices into the provider
	scrollOffset int
	cursor       int

	// Styling
	lineNumberStyle lipgloss.Style
	cursorStyle     lipgloss.Style
	markStyle       lipgloss.Style

	// Options
	showLineNumbers bool

	// Marked original line indices
	marks map[int]bool
}

// NewViewport creates a new viewport
func NewViewport(width, height int) *Viewport {
	return &Viewport{
		width:           width,
		height:          height,
		showLineNumbers: true,
		lineNumberStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		cursorStyle:     lipgloss.NewStyle().Foreground(lipgloss.Color("226")).Bold(true),
		markStyle:       lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
		renderer:        render.NewPlainRenderer(),
	}
}

// SetRenderer sets the line renderer
func (v *Viewport) SetRenderer(r render.Renderer) {
	v.renderer = r
}

// SetProvider sets the line provider
func (v *Viewport) SetProvider(provider source.LineProvider) {
	v.provider = provider
	v.scrollOffset = 0
	v.cursor = 0
}

// SetColors overrides the line number and cursor colors
func (v *Viewport) SetColors(lineNumbers, cursor, mark string) {
	v.lineNumberStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(lineNumbers))
	v.cursorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(cursor)).Bold(true)
	v.markStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(mark))
}

// SetMarks sets the marked original line indices
func (v *Viewport) SetMarks(marks map[int]bool) {
	v.marks = marks
}

// SetSize updates viewport dimensions
func (v *Viewport) SetSize(width, height int) {
	v.width = width
	v.height = height
	v.clamp()
}

// Height returns the number of content rows
func (v *Viewport) Height() int {
	return v.height
}

// MoveCursor moves the cursor by n lines, scrolling to keep it in view
func (v *Viewport) MoveCursor(n int) {
	v.cursor += n
	v.clamp()
	v.follow()
}

// SetCursor places the cursor on a provider index, scrolling to keep it in
// view
func (v *Viewport) SetCursor(index int) {
	v.cursor = index
	v.clamp()
	v.follow()
}

// Cursor returns the provider index under the cursor
func (v *Viewport) Cursor() int {
	return v.cursor
}

// PageDown moves down by one page
func (v *Viewport) PageDown() {
	v.scrollOffset += v.height - 1
	v.MoveCursor(v.height - 1)
}

// PageUp moves up by one page
func (v *Viewport) PageUp() {
	v.scrollOffset -= v.height - 1
	v.MoveCursor(-(v.height - 1))
}

// GotoTop moves to the beginning
func (v *Viewport) GotoTop() {
	v.scrollOffset = 0
	v.SetCursor(0)
}

// GotoBottom moves to the end
func (v *Viewport) GotoBottom() {
	if v.provider == nil {
		return
	}
	v.SetCursor(v.provider.LineCount() - 1)
}

// Reveal scrolls so that index is visible. centered puts it in the middle
// of the viewport.
func (v *Viewport) Reveal(index int, centered bool) {
	if centered {
		v.scrollOffset = index - v.height/2
		v.clamp()
		return
	}
	if index < v.scrollOffset || index >= v.scrollOffset+v.height {
		v.scrollOffset = index
		v.clamp()
	}
}

// ScrollOffset returns the first visible provider index
func (v *Viewport) ScrollOffset() int {
	return v.scrollOffset
}

// follow scrolls the minimum amount to show the cursor
func (v *Viewport) follow() {
	if v.cursor < v.scrollOffset {
		v.scrollOffset = v.cursor
	}
	if v.height > 0 && v.cursor >= v.scrollOffset+v.height {
		v.scrollOffset = v.cursor - v.height + 1
	}
	v.clamp()
}

// clamp keeps cursor and scroll offset within bounds
func (v *Viewport) clamp() {
	if v.provider == nil {
		v.scrollOffset = 0
		v.cursor = 0
		return
	}

	count := v.provider.LineCount()
	v.cursor = max(0, min(v.cursor, count-1))

	maxScroll := max(0, count-v.height)
	v.scrollOffset = max(0, min(v.scrollOffset, maxScroll))
}

// Render returns the viewport content as a string
func (v *Viewport) Render() string {
	if v.provider == nil {
		return ""
	}
	v.clamp()

	lines, err := v.provider.GetLines(v.scrollOffset, v.height)
	if err != nil {
		return fmt.Sprintf("Error: %v", err)
	}

	var builder strings.Builder
	lineNumWidth := len(fmt.Sprintf("%d", v.maxLineNumber()))

	for i, line := range lines {
		if i > 0 {
			builder.WriteString("\n")
		}

		if v.showLineNumbers {
			numStr := fmt.Sprintf("%*d ", lineNumWidth, line.OriginalIndex+1)
			switch {
			case v.scrollOffset+i == v.cursor:
				builder.WriteString(v.cursorStyle.Render(numStr))
			case v.marks[line.OriginalIndex]:
				builder.WriteString(v.markStyle.Render(numStr))
			default:
				builder.WriteString(v.lineNumberStyle.Render(numStr))
			}
		} else if v.scrollOffset+i == v.cursor {
			builder.WriteString(v.cursorStyle.Render(">"))
		} else {
			builder.WriteString(" ")
		}

		builder.WriteString(v.renderer.Render(line))
	}

	// Pad with empty lines if needed
	for i := len(lines); i < v.height; i++ {
		if i > 0 {
			builder.WriteString("\n")
		}
		builder.WriteString("~")
	}

	return builder.String()
}

// maxLineNumber is the largest original line number shown, for gutter width
func (v *Viewport) maxLineNumber() int {
	count := v.provider.LineCount()
	if count == 0 {
		return 1
	}
	last, err := v.provider.GetLine(count - 1)
	if err != nil || last == nil {
		return count
	}
	return last.OriginalIndex + 1
}

// PercentScrolled returns how far through the content the cursor is
func (v *Viewport) PercentScrolled() float64 {
	if v.provider == nil || v.provider.LineCount() <= 1 {
		return 100
	}
	return float64(v.cursor) / float64(v.provider.LineCount()-1) * 100
}

// SetShowLineNumbers toggles line numbers
func (v *Viewport) SetShowLineNumbers(show bool) {
	v.showLineNumbers = show
}
