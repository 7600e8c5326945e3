package render

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/TimelordUK/mfold/internal/source"
)

// Renderer applies styling to lines
type Renderer interface {
	Render(line *source.Line) string
}

// PlainRenderer renders without styling
type PlainRenderer struct{}

// NewPlainRenderer creates a plain renderer
func NewPlainRenderer() *PlainRenderer {
	return &PlainRenderer{}
}

// Render returns the line content as-is
func (r *PlainRenderer) Render(line *source.Line) string {
	return string(line.Content)
}

// FoldRenderer marks folded headers with the number of hidden lines
type FoldRenderer struct {
	inner  Renderer
	marker lipgloss.Style
}

// NewFoldRenderer wraps inner. color is a lipgloss color for the marker.
func NewFoldRenderer(inner Renderer, color string) *FoldRenderer {
	if inner == nil {
		inner = NewPlainRenderer()
	}
	return &FoldRenderer{
		inner:  inner,
		marker: lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Italic(true),
	}
}

// Render renders the line and appends a fold marker when lines are hidden
// under it
func (r *FoldRenderer) Render(line *source.Line) string {
	content := r.inner.Render(line)
	if line.FoldedLines == 0 {
		return content
	}
	return content + " " + r.marker.Render(Marker(line.FoldedLines))
}

// Marker is the placeholder text for n hidden lines
func Marker(n int) string {
	if n == 1 {
		return "⋯ 1 line"
	}
	return fmt.Sprintf("⋯ %d lines", n)
}
