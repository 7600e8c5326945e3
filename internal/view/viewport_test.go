package view

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/TimelordUK/mfold/internal/source"
)

type sliceProvider []string

func (p sliceProvider) LineCount() int { return len(p) }

func (p sliceProvider) GetLine(i int) (*source.Line, error) {
	if i < 0 || i >= len(p) {
		return nil, nil
	}
	return &source.Line{Content: []byte(p[i]), OriginalIndex: i}, nil
}

func (p sliceProvider) GetLines(start, count int) ([]*source.Line, error) {
	var lines []*source.Line
	for i := start; i < start+count && i < len(p); i++ {
		line, _ := p.GetLine(i)
		lines = append(lines, line)
	}
	return lines, nil
}

func numbered(n int) sliceProvider {
	p := make(sliceProvider, n)
	for i := range p {
		p[i] = fmt.Sprintf("line %d", i)
	}
	return p
}

func TestViewport_CursorFollows(t *testing.T) {
	v := NewViewport(80, 10)
	v.SetProvider(numbered(100))

	v.MoveCursor(15)
	assert.Equal(t, 15, v.Cursor())
	assert.Equal(t, 6, v.ScrollOffset())

	v.MoveCursor(-200)
	assert.Equal(t, 0, v.Cursor())
	assert.Equal(t, 0, v.ScrollOffset())

	v.GotoBottom()
	assert.Equal(t, 99, v.Cursor())
	assert.Equal(t, 90, v.ScrollOffset())
	assert.InDelta(t, 100.0, v.PercentScrolled(), 0.001)
}

func TestViewport_Reveal(t *testing.T) {
	v := NewViewport(80, 10)
	v.SetProvider(numbered(100))

	v.Reveal(50, true)
	assert.Equal(t, 45, v.ScrollOffset())

	v.Reveal(52, false)
	assert.Equal(t, 45, v.ScrollOffset(), "already visible")

	v.Reveal(80, false)
	assert.Equal(t, 80, v.ScrollOffset())

	v.Reveal(2, true)
	assert.Equal(t, 0, v.ScrollOffset())
}

func TestViewport_Render(t *testing.T) {
	v := NewViewport(80, 4)
	v.SetProvider(numbered(2))

	out := v.Render()
	rows := strings.Split(out, "\n")
	assert.Len(t, rows, 4)
	assert.Contains(t, rows[0], "line 0")
	assert.Contains(t, rows[1], "line 1")
	assert.Equal(t, "~", rows[2])
}
