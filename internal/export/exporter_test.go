package export

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TimelordUK/mfold/internal/source"
)

type lines []source.Line

func (l lines) LineCount() int { return len(l) }

func (l lines) GetLine(i int) (*source.Line, error) {
	if i < 0 || i >= len(l) {
		return nil, nil
	}
	line := l[i]
	return &line, nil
}

func (l lines) GetLines(start, count int) ([]*source.Line, error) {
	var out []*source.Line
	for i := start; i < start+count && i < len(l); i++ {
		line, _ := l.GetLine(i)
		out = append(out, line)
	}
	return out, nil
}

var outline = lines{
	{Content: []byte("a"), OriginalIndex: 0},
	{Content: []byte("  b"), OriginalIndex: 1, FoldedLines: 2},
	{Content: []byte("  e"), OriginalIndex: 4},
}

func TestWrite(t *testing.T) {
	var buf bytes.Buffer
	info, err := NewExporter().Write(&buf, outline)
	require.NoError(t, err)

	assert.Equal(t, "a\n  b\n  e\n", buf.String())
	assert.Equal(t, 3, info.Lines)
	assert.Equal(t, 2, info.Folded)
}

func TestWrite_Markers(t *testing.T) {
	var buf bytes.Buffer
	_, err := NewExporter().WithMarkers(true).Write(&buf, outline)
	require.NoError(t, err)

	assert.Equal(t, "a\n  b ⋯ 2\n  e\n", buf.String())
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")

	info, err := NewExporter().WriteFile(path, "/src/doc.py", outline)
	require.NoError(t, err)
	assert.Equal(t, path, info.OutputPath)
	assert.Equal(t, "/src/doc.py", info.SourcePath)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 3, strings.Count(string(data), "\n"))
}

func TestDefaultPath(t *testing.T) {
	e := NewExporter()
	assert.Equal(t, filepath.Join(os.TempDir(), "mfold-outline-doc.py"), e.DefaultPath("/src/doc.py"))
}

type failing struct{ lines }

func (f failing) GetLine(i int) (*source.Line, error) {
	if i == 1 {
		return nil, errors.New("boom")
	}
	return f.lines.GetLine(i)
}

func TestWriteFile_RemovesPartial(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")

	_, err := NewExporter().WriteFile(path, "doc", failing{outline})
	require.Error(t, err)

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}
