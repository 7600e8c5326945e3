package source

import (
	"github.com/TimelordUK/mfold/internal/index"
	mfoldio "github.com/TimelordUK/mfold/internal/io"
)

// FileSource provides lines from a single file
type FileSource struct {
	file      *mfoldio.MappedFile
	lineIndex *index.LineIndex
	path      string
}

// NewFileSource maps path and indexes its lines
func NewFileSource(path string) (*FileSource, error) {
	file, err := mfoldio.OpenMapped(path)
	if err != nil {
		return nil, err
	}

	lineIndex, err := index.BuildLineIndex(file)
	if err != nil {
		file.Close()
		return nil, err
	}

	return &FileSource{
		file:      file,
		lineIndex: lineIndex,
		path:      path,
	}, nil
}

// LineCount returns total number of lines
func (s *FileSource) LineCount() int {
	return s.lineIndex.LineCount()
}

// GetLine returns line at idx, or nil when out of range
func (s *FileSource) GetLine(idx int) (*Line, error) {
	if idx < 0 || idx >= s.LineCount() {
		return nil, nil
	}

	content, err := s.lineIndex.GetLine(idx)
	if err != nil {
		return nil, err
	}
	return &Line{Content: content, OriginalIndex: idx}, nil
}

// GetLines returns a range of lines
func (s *FileSource) GetLines(start, count int) ([]*Line, error) {
	rawLines, err := s.lineIndex.GetLines(start, count)
	if err != nil {
		return nil, err
	}

	lines := make([]*Line, len(rawLines))
	for i, content := range rawLines {
		lines[i] = &Line{
			Content:       content,
			OriginalIndex: start + i,
		}
	}
	return lines, nil
}

// Texts returns every line as a string
func (s *FileSource) Texts() ([]string, error) {
	return s.lineIndex.Texts()
}

// Close closes the file source
func (s *FileSource) Close() error {
	return s.file.Close()
}

// Path returns the file path
func (s *FileSource) Path() string {
	return s.path
}

// Reload re-indexes the file if it changed on disk. Returns true when the
// content was reloaded.
func (s *FileSource) Reload() (bool, error) {
	changed, err := s.file.Refresh()
	if err != nil || !changed {
		return false, err
	}

	lineIndex, err := index.BuildLineIndex(s.file)
	if err != nil {
		return false, err
	}
	s.lineIndex = lineIndex
	return true, nil
}
