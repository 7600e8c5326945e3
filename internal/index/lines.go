package index

import (
	"bytes"

	mfoldio "github.com/TimelordUK/mfold/internal/io"
)

const chunkSize = 64 * 1024

// LineIndex stores the byte offset of each line start in a mapped file
type LineIndex struct {
	offsets []int64
	file    *mfoldio.MappedFile
}

// BuildLineIndex scans the file in chunks and records every line start.
// A trailing newline does not start an extra line; an empty file has one
// empty line.
func BuildLineIndex(file *mfoldio.MappedFile) (*LineIndex, error) {
	size := file.Size()
	offsets := make([]int64, 1, size/64+1)

	buf := make([]byte, chunkSize)
	for pos := int64(0); pos < size; {
		n := chunkSize
		if rest := size - pos; rest < int64(n) {
			n = int(rest)
		}

		n, err := file.ReadAt(buf[:n], pos)
		if err != nil {
			return nil, err
		}

		chunk := buf[:n]
		for off := 0; ; {
			i := bytes.IndexByte(chunk[off:], '\n')
			if i < 0 {
				break
			}
			off += i + 1
			if start := pos + int64(off); start < size {
				offsets = append(offsets, start)
			}
		}
		pos += int64(n)
	}

	return &LineIndex{offsets: offsets, file: file}, nil
}

// LineCount returns the total number of lines
func (idx *LineIndex) LineCount() int {
	return len(idx.offsets)
}

// GetLine returns line lineNum without its line ending, or nil when out of
// range
func (idx *LineIndex) GetLine(lineNum int) ([]byte, error) {
	if lineNum < 0 || lineNum >= len(idx.offsets) {
		return nil, nil
	}

	end := idx.file.Size()
	if lineNum+1 < len(idx.offsets) {
		end = idx.offsets[lineNum+1]
	}

	content, err := idx.file.ReadRange(idx.offsets[lineNum], end)
	if err != nil {
		return nil, err
	}
	return bytes.TrimRight(content, "\r\n"), nil
}

// GetLines returns up to count lines starting at start
func (idx *LineIndex) GetLines(start, count int) ([][]byte, error) {
	if start < 0 {
		start = 0
	}
	if start >= len(idx.offsets) {
		return nil, nil
	}
	count = min(count, len(idx.offsets)-start)

	lines := make([][]byte, count)
	for i := range lines {
		line, err := idx.GetLine(start + i)
		if err != nil {
			return nil, err
		}
		lines[i] = line
	}
	return lines, nil
}

// Texts returns every line as a string
func (idx *LineIndex) Texts() ([]string, error) {
	lines, err := idx.GetLines(0, len(idx.offsets))
	if err != nil {
		return nil, err
	}

	texts := make([]string, len(lines))
	for i, line := range lines {
		texts[i] = string(line)
	}
	return texts, nil
}
