package export

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/TimelordUK/mfold/internal/source"
)

// Info describes a finished export
type Info struct {
	SourcePath string // File the lines came from
	OutputPath string // Where they were written
	Lines      int    // Lines written
	Folded     int    // Hidden lines summarised by fold markers
}

// Exporter writes the visible lines of a provider, so the folded outline
// of a file can be saved or piped elsewhere
type Exporter struct {
	outputDir string
	markers   bool
}

// NewExporter creates an exporter writing to the temp dir
func NewExporter() *Exporter {
	return &Exporter{
		outputDir: os.TempDir(),
	}
}

// WithMarkers appends a "⋯ N lines" marker to folded header lines
func (e *Exporter) WithMarkers(on bool) *Exporter {
	e.markers = on
	return e
}

// DefaultPath returns the output path used for sourcePath when none is given
func (e *Exporter) DefaultPath(sourcePath string) string {
	return filepath.Join(e.outputDir, fmt.Sprintf("mfold-outline-%s", filepath.Base(sourcePath)))
}

// Write copies every line of provider to w
func (e *Exporter) Write(w io.Writer, provider source.LineProvider) (*Info, error) {
	bw := bufio.NewWriter(w)
	info := &Info{}

	count := provider.LineCount()
	for i := 0; i < count; i++ {
		line, err := provider.GetLine(i)
		if err != nil {
			return nil, fmt.Errorf("failed to read line %d: %w", i, err)
		}
		if line == nil {
			continue
		}

		if _, err := bw.Write(line.Content); err != nil {
			return nil, fmt.Errorf("failed to write line %d: %w", i, err)
		}
		if e.markers && line.FoldedLines > 0 {
			fmt.Fprintf(bw, " ⋯ %d", line.FoldedLines)
		}
		if err := bw.WriteByte('\n'); err != nil {
			return nil, fmt.Errorf("failed to write newline: %w", err)
		}

		info.Lines++
		info.Folded += line.FoldedLines
	}

	if err := bw.Flush(); err != nil {
		return nil, err
	}
	return info, nil
}

// WriteFile writes provider to path, or to DefaultPath(sourcePath) when path
// is empty. A partial file is removed on failure.
func (e *Exporter) WriteFile(path, sourcePath string, provider source.LineProvider) (*Info, error) {
	if path == "" {
		path = e.DefaultPath(sourcePath)
	}

	outFile, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create export file: %w", err)
	}

	info, err := e.Write(outFile, provider)
	if cerr := outFile.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(path)
		return nil, err
	}

	info.SourcePath = sourcePath
	info.OutputPath = path
	return info, nil
}
