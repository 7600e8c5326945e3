package source

// Line represents a single line with display metadata
type Line struct {
	Content       []byte
	OriginalIndex int // line number in the document
	FoldedLines   int // lines hidden under this line when it heads a fold
}

// LineProvider is the core abstraction for accessing lines
// The viewport only interacts with this interface
type LineProvider interface {
	// LineCount returns total number of lines
	LineCount() int

	// GetLine returns line at index (0-based)
	GetLine(index int) (*Line, error)

	// GetLines returns a range of lines efficiently
	GetLines(start, count int) ([]*Line, error)
}

// Texts reads every line of provider as a string
func Texts(provider LineProvider) ([]string, error) {
	lines, err := provider.GetLines(0, provider.LineCount())
	if err != nil {
		return nil, err
	}

	texts := make([]string, len(lines))
	for i, line := range lines {
		texts[i] = string(line.Content)
	}
	return texts, nil
}
