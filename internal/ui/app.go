package ui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/TimelordUK/mfold/internal/config"
)

// Mode represents the current UI mode
type Mode int

const (
	ModeNormal Mode = iota
	ModeSearch
	ModeGoto
	ModeExport
)

// Model is the main application model
type Model struct {
	pane    *Pane
	keys    KeyMap
	config  *config.Config
	log     *zap.Logger
	watcher *Watcher

	input textinput.Model
	mode  Mode

	width  int
	height int

	// Status
	message string
	err     error
}

// NewModel creates a new application model. logger may be nil.
func NewModel(filePath string, cfg *config.Config, logger *zap.Logger) (*Model, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	pane, err := NewPane(filePath, cfg, logger)
	if err != nil {
		return nil, err
	}

	ti := textinput.New()
	ti.CharLimit = 256

	m := &Model{
		pane:   pane,
		keys:   NewKeyMap(cfg.Keybindings),
		config: cfg,
		log:    logger.Named("ui"),
		input:  ti,
		mode:   ModeNormal,
	}

	if cfg.Display.Watch {
		w, err := NewWatcher(filePath)
		if err != nil {
			// the viewer still works without live reload
			m.log.Warn("file watch disabled", zap.Error(err))
		} else {
			m.watcher = w
		}
	}

	return m, nil
}

// Pane returns the model's pane
func (m *Model) Pane() *Pane {
	return m.pane
}

// Init implements tea.Model
func (m *Model) Init() tea.Cmd {
	return m.waitForChange()
}

func (m *Model) waitForChange() tea.Cmd {
	if m.watcher == nil {
		return nil
	}
	return m.watcher.Wait()
}

// Update implements tea.Model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		// Reserve 2 lines for status bar and help
		m.pane.SetSize(msg.Width, max(1, msg.Height-2))
		return m, nil

	case fileChangedMsg:
		changed, err := m.pane.Reload()
		switch {
		case err != nil:
			m.setError(err)
		case changed:
			m.message = "reloaded"
		}
		return m, m.waitForChange()

	case watchErrMsg:
		m.log.Warn("watch error", zap.Error(msg.err))
		return m, m.waitForChange()
	}

	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.mode {
	case ModeSearch, ModeGoto, ModeExport:
		return m.handlePromptKey(msg)
	}

	m.err = nil
	m.message = ""
	ctx := context.Background()
	vp := m.pane.Viewport()

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Down):
		vp.MoveCursor(1)
	case key.Matches(msg, m.keys.Up):
		vp.MoveCursor(-1)
	case key.Matches(msg, m.keys.PageDown):
		vp.PageDown()
	case key.Matches(msg, m.keys.PageUp):
		vp.PageUp()
	case key.Matches(msg, m.keys.Top):
		vp.GotoTop()
	case key.Matches(msg, m.keys.Bottom):
		vp.GotoBottom()

	case key.Matches(msg, m.keys.FoldLevelOfCursor):
		m.setError(m.pane.FoldLevelOfCursor(ctx))
	case key.Matches(msg, m.keys.FoldLevelOfParent):
		m.setError(m.pane.FoldLevelOfParent(ctx))
	case key.Matches(msg, m.keys.FoldChildren):
		m.setError(m.pane.FoldChildren(ctx))
	case key.Matches(msg, m.keys.FoldMarked):
		m.setError(m.pane.FoldMarked(ctx))
	case key.Matches(msg, m.keys.FoldAllExcept):
		m.setError(m.pane.FoldAllExcept(ctx))
	case key.Matches(msg, m.keys.Unfold):
		m.setError(m.pane.UnfoldAtCursor(ctx))
	case key.Matches(msg, m.keys.UnfoldRecursively):
		m.setError(m.pane.UnfoldRecursivelyAtCursor(ctx))
	case key.Matches(msg, m.keys.FoldAll):
		m.setError(m.pane.FoldEverything(ctx))
	case key.Matches(msg, m.keys.UnfoldAll):
		m.pane.UnfoldEverything()
	case key.Matches(msg, m.keys.Toggle):
		if !m.pane.ToggleAtCursor() {
			m.message = "nothing to fold here"
		}

	case key.Matches(msg, m.keys.ToggleMark):
		m.pane.ToggleMark()
	case key.Matches(msg, m.keys.Search):
		return m, m.prompt(ModeSearch, "Search...")
	case key.Matches(msg, m.keys.NextMatch):
		m.pane.NextSearchResult()
	case key.Matches(msg, m.keys.PrevMatch):
		m.pane.PrevSearchResult()
	case key.Matches(msg, m.keys.Goto):
		return m, m.prompt(ModeGoto, "Line number...")
	case key.Matches(msg, m.keys.Export):
		return m, m.prompt(ModeExport, m.pane.exporter.DefaultPath(m.pane.SourcePath()))
	}

	return m, nil
}

// prompt switches to an input mode
func (m *Model) prompt(mode Mode, placeholder string) tea.Cmd {
	m.mode = mode
	m.input.SetValue("")
	m.input.Placeholder = placeholder
	m.input.Focus()
	return textinput.Blink
}

func (m *Model) handlePromptKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		value := strings.TrimSpace(m.input.Value())
		mode := m.mode
		m.mode = ModeNormal
		m.input.Blur()
		m.submit(mode, value)
		return m, nil

	case "esc":
		m.mode = ModeNormal
		m.input.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) submit(mode Mode, value string) {
	switch mode {
	case ModeSearch:
		m.pane.PerformSearch(value)
		if value != "" && len(m.pane.SearchResults()) == 0 {
			m.message = "no matches"
		}

	case ModeGoto:
		lineNum, err := strconv.Atoi(value)
		if err != nil || lineNum <= 0 {
			m.message = fmt.Sprintf("invalid line %q", value)
			return
		}
		m.pane.GotoLine(lineNum)

	case ModeExport:
		info, err := m.pane.Export(value)
		if err != nil {
			m.setError(err)
			return
		}
		m.message = fmt.Sprintf("wrote %d lines to %s", info.Lines, info.OutputPath)
	}
}

func (m *Model) setError(err error) {
	if err == nil {
		return
	}
	m.err = err
	m.log.Debug("command error", zap.Error(err))
}

// View implements tea.Model
func (m *Model) View() string {
	var builder strings.Builder

	builder.WriteString(m.pane.Render())
	builder.WriteString("\n")

	theme := m.config.Theme
	statusStyle := lipgloss.NewStyle().
		Background(lipgloss.Color(theme.StatusBar)).
		Foreground(lipgloss.Color(theme.StatusBarText)).
		Width(m.width)

	var status string
	switch m.mode {
	case ModeSearch:
		status = "/" + m.input.View()
	case ModeGoto:
		status = ":" + m.input.View()
	case ModeExport:
		status = "write: " + m.input.View()
	default:
		status = m.statusLine()
	}

	builder.WriteString(statusStyle.Render(status))
	builder.WriteString("\n")

	helpStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(theme.LineNumbers))
	builder.WriteString(helpStyle.Render(m.helpLine()))

	return builder.String()
}

// statusLine shows position, level, folds, marks and the last error
func (m *Model) statusLine() string {
	p := m.pane
	parts := []string{
		" " + p.Filename(),
		fmt.Sprintf("L%d/%d", p.CursorLine()+1, p.LineCount()),
		fmt.Sprintf("lvl %d", p.CursorLevel()),
		fmt.Sprintf("%d folded", p.FoldCount()),
		fmt.Sprintf("%.0f%%", p.Viewport().PercentScrolled()),
	}
	if marks := p.Marks(); len(marks) > 0 {
		parts = append(parts, fmt.Sprintf("%d marked", len(marks)))
	}
	if term := p.SearchTerm(); term != "" {
		parts = append(parts, fmt.Sprintf("[%d matches]", len(p.SearchResults())))
	}

	status := strings.Join(parts, "  ")
	switch {
	case m.err != nil:
		errStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.config.Theme.Error))
		status += "  " + errStyle.Render(m.err.Error())
	case m.message != "":
		status += "  " + m.message
	}
	return status
}

func (m *Model) helpLine() string {
	var parts []string
	for _, b := range m.keys.ShortHelp() {
		h := b.Help()
		if h.Key == "" {
			continue
		}
		parts = append(parts, h.Key+":"+h.Desc)
	}
	return strings.Join(parts, "  ")
}

// Err returns the last command error shown in the status bar
func (m *Model) Err() error {
	return m.err
}

// Message returns the last status message
func (m *Model) Message() string {
	return m.message
}

// Close cleans up resources
func (m *Model) Close() error {
	if m.watcher != nil {
		m.watcher.Close()
	}
	return m.pane.Close()
}
