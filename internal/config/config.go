package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// Config holds all application configuration
type Config struct {
	Theme       ThemeConfig      `toml:"theme"`
	Keybindings KeybindingConfig `toml:"keybindings"`
	Display     DisplayConfig    `toml:"display"`
	Log         LogConfig        `toml:"log"`
}

// ThemeConfig defines color schemes
type ThemeConfig struct {
	LineNumbers   string `toml:"line_numbers"`
	Cursor        string `toml:"cursor"`
	Mark          string `toml:"mark"`
	FoldMarker    string `toml:"fold_marker"`
	StatusBar     string `toml:"status_bar"`
	StatusBarText string `toml:"status_bar_text"`
	Error         string `toml:"error"`
	SyntaxStyle   string `toml:"syntax_style"`
}

// KeybindingConfig allows customizing keybindings
type KeybindingConfig struct {
	Quit       []string `toml:"quit"`
	Up         []string `toml:"up"`
	Down       []string `toml:"down"`
	PageUp     []string `toml:"page_up"`
	PageDown   []string `toml:"page_down"`
	Top        []string `toml:"top"`
	Bottom     []string `toml:"bottom"`
	Goto       []string `toml:"goto"`
	Export     []string `toml:"export"`
	ToggleMark []string `toml:"toggle_mark"`
	Search     []string `toml:"search"`
	NextMatch  []string `toml:"next_match"`
	PrevMatch  []string `toml:"prev_match"`

	FoldLevelOfCursor []string `toml:"fold_level_of_cursor"`
	FoldLevelOfParent []string `toml:"fold_level_of_parent"`
	FoldChildren      []string `toml:"fold_children"`
	FoldMarked        []string `toml:"fold_marked"`
	FoldAllExcept     []string `toml:"fold_all_except"`
	Unfold            []string `toml:"unfold"`
	UnfoldRecursively []string `toml:"unfold_recursively"`
	FoldAll           []string `toml:"fold_all"`
	UnfoldAll         []string `toml:"unfold_all"`
	Toggle            []string `toml:"toggle"`
}

// DisplayConfig holds display options
type DisplayConfig struct {
	ShowLineNumbers bool `toml:"show_line_numbers"`
	TabWidth        int  `toml:"tab_width"`
	Syntax          bool `toml:"syntax"`
	Watch           bool `toml:"watch"`
}

// LogConfig controls the log file
type LogConfig struct {
	Level  string `toml:"level"`
	File   string `toml:"file"`
	Format string `toml:"format"` // "console" or "json"
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Theme: ThemeConfig{
			LineNumbers:   "240", // Dark gray
			Cursor:        "226", // Yellow
			Mark:          "39",  // Blue
			FoldMarker:    "244", // Medium gray
			StatusBar:     "236",
			StatusBarText: "252",
			Error:         "167", // Soft red
			SyntaxStyle:   "monokai",
		},
		Keybindings: KeybindingConfig{
			Quit:       []string{"q", "ctrl+c"},
			Up:         []string{"k", "up"},
			Down:       []string{"j", "down"},
			PageUp:     []string{"b", "pgup", "ctrl+u"},
			PageDown:   []string{"f", "pgdown", "ctrl+d", " "},
			Top:        []string{"g", "home"},
			Bottom:     []string{"G", "end"},
			Goto:       []string{":"},
			Export:     []string{"w"},
			ToggleMark: []string{"m"},
			Search:     []string{"/"},
			NextMatch:  []string{"n"},
			PrevMatch:  []string{"N"},

			FoldLevelOfCursor: []string{"z"},
			FoldLevelOfParent: []string{"Z"},
			FoldChildren:      []string{"c"},
			FoldMarked:        []string{"F"},
			FoldAllExcept:     []string{"e"},
			Unfold:            []string{"o"},
			UnfoldRecursively: []string{"O"},
			FoldAll:           []string{"M"},
			UnfoldAll:         []string{"R"},
			Toggle:            []string{"tab", "enter"},
		},
		Display: DisplayConfig{
			ShowLineNumbers: true,
			TabWidth:        4,
			Syntax:          true,
			Watch:           true,
		},
		Log: LogConfig{
			Level:  "info",
			File:   filepath.Join(os.TempDir(), "mfold.log"),
			Format: "console",
		},
	}
}

// Validate checks values that would break folding
func (c *Config) Validate() error {
	if c.Display.TabWidth <= 0 {
		return fmt.Errorf("display.tab_width must be positive, got %d", c.Display.TabWidth)
	}
	return nil
}

// Load loads config from the user config file, falling back to defaults
func Load() (*Config, error) {
	return LoadFile(getConfigPath())
}

// LoadFile loads config from path over the defaults. A missing file or an
// empty path yields the defaults.
func LoadFile(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return cfg, nil
}

// Save saves config to the user config file
func Save(cfg *Config) error {
	configPath := getConfigPath()
	if configPath == "" {
		return nil
	}

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return err
	}

	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}

	return os.WriteFile(configPath, data, 0644)
}

// getConfigPath returns the config file path
func getConfigPath() string {
	// Check XDG_CONFIG_HOME first
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "mfold", "config.toml")
	}

	// Fall back to ~/.config
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	return filepath.Join(home, ".config", "mfold", "config.toml")
}

// GetConfigPath exports the config path for user reference
func GetConfigPath() string {
	return getConfigPath()
}
