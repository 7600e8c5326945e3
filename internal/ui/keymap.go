package ui

import (
	"github.com/charmbracelet/bubbles/key"

	"github.com/TimelordUK/mfold/internal/config"
)

// KeyMap defines the viewer key bindings
type KeyMap struct {
	Quit                         key.Binding
	Up, Down                     key.Binding
	PageUp, PageDown             key.Binding
	Top, Bottom                  key.Binding
	Goto, Export, ToggleMark     key.Binding
	Search, NextMatch, PrevMatch key.Binding

	FoldLevelOfCursor key.Binding
	FoldLevelOfParent key.Binding
	FoldChildren      key.Binding
	FoldMarked        key.Binding
	FoldAllExcept     key.Binding
	Unfold            key.Binding
	UnfoldRecursively key.Binding
	FoldAll           key.Binding
	UnfoldAll         key.Binding
	Toggle            key.Binding
}

func binding(keys []string, desc string) key.Binding {
	help := ""
	if len(keys) > 0 {
		help = keys[0]
	}
	return key.NewBinding(key.WithKeys(keys...), key.WithHelp(help, desc))
}

// NewKeyMap builds the key map from configured key names
func NewKeyMap(kb config.KeybindingConfig) KeyMap {
	return KeyMap{
		Quit:       binding(kb.Quit, "quit"),
		Up:         binding(kb.Up, "up"),
		Down:       binding(kb.Down, "down"),
		PageUp:     binding(kb.PageUp, "page up"),
		PageDown:   binding(kb.PageDown, "page down"),
		Top:        binding(kb.Top, "top"),
		Bottom:     binding(kb.Bottom, "bottom"),
		Goto:       binding(kb.Goto, "goto"),
		Export:     binding(kb.Export, "export"),
		ToggleMark: binding(kb.ToggleMark, "mark"),
		Search:     binding(kb.Search, "search"),
		NextMatch:  binding(kb.NextMatch, "next match"),
		PrevMatch:  binding(kb.PrevMatch, "prev match"),

		FoldLevelOfCursor: binding(kb.FoldLevelOfCursor, "fold level"),
		FoldLevelOfParent: binding(kb.FoldLevelOfParent, "fold parent level"),
		FoldChildren:      binding(kb.FoldChildren, "fold children"),
		FoldMarked:        binding(kb.FoldMarked, "fold marked"),
		FoldAllExcept:     binding(kb.FoldAllExcept, "fold all except"),
		Unfold:            binding(kb.Unfold, "unfold"),
		UnfoldRecursively: binding(kb.UnfoldRecursively, "unfold all below"),
		FoldAll:           binding(kb.FoldAll, "fold all"),
		UnfoldAll:         binding(kb.UnfoldAll, "unfold all"),
		Toggle:            binding(kb.Toggle, "toggle"),
	}
}

// ShortHelp lists the bindings shown in the help line
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{
		k.FoldLevelOfCursor, k.FoldLevelOfParent, k.FoldChildren, k.FoldAllExcept,
		k.ToggleMark, k.Unfold, k.UnfoldAll, k.Goto, k.Export, k.Quit,
	}
}
