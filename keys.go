package main

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all keybindings for relq
type KeyMap struct {
	// Evaluation
	Evaluate      key.Binding
	EvaluateOne   key.Binding
	Cancel        key.Binding
	RemoveResults key.Binding

	// Document
	Save    key.Binding
	Pretty  key.Binding
	Compact key.Binding

	// Panes
	ToggleTokens   key.Binding
	ToggleResults  key.Binding
	ToggleDebug    key.Binding
	Docs           key.Binding
	Search         key.Binding
	CommandPalette key.Binding
	Autocomplete   key.Binding
	CyclePane      key.Binding
	ClosePane      key.Binding

	Quit     key.Binding
	ShowKeys key.Binding

	// Navigation
	Up    key.Binding
	Down  key.Binding
	Left  key.Binding
	Right key.Binding
	Home  key.Binding
	End   key.Binding
	PgUp  key.Binding
	PgDn  key.Binding

	// Editing
	Backspace key.Binding
	Delete    key.Binding
}

// ShortHelp returns keybindings for the short help view
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Evaluate, k.RemoveResults, k.CommandPalette, k.ShowKeys, k.Quit}
}

// FullHelp returns keybindings for the full help view
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Evaluate, k.EvaluateOne, k.Cancel, k.RemoveResults},
		{k.Save, k.Pretty, k.Compact, k.Autocomplete},
		{k.ToggleTokens, k.ToggleResults, k.Docs, k.Search},
		{k.CommandPalette, k.ToggleDebug, k.CyclePane, k.ClosePane},
		{k.ShowKeys, k.Quit},
	}
}
