package main

import (
	_ "embed"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/key"
)

//go:embed relq.default.json
var defaultConfigJSON []byte

// Config holds all relq configuration
type Config struct {
	Accent string       `json:"accent"`
	Qna    QnaConfig    `json:"qna"`
	Docs   DocsConfig   `json:"docs"`
	Keys   KeyMapConfig `json:"keys"`
}

// QnaConfig describes the external evaluator
type QnaConfig struct {
	Path           string `json:"path"`
	TimeoutSeconds int    `json:"timeout_seconds"`
	ShowTypes      bool   `json:"showtypes"`
}

// Timeout converts the configured limit; zero means no limit.
func (q QnaConfig) Timeout() time.Duration {
	return time.Duration(q.TimeoutSeconds) * time.Second
}

// DocsConfig points at the bundled inspector database
type DocsConfig struct {
	Database string `json:"database"`
}

// KeyMapConfig defines key bindings in config file format
type KeyMapConfig struct {
	Evaluate       []string `json:"evaluate"`
	EvaluateOne    []string `json:"evaluate_one"`
	Cancel         []string `json:"cancel"`
	RemoveResults  []string `json:"remove_results"`
	Save           []string `json:"save"`
	Pretty         []string `json:"pretty"`
	Compact        []string `json:"compact"`
	ToggleTokens   []string `json:"toggle_tokens"`
	ToggleResults  []string `json:"toggle_results"`
	ToggleDebug    []string `json:"toggle_debug"`
	Docs           []string `json:"docs"`
	Search         []string `json:"search"`
	CommandPalette []string `json:"command_palette"`
	Autocomplete   []string `json:"autocomplete"`
	CyclePane      []string `json:"cycle_pane"`
	ClosePane      []string `json:"close_pane"`
	Quit           []string `json:"quit"`
	ShowKeys       []string `json:"show_keys"`

	Up    []string `json:"up"`
	Down  []string `json:"down"`
	Left  []string `json:"left"`
	Right []string `json:"right"`
	Home  []string `json:"home"`
	End   []string `json:"end"`
	PgUp  []string `json:"pgup"`
	PgDn  []string `json:"pgdn"`

	Backspace []string `json:"backspace"`
	Delete    []string `json:"delete"`
}

// LoadConfig loads configuration from first found config file
func LoadConfig() Config {
	paths := []string{
		"relq.json",
		filepath.Join(os.Getenv("HOME"), ".config", "relq", "relq.json"),
		"relq.default.json",
	}

	for _, path := range paths {
		if cfg, err := loadConfigFile(path); err == nil {
			return cfg
		}
	}

	// Fall back to embedded default config
	var cfg Config
	if err := json.Unmarshal(defaultConfigJSON, &cfg); err != nil {
		panic("embedded default config is invalid: " + err.Error())
	}
	return cfg
}

func loadConfigFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// ToKeyMap converts config to KeyMap
func (c *Config) ToKeyMap() KeyMap {
	return KeyMap{
		Evaluate:       c.binding(c.Keys.Evaluate, "evaluate all"),
		EvaluateOne:    c.binding(c.Keys.EvaluateOne, "evaluate query"),
		Cancel:         c.binding(c.Keys.Cancel, "cancel"),
		RemoveResults:  c.binding(c.Keys.RemoveResults, "remove results"),
		Save:           c.binding(c.Keys.Save, "save"),
		Pretty:         c.binding(c.Keys.Pretty, "pretty-print"),
		Compact:        c.binding(c.Keys.Compact, "compact"),
		ToggleTokens:   c.binding(c.Keys.ToggleTokens, "tokens"),
		ToggleResults:  c.binding(c.Keys.ToggleResults, "results"),
		ToggleDebug:    c.binding(c.Keys.ToggleDebug, "debug"),
		Docs:           c.binding(c.Keys.Docs, "docs"),
		Search:         c.binding(c.Keys.Search, "search"),
		CommandPalette: c.binding(c.Keys.CommandPalette, "commands"),
		Autocomplete:   c.binding(c.Keys.Autocomplete, "complete"),
		CyclePane:      c.binding(c.Keys.CyclePane, "cycle pane"),
		ClosePane:      c.binding(c.Keys.ClosePane, "close pane"),
		Quit:           c.binding(c.Keys.Quit, "quit"),
		ShowKeys:       c.binding(c.Keys.ShowKeys, "help"),

		Up:    c.binding(c.Keys.Up, "up"),
		Down:  c.binding(c.Keys.Down, "down"),
		Left:  c.binding(c.Keys.Left, "left"),
		Right: c.binding(c.Keys.Right, "right"),
		Home:  c.binding(c.Keys.Home, "line start"),
		End:   c.binding(c.Keys.End, "line end"),
		PgUp:  c.binding(c.Keys.PgUp, "page up"),
		PgDn:  c.binding(c.Keys.PgDn, "page down"),

		Backspace: c.binding(c.Keys.Backspace, "delete back"),
		Delete:    c.binding(c.Keys.Delete, "delete forward"),
	}
}

// binding creates a key binding, returning disabled binding if keys is empty
func (c *Config) binding(keys []string, help string) key.Binding {
	if len(keys) == 0 {
		return key.NewBinding(key.WithDisabled())
	}
	return key.NewBinding(
		key.WithKeys(keys...),
		key.WithHelp(keys[0], help),
	)
}
