package main

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss/v2"
)

// TokenRow is one lexer span shown in the tokens pane.
type TokenRow struct {
	Lexeme string
	Kind   string
	Line   int
	Start  int
	End    int
}

// TokensMode determines how much of the document is tokenised.
type TokensMode int

const (
	TokensModeLine  TokensMode = iota // the cursor line only
	TokensModeQuery                   // the whole query under the cursor
)

// TokensPane shows live lexer output for the text under the cursor.
// The Model pushes fresh rows on every edit and cursor move; '~'
// toggles between line and query scope.
type TokensPane struct {
	rows     []TokenRow
	selected int
	mode     TokensMode

	selectedStyle lipgloss.Style
	normalStyle   lipgloss.Style
	kindStyle     lipgloss.Style
}

func NewTokensPane() *TokensPane {
	return &TokensPane{
		selectedStyle: lipgloss.NewStyle().Foreground(AccentColor),
		normalStyle:   lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
		kindStyle:     lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
	}
}

// SetRows replaces the displayed rows, keeping the selection in range.
func (p *TokensPane) SetRows(rows []TokenRow) {
	p.rows = rows
	if p.selected >= len(rows) {
		p.selected = len(rows) - 1
	}
	if p.selected < 0 {
		p.selected = 0
	}
}

func (p *TokensPane) Mode() TokensMode { return p.mode }

func (p *TokensPane) Title() string {
	if p.mode == TokensModeQuery {
		return "tokens [query]"
	}
	return "tokens [line]"
}

func (p *TokensPane) Render(w, h int) string {
	if len(p.rows) == 0 {
		return p.kindStyle.Render("  (empty line)")
	}

	maxLexeme := 0
	for _, r := range p.rows {
		if n := len([]rune(r.Lexeme)); n > maxLexeme {
			maxLexeme = n
		}
	}
	if maxLexeme > w/2 {
		maxLexeme = w / 2
	}

	var lines []string
	for i, r := range p.rows {
		lexeme := r.Lexeme
		if lexeme == "" || strings.TrimSpace(lexeme) == "" {
			lexeme = "␣"
		}
		runes := []rune(lexeme)
		if len(runes) > maxLexeme {
			lexeme = string(runes[:maxLexeme])
		}
		lexeme += strings.Repeat(" ", maxLexeme-len([]rune(lexeme)))

		span := fmt.Sprintf("%d:%d-%d", r.Line+1, r.Start, r.End)
		plain := fmt.Sprintf("  %s  %-11s %s", lexeme, r.Kind, span)
		if len(plain) < w {
			plain += strings.Repeat(" ", w-len(plain))
		}

		if i == p.selected {
			lines = append(lines, p.selectedStyle.Render(plain))
		} else {
			lines = append(lines, p.normalStyle.Render(plain))
		}
	}

	// Keep the selection on screen.
	if len(lines) > h {
		start := 0
		if p.selected >= h {
			start = p.selected - h + 1
		}
		lines = lines[start : start+h]
	}
	for len(lines) < h {
		lines = append(lines, strings.Repeat(" ", w))
	}
	return strings.Join(lines[:h], "\n")
}

func (p *TokensPane) HandleKey(msg tea.KeyMsg) bool {
	switch msg.Type {
	case tea.KeyUp:
		if p.selected > 0 {
			p.selected--
		}
		return true
	case tea.KeyDown:
		if p.selected < len(p.rows)-1 {
			p.selected++
		}
		return true
	case tea.KeyRunes:
		if len(msg.Runes) == 1 && msg.Runes[0] == '~' {
			if p.mode == TokensModeLine {
				p.mode = TokensModeQuery
			} else {
				p.mode = TokensModeLine
			}
			// The Model repopulates rows on the next refresh.
			return true
		}
	}
	return false
}

func (p *TokensPane) HandleMouse(x, y int, msg tea.MouseMsg) bool {
	if msg.Button == tea.MouseButtonLeft && msg.Action == tea.MouseActionPress {
		if y >= 0 && y < len(p.rows) {
			p.selected = y
		}
		return true
	}
	return false
}
