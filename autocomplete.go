package main

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss/v2"
)

// AutocompletePane completes the word under the cursor against the
// relevance keyword set plus phrases from the inspector database.
// Typing narrows the candidates; Enter accepts. The Model asks Done()
// after each key and splices Selected() into the document.
type AutocompletePane struct {
	prefix     string   // what the user had typed when the pane opened
	candidates []string // full candidate set, filtered per keystroke
	filtered   []string
	selected   int
	scroll     int
	done       bool
	accepted   string
}

func NewAutocompletePane(prefix string, candidates []string) *AutocompletePane {
	p := &AutocompletePane{prefix: prefix, candidates: candidates}
	p.filter()
	return p
}

func (p *AutocompletePane) filter() {
	q := strings.ToLower(p.prefix)
	p.filtered = nil
	for _, c := range p.candidates {
		if strings.HasPrefix(strings.ToLower(c), q) {
			p.filtered = append(p.filtered, c)
		}
	}
	if p.selected >= len(p.filtered) {
		p.selected = len(p.filtered) - 1
	}
	if p.selected < 0 {
		p.selected = 0
	}
	p.scroll = 0
}

// Done reports that the user accepted or exhausted the completion.
func (p *AutocompletePane) Done() bool { return p.done }

// Selected is the accepted completion, "" when the pane was dismissed
// without choosing.
func (p *AutocompletePane) Selected() string { return p.accepted }

// Prefix is the partial word the completion replaces.
func (p *AutocompletePane) Prefix() string { return p.prefix }

func (p *AutocompletePane) Title() string {
	return "complete: " + p.prefix
}

func (p *AutocompletePane) Render(w, h int) string {
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	if len(p.filtered) == 0 {
		return dimStyle.Render("  (no completions)")
	}

	selectedStyle := lipgloss.NewStyle().Background(AccentColor).Foreground(lipgloss.Color("0"))
	normalStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("250"))
	descStyle := dimStyle

	if p.selected >= p.scroll+h {
		p.scroll = p.selected - h + 1
	}
	if p.selected < p.scroll {
		p.scroll = p.selected
	}

	var lines []string
	for i := p.scroll; i < len(p.filtered) && i < p.scroll+h; i++ {
		word := p.filtered[i]
		desc := keywordDesc(word)
		room := w - len([]rune(word)) - 3
		if len(desc) > room {
			if room > 8 {
				desc = desc[:room-1] + "…"
			} else {
				desc = ""
			}
		}

		plain := " " + word
		if desc != "" {
			plain += "  " + desc
		}
		if n := len([]rune(plain)); n < w {
			plain += strings.Repeat(" ", w-n)
		}

		if i == p.selected {
			lines = append(lines, selectedStyle.Render(plain))
		} else if desc != "" {
			head := " " + word + "  "
			lines = append(lines, normalStyle.Render(head)+descStyle.Render(plain[len(head):]))
		} else {
			lines = append(lines, normalStyle.Render(plain))
		}
	}
	for len(lines) < h {
		lines = append(lines, strings.Repeat(" ", w))
	}
	return strings.Join(lines[:h], "\n")
}

func (p *AutocompletePane) HandleKey(msg tea.KeyMsg) bool {
	switch msg.Type {
	case tea.KeyUp:
		if p.selected > 0 {
			p.selected--
		}
		return true

	case tea.KeyDown, tea.KeyTab:
		if p.selected < len(p.filtered)-1 {
			p.selected++
		} else {
			p.selected = 0
		}
		return true

	case tea.KeyShiftTab:
		if p.selected > 0 {
			p.selected--
		} else {
			p.selected = len(p.filtered) - 1
		}
		return true

	case tea.KeyEnter:
		if p.selected >= 0 && p.selected < len(p.filtered) {
			p.accepted = p.filtered[p.selected]
		}
		p.done = true
		return true

	case tea.KeyBackspace:
		if len(p.prefix) > 0 {
			p.prefix = p.prefix[:len(p.prefix)-1]
			p.filter()
		} else {
			p.done = true
		}
		return true

	case tea.KeyEscape:
		return false

	default:
		if len(msg.Runes) > 0 {
			p.prefix += string(msg.Runes)
			p.filter()
			if len(p.filtered) == 0 {
				p.done = true
			}
			return true
		}
	}
	return false
}

func (p *AutocompletePane) HandleMouse(x, y int, msg tea.MouseMsg) bool {
	if msg.Button == tea.MouseButtonLeft && msg.Action == tea.MouseActionPress {
		if y >= 0 && y < len(p.filtered) {
			p.selected = y
			p.accepted = p.filtered[p.selected]
			p.done = true
		}
		return true
	}
	return false
}
