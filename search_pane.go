package main

import (
	"database/sql"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss/v2"
)

const searchLimit = 200

// SearchPane is a filter-as-you-type search over the bundled inspector
// documentation pages. Enter sets SelectedPath; the Model opens that
// page in a docs pane.
type SearchPane struct {
	db       *sql.DB
	query    string
	hits     []string // nav paths
	selected int
	scroll   int
	err      error

	// SelectedPath is set when the user picks a page.
	SelectedPath string
}

func NewSearchPane(db *sql.DB) *SearchPane {
	p := &SearchPane{db: db}
	p.search()
	return p
}

// search repopulates hits from the docs table. Matches on the nav path
// first, then on page content, so "cpu" finds both the CPU section and
// pages that merely mention it.
func (p *SearchPane) search() {
	p.hits = nil
	p.err = nil
	p.selected = 0
	p.scroll = 0
	if p.db == nil {
		return
	}
	rows, err := p.db.Query(`
		SELECT path FROM docs
		WHERE path LIKE '%'||?||'%' OR content LIKE '%'||?||'%'
		ORDER BY CASE WHEN path LIKE '%'||?||'%' THEN 0 ELSE 1 END, path
		LIMIT ?`, p.query, p.query, p.query, searchLimit)
	if err != nil {
		p.err = err
		return
	}
	defer rows.Close()
	for rows.Next() {
		var path string
		if err := rows.Scan(&path); err != nil {
			p.err = err
			return
		}
		p.hits = append(p.hits, path)
	}
	p.err = rows.Err()
}

func (p *SearchPane) Title() string {
	return "inspector search"
}

func (p *SearchPane) Render(w, h int) string {
	var sb strings.Builder

	promptStyle := lipgloss.NewStyle().Foreground(AccentColor)
	sb.WriteString(promptStyle.Render("/ "))
	sb.WriteString(p.query)
	sb.WriteString(cursorStyle.Render(" "))
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("─", w))
	sb.WriteString("\n")

	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	if p.db == nil {
		sb.WriteString(dimStyle.Render("  no inspector database bundled"))
		return sb.String()
	}
	if p.err != nil {
		sb.WriteString(dimStyle.Render("  search failed: " + p.err.Error()))
		return sb.String()
	}
	if len(p.hits) == 0 {
		sb.WriteString(dimStyle.Render("  (no matches)"))
		return sb.String()
	}

	selectedStyle := lipgloss.NewStyle().Background(AccentColor).Foreground(lipgloss.Color("0"))
	normalStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("250"))

	listH := h - 2
	if listH < 1 {
		listH = 1
	}
	if p.selected >= p.scroll+listH {
		p.scroll = p.selected - listH + 1
	}
	if p.selected < p.scroll {
		p.scroll = p.selected
	}

	shown := 0
	for i := p.scroll; i < len(p.hits) && shown < listH; i++ {
		hit := p.hits[i]
		runes := []rune(hit)
		if len(runes) > w-2 {
			hit = string(runes[:w-3]) + "…"
		}
		line := " " + hit
		if len([]rune(line)) < w {
			line += strings.Repeat(" ", w-len([]rune(line)))
		}
		if i == p.selected {
			sb.WriteString(selectedStyle.Render(line))
		} else {
			sb.WriteString(normalStyle.Render(line))
		}
		shown++
		if shown < listH {
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

func (p *SearchPane) HandleKey(msg tea.KeyMsg) bool {
	switch msg.Type {
	case tea.KeyUp:
		if p.selected > 0 {
			p.selected--
		}
		return true

	case tea.KeyDown:
		if p.selected < len(p.hits)-1 {
			p.selected++
		}
		return true

	case tea.KeyEnter:
		if p.selected >= 0 && p.selected < len(p.hits) {
			p.SelectedPath = p.hits[p.selected]
		}
		return true

	case tea.KeyBackspace:
		if len(p.query) > 0 {
			p.query = p.query[:len(p.query)-1]
			p.search()
		}
		return true

	case tea.KeyEscape:
		return false

	default:
		if len(msg.Runes) > 0 {
			p.query += string(msg.Runes)
			p.search()
			return true
		}
	}
	return false
}

func (p *SearchPane) HandleMouse(x, y int, msg tea.MouseMsg) bool {
	if msg.Button == tea.MouseButtonLeft && y >= 2 {
		idx := p.scroll + y - 2
		if idx >= 0 && idx < len(p.hits) {
			p.selected = idx
			p.SelectedPath = p.hits[idx]
			return true
		}
	}
	return false
}
