package main

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss/v2"

	"relq/qna"
)

// ResultsPane lists the records of the most recent evaluation session,
// one row per query. Enter (or a click) asks the Model to jump to that
// query's line by setting SelectedLine.
type ResultsPane struct {
	records  []ResultRecord
	selected int

	// SelectedLine is the document line to jump to, -1 when nothing
	// was chosen yet. The Model resets it after the jump.
	SelectedLine int

	normalStyle   lipgloss.Style
	selectedStyle lipgloss.Style
	errorStyle    lipgloss.Style
	timeStyle     lipgloss.Style
}

func NewResultsPane() *ResultsPane {
	return &ResultsPane{
		SelectedLine:  -1,
		normalStyle:   lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
		selectedStyle: lipgloss.NewStyle().Background(lipgloss.Color("240")),
		errorStyle:    lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true),
		timeStyle:     lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
	}
}

// SetRecords replaces the rows after a session step completes.
func (p *ResultsPane) SetRecords(records []ResultRecord) {
	p.records = records
	if p.selected >= len(records) {
		p.selected = len(records) - 1
	}
	if p.selected < 0 {
		p.selected = 0
	}
}

func (p *ResultsPane) Title() string {
	return fmt.Sprintf("results (%d)", len(p.records))
}

func (p *ResultsPane) Render(w, h int) string {
	if len(p.records) == 0 {
		return p.timeStyle.Render("  (no results yet)")
	}

	var lines []string
	for i, rec := range p.records {
		mark := "A"
		if rec.Status == StatusError {
			mark = "E"
		}
		elapsed := qna.FormatElapsed(rec.Elapsed)

		preview := rec.Query.Text
		maxPreview := w - len(elapsed) - 8
		if len(preview) > maxPreview && maxPreview > 3 {
			preview = preview[:maxPreview-1] + "…"
		}

		plain := fmt.Sprintf(" %s %4d  %s", mark, rec.Line+1, preview)
		pad := w - len([]rune(plain)) - len(elapsed) - 1
		if pad < 1 {
			pad = 1
		}
		plain += strings.Repeat(" ", pad) + elapsed

		switch {
		case i == p.selected:
			lines = append(lines, p.selectedStyle.Render(plain))
		case rec.Status == StatusError:
			lines = append(lines, p.errorStyle.Render(plain))
		default:
			lines = append(lines, p.normalStyle.Render(plain))
		}
	}

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

func (p *ResultsPane) HandleKey(msg tea.KeyMsg) bool {
	if len(p.records) == 0 {
		return false
	}
	switch msg.Type {
	case tea.KeyUp:
		if p.selected > 0 {
			p.selected--
		}
		return true
	case tea.KeyDown:
		if p.selected < len(p.records)-1 {
			p.selected++
		}
		return true
	case tea.KeyEnter:
		p.SelectedLine = p.records[p.selected].Line
		return true
	}
	return false
}

func (p *ResultsPane) HandleMouse(x, y int, msg tea.MouseMsg) bool {
	if len(p.records) == 0 {
		return false
	}
	if msg.Button == tea.MouseButtonLeft && msg.Action == tea.MouseActionPress {
		if y >= 0 && y < len(p.records) {
			p.selected = y
			p.SelectedLine = p.records[p.selected].Line
		}
		return true
	}
	return false
}
