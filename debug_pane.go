package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss/v2"
)

// DebugPane tails the internal log: evaluator invocations, splice
// offsets, save errors. It follows the newest entry until the user
// scrolls up, and snaps back on End.
type DebugPane struct {
	viewport viewport.Model
	log      *[]string
	follow   bool
	rendered int // log length at the last render

	numStyle lipgloss.Style
	errStyle lipgloss.Style
}

// NewDebugPane creates a debug pane backed by the shared log slice.
func NewDebugPane(log *[]string) *DebugPane {
	vp := viewport.New(0, 0)
	vp.MouseWheelEnabled = true
	return &DebugPane{
		viewport: vp,
		log:      log,
		follow:   true,
		numStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("242")),
		errStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("203")),
	}
}

func (d *DebugPane) Title() string {
	return fmt.Sprintf("debug (%d)", len(*d.log))
}

// logEntryIsError marks entries worth a second look when an evaluation
// goes quiet.
func logEntryIsError(line string) bool {
	return strings.Contains(line, "error") ||
		strings.Contains(line, "failed") ||
		strings.Contains(line, "timed out")
}

func (d *DebugPane) Render(w, h int) string {
	d.viewport.Width = w
	d.viewport.Height = h

	entries := *d.log
	lines := make([]string, len(entries))
	for i, entry := range entries {
		num := d.numStyle.Render(fmt.Sprintf("%4d ", i+1))
		if logEntryIsError(entry) {
			lines[i] = num + d.errStyle.Render(entry)
		} else {
			lines[i] = num + entry
		}
	}
	d.viewport.SetContent(strings.Join(lines, "\n"))

	if d.follow && len(entries) != d.rendered {
		d.viewport.GotoBottom()
	}
	d.rendered = len(entries)

	return d.viewport.View()
}

func (d *DebugPane) HandleKey(msg tea.KeyMsg) bool {
	switch msg.Type {
	case tea.KeyUp, tea.KeyPgUp:
		// Scrolling back stops the tail from yanking the view down.
		d.follow = false
	case tea.KeyEnd:
		d.follow = true
		d.viewport.GotoBottom()
		return true
	case tea.KeyHome:
		d.follow = false
		d.viewport.GotoTop()
		return true
	}
	var cmd tea.Cmd
	d.viewport, cmd = d.viewport.Update(msg)
	switch msg.Type {
	case tea.KeyUp, tea.KeyDown, tea.KeyPgUp, tea.KeyPgDown:
		return true
	}
	return cmd != nil
}

func (d *DebugPane) HandleMouse(x, y int, msg tea.MouseMsg) bool {
	if msg.Type == tea.MouseWheelUp {
		d.follow = false
	}
	var cmd tea.Cmd
	d.viewport, cmd = d.viewport.Update(msg)
	return cmd != nil
}
