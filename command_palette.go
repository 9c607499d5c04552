package main

import (
	"strings"
	"unicode"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss/v2"
)

// Command is one palette entry. Name doubles as the action identifier
// the Model dispatches on; Key is the shortcut shown next to it, taken
// from the live key map so rebound keys show their real binding.
type Command struct {
	Name string
	Key  string
	Help string
}

// CommandPalette is a filterable list of every relq command, for the
// keys nobody remembers.
type CommandPalette struct {
	commands       []Command
	filtered       []Command
	query          string
	selected       int
	scroll         int
	SelectedAction string // Set when Enter pressed
}

func NewCommandPalette(commands []Command) *CommandPalette {
	return &CommandPalette{
		commands: commands,
		filtered: commands,
	}
}

// matchCommand matches every query term as a prefix of some word of the
// command's name or help, so "ev q" finds "evaluate query" without
// demanding a contiguous substring.
func matchCommand(cmd Command, terms []string) bool {
	words := strings.FieldsFunc(strings.ToLower(cmd.Name+" "+cmd.Help), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	for _, term := range terms {
		hit := false
		for _, w := range words {
			if strings.HasPrefix(w, term) {
				hit = true
				break
			}
		}
		if !hit {
			return false
		}
	}
	return true
}

func (c *CommandPalette) filter() {
	terms := strings.Fields(strings.ToLower(c.query))
	if len(terms) == 0 {
		c.filtered = c.commands
	} else {
		c.filtered = nil
		for _, cmd := range c.commands {
			if matchCommand(cmd, terms) {
				c.filtered = append(c.filtered, cmd)
			}
		}
	}
	c.selected = clamp(c.selected, 0, len(c.filtered)-1)
	if c.selected < 0 {
		c.selected = 0
	}
	c.scroll = 0
}

func (c *CommandPalette) Title() string {
	return "commands"
}

// row builds one palette line as plain text first, so truncation never
// cuts through an escape sequence, then styles whole segments.
func (c *CommandPalette) row(cmd Command, w int, selected bool) string {
	nameW := clamp(w/3, 10, w)
	name := truncRunes(cmd.Name, nameW)
	keyW := clamp(w-nameW-2, 0, 10)
	key := truncRunes(cmd.Key, keyW)

	helpW := w - nameW - keyW - 2
	if helpW < 0 {
		helpW = 0
	}
	help := truncRunes(cmd.Help, helpW)
	help += strings.Repeat(" ", helpW-len([]rune(help)))

	namePad := name + strings.Repeat(" ", nameW-len([]rune(name)))
	keyPad := strings.Repeat(" ", keyW-len([]rune(key))) + key

	helpStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	keyStyle := lipgloss.NewStyle().Foreground(AccentColor)
	if selected {
		sel := lipgloss.NewStyle().Background(AccentColor).Foreground(lipgloss.Color("0"))
		return sel.Render(namePad) + " " + helpStyle.Render(help) + " " + keyStyle.Render(keyPad)
	}
	return namePad + " " + helpStyle.Render(help) + " " + keyStyle.Render(keyPad)
}

func truncRunes(s string, w int) string {
	runes := []rune(s)
	if len(runes) <= w {
		return s
	}
	if w < 1 {
		return ""
	}
	return string(runes[:w-1]) + "…"
}

func (c *CommandPalette) Render(w, h int) string {
	var sb strings.Builder

	promptStyle := lipgloss.NewStyle().Foreground(AccentColor)
	sb.WriteString(promptStyle.Render(": "))
	sb.WriteString(c.query)
	sb.WriteString(cursorStyle.Render(" "))
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("─", w))
	sb.WriteString("\n")

	listH := h - 2
	if listH < 1 {
		listH = 1
	}
	c.ensureVisible(listH)

	shown := 0
	for i := c.scroll; i < len(c.filtered) && shown < listH; i++ {
		sb.WriteString(c.row(c.filtered[i], w, i == c.selected))
		shown++
		if shown < listH {
			sb.WriteString("\n")
		}
	}
	for shown < listH {
		sb.WriteString(strings.Repeat(" ", w))
		shown++
		if shown < listH {
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

func (c *CommandPalette) HandleKey(msg tea.KeyMsg) bool {
	switch msg.Type {
	case tea.KeyUp:
		if c.selected > 0 {
			c.selected--
		}
		return true

	case tea.KeyDown:
		if c.selected < len(c.filtered)-1 {
			c.selected++
		}
		return true

	case tea.KeyEnter:
		if c.selected >= 0 && c.selected < len(c.filtered) {
			c.SelectedAction = c.filtered[c.selected].Name
		}
		return true

	case tea.KeyBackspace:
		if len(c.query) > 0 {
			runes := []rune(c.query)
			c.query = string(runes[:len(runes)-1])
			c.filter()
		}
		return true

	case tea.KeyCtrlU:
		c.query = ""
		c.filter()
		return true

	case tea.KeyEscape:
		// Let the model close the pane.
		return false

	default:
		if len(msg.Runes) > 0 {
			c.query += string(msg.Runes)
			c.filter()
			return true
		}
	}
	return false
}

// ensureVisible scrolls the list so the selection stays on screen.
func (c *CommandPalette) ensureVisible(listH int) {
	if listH < 1 {
		listH = 1
	}
	if c.selected >= c.scroll+listH {
		c.scroll = c.selected - listH + 1
	}
	if c.selected < c.scroll {
		c.scroll = c.selected
	}
}

func (c *CommandPalette) HandleMouse(x, y int, msg tea.MouseMsg) bool {
	if msg.Button == tea.MouseButtonLeft && y >= 2 {
		idx := c.scroll + y - 2
		if idx >= 0 && idx < len(c.filtered) {
			c.selected = idx
			c.SelectedAction = c.filtered[idx].Name
			return true
		}
	}
	return false
}
