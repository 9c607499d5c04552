package main

import (
	"database/sql"
	"fmt"
	"path"
	"regexp"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss/v2"
)

// DocPane shows one page of the bundled inspector reference, rendered
// from markdown. n/p walk the page's cross references, Enter follows
// the highlighted one and Backspace returns to where you came from.
type DocPane struct {
	navPath string
	file    string // file column of the docs table, anchors relative links
	db      *sql.DB
	width   int

	raw     []string // rendered lines with «marker» text intact
	lines   []string // display lines with the markers styled
	links   []docLink
	linkPos []int // line index of each link, parallel to links
	current int   // highlighted link, -1 for none
	scroll  int

	history []pageRef
}

// docLink is one internal cross reference on the page.
type docLink struct {
	display string
	file    string // target, resolved relative to the repo root
}

// pageRef remembers where a followed link came from.
type pageRef struct {
	navPath string
	file    string
	scroll  int
}

var mdLinkRe = regexp.MustCompile(`\[([^\]]+)\]\(([^)]+)\)`)

// processLinks rewrites internal markdown links as «Text» markers and
// collects their targets in page order, resolved against the current
// file. External links pass through untouched and anchor-only links
// collapse to their text.
func processLinks(markdown, currentFile string) (string, []docLink) {
	dir := path.Dir(currentFile)
	var links []docLink

	processed := mdLinkRe.ReplaceAllStringFunc(markdown, func(match string) string {
		m := mdLinkRe.FindStringSubmatch(match)
		text, target := m[1], m[2]

		if strings.Contains(target, "://") {
			return match
		}
		if i := strings.Index(target, "#"); i >= 0 {
			target = target[:i]
		}
		if target == "" {
			return text
		}

		links = append(links, docLink{
			display: text,
			file:    path.Clean(path.Join(dir, target)),
		})
		return "«" + text + "»"
	})

	return processed, links
}

// RenderMarkdown pre-renders a page for terminal display at the given
// width. On a renderer error the raw markdown is still readable, so
// return it as-is.
func RenderMarkdown(markdown string, width int) string {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return markdown
	}
	out, err := r.Render(markdown)
	if err != nil {
		return markdown
	}
	return out
}

func NewDocPane(navPath, file, rendered string, links []docLink, db *sql.DB, width int) *DocPane {
	d := &DocPane{db: db, width: width}
	d.setPage(navPath, file, rendered, links)
	return d
}

// setPage installs a rendered page, locating each link marker while
// walking the lines once. Glamour wraps but never reorders, so the
// markers appear in source order.
func (d *DocPane) setPage(navPath, file, rendered string, links []docLink) {
	d.navPath = navPath
	d.file = file
	d.links = links
	d.current = -1
	d.scroll = 0
	d.raw = strings.Split(strings.TrimRight(rendered, "\n"), "\n")

	d.linkPos = make([]int, len(links))
	next := 0
	for i, line := range d.raw {
		plain := stripANSI(line)
		for next < len(links) && strings.Contains(plain, "«"+links[next].display+"»") {
			d.linkPos[next] = i
			next++
		}
	}
	d.restyle()
}

var ansiRe = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func stripANSI(s string) string {
	return ansiRe.ReplaceAllString(s, "")
}

var (
	docLinkStyle   = lipgloss.NewStyle().Underline(true)
	docActiveStyle = lipgloss.NewStyle().Underline(true).Bold(true).Reverse(true)
)

// restyle rebuilds the display lines, swapping each marker for styled
// link text. linkPos says exactly which line to touch.
func (d *DocPane) restyle() {
	d.lines = make([]string, len(d.raw))
	copy(d.lines, d.raw)

	linkStyle := docLinkStyle.Foreground(AccentColor)
	for i, l := range d.links {
		style := linkStyle
		if i == d.current {
			style = docActiveStyle
		}
		n := d.linkPos[i]
		d.lines[n] = strings.Replace(d.lines[n], "«"+l.display+"»", style.Render(l.display), 1)
	}
}

func (d *DocPane) Title() string {
	if n := len(d.history); n > 0 {
		return fmt.Sprintf("%s (back: %d)", d.navPath, n)
	}
	return d.navPath
}

func (d *DocPane) Render(w, h int) string {
	body := h
	footer := len(d.lines) > h || len(d.links) > 0
	if footer {
		body = h - 1
	}
	if body < 1 {
		body = 1
	}

	end := d.scroll + body
	if end > len(d.lines) {
		end = len(d.lines)
	}

	var sb strings.Builder
	for i := d.scroll; i < end; i++ {
		sb.WriteString(d.lines[i])
		if i < end-1 {
			sb.WriteRune('\n')
		}
	}

	if footer {
		pos := fmt.Sprintf(" %d/%d ", d.scroll+1, len(d.lines))
		if len(d.links) > 0 {
			pos = fmt.Sprintf(" n/p: %d links ·%s", len(d.links), pos)
		}
		pad := w - len([]rune(pos))
		sb.WriteRune('\n')
		if pad > 0 {
			sb.WriteString(strings.Repeat("─", pad))
		}
		sb.WriteString(pos)
	}

	return sb.String()
}

func (d *DocPane) HandleKey(msg tea.KeyMsg) bool {
	switch msg.Type {
	case tea.KeyUp:
		d.scrollUp(1)
	case tea.KeyDown:
		d.scrollDown(1)
	case tea.KeyPgUp:
		d.scrollUp(20)
	case tea.KeyPgDown:
		d.scrollDown(20)
	case tea.KeyHome:
		d.scroll = 0
	case tea.KeyEnter:
		d.followLink()
	case tea.KeyBackspace:
		d.goBack()
	default:
		if len(msg.Runes) != 1 {
			return false
		}
		switch msg.Runes[0] {
		case 'j':
			d.scrollDown(1)
		case 'k':
			d.scrollUp(1)
		case 'n':
			d.nextLink()
		case 'p':
			d.prevLink()
		case 'b':
			d.goBack()
		default:
			return false
		}
	}
	return true
}

// HandleMouse scrolls on the wheel and follows a link when its line is
// clicked.
func (d *DocPane) HandleMouse(x, y int, msg tea.MouseMsg) bool {
	switch msg.Type {
	case tea.MouseWheelUp:
		d.scrollUp(3)
		return true
	case tea.MouseWheelDown:
		d.scrollDown(3)
		return true
	case tea.MouseLeft:
		line := d.scroll + y
		for i, pos := range d.linkPos {
			if pos == line {
				d.current = i
				d.restyle()
				d.followLink()
				return true
			}
		}
	}
	return false
}

func (d *DocPane) scrollUp(n int) {
	d.scroll = clamp(d.scroll-n, 0, d.scroll)
}

func (d *DocPane) scrollDown(n int) {
	limit := len(d.lines) - 3
	if limit < 0 {
		limit = 0
	}
	d.scroll = clamp(d.scroll+n, 0, limit)
}

func (d *DocPane) nextLink() {
	if len(d.links) == 0 {
		return
	}
	d.current = (d.current + 1) % len(d.links)
	d.showLink()
	d.restyle()
}

func (d *DocPane) prevLink() {
	if len(d.links) == 0 {
		return
	}
	if d.current <= 0 {
		d.current = len(d.links) - 1
	} else {
		d.current--
	}
	d.showLink()
	d.restyle()
}

// showLink scrolls the highlighted link into view with a little
// context above it.
func (d *DocPane) showLink() {
	line := d.linkPos[d.current]
	if line < d.scroll {
		d.scroll = clamp(line-2, 0, line)
	} else if line >= d.scroll+18 {
		d.scroll = clamp(line-8, 0, line)
	}
}

func (d *DocPane) followLink() {
	if d.current < 0 || d.current >= len(d.links) || d.db == nil {
		return
	}
	target := d.links[d.current]

	var navPath, content string
	err := d.db.QueryRow(
		"SELECT path, content FROM docs WHERE file = ?", target.file,
	).Scan(&navPath, &content)
	if err != nil {
		// Dangling reference in the bundle, nothing to show.
		return
	}

	d.history = append(d.history, pageRef{navPath: d.navPath, file: d.file, scroll: d.scroll})
	d.show(navPath, target.file, content)
}

func (d *DocPane) goBack() {
	if len(d.history) == 0 {
		return
	}
	prev := d.history[len(d.history)-1]
	d.history = d.history[:len(d.history)-1]

	var content string
	if d.db != nil {
		d.db.QueryRow("SELECT content FROM docs WHERE path = ?", prev.navPath).Scan(&content)
	}
	d.show(prev.navPath, prev.file, content)
	d.scroll = prev.scroll
}

// show processes and renders raw page content, then installs it.
func (d *DocPane) show(navPath, file, content string) {
	processed, links := processLinks(content, file)
	d.setPage(navPath, file, RenderMarkdown(processed, d.width), links)
}
