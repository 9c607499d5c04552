package main

import (
	"database/sql"
	"fmt"
	"log"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss/v2"

	"relq/qna"
	"relq/relevance"
)

// Model holds all state for the TUI.
type Model struct {
	cfg    Config
	client *qna.Client

	// Document state
	doc       *Document
	ann       *relevance.Annotator
	cursorRow int
	cursorCol int

	// Evaluation state
	session *EvalSession
	gen     int

	// Debug log (shared with debug pane)
	debugLog *[]string

	// Floating panes
	panes     *PaneManager
	debugPane *DebugPane
	tokens    *TokensPane
	results   *ResultsPane
	search    *SearchPane
	palette   *CommandPalette
	complete  *AutocompletePane
	docsDB    *sql.DB

	// Help
	help help.Model
	keys KeyMap

	styles Styles

	// Terminal dimensions
	width  int
	height int

	status string
	err    error
}

// NewModel creates a Model editing the given document.
func NewModel(cfg Config, client *qna.Client, doc *Document, styles Styles) Model {
	logBuf := make([]string, 0, 64)
	m := Model{
		cfg:      cfg,
		client:   client,
		doc:      doc,
		ann:      relevance.NewAnnotator(),
		debugLog: &logBuf,
		panes:    NewPaneManager(80, 24), // Will be updated on WindowSizeMsg
		help:     help.New(),
		keys:     cfg.ToKeyMap(),
		styles:   styles,
	}
	if doc.path != "" {
		m.log("opened %s, %d lines", doc.path, doc.LineCount())
	} else {
		m.log("empty transcript, no file")
	}
	return m
}

// logToFile mirrors the debug log to the -log file when set.
var logToFile bool

func (m *Model) log(format string, args ...any) {
	line := fmt.Sprintf(format, args...)
	*m.debugLog = append(*m.debugLog, line)
	if len(*m.debugLog) > 500 {
		*m.debugLog = (*m.debugLog)[len(*m.debugLog)-500:]
	}
	if logToFile {
		log.Print(line)
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.panes.UpdateSize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case queryResultMsg:
		return m.handleResult(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.status = ""

	// Global shortcuts (always work regardless of focus)
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Evaluate):
		return m, m.startEvaluateAll()

	case key.Matches(msg, m.keys.EvaluateOne):
		return m, m.startEvaluateOne()

	case key.Matches(msg, m.keys.Cancel):
		m.cancelEvaluation()
		return m, nil

	case key.Matches(msg, m.keys.RemoveResults):
		m.removeResults()
		m.refreshPanes()
		return m, nil

	case key.Matches(msg, m.keys.Save):
		if err := m.doc.Save(); err != nil {
			m.status = err.Error()
			m.log("save failed: %v", err)
		} else {
			m.status = fmt.Sprintf("saved %s", m.doc.path)
		}
		return m, nil

	case key.Matches(msg, m.keys.Pretty):
		m.reflowQuery(true)
		m.refreshPanes()
		return m, nil

	case key.Matches(msg, m.keys.Compact):
		m.reflowQuery(false)
		m.refreshPanes()
		return m, nil

	case key.Matches(msg, m.keys.ToggleTokens):
		m.toggleTokensPane()
		return m, nil

	case key.Matches(msg, m.keys.ToggleResults):
		m.toggleResultsPane()
		return m, nil

	case key.Matches(msg, m.keys.ToggleDebug):
		m.toggleDebugPane()
		return m, nil

	case key.Matches(msg, m.keys.Docs):
		m.toggleDocsPane("")
		return m, nil

	case key.Matches(msg, m.keys.Search):
		m.toggleSearchPane()
		return m, nil

	case key.Matches(msg, m.keys.CommandPalette):
		m.togglePalette()
		return m, nil

	case key.Matches(msg, m.keys.Autocomplete):
		m.openAutocomplete()
		return m, nil

	case key.Matches(msg, m.keys.CyclePane):
		if m.panes.HasPanes() {
			m.panes.FocusNext()
		}
		return m, nil

	case key.Matches(msg, m.keys.ClosePane):
		if fp := m.panes.FocusedPane(); fp != nil {
			m.closePane(fp.ID)
		} else {
			// With nothing to close, escape stops a running batch.
			m.cancelEvaluation()
		}
		return m, nil

	case key.Matches(msg, m.keys.ShowKeys):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}

	// Route to focused pane first
	if fp := m.panes.FocusedPane(); fp != nil && fp.Content != nil {
		if fp.Content.HandleKey(msg) {
			return m.harvestPanes()
		}
	}

	// Document key handling
	return m.handleDocKey(msg)
}

// harvestPanes picks up selections panes made while handling a key:
// palette actions, search hits, result jumps, completions.
func (m Model) harvestPanes() (tea.Model, tea.Cmd) {
	if m.palette != nil && m.palette.SelectedAction != "" {
		action := m.palette.SelectedAction
		m.closePane("palette")
		return m.runPaletteAction(action)
	}
	if m.search != nil && m.search.SelectedPath != "" {
		path := m.search.SelectedPath
		m.closePane("search")
		m.toggleDocsPane(path)
		return m, nil
	}
	if m.results != nil && m.results.SelectedLine >= 0 {
		line := m.results.SelectedLine
		m.results.SelectedLine = -1
		m.cursorRow = clamp(line, 0, m.doc.LineCount()-1)
		m.clampCol()
		m.refreshPanes()
		return m, nil
	}
	if m.complete != nil && m.complete.Done() {
		word := m.complete.Selected()
		m.closePane("complete")
		if word != "" && m.evaluating() {
			m.status = "evaluation in progress, cancel it first"
		} else if word != "" {
			m.insertCompletion(word)
		}
		m.refreshPanes()
		return m, nil
	}
	return m, nil
}

func (m *Model) closePane(id string) {
	m.panes.Remove(id)
	switch id {
	case "debug":
		m.debugPane = nil
	case "tokens":
		m.tokens = nil
	case "results":
		m.results = nil
	case "search":
		m.search = nil
	case "palette":
		m.palette = nil
	case "complete":
		m.complete = nil
	}
}

// evaluating reports whether a session is still running.
func (m *Model) evaluating() bool {
	return m.session != nil && !m.session.Done()
}

// editKey reports whether the key would change the document. Pending
// results are spliced at line numbers computed when their session
// started, so the document is read-only until the session drains.
func editKey(msg tea.KeyMsg) bool {
	switch msg.Type {
	case tea.KeyEnter, tea.KeyBackspace, tea.KeyDelete, tea.KeySpace:
		return true
	}
	return len(msg.Runes) > 0
}

func (m Model) handleDocKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if editKey(msg) && m.evaluating() {
		m.status = "evaluation in progress, cancel it first"
		return m, nil
	}

	switch msg.Type {
	case tea.KeyEnter:
		m.splitLine()

	case tea.KeyBackspace:
		m.deleteCharBack()

	case tea.KeyDelete:
		m.deleteCharForward()

	case tea.KeyLeft:
		if m.cursorCol > 0 {
			m.cursorCol--
		} else if m.cursorRow > 0 {
			m.cursorRow--
			m.cursorCol = len(m.currentLineRunes())
		}

	case tea.KeyRight:
		if m.cursorCol < len(m.currentLineRunes()) {
			m.cursorCol++
		} else if m.cursorRow < m.doc.LineCount()-1 {
			m.cursorRow++
			m.cursorCol = 0
		}

	case tea.KeyUp:
		if m.cursorRow > 0 {
			m.cursorRow--
			m.clampCol()
		}

	case tea.KeyDown:
		if m.cursorRow < m.doc.LineCount()-1 {
			m.cursorRow++
			m.clampCol()
		}

	case tea.KeyHome:
		m.cursorCol = 0

	case tea.KeyEnd:
		m.cursorCol = len(m.currentLineRunes())

	case tea.KeyPgUp:
		m.cursorRow = clamp(m.cursorRow-m.pageSize(), 0, m.doc.LineCount()-1)
		m.clampCol()

	case tea.KeyPgDown:
		m.cursorRow = clamp(m.cursorRow+m.pageSize(), 0, m.doc.LineCount()-1)
		m.clampCol()

	case tea.KeySpace:
		m.insertChar(' ')

	default:
		if len(msg.Runes) > 0 {
			for _, r := range msg.Runes {
				m.insertChar(r)
			}
		}
	}
	m.refreshPanes()
	return m, nil
}

func (m *Model) pageSize() int {
	size := m.height - 4
	if size < 1 {
		size = 10
	}
	return size
}

func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	// Check if any pane is being dragged
	for _, id := range m.panes.zOrder {
		pane := m.panes.panes[id]
		if pane != nil && pane.dragging {
			switch msg.Type {
			case tea.MouseMotion:
				pane.UpdateDrag(msg.X, msg.Y, m.panes.screenW, m.panes.screenH)
				return m, nil
			case tea.MouseRelease:
				pane.StopDrag()
				return m, nil
			}
		}
	}

	// Hit test for pane interactions
	pane := m.panes.PaneAt(msg.X, msg.Y)

	switch msg.Type {
	case tea.MouseLeft:
		if pane != nil {
			zone := pane.HitZone(msg.X, msg.Y)
			switch zone {
			case ZoneTitleBar:
				m.panes.Focus(pane.ID)
				pane.StartDrag(DragMove, msg.X, msg.Y)
			case ZoneCornerNE, ZoneCornerNW, ZoneCornerSE, ZoneCornerSW:
				m.panes.Focus(pane.ID)
				pane.StartDrag(zoneToDragMode(zone), msg.X, msg.Y)
			case ZoneBorder:
				m.panes.Focus(pane.ID)
			case ZoneContent:
				m.panes.Focus(pane.ID)
				// Pass click to pane content (relative coords)
				if pane.Content != nil {
					pane.Content.HandleMouse(msg.X-pane.X-1, msg.Y-pane.Y-1, msg)
					return m.harvestPanes()
				}
			}
		} else {
			// Click on the document: unfocus panes, move the cursor.
			if fp := m.panes.FocusedPane(); fp != nil {
				fp.Focused = false
				m.panes.focusedID = ""
			}
			m.moveCursorTo(msg.X, msg.Y)
			m.refreshPanes()
		}
		return m, nil

	case tea.MouseWheelUp, tea.MouseWheelDown:
		if pane != nil && pane.Content != nil {
			// Pass scroll to pane
			pane.Content.HandleMouse(msg.X-pane.X-1, msg.Y-pane.Y-1, msg)
		} else {
			if msg.Type == tea.MouseWheelUp {
				m.cursorRow = clamp(m.cursorRow-3, 0, m.doc.LineCount()-1)
			} else {
				m.cursorRow = clamp(m.cursorRow+3, 0, m.doc.LineCount()-1)
			}
			m.clampCol()
			m.refreshPanes()
		}
		return m, nil
	}

	return m, nil
}

// moveCursorTo places the cursor on the document cell under a click,
// undoing the border offset and viewport scroll.
func (m *Model) moveCursorTo(x, y int) {
	row := m.viewTop() + y - 1
	m.cursorRow = clamp(row, 0, m.doc.LineCount()-1)
	m.cursorCol = clamp(x-1, 0, len(m.currentLineRunes()))
}

func (m *Model) currentLine() string {
	return m.doc.Line(m.cursorRow)
}

func (m *Model) currentLineRunes() []rune {
	return []rune(m.currentLine())
}

func (m *Model) insertChar(r rune) {
	runes := m.currentLineRunes()
	col := clamp(m.cursorCol, 0, len(runes))
	newRunes := make([]rune, 0, len(runes)+1)
	newRunes = append(newRunes, runes[:col]...)
	newRunes = append(newRunes, r)
	newRunes = append(newRunes, runes[col:]...)
	m.doc.SetLine(m.cursorRow, string(newRunes))
	m.cursorCol = col + 1
}

func (m *Model) deleteCharBack() {
	if m.cursorCol > 0 {
		runes := m.currentLineRunes()
		newRunes := make([]rune, 0, len(runes)-1)
		newRunes = append(newRunes, runes[:m.cursorCol-1]...)
		newRunes = append(newRunes, runes[m.cursorCol:]...)
		m.doc.SetLine(m.cursorRow, string(newRunes))
		m.cursorCol--
		return
	}
	// At the line start, join with the line above.
	if m.cursorRow > 0 {
		prev := m.doc.Line(m.cursorRow - 1)
		m.cursorCol = len([]rune(prev))
		m.doc.ReplaceRange(m.cursorRow-1, m.cursorRow+1, []string{prev + m.currentLine()})
		m.cursorRow--
	}
}

func (m *Model) deleteCharForward() {
	runes := m.currentLineRunes()
	if m.cursorCol < len(runes) {
		newRunes := make([]rune, 0, len(runes)-1)
		newRunes = append(newRunes, runes[:m.cursorCol]...)
		newRunes = append(newRunes, runes[m.cursorCol+1:]...)
		m.doc.SetLine(m.cursorRow, string(newRunes))
		return
	}
	// At the line end, pull the next line up.
	if m.cursorRow < m.doc.LineCount()-1 {
		next := m.doc.Line(m.cursorRow + 1)
		m.doc.ReplaceRange(m.cursorRow, m.cursorRow+2, []string{m.currentLine() + next})
	}
}

func (m *Model) splitLine() {
	runes := m.currentLineRunes()
	col := clamp(m.cursorCol, 0, len(runes))
	head, tail := string(runes[:col]), string(runes[col:])
	m.doc.ReplaceRange(m.cursorRow, m.cursorRow+1, []string{head, tail})
	m.cursorRow++
	m.cursorCol = 0
}

func (m *Model) clampCol() {
	lineLen := len(m.currentLineRunes())
	if m.cursorCol > lineLen {
		m.cursorCol = lineLen
	}
}

func (m *Model) clampCursor() {
	m.cursorRow = clamp(m.cursorRow, 0, m.doc.LineCount()-1)
	m.clampCol()
}

// startEvaluateAll strips old results and evaluates every query in the
// document, top to bottom.
func (m *Model) startEvaluateAll() tea.Cmd {
	if m.evaluating() {
		m.status = "already evaluating"
		return nil
	}
	if err := m.client.Check(); err != nil {
		m.status = err.Error()
		m.log("evaluator check failed: %v", err)
		return nil
	}
	m.doc.StripResults()
	m.clampCursor()
	queries := m.doc.Queries()
	if len(queries) == 0 {
		m.status = "no queries in transcript"
		return nil
	}
	m.gen++
	m.session = NewEvalSession(m.gen, queries)
	m.log("evaluating %d queries (generation %d)", len(queries), m.gen)
	m.refreshPanes()
	return invokeNext(m.client, m.session)
}

// startEvaluateOne evaluates just the query under the cursor, replacing
// its old result block.
func (m *Model) startEvaluateOne() tea.Cmd {
	if m.evaluating() {
		m.status = "already evaluating"
		return nil
	}
	if err := m.client.Check(); err != nil {
		m.status = err.Error()
		m.log("evaluator check failed: %v", err)
		return nil
	}
	q, ok := m.queryUnderCursor()
	if !ok {
		m.status = "no query under cursor"
		return nil
	}
	m.gen++
	m.session = NewEvalSession(m.gen, []relevance.QueryLine{q})
	m.log("evaluating query at line %d (generation %d)", q.Line+1, m.gen)
	return invokeNext(m.client, m.session)
}

// queryUnderCursor finds the query whose lines or result block contain
// the cursor.
func (m *Model) queryUnderCursor() (relevance.QueryLine, bool) {
	for _, q := range m.doc.Queries() {
		_, blockEnd := m.doc.resultBlockAfter(q.EndLine)
		if m.cursorRow >= q.Line && m.cursorRow < blockEnd {
			return q, true
		}
	}
	return relevance.QueryLine{}, false
}

func (m *Model) cancelEvaluation() {
	if !m.evaluating() {
		return
	}
	m.session.Cancel()
	done, total := m.session.Progress()
	m.status = fmt.Sprintf("cancelling after query %d of %d", done+1, total)
	m.log("cancel requested at %d/%d, letting the running query finish", done, total)
}

func (m *Model) removeResults() {
	if m.evaluating() {
		m.status = "evaluation in progress, cancel it first"
		return
	}
	m.doc.StripResults()
	m.clampCursor()
	m.status = "results removed"
}

// reflowQuery rewrites the query under the cursor, pretty-printed over
// several lines or compacted onto one.
func (m *Model) reflowQuery(pretty bool) {
	if m.evaluating() {
		m.status = "evaluation in progress"
		return
	}
	q, ok := m.queryUnderCursor()
	if !ok {
		m.status = "no query under cursor"
		return
	}
	text := relevance.Compact(q.Text)
	if pretty {
		text = relevance.Pretty(q.Text)
	}
	lines := strings.Split(text, "\n")
	repl := make([]string, len(lines))
	repl[0] = strings.TrimRight("Q: "+lines[0], " ")
	for i := 1; i < len(lines); i++ {
		repl[i] = "   " + lines[i]
	}
	m.doc.ReplaceRange(q.Line, q.EndLine+1, repl)
	m.cursorRow = q.Line
	m.clampCol()
}

func (m Model) handleResult(msg queryResultMsg) (tea.Model, tea.Cmd) {
	if m.session == nil || msg.gen != m.session.gen {
		m.log("dropping result for stale generation %d", msg.gen)
		return m, nil
	}

	insertStart := m.session.insertAt() + 1
	before := m.doc.LineCount()
	rec := m.session.Apply(m.doc, msg.res, msg.err)
	delta := m.doc.LineCount() - before
	if m.cursorRow >= insertStart {
		m.cursorRow = clamp(m.cursorRow+delta, 0, m.doc.LineCount()-1)
	}

	if rec.Status == StatusError {
		m.log("query at line %d: error (%s)", rec.Line+1, qna.FormatElapsed(rec.Elapsed))
	} else {
		m.log("query at line %d: answered in %s", rec.Line+1, qna.FormatElapsed(rec.Elapsed))
	}

	m.refreshPanes()

	if m.session.Done() {
		done, total := m.session.Progress()
		if m.session.Cancelled() && done < total {
			m.status = fmt.Sprintf("evaluation cancelled after %d of %d", done, total)
		} else {
			m.status = fmt.Sprintf("evaluated %d queries", done)
		}
		return m, nil
	}
	return m, invokeNext(m.client, m.session)
}

func (m Model) View() string {
	if m.err != nil {
		return fmt.Sprintf("Error: %v\nPress any key to exit.\n", m.err)
	}

	w, h := m.width, m.height
	if w < 20 {
		w = 80
	}
	if h < 5 {
		h = 24
	}

	// Reserve space for status and help lines
	helpHeight := 1
	if m.help.ShowAll {
		helpHeight = 6
	}
	mainH := h - helpHeight - 1

	base := m.viewDocument(w, mainH)

	// Composite floating panes over the document
	if m.panes.HasPanes() {
		base = m.panes.Render(base)
	}

	status := m.status
	if runes := []rune(status); len(runes) > w {
		status = string(runes[:w])
	}

	m.help.Width = w
	helpView := m.help.View(m.keys)

	return base + "\n" + m.styles.Status.Render(status) + "\n" + helpView
}

func (m Model) title() string {
	name := "no file"
	if m.doc.path != "" {
		name = filepath.Base(m.doc.path)
	}
	if m.doc.dirty {
		name += "*"
	}
	if m.evaluating() {
		done, total := m.session.Progress()
		name += fmt.Sprintf("  evaluating %d/%d", done+1, total)
	}
	return "relq: " + name
}

func (m Model) viewDocument(w, h int) string {
	contentW := w - 2
	contentH := h - 2

	content := m.renderDocument(contentW, contentH)
	return m.renderBox(m.title(), content, contentW, contentH, m.cfg.Accent)
}

func (m Model) renderBox(title, content string, w, h int, color string) string {
	borderColor := lipgloss.Color(color)

	bottomBorder := "╰" + strings.Repeat("─", w) + "╯"

	// Style the borders
	borderStyle := lipgloss.NewStyle().Foreground(borderColor)
	titleStyle := lipgloss.NewStyle().Foreground(borderColor).Bold(true)

	// Build top border with styled title
	pad := w - len(title) - 3
	if pad < 0 {
		title = title[:w-3]
		pad = 0
	}
	topBorder := borderStyle.Render("╭─ ") + titleStyle.Render(title) + borderStyle.Render(" "+strings.Repeat("─", pad)+"╮")

	// Split content into lines and pad to height
	contentLines := strings.Split(content, "\n")
	for len(contentLines) < h {
		contentLines = append(contentLines, "")
	}

	// Build the box
	var sb strings.Builder
	sb.WriteString(topBorder)
	sb.WriteString("\n")

	for i := 0; i < h; i++ {
		line := ""
		if i < len(contentLines) {
			line = contentLines[i]
		}
		sb.WriteString(borderStyle.Render("│"))
		sb.WriteString(line)
		sb.WriteString(borderStyle.Render("│"))
		sb.WriteString("\n")
	}

	sb.WriteString(borderStyle.Render(bottomBorder))

	return sb.String()
}

// viewTop is the first document line on screen, following the cursor.
func (m Model) viewTop() int {
	h := m.height - 2 - 2
	if h < 1 {
		h = 20
	}
	if m.cursorRow >= h {
		return m.cursorRow - h + 1
	}
	return 0
}

func (m Model) renderDocument(w, h int) string {
	startLine := 0
	if m.cursorRow >= h {
		startLine = m.cursorRow - h + 1
	}

	spans := m.ann.Annotate(m.doc.lines, relevance.Pos{Line: m.cursorRow, Col: m.cursorCol})

	lines := make([]string, h)
	for i := 0; i < h; i++ {
		srcIdx := startLine + i
		if srcIdx >= m.doc.LineCount() {
			lines[i] = strings.Repeat(" ", w)
			continue
		}
		cursorCol := -1
		if srcIdx == m.cursorRow {
			cursorCol = m.cursorCol
		}
		lines[i] = m.renderLine(m.doc.Line(srcIdx), spans[srcIdx].Spans, cursorCol, w)
	}

	return strings.Join(lines, "\n")
}

// renderLine paints one document line from its spans, overlaying the
// cursor cell when the cursor sits on this line. The result is always
// exactly w cells wide.
func (m Model) renderLine(text string, spans []relevance.VisualSpan, cursorCol, w int) string {
	runes := []rune(text)
	maxLen := w - 1
	if maxLen < 1 {
		maxLen = 1
	}
	if len(runes) > maxLen {
		runes = runes[:maxLen]
	}
	n := len(runes)

	var b strings.Builder
	emit := func(from, to int, style lipgloss.Style) {
		if from >= to {
			return
		}
		b.WriteString(style.Render(string(runes[from:to])))
	}

	pos := 0
	for _, sp := range spans {
		start, end := sp.Start, min(sp.End, n)
		if start >= n {
			break
		}
		if start > pos {
			emit(pos, start, m.styles.plain)
		}
		st := m.styles.For(sp.Style)
		if cursorCol >= start && cursorCol < end {
			emit(start, cursorCol, st)
			b.WriteString(m.styles.Cursor.Render(string(runes[cursorCol])))
			emit(cursorCol+1, end, st)
		} else {
			emit(start, end, st)
		}
		pos = end
	}
	if pos < n {
		emit(pos, n, m.styles.plain)
	}

	visual := n
	if cursorCol >= n && cursorCol >= 0 {
		b.WriteString(m.styles.Cursor.Render(" "))
		visual++
	}
	if visual < w {
		b.WriteString(strings.Repeat(" ", w-visual))
	}
	return b.String()
}
