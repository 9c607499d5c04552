package main

import (
	"database/sql"
	"unicode"

	tea "github.com/charmbracelet/bubbletea"
	_ "github.com/mattn/go-sqlite3"

	"relq/relevance"
)

// refreshPanes pushes fresh document state into the open panes. Called
// after every edit, cursor move and result splice.
func (m *Model) refreshPanes() {
	if m.tokens != nil {
		m.tokens.SetRows(m.tokenRows())
	}
	if m.results != nil && m.session != nil {
		m.results.SetRecords(m.session.Records())
	}
}

// tokenRows lexes the text the tokens pane is scoped to: the cursor
// line, or the whole query under the cursor.
func (m *Model) tokenRows() []TokenRow {
	stream := m.ann.Lex(m.doc.lines)

	first, last := m.cursorRow, m.cursorRow
	if m.tokens.Mode() == TokensModeQuery {
		if q, ok := m.queryUnderCursor(); ok {
			first, last = q.Line, q.EndLine
		}
	}

	var rows []TokenRow
	for line := first; line <= last && line < m.doc.LineCount(); line++ {
		for _, tok := range stream.Line(line) {
			if tok.Kind == relevance.Whitespace {
				continue
			}
			rows = append(rows, TokenRow{
				Lexeme: tok.Text,
				Kind:   tok.Kind.String(),
				Line:   line,
				Start:  tok.Start,
				End:    tok.End,
			})
		}
	}
	return rows
}

// screenSize is the terminal size with a fallback before the first
// WindowSizeMsg arrives.
func (m *Model) screenSize() (int, int) {
	w, h := m.width, m.height
	if w < 20 {
		w = 80
	}
	if h < 10 {
		h = 24
	}
	return w, h
}

func (m *Model) toggleTokensPane() {
	if m.tokens != nil {
		m.closePane("tokens")
		return
	}
	m.tokens = NewTokensPane()
	sw, _ := m.screenSize()
	w, h := 52, 14
	pane := NewPane("tokens", m.tokens, clamp(sw-w-2, 0, sw), 2, w, h)
	m.panes.Add(pane)
	m.panes.Focus("tokens")
	m.refreshPanes()
}

func (m *Model) toggleResultsPane() {
	if m.results != nil {
		m.closePane("results")
		return
	}
	m.results = NewResultsPane()
	sw, sh := m.screenSize()
	w, h := 60, 12
	pane := NewPane("results", m.results, clamp(sw-w-2, 0, sw), clamp(sh-h-3, 0, sh-1), w, h)
	m.panes.Add(pane)
	m.panes.Focus("results")
	m.refreshPanes()
}

func (m *Model) toggleDebugPane() {
	if m.debugPane != nil {
		m.closePane("debug")
		return
	}
	m.debugPane = NewDebugPane(m.debugLog)
	_, sh := m.screenSize()
	w, h := 70, 12
	pane := NewPane("debug", m.debugPane, 2, clamp(sh-h-3, 0, sh-1), w, h)
	m.panes.Add(pane)
	m.panes.Focus("debug")
}

func (m *Model) toggleSearchPane() {
	if m.search != nil {
		m.closePane("search")
		return
	}
	db, err := m.openDocsDB()
	if err != nil {
		m.status = err.Error()
		return
	}
	m.search = NewSearchPane(db)
	sw, _ := m.screenSize()
	w, h := 64, 18
	pane := NewPane("search", m.search, clamp((sw-w)/2, 0, sw), 3, w, h)
	m.panes.Add(pane)
	m.panes.Focus("search")
}

func (m *Model) togglePalette() {
	if m.palette != nil {
		m.closePane("palette")
		return
	}
	m.palette = NewCommandPalette(m.paletteCommands())
	sw, _ := m.screenSize()
	w, h := 56, 16
	pane := NewPane("palette", m.palette, clamp((sw-w)/2, 0, sw), 2, w, h)
	m.panes.Add(pane)
	m.panes.Focus("palette")
}

// toggleDocsPane opens the inspector reference. With a nav path it
// shows that page; with "" it looks up the word under the cursor in
// the keywords index.
func (m *Model) toggleDocsPane(navPath string) {
	if navPath == "" && m.panes.Get("docs") != nil {
		m.closePane("docs")
		return
	}
	db, err := m.openDocsDB()
	if err != nil {
		m.status = err.Error()
		return
	}

	if navPath == "" {
		word := m.wordUnderCursor()
		if word == "" {
			m.status = "no word under cursor"
			return
		}
		if err := db.QueryRow(
			"SELECT path FROM keywords WHERE word = ?", word,
		).Scan(&navPath); err != nil {
			m.status = "no documentation for " + word
			return
		}
	}

	var file, content string
	if err := db.QueryRow(
		"SELECT file, content FROM docs WHERE path = ?", navPath,
	).Scan(&file, &content); err != nil {
		m.status = "no page " + navPath
		return
	}

	sw, _ := m.screenSize()
	w, h := 76, 22
	if w > sw-4 {
		w = sw - 4
	}
	processed, links := processLinks(content, file)
	rendered := RenderMarkdown(processed, w-2)
	dp := NewDocPane(navPath, file, rendered, links, db, w-2)

	m.closePane("docs")
	pane := NewPane("docs", dp, clamp((sw-w)/2, 0, sw), 1, w, h)
	m.panes.Add(pane)
	m.panes.Focus("docs")
}

// openDocsDB opens the bundled inspector database on first use.
func (m *Model) openDocsDB() (*sql.DB, error) {
	if m.docsDB != nil {
		return m.docsDB, nil
	}
	db, err := sql.Open("sqlite3", m.cfg.Docs.Database)
	if err != nil {
		return nil, err
	}
	// sql.Open is lazy; make sure the file is actually a database.
	if err := db.QueryRow("SELECT COUNT(*) FROM docs").Err(); err != nil {
		db.Close()
		return nil, err
	}
	m.docsDB = db
	return db, nil
}

func (m *Model) openAutocomplete() {
	if m.complete != nil {
		m.closePane("complete")
	}
	prefix := m.wordPrefixBeforeCursor()
	candidates := keywordCompletions("")
	if db, err := m.openDocsDB(); err == nil {
		candidates = append(candidates, inspectorWords(db)...)
	}
	m.complete = NewAutocompletePane(prefix, candidates)

	sw, sh := m.screenSize()
	w, h := 44, 10
	x := clamp(m.cursorCol, 0, clamp(sw-w-1, 0, sw))
	y := m.cursorRow - m.viewTop() + 2
	if y+h > sh-2 {
		y = clamp(y-h-1, 0, clamp(sh-h-2, 0, sh))
	}
	pane := NewPane("complete", m.complete, x, y, w, h)
	m.panes.Add(pane)
	m.panes.Focus("complete")
}

// inspectorWords lists the indexed documentation words for completion.
func inspectorWords(db *sql.DB) []string {
	rows, err := db.Query("SELECT DISTINCT word FROM keywords ORDER BY word")
	if err != nil {
		return nil
	}
	defer rows.Close()
	var words []string
	for rows.Next() {
		var w string
		if rows.Scan(&w) == nil && !relevance.IsKeyword(w) {
			words = append(words, w)
		}
	}
	return words
}

// insertCompletion replaces the partial word before the cursor with the
// accepted completion.
func (m *Model) insertCompletion(word string) {
	prefix := m.wordPrefixBeforeCursor()
	runes := m.currentLineRunes()
	col := clamp(m.cursorCol, 0, len(runes))
	start := col - len([]rune(prefix))

	out := make([]rune, 0, len(runes)+len(word))
	out = append(out, runes[:start]...)
	out = append(out, []rune(word)...)
	out = append(out, runes[col:]...)
	m.doc.SetLine(m.cursorRow, string(out))
	m.cursorCol = start + len([]rune(word))
}

// wordPrefixBeforeCursor returns the partial word ending at the cursor.
func (m *Model) wordPrefixBeforeCursor() string {
	runes := m.currentLineRunes()
	col := clamp(m.cursorCol, 0, len(runes))
	start := col
	for start > 0 && isDocWordRune(runes[start-1]) {
		start--
	}
	return string(runes[start:col])
}

// wordUnderCursor returns the whole word the cursor sits on or touches.
func (m *Model) wordUnderCursor() string {
	runes := m.currentLineRunes()
	col := clamp(m.cursorCol, 0, len(runes))
	if col == len(runes) || (col > 0 && !isDocWordRune(runes[col])) {
		col--
	}
	if col < 0 || col >= len(runes) || !isDocWordRune(runes[col]) {
		return ""
	}
	start, end := col, col+1
	for start > 0 && isDocWordRune(runes[start-1]) {
		start--
	}
	for end < len(runes) && isDocWordRune(runes[end]) {
		end++
	}
	return string(runes[start:end])
}

func isDocWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '-'
}

// paletteCommands lists everything the palette can run. Names double as
// the action identifiers handled below; the key hints come from the
// live key map so a rebound config shows its own shortcuts.
func (m *Model) paletteCommands() []Command {
	k := m.keys
	return []Command{
		{"evaluate all", k.Evaluate.Help().Key, "run every query, top to bottom"},
		{"evaluate query", k.EvaluateOne.Help().Key, "run the query under the cursor"},
		{"cancel evaluation", k.Cancel.Help().Key, "stop after the running query"},
		{"remove results", k.RemoveResults.Help().Key, "strip A:/T:/E:/I: lines"},
		{"save", k.Save.Help().Key, "write the transcript to disk"},
		{"pretty-print query", k.Pretty.Help().Key, "reflow the query over several lines"},
		{"compact query", k.Compact.Help().Key, "collapse the query onto one line"},
		{"tokens pane", k.ToggleTokens.Help().Key, "lexer output for the cursor line"},
		{"results pane", k.ToggleResults.Help().Key, "records of the last session"},
		{"inspector docs", k.Docs.Help().Key, "documentation for the word under the cursor"},
		{"inspector search", k.Search.Help().Key, "search the bundled documentation"},
		{"autocomplete", k.Autocomplete.Help().Key, "complete the word under the cursor"},
		{"debug pane", k.ToggleDebug.Help().Key, "internal log"},
		{"quit", k.Quit.Help().Key, "leave relq"},
	}
}

func (m Model) runPaletteAction(action string) (tea.Model, tea.Cmd) {
	switch action {
	case "evaluate all":
		return m, m.startEvaluateAll()
	case "evaluate query":
		return m, m.startEvaluateOne()
	case "cancel evaluation":
		m.cancelEvaluation()
	case "remove results":
		m.removeResults()
		m.refreshPanes()
	case "save":
		if err := m.doc.Save(); err != nil {
			m.status = err.Error()
		} else {
			m.status = "saved " + m.doc.path
		}
	case "pretty-print query":
		m.reflowQuery(true)
	case "compact query":
		m.reflowQuery(false)
	case "tokens pane":
		m.toggleTokensPane()
	case "results pane":
		m.toggleResultsPane()
	case "inspector docs":
		m.toggleDocsPane("")
	case "inspector search":
		m.toggleSearchPane()
	case "autocomplete":
		m.openAutocomplete()
	case "debug pane":
		m.toggleDebugPane()
	case "quit":
		return m, tea.Quit
	}
	return m, nil
}
