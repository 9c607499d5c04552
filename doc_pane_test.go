package main

import (
	"database/sql"
	"path/filepath"
	"strings"
	"testing"

	_ "github.com/mattn/go-sqlite3"
)

func TestRenderMarkdown(t *testing.T) {
	md := "# Hello\n\nThis is a test paragraph.\n"
	out := RenderMarkdown(md, 60)
	if out == "" {
		t.Fatal("RenderMarkdown returned empty string")
	}
	if !strings.Contains(out, "Hello") {
		t.Errorf("rendered output missing title: %q", out)
	}
	if !strings.Contains(out, "test paragraph") {
		t.Errorf("rendered output missing body: %q", out)
	}
}

func TestNewDocPane(t *testing.T) {
	rendered := RenderMarkdown("# Test\n\nLine 1\n\nLine 2\n", 40)
	dp := NewDocPane("Guide / Page", "guide/page.md", rendered, nil, nil, 40)

	if dp.Title() != "Guide / Page" {
		t.Errorf("Title() = %q, want %q", dp.Title(), "Guide / Page")
	}
	if len(dp.lines) == 0 {
		t.Fatal("DocPane has no lines")
	}
}

func TestDocPaneScroll(t *testing.T) {
	var sb strings.Builder
	for i := 0; i < 100; i++ {
		sb.WriteString("Line\n\n")
	}
	rendered := RenderMarkdown(sb.String(), 40)
	dp := NewDocPane("Scroll Test", "test.md", rendered, nil, nil, 40)

	if dp.scroll != 0 {
		t.Errorf("initial scroll = %d, want 0", dp.scroll)
	}

	dp.scrollDown(5)
	if dp.scroll != 5 {
		t.Errorf("after scrollDown(5): scroll = %d, want 5", dp.scroll)
	}

	dp.scrollUp(3)
	if dp.scroll != 2 {
		t.Errorf("after scrollUp(3): scroll = %d, want 2", dp.scroll)
	}

	// Can't scroll above 0
	dp.scrollUp(100)
	if dp.scroll != 0 {
		t.Errorf("after scrollUp(100): scroll = %d, want 0", dp.scroll)
	}
}

func TestDocPaneRender(t *testing.T) {
	rendered := RenderMarkdown("# Title\n\nContent here.\n", 40)
	dp := NewDocPane("Test", "test.md", rendered, nil, nil, 40)

	out := dp.Render(40, 20)
	if out == "" {
		t.Fatal("Render returned empty string")
	}
	lines := strings.Split(out, "\n")
	if len(lines) == 0 {
		t.Fatal("Render produced no lines")
	}
}

// makeInspectorDB builds a small database with the bundle-inspectors
// schema for tests.
func makeInspectorDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", filepath.Join(t.TempDir(), "inspectors.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })

	if _, err := db.Exec(`
		CREATE TABLE docs (path TEXT PRIMARY KEY, file TEXT NOT NULL, content TEXT NOT NULL);
		CREATE TABLE keywords (word TEXT NOT NULL, path TEXT NOT NULL, PRIMARY KEY (word, path));
	`); err != nil {
		t.Fatal(err)
	}
	pages := []struct{ path, file, content string }{
		{"Guide / Operating System", "guide/operating-system.md",
			"# Operating System\n\nname of operating system\n"},
		{"Guide / Client", "guide/client.md",
			"# Client\n\nversion of client, see [Operating System](operating-system.md).\n"},
	}
	for _, p := range pages {
		if _, err := db.Exec("INSERT INTO docs VALUES (?, ?, ?)", p.path, p.file, p.content); err != nil {
			t.Fatal(err)
		}
	}
	words := []struct{ word, path string }{
		{"operating", "Guide / Operating System"},
		{"system", "Guide / Operating System"},
		{"client", "Guide / Client"},
	}
	for _, w := range words {
		if _, err := db.Exec("INSERT INTO keywords VALUES (?, ?)", w.word, w.path); err != nil {
			t.Fatal(err)
		}
	}
	return db
}

func TestInspectorLookup(t *testing.T) {
	db := makeInspectorDB(t)

	var path string
	if err := db.QueryRow("SELECT path FROM keywords WHERE word = ?", "client").Scan(&path); err != nil {
		t.Fatalf("keyword lookup: %v", err)
	}
	if path != "Guide / Client" {
		t.Errorf("path = %q, want %q", path, "Guide / Client")
	}

	var content string
	if err := db.QueryRow("SELECT content FROM docs WHERE path = ?", path).Scan(&content); err != nil {
		t.Fatalf("content lookup: %v", err)
	}
	if !strings.Contains(content, "version of client") {
		t.Errorf("content %q missing body", content)
	}
}

func TestDocPaneFollowLink(t *testing.T) {
	db := makeInspectorDB(t)

	var file, content string
	if err := db.QueryRow(
		"SELECT file, content FROM docs WHERE path = ?", "Guide / Client",
	).Scan(&file, &content); err != nil {
		t.Fatal(err)
	}

	processed, links := processLinks(content, file)
	if len(links) != 1 {
		t.Fatalf("got %d links, want 1", len(links))
	}
	if links[0].file != "guide/operating-system.md" {
		t.Errorf("link file = %q, want %q", links[0].file, "guide/operating-system.md")
	}

	rendered := RenderMarkdown(processed, 38)
	dp := NewDocPane("Guide / Client", file, rendered, links, db, 38)
	dp.nextLink()
	dp.followLink()

	if dp.navPath != "Guide / Operating System" {
		t.Errorf("after followLink: navPath = %q, want %q", dp.navPath, "Guide / Operating System")
	}
	if len(dp.history) != 1 {
		t.Fatalf("history length = %d, want 1", len(dp.history))
	}

	dp.goBack()
	if dp.navPath != "Guide / Client" {
		t.Errorf("after goBack: navPath = %q, want %q", dp.navPath, "Guide / Client")
	}
}

func TestProcessLinks(t *testing.T) {
	md := "See [Operating System](../guide/operating-system.md) and [external](https://example.com).\n"
	processed, links := processLinks(md, "reference/client.md")

	if len(links) != 1 {
		t.Fatalf("got %d links, want 1", len(links))
	}
	if links[0].display != "Operating System" {
		t.Errorf("link display = %q, want %q", links[0].display, "Operating System")
	}
	if links[0].file != "guide/operating-system.md" {
		t.Errorf("link file = %q, want %q", links[0].file, "guide/operating-system.md")
	}
	if !strings.Contains(processed, "«Operating System»") {
		t.Errorf("processed missing marker: %q", processed)
	}
	// External link should be preserved
	if !strings.Contains(processed, "https://example.com") {
		t.Errorf("external link removed: %q", processed)
	}
}

func TestWordUnderCursor(t *testing.T) {
	doc := NewDocument()
	doc.lines = []string{"Q: name of operating system"}
	m := Model{doc: doc}

	tests := []struct {
		col  int
		want string
	}{
		{2, ""},           // on the gap after the marker
		{3, "name"},       // start of word
		{5, "name"},       // inside word
		{7, "name"},       // just past the word snaps back
		{11, "operating"}, // next word
		{27, "system"},    // end of line snaps to the last word
	}

	for _, tt := range tests {
		m.cursorCol = tt.col
		got := m.wordUnderCursor()
		if got != tt.want {
			t.Errorf("col=%d: wordUnderCursor()=%q, want %q", tt.col, got, tt.want)
		}
	}
}
