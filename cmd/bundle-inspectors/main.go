// bundle-inspectors clones the inspector documentation repo, walks its
// markdown pages, and produces a sqlite3 database the relq docs panes
// read: a docs table of rendered-ready markdown keyed by navigation
// path, and a keywords table mapping inspector words to pages.
//
//	go build ./cmd/bundle-inspectors
package main

import (
	"database/sql"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	_ "github.com/mattn/go-sqlite3"
	"gopkg.in/yaml.v3"
)

// frontMatter is the YAML header each documentation page carries.
type frontMatter struct {
	Title    string   `yaml:"title"`
	Keywords []string `yaml:"keywords"`
}

func main() {
	output := flag.String("o", "inspectors.db", "output database path")
	repo := flag.String("repo", "https://github.com/bigfix/developer.bigfix.com.git", "documentation repo URL")
	dir := flag.String("dir", "", "use a local checkout instead of cloning")
	docsSub := flag.String("docs", "site/pages/relevance", "documentation subdirectory within the repo")
	flag.Parse()

	root := *dir
	if root == "" {
		tmpDir, err := os.MkdirTemp("", "inspector-docs-*")
		if err != nil {
			log.Fatal(err)
		}
		defer os.RemoveAll(tmpDir)

		fmt.Fprintf(os.Stderr, "Cloning %s...\n", *repo)
		cmd := exec.Command("git", "clone", "--depth=1", "--single-branch", *repo, tmpDir)
		cmd.Stderr = os.Stderr
		if err := cmd.Run(); err != nil {
			log.Fatalf("git clone failed: %v", err)
		}
		root = tmpDir
	}

	docsDir := filepath.Join(root, *docsSub)
	pages, err := collectPages(docsDir, root)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Fprintf(os.Stderr, "Found %d pages\n", len(pages))

	os.Remove(*output)
	db, err := sql.Open("sqlite3", *output)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	if _, err := db.Exec(`
		CREATE TABLE docs (
			path TEXT PRIMARY KEY,
			file TEXT NOT NULL,
			content TEXT NOT NULL
		);
		CREATE TABLE keywords (
			word TEXT NOT NULL,
			path TEXT NOT NULL,
			PRIMARY KEY (word, path)
		);
	`); err != nil {
		log.Fatal(err)
	}

	tx, err := db.Begin()
	if err != nil {
		log.Fatal(err)
	}
	insDoc, err := tx.Prepare("INSERT OR IGNORE INTO docs (path, file, content) VALUES (?, ?, ?)")
	if err != nil {
		log.Fatal(err)
	}
	insWord, err := tx.Prepare("INSERT OR IGNORE INTO keywords (word, path) VALUES (?, ?)")
	if err != nil {
		log.Fatal(err)
	}

	words := 0
	for _, p := range pages {
		if _, err := insDoc.Exec(p.path, p.file, p.content); err != nil {
			log.Printf("insert %s: %v", p.path, err)
			continue
		}
		for _, w := range p.words {
			if _, err := insWord.Exec(w, p.path); err == nil {
				words++
			}
		}
	}
	if err := tx.Commit(); err != nil {
		log.Fatal(err)
	}

	fmt.Fprintf(os.Stderr, "Wrote %s: %d pages, %d keyword entries\n", *output, len(pages), words)
}

type page struct {
	path    string // nav breadcrumb, e.g. "Relevance / Guide / Properties"
	file    string // repo-relative file path
	content string
	words   []string
}

// collectPages walks every markdown file under docsDir. The nav path is
// built from the directory segments plus the front-matter title.
func collectPages(docsDir, repoRoot string) ([]page, error) {
	var pages []page
	err := filepath.WalkDir(docsDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".md") {
			return nil
		}

		raw, err := os.ReadFile(path)
		if err != nil {
			log.Printf("warning: %s: %v", path, err)
			return nil
		}
		fm, body := splitFrontMatter(raw)

		rel, _ := filepath.Rel(docsDir, path)
		relFile, _ := filepath.Rel(repoRoot, path)

		title := fm.Title
		if title == "" {
			title = titleFromFilename(rel)
		}
		crumbs := breadcrumb(rel, title)

		pages = append(pages, page{
			path:    strings.Join(crumbs, " / "),
			file:    relFile,
			content: body,
			words:   indexWords(fm, title),
		})
		return nil
	})
	sort.Slice(pages, func(i, j int) bool { return pages[i].path < pages[j].path })
	return pages, err
}

// splitFrontMatter separates the YAML header from the markdown body.
// A page without a header is all body.
func splitFrontMatter(raw []byte) (frontMatter, string) {
	var fm frontMatter
	s := string(raw)
	if !strings.HasPrefix(s, "---") {
		return fm, s
	}
	end := strings.Index(s[3:], "\n---")
	if end < 0 {
		return fm, s
	}
	header := s[3 : 3+end]
	body := strings.TrimLeft(s[3+end+4:], "\n")
	if err := yaml.Unmarshal([]byte(header), &fm); err != nil {
		log.Printf("warning: front matter: %v", err)
	}
	return fm, body
}

// breadcrumb turns "guide/properties/index.md" plus a title into
// ["Guide", "Properties", title].
func breadcrumb(rel, title string) []string {
	dir := filepath.Dir(rel)
	var crumbs []string
	if dir != "." {
		for _, seg := range strings.Split(filepath.ToSlash(dir), "/") {
			crumbs = append(crumbs, titleCase(seg))
		}
	}
	return append(crumbs, title)
}

func titleFromFilename(rel string) string {
	base := strings.TrimSuffix(filepath.Base(rel), ".md")
	if base == "index" {
		base = filepath.Base(filepath.Dir(rel))
	}
	return titleCase(base)
}

func titleCase(seg string) string {
	words := strings.Split(strings.ReplaceAll(seg, "-", " "), " ")
	for i, w := range words {
		if len(w) > 0 {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

var wordRe = regexp.MustCompile(`[a-z][a-z0-9_-]+`)

// indexWords derives the lookup words for a page: the front-matter
// keyword list plus the words of its title.
func indexWords(fm frontMatter, title string) []string {
	seen := make(map[string]bool)
	var words []string
	add := func(w string) {
		w = strings.ToLower(strings.TrimSpace(w))
		if w != "" && !seen[w] {
			seen[w] = true
			words = append(words, w)
		}
	}
	for _, k := range fm.Keywords {
		add(k)
	}
	for _, w := range wordRe.FindAllString(strings.ToLower(title), -1) {
		add(w)
	}
	return words
}
