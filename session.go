package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"relq/relevance"
)

// Document is the QnA transcript being edited: queries, evaluator
// output and free text, one string per line. Mutation happens on the
// update loop only; evaluation goroutines hand their output back as
// messages instead of writing here.
type Document struct {
	lines []string
	path  string
	dirty bool
}

func NewDocument() *Document {
	return &Document{lines: []string{""}}
}

// LoadDocument reads a transcript from disk. A missing file gives an
// empty document that will be created on the first save.
func LoadDocument(path string) (*Document, error) {
	doc := NewDocument()
	doc.path = path
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return doc, nil
		}
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	doc.lines = strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	return doc, nil
}

func (d *Document) Save() error {
	if d.path == "" {
		return errors.New("no file to save to")
	}
	data := strings.Join(d.lines, "\n") + "\n"
	if err := os.WriteFile(d.path, []byte(data), 0644); err != nil {
		return fmt.Errorf("save %s: %w", d.path, err)
	}
	d.dirty = false
	return nil
}

func (d *Document) LineCount() int { return len(d.lines) }

func (d *Document) Line(i int) string {
	if i < 0 || i >= len(d.lines) {
		return ""
	}
	return d.lines[i]
}

func (d *Document) SetLine(i int, text string) {
	if i < 0 || i >= len(d.lines) {
		return
	}
	d.lines[i] = text
	d.dirty = true
}

// ReplaceRange substitutes lines[start:end] with repl. Every splice in
// the program comes through here, so the document never ends up empty.
func (d *Document) ReplaceRange(start, end int, repl []string) {
	start = clamp(start, 0, len(d.lines))
	end = clamp(end, start, len(d.lines))
	out := make([]string, 0, len(d.lines)-(end-start)+len(repl))
	out = append(out, d.lines[:start]...)
	out = append(out, repl...)
	out = append(out, d.lines[end:]...)
	if len(out) == 0 {
		out = []string{""}
	}
	d.lines = out
	d.dirty = true
}

// Queries extracts the document's Q: entries in order.
func (d *Document) Queries() []relevance.QueryLine {
	return relevance.ExtractQueries(d.lines)
}

// resultBlockAfter returns [start,end) of the evaluator output lines
// sitting directly below the given line.
func (d *Document) resultBlockAfter(line int) (int, int) {
	marks := relevance.ResultLines(d.lines)
	start := line + 1
	if start > len(d.lines) {
		start = len(d.lines)
	}
	end := start
	for end < len(d.lines) && marks[end] {
		end++
	}
	return start, end
}

// SpliceResults replaces whatever result block sits below endLine with
// out, so re-evaluating a query swaps stale answers for fresh ones.
func (d *Document) SpliceResults(endLine int, out []string) {
	start, end := d.resultBlockAfter(endLine)
	d.ReplaceRange(start, end, out)
}

// StripResults removes every evaluator output line, returning the
// document to its pre-evaluation form.
func (d *Document) StripResults() {
	d.lines = relevance.RemoveResults(d.lines)
	if len(d.lines) == 0 {
		d.lines = []string{""}
	}
	d.dirty = true
}
