package relevance

import "strings"

const prettyIndent = "    "

// Compact collapses a query onto one line with single spaces between
// tokens. Strings and comments pass through untouched.
func Compact(query string) string {
	var b strings.Builder
	var prev Token
	have := false
	for _, t := range lexAll(query) {
		if t.Kind == Whitespace {
			continue
		}
		if have && needSpace(prev, t) {
			b.WriteByte(' ')
		}
		b.WriteString(t.Text)
		prev, have = t, true
	}
	return b.String()
}

// Pretty reflows a query across lines: bracket groups become indented
// blocks, list elements and if, then and else start fresh lines.
func Pretty(query string) string {
	var lines []string
	indent := 0
	cur := ""
	var prev Token
	have := false

	newline := func() {
		if have {
			lines = append(lines, strings.TrimRight(cur, " "))
		}
		cur = strings.Repeat(prettyIndent, indent)
		have = false
	}
	put := func(t Token) {
		if have && needSpace(prev, t) {
			cur += " "
		}
		cur += t.Text
		prev, have = t, true
	}

	for _, t := range lexAll(query) {
		if t.Kind == Whitespace {
			continue
		}
		switch {
		case bracketRune(t) != 0 && isOpenBracket(bracketRune(t)):
			put(t)
			indent++
			newline()
		case bracketRune(t) != 0 && isCloseBracket(bracketRune(t)):
			if indent > 0 {
				indent--
			}
			newline()
			put(t)
		case t.Kind == Keyword && isClauseWord(t.Text):
			newline()
			put(t)
		case t.Kind == Operator && t.Text == ",":
			put(t)
			newline()
		default:
			put(t)
		}
	}
	newline()
	return strings.Join(lines, "\n")
}

func isClauseWord(s string) bool {
	switch strings.ToLower(s) {
	case "if", "then", "else":
		return true
	}
	return false
}

// lexAll tokenises a query that may span several lines, threading carry
// state across the breaks.
func lexAll(query string) []Token {
	var out []Token
	st := State{}
	for _, ln := range strings.Split(query, "\n") {
		toks, next := Tokenize(ln, st)
		st = next
		out = append(out, toks...)
	}
	return out
}

func needSpace(prev, cur Token) bool {
	if r := bracketRune(prev); r != 0 && isOpenBracket(r) {
		return false
	}
	if r := bracketRune(cur); r != 0 && isCloseBracket(r) {
		return false
	}
	if cur.Kind == Operator && (cur.Text == "," || cur.Text == ";") {
		return false
	}
	return true
}
