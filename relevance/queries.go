package relevance

import "strings"

// QueryLine is one extracted query. Line is the Q: line, EndLine the
// last continuation line and Text the query itself, continuations
// joined by single spaces.
type QueryLine struct {
	Line    int
	EndLine int
	Text    string
}

// ExtractQueries walks the document in order and returns every Q:
// entry. Lines after a Q: that are neither blank nor marker lines
// continue the query; answer, time, error and informational lines close
// it and are skipped. The walk threads lexer state, so a Q: inside a
// block comment is plain text, not a query.
func ExtractQueries(lines []string) []QueryLine {
	var out []QueryLine
	st := State{}
	cur := -1
	for i, ln := range lines {
		carried := st.InComment || st.Quote != 0
		toks, next := Tokenize(ln, st)
		st = next
		k := lineMarker(toks)
		switch {
		case !carried && k == PrefixQ:
			out = append(out, QueryLine{
				Line:    i,
				EndLine: i,
				Text:    strings.TrimSpace(textAfterMarker(ln, toks)),
			})
			cur = len(out) - 1
		case !carried && k != Kind(-1):
			cur = -1
		case !carried && strings.TrimSpace(ln) == "":
			cur = -1
		default:
			if cur < 0 {
				continue
			}
			q := &out[cur]
			if piece := strings.TrimSpace(ln); piece != "" {
				if q.Text == "" {
					q.Text = piece
				} else {
					q.Text += " " + piece
				}
			}
			q.EndLine = i
		}
	}
	return out
}

// ResultLines reports, per line, whether it is evaluator output: an A:,
// T:, E: or I: line outside any comment or string.
func ResultLines(lines []string) []bool {
	marks := make([]bool, len(lines))
	st := State{}
	for i, ln := range lines {
		carried := st.InComment || st.Quote != 0
		toks, next := Tokenize(ln, st)
		st = next
		if carried {
			continue
		}
		switch lineMarker(toks) {
		case PrefixA, PrefixT, PrefixE, PrefixI:
			marks[i] = true
		}
	}
	return marks
}

// RemoveResults returns the document with all evaluator output dropped.
// Everything else keeps its relative order, so evaluating and then
// removing results restores the original document.
func RemoveResults(lines []string) []string {
	marks := ResultLines(lines)
	out := make([]string, 0, len(lines))
	for i, ln := range lines {
		if !marks[i] {
			out = append(out, ln)
		}
	}
	return out
}

// lineMarker returns the marker kind opening the token list, or -1 when
// the line does not start with one.
func lineMarker(toks []Token) Kind {
	for _, t := range toks {
		if t.Kind == Whitespace {
			continue
		}
		if t.Kind.IsPrefix() {
			return t.Kind
		}
		break
	}
	return Kind(-1)
}

func textAfterMarker(ln string, toks []Token) string {
	for _, t := range toks {
		if t.Kind.IsPrefix() {
			return string([]rune(ln)[t.End:])
		}
	}
	return ln
}
