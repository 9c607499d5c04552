package relevance

import (
	"reflect"
	"testing"
)

func styleAt(spans []VisualSpan, c int) Style {
	for _, sp := range spans {
		if c >= sp.Start && c < sp.End {
			return sp.Style
		}
	}
	return StyleNone
}

func TestAnnotateBaseStyles(t *testing.T) {
	line := "Q: if x then \"s\" else 2 // c"
	a := NewAnnotator()
	out := a.Annotate([]string{line}, Pos{0, col(t, line, "x", 1)})
	if len(out) != 1 {
		t.Fatalf("%d line spans", len(out))
	}
	sp := out[0].Spans
	checks := []struct {
		sub  string
		want Style
	}{
		{"Q:", StyleQuery},
		{"if", StyleKeyword},
		{"x", StyleNone},
		{"\"s\"", StyleString},
		{"2", StyleNumber},
		{"//", StyleComment},
	}
	for _, c := range checks {
		if got := styleAt(sp, col(t, line, c.sub, 1)); got != c.want {
			t.Errorf("style of %q is %d, want %d", c.sub, got, c.want)
		}
	}
}

func TestAnnotateSpansCoverEachLine(t *testing.T) {
	lines := []string{
		"Q: names of regapps whose (name of it = \"a\")",
		"A: firefox.exe",
		"",
		"   if x then /* c */ y else z",
	}
	a := NewAnnotator()
	out := a.Annotate(lines, Pos{0, 5})
	for i, ls := range out {
		n := len([]rune(lines[i]))
		if n == 0 {
			if len(ls.Spans) != 0 {
				t.Errorf("line %d: spans on empty line", i)
			}
			continue
		}
		if ls.Spans[0].Start != 0 || ls.Spans[len(ls.Spans)-1].End != n {
			t.Errorf("line %d: spans run %d..%d, line is 0..%d",
				i, ls.Spans[0].Start, ls.Spans[len(ls.Spans)-1].End, n)
		}
		for j := 1; j < len(ls.Spans); j++ {
			if ls.Spans[j].Start != ls.Spans[j-1].End {
				t.Errorf("line %d: gap at %d", i, ls.Spans[j].Start)
			}
		}
	}
}

func TestAnnotateResultLineStyles(t *testing.T) {
	tests := []struct {
		line string
		want Style
	}{
		{"A: anything at all", StyleAnswer},
		{"I: evaluation cancelled", StyleAnswer},
		{"T: 0.070 ms", StyleTime},
		{"E: it broke", StyleError},
	}
	a := NewAnnotator()
	for _, tt := range tests {
		out := a.Annotate([]string{tt.line}, Pos{0, 0})
		sp := out[0].Spans
		if len(sp) != 1 {
			t.Errorf("%q: %d spans, want one merged span", tt.line, len(sp))
			continue
		}
		if sp[0].Style != tt.want {
			t.Errorf("%q styled %d, want %d", tt.line, sp[0].Style, tt.want)
		}
	}
}

func TestAnnotateBracketOverlay(t *testing.T) {
	line := "Q: (x)"
	a := NewAnnotator()
	out := a.Annotate([]string{line}, Pos{0, 4})
	sp := out[0].Spans
	if got := styleAt(sp, 3); got != StyleBracketMatch {
		t.Errorf("open bracket styled %d", got)
	}
	if got := styleAt(sp, 5); got != StyleBracketMatch {
		t.Errorf("close bracket styled %d", got)
	}
	if got := styleAt(sp, 4); got != StyleNone {
		t.Errorf("text between brackets styled %d", got)
	}
}

func TestAnnotateLoneBracketOverlay(t *testing.T) {
	line := "Q: (x"
	a := NewAnnotator()
	out := a.Annotate([]string{line}, Pos{0, 4})
	if got := styleAt(out[0].Spans, 3); got != StyleBracketLone {
		t.Errorf("lone bracket styled %d", got)
	}
}

func TestAnnotateClauseOverlay(t *testing.T) {
	line := "Q: if alpha then beta"
	a := NewAnnotator()
	ifC := col(t, line, "if", 1)
	out := a.Annotate([]string{line}, Pos{0, ifC})
	sp := out[0].Spans
	if got := styleAt(sp, ifC); got != StyleClause {
		t.Errorf("if styled %d", got)
	}
	if got := styleAt(sp, col(t, line, "then", 1)); got != StyleClause {
		t.Errorf("then styled %d", got)
	}

	// Same snapshot, cursor elsewhere: plain keyword colouring.
	out = a.Annotate([]string{line}, Pos{0, col(t, line, "alpha", 1)})
	if got := styleAt(out[0].Spans, ifC); got != StyleKeyword {
		t.Errorf("if styled %d away from cursor", got)
	}
}

func TestAnnotatePronounOverlay(t *testing.T) {
	line := "Q: names of regapps whose (name of it = \"a\")"
	a := NewAnnotator()
	itC := col(t, line, "it", 1)
	out := a.Annotate([]string{line}, Pos{0, itC})
	sp := out[0].Spans
	if got := styleAt(sp, itC); got != StylePronoun {
		t.Errorf("pronoun styled %d", got)
	}
	if got := styleAt(sp, col(t, line, "regapps", 1)); got != StyleReferent {
		t.Errorf("referent styled %d", got)
	}
}

func TestAnnotateIdempotent(t *testing.T) {
	lines := []string{
		"Q: if (a) then b else c",
		"A: done",
	}
	a := NewAnnotator()
	cursor := Pos{0, 4}
	first := a.Annotate(lines, cursor)
	second := a.Annotate(lines, cursor)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("annotation not stable:\n%+v\n%+v", first, second)
	}
}

func TestAnnotateRelexesAfterCarryChange(t *testing.T) {
	a := NewAnnotator()
	out := a.Annotate([]string{"Q: /* a", "b */ c"}, Pos{0, 0})
	if got := styleAt(out[1].Spans, 0); got != StyleComment {
		t.Fatalf("carried comment styled %d", got)
	}

	// Removing the open comment upstream must re-lex the line below
	// even though its own text is unchanged.
	out = a.Annotate([]string{"Q: x", "b */ c"}, Pos{0, 0})
	if got := styleAt(out[1].Spans, 0); got == StyleComment {
		t.Error("stale carry: line below still a comment")
	}
}
