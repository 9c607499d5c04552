package relevance

// Style identifies a visual class for a run of text. The annotator only
// classifies; the UI decides what each class looks like.
type Style int

const (
	StyleNone Style = iota
	StyleKeyword
	StyleString
	StyleNumber
	StyleComment
	StyleOperator
	StyleQuery
	StyleAnswer
	StyleTime
	StyleError
	StyleBracketMatch
	StyleBracketLone
	StyleClause
	StylePronoun
	StyleReferent
)

// VisualSpan is a styled run of runes within one line, End exclusive.
type VisualSpan struct {
	Start int
	End   int
	Style Style
}

// LineSpans carries the spans for one line. Spans cover the line's
// tokens in order and never overlap.
type LineSpans struct {
	Line  int
	Spans []VisualSpan
}

// Annotator turns a document snapshot into styled spans. It memoises
// lexing per line keyed on the line's text and carried-in state, so
// edits and splices only pay for the lines they actually change.
// Annotate is a pure function of its arguments: calling it twice with
// the same snapshot and cursor yields the same spans.
type Annotator struct {
	memo map[memoKey]memoVal
}

type memoKey struct {
	in   State
	text string
}

type memoVal struct {
	toks []Token
	out  State
}

func NewAnnotator() *Annotator {
	return &Annotator{memo: make(map[memoKey]memoVal)}
}

// Lex tokenises the document, threading carry state across lines and
// reusing cached results where text and incoming state are unchanged.
func (a *Annotator) Lex(lines []string) *Stream {
	if len(a.memo) > 8192 {
		a.memo = make(map[memoKey]memoVal)
	}
	st := State{}
	all := make([][]Token, len(lines))
	for i, ln := range lines {
		k := memoKey{st, ln}
		v, ok := a.memo[k]
		if !ok {
			toks, out := Tokenize(ln, st)
			v = memoVal{toks, out}
			a.memo[k] = v
		}
		all[i] = v.toks
		st = v.out
	}
	return NewStream(all)
}

// Annotate lexes the snapshot and layers cursor-dependent highlights
// over the token colours: bracket match first, then clause keywords,
// then pronoun and referent. Later layers win where they overlap.
func (a *Annotator) Annotate(lines []string, cursor Pos) []LineSpans {
	stream := a.Lex(lines)
	out := make([]LineSpans, len(lines))
	for i := range lines {
		out[i] = LineSpans{Line: i, Spans: baseSpans(stream.Line(i))}
	}

	apply := func(sp Span, style Style) {
		for ln := max(sp.Start.Line, 0); ln <= sp.End.Line && ln < len(out); ln++ {
			start, end := 0, lineEnd(stream.Line(ln))
			if ln == sp.Start.Line {
				start = sp.Start.Col
			}
			if ln == sp.End.Line {
				end = sp.End.Col
			}
			out[ln].Spans = overlay(out[ln].Spans, start, end, style)
		}
	}
	point := func(p Pos, style Style) {
		apply(Span{p, Pos{p.Line, p.Col + 1}}, style)
	}

	if br := MatchBracket(stream, cursor); br != nil {
		style := StyleBracketMatch
		if !br.Matched {
			style = StyleBracketLone
		}
		if br.Open != NoPos {
			point(br.Open, style)
		}
		if br.Close != NoPos {
			point(br.Close, style)
		}
	}
	if tr := TripletAt(stream, cursor); tr != nil {
		for _, p := range tr.Parts {
			apply(Span{p.Pos, Pos{p.Pos.Line, p.Pos.Col + len(p.Word)}}, StyleClause)
		}
	}
	if ref := ResolveReferent(stream, cursor); ref != nil {
		if ref.Span != nil {
			apply(*ref.Span, StyleReferent)
		}
		apply(ref.Pronoun, StylePronoun)
	}

	for i := range out {
		out[i].Spans = mergeSpans(out[i].Spans)
	}
	return out
}

func lineEnd(toks []Token) int {
	if len(toks) == 0 {
		return 0
	}
	return toks[len(toks)-1].End
}

// baseSpans maps tokens to their resting styles. Result text inherits
// the style of the marker opening its line.
func baseSpans(toks []Token) []VisualSpan {
	var spans []VisualSpan
	prefix := Kind(-1)
	for _, t := range toks {
		if t.Kind.IsPrefix() {
			prefix = t.Kind
		}
		style := StyleNone
		switch t.Kind {
		case Keyword:
			style = StyleKeyword
		case String:
			style = StyleString
		case Number:
			style = StyleNumber
		case Comment:
			style = StyleComment
		case Operator:
			style = StyleOperator
		case PrefixQ:
			style = StyleQuery
		case PrefixA, PrefixI:
			style = StyleAnswer
		case PrefixT:
			style = StyleTime
		case PrefixE:
			style = StyleError
		case Result:
			switch prefix {
			case PrefixT:
				style = StyleTime
			case PrefixE:
				style = StyleError
			default:
				style = StyleAnswer
			}
		}
		spans = append(spans, VisualSpan{t.Start, t.End, style})
	}
	return spans
}

// overlay restyles [start,end) within spans, splitting the spans it
// cuts through and leaving the rest untouched.
func overlay(spans []VisualSpan, start, end int, style Style) []VisualSpan {
	if start >= end {
		return spans
	}
	var out []VisualSpan
	for _, sp := range spans {
		if sp.End <= start || sp.Start >= end {
			out = append(out, sp)
			continue
		}
		if sp.Start < start {
			out = append(out, VisualSpan{sp.Start, start, sp.Style})
		}
		out = append(out, VisualSpan{max(sp.Start, start), min(sp.End, end), style})
		if sp.End > end {
			out = append(out, VisualSpan{end, sp.End, sp.Style})
		}
	}
	return out
}

func mergeSpans(spans []VisualSpan) []VisualSpan {
	var out []VisualSpan
	for _, sp := range spans {
		if sp.Start >= sp.End {
			continue
		}
		if n := len(out); n > 0 && out[n-1].Style == sp.Style && out[n-1].End == sp.Start {
			out[n-1].End = sp.End
			continue
		}
		out = append(out, sp)
	}
	return out
}
