package relevance

// placed is a token plus the line it sits on.
type placed struct {
	line int
	tok  Token
}

// Stream is a tokenised snapshot of a document. The matchers walk it as
// one token sequence spanning line breaks, which is what makes brackets
// and clauses work in queries continued over several lines. Whitespace
// and comments are not part of the walk; marker and result tokens are
// kept as barriers so a scan never leaks from one transcript entry into
// the previous or next one.
type Stream struct {
	lines [][]Token
	flat  []placed
}

func NewStream(lines [][]Token) *Stream {
	s := &Stream{lines: lines}
	for ln, toks := range lines {
		for _, t := range toks {
			if t.Kind == Whitespace || t.Kind == Comment {
				continue
			}
			s.flat = append(s.flat, placed{ln, t})
		}
	}
	return s
}

// Line returns the full token list for one line, comments and
// whitespace included.
func (s *Stream) Line(i int) []Token {
	if i < 0 || i >= len(s.lines) {
		return nil
	}
	return s.lines[i]
}

// LineCount returns the number of lines in the snapshot.
func (s *Stream) LineCount() int { return len(s.lines) }

// indexAt returns the index into the flat walk of the token containing
// p, or -1 when p falls on whitespace, a comment or outside the text.
func (s *Stream) indexAt(p Pos) int {
	for i, pl := range s.flat {
		if pl.line != p.Line {
			continue
		}
		if p.Col >= pl.tok.Start && p.Col < pl.tok.End {
			return i
		}
	}
	return -1
}

// pos returns the document position of the flat token at index i.
func (s *Stream) pos(i int) Pos {
	return Pos{s.flat[i].line, s.flat[i].tok.Start}
}

// end returns the position one past the flat token at index i.
func (s *Stream) end(i int) Pos {
	return Pos{s.flat[i].line, s.flat[i].tok.End}
}

// barrier reports whether the flat token at index i separates transcript
// entries. Scans stop there instead of crossing into another query or
// into evaluator output.
func (s *Stream) barrier(i int) bool {
	k := s.flat[i].tok.Kind
	return k.IsPrefix() || k == Result
}
