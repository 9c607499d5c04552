package relevance

import "strings"

// Referent is a resolved pronoun. Span is nil when no antecedent is
// visible, as for a pronoun at the top level of a query. Binding is the
// whose or of keyword the pronoun was resolved through.
type Referent struct {
	Pronoun Span
	Binding Pos
	Span    *Span
}

// ResolveReferent finds the antecedent of the pronoun at the cursor.
// It, its and them bind to the subject of the nearest enclosing whose
// clause; inside a parenthesised property list they instead bind to the
// object named after the group, as in (name of it, version of it) of
// regapps. Returns nil when the cursor is not on a pronoun.
func ResolveReferent(s *Stream, cursor Pos) *Referent {
	i := s.indexAt(cursor)
	if i < 0 {
		return nil
	}
	t := s.flat[i].tok
	if t.Kind != Keyword || !IsPronoun(t.Text) {
		return nil
	}
	ref := &Referent{Pronoun: Span{s.pos(i), s.end(i)}}

	// Nearest whose behind the pronoun, at its depth or any enclosing
	// one. Parenthesised groups that closed before the pronoun are
	// skipped whole; an unbalanced open just moves the scan up a level.
	depth := 0
	for j := i - 1; j >= 0; j-- {
		if s.barrier(j) {
			break
		}
		tok := s.flat[j].tok
		if r := bracketRune(tok); r != 0 {
			if isCloseBracket(r) {
				depth++
			} else if depth > 0 {
				depth--
			}
			continue
		}
		if depth > 0 || tok.Kind != Keyword {
			continue
		}
		if strings.EqualFold(tok.Text, "whose") {
			ref.Binding = s.pos(j)
			ref.Span = subjectBefore(s, j)
			return ref
		}
	}

	// No whose. Climb forward out of the pronoun's bracket groups and
	// take the object of a trailing of, one level at a time.
	depth = 0
	for j := i + 1; j < len(s.flat); j++ {
		if s.barrier(j) {
			break
		}
		r := bracketRune(s.flat[j].tok)
		if r == 0 {
			continue
		}
		if isOpenBracket(r) {
			depth++
			continue
		}
		if depth > 0 {
			depth--
			continue
		}
		k := j + 1
		if k < len(s.flat) && !s.barrier(k) && s.flat[k].tok.Kind == Keyword && strings.EqualFold(s.flat[k].tok.Text, "of") {
			if obj := objectAfter(s, k); obj != nil {
				ref.Binding = s.pos(k)
				ref.Span = obj
				return ref
			}
		}
	}
	return ref
}

// subjectBefore returns the span of the subject preceding a whose: the
// single word just before it, or a whole parenthesised group.
func subjectBefore(s *Stream, j int) *Span {
	if j == 0 || s.barrier(j-1) {
		return nil
	}
	t := s.flat[j-1].tok
	if r := bracketRune(t); isCloseBracket(r) {
		return groupSpan(s, j-1, -1)
	}
	if t.Kind == Operator {
		return nil
	}
	sp := Span{s.pos(j - 1), s.end(j - 1)}
	return &sp
}

// objectAfter returns the span of the object following an of: the next
// word, or a whole parenthesised group.
func objectAfter(s *Stream, k int) *Span {
	if k+1 >= len(s.flat) || s.barrier(k+1) {
		return nil
	}
	t := s.flat[k+1].tok
	if r := bracketRune(t); isOpenBracket(r) {
		return groupSpan(s, k+1, 1)
	}
	if t.Kind == Operator {
		return nil
	}
	sp := Span{s.pos(k + 1), s.end(k + 1)}
	return &sp
}

// groupSpan expands from a bracket at flat index i to its balanced
// partner, dir +1 from an open bracket and -1 from a close. Returns nil
// when the group never balances.
func groupSpan(s *Stream, i, dir int) *Span {
	b := bracketRune(s.flat[i].tok)
	partner := bracketPartner[b]
	depth := 1
	for j := i + dir; j >= 0 && j < len(s.flat); j += dir {
		if s.barrier(j) {
			break
		}
		switch bracketRune(s.flat[j].tok) {
		case b:
			depth++
		case partner:
			depth--
			if depth == 0 {
				if dir > 0 {
					sp := Span{s.pos(i), s.end(j)}
					return &sp
				}
				sp := Span{s.pos(j), s.end(i)}
				return &sp
			}
		}
	}
	return nil
}
