package relevance

import "strings"

// TripletPart is one keyword of an if/then/else clause.
type TripletPart struct {
	Word string
	Pos  Pos
}

// ClauseTriplet is the clause family of the keyword under the cursor,
// in document order. Parts may be missing while a clause is still being
// typed; a lone if is a triplet of one.
type ClauseTriplet struct {
	Parts []TripletPart
}

// Complete reports whether all three keywords are present.
func (t *ClauseTriplet) Complete() bool { return len(t.Parts) == 3 }

// TripletAt resolves the if/then/else family of the keyword at the
// cursor. Nested clauses are skipped whole and the search never crosses
// the bracket depth the cursor sits at, so the then of an inner
// parenthesised clause never pairs with an outer if. Returns nil when
// the cursor is not on one of the three keywords.
func TripletAt(s *Stream, cursor Pos) *ClauseTriplet {
	i := s.indexAt(cursor)
	if i < 0 {
		return nil
	}
	t := s.flat[i].tok
	if t.Kind != Keyword {
		return nil
	}
	here := s.pos(i)

	var ifP, thenP, elseP Pos
	var hasIf, hasThen, hasElse bool
	switch strings.ToLower(t.Text) {
	case "if":
		ifP, hasIf = here, true
		thenP, hasThen = scanClause(s, i, 1, "if", "then", "then")
		elseP, hasElse = scanClause(s, i, 1, "if", "else", "else")
	case "then":
		thenP, hasThen = here, true
		ifP, hasIf = scanClause(s, i, -1, "else", "if", "if")
		elseP, hasElse = scanClause(s, i, 1, "if", "else", "else")
	case "else":
		elseP, hasElse = here, true
		ifP, hasIf = scanClause(s, i, -1, "else", "if", "if")
		thenP, hasThen = scanClause(s, i, -1, "else", "if", "then")
	default:
		return nil
	}

	tr := &ClauseTriplet{}
	if hasIf {
		tr.Parts = append(tr.Parts, TripletPart{"if", ifP})
	}
	if hasThen {
		tr.Parts = append(tr.Parts, TripletPart{"then", thenP})
	}
	if hasElse {
		tr.Parts = append(tr.Parts, TripletPart{"else", elseP})
	}
	return tr
}

// scanClause walks flat tokens from beside index i in direction dir,
// looking for the keyword want at the cursor's bracket depth. A nested
// clause opens with open and is consumed again by consume, so its
// keywords never answer for the cursor's clause. The scan gives up on
// leaving the cursor's depth or on hitting a transcript barrier.
func scanClause(s *Stream, i, dir int, open, consume, want string) (Pos, bool) {
	depth, nest := 0, 0
	for j := i + dir; j >= 0 && j < len(s.flat); j += dir {
		if s.barrier(j) {
			break
		}
		t := s.flat[j].tok
		if r := bracketRune(t); r != 0 {
			entering := (dir > 0 && isOpenBracket(r)) || (dir < 0 && isCloseBracket(r))
			if entering {
				depth++
			} else if depth > 0 {
				depth--
			} else {
				return NoPos, false
			}
			continue
		}
		if depth > 0 || t.Kind != Keyword {
			continue
		}
		switch kw := strings.ToLower(t.Text); {
		case kw == open:
			nest++
		case kw == consume && nest > 0:
			nest--
		case kw == want && nest == 0:
			return s.pos(j), true
		}
	}
	return NoPos, false
}
