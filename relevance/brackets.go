package relevance

// BracketPair is the outcome of matching the bracket at the cursor.
// When Matched is false the missing side is NoPos, so a lone bracket
// still gets its one real endpoint painted.
type BracketPair struct {
	Open    Pos
	Close   Pos
	Matched bool
}

// MatchBracket finds the partner of the bracket at the cursor. The
// character just before the cursor wins over the one under it, which is
// the bracket the user has just typed. Returns nil when neither side of
// the cursor is a bracket.
func MatchBracket(s *Stream, cursor Pos) *BracketPair {
	b, pos, idx := bracketNear(s, cursor)
	if b == 0 {
		return nil
	}
	partner := bracketPartner[b]
	if isOpenBracket(b) {
		depth := 1
		for i := idx + 1; i < len(s.flat); i++ {
			if s.barrier(i) {
				break
			}
			switch bracketRune(s.flat[i].tok) {
			case b:
				depth++
			case partner:
				depth--
				if depth == 0 {
					return &BracketPair{Open: pos, Close: s.pos(i), Matched: true}
				}
			}
		}
		return &BracketPair{Open: pos, Close: NoPos}
	}
	depth := 1
	for i := idx - 1; i >= 0; i-- {
		if s.barrier(i) {
			break
		}
		switch bracketRune(s.flat[i].tok) {
		case b:
			depth++
		case partner:
			depth--
			if depth == 0 {
				return &BracketPair{Open: s.pos(i), Close: pos, Matched: true}
			}
		}
	}
	return &BracketPair{Open: NoPos, Close: pos}
}

// bracketNear picks the bracket the cursor refers to, trying the column
// before the cursor first and the cursor column second.
func bracketNear(s *Stream, cursor Pos) (rune, Pos, int) {
	for _, col := range []int{cursor.Col - 1, cursor.Col} {
		if col < 0 {
			continue
		}
		idx := s.indexAt(Pos{cursor.Line, col})
		if idx < 0 {
			continue
		}
		if r := bracketRune(s.flat[idx].tok); r != 0 {
			return r, s.pos(idx), idx
		}
	}
	return 0, NoPos, -1
}
