package relevance

import "unicode"

// Tokenize splits a single line into tokens. carry is the state left
// behind by the previous line and the returned state feeds the next one,
// so block comments and string literals survive line breaks. The tokens
// cover the whole line in order; nothing is ever dropped or rejected.
func Tokenize(line string, carry State) ([]Token, State) {
	rs := []rune(line)
	var toks []Token
	i := 0

	emit := func(kind Kind, start int) {
		if start == i {
			return
		}
		toks = append(toks, Token{Kind: kind, Start: start, End: i, Text: string(rs[start:i])})
	}

	switch {
	case carry.InComment:
		start := i
		closed := false
		for i < len(rs) {
			if rs[i] == '*' && i+1 < len(rs) && rs[i+1] == '/' {
				i += 2
				closed = true
				break
			}
			i++
		}
		emit(Comment, start)
		if !closed {
			return toks, carry
		}
		carry.InComment = false

	case carry.Quote != 0:
		start := i
		closed := false
		for i < len(rs) {
			if rs[i] == carry.Quote {
				i++
				closed = true
				break
			}
			i++
		}
		emit(String, start)
		if !closed {
			return toks, carry
		}
		carry.Quote = 0

	default:
		// A clean line may open with a transcript marker: Q: for a
		// query, A:/T:/E:/I: for evaluator output. Only Q: lines have
		// relevance after the marker, the rest is opaque.
		j := 0
		for j < len(rs) && (rs[j] == ' ' || rs[j] == '\t') {
			j++
		}
		if j+1 < len(rs) && rs[j+1] == ':' {
			pk := Kind(-1)
			switch rs[j] {
			case 'Q':
				pk = PrefixQ
			case 'A':
				pk = PrefixA
			case 'T':
				pk = PrefixT
			case 'E':
				pk = PrefixE
			case 'I':
				pk = PrefixI
			}
			if pk != Kind(-1) {
				i = j
				emit(Whitespace, 0)
				i = j + 2
				emit(pk, j)
				if pk != PrefixQ {
					i = len(rs)
					emit(Result, j+2)
					return toks, State{}
				}
			}
		}
	}

	for i < len(rs) {
		r := rs[i]
		switch {
		case r == ' ' || r == '\t':
			start := i
			for i < len(rs) && (rs[i] == ' ' || rs[i] == '\t') {
				i++
			}
			emit(Whitespace, start)

		case r == '/' && i+1 < len(rs) && rs[i+1] == '/':
			start := i
			i = len(rs)
			emit(Comment, start)

		case r == '/' && i+1 < len(rs) && rs[i+1] == '*':
			start := i
			i += 2
			closed := false
			for i < len(rs) {
				if rs[i] == '*' && i+1 < len(rs) && rs[i+1] == '/' {
					i += 2
					closed = true
					break
				}
				i++
			}
			emit(Comment, start)
			if !closed {
				return toks, State{InComment: true}
			}

		case r == '"' || r == '\'':
			start := i
			i++
			closed := false
			for i < len(rs) {
				if rs[i] == r {
					i++
					closed = true
					break
				}
				i++
			}
			emit(String, start)
			if !closed {
				return toks, State{Quote: r}
			}

		case unicode.IsDigit(r):
			start := i
			for i < len(rs) && unicode.IsDigit(rs[i]) {
				i++
			}
			if i < len(rs) && rs[i] == '.' && i+1 < len(rs) && unicode.IsDigit(rs[i+1]) {
				i++
				for i < len(rs) && unicode.IsDigit(rs[i]) {
					i++
				}
			}
			emit(Number, start)

		case isWordStart(r):
			start := i
			for i < len(rs) && isWordRune(rs[i]) {
				i++
			}
			if IsKeyword(string(rs[start:i])) {
				emit(Keyword, start)
			} else {
				emit(Identifier, start)
			}

		default:
			start := i
			i++
			if i < len(rs) && rs[i] == '=' && (r == '<' || r == '>' || r == '!') {
				i++
			}
			emit(Operator, start)
		}
	}
	return toks, State{}
}

func isWordStart(r rune) bool {
	return unicode.IsLetter(r) || r == '_'
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}

// TokenAt returns the index of the token containing rune column col,
// or -1 when col falls outside the line.
func TokenAt(toks []Token, col int) int {
	for i, t := range toks {
		if col >= t.Start && col < t.End {
			return i
		}
	}
	return -1
}
