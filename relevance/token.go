// Package relevance tokenises and analyses relevance expressions as they
// appear in QnA transcripts: Q: lines holding queries, A:/T:/E:/I: lines
// holding evaluator output. The lexer is tolerant, it never fails, it just
// classifies whatever text it is given so the UI can paint it.
package relevance

import "strings"

// Kind classifies a lexical span.
type Kind int

const (
	Whitespace Kind = iota
	Identifier
	Keyword
	Number
	String
	Comment
	Operator
	// Result covers the remainder of an answer, time, error or
	// informational line. The text is evaluator output and is never
	// parsed as relevance.
	Result
	PrefixQ
	PrefixA
	PrefixT
	PrefixE
	PrefixI
)

func (k Kind) String() string {
	switch k {
	case Whitespace:
		return "whitespace"
	case Identifier:
		return "identifier"
	case Keyword:
		return "keyword"
	case Number:
		return "number"
	case String:
		return "string"
	case Comment:
		return "comment"
	case Operator:
		return "operator"
	case Result:
		return "result"
	case PrefixQ:
		return "Q:"
	case PrefixA:
		return "A:"
	case PrefixT:
		return "T:"
	case PrefixE:
		return "E:"
	case PrefixI:
		return "I:"
	}
	return "unknown"
}

// IsPrefix reports whether the kind is one of the line markers.
func (k Kind) IsPrefix() bool {
	return k >= PrefixQ && k <= PrefixI
}

// Token is a single lexical span within one line. Start and End are rune
// offsets, End exclusive. Concatenating Text over a line's tokens always
// reproduces the line.
type Token struct {
	Kind  Kind
	Start int
	End   int
	Text  string
}

// State is the lexer state carried across a line boundary. The zero value
// means the next line starts clean. Quote holds the delimiter of an
// unterminated string literal.
type State struct {
	InComment bool
	Quote     rune
}

// Pos addresses a rune within a document, line first.
type Pos struct {
	Line int
	Col  int
}

// NoPos is the invalid position, used for the missing end of an
// unmatched bracket.
var NoPos = Pos{-1, -1}

// Before reports whether p reads before q in document order.
func (p Pos) Before(q Pos) bool {
	return p.Line < q.Line || (p.Line == q.Line && p.Col < q.Col)
}

// Span is a half-open range of document text.
type Span struct {
	Start Pos
	End   Pos
}

// Reserved words of the relevance language. Matching is case-insensitive
// and on whole words only.
var keywords = map[string]bool{
	"if": true, "then": true, "else": true,
	"of": true, "whose": true, "where": true, "as": true,
	"exists": true, "not": true, "and": true, "or": true,
	"contains": true, "starts": true, "ends": true, "with": true,
	"equals": true, "mod": true,
	"a": true, "an": true, "the": true,
	"number": true, "string": true, "boolean": true, "integer": true,
	"true": true, "false": true,
	"relative": true, "absolute": true,
	"it": true, "its": true, "them": true,
}

// IsKeyword reports whether word is reserved, ignoring case.
func IsKeyword(word string) bool {
	return keywords[strings.ToLower(word)]
}

// IsPronoun reports whether word is one of the context pronouns that bind
// to an enclosing whose or of clause.
func IsPronoun(word string) bool {
	switch strings.ToLower(word) {
	case "it", "its", "them":
		return true
	}
	return false
}

var bracketPartner = map[rune]rune{
	'(': ')', ')': '(',
	'[': ']', ']': '[',
	'{': '}', '}': '{',
}

func isOpenBracket(r rune) bool  { return r == '(' || r == '[' || r == '{' }
func isCloseBracket(r rune) bool { return r == ')' || r == ']' || r == '}' }

func isBracket(r rune) bool { return isOpenBracket(r) || isCloseBracket(r) }

// bracketRune returns the single bracket rune of an operator token, or 0.
func bracketRune(t Token) rune {
	if t.Kind != Operator || len(t.Text) != 1 {
		return 0
	}
	r := rune(t.Text[0])
	if !isBracket(r) {
		return 0
	}
	return r
}
