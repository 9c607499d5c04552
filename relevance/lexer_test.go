package relevance

import (
	"strings"
	"testing"
)

func kindsOf(toks []Token) string {
	parts := make([]string, len(toks))
	for i, t := range toks {
		parts[i] = t.Kind.String()
	}
	return strings.Join(parts, " ")
}

func TestTokenizeCoversLine(t *testing.T) {
	lines := []string{
		"Q: names of regapps whose (name of it contains \"fire\")",
		"A: firefox.exe",
		"T: 0.070 ms",
		"E: Singular expression refers to nonexistent object.",
		"I: evaluation cancelled",
		"if x > 1 then \"yes\" else 'no'",
		"  version >= 2.5 and exists file \"c:\\boot.ini\"",
		"/* block */ q s // trailing",
		"Q:",
		"   ",
		"",
	}
	for _, line := range lines {
		toks, _ := Tokenize(line, State{})
		var b strings.Builder
		for _, tok := range toks {
			b.WriteString(tok.Text)
		}
		if b.String() != line {
			t.Errorf("tokens of %q reassemble to %q", line, b.String())
		}
		for i := 1; i < len(toks); i++ {
			if toks[i].Start != toks[i-1].End {
				t.Errorf("gap in tokens of %q at col %d", line, toks[i].Start)
			}
		}
	}
}

func TestTokenizeKinds(t *testing.T) {
	tests := []struct {
		line string
		want string
	}{
		{
			"Q: if Version >= 2 then \"ok\" else x",
			"Q: whitespace keyword whitespace identifier whitespace operator whitespace number whitespace keyword whitespace string whitespace keyword whitespace identifier",
		},
		{
			"A: if (unbalanced then",
			"A: result",
		},
		{
			"  T: 70000",
			"whitespace T: result",
		},
		{
			"E: it broke",
			"E: result",
		},
		{
			"IF x THEN y ELSE z",
			"keyword whitespace identifier whitespace keyword whitespace identifier whitespace keyword whitespace identifier",
		},
		{
			"QQ: not a marker",
			"identifier operator whitespace keyword whitespace keyword whitespace identifier",
		},
		{
			"q: lowercase is plain",
			"identifier operator whitespace identifier whitespace identifier whitespace identifier",
		},
		{
			"count mod 7 = 2.5",
			"identifier whitespace keyword whitespace number whitespace operator whitespace number",
		},
		{
			"a /* note */ b // tail",
			"keyword whitespace comment whitespace identifier whitespace comment",
		},
	}
	for _, tt := range tests {
		toks, _ := Tokenize(tt.line, State{})
		if got := kindsOf(toks); got != tt.want {
			t.Errorf("kinds of %q:\n got %s\nwant %s", tt.line, got, tt.want)
		}
	}
}

func TestTokenizeResultLinesLeaveNoState(t *testing.T) {
	toks, st := Tokenize("A: \"half open /* and this", State{})
	if st != (State{}) {
		t.Errorf("answer line carried state %+v", st)
	}
	if len(toks) != 2 || toks[0].Kind != PrefixA || toks[1].Kind != Result {
		t.Errorf("answer line lexed as %s", kindsOf(toks))
	}
}

func TestTokenizeCommentCarry(t *testing.T) {
	toks, st := Tokenize("Q: a /* spans", State{})
	if !st.InComment {
		t.Fatalf("open block comment not carried, tokens %s", kindsOf(toks))
	}
	toks, st = Tokenize("still inside", st)
	if !st.InComment {
		t.Fatal("carry lost on an all-comment line")
	}
	if len(toks) != 1 || toks[0].Kind != Comment || toks[0].Text != "still inside" {
		t.Errorf("carried line lexed as %s", kindsOf(toks))
	}
	toks, st = Tokenize("done */ and b", st)
	if st != (State{}) {
		t.Errorf("state not cleared after close: %+v", st)
	}
	if got := kindsOf(toks); got != "comment whitespace keyword whitespace identifier" {
		t.Errorf("closing line lexed as %s", got)
	}
	if toks[0].Text != "done */" {
		t.Errorf("comment token is %q", toks[0].Text)
	}
}

func TestTokenizeStringCarry(t *testing.T) {
	_, st := Tokenize("Q: name = \"half", State{})
	if st.Quote != '"' {
		t.Fatalf("unterminated string not carried: %+v", st)
	}
	toks, st := Tokenize("rest\" then 2", st)
	if st != (State{}) {
		t.Errorf("state not cleared after closing quote: %+v", st)
	}
	if got := kindsOf(toks); got != "string whitespace keyword whitespace number" {
		t.Errorf("closing line lexed as %s", got)
	}
	if toks[0].Text != "rest\"" {
		t.Errorf("string token is %q", toks[0].Text)
	}
}

func TestTokenizeSingleQuoteCarry(t *testing.T) {
	_, st := Tokenize("x = 'abc", State{})
	if st.Quote != '\'' {
		t.Fatalf("single quote not carried: %+v", st)
	}
}

func TestTokenizeMarkerInsideCommentIsText(t *testing.T) {
	_, st := Tokenize("Q: start /* hide", State{})
	toks, _ := Tokenize("Q: not a marker */", st)
	if toks[0].Kind != Comment {
		t.Errorf("marker recognised inside block comment: %s", kindsOf(toks))
	}
}

func TestTokenizeTwoCharOperators(t *testing.T) {
	toks, _ := Tokenize("a <= b >= c != d < e", State{})
	var ops []string
	for _, tok := range toks {
		if tok.Kind == Operator {
			ops = append(ops, tok.Text)
		}
	}
	want := []string{"<=", ">=", "!=", "<"}
	if len(ops) != len(want) {
		t.Fatalf("operators %v, want %v", ops, want)
	}
	for i := range ops {
		if ops[i] != want[i] {
			t.Errorf("operator %d is %q, want %q", i, ops[i], want[i])
		}
	}
}

func TestTokenAt(t *testing.T) {
	toks, _ := Tokenize("Q: if x", State{})
	if i := TokenAt(toks, 3); i < 0 || toks[i].Text != "if" {
		t.Errorf("TokenAt(3) = %d", i)
	}
	if i := TokenAt(toks, 99); i != -1 {
		t.Errorf("TokenAt(99) = %d, want -1", i)
	}
}
