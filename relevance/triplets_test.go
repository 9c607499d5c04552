package relevance

import "testing"

func partWords(tr *ClauseTriplet) string {
	s := ""
	for _, p := range tr.Parts {
		if s != "" {
			s += " "
		}
		s += p.Word
	}
	return s
}

func TestTripletComplete(t *testing.T) {
	line := "Q: if exists x then 1 else 2"
	s := lexDoc(line)
	ifC := col(t, line, "if", 1)
	thenC := col(t, line, "then", 1)
	elseC := col(t, line, "else", 1)

	for _, cur := range []int{ifC, thenC, elseC} {
		tr := TripletAt(s, Pos{0, cur})
		if tr == nil || !tr.Complete() {
			t.Fatalf("cursor at %d: triplet %+v", cur, tr)
		}
		want := []Pos{{0, ifC}, {0, thenC}, {0, elseC}}
		for i, p := range tr.Parts {
			if p.Pos != want[i] {
				t.Errorf("cursor at %d: part %s at %+v, want %+v", cur, p.Word, p.Pos, want[i])
			}
		}
	}
}

func TestTripletPartial(t *testing.T) {
	line := "Q: if exists x then 1"
	s := lexDoc(line)
	tr := TripletAt(s, Pos{0, col(t, line, "if", 1)})
	if tr == nil || tr.Complete() {
		t.Fatalf("triplet %+v", tr)
	}
	if got := partWords(tr); got != "if then" {
		t.Errorf("parts %q, want \"if then\"", got)
	}

	tr = TripletAt(s, Pos{0, col(t, line, "then", 1)})
	if got := partWords(tr); got != "if then" {
		t.Errorf("from then, parts %q", got)
	}
}

func TestTripletSkipsParenthesisedClause(t *testing.T) {
	line := "Q: if (if x then y else z) then q else r"
	s := lexDoc(line)

	tr := TripletAt(s, Pos{0, col(t, line, "then", 2)})
	if tr == nil || !tr.Complete() {
		t.Fatalf("outer then: %+v", tr)
	}
	want := []Pos{
		{0, col(t, line, "if", 1)},
		{0, col(t, line, "then", 2)},
		{0, col(t, line, "else", 2)},
	}
	for i, p := range tr.Parts {
		if p.Pos != want[i] {
			t.Errorf("outer part %s at %+v, want %+v", p.Word, p.Pos, want[i])
		}
	}

	// The inner clause stays inside its brackets.
	tr = TripletAt(s, Pos{0, col(t, line, "then", 1)})
	if tr == nil || !tr.Complete() {
		t.Fatalf("inner then: %+v", tr)
	}
	wantInner := []Pos{
		{0, col(t, line, "if", 2)},
		{0, col(t, line, "then", 1)},
		{0, col(t, line, "else", 1)},
	}
	for i, p := range tr.Parts {
		if p.Pos != wantInner[i] {
			t.Errorf("inner part %s at %+v, want %+v", p.Word, p.Pos, wantInner[i])
		}
	}
}

func TestTripletDanglingElse(t *testing.T) {
	line := "Q: if a then if b then c else d else e"
	s := lexDoc(line)

	// The first else belongs to the nearer if.
	tr := TripletAt(s, Pos{0, col(t, line, "else", 1)})
	if tr == nil {
		t.Fatal("no triplet from inner else")
	}
	if tr.Parts[0].Pos != (Pos{0, col(t, line, "if", 2)}) {
		t.Errorf("inner else bound to if at %+v", tr.Parts[0].Pos)
	}

	// The outer if picks up the remaining else.
	tr = TripletAt(s, Pos{0, col(t, line, "if", 1)})
	if tr == nil || !tr.Complete() {
		t.Fatalf("outer if: %+v", tr)
	}
	if tr.Parts[1].Pos != (Pos{0, col(t, line, "then", 1)}) {
		t.Errorf("outer then at %+v", tr.Parts[1].Pos)
	}
	if tr.Parts[2].Pos != (Pos{0, col(t, line, "else", 2)}) {
		t.Errorf("outer else at %+v", tr.Parts[2].Pos)
	}

	// And the last else finds its way back past the whole inner clause.
	tr = TripletAt(s, Pos{0, col(t, line, "else", 2)})
	if tr == nil || !tr.Complete() {
		t.Fatalf("outer else: %+v", tr)
	}
	if tr.Parts[0].Pos != (Pos{0, col(t, line, "if", 1)}) {
		t.Errorf("outer else bound to if at %+v", tr.Parts[0].Pos)
	}
}

func TestTripletStaysInsideBrackets(t *testing.T) {
	line := "Q: (a then b) if c"
	s := lexDoc(line)
	tr := TripletAt(s, Pos{0, col(t, line, "then", 1)})
	if tr == nil {
		t.Fatal("no triplet")
	}
	if got := partWords(tr); got != "then" {
		t.Errorf("parts %q, want just \"then\"", got)
	}
}

func TestTripletAcrossLines(t *testing.T) {
	lines := []string{
		"Q: if exists alpha",
		"   then beta",
		"   else gamma",
	}
	s := lexDoc(lines...)
	tr := TripletAt(s, Pos{1, col(t, lines[1], "then", 1)})
	if tr == nil || !tr.Complete() {
		t.Fatalf("triplet %+v", tr)
	}
	if tr.Parts[0].Pos.Line != 0 || tr.Parts[2].Pos.Line != 2 {
		t.Errorf("parts on lines %d and %d", tr.Parts[0].Pos.Line, tr.Parts[2].Pos.Line)
	}
}

func TestTripletNotOnKeyword(t *testing.T) {
	line := "Q: version of it"
	s := lexDoc(line)
	if tr := TripletAt(s, Pos{0, col(t, line, "version", 1)}); tr != nil {
		t.Errorf("triplet away from clause keywords: %+v", tr)
	}
}
