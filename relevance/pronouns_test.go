package relevance

import "testing"

func TestPronounBindsToWhoseSubject(t *testing.T) {
	line := "Q: names of regapps whose (name of it contains \"fire\")"
	s := lexDoc(line)
	ref := ResolveReferent(s, Pos{0, col(t, line, "it", 1)})
	if ref == nil || ref.Span == nil {
		t.Fatalf("referent %+v", ref)
	}
	start := col(t, line, "regapps", 1)
	if *ref.Span != (Span{Pos{0, start}, Pos{0, start + len("regapps")}}) {
		t.Errorf("referent span %+v", *ref.Span)
	}
	if ref.Binding != (Pos{0, col(t, line, "whose", 1)}) {
		t.Errorf("binding at %+v", ref.Binding)
	}
}

func TestPronounPropertyListBindsForward(t *testing.T) {
	line := "Q: (name of it, version of it) of regapps"
	s := lexDoc(line)
	for n := 1; n <= 2; n++ {
		ref := ResolveReferent(s, Pos{0, col(t, line, "it", n)})
		if ref == nil || ref.Span == nil {
			t.Fatalf("pronoun %d: referent %+v", n, ref)
		}
		start := col(t, line, "regapps", 1)
		if ref.Span.Start != (Pos{0, start}) {
			t.Errorf("pronoun %d referent at %+v", n, ref.Span.Start)
		}
		if ref.Binding != (Pos{0, col(t, line, "of", 3)}) {
			t.Errorf("pronoun %d binding at %+v", n, ref.Binding)
		}
	}
}

func TestPronounParenthesisedSubject(t *testing.T) {
	line := "Q: (members of group) whose (it > 2)"
	s := lexDoc(line)
	ref := ResolveReferent(s, Pos{0, col(t, line, "it", 1)})
	if ref == nil || ref.Span == nil {
		t.Fatalf("referent %+v", ref)
	}
	want := Span{
		Pos{0, col(t, line, "(", 1)},
		Pos{0, col(t, line, ")", 1) + 1},
	}
	if *ref.Span != want {
		t.Errorf("referent span %+v, want %+v", *ref.Span, want)
	}
}

func TestPronounNearestWhoseWins(t *testing.T) {
	line := "Q: a whose (b whose (it = 1))"
	s := lexDoc(line)
	ref := ResolveReferent(s, Pos{0, col(t, line, "it", 1)})
	if ref == nil || ref.Span == nil {
		t.Fatalf("referent %+v", ref)
	}
	if ref.Span.Start != (Pos{0, col(t, line, "b", 1)}) {
		t.Errorf("bound past the inner whose: %+v", *ref.Span)
	}
}

func TestPronounNoReferent(t *testing.T) {
	line := "Q: it + 1"
	s := lexDoc(line)
	ref := ResolveReferent(s, Pos{0, col(t, line, "it", 1)})
	if ref == nil {
		t.Fatal("pronoun not recognised")
	}
	if ref.Span != nil {
		t.Errorf("referent from nowhere: %+v", *ref.Span)
	}
}

func TestPronounThem(t *testing.T) {
	line := "Q: files whose (sizes of them > 0)"
	s := lexDoc(line)
	ref := ResolveReferent(s, Pos{0, col(t, line, "them", 1)})
	if ref == nil || ref.Span == nil {
		t.Fatalf("referent %+v", ref)
	}
	if ref.Span.Start != (Pos{0, col(t, line, "files", 1)}) {
		t.Errorf("them bound to %+v", *ref.Span)
	}
}

func TestPronounAcrossLines(t *testing.T) {
	lines := []string{
		"Q: names of regapps",
		"   whose (version of it = 2)",
	}
	s := lexDoc(lines...)
	ref := ResolveReferent(s, Pos{1, col(t, lines[1], "it", 1)})
	if ref == nil || ref.Span == nil {
		t.Fatalf("referent %+v", ref)
	}
	if ref.Span.Start != (Pos{0, col(t, lines[0], "regapps", 1)}) {
		t.Errorf("referent at %+v", ref.Span.Start)
	}
}

func TestPronounNotOnPronoun(t *testing.T) {
	line := "Q: version of item"
	s := lexDoc(line)
	if ref := ResolveReferent(s, Pos{0, col(t, line, "item", 1)}); ref != nil {
		t.Errorf("referent away from any pronoun: %+v", ref)
	}
}
