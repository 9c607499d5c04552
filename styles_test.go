package main

import (
	"testing"

	"github.com/charmbracelet/colorprofile"

	"relq/relevance"
)

func TestStylesColourEveryClass(t *testing.T) {
	classes := []relevance.Style{
		relevance.StyleQuery, relevance.StyleAnswer, relevance.StyleTime,
		relevance.StyleError, relevance.StyleKeyword, relevance.StyleString,
		relevance.StyleNumber, relevance.StyleComment, relevance.StyleOperator,
		relevance.StyleBracketMatch, relevance.StyleBracketLone,
		relevance.StyleClause, relevance.StylePronoun, relevance.StyleReferent,
	}
	for _, profile := range []colorprofile.Profile{colorprofile.TrueColor, colorprofile.ANSI256} {
		s := NewStyles(profile)
		for _, c := range classes {
			if s.For(c).Render("x") == "x" {
				t.Errorf("profile %v: class %v renders as plain text", profile, c)
			}
		}
		if s.For(relevance.StyleNone).Render("x") != "x" {
			t.Errorf("profile %v: unclassified text picked up styling", profile)
		}
	}
}
