package main

import (
	"image/color"

	"github.com/charmbracelet/colorprofile"
	"github.com/charmbracelet/lipgloss/v2"

	"relq/relevance"
)

// AccentColor is the chrome colour the floating panes share. main sets
// it from config before the program starts.
var AccentColor = lipgloss.Color("63")

var cursorStyle = lipgloss.NewStyle().Reverse(true)

// Styles maps annotation classes and window chrome to terminal styles,
// picked once at startup for the detected colour profile. True-colour
// terminals get the hex palette, anything older the 256-colour
// approximations.
type Styles struct {
	Cursor lipgloss.Style
	Status lipgloss.Style

	Query    lipgloss.Style
	Answer   lipgloss.Style
	Time     lipgloss.Style
	Error    lipgloss.Style
	Keyword  lipgloss.Style
	Str      lipgloss.Style
	Number   lipgloss.Style
	Comment  lipgloss.Style
	Operator lipgloss.Style

	BracketMatch lipgloss.Style
	BracketLone  lipgloss.Style
	Clause       lipgloss.Style
	Pronoun      lipgloss.Style
	Referent     lipgloss.Style

	plain lipgloss.Style
}

// NewStyles builds the palette for the given colour profile.
func NewStyles(p colorprofile.Profile) Styles {
	rgb := p == colorprofile.TrueColor
	pick := func(hex, indexed string) color.Color {
		if rgb {
			return lipgloss.Color(hex)
		}
		return lipgloss.Color(indexed)
	}

	return Styles{
		Cursor: lipgloss.NewStyle().
			Background(lipgloss.Color("255")).
			Foreground(lipgloss.Color("0")),
		Status: lipgloss.NewStyle().Foreground(pick("#7f848e", "245")).Italic(true),

		Query:    lipgloss.NewStyle().Foreground(pick("#56b6c2", "44")).Bold(true),
		Answer:   lipgloss.NewStyle().Foreground(pick("#98c379", "114")),
		Time:     lipgloss.NewStyle().Foreground(pick("#5c6370", "242")),
		Error:    lipgloss.NewStyle().Foreground(pick("#e06c75", "203")),
		Keyword:  lipgloss.NewStyle().Foreground(pick("#61afef", "75")),
		Str:      lipgloss.NewStyle().Foreground(pick("#e5c07b", "180")),
		Number:   lipgloss.NewStyle().Foreground(pick("#d19a66", "173")),
		Comment:  lipgloss.NewStyle().Foreground(pick("#7f848e", "245")).Italic(true),
		Operator: lipgloss.NewStyle().Foreground(pick("#abb2bf", "249")),

		BracketMatch: lipgloss.NewStyle().Background(pick("#3e4451", "238")).Bold(true),
		BracketLone: lipgloss.NewStyle().
			Background(pick("#be5046", "131")).
			Foreground(lipgloss.Color("231")),
		Clause:   lipgloss.NewStyle().Foreground(pick("#c678dd", "176")).Bold(true),
		Pronoun:  lipgloss.NewStyle().Foreground(pick("#ffd75f", "221")).Italic(true),
		Referent: lipgloss.NewStyle().Foreground(pick("#ffd75f", "221")).Underline(true),

		plain: lipgloss.NewStyle(),
	}
}

// For returns the style for an annotation class.
func (s Styles) For(st relevance.Style) lipgloss.Style {
	switch st {
	case relevance.StyleQuery:
		return s.Query
	case relevance.StyleAnswer:
		return s.Answer
	case relevance.StyleTime:
		return s.Time
	case relevance.StyleError:
		return s.Error
	case relevance.StyleKeyword:
		return s.Keyword
	case relevance.StyleString:
		return s.Str
	case relevance.StyleNumber:
		return s.Number
	case relevance.StyleComment:
		return s.Comment
	case relevance.StyleOperator:
		return s.Operator
	case relevance.StyleBracketMatch:
		return s.BracketMatch
	case relevance.StyleBracketLone:
		return s.BracketLone
	case relevance.StyleClause:
		return s.Clause
	case relevance.StylePronoun:
		return s.Pronoun
	case relevance.StyleReferent:
		return s.Referent
	}
	return s.plain
}
