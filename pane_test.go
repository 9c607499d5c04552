package main

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

type staticContent struct{ title, body string }

func (c staticContent) Render(w, h int) string                  { return c.body }
func (c staticContent) HandleKey(msg tea.KeyMsg) bool           { return false }
func (c staticContent) HandleMouse(x, y int, m tea.MouseMsg) bool { return false }
func (c staticContent) Title() string                           { return c.title }

func TestPaneResizeAnchorsOppositeCorner(t *testing.T) {
	p := NewPane("p", staticContent{"p", ""}, 10, 5, 30, 10)

	// Grab the top-left corner: the bottom-right one must not move.
	p.StartDrag(DragResizeNW, 10, 5)
	p.UpdateDrag(5, 2, 120, 40)
	if p.X != 5 || p.Y != 2 || p.Width != 35 || p.Height != 13 {
		t.Errorf("after outward NW drag: %d,%d %dx%d", p.X, p.Y, p.Width, p.Height)
	}
	if p.X+p.Width-1 != 39 || p.Y+p.Height-1 != 14 {
		t.Errorf("bottom-right corner drifted to %d,%d", p.X+p.Width-1, p.Y+p.Height-1)
	}

	// Dragging far inward stops at the minimum size, still anchored.
	p.UpdateDrag(38, 13, 120, 40)
	if p.Width != p.MinW || p.Height != p.MinH {
		t.Errorf("minimum size not applied: %dx%d", p.Width, p.Height)
	}
	if p.X+p.Width-1 != 39 || p.Y+p.Height-1 != 14 {
		t.Errorf("anchor moved during clamp: %d,%d", p.X+p.Width-1, p.Y+p.Height-1)
	}
	p.StopDrag()
}

func TestPaneResizeSE(t *testing.T) {
	p := NewPane("p", staticContent{"p", ""}, 10, 5, 30, 10)
	p.StartDrag(DragResizeSE, 39, 14)
	p.UpdateDrag(49, 19, 120, 40)
	if p.X != 10 || p.Y != 5 || p.Width != 40 || p.Height != 15 {
		t.Errorf("after SE drag: %d,%d %dx%d", p.X, p.Y, p.Width, p.Height)
	}
}

func TestPaneMoveKeepsTitleBarOnScreen(t *testing.T) {
	p := NewPane("p", staticContent{"p", ""}, 10, 5, 30, 10)
	p.StartDrag(DragMove, 15, 5)
	p.UpdateDrag(500, 500, 120, 40)
	if p.X > 115 || p.Y > 39 {
		t.Errorf("pane dragged off screen to %d,%d", p.X, p.Y)
	}
}

func TestPaneHitZones(t *testing.T) {
	p := NewPane("p", staticContent{"p", ""}, 10, 5, 30, 10)
	tests := []struct {
		x, y int
		want HitZone
	}{
		{10, 5, ZoneCornerNW},
		{39, 5, ZoneCornerNE},
		{10, 14, ZoneCornerSW},
		{39, 14, ZoneCornerSE},
		{20, 5, ZoneTitleBar},
		{10, 8, ZoneBorder},
		{20, 8, ZoneContent},
		{0, 0, ZoneNone},
	}
	for _, tt := range tests {
		if got := p.HitZone(tt.x, tt.y); got != tt.want {
			t.Errorf("HitZone(%d,%d) = %v, want %v", tt.x, tt.y, got, tt.want)
		}
	}
}

func TestPaneManagerFocusCycle(t *testing.T) {
	pm := NewPaneManager(120, 40)
	pm.Add(NewPane("a", staticContent{"a", ""}, 0, 0, 20, 5))
	pm.Add(NewPane("b", staticContent{"b", ""}, 5, 5, 20, 5))
	pm.Focus("a")

	pm.FocusNext()
	if fp := pm.FocusedPane(); fp == nil || fp.ID != "b" {
		t.Fatalf("FocusNext landed on %v", fp)
	}
	// Focusing raised b to the top of the z-order.
	if pm.zOrder[len(pm.zOrder)-1] != "b" {
		t.Errorf("zOrder = %v, want b on top", pm.zOrder)
	}
	pm.FocusNext()
	if fp := pm.FocusedPane(); fp == nil || fp.ID != "a" {
		t.Errorf("cycle did not wrap, got %v", fp)
	}
}

func TestPaneRenderBorders(t *testing.T) {
	p := NewPane("p", staticContent{"tokens [line]", "body"}, 0, 0, 30, 6)
	if out := p.Render(); !strings.Contains(out, "┌") || !strings.Contains(out, "tokens [line]") {
		t.Errorf("unfocused render:\n%s", out)
	}
	p.Focused = true
	if out := p.Render(); !strings.Contains(out, "╔") {
		t.Errorf("focused render missing double border:\n%s", out)
	}
}
