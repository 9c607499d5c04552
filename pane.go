package main

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/cellbuf"
)

// DragMode represents the current drag operation. Panes move by their
// title bar and resize by their corners; the edges only focus.
type DragMode int

const (
	DragNone DragMode = iota
	DragMove
	DragResizeNE
	DragResizeNW
	DragResizeSE
	DragResizeSW
)

// HitZone represents where a mouse click landed on a pane
type HitZone int

const (
	ZoneNone HitZone = iota
	ZoneTitleBar
	ZoneContent
	ZoneBorder
	ZoneCornerNE
	ZoneCornerNW
	ZoneCornerSE
	ZoneCornerSW
)

// PaneContent defines what a pane can display
type PaneContent interface {
	// Render returns the content string to display within pane borders
	// w, h are the content area dimensions (inside borders)
	Render(w, h int) string

	// HandleKey processes keyboard input when this pane has focus
	// Returns true if the key was consumed
	HandleKey(msg tea.KeyMsg) bool

	// HandleMouse processes mouse input within this pane's bounds
	// x, y are relative to the pane's content area
	HandleMouse(x, y int, msg tea.MouseMsg) bool

	// Title returns the pane's title
	Title() string
}

// Pane represents a floating pane in the TUI
type Pane struct {
	ID      string
	X, Y    int // Top-left position
	Width   int // Including borders
	Height  int
	MinW    int // Minimum size constraints
	MinH    int
	ZIndex  int
	Focused bool
	Content PaneContent

	// Drag state. A resize keeps the corner opposite the grabbed one
	// anchored and recomputes the rectangle from there, so the pane
	// never walks across the screen while shrinking.
	dragging bool
	dragMode DragMode
	grabDX   int // mouse offset into the title bar while moving
	grabDY   int
	anchorX  int // fixed corner while resizing
	anchorY  int
}

// NewPane creates a new pane with sensible defaults
func NewPane(id string, content PaneContent, x, y, w, h int) *Pane {
	return &Pane{
		ID:      id,
		X:       x,
		Y:       y,
		Width:   w,
		Height:  h,
		MinW:    20,
		MinH:    5,
		Content: content,
	}
}

// HitZone determines where a point falls within the pane
func (p *Pane) HitZone(x, y int) HitZone {
	// Outside pane entirely
	if x < p.X || x >= p.X+p.Width || y < p.Y || y >= p.Y+p.Height {
		return ZoneNone
	}

	relX := x - p.X
	relY := y - p.Y

	// Corners (1 cell each)
	if relY == 0 && relX == 0 {
		return ZoneCornerNW
	}
	if relY == 0 && relX == p.Width-1 {
		return ZoneCornerNE
	}
	if relY == p.Height-1 && relX == 0 {
		return ZoneCornerSW
	}
	if relY == p.Height-1 && relX == p.Width-1 {
		return ZoneCornerSE
	}

	// Edges
	if relY == 0 {
		return ZoneTitleBar // Top edge is title bar
	}
	if relY == p.Height-1 || relX == 0 || relX == p.Width-1 {
		return ZoneBorder
	}

	return ZoneContent
}

// StartDrag begins a move or resize at the given mouse position.
func (p *Pane) StartDrag(mode DragMode, mouseX, mouseY int) {
	p.dragging = true
	p.dragMode = mode
	p.grabDX = mouseX - p.X
	p.grabDY = mouseY - p.Y

	switch mode {
	case DragResizeSE:
		p.anchorX, p.anchorY = p.X, p.Y
	case DragResizeSW:
		p.anchorX, p.anchorY = p.X+p.Width-1, p.Y
	case DragResizeNE:
		p.anchorX, p.anchorY = p.X, p.Y+p.Height-1
	case DragResizeNW:
		p.anchorX, p.anchorY = p.X+p.Width-1, p.Y+p.Height-1
	}
}

// UpdateDrag moves or resizes the pane to follow the mouse.
func (p *Pane) UpdateDrag(mouseX, mouseY, screenW, screenH int) {
	if !p.dragging {
		return
	}
	if p.dragMode == DragMove {
		// Keep at least part of the title bar on screen.
		p.X = clamp(mouseX-p.grabDX, -p.Width+5, screenW-5)
		p.Y = clamp(mouseY-p.grabDY, 0, screenH-1)
		return
	}
	if p.dragMode == DragNone {
		return
	}

	// The rectangle spans the anchored corner and the mouse. Minimum
	// size pushes the mouse side out, never the anchor.
	w := max(absInt(mouseX-p.anchorX)+1, p.MinW)
	h := max(absInt(mouseY-p.anchorY)+1, p.MinH)
	if mouseX >= p.anchorX {
		p.X = p.anchorX
	} else {
		p.X = p.anchorX - w + 1
	}
	if mouseY >= p.anchorY {
		p.Y = p.anchorY
	} else {
		p.Y = p.anchorY - h + 1
	}
	p.Width, p.Height = w, h
}

// StopDrag ends the current drag operation
func (p *Pane) StopDrag() {
	p.dragging = false
	p.dragMode = DragNone
}

// Render renders the pane with borders and content
func (p *Pane) Render() string {
	// Border characters - double for focused, single for unfocused
	var tl, tr, bl, br, h, v string

	if p.Focused {
		tl, tr, bl, br = "╔", "╗", "╚", "╝"
		h, v = "═", "║"
	} else {
		tl, tr, bl, br = "┌", "┐", "└", "┘"
		h, v = "─", "│"
	}

	contentW := p.Width - 2
	contentH := p.Height - 2
	if contentW < 1 {
		contentW = 1
	}
	if contentH < 1 {
		contentH = 1
	}

	// Render content
	content := ""
	if p.Content != nil {
		content = p.Content.Render(contentW, contentH)
	}
	contentLines := strings.Split(content, "\n")

	// Build the box
	var lines []string

	// Title bar
	title := ""
	if p.Content != nil {
		title = p.Content.Title()
	}
	titleLen := len([]rune(title))
	padding := contentW - titleLen - 2
	if padding < 0 {
		runes := []rune(title)
		if len(runes) > contentW-2 {
			title = string(runes[:contentW-2])
		}
		padding = 0
	}
	topBar := tl + " " + title + " " + strings.Repeat(h, padding) + tr
	lines = append(lines, topBar)

	// Content lines
	for i := 0; i < contentH; i++ {
		line := ""
		if i < len(contentLines) {
			line = contentLines[i]
		}
		lineRunes := []rune(line)
		if len(lineRunes) < contentW {
			line = line + strings.Repeat(" ", contentW-len(lineRunes))
		} else if len(lineRunes) > contentW {
			line = string(lineRunes[:contentW])
		}
		lines = append(lines, v+line+v)
	}

	// Bottom border
	lines = append(lines, bl+strings.Repeat(h, contentW)+br)

	return strings.Join(lines, "\n")
}

// PaneManager tracks all floating panes
type PaneManager struct {
	panes     map[string]*Pane
	zOrder    []string // Ordered by z-index, last = topmost
	focusedID string
	screenW   int
	screenH   int
}

// NewPaneManager creates a new pane manager
func NewPaneManager(screenW, screenH int) *PaneManager {
	return &PaneManager{
		panes:   make(map[string]*Pane),
		zOrder:  []string{},
		screenW: screenW,
		screenH: screenH,
	}
}

// Add adds a pane to the manager
func (pm *PaneManager) Add(pane *Pane) {
	pm.panes[pane.ID] = pane
	pm.zOrder = append(pm.zOrder, pane.ID)
	pane.ZIndex = len(pm.zOrder)
}

// Remove removes a pane from the manager
func (pm *PaneManager) Remove(id string) {
	delete(pm.panes, id)
	for i, pid := range pm.zOrder {
		if pid == id {
			pm.zOrder = append(pm.zOrder[:i], pm.zOrder[i+1:]...)
			break
		}
	}
	if pm.focusedID == id {
		pm.focusedID = ""
	}
}

// Get returns a pane by ID
func (pm *PaneManager) Get(id string) *Pane {
	return pm.panes[id]
}

// Focus focuses a pane and raises it to the top
func (pm *PaneManager) Focus(id string) {
	// Unfocus current
	if pm.focusedID != "" {
		if p := pm.panes[pm.focusedID]; p != nil {
			p.Focused = false
		}
	}

	pm.focusedID = id

	// Focus and raise new pane
	if p := pm.panes[id]; p != nil {
		p.Focused = true
		pm.raise(id)
	}
}

// raise moves a pane to the top of z-order
func (pm *PaneManager) raise(id string) {
	for i, pid := range pm.zOrder {
		if pid == id {
			pm.zOrder = append(pm.zOrder[:i], pm.zOrder[i+1:]...)
			pm.zOrder = append(pm.zOrder, id)
			break
		}
	}
}

// FocusNext cycles focus to the next pane
func (pm *PaneManager) FocusNext() {
	if len(pm.zOrder) == 0 {
		return
	}

	if pm.focusedID == "" {
		pm.Focus(pm.zOrder[0])
		return
	}

	for i, id := range pm.zOrder {
		if id == pm.focusedID {
			nextIdx := (i + 1) % len(pm.zOrder)
			pm.Focus(pm.zOrder[nextIdx])
			return
		}
	}
}

// FocusedPane returns the currently focused pane
func (pm *PaneManager) FocusedPane() *Pane {
	return pm.panes[pm.focusedID]
}

// PaneAt returns the topmost pane at the given coordinates
func (pm *PaneManager) PaneAt(x, y int) *Pane {
	// Iterate from top of z-order (last) to bottom (first)
	for i := len(pm.zOrder) - 1; i >= 0; i-- {
		pane := pm.panes[pm.zOrder[i]]
		if pane != nil && pane.HitZone(x, y) != ZoneNone {
			return pane
		}
	}
	return nil
}

// UpdateSize updates the screen dimensions
func (pm *PaneManager) UpdateSize(w, h int) {
	pm.screenW = w
	pm.screenH = h

	// Adjust pane positions to stay visible
	for _, pane := range pm.panes {
		// Ensure at least 5 chars visible horizontally
		if pane.X > w-5 {
			pane.X = w - 5
		}
		// Ensure title bar visible
		if pane.Y >= h {
			pane.Y = h - 1
		}
	}
}

// HasPanes returns true if there are any panes
func (pm *PaneManager) HasPanes() bool {
	return len(pm.zOrder) > 0
}

// Render composites all panes over the base content
func (pm *PaneManager) Render(base string) string {
	if len(pm.zOrder) == 0 {
		return base
	}

	// Parse base to get actual dimensions
	baseLines := strings.Split(base, "\n")
	baseH := len(baseLines)
	baseW := pm.screenW

	// Create base buffer from the session content
	buf := cellbuf.NewBuffer(baseW, baseH)
	cellbuf.SetContent(buf, base)

	// Overlay each pane in z-order (lowest first)
	for _, id := range pm.zOrder {
		pane := pm.panes[id]
		if pane == nil {
			continue
		}

		// Create a buffer for the pane content
		paneStr := pane.Render()
		paneLines := strings.Split(paneStr, "\n")

		// Copy pane content to main buffer at pane position
		for dy, line := range paneLines {
			y := pane.Y + dy
			if y < 0 || y >= baseH {
				continue
			}
			x := pane.X
			for _, r := range line {
				if x >= 0 && x < baseW {
					buf.SetCell(x, y, cellbuf.NewCell(r))
				}
				x++
			}
		}
	}

	return cellbuf.Render(buf)
}

// zoneToDragMode converts a hit zone to a drag mode
func zoneToDragMode(zone HitZone) DragMode {
	switch zone {
	case ZoneTitleBar:
		return DragMove
	case ZoneCornerNE:
		return DragResizeNE
	case ZoneCornerNW:
		return DragResizeNW
	case ZoneCornerSE:
		return DragResizeSE
	case ZoneCornerSW:
		return DragResizeSW
	default:
		return DragNone
	}
}

// Helper functions
func clamp(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
