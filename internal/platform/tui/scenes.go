package tui

import (
	"fmt"
	"strings"

	"github.com/vovakirdan/algoquest/internal/core"
	"github.com/vovakirdan/algoquest/internal/games/bubblesort"
	"github.com/vovakirdan/algoquest/internal/games/factorial"
	"github.com/vovakirdan/algoquest/internal/games/fibonacci"
	"github.com/vovakirdan/algoquest/internal/scene"
)

const (
	platformWidth = 12
	stairStep     = 3 // horizontal offset between consecutive platforms
	treeSlotMin   = 5
	treeSlotMax   = 10
)

// drawScene draws the snapshot into scr. selected is the Fibonacci leaf under
// the pointer.
func drawScene(scr *core.Screen, snap scene.Snapshot, selected string) {
	scr.Clear()
	switch s := snap.(type) {
	case factorial.Snapshot:
		drawFactorial(scr, s)
	case fibonacci.Snapshot:
		drawFibonacci(scr, s, selected)
	case bubblesort.Snapshot:
		drawBubbleSort(scr, s)
	}
}

// drawFactorial draws the call stack as a staircase of platforms, one per
// depth, with the return value of each call beside it.
func drawFactorial(scr *core.Screen, s factorial.Snapshot) {
	if s.N == 0 {
		return
	}
	rowStep := 3
	for rowStep > 1 && (s.N+1)*rowStep+1 > scr.Height() {
		rowStep--
	}

	platformY := func(d int) int { return (d + 1) * rowStep }

	for d := 0; d <= s.N; d++ {
		x, y := 1+d*stairStep, platformY(d)

		color := core.ColorDim
		switch {
		case d < len(s.ReturnValues) && s.ReturnValues[d].Known:
			color = core.ColorResolved
		case d <= s.Depth:
			color = core.ColorActive
		}
		scr.DrawHLine(x, y, platformWidth, '═', color)

		label := fmt.Sprintf(" factorial(%d) ", s.N-d)
		if d < len(s.ReturnValues) && s.ReturnValues[d].Known {
			label += fmt.Sprintf("→ %d", s.ReturnValues[d].Value)
		} else {
			label += "→ ?"
		}
		scr.DrawText(x+platformWidth, y, label, color)

		if d == s.N && !s.ReturnValues[d].Known {
			scr.SetCell(x+platformWidth/2, y-1, core.Cell{Rune: '◆', Color: core.ColorArtifact})
		}
	}

	// The explorer stands above its platform and floats upwards while returning.
	px := 1 + s.Depth*stairStep + 2
	py := platformY(s.Depth) - 1
	player := '@'
	if s.Traveling {
		player = '↑'
		if rowStep == 3 {
			py--
		}
	}
	scr.SetCell(px, py, core.Cell{Rune: player, Color: core.ColorPlayer})
}

// treeLayout positions visible call-tree nodes. Leaves of the visible
// subtree get consecutive slots; parents sit over the middle of their children.
type treeLayout struct {
	nodes  map[string]fibonacci.NodeView
	hazard map[string]bool
	slots  int
	x      map[string]int // slot center, in half-slots
	depth  map[string]int
}

func layoutTree(s fibonacci.Snapshot) *treeLayout {
	l := &treeLayout{
		nodes:  make(map[string]fibonacci.NodeView, len(s.Nodes)),
		hazard: make(map[string]bool, len(s.Hazards)),
		x:      make(map[string]int),
		depth:  make(map[string]int),
	}
	for _, n := range s.Nodes {
		l.nodes[n.ID] = n
	}
	for _, id := range s.Hazards {
		l.hazard[id] = true
	}
	for _, n := range s.Nodes {
		if n.Parent == "" {
			l.place(n.ID, 0)
			break
		}
	}
	return l
}

// place assigns positions below id and returns its center in half-slots.
// Children that are not visible occupy one slot as a placeholder.
func (l *treeLayout) place(id string, depth int) int {
	l.depth[id] = depth
	n, ok := l.nodes[id]
	if !ok || len(n.Children) == 0 {
		l.x[id] = 2*l.slots + 1
		l.slots++
		return l.x[id]
	}
	left := l.place(n.Children[0], depth+1)
	right := l.place(n.Children[1], depth+1)
	l.x[id] = (left + right) / 2
	return l.x[id]
}

// drawFibonacci draws the visible part of the call tree. Reachable leaves
// carry an artifact, visited nodes show their return value and closed
// subtrees are drawn as thorns.
func drawFibonacci(scr *core.Screen, s fibonacci.Snapshot, selected string) {
	l := layoutTree(s)
	if l.slots == 0 {
		return
	}

	slot := core.Clamp(scr.Width()/l.slots, treeSlotMin, treeSlotMax)
	maxDepth := 0
	for _, d := range l.depth {
		maxDepth = max(maxDepth, d)
	}
	rowStep := 3
	if (maxDepth+1)*rowStep > scr.Height() {
		rowStep = 2
	}

	col := func(id string) int { return l.x[id] * slot / 2 }
	row := func(id string) int { return l.depth[id] * rowStep }

	// Connectors first so labels are drawn over them.
	for _, n := range s.Nodes {
		for _, child := range n.Children {
			drawConnector(scr, col(n.ID), row(n.ID)+1, col(child), row(child)-1)
		}
	}

	for id := range l.x {
		x, y := col(id), row(id)
		n, visible := l.nodes[id]
		switch {
		case !visible && l.hazard[id]:
			drawCentered(scr, x, y, "^^^", core.ColorHazard)
		case !visible:
			drawCentered(scr, x, y, "·", core.ColorDim)
		default:
			drawNode(scr, x, y, n, n.ID == selected)
		}
	}
}

func drawNode(scr *core.Screen, x, y int, n fibonacci.NodeView, selected bool) {
	label := n.Label
	color := core.ColorActive
	switch {
	case n.Visited:
		label = fmt.Sprintf("%s=%d", n.Label, n.Value)
		color = core.ColorResolved
	case n.Leaf:
		label = "◆" + n.Label
		color = core.ColorArtifact
	}
	if selected {
		label = "[" + label + "]"
		color = core.ColorPlayer
	}
	drawCentered(scr, x, y, label, color)
}

// drawConnector links a parent at (px, py) to a child whose label sits on row cy+1.
func drawConnector(scr *core.Screen, px, py, cx, cy int) {
	if cy < py {
		return
	}
	r := '│'
	switch {
	case cx < px:
		r = '╱'
	case cx > px:
		r = '╲'
	}
	mid := (px + cx) / 2
	for y := py; y <= cy; y++ {
		x := mid
		if y == py && py != cy {
			x = (px + mid) / 2
		}
		scr.SetCell(x, y, core.Cell{Rune: r, Color: core.ColorDim})
	}
}

func drawCentered(scr *core.Screen, x, y int, text string, c core.Color) {
	scr.DrawText(x-len([]rune(text))/2, y, text, c)
}

// drawBubbleSort draws the runeplates. Only the two values under the window
// are shown; the rest of the array stays hidden.
func drawBubbleSort(scr *core.Screen, s bubblesort.Snapshot) {
	n := len(s.Cells)
	if n == 0 {
		return
	}
	const cellW = 5

	width := n*cellW + 1
	x0 := max((scr.Width()-width)/2, 0)

	for i, c := range s.Cells {
		x := x0 + i*cellW
		color := core.ColorDim
		text := "?"
		if !c.Hidden {
			color = core.ColorAccent
			text = fmt.Sprintf("%d", c.Value)
		}
		if s.Phase == scene.PhaseComplete {
			color = core.ColorResolved
		}
		scr.DrawBox(core.NewRect(x, 0, cellW, 3), color)
		drawCentered(scr, x+cellW/2, 1, text, color)
		drawCentered(scr, x+cellW/2, 3, fmt.Sprintf("%d", i), core.ColorDim)
	}

	left := x0 + s.Window[0]*cellW
	scr.DrawText(left+1, 4, strings.Repeat("▔", 2*cellW-2), core.ColorPlayer)

	hearts := strings.Repeat("♥", s.Attempts)
	if s.Phase == scene.PhaseFailed {
		hearts = "✕"
	}
	status := fmt.Sprintf("Attempts: %s   Swaps: %d", hearts, s.Swaps)
	scr.DrawText(x0, 6, status, core.ColorDefault)

	msgColor := core.ColorDefault
	switch s.Phase {
	case scene.PhaseFailed:
		msgColor = core.ColorWarning
	case scene.PhaseComplete:
		msgColor = core.ColorResolved
	}
	scr.DrawText(x0, 7, s.Message, msgColor)
}
