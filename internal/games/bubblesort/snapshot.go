package bubblesort

import "github.com/vovakirdan/algoquest/internal/scene"

// Cell is one array slot as the player sees it.
type Cell struct {
	Value  int // zero when Hidden
	Hidden bool
}

// Snapshot captures the renderable scene state. Values outside the window
// are never exposed.
type Snapshot struct {
	Phase    scene.Phase
	Cells    []Cell
	Window   [2]int
	Attempts int
	Swaps    int
	Failures int
	Message  string
	Log      []scene.Frame
}

// Kind implements scene.Snapshot.
func (Snapshot) Kind() scene.Kind {
	return scene.KindBubbleSort
}

// Mistakes implements scene.MistakeCounter.
func (s Snapshot) Mistakes() int {
	return s.Failures
}

// State returns the current snapshot.
func (g *Game) State() Snapshot {
	cells := make([]Cell, len(g.array))
	for i := range cells {
		if i == g.window || i == g.window+1 {
			cells[i] = Cell{Value: g.array[i]}
		} else {
			cells[i] = Cell{Hidden: true}
		}
	}
	frames := make([]scene.Frame, len(g.log))
	copy(frames, g.log)

	return Snapshot{
		Phase:    g.phase,
		Cells:    cells,
		Window:   [2]int{g.window, g.window + 1},
		Attempts: g.attempts,
		Swaps:    g.swaps,
		Failures: g.failures,
		Message:  g.message,
		Log:      frames,
	}
}

// Visible returns the two revealed values.
func (s Snapshot) Visible() (int, int) {
	if len(s.Cells) < 2 {
		return 0, 0
	}
	return s.Cells[s.Window[0]].Value, s.Cells[s.Window[1]].Value
}
