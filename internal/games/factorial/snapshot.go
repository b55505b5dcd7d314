package factorial

import (
	"fmt"
	"time"

	"github.com/vovakirdan/algoquest/internal/scene"
)

// Snapshot captures the renderable scene state.
type Snapshot struct {
	Phase        scene.Phase
	N            int
	Depth        int    // platform the player is on; while Traveling, the one being left
	Label        string // "Depth: k" where k is the argument of the call at Depth
	Traveling    bool
	ReturnValues []ReturnValue // index = depth, len N+1
	Frames       []scene.Frame // call stack, index = depth
	Steps        []string      // ascent reports in order, "f(k) = k * prev = result"
	Result       int           // factorial(N) once Complete
	Respawns     int           // increments each time the player must be reset to the entrance
	FallTimer    time.Duration
}

// Kind implements scene.Snapshot.
func (Snapshot) Kind() scene.Kind {
	return scene.KindFactorial
}

// State returns the current snapshot.
func (g *Game) State() Snapshot {
	values := make([]ReturnValue, len(g.values))
	copy(values, g.values)
	frames := make([]scene.Frame, len(g.frames))
	copy(frames, g.frames)
	steps := make([]string, len(g.steps))
	copy(steps, g.steps)

	result := 0
	if g.phase == scene.PhaseComplete && len(values) > 0 {
		result = values[0].Value
	}

	return Snapshot{
		Phase:        g.phase,
		N:            g.n,
		Depth:        g.depth,
		Label:        fmt.Sprintf("Depth: %d", g.n-g.depth),
		Traveling:    g.traveling,
		ReturnValues: values,
		Frames:       frames,
		Steps:        steps,
		Result:       result,
		Respawns:     g.respawns,
		FallTimer:    g.fallTimer,
	}
}
