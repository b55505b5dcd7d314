// Package bubblesort implements the windowed sorting puzzle: the player sees
// only two adjacent values at a time, swaps them at will, and asks the engine
// to verify the hidden array. Failed verifications cost an attempt.
package bubblesort

import (
	"fmt"
	"time"

	"github.com/vovakirdan/algoquest/internal/config"
	"github.com/vovakirdan/algoquest/internal/registry"
	"github.com/vovakirdan/algoquest/internal/scene"
	"github.com/vovakirdan/algoquest/internal/timer"
)

// Score constants for a successful verification.
const (
	pointsPerAttempt = 33
	pointsBonus      = 1
)

func init() {
	registry.Register(scene.KindBubbleSort, func(cfg config.Config) scene.Engine {
		return New(cfg.BubbleSort)
	})
}

// Game implements the bubble sort scene.
type Game struct {
	cfg     config.BubbleSortConfig
	emitter scene.Emitter
	sched   *timer.Scheduler

	started  bool
	phase    scene.Phase
	array    []int
	window   int // left index of the visible pair
	attempts int
	swaps    int
	failures int // failed verifications this lifetime, across resets
	message  string
	log      []scene.Frame
}

// New creates a bubble sort scene from its configuration.
func New(cfg config.BubbleSortConfig) *Game {
	if len(cfg.Initial) < 2 {
		cfg.Initial = []int{5, 4, 3, 2, 1, 0}
	}
	if cfg.Attempts < 1 {
		cfg.Attempts = 3
	}
	return &Game{
		cfg:   cfg,
		sched: timer.New(),
		phase: scene.PhaseIdle,
	}
}

// Kind implements scene.Engine.
func (g *Game) Kind() scene.Kind {
	return scene.KindBubbleSort
}

// Start opens the scene on the configured array with full attempts.
func (g *Game) Start(l scene.Listener) {
	g.sched.CancelAll()
	g.started = true
	g.failures = 0
	g.log = nil
	g.reset()
	g.emitter.Reset(l)
	g.emit()
}

// reset restores the array, window and attempts to their initial values.
func (g *Game) reset() {
	g.phase = scene.PhasePlaying
	g.array = make([]int, len(g.cfg.Initial))
	copy(g.array, g.cfg.Initial)
	g.window = 0
	g.attempts = g.cfg.Attempts
	g.swaps = 0
	g.message = "Sort the hidden array in ascending order."
}

// Apply implements scene.Engine.
func (g *Game) Apply(in scene.Input) bool {
	if !g.started || g.phase != scene.PhasePlaying {
		return false
	}

	switch in := in.(type) {
	case scene.ShiftWindow:
		return g.shift(in.Dir)
	case scene.Swap:
		return g.swap()
	case scene.Verify:
		return g.verify()
	default:
		return false
	}
}

// shift moves the window by one index if it stays in bounds.
func (g *Game) shift(dir scene.Direction) bool {
	next := g.window + int(dir)
	if dir == 0 || next < 0 || next+1 >= len(g.array) {
		return false
	}
	g.window = next
	g.emit()
	return true
}

// swap exchanges the two visible values unconditionally.
func (g *Game) swap() bool {
	i, j := g.window, g.window+1
	g.array[i], g.array[j] = g.array[j], g.array[i]
	g.swaps++
	g.record(fmt.Sprintf("swap [%d] <-> [%d]", i, j))
	g.emit()
	return true
}

// verify checks the full hidden array.
func (g *Game) verify() bool {
	if isSorted(g.array) {
		score := g.attempts*pointsPerAttempt + pointsBonus
		g.phase = scene.PhaseComplete
		g.message = fmt.Sprintf("Sorted! Score: %d", score)
		g.record("verify: sorted")
		g.emit()
		g.emitter.Finish(score)
		return true
	}

	g.attempts--
	g.failures++
	g.record("verify: not sorted")

	if g.attempts > 0 {
		g.message = fmt.Sprintf("Not sorted yet. Attempts left: %d", g.attempts)
		g.emit()
		return true
	}

	g.phase = scene.PhaseFailed
	g.message = "Out of attempts. Resetting..."
	g.emit()
	g.sched.After(g.cfg.ResetDelay, func() {
		g.reset()
		g.record("reset")
		g.emit()
	})
	return true
}

// Update implements scene.Engine.
func (g *Game) Update(dt time.Duration) {
	if !g.started {
		return
	}
	g.sched.Advance(dt)
}

// Snapshot implements scene.Engine.
func (g *Game) Snapshot() scene.Snapshot {
	return g.State()
}

// Done implements scene.Engine.
func (g *Game) Done() bool {
	return g.emitter.Ended()
}

// Teardown implements scene.Engine.
func (g *Game) Teardown() {
	g.sched.CancelAll()
	g.emitter.Close()
	g.started = false
}

func (g *Game) record(text string) {
	for i := range g.log {
		g.log[i].Active = false
	}
	g.log = append(g.log, scene.Frame{Text: text, Active: true})
}

func (g *Game) emit() {
	g.emitter.Changed(g.State())
}

func isSorted(a []int) bool {
	for i := 1; i < len(a); i++ {
		if a[i-1] > a[i] {
			return false
		}
	}
	return true
}
