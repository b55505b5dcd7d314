// Package factorial implements the recursion-descent scene: the player walks
// down one platform per recursive call of factorial(N), collects the base
// case, and the engine then returns up the stack multiplying results.
package factorial

import (
	"fmt"
	"time"

	"github.com/vovakirdan/algoquest/internal/config"
	"github.com/vovakirdan/algoquest/internal/registry"
	"github.com/vovakirdan/algoquest/internal/scene"
	"github.com/vovakirdan/algoquest/internal/timer"
)

func init() {
	registry.Register(scene.KindFactorial, func(cfg config.Config) scene.Engine {
		return New(cfg.Factorial)
	})
}

// ReturnValue is one slot of the return-value column. Known is false until
// the call at that depth has returned.
type ReturnValue struct {
	Value int
	Known bool
}

// Game implements the factorial scene.
//
// Depth d hosts the call factorial(N-d). The base case factorial(0) sits on
// the deepest platform d = N.
type Game struct {
	cfg     config.FactorialConfig
	emitter scene.Emitter
	sched   *timer.Scheduler

	started   bool
	phase     scene.Phase
	n         int
	depth     int
	traveling bool // floating from depth+1 up to depth
	values    []ReturnValue
	frames    []scene.Frame
	steps     []string

	// Positional fault tracking. Never touches the state machine.
	playerY   float64
	fallTimer time.Duration
	respawns  int
}

// New creates a factorial scene from its configuration.
func New(cfg config.FactorialConfig) *Game {
	if cfg.Depth < 1 {
		cfg.Depth = 1
	}
	return &Game{
		cfg:   cfg,
		sched: timer.New(),
		phase: scene.PhaseIdle,
	}
}

// Kind implements scene.Engine.
func (g *Game) Kind() scene.Kind {
	return scene.KindFactorial
}

// Start resets the scene to Descending(0).
func (g *Game) Start(l scene.Listener) {
	g.sched.CancelAll()

	g.n = g.cfg.Depth
	g.started = true
	g.phase = scene.PhaseDescending
	g.depth = 0
	g.traveling = false
	g.values = make([]ReturnValue, g.n+1)
	g.frames = make([]scene.Frame, g.n+1)
	g.steps = nil
	g.playerY = 0
	g.fallTimer = 0
	g.respawns = 0

	g.frames[0] = scene.Frame{Text: g.callText(0), Active: true}

	g.emitter.Reset(l)
	g.emit()
}

// Apply implements scene.Engine.
func (g *Game) Apply(in scene.Input) bool {
	if !g.started {
		return false
	}

	switch in := in.(type) {
	case scene.Move, scene.Jump:
		// Movement is resolved by the presentation's physics, even after completion.
		return true
	case scene.ReportPosition:
		g.playerY = in.Y
		return true
	case scene.ReachPlatform:
		return g.reach(in.Depth)
	default:
		return false
	}
}

// reach handles Descending(d) -> Descending(d+1).
func (g *Game) reach(d int) bool {
	if g.phase != scene.PhaseDescending || d != g.depth+1 || d > g.n {
		return false
	}

	g.frames[g.depth].Active = false
	g.depth = d
	g.frames[d] = scene.Frame{Text: g.callText(d), Active: true}

	if d == g.n {
		g.collectBase()
	}
	g.emit()
	return true
}

// collectBase stores the base case and schedules the first return step.
func (g *Game) collectBase() {
	g.phase = scene.PhaseAtBase
	g.values[g.n] = ReturnValue{Value: 1, Known: true}
	g.frames[g.n] = scene.Frame{
		Text:   "factorial(0) -> returns 1",
		Active: true,
		Return: true,
	}
	g.sched.After(g.cfg.ReturnDelay, func() { g.beginReturn(g.n - 1) })
}

// beginReturn starts floating up to depth d.
func (g *Game) beginReturn(d int) {
	g.phase = scene.PhaseAscending
	g.traveling = true
	g.emit()
	g.sched.After(g.cfg.TravelTime, func() { g.resolve(d) })
}

// resolve computes the return value at depth d from the one below it.
func (g *Game) resolve(d int) {
	k := g.n - d
	prev := g.values[d+1].Value
	result := k * prev

	g.values[d] = ReturnValue{Value: result, Known: true}
	g.frames[d+1].Active = false
	g.frames[d] = scene.Frame{
		Text:   fmt.Sprintf("f(%d) = %d * %d = %d", k, k, prev, result),
		Active: true,
		Return: true,
	}
	g.steps = append(g.steps, g.frames[d].Text)
	g.depth = d
	g.traveling = false

	if d == 0 {
		g.complete()
		return
	}

	g.emit()
	g.sched.After(g.cfg.ReturnDelay, func() { g.beginReturn(d - 1) })
}

// complete enters the terminal state and reports the score after a pause.
func (g *Game) complete() {
	g.phase = scene.PhaseComplete
	g.frames[0].Text = fmt.Sprintf("Final result: %d", g.values[0].Value)
	g.emit()
	g.sched.After(g.cfg.CompletionDelay, func() { g.emitter.Finish(g.cfg.Score) })
}

// Update advances timed transitions and the fall-reset timer.
func (g *Game) Update(dt time.Duration) {
	if !g.started {
		return
	}
	g.sched.Advance(dt)

	if g.playerY <= g.cfg.FallResetY {
		g.fallTimer = 0
		return
	}
	g.fallTimer += dt
	if g.fallTimer > g.cfg.FallResetTime {
		g.respawn()
	}
}

// respawn puts the player back at the entrance. Scene state is kept.
func (g *Game) respawn() {
	g.respawns++
	g.fallTimer = 0
	g.playerY = 0
	g.emit()
}

// Snapshot implements scene.Engine.
func (g *Game) Snapshot() scene.Snapshot {
	return g.State()
}

// Done implements scene.Engine.
func (g *Game) Done() bool {
	return g.emitter.Ended()
}

// Teardown cancels pending transitions and silences the scene.
func (g *Game) Teardown() {
	g.sched.CancelAll()
	g.emitter.Close()
	g.started = false
}

func (g *Game) callText(d int) string {
	return fmt.Sprintf("Calling factorial(%d)...", g.n-d)
}

func (g *Game) emit() {
	g.emitter.Changed(g.State())
}
