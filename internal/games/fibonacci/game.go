// Package fibonacci implements the call-tree scene: every node of the fib(N)
// recursion tree is a platform, leaves carry artifacts, and collecting a leaf
// resolves its ancestors once all of their children have returned.
package fibonacci

import (
	"fmt"
	"time"

	"github.com/vovakirdan/algoquest/internal/config"
	"github.com/vovakirdan/algoquest/internal/registry"
	"github.com/vovakirdan/algoquest/internal/scene"
)

func init() {
	registry.Register(scene.KindFibonacci, func(cfg config.Config) scene.Engine {
		return New(cfg.Fibonacci)
	})
}

// Game implements the Fibonacci scene.
type Game struct {
	cfg     config.FibonacciConfig
	emitter scene.Emitter

	started   bool
	phase     scene.Phase
	tree      *tree
	collected int
	focus     int
	frames    []scene.Frame
	respawns  int
}

// New creates a Fibonacci scene from its configuration.
func New(cfg config.FibonacciConfig) *Game {
	if cfg.N < 1 {
		cfg.N = 1
	}
	if cfg.Policy == "" {
		cfg.Policy = config.PolicyLeftmost
	}
	return &Game{
		cfg:   cfg,
		phase: scene.PhaseIdle,
		focus: -1,
	}
}

// Kind implements scene.Engine.
func (g *Game) Kind() scene.Kind {
	return scene.KindFibonacci
}

// Start rebuilds the tree and activates the entry path.
func (g *Game) Start(l scene.Listener) {
	g.tree = buildTree(g.cfg.N)
	g.started = true
	g.phase = scene.PhaseExploring
	g.collected = 0
	g.focus = 0
	g.respawns = 0
	g.frames = []scene.Frame{{Text: fmt.Sprintf("Calling fib(%d)...", g.cfg.N), Active: true}}

	if g.cfg.Policy == config.PolicyOpen {
		g.tree.activateAll()
	} else {
		g.tree.activatePath(0)
	}

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
		return true
	case scene.CollectLeaf:
		return g.collect(in.NodeID)
	case scene.TouchHazard:
		return g.touchHazard(in.NodeID)
	default:
		return false
	}
}

// collect handles a leaf artifact pickup.
func (g *Game) collect(id string) bool {
	if g.phase != scene.PhaseExploring {
		return false
	}
	idx := g.tree.find(id)
	if idx < 0 {
		return false
	}
	nd := &g.tree.nodes[idx]
	if !nd.leaf || !nd.active || nd.visited {
		return false
	}

	nd.visited = true
	nd.value = nd.n
	g.collected++
	g.log(fmt.Sprintf("%s returns %d", nd.label(), nd.value))
	g.resolved(idx)

	root := g.tree.root()
	if root.visited && g.collected == g.tree.leaves {
		g.phase = scene.PhaseComplete
		g.log(fmt.Sprintf("Final result: fib(%d) = %d", g.cfg.N, root.value))
		g.emit()
		g.emitter.Finish(g.cfg.Score)
		return true
	}

	g.emit()
	return true
}

// resolved runs after node idx has returned: it opens the right sibling of a
// left child and resolves the parent once both children are visited.
func (g *Game) resolved(idx int) {
	g.focus = idx
	nd := g.tree.nodes[idx]
	if nd.parent < 0 {
		return
	}
	parent := &g.tree.nodes[nd.parent]

	if g.cfg.Policy == config.PolicyLeftmost && g.tree.isLeftChild(idx) {
		g.tree.activatePath(parent.right)
	}

	if parent.visited || !g.tree.childrenVisited(nd.parent) {
		return
	}

	l := g.tree.nodes[parent.left]
	r := g.tree.nodes[parent.right]
	parent.visited = true
	parent.value = l.value + r.value
	g.log(fmt.Sprintf("%s = %s + %s = %d", parent.label(), l.label(), r.label(), parent.value))
	g.resolved(nd.parent)
}

// touchHazard handles contact with the thorns on a platform that is not
// part of the open path. The player respawns; the tree is kept.
func (g *Game) touchHazard(id string) bool {
	if g.phase != scene.PhaseExploring {
		return false
	}
	idx := g.tree.find(id)
	if idx < 0 {
		return false
	}
	nd := g.tree.nodes[idx]
	if nd.leaf || nd.active {
		return false
	}

	g.respawns++
	g.emit()
	return true
}

// Update implements scene.Engine. The Fibonacci scene has no timed transitions.
func (g *Game) Update(time.Duration) {}

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
	g.emitter.Close()
	g.started = false
}

func (g *Game) log(text string) {
	for i := range g.frames {
		g.frames[i].Active = false
	}
	g.frames = append(g.frames, scene.Frame{Text: text, Active: true, Return: true})
}

func (g *Game) emit() {
	g.emitter.Changed(g.State())
}
