package fibonacci

import (
	"github.com/vovakirdan/algoquest/internal/config"
	"github.com/vovakirdan/algoquest/internal/scene"
)

// NodeView is a visible platform of the call tree.
type NodeView struct {
	ID       string
	Label    string // "fib(k)"
	N        int
	Depth    int
	Parent   string // empty for the root
	Leaf     bool
	Visited  bool
	Value    int // valid when Visited
	Focused  bool
	Children []string
}

// Snapshot captures the renderable scene state. Only active nodes are listed;
// platforms off the open path are reported as hazards.
type Snapshot struct {
	Phase       scene.Phase
	N           int
	Policy      config.TraversalPolicy
	Nodes       []NodeView
	Hazards     []string // ids of inactive internal nodes
	Collected   int
	TotalLeaves int
	RootValue   int
	Resolved    bool
	Frames      []scene.Frame
	Respawns    int
}

// Kind implements scene.Snapshot.
func (Snapshot) Kind() scene.Kind {
	return scene.KindFibonacci
}

// State returns the current snapshot.
func (g *Game) State() Snapshot {
	snap := Snapshot{
		Phase:    g.phase,
		N:        g.cfg.N,
		Policy:   g.cfg.Policy,
		Respawns: g.respawns,
	}
	if g.tree == nil {
		return snap
	}

	for i, nd := range g.tree.nodes {
		if !nd.active {
			if !nd.leaf {
				snap.Hazards = append(snap.Hazards, nd.id)
			}
			continue
		}
		view := NodeView{
			ID:      nd.id,
			Label:   nd.label(),
			N:       nd.n,
			Depth:   nd.depth,
			Leaf:    nd.leaf,
			Visited: nd.visited,
			Value:   nd.value,
			Focused: i == g.focus,
		}
		if nd.parent >= 0 {
			view.Parent = g.tree.nodes[nd.parent].id
		}
		if !nd.leaf {
			view.Children = []string{g.tree.nodes[nd.left].id, g.tree.nodes[nd.right].id}
		}
		snap.Nodes = append(snap.Nodes, view)
	}

	root := g.tree.root()
	snap.Collected = g.collected
	snap.TotalLeaves = g.tree.leaves
	snap.Resolved = root.visited
	snap.RootValue = root.value
	snap.Frames = make([]scene.Frame, len(g.frames))
	copy(snap.Frames, g.frames)
	return snap
}

// CollectableLeaves returns the ids of active leaves not yet collected,
// in left-to-right order.
func (s Snapshot) CollectableLeaves() []string {
	var ids []string
	for _, n := range s.Nodes {
		if n.Leaf && !n.Visited {
			ids = append(ids, n.ID)
		}
	}
	return ids
}

// Node returns the visible node with the given id.
func (s Snapshot) Node(id string) (NodeView, bool) {
	for _, n := range s.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return NodeView{}, false
}
