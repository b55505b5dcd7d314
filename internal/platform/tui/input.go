package tui

import (
	"github.com/vovakirdan/algoquest/internal/core"
	"github.com/vovakirdan/algoquest/internal/games/bubblesort"
	"github.com/vovakirdan/algoquest/internal/games/factorial"
	"github.com/vovakirdan/algoquest/internal/games/fibonacci"
	"github.com/vovakirdan/algoquest/internal/scene"
)

// pointer is the explorer's position where the terminal has no physics:
// the selected leaf in the call tree.
type pointer struct {
	leaf int
}

// selected returns the id of the selected collectable leaf, clamping the
// pointer into the current list.
func (p *pointer) selected(s fibonacci.Snapshot) (string, bool) {
	leaves := s.CollectableLeaves()
	if len(leaves) == 0 {
		p.leaf = 0
		return "", false
	}
	p.leaf = core.Clamp(p.leaf, 0, len(leaves)-1)
	return leaves[p.leaf], true
}

// translate turns an action into the input the active scene understands.
// ok is false when the action means nothing to the scene.
func translate(a core.Action, snap scene.Snapshot, p *pointer) (scene.Input, bool) {
	switch s := snap.(type) {
	case factorial.Snapshot:
		return factorialInput(a, s)
	case fibonacci.Snapshot:
		return fibonacciInput(a, s, p)
	case bubblesort.Snapshot:
		return bubbleSortInput(a)
	}
	return nil, false
}

func factorialInput(a core.Action, s factorial.Snapshot) (scene.Input, bool) {
	switch a {
	case core.ActionLeft:
		return scene.Move{Dir: scene.DirLeft}, true
	case core.ActionRight:
		return scene.Move{Dir: scene.DirRight}, true
	case core.ActionJump:
		return scene.Jump{}, true
	case core.ActionDown:
		return scene.ReachPlatform{Depth: s.Depth + 1}, true
	}
	return nil, false
}

func fibonacciInput(a core.Action, s fibonacci.Snapshot, p *pointer) (scene.Input, bool) {
	switch a {
	case core.ActionLeft:
		p.leaf--
		p.selected(s)
		return scene.Move{Dir: scene.DirLeft}, true
	case core.ActionRight:
		p.leaf++
		p.selected(s)
		return scene.Move{Dir: scene.DirRight}, true
	case core.ActionJump:
		return scene.Jump{}, true
	case core.ActionConfirm:
		id, ok := p.selected(s)
		if !ok {
			return nil, false
		}
		return scene.CollectLeaf{NodeID: id}, true
	}
	return nil, false
}

func bubbleSortInput(a core.Action) (scene.Input, bool) {
	switch a {
	case core.ActionLeft:
		return scene.ShiftWindow{Dir: scene.DirLeft}, true
	case core.ActionRight:
		return scene.ShiftWindow{Dir: scene.DirRight}, true
	case core.ActionSwap:
		return scene.Swap{}, true
	case core.ActionVerify:
		return scene.Verify{}, true
	}
	return nil, false
}
