package fibonacci

import "fmt"

// node is one call fib(N) in the recursion tree.
type node struct {
	id      string
	n       int
	depth   int
	value   int
	leaf    bool
	visited bool
	active  bool
	parent  int // -1 for the root
	left    int // -1 for leaves
	right   int
}

// tree is the full call tree of fib(n), nodes stored in pre-order.
type tree struct {
	nodes  []node
	leaves int
}

// buildTree expands fib(n) into its call tree. Calls with n < 2 are leaves
// returning n.
func buildTree(n int) *tree {
	t := &tree{}
	t.add(n, 0, -1)
	return t
}

func (t *tree) add(n, depth, parent int) int {
	idx := len(t.nodes)
	t.nodes = append(t.nodes, node{
		id:     fmt.Sprintf("n%d", idx),
		n:      n,
		depth:  depth,
		parent: parent,
		left:   -1,
		right:  -1,
	})

	if n < 2 {
		t.nodes[idx].leaf = true
		t.leaves++
		return idx
	}

	left := t.add(n-1, depth+1, idx)
	right := t.add(n-2, depth+1, idx)
	t.nodes[idx].left = left
	t.nodes[idx].right = right
	return idx
}

// find returns the index of the node with the given id, or -1.
func (t *tree) find(id string) int {
	for i := range t.nodes {
		if t.nodes[i].id == id {
			return i
		}
	}
	return -1
}

// root returns the root node.
func (t *tree) root() *node {
	return &t.nodes[0]
}

// activatePath marks idx and its left-most descendant path active.
func (t *tree) activatePath(idx int) {
	for idx >= 0 {
		t.nodes[idx].active = true
		idx = t.nodes[idx].left
	}
}

// activateAll marks every node active.
func (t *tree) activateAll() {
	for i := range t.nodes {
		t.nodes[i].active = true
	}
}

// isLeftChild reports whether idx is the left child of its parent.
func (t *tree) isLeftChild(idx int) bool {
	p := t.nodes[idx].parent
	return p >= 0 && t.nodes[p].left == idx
}

// childrenVisited reports whether every child of idx has resolved.
func (t *tree) childrenVisited(idx int) bool {
	nd := t.nodes[idx]
	return t.nodes[nd.left].visited && t.nodes[nd.right].visited
}

func (n *node) label() string {
	return fmt.Sprintf("fib(%d)", n.n)
}
