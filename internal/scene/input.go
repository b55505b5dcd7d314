package scene

// Input is a discrete player input reported by the presentation layer.
// The set of inputs is closed; each engine accepts the subset it understands.
type Input interface {
	input()
}

// Direction is a horizontal direction.
type Direction int

const (
	DirLeft  Direction = -1
	DirRight Direction = 1
)

// String returns a human-readable name for the direction.
func (d Direction) String() string {
	switch d {
	case DirLeft:
		return "left"
	case DirRight:
		return "right"
	default:
		return "none"
	}
}

// Move is a horizontal movement request. Movement itself is resolved by the
// presentation's physics; engines only validate that the scene is live.
type Move struct {
	Dir Direction
}

// Jump is a jump request.
type Jump struct{}

// ReachPlatform reports that the player landed on the platform at Depth.
type ReachPlatform struct {
	Depth int
}

// ReportPosition reports the player's vertical position for fall detection.
// Larger Y is further down.
type ReportPosition struct {
	Y float64
}

// CollectLeaf reports that the player touched the artifact on a leaf node.
type CollectLeaf struct {
	NodeID string
}

// TouchHazard reports that the player touched the thorns of a node.
type TouchHazard struct {
	NodeID string
}

// ShiftWindow moves the visible window by one index.
type ShiftWindow struct {
	Dir Direction
}

// Swap exchanges the two visible values.
type Swap struct{}

// Verify asks the engine to check the hidden array.
type Verify struct{}

func (Move) input()           {}
func (Jump) input()           {}
func (ReachPlatform) input()  {}
func (ReportPosition) input() {}
func (CollectLeaf) input()    {}
func (TouchHazard) input()    {}
func (ShiftWindow) input()    {}
func (Swap) input()           {}
func (Verify) input()         {}
