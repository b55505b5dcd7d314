package core

// Color is a semantic foreground color of a screen cell. The terminal layer
// maps each value to a concrete ANSI color.
type Color uint8

const (
	ColorDefault Color = iota
	ColorDim           // inactive platforms, hidden values
	ColorPlayer        // the explorer
	ColorActive        // reachable platforms, the current frame
	ColorArtifact      // leaves and the base case
	ColorResolved      // returned values
	ColorHazard        // thorns
	ColorAccent        // titles and the visible window
	ColorWarning       // failed verification
)
