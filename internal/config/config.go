// Package config provides YAML-based configuration loading for the
// algorithm scenes, the play loop and persistence.
package config

import "time"

// Config is the root configuration document.
type Config struct {
	Database   DatabaseConfig   `yaml:"database"`
	Runtime    RuntimeConfig    `yaml:"runtime"`
	Player     PlayerConfig     `yaml:"player"`
	Factorial  FactorialConfig  `yaml:"factorial"`
	Fibonacci  FibonacciConfig  `yaml:"fibonacci"`
	BubbleSort BubbleSortConfig `yaml:"bubblesort"`
}

// DatabaseConfig locates the progress database.
type DatabaseConfig struct {
	Path string `yaml:"path" validate:"required"`
}

// RuntimeConfig tunes the play loop.
type RuntimeConfig struct {
	TickRate int `yaml:"tick_rate" validate:"gte=1,lte=240"`
}

// PlayerConfig seeds a fresh profile.
type PlayerConfig struct {
	Username string `yaml:"username" validate:"required,max=64"`
}

// FactorialConfig defines the recursion-descent scene.
type FactorialConfig struct {
	Depth           int           `yaml:"depth" validate:"gte=1,lte=10"`    // N in factorial(N)
	ReturnDelay     time.Duration `yaml:"return_delay" validate:"gte=0"`    // pause before each return step
	TravelTime      time.Duration `yaml:"travel_time" validate:"gte=0"`     // time to float up one platform
	CompletionDelay time.Duration `yaml:"completion_delay" validate:"gte=0"` // pause before the score is reported
	FallResetY      float64       `yaml:"fall_reset_y" validate:"gt=0"`
	FallResetTime   time.Duration `yaml:"fall_reset_time" validate:"gt=0"`
	Score           int           `yaml:"score" validate:"gte=0"`
}

// TraversalPolicy controls which Fibonacci nodes are reachable.
type TraversalPolicy string

const (
	// PolicyLeftmost activates only the left-most unresolved path.
	PolicyLeftmost TraversalPolicy = "leftmost"
	// PolicyOpen activates every node.
	PolicyOpen TraversalPolicy = "open"
)

// FibonacciConfig defines the call-tree scene.
type FibonacciConfig struct {
	N      int             `yaml:"n" validate:"gte=1,lte=8"`
	Policy TraversalPolicy `yaml:"policy" validate:"oneof=leftmost open"`
	Score  int             `yaml:"score" validate:"gte=0"`
}

// BubbleSortConfig defines the windowed sorting puzzle.
type BubbleSortConfig struct {
	Initial    []int         `yaml:"initial" validate:"min=2,max=12"`
	Attempts   int           `yaml:"attempts" validate:"gte=1,lte=9"`
	ResetDelay time.Duration `yaml:"reset_delay" validate:"gte=0"`
}
