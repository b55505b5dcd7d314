package config

import (
	_ "embed"
	"time"
)

//go:embed defaults/algoquest.yaml
var defaultYAML []byte

// Default returns the hard-coded configuration. It matches the embedded YAML
// and is used when the embedded document cannot be parsed.
func Default() Config {
	return Config{
		Database: DatabaseConfig{
			Path: "~/.algoquest/progress.db",
		},
		Runtime: RuntimeConfig{
			TickRate: 30,
		},
		Player: PlayerConfig{
			Username: "Algorithm Explorer",
		},
		Factorial: FactorialConfig{
			Depth:           5,
			ReturnDelay:     time.Second,
			TravelTime:      700 * time.Millisecond,
			CompletionDelay: 1500 * time.Millisecond,
			FallResetY:      1000,
			FallResetTime:   2 * time.Second,
			Score:           100,
		},
		Fibonacci: FibonacciConfig{
			N:      5,
			Policy: PolicyLeftmost,
			Score:  100,
		},
		BubbleSort: BubbleSortConfig{
			Initial:    []int{5, 4, 3, 2, 1, 0},
			Attempts:   3,
			ResetDelay: time.Second,
		},
	}
}

// DefaultYAML returns the embedded default document.
func DefaultYAML() []byte {
	return defaultYAML
}
