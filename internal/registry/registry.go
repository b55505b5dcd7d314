// Package registry provides a global registry for scene engine factories.
// Engines register themselves in init() functions, allowing the session
// controller to instantiate the scene for a level without hardcoded imports.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/vovakirdan/algoquest/internal/config"
	"github.com/vovakirdan/algoquest/internal/scene"
)

// Factory creates a new engine instance from the loaded configuration.
type Factory func(cfg config.Config) scene.Engine

var (
	factories = make(map[scene.Kind]Factory)
	mu        sync.RWMutex
)

// Register adds an engine factory to the registry.
// Typically called from an engine package's init() function.
// Panics if a factory for the same kind is already registered.
func Register(kind scene.Kind, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := factories[kind]; exists {
		panic(fmt.Sprintf("registry: engine %q already registered", kind))
	}
	factories[kind] = f
}

// Kinds returns the registered kinds, sorted.
func Kinds() []scene.Kind {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]scene.Kind, 0, len(factories))
	for k := range factories {
		result = append(result, k)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i] < result[j]
	})
	return result
}

// Create instantiates a new engine of the given kind.
// Returns an error if no factory is registered for it.
func Create(kind scene.Kind, cfg config.Config) (scene.Engine, error) {
	mu.RLock()
	defer mu.RUnlock()

	f, ok := factories[kind]
	if !ok {
		return nil, fmt.Errorf("registry: unknown engine %q", kind)
	}
	return f(cfg), nil
}

// Exists checks if an engine of the given kind is registered.
func Exists(kind scene.Kind) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := factories[kind]
	return ok
}
