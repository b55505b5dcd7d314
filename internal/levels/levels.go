// Package levels provides the static level catalog: which algorithm each level
// teaches, its maximum score, the level that unlocks it, and the text shown
// to the player before and during play.
package levels

import (
	"errors"
	"fmt"

	"github.com/vovakirdan/algoquest/internal/scene"
)

// ErrUnknownLevel is returned for level ids missing from the catalog.
var ErrUnknownLevel = errors.New("unknown level")

// Difficulty is the advertised difficulty of a level.
type Difficulty string

const (
	Beginner     Difficulty = "beginner"
	Intermediate Difficulty = "intermediate"
	Advanced     Difficulty = "advanced"
)

// Control describes one key binding shown on the level card.
type Control struct {
	Label string `yaml:"label" json:"label"`
	Value string `yaml:"value" json:"value"`
}

// Meta is the immutable description of a level.
type Meta struct {
	ID              int        `yaml:"id" json:"id" validate:"gte=1"`
	Name            string     `yaml:"name" json:"name" validate:"required"`
	Title           string     `yaml:"title" json:"title"`
	Description     string     `yaml:"description" json:"description"`
	Algorithm       scene.Kind `yaml:"algorithm" json:"algorithm" validate:"oneof=factorial fibonacci bubblesort"`
	Difficulty      Difficulty `yaml:"difficulty" json:"difficulty" validate:"oneof=beginner intermediate advanced"`
	MaxScore        int        `yaml:"max_score" json:"maxScore" validate:"gt=0"`
	TimeComplexity  string     `yaml:"time_complexity" json:"timeComplexity"`
	SpaceComplexity string     `yaml:"space_complexity" json:"spaceComplexity"`
	Tutorial        string     `yaml:"tutorial" json:"tutorial,omitempty"`
	Objective       string     `yaml:"objective" json:"objective,omitempty"`
	Controls        []Control  `yaml:"controls" json:"controls"`
	Hints           []string   `yaml:"hints" json:"hints,omitempty"`

	// UnlocksAtLevel is the id of the level that must be completed first.
	// Zero means the level is always playable.
	UnlocksAtLevel int `yaml:"unlocks_at_level" json:"unlocksAtLevel,omitempty" validate:"gte=0,ltfield=ID"`
}

// HasPredecessor reports whether the level is gated behind another one.
func (m Meta) HasPredecessor() bool {
	return m.UnlocksAtLevel != 0
}

// Catalog is an ordered, read-only set of levels.
type Catalog struct {
	levels []Meta
	byID   map[int]int
}

// Get returns the level with the given id.
func (c *Catalog) Get(id int) (Meta, error) {
	m, ok := c.Lookup(id)
	if !ok {
		return Meta{}, fmt.Errorf("levels: level %d: %w", id, ErrUnknownLevel)
	}
	return m, nil
}

// Lookup returns the level with the given id and whether it exists.
func (c *Catalog) Lookup(id int) (Meta, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Meta{}, false
	}
	return c.levels[i], true
}

// All returns every level in play order.
func (c *Catalog) All() []Meta {
	out := make([]Meta, len(c.levels))
	copy(out, c.levels)
	return out
}

// Len returns the number of levels.
func (c *Catalog) Len() int {
	return len(c.levels)
}

// First returns the opening level.
func (c *Catalog) First() Meta {
	return c.levels[0]
}

// Next returns the level following id in play order.
func (c *Catalog) Next(id int) (Meta, bool) {
	i, ok := c.byID[id]
	if !ok || i+1 >= len(c.levels) {
		return Meta{}, false
	}
	return c.levels[i+1], true
}

// IsUnlocked reports whether level id is playable given the completion
// history. Unknown levels are never unlocked.
func (c *Catalog) IsUnlocked(id int, completed func(levelID int) bool) bool {
	m, ok := c.Lookup(id)
	if !ok {
		return false
	}
	if !m.HasPredecessor() {
		return true
	}
	return completed != nil && completed(m.UnlocksAtLevel)
}

// MaxScore returns the maximum score of level id.
func (c *Catalog) MaxScore(id int) (int, bool) {
	m, ok := c.Lookup(id)
	return m.MaxScore, ok
}

// AlgorithmOf returns the algorithm taught by level id.
func (c *Catalog) AlgorithmOf(id int) (scene.Kind, bool) {
	m, ok := c.Lookup(id)
	return m.Algorithm, ok
}
