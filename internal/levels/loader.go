package levels

import (
	_ "embed"
	"fmt"
	"os"
	"sort"
	"sync"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

//go:embed data/catalog.yaml
var embeddedCatalog []byte

var validate = validator.New()

// document is the on-disk catalog layout.
type document struct {
	Levels []Meta `yaml:"levels" validate:"required,min=1,dive"`
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
)

// Default returns the built-in catalog.
// Panics if the embedded catalog is invalid, which only happens at build time.
func Default() *Catalog {
	defaultOnce.Do(func() {
		c, err := Parse(embeddedCatalog)
		if err != nil {
			panic(fmt.Sprintf("levels: embedded catalog: %v", err))
		}
		defaultCatalog = c
	})
	return defaultCatalog
}

// LoadFile reads a catalog from a YAML file.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("levels: reading %s: %w", path, err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("levels: parsing %s: %w", path, err)
	}
	return c, nil
}

// Parse builds a catalog from YAML. Levels are ordered by id; ids must be
// unique and every predecessor must exist.
func Parse(data []byte) (*Catalog, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("levels: invalid yaml: %w", err)
	}
	if err := validate.Struct(doc); err != nil {
		return nil, fmt.Errorf("levels: invalid catalog: %w", err)
	}
	return New(doc.Levels)
}

// New builds a catalog from level definitions.
func New(metas []Meta) (*Catalog, error) {
	if len(metas) == 0 {
		return nil, fmt.Errorf("levels: catalog is empty")
	}

	sorted := make([]Meta, len(metas))
	copy(sorted, metas)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].ID < sorted[j].ID
	})

	c := &Catalog{levels: sorted, byID: make(map[int]int, len(sorted))}
	for i, m := range sorted {
		if _, dup := c.byID[m.ID]; dup {
			return nil, fmt.Errorf("levels: duplicate level id %d", m.ID)
		}
		c.byID[m.ID] = i
	}
	for _, m := range sorted {
		if !m.HasPredecessor() {
			continue
		}
		if _, ok := c.byID[m.UnlocksAtLevel]; !ok {
			return nil, fmt.Errorf("levels: level %d unlocks at missing level %d", m.ID, m.UnlocksAtLevel)
		}
	}
	if sorted[0].HasPredecessor() {
		return nil, fmt.Errorf("levels: first level %d must not require another level", sorted[0].ID)
	}
	return c, nil
}
