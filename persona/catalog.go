package persona

import (
	"fmt"
	"os"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/crewkit-ai/crewkit/core"
)

// Catalog is a directory of personas keyed by name. It is safe for concurrent
// use; personas are treated as immutable once added.
type Catalog struct {
	mu       sync.RWMutex
	personas map[string]core.Persona
}

// NewCatalog constructs an empty catalog, optionally seeded with personas.
func NewCatalog(personas ...core.Persona) *Catalog {
	c := &Catalog{personas: make(map[string]core.Persona, len(personas))}
	for _, p := range personas {
		c.personas[p.Name] = p
	}
	return c
}

// Add inserts or replaces a persona by name. An empty name is rejected.
func (c *Catalog) Add(p core.Persona) error {
	if p.Name == "" {
		return fmt.Errorf("persona name must not be empty")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.personas[p.Name] = p
	return nil
}

// Get returns the persona and an existence flag.
func (c *Catalog) Get(name string) (core.Persona, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	p, ok := c.personas[name]
	return p, ok
}

// Names returns the sorted persona names in the catalog.
func (c *Catalog) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	names := make([]string, 0, len(c.personas))
	for name := range c.personas {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of personas in the catalog.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.personas)
}

// catalogFile is the on-disk YAML shape of a persona catalog.
type catalogFile struct {
	Personas []core.Persona `yaml:"personas"`
}

// LoadCatalog reads a YAML persona catalog from path. Duplicate names are
// rejected so a misconfigured file fails at load rather than at session
// creation.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read persona catalog: %w", err)
	}
	return ParseCatalog(data)
}

// ParseCatalog parses a YAML persona catalog from raw bytes.
func ParseCatalog(data []byte) (*Catalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse persona catalog: %w", err)
	}
	c := NewCatalog()
	for _, p := range f.Personas {
		if p.Name == "" {
			return nil, fmt.Errorf("persona catalog entry missing name")
		}
		if _, exists := c.Get(p.Name); exists {
			return nil, fmt.Errorf("duplicate persona %q in catalog", p.Name)
		}
		if err := c.Add(p); err != nil {
			return nil, err
		}
	}
	return c, nil
}
