package engines

import (
	"embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed config/*.yaml
var configFiles embed.FS

// DefaultEngine is used when a request does not name an engine.
const DefaultEngine = "auto"

// Registry holds the remote conversion engines and the format pairs
// each supports, loaded from the embedded YAML.
type Registry struct {
	engines map[string]*Engine
	order   []string
	mu      sync.RWMutex
}

// NewRegistry creates a registry from the embedded engine definitions.
func NewRegistry() (*Registry, error) {
	data, err := configFiles.ReadFile("config/engines.yaml")
	if err != nil {
		return nil, fmt.Errorf("failed to read engine config: %w", err)
	}

	var file engineFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to unmarshal engine config: %w", err)
	}
	if len(file.Engines) == 0 {
		return nil, fmt.Errorf("engine config defines no engines")
	}

	r := &Registry{engines: make(map[string]*Engine, len(file.Engines))}
	for i := range file.Engines {
		engine := file.Engines[i]
		r.engines[engine.ID] = &engine
		r.order = append(r.order, engine.ID)
	}
	return r, nil
}

// Get returns an engine definition by id.
func (r *Registry) Get(id string) (*Engine, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	engine, ok := r.engines[id]
	if !ok {
		return nil, fmt.Errorf("unknown conversion engine: %s", id)
	}
	return engine, nil
}

// List returns all engine ids in definition order.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.order...)
}

// Validate checks that the engine exists and supports the format pair.
func (r *Registry) Validate(id, source, target string) error {
	engine, err := r.Get(id)
	if err != nil {
		return err
	}
	for _, pair := range engine.Pairs {
		if pair.Source == source && pair.Target == target {
			return nil
		}
	}
	return fmt.Errorf("engine %s cannot convert %s to %s", id, source, target)
}
