package engine

import (
	"fmt"
	"sort"
	"sync"
)

// GraphFactory builds the compiled graph for one use case configuration
type GraphFactory func() (*Graph, error)

// Registry maps use case identifiers to compiled workflow graphs. It is the
// sole extension point for adding workflows: register a factory and the
// executor never changes. Graphs are built at registration time, so
// definition errors surface before the use case can be resolved, and the
// compiled graph is cached since it is immutable and state is always fresh.
type Registry struct {
	mu     sync.RWMutex
	graphs map[string]*Graph
}

// NewRegistry creates an empty workflow registry
func NewRegistry() *Registry {
	return &Registry{
		graphs: make(map[string]*Graph),
	}
}

// Register builds the factory's graph and registers it under the use case
// id. A GraphDefinitionError from the factory prevents registration.
func (r *Registry) Register(useCaseID string, factory GraphFactory) error {
	if useCaseID == "" {
		return fmt.Errorf("use case id is required")
	}
	graph, err := factory()
	if err != nil {
		return fmt.Errorf("failed to build graph for use case %s: %w", useCaseID, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.graphs[useCaseID]; exists {
		return fmt.Errorf("use case %s is already registered", useCaseID)
	}
	r.graphs[useCaseID] = graph
	return nil
}

// Resolve returns the compiled graph for the use case id, or
// ErrUnknownUseCase for an unrecognized identifier.
func (r *Registry) Resolve(useCaseID string) (*Graph, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	graph, ok := r.graphs[useCaseID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownUseCase, useCaseID)
	}
	return graph, nil
}

// List returns the registered use case ids, sorted
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.graphs))
	for id := range r.graphs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
