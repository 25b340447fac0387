package backends

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/splitq/wirecut/internal/domain"
)

// Backend executes one circuit for a shot count and returns its outcome
// histogram. Implementations are stateless per call and safe for
// concurrent use.
type Backend interface {
	Name() string
	Execute(ctx context.Context, circuit domain.Circuit, shots int64) (domain.Counts, error)
}

// Registry maps backend names to implementations so the execution driver
// can be pointed at a different backend through configuration.
type Registry struct {
	mu       sync.RWMutex
	backends map[string]Backend
}

// NewRegistry creates an empty backend registry.
func NewRegistry() *Registry {
	return &Registry{backends: make(map[string]Backend)}
}

// Register adds a backend under its own name.
func (r *Registry) Register(b Backend) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.backends[b.Name()] = b
}

// Get returns the backend registered under name.
func (r *Registry) Get(name string) (Backend, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.backends[name]
	if !ok {
		return nil, fmt.Errorf("unknown backend %q", name)
	}
	return b, nil
}

// List returns the registered backend names, sorted.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.backends))
	for name := range r.backends {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
