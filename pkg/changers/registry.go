package changers

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/devrig/devrig/pkg/engine"
	"github.com/devrig/devrig/pkg/shell"
	"github.com/devrig/devrig/pkg/telemetry"
)

// Factory constructs a StateChanger wired with the given dependencies.
type Factory func(log *telemetry.Logger, runner shell.Runner) engine.StateChanger

// Registry maps changer names to factories. It is the explicit table the
// CLI resolves `apply`/`rollback` names against; there is no implicit
// registration, every entry is added by a Register call.
type Registry struct {
	// mu protects the factories map.
	mu sync.RWMutex

	factories map[string]Factory
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Builtin returns a registry with the changers that ship with devrig.
func Builtin() *Registry {
	r := NewRegistry()
	// Registration errors are impossible here: the names are distinct
	// compile-time constants.
	_ = r.Register("k9s", func(log *telemetry.Logger, runner shell.Runner) engine.StateChanger {
		return NewK9s(log, runner)
	})
	_ = r.Register("lazygit", func(log *telemetry.Logger, runner shell.Runner) engine.StateChanger {
		return NewLazygit(log, runner)
	})
	return r
}

// Register adds a named factory. Duplicate names are rejected.
func (r *Registry) Register(name string, factory Factory) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if name == "" {
		return fmt.Errorf("changer name is required")
	}
	if _, exists := r.factories[name]; exists {
		return fmt.Errorf("changer %q is already registered", name)
	}
	r.factories[name] = factory
	return nil
}

// Resolve builds the changer registered under name. An unknown name
// produces an error listing the valid names.
func (r *Registry) Resolve(name string, log *telemetry.Logger, runner shell.Runner) (engine.StateChanger, error) {
	r.mu.RLock()
	factory, ok := r.factories[name]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("unknown changer %q (valid names: %s)", name, strings.Join(r.Names(), ", "))
	}
	return factory(log, runner), nil
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Entry describes one registered changer for listing surfaces.
type Entry struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
}

// Entries builds every registered changer and returns its name and
// description, sorted by name.
func (r *Registry) Entries(log *telemetry.Logger, runner shell.Runner) []Entry {
	names := r.Names()
	entries := make([]Entry, 0, len(names))
	for _, name := range names {
		changer, err := r.Resolve(name, log, runner)
		if err != nil {
			continue
		}
		entries = append(entries, Entry{Name: name, Description: changer.Description()})
	}
	return entries
}
