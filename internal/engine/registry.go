package engine

import (
	"fmt"
	"io"
	"sort"

	"github.com/agnivade/levenshtein"

	"github.com/jask/dockyard/internal/binding"
	"github.com/jask/dockyard/internal/layout"
)

// Factory builds content for one container.
type Factory func(c *binding.Container, item layout.ResolvedItem) (binding.BoundComponent, error)

// Registry maps component type names to factories.
type Registry struct {
	factories map[string]Factory
}

func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

func (r *Registry) Register(componentType string, f Factory) error {
	if componentType == "" || f == nil {
		return fmt.Errorf("register component type: name and factory are required")
	}
	if _, ok := r.factories[componentType]; ok {
		return fmt.Errorf("register component type %q: already registered", componentType)
	}
	r.factories[componentType] = f
	return nil
}

func (r *Registry) Lookup(componentType string) (Factory, bool) {
	f, ok := r.factories[componentType]
	return f, ok
}

func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// CheckType reports an *UnknownTypeError, with the closest registered name
// when one is near enough, for types the registry cannot build.
func (r *Registry) CheckType(componentType string) error {
	if _, ok := r.factories[componentType]; ok {
		return nil
	}
	return &UnknownTypeError{Name: componentType, Suggestion: closest(componentType, r.Names())}
}

func closest(name string, candidates []string) string {
	best, bestDist := "", -1
	for _, c := range candidates {
		d := levenshtein.ComputeDistance(name, c)
		if bestDist < 0 || d < bestDist {
			best, bestDist = c, d
		}
	}
	if bestDist < 0 || bestDist > max(2, len(name)/3) {
		return ""
	}
	return best
}

// RegistryHost binds content through the registry's factories. Components
// that implement io.Closer are closed on unbind.
func RegistryHost(r *Registry) binding.Host {
	return binding.HostFuncs{
		Bind: func(c *binding.Container, item layout.ResolvedItem) (binding.BoundComponent, error) {
			f, ok := r.Lookup(item.ComponentType)
			if !ok {
				return binding.BoundComponent{}, r.CheckType(item.ComponentType)
			}
			return f(c, item)
		},
		Unbind: func(c *binding.Container) error {
			if closer, ok := c.Component().(io.Closer); ok {
				return closer.Close()
			}
			return nil
		},
	}
}
