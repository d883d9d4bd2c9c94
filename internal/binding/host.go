package binding

import "github.com/jask/dockyard/internal/layout"

// BoundComponent is what a host hands back for a container. Virtual content
// positions itself from the recting events; embedded content is laid out by
// the host from Container.Rect.
type BoundComponent struct {
	Component any
	Virtual   bool
}

// Host owns panel content. Both calls are synchronous and must not mutate
// the layout.
type Host interface {
	BindComponent(c *Container, item layout.ResolvedItem) (BoundComponent, error)
	UnbindComponent(c *Container) error
}

// HostFuncs adapts a pair of functions to Host.
type HostFuncs struct {
	Bind   func(c *Container, item layout.ResolvedItem) (BoundComponent, error)
	Unbind func(c *Container) error
}

func (h HostFuncs) BindComponent(c *Container, item layout.ResolvedItem) (BoundComponent, error) {
	return h.Bind(c, item)
}

func (h HostFuncs) UnbindComponent(c *Container) error {
	if h.Unbind == nil {
		return nil
	}
	return h.Unbind(c)
}
